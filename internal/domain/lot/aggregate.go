package lot

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/exp-usinagem-api/internal/domain/entity"
)

// Summary linha agregada por código de lote.
type Summary struct {
	LotCode          string
	LotBatchID       string
	TotalPieces      int64
	InspectionPieces int64
	PackagingPieces  int64
	TotalKg          decimal.Decimal
	StartedAt        *time.Time
	FinishedAt       *time.Time
	Note             string
}

// Availability quantidade disponível de um lote em um estágio.
type Availability struct {
	LotCode    string
	LotBatchID string
	Available  int64
}

// StageTotal totais de um estágio.
type StageTotal struct {
	Pieces int64
	Kg     decimal.Decimal
	Lots   int
}

func unitMatches(m *entity.LotMovement, unit string) bool {
	return unit == "" || m.Unit == unit
}

// Summarize agrupa os movimentos por código de lote, na ordem em que cada lote aparece.
// Com allowedStages, registros de outros estágios são descartados por completo.
// unit vazio considera todas as unidades. A entrada não é modificada.
func Summarize(movements []*entity.LotMovement, unit string, allowedStages ...string) []Summary {
	var filter map[string]struct{}
	if len(allowedStages) > 0 {
		filter = make(map[string]struct{}, len(allowedStages))
		for _, s := range allowedStages {
			filter[s] = struct{}{}
		}
	}

	index := map[string]int{}
	var out []Summary
	for _, m := range movements {
		if m == nil || !unitMatches(m, unit) {
			continue
		}
		if filter != nil {
			if _, ok := filter[m.Stage]; !ok {
				continue
			}
		}
		key := KeyOf(m)
		i, ok := index[key]
		if !ok {
			out = append(out, Summary{LotCode: key, LotBatchID: BatchOf(m), TotalKg: decimal.Zero})
			i = len(out) - 1
			index[key] = i
		}
		s := &out[i]
		s.TotalPieces += m.QuantityPieces
		s.TotalKg = s.TotalKg.Add(m.QuantityKg)
		switch m.Stage {
		case entity.StageParaInspecao, entity.StageInspecao:
			s.InspectionPieces += m.QuantityPieces
		case entity.StageParaEmbarque, entity.StageEmbalagem:
			s.PackagingPieces += m.QuantityPieces
		}
		if m.StartedAt != nil && (s.StartedAt == nil || m.StartedAt.Before(*s.StartedAt)) {
			t := *m.StartedAt
			s.StartedAt = &t
		}
		if m.FinishedAt != nil && (s.FinishedAt == nil || m.FinishedAt.After(*s.FinishedAt)) {
			t := *m.FinishedAt
			s.FinishedAt = &t
		}
		if m.Note != "" {
			s.Note = m.Note
		}
	}

	result := out[:0:0]
	for _, s := range out {
		if s.TotalPieces == 0 && s.InspectionPieces == 0 && s.PackagingPieces == 0 {
			continue
		}
		result = append(result, s)
	}
	return result
}

// AvailableByLot quantidades disponíveis por lote no estágio, na ordem do primeiro registro.
func AvailableByLot(movements []*entity.LotMovement, unit, stage string) []Availability {
	index := map[string]int{}
	var out []Availability
	for _, m := range movements {
		if m == nil || !unitMatches(m, unit) || m.Stage != stage {
			continue
		}
		key := KeyOf(m)
		i, ok := index[key]
		if !ok {
			out = append(out, Availability{LotCode: key, LotBatchID: BatchOf(m)})
			i = len(out) - 1
			index[key] = i
		}
		out[i].Available += m.QuantityPieces
	}
	return out
}

// StageTotals soma peças, kg e lotes distintos por estágio.
func StageTotals(movements []*entity.LotMovement, unit string) map[string]StageTotal {
	totals := map[string]StageTotal{}
	seen := map[string]map[string]struct{}{}
	for _, m := range movements {
		if m == nil || !unitMatches(m, unit) {
			continue
		}
		t, ok := totals[m.Stage]
		if !ok {
			t.Kg = decimal.Zero
			seen[m.Stage] = map[string]struct{}{}
		}
		t.Pieces += m.QuantityPieces
		t.Kg = t.Kg.Add(m.QuantityKg)
		if _, dup := seen[m.Stage][KeyOf(m)]; !dup {
			seen[m.Stage][KeyOf(m)] = struct{}{}
			t.Lots++
		}
		totals[m.Stage] = t
	}
	return totals
}

// InspectedPieces peças já destinadas à inspeção: as que estão em inspeção e as que
// chegaram à embalagem por aprovação (código com tag EMB).
func InspectedPieces(movements []*entity.LotMovement, unit string) int64 {
	var total int64
	for _, m := range movements {
		if m == nil || !unitMatches(m, unit) {
			continue
		}
		switch {
		case m.Stage == entity.StageParaInspecao:
			total += m.QuantityPieces
		case m.Stage == entity.StageParaEmbarque && TagOf(m.LotCode) == TagPackaging:
			total += m.QuantityPieces
		}
	}
	return total
}

// WorkedMinutes soma a duração (fim - início) dos apontamentos, em minutos.
func WorkedMinutes(movements []*entity.LotMovement) float64 {
	var total float64
	for _, m := range movements {
		if m == nil || m.StartedAt == nil || m.FinishedAt == nil {
			continue
		}
		if d := m.FinishedAt.Sub(*m.StartedAt).Minutes(); d > 0 {
			total += d
		}
	}
	return total
}
