// Package lot reúne as regras puras sobre códigos de lote e a agregação de movimentos por lote.
package lot

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/jhoicas/exp-usinagem-api/internal/domain/entity"
)

// Tags de finalidade usadas no sufixo dos lotes.
const (
	TagInspection = "INS"
	TagPackaging  = "EMB"
)

// NoLot chave usada para movimentos gravados sem código de lote.
const NoLot = "(sem lote)"

var suffixPattern = regexp.MustCompile(`-(INS|EMB)-(\d+)$`)

// BaseOf devolve o identificador base de um lote: remove o sufixo -<TAG>-<NN>; sem sufixo,
// usa o lote externo quando informado; caso contrário o próprio código.
func BaseOf(code, external string) string {
	if loc := suffixPattern.FindStringIndex(code); loc != nil {
		return code[:loc[0]]
	}
	if external != "" {
		return external
	}
	return code
}

// TagOf devolve a tag do sufixo (INS/EMB) ou "" quando o código não tem sufixo.
func TagOf(code string) string {
	m := suffixPattern.FindStringSubmatch(code)
	if m == nil {
		return ""
	}
	return m[1]
}

// KeyOf chave de agrupamento por lote de um movimento.
func KeyOf(m *entity.LotMovement) string {
	if m.LotCode == "" {
		return NoLot
	}
	return m.LotCode
}

// BatchOf lote físico do movimento. Registros antigos sem LotBatchID caem no parser.
func BatchOf(m *entity.LotMovement) string {
	if m.LotBatchID != "" {
		return m.LotBatchID
	}
	if b := BaseOf(m.LotCode, ""); b != "" {
		return b
	}
	return NoLot
}

// TagForStage tag de finalidade do estágio de destino ("" se o estágio não tem tag).
func TagForStage(stage string) string {
	switch stage {
	case entity.StageParaInspecao, entity.StageInspecao:
		return TagInspection
	case entity.StageParaEmbarque, entity.StageEmbalagem:
		return TagPackaging
	}
	return ""
}

// SequenceMap maior sequência conhecida por (base, tag). Sempre reconstruído a partir do
// estado persistido antes de gerar códigos; não há contador em cache.
type SequenceMap map[string]int

func seqKey(base, tag string) string { return base + "|" + tag }

// BuildSequenceMap varre os movimentos do pedido e registra a maior sequência por (base, tag).
func BuildSequenceMap(movements []*entity.LotMovement) SequenceMap {
	seq := SequenceMap{}
	for _, m := range movements {
		if m == nil {
			continue
		}
		match := suffixPattern.FindStringSubmatch(m.LotCode)
		if match == nil {
			continue
		}
		n, err := strconv.Atoi(match[2])
		if err != nil {
			continue
		}
		key := seqKey(BatchOf(m), match[1])
		if n > seq[key] {
			seq[key] = n
		}
	}
	return seq
}

// Next gera base-TAG-NN com a próxima sequência e a registra no mapa.
// Devolve false quando base ou tag estão vazios; o chamador deve manter o código original.
func (s SequenceMap) Next(base, tag string) (string, bool) {
	if base == "" || tag == "" {
		return "", false
	}
	key := seqKey(base, tag)
	next := s[key] + 1
	s[key] = next
	return fmt.Sprintf("%s-%s-%02d", base, tag, next), true
}

// NewEntryLotCode código de lote de um novo apontamento: DDMMYYYY-HHMM-<pedido>.
func NewEntryLotCode(now time.Time, orderSeq string) string {
	return now.Format("02012006-1504") + "-" + strings.TrimSpace(orderSeq)
}
