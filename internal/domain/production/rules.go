// Package production contém as regras de validação dos apontamentos de produção.
package production

import (
	"fmt"
	"time"

	"github.com/jhoicas/exp-usinagem-api/internal/domain"
	"github.com/jhoicas/exp-usinagem-api/internal/domain/entity"
)

// DefaultMinInspectionPieces quantidade mínima inspecionada por pedido.
const DefaultMinInspectionPieces int64 = 20

// Rules regras configuráveis do apontamento.
type Rules struct {
	MinInspectionPieces int64
}

// NewRules aplica o padrão quando minPieces <= 0.
func NewRules(minPieces int64) Rules {
	if minPieces <= 0 {
		minPieces = DefaultMinInspectionPieces
	}
	return Rules{MinInspectionPieces: minPieces}
}

// Entry dados mínimos de um apontamento para validação.
type Entry struct {
	Pieces     int64
	StartedAt  *time.Time
	FinishedAt *time.Time
}

// Split divisão de um apontamento entre inspeção e embalagem.
type Split struct {
	Inspection int64
	Packaging  int64
}

// ValidateEntry quantidade positiva e janela de tempo completa (fim >= início).
func (r Rules) ValidateEntry(e Entry) error {
	if e.Pieces <= 0 {
		return domain.NewValidationError("quantity_pieces", "a quantidade deve ser maior que zero")
	}
	if e.StartedAt == nil || e.StartedAt.IsZero() {
		return domain.NewValidationError("started_at", "informe o início da produção")
	}
	if e.FinishedAt == nil || e.FinishedAt.IsZero() {
		return domain.NewValidationError("finished_at", "informe o fim da produção")
	}
	if e.FinishedAt.Before(*e.StartedAt) {
		return domain.NewValidationError("finished_at", "o fim não pode ser anterior ao início")
	}
	return nil
}

// required peças que a inspeção precisa receber deste apontamento.
func (r Rules) required(inspectedSoFar, total int64) int64 {
	need := r.MinInspectionPieces - inspectedSoFar
	if need < 0 {
		need = 0
	}
	if need > total {
		need = total
	}
	return need
}

// SplitForInspection enquanto o pedido não atinge o mínimo, a inspeção recebe o necessário
// para alcançá-lo (limitado ao total do apontamento); o restante vai para embalagem.
func (r Rules) SplitForInspection(inspectedSoFar, total int64) Split {
	if total <= 0 {
		return Split{}
	}
	insp := r.required(inspectedSoFar, total)
	return Split{Inspection: insp, Packaging: total - insp}
}

// ValidateSplit valida uma divisão informada pelo operador.
func (r Rules) ValidateSplit(inspectedSoFar, total int64, s Split) error {
	if s.Inspection < 0 || s.Packaging < 0 {
		return domain.NewValidationError("inspection_pieces", "as quantidades não podem ser negativas")
	}
	if s.Inspection > total {
		return domain.NewValidationError("inspection_pieces", "a quantidade para inspeção excede o total do apontamento")
	}
	if s.Inspection+s.Packaging != total {
		return domain.NewValidationError("inspection_pieces",
			fmt.Sprintf("inspeção (%d) + embalagem (%d) deve ser igual ao total (%d)", s.Inspection, s.Packaging, total))
	}
	if need := r.required(inspectedSoFar, total); s.Packaging > 0 && s.Inspection < need {
		return domain.NewValidationError("inspection_pieces",
			fmt.Sprintf("o pedido precisa de %d pcs na inspeção antes de enviar para embalagem (mínimo %d pcs, já inspecionado %d pcs)",
				need, r.MinInspectionPieces, inspectedSoFar))
	}
	return nil
}

// CheckOverrun rejeita o apontamento que faria o produzido ultrapassar o pedido.
// Pedidos sem quantidade definida não são limitados.
func (r Rules) CheckOverrun(order *entity.Order, pieces int64) error {
	if order.OrderedPieces <= 0 {
		return nil
	}
	remaining := order.OrderedPieces - order.CumulativePieces
	if remaining < 0 {
		remaining = 0
	}
	if pieces > remaining {
		return &domain.OrderOverrunError{
			Ordered:   order.OrderedPieces,
			Produced:  order.CumulativePieces,
			Remaining: remaining,
		}
	}
	return nil
}
