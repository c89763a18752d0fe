package production

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/exp-usinagem-api/internal/domain"
	"github.com/jhoicas/exp-usinagem-api/internal/domain/entity"
	"github.com/jhoicas/exp-usinagem-api/internal/domain/lot"
	"github.com/jhoicas/exp-usinagem-api/internal/domain/repository"
)

// kgScale casas decimais do peso gravado.
const kgScale = 3

// MoveRequest move Quantity peças do lote LotCode de From para To.
// Available, quando informado, é o saldo que o chamador leu antes de iniciar as escritas;
// a pré-validação usa esse valor e a leitura fresca só é usada para percorrer os registros.
type MoveRequest struct {
	OrderID   string
	Unit      string
	LotCode   string
	Quantity  int64
	From      string
	To        string
	Available *int64
}

// MoveResult registros tocados pelo movimento.
type MoveResult struct {
	Moved   int64
	Updated []*entity.LotMovement
	Created []*entity.LotMovement
}

// Ledger livro de lotes: move quantidades entre estágios dividindo o registro de origem
// quando o movimento é parcial. Não grava histórico nem recalcula saldos do pedido.
type Ledger struct {
	now   func() time.Time
	newID func() string
}

// NewLedger constrói o livro com relógio e gerador de ids padrão.
func NewLedger() *Ledger {
	return &Ledger{now: time.Now, newID: uuid.NewString}
}

// Move aplica o movimento usando o repositório recebido (normalmente atado à transação do chamador).
func (l *Ledger) Move(ctx context.Context, movRepo repository.LotMovementRepository, req MoveRequest) (*MoveResult, error) {
	if req.Quantity <= 0 {
		return nil, domain.NewValidationError("quantity", "a quantidade deve ser maior que zero")
	}
	target := req.LotCode
	if target == "" {
		target = lot.NoLot
	}

	all, err := movRepo.ListByOrder(ctx, req.OrderID)
	if err != nil {
		return nil, domain.NewPersistenceError("listar apontamentos", err)
	}

	var matching []*entity.LotMovement
	var available int64
	for _, m := range all {
		if m.Unit != req.Unit || m.Stage != req.From || lot.KeyOf(m) != target || m.QuantityPieces <= 0 {
			continue
		}
		matching = append(matching, m)
		available += m.QuantityPieces
	}
	if req.Available != nil {
		available = *req.Available
	}
	if req.Quantity > available {
		return nil, &domain.OverdrawError{LotCode: target, Stage: req.From, Requested: req.Quantity, Available: available}
	}

	seq := lot.BuildSequenceMap(all)
	tag := lot.TagForStage(req.To)
	now := l.now()

	res := &MoveResult{}
	remaining := req.Quantity
	for _, m := range matching {
		if remaining == 0 {
			break
		}
		q := m.QuantityPieces
		base := lot.BatchOf(m)
		code, ok := seq.Next(base, tag)
		if !ok {
			code = m.LotCode
		}

		if remaining >= q {
			moved := m.Clone()
			moved.Stage = req.To
			moved.LotCode = code
			moved.LotBatchID = base
			if err := movRepo.Update(ctx, moved); err != nil {
				return nil, domain.NewPersistenceError("atualizar apontamento", err)
			}
			res.Updated = append(res.Updated, moved)
			remaining -= q
			continue
		}

		movedKg := splitKg(m.QuantityKg, remaining, q)

		rest := m.Clone()
		rest.QuantityPieces = q - remaining
		rest.QuantityKg = m.QuantityKg.Sub(movedKg)
		if rest.LotBatchID == "" {
			rest.LotBatchID = base
		}
		if err := movRepo.Update(ctx, rest); err != nil {
			return nil, domain.NewPersistenceError("atualizar apontamento", err)
		}

		part := m.Clone()
		part.ID = l.newID()
		part.Stage = req.To
		part.LotCode = code
		part.LotBatchID = base
		part.QuantityPieces = remaining
		part.QuantityKg = movedKg
		part.CreatedAt = now
		if err := movRepo.Create(ctx, part); err != nil {
			return nil, domain.NewPersistenceError("inserir apontamento", err)
		}
		res.Updated = append(res.Updated, rest)
		res.Created = append(res.Created, part)
		remaining = 0
	}

	if remaining > 0 {
		return nil, &domain.StaleStateError{LotCode: target, Remaining: remaining}
	}
	res.Moved = req.Quantity
	return res, nil
}

// splitKg peso proporcional às peças movidas; o registro de origem fica com a diferença.
func splitKg(kg decimal.Decimal, moved, total int64) decimal.Decimal {
	if total <= 0 || kg.IsZero() {
		return decimal.Zero
	}
	return kg.Mul(decimal.NewFromInt(moved)).Div(decimal.NewFromInt(total)).Round(kgScale)
}
