package production

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/exp-usinagem-api/internal/domain"
	"github.com/jhoicas/exp-usinagem-api/internal/domain/entity"
	"github.com/jhoicas/exp-usinagem-api/internal/domain/lot"
	rules "github.com/jhoicas/exp-usinagem-api/internal/domain/production"
	"github.com/jhoicas/exp-usinagem-api/pkg/logger"
)

// EntryUseCase apontamentos de produção da Alúnica e suas correções.
type EntryUseCase struct {
	tx         TxRunner
	repos      Repos
	rules      rules.Rules
	reconciler *Reconciler
	log        *logger.Logger
	now        func() time.Time
	newID      func() string
}

// NewEntryUseCase constrói o caso de uso. repos é usado fora de transação (reconciliação e leituras).
func NewEntryUseCase(tx TxRunner, repos Repos, r rules.Rules, reconciler *Reconciler, log *logger.Logger) *EntryUseCase {
	return &EntryUseCase{
		tx:         tx,
		repos:      repos,
		rules:      r,
		reconciler: reconciler,
		log:        log.Component("apontamento"),
		now:        time.Now,
		newID:      uuid.NewString,
	}
}

// EntryInput apontamento informado pelo operador. InspectionPieces nil usa a divisão automática.
type EntryInput struct {
	OrderID          string
	Pieces           int64
	InspectionPieces *int64
	StartedAt        *time.Time
	FinishedAt       *time.Time
	Note             string
	Operator         string
	Actor            string
}

// EntryResult movimentos gravados e saldos após a reconciliação.
type EntryResult struct {
	LotCode    string
	Split      rules.Split
	KgPerPiece decimal.Decimal
	Movements  []*entity.LotMovement
	Order      *entity.Order
}

// RecordEntry valida, grava um movimento por parcela (inspeção/embalagem) e o histórico na mesma
// transação; depois reconcilia os saldos. Falha na reconciliação devolve o resultado junto com
// um ReconcileError: o apontamento permanece gravado.
func (uc *EntryUseCase) RecordEntry(ctx context.Context, in EntryInput) (*EntryResult, error) {
	if err := uc.rules.ValidateEntry(rules.Entry{Pieces: in.Pieces, StartedAt: in.StartedAt, FinishedAt: in.FinishedAt}); err != nil {
		return nil, err
	}

	now := uc.now()
	var res *EntryResult
	err := uc.tx.Run(ctx, func(repos Repos) error {
		order, err := loadOrder(ctx, repos.Orders, in.OrderID)
		if err != nil {
			return err
		}
		stage := order.StageFor(entity.UnitAlunica)
		if stage == "" {
			return domain.NewValidationError("order_id", "o pedido ainda não foi transferido para a Alúnica")
		}
		if !inMachining(stage) {
			return &domain.TransitionError{Unit: entity.UnitAlunica, From: stage, To: entity.StageParaInspecao}
		}
		if err := uc.rules.CheckOverrun(order, in.Pieces); err != nil {
			return err
		}

		movs, err := repos.Movements.ListByOrder(ctx, order.ID)
		if err != nil {
			return domain.NewPersistenceError("listar apontamentos", err)
		}
		inspected := lot.InspectedPieces(movs, entity.UnitAlunica)

		split := uc.rules.SplitForInspection(inspected, in.Pieces)
		if in.InspectionPieces != nil {
			split = rules.Split{Inspection: *in.InspectionPieces, Packaging: in.Pieces - *in.InspectionPieces}
			if err := uc.rules.ValidateSplit(inspected, in.Pieces, split); err != nil {
				return err
			}
		}

		kgPerPiece := order.KgPerPiece().Round(kgScale)
		code := lot.NewEntryLotCode(now, order.OrderSeq)
		base := lot.BaseOf(code, "")

		var created []*entity.LotMovement
		for _, p := range []struct {
			stage  string
			pieces int64
		}{
			{entity.StageParaInspecao, split.Inspection},
			{entity.StageParaEmbarque, split.Packaging},
		} {
			if p.pieces <= 0 {
				continue
			}
			created = append(created, &entity.LotMovement{
				ID:             uc.newID(),
				OrderID:        order.ID,
				Unit:           entity.UnitAlunica,
				Stage:          p.stage,
				LotCode:        code,
				LotBatchID:     base,
				QuantityPieces: p.pieces,
				QuantityKg:     kgPerPiece.Mul(decimal.NewFromInt(p.pieces)).Round(kgScale),
				StartedAt:      in.StartedAt,
				FinishedAt:     in.FinishedAt,
				Note:           strings.TrimSpace(in.Note),
				Operator:       firstNonEmpty(in.Operator, in.Actor),
				Product:        order.Tool,
				Client:         order.Client,
				WorkOrder:      order.OrderSeq,
				CreatedAt:      now,
			})
		}
		if err := repos.Movements.CreateBatch(ctx, created); err != nil {
			return domain.NewPersistenceError("inserir apontamentos", err)
		}
		if err := appendLog(ctx, repos.Transitions, &entity.TransitionLogEntry{
			OrderID:   order.ID,
			Unit:      entity.UnitAlunica,
			Kind:      entity.TransitionKindEntry,
			FromStage: stage,
			ToStage:   stage,
			Reason:    entity.ReasonProductionEntry,
			Actor:     in.Actor,
			At:        now,
		}); err != nil {
			return err
		}

		res = &EntryResult{LotCode: code, Split: split, KgPerPiece: kgPerPiece, Movements: created, Order: order}
		return nil
	})
	if err != nil {
		return nil, persistErr("registrar apontamento", err)
	}

	producedKg := decimal.Zero
	for _, m := range res.Movements {
		producedKg = producedKg.Add(m.QuantityKg)
	}
	uc.log.Info().
		Str("order_id", res.Order.ID).
		Str("lot", res.LotCode).
		Int64("inspection", res.Split.Inspection).
		Int64("packaging", res.Split.Packaging).
		Msg("apontamento registrado")

	order, err := uc.reconciler.Apply(ctx, uc.repos.Orders, res.Order.ID, in.Pieces, producedKg)
	if err != nil {
		uc.log.Error().Err(err).Str("order_id", res.Order.ID).Msg("falha ao atualizar saldos do pedido")
		return res, &domain.ReconcileError{OrderID: res.Order.ID, Err: err}
	}
	res.Order = order
	return res, nil
}

// CorrectionInput correção de um apontamento. Campos nil não mudam.
type CorrectionInput struct {
	MovementID string
	Pieces     *int64
	Note       *string
	StartedAt  *time.Time
	FinishedAt *time.Time
	Reason     string
	Actor      string
}

// CorrectionResult movimento corrigido e auditoria gravada.
type CorrectionResult struct {
	Movement   *entity.LotMovement
	Correction *entity.EntryCorrection
	Order      *entity.Order
}

// CorrectEntry corrige quantidade, observação ou janela de tempo de um apontamento e grava a
// auditoria. Mudança de quantidade reconcilia os saldos com a diferença.
func (uc *EntryUseCase) CorrectEntry(ctx context.Context, in CorrectionInput) (*CorrectionResult, error) {
	if strings.TrimSpace(in.Reason) == "" {
		return nil, domain.NewValidationError("reason", "informe o motivo da correção")
	}
	if in.Pieces == nil && in.Note == nil && in.StartedAt == nil && in.FinishedAt == nil {
		return nil, domain.NewValidationError("movement", "nenhum campo para corrigir")
	}
	if in.Pieces != nil && *in.Pieces <= 0 {
		return nil, domain.NewValidationError("quantity_pieces", "a quantidade deve ser maior que zero")
	}

	now := uc.now()
	var (
		res      *CorrectionResult
		deltaPcs int64
		deltaKg  = decimal.Zero
	)
	err := uc.tx.Run(ctx, func(repos Repos) error {
		m, err := repos.Movements.GetByID(ctx, in.MovementID)
		if err != nil {
			return domain.NewPersistenceError("buscar apontamento", err)
		}
		if m == nil {
			return domain.ErrNotFound
		}
		order, err := loadOrder(ctx, repos.Orders, m.OrderID)
		if err != nil {
			return err
		}

		updated := m.Clone()
		prev := map[string]any{}
		next := map[string]any{}
		var changed []string

		if in.Pieces != nil && *in.Pieces != m.QuantityPieces {
			deltaPcs = *in.Pieces - m.QuantityPieces
			if deltaPcs > 0 {
				if err := uc.rules.CheckOverrun(order, deltaPcs); err != nil {
					return err
				}
			}
			updated.QuantityPieces = *in.Pieces
			updated.QuantityKg = correctedKg(m, order, *in.Pieces)
			deltaKg = updated.QuantityKg.Sub(m.QuantityKg)
			prev["quantity_pieces"], next["quantity_pieces"] = m.QuantityPieces, updated.QuantityPieces
			prev["quantity_kg"], next["quantity_kg"] = m.QuantityKg.String(), updated.QuantityKg.String()
			changed = append(changed, "quantity_pieces", "quantity_kg")
		}
		if in.Note != nil && strings.TrimSpace(*in.Note) != m.Note {
			updated.Note = strings.TrimSpace(*in.Note)
			prev["note"], next["note"] = m.Note, updated.Note
			changed = append(changed, "note")
		}
		if in.StartedAt != nil && !sameTime(m.StartedAt, in.StartedAt) {
			updated.StartedAt = in.StartedAt
			prev["started_at"], next["started_at"] = timeValue(m.StartedAt), timeValue(in.StartedAt)
			changed = append(changed, "started_at")
		}
		if in.FinishedAt != nil && !sameTime(m.FinishedAt, in.FinishedAt) {
			updated.FinishedAt = in.FinishedAt
			prev["finished_at"], next["finished_at"] = timeValue(m.FinishedAt), timeValue(in.FinishedAt)
			changed = append(changed, "finished_at")
		}
		if len(changed) == 0 {
			return domain.NewValidationError("movement", "os valores informados são iguais aos atuais")
		}
		if updated.StartedAt != nil && updated.FinishedAt != nil && updated.FinishedAt.Before(*updated.StartedAt) {
			return domain.NewValidationError("finished_at", "o fim não pode ser anterior ao início")
		}

		if err := repos.Movements.Update(ctx, updated); err != nil {
			return domain.NewPersistenceError("atualizar apontamento", err)
		}
		corr := &entity.EntryCorrection{
			ID:            uc.newID(),
			MovementID:    m.ID,
			OrderID:       m.OrderID,
			PreviousValue: prev,
			NewValue:      next,
			ChangedFields: changed,
			Reason:        strings.TrimSpace(in.Reason),
			CorrectedBy:   in.Actor,
			CorrectedAt:   now,
		}
		if err := repos.Corrections.Create(ctx, corr); err != nil {
			return domain.NewPersistenceError("gravar correção", err)
		}
		res = &CorrectionResult{Movement: updated, Correction: corr, Order: order}
		return nil
	})
	if err != nil {
		return nil, persistErr("corrigir apontamento", err)
	}

	uc.log.Info().
		Str("movement_id", res.Movement.ID).
		Str("order_id", res.Movement.OrderID).
		Strs("fields", res.Correction.ChangedFields).
		Msg("apontamento corrigido")

	if deltaPcs == 0 && deltaKg.IsZero() {
		return res, nil
	}
	order, err := uc.reconciler.Apply(ctx, uc.repos.Orders, res.Movement.OrderID, deltaPcs, deltaKg)
	if err != nil {
		uc.log.Error().Err(err).Str("order_id", res.Movement.OrderID).Msg("falha ao atualizar saldos do pedido")
		return res, &domain.ReconcileError{OrderID: res.Movement.OrderID, Err: err}
	}
	res.Order = order
	return res, nil
}

// ListCorrections auditoria de um apontamento.
func (uc *EntryUseCase) ListCorrections(ctx context.Context, movementID string) ([]*entity.EntryCorrection, error) {
	m, err := uc.repos.Movements.GetByID(ctx, movementID)
	if err != nil {
		return nil, domain.NewPersistenceError("buscar apontamento", err)
	}
	if m == nil {
		return nil, domain.ErrNotFound
	}
	list, err := uc.repos.Corrections.ListByMovement(ctx, movementID)
	if err != nil {
		return nil, domain.NewPersistenceError("listar correções", err)
	}
	return list, nil
}

// IsReconcileError indica que a ação foi gravada mas os saldos ficaram desatualizados.
func IsReconcileError(err error) bool {
	var re *domain.ReconcileError
	return errors.As(err, &re)
}

// correctedKg peso da nova quantidade: proporcional ao registro; sem peso, usa o do pedido.
func correctedKg(m *entity.LotMovement, order *entity.Order, pieces int64) decimal.Decimal {
	if m.QuantityPieces > 0 && !m.QuantityKg.IsZero() {
		return splitKg(m.QuantityKg, pieces, m.QuantityPieces)
	}
	return order.KgPerPiece().Round(kgScale).Mul(decimal.NewFromInt(pieces)).Round(kgScale)
}

func sameTime(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

func timeValue(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(time.RFC3339)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
