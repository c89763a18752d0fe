package production

import (
	"context"
	"time"

	"github.com/jhoicas/exp-usinagem-api/internal/domain"
	"github.com/jhoicas/exp-usinagem-api/internal/domain/entity"
	"github.com/jhoicas/exp-usinagem-api/internal/domain/lot"
	"github.com/jhoicas/exp-usinagem-api/internal/domain/workflow"
	"github.com/jhoicas/exp-usinagem-api/pkg/logger"
)

// WorkflowUseCase transições de estágio do pedido: aprovação/reabertura de lotes,
// movimentação manual, entrada na Alúnica e finalização. Cada ação é uma transação.
type WorkflowUseCase struct {
	tx     TxRunner
	ledger *Ledger
	log    *logger.Logger
	now    func() time.Time
}

// NewWorkflowUseCase constrói o caso de uso.
func NewWorkflowUseCase(tx TxRunner, ledger *Ledger, log *logger.Logger) *WorkflowUseCase {
	return &WorkflowUseCase{tx: tx, ledger: ledger, log: log.Component("workflow"), now: time.Now}
}

// LotQuantity quantidade escolhida pelo operador para um lote.
type LotQuantity struct {
	LotCode  string
	Quantity int64
}

// ApprovalInput aprovação/reabertura por lote.
type ApprovalInput struct {
	OrderID string
	Actor   string
	Lots    []LotQuantity
}

// ApprovalResult resultado consolidado de uma aprovação/reabertura.
type ApprovalResult struct {
	OrderID   string
	From      string
	To        string
	Moved     int64
	Available int64
	Full      bool
	Reason    string
	Stage     string // estágio nominal do pedido na Alúnica após a ação
}

// Approve move as quantidades escolhidas de para-inspecao para para-embarque.
func (uc *WorkflowUseCase) Approve(ctx context.Context, in ApprovalInput) (*ApprovalResult, error) {
	return uc.runTransfer(ctx, in, entity.StageParaInspecao, entity.StageParaEmbarque, false)
}

// Reopen devolve as quantidades escolhidas de para-embarque para para-inspecao.
func (uc *WorkflowUseCase) Reopen(ctx context.Context, in ApprovalInput) (*ApprovalResult, error) {
	return uc.runTransfer(ctx, in, entity.StageParaEmbarque, entity.StageParaInspecao, false)
}

// ApproveAll aprova todo o saldo de todos os lotes em inspeção.
func (uc *WorkflowUseCase) ApproveAll(ctx context.Context, orderID, actor string) (*ApprovalResult, error) {
	return uc.runTransfer(ctx, ApprovalInput{OrderID: orderID, Actor: actor}, entity.StageParaInspecao, entity.StageParaEmbarque, true)
}

// ReopenAll reabre todo o saldo de todos os lotes em embalagem.
func (uc *WorkflowUseCase) ReopenAll(ctx context.Context, orderID, actor string) (*ApprovalResult, error) {
	return uc.runTransfer(ctx, ApprovalInput{OrderID: orderID, Actor: actor}, entity.StageParaEmbarque, entity.StageParaInspecao, true)
}

func (uc *WorkflowUseCase) runTransfer(ctx context.Context, in ApprovalInput, from, to string, all bool) (*ApprovalResult, error) {
	requested, err := normalizeLots(in.Lots, all)
	if err != nil {
		return nil, err
	}
	var res *ApprovalResult
	err = uc.tx.Run(ctx, func(repos Repos) error {
		var err error
		res, err = uc.transfer(ctx, repos, in.OrderID, in.Actor, from, to, requested, all)
		return err
	})
	if err != nil {
		return nil, persistErr("aprovação", err)
	}
	uc.log.Info().
		Str("order_id", res.OrderID).
		Str("from", res.From).
		Str("to", res.To).
		Str("reason", res.Reason).
		Int64("moved", res.Moved).
		Int64("available", res.Available).
		Msg("lotes movidos")
	return res, nil
}

// transfer snapshot do disponível, pré-validação de todos os lotes, movimento lote a lote,
// decisão total/parcial e uma entrada de histórico. Roda dentro da transação do chamador.
func (uc *WorkflowUseCase) transfer(ctx context.Context, repos Repos, orderID, actor, from, to string, requested []LotQuantity, all bool) (*ApprovalResult, error) {
	order, err := loadOrder(ctx, repos.Orders, orderID)
	if err != nil {
		return nil, err
	}
	if order.SecondaryStage == nil {
		return nil, &domain.TransitionError{Unit: entity.UnitAlunica, From: "", To: to}
	}
	nominal := order.StageFor(entity.UnitAlunica)
	if !inMachining(nominal) {
		return nil, &domain.TransitionError{Unit: entity.UnitAlunica, From: nominal, To: to}
	}

	movs, err := repos.Movements.ListByOrder(ctx, order.ID)
	if err != nil {
		return nil, domain.NewPersistenceError("listar apontamentos", err)
	}
	snapshot := lot.AvailableByLot(movs, entity.UnitAlunica, from)
	availByLot := make(map[string]int64, len(snapshot))
	var sumAvail int64
	for _, a := range snapshot {
		availByLot[a.LotCode] = a.Available
		sumAvail += a.Available
	}

	// Fora do par inspeção/embarque o pedido só participa se já houver lotes na origem.
	if nominal != from && nominal != to && sumAvail == 0 {
		return nil, &domain.TransitionError{Unit: entity.UnitAlunica, From: nominal, To: to}
	}

	if all {
		requested = requested[:0]
		for _, a := range snapshot {
			if a.Available > 0 {
				requested = append(requested, LotQuantity{LotCode: a.LotCode, Quantity: a.Available})
			}
		}
	}
	for _, r := range requested {
		if avail := availByLot[r.LotCode]; r.Quantity > avail {
			return nil, &domain.OverdrawError{LotCode: r.LotCode, Stage: from, Requested: r.Quantity, Available: avail}
		}
	}

	var sumMoved int64
	for _, r := range requested {
		avail := availByLot[r.LotCode]
		mr, err := uc.ledger.Move(ctx, repos.Movements, MoveRequest{
			OrderID:   order.ID,
			Unit:      entity.UnitAlunica,
			LotCode:   r.LotCode,
			Quantity:  r.Quantity,
			From:      from,
			To:        to,
			Available: &avail,
		})
		if err != nil {
			return nil, err
		}
		sumMoved += mr.Moved
	}

	full := sumMoved >= sumAvail
	reason := reasonFor(from, full)
	// O estágio nominal só avança por uma aresta do grafo; nos demais casos os lotes
	// mudam de estágio e o pedido permanece onde está.
	if full && nominal != to && (nominal == from || workflow.CanTransition(entity.UnitAlunica, nominal, to)) {
		order.SetStage(entity.UnitAlunica, to)
		order.UpdatedAt = uc.now()
		if err := repos.Orders.UpdateStages(ctx, order); err != nil {
			return nil, domain.NewPersistenceError("atualizar estágio do pedido", err)
		}
	}
	if err := appendLog(ctx, repos.Transitions, &entity.TransitionLogEntry{
		OrderID:   order.ID,
		Unit:      entity.UnitAlunica,
		FromStage: nominal,
		ToStage:   order.StageFor(entity.UnitAlunica),
		Reason:    reason,
		Actor:     actor,
		At:        uc.now(),
	}); err != nil {
		return nil, err
	}

	return &ApprovalResult{
		OrderID:   order.ID,
		From:      from,
		To:        to,
		Moved:     sumMoved,
		Available: sumAvail,
		Full:      full,
		Reason:    reason,
		Stage:     order.StageFor(entity.UnitAlunica),
	}, nil
}

// inMachining estágios em que a Alúnica ainda aponta, aprova ou reabre lotes. Depois da
// expedição de volta (expedicao-tecno) ou no terminal o pedido saiu da usinagem.
func inMachining(nominal string) bool {
	switch nominal {
	case entity.StageEstoque, entity.StageParaUsinar, entity.StageParaInspecao, entity.StageParaEmbarque:
		return true
	}
	return false
}

func reasonFor(from string, full bool) string {
	approving := from == entity.StageParaInspecao
	switch {
	case approving && full:
		return entity.ReasonApproval
	case approving:
		return entity.ReasonApprovalPartial
	case full:
		return entity.ReasonReopen
	default:
		return entity.ReasonReopenPartial
	}
}

// normalizeLots soma pedidos repetidos do mesmo lote e descarta quantidades zero.
func normalizeLots(lots []LotQuantity, all bool) ([]LotQuantity, error) {
	if all {
		return nil, nil
	}
	index := map[string]int{}
	var out []LotQuantity
	for _, l := range lots {
		if l.Quantity < 0 {
			return nil, domain.NewValidationError("quantity", "a quantidade não pode ser negativa")
		}
		if l.Quantity == 0 {
			continue
		}
		code := l.LotCode
		if code == "" {
			code = lot.NoLot
		}
		if i, ok := index[code]; ok {
			out[i].Quantity += l.Quantity
			continue
		}
		index[code] = len(out)
		out = append(out, LotQuantity{LotCode: code, Quantity: l.Quantity})
	}
	if len(out) == 0 {
		return nil, domain.NewValidationError("lots", "informe ao menos um lote com quantidade maior que zero")
	}
	return out, nil
}

// MoveOrderInput movimentação manual do pedido em uma unidade.
type MoveOrderInput struct {
	OrderID string
	Unit    string
	To      string
	Reason  string
	Actor   string
}

// TransitionResult resultado de uma transição de estágio.
type TransitionResult struct {
	OrderID string
	Unit    string
	From    string
	To      string
	Reason  string
	Order   *entity.Order
}

// MoveOrder move o pedido por uma aresta do grafo da unidade. Arestas com lotes
// (para-inspecao <-> para-embarque) movem todo o saldo pelo livro; destino finalizado finaliza.
func (uc *WorkflowUseCase) MoveOrder(ctx context.Context, in MoveOrderInput) (*TransitionResult, error) {
	unit := workflow.NormalizeUnit(in.Unit)
	to := workflow.NormalizeStage(in.To)
	if !workflow.IsValidUnit(unit) {
		return nil, domain.NewValidationError("unit", "unidade desconhecida")
	}
	if !workflow.IsValidStage(unit, to) {
		return nil, domain.NewValidationError("to", "estágio desconhecido para a unidade")
	}
	if to == entity.StageFinalizado {
		return uc.Finalize(ctx, in.OrderID, unit, in.Actor)
	}
	// Os demais motivos pertencem às ações que os produzem (aprovação, apontamento, finalização).
	if in.Reason != "" && in.Reason != entity.ReasonManualMove {
		return nil, domain.NewValidationError("reason", "motivo inválido para movimentação manual")
	}
	reason := entity.ReasonManualMove

	var res *TransitionResult
	err := uc.tx.Run(ctx, func(repos Repos) error {
		order, err := loadOrder(ctx, repos.Orders, in.OrderID)
		if err != nil {
			return err
		}
		from := order.StageFor(unit)
		if !workflow.CanTransition(unit, from, to) {
			return &domain.TransitionError{Unit: unit, From: from, To: to}
		}

		if workflow.IsLedgerBacked(unit, from, to) {
			ar, err := uc.transfer(ctx, repos, order.ID, in.Actor, from, to, nil, true)
			if err != nil {
				return err
			}
			order, err = loadOrder(ctx, repos.Orders, order.ID)
			if err != nil {
				return err
			}
			res = &TransitionResult{OrderID: order.ID, Unit: unit, From: from, To: ar.Stage, Reason: ar.Reason, Order: order}
			return nil
		}

		order.SetStage(unit, to)
		order.UpdatedAt = uc.now()
		if err := repos.Orders.UpdateStages(ctx, order); err != nil {
			return domain.NewPersistenceError("atualizar estágio do pedido", err)
		}
		if err := appendLog(ctx, repos.Transitions, &entity.TransitionLogEntry{
			OrderID: order.ID, Unit: unit, FromStage: from, ToStage: to, Reason: reason, Actor: in.Actor, At: uc.now(),
		}); err != nil {
			return err
		}
		res = &TransitionResult{OrderID: order.ID, Unit: unit, From: from, To: to, Reason: reason, Order: order}
		return nil
	})
	if err != nil {
		return nil, persistErr("movimentar pedido", err)
	}
	uc.logTransition(res)
	return res, nil
}

// TransferToSecondary entrada do pedido na Alúnica: a partir de expedicao-alu na primária,
// o estágio secundário passa a estoque. A primária permanece em expedicao-alu.
func (uc *WorkflowUseCase) TransferToSecondary(ctx context.Context, orderID, actor string) (*TransitionResult, error) {
	var res *TransitionResult
	err := uc.tx.Run(ctx, func(repos Repos) error {
		order, err := loadOrder(ctx, repos.Orders, orderID)
		if err != nil {
			return err
		}
		if !workflow.CanTransferToSecondary(order) {
			return &domain.TransitionError{Unit: entity.UnitAlunica, From: order.PrimaryStage, To: entity.StageEstoque}
		}
		order.SetStage(entity.UnitAlunica, entity.StageEstoque)
		order.UpdatedAt = uc.now()
		if err := repos.Orders.UpdateStages(ctx, order); err != nil {
			return domain.NewPersistenceError("atualizar estágio do pedido", err)
		}
		if err := appendLog(ctx, repos.Transitions, &entity.TransitionLogEntry{
			OrderID:   order.ID,
			Unit:      entity.UnitAlunica,
			FromStage: entity.StageExpedicaoAlu,
			ToStage:   entity.StageEstoque,
			Reason:    entity.ReasonManualMove,
			Actor:     actor,
			At:        uc.now(),
		}); err != nil {
			return err
		}
		res = &TransitionResult{OrderID: order.ID, Unit: entity.UnitAlunica, From: entity.StageExpedicaoAlu, To: entity.StageEstoque, Reason: entity.ReasonManualMove, Order: order}
		return nil
	})
	if err != nil {
		return nil, persistErr("transferir para a Alúnica", err)
	}
	uc.logTransition(res)
	return res, nil
}

// Finalize leva o pedido ao estágio terminal. Na primária parte de expedicao-cliente;
// na Alúnica parte de expedicao-tecno e encerra as duas unidades. Com unit vazio a
// unidade é inferida pelo estágio atual.
func (uc *WorkflowUseCase) Finalize(ctx context.Context, orderID, unit, actor string) (*TransitionResult, error) {
	unit = workflow.NormalizeUnit(unit)
	var res *TransitionResult
	err := uc.tx.Run(ctx, func(repos Repos) error {
		order, err := loadOrder(ctx, repos.Orders, orderID)
		if err != nil {
			return err
		}
		if unit == "" {
			unit = entity.UnitTecnoPerfil
			if order.StageFor(entity.UnitAlunica) == entity.StageExpedicaoTecno {
				unit = entity.UnitAlunica
			}
		}
		from := order.StageFor(unit)
		if !workflow.CanTransition(unit, from, entity.StageFinalizado) {
			return &domain.TransitionError{Unit: unit, From: from, To: entity.StageFinalizado}
		}
		order.SetStage(unit, entity.StageFinalizado)
		if unit == entity.UnitAlunica {
			order.PrimaryStage = entity.StageFinalizado
		}
		order.UpdatedAt = uc.now()
		if err := repos.Orders.UpdateStages(ctx, order); err != nil {
			return domain.NewPersistenceError("atualizar estágio do pedido", err)
		}
		if err := appendLog(ctx, repos.Transitions, &entity.TransitionLogEntry{
			OrderID: order.ID, Unit: unit, FromStage: from, ToStage: entity.StageFinalizado,
			Reason: entity.ReasonFinalize, Actor: actor, At: uc.now(),
		}); err != nil {
			return err
		}
		res = &TransitionResult{OrderID: order.ID, Unit: unit, From: from, To: entity.StageFinalizado, Reason: entity.ReasonFinalize, Order: order}
		return nil
	})
	if err != nil {
		return nil, persistErr("finalizar pedido", err)
	}
	uc.logTransition(res)
	return res, nil
}

func (uc *WorkflowUseCase) logTransition(res *TransitionResult) {
	uc.log.Info().
		Str("order_id", res.OrderID).
		Str("unit", res.Unit).
		Str("from", res.From).
		Str("to", res.To).
		Str("reason", res.Reason).
		Msg("transição de estágio")
}
