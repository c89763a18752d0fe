package production

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/exp-usinagem-api/internal/domain"
	"github.com/jhoicas/exp-usinagem-api/internal/domain/entity"
	"github.com/jhoicas/exp-usinagem-api/internal/domain/lot"
	"github.com/jhoicas/exp-usinagem-api/internal/domain/workflow"
	"github.com/jhoicas/exp-usinagem-api/pkg/logger"
)

// Origens de cadastro do pedido.
const (
	OriginCatalog = "carteira"
	OriginManual  = "manual"
	OriginFile    = "arquivo"
)

// OrderUseCase cadastro e consultas de pedidos do fluxo.
type OrderUseCase struct {
	tx         TxRunner
	repos      Repos
	reconciler *Reconciler
	reports    ReportGenerator
	log        *logger.Logger
	now        func() time.Time
}

// NewOrderUseCase constrói o caso de uso. reports pode ser nil quando o PDF não é exposto.
func NewOrderUseCase(tx TxRunner, repos Repos, reconciler *Reconciler, reports ReportGenerator, log *logger.Logger) *OrderUseCase {
	return &OrderUseCase{
		tx:         tx,
		repos:      repos,
		reconciler: reconciler,
		reports:    reports,
		log:        log.Component("pedidos"),
		now:        time.Now,
	}
}

// CreateOrderInput dados do pedido selecionado na carteira ou digitado.
type CreateOrderInput struct {
	Origin              string
	OrderSeq            string
	Client              string
	CustomerOrderNumber string
	Tool                string
	DeliveryDate        *time.Time
	OrderedPieces       int64
	OrderedKg           decimal.Decimal
	SelectedBy          string
}

// Create inclui o pedido no fluxo em "pedido", com o disponível igual ao total.
func (uc *OrderUseCase) Create(ctx context.Context, in CreateOrderInput) (*entity.Order, error) {
	seq := strings.TrimSpace(in.OrderSeq)
	client := strings.TrimSpace(in.Client)
	if seq == "" {
		return nil, domain.NewValidationError("order_seq", "informe o pedido/seq")
	}
	if client == "" {
		return nil, domain.NewValidationError("client", "informe o cliente")
	}
	if in.OrderedPieces < 0 {
		return nil, domain.NewValidationError("ordered_pieces", "a quantidade não pode ser negativa")
	}
	if in.OrderedKg.IsNegative() {
		return nil, domain.NewValidationError("ordered_kg", "o peso não pode ser negativo")
	}
	origin := in.Origin
	switch origin {
	case "":
		origin = OriginManual
	case OriginCatalog, OriginManual, OriginFile:
	default:
		return nil, domain.NewValidationError("origin", fmt.Sprintf("origem inválida %q", in.Origin))
	}

	now := uc.now()
	availPcs := in.OrderedPieces
	availKg := in.OrderedKg.Round(kgScale)
	order := &entity.Order{
		ID:                  uuid.NewString(),
		Origin:              origin,
		OrderSeq:            seq,
		Client:              client,
		CustomerOrderNumber: strings.TrimSpace(in.CustomerOrderNumber),
		Tool:                strings.TrimSpace(in.Tool),
		DeliveryDate:        in.DeliveryDate,
		OrderedPieces:       in.OrderedPieces,
		OrderedKg:           availKg,
		AvailablePieces:     &availPcs,
		AvailableKg:         &availKg,
		CumulativePieces:    0,
		CumulativeKg:        decimal.Zero,
		PrimaryStage:        entity.StagePedido,
		SelectedBy:          in.SelectedBy,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if err := uc.repos.Orders.Create(ctx, order); err != nil {
		return nil, domain.NewPersistenceError("criar pedido", err)
	}
	uc.log.Info().Str("order_id", order.ID).Str("order_seq", order.OrderSeq).Str("origin", origin).Msg("pedido incluído no fluxo")
	return order, nil
}

// List todos os pedidos do fluxo, na ordem de inclusão.
func (uc *OrderUseCase) List(ctx context.Context) ([]*entity.Order, error) {
	list, err := uc.repos.Orders.List(ctx)
	if err != nil {
		return nil, domain.NewPersistenceError("listar pedidos", err)
	}
	return list, nil
}

// Get pedido por id.
func (uc *OrderUseCase) Get(ctx context.Context, id string) (*entity.Order, error) {
	return loadOrder(ctx, uc.repos.Orders, id)
}

// Delete remoção administrativa; apaga em cascata apontamentos, histórico e correções.
func (uc *OrderUseCase) Delete(ctx context.Context, id, actor string) error {
	err := uc.tx.Run(ctx, func(repos Repos) error {
		if _, err := loadOrder(ctx, repos.Orders, id); err != nil {
			return err
		}
		return domain.NewPersistenceError("remover pedido", repos.Orders.Delete(ctx, id))
	})
	if err != nil {
		return persistErr("remover pedido", err)
	}
	uc.log.Warn().Str("order_id", id).Str("actor", actor).Msg("pedido removido do fluxo")
	return nil
}

// Movements apontamentos do pedido na ordem de gravação.
func (uc *OrderUseCase) Movements(ctx context.Context, orderID string) ([]*entity.LotMovement, error) {
	if _, err := loadOrder(ctx, uc.repos.Orders, orderID); err != nil {
		return nil, err
	}
	movs, err := uc.repos.Movements.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, domain.NewPersistenceError("listar apontamentos", err)
	}
	return movs, nil
}

// Lots resumo por lote do pedido na unidade, opcionalmente restrito a estágios.
func (uc *OrderUseCase) Lots(ctx context.Context, orderID, unit string, stages ...string) ([]lot.Summary, error) {
	movs, err := uc.Movements(ctx, orderID)
	if err != nil {
		return nil, err
	}
	unit = workflow.NormalizeUnit(unit)
	norm := make([]string, 0, len(stages))
	for _, s := range stages {
		if s = workflow.NormalizeStage(s); s != "" {
			norm = append(norm, s)
		}
	}
	return lot.Summarize(movs, unit, norm...), nil
}

// History histórico de transições do pedido.
func (uc *OrderUseCase) History(ctx context.Context, orderID string) ([]*entity.TransitionLogEntry, error) {
	if _, err := loadOrder(ctx, uc.repos.Orders, orderID); err != nil {
		return nil, err
	}
	list, err := uc.repos.Transitions.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, domain.NewPersistenceError("listar histórico", err)
	}
	return list, nil
}

// Recompute reconstrói os saldos do pedido a partir dos apontamentos.
func (uc *OrderUseCase) Recompute(ctx context.Context, orderID, actor string) (*entity.Order, error) {
	var order *entity.Order
	err := uc.tx.Run(ctx, func(repos Repos) error {
		var err error
		order, err = loadOrder(ctx, repos.Orders, orderID)
		if err != nil {
			return err
		}
		movs, err := repos.Movements.ListByOrder(ctx, orderID)
		if err != nil {
			return domain.NewPersistenceError("listar apontamentos", err)
		}
		uc.reconciler.Recompute(order, movs)
		return domain.NewPersistenceError("atualizar saldos do pedido", repos.Orders.UpdateBalances(ctx, order))
	})
	if err != nil {
		return nil, persistErr("recalcular saldos", err)
	}
	uc.log.Info().
		Str("order_id", order.ID).
		Str("actor", actor).
		Int64("cumulative", order.CumulativePieces).
		Int64("available", order.AvailablePiecesOr()).
		Msg("saldos recalculados")
	return order, nil
}

// Report gera o PDF do pedido: cabeçalho, resumo por lote e histórico.
func (uc *OrderUseCase) Report(ctx context.Context, orderID string) ([]byte, string, error) {
	if uc.reports == nil {
		return nil, "", fmt.Errorf("%w: relatório indisponível", domain.ErrInvalidInput)
	}
	order, err := loadOrder(ctx, uc.repos.Orders, orderID)
	if err != nil {
		return nil, "", err
	}
	movs, err := uc.repos.Movements.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, "", domain.NewPersistenceError("listar apontamentos", err)
	}
	history, err := uc.repos.Transitions.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, "", domain.NewPersistenceError("listar histórico", err)
	}
	pdf, err := uc.reports.GenerateOrderReport(ctx, &OrderReport{
		Order:       order,
		Lots:        lot.Summarize(movs, ""),
		History:     history,
		GeneratedAt: uc.now(),
	})
	if err != nil {
		return nil, "", fmt.Errorf("relatório: gerar pdf: %w", err)
	}
	return pdf, reportFilename(order), nil
}

func reportFilename(order *entity.Order) string {
	r := strings.NewReplacer("/", "-", " ", "_", "\\", "-")
	return fmt.Sprintf("pedido_%s.pdf", r.Replace(order.OrderSeq))
}
