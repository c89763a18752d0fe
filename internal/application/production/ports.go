package production

import (
	"context"
	"time"

	"github.com/jhoicas/exp-usinagem-api/internal/domain/entity"
	"github.com/jhoicas/exp-usinagem-api/internal/domain/lot"
	"github.com/jhoicas/exp-usinagem-api/internal/domain/repository"
)

// Repos repositórios atados a uma mesma conexão ou transação.
type Repos struct {
	Orders      repository.OrderRepository
	Movements   repository.LotMovementRepository
	Transitions repository.TransitionLogRepository
	Corrections repository.EntryCorrectionRepository
}

// TxRunner executa fn dentro de uma transação, entregando repositórios atados a ela.
// Se fn devolver erro, nada do que foi escrito permanece.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos Repos) error) error
}

// OrderReport dados do relatório do pedido.
type OrderReport struct {
	Order       *entity.Order
	Lots        []lot.Summary
	History     []*entity.TransitionLogEntry
	GeneratedAt time.Time
}

// ReportGenerator renderiza o relatório do pedido (PDF).
type ReportGenerator interface {
	GenerateOrderReport(ctx context.Context, report *OrderReport) ([]byte, error)
}
