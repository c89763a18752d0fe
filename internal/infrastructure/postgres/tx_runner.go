package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/exp-usinagem-api/internal/application/production"
)

var _ production.TxRunner = (*TxRunner)(nil)

// TxRunner executa callbacks dentro de uma transação PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner constrói o runner com o pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// NewRepos repositórios atados a q (pool ou tx).
func NewRepos(q Querier) production.Repos {
	return production.Repos{
		Orders:      NewOrderRepository(q),
		Movements:   NewLotMovementRepository(q),
		Transitions: NewTransitionLogRepository(q),
		Corrections: NewEntryCorrectionRepository(q),
	}
}

// Run inicia a transação, executa fn com repositórios atados a ela e faz Commit ou Rollback.
// A leitura do pedido dentro da transação trava a linha (FOR UPDATE).
func (r *TxRunner) Run(ctx context.Context, fn func(repos production.Repos) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	repos := NewRepos(tx)
	repos.Orders = &OrderRepo{q: tx, lock: true}
	if err := fn(repos); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
