package postgres

import (
	"context"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/jhoicas/exp-usinagem-api/internal/domain/entity"
	"github.com/jhoicas/exp-usinagem-api/internal/domain/repository"
)

var _ repository.TransitionLogRepository = (*TransitionLogRepo)(nil)

const transitionsTable = "order_transitions"

var transitionColumns = []string{"id", "order_id", "unit", "kind", "from_stage", "to_stage", "reason", "actor", "at"}

type transitionRow struct {
	ID        string    `db:"id"`
	OrderID   string    `db:"order_id"`
	Unit      string    `db:"unit"`
	Kind      string    `db:"kind"`
	FromStage string    `db:"from_stage"`
	ToStage   string    `db:"to_stage"`
	Reason    string    `db:"reason"`
	Actor     string    `db:"actor"`
	At        time.Time `db:"at"`
}

// TransitionLogRepo histórico de transições (append-only).
type TransitionLogRepo struct {
	q Querier
}

// NewTransitionLogRepository constrói o adaptador. Passar pool ou tx (Querier).
func NewTransitionLogRepository(q Querier) *TransitionLogRepo {
	return &TransitionLogRepo{q: q}
}

func (r *TransitionLogRepo) Append(ctx context.Context, e *entity.TransitionLogEntry) error {
	sql, args, err := psql.Insert(transitionsTable).
		Columns(transitionColumns...).
		Values(e.ID, e.OrderID, e.Unit, e.Kind, e.FromStage, e.ToStage, e.Reason, e.Actor, e.At).
		ToSql()
	if err != nil {
		return wrap("build insert transition", err)
	}
	_, err = r.q.Exec(ctx, sql, args...)
	return wrap("insert transition", err)
}

func (r *TransitionLogRepo) ListByOrder(ctx context.Context, orderID string) ([]*entity.TransitionLogEntry, error) {
	sql, args, err := psql.Select(transitionColumns...).
		From(transitionsTable).
		Where(squirrel.Eq{"order_id": orderID}).
		OrderBy("seq").
		ToSql()
	if err != nil {
		return nil, wrap("build list transitions", err)
	}
	var rows []transitionRow
	if err := pgxscan.Select(ctx, r.q, &rows, sql, args...); err != nil {
		return nil, wrap("list transitions", err)
	}
	out := make([]*entity.TransitionLogEntry, 0, len(rows))
	for _, row := range rows {
		out = append(out, &entity.TransitionLogEntry{
			ID: row.ID, OrderID: row.OrderID, Unit: row.Unit, Kind: row.Kind,
			FromStage: row.FromStage, ToStage: row.ToStage, Reason: row.Reason, Actor: row.Actor, At: row.At,
		})
	}
	return out, nil
}
