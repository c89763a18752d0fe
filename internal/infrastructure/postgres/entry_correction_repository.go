package postgres

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/jhoicas/exp-usinagem-api/internal/domain/entity"
	"github.com/jhoicas/exp-usinagem-api/internal/domain/repository"
)

var _ repository.EntryCorrectionRepository = (*EntryCorrectionRepo)(nil)

const correctionsTable = "entry_corrections"

var correctionColumns = []string{
	"id", "movement_id", "order_id", "previous_value", "new_value",
	"changed_fields", "reason", "corrected_by", "corrected_at",
}

type correctionRow struct {
	ID            string         `db:"id"`
	MovementID    string         `db:"movement_id"`
	OrderID       string         `db:"order_id"`
	PreviousValue map[string]any `db:"previous_value"`
	NewValue      map[string]any `db:"new_value"`
	ChangedFields []string       `db:"changed_fields"`
	Reason        string         `db:"reason"`
	CorrectedBy   string         `db:"corrected_by"`
	CorrectedAt   time.Time      `db:"corrected_at"`
}

// EntryCorrectionRepo auditoria de correções de apontamentos (JSONB).
type EntryCorrectionRepo struct {
	q Querier
}

// NewEntryCorrectionRepository constrói o adaptador. Passar pool ou tx (Querier).
func NewEntryCorrectionRepository(q Querier) *EntryCorrectionRepo {
	return &EntryCorrectionRepo{q: q}
}

func (r *EntryCorrectionRepo) Create(ctx context.Context, c *entity.EntryCorrection) error {
	prev, err := json.Marshal(c.PreviousValue)
	if err != nil {
		return wrap("marshal previous value", err)
	}
	next, err := json.Marshal(c.NewValue)
	if err != nil {
		return wrap("marshal new value", err)
	}
	sql, args, err := psql.Insert(correctionsTable).
		Columns(correctionColumns...).
		Values(c.ID, c.MovementID, c.OrderID, prev, next, c.ChangedFields, c.Reason, c.CorrectedBy, c.CorrectedAt).
		ToSql()
	if err != nil {
		return wrap("build insert correction", err)
	}
	_, err = r.q.Exec(ctx, sql, args...)
	return wrap("insert correction", err)
}

func (r *EntryCorrectionRepo) ListByMovement(ctx context.Context, movementID string) ([]*entity.EntryCorrection, error) {
	sql, args, err := psql.Select(correctionColumns...).
		From(correctionsTable).
		Where(squirrel.Eq{"movement_id": movementID}).
		OrderBy("seq").
		ToSql()
	if err != nil {
		return nil, wrap("build list corrections", err)
	}
	var rows []correctionRow
	if err := pgxscan.Select(ctx, r.q, &rows, sql, args...); err != nil {
		return nil, wrap("list corrections", err)
	}
	out := make([]*entity.EntryCorrection, 0, len(rows))
	for _, row := range rows {
		out = append(out, &entity.EntryCorrection{
			ID:            row.ID,
			MovementID:    row.MovementID,
			OrderID:       row.OrderID,
			PreviousValue: row.PreviousValue,
			NewValue:      row.NewValue,
			ChangedFields: row.ChangedFields,
			Reason:        row.Reason,
			CorrectedBy:   row.CorrectedBy,
			CorrectedAt:   row.CorrectedAt,
		})
	}
	return out, nil
}
