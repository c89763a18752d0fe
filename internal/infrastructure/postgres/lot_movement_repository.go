package postgres

import (
	"context"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/exp-usinagem-api/internal/domain/entity"
	"github.com/jhoicas/exp-usinagem-api/internal/domain/lot"
	"github.com/jhoicas/exp-usinagem-api/internal/domain/repository"
)

var _ repository.LotMovementRepository = (*LotMovementRepo)(nil)

const movementsTable = "lot_movements"

var movementColumns = []string{
	"id", "order_id", "unit", "stage", "lot_code", "lot_batch_id",
	"quantity_pieces", "quantity_kg", "started_at", "finished_at",
	"note", "operator", "product", "client", "work_order", "created_at",
}

type movementRow struct {
	ID             string          `db:"id"`
	OrderID        string          `db:"order_id"`
	Unit           string          `db:"unit"`
	Stage          string          `db:"stage"`
	LotCode        string          `db:"lot_code"`
	LotBatchID     string          `db:"lot_batch_id"`
	QuantityPieces int64           `db:"quantity_pieces"`
	QuantityKg     decimal.Decimal `db:"quantity_kg"`
	StartedAt      *time.Time      `db:"started_at"`
	FinishedAt     *time.Time      `db:"finished_at"`
	Note           string          `db:"note"`
	Operator       string          `db:"operator"`
	Product        string          `db:"product"`
	Client         string          `db:"client"`
	WorkOrder      string          `db:"work_order"`
	CreatedAt      time.Time       `db:"created_at"`
}

// toEntity linhas antigas sem lot_batch_id recebem o lote base derivado do código.
func (r movementRow) toEntity() *entity.LotMovement {
	m := &entity.LotMovement{
		ID:             r.ID,
		OrderID:        r.OrderID,
		Unit:           r.Unit,
		Stage:          r.Stage,
		LotCode:        r.LotCode,
		LotBatchID:     r.LotBatchID,
		QuantityPieces: r.QuantityPieces,
		QuantityKg:     r.QuantityKg,
		StartedAt:      r.StartedAt,
		FinishedAt:     r.FinishedAt,
		Note:           r.Note,
		Operator:       r.Operator,
		Product:        r.Product,
		Client:         r.Client,
		WorkOrder:      r.WorkOrder,
		CreatedAt:      r.CreatedAt,
	}
	if m.LotBatchID == "" && m.LotCode != "" {
		m.LotBatchID = lot.BaseOf(m.LotCode, "")
	}
	return m
}

func movementValues(m *entity.LotMovement) []any {
	return []any{
		m.ID, m.OrderID, m.Unit, m.Stage, m.LotCode, m.LotBatchID,
		m.QuantityPieces, m.QuantityKg, m.StartedAt, m.FinishedAt,
		m.Note, m.Operator, m.Product, m.Client, m.WorkOrder, m.CreatedAt,
	}
}

// LotMovementRepo apontamentos sobre PostgreSQL. A ordem natural é a coluna seq (identity).
type LotMovementRepo struct {
	q Querier
}

// NewLotMovementRepository constrói o adaptador. Passar pool ou tx (Querier).
func NewLotMovementRepository(q Querier) *LotMovementRepo {
	return &LotMovementRepo{q: q}
}

func (r *LotMovementRepo) selectWhere(ctx context.Context, op string, where any) ([]*entity.LotMovement, error) {
	b := psql.Select(movementColumns...).From(movementsTable).OrderBy("seq")
	if where != nil {
		b = b.Where(where)
	}
	sql, args, err := b.ToSql()
	if err != nil {
		return nil, wrap("build "+op, err)
	}
	var rows []movementRow
	if err := pgxscan.Select(ctx, r.q, &rows, sql, args...); err != nil {
		return nil, wrap(op, err)
	}
	out := make([]*entity.LotMovement, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toEntity())
	}
	return out, nil
}

func (r *LotMovementRepo) List(ctx context.Context) ([]*entity.LotMovement, error) {
	return r.selectWhere(ctx, "list movements", nil)
}

func (r *LotMovementRepo) ListByOrder(ctx context.Context, orderID string) ([]*entity.LotMovement, error) {
	return r.selectWhere(ctx, "list movements by order", squirrel.Eq{"order_id": orderID})
}

func (r *LotMovementRepo) GetByID(ctx context.Context, id string) (*entity.LotMovement, error) {
	sql, args, err := psql.Select(movementColumns...).From(movementsTable).Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, wrap("build get movement", err)
	}
	var row movementRow
	if err := pgxscan.Get(ctx, r.q, &row, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, wrap("get movement", err)
	}
	return row.toEntity(), nil
}

func (r *LotMovementRepo) Create(ctx context.Context, m *entity.LotMovement) error {
	return r.CreateBatch(ctx, []*entity.LotMovement{m})
}

// CreateBatch um único INSERT multi-linha; a ordem de seq segue a ordem do slice.
func (r *LotMovementRepo) CreateBatch(ctx context.Context, movements []*entity.LotMovement) error {
	if len(movements) == 0 {
		return nil
	}
	b := psql.Insert(movementsTable).Columns(movementColumns...)
	for _, m := range movements {
		b = b.Values(movementValues(m)...)
	}
	sql, args, err := b.ToSql()
	if err != nil {
		return wrap("build insert movements", err)
	}
	_, err = r.q.Exec(ctx, sql, args...)
	return wrap("insert movements", err)
}

func (r *LotMovementRepo) Update(ctx context.Context, m *entity.LotMovement) error {
	sql, args, err := psql.Update(movementsTable).
		Set("unit", m.Unit).
		Set("stage", m.Stage).
		Set("lot_code", m.LotCode).
		Set("lot_batch_id", m.LotBatchID).
		Set("quantity_pieces", m.QuantityPieces).
		Set("quantity_kg", m.QuantityKg).
		Set("started_at", m.StartedAt).
		Set("finished_at", m.FinishedAt).
		Set("note", m.Note).
		Where(squirrel.Eq{"id": m.ID}).
		ToSql()
	if err != nil {
		return wrap("build update movement", err)
	}
	tag, err := r.q.Exec(ctx, sql, args...)
	if err != nil {
		return wrap("update movement", err)
	}
	return expectOne("update movement", tag)
}

func (r *LotMovementRepo) Delete(ctx context.Context, id string) error {
	sql, args, err := psql.Delete(movementsTable).Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return wrap("build delete movement", err)
	}
	tag, err := r.q.Exec(ctx, sql, args...)
	if err != nil {
		return wrap("delete movement", err)
	}
	return expectOne("delete movement", tag)
}
