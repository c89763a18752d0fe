package postgres

import (
	"context"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/exp-usinagem-api/internal/domain/entity"
	"github.com/jhoicas/exp-usinagem-api/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

const ordersTable = "exp_orders"

var orderColumns = []string{
	"id", "origin", "order_seq", "client", "customer_order_number", "tool", "delivery_date",
	"ordered_pieces", "ordered_kg", "available_pieces", "available_kg",
	"cumulative_pieces", "cumulative_kg", "primary_stage", "secondary_stage",
	"selected_by", "created_at", "updated_at", "balance_updated_at",
}

type orderRow struct {
	ID                  string              `db:"id"`
	Origin              string              `db:"origin"`
	OrderSeq            string              `db:"order_seq"`
	Client              string              `db:"client"`
	CustomerOrderNumber string              `db:"customer_order_number"`
	Tool                string              `db:"tool"`
	DeliveryDate        *time.Time          `db:"delivery_date"`
	OrderedPieces       int64               `db:"ordered_pieces"`
	OrderedKg           decimal.Decimal     `db:"ordered_kg"`
	AvailablePieces     *int64              `db:"available_pieces"`
	AvailableKg         decimal.NullDecimal `db:"available_kg"`
	CumulativePieces    int64               `db:"cumulative_pieces"`
	CumulativeKg        decimal.Decimal     `db:"cumulative_kg"`
	PrimaryStage        string              `db:"primary_stage"`
	SecondaryStage      *string             `db:"secondary_stage"`
	SelectedBy          string              `db:"selected_by"`
	CreatedAt           time.Time           `db:"created_at"`
	UpdatedAt           time.Time           `db:"updated_at"`
	BalanceUpdatedAt    *time.Time          `db:"balance_updated_at"`
}

func (r orderRow) toEntity() *entity.Order {
	o := &entity.Order{
		ID:                  r.ID,
		Origin:              r.Origin,
		OrderSeq:            r.OrderSeq,
		Client:              r.Client,
		CustomerOrderNumber: r.CustomerOrderNumber,
		Tool:                r.Tool,
		DeliveryDate:        r.DeliveryDate,
		OrderedPieces:       r.OrderedPieces,
		OrderedKg:           r.OrderedKg,
		AvailablePieces:     r.AvailablePieces,
		CumulativePieces:    r.CumulativePieces,
		CumulativeKg:        r.CumulativeKg,
		PrimaryStage:        r.PrimaryStage,
		SecondaryStage:      r.SecondaryStage,
		SelectedBy:          r.SelectedBy,
		CreatedAt:           r.CreatedAt,
		UpdatedAt:           r.UpdatedAt,
		BalanceUpdatedAt:    r.BalanceUpdatedAt,
	}
	if r.AvailableKg.Valid {
		kg := r.AvailableKg.Decimal
		o.AvailableKg = &kg
	}
	return o
}

func nullKg(kg *decimal.Decimal) decimal.NullDecimal {
	if kg == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *kg, Valid: true}
}

// OrderRepo pedidos do fluxo sobre PostgreSQL (pool ou tx). Com lock, GetByID usa
// SELECT ... FOR UPDATE e serializa as ações sobre o mesmo pedido até o fim da transação.
type OrderRepo struct {
	q    Querier
	lock bool
}

// NewOrderRepository constrói o adaptador. Passar pool ou tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

func (r *OrderRepo) Create(ctx context.Context, o *entity.Order) error {
	sql, args, err := psql.Insert(ordersTable).
		Columns(orderColumns...).
		Values(
			o.ID, o.Origin, o.OrderSeq, o.Client, o.CustomerOrderNumber, o.Tool, o.DeliveryDate,
			o.OrderedPieces, o.OrderedKg, o.AvailablePieces, nullKg(o.AvailableKg),
			o.CumulativePieces, o.CumulativeKg, o.PrimaryStage, o.SecondaryStage,
			o.SelectedBy, o.CreatedAt, o.UpdatedAt, o.BalanceUpdatedAt,
		).ToSql()
	if err != nil {
		return wrap("build insert order", err)
	}
	_, err = r.q.Exec(ctx, sql, args...)
	return wrap("insert order", err)
}

// GetByID devolve nil, nil quando o pedido não existe.
func (r *OrderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	b := psql.Select(orderColumns...).From(ordersTable).Where(squirrel.Eq{"id": id})
	if r.lock {
		b = b.Suffix("FOR UPDATE")
	}
	sql, args, err := b.ToSql()
	if err != nil {
		return nil, wrap("build get order", err)
	}
	var row orderRow
	if err := pgxscan.Get(ctx, r.q, &row, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, wrap("get order", err)
	}
	return row.toEntity(), nil
}

func (r *OrderRepo) List(ctx context.Context) ([]*entity.Order, error) {
	sql, args, err := psql.Select(orderColumns...).From(ordersTable).OrderBy("seq").ToSql()
	if err != nil {
		return nil, wrap("build list orders", err)
	}
	var rows []orderRow
	if err := pgxscan.Select(ctx, r.q, &rows, sql, args...); err != nil {
		return nil, wrap("list orders", err)
	}
	out := make([]*entity.Order, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toEntity())
	}
	return out, nil
}

func (r *OrderRepo) UpdateBalances(ctx context.Context, o *entity.Order) error {
	sql, args, err := psql.Update(ordersTable).
		Set("available_pieces", o.AvailablePieces).
		Set("available_kg", nullKg(o.AvailableKg)).
		Set("cumulative_pieces", o.CumulativePieces).
		Set("cumulative_kg", o.CumulativeKg).
		Set("balance_updated_at", o.BalanceUpdatedAt).
		Set("updated_at", o.UpdatedAt).
		Where(squirrel.Eq{"id": o.ID}).
		ToSql()
	if err != nil {
		return wrap("build update balances", err)
	}
	tag, err := r.q.Exec(ctx, sql, args...)
	if err != nil {
		return wrap("update balances", err)
	}
	return expectOne("update balances", tag)
}

func (r *OrderRepo) UpdateStages(ctx context.Context, o *entity.Order) error {
	sql, args, err := psql.Update(ordersTable).
		Set("primary_stage", o.PrimaryStage).
		Set("secondary_stage", o.SecondaryStage).
		Set("updated_at", o.UpdatedAt).
		Where(squirrel.Eq{"id": o.ID}).
		ToSql()
	if err != nil {
		return wrap("build update stages", err)
	}
	tag, err := r.q.Exec(ctx, sql, args...)
	if err != nil {
		return wrap("update stages", err)
	}
	return expectOne("update stages", tag)
}

// Delete remove o pedido; apontamentos, histórico e correções saem por ON DELETE CASCADE.
func (r *OrderRepo) Delete(ctx context.Context, id string) error {
	sql, args, err := psql.Delete(ordersTable).Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return wrap("build delete order", err)
	}
	tag, err := r.q.Exec(ctx, sql, args...)
	if err != nil {
		return wrap("delete order", err)
	}
	return expectOne("delete order", tag)
}
