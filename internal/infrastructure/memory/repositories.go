package memory

import (
	"context"
	"fmt"

	"github.com/jhoicas/exp-usinagem-api/internal/domain/entity"
	"github.com/jhoicas/exp-usinagem-api/internal/domain/repository"
)

var (
	_ repository.OrderRepository           = (*OrderRepository)(nil)
	_ repository.LotMovementRepository     = (*LotMovementRepository)(nil)
	_ repository.TransitionLogRepository   = (*TransitionLogRepository)(nil)
	_ repository.EntryCorrectionRepository = (*EntryCorrectionRepository)(nil)
)

// OrderRepository implementa repository.OrderRepository.
type OrderRepository struct {
	store *Store
	inTx  bool
}

func findOrder(d *state, id string) int {
	for i, o := range d.orders {
		if o.ID == id {
			return i
		}
	}
	return -1
}

func (r *OrderRepository) Create(_ context.Context, order *entity.Order) error {
	return r.store.write(r.inTx, OpOrderCreate, func(d *state) error {
		if order.ID == "" {
			return fmt.Errorf("memory: pedido sem id")
		}
		if findOrder(d, order.ID) >= 0 {
			return fmt.Errorf("memory: pedido %s já existe", order.ID)
		}
		d.orders = append(d.orders, cloneOrder(order))
		return nil
	})
}

func (r *OrderRepository) GetByID(_ context.Context, id string) (*entity.Order, error) {
	var out *entity.Order
	err := r.store.read(OpOrderGet, func(d *state) {
		if i := findOrder(d, id); i >= 0 {
			out = cloneOrder(d.orders[i])
		}
	})
	return out, err
}

func (r *OrderRepository) List(_ context.Context) ([]*entity.Order, error) {
	var out []*entity.Order
	err := r.store.read(OpOrderList, func(d *state) {
		out = make([]*entity.Order, 0, len(d.orders))
		for _, o := range d.orders {
			out = append(out, cloneOrder(o))
		}
	})
	return out, err
}

func (r *OrderRepository) UpdateBalances(_ context.Context, order *entity.Order) error {
	return r.store.write(r.inTx, OpOrderUpdateBalances, func(d *state) error {
		i := findOrder(d, order.ID)
		if i < 0 {
			return fmt.Errorf("memory: pedido %s não encontrado", order.ID)
		}
		src := cloneOrder(order)
		cur := d.orders[i]
		cur.AvailablePieces = src.AvailablePieces
		cur.AvailableKg = src.AvailableKg
		cur.CumulativePieces = src.CumulativePieces
		cur.CumulativeKg = src.CumulativeKg
		cur.BalanceUpdatedAt = src.BalanceUpdatedAt
		cur.UpdatedAt = src.UpdatedAt
		return nil
	})
}

func (r *OrderRepository) UpdateStages(_ context.Context, order *entity.Order) error {
	return r.store.write(r.inTx, OpOrderUpdateStages, func(d *state) error {
		i := findOrder(d, order.ID)
		if i < 0 {
			return fmt.Errorf("memory: pedido %s não encontrado", order.ID)
		}
		src := cloneOrder(order)
		cur := d.orders[i]
		cur.PrimaryStage = src.PrimaryStage
		cur.SecondaryStage = src.SecondaryStage
		cur.UpdatedAt = src.UpdatedAt
		return nil
	})
}

func (r *OrderRepository) Delete(_ context.Context, id string) error {
	return r.store.write(r.inTx, OpOrderDelete, func(d *state) error {
		i := findOrder(d, id)
		if i < 0 {
			return fmt.Errorf("memory: pedido %s não encontrado", id)
		}
		d.orders = append(d.orders[:i], d.orders[i+1:]...)

		movs := d.movements[:0]
		for _, m := range d.movements {
			if m.OrderID != id {
				movs = append(movs, m)
			}
		}
		d.movements = movs

		logs := d.transitions[:0]
		for _, t := range d.transitions {
			if t.OrderID != id {
				logs = append(logs, t)
			}
		}
		d.transitions = logs

		corr := d.corrections[:0]
		for _, c := range d.corrections {
			if c.OrderID != id {
				corr = append(corr, c)
			}
		}
		d.corrections = corr
		return nil
	})
}

// LotMovementRepository implementa repository.LotMovementRepository.
type LotMovementRepository struct {
	store *Store
	inTx  bool
}

func findMovement(d *state, id string) int {
	for i, m := range d.movements {
		if m.ID == id {
			return i
		}
	}
	return -1
}

func (r *LotMovementRepository) List(_ context.Context) ([]*entity.LotMovement, error) {
	var out []*entity.LotMovement
	err := r.store.read(OpMovementList, func(d *state) {
		out = make([]*entity.LotMovement, 0, len(d.movements))
		for _, m := range d.movements {
			out = append(out, m.Clone())
		}
	})
	return out, err
}

func (r *LotMovementRepository) ListByOrder(_ context.Context, orderID string) ([]*entity.LotMovement, error) {
	var out []*entity.LotMovement
	err := r.store.read(OpMovementList, func(d *state) {
		out = []*entity.LotMovement{}
		for _, m := range d.movements {
			if m.OrderID == orderID {
				out = append(out, m.Clone())
			}
		}
	})
	return out, err
}

func (r *LotMovementRepository) GetByID(_ context.Context, id string) (*entity.LotMovement, error) {
	var out *entity.LotMovement
	err := r.store.read(OpMovementGet, func(d *state) {
		if i := findMovement(d, id); i >= 0 {
			out = d.movements[i].Clone()
		}
	})
	return out, err
}

func (r *LotMovementRepository) Create(ctx context.Context, movement *entity.LotMovement) error {
	return r.CreateBatch(ctx, []*entity.LotMovement{movement})
}

// CreateBatch insere todos ou nenhum.
func (r *LotMovementRepository) CreateBatch(_ context.Context, movements []*entity.LotMovement) error {
	return r.store.write(r.inTx, OpMovementCreate, func(d *state) error {
		for _, m := range movements {
			if err := checkMovement(m); err != nil {
				return err
			}
			if findMovement(d, m.ID) >= 0 {
				return fmt.Errorf("memory: apontamento %s já existe", m.ID)
			}
		}
		for _, m := range movements {
			d.movements = append(d.movements, m.Clone())
		}
		return nil
	})
}

func (r *LotMovementRepository) Update(_ context.Context, movement *entity.LotMovement) error {
	return r.store.write(r.inTx, OpMovementUpdate, func(d *state) error {
		if err := checkMovement(movement); err != nil {
			return err
		}
		i := findMovement(d, movement.ID)
		if i < 0 {
			return fmt.Errorf("memory: apontamento %s não encontrado", movement.ID)
		}
		d.movements[i] = movement.Clone()
		return nil
	})
}

func (r *LotMovementRepository) Delete(_ context.Context, id string) error {
	return r.store.write(r.inTx, OpMovementDelete, func(d *state) error {
		i := findMovement(d, id)
		if i < 0 {
			return fmt.Errorf("memory: apontamento %s não encontrado", id)
		}
		d.movements = append(d.movements[:i], d.movements[i+1:]...)
		return nil
	})
}

// checkMovement mesmas restrições das colunas no Postgres.
func checkMovement(m *entity.LotMovement) error {
	if m.ID == "" || m.OrderID == "" {
		return fmt.Errorf("memory: apontamento sem id ou pedido")
	}
	if m.QuantityPieces <= 0 {
		return fmt.Errorf("memory: apontamento %s com quantidade %d", m.ID, m.QuantityPieces)
	}
	return nil
}

// TransitionLogRepository implementa repository.TransitionLogRepository.
type TransitionLogRepository struct {
	store *Store
	inTx  bool
}

func (r *TransitionLogRepository) Append(_ context.Context, entry *entity.TransitionLogEntry) error {
	return r.store.write(r.inTx, OpTransitionAppend, func(d *state) error {
		cp := *entry
		d.transitions = append(d.transitions, &cp)
		return nil
	})
}

func (r *TransitionLogRepository) ListByOrder(_ context.Context, orderID string) ([]*entity.TransitionLogEntry, error) {
	var out []*entity.TransitionLogEntry
	err := r.store.read(OpTransitionList, func(d *state) {
		out = []*entity.TransitionLogEntry{}
		for _, t := range d.transitions {
			if t.OrderID == orderID {
				cp := *t
				out = append(out, &cp)
			}
		}
	})
	return out, err
}

// EntryCorrectionRepository implementa repository.EntryCorrectionRepository.
type EntryCorrectionRepository struct {
	store *Store
	inTx  bool
}

func (r *EntryCorrectionRepository) Create(_ context.Context, correction *entity.EntryCorrection) error {
	return r.store.write(r.inTx, OpCorrectionCreate, func(d *state) error {
		d.corrections = append(d.corrections, cloneCorrection(correction))
		return nil
	})
}

func (r *EntryCorrectionRepository) ListByMovement(_ context.Context, movementID string) ([]*entity.EntryCorrection, error) {
	var out []*entity.EntryCorrection
	err := r.store.read(OpCorrectionList, func(d *state) {
		out = []*entity.EntryCorrection{}
		for _, c := range d.corrections {
			if c.MovementID == movementID {
				out = append(out, cloneCorrection(c))
			}
		}
	})
	return out, err
}
