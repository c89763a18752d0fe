// Package memory implementa os repositórios em memória, usados em testes e no modo
// STORAGE_DRIVER=memory. Transações são serializadas e desfeitas por snapshot.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/jhoicas/exp-usinagem-api/internal/application/production"
	"github.com/jhoicas/exp-usinagem-api/internal/domain/entity"
)

// Operações que aceitam falhas injetadas.
const (
	OpOrderCreate         = "orders.create"
	OpOrderGet            = "orders.get"
	OpOrderList           = "orders.list"
	OpOrderUpdateBalances = "orders.update_balances"
	OpOrderUpdateStages   = "orders.update_stages"
	OpOrderDelete         = "orders.delete"
	OpMovementList        = "movements.list"
	OpMovementGet         = "movements.get"
	OpMovementCreate      = "movements.create"
	OpMovementUpdate      = "movements.update"
	OpMovementDelete      = "movements.delete"
	OpTransitionAppend    = "transitions.append"
	OpTransitionList      = "transitions.list"
	OpCorrectionCreate    = "corrections.create"
	OpCorrectionList      = "corrections.list"
)

type fault struct {
	skip int
	err  error
}

type state struct {
	orders      []*entity.Order
	movements   []*entity.LotMovement
	transitions []*entity.TransitionLogEntry
	corrections []*entity.EntryCorrection
}

func (s *state) clone() *state {
	c := &state{
		orders:      make([]*entity.Order, len(s.orders)),
		movements:   make([]*entity.LotMovement, len(s.movements)),
		transitions: make([]*entity.TransitionLogEntry, len(s.transitions)),
		corrections: make([]*entity.EntryCorrection, len(s.corrections)),
	}
	for i, o := range s.orders {
		c.orders[i] = cloneOrder(o)
	}
	for i, m := range s.movements {
		c.movements[i] = m.Clone()
	}
	for i, t := range s.transitions {
		cp := *t
		c.transitions[i] = &cp
	}
	for i, e := range s.corrections {
		c.corrections[i] = cloneCorrection(e)
	}
	return c
}

// Store armazenamento em memória. Preserva a ordem de inserção e devolve cópias.
type Store struct {
	txMu   sync.Mutex // serializa transações e escritas avulsas
	dataMu sync.RWMutex
	data   *state
	faults map[string]*fault
}

// NewStore cria um armazenamento vazio.
func NewStore() *Store {
	return &Store{data: &state{}, faults: map[string]*fault{}}
}

// InjectFault faz a próxima chamada de op falhar com err.
func (s *Store) InjectFault(op string, err error) {
	s.InjectFaultAfter(op, 0, err)
}

// InjectFaultAfter deixa skip chamadas de op passarem e faz a seguinte falhar com err.
func (s *Store) InjectFaultAfter(op string, skip int, err error) {
	s.dataMu.Lock()
	defer s.dataMu.Unlock()
	s.faults[op] = &fault{skip: skip, err: err}
}

// ClearFaults remove as falhas pendentes.
func (s *Store) ClearFaults() {
	s.dataMu.Lock()
	defer s.dataMu.Unlock()
	s.faults = map[string]*fault{}
}

// checkFault deve ser chamado com dataMu travado.
func (s *Store) checkFault(op string) error {
	f, ok := s.faults[op]
	if !ok {
		return nil
	}
	if f.skip > 0 {
		f.skip--
		return nil
	}
	delete(s.faults, op)
	return fmt.Errorf("memory: %s: %w", op, f.err)
}

// Repos repositórios fora de transação.
func (s *Store) Repos() production.Repos {
	return s.repos(false)
}

func (s *Store) repos(inTx bool) production.Repos {
	return production.Repos{
		Orders:      &OrderRepository{store: s, inTx: inTx},
		Movements:   &LotMovementRepository{store: s, inTx: inTx},
		Transitions: &TransitionLogRepository{store: s, inTx: inTx},
		Corrections: &EntryCorrectionRepository{store: s, inTx: inTx},
	}
}

// Run executa fn com repositórios transacionais; em erro restaura o estado anterior.
func (s *Store) Run(ctx context.Context, fn func(repos production.Repos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.dataMu.RLock()
	snapshot := s.data.clone()
	s.dataMu.RUnlock()

	if err := fn(s.repos(true)); err != nil {
		s.dataMu.Lock()
		s.data = snapshot
		s.dataMu.Unlock()
		return err
	}
	return nil
}

// write executa uma escrita; fora de transação também serializa com as transações.
func (s *Store) write(inTx bool, op string, fn func(d *state) error) error {
	if !inTx {
		s.txMu.Lock()
		defer s.txMu.Unlock()
	}
	s.dataMu.Lock()
	defer s.dataMu.Unlock()
	if err := s.checkFault(op); err != nil {
		return err
	}
	return fn(s.data)
}

func (s *Store) read(op string, fn func(d *state)) error {
	s.dataMu.Lock()
	defer s.dataMu.Unlock()
	if err := s.checkFault(op); err != nil {
		return err
	}
	fn(s.data)
	return nil
}

func cloneOrder(o *entity.Order) *entity.Order {
	c := *o
	if o.DeliveryDate != nil {
		t := *o.DeliveryDate
		c.DeliveryDate = &t
	}
	if o.AvailablePieces != nil {
		v := *o.AvailablePieces
		c.AvailablePieces = &v
	}
	if o.AvailableKg != nil {
		v := *o.AvailableKg
		c.AvailableKg = &v
	}
	if o.SecondaryStage != nil {
		v := *o.SecondaryStage
		c.SecondaryStage = &v
	}
	if o.BalanceUpdatedAt != nil {
		t := *o.BalanceUpdatedAt
		c.BalanceUpdatedAt = &t
	}
	return &c
}

func cloneCorrection(e *entity.EntryCorrection) *entity.EntryCorrection {
	c := *e
	c.PreviousValue = make(map[string]any, len(e.PreviousValue))
	for k, v := range e.PreviousValue {
		c.PreviousValue[k] = v
	}
	c.NewValue = make(map[string]any, len(e.NewValue))
	for k, v := range e.NewValue {
		c.NewValue[k] = v
	}
	c.ChangedFields = append([]string(nil), e.ChangedFields...)
	return &c
}
