package domain

import (
	"errors"
	"fmt"
)

// Erros de domínio (sem dependências externas).
var (
	ErrNotFound          = errors.New("recurso não encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrUnauthorized      = errors.New("não autorizado")
	ErrConflict          = errors.New("conflito com o estado atual")
	ErrValidation        = errors.New("regra de validação violada")
	ErrOverdraw          = errors.New("quantidade informada excede o saldo disponível")
	ErrOrderOverrun      = errors.New("quantidade excede o total do pedido")
	ErrPersistence       = errors.New("falha de persistência")
	ErrStaleState        = errors.New("estado desatualizado")
	ErrInvalidTransition = errors.New("transição de estágio inválida")
)

// ValidationError rejeita a operação antes de qualquer escrita.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// NewValidationError atalho para ValidationError.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// OverdrawError indica que a quantidade pedida supera o disponível no lote/estágio de origem.
type OverdrawError struct {
	LotCode   string
	Stage     string
	Requested int64
	Available int64
}

func (e *OverdrawError) Error() string {
	return fmt.Sprintf("quantidade informada (%d pcs) excede o saldo disponível do lote %s em %s (%d pcs)",
		e.Requested, e.LotCode, e.Stage, e.Available)
}

func (e *OverdrawError) Is(target error) bool { return target == ErrOverdraw }

// OrderOverrunError indica que o apontamento faria o produzido ultrapassar o total do pedido.
type OrderOverrunError struct {
	Ordered   int64
	Produced  int64
	Remaining int64
}

func (e *OrderOverrunError) Error() string {
	return fmt.Sprintf("quantidade excede o saldo disponível. Total do pedido: %d pcs. Já produzido: %d pcs. Disponível: %d pcs.",
		e.Ordered, e.Produced, e.Remaining)
}

func (e *OrderOverrunError) Is(target error) bool { return target == ErrOrderOverrun }

// PersistenceError envolve qualquer falha de leitura/escrita no armazenamento.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("falha de persistência em %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func (e *PersistenceError) Is(target error) bool { return target == ErrPersistence }

// NewPersistenceError envolve err; devolve nil se err for nil.
func NewPersistenceError(op string, err error) error {
	if err == nil {
		return nil
	}
	var pe *PersistenceError
	if errors.As(err, &pe) {
		return err
	}
	return &PersistenceError{Op: op, Err: err}
}

// StaleStateError: o laço do livro de lotes terminou sem mover toda a quantidade pedida.
type StaleStateError struct {
	LotCode   string
	Remaining int64
}

func (e *StaleStateError) Error() string {
	return fmt.Sprintf("estado desatualizado: faltaram %d pcs para mover do lote %s; recarregue e tente novamente",
		e.Remaining, e.LotCode)
}

func (e *StaleStateError) Is(target error) bool { return target == ErrStaleState }

// ReconcileError: o apontamento foi gravado mas a atualização dos saldos do pedido falhou.
type ReconcileError struct {
	OrderID string
	Err     error
}

func (e *ReconcileError) Error() string {
	return fmt.Sprintf("apontamento registrado, mas os saldos do pedido %s não foram atualizados: %v", e.OrderID, e.Err)
}

func (e *ReconcileError) Unwrap() error { return e.Err }

// TransitionError transição fora do grafo de estágios da unidade.
type TransitionError struct {
	Unit string
	From string
	To   string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("transição inválida na unidade %s: %s -> %s", e.Unit, e.From, e.To)
}

func (e *TransitionError) Is(target error) bool { return target == ErrInvalidTransition }
