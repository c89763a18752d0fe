package entity

import "time"

// TransitionLogEntry registro append-only de transições (tabela exp_pedidos_movimentacoes).
type TransitionLogEntry struct {
	ID        string
	OrderID   string
	Unit      string
	Kind      string // status | apontamento
	FromStage string
	ToStage   string
	Reason    string // vazio = sem motivo
	Actor     string
	At        time.Time
}
