package entity

import "time"

// EntryCorrection auditoria de correções de apontamentos (tabela apontamentos_correcoes).
type EntryCorrection struct {
	ID            string
	MovementID    string
	OrderID       string
	PreviousValue map[string]any
	NewValue      map[string]any
	ChangedFields []string
	Reason        string
	CorrectedBy   string
	CorrectedAt   time.Time
}
