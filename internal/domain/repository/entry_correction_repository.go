package repository

import (
	"context"

	"github.com/jhoicas/exp-usinagem-api/internal/domain/entity"
)

// EntryCorrectionRepository auditoria de correções de apontamentos.
type EntryCorrectionRepository interface {
	Create(ctx context.Context, correction *entity.EntryCorrection) error
	ListByMovement(ctx context.Context, movementID string) ([]*entity.EntryCorrection, error)
}
