package workflow

import (
	"context"

	"staffdesk/internal/app/ds"
	"staffdesk/internal/app/status"
)

//go:generate mockgen -destination=mocks/repository.go -package=mocks staffdesk/internal/app/workflow Repository

// Repository - хранилище, которым пользуется оркестратор.
// GetByID возвращает ErrNotFound, если сущности нет.
type Repository interface {
	GetByID(ctx context.Context, kind status.Kind, id uint) (ds.Workflow, error)
	Save(ctx context.Context, entity ds.Workflow) error
	CreateContract(ctx context.Context, contract *ds.Contract) error
	GetPackage(ctx context.Context, id uint) (*ds.Package, error)
	RecordStatusChange(ctx context.Context, change *ds.StatusChange) error
	// Atomic выполняет fn в одной транзакции: либо применяются все записи, либо ни одна.
	// Чтения внутри fn блокируют строку до конца транзакции.
	Atomic(ctx context.Context, fn func(tx Repository) error) error
}
