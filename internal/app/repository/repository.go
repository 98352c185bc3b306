package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"staffdesk/internal/app/ds"
	"staffdesk/internal/app/status"
	"staffdesk/internal/app/workflow"
)

type Repository struct {
	db *gorm.DB
	// внутри транзакции чтения берут блокировку строки (SELECT ... FOR UPDATE)
	lockRows bool
}

var _ workflow.Repository = (*Repository)(nil)

func New(dsn string) (*Repository, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	// Автоматическая миграция всех таблиц
	if err := Migrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return NewWithDB(db), nil
}

func NewWithDB(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Migrate создает таблицы всех сущностей
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&ds.Package{},
		&ds.JobApplication{},
		&ds.ServiceRequest{},
		&ds.Contract{},
		&ds.ContractProfessional{},
		&ds.StatusChange{},
	)
}

// ListFilter - общий фильтр списков
type ListFilter struct {
	Status     string
	ClientType string
	Limit      int
	Offset     int
}

func (f ListFilter) apply(q *gorm.DB, clientColumn string) *gorm.DB {
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.ClientType != "" && clientColumn != "" {
		q = q.Where(clientColumn+" = ?", f.ClientType)
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	if f.Offset > 0 {
		q = q.Offset(f.Offset)
	}
	return q.Order("id DESC")
}

// Atomic выполняет fn в транзакции gorm. Ошибка из fn откатывает все записи.
func (r *Repository) Atomic(ctx context.Context, fn func(tx workflow.Repository) error) error {
	if r.lockRows {
		// уже внутри транзакции
		return fn(r)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Repository{db: tx, lockRows: true})
	})
}

func (r *Repository) query(ctx context.Context) *gorm.DB {
	q := r.db.WithContext(ctx)
	if r.lockRows {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return q
}

// GetByID читает workflow сущность по типу и ID
func (r *Repository) GetByID(ctx context.Context, kind status.Kind, id uint) (ds.Workflow, error) {
	var (
		entity ds.Workflow
		err    error
	)
	switch kind {
	case status.KindJobApplication:
		var app ds.JobApplication
		err = r.query(ctx).First(&app, id).Error
		entity = &app
	case status.KindServiceRequest:
		var req ds.ServiceRequest
		err = r.query(ctx).First(&req, id).Error
		entity = &req
	case status.KindContract:
		var c ds.Contract
		err = r.query(ctx).First(&c, id).Error
		if err == nil {
			err = r.db.WithContext(ctx).Where("contract_id = ?", c.ID).Find(&c.Professionals).Error
		}
		entity = &c
	default:
		return nil, workflow.ErrUnknownKind
	}
	if err != nil {
		return nil, notFound(err)
	}
	return entity, nil
}

// Save сохраняет сущность без связанных таблиц
func (r *Repository) Save(ctx context.Context, entity ds.Workflow) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(entity).Error
}

func (r *Repository) RecordStatusChange(ctx context.Context, change *ds.StatusChange) error {
	return r.db.WithContext(ctx).Create(change).Error
}

// История статусов сущности, от старых к новым
func (r *Repository) ListStatusChanges(ctx context.Context, kind status.Kind, id uint) ([]ds.StatusChange, error) {
	var changes []ds.StatusChange
	err := r.db.WithContext(ctx).
		Where("entity_kind = ? AND entity_id = ?", string(kind), id).
		Order("changed_at ASC, id ASC").
		Find(&changes).Error
	return changes, err
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return workflow.ErrNotFound
	}
	return err
}

// create записывает новую workflow сущность и первую запись ее истории
func (r *Repository) create(ctx context.Context, entity ds.Workflow, requestID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(entity).Error; err != nil {
			return err
		}
		return tx.Create(&ds.StatusChange{
			EntityKind: string(entity.Kind()),
			EntityID:   entity.GetID(),
			ToStatus:   entity.GetStatus(),
			RequestID:  requestID,
			ChangedAt:  time.Now().UTC(),
		}).Error
	})
}
