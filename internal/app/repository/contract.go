package repository

import (
	"context"

	"staffdesk/internal/app/ds"
)

// Методы для работы с договорами

// CreateContract записывает договор вместе со специалистами (М-М)
func (r *Repository) CreateContract(ctx context.Context, contract *ds.Contract) error {
	return r.db.WithContext(ctx).Create(contract).Error
}

func (r *Repository) GetContract(ctx context.Context, id uint) (*ds.Contract, error) {
	var contract ds.Contract
	err := r.db.WithContext(ctx).Preload("Professionals").First(&contract, id).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &contract, nil
}

// Список договоров с фильтром по статусу и типу клиента
func (r *Repository) ListContracts(ctx context.Context, f ListFilter) ([]ds.Contract, error) {
	var contracts []ds.Contract
	err := f.apply(r.db.WithContext(ctx).Preload("Professionals"), "client_type").Find(&contracts).Error
	return contracts, err
}

// Договор, созданный по запросу клиента
func (r *Repository) GetContractByServiceRequest(ctx context.Context, serviceRequestID uint) (*ds.Contract, error) {
	var contract ds.Contract
	err := r.db.WithContext(ctx).Preload("Professionals").
		Where("service_request_id = ?", serviceRequestID).
		First(&contract).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &contract, nil
}
