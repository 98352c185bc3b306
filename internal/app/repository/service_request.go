package repository

import (
	"context"

	"staffdesk/internal/app/ds"
	"staffdesk/internal/app/status"
	"staffdesk/internal/app/workflow"
)

// Методы для запросов клиентов

func (r *Repository) CreateServiceRequest(ctx context.Context, req *ds.ServiceRequest) error {
	req.Status = status.ServiceRequestStatus(status.Initial(status.KindServiceRequest))
	req.ContractID = nil
	return r.create(ctx, req, workflow.RequestIDFromContext(ctx))
}

func (r *Repository) ListServiceRequests(ctx context.Context, f ListFilter) ([]ds.ServiceRequest, error) {
	var requests []ds.ServiceRequest
	err := f.apply(r.db.WithContext(ctx), "requester_type").Find(&requests).Error
	return requests, err
}
