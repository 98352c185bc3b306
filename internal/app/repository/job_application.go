package repository

import (
	"context"

	"staffdesk/internal/app/ds"
	"staffdesk/internal/app/status"
	"staffdesk/internal/app/workflow"
)

// Методы для заявок кандидатов

func (r *Repository) CreateJobApplication(ctx context.Context, app *ds.JobApplication) error {
	app.Status = status.ApplicationStatus(status.Initial(status.KindJobApplication))
	return r.create(ctx, app, workflow.RequestIDFromContext(ctx))
}

func (r *Repository) ListJobApplications(ctx context.Context, f ListFilter) ([]ds.JobApplication, error) {
	var apps []ds.JobApplication
	err := f.apply(r.db.WithContext(ctx), "").Find(&apps).Error
	return apps, err
}
