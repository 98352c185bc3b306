package ds

import (
	"time"

	"staffdesk/internal/app/status"
)

// 1. Таблица заявок кандидатов. После подачи меняется только статус.
type JobApplication struct {
	ID                uint                     `gorm:"primaryKey" json:"id"`
	FullName          string                   `gorm:"type:varchar(150);not null" json:"full_name"`
	Email             string                   `gorm:"type:varchar(100);not null" json:"email"`
	Phone             string                   `gorm:"type:varchar(30)" json:"phone"`
	DesiredPositionID *uint                    `gorm:"index" json:"desired_position_id,omitempty"`
	ResumeKey         *string                  `gorm:"type:varchar(255)" json:"resume_key,omitempty"` // объект резюме в MinIO
	CoverLetter       string                   `gorm:"type:text" json:"cover_letter"`
	Status            status.ApplicationStatus `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"status"`
	CreatedAt         time.Time                `gorm:"not null" json:"created_at"`
	UpdatedAt         time.Time                `json:"updated_at"`
}

func (a *JobApplication) Kind() status.Kind { return status.KindJobApplication }
func (a *JobApplication) GetID() uint { return a.ID }
func (a *JobApplication) GetStatus() string { return string(a.Status) }
func (a *JobApplication) SetStatus(s string) { a.Status = status.ApplicationStatus(s) }
