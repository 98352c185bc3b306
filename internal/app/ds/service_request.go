package ds

import (
	"time"

	"staffdesk/internal/app/pricing"
	"staffdesk/internal/app/status"
)

// 2. Таблица входящих запросов клиентов (физлица и компании)
type ServiceRequest struct {
	ID            uint                        `gorm:"primaryKey" json:"id"`
	RequesterType pricing.ClientType          `gorm:"type:varchar(20);not null;index" json:"requester_type"`
	FullName      string                      `gorm:"type:varchar(150)" json:"full_name"`
	CompanyName   string                      `gorm:"type:varchar(150)" json:"company_name,omitempty"`
	Document      string                      `gorm:"type:varchar(30)" json:"document"` // CPF/CNPJ/ИНН заявителя
	Email         string                      `gorm:"type:varchar(100)" json:"email"`
	Phone         string                      `gorm:"type:varchar(30)" json:"phone"`
	Description   string                      `gorm:"type:text" json:"description"`
	Status        status.ServiceRequestStatus `gorm:"type:varchar(30);not null;default:'PENDING';index" json:"status"`
	ContractID    *uint                       `gorm:"default:null" json:"contract_id,omitempty"` // договор, созданный при одобрении
	CreatedAt     time.Time                   `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time                   `json:"updated_at"`
}

func (r *ServiceRequest) Kind() status.Kind { return status.KindServiceRequest }
func (r *ServiceRequest) GetID() uint { return r.ID }
func (r *ServiceRequest) GetStatus() string { return string(r.Status) }
func (r *ServiceRequest) SetStatus(s string) { r.Status = status.ServiceRequestStatus(s) }
