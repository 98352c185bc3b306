package dto

import (
	"time"

	"staffdesk/internal/app/ds"
	"staffdesk/internal/app/pricing"
)

// ============ Общие структуры ============

type ErrorResponse struct {
	Status  string      `json:"status"`
	Code    string      `json:"code,omitempty"` // машинный код ошибки для UI
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

type SuccessResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

type ListResponse struct {
	Items interface{} `json:"items"`
	Total int         `json:"total"`
}

// ============ Workflow ============

// EntityResponse - сущность вместе с допустимыми следующими статусами
type EntityResponse struct {
	Kind               string      `json:"kind"`
	Entity             interface{} `json:"entity"`
	AllowedTransitions []string    `json:"allowed_transitions"`
	Terminal           bool        `json:"terminal"`
}

// StatusChangeRequest - новый статус или действие интерфейса (APPROVED, REJECTED, IN_REVIEW)
type StatusChangeRequest struct {
	Status string `json:"status"`
	Action string `json:"action"`
}

func (r StatusChangeRequest) Requested() string {
	if r.Status != "" {
		return r.Status
	}
	return r.Action
}

type IllegalTransitionDetails struct {
	From    string   `json:"from"`
	To      string   `json:"to"`
	Allowed []string `json:"allowed"`
}

type IncompleteContractDetails struct {
	Missing     []string `json:"missing,omitempty"`
	Conflicting []string `json:"conflicting,omitempty"`
}

// ============ Заявки кандидатов и запросы клиентов ============

type CreateJobApplicationRequest struct {
	FullName          string  `json:"full_name" binding:"required,max=150"`
	Email             string  `json:"email" binding:"required,email"`
	Phone             string  `json:"phone" binding:"omitempty,max=30"`
	DesiredPositionID *uint   `json:"desired_position_id"`
	ResumeKey         *string `json:"resume_key" binding:"omitempty,max=255"`
	CoverLetter       string  `json:"cover_letter"`
}

type CreateServiceRequestRequest struct {
	RequesterType string `json:"requester_type" binding:"required,oneof=INDIVIDUAL CORPORATE"`
	FullName      string `json:"full_name" binding:"required_if=RequesterType INDIVIDUAL,max=150"`
	CompanyName   string `json:"company_name" binding:"required_if=RequesterType CORPORATE,max=150"`
	Document      string `json:"document" binding:"omitempty,max=30"`
	Email         string `json:"email" binding:"required,email"`
	Phone         string `json:"phone" binding:"omitempty,max=30"`
	Description   string `json:"description"`
}

// ============ Договоры ============

type LocationDTO struct {
	City     string `json:"city" binding:"max=100"`
	District string `json:"district" binding:"max=100"`
	Street   string `json:"street" binding:"max=200"`
}

// ContractDraftRequest - форма договора. Даты в формате 2006-01-02.
type ContractDraftRequest struct {
	ClientType         string      `json:"client_type" binding:"omitempty,oneof=INDIVIDUAL CORPORATE"`
	IndividualClientID *uint       `json:"individual_client_id"`
	CompanyClientID    *uint       `json:"company_client_id"`
	PackageID          *uint       `json:"package_id"`
	ProfessionalIDs    []uint      `json:"professional_ids"`
	ProfessionalID     *uint       `json:"professional_id"`
	DesiredPositionID  *uint       `json:"desired_position_id"`
	NegotiatedValue    *float64    `json:"negotiated_value"`
	DiscountPercentage float64     `json:"discount_percentage"`
	PaymentTerms       string      `json:"payment_terms" binding:"max=100"`
	Location           LocationDTO `json:"location"`
	StartDate          string      `json:"start_date" binding:"omitempty,datetime=2006-01-02"`
	EndDate            string      `json:"end_date" binding:"omitempty,datetime=2006-01-02"`
	Notes              string      `json:"notes"`
}

type RepriceContractRequest struct {
	PackageID          *uint    `json:"package_id"`
	NegotiatedValue    *float64 `json:"negotiated_value"`
	DiscountPercentage *float64 `json:"discount_percentage"`
}

// ============ Пакеты и расчеты ============

type PackageRequest struct {
	Name        string  `json:"name" binding:"required,max=100"`
	Description string  `json:"description"`
	Employees   int     `json:"employees"`
	Hours       int     `json:"hours"`
	Equivalent  float64 `json:"equivalent"`
	Cost        float64 `json:"cost"`
}

type PackageResponse struct {
	ds.Package
	Economics pricing.Economics `json:"economics"`
}

type EconomicsRequest struct {
	Employees  int     `json:"employees"`
	Hours      int     `json:"hours"`
	Equivalent float64 `json:"equivalent"`
	Cost       float64 `json:"cost"`
}

// PricingPreviewRequest - предварительный расчет для формы договора.
// Для CORPORATE нужен package_id либо параметры пакета в package.
type PricingPreviewRequest struct {
	ClientType         string                `json:"client_type" binding:"required,oneof=INDIVIDUAL CORPORATE"`
	PackageID          *uint                 `json:"package_id"`
	Package            *pricing.PackageTerms `json:"package"`
	NegotiatedValue    *float64              `json:"negotiated_value"`
	DiscountPercentage float64               `json:"discount_percentage"`
}

type ApprovalResponse struct {
	ServiceRequest *ds.ServiceRequest `json:"service_request"`
	Contract       *ds.Contract       `json:"contract"`
}

// ParseDate разбирает необязательную дату формы
func ParseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
