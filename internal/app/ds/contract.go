package ds

import (
	"time"

	"staffdesk/internal/app/pricing"
	"staffdesk/internal/app/status"
)

// Location - адрес оказания услуг
type Location struct {
	City     string `gorm:"type:varchar(100)" json:"city"`
	District string `gorm:"type:varchar(100)" json:"district"`
	Street   string `gorm:"type:varchar(200)" json:"street"`
}

// 4. Таблица договоров
type Contract struct {
	ID               uint                  `gorm:"primaryKey" json:"id"`
	Number           string                `gorm:"type:varchar(40);uniqueIndex;not null" json:"number"`
	Status           status.ContractStatus `gorm:"type:varchar(30);not null;default:'DRAFT';index" json:"status"`
	ServiceRequestID *uint                 `gorm:"index" json:"service_request_id,omitempty"`

	// Клиент: ровно одно из двух полей
	ClientType         pricing.ClientType `gorm:"type:varchar(20);not null;index" json:"client_type"`
	IndividualClientID *uint              `gorm:"index" json:"individual_client_id,omitempty"`
	CompanyClientID    *uint              `gorm:"index" json:"company_client_id,omitempty"`

	// CORPORATE: пакет и специалисты (М-М), INDIVIDUAL: один специалист и желаемая позиция
	PackageID         *uint                  `gorm:"index" json:"package_id,omitempty"`
	Professionals     []ContractProfessional `gorm:"foreignKey:ContractID;constraint:OnDelete:CASCADE" json:"professionals,omitempty"`
	ProfessionalID    *uint                  `gorm:"index" json:"professional_id,omitempty"`
	DesiredPositionID *uint                  `json:"desired_position_id,omitempty"`

	Location Location `gorm:"embedded;embeddedPrefix:location_" json:"location"`

	// Денежные поля, рассчитываются только через pricing
	AgreedValue        float64 `gorm:"type:decimal(12,2);not null" json:"agreed_value"`
	DiscountPercentage float64 `gorm:"type:decimal(5,2);not null;default:0" json:"discount_percentage"`
	FinalValue         float64 `gorm:"type:decimal(12,2);not null" json:"final_value"`
	PaymentTerms       string  `gorm:"type:varchar(100)" json:"payment_terms"`

	StartDate *time.Time `gorm:"type:date" json:"start_date,omitempty"`
	EndDate   *time.Time `gorm:"type:date" json:"end_date,omitempty"`
	Notes     string     `gorm:"type:text" json:"notes"`
	CreatedAt time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (c *Contract) Kind() status.Kind { return status.KindContract }
func (c *Contract) GetID() uint { return c.ID }
func (c *Contract) GetStatus() string { return string(c.Status) }
func (c *Contract) SetStatus(s string) { c.Status = status.ContractStatus(s) }

// ProfessionalIDs возвращает специалистов договора независимо от типа клиента.
func (c *Contract) ProfessionalIDs() []uint {
	if c.ClientType == pricing.ClientIndividual {
		if c.ProfessionalID == nil {
			return nil
		}
		return []uint{*c.ProfessionalID}
	}
	ids := make([]uint, 0, len(c.Professionals))
	for _, p := range c.Professionals {
		ids = append(ids, p.ProfessionalID)
	}
	return ids
}

// ApplyPricing записывает рассчитанные денежные условия.
func (c *Contract) ApplyPricing(p pricing.Pricing) {
	c.AgreedValue = p.AgreedValue
	c.DiscountPercentage = p.DiscountPercentage
	c.FinalValue = p.FinalValue
}
