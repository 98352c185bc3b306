package workflow

import (
	"time"

	"staffdesk/internal/app/ds"
	"staffdesk/internal/app/pricing"
)

// ContractDraft - данные формы договора, из которых создается Contract.
type ContractDraft struct {
	ClientType         pricing.ClientType
	IndividualClientID *uint
	CompanyClientID    *uint

	PackageID       *uint  // CORPORATE
	ProfessionalIDs []uint // CORPORATE, один и более

	ProfessionalID    *uint // INDIVIDUAL
	DesiredPositionID *uint // INDIVIDUAL
	NegotiatedValue   *float64

	DiscountPercentage float64
	PaymentTerms       string
	Location           ds.Location
	StartDate          *time.Time
	EndDate            *time.Time
	Notes              string
}

// ValidateDraft проверяет обязательные связи черновика для его типа клиента.
// Денежные поля проверяет pricing.
func ValidateDraft(d ContractDraft) error {
	e := &IncompleteContractError{ClientType: d.ClientType}

	switch d.ClientType {
	case pricing.ClientCorporate:
		if !set(d.CompanyClientID) {
			e.Missing = append(e.Missing, "company_client_id")
		}
		if d.IndividualClientID != nil {
			e.Conflicting = append(e.Conflicting, "individual_client_id")
		}
		if !set(d.PackageID) {
			e.Missing = append(e.Missing, "package_id")
		}
		if len(d.ProfessionalIDs) == 0 {
			e.Missing = append(e.Missing, "professional_ids")
		} else if !distinctNonZero(d.ProfessionalIDs) {
			e.Conflicting = append(e.Conflicting, "professional_ids")
		}
	case pricing.ClientIndividual:
		if !set(d.IndividualClientID) {
			e.Missing = append(e.Missing, "individual_client_id")
		}
		if d.CompanyClientID != nil {
			e.Conflicting = append(e.Conflicting, "company_client_id")
		}
		if !set(d.ProfessionalID) {
			e.Missing = append(e.Missing, "professional_id")
		}
		if !set(d.DesiredPositionID) {
			e.Missing = append(e.Missing, "desired_position_id")
		}
		if d.PackageID != nil {
			e.Conflicting = append(e.Conflicting, "package_id")
		}
	default:
		e.Missing = append(e.Missing, "client_type")
	}

	if d.StartDate != nil && d.EndDate != nil && d.EndDate.Before(*d.StartDate) {
		e.Conflicting = append(e.Conflicting, "end_date")
	}

	if len(e.Missing) > 0 || len(e.Conflicting) > 0 {
		return e
	}
	return nil
}

// newContract собирает договор в статусе DRAFT. Черновик должен пройти ValidateDraft.
func newContract(d ContractDraft, p pricing.Pricing, number string) *ds.Contract {
	c := &ds.Contract{
		Number:             number,
		ClientType:         d.ClientType,
		IndividualClientID: d.IndividualClientID,
		CompanyClientID:    d.CompanyClientID,
		Location:           d.Location,
		PaymentTerms:       d.PaymentTerms,
		StartDate:          d.StartDate,
		EndDate:            d.EndDate,
		Notes:              d.Notes,
	}
	c.SetStatus(initialContractStatus)

	if d.ClientType == pricing.ClientCorporate {
		c.PackageID = d.PackageID
		for _, id := range d.ProfessionalIDs {
			c.Professionals = append(c.Professionals, ds.ContractProfessional{ProfessionalID: id})
		}
	} else {
		c.ProfessionalID = d.ProfessionalID
		c.DesiredPositionID = d.DesiredPositionID
	}

	c.ApplyPricing(p)
	return c
}

func set(id *uint) bool {
	return id != nil && *id != 0
}

func distinctNonZero(ids []uint) bool {
	seen := make(map[uint]bool, len(ids))
	for _, id := range ids {
		if id == 0 || seen[id] {
			return false
		}
		seen[id] = true
	}
	return true
}
