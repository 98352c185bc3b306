package ds

// 5. Таблица многие-ко-многим (договор-специалисты) для корпоративных договоров
type ContractProfessional struct {
	ID             uint `gorm:"primaryKey" json:"-"`
	ContractID     uint `gorm:"not null;index;uniqueIndex:idx_contract_professional" json:"-"`
	ProfessionalID uint `gorm:"not null;uniqueIndex:idx_contract_professional" json:"professional_id"`
}
