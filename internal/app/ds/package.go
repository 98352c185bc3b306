package ds

import (
	"time"

	"staffdesk/internal/app/pricing"
)

// 3. Таблица пакетов услуг для компаний (справочник)
type Package struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(100);not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Employees   int       `gorm:"type:int;not null;default:1" json:"employees"`  // количество специалистов
	Hours       int       `gorm:"type:int;not null;default:0" json:"hours"`      // часов на специалиста
	Equivalent  float64   `gorm:"type:decimal(10,2);not null" json:"equivalent"` // ставка в час на специалиста
	Cost        float64   `gorm:"type:decimal(12,2);not null" json:"cost"`       // цена пакета для клиента
	IsDeleted   bool      `gorm:"type:boolean;default:false;not null" json:"-"`
	CreatedAt   time.Time `json:"created_at"`
}

func (p *Package) Terms() pricing.PackageTerms {
	return pricing.PackageTerms{
		Employees:  p.Employees,
		Hours:      p.Hours,
		Equivalent: p.Equivalent,
		Cost:       p.Cost,
	}
}
