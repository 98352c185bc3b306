package pricing

// Economics - производные показатели пакета.
type Economics struct {
	BaseSalary   float64 `json:"base_salary"`   // employees × hours × equivalent
	TotalBalance float64 `json:"total_balance"` // cost − baseSalary
	Percentage   float64 `json:"percentage"`    // доля маржи, 0 при нулевой стоимости
}

// PackageTerms - входные данные пакета для расчета.
type PackageTerms struct {
	Employees  int     `json:"employees"`
	Hours      int     `json:"hours"`
	Equivalent float64 `json:"equivalent"`
	Cost       float64 `json:"cost"`
}

// ComputePackageEconomics считает себестоимость часов, остаток и маржу пакета.
// Отрицательные параметры - ошибка, а не повод обрезать значение до нуля.
// Значения больше, чем помещается в колонку пакета, тоже ошибка.
func ComputePackageEconomics(employees, hours int, equivalent, cost float64) (Economics, error) {
	if employees < 0 {
		return Economics{}, &InvalidEconomicsInputError{Field: "employees", Value: float64(employees)}
	}
	if hours < 0 {
		return Economics{}, &InvalidEconomicsInputError{Field: "hours", Value: float64(hours)}
	}
	if !inRange(equivalent, MaxEquivalent) {
		return Economics{}, &InvalidEconomicsInputError{Field: "equivalent", Value: equivalent}
	}
	if !inRange(cost, MaxMoney) {
		return Economics{}, &InvalidEconomicsInputError{Field: "cost", Value: cost}
	}

	baseSalary := float64(employees) * float64(hours) * equivalent
	totalBalance := cost - baseSalary

	var percentage float64
	if cost > 0 {
		percentage = totalBalance / cost
	}

	return Economics{
		BaseSalary:   baseSalary,
		TotalBalance: totalBalance,
		Percentage:   percentage,
	}, nil
}

// Economics для уже загруженного пакета
func (p PackageTerms) Economics() (Economics, error) {
	return ComputePackageEconomics(p.Employees, p.Hours, p.Equivalent, p.Cost)
}

// inRange: 0 <= v <= max, NaN не проходит
func inRange(v, max float64) bool {
	return v >= 0 && v <= max
}
