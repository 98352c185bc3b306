package pricing

import (
	"math"
	"strings"
)

// Пределы денежных колонок: decimal(12,2) для сумм, decimal(10,2) для ставки пакета.
const (
	MaxMoney      = 9999999999.99
	MaxEquivalent = 99999999.99
)

// ClientType - тип клиента договора
type ClientType string

const (
	ClientIndividual ClientType = "INDIVIDUAL"
	ClientCorporate  ClientType = "CORPORATE"
)

func ParseClientType(raw string) (ClientType, error) {
	switch ClientType(strings.ToUpper(strings.TrimSpace(raw))) {
	case ClientIndividual:
		return ClientIndividual, nil
	case ClientCorporate:
		return ClientCorporate, nil
	}
	return "", ErrUnknownClientType
}

// Input - параметры расчета договора.
// Package обязателен для CORPORATE, NegotiatedValue - для INDIVIDUAL.
type Input struct {
	Package            *PackageTerms
	NegotiatedValue    *float64
	DiscountPercentage float64
}

// Pricing - денежные условия договора.
type Pricing struct {
	AgreedValue        float64    `json:"agreed_value"`
	DiscountPercentage float64    `json:"discount_percentage"`
	DiscountAmount     float64    `json:"discount_amount"`
	FinalValue         float64    `json:"final_value"`
	Economics          *Economics `json:"economics,omitempty"` // только для CORPORATE
}

// ComputeContractPricing считает согласованную и итоговую стоимость договора.
// Функция чистая: одинаковые входные данные всегда дают одинаковый результат.
func ComputeContractPricing(clientType ClientType, in Input) (Pricing, error) {
	var (
		agreed    float64
		economics *Economics
	)

	switch clientType {
	case ClientCorporate:
		if in.Package == nil {
			return Pricing{}, ErrMissingPackage
		}
		e, err := in.Package.Economics()
		if err != nil {
			return Pricing{}, err
		}
		agreed = roundMoney(in.Package.Cost)
		economics = &e
	case ClientIndividual:
		if in.NegotiatedValue == nil {
			return Pricing{}, ErrMissingNegotiatedValue
		}
		if !inRange(*in.NegotiatedValue, MaxMoney) {
			return Pricing{}, &InvalidNegotiatedValueError{Value: *in.NegotiatedValue}
		}
		agreed = roundMoney(*in.NegotiatedValue)
	default:
		return Pricing{}, ErrUnknownClientType
	}

	p, err := ApplyDiscount(agreed, in.DiscountPercentage)
	if err != nil {
		return Pricing{}, err
	}
	p.Economics = economics
	return p, nil
}

// ApplyDiscount считает итог от уже известной согласованной суммы.
// Скидка округляется до сотых, как в колонке decimal(5,2), и в таком виде возвращается.
func ApplyDiscount(agreed, discountPercentage float64) (Pricing, error) {
	if !inRange(agreed, MaxMoney) {
		return Pricing{}, &InvalidNegotiatedValueError{Value: agreed}
	}
	final, err := FinalValue(agreed, discountPercentage)
	if err != nil {
		return Pricing{}, err
	}
	agreed = roundMoney(agreed)
	return Pricing{
		AgreedValue:        agreed,
		DiscountPercentage: roundPercent(discountPercentage),
		DiscountAmount:     roundMoney(agreed - final),
		FinalValue:         final,
	}, nil
}

// FinalValue = agreed × (1 − discount/100), округленная до копеек.
// Скидка берется с точностью до сотых, поэтому пересчет от сохраненных
// agreed и discount дает то же значение, что было сохранено.
func FinalValue(agreed, discountPercentage float64) (float64, error) {
	if math.IsNaN(discountPercentage) || discountPercentage < 0 || discountPercentage > 100 {
		return 0, &InvalidDiscountError{Discount: discountPercentage}
	}
	return roundMoney(roundMoney(agreed) * (1 - roundPercent(discountPercentage)/100)), nil
}

func roundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}

func roundPercent(v float64) float64 {
	return math.Round(v*100) / 100
}
