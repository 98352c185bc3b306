package pricing

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingPackage - корпоративный договор считается только от выбранного пакета.
	ErrMissingPackage = errors.New("select a package first: corporate contracts are priced from a package")
	// ErrMissingNegotiatedValue - для физлица нужна согласованная сумма.
	ErrMissingNegotiatedValue = errors.New("negotiated value is required for individual contracts")
	ErrUnknownClientType      = errors.New("unknown client type")
)

// InvalidDiscountError - скидка вне диапазона [0, 100].
type InvalidDiscountError struct {
	Discount float64
}

func (e *InvalidDiscountError) Error() string {
	return fmt.Sprintf("discount percentage must be between 0 and 100, got %v", e.Discount)
}

// InvalidEconomicsInputError - отрицательный, слишком большой или не числовой параметр пакета.
type InvalidEconomicsInputError struct {
	Field string
	Value float64
}

func (e *InvalidEconomicsInputError) Error() string {
	return fmt.Sprintf("package %s must be a non-negative number within column limits, got %v", e.Field, e.Value)
}

// InvalidNegotiatedValueError - сумма отрицательная или не помещается в decimal(12,2).
type InvalidNegotiatedValueError struct {
	Value float64
}

func (e *InvalidNegotiatedValueError) Error() string {
	return fmt.Sprintf("negotiated value must be between 0 and %.2f, got %v", MaxMoney, e.Value)
}

// IsValidation сообщает, что ошибка - результат проверки входных данных расчета.
func IsValidation(err error) bool {
	var (
		discountErr   *InvalidDiscountError
		economicsErr  *InvalidEconomicsInputError
		negotiatedErr *InvalidNegotiatedValueError
	)
	return errors.Is(err, ErrMissingPackage) ||
		errors.Is(err, ErrMissingNegotiatedValue) ||
		errors.Is(err, ErrUnknownClientType) ||
		errors.As(err, &discountErr) ||
		errors.As(err, &economicsErr) ||
		errors.As(err, &negotiatedErr)
}
