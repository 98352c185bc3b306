package workflow

import (
	"errors"
	"fmt"
	"strings"

	"staffdesk/internal/app/pricing"
	"staffdesk/internal/app/status"
)

var (
	// ErrNotFound возвращается репозиторием, если сущности нет.
	ErrNotFound       = errors.New("entity not found")
	ErrUnknownKind    = errors.New("unknown workflow kind")
	ErrUnknownStatus  = errors.New("unknown status")
	ErrContractLocked = errors.New("contract pricing can only be edited while the contract is DRAFT")
)

// IllegalTransitionError - запрошенный статус недостижим из текущего.
type IllegalTransitionError struct {
	Kind    status.Kind
	From    string
	To      string
	Allowed []string
}

func (e *IllegalTransitionError) Error() string {
	msg := fmt.Sprintf("cannot move %s from %s to %s directly", e.Kind, e.From, e.To)
	if len(e.Allowed) == 0 {
		return msg + fmt.Sprintf(" (%s is final)", e.From)
	}
	return msg + fmt.Sprintf(" (allowed: %s)", strings.Join(e.Allowed, ", "))
}

// IncompleteContractError - в черновике договора не хватает обязательных связей
// для его типа клиента, либо связи противоречат друг другу.
type IncompleteContractError struct {
	ClientType  pricing.ClientType
	Missing     []string
	Conflicting []string
}

func (e *IncompleteContractError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "missing "+strings.Join(e.Missing, ", "))
	}
	if len(e.Conflicting) > 0 {
		parts = append(parts, "conflicting "+strings.Join(e.Conflicting, ", "))
	}
	kind := string(e.ClientType)
	if kind == "" {
		kind = "unknown"
	}
	return fmt.Sprintf("incomplete %s contract: %s", strings.ToLower(kind), strings.Join(parts, "; "))
}

// RepositoryError - сбой хранилища. Op называет шаг, на котором он произошел.
// ContractID заполнен, если договор уже был записан до сбоя: вызывающий код
// должен проверить, не остался ли договор без продвинутого запроса.
type RepositoryError struct {
	Op         string
	ContractID *uint
	Err        error
}

func (e *RepositoryError) Error() string {
	if e.ContractID != nil {
		return fmt.Sprintf("repository: %s (after creating contract %d): %v", e.Op, *e.ContractID, e.Err)
	}
	return fmt.Sprintf("repository: %s: %v", e.Op, e.Err)
}

func (e *RepositoryError) Unwrap() error { return e.Err }

// OrphanRisk - сбой случился после записи договора.
func (e *RepositoryError) OrphanRisk() bool { return e.ContractID != nil }

// IsValidation отделяет ошибки проверки (сущности не тронуты) от сбоев хранилища.
func IsValidation(err error) bool {
	var (
		illegal    *IllegalTransitionError
		incomplete *IncompleteContractError
	)
	return errors.As(err, &illegal) ||
		errors.As(err, &incomplete) ||
		errors.Is(err, ErrUnknownKind) ||
		errors.Is(err, ErrUnknownStatus) ||
		errors.Is(err, ErrContractLocked) ||
		pricing.IsValidation(err)
}

func repoErr(op string, err error) error {
	var re *RepositoryError
	if errors.As(err, &re) || errors.Is(err, ErrNotFound) || IsValidation(err) {
		return err
	}
	return &RepositoryError{Op: op, Err: err}
}
