package status

import (
	"fmt"
	"strings"
)

// Kind - тип сущности с workflow статусов
type Kind string

const (
	KindJobApplication Kind = "job_application"
	KindServiceRequest Kind = "service_request"
	KindContract       Kind = "contract"
)

// Kinds возвращает все типы сущностей
func Kinds() []Kind {
	return []Kind{KindJobApplication, KindServiceRequest, KindContract}
}

func (k Kind) Valid() bool {
	_, ok := catalog[k]
	return ok
}

// ApplicationStatus статусы заявки кандидата
type ApplicationStatus string

const (
	ApplicationPending   ApplicationStatus = "PENDING"
	ApplicationInReview  ApplicationStatus = "IN_REVIEW"
	ApplicationInterview ApplicationStatus = "INTERVIEW"
	ApplicationAccepted  ApplicationStatus = "ACCEPTED"
	ApplicationRejected  ApplicationStatus = "REJECTED"
)

// ServiceRequestStatus статусы входящего запроса клиента
type ServiceRequestStatus string

const (
	ServiceRequestPending           ServiceRequestStatus = "PENDING"
	ServiceRequestInReview          ServiceRequestStatus = "IN_REVIEW"
	ServiceRequestPlanOffered       ServiceRequestStatus = "PLAN_OFFERED"
	ServiceRequestContractGenerated ServiceRequestStatus = "CONTRACT_GENERATED"
	ServiceRequestCompleted         ServiceRequestStatus = "COMPLETED"
	ServiceRequestRejected          ServiceRequestStatus = "REJECTED"
)

// ContractStatus статусы договора
type ContractStatus string

const (
	ContractDraft            ContractStatus = "DRAFT"
	ContractPendingSignature ContractStatus = "PENDING_SIGNATURE"
	ContractActive           ContractStatus = "ACTIVE"
	ContractPaused           ContractStatus = "PAUSED"
	ContractTerminated       ContractStatus = "TERMINATED"
	ContractCanceled         ContractStatus = "CANCELED"
	ContractCompleted        ContractStatus = "COMPLETED"
	ContractExpired          ContractStatus = "EXPIRED"
)

func (s ApplicationStatus) CanTransitionTo(next ApplicationStatus) bool {
	return CanTransition(KindJobApplication, string(s), string(next))
}

func (s ApplicationStatus) IsTerminal() bool {
	return IsTerminal(KindJobApplication, string(s))
}

func (s ServiceRequestStatus) CanTransitionTo(next ServiceRequestStatus) bool {
	return CanTransition(KindServiceRequest, string(s), string(next))
}

func (s ServiceRequestStatus) IsTerminal() bool {
	return IsTerminal(KindServiceRequest, string(s))
}

func (s ContractStatus) CanTransitionTo(next ContractStatus) bool {
	return CanTransition(KindContract, string(s), string(next))
}

func (s ContractStatus) IsTerminal() bool {
	return IsTerminal(KindContract, string(s))
}

// Parse нормализует строку статуса и проверяет, что он есть в каталоге.
func Parse(kind Kind, raw string) (string, error) {
	states, ok := catalog[kind]
	if !ok {
		return "", fmt.Errorf("unknown workflow kind %q", kind)
	}
	normalized := normalize(raw)
	if _, ok := states[normalized]; !ok {
		return "", fmt.Errorf("unknown %s status %q", kind, raw)
	}
	return normalized, nil
}

func normalize(raw string) string {
	s := strings.ToUpper(strings.TrimSpace(raw))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(s)
}
