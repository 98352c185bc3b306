package status

import "fmt"

// Таблицы переходов. Единственный источник истины о допустимости смены статуса:
// ключ - текущий статус, значение - статусы, в которые можно перейти напрямую.
// Пустой список означает терминальный статус.
var catalog = map[Kind]map[string][]string{
	KindJobApplication: {
		string(ApplicationPending):   {string(ApplicationInReview), string(ApplicationRejected)},
		string(ApplicationInReview):  {string(ApplicationInterview), string(ApplicationRejected)},
		string(ApplicationInterview): {string(ApplicationAccepted), string(ApplicationRejected)},
		string(ApplicationAccepted):  {},
		string(ApplicationRejected):  {},
	},
	KindServiceRequest: {
		string(ServiceRequestPending):           {string(ServiceRequestInReview), string(ServiceRequestRejected)},
		string(ServiceRequestInReview):          {string(ServiceRequestPlanOffered), string(ServiceRequestRejected)},
		string(ServiceRequestPlanOffered):       {string(ServiceRequestContractGenerated), string(ServiceRequestRejected)},
		string(ServiceRequestContractGenerated): {string(ServiceRequestCompleted)},
		string(ServiceRequestCompleted):         {},
		string(ServiceRequestRejected):          {},
	},
	KindContract: {
		string(ContractDraft):            {string(ContractPendingSignature), string(ContractCanceled)},
		string(ContractPendingSignature): {string(ContractActive), string(ContractCanceled), string(ContractExpired)},
		string(ContractActive):           {string(ContractPaused), string(ContractTerminated), string(ContractCompleted)},
		string(ContractPaused):           {string(ContractActive), string(ContractTerminated)},
		string(ContractTerminated):       {},
		string(ContractCanceled):         {},
		string(ContractCompleted):        {},
		string(ContractExpired):          {},
	},
}

// порядок статусов для вывода (map не гарантирует порядок)
var order = map[Kind][]string{
	KindJobApplication: {
		string(ApplicationPending), string(ApplicationInReview), string(ApplicationInterview),
		string(ApplicationAccepted), string(ApplicationRejected),
	},
	KindServiceRequest: {
		string(ServiceRequestPending), string(ServiceRequestInReview), string(ServiceRequestPlanOffered),
		string(ServiceRequestContractGenerated), string(ServiceRequestCompleted), string(ServiceRequestRejected),
	},
	KindContract: {
		string(ContractDraft), string(ContractPendingSignature), string(ContractActive), string(ContractPaused),
		string(ContractTerminated), string(ContractCanceled), string(ContractCompleted), string(ContractExpired),
	},
}

// ContractGeneratingTarget - статус запроса, переход в который создает договор.
const ContractGeneratingTarget = ServiceRequestContractGenerated

// Action - действие из интерфейса модератора. Набор действий беднее набора статусов.
type Action string

const (
	ActionApproved Action = "APPROVED"
	ActionRejected Action = "REJECTED"
	ActionInReview Action = "IN_REVIEW"
)

// CanTransition сообщает, допустим ли переход from -> to для данного типа сущности.
// Повторный выбор текущего статуса всегда допустим. Неизвестный тип или статус дает false.
func CanTransition(kind Kind, from, to string) bool {
	states, ok := catalog[kind]
	if !ok {
		return false
	}
	next, ok := states[from]
	if !ok {
		return false
	}
	if from == to {
		return true
	}
	for _, allowed := range next {
		if allowed == to {
			return true
		}
	}
	return false
}

// Allowed возвращает статусы, достижимые из from за один шаг (без самого from).
func Allowed(kind Kind, from string) []string {
	next := catalog[kind][from]
	out := make([]string, len(next))
	copy(out, next)
	return out
}

// IsTerminal - статус известен и из него нет переходов.
func IsTerminal(kind Kind, s string) bool {
	next, ok := catalog[kind][s]
	return ok && len(next) == 0
}

// States возвращает все статусы типа в каноническом порядке.
func States(kind Kind) []string {
	states := order[kind]
	out := make([]string, len(states))
	copy(out, states)
	return out
}

// Initial - статус, в котором создается сущность.
func Initial(kind Kind) string {
	switch kind {
	case KindJobApplication:
		return string(ApplicationPending)
	case KindServiceRequest:
		return string(ServiceRequestPending)
	case KindContract:
		return string(ContractDraft)
	}
	return ""
}

// RequiresContract - переход порождает договор и не может выполняться как простая смена статуса.
func RequiresContract(kind Kind, to string) bool {
	return kind == KindServiceRequest && to == string(ContractGeneratingTarget)
}

// ResolveAction переводит действие интерфейса или имя статуса в статус каталога.
// Для запросов клиента APPROVED означает переход с созданием договора.
func ResolveAction(kind Kind, action string) (string, error) {
	if kind == KindServiceRequest {
		if a, err := Parse(KindServiceRequest, action); err == nil {
			return a, nil
		}
		if Action(normalize(action)) == ActionApproved {
			return string(ContractGeneratingTarget), nil
		}
		return "", fmt.Errorf("unknown %s action %q", kind, action)
	}
	return Parse(kind, action)
}
