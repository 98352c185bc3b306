package ds

import "staffdesk/internal/app/status"

// Workflow - сущность, статус которой меняется только через таблицу переходов.
type Workflow interface {
	Kind() status.Kind
	GetID() uint
	GetStatus() string
	SetStatus(s string)
}

var (
	_ Workflow = (*JobApplication)(nil)
	_ Workflow = (*ServiceRequest)(nil)
	_ Workflow = (*Contract)(nil)
)
