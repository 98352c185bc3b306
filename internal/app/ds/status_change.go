package ds

import "time"

// 6. История смены статусов всех workflow сущностей
type StatusChange struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	EntityKind string    `gorm:"type:varchar(30);not null;index:idx_status_change_entity" json:"entity_kind"`
	EntityID   uint      `gorm:"not null;index:idx_status_change_entity" json:"entity_id"`
	FromStatus string    `gorm:"type:varchar(30)" json:"from_status"` // пусто при создании сущности
	ToStatus   string    `gorm:"type:varchar(30);not null" json:"to_status"`
	RequestID  string    `gorm:"type:varchar(64)" json:"request_id,omitempty"`
	ChangedAt  time.Time `gorm:"not null" json:"changed_at"`
}
