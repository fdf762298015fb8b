package models

import "time"

// NotificationLog is the append-only forensic record of every inbound payment
// notification, written before any validation runs. Rows are never updated or
// deleted; this is the audit trail for disputed payments.
type NotificationLog struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	RequestMeta string    `gorm:"type:text" json:"request_meta"`
	RawBody     string    `gorm:"type:longtext" json:"raw_body"`
	CreatedAt   time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}
