package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Attributes is a JSONB string map attached to a notification.
type Attributes map[string]string

// Value implements driver.Valuer.
func (a Attributes) Value() (driver.Value, error) {
	if a == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(a)
}

// Scan implements sql.Scanner.
func (a *Attributes) Scan(src any) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*a = Attributes{}
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported attributes type %T", src)
	}
	m := Attributes{}
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	*a = m
	return nil
}

type Notification struct {
	ID         int32      `db:"id" json:"id"`
	UserID     int32      `db:"user_id" json:"user_id"`
	Title      string     `db:"title" json:"title"`
	Message    string     `db:"message" json:"message"`
	IsRead     bool       `db:"is_read" json:"is_read"`
	Attributes Attributes `db:"attributes" json:"attributes"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
}

// Notification attribute keys.
const (
	AttrKind          = "kind"
	AttrJoinRequestID = "join_request_id"
	AttrOfficeID      = "office_id"
	AttrStatus        = "status"
	AttrRole          = "role"
)

// Notification kinds.
const (
	NotificationJoinRequestReceived = "join_request_received"
	NotificationJoinRequestDecided  = "join_request_decided"
	NotificationEmployeeRoleChanged = "employee_role_changed"
	NotificationEmployeeRemoved     = "employee_removed"
)
