package domain

import "time"

type JoinRequestStatus string

const (
	JoinRequestStatusPending  JoinRequestStatus = "pending"
	JoinRequestStatusApproved JoinRequestStatus = "approved"
	JoinRequestStatusRejected JoinRequestStatus = "rejected"
)

// Valid reports whether s is a known status.
func (s JoinRequestStatus) Valid() bool {
	switch s {
	case JoinRequestStatusPending, JoinRequestStatusApproved, JoinRequestStatusRejected:
		return true
	}
	return false
}

// IsDecision reports whether s is a terminal status an owner can set.
func (s JoinRequestStatus) IsDecision() bool {
	return s == JoinRequestStatusApproved || s == JoinRequestStatusRejected
}

type JoinRequest struct {
	ID        int32             `db:"id" json:"id"`
	UserID    int32             `db:"user_id" json:"user_id"`
	OfficeID  int32             `db:"office_id" json:"office_id"`
	Role      *Role             `db:"role" json:"role,omitempty"`
	Status    JoinRequestStatus `db:"status" json:"status"`
	CreatedAt time.Time         `db:"created_at" json:"created_at"`
	DecidedAt *time.Time        `db:"decided_at" json:"decided_at,omitempty"`
	DecidedBy *int32            `db:"decided_by" json:"decided_by,omitempty"`

	// Joined for display
	UserName   string `db:"user_name" json:"user_name,omitempty"`
	UserEmail  string `db:"user_email" json:"user_email,omitempty"`
	OfficeName string `db:"office_name" json:"office_name,omitempty"`
}

// IsPending reports whether the request still awaits a decision.
func (r *JoinRequest) IsPending() bool {
	return r.Status == JoinRequestStatusPending
}

// JoinRequestFilter narrows an office's request listing.
type JoinRequestFilter struct {
	Status *JoinRequestStatus
	Limit  int
	Offset int
}

// JoinRequestDecision is an owner's verdict on a pending request.
type JoinRequestDecision struct {
	RequestID int32
	Status    JoinRequestStatus
	Role      *Role
	DecidedBy int32
	DecidedAt time.Time
}
