package domain

import "time"

type Office struct {
	ID            int32     `db:"id" json:"id"`
	Name          string    `db:"name" json:"name"`
	Address       string    `db:"address" json:"address"`
	INN           string    `db:"inn" json:"inn"`
	OGRN          string    `db:"ogrn" json:"ogrn"`
	ContactPhone  string    `db:"contact_phone" json:"contact_phone"`
	WorkPhone2    string    `db:"work_phone2" json:"work_phone2"`
	Website       string    `db:"website" json:"website"`
	OwnerID       int32     `db:"owner_id" json:"owner_id"`
	EmployeeCount int32     `db:"employee_count" json:"employee_count"` // Populated on reads
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// IsOwnedBy reports whether userID is the office owner.
func (o *Office) IsOwnedBy(userID int32) bool {
	return o != nil && o.OwnerID == userID
}
