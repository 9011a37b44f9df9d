package domain

import "time"

// User is a registered CampusCoffee user.
// ID and the timestamps are nil until the user has been persisted.
type User struct {
	ID           *int64
	CreatedAt    *time.Time
	UpdatedAt    *time.Time
	LoginName    string
	EmailAddress string
	FirstName    string
	LastName     string
}

// IsNew reports whether the user has not been persisted yet.
func (u User) IsNew() bool {
	return u.ID == nil
}
