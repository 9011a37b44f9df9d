package http

import (
	"time"

	"campus-coffee/internal/domain"
)

// UserDto is the wire representation of a user.
type UserDto struct {
	ID           *int64     `json:"id"`
	CreatedAt    *time.Time `json:"createdAt"`
	UpdatedAt    *time.Time `json:"updatedAt"`
	LoginName    string     `json:"loginName" binding:"required,alphanum,max=255"`
	EmailAddress string     `json:"emailAddress" binding:"required,email"`
	FirstName    string     `json:"firstName" binding:"required,min=1,max=255"`
	LastName     string     `json:"lastName" binding:"required,min=1,max=255"`
}

// UserFromDomain converts a domain user to its wire form.
func UserFromDomain(user domain.User) UserDto {
	return UserDto{
		ID:           copyID(user.ID),
		CreatedAt:    copyTime(user.CreatedAt),
		UpdatedAt:    copyTime(user.UpdatedAt),
		LoginName:    user.LoginName,
		EmailAddress: user.EmailAddress,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
	}
}

// UserToDomain converts a wire user to its domain form.
func UserToDomain(dto UserDto) domain.User {
	return domain.User{
		ID:           copyID(dto.ID),
		CreatedAt:    copyTime(dto.CreatedAt),
		UpdatedAt:    copyTime(dto.UpdatedAt),
		LoginName:    dto.LoginName,
		EmailAddress: dto.EmailAddress,
		FirstName:    dto.FirstName,
		LastName:     dto.LastName,
	}
}

func copyID(id *int64) *int64 {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
