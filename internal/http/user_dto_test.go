package http_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"campus-coffee/internal/domain"
	apphttp "campus-coffee/internal/http"
)

func TestUserMapperRoundTrip(t *testing.T) {
	id := int64(7)
	created := time.Date(2025, 10, 1, 9, 30, 0, 0, time.UTC)
	updated := created.Add(time.Hour)

	cases := map[string]domain.User{
		"new user": {
			LoginName:    "asmith",
			EmailAddress: "a@x.edu",
			FirstName:    "Ann",
			LastName:     "Smith",
		},
		"persisted user": {
			ID:           &id,
			CreatedAt:    &created,
			UpdatedAt:    &updated,
			LoginName:    "asmith",
			EmailAddress: "a@x.edu",
			FirstName:    "Ann",
			LastName:     "Smith",
		},
		"id only": {
			ID:        &id,
			LoginName: "asmith",
		},
	}

	for name, user := range cases {
		t.Run(name, func(t *testing.T) {
			dto := apphttp.UserFromDomain(user)
			assert.Equal(t, user.LoginName, dto.LoginName)
			assert.Equal(t, user.EmailAddress, dto.EmailAddress)
			assert.Equal(t, user.FirstName, dto.FirstName)
			assert.Equal(t, user.LastName, dto.LastName)

			assert.Equal(t, user, apphttp.UserToDomain(dto))
		})
	}
}

func TestUserMapperDoesNotAlias(t *testing.T) {
	id := int64(1)
	now := time.Now().UTC()
	user := domain.User{ID: &id, CreatedAt: &now, UpdatedAt: &now}

	dto := apphttp.UserFromDomain(user)
	*dto.ID = 2
	dto.CreatedAt = nil

	assert.Equal(t, int64(1), *user.ID)
	assert.NotNil(t, user.CreatedAt)
}
