package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"campus-coffee/internal/domain"
	apphttp "campus-coffee/internal/http"
)

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) GetAll(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockUserService) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserService) GetByLoginName(ctx context.Context, loginName string) (*domain.User, error) {
	args := m.Called(ctx, loginName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserService) Upsert(ctx context.Context, user domain.User) (*domain.User, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserService) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(svc *MockUserService) *gin.Engine {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return apphttp.NewRouter(apphttp.NewHandler(svc, logger, nil))
}

func doRequest(router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		payload, _ := json.Marshal(body)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func persisted(id int64) *domain.User {
	now := time.Date(2025, 10, 1, 12, 0, 0, 0, time.UTC)
	return &domain.User{
		ID:           &id,
		CreatedAt:    &now,
		UpdatedAt:    &now,
		LoginName:    "asmith",
		EmailAddress: "a@x.edu",
		FirstName:    "Ann",
		LastName:     "Smith",
	}
}

func validBody() map[string]any {
	return map[string]any{
		"loginName":    "asmith",
		"emailAddress": "a@x.edu",
		"firstName":    "Ann",
		"lastName":     "Smith",
	}
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) apphttp.ErrorResponse {
	t.Helper()
	var resp apphttp.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestListUsers(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		svc := new(MockUserService)
		svc.On("GetAll", mock.Anything).Return([]domain.User{}, nil).Once()

		w := doRequest(newTestRouter(svc), http.MethodGet, "/api/users", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `[]`, w.Body.String())
		svc.AssertExpectations(t)
	})

	t.Run("Populated", func(t *testing.T) {
		svc := new(MockUserService)
		svc.On("GetAll", mock.Anything).Return([]domain.User{*persisted(1), *persisted(2)}, nil).Once()

		w := doRequest(newTestRouter(svc), http.MethodGet, "/api/users", nil)

		require.Equal(t, http.StatusOK, w.Code)
		var users []apphttp.UserDto
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &users))
		require.Len(t, users, 2)
		assert.Equal(t, int64(2), *users[1].ID)
	})

	t.Run("ServiceFailure", func(t *testing.T) {
		svc := new(MockUserService)
		svc.On("GetAll", mock.Anything).Return(nil, fmt.Errorf("disk on fire")).Once()

		w := doRequest(newTestRouter(svc), http.MethodGet, "/api/users", nil)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		resp := decodeError(t, w)
		assert.Equal(t, "internal server error", resp.Message)
		assert.NotContains(t, w.Body.String(), "disk on fire")
	})
}

func TestGetUser(t *testing.T) {
	t.Run("Found", func(t *testing.T) {
		svc := new(MockUserService)
		svc.On("GetByID", mock.Anything, int64(1)).Return(persisted(1), nil).Once()

		w := doRequest(newTestRouter(svc), http.MethodGet, "/api/users/1", nil)

		require.Equal(t, http.StatusOK, w.Code)
		var user apphttp.UserDto
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &user))
		assert.Equal(t, "asmith", user.LoginName)
		assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	})

	t.Run("NotFound", func(t *testing.T) {
		svc := new(MockUserService)
		svc.On("GetByID", mock.Anything, int64(9)).Return(nil, fmt.Errorf("user 9: %w", domain.ErrNotFound)).Once()

		w := doRequest(newTestRouter(svc), http.MethodGet, "/api/users/9", nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
		resp := decodeError(t, w)
		assert.Equal(t, "NOT_FOUND", resp.ErrorCode)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "Not Found", resp.StatusMessage)
		assert.Equal(t, "/api/users/9", resp.Path)
	})

	t.Run("InvalidID", func(t *testing.T) {
		svc := new(MockUserService)

		w := doRequest(newTestRouter(svc), http.MethodGet, "/api/users/abc", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		svc.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})
}

func TestFilterUsers(t *testing.T) {
	t.Run("Found", func(t *testing.T) {
		svc := new(MockUserService)
		svc.On("GetByLoginName", mock.Anything, "asmith").Return(persisted(3), nil).Once()

		w := doRequest(newTestRouter(svc), http.MethodGet, "/api/users/filter?loginName=asmith", nil)

		require.Equal(t, http.StatusOK, w.Code)
		var user apphttp.UserDto
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &user))
		assert.Equal(t, int64(3), *user.ID)
	})

	t.Run("NotFound", func(t *testing.T) {
		svc := new(MockUserService)
		svc.On("GetByLoginName", mock.Anything, "nobody").Return(nil, domain.ErrNotFound).Once()

		w := doRequest(newTestRouter(svc), http.MethodGet, "/api/users/filter?loginName=nobody", nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("MissingParameter", func(t *testing.T) {
		svc := new(MockUserService)

		w := doRequest(newTestRouter(svc), http.MethodGet, "/api/users/filter", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestCreateUser(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		svc := new(MockUserService)
		expected := domain.User{LoginName: "asmith", EmailAddress: "a@x.edu", FirstName: "Ann", LastName: "Smith"}
		svc.On("Upsert", mock.Anything, expected).Return(persisted(5), nil).Once()

		w := doRequest(newTestRouter(svc), http.MethodPost, "/api/users", validBody())

		require.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, "/api/users/5", w.Header().Get("Location"))
		var user apphttp.UserDto
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &user))
		assert.Equal(t, int64(5), *user.ID)
		svc.AssertExpectations(t)
	})

	t.Run("InvalidBody", func(t *testing.T) {
		bodies := map[string]map[string]any{
			"missing login":   {"emailAddress": "a@x.edu", "firstName": "Ann", "lastName": "Smith"},
			"bad email":       {"loginName": "asmith", "emailAddress": "nope", "firstName": "Ann", "lastName": "Smith"},
			"non alnum login": {"loginName": "a smith", "emailAddress": "a@x.edu", "firstName": "Ann", "lastName": "Smith"},
			"id present":      {"id": 4, "loginName": "asmith", "emailAddress": "a@x.edu", "firstName": "Ann", "lastName": "Smith"},
		}
		for name, body := range bodies {
			t.Run(name, func(t *testing.T) {
				svc := new(MockUserService)

				w := doRequest(newTestRouter(svc), http.MethodPost, "/api/users", body)

				assert.Equal(t, http.StatusBadRequest, w.Code)
				assert.Equal(t, "INVALID_INPUT", decodeError(t, w).ErrorCode)
				svc.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
			})
		}
	})

	t.Run("MalformedJSON", func(t *testing.T) {
		svc := new(MockUserService)
		req := httptest.NewRequest(http.MethodPost, "/api/users", bytes.NewBufferString("invalid json"))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		newTestRouter(svc).ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Duplicate", func(t *testing.T) {
		svc := new(MockUserService)
		svc.On("Upsert", mock.Anything, mock.Anything).Return(nil, fmt.Errorf("login name: %w", domain.ErrDuplicate)).Once()

		w := doRequest(newTestRouter(svc), http.MethodPost, "/api/users", validBody())

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "DUPLICATE", decodeError(t, w).ErrorCode)
	})
}

func TestUpdateUser(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		svc := new(MockUserService)
		svc.On("Upsert", mock.Anything, mock.MatchedBy(func(u domain.User) bool {
			return u.ID != nil && *u.ID == 5
		})).Return(persisted(5), nil).Once()

		body := validBody()
		body["id"] = 5
		w := doRequest(newTestRouter(svc), http.MethodPut, "/api/users/5", body)

		assert.Equal(t, http.StatusOK, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("IDMismatch", func(t *testing.T) {
		svc := new(MockUserService)

		body := validBody()
		body["id"] = 6
		w := doRequest(newTestRouter(svc), http.MethodPut, "/api/users/5", body)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		svc.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
	})

	t.Run("MissingBodyID", func(t *testing.T) {
		svc := new(MockUserService)

		w := doRequest(newTestRouter(svc), http.MethodPut, "/api/users/5", validBody())

		assert.Equal(t, http.StatusBadRequest, w.Code)
		svc.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
	})

	t.Run("NotFound", func(t *testing.T) {
		svc := new(MockUserService)
		svc.On("Upsert", mock.Anything, mock.Anything).Return(nil, domain.ErrNotFound).Once()

		body := validBody()
		body["id"] = 5
		w := doRequest(newTestRouter(svc), http.MethodPut, "/api/users/5", body)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestDeleteUser(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		svc := new(MockUserService)
		svc.On("Delete", mock.Anything, int64(5)).Return(nil).Once()

		w := doRequest(newTestRouter(svc), http.MethodDelete, "/api/users/5", nil)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, w.Body.String())
	})

	t.Run("NotFound", func(t *testing.T) {
		svc := new(MockUserService)
		svc.On("Delete", mock.Anything, int64(5)).Return(fmt.Errorf("user 5: %w", domain.ErrNotFound)).Once()

		w := doRequest(newTestRouter(svc), http.MethodDelete, "/api/users/5", nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestCORSPreflight(t *testing.T) {
	w := doRequest(newTestRouter(new(MockUserService)), http.MethodOptions, "/api/users", nil)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Expose-Headers"), "Location")
}
