package handlers_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/account-service/internal/api/http"
	"github.com/spec-kit/account-service/internal/api/http/handlers"
	"github.com/spec-kit/account-service/internal/domain"
	"github.com/spec-kit/account-service/internal/observability"
	"github.com/spec-kit/account-service/internal/persistence"
	"github.com/spec-kit/account-service/internal/service"
	"github.com/spec-kit/account-service/pkg/apperrors"
)

type stubAccountService struct {
	signUpFn func(ctx context.Context, input service.SignUpInput) (*domain.User, error)
	signInFn func(ctx context.Context, input service.SignInInput) (*domain.User, error)
}

func (s *stubAccountService) SignUp(ctx context.Context, input service.SignUpInput) (*domain.User, error) {
	return s.signUpFn(ctx, input)
}

func (s *stubAccountService) SignIn(ctx context.Context, input service.SignInInput) (*domain.User, error) {
	return s.signInFn(ctx, input)
}

func newTestApp(stub handlers.AccountService) *fiber.App {
	app := fiber.New()
	httptransport.RegisterMiddlewares(app, zap.NewNop(), observability.NewMetrics(), 5*time.Second)
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health: handlers.NewHealthHandler("account-service", "test", &persistence.Postgres{}, &persistence.Redis{}),
		Auth:   handlers.NewAuthHandler(stub, handlers.NewRequestValidator()),
	})
	return app
}

func postJSON(t *testing.T, app *fiber.App, path, body string) (*http.Response, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	return resp, decoded
}

func errorBody(t *testing.T, decoded map[string]any) map[string]any {
	t.Helper()
	errField, ok := decoded["error"].(map[string]any)
	require.True(t, ok, "expected error envelope, got %v", decoded)
	return errField
}

func sampleUser() *domain.User {
	first := "Ada"
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	return &domain.User{
		ID:           "5f6bb4a1-d9a8-4a88-b51f-6c8f24b2e6c1",
		Email:        "a@x.com",
		PasswordHash: "$2a$10$secret",
		FirstName:    &first,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestSignUpEndpoint_Created(t *testing.T) {
	stub := &stubAccountService{
		signUpFn: func(_ context.Context, input service.SignUpInput) (*domain.User, error) {
			assert.Equal(t, "a@x.com", input.Email)
			assert.Equal(t, "longenough1", input.Password)
			require.NotNil(t, input.FirstName)
			assert.Equal(t, "Ada", *input.FirstName)
			return sampleUser(), nil
		},
	}
	app := newTestApp(stub)

	resp, body := postJSON(t, app, "/api/auth/signup",
		`{"email":"a@x.com","password":"longenough1","firstName":"Ada"}`)

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "User created successfully", body["message"])

	data, ok := body["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "a@x.com", data["email"])
	assert.Equal(t, true, data["isActive"])
	assert.NotContains(t, data, "password")
	assert.NotContains(t, data, "passwordHash")
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
}

func TestSignUpEndpoint_ValidationFailures(t *testing.T) {
	stub := &stubAccountService{
		signUpFn: func(context.Context, service.SignUpInput) (*domain.User, error) {
			t.Fatal("service should not be called")
			return nil, nil
		},
	}
	app := newTestApp(stub)

	tests := []struct {
		name      string
		body      string
		wantField string
		wantMsg   string
	}{
		{"bad email", `{"email":"not-an-email","password":"longenough1"}`, "email", "Invalid email format"},
		{"short password", `{"email":"a@x.com","password":"short"}`, "password", "Password must be at least 8 characters"},
		{"missing password", `{"email":"a@x.com"}`, "password", "password is required"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp, body := postJSON(t, app, "/api/auth/signup", tc.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

			errField := errorBody(t, body)
			assert.Equal(t, apperrors.CodeValidation, errField["code"])
			assert.Equal(t, float64(http.StatusBadRequest), errField["statusCode"])
			assert.NotEmpty(t, errField["timestamp"])

			details, ok := errField["details"].(map[string]any)
			require.True(t, ok)
			assert.Equal(t, tc.wantMsg, details[tc.wantField])
		})
	}
}

func TestSignUpEndpoint_MalformedJSON(t *testing.T) {
	stub := &stubAccountService{
		signUpFn: func(context.Context, service.SignUpInput) (*domain.User, error) {
			t.Fatal("service should not be called")
			return nil, nil
		},
	}
	app := newTestApp(stub)

	resp, body := postJSON(t, app, "/api/auth/signup", "not-json")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, apperrors.CodeValidation, errorBody(t, body)["code"])
}

func TestSignUpEndpoint_Conflict(t *testing.T) {
	stub := &stubAccountService{
		signUpFn: func(context.Context, service.SignUpInput) (*domain.User, error) {
			return nil, apperrors.NewConflict("User with this email already exists", map[string]any{"email": "a@x.com"})
		},
	}
	app := newTestApp(stub)

	resp, body := postJSON(t, app, "/api/auth/signup",
		`{"email":"a@x.com","password":"longenough1"}`)

	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	errField := errorBody(t, body)
	assert.Equal(t, apperrors.CodeConflict, errField["code"])
	assert.Equal(t, "User with this email already exists", errField["message"])
}

func TestSignInEndpoint_OK(t *testing.T) {
	stub := &stubAccountService{
		signInFn: func(_ context.Context, input service.SignInInput) (*domain.User, error) {
			assert.Equal(t, "a@x.com", input.Email)
			return sampleUser(), nil
		},
	}
	app := newTestApp(stub)

	resp, body := postJSON(t, app, "/api/auth/signin",
		`{"email":"a@x.com","password":"longenough1"}`)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Sign in successful", body["message"])
	data, ok := body["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "a@x.com", data["email"])
	assert.NotContains(t, data, "password")
}

func TestSignInEndpoint_Unauthorized(t *testing.T) {
	stub := &stubAccountService{
		signInFn: func(context.Context, service.SignInInput) (*domain.User, error) {
			return nil, apperrors.NewUnauthorized("Invalid email or password")
		},
	}
	app := newTestApp(stub)

	resp, body := postJSON(t, app, "/api/auth/signin",
		`{"email":"a@x.com","password":"wrong-pass"}`)

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	errField := errorBody(t, body)
	assert.Equal(t, apperrors.CodeUnauthorized, errField["code"])
	assert.Equal(t, "Invalid email or password", errField["message"])
}

func TestSignInEndpoint_InternalFailureHidesCause(t *testing.T) {
	stub := &stubAccountService{
		signInFn: func(context.Context, service.SignInInput) (*domain.User, error) {
			return nil, apperrors.NewInternalError("Failed to authenticate user", assert.AnError)
		},
	}
	app := newTestApp(stub)

	resp, body := postJSON(t, app, "/api/auth/signin",
		`{"email":"a@x.com","password":"longenough1"}`)

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	errField := errorBody(t, body)
	assert.Equal(t, apperrors.CodeInternal, errField["code"])
	assert.Equal(t, "Failed to authenticate user", errField["message"])
	assert.NotContains(t, errField["message"], assert.AnError.Error())
}
