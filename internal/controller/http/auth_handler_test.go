package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"quill-post/internal/entity"
	"quill-post/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockAuthUseCase is a mock implementation of usecase.AuthUseCase
type MockAuthUseCase struct {
	mock.Mock
}

func (m *MockAuthUseCase) Register(ctx context.Context, email, username, password string) (*entity.User, string, error) {
	args := m.Called(ctx, email, username, password)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*entity.User), args.String(1), args.Error(2)
}

func (m *MockAuthUseCase) Login(ctx context.Context, email, password string) (*entity.User, string, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*entity.User), args.String(1), args.Error(2)
}

func (m *MockAuthUseCase) GetUser(ctx context.Context, userID string) (*entity.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func setupAuthRouter(uc usecase.AuthUseCase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	handler := NewAuthHandler(uc)
	router.POST("/register", handler.Register)
	router.POST("/login", handler.Login)
	router.GET("/me", func(c *gin.Context) {
		c.Set("user_id", "user-1")
		handler.Me(c)
	})
	return router
}

func TestRegister_Success(t *testing.T) {
	mockUC := new(MockAuthUseCase)
	user := &entity.User{ID: "user-1", Email: "alex@example.com", Username: "alex"}
	mockUC.On("Register", mock.Anything, "alex@example.com", "alex", "password123").
		Return(user, "token-abc", nil)

	router := setupAuthRouter(mockUC)

	body, _ := json.Marshal(map[string]string{
		"email":    "alex@example.com",
		"username": "alex",
		"password": "password123",
	})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/register", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "token-abc")
}

func TestRegister_EmailTaken(t *testing.T) {
	mockUC := new(MockAuthUseCase)
	mockUC.On("Register", mock.Anything, "alex@example.com", "alex", "password123").
		Return(nil, "", usecase.ErrEmailTaken)

	router := setupAuthRouter(mockUC)

	body, _ := json.Marshal(map[string]string{
		"email":    "alex@example.com",
		"username": "alex",
		"password": "password123",
	})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/register", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestRegister_InvalidPayload(t *testing.T) {
	mockUC := new(MockAuthUseCase)
	router := setupAuthRouter(mockUC)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/register", bytes.NewBufferString(`{"email":"not-an-email"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockUC.AssertNotCalled(t, "Register")
}

func TestLogin_Success(t *testing.T) {
	mockUC := new(MockAuthUseCase)
	user := &entity.User{ID: "user-1", Email: "alex@example.com", Username: "alex"}
	mockUC.On("Login", mock.Anything, "alex@example.com", "password123").
		Return(user, "token-abc", nil)

	router := setupAuthRouter(mockUC)

	body, _ := json.Marshal(map[string]string{
		"email":    "alex@example.com",
		"password": "password123",
	})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/login", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "token-abc")
}

func TestLogin_InvalidCredentials(t *testing.T) {
	mockUC := new(MockAuthUseCase)
	mockUC.On("Login", mock.Anything, "alex@example.com", "wrong").
		Return(nil, "", usecase.ErrInvalidCredentials)

	router := setupAuthRouter(mockUC)

	body, _ := json.Marshal(map[string]string{
		"email":    "alex@example.com",
		"password": "wrong",
	})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/login", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMe(t *testing.T) {
	mockUC := new(MockAuthUseCase)
	user := &entity.User{ID: "user-1", Email: "alex@example.com", Username: "alex"}
	mockUC.On("GetUser", mock.Anything, "user-1").Return(user, nil)

	router := setupAuthRouter(mockUC)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/me", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "alex")
}
