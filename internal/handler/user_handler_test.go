package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"chatmart/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestUserHandler_VerifyAccessToken(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		role           string
		mockError      error
		expectedStatus int
	}{
		{name: "Success", body: `{"accessToken":"t1"}`, role: model.RoleUser, expectedStatus: http.StatusOK},
		{name: "Missing token", body: `{}`, mockError: model.NewValidationError("accessToken is required"), expectedStatus: http.StatusBadRequest},
		{name: "Rejected token", body: `{"accessToken":"bad"}`, mockError: model.NewUpstreamAuthError(errors.New("401")), expectedStatus: http.StatusForbidden},
		{name: "Storage failure", body: `{"accessToken":"t1"}`, mockError: errors.New("db down"), expectedStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockUserService)
			mockService.On("VerifyAccessToken", mock.Anything, mock.Anything).Return(tt.role, tt.mockError)

			w := httptest.NewRecorder()
			NewUserHandler(mockService, zerolog.Nop()).VerifyAccessToken(w, newRequest(http.MethodPost, "/verify-access-token", tt.body, nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusOK {
				assert.JSONEq(t, `{"success":true,"message":"User saved successfully","role":"user"}`, w.Body.String())
			}
		})
	}
}

func TestUserHandler_Get(t *testing.T) {
	mockService := new(MockUserService)
	mockService.On("GetUser", mock.Anything, "U1").Return(&model.User{ID: "U1", DisplayName: "Somchai"}, nil)
	mockService.On("GetUser", mock.Anything, "U2").Return(nil, model.ErrUserNotFound)
	handler := NewUserHandler(mockService, zerolog.Nop())

	w := httptest.NewRecorder()
	handler.Get(w, newRequest(http.MethodGet, "/get-user/U1", "", map[string]string{"userId": "U1"}))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"line_user_id":"U1"`)

	w = httptest.NewRecorder()
	handler.Get(w, newRequest(http.MethodGet, "/get-user/U2", "", map[string]string{"userId": "U2"}))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "user not found")
}

func TestUserHandler_UpdateProfile(t *testing.T) {
	mockService := new(MockUserService)
	mockService.On("UpdateProfile", mock.Anything, mock.MatchedBy(func(r *model.UpdateProfileRequest) bool {
		return r.DisplayName == "Somchai"
	})).Return(nil)
	mockService.On("UpdateProfile", mock.Anything, mock.Anything).Return(model.ErrUserNotFound)
	handler := NewUserHandler(mockService, zerolog.Nop())

	w := httptest.NewRecorder()
	handler.UpdateProfile(w, newRequest(http.MethodPost, "/update-profile", `{"displayName":"Somchai","address":"BKK","phone":"081"}`, nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	handler.UpdateProfile(w, newRequest(http.MethodPost, "/update-profile", `{"displayName":"Ghost","phone":"081"}`, nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUserHandler_List(t *testing.T) {
	mockService := new(MockUserService)
	mockService.On("ListUsers", mock.Anything).Return([]model.UserSummary{{ID: "U1", DisplayName: "A"}}, nil)

	w := httptest.NewRecorder()
	NewUserHandler(mockService, zerolog.Nop()).List(w, newRequest(http.MethodGet, "/admin/users", "", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[{"line_user_id":"U1","display_name":"A"}]`, w.Body.String())
}

func TestPaymentHandler_Create(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		name           string
		mockReturn     *model.Payment
		mockError      error
		expectedStatus int
	}{
		{name: "Success", mockReturn: &model.Payment{ID: id}, expectedStatus: http.StatusOK},
		{name: "Unknown order", mockError: model.ErrOrderNotFound, expectedStatus: http.StatusNotFound},
		{name: "Invalid", mockError: model.NewValidationError("payment_status is required"), expectedStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockPaymentService)
			mockService.On("RecordPayment", mock.Anything, mock.AnythingOfType("*model.PaymentRequest")).Return(tt.mockReturn, tt.mockError)

			body := `{"order_id":42,"payment_status":"paid","payment_method":"promptpay","payment_date":"2026-03-01","amount":100}`
			w := httptest.NewRecorder()
			NewPaymentHandler(mockService, zerolog.Nop()).Create(w, newRequest(http.MethodPost, "/payments", body, nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.mockReturn != nil {
				assert.Contains(t, w.Body.String(), id.String())
			}
		})
	}
}
