package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/hackathon-hub/registration-api/internal/forms"
	"github.com/hackathon-hub/registration-api/internal/models"
	"github.com/hackathon-hub/registration-api/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

const handlerFormID = "6f1c1f4e-8a9b-4e0e-9c3c-2a1d5e7b9f10"

func registrationRouter(svc *MockRegistrationService) *gin.Engine {
	h := NewRegistrationHandler(svc)
	router := gin.New()
	router.GET("/api/hackathons/:id/register-form", h.GetForm)
	router.POST("/api/hackathons/:id/register-form", h.Submit)
	return router
}

func postRegistration(router *gin.Engine, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/hackathons/hack-1/register-form", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestRegistrationHandler_GetForm(t *testing.T) {
	svc := new(MockRegistrationService)
	form := &forms.FormSchema{ID: handlerFormID, HackathonID: "hack-1", Title: "Hack", IsActive: true}
	svc.On("GetForm", mock.Anything, "hack-1").Return(&models.GetFormResponse{Form: form, Status: forms.GateOpen}, nil).Once()

	w := httptest.NewRecorder()
	router := registrationRouter(svc)
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/hackathons/hack-1/register-form", http.NoBody))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"OPEN"`)
	assert.Contains(t, w.Body.String(), `"hackathonId":"hack-1"`)
	svc.AssertExpectations(t)
}

func TestRegistrationHandler_GetForm_Errors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{name: "not found", err: services.ErrFormNotFound, wantCode: http.StatusNotFound},
		{name: "storage failure", err: errors.New("db down"), wantCode: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockRegistrationService)
			svc.On("GetForm", mock.Anything, "hack-1").Return(nil, tt.err).Once()

			w := httptest.NewRecorder()
			registrationRouter(svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/hackathons/hack-1/register-form", http.NoBody))

			assert.Equal(t, tt.wantCode, w.Code)
			assert.Contains(t, w.Body.String(), `"error"`)
		})
	}
}

func TestRegistrationHandler_Submit_Created(t *testing.T) {
	svc := new(MockRegistrationService)
	svc.On("Submit", mock.Anything, "hack-1", mock.MatchedBy(func(req *models.SubmitRegistrationRequest) bool {
		return req.FormID == handlerFormID &&
			req.Data["name"].String() == "Sara" &&
			len(req.Data["skills"].Items()) == 2
	}), mock.AnythingOfType("models.SubmissionMeta")).Return(&models.SubmitRegistrationResponse{
		Success:      true,
		SubmissionID: "sub-1",
		Status:       models.SubmissionApproved,
	}, nil).Once()

	body := fmt.Sprintf(`{"formId":%q,"data":{"name":"Sara","skills":["go","sql"]}}`, handlerFormID)
	w := postRegistration(registrationRouter(svc), body)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"success":true,"submissionId":"sub-1","status":"approved"}`, w.Body.String())
	svc.AssertExpectations(t)
}

func TestRegistrationHandler_Submit_StatusMapping(t *testing.T) {
	tests := []struct {
		name     string
		resp     *models.SubmitRegistrationResponse
		err      error
		wantCode int
		wantBody string
	}{
		{
			name:     "validation",
			resp:     &models.SubmitRegistrationResponse{Error: "invalid", Details: forms.ErrorMap{"email": "البريد الإلكتروني غير صحيح"}},
			err:      services.ErrValidationFailed,
			wantCode: http.StatusBadRequest,
			wantBody: `{"success":false,"error":"invalid","details":{"email":"البريد الإلكتروني غير صحيح"}}`,
		},
		{
			name:     "gate closed",
			resp:     &models.SubmitRegistrationResponse{Error: "closed", GateStatus: "CLOSED"},
			err:      fmt.Errorf("%w: CLOSED", services.ErrFormUnavailable),
			wantCode: http.StatusForbidden,
			wantBody: `{"success":false,"error":"closed","gateStatus":"CLOSED"}`,
		},
		{
			name:     "form mismatch",
			resp:     &models.SubmitRegistrationResponse{Error: "missing"},
			err:      services.ErrFormMismatch,
			wantCode: http.StatusNotFound,
			wantBody: `{"success":false,"error":"missing"}`,
		},
		{
			name:     "duplicate",
			resp:     &models.SubmitRegistrationResponse{Error: "dup", AlreadyRegistered: true},
			err:      services.ErrAlreadyRegistered,
			wantCode: http.StatusConflict,
			wantBody: `{"success":false,"error":"dup","alreadyRegistered":true}`,
		},
		{
			name:     "storage failure with message",
			resp:     &models.SubmitRegistrationResponse{Error: "try again"},
			err:      errors.New("failed to store submission"),
			wantCode: http.StatusInternalServerError,
			wantBody: `{"success":false,"error":"try again"}`,
		},
		{
			name:     "unexpected failure",
			resp:     nil,
			err:      errors.New("boom"),
			wantCode: http.StatusInternalServerError,
			wantBody: `{"error":"Internal server error"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockRegistrationService)
			call := svc.On("Submit", mock.Anything, "hack-1", mock.Anything, mock.Anything)
			if tt.resp == nil {
				call.Return(nil, tt.err).Once()
			} else {
				call.Return(tt.resp, tt.err).Once()
			}

			w := postRegistration(registrationRouter(svc), fmt.Sprintf(`{"formId":%q,"data":{}}`, handlerFormID))

			assert.Equal(t, tt.wantCode, w.Code)
			assert.JSONEq(t, tt.wantBody, w.Body.String())
		})
	}
}

func TestRegistrationHandler_Submit_BindingErrors(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantField string
	}{
		{name: "missing form id", body: `{"data":{"name":"Sara"}}`, wantField: "FormID"},
		{name: "form id not a uuid", body: `{"formId":"abc","data":{}}`, wantField: "FormID"},
		{name: "number answer", body: fmt.Sprintf(`{"formId":%q,"data":{"age":30}}`, handlerFormID), wantField: "data"},
		{name: "malformed json", body: `{"formId":`, wantField: "body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockRegistrationService)
			w := postRegistration(registrationRouter(svc), tt.body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), `"field":"`+tt.wantField+`"`)
			svc.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}
