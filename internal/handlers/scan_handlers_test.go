package handlers

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"chainscan/internal/models"
	"chainscan/internal/services"
	pkgerrors "chainscan/pkg/errors"
)

type MockScanService struct {
	mock.Mock
}

func (m *MockScanService) SubmitScan(ctx context.Context, sub services.ScanSubmission) (*models.Scan, error) {
	args := m.Called(ctx, sub)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Scan), args.Error(1)
}

func (m *MockScanService) LookupScan(ctx context.Context, id string) (*models.CachedReport, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CachedReport), args.Error(1)
}

func (m *MockScanService) ListScans(status string, page, limit int) ([]models.Scan, int64, error) {
	args := m.Called(status, page, limit)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.Scan), args.Get(1).(int64), args.Error(2)
}

func (m *MockScanService) ForceFail(id, reason string) (*models.Scan, error) {
	args := m.Called(id, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Scan), args.Error(1)
}

func TestSubmitScan(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		requestBody    string
		setupMock      func(*MockScanService)
		expectedStatus int
		expectedBody   string
		validateMock   func(*testing.T, *MockScanService)
	}{
		{
			name:        "Valid Request - Accepted",
			requestBody: `{"address":"0x52908400098527886E0F7030069857D2E4169EE7","network":"mainnet"}`,
			setupMock: func(m *MockScanService) {
				m.On("SubmitScan", mock.Anything, mock.MatchedBy(func(sub services.ScanSubmission) bool {
					return sub.Address == "0x52908400098527886E0F7030069857D2E4169EE7" &&
						sub.Network == "mainnet"
				})).Return(&models.Scan{UUID: "123e4567-e89b-12d3-a456-426614174000", Status: models.StatusPending}, nil)
			},
			expectedStatus: 202,
			expectedBody:   `{"scan_id":"123e4567-e89b-12d3-a456-426614174000","status":"pending"}`,
			validateMock: func(t *testing.T, m *MockScanService) {
				m.AssertNumberOfCalls(t, "SubmitScan", 1)
			},
		},
		{
			name:        "Duplicate Submission - Existing Scan Returned",
			requestBody: `{"address":"0x52908400098527886E0F7030069857D2E4169EE7"}`,
			setupMock: func(m *MockScanService) {
				m.On("SubmitScan", mock.Anything, mock.AnythingOfType("services.ScanSubmission")).
					Return(&models.Scan{UUID: "existing-scan", Status: models.StatusRunning}, nil)
			},
			expectedStatus: 202,
			expectedBody:   `{"scan_id":"existing-scan","status":"running"}`,
		},
		{
			name:           "Invalid JSON - Malformed",
			requestBody:    `{"address":}`,
			setupMock:      func(m *MockScanService) {},
			expectedStatus: 400,
			expectedBody:   `{"error":"Invalid request payload"}`,
			validateMock: func(t *testing.T, m *MockScanService) {
				m.AssertNumberOfCalls(t, "SubmitScan", 0)
			},
		},
		{
			name:           "Missing Required Field - address",
			requestBody:    `{"network":"mainnet"}`,
			setupMock:      func(m *MockScanService) {},
			expectedStatus: 400,
			expectedBody:   `{"error":"Invalid request payload"}`,
		},
		{
			name:        "Malformed Address - Validation Error",
			requestBody: `{"address":"not-an-address"}`,
			setupMock: func(m *MockScanService) {
				m.On("SubmitScan", mock.Anything, mock.AnythingOfType("services.ScanSubmission")).
					Return(nil, pkgerrors.NewValidationError("address", "not-an-address", "not a valid hex address"))
			},
			expectedStatus: 400,
		},
		{
			name:        "Broker Down - Upstream Error",
			requestBody: `{"address":"0x52908400098527886E0F7030069857D2E4169EE7"}`,
			setupMock: func(m *MockScanService) {
				m.On("SubmitScan", mock.Anything, mock.AnythingOfType("services.ScanSubmission")).
					Return(nil, pkgerrors.ErrQueueUnavailable)
			},
			expectedStatus: 502,
			expectedBody:   `{"error":"job queue unavailable"}`,
		},
		{
			name:        "Service Error - Internal Error",
			requestBody: `{"address":"0x52908400098527886E0F7030069857D2E4169EE7"}`,
			setupMock: func(m *MockScanService) {
				m.On("SubmitScan", mock.Anything, mock.AnythingOfType("services.ScanSubmission")).
					Return(nil, fmt.Errorf("database connection failed"))
			},
			expectedStatus: 500,
			expectedBody:   `{"error":"Failed to submit scan"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockScanService)
			tt.setupMock(mockService)

			handler := NewScanHandler(mockService)

			router := gin.New()
			router.POST("/api/scans", handler.SubmitScan)

			req, err := http.NewRequest("POST", "/api/scans", strings.NewReader(tt.requestBody))
			assert.NoError(t, err, "Failed to create request")
			req.Header.Set("Content-Type", "application/json")

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code,
				"Expected status %d, got %d. Response: %s",
				tt.expectedStatus, w.Code, w.Body.String())

			if tt.expectedBody != "" {
				assert.JSONEq(t, tt.expectedBody, w.Body.String(),
					"Response body doesn't match expected JSON")
			}

			if tt.validateMock != nil {
				tt.validateMock(t, mockService)
			}

			mockService.AssertExpectations(t)
		})
	}
}

func TestGetScanByUUID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		scanID         string
		setupMock      func(*MockScanService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:   "Valid ID - Report Found",
			scanID: "123e4567-e89b-12d3-a456-426614174000",
			setupMock: func(m *MockScanService) {
				report := &models.CachedReport{
					Status:      models.StatusSucceeded,
					CompletedAt: 1700000000,
					Scan: models.Scan{
						UUID:      "123e4567-e89b-12d3-a456-426614174000",
						Status:    models.StatusSucceeded,
						RiskScore: 12,
						RiskLevel: "high",
					},
				}
				m.On("LookupScan", mock.Anything, "123e4567-e89b-12d3-a456-426614174000").
					Return(report, nil)
			},
			expectedStatus: 200,
		},
		{
			name:   "Valid ID - Scan Not Found",
			scanID: "non-existent-id",
			setupMock: func(m *MockScanService) {
				m.On("LookupScan", mock.Anything, "non-existent-id").
					Return(nil, pkgerrors.ErrScanNotFound)
			},
			expectedStatus: 404,
			expectedBody:   `{"error":"scan not found"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockScanService)
			tt.setupMock(mockService)

			handler := NewScanHandler(mockService)
			router := gin.New()
			router.GET("/api/scans/:id", handler.GetScanByUUID)

			url := fmt.Sprintf("/api/scans/%s", tt.scanID)
			req, _ := http.NewRequest("GET", url, nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)

			if tt.expectedBody != "" {
				assert.JSONEq(t, tt.expectedBody, w.Body.String())
			}

			mockService.AssertExpectations(t)
		})
	}
}

func TestListScans(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		query          string
		setupMock      func(*MockScanService)
		expectedStatus int
	}{
		{
			name:  "Defaults Applied",
			query: "",
			setupMock: func(m *MockScanService) {
				m.On("ListScans", "", 1, 10).
					Return([]models.Scan{{UUID: "scan-1", Status: models.StatusPending}}, int64(1), nil)
			},
			expectedStatus: 200,
		},
		{
			name:  "Status Filter And Paging",
			query: "?status=failed&page=2&limit=5",
			setupMock: func(m *MockScanService) {
				m.On("ListScans", models.StatusFailed, 2, 5).
					Return([]models.Scan{}, int64(0), nil)
			},
			expectedStatus: 200,
		},
		{
			name:  "Unknown Status - Validation Error",
			query: "?status=exploded",
			setupMock: func(m *MockScanService) {
				m.On("ListScans", "exploded", 1, 10).
					Return(nil, int64(0), pkgerrors.NewValidationError("status", "exploded", "unknown scan status"))
			},
			expectedStatus: 400,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockScanService)
			tt.setupMock(mockService)

			handler := NewScanHandler(mockService)
			router := gin.New()
			router.GET("/api/scans", handler.ListScans)

			req, _ := http.NewRequest("GET", "/api/scans"+tt.query, nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			mockService.AssertExpectations(t)
		})
	}
}

func TestForceFailScan(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		scanID         string
		requestBody    string
		setupMock      func(*MockScanService)
		expectedStatus int
	}{
		{
			name:        "Running Scan Forced To Failed",
			scanID:      "stuck-scan",
			requestBody: `{"reason":"worker crashed"}`,
			setupMock: func(m *MockScanService) {
				m.On("ForceFail", "stuck-scan", "worker crashed").
					Return(&models.Scan{UUID: "stuck-scan", Status: models.StatusFailed, ErrorMessage: "worker crashed"}, nil)
			},
			expectedStatus: 200,
		},
		{
			name:        "Pending Scan - Conflict",
			scanID:      "pending-scan",
			requestBody: `{}`,
			setupMock: func(m *MockScanService) {
				m.On("ForceFail", "pending-scan", "").
					Return(nil, pkgerrors.NewTransitionError("pending-scan", models.StatusPending, models.StatusFailed))
			},
			expectedStatus: 409,
		},
		{
			name:        "Unknown Scan - Not Found",
			scanID:      "missing",
			requestBody: `{}`,
			setupMock: func(m *MockScanService) {
				m.On("ForceFail", "missing", "").
					Return(nil, pkgerrors.ErrScanNotFound)
			},
			expectedStatus: 404,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockScanService)
			tt.setupMock(mockService)

			handler := NewScanHandler(mockService)
			router := gin.New()
			router.POST("/api/scans/:id/fail", handler.ForceFailScan)

			url := fmt.Sprintf("/api/scans/%s/fail", tt.scanID)
			req, _ := http.NewRequest("POST", url, strings.NewReader(tt.requestBody))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			mockService.AssertExpectations(t)
		})
	}
}
