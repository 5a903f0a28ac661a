package stats

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/holkiv/topupbot/internal/domain"
)

func NewMock(t *testing.T) (*StatsHandler, *MockService) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service := NewMockService(ctrl)
	handler := New(service)
	return handler, service
}

func TestStatsHandler_GetDailyStats(t *testing.T) {
	handler, service := NewMock(t)

	tests := []struct {
		name       string
		mockSetup  func()
		wantStatus int
		wantBody   *dailyStatsResponse
	}{
		{
			name: "Success",
			mockSetup: func() {
				service.EXPECT().DailyStats(gomock.Any(), gomock.Any()).Return(&domain.DailyStats{
					OrdersCount:  3,
					TotalRevenue: 1500,
					UniqueUsers:  2,
				}, nil)
			},
			wantStatus: http.StatusOK,
			wantBody:   &dailyStatsResponse{OrdersCount: 3, TotalRevenue: 1500, UniqueUsers: 2},
		},
		{
			name: "ServiceError",
			mockSetup: func() {
				service.EXPECT().DailyStats(gomock.Any(), gomock.Any()).
					Return(nil, errors.New("db error"))
			},
			wantStatus: http.StatusInternalServerError,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()

			req := httptest.NewRequest(http.MethodGet, "/api/stats/daily", nil)
			rec := httptest.NewRecorder()
			handler.GetDailyStats(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantBody != nil {
				var got dailyStatsResponse
				assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
				assert.Equal(t, tt.wantBody.OrdersCount, got.OrdersCount)
				assert.Equal(t, tt.wantBody.TotalRevenue, got.TotalRevenue)
				assert.Equal(t, tt.wantBody.UniqueUsers, got.UniqueUsers)
				assert.NotEmpty(t, got.Date)
			}
		})
	}
}
