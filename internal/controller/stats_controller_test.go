package controller

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"qa_automation_backend/internal/config"
	"qa_automation_backend/internal/model"
	"qa_automation_backend/internal/service"
	"qa_automation_backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memoryRateStore struct {
	records []model.AnswerRecord
}

func (s *memoryRateStore) FindByTimeRange(start, end time.Time) ([]model.AnswerRecord, error) {
	var out []model.AnswerRecord
	for _, r := range s.records {
		if !r.CreatedAt.Before(start) && !r.CreatedAt.After(end) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *memoryRateStore) FindAll() ([]model.AnswerRecord, error) {
	return append([]model.AnswerRecord(nil), s.records...), nil
}

func newStatsRouter(records ...model.AnswerRecord) *gin.Engine {
	automation := service.NewAutomationService(&memoryRateStore{records: records}, config.StatsConfig{
		DefaultThreshold: 0.7,
		SweepThresholds:  []float64{0.5, 0.7, 0.9},
		Windows:          config.StatsWindows{HourlyDays: 30, DailyMonths: 6, WeeklyYears: 2, MonthlyYears: 5},
	}, zap.NewNop())
	c := NewStatsController(automation, nil, nil, 0.7)

	r := gin.New()
	r.GET("/api/automation-rates", c.GetAutomationRates)
	r.GET("/api/automation-rates/range", c.GetAutomationRatesByRange)
	r.GET("/api/automation-rates/thresholds", c.GetThresholdComparison)
	return r
}

func do(router *gin.Engine, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func bothVersionsRecord(id string, createdAt time.Time, ai, human string) model.AnswerRecord {
	return model.AnswerRecord{
		ID:        id,
		CreatedAt: createdAt,
		Versions: []model.AnswerVersion{
			{Origin: model.OriginAI, Content: ai, CreatedAt: createdAt},
			{Origin: model.OriginHuman, Content: human, CreatedAt: createdAt},
		},
	}
}

func TestGetAutomationRates_PeriodWindow(t *testing.T) {
	router := newStatsRouter(
		bothVersionsRecord("recent", time.Now().UTC().Add(-time.Hour), "같은 답변", "같은 답변"),
	)

	w := do(router, "/api/automation-rates?period=day&count=2")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Rates []model.AutomationRate `json:"rates"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.NotEmpty(t, body.Rates)
	assert.Equal(t, 1, body.Rates[0].TotalQuestions)
	assert.Equal(t, 100.0, body.Rates[0].AutomationRate)
}

func TestGetAutomationRates_InvalidPeriod(t *testing.T) {
	router := newStatsRouter()

	w := do(router, "/api/automation-rates?period=year")
	require.Equal(t, http.StatusBadRequest, w.Code)

	var body util.ErrorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "invalid period parameter", body.Error)
}

func TestGetAutomationRates_InvalidThreshold(t *testing.T) {
	router := newStatsRouter()

	for _, target := range []string{
		"/api/automation-rates?threshold=abc",
		"/api/automation-rates?threshold=1.5",
		"/api/automation-rates?threshold=-0.1",
	} {
		w := do(router, target)
		assert.Equal(t, http.StatusBadRequest, w.Code, target)
	}
}

func TestGetAutomationRatesByRange(t *testing.T) {
	createdAt := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	router := newStatsRouter(
		bothVersionsRecord("q1", createdAt, "같은 답변", "같은 답변"),
	)

	w := do(router, "/api/automation-rates/range?start=2024-01-01T00:00:00Z&end=2024-01-02T00:00:00Z&groupBy=hour")
	require.Equal(t, http.StatusOK, w.Code)

	var resp util.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	rates := resp.Data.([]interface{})
	require.Len(t, rates, 1)
	bucket := rates[0].(map[string]interface{})
	assert.Equal(t, "01월 01일 10시", bucket["period"])
	assert.Equal(t, float64(100), bucket["automation_rate"])
}

func TestGetAutomationRatesByRange_BadParams(t *testing.T) {
	router := newStatsRouter()

	cases := map[string]string{
		"missing start":  "/api/automation-rates/range?end=2024-01-02T00:00:00Z&groupBy=hour",
		"bad end":        "/api/automation-rates/range?start=2024-01-01T00:00:00Z&end=tomorrow&groupBy=hour",
		"bad groupBy":    "/api/automation-rates/range?start=2024-01-01T00:00:00Z&end=2024-01-02T00:00:00Z&groupBy=quarter",
		"bad threshold":  "/api/automation-rates/range?start=2024-01-01T00:00:00Z&end=2024-01-02T00:00:00Z&groupBy=hour&threshold=9",
		"empty groupBy":  "/api/automation-rates/range?start=2024-01-01T00:00:00Z&end=2024-01-02T00:00:00Z",
	}
	for name, target := range cases {
		w := do(router, target)
		assert.Equal(t, http.StatusBadRequest, w.Code, name)
	}
}

func TestGetThresholdComparison(t *testing.T) {
	now := time.Now().UTC()
	router := newStatsRouter(
		bothVersionsRecord("identical", now, "같은 답변", "같은 답변"),
		bothVersionsRecord("different", now, "다른 답변", "completely different"),
	)

	w := do(router, "/api/automation-rates/thresholds")
	require.Equal(t, http.StatusOK, w.Code)

	var resp util.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	rows := resp.Data.([]interface{})
	require.Len(t, rows, 3)
	first := rows[0].(map[string]interface{})
	assert.Equal(t, 0.5, first["threshold"])
}
