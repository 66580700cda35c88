package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"appMatch/domain"
	"appMatch/pkg/metrics"

	"github.com/labstack/echo/v4"
)

type fakePerf struct {
	stats map[string]domain.PerfStats
	err   error
}

func (f fakePerf) Stats(ctx context.Context) (map[string]domain.PerfStats, error) {
	return f.stats, f.err
}

type fakePredictor struct {
	fn func(features domain.AppFeatures, neighbors []domain.Neighbor, perf map[string]domain.PerfStats) (domain.Prediction, error)
}

func (f fakePredictor) Predict(features domain.AppFeatures, neighbors []domain.Neighbor, perf map[string]domain.PerfStats) (domain.Prediction, error) {
	return f.fn(features, neighbors, perf)
}

func newPredictContext(t *testing.T, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/predict", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestPredictSuccess(t *testing.T) {
	predictor := fakePredictor{fn: func(_ domain.AppFeatures, _ []domain.Neighbor, _ map[string]domain.PerfStats) (domain.Prediction, error) {
		return domain.Prediction{Score: 0.72, Segments: []string{"gamers"}}, nil
	}}
	h := NewPredictHandler(fakePerf{stats: map[string]domain.PerfStats{}}, predictor, metrics.NewCollector())

	body := `{"app":{"name":"X","category":"Games"},"neighbors":[{"app_id":"a","similarity":0.9}],"ab_arm":"v1"}`
	c, rec := newPredictContext(t, body)
	if err := h.Predict(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body: %s)", rec.Code, rec.Body.String())
	}

	var resp PredictResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.ABArm != "v1" {
		t.Errorf("ab_arm = %q, want v1", resp.ABArm)
	}
	if resp.Prediction.Score != 0.72 {
		t.Errorf("score = %v, want 0.72", resp.Prediction.Score)
	}
	if resp.LatencyMS < 0 {
		t.Errorf("latency_ms = %d, want >= 0", resp.LatencyMS)
	}
}

func TestPredictValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"app":`},
		{"empty neighbors", `{"app":{"name":"X","category":"Games"},"neighbors":[],"ab_arm":"v1"}`},
		{"missing neighbors", `{"app":{"name":"X","category":"Games"},"ab_arm":"v1"}`},
		{"neighbor without app_id", `{"app":{"name":"X","category":"Games"},"neighbors":[{"similarity":0.5}],"ab_arm":"v1"}`},
		{"unknown arm", `{"app":{"name":"X","category":"Games"},"neighbors":[{"app_id":"a"}],"ab_arm":"v3"}`},
		{"missing arm", `{"app":{"name":"X","category":"Games"},"neighbors":[{"app_id":"a"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			predictor := fakePredictor{fn: func(_ domain.AppFeatures, _ []domain.Neighbor, _ map[string]domain.PerfStats) (domain.Prediction, error) {
				called = true
				return domain.Prediction{}, nil
			}}
			h := NewPredictHandler(fakePerf{}, predictor, metrics.NewCollector())
			c, rec := newPredictContext(t, tt.body)
			if err := h.Predict(c); err != nil {
				t.Fatalf("handler returned error: %v", err)
			}
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
			if called {
				t.Error("predictor must not run on invalid input")
			}
		})
	}
}

func TestPredictPanicServesDefault(t *testing.T) {
	predictor := fakePredictor{fn: func(_ domain.AppFeatures, _ []domain.Neighbor, _ map[string]domain.PerfStats) (domain.Prediction, error) {
		panic("scoring blew up")
	}}
	h := NewPredictHandler(fakePerf{stats: map[string]domain.PerfStats{}}, predictor, metrics.NewCollector())

	body := `{"app":{"name":"X","category":"Games"},"neighbors":[{"app_id":"a","similarity":0.9}],"ab_arm":"v2"}`
	c, rec := newPredictContext(t, body)
	if err := h.Predict(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp PredictResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	want := domain.DefaultPrediction()
	if resp.Prediction.Score != want.Score || !reflect.DeepEqual(resp.Prediction.Segments, want.Segments) {
		t.Errorf("prediction = %+v, want default %+v", resp.Prediction, want)
	}
}

func TestPredictPerformanceFailureDegrades(t *testing.T) {
	var gotPerf map[string]domain.PerfStats
	predictor := fakePredictor{fn: func(_ domain.AppFeatures, _ []domain.Neighbor, perf map[string]domain.PerfStats) (domain.Prediction, error) {
		gotPerf = perf
		return domain.Prediction{Score: 0.5, Segments: []string{"tech-savvy"}}, nil
	}}
	h := NewPredictHandler(fakePerf{err: errors.New("csv missing")}, predictor, metrics.NewCollector())

	body := `{"app":{"name":"X","category":"Tools"},"neighbors":[{"app_id":"a","similarity":0.2}],"ab_arm":"v1"}`
	c, rec := newPredictContext(t, body)
	if err := h.Predict(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if gotPerf == nil || len(gotPerf) != 0 {
		t.Errorf("predictor should receive an empty stats map, got %v", gotPerf)
	}
}
