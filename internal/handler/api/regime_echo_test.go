package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"RegimeGate/internal/services/decision"
	"RegimeGate/internal/services/regime"
	"RegimeGate/internal/usecase"
	xlogger "RegimeGate/pkg/logger"

	"github.com/labstack/echo/v4"
)

func newTestHandler(t *testing.T) *RegimeEchoHandler {
	t.Helper()
	l, err := xlogger.New(&xlogger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	m := &noopMetrics{}
	uc := usecase.NewRegimeUseCase(regime.NewClassifier(), decision.NewGate(), m, l)
	return NewRegimeEchoHandler(l, uc)
}

type noopMetrics struct{}

func (noopMetrics) RecordClassification(string)        {}
func (noopMetrics) RecordError(string)                 {}
func (noopMetrics) RecordLatency(string, float64)      {}
func (noopMetrics) RecordPositionSize(string, float64) {}

func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()
	e := echo.New()
	newTestHandler(t).RegisterRoutes(e)
	return e
}

func TestClassifyEndpointShortHistory(t *testing.T) {
	e := newTestServer(t)

	body := `{"symbol":"BTCUSDT","prices":[100,101,102]}`
	req := httptest.NewRequest(http.MethodPost, "/api/regime/classify", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var out struct {
		Status int `json:"status"`
		Data   struct {
			Bars     int      `json:"bars"`
			Labels   []string `json:"labels"`
			Last     string   `json:"last"`
			Decision struct {
				AllowTrade   bool    `json:"allow_trade"`
				PositionSize float64 `json:"position_size"`
			} `json:"decision"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Status != http.StatusOK {
		t.Fatalf("expected embedded status 200, got %d", out.Status)
	}
	if out.Data.Bars != 3 || len(out.Data.Labels) != 3 {
		t.Fatalf("expected 3 aligned labels, got %+v", out.Data)
	}
	for _, l := range out.Data.Labels {
		if l != "UNCERTAIN" {
			t.Fatalf("short history must be UNCERTAIN, got %v", out.Data.Labels)
		}
	}
	if out.Data.Decision.AllowTrade || out.Data.Decision.PositionSize != 0 {
		t.Fatalf("UNCERTAIN must gate to no-trade, got %+v", out.Data.Decision)
	}
}

func TestClassifyEndpointRejectsNonPositivePrice(t *testing.T) {
	e := newTestServer(t)

	body := `{"prices":[100,0,102]}`
	req := httptest.NewRequest(http.MethodPost, "/api/regime/classify", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var out struct {
		Status int `json:"status"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Status != http.StatusBadRequest {
		t.Fatalf("expected embedded status 400, got %d: %s", out.Status, rec.Body.String())
	}
}

func TestClassifyEndpointRejectsMissingPrices(t *testing.T) {
	e := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/regime/classify", strings.NewReader(`{}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var out struct {
		Status int `json:"status"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Status != http.StatusBadRequest {
		t.Fatalf("expected embedded status 400, got %d", out.Status)
	}
}

func TestDecideEndpoint(t *testing.T) {
	e := newTestServer(t)

	cases := []struct {
		label string
		allow bool
		size  float64
	}{
		{"TREND", true, 1.0},
		{"RANGE", true, 0.5},
		{"VOLATILE", false, 0},
		{"UNCERTAIN", false, 0},
		{"garbage", false, 0},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/api/regime/decide?label="+tc.label, nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("label %s: expected 200, got %d", tc.label, rec.Code)
		}
		var out struct {
			Data struct {
				Decision struct {
					AllowTrade   bool    `json:"allow_trade"`
					PositionSize float64 `json:"position_size"`
				} `json:"decision"`
			} `json:"data"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
			t.Fatalf("label %s: decode: %v", tc.label, err)
		}
		if out.Data.Decision.AllowTrade != tc.allow || out.Data.Decision.PositionSize != tc.size {
			t.Fatalf("label %s: unexpected decision %+v", tc.label, out.Data.Decision)
		}
	}
}

func TestHealthEndpoint(t *testing.T) {
	e := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
