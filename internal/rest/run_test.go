package rest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"recsim/domain"
)

func savedReport(t *testing.T, repo *InMemoryRunRepository, run int) domain.RunReport {
	t.Helper()
	report := domain.RunReport{
		RunID: uuid.NewString(),
		Run:   run,
		Seed:  int64(20 + run),
		Metrics: map[string]domain.Metric{
			"established_utility_ratio": domain.MetricOf(0.9),
			"cold_start_offer_ratio":    domain.UndefinedMetric(),
		},
	}
	if err := repo.SaveReport(context.Background(), report, map[string]any{"seed": report.Seed}); err != nil {
		t.Fatalf("save report: %v", err)
	}
	return report
}

func TestGetAllRuns(t *testing.T) {
	repo := NewInMemoryRunRepository()
	first := savedReport(t, repo, 0)
	second := savedReport(t, repo, 1)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/runs", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := NewRunHandler(repo)
	if err := h.GetAllRuns(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	body := rec.Body.String()
	for _, r := range []domain.RunReport{first, second} {
		if !strings.Contains(body, r.RunID) {
			t.Fatalf("run %s missing from body: %s", r.RunID, body)
		}
	}
	// undefined metric must surface as null, not zero
	if !strings.Contains(body, `"cold_start_offer_ratio":null`) {
		t.Fatalf("undefined metric not rendered as null: %s", body)
	}
}

func TestGetAllRunsRejectsOversizedLimit(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/runs?limit=5000", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := NewRunHandler(NewInMemoryRunRepository())
	if err := h.GetAllRuns(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestGetRunByID(t *testing.T) {
	repo := NewInMemoryRunRepository()
	report := savedReport(t, repo, 0)
	h := NewRunHandler(repo)
	e := echo.New()

	cases := []struct {
		name   string
		runID  string
		status int
	}{
		{"found", report.RunID, http.StatusOK},
		{"unknown id", uuid.NewString(), http.StatusNotFound},
		{"malformed id", "not-a-uuid", http.StatusBadRequest},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/runs/"+tc.runID, nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)
			c.SetParamNames("run_id")
			c.SetParamValues(tc.runID)

			if err := h.GetRunByID(c); err != nil {
				t.Fatalf("handler: %v", err)
			}
			if rec.Code != tc.status {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tc.status, rec.Body.String())
			}
		})
	}
}

func TestInMemoryRepositoryNewestFirst(t *testing.T) {
	repo := NewInMemoryRunRepository()
	savedReport(t, repo, 0)
	latest := savedReport(t, repo, 1)

	runs, err := repo.FindAll(context.Background(), 1)
	if err != nil {
		t.Fatalf("find all: %v", err)
	}
	if len(runs) != 1 || runs[0].RunID != latest.RunID {
		t.Fatalf("runs = %+v, want only the latest", runs)
	}
}
