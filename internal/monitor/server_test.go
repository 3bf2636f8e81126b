package monitor

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Xingyu-Yang915/RepuTrade-Method/internal/config"
	"github.com/Xingyu-Yang915/RepuTrade-Method/internal/model"
	"github.com/Xingyu-Yang915/RepuTrade-Method/internal/repository"
	"github.com/gin-gonic/gin"
)

func newTestServer(t *testing.T) (*Server, *repository.MemoryShadowStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	shadow := repository.NewMemoryShadowStore()
	return NewServer(config.MonitorConfig{Port: "0"}, shadow), shadow
}

func TestHealthEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRoundsReflectCompletedRounds(t *testing.T) {
	srv, _ := newTestServer(t)
	srv.RoundCompleted(model.RoundSummary{Round: 1, Orders: 80, Matched: 38, Success: 36, Defaults: 2, Excluded: 20})
	srv.RoundCompleted(model.RoundSummary{Round: 2, Orders: 82, Matched: 40, Success: 40, Defaults: 0, Excluded: 18})

	req := httptest.NewRequest(http.MethodGet, "/v1/rounds", nil)
	rec := httptest.NewRecorder()
	srv.router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body struct {
		Rounds []model.RoundSummary `json:"rounds"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if len(body.Rounds) != 2 {
		t.Fatalf("expected 2 rounds, got %d", len(body.Rounds))
	}
	if body.Rounds[1].Success != 40 {
		t.Fatalf("expected 40 successes in round 2, got %d", body.Rounds[1].Success)
	}
}

func TestParticipantsServeShadowSnapshot(t *testing.T) {
	srv, shadow := newTestServer(t)
	if err := shadow.Set(context.Background(), "user1", 47); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/participants", nil)
	rec := httptest.NewRecorder()
	srv.router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body struct {
		Participants map[string]int `json:"participants"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body.Participants["user1"] != 47 {
		t.Fatalf("expected reputation 47, got %d", body.Participants["user1"])
	}
}
