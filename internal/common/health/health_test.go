package health

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestReadinessDownDominates(t *testing.T) {
	checker := NewChecker()
	checker.AddReadinessCheck(func() Check {
		return Check{Name: "mongodb", Status: StatusUp}
	})
	checker.AddReadinessCheck(func() Check {
		return Check{Name: "queue", Status: StatusDown}
	})

	response := checker.GetReadiness()
	if response.Status != StatusDown {
		t.Errorf("status = %s, want DOWN when any check fails", response.Status)
	}
	if len(response.Checks) != 2 {
		t.Errorf("checks = %d, want 2", len(response.Checks))
	}
}

func TestHealthCombinesLivenessAndReadiness(t *testing.T) {
	checker := NewChecker()
	checker.AddLivenessCheck(func() Check {
		return Check{Name: "live", Status: StatusUp}
	})
	checker.AddReadinessCheck(func() Check {
		return Check{Name: "mongodb", Status: StatusUp}
	})

	response := checker.GetHealth()
	if response.Status != StatusUp {
		t.Errorf("status = %s, want UP", response.Status)
	}
	if len(response.Checks) != 2 {
		t.Errorf("checks = %d, want 2 combined", len(response.Checks))
	}
}

func TestHandleHealthStatusCodes(t *testing.T) {
	tests := []struct {
		name     string
		status   Status
		wantCode int
	}{
		{"healthy", StatusUp, http.StatusOK},
		{"unhealthy", StatusDown, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checker := NewChecker()
			checker.AddReadinessCheck(func() Check {
				return Check{Name: "mongodb", Status: tt.status}
			})

			rec := httptest.NewRecorder()
			checker.HandleHealth(rec, httptest.NewRequest(http.MethodGet, "/q/health", nil))

			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantCode)
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Content-Type = %q, want application/json", ct)
			}
			var response HealthResponse
			if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if response.Status != tt.status {
				t.Errorf("body status = %s, want %s", response.Status, tt.status)
			}
		})
	}
}

func TestHandleLiveWithNoChecksIsUp(t *testing.T) {
	checker := NewChecker()

	rec := httptest.NewRecorder()
	checker.HandleLive(rec, httptest.NewRequest(http.MethodGet, "/q/health/live", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestHandleReadyReportsFailingCheck(t *testing.T) {
	checker := NewChecker()
	checker.AddReadinessCheck(func() Check {
		return Check{
			Name:   "mongodb",
			Status: StatusDown,
			Data:   map[string]interface{}{"error": "connection refused"},
		}
	})

	rec := httptest.NewRecorder()
	checker.HandleReady(rec, httptest.NewRequest(http.MethodGet, "/q/health/ready", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
	var response HealthResponse
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(response.Checks) != 1 {
		t.Fatalf("checks = %d, want 1", len(response.Checks))
	}
	if response.Checks[0].Data["error"] != "connection refused" {
		t.Errorf("check data = %v, want error message", response.Checks[0].Data)
	}
}

func TestMongoDBCheck(t *testing.T) {
	check := MongoDBCheck(func() error { return nil })()
	if check.Name != "MongoDB" || check.Status != StatusUp {
		t.Errorf("check = %s/%s, want MongoDB UP", check.Name, check.Status)
	}

	check = MongoDBCheck(func() error { return errors.New("connection refused") })()
	if check.Status != StatusDown {
		t.Errorf("status = %s, want DOWN", check.Status)
	}
	if check.Data["error"] != "connection refused" {
		t.Errorf("data = %v, want ping error", check.Data)
	}
}

func TestNATSCheck(t *testing.T) {
	check := NATSCheck(func() bool { return true })()
	if check.Name != "NATS" || check.Status != StatusUp {
		t.Errorf("check = %s/%s, want NATS UP", check.Name, check.Status)
	}

	check = NATSCheck(func() bool { return false })()
	if check.Status != StatusDown {
		t.Errorf("status = %s, want DOWN", check.Status)
	}
}

func TestRedisCheck(t *testing.T) {
	check := RedisCheck(func() error { return nil })()
	if check.Name != "Redis" || check.Status != StatusUp {
		t.Errorf("check = %s/%s, want Redis UP", check.Name, check.Status)
	}

	check = RedisCheck(func() error { return errors.New("connection refused") })()
	if check.Status != StatusDown {
		t.Errorf("status = %s, want DOWN", check.Status)
	}
	if check.Data["error"] != "connection refused" {
		t.Errorf("data = %v, want ping error", check.Data)
	}
}
