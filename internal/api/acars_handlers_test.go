package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"levant-va/tower/internal/auth"
	"levant-va/tower/internal/constants"
	"levant-va/tower/internal/db/repositories"
	"levant-va/tower/internal/models/dtos"
	gormModels "levant-va/tower/internal/models/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(&gormModels.Pilot{}); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}
	return db
}

func newAuthTestHandlers(t *testing.T, db *gorm.DB) *Handlers {
	deps := &Dependencies{
		Repo: &Repositories{
			Pilots: repositories.NewPilotRepository(db),
		},
		Services: &Services{
			Tokens: auth.NewTokenServiceWithSecret([]byte("test-secret"), time.Hour),
		},
	}
	return NewHandlers(deps)
}

func seedPilot(t *testing.T, db *gorm.DB, status constants.PilotStatus) *gormModels.Pilot {
	pilot := &gormModels.Pilot{
		ID:        uuid.NewString(),
		PilotID:   "LVT001",
		FirstName: "Rami",
		LastName:  "Haddad",
		Email:     "rami@example.com",
		Rank:      "Cadet",
		Status:    status,
	}
	if err := db.Create(pilot).Error; err != nil {
		t.Fatalf("Failed to seed pilot: %v", err)
	}
	return pilot
}

func TestAuthHandler_Success(t *testing.T) {
	db := setupTestDB(t)
	seedPilot(t, db, constants.PilotStatusActive)
	handlers := newAuthTestHandlers(t, db)

	body, _ := json.Marshal(map[string]string{"pilotId": "LVT001"})
	req := httptest.NewRequest("POST", "/api/acars/auth", bytes.NewReader(body))
	rr := httptest.NewRecorder()

	handlers.AuthHandler().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp struct {
		Success bool   `json:"success"`
		Token   string `json:"token"`
		Pilot   struct {
			PilotID string `json:"pilotId"`
			Name    string `json:"name"`
		} `json:"pilot"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if !resp.Success {
		t.Error("Expected success true")
	}
	if resp.Token == "" {
		t.Error("Expected a token")
	}
	if resp.Pilot.Name != "Rami Haddad" {
		t.Errorf("Expected pilot name Rami Haddad, got %q", resp.Pilot.Name)
	}

	// The issued token must round-trip through validation.
	claims, err := auth.NewTokenServiceWithSecret([]byte("test-secret"), time.Hour).Validate(resp.Token)
	if err != nil {
		t.Fatalf("Issued token failed validation: %v", err)
	}
	if claims.PilotCode != "LVT001" {
		t.Errorf("Expected pilot code LVT001 in claims, got %q", claims.PilotCode)
	}
}

func TestAuthHandler_EmailIdentifier(t *testing.T) {
	db := setupTestDB(t)
	seedPilot(t, db, constants.PilotStatusActive)
	handlers := newAuthTestHandlers(t, db)

	body, _ := json.Marshal(map[string]string{"pilotId": "RAMI@example.com"})
	req := httptest.NewRequest("POST", "/api/acars/auth", bytes.NewReader(body))
	rr := httptest.NewRecorder()

	handlers.AuthHandler().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200 for email lookup, got %d", rr.Code)
	}
}

func TestAuthHandler_UnknownPilot(t *testing.T) {
	db := setupTestDB(t)
	handlers := newAuthTestHandlers(t, db)

	body, _ := json.Marshal(map[string]string{"pilotId": "LVT999"})
	req := httptest.NewRequest("POST", "/api/acars/auth", bytes.NewReader(body))
	rr := httptest.NewRecorder()

	handlers.AuthHandler().ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("Expected status 404, got %d", rr.Code)
	}
	var resp map[string]any
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if _, ok := resp["error"]; !ok {
		t.Error("Expected error field in body")
	}
}

func TestAuthHandler_Blacklisted(t *testing.T) {
	db := setupTestDB(t)
	seedPilot(t, db, constants.PilotStatusBlacklist)
	handlers := newAuthTestHandlers(t, db)

	body, _ := json.Marshal(map[string]string{"pilotId": "LVT001"})
	req := httptest.NewRequest("POST", "/api/acars/auth", bytes.NewReader(body))
	rr := httptest.NewRecorder()

	handlers.AuthHandler().ServeHTTP(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Fatalf("Expected status 403, got %d", rr.Code)
	}
}

func TestAuthHandler_InvalidJSON(t *testing.T) {
	db := setupTestDB(t)
	handlers := newAuthTestHandlers(t, db)

	req := httptest.NewRequest("POST", "/api/acars/auth", strings.NewReader("{not json"))
	rr := httptest.NewRecorder()

	handlers.AuthHandler().ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("Expected status 400, got %d", rr.Code)
	}
}

func TestPositionHandler_MissingFields(t *testing.T) {
	db := setupTestDB(t)
	handlers := newAuthTestHandlers(t, db)

	body, _ := json.Marshal(map[string]string{"pilotId": "LVT001"})
	req := httptest.NewRequest("POST", "/api/acars/position", bytes.NewReader(body))
	rr := httptest.NewRecorder()

	handlers.PositionHandler().ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("Expected status 400 without callsign, got %d", rr.Code)
	}
}

func TestDispatchHandler_UnknownAction(t *testing.T) {
	db := setupTestDB(t)
	handlers := newAuthTestHandlers(t, db)

	body, _ := json.Marshal(map[string]string{"action": "teleport", "pilotId": "LVT001"})
	req := httptest.NewRequest("POST", "/api/acars", bytes.NewReader(body))
	rr := httptest.NewRecorder()

	handlers.DispatchHandler().ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("Expected status 400 for unknown action, got %d", rr.Code)
	}
}

func TestRenderTrafficTable_EscapesClientStrings(t *testing.T) {
	out := renderTrafficTable([]dtos.TrafficEntry{{
		Callsign:  `<script>alert(1)</script>`,
		PilotName: `Rami "The Hawk" & Co`,
	}})

	if strings.Contains(out, "<script>") {
		t.Errorf("Expected client strings escaped, got %q", out)
	}
	if !strings.Contains(out, "&lt;script&gt;") {
		t.Errorf("Expected escaped callsign in output, got %q", out)
	}
	if !strings.Contains(out, "&amp; Co") {
		t.Errorf("Expected escaped pilot name in output, got %q", out)
	}
}
