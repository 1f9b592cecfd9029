package services

import (
	"strings"
	"testing"
	"time"

	gormModels "levant-va/tower/internal/models/gorm"
)

func defaultConfig() *gormModels.GlobalConfig {
	return &gormModels.GlobalConfig{
		Key:                     "LVT_MAIN",
		CrBaseFlight:            100,
		CrGreaserBonus:          50,
		CrFirmBonus:             25,
		CrHardLandingPenalty:    -50,
		CrFuelEfficiencyBonus:   30,
		CrLongHaul4h:            100,
		CrLongHaul8h:            250,
		CrHubToHubBonus:         50,
		CrNewRouteBonus:         50,
		CrFirstFlightMultiplier: 1.2,
		CrEventMultiplier:       2.0,
		CrTaxiSpeedPenalty:      -10,
		CrLightViolationPenalty: -15,
		CrOverspeedPenalty:      -50,
	}
}

func TestCreditEngine_FirstFlightExample(t *testing.T) {
	// base 100 + greaser 50 + long haul 4h 100, first flight multiplier 1.2
	// on a route already flown, endpoints outside the hub set.
	engine := NewCreditEngine()
	result := engine.Calculate(CreditInput{
		DepartureICAO:     "EGLL",
		ArrivalICAO:       "LFPG",
		LandingRate:       -150,
		FlightTimeMinutes: 300,
		RouteAlreadyFlown: true,
		LastFlightDate:    nil,
		Now:               time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}, defaultConfig())

	if result.Total != 300 {
		t.Errorf("Expected total 300, got %d", result.Total)
	}
	if result.Multiplier != 1.2 {
		t.Errorf("Expected multiplier 1.2, got %f", result.Multiplier)
	}
	if result.Components["base"] != 100 || result.Components["landing"] != 50 || result.Components["long_haul"] != 100 {
		t.Errorf("Unexpected components: %v", result.Components)
	}
}

func TestCreditEngine_Deterministic(t *testing.T) {
	engine := NewCreditEngine()
	in := CreditInput{
		DepartureICAO:     "OJAI",
		ArrivalICAO:       "OMDB",
		LandingRate:       -120,
		FlightTimeMinutes: 200,
		FuelUsed:          5100,
		PlannedFuel:       5000,
		IsEventFlight:     true,
		RouteAlreadyFlown: false,
		Now:               time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	first := engine.Calculate(in, defaultConfig())
	second := engine.Calculate(in, defaultConfig())

	if first.Total != second.Total {
		t.Errorf("Totals differ: %d vs %d", first.Total, second.Total)
	}
	if len(first.Breakdown) != len(second.Breakdown) {
		t.Fatalf("Breakdown lengths differ: %d vs %d", len(first.Breakdown), len(second.Breakdown))
	}
	for i := range first.Breakdown {
		if first.Breakdown[i] != second.Breakdown[i] {
			t.Errorf("Breakdown line %d differs: %q vs %q", i, first.Breakdown[i], second.Breakdown[i])
		}
	}
}

func TestCreditEngine_LandingTiers(t *testing.T) {
	engine := NewCreditEngine()
	cases := []struct {
		rate int
		want int
	}{
		{-60, 50},
		{-150, 50},
		{-151, 25},
		{-350, 25},
		{-375, 0}, // the documented dead zone between 350 and 400
		{-399, 0},
		{-400, -50},
		{-600, -50},
		{-601, -100},
	}
	for _, c := range cases {
		result := engine.Calculate(CreditInput{
			DepartureICAO:     "EGLL",
			ArrivalICAO:       "LFPG",
			LandingRate:       c.rate,
			FlightTimeMinutes: 60,
			RouteAlreadyFlown: true,
			LastFlightDate:    timePtr(time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)),
			Now:               time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		}, defaultConfig())
		if got := result.Components["landing"]; got != c.want {
			t.Errorf("Landing rate %d: expected component %d, got %d", c.rate, c.want, got)
		}
	}
}

func TestCreditEngine_FloorAtZero(t *testing.T) {
	cfg := defaultConfig()
	cfg.CrBaseFlight = 10
	engine := NewCreditEngine()

	deductions := gormModels.DeductionList{
		{Reason: "Overspeed below 10k"},
		{Reason: "VMO exceeded"},
		{Reason: "Taxi speed above limit"},
	}
	result := engine.Calculate(CreditInput{
		DepartureICAO:     "EGLL",
		ArrivalICAO:       "LFPG",
		LandingRate:       -650,
		FlightTimeMinutes: 30,
		Deductions:        deductions,
		RouteAlreadyFlown: true,
		LastFlightDate:    timePtr(time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)),
		Now:               time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}, cfg)

	if result.Total != 0 {
		t.Errorf("Expected clamped total 0, got %d", result.Total)
	}
}

func TestCreditEngine_DeductionCategories(t *testing.T) {
	engine := NewCreditEngine()
	result := engine.Calculate(CreditInput{
		DepartureICAO:     "EGLL",
		ArrivalICAO:       "LFPG",
		LandingRate:       -375,
		FlightTimeMinutes: 60,
		Deductions: gormModels.DeductionList{
			{Reason: "Taxi speed exceeded 25kts"},
			{Reason: "Taxi speed exceeded 25kts"},
			{Reason: "Landing lights off below 10k"},
			{Reason: "Strobe lights off on runway"},
			{Reason: "Overspeed"},
		},
		RouteAlreadyFlown: true,
		LastFlightDate:    timePtr(time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)),
		Now:               time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}, defaultConfig())

	if got := result.Components["taxi_speed"]; got != -20 {
		t.Errorf("Expected taxi_speed -20, got %d", got)
	}
	if got := result.Components["lights"]; got != -30 {
		t.Errorf("Expected lights -30, got %d", got)
	}
	if got := result.Components["overspeed"]; got != -50 {
		t.Errorf("Expected overspeed -50, got %d", got)
	}
}

func TestCreditEngine_OverspeedSpellings(t *testing.T) {
	engine := NewCreditEngine()
	result := engine.Calculate(CreditInput{
		DepartureICAO:     "EGLL",
		ArrivalICAO:       "LFPG",
		LandingRate:       -375,
		FlightTimeMinutes: 60,
		Deductions: gormModels.DeductionList{
			{Reason: "Over speed below 10000ft"},
			{Reason: "Overspeed warning"},
			{Reason: "VMO exceeded"},
		},
		RouteAlreadyFlown: true,
		LastFlightDate:    timePtr(time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)),
		Now:               time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}, defaultConfig())

	if got := result.Components["overspeed"]; got != -150 {
		t.Errorf("Expected overspeed -150, got %d", got)
	}
	if got := result.Components["taxi_speed"]; got != 0 {
		t.Errorf("Expected no taxi_speed component, got %d", got)
	}
}

func TestCreditEngine_HubToHubAndNewRoute(t *testing.T) {
	engine := NewCreditEngine()
	result := engine.Calculate(CreditInput{
		DepartureICAO:     "ojai",
		ArrivalICAO:       "omdb",
		LandingRate:       -375,
		FlightTimeMinutes: 60,
		RouteAlreadyFlown: false,
		LastFlightDate:    timePtr(time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)),
		Now:               time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}, defaultConfig())

	if got := result.Components["hub_to_hub"]; got != 50 {
		t.Errorf("Expected hub_to_hub 50, got %d", got)
	}
	if got := result.Components["new_route"]; got != 50 {
		t.Errorf("Expected new_route 50, got %d", got)
	}

	// Same hub on both ends never qualifies.
	sameHub := engine.Calculate(CreditInput{
		DepartureICAO:     "OJAI",
		ArrivalICAO:       "OJAI",
		LandingRate:       -375,
		FlightTimeMinutes: 60,
		RouteAlreadyFlown: true,
		LastFlightDate:    timePtr(time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)),
		Now:               time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}, defaultConfig())
	if got := sameHub.Components["hub_to_hub"]; got != 0 {
		t.Errorf("Expected no hub bonus for same endpoints, got %d", got)
	}
}

func TestCreditEngine_FuelEfficiency(t *testing.T) {
	engine := NewCreditEngine()
	base := CreditInput{
		DepartureICAO:     "EGLL",
		ArrivalICAO:       "LFPG",
		LandingRate:       -375,
		FlightTimeMinutes: 60,
		RouteAlreadyFlown: true,
		LastFlightDate:    timePtr(time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)),
		Now:               time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}

	within := base
	within.PlannedFuel = 10000
	within.FuelUsed = 10500
	if got := engine.Calculate(within, defaultConfig()).Components["fuel"]; got != 30 {
		t.Errorf("Expected fuel bonus 30 at exactly 5%%, got %d", got)
	}

	outside := base
	outside.PlannedFuel = 10000
	outside.FuelUsed = 10501
	if got := engine.Calculate(outside, defaultConfig()).Components["fuel"]; got != 0 {
		t.Errorf("Expected no fuel bonus past 5%%, got %d", got)
	}

	missing := base
	missing.FuelUsed = 10000
	if got := engine.Calculate(missing, defaultConfig()).Components["fuel"]; got != 0 {
		t.Errorf("Expected no fuel bonus without planned figure, got %d", got)
	}
}

func TestCreditEngine_MissingConfig(t *testing.T) {
	engine := NewCreditEngine()
	result := engine.Calculate(CreditInput{
		DepartureICAO:     "OJAI",
		ArrivalICAO:       "OMDB",
		LandingRate:       -100,
		FlightTimeMinutes: 600,
		IsEventFlight:     true,
		Now:               time.Now(),
	}, nil)

	if result.Total != 100 {
		t.Errorf("Expected flat 100 with missing config, got %d", result.Total)
	}
	if len(result.Breakdown) != 1 || !strings.Contains(result.Breakdown[0], "default") {
		t.Errorf("Expected default breakdown line, got %v", result.Breakdown)
	}
}

func timePtr(t time.Time) *time.Time {
	return &t
}
