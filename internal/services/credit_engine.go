package services

import (
	"fmt"
	"math"
	"strings"
	"time"

	"levant-va/tower/internal/constants"
	gormModels "levant-va/tower/internal/models/gorm"
)

// CreditInput carries everything the scoring rules read. Pilot-derived facts
// (route history, last flight date) are resolved by the caller so the
// calculation itself is deterministic and testable without a database.
type CreditInput struct {
	DepartureICAO     string
	ArrivalICAO       string
	LandingRate       int // fpm, negative on touchdown
	FlightTimeMinutes int
	FuelUsed          float64
	PlannedFuel       float64
	Deductions        []gormModels.Deduction
	IsEventFlight     bool

	RouteAlreadyFlown bool
	LastFlightDate    *time.Time
	Now               time.Time
}

// CreditResult is the itemized outcome of one calculation.
type CreditResult struct {
	Components map[string]int
	Multiplier float64
	Total      int
	Breakdown  []string
}

// CreditEngine converts flight telemetry into awarded credits. The tunable
// parameters row is passed per call, never read from a global.
type CreditEngine struct{}

func NewCreditEngine() *CreditEngine {
	return &CreditEngine{}
}

// Calculate applies the scoring rules in fixed order. A nil config degrades
// to a flat base award so a missing parameters row never blocks a PIREP.
func (e *CreditEngine) Calculate(in CreditInput, cfg *gormModels.GlobalConfig) CreditResult {
	result := CreditResult{
		Components: make(map[string]int),
		Multiplier: 1.0,
	}

	if cfg == nil {
		result.Components["base"] = 100
		result.Total = 100
		result.Breakdown = append(result.Breakdown, "Base flight reward: +100 (default rates)")
		return result
	}

	sum := 0
	add := func(name string, amount int, line string) {
		if amount == 0 {
			return
		}
		result.Components[name] = result.Components[name] + amount
		sum += amount
		result.Breakdown = append(result.Breakdown, line)
	}

	add("base", cfg.CrBaseFlight, fmt.Sprintf("Base flight reward: %+d", cfg.CrBaseFlight))

	// Landing quality tiers. Rates between 350 and 400 fall through with no
	// adjustment; the gap matches the published tier boundaries.
	absRate := in.LandingRate
	if absRate < 0 {
		absRate = -absRate
	}
	switch {
	case absRate <= 150:
		add("landing", cfg.CrGreaserBonus,
			fmt.Sprintf("Greaser landing (%d fpm): %+d", in.LandingRate, cfg.CrGreaserBonus))
	case absRate <= 350:
		add("landing", cfg.CrFirmBonus,
			fmt.Sprintf("Smooth landing (%d fpm): %+d", in.LandingRate, cfg.CrFirmBonus))
	case absRate > 600:
		add("landing", cfg.CrHardLandingPenalty*2,
			fmt.Sprintf("Very hard landing (%d fpm): %+d", in.LandingRate, cfg.CrHardLandingPenalty*2))
	case absRate >= 400:
		add("landing", cfg.CrHardLandingPenalty,
			fmt.Sprintf("Hard landing (%d fpm): %+d", in.LandingRate, cfg.CrHardLandingPenalty))
	}

	// Fuel efficiency, only when both figures were reported.
	if in.PlannedFuel > 0 && in.FuelUsed > 0 {
		if math.Abs(in.FuelUsed-in.PlannedFuel) <= 0.05*in.PlannedFuel {
			add("fuel", cfg.CrFuelEfficiencyBonus,
				fmt.Sprintf("Fuel within 5%% of plan: %+d", cfg.CrFuelEfficiencyBonus))
		}
	}

	// Long haul
	switch {
	case in.FlightTimeMinutes >= 480:
		add("long_haul", cfg.CrLongHaul8h,
			fmt.Sprintf("Long haul 8h+: %+d", cfg.CrLongHaul8h))
	case in.FlightTimeMinutes >= 240:
		add("long_haul", cfg.CrLongHaul4h,
			fmt.Sprintf("Long haul 4h+: %+d", cfg.CrLongHaul4h))
	}

	dep := strings.ToUpper(strings.TrimSpace(in.DepartureICAO))
	arr := strings.ToUpper(strings.TrimSpace(in.ArrivalICAO))

	if dep != arr && isHub(dep) && isHub(arr) {
		add("hub_to_hub", cfg.CrHubToHubBonus,
			fmt.Sprintf("Hub to hub (%s-%s): %+d", dep, arr, cfg.CrHubToHubBonus))
	}

	if !in.RouteAlreadyFlown {
		add("new_route", cfg.CrNewRouteBonus,
			fmt.Sprintf("New route discovered (%s-%s): %+d", dep, arr, cfg.CrNewRouteBonus))
	}

	// Professionalism deductions, keyword matched against the client log.
	for _, category := range deductionCategories {
		count := 0
		for _, d := range in.Deductions {
			if category.matches(d.Reason) {
				count++
			}
		}
		if count == 0 {
			continue
		}
		penalty := category.penalty(cfg) * count
		add(category.name, penalty,
			fmt.Sprintf("%s x%d: %+d", category.label, count, penalty))
	}

	// Multipliers compound; they apply to the full additive total.
	if isFirstFlightOfDay(in.LastFlightDate, in.Now) {
		result.Multiplier *= cfg.CrFirstFlightMultiplier
		result.Breakdown = append(result.Breakdown,
			fmt.Sprintf("First flight of the day: x%.1f", cfg.CrFirstFlightMultiplier))
	}
	if in.IsEventFlight {
		result.Multiplier *= cfg.CrEventMultiplier
		result.Breakdown = append(result.Breakdown,
			fmt.Sprintf("Event flight: x%.1f", cfg.CrEventMultiplier))
	}

	total := int(math.Round(float64(sum) * result.Multiplier))
	if total < 0 {
		total = 0
	}
	result.Total = total
	result.Breakdown = append(result.Breakdown, fmt.Sprintf("Total: %d credits", total))
	return result
}

type deductionCategory struct {
	name     string
	label    string
	keywords [][]string // each inner slice must all match
	penalty  func(cfg *gormModels.GlobalConfig) int
}

var deductionCategories = []deductionCategory{
	{
		name:     "taxi_speed",
		label:    "Taxi speed violation",
		keywords: [][]string{{"taxi", "speed"}},
		penalty:  func(cfg *gormModels.GlobalConfig) int { return cfg.CrTaxiSpeedPenalty },
	},
	{
		name:     "lights",
		label:    "Light procedure violation",
		keywords: [][]string{{"light"}, {"strobe"}},
		penalty:  func(cfg *gormModels.GlobalConfig) int { return cfg.CrLightViolationPenalty },
	},
	{
		name:     "overspeed",
		label:    "Overspeed",
		keywords: [][]string{{"overspeed"}, {"over speed"}, {"vmo"}},
		penalty:  func(cfg *gormModels.GlobalConfig) int { return cfg.CrOverspeedPenalty },
	},
}

func (c deductionCategory) matches(reason string) bool {
	reason = strings.ToLower(reason)
	for _, group := range c.keywords {
		all := true
		for _, kw := range group {
			if !strings.Contains(reason, kw) {
				all = false
				break
			}
		}
		if all {
			return true
		}
	}
	return false
}

func isHub(icao string) bool {
	for _, hub := range constants.HubICAOs {
		if hub == icao {
			return true
		}
	}
	return false
}

// isFirstFlightOfDay reports whether the pilot has never flown, or last flew
// on a different UTC calendar day.
func isFirstFlightOfDay(last *time.Time, now time.Time) bool {
	if last == nil {
		return true
	}
	ly, lm, ld := last.UTC().Date()
	ny, nm, nd := now.UTC().Date()
	return ly != ny || lm != nm || ld != nd
}
