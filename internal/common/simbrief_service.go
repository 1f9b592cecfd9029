package common

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"levant-va/tower/internal/constants"
	"levant-va/tower/internal/models/dtos"
)

// SimbriefService fetches the latest operational flight plan for a pilot's
// SimBrief account. Used only for bid enrichment; every failure is non-fatal.
type SimbriefService struct {
	BaseURL string
	Client  *http.Client
	cache   CacheInterface
}

func NewSimbriefService(cache CacheInterface) *SimbriefService {
	baseURL := os.Getenv("SIMBRIEF_API_BASE_URL")
	if baseURL == "" {
		baseURL = "https://www.simbrief.com/api/xml.fetcher.php"
	}
	return &SimbriefService{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: 10 * time.Second},
		cache:   cache,
	}
}

// simbriefOFP mirrors the subset of the v2 JSON response we surface.
type simbriefOFP struct {
	Fetch struct {
		Status string `json:"status"`
	} `json:"fetch"`
	General struct {
		Route           string      `json:"route"`
		InitialAltitude json.Number `json:"initial_altitude"`
		CostIndex       json.Number `json:"costindex"`
		RouteDistance   json.Number `json:"route_distance"`
	} `json:"general"`
	Fuel struct {
		PlanRamp    json.Number `json:"plan_ramp"`
		Taxi        json.Number `json:"taxi"`
		EnrouteBurn json.Number `json:"enroute_burn"`
		Reserve     json.Number `json:"reserve"`
	} `json:"fuel"`
	Times struct {
		EstTimeEnroute json.Number `json:"est_time_enroute"`
	} `json:"times"`
	Weights struct {
		PaxCount json.Number `json:"pax_count"`
		Cargo    json.Number `json:"cargo"`
	} `json:"weights"`
	Alternate struct {
		ICAOCode string `json:"icao_code"`
	} `json:"alternate"`
	Weather struct {
		OrigMetar string `json:"orig_metar"`
		DestMetar string `json:"dest_metar"`
	} `json:"weather"`
	Aircraft struct {
		Name     string `json:"name"`
		ICAOCode string `json:"icao_code"`
	} `json:"aircraft"`
}

// FetchOFP returns the pilot's current OFP briefing, or an error the caller
// is expected to swallow. Responses are cached briefly to spare the upstream.
func (s *SimbriefService) FetchOFP(ctx context.Context, simbriefID string) (*dtos.OFPBriefing, error) {
	if simbriefID == "" {
		return nil, errors.New("no simbrief id")
	}

	cacheKey := string(constants.CachePrefixSimbriefOFP) + simbriefID
	if cached, found := s.cache.Get(cacheKey); found {
		if briefing, ok := cached.(*dtos.OFPBriefing); ok {
			return briefing, nil
		}
	}

	url := fmt.Sprintf("%s?userid=%s&json=v2", s.BaseURL, simbriefID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var ofp simbriefOFP
	if err := json.NewDecoder(resp.Body).Decode(&ofp); err != nil {
		return nil, err
	}
	if ofp.Fetch.Status != "Success" {
		return nil, fmt.Errorf("simbrief fetch status: %s", ofp.Fetch.Status)
	}

	briefing := &dtos.OFPBriefing{
		Route:          ofp.General.Route,
		CruiseAltitude: ofp.General.InitialAltitude.String(),
		CostIndex:      ofp.General.CostIndex.String(),
		DistanceNm:     ofp.General.RouteDistance.String(),
		FuelBlock:      numberToFloat(ofp.Fuel.PlanRamp),
		FuelTaxi:       numberToFloat(ofp.Fuel.Taxi),
		FuelEnroute:    numberToFloat(ofp.Fuel.EnrouteBurn),
		FuelReserve:    numberToFloat(ofp.Fuel.Reserve),
		EstTimeEnroute: ofp.Times.EstTimeEnroute.String(),
		PaxCount:       int(numberToFloat(ofp.Weights.PaxCount)),
		CargoWeight:    numberToFloat(ofp.Weights.Cargo),
		AlternateICAO:  ofp.Alternate.ICAOCode,
		OriginMetar:    ofp.Weather.OrigMetar,
		DestMetar:      ofp.Weather.DestMetar,
		AircraftName:   ofp.Aircraft.Name,
		AircraftICAO:   ofp.Aircraft.ICAOCode,
	}

	s.cache.Set(cacheKey, briefing, 2*time.Minute)
	return briefing, nil
}

func numberToFloat(n json.Number) float64 {
	f, _ := n.Float64()
	return f
}
