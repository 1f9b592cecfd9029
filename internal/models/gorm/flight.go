package gorm

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Deduction is one professionalism penalty recorded by the ACARS client.
type Deduction struct {
	Reason    string    `json:"reason"`
	Penalty   int       `json:"penalty"`
	Timestamp time.Time `json:"timestamp"`
}

type DeductionList []Deduction

func (l DeductionList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *DeductionList) Scan(src interface{}) error {
	if src == nil {
		*l = nil
		return nil
	}
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("cannot scan %T into DeductionList", src)
	}
}

// Flight is the post-flight PIREP record.
type Flight struct {
	ID                   string        `gorm:"column:id;primaryKey;type:uuid"`
	PilotID              string        `gorm:"column:pilot_id;type:uuid;index"`
	PilotName            string        `gorm:"column:pilot_name"`
	FlightNumber         string        `gorm:"column:flight_number;index"`
	Callsign             string        `gorm:"column:callsign"`
	DepartureICAO        string        `gorm:"column:departure_icao;index"`
	ArrivalICAO          string        `gorm:"column:arrival_icao;index"`
	AlternateICAO        string        `gorm:"column:alternate_icao"`
	Route                string        `gorm:"column:route"`
	AircraftType         string        `gorm:"column:aircraft_type"`
	AircraftRegistration string        `gorm:"column:aircraft_registration"`
	FlightTime           int           `gorm:"column:flight_time"` // minutes
	LandingRate          int           `gorm:"column:landing_rate"`
	LandingGrade         string        `gorm:"column:landing_grade"`
	FuelUsed             float64       `gorm:"column:fuel_used;default:0"`
	Distance             float64       `gorm:"column:distance;default:0"`
	Pax                  int           `gorm:"column:pax;default:0"`
	Cargo                int           `gorm:"column:cargo;default:0"`
	Score                int           `gorm:"column:score;default:100"`
	ComfortScore         float64       `gorm:"column:comfort_score;default:100"`
	Deductions           DeductionList `gorm:"column:deductions;type:text"`
	Telemetry            string        `gorm:"column:telemetry;type:text"`
	ApprovedStatus       int           `gorm:"column:approved_status;index;default:0"`
	Comments             string        `gorm:"column:comments"`
	AdminComments        string        `gorm:"column:admin_comments"`
	CreditsEarned        int           `gorm:"column:credits_earned;default:0"`
	CreditsBreakdown     StringList    `gorm:"column:credits_breakdown;type:text"`
	AcarsVersion         string        `gorm:"column:acars_version"`
	SubmittedAt          time.Time     `gorm:"column:submitted_at;autoCreateTime"`
	ReviewedAt           *time.Time    `gorm:"column:reviewed_at"`
	ReviewedBy           string        `gorm:"column:reviewed_by"`
}

func (Flight) TableName() string {
	return "flights"
}

// StatusLabel maps the approval state to the label the client displays.
func (f *Flight) StatusLabel() string {
	switch f.ApprovedStatus {
	case 1:
		return "Accepted"
	case 2:
		return "Rejected"
	default:
		return "Pending"
	}
}
