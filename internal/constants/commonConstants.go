package constants

type (
	PilotStatus    string
	BidStatus      string
	AircraftStatus string
	CachePrefix    string
)

const (
	PilotStatusActive    PilotStatus = "Active"
	PilotStatusPending   PilotStatus = "Pending"
	PilotStatusInactive  PilotStatus = "Inactive"
	PilotStatusOnLeave   PilotStatus = "On leave (LOA)"
	PilotStatusBlacklist PilotStatus = "Blacklist"

	BidStatusActive     BidStatus = "Active"
	BidStatusInProgress BidStatus = "InProgress"
	BidStatusCompleted  BidStatus = "Completed"
	BidStatusCancelled  BidStatus = "Cancelled"

	AircraftStatusAvailable   AircraftStatus = "Available"
	AircraftStatusInFlight    AircraftStatus = "InFlight"
	AircraftStatusMaintenance AircraftStatus = "Maintenance"
	AircraftStatusGrounded    AircraftStatus = "Grounded"
	AircraftStatusRetired     AircraftStatus = "Retired"

	CachePrefixGlobalConfig CachePrefix = "GLOBAL_CONFIG"
	CachePrefixSimbriefOFP  CachePrefix = "SB_OFP_"
	CachePrefixAirport      CachePrefix = "AIRPORT_"
)

// PIREP approval states. Transitions out of Pending trigger side effects
// (credit award on approve); they are never re-triggered on repeat calls.
const (
	ApprovalPending  = 0
	ApprovalAccepted = 1
	ApprovalRejected = 2
)

// Flight phases reported by the ACARS client.
const (
	PhasePreflight = "Preflight"
	PhaseTaxi      = "Taxi"
	PhaseTakeoff   = "Takeoff"
	PhaseClimb     = "Climb"
	PhaseCruise    = "Cruise"
	PhaseDescent   = "Descent"
	PhaseApproach  = "Approach"
	PhaseLanded    = "Landed"
)
