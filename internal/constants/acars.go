package constants

// Slew detection thresholds: a jump of more than SlewDistanceNm between two
// reports less than SlewWindowMs apart is flagged as a teleport.
const (
	SlewDistanceNm = 10.0
	SlewWindowMs   = 30_000
)

// PositionCacheSize bounds the last-known-position LRU. One entry per pilot;
// 4096 covers well beyond the active roster.
const PositionCacheSize = 4096

// HubICAOs is the fixed hub set used for the hub-to-hub credit bonus.
var HubICAOs = []string{"OJAI", "ORBI", "OSDI", "OERK", "OMDB", "OTHH"}

// Moderation alert categories.
const (
	ModSlewDetect  = "slew_detect"
	ModHardLanding = "hard_landing"
	ModBlacklist   = "blacklist"
	ModCheatFlag   = "cheat_flag"
)
