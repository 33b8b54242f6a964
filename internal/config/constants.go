package config

import "time"

// Application constants
const (
	AppName = "Interview Check"

	// Server
	DefaultPort      = 8080
	DefaultRateLimit = 20 // requests per second
	DefaultBurstSize = 40

	// Files, relative to the working directory
	DefaultRosterFile     = "candidates.xlsx"
	DefaultOutputDir      = "outputs"
	DefaultResultFilename = "interview_results.xlsx"
	DefaultLogFile        = "logs/app.log"

	// Roster
	DefaultCohortPrefix = "26"

	// Timer bounds in minutes
	DefaultTimerMinutes = 8
	MinTimerMinutes     = 1
	MaxTimerMinutes     = 30

	DefaultConfirmTTL  = 2 * time.Minute
	DefaultMaxUploadMB = 32
)

// DefaultPinnedPrefixes are the older cohorts that can be pinned to the top of the roster.
var DefaultPinnedPrefixes = []string{"21", "22", "23", "24", "25"}
