package contracts

import "runtime"

// Version is the tool version stamped into every saved evaluation row and
// into the Meta sheet of every result workbook.
const Version = "1.4.0"

// ResultFormat names the layout of the result workbooks (Evaluations,
// CandidatesSnapshot, Meta). Bump it when a column is added or renamed.
const ResultFormat = "evaluations-v1"

// Set with -ldflags "-X interviewcheck/pkg/contracts.BuildTime=..." by build.go.
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// VersionInfo is what GET /api/version reports.
type VersionInfo struct {
	Version      string `json:"version"`
	BuildTime    string `json:"build_time"`
	GitCommit    string `json:"git_commit"`
	ResultFormat string `json:"result_format"`
	GoVersion    string `json:"go_version"`
	Platform     string `json:"platform"`
}

// Info collects the build-time values into a VersionInfo.
func Info() VersionInfo {
	return VersionInfo{
		Version:      Version,
		BuildTime:    BuildTime,
		GitCommit:    GitCommit,
		ResultFormat: ResultFormat,
		GoVersion:    runtime.Version(),
		Platform:     runtime.GOOS + "/" + runtime.GOARCH,
	}
}
