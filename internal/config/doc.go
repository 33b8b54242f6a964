// Package config provides configuration management for the interview tool.
//
// # Configuration Sources
//
// Configuration is built in layers, later layers overriding earlier ones:
//
//	1. Default values
//	2. A YAML file (config.yaml or configs/config.yaml, or an explicit path)
//	3. Environment variables, after loading an optional .env file
//
// # Environment Variables
//
// All environment variables use the INTERVIEW_ prefix followed by the section
// and field name:
//
//	INTERVIEW_SERVER_PORT=8080
//	INTERVIEW_LOGGING_LEVEL=debug
//	INTERVIEW_INTERVIEW_ROSTER_FILE=data/candidates.xlsx
//	INTERVIEW_INTERVIEW_COHORT_PREFIX=26
//	INTERVIEW_INTERVIEW_PINNED_PREFIXES=21,22,23,24,25
//
// # Paths
//
// Relative file settings are resolved against the directory the tool was
// started from. See ResolvePaths.
package config
