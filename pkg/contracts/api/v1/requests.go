// Package api contains API contract definitions for the interview check service.
// Version v1 represents the current stable API version.
package api

import (
	"interviewcheck/pkg/contracts/domain"
)

// Roster API Requests

// RosterListRequest filters and orders the candidate list
type RosterListRequest struct {
	Query    string `json:"q" query:"q" validate:"omitempty,max=100"`
	PinOlder bool   `json:"pin_older" query:"pin_older"`
}

// Evaluation API Requests

// EvaluationRequest is the scoring form submitted for one candidate.
// OverallManual of 0 means "use the computed average".
type EvaluationRequest struct {
	Scores         domain.Scores    `json:"scores"`
	OverallManual  int              `json:"overall_manual" validate:"gte=0,lte=5"`
	Flags          domain.RiskFlags `json:"flags"`
	Memos          domain.Memos     `json:"memos"`
	Recommendation string           `json:"recommendation" validate:"omitempty,recommendation"`
}

// DeleteRequest confirms a pending delete
type DeleteRequest struct {
	Confirm string `json:"confirm" query:"confirm" validate:"omitempty,uuid"`
}

// TimerStartRequest optionally sets the interview length when a timer starts
type TimerStartRequest struct {
	Minutes int `json:"minutes" query:"minutes" validate:"omitempty,min=1,max=30"`
}

// Merge API Requests

// MergeRequest carries the summary options of a merge upload
type MergeRequest struct {
	SortBy    string   `json:"sort_by" query:"sort_by" validate:"omitempty,oneof=overall rules_fit output_evidence collaboration self_driven role_skill name evaluators"`
	Ascending bool     `json:"asc" query:"asc"`
	Only      []string `json:"only" query:"only" validate:"omitempty,dive,recommendation"`
	Kind      string   `json:"kind" query:"kind" validate:"omitempty,oneof=full summary"`
}
