// Package events contains the event contracts pushed over WebSocket connections.
package events

import (
	"time"
)

// MessageType defines the type of WebSocket message
type MessageType string

const (
	// MessageTypeTimerTick carries the countdown state once per second while a timer runs
	MessageTypeTimerTick MessageType = "timer:tick"

	// MessageTypeTimerExpired is sent once when the countdown reaches zero
	MessageTypeTimerExpired MessageType = "timer:expired"

	// MessageTypeTimerStopped is sent when the timer is paused or reset
	MessageTypeTimerStopped MessageType = "timer:stopped"

	MessageTypeError MessageType = "error"
)

// BaseMessage represents the base structure for all WebSocket messages
type BaseMessage struct {
	Type      MessageType `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	TraceID   string      `json:"trace_id,omitempty"`
}

// WebSocketMessage represents a complete WebSocket message
type WebSocketMessage struct {
	BaseMessage
	Data interface{} `json:"data,omitempty"`
}

// TimerSnapshot is the countdown state of one interview.
type TimerSnapshot struct {
	Interviewer      string  `json:"interviewer"`
	CandidateID      string  `json:"candidate_id"`
	Running          bool    `json:"running"`
	Expired          bool    `json:"expired"`
	TotalSeconds     int     `json:"total_seconds"`
	ElapsedSeconds   int     `json:"elapsed_seconds"`
	RemainingSeconds int     `json:"remaining_seconds"`
	Remaining        string  `json:"remaining"` // m:ss
	Progress         float64 `json:"progress"`  // 0..1
}

// ErrorMessage represents an error payload
type ErrorMessage struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewMessage creates a message stamped with the current time
func NewMessage(msgType MessageType, data interface{}) WebSocketMessage {
	return WebSocketMessage{
		BaseMessage: BaseMessage{
			Type:      msgType,
			Timestamp: time.Now(),
		},
		Data: data,
	}
}
