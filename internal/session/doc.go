// Package session holds transient per-interview state that is never saved:
// the countdown timers and pending delete confirmations.
package session
