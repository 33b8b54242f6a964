// Package websocket streams interview countdown timers to browsers over
// gorilla/websocket. Each connection follows one (interviewer, candidate)
// timer; the server pushes its state instead of the page polling for it.
package websocket
