// Package middleware holds the HTTP middleware of the interview check server:
// request ids, structured request logging, panic recovery, rate limiting,
// CORS and body limits, plus struct-tag validation of JSON requests.
package middleware
