package exporter

import (
	"strconv"
)

// FormatFloat renders f with exactly decimals digits after the point.
func FormatFloat(f float64, decimals int) string {
	return strconv.FormatFloat(f, 'f', decimals, 64)
}

// FormatInt renders an integer cell.
func FormatInt(i int) string {
	return strconv.Itoa(i)
}

// FormatBool renders a flag the way result workbooks store it.
func FormatBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}

// ParseBool accepts the stored forms of a flag. Anything unrecognized is false.
func ParseBool(s string) bool {
	switch s {
	case "True", "TRUE", "true", "1", "Y", "y", "yes":
		return true
	}
	return false
}
