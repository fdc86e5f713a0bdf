// Package format holds small display helpers shared by tool handlers.
package format

import "fmt"

// ByteSize renders a byte count as a human-readable string with a binary
// unit suffix. Zero maps to an empty string so callers can omit the field
// when the API did not report a size.
func ByteSize(n int64) string {
	switch {
	case n == 0:
		return ""
	case n < 1024:
		return fmt.Sprintf("%d B", n)
	}
	value, exp := float64(n)/1024, 0
	for value >= 1024 {
		value /= 1024
		exp++
	}
	return fmt.Sprintf("%.1f %cB", value, "KMGTPE"[exp])
}
