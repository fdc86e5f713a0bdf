// Package color parses hex color strings into the normalized RGB components
// the Docs API expects.
package color

import (
	"strconv"
	"strings"
)

// HexToRGB parses "#RRGGBB" (the hash is optional) into components scaled to
// [0.0, 1.0]. ok is false when the input is not six hex digits.
func HexToRGB(hex string) (r, g, b float64, ok bool) {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 {
		return 0, 0, 0, false
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, 0, 0, false
	}
	return float64(v>>16&0xff) / 255.0,
		float64(v>>8&0xff) / 255.0,
		float64(v&0xff) / 255.0,
		true
}
