package units

import (
	"fmt"
	"math"
	"strings"

	"github.com/tdewolff/parse/v2/strconv"
)

// ParseAngle parses an angle and returns it in radians. A bare number is
// in degrees.
func ParseAngle(s string) (float64, error) {
	s = strings.TrimSpace(s)
	f, n := strconv.ParseFloat([]byte(s))
	if n == 0 {
		return 0, fmt.Errorf("units: invalid angle %q", s)
	}
	switch strings.ToLower(strings.TrimSpace(s[n:])) {
	case "", "deg":
		return f * math.Pi / 180, nil
	case "grad":
		return f * math.Pi / 200, nil
	case "rad":
		return f, nil
	case "turn":
		return f * 2 * math.Pi, nil
	}
	return 0, fmt.Errorf("units: unknown angle unit in %q", s)
}

// ParseDuration parses an animation time value and returns milliseconds.
//
// Accepted forms are timecount values ("2s", "150ms", "1.5min", "1h",
// bare numbers in seconds) and clock values ("01:30", "00:01:30.5").
func ParseDuration(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if strings.Contains(s, ":") {
		return parseClock(s)
	}
	f, n := strconv.ParseFloat([]byte(s))
	if n == 0 {
		return 0, fmt.Errorf("units: invalid duration %q", s)
	}
	switch strings.TrimSpace(s[n:]) {
	case "", "s":
		return f * 1000, nil
	case "ms":
		return f, nil
	case "min":
		return f * 60_000, nil
	case "h":
		return f * 3_600_000, nil
	}
	return 0, fmt.Errorf("units: unknown duration unit in %q", s)
}

func parseClock(s string) (float64, error) {
	parts := strings.Split(s, ":")
	if len(parts) > 3 {
		return 0, fmt.Errorf("units: invalid clock value %q", s)
	}
	var ms float64
	for _, p := range parts {
		f, n := strconv.ParseFloat([]byte(p))
		if n == 0 || n != len(p) {
			return 0, fmt.Errorf("units: invalid clock value %q", s)
		}
		ms = ms*60 + f
	}
	return ms * 1000, nil
}
