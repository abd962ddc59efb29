// Package market holds the domain logic of the brief service: ticker
// parsing, fundamental metric normalization, and earnings date
// resolution over the upstream calendar.
package market

import (
	"math"
	"strconv"
	"strings"
)

// Candidate metric fields in preference order. Finnhub's metric=all
// payload is inconsistent across listings, so each reading falls back
// through its chain until a numeric value appears.
var (
	peFields  = []string{"peBasicExclExtraTTM", "peTTM"}
	epsFields = []string{"epsInclExtraItemsTTM", "epsTTM", "epsNormalizedAnnual"}
)

const divYieldField = "currentDividendYieldTTM"

// Fundamentals is the normalized slice of a Finnhub metric payload.
// A nil field means the metric was absent or not numeric.
type Fundamentals struct {
	PETTM       *float64
	EPSTTM      *float64
	DivYieldPct *float64
}

// NormalizeMetrics extracts the P/E, EPS, and dividend yield readings
// from a raw metric object.
func NormalizeMetrics(metric map[string]any) Fundamentals {
	return Fundamentals{
		PETTM:       firstNumeric(metric, peFields...),
		EPSTTM:      firstNumeric(metric, epsFields...),
		DivYieldPct: normalizeDividendYield(metric[divYieldField]),
	}
}

// firstNumeric returns the value of the first key that coerces to a
// number. A present but non-numeric candidate falls through to the next.
func firstNumeric(metric map[string]any, keys ...string) *float64 {
	for _, key := range keys {
		if v := numericValue(metric[key]); v != nil {
			return v
		}
	}
	return nil
}

// normalizeDividendYield fixes the unit of the dividend yield reading.
// A value in the open interval (0, 1) is a fraction reported where a
// percentage belongs and is scaled by 100; everything else passes
// through unscaled. 0 and 1 themselves are taken at face value. The
// result is rounded to 4 decimal places.
func normalizeDividendYield(raw any) *float64 {
	v := numericValue(raw)
	if v == nil {
		return nil
	}
	y := *v
	if y > 0 && y < 1 {
		y *= 100
	}
	y = round4(y)
	return &y
}

// numericValue coerces a decoded JSON value to a float. Numbers pass
// through and numeric strings are parsed; booleans, nulls, and anything
// else yield nil. NaN and infinities also yield nil since they cannot
// be encoded back out as JSON.
func numericValue(raw any) *float64 {
	var f float64
	switch v := raw.(type) {
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int:
		f = float64(v)
	case int64:
		f = float64(v)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil
		}
		f = parsed
	default:
		return nil
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// round4 rounds to 4 decimal places.
func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
