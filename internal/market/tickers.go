package market

import "strings"

// ParseTickers splits a raw comma-separated ticker list into normalized
// symbols: whitespace trimmed, empties dropped, uppercased. Order and
// duplicates are preserved. An empty result means the input held no
// usable symbol.
func ParseTickers(raw string) []string {
	parts := strings.Split(raw, ",")
	tickers := make([]string, 0, len(parts))
	for _, p := range parts {
		t := strings.TrimSpace(p)
		if t == "" {
			continue
		}
		tickers = append(tickers, strings.ToUpper(t))
	}
	return tickers
}
