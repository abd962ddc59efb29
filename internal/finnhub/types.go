package finnhub

// Quote is the /quote response. Every field may be absent upstream, so
// numeric fields are pointers; nil means the provider did not report it.
type Quote struct {
	Current   *float64 `json:"c"`
	Change    *float64 `json:"d"`
	ChangePct *float64 `json:"dp"`
	High      *float64 `json:"h"`
	Low       *float64 `json:"l"`
	Open      *float64 `json:"o"`
	PrevClose *float64 `json:"pc"`
	Volume    *float64 `json:"v"`
	Timestamp int64    `json:"t"`
}

// EarningsEntry is one row of the /calendar/earnings response.
type EarningsEntry struct {
	Date            string   `json:"date"`
	Symbol          string   `json:"symbol"`
	EPSActual       *float64 `json:"epsActual"`
	EPSEstimate     *float64 `json:"epsEstimate"`
	Hour            string   `json:"hour"`
	Quarter         int      `json:"quarter"`
	RevenueActual   *float64 `json:"revenueActual"`
	RevenueEstimate *float64 `json:"revenueEstimate"`
	Year            int      `json:"year"`
}

// NewsArticle is one row of the /company-news response.
type NewsArticle struct {
	Category string  `json:"category"`
	Datetime *int64  `json:"datetime"` // unix seconds
	Headline *string `json:"headline"`
	ID       int64   `json:"id"`
	Image    string  `json:"image"`
	Related  string  `json:"related"`
	Source   *string `json:"source"`
	Summary  string  `json:"summary"`
	URL      *string `json:"url"`
}

// metricResponse is the /stock/metric envelope. The metric object holds
// over a hundred loosely-typed fields, so it stays a raw map and the
// callers pick out what they need. The series block is not used.
type metricResponse struct {
	Metric map[string]any `json:"metric"`
}

// earningsResponse is the /calendar/earnings envelope.
type earningsResponse struct {
	EarningsCalendar []EarningsEntry `json:"earningsCalendar"`
}
