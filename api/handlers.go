package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/finbrief/finbrief/internal/finnhub"
	"github.com/finbrief/finbrief/internal/market"
)

const (
	defaultLookbackHours = 48
	minLookbackHours     = 1
	maxLookbackHours     = 168
	maxNewsItems         = 3
)

// ============================================================
// Response types
// ============================================================

// ErrorResponse is the JSON body of every non-2xx reply.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse is the body of GET / and GET /health.
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Time    string `json:"time"`
}

// QuoteSnapshot is one ticker's row in the snapshot response. Pointer
// fields render as null when the upstream quote did not carry them.
type QuoteSnapshot struct {
	Ticker    string   `json:"ticker"`
	Price     *float64 `json:"price"`
	ChangePct *float64 `json:"change_pct"`
	Volume    *float64 `json:"volume"`
	RangeDay  *string  `json:"range_day"`
	Range52W  *string  `json:"range_52w"`
	MarketCap *float64 `json:"market_cap"`
	Beta      *float64 `json:"beta"`
	Notes     []string `json:"notes"`
}

// SnapshotResponse is the body of GET /get_market_snapshot.
type SnapshotResponse struct {
	AsOf    string          `json:"as_of"`
	Tickers []QuoteSnapshot `json:"tickers"`
}

// FundamentalsRecord is one ticker's row in the fundamentals response.
type FundamentalsRecord struct {
	Ticker       string   `json:"ticker"`
	PETTM        *float64 `json:"pe_ttm"`
	EPSTTM       *float64 `json:"eps_ttm"`
	DivYieldPct  *float64 `json:"div_yield_pct"`
	NextEarnings *string  `json:"next_earnings"`
}

// FundamentalsResponse is the body of GET /get_fundamentals.
type FundamentalsResponse struct {
	Tickers []FundamentalsRecord `json:"tickers"`
}

// NewsItem is one headline in a ticker's digest. Time is the upstream
// unix-seconds timestamp rendered as a decimal string.
type NewsItem struct {
	Headline *string `json:"headline"`
	Source   *string `json:"source"`
	Time     *string `json:"time"`
	URL      *string `json:"url"`
}

// NewsDigest groups the recent headlines for one ticker.
type NewsDigest struct {
	Ticker string     `json:"ticker"`
	Items  []NewsItem `json:"items"`
}

// NewsResponse is the body of GET /get_news_brief.
type NewsResponse struct {
	News []NewsDigest `json:"news"`
}

// ============================================================
// Handlers
// ============================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:  "ok",
		Service: ServiceName,
		Time:    time.Now().UTC().Format(time.RFC3339),
	})
}

// handleMarketSnapshot serves GET /get_market_snapshot?tickers=A,B.
// The interval parameter is accepted and unused.
func (s *Server) handleMarketSnapshot(w http.ResponseWriter, r *http.Request) {
	tickers := market.ParseTickers(r.URL.Query().Get("tickers"))
	if len(tickers) == 0 {
		writeError(w, http.StatusBadRequest, "tickers is required, e.g. ?tickers=AAPL,MSFT")
		return
	}

	resp := SnapshotResponse{
		AsOf:    time.Now().UTC().Format(time.RFC3339),
		Tickers: make([]QuoteSnapshot, 0, len(tickers)),
	}
	// One upstream call per ticker, in input order.
	for _, t := range tickers {
		q := s.fin.Quote(r.Context(), t)
		resp.Tickers = append(resp.Tickers, buildSnapshot(t, q))
	}

	writeJSON(w, http.StatusOK, resp)
}

// buildSnapshot reshapes a quote into a snapshot row. The 52-week
// range, market cap, and beta are not served by the quote endpoint and
// stay null.
func buildSnapshot(ticker string, q finnhub.Quote) QuoteSnapshot {
	snap := QuoteSnapshot{
		Ticker:    ticker,
		Price:     q.Current,
		ChangePct: q.ChangePct,
		Volume:    q.Volume,
		Notes:     []string{},
	}
	if q.Low != nil && q.High != nil {
		r := formatFloat(*q.Low) + "–" + formatFloat(*q.High)
		snap.RangeDay = &r
	}
	return snap
}

// handleFundamentals serves GET /get_fundamentals?tickers=A,B.
func (s *Server) handleFundamentals(w http.ResponseWriter, r *http.Request) {
	tickers := market.ParseTickers(r.URL.Query().Get("tickers"))
	if len(tickers) == 0 {
		writeError(w, http.StatusBadRequest, "tickers is required, e.g. ?tickers=AAPL,MSFT")
		return
	}

	today := time.Now().UTC()
	resp := FundamentalsResponse{Tickers: make([]FundamentalsRecord, 0, len(tickers))}
	for _, t := range tickers {
		f := market.NormalizeMetrics(s.fin.Metrics(r.Context(), t))
		resp.Tickers = append(resp.Tickers, FundamentalsRecord{
			Ticker:       t,
			PETTM:        f.PETTM,
			EPSTTM:       f.EPSTTM,
			DivYieldPct:  f.DivYieldPct,
			NextEarnings: s.earnings.NextEarnings(r.Context(), t, today),
		})
	}

	writeJSON(w, http.StatusOK, resp)
}

// handleNewsBrief serves GET /get_news_brief?tickers=A,B&lookback_hours=48.
func (s *Server) handleNewsBrief(w http.ResponseWriter, r *http.Request) {
	tickers := market.ParseTickers(r.URL.Query().Get("tickers"))
	if len(tickers) == 0 {
		writeError(w, http.StatusBadRequest, "tickers is required, e.g. ?tickers=AAPL,MSFT")
		return
	}

	lookback := parseLookbackHours(r.URL.Query().Get("lookback_hours"))
	now := time.Now().UTC()
	from := now.Add(-time.Duration(lookback) * time.Hour).Format("2006-01-02")
	to := now.Format("2006-01-02")

	resp := NewsResponse{News: make([]NewsDigest, 0, len(tickers))}
	for _, t := range tickers {
		articles := s.fin.CompanyNews(r.Context(), t, from, to)
		resp.News = append(resp.News, buildNewsDigest(t, articles))
	}

	writeJSON(w, http.StatusOK, resp)
}

// parseLookbackHours interprets the lookback_hours parameter: empty or
// non-numeric values fall back to the default, everything else is
// clamped into [minLookbackHours, maxLookbackHours].
func parseLookbackHours(raw string) int {
	hours := defaultLookbackHours
	if raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			hours = parsed
		}
	}
	if hours < minLookbackHours {
		hours = minLookbackHours
	}
	if hours > maxLookbackHours {
		hours = maxLookbackHours
	}
	return hours
}

// buildNewsDigest keeps the first maxNewsItems articles in upstream
// order, newest first.
func buildNewsDigest(ticker string, articles []finnhub.NewsArticle) NewsDigest {
	digest := NewsDigest{Ticker: ticker, Items: []NewsItem{}}
	for _, a := range articles {
		if len(digest.Items) == maxNewsItems {
			break
		}
		item := NewsItem{
			Headline: a.Headline,
			Source:   a.Source,
			URL:      a.URL,
		}
		if a.Datetime != nil {
			ts := strconv.FormatInt(*a.Datetime, 10)
			item.Time = &ts
		}
		digest.Items = append(digest.Items, item)
	}
	return digest
}

// formatFloat renders a price without trailing zeros.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
