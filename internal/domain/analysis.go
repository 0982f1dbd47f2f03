package domain

// Totals holds the aggregate counters of an analysis
type Totals struct {
	Ads int `json:"ads"`
}

// Timeline carries the extremes of the analysis window. All fields are
// nil when the analysis holds no ads.
type Timeline struct {
	FirstSeen       *string `json:"first_seen"`
	LastSeen        *string `json:"last_seen"`
	AdLifespanDays  *int    `json:"ad_lifespan_days"`
	LastSeenDaysAgo *int    `json:"last_seen_days_ago"`
}

// AdsAnalysis is the windowed aggregation of normalized signals for one
// domain. ByFormat and BySurface are dense: every enumerated key is
// always present, and each map sums to Totals.Ads.
type AdsAnalysis struct {
	Domain          string               `json:"domain"`
	Totals          Totals               `json:"totals"`
	ByFormat        map[AdFormat]int     `json:"by_format"`
	BySurface       map[AdSurface]int    `json:"by_surface"`
	ByFormatSurface map[string]int       `json:"by_format_surface"`
	Ads             []NormalizedAdSignal `json:"ads"`
	Timeline        Timeline             `json:"timeline"`
}
