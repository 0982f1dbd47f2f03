package domain

// TimeWindow is the trailing analysis window applied by the aggregator.
// Constant per deployment.
type TimeWindow struct {
	Days   int    `json:"days"`
	Region string `json:"region"`
	Source string `json:"source"`
}

// Preset names accepted by the upstream API
const (
	PeriodToday      = "today"
	PeriodYesterday  = "yesterday"
	PeriodLast7Days  = "last_7_days"
	PeriodLast30Days = "last_30_days"
)

// TimePeriod is either a preset or an inclusive ISO date range.
// Exactly one of the two representations is populated.
type TimePeriod struct {
	Preset string `json:"preset,omitempty"`
	From   string `json:"from,omitempty"`
	To     string `json:"to,omitempty"`
}

// IsRange reports whether the period is a date range
func (p TimePeriod) IsRange() bool {
	return p.Preset == ""
}

// QueryValue renders the period as the upstream time_period parameter
func (p TimePeriod) QueryValue() string {
	if p.Preset != "" {
		return p.Preset
	}
	return p.From + ".." + p.To
}
