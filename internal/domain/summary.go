package domain

// Advertiser status values
const (
	StatusActive             = "Active"
	StatusInactive           = "Inactive"
	StatusInactiveHistorical = "Inactive (Historical Buyer)"
)

// Graded signal levels shared by several summary fields
const (
	LevelLow      = "Low"
	LevelModerate = "Moderate"
	LevelMedium   = "Medium"
	LevelHigh     = "High"
)

// Strategy orientation values
const (
	StrategyPerformance = "Performance-driven"
	StrategyBrand       = "Brand-led"
	StrategyMixed       = "Mixed"
)

// Campaign continuity values
const (
	ContinuityLongRunning = "Long-running"
	ContinuityShortTerm   = "Short-term"
)

// Sales signal strength values
const (
	SignalWeak     = "Weak"
	SignalModerate = "Moderate"
	SignalStrong   = "Strong"
)

// AdvertiserScaleStub is returned until identity resolution exists
const AdvertiserScaleStub = "Local / Single-market / Simple"

// AdsSummary is the seller-facing record consumed by the widget. Every
// enumerated field is a total function of the analysis plus configured
// weights; the assembler never reaches back to the network.
type AdsSummary struct {
	Domain string `json:"domain"`
	Status string `json:"status"`

	SpendTier            string   `json:"spend_tier"`
	WeightedChannelScore float64  `json:"weighted_channel_score"`
	StackMultiplier      float64  `json:"stack_multiplier"`
	ActivityScore        float64  `json:"activity_score"`
	Channels             []string `json:"channels"`

	ConfidenceLevel      string `json:"confidence_level"`
	SalesSignalStrength  string `json:"sales_signal_strength"`
	Intensity            string `json:"intensity"`
	StrategyOrientation  string `json:"strategy_orientation"`
	CampaignContinuity   string `json:"campaign_continuity"`
	FormatSophistication string `json:"format_sophistication"`
	AlwaysOnPresence     string `json:"always_on_presence"`
	CreativeRotation     string `json:"creative_rotation"`
	BurstActivity        string `json:"burst_activity_detected"`
	AdvertiserScale      string `json:"advertiser_scale"`

	Totals    Totals            `json:"totals"`
	ByFormat  map[AdFormat]int  `json:"by_format"`
	BySurface map[AdSurface]int `json:"by_surface"`
	Timeline  Timeline          `json:"timeline"`

	SalesInterpretation []string `json:"sales_interpretation"`
	GeneratedAt         string   `json:"generated_at"`

	Partial  bool     `json:"partial,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}
