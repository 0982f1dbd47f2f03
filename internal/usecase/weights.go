package usecase

import "adsignal/internal/domain"

// Channel is a buying channel inferred from the aggregation
type Channel string

const (
	ChannelSearch            Channel = "Search"
	ChannelDisplay           Channel = "Display"
	ChannelProgrammaticVideo Channel = "Programmatic Video"
	ChannelYouTube           Channel = "YouTube"
	ChannelCTV               Channel = "CTV"
)

// ScoringConfig holds every tunable weight of the scoring engine. The
// defaults are part of the contract; tests may substitute alternates.
type ScoringConfig struct {
	FormatWeights     map[domain.AdFormat]float64
	PlatformModifiers map[string]float64
	VerticalPressure  map[string]float64
	ChannelWeights    map[Channel]float64

	// Spend-tier step thresholds, ascending: $ below the first,
	// then $$, $$$, $$$$ at or above the last.
	ChannelTierThresholds  [3]float64
	ActivityTierThresholds [3]float64

	DecayHalfLifeDays float64
	DecayFloor        float64
}

// DefaultScoringConfig returns the contractual weight tables
func DefaultScoringConfig() ScoringConfig {
	return ScoringConfig{
		FormatWeights: map[domain.AdFormat]float64{
			domain.FormatSearch:  1.0,
			domain.FormatDisplay: 1.2,
			domain.FormatVideo:   2.0,
			domain.FormatCTV:     3.0,
			domain.FormatOther:   1.0,
		},
		PlatformModifiers: map[string]float64{
			"google":   1.0,
			"youtube":  1.3,
			"meta":     1.2,
			"linkedin": 1.8,
			"tiktok":   1.4,
			"ctv":      2.2,
			"other":    1.0,
		},
		VerticalPressure: map[string]float64{
			"finance":        1.25,
			"saas":           1.20,
			"ecommerce":      1.10,
			"travel":         1.15,
			"local_services": 0.90,
			"nonprofit":      0.80,
			"other":          1.00,
		},
		ChannelWeights: map[Channel]float64{
			ChannelSearch:            0.5,
			ChannelDisplay:           0.6,
			ChannelProgrammaticVideo: 1.0,
			ChannelYouTube:           1.2,
			ChannelCTV:               1.6,
		},
		ChannelTierThresholds:  [3]float64{1.0, 2.2, 3.5},
		ActivityTierThresholds: [3]float64{10, 30, 80},
		DecayHalfLifeDays:      90,
		DecayFloor:             0.15,
	}
}
