package usecase

import (
	"math"
	"strings"
	"time"

	"adsignal/internal/domain"
)

// Spend tier symbols, ascending
var spendTiers = []string{"$", "$$", "$$$", "$$$$"}

// ActivityRow is one input row of the weighted activity score
type ActivityRow struct {
	Format   domain.AdFormat
	Platform string
	Count    int
	AgeDays  int
}

// ActivityScore computes the weighted activity score over rows:
// count x format weight x platform modifier x vertical pressure,
// with each row decayed by the age of its most recent sighting.
func ActivityScore(rows []ActivityRow, vertical string, cfg ScoringConfig) float64 {
	pressure := lookupWeight(cfg.VerticalPressure, strings.ToLower(vertical), 1.0)

	var score float64
	for _, row := range rows {
		formatWeight, ok := cfg.FormatWeights[row.Format]
		if !ok {
			formatWeight = 1.0
		}
		modifier := lookupWeight(cfg.PlatformModifiers, strings.ToLower(row.Platform), 1.0)
		score += float64(row.Count) * formatWeight * modifier * pressure * DecayWeight(float64(row.AgeDays), cfg)
	}
	return round2(score)
}

// DecayWeight returns the time-decay weight for a signal d days old:
// 1 at d <= 0, halving every half-life, never below the floor.
func DecayWeight(days float64, cfg ScoringConfig) float64 {
	if days <= 0 {
		return 1
	}
	w := math.Pow(0.5, days/cfg.DecayHalfLifeDays)
	return math.Max(cfg.DecayFloor, w)
}

// InferChannels derives the channel set from format and surface
// presence, in stable order.
func InferChannels(analysis *domain.AdsAnalysis) []Channel {
	var channels []Channel
	if analysis.ByFormat[domain.FormatSearch] > 0 {
		channels = append(channels, ChannelSearch)
	}
	if analysis.ByFormat[domain.FormatDisplay] > 0 {
		channels = append(channels, ChannelDisplay)
	}
	if analysis.BySurface[domain.SurfaceProgrammaticVideo] > 0 {
		channels = append(channels, ChannelProgrammaticVideo)
	}
	if analysis.BySurface[domain.SurfaceYouTube] > 0 {
		channels = append(channels, ChannelYouTube)
	}
	if analysis.ByFormat[domain.FormatCTV] > 0 || analysis.BySurface[domain.SurfaceConnectedTV] > 0 {
		channels = append(channels, ChannelCTV)
	}
	return channels
}

// StackMultiplier rewards multi-channel video stacks
func StackMultiplier(channels []Channel) float64 {
	has := make(map[Channel]bool, len(channels))
	for _, ch := range channels {
		has[ch] = true
	}
	switch {
	case has[ChannelCTV] && has[ChannelYouTube] && has[ChannelProgrammaticVideo]:
		return 1.6
	case has[ChannelCTV] && (has[ChannelYouTube] || has[ChannelProgrammaticVideo]):
		return 1.4
	case has[ChannelYouTube] && has[ChannelProgrammaticVideo]:
		return 1.25
	default:
		return 1.0
	}
}

// WeightedChannelScore sums the base channel weights and applies the
// stack multiplier, rounded to 2 decimals.
func WeightedChannelScore(channels []Channel, cfg ScoringConfig) float64 {
	var sum float64
	for _, ch := range channels {
		sum += cfg.ChannelWeights[ch]
	}
	return round2(sum * StackMultiplier(channels))
}

// SpendTierFromChannelScore maps a weighted channel score to a symbolic tier
func SpendTierFromChannelScore(score float64, cfg ScoringConfig) string {
	return tierFromThresholds(score, cfg.ChannelTierThresholds)
}

// SpendTierFromActivityScore is the alternative mapping for the
// non-channel path
func SpendTierFromActivityScore(score float64, cfg ScoringConfig) string {
	return tierFromThresholds(score, cfg.ActivityTierThresholds)
}

func tierFromThresholds(score float64, thresholds [3]float64) string {
	for i, threshold := range thresholds {
		if score < threshold {
			return spendTiers[i]
		}
	}
	return spendTiers[3]
}

// BusinessSize bounds the plausible spend tiers for a company size
type BusinessSize struct {
	Name    string
	MinTier string
	MaxTier string
}

var (
	SizeSMB        = BusinessSize{Name: "smb", MinTier: "$", MaxTier: "$$$"}
	SizeMidMarket  = BusinessSize{Name: "mid_market", MinTier: "$$", MaxTier: "$$$"}
	SizeEnterprise = BusinessSize{Name: "enterprise", MinTier: "$$", MaxTier: "$$$$"}
)

// ConfidenceFromSize grades a tier against the size's plausible range:
// outside the bounds is Low, on a bound is Medium, strictly inside is High.
func ConfidenceFromSize(tier string, size BusinessSize) string {
	rank := tierRank(tier)
	min, max := tierRank(size.MinTier), tierRank(size.MaxTier)
	switch {
	case rank < min || rank > max:
		return domain.LevelLow
	case rank == min || rank == max:
		return domain.LevelMedium
	default:
		return domain.LevelHigh
	}
}

func tierRank(tier string) int {
	for i, t := range spendTiers {
		if t == tier {
			return i + 1
		}
	}
	return 0
}

// AdvertiserStatus derives the status tag from volume and recency
func AdvertiserStatus(totalAds int, lastSeenDaysAgo *int) string {
	if totalAds == 0 {
		return domain.StatusInactive
	}
	if lastSeenDaysAgo != nil && *lastSeenDaysAgo > 30 {
		return domain.StatusInactiveHistorical
	}
	return domain.StatusActive
}

// IntensityLevel grades advertising intensity by creative volume
func IntensityLevel(totalAds int) string {
	switch {
	case totalAds < 5:
		return domain.LevelLow
	case totalAds < 20:
		return domain.LevelModerate
	default:
		return domain.LevelHigh
	}
}

// ConfidenceFromVolume grades summary confidence by creative volume
func ConfidenceFromVolume(totalAds int) string {
	switch {
	case totalAds < 5:
		return domain.LevelLow
	case totalAds < 20:
		return domain.LevelMedium
	default:
		return domain.LevelHigh
	}
}

// SalesSignalStrength grades the sales signal by creative volume
func SalesSignalStrength(totalAds int) string {
	switch {
	case totalAds < 5:
		return domain.SignalWeak
	case totalAds < 20:
		return domain.SignalModerate
	default:
		return domain.SignalStrong
	}
}

// StrategyOrientation classifies the format mix
func StrategyOrientation(byFormat map[domain.AdFormat]int, totalAds int) string {
	if totalAds == 0 {
		return domain.StrategyMixed
	}
	searchShare := float64(byFormat[domain.FormatSearch]) / float64(totalAds)
	brandShare := float64(byFormat[domain.FormatDisplay]+byFormat[domain.FormatVideo]) / float64(totalAds)
	switch {
	case searchShare >= 0.6:
		return domain.StrategyPerformance
	case brandShare >= 0.6:
		return domain.StrategyBrand
	default:
		return domain.StrategyMixed
	}
}

// CampaignContinuity classifies the overall timeline span
func CampaignContinuity(lifespanDays *int) string {
	if lifespanDays != nil && *lifespanDays >= 90 {
		return domain.ContinuityLongRunning
	}
	return domain.ContinuityShortTerm
}

// FormatSophistication counts the distinct formats in use
func FormatSophistication(byFormat map[domain.AdFormat]int) string {
	nonZero := 0
	for _, count := range byFormat {
		if count > 0 {
			nonZero++
		}
	}
	switch {
	case nonZero >= 3:
		return domain.LevelHigh
	case nonZero == 2:
		return domain.LevelModerate
	default:
		return domain.LevelLow
	}
}

// AlwaysOnPresence is Yes for active advertisers with a 180+ day span
func AlwaysOnPresence(status string, lifespanDays *int) string {
	if status == domain.StatusActive && lifespanDays != nil && *lifespanDays >= 180 {
		return "Yes"
	}
	return "No"
}

// CreativeRotation grades rotation speed by mean per-ad lifespan
func CreativeRotation(ads []domain.NormalizedAdSignal) string {
	if len(ads) == 0 {
		return domain.LevelLow
	}
	var total int
	for _, ad := range ads {
		first, err1 := time.Parse(time.RFC3339, ad.FirstSeen)
		last, err2 := time.Parse(time.RFC3339, ad.LastSeen)
		if err1 != nil || err2 != nil {
			continue
		}
		total += WholeDaysBetween(first, last)
	}
	average := float64(total) / float64(len(ads))
	switch {
	case average <= 14:
		return domain.LevelHigh
	case average <= 45:
		return domain.LevelModerate
	default:
		return domain.LevelLow
	}
}

// BurstActivity flags a fresh, short, dense burst of creatives
func BurstActivity(lastSeenDaysAgo, lifespanDays *int, totalAds int) string {
	if lastSeenDaysAgo != nil && *lastSeenDaysAgo <= 7 &&
		lifespanDays != nil && *lifespanDays <= 21 &&
		totalAds >= 5 {
		return "Yes"
	}
	return "No"
}

func lookupWeight(table map[string]float64, key string, fallback float64) float64 {
	if w, ok := table[key]; ok {
		return w
	}
	if w, ok := table["other"]; ok {
		return w
	}
	return fallback
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
