package usecase

import (
	"fmt"
	"time"

	"adsignal/internal/domain"
)

// surfacePlatforms maps each surface onto the platform modifier key used
// by the activity score
var surfacePlatforms = map[domain.AdSurface]string{
	domain.SurfaceSearchNetwork:       "google",
	domain.SurfaceProgrammaticDisplay: "google",
	domain.SurfaceProgrammaticVideo:   "google",
	domain.SurfaceYouTube:             "youtube",
	domain.SurfaceConnectedTV:         "ctv",
	domain.SurfaceSocialFeed:          "meta",
	domain.SurfaceOther:               "other",
}

// BuildSummary assembles the seller-facing summary from an analysis and
// the configured weights. Pure; never calls back into the network.
func BuildSummary(analysis *domain.AdsAnalysis, cfg ScoringConfig, vertical string, now time.Time) *domain.AdsSummary {
	channels := InferChannels(analysis)
	multiplier := StackMultiplier(channels)
	channelScore := WeightedChannelScore(channels, cfg)
	activityScore := ActivityScore(activityRows(analysis, now), vertical, cfg)

	totalAds := analysis.Totals.Ads
	timeline := analysis.Timeline
	status := AdvertiserStatus(totalAds, timeline.LastSeenDaysAgo)

	summary := &domain.AdsSummary{
		Domain: analysis.Domain,
		Status: status,

		SpendTier:            SpendTierFromChannelScore(channelScore, cfg),
		WeightedChannelScore: channelScore,
		StackMultiplier:      multiplier,
		ActivityScore:        activityScore,
		Channels:             channelNames(channels),

		ConfidenceLevel:      ConfidenceFromVolume(totalAds),
		SalesSignalStrength:  SalesSignalStrength(totalAds),
		Intensity:            IntensityLevel(totalAds),
		StrategyOrientation:  StrategyOrientation(analysis.ByFormat, totalAds),
		CampaignContinuity:   CampaignContinuity(timeline.AdLifespanDays),
		FormatSophistication: FormatSophistication(analysis.ByFormat),
		AlwaysOnPresence:     AlwaysOnPresence(status, timeline.AdLifespanDays),
		CreativeRotation:     CreativeRotation(analysis.Ads),
		BurstActivity:        BurstActivity(timeline.LastSeenDaysAgo, timeline.AdLifespanDays, totalAds),
		AdvertiserScale:      domain.AdvertiserScaleStub,

		Totals:    analysis.Totals,
		ByFormat:  analysis.ByFormat,
		BySurface: analysis.BySurface,
		Timeline:  timeline,

		GeneratedAt: now.UTC().Format(time.RFC3339),
	}
	summary.SalesInterpretation = salesInterpretation(summary)

	return summary
}

func activityRows(analysis *domain.AdsAnalysis, now time.Time) []ActivityRow {
	rows := make([]ActivityRow, 0, len(analysis.Ads))
	for _, ad := range analysis.Ads {
		lastSeen, err := time.Parse(time.RFC3339, ad.LastSeen)
		if err != nil {
			continue
		}
		rows = append(rows, ActivityRow{
			Format:   ad.Format,
			Platform: surfacePlatforms[ad.Surface],
			Count:    1,
			AgeDays:  WholeDaysBetween(lastSeen, now),
		})
	}
	return rows
}

func channelNames(channels []Channel) []string {
	names := make([]string, len(channels))
	for i, ch := range channels {
		names[i] = string(ch)
	}
	return names
}

// salesInterpretation renders the fixed seller-facing reading of the
// summary, one sentence per populated signal, in stable order.
func salesInterpretation(s *domain.AdsSummary) []string {
	var lines []string

	switch s.Status {
	case domain.StatusActive:
		lines = append(lines, fmt.Sprintf("%s is actively running ads across %d channel(s).", s.Domain, len(s.Channels)))
	case domain.StatusInactiveHistorical:
		lines = append(lines, fmt.Sprintf("%s ran ads previously but has gone quiet for more than 30 days.", s.Domain))
	default:
		lines = append(lines, fmt.Sprintf("%s shows no ad activity in the analysis window.", s.Domain))
	}

	if s.Totals.Ads > 0 {
		lines = append(lines, fmt.Sprintf("Estimated investment tier is %s based on the channel mix.", s.SpendTier))

		switch s.StrategyOrientation {
		case domain.StrategyPerformance:
			lines = append(lines, "Buying is concentrated in search, pointing to a performance-driven strategy.")
		case domain.StrategyBrand:
			lines = append(lines, "Budget skews to display and video, pointing to a brand-led strategy.")
		default:
			lines = append(lines, "Spend is spread across performance and brand formats.")
		}

		if s.CampaignContinuity == domain.ContinuityLongRunning {
			lines = append(lines, "Campaigns have run for 90 or more days, suggesting a committed budget.")
		}
		if s.AlwaysOnPresence == "Yes" {
			lines = append(lines, "Presence is always-on: active today with a 180+ day history.")
		}
		if s.CreativeRotation == domain.LevelHigh {
			lines = append(lines, "Creatives rotate quickly, suggesting active testing and optimization.")
		}
		if s.BurstActivity == "Yes" {
			lines = append(lines, "A recent burst of fresh creatives suggests a campaign launch in flight.")
		}
	}

	return lines
}
