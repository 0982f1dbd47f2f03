package usecase

import (
	"testing"

	"adsignal/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeightedChannelScoreFullVideoStack(t *testing.T) {
	cfg := DefaultScoringConfig()
	channels := []Channel{ChannelSearch, ChannelProgrammaticVideo, ChannelYouTube, ChannelCTV}

	// 0.5 + 1.0 + 1.2 + 1.6 = 4.3, x1.6 stack multiplier
	score := WeightedChannelScore(channels, cfg)
	assert.Equal(t, 6.88, score)
	assert.Equal(t, "$$$$", SpendTierFromChannelScore(score, cfg))
}

func TestStackMultiplier(t *testing.T) {
	tests := []struct {
		name     string
		channels []Channel
		want     float64
	}{
		{"empty", nil, 1.0},
		{"single channel", []Channel{ChannelSearch}, 1.0},
		{"search plus display", []Channel{ChannelSearch, ChannelDisplay}, 1.0},
		{"youtube plus programmatic video", []Channel{ChannelYouTube, ChannelProgrammaticVideo}, 1.25},
		{"ctv plus youtube", []Channel{ChannelCTV, ChannelYouTube}, 1.4},
		{"ctv plus programmatic video", []Channel{ChannelCTV, ChannelProgrammaticVideo}, 1.4},
		{"ctv alone", []Channel{ChannelCTV}, 1.0},
		{"full video stack", []Channel{ChannelCTV, ChannelYouTube, ChannelProgrammaticVideo}, 1.6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StackMultiplier(tt.channels))
		})
	}
}

func TestSpendTierThresholds(t *testing.T) {
	cfg := DefaultScoringConfig()

	assert.Equal(t, "$", SpendTierFromChannelScore(0, cfg))
	assert.Equal(t, "$", SpendTierFromChannelScore(0.99, cfg))
	assert.Equal(t, "$$", SpendTierFromChannelScore(1.0, cfg))
	assert.Equal(t, "$$", SpendTierFromChannelScore(2.19, cfg))
	assert.Equal(t, "$$$", SpendTierFromChannelScore(2.2, cfg))
	assert.Equal(t, "$$$", SpendTierFromChannelScore(3.49, cfg))
	assert.Equal(t, "$$$$", SpendTierFromChannelScore(3.5, cfg))

	assert.Equal(t, "$", SpendTierFromActivityScore(9.9, cfg))
	assert.Equal(t, "$$", SpendTierFromActivityScore(10, cfg))
	assert.Equal(t, "$$$", SpendTierFromActivityScore(30, cfg))
	assert.Equal(t, "$$$$", SpendTierFromActivityScore(80, cfg))
}

func TestDecayWeight(t *testing.T) {
	cfg := DefaultScoringConfig()

	assert.Equal(t, 1.0, DecayWeight(0, cfg))
	assert.Equal(t, 1.0, DecayWeight(-3, cfg))
	assert.InDelta(t, 0.5, DecayWeight(90, cfg), 1e-9)
	assert.InDelta(t, 0.25, DecayWeight(180, cfg), 1e-9)

	// decay never drops below the floor
	assert.Equal(t, 0.15, DecayWeight(10000, cfg))

	// monotone non-increasing
	prev := DecayWeight(0, cfg)
	for d := 10.0; d <= 1000; d += 10 {
		w := DecayWeight(d, cfg)
		assert.LessOrEqual(t, w, prev)
		prev = w
	}
}

func TestActivityScore(t *testing.T) {
	cfg := DefaultScoringConfig()

	rows := []ActivityRow{
		{Format: domain.FormatSearch, Platform: "google", Count: 4, AgeDays: 0},
		{Format: domain.FormatVideo, Platform: "youtube", Count: 2, AgeDays: 0},
	}

	// 4*1.0*1.0 + 2*2.0*1.3 = 9.2, vertical pressure 1.0
	assert.Equal(t, 9.2, ActivityScore(rows, "other", cfg))

	// finance pressure 1.25 scales the whole sum
	assert.Equal(t, 11.5, ActivityScore(rows, "finance", cfg))

	// unknown platform falls back to the "other" modifier
	unknown := []ActivityRow{{Format: domain.FormatSearch, Platform: "mystery", Count: 1, AgeDays: 0}}
	assert.Equal(t, 1.0, ActivityScore(unknown, "other", cfg))
}

func TestInferChannels(t *testing.T) {
	analysis := &domain.AdsAnalysis{
		ByFormat: map[domain.AdFormat]int{
			domain.FormatSearch:  3,
			domain.FormatDisplay: 1,
			domain.FormatVideo:   2,
		},
		BySurface: map[domain.AdSurface]int{
			domain.SurfaceProgrammaticVideo: 1,
			domain.SurfaceYouTube:           1,
			domain.SurfaceConnectedTV:       1,
		},
	}

	channels := InferChannels(analysis)
	require.Equal(t, []Channel{
		ChannelSearch,
		ChannelDisplay,
		ChannelProgrammaticVideo,
		ChannelYouTube,
		ChannelCTV,
	}, channels)

	assert.Empty(t, InferChannels(&domain.AdsAnalysis{
		ByFormat:  map[domain.AdFormat]int{},
		BySurface: map[domain.AdSurface]int{},
	}))
}

func TestConfidenceFromSize(t *testing.T) {
	assert.Equal(t, domain.LevelMedium, ConfidenceFromSize("$", SizeSMB))
	assert.Equal(t, domain.LevelHigh, ConfidenceFromSize("$$", SizeSMB))
	assert.Equal(t, domain.LevelMedium, ConfidenceFromSize("$$$", SizeSMB))
	assert.Equal(t, domain.LevelLow, ConfidenceFromSize("$$$$", SizeSMB))

	assert.Equal(t, domain.LevelLow, ConfidenceFromSize("$", SizeEnterprise))
	assert.Equal(t, domain.LevelHigh, ConfidenceFromSize("$$$", SizeEnterprise))
	assert.Equal(t, domain.LevelMedium, ConfidenceFromSize("$$$$", SizeEnterprise))
}

func TestAdvertiserStatus(t *testing.T) {
	fresh := 3
	stale := 45

	assert.Equal(t, domain.StatusInactive, AdvertiserStatus(0, nil))
	assert.Equal(t, domain.StatusActive, AdvertiserStatus(5, &fresh))
	assert.Equal(t, domain.StatusInactiveHistorical, AdvertiserStatus(5, &stale))
	assert.Equal(t, domain.StatusActive, AdvertiserStatus(5, nil))
}

func TestVolumeGrades(t *testing.T) {
	assert.Equal(t, domain.LevelLow, IntensityLevel(4))
	assert.Equal(t, domain.LevelModerate, IntensityLevel(5))
	assert.Equal(t, domain.LevelModerate, IntensityLevel(19))
	assert.Equal(t, domain.LevelHigh, IntensityLevel(20))

	assert.Equal(t, domain.LevelLow, ConfidenceFromVolume(4))
	assert.Equal(t, domain.LevelMedium, ConfidenceFromVolume(5))
	assert.Equal(t, domain.LevelHigh, ConfidenceFromVolume(20))

	assert.Equal(t, domain.SignalWeak, SalesSignalStrength(4))
	assert.Equal(t, domain.SignalModerate, SalesSignalStrength(5))
	assert.Equal(t, domain.SignalStrong, SalesSignalStrength(20))
}

func TestStrategyOrientation(t *testing.T) {
	searchHeavy := map[domain.AdFormat]int{domain.FormatSearch: 6, domain.FormatDisplay: 4}
	brandHeavy := map[domain.AdFormat]int{domain.FormatSearch: 2, domain.FormatDisplay: 4, domain.FormatVideo: 4}
	mixed := map[domain.AdFormat]int{domain.FormatSearch: 5, domain.FormatDisplay: 5}

	assert.Equal(t, domain.StrategyPerformance, StrategyOrientation(searchHeavy, 10))
	assert.Equal(t, domain.StrategyBrand, StrategyOrientation(brandHeavy, 10))
	assert.Equal(t, domain.StrategyMixed, StrategyOrientation(mixed, 10))
	assert.Equal(t, domain.StrategyMixed, StrategyOrientation(nil, 0))
}

func TestContinuityAndPresenceTags(t *testing.T) {
	long := 90
	short := 89
	alwaysOn := 180

	assert.Equal(t, domain.ContinuityLongRunning, CampaignContinuity(&long))
	assert.Equal(t, domain.ContinuityShortTerm, CampaignContinuity(&short))
	assert.Equal(t, domain.ContinuityShortTerm, CampaignContinuity(nil))

	assert.Equal(t, "Yes", AlwaysOnPresence(domain.StatusActive, &alwaysOn))
	assert.Equal(t, "No", AlwaysOnPresence(domain.StatusInactiveHistorical, &alwaysOn))
	assert.Equal(t, "No", AlwaysOnPresence(domain.StatusActive, &long))
	assert.Equal(t, "No", AlwaysOnPresence(domain.StatusActive, nil))
}

func TestFormatSophistication(t *testing.T) {
	assert.Equal(t, domain.LevelLow, FormatSophistication(map[domain.AdFormat]int{}))
	assert.Equal(t, domain.LevelLow, FormatSophistication(map[domain.AdFormat]int{domain.FormatSearch: 9}))
	assert.Equal(t, domain.LevelModerate, FormatSophistication(map[domain.AdFormat]int{
		domain.FormatSearch: 1, domain.FormatDisplay: 1,
	}))
	assert.Equal(t, domain.LevelHigh, FormatSophistication(map[domain.AdFormat]int{
		domain.FormatSearch: 1, domain.FormatDisplay: 1, domain.FormatVideo: 1,
	}))
}

func TestCreativeRotation(t *testing.T) {
	assert.Equal(t, domain.LevelLow, CreativeRotation(nil))

	fast := []domain.NormalizedAdSignal{
		sig(domain.FormatSearch, domain.SurfaceSearchNetwork, "2024-06-01", "2024-06-08"),
		sig(domain.FormatSearch, domain.SurfaceSearchNetwork, "2024-06-01", "2024-06-15"),
	}
	assert.Equal(t, domain.LevelHigh, CreativeRotation(fast))

	slow := []domain.NormalizedAdSignal{
		sig(domain.FormatSearch, domain.SurfaceSearchNetwork, "2024-01-01", "2024-06-01"),
	}
	assert.Equal(t, domain.LevelLow, CreativeRotation(slow))
}

func TestBurstActivity(t *testing.T) {
	recent := 3
	stale := 20
	short := 14
	long := 60

	assert.Equal(t, "Yes", BurstActivity(&recent, &short, 5))
	assert.Equal(t, "No", BurstActivity(&recent, &short, 4))
	assert.Equal(t, "No", BurstActivity(&stale, &short, 10))
	assert.Equal(t, "No", BurstActivity(&recent, &long, 10))
	assert.Equal(t, "No", BurstActivity(nil, &short, 10))
}
