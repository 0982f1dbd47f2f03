package usecase

import (
	"context"
	"sync"
	"time"

	"adsignal/internal/domain"
	"adsignal/pkg/config"
	"adsignal/pkg/logger"
	"adsignal/pkg/metrics"
)

// snapshotFormats are fetched concurrently for every snapshot
var snapshotFormats = []string{
	domain.VendorFormatText,
	domain.VendorFormatImage,
	domain.VendorFormatVideo,
}

const snapshotFetchNum = 100

// SnapshotService runs the full pipeline behind domain_ads_summary
type SnapshotService struct {
	api      domain.TransparencyAPI
	logger   *logger.Logger
	metrics  *metrics.Metrics
	scoring  ScoringConfig
	window   domain.TimeWindow
	lookback int
	vertical string
	now      func() time.Time
}

// NewSnapshotService creates a snapshot service with the default weights
func NewSnapshotService(
	api domain.TransparencyAPI,
	logger *logger.Logger,
	metrics *metrics.Metrics,
	cfg config.AnalysisConfig,
) *SnapshotService {
	return &SnapshotService{
		api:     api,
		logger:  logger,
		metrics: metrics,
		scoring: DefaultScoringConfig(),
		window: domain.TimeWindow{
			Days:   cfg.WindowDays,
			Region: cfg.Region,
			Source: "ads_transparency",
		},
		lookback: cfg.SnapshotLookback,
		vertical: cfg.Vertical,
		now:      time.Now,
	}
}

// DomainAdsSummary fetches all three ad formats concurrently, normalizes
// and aggregates the creatives, and assembles the seller summary. A
// partial result is returned when some but not all fetches fail.
// rawPeriod overrides the default trailing lookback; unknown expressions
// fall back to quarter-to-date.
func (s *SnapshotService) DomainAdsSummary(ctx context.Context, rawDomain, vertical, rawPeriod string) (*domain.AdsSummary, error) {
	apex, err := NormalizeDomain(rawDomain)
	if err != nil {
		return nil, err
	}
	if vertical == "" {
		vertical = s.vertical
	}

	log := s.logger.WithContext(ctx)
	now := s.now()
	period := TrailingDays(s.lookback, now)
	if rawPeriod != "" {
		period = NormalizePeriod(rawPeriod, now)
	}

	payloads := make([]*domain.CreativesPayload, len(snapshotFormats))
	errs := make([]error, len(snapshotFormats))

	// One fetch per format; a failed format never cancels its siblings
	var wg sync.WaitGroup
	for i, format := range snapshotFormats {
		wg.Add(1)
		go func(i int, format string) {
			defer wg.Done()
			payloads[i], errs[i] = s.api.FetchCreatives(ctx, domain.AdQuery{
				Domain: apex,
				Format: format,
				Period: period,
				Num:    snapshotFetchNum,
				Region: s.window.Region,
			})
			if errs[i] != nil {
				log.WithError(errs[i]).WithField("ad_format", format).Error("Failed to fetch creatives")
			}
		}(i, format)
	}
	wg.Wait()

	var signals []domain.NormalizedAdSignal
	failed := 0
	var lastErr error
	for i := range snapshotFormats {
		if errs[i] != nil {
			failed++
			lastErr = errs[i]
			continue
		}
		formatSignals := NormalizeCreatives(payloads[i], ModeSnapshot)
		s.metrics.RecordSignalNormalized(snapshotFormats[i], len(formatSignals))
		for j := 0; j < len(payloads[i].AdCreatives)-len(formatSignals); j++ {
			s.metrics.RecordSignalDropped("unparseable")
		}
		signals = append(signals, formatSignals...)
	}
	if failed == len(snapshotFormats) {
		s.metrics.RecordSummaryBuilt("failed")
		return nil, lastErr
	}

	analysis := Aggregate(apex, signals, s.window.Days, now)
	summary := BuildSummary(analysis, s.scoring, vertical, now)
	if failed > 0 {
		summary.Partial = true
		summary.Warnings = append(summary.Warnings, domain.WarnPartialSnapshot)
	}

	s.metrics.RecordSummaryBuilt(summary.Status)

	log.WithFields(map[string]any{
		"domain":     apex,
		"total_ads":  analysis.Totals.Ads,
		"status":     summary.Status,
		"spend_tier": summary.SpendTier,
		"partial":    summary.Partial,
	}).Info("Assembled ads summary")

	return summary, nil
}
