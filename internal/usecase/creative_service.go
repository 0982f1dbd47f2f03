package usecase

import (
	"context"
	"errors"
	"net/http"
	"time"

	"adsignal/internal/domain"
	"adsignal/pkg/config"
	"adsignal/pkg/logger"
	"adsignal/pkg/metrics"
)

const invalidQueryMessage = "Query did not resolve to a domain or an advertiser."

// CreativeService runs the single-creative enrichment behind the
// search/display/video creative tools. Each lookup walks
// Resolving -> Listing -> Detailing -> Transcribing, one upstream call
// per stage, collecting non-fatal warnings along the way.
type CreativeService struct {
	api      domain.TransparencyAPI
	logger   *logger.Logger
	metrics  *metrics.Metrics
	lookback int
	region   string
	now      func() time.Time
}

// NewCreativeService creates a creative lookup service
func NewCreativeService(
	api domain.TransparencyAPI,
	logger *logger.Logger,
	metrics *metrics.Metrics,
	cfg config.AnalysisConfig,
) *CreativeService {
	return &CreativeService{
		api:      api,
		logger:   logger,
		metrics:  metrics,
		lookback: cfg.CreativeLookback,
		region:   cfg.Region,
		now:      time.Now,
	}
}

// LookupCreative resolves the query, fetches the most recent creative of
// the requested vendor format, and enriches it with ad details and, for
// video, a YouTube transcript. rawPeriod overrides the default trailing
// lookback; unknown expressions fall back to quarter-to-date.
func (s *CreativeService) LookupCreative(ctx context.Context, query, vendorFormat, rawPeriod string) (*domain.CreativeResult, error) {
	log := s.logger.WithContext(ctx)
	result := &domain.CreativeResult{Query: query, Format: vendorFormat}

	now := s.now()
	period := TrailingDays(s.lookback, now)
	if rawPeriod != "" {
		period = NormalizePeriod(rawPeriod, now)
	}

	adQuery := domain.AdQuery{
		Format: vendorFormat,
		Period: period,
		Num:    10,
		Region: s.region,
	}

	// Resolving
	if err := s.resolve(ctx, query, &adQuery, result); err != nil {
		return nil, err
	}

	// Listing
	payload, err := s.listCreatives(ctx, adQuery, result)
	if err != nil {
		return nil, err
	}
	creative, found := mostRecentCreative(payload.AdCreatives)
	if !found {
		result.Warnings = append(result.Warnings, domain.WarnNoCreativesFound)
		return result, nil
	}
	result.Creative = &creative
	if signal, ok := NormalizeCreative(payload, creative, ModeSnapshot); ok {
		result.Signal = &signal
	}

	// Detailing
	if err := s.detail(ctx, creative, result); err != nil {
		return nil, err
	}

	// Transcribing (video only)
	if vendorFormat == domain.VendorFormatVideo {
		s.transcribe(ctx, creative, result)
	}

	log.WithFields(map[string]any{
		"query":     query,
		"ad_format": vendorFormat,
		"warnings":  result.Warnings,
	}).Info("Creative lookup completed")

	return result, nil
}

// resolve turns the free-text query into a domain or an advertiser id.
// A query that is not a valid domain goes through advertiser search.
func (s *CreativeService) resolve(ctx context.Context, query string, adQuery *domain.AdQuery, result *domain.CreativeResult) error {
	if apex, err := NormalizeDomain(query); err == nil {
		adQuery.Domain = apex
		result.ResolvedDomain = apex
		return nil
	}

	search, err := s.api.FetchAdvertiserSearch(ctx, query)
	if err != nil {
		return err
	}

	if len(search.Advertisers) > 0 {
		advertiser := search.Advertisers[0]
		result.Advertiser = advertiser.Name
		switch {
		case advertiser.AdvertiserID != "":
			adQuery.AdvertiserID = advertiser.AdvertiserID
			result.AdvertiserID = advertiser.AdvertiserID
		case advertiser.Domain != "":
			apex, err := NormalizeDomain(advertiser.Domain)
			if err != nil {
				return domain.NewValidationError(invalidQueryMessage)
			}
			adQuery.Domain = apex
			result.ResolvedDomain = apex
			result.Warnings = append(result.Warnings, domain.WarnMissingAdvertiserID)
		default:
			return domain.NewValidationError(invalidQueryMessage)
		}
		return nil
	}

	if len(search.Domains) > 0 {
		apex, err := NormalizeDomain(search.Domains[0].Domain)
		if err == nil {
			adQuery.Domain = apex
			result.ResolvedDomain = apex
			result.Warnings = append(result.Warnings, domain.WarnAdvertiserNotFound)
			return nil
		}
	}

	return domain.NewValidationError(invalidQueryMessage)
}

// listCreatives fetches the creative list, falling back from
// advertiser_id to advertiser name on a 4xx once, annotated by warning.
func (s *CreativeService) listCreatives(ctx context.Context, adQuery domain.AdQuery, result *domain.CreativeResult) (*domain.CreativesPayload, error) {
	payload, err := s.api.FetchCreatives(ctx, adQuery)
	if err == nil {
		return payload, nil
	}

	var upErr *domain.UpstreamError
	if adQuery.AdvertiserID != "" && result.Advertiser != "" &&
		errors.As(err, &upErr) && upErr.Kind == domain.UpstreamKindHTTP &&
		upErr.Status >= http.StatusBadRequest && upErr.Status < http.StatusInternalServerError {
		result.Warnings = append(result.Warnings, domain.WarnAdvertiserIDFallback)
		fallback := adQuery
		fallback.AdvertiserID = ""
		fallback.Advertiser = result.Advertiser
		return s.api.FetchCreatives(ctx, fallback)
	}

	return nil, err
}

// detail enriches the creative with its ad-details record when both
// identifiers are present
func (s *CreativeService) detail(ctx context.Context, creative domain.RawCreative, result *domain.CreativeResult) error {
	advertiserID := creative.AdvertiserID
	if advertiserID == "" {
		advertiserID = result.AdvertiserID
	}
	if advertiserID == "" {
		result.Warnings = append(result.Warnings, domain.WarnMissingAdvertiserID)
	}
	if creative.CreativeID == "" {
		result.Warnings = append(result.Warnings, domain.WarnMissingCreativeID)
	}
	if advertiserID == "" || creative.CreativeID == "" {
		return nil
	}

	details, err := s.api.FetchAdDetails(ctx, advertiserID, creative.CreativeID)
	if err != nil {
		return err
	}
	result.Details = details
	return nil
}

// transcribe extracts the YouTube id and fetches the transcript. Every
// failure mode here is a warning, never an error.
func (s *CreativeService) transcribe(ctx context.Context, creative domain.RawCreative, result *domain.CreativeResult) {
	videoID, ok := CreativeYouTubeID(creative)
	if !ok {
		videoID, ok = DetailsYouTubeID(result.Details)
	}
	if !ok {
		// The enrichment contract drops video creatives without a
		// reachable YouTube URL
		result.Creative = nil
		result.Signal = nil
		result.Warnings = append(result.Warnings, domain.WarnNoCreativesFound, domain.WarnTranscriptUnavailable)
		return
	}
	result.YouTubeVideoID = videoID

	transcript, err := s.api.FetchTranscript(ctx, videoID)
	if err != nil {
		var upErr *domain.UpstreamError
		if errors.As(err, &upErr) && upErr.Kind == domain.UpstreamKindTimeout {
			result.Warnings = append(result.Warnings, domain.WarnTranscriptTimeout)
		} else {
			result.Warnings = append(result.Warnings, domain.WarnTranscriptUnavailable)
		}
		return
	}
	if len(transcript.Transcripts) == 0 {
		result.Warnings = append(result.Warnings, domain.WarnTranscriptUnavailable)
		return
	}
	result.Transcript = transcript.Transcripts
}

// mostRecentCreative picks the creative with the latest parseable
// last_shown timestamp, falling back to the first record.
func mostRecentCreative(creatives []domain.RawCreative) (domain.RawCreative, bool) {
	if len(creatives) == 0 {
		return domain.RawCreative{}, false
	}
	best := creatives[0]
	var bestSeen time.Time
	if t, ok := parseVendorTime(best.LastShown); ok {
		bestSeen = t
	}
	for _, candidate := range creatives[1:] {
		if t, ok := parseVendorTime(candidate.LastShown); ok && t.After(bestSeen) {
			best = candidate
			bestSeen = t
		}
	}
	return best, true
}
