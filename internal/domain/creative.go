package domain

// Warning codes appended by the creative tools. All are non-fatal.
const (
	WarnTranscriptUnavailable   = "transcript_unavailable"
	WarnTranscriptTimeout       = "transcript_timeout"
	WarnNoCreativesFound        = "no_creatives_found"
	WarnMissingCreativeID       = "missing_creative_id"
	WarnMissingAdvertiserID     = "missing_advertiser_id"
	WarnAdvertiserNotFound      = "advertiser_not_found"
	WarnAdvertiserIDFallback    = "advertiser_id_param_unsupported_fallback"
	WarnPartialSnapshot         = "partial_snapshot"
)

// CreativeResult is the enriched single-creative record returned by the
// search/display/video creative tools.
type CreativeResult struct {
	Query          string `json:"query"`
	ResolvedDomain string `json:"resolved_domain,omitempty"`
	AdvertiserID   string `json:"advertiser_id,omitempty"`
	Advertiser     string `json:"advertiser,omitempty"`
	Format         string `json:"format"`

	Creative *RawCreative        `json:"creative,omitempty"`
	Signal   *NormalizedAdSignal `json:"signal,omitempty"`
	Details  *AdDetailsPayload   `json:"details,omitempty"`

	YouTubeVideoID string              `json:"youtube_video_id,omitempty"`
	Transcript     []TranscriptSegment `json:"transcript,omitempty"`

	Warnings []string `json:"warnings,omitempty"`
}
