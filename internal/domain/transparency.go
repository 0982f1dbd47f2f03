package domain

import "context"

// Upstream engine identifiers
const (
	EngineCreatives        = "google_ads_transparency_center"
	EngineAdvertiserSearch = "google_ads_transparency_center_advertiser_search"
	EngineAdDetails        = "google_ads_transparency_center_ad_details"
	EngineTranscripts      = "youtube_transcripts"
)

// Vendor ad_format values accepted by the creatives endpoint
const (
	VendorFormatText  = "text"
	VendorFormatImage = "image"
	VendorFormatVideo = "video"
)

// AdQuery selects creatives from the transparency API. Exactly one of
// Domain / AdvertiserID / Advertiser identifies the subject.
type AdQuery struct {
	Domain       string
	AdvertiserID string
	Advertiser   string
	Format       string
	Period       TimePeriod
	Num          int
	Region       string
}

// SearchMetadata is the upstream response envelope header
type SearchMetadata struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// RawVariation is one rendering variant of a creative
type RawVariation struct {
	VideoLink string `json:"video_link,omitempty"`
	Thumbnail string `json:"thumbnail,omitempty"`
	Text      string `json:"text,omitempty"`
	Image     string `json:"image,omitempty"`
}

// RawCreative is the upstream-shaped creative record. Any field may be
// absent; only the creative normalizer reads these names.
type RawCreative struct {
	AdvertiserID      string         `json:"advertiser_id,omitempty"`
	CreativeID        string         `json:"creative_id,omitempty"`
	Advertiser        string         `json:"advertiser,omitempty"`
	Format            string         `json:"format,omitempty"`
	Platform          string         `json:"platform,omitempty"`
	FirstShown        string         `json:"first_shown_datetime,omitempty"`
	LastShown         string         `json:"last_shown_datetime,omitempty"`
	DetailsLink       string         `json:"details_link,omitempty"`
	DetailsScriptLink string         `json:"details_script_link,omitempty"`
	Image             string         `json:"image,omitempty"`
	Link              string         `json:"link,omitempty"`
	Variations        []RawVariation `json:"variations,omitempty"`
}

// CreativesPayload is the raw creatives list plus the vendor context the
// client stamps on it (engine, requested ad_format, optional platform).
type CreativesPayload struct {
	SearchMetadata SearchMetadata `json:"search_metadata"`
	AdCreatives    []RawCreative  `json:"ad_creatives"`

	Engine   string `json:"-"`
	AdFormat string `json:"-"`
	Platform string `json:"-"`
}

// RawAdvertiser is one advertiser search hit
type RawAdvertiser struct {
	AdvertiserID string `json:"advertiser_id"`
	Name         string `json:"name"`
	Domain       string `json:"domain,omitempty"`
	Region       string `json:"region,omitempty"`
}

// RawDomainHit is one domain search hit
type RawDomainHit struct {
	Domain string `json:"domain"`
}

// AdvertiserSearchPayload is the advertiser-search response
type AdvertiserSearchPayload struct {
	SearchMetadata SearchMetadata  `json:"search_metadata"`
	Advertisers    []RawAdvertiser `json:"advertisers"`
	Domains        []RawDomainHit  `json:"domains"`
}

// AdDetailsPayload is the ad-details response for a single creative
type AdDetailsPayload struct {
	SearchMetadata SearchMetadata    `json:"search_metadata"`
	AdInformation  map[string]any    `json:"ad_information"`
	Variations     []RawVariation    `json:"variations"`
	Links          map[string]string `json:"links,omitempty"`
}

// TranscriptSegment is one timed caption line
type TranscriptSegment struct {
	Text     string  `json:"text"`
	Start    float64 `json:"start"`
	Duration float64 `json:"duration"`
}

// TranscriptPayload is the youtube_transcripts response
type TranscriptPayload struct {
	SearchMetadata SearchMetadata      `json:"search_metadata"`
	Transcripts    []TranscriptSegment `json:"transcripts"`
}

// TransparencyAPI is the upstream client surface consumed by the pipeline
type TransparencyAPI interface {
	FetchCreatives(ctx context.Context, q AdQuery) (*CreativesPayload, error)
	FetchAdvertiserSearch(ctx context.Context, query string) (*AdvertiserSearchPayload, error)
	FetchAdDetails(ctx context.Context, advertiserID, creativeID string) (*AdDetailsPayload, error)
	FetchTranscript(ctx context.Context, videoID string) (*TranscriptPayload, error)
}
