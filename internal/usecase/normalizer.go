package usecase

import (
	"regexp"
	"strings"
	"time"

	"adsignal/internal/domain"
)

// NormalizeMode selects how strictly video creatives are handled.
// Enrichment applies the YouTube-presence rule; snapshot does not.
type NormalizeMode int

const (
	ModeSnapshot NormalizeMode = iota
	ModeEnrichment
)

// vendorTimeFormats are tried in order when parsing creative timestamps
var vendorTimeFormats = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

var youtubePatterns = []*regexp.Regexp{
	regexp.MustCompile(`youtube\.com/watch\?(?:[^#\s]*&)?v=([A-Za-z0-9_-]{11})`),
	regexp.MustCompile(`youtu\.be/([A-Za-z0-9_-]{11})`),
	regexp.MustCompile(`youtube\.com/embed/([A-Za-z0-9_-]{11})`),
	regexp.MustCompile(`img\.youtube\.com/vi/([A-Za-z0-9_-]{11})`),
	regexp.MustCompile(`i\.ytimg\.com/vi/([A-Za-z0-9_-]{11})`),
}

// NormalizeCreatives converts a raw creatives payload into canonical
// signals. Records with missing or unparseable timestamps are dropped;
// input order is preserved.
func NormalizeCreatives(payload *domain.CreativesPayload, mode NormalizeMode) []domain.NormalizedAdSignal {
	signals := make([]domain.NormalizedAdSignal, 0, len(payload.AdCreatives))
	for _, creative := range payload.AdCreatives {
		if signal, ok := NormalizeCreative(payload, creative, mode); ok {
			signals = append(signals, signal)
		}
	}
	return signals
}

// NormalizeCreative maps one vendor record to a canonical signal. The
// second return is false when the record must be dropped.
func NormalizeCreative(payload *domain.CreativesPayload, creative domain.RawCreative, mode NormalizeMode) (domain.NormalizedAdSignal, bool) {
	firstSeen, ok := parseVendorTime(creative.FirstShown)
	if !ok {
		return domain.NormalizedAdSignal{}, false
	}
	lastSeen, ok := parseVendorTime(creative.LastShown)
	if !ok {
		return domain.NormalizedAdSignal{}, false
	}
	if firstSeen.After(lastSeen) {
		return domain.NormalizedAdSignal{}, false
	}

	format, surface := mapFormatSurface(vendorFormat(payload, creative), vendorPlatform(payload, creative))

	if mode == ModeEnrichment && format == domain.FormatVideo {
		if _, ok := CreativeYouTubeID(creative); !ok {
			return domain.NormalizedAdSignal{}, false
		}
	}

	return domain.NormalizedAdSignal{
		Format:    format,
		Surface:   surface,
		FirstSeen: firstSeen.UTC().Format(time.RFC3339),
		LastSeen:  lastSeen.UTC().Format(time.RFC3339),
	}, true
}

// mapFormatSurface applies the vendor mapping rules in contract order
func mapFormatSurface(adFormat, platform string) (domain.AdFormat, domain.AdSurface) {
	switch {
	case adFormat == domain.VendorFormatText:
		return domain.FormatSearch, domain.SurfaceSearchNetwork
	case platform == "youtube":
		return domain.FormatVideo, domain.SurfaceYouTube
	case strings.Contains(platform, "connected_tv") || strings.Contains(platform, "ctv"):
		return domain.FormatCTV, domain.SurfaceConnectedTV
	case adFormat == domain.VendorFormatVideo:
		return domain.FormatVideo, domain.SurfaceProgrammaticVideo
	case adFormat == domain.VendorFormatImage:
		return domain.FormatDisplay, domain.SurfaceProgrammaticDisplay
	default:
		return domain.FormatOther, domain.SurfaceOther
	}
}

func vendorFormat(payload *domain.CreativesPayload, creative domain.RawCreative) string {
	if creative.Format != "" {
		return strings.ToLower(creative.Format)
	}
	return strings.ToLower(payload.AdFormat)
}

func vendorPlatform(payload *domain.CreativesPayload, creative domain.RawCreative) string {
	if creative.Platform != "" {
		return strings.ToLower(creative.Platform)
	}
	return strings.ToLower(payload.Platform)
}

func parseVendorTime(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	for _, format := range vendorTimeFormats {
		if t, err := time.Parse(format, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// CreativeYouTubeID extracts a YouTube video id from the creative's own
// links and variation assets
func CreativeYouTubeID(creative domain.RawCreative) (string, bool) {
	candidates := []string{creative.DetailsLink, creative.DetailsScriptLink, creative.Link}
	for _, variation := range creative.Variations {
		candidates = append(candidates, variation.VideoLink, variation.Thumbnail)
	}
	return YouTubeVideoID(candidates...)
}

// DetailsYouTubeID extracts a YouTube video id from an ad-details payload
func DetailsYouTubeID(details *domain.AdDetailsPayload) (string, bool) {
	if details == nil {
		return "", false
	}
	var candidates []string
	for _, variation := range details.Variations {
		candidates = append(candidates, variation.VideoLink, variation.Thumbnail)
	}
	for _, link := range details.Links {
		candidates = append(candidates, link)
	}
	for _, value := range details.AdInformation {
		if s, ok := value.(string); ok {
			candidates = append(candidates, s)
		}
	}
	return YouTubeVideoID(candidates...)
}

// YouTubeVideoID returns the first video id found in any candidate URL
func YouTubeVideoID(candidates ...string) (string, bool) {
	for _, candidate := range candidates {
		if candidate == "" {
			continue
		}
		for _, pattern := range youtubePatterns {
			if m := pattern.FindStringSubmatch(candidate); m != nil {
				return m[1], true
			}
		}
	}
	return "", false
}
