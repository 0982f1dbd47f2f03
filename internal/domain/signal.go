package domain

// AdFormat is the canonical ad format after normalization
type AdFormat string

const (
	FormatSearch  AdFormat = "Search"
	FormatDisplay AdFormat = "Display"
	FormatVideo   AdFormat = "Video"
	FormatCTV     AdFormat = "CTV"
	FormatOther   AdFormat = "Other"
)

// AdSurface is where the ad actually runs
type AdSurface string

const (
	SurfaceSearchNetwork       AdSurface = "Search Network"
	SurfaceProgrammaticDisplay AdSurface = "Programmatic Display"
	SurfaceProgrammaticVideo   AdSurface = "Programmatic Video"
	SurfaceYouTube             AdSurface = "YouTube"
	SurfaceConnectedTV         AdSurface = "Connected TV"
	SurfaceSocialFeed          AdSurface = "Social Feed"
	SurfaceOther               AdSurface = "Other"
)

// AllFormats returns every canonical format, in stable order
func AllFormats() []AdFormat {
	return []AdFormat{FormatSearch, FormatDisplay, FormatVideo, FormatCTV, FormatOther}
}

// AllSurfaces returns every surface, in stable order
func AllSurfaces() []AdSurface {
	return []AdSurface{
		SurfaceSearchNetwork,
		SurfaceProgrammaticDisplay,
		SurfaceProgrammaticVideo,
		SurfaceYouTube,
		SurfaceConnectedTV,
		SurfaceSocialFeed,
		SurfaceOther,
	}
}

// NormalizedAdSignal is the canonical creative record produced by the
// creative normalizer. Timestamps are ISO-8601 UTC strings with
// FirstSeen <= LastSeen.
type NormalizedAdSignal struct {
	Format    AdFormat  `json:"format"`
	Surface   AdSurface `json:"surface"`
	FirstSeen string    `json:"first_seen"`
	LastSeen  string    `json:"last_seen"`
}

// FormatSurfaceKey builds the composite bin key used in AdsAnalysis
func FormatSurfaceKey(f AdFormat, s AdSurface) string {
	return string(f) + "::" + string(s)
}
