package usecase

import (
	"time"

	"adsignal/internal/domain"
)

// Aggregate filters signals to the trailing window and bins them by
// format, surface and format×surface. The format and surface maps are
// dense: every enumerated key is present even at zero.
func Aggregate(domainName string, signals []domain.NormalizedAdSignal, windowDays int, now time.Time) *domain.AdsAnalysis {
	analysis := &domain.AdsAnalysis{
		Domain:          domainName,
		ByFormat:        make(map[domain.AdFormat]int, len(domain.AllFormats())),
		BySurface:       make(map[domain.AdSurface]int, len(domain.AllSurfaces())),
		ByFormatSurface: make(map[string]int),
		Ads:             make([]domain.NormalizedAdSignal, 0, len(signals)),
	}
	for _, format := range domain.AllFormats() {
		analysis.ByFormat[format] = 0
	}
	for _, surface := range domain.AllSurfaces() {
		analysis.BySurface[surface] = 0
	}

	now = now.UTC()
	cutoff := now.AddDate(0, 0, -windowDays)

	var first, last time.Time
	for _, signal := range signals {
		lastSeen, err := time.Parse(time.RFC3339, signal.LastSeen)
		if err != nil {
			continue
		}
		firstSeen, err := time.Parse(time.RFC3339, signal.FirstSeen)
		if err != nil {
			continue
		}
		if lastSeen.Before(cutoff) {
			continue
		}

		analysis.ByFormat[signal.Format]++
		analysis.BySurface[signal.Surface]++
		analysis.ByFormatSurface[domain.FormatSurfaceKey(signal.Format, signal.Surface)]++
		analysis.Ads = append(analysis.Ads, signal)

		if first.IsZero() || firstSeen.Before(first) {
			first = firstSeen
		}
		if last.IsZero() || lastSeen.After(last) {
			last = lastSeen
		}
	}

	analysis.Totals.Ads = len(analysis.Ads)

	if analysis.Totals.Ads > 0 {
		firstStr := first.UTC().Format(time.RFC3339)
		lastStr := last.UTC().Format(time.RFC3339)
		lifespan := WholeDaysBetween(first, last)
		daysAgo := WholeDaysBetween(last, now)
		analysis.Timeline = domain.Timeline{
			FirstSeen:       &firstStr,
			LastSeen:        &lastStr,
			AdLifespanDays:  &lifespan,
			LastSeenDaysAgo: &daysAgo,
		}
	}

	return analysis
}

// WholeDaysBetween returns the calendar-day difference from a to b with
// both clocks normalized to UTC midnight
func WholeDaysBetween(a, b time.Time) int {
	a, b = a.UTC(), b.UTC()
	aDay := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	bDay := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(bDay.Sub(aDay).Hours() / 24)
}
