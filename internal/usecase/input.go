package usecase

import (
	"regexp"
	"strings"
	"time"

	"adsignal/internal/domain"
)

const invalidDomainMessage = "Domain must be a valid apex domain."

var (
	schemeRe = regexp.MustCompile(`^https?://`)
	wwwRe    = regexp.MustCompile(`^www[0-9]*\.`)
	labelRe  = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]*[a-z0-9])?$`)
	tldRe    = regexp.MustCompile(`^[a-z]{2,63}$`)
)

// NormalizeDomain canonicalizes a user-supplied domain to its apex form:
// trimmed, lowercased, scheme/www/port/path stripped, grammar validated.
// Idempotent on its own output.
func NormalizeDomain(raw string) (string, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = schemeRe.ReplaceAllString(s, "")
	s = wwwRe.ReplaceAllString(s, "")

	// Drop path, query and fragment before the port
	for _, sep := range []string{"/", "?", "#"} {
		if i := strings.Index(s, sep); i >= 0 {
			s = s[:i]
		}
	}
	if i := strings.Index(s, ":"); i >= 0 {
		s = s[:i]
	}

	if !isValidApexDomain(s) {
		return "", domain.NewValidationError(invalidDomainMessage)
	}
	return s, nil
}

func isValidApexDomain(s string) bool {
	if s == "" || len(s) > 253 {
		return false
	}
	labels := strings.Split(s, ".")
	if len(labels) < 2 {
		return false
	}
	for _, label := range labels {
		if len(label) < 1 || len(label) > 63 || !labelRe.MatchString(label) {
			return false
		}
	}
	return tldRe.MatchString(labels[len(labels)-1])
}

// NormalizePeriod maps a user-supplied time-period expression to a
// TimePeriod. Presets and "YYYY-MM-DD..YYYY-MM-DD" ranges pass through;
// natural-language aliases are folded into presets; anything else maps
// to the current quarter-to-date range computed from now.
func NormalizePeriod(raw string, now time.Time) domain.TimePeriod {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.ReplaceAll(s, " ", "_")

	switch s {
	case domain.PeriodToday, domain.PeriodYesterday, domain.PeriodLast7Days, domain.PeriodLast30Days:
		return domain.TimePeriod{Preset: s}
	}

	if from, to, ok := parseDateRange(s, now); ok {
		return domain.TimePeriod{From: from, To: to}
	}

	return QuarterToDate(now)
}

// QuarterToDate returns the range from the first day of the current
// calendar quarter through today
func QuarterToDate(now time.Time) domain.TimePeriod {
	now = now.UTC()
	quarterMonth := time.Month((int(now.Month())-1)/3*3 + 1)
	start := time.Date(now.Year(), quarterMonth, 1, 0, 0, 0, 0, time.UTC)
	return domain.TimePeriod{
		From: start.Format("2006-01-02"),
		To:   now.Format("2006-01-02"),
	}
}

// TrailingDays returns the range covering the last n days through today
func TrailingDays(n int, now time.Time) domain.TimePeriod {
	now = now.UTC()
	return domain.TimePeriod{
		From: now.AddDate(0, 0, -n).Format("2006-01-02"),
		To:   now.Format("2006-01-02"),
	}
}

func parseDateRange(s string, now time.Time) (string, string, bool) {
	parts := strings.Split(s, "..")
	if len(parts) != 2 {
		return "", "", false
	}
	from, err := time.Parse("2006-01-02", parts[0])
	if err != nil {
		return "", "", false
	}
	to, err := time.Parse("2006-01-02", parts[1])
	if err != nil {
		return "", "", false
	}
	today := now.UTC().Truncate(24 * time.Hour)
	if from.After(to) || to.After(today) {
		return "", "", false
	}
	return parts[0], parts[1], true
}
