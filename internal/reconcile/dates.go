package reconcile

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	reISO = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	reDMY = regexp.MustCompile(`\b(\d{1,2})[/\-](\d{1,2})[/\-](\d{2}|\d{4})\b`)
)

// genericLayouts is the last-resort parse attempt for free-form dates.
var genericLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"January 2, 2006",
	"January 2 2006",
	"Jan 2, 2006",
	"Jan 2 2006",
	"2 January 2006",
	"2 Jan 2006",
	"02.01.2006",
	"Mon, 02 Jan 2006",
}

// NormalizeDeadline converts a free-form date string into canonical
// YYYY-MM-DD form. Returns ("", false) when the input cannot be understood;
// an ambiguous deadline is better dropped than propagated.
func NormalizeDeadline(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}

	// Already canonical; confirm it is a real calendar date.
	if reISO.MatchString(s) {
		if _, err := time.Parse("2006-01-02", s); err == nil {
			return s, true
		}
		return "", false
	}

	// D/M/YYYY or D-M-YYYY, 2- or 4-digit year (2-digit years are 2000s).
	if m := reDMY.FindStringSubmatch(s); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		if len(m[3]) == 2 {
			year += 2000
		}
		if month >= 1 && month <= 12 && day >= 1 && day <= 31 {
			iso := fmt.Sprintf("%04d-%02d-%02d", year, month, day)
			// time.Parse rejects impossible dates like 2025-02-31.
			if _, err := time.Parse("2006-01-02", iso); err == nil {
				return iso, true
			}
		}
		// fall through to the generic parse of the original string
	}

	for _, layout := range genericLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02"), true
		}
	}
	return "", false
}
