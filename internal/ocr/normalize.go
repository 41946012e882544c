package ocr

import (
	"regexp"
	"strings"
)

var (
	reCRLF       = regexp.MustCompile(`\r\n?`)
	reTabs       = regexp.MustCompile(`\t+`)
	reMultiSpace = regexp.MustCompile(` {2,}`)
	reMultiBlank = regexp.MustCompile(`\n{3,}`)
)

var reBoxNoise = regexp.MustCompile(`(?m)^\s*[_\-]{3,}\s*$`)

var (
	reDateish    = regexp.MustCompile(`\d{1,4}[/\-.]\d{1,2}[/\-.]\d{2,4}`)
	reCourseCode = regexp.MustCompile(`\b[A-Za-z]{2,4}\s?\d{3}\b`)
	reDueWord    = regexp.MustCompile(`(?i)\b(due|deadline|submit|exam)\b`)
)

// Normalize collapses noisy whitespace and strips common OCR line noise.
// Conservative: keeps line breaks; collapses >2 newlines into a single blank line.
func Normalize(s string) string {
	if s == "" {
		return s
	}
	s = reCRLF.ReplaceAllString(s, "\n")
	s = reTabs.ReplaceAllString(s, " ")
	s = reMultiSpace.ReplaceAllString(s, " ")
	s = reMultiBlank.ReplaceAllString(s, "\n\n")
	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = strings.TrimRight(lines[i], " ")
	}
	s = strings.Join(lines, "\n")
	return strings.TrimSpace(s)
}

// heuristicConfidence scores decoded text by the artifacts an assignment
// sheet or exam timetable usually carries: a date, a due/deadline keyword,
// a course code, and enough content overall.
func heuristicConfidence(txt string) float32 {
	score := float32(0.2) // base
	if reDateish.MatchString(txt) {
		score += 0.2
	}
	if reDueWord.MatchString(txt) {
		score += 0.2
	}
	if reCourseCode.MatchString(txt) {
		score += 0.15
	}
	if len(txt) > 120 {
		score += 0.1
	}
	if score > 1.0 {
		score = 1.0
	}
	return score
}
