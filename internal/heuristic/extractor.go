// Package heuristic is the local fallback for structured extraction: a
// deterministic line-pattern parser used whenever the AI path is not
// configured or fails. It is never as confident as a successful model parse,
// but it always produces something for the user to review.
package heuristic

import (
	"context"
	"encoding/json"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/studyhub/assignment-scanner/constants"
	"github.com/studyhub/assignment-scanner/internal/llm"
	"github.com/studyhub/assignment-scanner/internal/reconcile"
)

// Confidence is the fixed score of every heuristic extraction.
const Confidence = 0.7

var (
	reTitlePrefix   = regexp.MustCompile(`(?i)^(assignment|project|homework)\s*:\s*`)
	reSubjectPrefix = regexp.MustCompile(`(?i)^(subject|course|class)\s*:\s*`)
	reDueWord       = regexp.MustCompile(`(?i)\b(due|deadline|date)\b`)
	reDateToken     = regexp.MustCompile(`\d{4}-\d{2}-\d{2}|\b\d{1,2}[/\-]\d{1,2}[/\-](?:\d{4}|\d{2})\b`)
	rePointsWord    = regexp.MustCompile(`(?i)\b(points|marks|grade)\b`)
	reInteger       = regexp.MustCompile(`\d+`)
	reReqHeader     = regexp.MustCompile(`(?i)\b(requirements|instructions)\b`)
	reBullet        = regexp.MustCompile(`^\s*(?:[-•]|\d+[.)])\s*`)
)

type Extractor struct {
	log *slog.Logger
	now func() time.Time
}

func NewExtractor(logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{log: logger, now: time.Now}
}

// ExtractFields implements llm.FieldExtractor without any network call.
func (e *Extractor) ExtractFields(_ context.Context, req llm.ExtractRequest) (llm.AssignmentFields, []byte, error) {
	lines := splitLines(req.Text)

	fields := llm.AssignmentFields{
		Title:           constants.DefaultTitle,
		Priority:        constants.PriorityMedium,
		SubmissionType:  constants.TypeAssignment,
		ModelConfidence: Confidence,
	}

	titleLine := -1
	dueLine := -1
	for i, line := range lines {
		if titleLine < 0 && reTitlePrefix.MatchString(line) {
			fields.Title = strings.TrimSpace(reTitlePrefix.ReplaceAllString(line, ""))
			titleLine = i
			continue
		}
		if dueLine < 0 && reDueWord.MatchString(line) {
			if tok := reDateToken.FindString(line); tok != "" {
				fields.Deadline = tok // verbatim; the reconciler normalizes it
				dueLine = i
				continue
			}
		}
		if fields.Subject == "" && reSubjectPrefix.MatchString(line) {
			fields.Subject = strings.TrimSpace(reSubjectPrefix.ReplaceAllString(line, ""))
			continue
		}
		if fields.Points == nil && rePointsWord.MatchString(line) {
			if d := reInteger.FindString(line); d != "" {
				n, _ := strconv.Atoi(d)
				fields.Points = &n
			}
		}
	}

	fields.Requirements = collectRequirements(lines)
	fields.SubmissionType = inferSubmissionType(fields.Title)
	fields.Priority = e.priorityFromDeadline(fields.Deadline)
	fields.Description = buildDescription(lines, titleLine, dueLine)

	raw, _ := json.Marshal(fields)
	e.log.Debug("heuristic.extract.ok",
		"title", fields.Title,
		"deadline", fields.Deadline,
		"subject", fields.Subject,
		"requirements", len(fields.Requirements),
	)
	return fields, raw, nil
}

func splitLines(text string) []string {
	raw := strings.Split(text, "\n")
	out := make([]string, 0, len(raw))
	for _, l := range raw {
		out = append(out, strings.TrimSpace(l))
	}
	return out
}

// collectRequirements gathers up to five bullet or numbered lines immediately
// following a requirements/instructions header, markers stripped.
func collectRequirements(lines []string) []string {
	for i, line := range lines {
		if !reReqHeader.MatchString(line) {
			continue
		}
		var reqs []string
		for j := i + 1; j < len(lines) && j <= i+5; j++ {
			if !reBullet.MatchString(lines[j]) {
				break
			}
			item := strings.TrimSpace(reBullet.ReplaceAllString(lines[j], ""))
			if item != "" {
				reqs = append(reqs, item)
			}
		}
		if len(reqs) > 0 {
			return reqs
		}
	}
	return nil
}

func inferSubmissionType(title string) string {
	t := strings.ToLower(title)
	switch {
	case strings.Contains(t, "project"):
		return constants.TypeProject
	case strings.Contains(t, "exam"), strings.Contains(t, "test"):
		return constants.TypeExam
	case strings.Contains(t, "tutorial"):
		return constants.TypeTutorial
	default:
		return constants.TypeAssignment
	}
}

// priorityFromDeadline derives urgency from days-until-deadline; with no
// usable deadline everything defaults to medium.
func (e *Extractor) priorityFromDeadline(deadline string) string {
	iso, ok := reconcile.NormalizeDeadline(deadline)
	if !ok {
		return constants.PriorityMedium
	}
	due, err := time.Parse("2006-01-02", iso)
	if err != nil {
		return constants.PriorityMedium
	}
	now := e.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	days := int(due.Sub(today).Hours() / 24)
	switch {
	case days <= 3:
		return constants.PriorityHigh
	case days <= 7:
		return constants.PriorityMedium
	default:
		return constants.PriorityLow
	}
}

// buildDescription joins the first up-to-three lines that matched neither the
// title nor the due-date pattern.
func buildDescription(lines []string, titleLine, dueLine int) string {
	var parts []string
	for i, line := range lines {
		if line == "" || i == titleLine || i == dueLine {
			continue
		}
		parts = append(parts, line)
		if len(parts) == 3 {
			break
		}
	}
	return strings.Join(parts, " ")
}
