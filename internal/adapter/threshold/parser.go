// Package threshold turns loosely-formatted, human-authored threshold
// expressions ("> 4000 for 2 minutes", "< 24h for 5 minutes", "Any
// occurrence") into a normalized domain.NormalizedThreshold.
package threshold

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/ycyeo-mongodb/atlas-alerts-aws/internal/domain"
)

const defaultDurationMinutes = 5

var (
	bareDurationRe = regexp.MustCompile(`(?i)^(\d+)\s*(minutes?|hours?|h|m)$`)
	forSplitRe     = regexp.MustCompile(`(?i)\s+for\s+`)
	rangeRe        = regexp.MustCompile(`^(\d+)-(\d+)`)
	magnitudeRe    = regexp.MustCompile(`(?i)^([\d.]+)\s*(ms|s|seconds?|h|hours?|GB|MB|KB|%|/second)?`)
	durationRe     = regexp.MustCompile(`(?i)^(\d+)\s*(minutes?|hours?|h|m)`)
)

// Parse normalizes one threshold expression. It never fails: text that
// matches nothing degrades to the documented defaults (GREATER_THAN, value 0,
// RAW, 5 minutes). Empty text, "none" and "any occurrence" denote a pure
// occurrence trigger with no magnitude at all.
func Parse(text string) domain.NormalizedThreshold {
	trimmed := strings.TrimSpace(text)
	lowered := strings.ToLower(trimmed)
	if trimmed == "" || lowered == "none" || lowered == "any occurrence" {
		return domain.NormalizedThreshold{
			Operator: domain.OperatorNone,
			IsEvent:  true,
		}
	}

	value := 0.0
	result := domain.NormalizedThreshold{
		Operator:        domain.OperatorGreaterThan,
		Value:           &value,
		Unit:            domain.UnitRaw,
		DurationMinutes: defaultDurationMinutes,
	}

	// Bare durations like "15 minutes" or "24 hours" are event triggers:
	// the number is a persistence window, not a magnitude.
	if m := bareDurationRe.FindStringSubmatch(trimmed); m != nil {
		minutes, _ := strconv.Atoi(m[1])
		if strings.HasPrefix(strings.ToLower(m[2]), "h") {
			minutes *= 60
		}
		result.DurationMinutes = minutes
		result.IsEvent = true
		return result
	}

	// A leading comparison character is consumed; its absence keeps the
	// GREATER_THAN default rather than failing the parse.
	switch {
	case strings.HasPrefix(trimmed, "<"):
		result.Operator = domain.OperatorLessThan
		trimmed = strings.TrimSpace(trimmed[1:])
	case strings.HasPrefix(trimmed, ">"):
		result.Operator = domain.OperatorGreaterThan
		trimmed = strings.TrimSpace(trimmed[1:])
	}

	magnitudePart := trimmed
	durationPart := "5 minutes"
	if parts := forSplitRe.Split(trimmed, 2); len(parts) == 2 {
		magnitudePart = strings.TrimSpace(parts[0])
		durationPart = strings.TrimSpace(parts[1])
	}

	parseMagnitude(magnitudePart, &result)

	if m := durationRe.FindStringSubmatch(durationPart); m != nil {
		minutes, _ := strconv.Atoi(m[1])
		if strings.HasPrefix(strings.ToLower(m[2]), "h") {
			minutes *= 60
		}
		result.DurationMinutes = minutes
	}

	return result
}

func parseMagnitude(part string, result *domain.NormalizedThreshold) {
	// Range literals like "0-10" take the lower bound; trailing "+"
	// literals like "10+" take the literal value. The asymmetry is the
	// documented convention for telling the two shapes apart, not an
	// inference to generalize.
	if strings.Contains(part, "-") && !strings.HasPrefix(part, "-") {
		if m := rangeRe.FindStringSubmatch(part); m != nil {
			lower, _ := strconv.ParseFloat(m[1], 64)
			*result.Value = lower
		}
		return
	}
	if strings.HasSuffix(part, "+") {
		if v, err := strconv.ParseFloat(strings.TrimRight(part, "+"), 64); err == nil {
			*result.Value = v
		}
		return
	}

	m := magnitudeRe.FindStringSubmatch(part)
	if m == nil {
		return
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return
	}

	switch strings.ToLower(m[2]) {
	case "ms":
		result.Unit = domain.UnitMilliseconds
	case "s", "second", "seconds":
		result.Unit = domain.UnitSeconds
	case "h", "hour", "hours":
		v *= 3600
		result.Unit = domain.UnitSeconds
	case "gb":
		v *= 1024 * 1024 * 1024
		result.Unit = domain.UnitBytes
	case "mb":
		v *= 1024 * 1024
		result.Unit = domain.UnitBytes
	case "kb":
		v *= 1024
		result.Unit = domain.UnitBytes
	default:
		// "%", "/second" and bare numbers are all RAW.
		result.Unit = domain.UnitRaw
	}
	*result.Value = v
}
