package summarize

import (
	"regexp"
	"strings"

	"github.com/human83/meetingwatch/internal/normalize"
)

// Work sessions rarely have discrete votable items; itemizing them line by
// line fabricates a false sense of decisions. When the whole agenda is one
// session-style topic, collapse it to a single descriptive bullet instead.

var sessionPhraseRe = regexp.MustCompile(`(?i)\b(work\s+session|study\s+session|retreat|budget\s+work\s+session|planning\s+workshop)\b`)

var proceduralWordRe = regexp.MustCompile(`(?i)\b(roll\s+call|call\s+to\s+order|adjourn\w*|pledge|invocation|minutes)\b`)

// Topics mentioning these get picked over earlier candidates.
var priorityTopicRe = regexp.MustCompile(`(?i)\b(budget|zoning|ordinance|rate\s+case|hearing)\b`)

// SingleTopic reports whether the agenda is entirely about one work-session
// style topic, and if so returns the line that names it.
func SingleTopic(text string) (string, bool) {
	if !sessionPhraseRe.MatchString(text) {
		return "", false
	}

	var candidates []string
	for _, ln := range normalize.CleanLines(text) {
		if IsBoilerplate(ln) {
			continue
		}
		if proceduralWordRe.MatchString(ln) {
			continue
		}
		words := len(strings.Fields(ln))
		if words < 3 || words > 20 {
			continue
		}
		candidates = append(candidates, ln)
	}
	if len(candidates) == 0 {
		return "", false
	}
	for _, c := range candidates {
		if priorityTopicRe.MatchString(c) {
			return normalize.Truncate(c, maxBulletLen), true
		}
	}
	return normalize.Truncate(candidates[0], maxBulletLen), true
}
