package summarize

import (
	"regexp"
	"strings"

	"github.com/human83/meetingwatch/internal/normalize"
)

// maxBulletLen caps each bullet; long items are cut without a marker.
const maxBulletLen = 280

// Positive-signal detector: substantive keywords that mark a line as a likely
// decision item.
var signalRe = regexp.MustCompile(`(?i)\b(ordinance|resolution|budget|appropriation|rate|fee|tax|mill\s+levy|zoning|rezon\w*|variance|annexation|annex\w*|subdivision|plat|contract|agreement|grant|procurement|bid|award|purchase|public\s+hearing|first\s+reading|second\s+reading|water|sewer|wastewater|stormwater|utility|infrastructure|street|road|bridge|housing|development|land\s+use|easement|franchise|intergovernmental|lease|liquor\s+license|appointment)\b`)

var digitOrCurrencyRe = regexp.MustCompile(`[\d$]`)

// Numbered-section headers such as "3." or "4.B." followed by text.
var numberedSectionRe = regexp.MustCompile(`^\s*(\d{1,3})(\.[A-Za-z0-9]+)*[.)]\s+(.*\S)`)

// hasSignal applies the shared acceptance rule: a substantive keyword, or a
// digit/currency symbol standing in for dollar amounts and case numbers.
func hasSignal(line string) bool {
	return signalRe.MatchString(line) || digitOrCurrencyRe.MatchString(line)
}

// ExtractItems runs the deterministic, backend-free pass over full agenda
// text. Numbered sections are grouped into one candidate each; stray lines are
// judged individually. The result is deduplicated, order-preserving, and at
// most limit entries.
func ExtractItems(text string, limit int) []string {
	if limit <= 0 {
		return nil
	}
	lines := normalize.CleanLines(text)

	var candidates []string
	var section []string

	flush := func() {
		if len(section) == 0 {
			return
		}
		candidates = append(candidates, strings.Join(section, " "))
		section = nil
	}

	for _, ln := range lines {
		if m := numberedSectionRe.FindStringSubmatch(ln); m != nil {
			flush()
			section = []string{normalize.CollapseSpace(m[3])}
			continue
		}
		if len(section) > 0 {
			if IsBoilerplate(ln) {
				continue
			}
			section = append(section, ln)
			continue
		}
		// Line outside any numbered section: judge on its own.
		candidates = append(candidates, ln)
	}
	flush()

	return filterCandidates(candidates, limit)
}

// LoosePass is the final fallback when the merged result is empty and strict
// mode is off: the same acceptance rule, line by line, with no grouping.
func LoosePass(text string, limit int) []string {
	if limit <= 0 {
		return nil
	}
	return filterCandidates(normalize.CleanLines(text), limit)
}

func filterCandidates(candidates []string, limit int) []string {
	seen := make(map[string]bool, len(candidates))
	var out []string
	for _, c := range candidates {
		c = normalize.CollapseSpace(c)
		// Strip a numbered-section prefix so the numbering digit itself never
		// counts as a positive signal.
		if m := numberedSectionRe.FindStringSubmatch(c); m != nil {
			c = normalize.CollapseSpace(m[3])
		}
		if c == "" || IsBoilerplate(c) {
			continue
		}
		if !hasSignal(c) {
			continue
		}
		c = normalize.Truncate(c, maxBulletLen)
		key := normalize.FoldKey(c)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, c)
		if len(out) >= limit {
			break
		}
	}
	return out
}
