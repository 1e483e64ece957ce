package summarize

import "regexp"

// Shared drop-pattern set. Every place that suppresses boilerplate — the
// single-topic detector, the rule extractor, and the loose fallback pass —
// filters through this one table so the notion of "noise" stays consistent.
var dropPatterns = []*regexp.Regexp{
	// Broadcast / streaming notices.
	regexp.MustCompile(`(?i)\bchannel\s+\d+\b`),
	regexp.MustCompile(`(?i)\b(televised|broadcast|live[- ]?stream(ed|ing)?|youtube|facebook live|zoom (link|meeting|webinar))\b`),
	// Accessibility disclaimers.
	regexp.MustCompile(`(?i)americans?\s+with\s+disabilit`),
	regexp.MustCompile(`(?i)\b(ada\s+(accommodation|notice|compliance)|auxiliary\s+aids?|sign\s+language\s+interpreter|accessib(le|ility))\b`),
	// Procedural agenda mechanics.
	regexp.MustCompile(`(?i)^\W*(call\s+to\s+order|roll\s+call|pledge\s+of\s+allegiance|invocation|moment\s+of\s+silence)\b`),
	regexp.MustCompile(`(?i)^\W*(approval|adoption)\s+of\s+(the\s+)?(minutes|agenda)\b`),
	regexp.MustCompile(`(?i)^\W*adjourn(ment)?\b`),
	regexp.MustCompile(`(?i)^\W*(consent\s+(agenda|calendar)|executive\s+session)\s*\W*$`),
	// Attachment / exhibit / file-name lines.
	regexp.MustCompile(`(?i)^\W*(attachment|exhibit|enclosure|backup\s+material)s?\b`),
	regexp.MustCompile(`(?i)\.(pdf|docx?|xlsx?|pptx?)\s*$`),
	// Page numbers and counters.
	regexp.MustCompile(`(?i)^\W*page\s+\d+(\s+of\s+\d+)?\W*$`),
	regexp.MustCompile(`^\W*\d+\s*/\s*\d+\W*$`),
}

// Lines that are nothing but a date, e.g. "October 22, 2025" or "10/22/2025".
var bareDateRe = regexp.MustCompile(`(?i)^\W*((monday|tuesday|wednesday|thursday|friday|saturday|sunday),?\s+)?(january|february|march|april|may|june|july|august|september|october|november|december)\s+\d{1,2},?\s+\d{4}\W*$|^\W*\d{1,2}/\d{1,2}/\d{2,4}\W*$`)

// Bare file codes such as "ORD 2024-15" or "RES-22-103" with no prose.
var bareFileCodeRe = regexp.MustCompile(`(?i)^\W*(ord|res|cb|pud|sub|var|file\s+no\.?)[\s#-]*[\d.-]+\W*$`)

// Generic section headers like "V. NEW BUSINESS" or "Public Comment".
var sectionHeaderRe = regexp.MustCompile(`(?i)^\W*([ivxlc]+|\d+|[a-z])[.)]?\s*(new\s+business|old\s+business|unfinished\s+business|public\s+comment|citizen\s+comments?|reports?|announcements?|communications?|presentations?|discussion(\s+items?)?|action\s+items?|items?\s+under\s+study|work\s+session|study\s+session|general\s+business|staff\s+reports?)\s*\W*$`)

var genericHeadingRe = regexp.MustCompile(`(?i)^\W*(items?\s+under\s+study|public\s+comment|citizen\s+comments?|discussion|reports?|announcements?|agenda|minutes)\s*\W*$`)

// IsBoilerplate reports whether a normalized line is recognizable noise that
// must never surface in a summary.
func IsBoilerplate(line string) bool {
	if line == "" {
		return true
	}
	for _, re := range dropPatterns {
		if re.MatchString(line) {
			return true
		}
	}
	if bareDateRe.MatchString(line) || bareFileCodeRe.MatchString(line) {
		return true
	}
	return sectionHeaderRe.MatchString(line) || genericHeadingRe.MatchString(line)
}
