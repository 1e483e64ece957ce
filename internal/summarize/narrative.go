package summarize

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"

	"github.com/human83/meetingwatch/internal/llm"
	"github.com/human83/meetingwatch/internal/normalize"
)

const narrativeSystemPrompt = "You summarize municipal meeting agendas. Extract only substantive items: motions, ordinances, spending amounts, rate/fee/tax changes, annexations and rezones, hearing dates, contracts and grants, and other official actions. Exclude boilerplate, procedural items, attachments, and section headers. If the agenda is entirely one work-session topic, return exactly one bullet naming that topic."

// Narrative asks a configured chat backend for a bounded bullet list. A nil
// Client means the backend is unavailable and every call returns nil.
type Narrative struct {
	Client llm.Client
	Model  string
	// MaxChars caps the text sent to the backend; oversized input keeps the
	// head and tail, which is where agendas put items and hearing notices.
	MaxChars int
}

// Bullets returns up to max bullets, or nil when the backend is unavailable
// or every attempt fails. Callers treat nil the same as an empty result.
func (n *Narrative) Bullets(ctx context.Context, text string, max int) []string {
	if n == nil || n.Client == nil || strings.TrimSpace(n.Model) == "" || max <= 0 {
		return nil
	}
	text = headTail(text, n.MaxChars)

	if bullets := n.request(ctx, text, max, true); bullets != nil {
		return capBullets(bullets, max)
	}
	// JSON contract failed; retry once asking for newline-delimited bullets.
	if bullets := n.request(ctx, text, max, false); bullets != nil {
		return capBullets(bullets, max)
	}
	return nil
}

func (n *Narrative) request(ctx context.Context, text string, max int, asJSON bool) []string {
	var sb strings.Builder
	if asJSON {
		fmt.Fprintf(&sb, "Return a JSON array of at most %d strings, one concise bullet per notable agenda item. Output only the JSON array.", max)
	} else {
		fmt.Fprintf(&sb, "Return at most %d bullets, one per line, each starting with \"- \". Output only the bullets.", max)
	}
	sb.WriteString("\n\nAgenda:\n---\n")
	sb.WriteString(text)
	sb.WriteString("\n---")

	resp, err := n.Client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: n.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: narrativeSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: sb.String()},
		},
		Temperature: 0.2,
		N:           1,
	})
	if err != nil {
		log.Debug().Err(err).Str("model", n.Model).Msg("narrative backend call failed")
		return nil
	}
	if len(resp.Choices) == 0 {
		return nil
	}
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return nil
	}
	if asJSON {
		return parseJSONBullets(content)
	}
	return parseLineBullets(content)
}

func parseJSONBullets(content string) []string {
	// Models often wrap the array in a code fence; strip it before decoding.
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	start := strings.Index(content, "[")
	end := strings.LastIndex(content, "]")
	if start < 0 || end <= start {
		return nil
	}
	var bullets []string
	if err := json.Unmarshal([]byte(content[start:end+1]), &bullets); err != nil {
		return nil
	}
	return cleanBullets(bullets)
}

func parseLineBullets(content string) []string {
	return cleanBullets(normalize.CleanLines(content))
}

func cleanBullets(in []string) []string {
	var out []string
	for _, b := range in {
		b = normalize.CollapseSpace(strings.TrimLeft(b, " \t•-*–—·∙"))
		if b == "" {
			continue
		}
		out = append(out, normalize.Truncate(b, maxBulletLen))
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func capBullets(bullets []string, max int) []string {
	if len(bullets) > max {
		return bullets[:max]
	}
	return bullets
}

// headTail keeps the first two thirds and last third of oversized text.
func headTail(s string, maxChars int) string {
	if maxChars <= 0 || len(s) <= maxChars {
		return s
	}
	head := maxChars * 2 / 3
	tail := maxChars - head
	return normalize.Truncate(s, head) + "\n...\n" + tailRunes(s, tail)
}

func tailRunes(s string, n int) string {
	if n >= len(s) {
		return s
	}
	cut := len(s) - n
	// Advance to the next rune boundary so we never split a character.
	for cut < len(s) && !isRuneStart(s[cut]) {
		cut++
	}
	return s[cut:]
}

func isRuneStart(b byte) bool { return b&0xC0 != 0x80 }
