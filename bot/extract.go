package bot

import (
	"encoding/json"
	"log/slog"
)

// ExtractReply pulls the reply text out of a raw bot payload. The bot
// answers with free text that may embed one or more JSON objects, e.g.
//
//	[BOT_SYSTEM_LOG] done
//	{"roomId": "...", "sender": "AI_BOT", "message": "the answer"}
//	{"status": "COMPLETED", "timestamp": "..."}
//
// The first balanced {...} span is located, parsed, and its "message"
// field returned. If no balanced span exists, the span is not valid JSON,
// or it carries no message field, the raw text is returned unchanged.
// ExtractReply never fails.
func ExtractReply(raw string) string {
	span, ok := firstBalancedObject(raw)
	if !ok {
		return raw
	}

	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal([]byte(span), &payload); err != nil {
		slog.Warn("bot reply span is not valid JSON, using raw text", "error", err)
		return raw
	}
	if payload.Message == "" {
		return raw
	}
	return payload.Message
}

// firstBalancedObject scans for the first balanced {...} span in s. Brace
// depth is tracked outside JSON string literals so that braces inside
// quoted values do not break the count, and the scan stops at the first
// span that closes — a later unrelated object is never swallowed.
func firstBalancedObject(s string) (string, bool) {
	start := -1
	depth := 0
	inString := false
	escaped := false

	for i := 0; i < len(s); i++ {
		c := s[i]
		if start == -1 {
			if c == '{' {
				start = i
				depth = 1
			}
			continue
		}

		if escaped {
			escaped = false
			continue
		}

		switch c {
		case '\\':
			if inString {
				escaped = true
			}
		case '"':
			inString = !inString
		case '{':
			if !inString {
				depth++
			}
		case '}':
			if !inString {
				depth--
				if depth == 0 {
					return s[start : i+1], true
				}
			}
		}
	}
	return "", false
}
