package chat

import "strings"

// DefaultHistoryBudget is the character budget applied to inbound
// conversations before prompting.
const DefaultHistoryBudget = 6000

// TrimHistory keeps the newest messages whose cumulative content
// length fits the budget, preserving relative order. If even the
// newest message exceeds the budget the input is returned unmodified
// rather than empty.
func TrimHistory(msgs []Message, budget int) []Message {
	if budget <= 0 {
		budget = DefaultHistoryBudget
	}

	total := 0
	start := len(msgs)
	for i := len(msgs) - 1; i >= 0; i-- {
		total += len([]rune(msgs[i].Content))
		if total > budget {
			break
		}
		start = i
	}

	if start == len(msgs) {
		return msgs
	}
	return msgs[start:]
}

// LastUserMessage returns the content of the most recent user turn,
// or "" when the conversation has none. Absence is a valid, silent
// outcome.
func LastUserMessage(msgs []Message) string {
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role == RoleUser {
			return strings.TrimSpace(msgs[i].Content)
		}
	}
	return ""
}
