// Package chat implements the conversational job-search resolver:
// intent extraction, context resolution, and the degrade-gracefully
// orchestration around the completion call.
package chat

// Conversation roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// Message is one turn of the caller-supplied conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// IntentKind tags the Intent union.
type IntentKind string

// Intent kinds.
const (
	IntentJobDetail  IntentKind = "job_detail"
	IntentSearchJobs IntentKind = "search_jobs"
	IntentChitchat   IntentKind = "chitchat"
)

// Intent is the structured decision about what the user asked for.
// Page is always >= 1.
type Intent struct {
	Kind   IntentKind
	JobID  int64         // IntentJobDetail only
	Search SearchFilters // IntentSearchJobs only
	Page   int
	Source string // shortcut | llm | heuristic (diagnostics only)
}

// SearchFilters carries the optional criteria of a search intent.
// Unresolved filters stay at their zero value, never a sentinel.
type SearchFilters struct {
	Query            string
	City             string
	Company          string
	JobType          string
	SalaryMin        *int64
	SalaryMax        *int64
	ExpMin           *int
	ExpMax           *int
	Remote           *bool
	PostedWithinDays *int
	Fields           []string
}
