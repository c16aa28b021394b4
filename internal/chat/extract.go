package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/minhvu/jobchat/internal/llm"
	"github.com/minhvu/jobchat/internal/logger"
)

// idRefPattern matches explicit record references: "#123", "id 123",
// "id: 123".
var idRefPattern = regexp.MustCompile(`(?i)(?:#|\bid\b\s*:?\s*)(\d{1,10})`)

func matchIDRef(text string) (int64, bool) {
	m := idRefPattern.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	id, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// Extractor turns the latest user utterance into an Intent. Three
// layers: the deterministic id shortcut, the external classification
// (when a client is configured), and the offline heuristic fallback.
type Extractor struct {
	llm llm.Client // nil when no credential is configured
	log *zap.Logger
}

// NewExtractor creates an extractor. client may be nil.
func NewExtractor(client llm.Client, log *zap.Logger) *Extractor {
	return &Extractor{llm: client, log: log}
}

// Extract never fails: classification problems degrade silently to
// the heuristic fallback.
func (e *Extractor) Extract(ctx context.Context, text string) Intent {
	// The id shortcut wins over everything, including an explicit
	// external classification, so detail lookups stay deterministic.
	if id, ok := matchIDRef(text); ok {
		return Intent{Kind: IntentJobDetail, JobID: id, Page: 1, Source: "shortcut"}
	}

	if e.llm != nil {
		if intent, ok := e.classify(ctx, text); ok {
			return intent
		}
	}

	return heuristicIntent(text)
}

// rawIntent is the wire shape of a classification response.
type rawIntent struct {
	Intent           string `json:"intent"`
	ID               int64  `json:"id"`
	Query            string `json:"query"`
	City             string `json:"city"`
	Company          string `json:"company"`
	Type             string `json:"type"`
	SalaryMin        *int64 `json:"salary_min"`
	SalaryMax        *int64 `json:"salary_max"`
	ExpMin           *int   `json:"exp_min"`
	ExpMax           *int   `json:"exp_max"`
	Remote           *bool  `json:"remote"`
	PostedWithinDays *int   `json:"posted_within_days"`
	Fields           any    `json:"fields"`
	Page             int    `json:"page"`
}

func (e *Extractor) classify(ctx context.Context, text string) (Intent, bool) {
	raw, err := e.llm.GenerateJSON(ctx, classificationPrompt(text))
	if err != nil {
		e.log.Debug("intent classification call failed", zap.Error(err))
		return Intent{}, false
	}

	obj, ok := ExtractJSONObject(raw)
	if !ok {
		e.log.Debug("no JSON object in classification response",
			zap.String("response", logger.TruncateForLog(raw, 300)))
		return Intent{}, false
	}
	if err := validateIntentJSON(obj); err != nil {
		e.log.Debug("classification response rejected", zap.Error(err),
			zap.String("response", logger.TruncateForLog(obj, 300)))
		return Intent{}, false
	}

	var ri rawIntent
	if err := json.Unmarshal([]byte(obj), &ri); err != nil {
		e.log.Debug("classification response unparsable", zap.Error(err))
		return Intent{}, false
	}

	page := ri.Page
	if page < 1 {
		page = 1
	}

	switch IntentKind(strings.ToLower(strings.TrimSpace(ri.Intent))) {
	case IntentJobDetail:
		if ri.ID <= 0 {
			return Intent{}, false
		}
		return Intent{Kind: IntentJobDetail, JobID: ri.ID, Page: 1, Source: "llm"}, true
	case IntentSearchJobs:
		f := SearchFilters{
			Query:            strings.TrimSpace(ri.Query),
			City:             strings.TrimSpace(ri.City),
			Company:          strings.TrimSpace(ri.Company),
			JobType:          strings.TrimSpace(ri.Type),
			SalaryMin:        ri.SalaryMin,
			SalaryMax:        ri.SalaryMax,
			ExpMin:           ri.ExpMin,
			ExpMax:           ri.ExpMax,
			Remote:           ri.Remote,
			PostedWithinDays: ri.PostedWithinDays,
			Fields:           normalizeFields(ri.Fields),
		}
		return Intent{Kind: IntentSearchJobs, Search: f, Page: page, Source: "llm"}, true
	case IntentChitchat:
		return Intent{Kind: IntentChitchat, Page: 1, Source: "llm"}, true
	default:
		// Unknown or empty intent field: classification failed.
		return Intent{}, false
	}
}

// normalizeFields accepts the "fields" value in whatever shape the
// model returned it; scalars are wrapped as a one-element list.
func normalizeFields(v any) []string {
	switch t := v.(type) {
	case nil:
		return nil
	case string:
		if s := strings.TrimSpace(t); s != "" {
			return []string{s}
		}
		return nil
	case []any:
		var out []string
		for _, item := range t {
			if item == nil {
				continue
			}
			s, ok := item.(string)
			if !ok {
				s = fmt.Sprint(item)
			}
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
		return out
	default:
		return []string{fmt.Sprint(t)}
	}
}

func classificationPrompt(text string) string {
	var sb strings.Builder
	sb.WriteString("You are an intent classifier for a Vietnamese job-search assistant.\n")
	sb.WriteString("Classify the user message into exactly one intent.\n\n")
	sb.WriteString("Return ONLY valid JSON matching this exact structure:\n{\n")
	sb.WriteString("  \"intent\": \"job_detail\" | \"search_jobs\" | \"chitchat\" (required),\n")
	sb.WriteString("  \"id\": integer, // job id, job_detail only\n")
	sb.WriteString("  \"query\": string, // free-text keyword, e.g. a skill or role\n")
	sb.WriteString("  \"city\": string, // city name as written by the user\n")
	sb.WriteString("  \"company\": string,\n")
	sb.WriteString("  \"type\": string, // full-time, part-time, ...\n")
	sb.WriteString("  \"salary_min\": integer, \"salary_max\": integer, // VND\n")
	sb.WriteString("  \"exp_min\": integer, \"exp_max\": integer, // years\n")
	sb.WriteString("  \"remote\": boolean,\n")
	sb.WriteString("  \"posted_within_days\": integer,\n")
	sb.WriteString("  \"fields\": [string], // job category titles\n")
	sb.WriteString("  \"page\": integer // >= 1, default 1\n")
	sb.WriteString("}\n\n")
	sb.WriteString("IMPORTANT:\n")
	sb.WriteString("- Omit every field the message does not mention.\n")
	sb.WriteString("- Return ONLY the JSON object, no markdown, no explanation.\n\n")
	sb.WriteString("User message:\n\"\"\"\n")
	sb.WriteString(text)
	sb.WriteString("\n\"\"\"\n")
	return sb.String()
}
