package chat

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/minhvu/jobchat/internal/db"
	"github.com/minhvu/jobchat/internal/dict"
	"github.com/minhvu/jobchat/internal/llm"
)

// ChitchatFallback is returned on the degraded path when there is no
// context to show, so the caller always gets a usable reply.
const ChitchatFallback = "Xin chào! Mình là trợ lý tuyển dụng. " +
	`Bạn có thể hỏi kiểu "tìm việc kế toán ở Hà Nội" hoặc "xem tin #123" nhé.`

// Store is the read interface over listings the resolver needs.
type Store interface {
	GetListing(ctx context.Context, id int64) (*db.Listing, error)
	SearchListings(ctx context.Context, opts db.SearchOptions) (*db.SearchResult, error)
}

// Reply is one resolved conversation turn.
type Reply struct {
	Text   string
	Intent IntentKind
	Page   int
	Total  int
	Pages  int
	Debug  map[string]any
}

// Service orchestrates one conversation turn: preprocess, extract,
// resolve, format, compose.
type Service struct {
	store     Store
	dict      *dict.Cache
	extractor *Extractor
	composer  *Composer
	log       *zap.Logger
}

// NewService wires the resolver. client may be nil for the fully
// offline degraded mode.
func NewService(store Store, cache *dict.Cache, client llm.Client, log *zap.Logger) *Service {
	return &Service{
		store:     store,
		dict:      cache,
		extractor: NewExtractor(client, log),
		composer:  NewComposer(client, log),
		log:       log,
	}
}

// Respond handles one conversation turn. The only errors it returns
// are unexpected store failures; every classification or completion
// problem degrades internally.
func (s *Service) Respond(ctx context.Context, msgs []Message) (*Reply, error) {
	history := TrimHistory(msgs, DefaultHistoryBudget)
	utterance := LastUserMessage(history)

	var intent Intent
	if utterance == "" {
		intent = Intent{Kind: IntentChitchat, Page: 1, Source: "empty"}
	} else {
		intent = s.extractor.Extract(ctx, utterance)
	}

	contextBlock, result, err := s.resolve(ctx, intent)
	if err != nil {
		return nil, err
	}

	text, degraded := s.composer.Compose(ctx, history, contextBlock)
	if strings.TrimSpace(text) == "" {
		text = ChitchatFallback
	}

	s.log.Info("chat turn resolved",
		zap.String("intent", string(intent.Kind)),
		zap.String("intent_source", intent.Source),
		zap.Int("total", result.Total),
		zap.Bool("degraded", degraded),
	)

	return &Reply{
		Text:   text,
		Intent: intent.Kind,
		Page:   result.Page,
		Total:  result.Total,
		Pages:  result.Pages(),
		Debug: map[string]any{
			"intent_source": intent.Source,
			"degraded":      degraded,
		},
	}, nil
}
