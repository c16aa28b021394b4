package server

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/minhvu/jobchat/internal/chat"
)

// ApologyText is the fixed user-safe reply for unexpected failures.
// The chat endpoint never answers with an error status.
const ApologyText = "Xin lỗi, hệ thống đang gặp chút trục trặc. Bạn vui lòng thử lại sau ít phút nhé."

// ChatRequest is the body of POST /chat.
type ChatRequest struct {
	Messages []chat.Message `json:"messages"`
}

// ChatMetadata carries the machine-readable pagination info of a turn.
type ChatMetadata struct {
	Intent string `json:"intent"`
	Page   int    `json:"page"`
	Total  int    `json:"total"`
	Pages  int    `json:"pages"`
}

// ChatResponse is the body of every POST /chat answer, including the
// in-band error cases.
type ChatResponse struct {
	Text     string         `json:"text"`
	Metadata ChatMetadata   `json:"metadata"`
	Debug    map[string]any `json:"debug,omitempty"`
}

func apologyResponse(requestID string) ChatResponse {
	return ChatResponse{
		Text: ApologyText,
		Metadata: ChatMetadata{
			Intent: string(chat.IntentChitchat),
			Page:   1,
			Total:  0,
			Pages:  1,
		},
		Debug: map[string]any{"request_id": requestID, "degraded": true},
	}
}

// handleChat resolves one conversation turn. All failure modes,
// including panics, terminate in a plain-text reply with HTTP 200.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.NewString()

	defer func() {
		if rec := recover(); rec != nil {
			s.log.Error("panic in chat handler",
				zap.Any("panic", rec),
				zap.String("request_id", requestID),
			)
			s.jsonResponse(w, http.StatusOK, apologyResponse(requestID))
		}
	}()

	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.log.Warn("malformed chat request",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		s.jsonResponse(w, http.StatusOK, apologyResponse(requestID))
		return
	}

	reply, err := s.chat.Respond(r.Context(), req.Messages)
	if err != nil {
		s.log.Error("chat turn failed",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		s.jsonResponse(w, http.StatusOK, apologyResponse(requestID))
		return
	}

	debug := reply.Debug
	if debug == nil {
		debug = make(map[string]any)
	}
	debug["request_id"] = requestID

	s.jsonResponse(w, http.StatusOK, ChatResponse{
		Text: reply.Text,
		Metadata: ChatMetadata{
			Intent: string(reply.Intent),
			Page:   reply.Page,
			Total:  reply.Total,
			Pages:  reply.Pages,
		},
		Debug: debug,
	})
}
