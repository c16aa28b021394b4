package chat

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/minhvu/jobchat/internal/llm"
)

const (
	completionTimeout  = 30 * time.Second
	completionAttempts = 2
	completionBackoff  = 2 * time.Second
)

const systemInstruction = `Bạn là trợ lý tuyển dụng của một trang web việc làm. Trả lời bằng tiếng Việt, ngắn gọn và thân thiện.
Chỉ dùng thông tin trong phần DỮ LIỆU bên dưới; tuyệt đối không bịa thêm tin tuyển dụng, công ty hay mức lương.
Không nhắc đến mã tin (#id) trừ khi người dùng hỏi về một tin cụ thể hoặc DỮ LIỆU chỉ nói về một tin.`

const (
	contextOpen  = "----- DỮ LIỆU -----"
	contextClose = "----- HẾT DỮ LIỆU -----"
)

// Composer produces the final reply text, degrading to the formatted
// context whenever the completion service cannot be used.
type Composer struct {
	llm llm.Client // nil disables the completion call entirely
	log *zap.Logger
}

// NewComposer creates a composer. client may be nil, which selects
// the fully offline path.
func NewComposer(client llm.Client, log *zap.Logger) *Composer {
	return &Composer{llm: client, log: log}
}

// Compose returns the reply text and whether the degraded path was
// taken. It never returns an error: transport failures and empty
// completions fall back to the formatted context.
func (c *Composer) Compose(ctx context.Context, history []Message, contextBlock string) (string, bool) {
	if c.llm == nil {
		return contextBlock, true
	}

	prompt := buildDialoguePrompt(history, contextBlock)

	var lastErr error
	for attempt := 1; attempt <= completionAttempts; attempt++ {
		callCtx, cancel := context.WithTimeout(ctx, completionTimeout)
		text, err := c.llm.GenerateContent(callCtx, prompt)
		cancel()

		if err == nil {
			if text = strings.TrimSpace(text); text != "" {
				return text, false
			}
			lastErr = errors.New("empty completion")
		} else {
			lastErr = err
		}

		if ctx.Err() != nil {
			// Caller gone; abandon without retrying.
			break
		}
		if attempt < completionAttempts {
			time.Sleep(completionBackoff)
		}
	}

	c.log.Warn("completion failed, returning formatted context", zap.Error(lastErr))
	return contextBlock, true
}

func buildDialoguePrompt(history []Message, contextBlock string) string {
	var sb strings.Builder
	sb.WriteString(systemInstruction)
	sb.WriteString("\n\n")

	if strings.TrimSpace(contextBlock) != "" {
		sb.WriteString(contextOpen)
		sb.WriteByte('\n')
		sb.WriteString(contextBlock)
		sb.WriteByte('\n')
		sb.WriteString(contextClose)
		sb.WriteString("\n\n")
	}

	sb.WriteString("Hội thoại:\n")
	for _, m := range history {
		switch m.Role {
		case RoleAssistant:
			sb.WriteString("Trợ lý: ")
		case RoleSystem:
			continue
		default:
			sb.WriteString("Người dùng: ")
		}
		sb.WriteString(m.Content)
		sb.WriteByte('\n')
	}
	sb.WriteString("Trợ lý: ")
	return sb.String()
}
