// Package chat is the conversational fortune teller that follows up on a
// session's reading.
package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ziadkadry99/lucky-universe/internal/fortune"
	"github.com/ziadkadry99/lucky-universe/internal/llm"
	"github.com/ziadkadry99/lucky-universe/internal/session"
)

// DefaultHistoryBudget caps the estimated tokens of replayed history.
const DefaultHistoryBudget = 2000

// Companion answers chat messages in the context of a fortune record.
type Companion struct {
	store    *session.Store
	provider llm.Provider
	model    string
	budget   int
	logger   *zap.Logger
}

// NewCompanion creates a companion.
func NewCompanion(store *session.Store, provider llm.Provider, model string, logger *zap.Logger) *Companion {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Companion{
		store:    store,
		provider: provider,
		model:    model,
		budget:   DefaultHistoryBudget,
		logger:   logger.Named("chat"),
	}
}

// WithHistoryBudget overrides the history token budget.
func (c *Companion) WithHistoryBudget(tokens int) *Companion {
	c.budget = tokens
	return c
}

// History returns the stored conversation.
func (c *Companion) History(ctx context.Context, sessionID string) ([]session.Message, error) {
	if _, err := c.store.Get(ctx, sessionID); err != nil {
		return nil, err
	}
	msgs, err := c.store.Messages(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if msgs == nil {
		msgs = []session.Message{}
	}
	return msgs, nil
}

// Reply answers text for the session and stores both turns. Nothing is
// stored when the upstream call fails.
func (c *Companion) Reply(ctx context.Context, sessionID, text string) (*session.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, &fortune.ValidationError{Fields: []fortune.FieldError{{Field: "message", Message: "메시지를 입력해주세요!"}}}
	}

	sess, err := c.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.View != session.ViewChat {
		return nil, fmt.Errorf("%w: chat is closed on %s", session.ErrIllegalTransition, sess.View)
	}
	if sess.Record == nil {
		return nil, session.ErrNoRecord
	}

	history, err := c.store.Messages(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	resp, err := c.provider.Complete(ctx, llm.CompletionRequest{
		Model:       c.model,
		Messages:    BuildMessages(SystemPrompt(sess), history, text, c.budget),
		Temperature: 0.8,
	})
	if err != nil {
		return nil, fmt.Errorf("chat reply: %w", err)
	}
	answer := strings.TrimSpace(resp.Content)
	if answer == "" {
		return nil, fmt.Errorf("chat reply: %w", llm.ErrEmptyResponse)
	}

	// The answer is dropped if the session moved on while we waited.
	reply, err := c.store.AppendTurn(context.WithoutCancel(ctx), sess, text, answer)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("chat reply",
		zap.String("session_id", sessionID),
		zap.Int("history", len(history)),
		zap.Int("input_tokens", resp.InputTokens),
		zap.Int("output_tokens", resp.OutputTokens),
	)
	return reply, nil
}

// SystemPrompt sets up the fortune teller persona with the session's reading.
func SystemPrompt(sess *session.Session) string {
	var b strings.Builder
	b.WriteString("역할: 30년 경력의 명리학자이자 MZ세대 멘토인 AI 점술가.\n")
	b.WriteString("톤앤매너: 키치하고 귀여운 말투(해요체), 이모지 적극 활용, 위트 있는 비유. 답변은 3~5문장으로 짧게.\n")
	fmt.Fprintf(&b, "사용자 정보: %s생, 태어난 시간 %s, 성별 %s, MBTI %s.\n",
		sess.User.BirthDate, birthTime(sess.User.BirthTime), sess.User.Gender, sess.User.MBTI)
	if sess.Record != nil {
		if data, err := json.Marshal(sess.Record); err == nil {
			b.WriteString("이 사용자의 2026년 운세 결과(JSON):\n")
			b.Write(data)
			b.WriteString("\n")
		}
	}
	b.WriteString("위 운세 결과와 모순되지 않게 사용자의 질문에 답해주세요.")
	return b.String()
}

func birthTime(t string) string {
	if t == "" {
		return fortune.UnknownBirthTime
	}
	return t
}

// BuildMessages assembles the request: system prompt, as much recent
// history as fits in budget tokens, then the new user message.
func BuildMessages(system string, history []session.Message, text string, budget int) []llm.Message {
	keep := 0
	used := 0
	for i := len(history) - 1; i >= 0; i-- {
		cost := llm.EstimateTokens(history[i].Content)
		if used+cost > budget {
			break
		}
		used += cost
		keep++
	}
	recent := history[len(history)-keep:]
	// Never open the replay with an assistant turn.
	for len(recent) > 0 && recent[0].Role != session.RoleUser {
		recent = recent[1:]
	}

	msgs := make([]llm.Message, 0, len(recent)+2)
	msgs = append(msgs, llm.Message{Role: llm.RoleSystem, Content: system})
	for _, m := range recent {
		role := llm.RoleUser
		if m.Role == session.RoleAssistant {
			role = llm.RoleAssistant
		}
		msgs = append(msgs, llm.Message{Role: role, Content: m.Content})
	}
	msgs = append(msgs, llm.Message{Role: llm.RoleUser, Content: text})
	return msgs
}
