package mcp

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"github.com/ziadkadry99/lucky-universe/internal/fortune"
	"github.com/ziadkadry99/lucky-universe/internal/llm/llmtest"
	"github.com/ziadkadry99/lucky-universe/internal/slot"
)

const reading = `{"summary":"붉은 말의 해, 거침없이 달려요","daily":{"score":88,"lotto":[7,14,21,28,35,42],"initial":"ㅎ"}}`

func newTestServer(t *testing.T, steps ...llmtest.Step) (*Server, *llmtest.Provider) {
	t.Helper()
	mock := llmtest.New().OnComplete(steps...)
	gen := fortune.NewGenerator(mock, "mock-model", zap.NewNop())
	return NewServer(gen, slot.NewMachine(nil)), mock
}

func resultText(result *mcp.CallToolResult) string {
	for _, c := range result.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func TestToolDefinitions(t *testing.T) {
	tests := []struct {
		name     string
		tool     mcp.Tool
		wantName string
	}{
		{"generate_fortune", generateFortuneTool, "generate_fortune"},
		{"lucky_numbers", luckyNumbersTool, "lucky_numbers"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.tool.Name != tt.wantName {
				t.Errorf("tool name = %q, want %q", tt.tool.Name, tt.wantName)
			}
			if tt.tool.Description == "" {
				t.Error("tool description is empty")
			}
		})
	}

	if got := generateFortuneTool.InputSchema.Required; len(got) != 1 || got[0] != "birth_date" {
		t.Errorf("generate_fortune required = %v, want [birth_date]", got)
	}
}

func TestHandleGenerateFortune(t *testing.T) {
	s, mock := newTestServer(t, llmtest.Step{Text: reading})

	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]any{
		"birth_date": "1995-03-14",
		"gender":     "male",
		"mbti":       "intj",
	}

	result, err := s.handleGenerateFortune(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", resultText(result))
	}

	text := resultText(result)
	for _, want := range []string{"# 2026 럭키 유니버스", "붉은 말의 해", "88점", "7, 14, 21, 28, 35, 42"} {
		if !strings.Contains(text, want) {
			t.Errorf("markdown missing %q:\n%s", want, text)
		}
	}

	if mock.CompleteCount() != 1 {
		t.Fatalf("expected 1 completion, got %d", mock.CompleteCount())
	}
	if prompt := mock.Calls[0].Messages[0].Content; !strings.Contains(prompt, "MBTI INTJ") {
		t.Errorf("prompt should carry normalized MBTI, got %q", prompt)
	}
}

func TestHandleGenerateFortuneMissingBirthDate(t *testing.T) {
	s, mock := newTestServer(t, llmtest.Step{Text: reading})

	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]any{"mbti": "ENFP"}

	result, err := s.handleGenerateFortune(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsError {
		t.Error("expected error result for missing birth_date")
	}
	if mock.CompleteCount() != 0 {
		t.Errorf("provider should not be called, got %d calls", mock.CompleteCount())
	}
}

func TestHandleGenerateFortuneInvalidDate(t *testing.T) {
	s, _ := newTestServer(t, llmtest.Step{Text: reading})

	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]any{"birth_date": "14/03/1995"}

	result, err := s.handleGenerateFortune(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsError {
		t.Error("expected error result for malformed birth_date")
	}
}

func TestHandleGenerateFortuneUpstreamFailure(t *testing.T) {
	s, _ := newTestServer(t, llmtest.Step{Err: llmtest.Unavailable()})

	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]any{"birth_date": "1995-03-14"}

	result, err := s.handleGenerateFortune(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected error result")
	}
	if !strings.Contains(resultText(result), "fortune generation failed") {
		t.Errorf("unexpected message: %s", resultText(result))
	}
}

func TestHandleLuckyNumbersFromReading(t *testing.T) {
	s, _ := newTestServer(t, llmtest.Step{Text: reading})

	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]any{"birth_date": "1995-03-14"}

	result, err := s.handleLuckyNumbers(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", resultText(result))
	}

	want := "행운의 로또 번호: 7, 14, 21, 28, 35, 42\n행운의 초성: ㅎ"
	if got := resultText(result); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestHandleLuckyNumbersRandom(t *testing.T) {
	s, mock := newTestServer(t)

	result, err := s.handleLuckyNumbers(context.Background(), mcp.CallToolRequest{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", resultText(result))
	}
	if !strings.HasPrefix(resultText(result), "행운의 로또 번호: ") {
		t.Errorf("unexpected text: %q", resultText(result))
	}
	if mock.CompleteCount() != 0 {
		t.Errorf("random draw should not call the provider, got %d calls", mock.CompleteCount())
	}
}

func TestFormatNumbers(t *testing.T) {
	got := formatNumbers([]int{1, 2, 3, 4, 5, 6}, "?")
	want := "행운의 로또 번호: 1, 2, 3, 4, 5, 6\n행운의 초성: ?"
	if got != want {
		t.Errorf("formatNumbers = %q, want %q", got, want)
	}
}
