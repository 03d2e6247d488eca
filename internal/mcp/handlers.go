package mcp

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ziadkadry99/lucky-universe/internal/fortune"
	"github.com/ziadkadry99/lucky-universe/internal/share"
)

// handleGenerateFortune runs a full reading and returns the share Markdown.
func (s *Server) handleGenerateFortune(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	birthDate, err := request.RequireString("birth_date")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: birth_date"), nil
	}

	u := fortune.UserData{
		BirthDate: birthDate,
		BirthTime: request.GetString("birth_time", ""),
		Gender:    request.GetString("gender", ""),
		MBTI:      request.GetString("mbti", ""),
	}
	u, err = fortune.Prepare(u)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	rec, err := s.fortunes.Generate(ctx, u)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("fortune generation failed: %v", err)), nil
	}

	return mcp.NewToolResultText(share.Markdown(rec, u)), nil
}

// handleLuckyNumbers spins the slot machine, optionally against a fresh
// reading's daily card.
func (s *Server) handleLuckyNumbers(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var (
		lotto   []int
		initial string
	)

	if birthDate := request.GetString("birth_date", ""); birthDate != "" {
		rec, err := s.fortunes.Generate(ctx, fortune.UserData{
			BirthDate: birthDate,
			MBTI:      request.GetString("mbti", ""),
		})
		if err != nil {
			var verr *fortune.ValidationError
			if errors.As(err, &verr) {
				return mcp.NewToolResultError(err.Error()), nil
			}
			return mcp.NewToolResultError(fmt.Sprintf("fortune generation failed: %v", err)), nil
		}
		lotto, initial = rec.Daily.Lotto, rec.Daily.Initial
	} else {
		// Without a reading the reels stop on a random draw.
		draw := s.slots.Draw()
		lotto, initial = draw.Numbers, draw.Initial
	}

	final := s.slots.Spin(lotto, initial).Final
	return mcp.NewToolResultText(formatNumbers(final.Numbers, final.Initial)), nil
}

func formatNumbers(numbers []int, initial string) string {
	parts := make([]string, len(numbers))
	for i, n := range numbers {
		parts[i] = strconv.Itoa(n)
	}
	return fmt.Sprintf("행운의 로또 번호: %s\n행운의 초성: %s", strings.Join(parts, ", "), initial)
}
