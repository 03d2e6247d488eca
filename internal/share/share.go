// Package share renders a fortune record as a shareable Markdown card and
// HTML page.
package share

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"

	"github.com/ziadkadry99/lucky-universe/internal/fortune"
	"github.com/ziadkadry99/lucky-universe/internal/session"
	"github.com/ziadkadry99/lucky-universe/internal/talisman"
)

// Title heads every card.
const Title = "2026 럭키 유니버스"

var md = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithParserOptions(parser.WithAutoHeadingID()),
)

// Markdown renders the record as a Markdown document.
func Markdown(rec fortune.Record, u fortune.UserData) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", Title)
	if u.BirthDate != "" {
		fmt.Fprintf(&b, "_%s_\n\n", inline(userLine(u)))
	}
	fmt.Fprintf(&b, "> %s\n\n", inline(rec.Summary))
	b.WriteString(inline(strings.Join(rec.Hashtags, " ")))
	b.WriteString("\n\n")

	b.WriteString("## 2026 상세 운세\n\n")
	b.WriteString("| 분야 | 운세 |\n|---|---|\n")
	for _, row := range [][2]string{
		{"재물", rec.Details.Wealth},
		{"애정", rec.Details.Love},
		{"직업", rec.Details.Career},
		{"건강", rec.Details.Health},
	} {
		fmt.Fprintf(&b, "| %s | %s |\n", row[0], cell(row[1]))
	}
	b.WriteString("\n")

	b.WriteString("## 오늘의 운세 게임\n\n")
	fmt.Fprintf(&b, "- 오늘의 한마디: %s\n", inline(rec.Daily.TodaySummary))
	fmt.Fprintf(&b, "- 운세 점수: %d점\n", rec.Daily.Score)
	fmt.Fprintf(&b, "- 행운의 미션: %s\n", inline(rec.Daily.Mission))
	fmt.Fprintf(&b, "- 행운의 로또 번호: %s\n", joinInts(rec.Daily.Lotto))
	fmt.Fprintf(&b, "- 행운의 초성: %s\n\n", inline(rec.Daily.Initial))

	b.WriteString("## 오늘의 사랑 찾기\n\n")
	fmt.Fprintf(&b, "- 매력도: %d점\n", rec.LoveMatch.CharmScore)
	fmt.Fprintf(&b, "- 운명의 MBTI: %s\n", inline(rec.LoveMatch.BestMBTI))
	fmt.Fprintf(&b, "- 연애 조언: %s\n\n", inline(rec.LoveMatch.Advice))

	b.WriteString("## 2026 직업/재물\n\n")
	fmt.Fprintf(&b, "- 추천 직무: %s\n", inline(strings.Join(rec.CareerWealth.Jobs, ", ")))
	fmt.Fprintf(&b, "- 업무 스타일: %s\n", inline(rec.CareerWealth.WorkStyle))
	fmt.Fprintf(&b, "- 예상 수입: %s\n", inline(rec.CareerWealth.Salary))
	fmt.Fprintf(&b, "- 숨겨진 재능: %s\n\n", inline(rec.CareerWealth.HiddenSkill))

	b.WriteString("## 빌런 탐지기\n\n")
	fmt.Fprintf(&b, "%s\n\n", inline(rec.Villain))

	b.WriteString("## 대박 캘린더\n\n")
	for _, d := range rec.LuckyDates {
		fmt.Fprintf(&b, "- %s\n", inline(d))
	}
	return b.String()
}

// HTML renders the record (and talisman, if any) as a standalone page.
func HTML(rec fortune.Record, u fortune.UserData, img *talisman.Image) ([]byte, error) {
	var body bytes.Buffer
	if err := md.Convert([]byte(Markdown(rec, u)), &body); err != nil {
		return nil, fmt.Errorf("rendering markdown: %w", err)
	}

	data := pageData{Title: Title, Body: template.HTML(body.String())}
	if img != nil && strings.HasPrefix(img.DataURL, "data:image/") {
		data.ImageURL = template.URL(img.DataURL)
		data.Wish = img.Wish
	}

	var out bytes.Buffer
	if err := page.Execute(&out, data); err != nil {
		return nil, fmt.Errorf("rendering share page: %w", err)
	}
	return out.Bytes(), nil
}

// SessionGetter loads sessions for the share page.
type SessionGetter interface {
	Get(ctx context.Context, id string) (*session.Session, error)
}

// RegisterRoutes mounts GET /share/{id}.
func RegisterRoutes(r chi.Router, sessions SessionGetter) {
	r.Get("/share/{id}", shareHandler(sessions))
}

func shareHandler(sessions SessionGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := sessions.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			session.WriteError(w, err, nil, "")
			return
		}
		if sess.Record == nil {
			session.WriteError(w, session.ErrNoRecord, sess, "")
			return
		}
		out, err := HTML(*sess.Record, sess.User, sess.Talisman)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write(out)
	}
}

func userLine(u fortune.UserData) string {
	parts := []string{u.BirthDate + "생"}
	if u.BirthTime != "" {
		parts = append(parts, u.BirthTime)
	}
	if u.Gender != "" {
		parts = append(parts, u.Gender)
	}
	if u.MBTI != "" {
		parts = append(parts, u.MBTI)
	}
	return strings.Join(parts, " · ")
}

func joinInts(ns []int) string {
	s := make([]string, len(ns))
	for i, n := range ns {
		s[i] = strconv.Itoa(n)
	}
	return strings.Join(s, ", ")
}

// inline keeps model text on one line so it cannot open new blocks.
func inline(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func cell(s string) string {
	return strings.ReplaceAll(inline(s), "|", `\|`)
}
