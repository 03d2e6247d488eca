package fortune

import (
	"encoding/json"
	"math"
	"unicode/utf8"
)

// LottoSize is the number of lucky numbers in a daily card.
const LottoSize = 6

// LottoMax is the highest lottery ball.
const LottoMax = 45

// Default returns the all-defaults record.
func Default() Record {
	return Record{
		Summary:  "2026년은 당신의 해가 될 거예요!",
		Hashtags: []string{"#행운가득", "#적토마", "#대박"},
		Details: Details{
			Wealth: "재물운이 상승하는 시기입니다.",
			Love:   "사랑이 꽃피는 한 해가 될 거예요.",
			Career: "능력을 인정받는 기회가 찾아옵니다.",
			Health: "건강 관리에 유의하면 활기찬 한 해가 됩니다.",
		},
		Daily: Daily{
			TodaySummary: "오늘은 기분 좋은 일이 생길 것 같아요!",
			Score:        80,
			Mission:      "하늘 한번 쳐다보고 크게 웃기",
			Lotto:        []int{1, 7, 15, 23, 34, 42},
			Initial:      "ㅎ",
		},
		LoveMatch: LoveMatch{
			CharmScore: 85,
			BestMBTI:   "ENFP",
			Advice:     "자신감 있게 다가가세요!",
		},
		CareerWealth: CareerWealth{
			Jobs:        []string{"크리에이터", "CEO", "기획자"},
			WorkStyle:   "열정적인 리더형",
			Salary:      "예측 불가 대박!",
			HiddenSkill: "분위기 메이커",
		},
		Villain:    "부정적인 에너지를 주는 사람을 조심하세요.",
		LuckyDates: []string{"1월 1일", "5월 5일", "12월 25일"},
	}
}

// field describes one leaf of the record: where it lives in the raw
// object, how to accept a raw value and where to store it.
type field struct {
	group  string // "" for top level
	key    string
	accept func(any) (any, bool)
	assign func(*Record, any)
}

var schema = []field{
	{"", "summary", nonEmptyText, func(r *Record, v any) { r.Summary = v.(string) }},
	{"", "hashtags", textList, func(r *Record, v any) { r.Hashtags = v.([]string) }},

	{"details", "wealth", text, func(r *Record, v any) { r.Details.Wealth = v.(string) }},
	{"details", "love", text, func(r *Record, v any) { r.Details.Love = v.(string) }},
	{"details", "career", text, func(r *Record, v any) { r.Details.Career = v.(string) }},
	{"details", "health", text, func(r *Record, v any) { r.Details.Health = v.(string) }},

	{"daily", "todaySummary", nonEmptyText, func(r *Record, v any) { r.Daily.TodaySummary = v.(string) }},
	{"daily", "score", score, func(r *Record, v any) { r.Daily.Score = v.(int) }},
	{"daily", "mission", nonEmptyText, func(r *Record, v any) { r.Daily.Mission = v.(string) }},
	{"daily", "lotto", lotto, func(r *Record, v any) { r.Daily.Lotto = v.([]int) }},
	{"daily", "initial", initial, func(r *Record, v any) { r.Daily.Initial = v.(string) }},

	{"loveMatch", "charmScore", score, func(r *Record, v any) { r.LoveMatch.CharmScore = v.(int) }},
	{"loveMatch", "bestMbti", nonEmptyText, func(r *Record, v any) { r.LoveMatch.BestMBTI = v.(string) }},
	{"loveMatch", "advice", nonEmptyText, func(r *Record, v any) { r.LoveMatch.Advice = v.(string) }},

	{"careerWealth", "jobs", textList, func(r *Record, v any) { r.CareerWealth.Jobs = v.([]string) }},
	{"careerWealth", "workStyle", nonEmptyText, func(r *Record, v any) { r.CareerWealth.WorkStyle = v.(string) }},
	{"careerWealth", "salary", nonEmptyText, func(r *Record, v any) { r.CareerWealth.Salary = v.(string) }},
	{"careerWealth", "hiddenSkill", nonEmptyText, func(r *Record, v any) { r.CareerWealth.HiddenSkill = v.(string) }},

	{"", "villain", nonEmptyText, func(r *Record, v any) { r.Villain = v.(string) }},
	{"", "luckyDates", textList, func(r *Record, v any) { r.LuckyDates = v.([]string) }},
}

// Normalize turns an arbitrary decoded object into a complete Record.
// Each field is checked on its own and falls back to its default when
// missing or mistyped. A group that is not an object contributes nothing.
// Normalize never panics and does not modify raw.
func Normalize(raw map[string]any) Record {
	rec := Default()
	for _, f := range schema {
		v, ok := lookup(raw, f.group, f.key)
		if !ok {
			continue
		}
		if accepted, ok := f.accept(v); ok {
			f.assign(&rec, accepted)
		}
	}
	return rec
}

func lookup(raw map[string]any, group, key string) (any, bool) {
	if raw == nil {
		return nil, false
	}
	obj := raw
	if group != "" {
		g, ok := raw[group].(map[string]any)
		if !ok {
			return nil, false
		}
		obj = g
	}
	v, ok := obj[key]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

func text(v any) (any, bool) {
	s, ok := v.(string)
	return s, ok
}

func nonEmptyText(v any) (any, bool) {
	s, ok := v.(string)
	return s, ok && s != ""
}

func textList(v any) (any, bool) {
	switch items := v.(type) {
	case []string:
		if len(items) == 0 {
			return nil, false
		}
		return append([]string(nil), items...), true
	case []any:
		if len(items) == 0 {
			return nil, false
		}
		out := make([]string, 0, len(items))
		for _, item := range items {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	}
	return nil, false
}

func score(v any) (any, bool) {
	n, ok := number(v)
	if !ok || n < 0 || n > 100 {
		return nil, false
	}
	return int(math.Round(n)), true
}

func lotto(v any) (any, bool) {
	items, ok := v.([]any)
	if !ok {
		if ints, isInts := v.([]int); isInts {
			items = make([]any, len(ints))
			for i, n := range ints {
				items[i] = n
			}
		} else {
			return nil, false
		}
	}
	if len(items) != LottoSize {
		return nil, false
	}
	out := make([]int, 0, LottoSize)
	for _, item := range items {
		n, ok := number(item)
		if !ok || n != math.Trunc(n) || n < 1 || n > LottoMax {
			return nil, false
		}
		out = append(out, int(n))
	}
	return out, true
}

func initial(v any) (any, bool) {
	s, ok := v.(string)
	if !ok {
		return nil, false
	}
	if n := utf8.RuneCountInString(s); n < 1 || n > 2 {
		return nil, false
	}
	return s, true
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return n, true
	case int:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}
