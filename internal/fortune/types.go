package fortune

// UserData is what the visitor enters on the input screen.
type UserData struct {
	BirthDate string `json:"birthDate" validate:"required,datetime=2006-01-02"`
	BirthTime string `json:"birthTime,omitempty" validate:"omitempty,datetime=15:04"`
	Gender    string `json:"gender" validate:"omitempty,oneof=female male"`
	MBTI      string `json:"mbti" validate:"omitempty,oneof=ISTJ ISFJ INFJ INTJ ISTP ISFP INFP INTP ESTP ESFP ENFP ENTP ESTJ ESFJ ENFJ ENTJ"`
}

// Record is the fixed-shape fortune reading. Every field is populated;
// values the upstream model omitted or mistyped carry their defaults.
type Record struct {
	Summary      string       `json:"summary"`
	Hashtags     []string     `json:"hashtags"`
	Details      Details      `json:"details"`
	Daily        Daily        `json:"daily"`
	LoveMatch    LoveMatch    `json:"loveMatch"`
	CareerWealth CareerWealth `json:"careerWealth"`
	Villain      string       `json:"villain"`
	LuckyDates   []string     `json:"luckyDates"`
}

// Details holds the four yearly readings.
type Details struct {
	Wealth string `json:"wealth"`
	Love   string `json:"love"`
	Career string `json:"career"`
	Health string `json:"health"`
}

// Daily is today's game card.
type Daily struct {
	TodaySummary string `json:"todaySummary"`
	Score        int    `json:"score"`
	Mission      string `json:"mission"`
	Lotto        []int  `json:"lotto"`
	Initial      string `json:"initial"`
}

type LoveMatch struct {
	CharmScore int    `json:"charmScore"`
	BestMBTI   string `json:"bestMbti"`
	Advice     string `json:"advice"`
}

type CareerWealth struct {
	Jobs        []string `json:"jobs"`
	WorkStyle   string   `json:"workStyle"`
	Salary      string   `json:"salary"`
	HiddenSkill string   `json:"hiddenSkill"`
}
