package fortune

import (
	"fmt"
	"strings"
)

// UnknownBirthTime is written into prompts when no birth time was given.
const UnknownBirthTime = "모름"

const fortunePromptTemplate = `역할: 30년 경력의 명리학자이자 MZ세대 멘토인 AI 점술가.
임무: 2026년(병오년, 적토마의 해) 종합 운세, '오늘'의 운세, '오늘'의 연애운 분석.
사용자 정보: %s생, 태어난 시간 %s, 성별 %s, MBTI %s.
톤앤매너: 키치하고 귀여운 말투(해요체), 이모지 적극 활용, 위트 있는 비유.

요청사항: 다음 항목들을 모두 분석하여 반드시 유효한 JSON 형식으로만 응답해주세요.

1. [2026 종합 요약] summary: 2026년 총운을 위트 있는 한 문장으로 요약.
2. [해시태그] hashtags: 핵심 키워드 해시태그 3개.
3. [2026 상세 운세] details: 재물(wealth), 애정(love), 직업(career), 건강(health) 4가지 분야별 조언.
4. [오늘의 운세 게임] daily:
   - todaySummary: 오늘 하루의 운세를 나타내는 짧고 굵은 한마디.
   - score: 오늘의 운세 점수 (0~100 숫자).
   - mission: 오늘 실천할 행운의 미션 1가지.
   - lotto: 행운의 로또 번호 6개 (1~45).
   - initial: 행운의 초성 1개.
5. [오늘의 사랑 찾기] loveMatch:
   - charmScore: *오늘* 나의 도화살/매력도 점수 (0~100 숫자).
   - bestMbti: *오늘* 가장 잘 맞는 운명의 MBTI.
   - advice: *오늘*을 위한 연애 조언 및 데이트 팁.
6. [2026 직업/재물] careerWealth:
   - jobs: 추천 직무명 3개.
   - workStyle: 업무 스타일 키워드.
   - salary: 2026년 예상 수입 (재미로, 예: "월 500 + α").
   - hiddenSkill: 숨겨진 재능 1가지.
7. [빌런 탐지기] villain: 2026년에 조심해야 할 사람 특징.
8. [대박 캘린더] luckyDates: 2026년 중 가장 운이 좋은 날짜 3개.

JSON Output Schema Example:
{
  "summary": "...",
  "hashtags": ["...", "...", "..."],
  "details": { "wealth": "...", "love": "...", "career": "...", "health": "..." },
  "daily": { "todaySummary": "...", "score": 90, "mission": "...", "lotto": [1, 2, 3, 4, 5, 6], "initial": "김" },
  "loveMatch": { "charmScore": 85, "bestMbti": "ENFP", "advice": "..." },
  "careerWealth": { "jobs": ["...", "...", "..."], "workStyle": "...", "salary": "...", "hiddenSkill": "..." },
  "villain": "...",
  "luckyDates": ["3월 5일", "7월 20일", "11월 11일"]
}`

// BuildPrompt renders the fortune request for u.
func BuildPrompt(u UserData) string {
	birthTime := strings.TrimSpace(u.BirthTime)
	if birthTime == "" {
		birthTime = UnknownBirthTime
	}
	return fmt.Sprintf(fortunePromptTemplate, u.BirthDate, birthTime, u.Gender, u.MBTI)
}
