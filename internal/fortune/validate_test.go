package fortune

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrepareAppliesDefaults(t *testing.T) {
	u, err := Prepare(UserData{BirthDate: " 2000-01-01 "})
	require.NoError(t, err)
	assert.Equal(t, "2000-01-01", u.BirthDate)
	assert.Equal(t, DefaultGender, u.Gender)
	assert.Equal(t, DefaultMBTI, u.MBTI)
}

func TestPrepareNormalizesCase(t *testing.T) {
	u, err := Prepare(UserData{BirthDate: "1995-12-31", BirthTime: "07:30", Gender: "Male", MBTI: "intj"})
	require.NoError(t, err)
	assert.Equal(t, "male", u.Gender)
	assert.Equal(t, "INTJ", u.MBTI)
}

func TestPrepareRejects(t *testing.T) {
	tests := []struct {
		name  string
		in    UserData
		field string
	}{
		{"missing birth date", UserData{}, "birthDate"},
		{"bad birth date", UserData{BirthDate: "01/01/2000"}, "birthDate"},
		{"bad birth time", UserData{BirthDate: "2000-01-01", BirthTime: "25:99"}, "birthTime"},
		{"bad gender", UserData{BirthDate: "2000-01-01", Gender: "robot"}, "gender"},
		{"bad mbti", UserData{BirthDate: "2000-01-01", MBTI: "ABCD"}, "mbti"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Prepare(tt.in)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidInput))

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			require.Len(t, verr.Fields, 1)
			assert.Equal(t, tt.field, verr.Fields[0].Field)
			assert.NotEmpty(t, verr.Fields[0].Message)
		})
	}
}

func TestMissingBirthDateMessage(t *testing.T) {
	_, err := Prepare(UserData{})
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "생년월일"))
}

func TestValidateWish(t *testing.T) {
	assert.NoError(t, ValidateWish("부자 되기"))
	err := ValidateWish("   ")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestBuildPromptUnknownBirthTime(t *testing.T) {
	p := BuildPrompt(UserData{BirthDate: "2000-01-01", Gender: "female", MBTI: "ENFP"})
	assert.Contains(t, p, "2000-01-01생")
	assert.Contains(t, p, "태어난 시간 모름")
	assert.Contains(t, p, "MBTI ENFP")

	p = BuildPrompt(UserData{BirthDate: "2000-01-01", BirthTime: "13:05", Gender: "male", MBTI: "ISTP"})
	assert.Contains(t, p, "태어난 시간 13:05")
}
