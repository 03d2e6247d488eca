package fortune

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidInput is returned when user data fails validation. It is
// always reported before any upstream call is made.
var ErrInvalidInput = errors.New("invalid input")

// Default user values, matching the input screen's initial state.
const (
	DefaultGender = "female"
	DefaultMBTI   = "ENFP"
)

// FieldError is a single human-readable validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError lists every failing field.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Message)
	}
	return fmt.Sprintf("%s: %s", ErrInvalidInput, strings.Join(msgs, "; "))
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// Prepare trims and defaults the user data, then validates it.
func Prepare(u UserData) (UserData, error) {
	u.BirthDate = strings.TrimSpace(u.BirthDate)
	u.BirthTime = strings.TrimSpace(u.BirthTime)
	u.Gender = strings.ToLower(strings.TrimSpace(u.Gender))
	u.MBTI = strings.ToUpper(strings.TrimSpace(u.MBTI))
	if u.Gender == "" {
		u.Gender = DefaultGender
	}
	if u.MBTI == "" {
		u.MBTI = DefaultMBTI
	}

	if err := getValidator().Struct(u); err != nil {
		return u, translate(err)
	}
	return u, nil
}

// ValidateWish checks the talisman wish.
func ValidateWish(wish string) error {
	if strings.TrimSpace(wish) == "" {
		return &ValidationError{Fields: []FieldError{{Field: "wish", Message: "소원을 입력해주세요!"}}}
	}
	return nil
}

func translate(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	out := &ValidationError{}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{Field: fe.Field(), Message: fieldMessage(fe)})
	}
	return out
}

func fieldLabel(field string) string {
	switch field {
	case "birthDate":
		return "생년월일"
	case "birthTime":
		return "태어난 시간"
	case "gender":
		return "성별"
	case "mbti":
		return "MBTI"
	}
	return field
}

func fieldMessage(fe validator.FieldError) string {
	label := fieldLabel(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s을(를) 입력해주세요!", label)
	case "datetime":
		return fmt.Sprintf("%s 형식이 올바르지 않아요 (%s)", label, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s은(는) 다음 중 하나여야 해요: %s", label, fe.Param())
	default:
		return fmt.Sprintf("%s 검증 실패 (%s)", label, fe.Tag())
	}
}
