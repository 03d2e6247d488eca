package session

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/ziadkadry99/lucky-universe/internal/fortune"
	"github.com/ziadkadry99/lucky-universe/internal/llm"
	"github.com/ziadkadry99/lucky-universe/internal/talisman"
)

// User-facing notices for upstream failures.
const (
	NoticeFortuneFailed  = "운세 데이터를 받아오는데 실패했습니다. (API Error) 잠시 후 다시 시도해주세요."
	NoticeTalismanFailed = "이미지 생성 실패 (유료 모델 및 무료 모드 모두 실패)"
	NoticeChatFailed     = "점술가가 잠시 자리를 비웠어요. 잠시 후 다시 시도해주세요."
	NoticeNoAPIKey       = "API 키가 설정되지 않았습니다. 관리자에게 문의해주세요."
)

// ErrorResponse is the JSON body of every failed API call.
type ErrorResponse struct {
	Error  string               `json:"error"`
	View   View                 `json:"view,omitempty"`
	Fields []fortune.FieldError `json:"fields,omitempty"`
}

// StatusFor maps an error to its HTTP status.
func StatusFor(err error) int {
	var verr *fortune.ValidationError
	switch {
	case errors.As(err, &verr), errors.Is(err, fortune.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrIllegalTransition), errors.Is(err, ErrNoRecord):
		return http.StatusConflict
	case errors.Is(err, llm.ErrNoAPIKey):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return http.StatusGatewayTimeout
	case isUpstream(err):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func isUpstream(err error) bool {
	var se *llm.StatusError
	return errors.As(err, &se) ||
		errors.Is(err, llm.ErrRetriesExhausted) ||
		errors.Is(err, llm.ErrEmptyResponse) ||
		errors.Is(err, llm.ErrImagesUnsupported) ||
		errors.Is(err, talisman.ErrGenerationFailed)
}

// NewErrorResponse builds the body for err. upstreamNotice is shown for
// upstream failures.
func NewErrorResponse(err error, sess *Session, upstreamNotice string) ErrorResponse {
	resp := ErrorResponse{}
	if sess != nil {
		resp.View = sess.View
	}

	var verr *fortune.ValidationError
	switch {
	case errors.As(err, &verr):
		msgs := make([]string, 0, len(verr.Fields))
		for _, f := range verr.Fields {
			msgs = append(msgs, f.Message)
		}
		resp.Error = strings.Join(msgs, " ")
		resp.Fields = verr.Fields
	case errors.Is(err, ErrNotFound):
		resp.Error = "세션을 찾을 수 없어요. 처음부터 다시 시작해주세요."
	case errors.Is(err, ErrBusy):
		resp.Error = "아직 우주의 기운을 읽는 중이에요. 잠시만 기다려주세요."
	case errors.Is(err, ErrIllegalTransition):
		resp.Error = "지금 화면에서는 할 수 없는 동작이에요."
	case errors.Is(err, ErrNoRecord):
		resp.Error = "먼저 운세를 확인해주세요!"
	case errors.Is(err, llm.ErrNoAPIKey):
		resp.Error = NoticeNoAPIKey
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		resp.Error = "요청 시간이 초과되었어요. 잠시 후 다시 시도해주세요."
	case isUpstream(err):
		resp.Error = upstreamNotice
	default:
		resp.Error = "알 수 없는 오류가 발생했어요."
	}
	return resp
}

// WriteError writes err as an ErrorResponse.
func WriteError(w http.ResponseWriter, err error, sess *Session, upstreamNotice string) {
	writeJSON(w, StatusFor(err), NewErrorResponse(err, sess, upstreamNotice))
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
