package session

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ziadkadry99/lucky-universe/internal/fortune"
)

// RegisterRoutes mounts session endpoints on the given router.
func RegisterRoutes(r chi.Router, svc *Service) {
	r.Post("/api/sessions", createHandler(svc))
	r.Get("/api/sessions/{id}", getHandler(svc))
	r.Delete("/api/sessions/{id}", deleteHandler(svc))

	r.Post("/api/sessions/{id}/start", eventHandler(svc, EventStart))
	r.Post("/api/sessions/{id}/fortune", fortuneHandler(svc))
	r.Post("/api/sessions/{id}/talisman/open", eventHandler(svc, EventOpenTalisman))
	r.Post("/api/sessions/{id}/talisman", talismanHandler(svc))
	r.Post("/api/sessions/{id}/talisman/reset", eventHandler(svc, EventResetTalisman))
	r.Post("/api/sessions/{id}/back", eventHandler(svc, EventBack))
	r.Post("/api/sessions/{id}/chat/open", eventHandler(svc, EventOpenChat))
	r.Post("/api/sessions/{id}/reset", eventHandler(svc, EventReset))
	r.Get("/api/sessions/{id}/slot", slotHandler(svc))
}

func createHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := svc.Create(r.Context())
		if err != nil {
			svc.logger.Error("creating session", zap.Error(err))
			WriteError(w, err, nil, "")
			return
		}
		writeJSON(w, http.StatusCreated, sess)
	}
}

func getHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := svc.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			WriteError(w, err, nil, "")
			return
		}
		writeJSON(w, http.StatusOK, sess)
	}
}

func deleteHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
			WriteError(w, err, nil, "")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func eventHandler(svc *Service, ev Event) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := svc.Apply(r.Context(), chi.URLParam(r, "id"), ev)
		if err != nil {
			WriteError(w, err, sess, "")
			return
		}
		writeJSON(w, http.StatusOK, sess)
	}
}

func fortuneHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var u fortune.UserData
		if err := json.NewDecoder(r.Body).Decode(&u); err != nil {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
			return
		}
		sess, err := svc.SubmitFortune(r.Context(), chi.URLParam(r, "id"), u)
		if err != nil {
			WriteError(w, err, sess, NoticeFortuneFailed)
			return
		}
		writeJSON(w, http.StatusOK, sess)
	}
}

type talismanRequest struct {
	Wish string `json:"wish"`
}

func talismanHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req talismanRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
			return
		}
		sess, err := svc.SubmitTalisman(r.Context(), chi.URLParam(r, "id"), req.Wish)
		if err != nil {
			WriteError(w, err, sess, NoticeTalismanFailed)
			return
		}
		writeJSON(w, http.StatusOK, sess)
	}
}

func slotHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		spin, err := svc.Spin(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			WriteError(w, err, nil, "")
			return
		}
		writeJSON(w, http.StatusOK, spin)
	}
}
