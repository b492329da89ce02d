package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/dmitrijs2005/credkeeper/internal/common"
	"github.com/dmitrijs2005/credkeeper/internal/logging"
	"github.com/dmitrijs2005/credkeeper/internal/server/metrics"
	"github.com/dmitrijs2005/credkeeper/internal/server/models"
	"github.com/dmitrijs2005/credkeeper/internal/server/services"
	"github.com/dmitrijs2005/credkeeper/internal/server/validation"
)

const maxBodyBytes = 1 << 20

const (
	msgInvalidBody = "invalid request body"
	msgInternal    = "internal server error"
	msgSignedUp    = "user created successfully"
)

// AuthService is the account logic behind the handlers.
// *services.UserService implements it.
type AuthService interface {
	Signup(ctx context.Context, req validation.SignupRequest) (*models.User, error)
	Login(ctx context.Context, req validation.LoginRequest) (*services.LoginResult, error)
}

type signupResponse struct {
	Message string `json:"message"`
	UserID  string `json:"userId"`
}

type userData struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type loginResponse struct {
	UserData    userData `json:"userdata"`
	AccessToken string   `json:"accessToken"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type handlers struct {
	auth    AuthService
	metrics *metrics.Metrics
	logger  logging.Logger
}

func (h *handlers) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req validation.SignupRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.logger.Debug(r.Context(), "undecodable request body", "error", err.Error())
		h.metrics.RecordAuth(metrics.OpSignup, metrics.OutcomeInvalid)
		writeError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	user, err := h.auth.Signup(r.Context(), req)
	if err != nil {
		h.fail(w, metrics.OpSignup, err)
		return
	}

	h.metrics.RecordAuth(metrics.OpSignup, metrics.OutcomeSuccess)
	writeJSON(w, http.StatusCreated, signupResponse{Message: msgSignedUp, UserID: user.ID})
}

func (h *handlers) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req validation.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.logger.Debug(r.Context(), "undecodable request body", "error", err.Error())
		h.metrics.RecordAuth(metrics.OpLogin, metrics.OutcomeInvalid)
		writeError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	res, err := h.auth.Login(r.Context(), req)
	if err != nil {
		h.fail(w, metrics.OpLogin, err)
		return
	}

	h.metrics.RecordAuth(metrics.OpLogin, metrics.OutcomeSuccess)
	writeJSON(w, http.StatusOK, loginResponse{
		UserData: userData{
			ID:    res.User.ID,
			Name:  res.User.Name,
			Email: res.User.Email,
		},
		AccessToken: res.AccessToken,
	})
}

func (h *handlers) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handlers) fail(w http.ResponseWriter, op string, err error) {
	status, msg, outcome := classify(err)
	h.metrics.RecordAuth(op, outcome)
	writeError(w, status, msg)
}

// classify maps a service error to its HTTP status, client message and
// metrics outcome. Unknown errors are internal; their text is never sent.
func classify(err error) (int, string, string) {
	switch {
	case errors.Is(err, common.ErrorValidation):
		return http.StatusBadRequest, err.Error(), metrics.OutcomeInvalid
	case errors.Is(err, common.ErrorConflict):
		return http.StatusBadRequest, common.ErrorConflict.Error(), metrics.OutcomeConflict
	case errors.Is(err, common.ErrorUserNotFound):
		return http.StatusNotFound, common.ErrorUserNotFound.Error(), metrics.OutcomeNotFound
	case errors.Is(err, common.ErrorUnauthorized):
		return http.StatusUnauthorized, common.ErrorUnauthorized.Error(), metrics.OutcomeUnauthorized
	}
	return http.StatusInternalServerError, msgInternal, metrics.OutcomeError
}

var errTrailingData = errors.New("unexpected data after JSON body")

// decodeJSON reads exactly one JSON value from the request body.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errTrailingData
	}
	return nil
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
