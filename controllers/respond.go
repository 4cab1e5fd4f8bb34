package controllers

import (
	"errors"
	"net/http"

	"github.com/damienaltman42/sb1-u3qtxy/services"
	"github.com/damienaltman42/sb1-u3qtxy/utils"

	"go.uber.org/zap"
)

// StatusFor maps a service error kind to its HTTP status.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, services.ErrInvalid):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// RespondError writes err as an envelope. Domain errors carry their own
// message; anything else is logged under op and hidden behind a generic one.
func RespondError(w http.ResponseWriter, r *http.Request, log *zap.Logger, op string, err error) {
	var se *services.Error
	if errors.As(err, &se) {
		utils.WriteError(w, StatusFor(se), se.Message)
		return
	}
	log.Error(op,
		zap.String("request_id", utils.GetRequestID(r.Context())),
		zap.Error(err),
	)
	utils.WriteError(w, http.StatusInternalServerError, "Server error")
}

// currentUser returns the authenticated user id or writes 401.
func currentUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	uid, ok := utils.GetUserID(r)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return "", false
	}
	return uid, true
}
