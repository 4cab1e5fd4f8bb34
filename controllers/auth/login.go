package auth

import (
	"errors"
	"net/http"

	"github.com/damienaltman42/sb1-u3qtxy/controllers"
	"github.com/damienaltman42/sb1-u3qtxy/middleware"
	"github.com/damienaltman42/sb1-u3qtxy/services"
	"github.com/damienaltman42/sb1-u3qtxy/utils"
)

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// POST /auth/login
func (c *Controller) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}

	key := middleware.LoginKey(req.Email)
	if locked, retry := c.guard.IsLocked(r.Context(), key); locked {
		utils.WriteJSON(w, http.StatusTooManyRequests, utils.APIResponse{
			Success: false,
			Message: "Too many login attempts. Try again later.",
			Data:    map[string]interface{}{"retry_after_seconds": int(retry.Seconds())},
		})
		return
	}

	u, err := c.users.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrUnauthorized) {
			c.guard.RecordFailure(r.Context(), key)
		}
		controllers.RespondError(w, r, c.log, "auth.Login", err)
		return
	}
	c.guard.Reset(r.Context(), key)
	c.writeToken(w, r, http.StatusOK, "Login successful", u)
}
