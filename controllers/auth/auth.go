package auth

import (
	"net/http"
	"time"

	"github.com/damienaltman42/sb1-u3qtxy/controllers"
	"github.com/damienaltman42/sb1-u3qtxy/middleware"
	"github.com/damienaltman42/sb1-u3qtxy/models"
	"github.com/damienaltman42/sb1-u3qtxy/services"
	"github.com/damienaltman42/sb1-u3qtxy/utils"

	"go.uber.org/zap"
)

// Controller serves /auth/*.
type Controller struct {
	users  *services.UserService
	issuer *utils.TokenIssuer
	guard  *middleware.LoginGuard
	log    *zap.Logger
}

func NewController(users *services.UserService, issuer *utils.TokenIssuer, guard *middleware.LoginGuard, log *zap.Logger) *Controller {
	return &Controller{users: users, issuer: issuer, guard: guard, log: log}
}

// TokenResponse is returned by register and login.
type TokenResponse struct {
	AccessToken  string       `json:"accessToken"`
	AccessExpire string       `json:"accessExpire"`
	User         *models.User `json:"user"`
}

func (c *Controller) writeToken(w http.ResponseWriter, r *http.Request, status int, message string, u *models.User) {
	token, exp, err := c.issuer.GenerateAccessToken(u.ID, u.Role)
	if err != nil {
		controllers.RespondError(w, r, c.log, "auth.token", err)
		return
	}
	utils.WriteJSON(w, status, utils.APIResponse{
		Success: true,
		Message: message,
		Data: TokenResponse{
			AccessToken:  token,
			AccessExpire: exp.UTC().Format(time.RFC3339),
			User:         u,
		},
	})
}
