package auth

import (
	"net/http"

	"github.com/damienaltman42/sb1-u3qtxy/middleware"
	"github.com/damienaltman42/sb1-u3qtxy/utils"

	"go.uber.org/zap"
)

// POST /auth/logout revokes the presented access token.
func (c *Controller) Logout(w http.ResponseWriter, r *http.Request) {
	claims, err := middleware.BearerClaims(c.issuer, r)
	if err != nil {
		utils.WriteError(w, http.StatusUnauthorized, "Invalid token")
		return
	}
	if err := c.issuer.Revoke(r.Context(), claims); err != nil {
		c.log.Error("auth.Logout", zap.String("user_id", claims.UserID), zap.Error(err))
		utils.WriteError(w, http.StatusInternalServerError, "Server error")
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Logged out"})
}
