package auth

import (
	"net/http"

	"github.com/damienaltman42/sb1-u3qtxy/controllers"
	"github.com/damienaltman42/sb1-u3qtxy/middleware"
	"github.com/damienaltman42/sb1-u3qtxy/services"
)

type RegisterRequest struct {
	Email       string  `json:"email" validate:"required,email,max=255"`
	Username    string  `json:"username" validate:"required,min=3,max=100"`
	Password    string  `json:"password" validate:"required,min=6,max=72"`
	Role        string  `json:"role" validate:"omitempty,oneof=creator user"`
	Avatar      *string `json:"avatar" validate:"omitempty,url,max=512"`
	SocialLink  *string `json:"socialLink" validate:"omitempty,url,max=512"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
}

// POST /auth/register
func (c *Controller) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}
	u, err := c.users.Register(r.Context(), services.RegisterInput{
		Email:       req.Email,
		Username:    req.Username,
		Password:    req.Password,
		Role:        req.Role,
		Avatar:      req.Avatar,
		SocialLink:  req.SocialLink,
		Description: req.Description,
	})
	if err != nil {
		controllers.RespondError(w, r, c.log, "auth.Register", err)
		return
	}
	c.writeToken(w, r, http.StatusCreated, "Registration successful", u)
}
