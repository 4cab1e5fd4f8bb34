package controllers

import (
	"net/http"

	"github.com/damienaltman42/sb1-u3qtxy/middleware"
	"github.com/damienaltman42/sb1-u3qtxy/services"
	"github.com/damienaltman42/sb1-u3qtxy/utils"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type SocialLinkController struct {
	links *services.SocialLinkService
	log   *zap.Logger
}

func NewSocialLinkController(svc *services.Services, log *zap.Logger) *SocialLinkController {
	return &SocialLinkController{links: svc.SocialLinks, log: log}
}

type CreateSocialLinkRequest struct {
	Platform string `json:"platform" validate:"required"`
	URL      string `json:"url" validate:"required,url,max=512"`
}

type UpdateSocialLinkRequest struct {
	Platform *string `json:"platform" validate:"omitempty,min=1"`
	URL      *string `json:"url" validate:"omitempty,url,max=512"`
}

// GET /social-links
func (c *SocialLinkController) List(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	links, err := c.links.ListByUser(r.Context(), uid)
	if err != nil {
		RespondError(w, r, c.log, "social_links.List", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Successfully", Data: links})
}

// POST /social-links
func (c *SocialLinkController) Create(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req CreateSocialLinkRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}
	l, err := c.links.Create(r.Context(), uid, req.Platform, req.URL)
	if err != nil {
		RespondError(w, r, c.log, "social_links.Create", err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, utils.APIResponse{Success: true, Message: "Social link created", Data: l})
}

// PUT /social-links/{id}
func (c *SocialLinkController) Update(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req UpdateSocialLinkRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}
	l, err := c.links.Update(r.Context(), mux.Vars(r)["id"], services.SocialLinkPatch{
		Platform: req.Platform,
		URL:      req.URL,
	}, uid)
	if err != nil {
		RespondError(w, r, c.log, "social_links.Update", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Social link updated", Data: l})
}

// DELETE /social-links/{id}
func (c *SocialLinkController) Delete(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	if err := c.links.Delete(r.Context(), mux.Vars(r)["id"], uid); err != nil {
		RespondError(w, r, c.log, "social_links.Delete", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Social link deleted"})
}
