package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/damienaltman42/sb1-u3qtxy/metrics"
	"github.com/damienaltman42/sb1-u3qtxy/middleware"
	"github.com/damienaltman42/sb1-u3qtxy/services"
	"github.com/damienaltman42/sb1-u3qtxy/utils"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type AccessCodeController struct {
	codes     *services.AccessCodeService
	publicURL string
	metrics   *metrics.Metrics
	log       *zap.Logger
}

func NewAccessCodeController(svc *services.Services, publicURL string, m *metrics.Metrics, log *zap.Logger) *AccessCodeController {
	return &AccessCodeController{codes: svc.AccessCodes, publicURL: publicURL, metrics: m, log: log}
}

type IssueCodeRequest struct {
	RouletteID string `json:"rouletteId" validate:"required"`
	TotalSpins int    `json:"totalSpins" validate:"required,min=1"`
	ExpiresIn  *int   `json:"expiresIn" validate:"omitempty,min=1"`
}

type VerifyCodeRequest struct {
	RouletteID string `json:"rouletteId" validate:"required"`
	Code       string `json:"code" validate:"required,max=16"`
}

type VerifyCodeResponse struct {
	ID         string     `json:"id"`
	SpinsLeft  int        `json:"spinsLeft"`
	TotalSpins int        `json:"totalSpins"`
	ExpiresAt  *time.Time `json:"expiresAt"`
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return "not_found"
	case errors.Is(err, services.ErrUnauthorized):
		return "unauthorized"
	default:
		return "error"
	}
}

// POST /access-codes
func (c *AccessCodeController) Issue(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req IssueCodeRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}
	ac, err := c.codes.Issue(r.Context(), services.IssueInput{
		RouletteID:    req.RouletteID,
		TotalSpins:    req.TotalSpins,
		ExpiresInDays: req.ExpiresIn,
	}, uid)
	if err != nil {
		RespondError(w, r, c.log, "access_codes.Issue", err)
		return
	}
	c.metrics.IncCodesIssued(1)
	utils.WriteJSON(w, http.StatusCreated, utils.APIResponse{Success: true, Message: "Access code created", Data: ac})
}

// POST /access-codes/verify
func (c *AccessCodeController) Verify(w http.ResponseWriter, r *http.Request) {
	var req VerifyCodeRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}
	v, err := c.codes.Verify(r.Context(), req.RouletteID, req.Code)
	if err != nil {
		c.metrics.IncCodeRejected(rejectionReason(err))
		RespondError(w, r, c.log, "access_codes.Verify", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Code is valid",
		Data: VerifyCodeResponse{
			ID:         v.ID,
			SpinsLeft:  v.SpinsLeft,
			TotalSpins: v.TotalSpins,
			ExpiresAt:  v.ExpiresAt,
		},
	})
}

// POST /access-codes/{id}/use
func (c *AccessCodeController) Use(w http.ResponseWriter, r *http.Request) {
	ac, err := c.codes.Consume(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		c.metrics.IncCodeRejected(rejectionReason(err))
		RespondError(w, r, c.log, "access_codes.Use", err)
		return
	}
	c.metrics.IncCodeConsumed()
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Spin consumed", Data: ac})
}

// GET /access-codes/{id}/qr
func (c *AccessCodeController) QR(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	ac, err := c.codes.GetOwned(r.Context(), mux.Vars(r)["id"], uid)
	if err != nil {
		RespondError(w, r, c.log, "access_codes.QR", err)
		return
	}
	png, err := utils.AccessCodeQR(c.publicURL, ac.RouletteID, ac.Code)
	if err != nil {
		RespondError(w, r, c.log, "access_codes.QR", err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

// DELETE /access-codes/{id}
func (c *AccessCodeController) Revoke(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	if err := c.codes.Revoke(r.Context(), mux.Vars(r)["id"], uid); err != nil {
		RespondError(w, r, c.log, "access_codes.Revoke", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Access code deleted"})
}
