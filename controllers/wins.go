package controllers

import (
	"net/http"

	"github.com/damienaltman42/sb1-u3qtxy/metrics"
	"github.com/damienaltman42/sb1-u3qtxy/middleware"
	"github.com/damienaltman42/sb1-u3qtxy/models"
	"github.com/damienaltman42/sb1-u3qtxy/services"
	"github.com/damienaltman42/sb1-u3qtxy/utils"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type WinController struct {
	wins    *services.WinService
	spins   *services.SpinService
	metrics *metrics.Metrics
	log     *zap.Logger
}

func NewWinController(svc *services.Services, m *metrics.Metrics, log *zap.Logger) *WinController {
	return &WinController{wins: svc.Wins, spins: svc.Spins, metrics: m, log: log}
}

type RecordWinRequest struct {
	RouletteID string           `json:"rouletteId" validate:"required"`
	Prize      models.PrizeItem `json:"prize" validate:"required"`
}

type SpinRequest struct {
	CodeID string `json:"codeId" validate:"required"`
}

type SpinResponse struct {
	Win       *models.Win `json:"win"`
	SpinsLeft int         `json:"spinsLeft"`
}

// POST /wins
func (c *WinController) Record(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req RecordWinRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}
	win, err := c.wins.Record(r.Context(), req.RouletteID, uid, req.Prize)
	if err != nil {
		RespondError(w, r, c.log, "wins.Record", err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, utils.APIResponse{Success: true, Message: "Win recorded", Data: win})
}

// GET /wins
func (c *WinController) List(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	wins, err := c.wins.ListByUser(r.Context(), uid)
	if err != nil {
		RespondError(w, r, c.log, "wins.List", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Successfully", Data: wins})
}

// POST /wins/{id}/claim
func (c *WinController) Claim(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	win, err := c.wins.Claim(r.Context(), mux.Vars(r)["id"], uid)
	if err != nil {
		RespondError(w, r, c.log, "wins.Claim", err)
		return
	}
	c.metrics.IncWinClaimed()
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Prize claimed", Data: win})
}

// POST /roulettes/{id}/spin draws on the server and spends one spin.
func (c *WinController) Spin(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req SpinRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}
	res, err := c.spins.Spin(r.Context(), mux.Vars(r)["id"], req.CodeID, uid)
	if err != nil {
		c.metrics.IncCodeRejected(rejectionReason(err))
		RespondError(w, r, c.log, "wins.Spin", err)
		return
	}
	c.metrics.IncSpin()
	c.metrics.IncCodeConsumed()
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Spin complete",
		Data:    SpinResponse{Win: res.Win, SpinsLeft: res.SpinsLeft},
	})
}
