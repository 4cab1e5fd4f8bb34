package controllers

import (
	"net/http"

	"github.com/damienaltman42/sb1-u3qtxy/metrics"
	"github.com/damienaltman42/sb1-u3qtxy/services"
	"github.com/damienaltman42/sb1-u3qtxy/utils"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type LikeController struct {
	likes   *services.LikeService
	metrics *metrics.Metrics
	log     *zap.Logger
}

func NewLikeController(svc *services.Services, m *metrics.Metrics, log *zap.Logger) *LikeController {
	return &LikeController{likes: svc.Likes, metrics: m, log: log}
}

// POST /likes/{rouletteId}
func (c *LikeController) Like(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	changed, err := c.likes.Like(r.Context(), mux.Vars(r)["rouletteId"], uid)
	if err != nil {
		RespondError(w, r, c.log, "likes.Like", err)
		return
	}
	if changed {
		c.metrics.IncLike("like")
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Liked"})
}

// DELETE /likes/{rouletteId}
func (c *LikeController) Unlike(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	changed, err := c.likes.Unlike(r.Context(), mux.Vars(r)["rouletteId"], uid)
	if err != nil {
		RespondError(w, r, c.log, "likes.Unlike", err)
		return
	}
	if changed {
		c.metrics.IncLike("unlike")
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Unliked"})
}

// GET /likes
func (c *LikeController) List(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	ids, err := c.likes.ListLikedRouletteIDs(r.Context(), uid)
	if err != nil {
		RespondError(w, r, c.log, "likes.List", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Successfully", Data: ids})
}
