package controllers

import (
	"fmt"
	"net/http"

	"github.com/damienaltman42/sb1-u3qtxy/middleware"
	"github.com/damienaltman42/sb1-u3qtxy/models"
	"github.com/damienaltman42/sb1-u3qtxy/services"
	"github.com/damienaltman42/sb1-u3qtxy/utils"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type RouletteController struct {
	roulettes *services.RouletteService
	codes     *services.AccessCodeService
	log       *zap.Logger
}

func NewRouletteController(svc *services.Services, log *zap.Logger) *RouletteController {
	return &RouletteController{roulettes: svc.Roulettes, codes: svc.AccessCodes, log: log}
}

type CreateRouletteRequest struct {
	Name        string                `json:"name" validate:"required,max=255"`
	Description *string               `json:"description"`
	Items       []models.PrizeItem    `json:"items" validate:"required,min=1"`
	Packages    []models.PricePackage `json:"packages"`
	Likes       *int                  `json:"likes" validate:"omitempty,min=0"`
}

// UpdateRouletteRequest is a partial update. Likes is accepted for client
// convenience but ignored: the counter belongs to the like ledger. An empty
// description clears it; null or absent leaves it unchanged.
type UpdateRouletteRequest struct {
	Name        *string                `json:"name" validate:"omitempty,max=255"`
	Description *string                `json:"description"`
	Items       *[]models.PrizeItem    `json:"items"`
	Packages    *[]models.PricePackage `json:"packages"`
	Likes       *int                   `json:"likes"`
}

// GET /roulettes
func (c *RouletteController) List(w http.ResponseWriter, r *http.Request) {
	list, err := c.roulettes.ListAll(r.Context())
	if err != nil {
		RespondError(w, r, c.log, "roulettes.List", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Successfully", Data: list})
}

// GET /roulettes/my
func (c *RouletteController) Mine(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	list, err := c.roulettes.ListByCreator(r.Context(), uid)
	if err != nil {
		RespondError(w, r, c.log, "roulettes.Mine", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Successfully", Data: list})
}

// GET /roulettes/{id}
func (c *RouletteController) Get(w http.ResponseWriter, r *http.Request) {
	rl, err := c.roulettes.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		RespondError(w, r, c.log, "roulettes.Get", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Successfully", Data: rl})
}

// POST /roulettes
func (c *RouletteController) Create(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req CreateRouletteRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}
	rl, err := c.roulettes.Create(r.Context(), services.RouletteInput{
		Name:        req.Name,
		Description: req.Description,
		Items:       req.Items,
		Packages:    req.Packages,
		Likes:       req.Likes,
	}, uid)
	if err != nil {
		RespondError(w, r, c.log, "roulettes.Create", err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, utils.APIResponse{Success: true, Message: "Roulette created", Data: rl})
}

// PUT /roulettes/{id}
func (c *RouletteController) Update(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req UpdateRouletteRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}
	rl, err := c.roulettes.Update(r.Context(), mux.Vars(r)["id"], services.RoulettePatch{
		Name:        req.Name,
		Description: req.Description,
		Items:       req.Items,
		Packages:    req.Packages,
	}, uid)
	if err != nil {
		RespondError(w, r, c.log, "roulettes.Update", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Roulette updated", Data: rl})
}

// DELETE /roulettes/{id}
func (c *RouletteController) Delete(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	if err := c.roulettes.Delete(r.Context(), mux.Vars(r)["id"], uid); err != nil {
		RespondError(w, r, c.log, "roulettes.Delete", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Roulette deleted"})
}

// GET /roulettes/{id}/access-codes
func (c *RouletteController) ListCodes(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	codes, err := c.codes.ListForRoulette(r.Context(), mux.Vars(r)["id"], uid)
	if err != nil {
		RespondError(w, r, c.log, "roulettes.ListCodes", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Successfully", Data: codes})
}

// GET /roulettes/{id}/access-codes/export
func (c *RouletteController) ExportCodes(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	id := mux.Vars(r)["id"]
	codes, err := c.codes.ListForRoulette(r.Context(), id, uid)
	if err != nil {
		RespondError(w, r, c.log, "roulettes.ExportCodes", err)
		return
	}
	buf, err := utils.AccessCodesWorkbook(codes)
	if err != nil {
		RespondError(w, r, c.log, "roulettes.ExportCodes", err)
		return
	}
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="access-codes-%s.xlsx"`, id))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
