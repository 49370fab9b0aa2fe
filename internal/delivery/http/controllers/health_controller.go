package controllers

import (
	"net/http"

	"iamin/internal/delivery/http/helpers"
)

// HealthController reports process liveness.
type HealthController struct {
	StoreConfigured bool
}

func NewHealthController(storeConfigured bool) *HealthController {
	return &HealthController{StoreConfigured: storeConfigured}
}

// HealthPayload is the data object for GET /health.
type HealthPayload struct {
	Status          string `json:"status"`
	StoreConfigured bool   `json:"storeConfigured"`
}

// Health godoc
// @Summary Liveness check
// @Description Always 200 while the process is up. storeConfigured reports whether a store connection string is set.
// @Tags health
// @Produce json
// @Success 200 {object} helpers.APIResponse
// @Router /health [get]
func (c *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	helpers.WriteJSONSuccess(w, http.StatusOK, HealthPayload{
		Status:          "ok",
		StoreConfigured: c.StoreConfigured,
	})
}
