package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/smartshopie/analytics-backend-go/internal/database/models"
	"github.com/smartshopie/analytics-backend-go/pkg/utils"
)

// GetAPIConfigurations serves the latest configuration per API type. Keys
// are masked before they leave the server.
func (h *Handlers) GetAPIConfigurations(c *gin.Context) {
	defer h.observeQuery("api_configurations", time.Now())

	configs, err := h.repos.Config.GetAPIConfigurations(c.Request.Context())
	if err != nil {
		h.log.WithError(err).Error("Failed to load API configurations")
		utils.SendReportError(c, err)
		return
	}
	if configs == nil {
		configs = []models.APIConfiguration{}
	}
	for i := range configs {
		configs[i].APIKey = maskKey(configs[i].APIKey)
	}
	utils.SendSuccess(c, configs)
}

// maskKey keeps enough of a key to recognize it and hides the rest.
func maskKey(key string) string {
	if len(key) <= 8 {
		return "********"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
