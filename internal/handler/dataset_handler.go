package handler

import (
	"net/http"

	"tradescope/internal/middleware"
	"tradescope/internal/service"
	"tradescope/pkg/response"

	"github.com/gin-gonic/gin"
)

type DatasetHandler struct {
	datasetService service.DatasetService
}

func NewDatasetHandler(datasetService service.DatasetService) *DatasetHandler {
	return &DatasetHandler{datasetService: datasetService}
}

func (h *DatasetHandler) RegisterRoutes(router *gin.RouterGroup) {
	dataset := router.Group("/api/dataset")
	{
		dataset.GET("/status", middleware.RequireAuth(), h.GetStatus)
		dataset.POST("/reload", middleware.RequireAuth("admin"), h.Reload)
	}
}

// GetStatus reports the dataset path and loaded record count
// @Summary      Dataset status
// @Tags         dataset
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /api/dataset/status [get]
func (h *DatasetHandler) GetStatus(c *gin.Context) {
	c.JSON(http.StatusOK, response.Success(http.StatusOK, h.datasetService.Status(c.Request.Context())))
}

// Reload re-reads the CSV export and swaps the in-memory collection (admin only)
// @Summary      Reload dataset
// @Tags         dataset
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response
// @Failure      500  {object}  response.Response
// @Router       /api/dataset/reload [post]
func (h *DatasetHandler) Reload(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Unauthorized"))
		return
	}

	status, err := h.datasetService.Reload(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, status))
}
