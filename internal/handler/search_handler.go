package handler

import (
	"net/http"

	"tradescope/internal/middleware"
	"tradescope/internal/service"
	"tradescope/pkg/pagination"
	"tradescope/pkg/response"

	"github.com/gin-gonic/gin"
)

type SearchHandler struct {
	searchService service.SearchService
}

func NewSearchHandler(searchService service.SearchService) *SearchHandler {
	return &SearchHandler{searchService: searchService}
}

func (h *SearchHandler) RegisterRoutes(router *gin.RouterGroup) {
	search := router.Group("/api/search")
	{
		search.POST("", middleware.RequireAuth(), h.Search)
		search.GET("/history", middleware.RequireAuth(), h.GetHistory)
		search.DELETE("/history/:id", middleware.RequireAuth(), h.DeleteHistory)
	}
}

// Search runs a trade-record query and returns one highlighted result page
// @Summary      Search trade records
// @Tags         search
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body  service.SearchRequest  true  "Search payload"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/search [post]
func (h *SearchHandler) Search(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Unauthorized"))
		return
	}

	var req service.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	result, err := h.searchService.Search(c.Request.Context(), userID, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// GetHistory returns the caller's saved searches, most recent first
// @Summary      List search history
// @Tags         search
// @Security     BearerAuth
// @Produce      json
// @Param        page   query  int  false  "Page number (default: 1)"
// @Param        limit  query  int  false  "Items per page (default: 10)"
// @Success      200  {object}  response.Response
// @Router       /api/search/history [get]
func (h *SearchHandler) GetHistory(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Unauthorized"))
		return
	}

	params := pagination.Parse(c)

	history, total, err := h.searchService.GetHistory(c.Request.Context(), userID, params.Page, params.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.SuccessWithPagination(http.StatusOK, history, params.Page, params.Limit, total))
}

// DeleteHistory removes one saved search belonging to the caller
// @Summary      Delete a search history entry
// @Tags         search
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "History entry ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/search/history/{id} [delete]
func (h *SearchHandler) DeleteHistory(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Unauthorized"))
		return
	}

	if err := h.searchService.DeleteHistory(c.Request.Context(), userID, c.Param("id")); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"deleted": true}))
}
