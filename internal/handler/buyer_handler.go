package handler

import (
	"net/http"

	"tradescope/internal/middleware"
	"tradescope/internal/service"
	"tradescope/pkg/pagination"
	"tradescope/pkg/response"

	"github.com/gin-gonic/gin"
)

type BuyerHandler struct {
	buyerService service.BuyerService
}

func NewBuyerHandler(buyerService service.BuyerService) *BuyerHandler {
	return &BuyerHandler{buyerService: buyerService}
}

func (h *BuyerHandler) RegisterRoutes(router *gin.RouterGroup) {
	buyers := router.Group("/api/buyers")
	{
		buyers.GET("", middleware.RequireAuth(), h.ListBuyers)
		buyers.POST("", middleware.RequireAuth(), h.CreateBuyer)
		buyers.GET("/funnel", middleware.RequireAuth(), h.GetFunnel)
		buyers.GET("/:id", middleware.RequireAuth(), h.GetBuyer)
		buyers.PUT("/:id", middleware.RequireAuth(), h.UpdateBuyer)
		buyers.DELETE("/:id", middleware.RequireAuth(), h.DeleteBuyer)
		buyers.PUT("/:id/stage", middleware.RequireAuth(), h.MoveStage)
		buyers.POST("/:id/contacts", middleware.RequireAuth(), h.LogContact)
	}
}

// ListBuyers returns paginated buyers with optional stage/search filter
// @Summary      List buyers
// @Tags         buyers
// @Security     BearerAuth
// @Produce      json
// @Param        page    query  int     false  "Page number (default: 1)"
// @Param        limit   query  int     false  "Items per page (default: 10)"
// @Param        stage   query  string  false  "Filter by stage: LEAD, CONTACTED, QUOTED, NEGOTIATING, WON, LOST"
// @Param        search  query  string  false  "Search by company name or contact"
// @Success      200  {object}  response.Response
// @Router       /api/buyers [get]
func (h *BuyerHandler) ListBuyers(c *gin.Context) {
	params := pagination.Parse(c)

	buyers, total, err := h.buyerService.GetBuyers(c.Request.Context(), c.Query("stage"), c.Query("search"), params.Page, params.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.SuccessWithPagination(http.StatusOK, buyers, params.Page, params.Limit, total))
}

// CreateBuyer creates a new buyer card in the funnel
// @Summary      Create buyer
// @Tags         buyers
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body  service.CreateBuyerRequest  true  "Buyer payload"
// @Success      201  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/buyers [post]
func (h *BuyerHandler) CreateBuyer(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Unauthorized"))
		return
	}

	var req service.CreateBuyerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	buyer, err := h.buyerService.CreateBuyer(c.Request.Context(), userID, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, buyer))
}

// GetFunnel returns buyer counts per funnel stage
// @Summary      Funnel overview
// @Tags         buyers
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /api/buyers/funnel [get]
func (h *BuyerHandler) GetFunnel(c *gin.Context) {
	funnel, err := h.buyerService.GetFunnel(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, funnel))
}

// GetBuyer returns one buyer with its contact history
// @Summary      Get buyer
// @Tags         buyers
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Buyer ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/buyers/{id} [get]
func (h *BuyerHandler) GetBuyer(c *gin.Context) {
	buyer, err := h.buyerService.GetBuyer(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, buyer))
}

// UpdateBuyer updates a buyer's details
// @Summary      Update buyer
// @Tags         buyers
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path  string                      true  "Buyer ID"
// @Param        payload  body  service.UpdateBuyerRequest  true  "Update payload"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/buyers/{id} [put]
func (h *BuyerHandler) UpdateBuyer(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Unauthorized"))
		return
	}

	var req service.UpdateBuyerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	buyer, err := h.buyerService.UpdateBuyer(c.Request.Context(), userID, c.Param("id"), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, buyer))
}

// DeleteBuyer soft-deletes a buyer and its contacts
// @Summary      Delete buyer
// @Tags         buyers
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Buyer ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/buyers/{id} [delete]
func (h *BuyerHandler) DeleteBuyer(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Unauthorized"))
		return
	}

	if err := h.buyerService.DeleteBuyer(c.Request.Context(), userID, c.Param("id")); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"deleted": true}))
}

// MoveStage moves a buyer to another funnel stage
// @Summary      Move buyer stage
// @Tags         buyers
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path  string                    true  "Buyer ID"
// @Param        payload  body  service.MoveStageRequest  true  "Target stage"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/buyers/{id}/stage [put]
func (h *BuyerHandler) MoveStage(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Unauthorized"))
		return
	}

	var req service.MoveStageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	buyer, err := h.buyerService.MoveStage(c.Request.Context(), userID, c.Param("id"), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, buyer))
}

// LogContact records an outreach touchpoint against a buyer
// @Summary      Log buyer contact
// @Tags         buyers
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path  string                     true  "Buyer ID"
// @Param        payload  body  service.LogContactRequest  true  "Contact payload"
// @Success      201  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/buyers/{id}/contacts [post]
func (h *BuyerHandler) LogContact(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Unauthorized"))
		return
	}

	var req service.LogContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	buyer, err := h.buyerService.LogContact(c.Request.Context(), userID, c.Param("id"), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, buyer))
}
