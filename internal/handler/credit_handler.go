package handler

import (
	"net/http"

	"tradescope/internal/middleware"
	"tradescope/internal/service"
	"tradescope/pkg/pagination"
	"tradescope/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type GrantCreditsRequest struct {
	UserID      string          `json:"user_id" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Description string          `json:"description"`
}

type CreditHandler struct {
	creditService service.CreditService
}

func NewCreditHandler(creditService service.CreditService) *CreditHandler {
	return &CreditHandler{creditService: creditService}
}

func (h *CreditHandler) RegisterRoutes(router *gin.RouterGroup) {
	credits := router.Group("/api/credits")
	{
		credits.GET("/balance", middleware.RequireAuth(), h.GetBalance)
		credits.GET("/entries", middleware.RequireAuth(), h.ListEntries)
		credits.POST("/grant", middleware.RequireAuth("admin"), h.Grant)
	}
}

// GetBalance returns the caller's current credit balance
// @Summary      Credit balance
// @Tags         credits
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /api/credits/balance [get]
func (h *CreditHandler) GetBalance(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Unauthorized"))
		return
	}

	balance, err := h.creditService.Balance(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, balance))
}

// ListEntries returns the caller's credit ledger, most recent first
// @Summary      Credit ledger
// @Tags         credits
// @Security     BearerAuth
// @Produce      json
// @Param        page   query  int  false  "Page number (default: 1)"
// @Param        limit  query  int  false  "Items per page (default: 10)"
// @Success      200  {object}  response.Response
// @Router       /api/credits/entries [get]
func (h *CreditHandler) ListEntries(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Unauthorized"))
		return
	}

	params := pagination.Parse(c)

	entries, total, err := h.creditService.GetEntries(c.Request.Context(), userID, params.Page, params.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.SuccessWithPagination(http.StatusOK, entries, params.Page, params.Limit, total))
}

// Grant adds credits to a user's balance (admin only)
// @Summary      Grant credits
// @Tags         credits
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body  handler.GrantCreditsRequest  true  "Grant payload"
// @Success      201  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/credits/grant [post]
func (h *CreditHandler) Grant(c *gin.Context) {
	var req GrantCreditsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	targetID, err := uuid.Parse(req.UserID)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid user_id"))
		return
	}

	entry, err := h.creditService.Grant(c.Request.Context(), targetID, req.Amount, req.Description)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, entry))
}
