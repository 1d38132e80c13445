package handler

import (
	"errors"
	"net/http"

	"tradescope/internal/middleware"
	"tradescope/internal/service"
	"tradescope/pkg/pagination"
	"tradescope/pkg/response"

	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	reportService service.ReportService
}

func NewReportHandler(reportService service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

func (h *ReportHandler) RegisterRoutes(router *gin.RouterGroup) {
	reports := router.Group("/api/reports")
	{
		reports.GET("", middleware.RequireAuth(), h.ListReports)
		reports.POST("", middleware.RequireAuth(), h.GenerateReport)
		reports.GET("/:id", middleware.RequireAuth(), h.GetReport)
	}
}

// GenerateReport charges the report fee and produces an AI market report
// @Summary      Generate report
// @Tags         reports
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body  service.GenerateReportRequest  true  "Report payload"
// @Success      201  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      402  {object}  response.Response
// @Router       /api/reports [post]
func (h *ReportHandler) GenerateReport(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Unauthorized"))
		return
	}

	var req service.GenerateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	report, err := h.reportService.Generate(c.Request.Context(), userID, req)
	if err != nil {
		if errors.Is(err, service.ErrInsufficientCredits) {
			c.JSON(http.StatusPaymentRequired, response.Error(http.StatusPaymentRequired, err.Error()))
			return
		}
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, report))
}

// GetReport returns one of the caller's reports
// @Summary      Get report
// @Tags         reports
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Report ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/reports/{id} [get]
func (h *ReportHandler) GetReport(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Unauthorized"))
		return
	}

	report, err := h.reportService.GetReport(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, report))
}

// ListReports returns the caller's reports, most recent first
// @Summary      List reports
// @Tags         reports
// @Security     BearerAuth
// @Produce      json
// @Param        page   query  int  false  "Page number (default: 1)"
// @Param        limit  query  int  false  "Items per page (default: 10)"
// @Success      200  {object}  response.Response
// @Router       /api/reports [get]
func (h *ReportHandler) ListReports(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Unauthorized"))
		return
	}

	params := pagination.Parse(c)

	reports, total, err := h.reportService.GetReports(c.Request.Context(), userID, params.Page, params.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.SuccessWithPagination(http.StatusOK, reports, params.Page, params.Limit, total))
}
