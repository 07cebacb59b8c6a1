package handler

import (
	"net/http"

	"contractpro/model"
	"contractpro/service"

	"github.com/gin-gonic/gin"
)

// DashboardHandler exposes the dashboard controller's explicit state
// over HTTP. Filter and page state live in the controller, not in any
// ambient context.
type DashboardHandler struct {
	controller *service.DashboardController
}

func NewDashboardHandler(controller *service.DashboardController) *DashboardHandler {
	return &DashboardHandler{controller: controller}
}

type filtersRequest struct {
	Search string `json:"search"`
	Status string `json:"status"`
	Risk   string `json:"risk"`
}

type sortRequest struct {
	Key       string `json:"key"`
	Direction string `json:"direction"`
}

type pageRequest struct {
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}

// View returns the current visible page, loading on first access
func (h *DashboardHandler) View(c *gin.Context) {
	if !h.controller.Loaded() {
		if err := h.controller.Load(c.Request.Context()); err != nil {
			c.JSON(http.StatusBadGateway, h.controller.View())
			return
		}
	}
	c.JSON(http.StatusOK, h.controller.View())
}

// SetFilters replaces the active criteria; the page resets to 1
func (h *DashboardHandler) SetFilters(c *gin.Context) {
	var req filtersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	h.controller.SetFilter(model.Criteria{
		Search: req.Search,
		Status: req.Status,
		Risk:   req.Risk,
	})
	c.JSON(http.StatusOK, h.controller.View())
}

// SetSort changes the sort key and direction; the page is preserved
func (h *DashboardHandler) SetSort(c *gin.Context) {
	var req sortRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	dir := service.SortAsc
	if req.Direction == "desc" {
		dir = service.SortDesc
	}
	h.controller.SetSort(req.Key, dir)
	c.JSON(http.StatusOK, h.controller.View())
}

// SetPage navigates the pagination state
func (h *DashboardHandler) SetPage(c *gin.Context) {
	var req pageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if req.PageSize > 0 {
		h.controller.SetPageSize(req.PageSize)
	}
	if req.Page > 0 {
		h.controller.SetPage(req.Page)
	}
	c.JSON(http.StatusOK, h.controller.View())
}

// Refresh re-fetches the record set; this is also the retry action for
// the dashboard error state
func (h *DashboardHandler) Refresh(c *gin.Context) {
	if err := h.controller.Load(c.Request.Context()); err != nil {
		c.JSON(http.StatusBadGateway, h.controller.View())
		return
	}
	c.JSON(http.StatusOK, h.controller.View())
}
