package handler

import (
	"errors"
	"net/http"
	"strconv"

	"contractpro/model"
	"contractpro/service"

	"github.com/gin-gonic/gin"
)

type ContractHandler struct {
	store *service.ContractStore
}

func NewContractHandler(store *service.ContractStore) *ContractHandler {
	return &ContractHandler{store: store}
}

// List returns one page of contracts after filter, sort and pagination.
// Query params: search, status, risk, sort, order, page, page_size.
func (h *ContractHandler) List(c *gin.Context) {
	records, err := h.store.FetchAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch contracts"})
		return
	}

	criteria := model.Criteria{
		Search: c.Query("search"),
		Status: c.Query("status"),
		Risk:   c.Query("risk"),
	}

	order := service.SortAsc
	if c.Query("order") == "desc" {
		order = service.SortDesc
	}

	page := queryInt(c, "page", 1)
	pageSize := queryInt(c, "page_size", 10)

	filtered := service.FilterContracts(records, criteria)
	sorted := service.SortContracts(filtered, c.Query("sort"), order)
	result := service.Paginate(sorted, page, pageSize)

	c.JSON(http.StatusOK, gin.H{
		"contracts":   result.Items,
		"total_items": result.TotalItems,
		"total_pages": result.TotalPages,
		"page":        result.Page,
		"page_size":   result.PageSize,
	})
}

// Get returns a single contract with its clauses, insights and evidence
func (h *ContractHandler) Get(c *gin.Context) {
	contract, err := h.store.FetchByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Contract not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch contract"})
		return
	}

	c.JSON(http.StatusOK, contract)
}

// Create stores a new contract record
func (h *ContractHandler) Create(c *gin.Context) {
	var contract model.Contract
	if err := c.ShouldBindJSON(&contract); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	if contract.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Contract name is required"})
		return
	}

	contract.ID = "" // ids are store-assigned
	contract.Status = model.NormalizeStatus(contract.Status)
	contract.Risk = model.NormalizeRisk(contract.Risk)
	saved := h.store.Save(contract)
	c.JSON(http.StatusCreated, saved)
}

// Update replaces an existing contract
func (h *ContractHandler) Update(c *gin.Context) {
	var contract model.Contract
	if err := c.ShouldBindJSON(&contract); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	contract.Status = model.NormalizeStatus(contract.Status)
	contract.Risk = model.NormalizeRisk(contract.Risk)

	id := c.Param("id")
	if err := h.store.Update(id, contract); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Contract not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update contract"})
		return
	}

	contract.ID = id
	c.JSON(http.StatusOK, contract)
}

// Delete removes a contract
func (h *ContractHandler) Delete(c *gin.Context) {
	if err := h.store.Delete(c.Param("id")); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Contract not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete contract"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Contract deleted"})
}

// Stats tallies contracts by status and risk
func (h *ContractHandler) Stats(c *gin.Context) {
	records, err := h.store.FetchAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch contracts"})
		return
	}

	stats := gin.H{
		"total":       len(records),
		"active":      0,
		"expired":     0,
		"renewal_due": 0,
		"high_risk":   0,
		"medium_risk": 0,
		"low_risk":    0,
	}
	for _, r := range records {
		switch r.Status {
		case model.StatusActive:
			stats["active"] = stats["active"].(int) + 1
		case model.StatusExpired:
			stats["expired"] = stats["expired"].(int) + 1
		case model.StatusRenewalDue:
			stats["renewal_due"] = stats["renewal_due"].(int) + 1
		}
		switch r.Risk {
		case model.RiskHigh:
			stats["high_risk"] = stats["high_risk"].(int) + 1
		case model.RiskMedium:
			stats["medium_risk"] = stats["medium_risk"].(int) + 1
		case model.RiskLow:
			stats["low_risk"] = stats["low_risk"].(int) + 1
		}
	}

	c.JSON(http.StatusOK, stats)
}

func queryInt(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}
