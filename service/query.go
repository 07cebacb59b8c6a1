package service

import (
	"sort"
	"strings"

	"contractpro/model"
)

// SortDirection for contract sorting
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// Page is one display page of contracts plus pagination bookkeeping
type Page struct {
	Items      []model.Contract `json:"items"`
	TotalItems int              `json:"total_items"`
	TotalPages int              `json:"total_pages"`
	Page       int              `json:"page"`
	PageSize   int              `json:"page_size"`
}

// FilterContracts keeps records matching every active criteria dimension:
// case-insensitive substring match on name or parties, exact status match,
// exact risk match. Empty or "all" disables a dimension. Never errors;
// records with missing fields simply fail the substring/equality checks.
func FilterContracts(records []model.Contract, c model.Criteria) []model.Contract {
	search := strings.ToLower(strings.TrimSpace(c.Search))
	out := make([]model.Contract, 0, len(records))

	for _, r := range records {
		if search != "" &&
			!strings.Contains(strings.ToLower(r.Name), search) &&
			!strings.Contains(strings.ToLower(r.Parties), search) {
			continue
		}
		if c.Status != "" && c.Status != model.FilterAll && r.Status != c.Status {
			continue
		}
		if c.Risk != "" && c.Risk != model.FilterAll && r.Risk != c.Risk {
			continue
		}
		out = append(out, r)
	}

	return out
}

// SortContracts returns a sorted copy of records. The sort is stable so
// rows with equal keys keep their relative order across repeated sorts.
// An unknown or empty key preserves the input order.
func SortContracts(records []model.Contract, key string, dir SortDirection) []model.Contract {
	out := make([]model.Contract, len(records))
	copy(out, records)

	field := sortField(key)
	if field == nil {
		return out
	}

	sort.SliceStable(out, func(i, j int) bool {
		a := strings.ToLower(field(&out[i]))
		b := strings.ToLower(field(&out[j]))
		if dir == SortDesc {
			return a > b
		}
		return a < b
	})

	return out
}

func sortField(key string) func(*model.Contract) string {
	switch key {
	case "name":
		return func(c *model.Contract) string { return c.Name }
	case "parties":
		return func(c *model.Contract) string { return c.Parties }
	case "start":
		return func(c *model.Contract) string { return c.Start }
	case "expiry":
		return func(c *model.Contract) string { return c.Expiry }
	case "status":
		return func(c *model.Contract) string { return c.Status }
	case "risk":
		return func(c *model.Contract) string { return c.Risk }
	default:
		return nil
	}
}

// Paginate slices records into the requested page. TotalPages is 1 when
// records is empty: the dashboard always shows "page 1 of 1". The page
// number is clamped to [1, TotalPages], so out-of-range requests return
// the nearest valid page rather than an empty one.
func Paginate(records []model.Contract, page, pageSize int) Page {
	if pageSize < 1 {
		pageSize = 1
	}

	totalItems := len(records)
	totalPages := (totalItems + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}

	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if end > totalItems {
		end = totalItems
	}

	items := []model.Contract{}
	if start < totalItems {
		items = records[start:end]
	}

	return Page{
		Items:      items,
		TotalItems: totalItems,
		TotalPages: totalPages,
		Page:       page,
		PageSize:   pageSize,
	}
}
