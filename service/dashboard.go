package service

import (
	"context"
	"log/slog"
	"sync"

	"contractpro/model"
)

const defaultPageSize = 10

// DashboardView is the view-facing projection of the dashboard state:
// the visible page after filter, sort and pagination, plus the active
// criteria so renderers never need state of their own
type DashboardView struct {
	Items      []model.Contract `json:"items"`
	TotalItems int              `json:"total_items"`
	TotalPages int              `json:"total_pages"`
	Page       int              `json:"page"`
	PageSize   int              `json:"page_size"`
	Criteria   model.Criteria   `json:"criteria"`
	SortKey    string           `json:"sort_key"`
	SortDir    SortDirection    `json:"sort_dir"`
	Error      string           `json:"error,omitempty"`
}

// DashboardController owns the dashboard's filter, sort and page state
// explicitly and recomputes the visible page through the query engine.
// Store fetch failures collapse into a single user-facing error state;
// upload failures never reach it.
type DashboardController struct {
	mu       sync.Mutex
	store    *ContractStore
	records  []model.Contract
	criteria model.Criteria
	sortKey  string
	sortDir  SortDirection
	page     int
	pageSize int
	loaded   bool
	loadErr  string
}

func NewDashboardController(store *ContractStore) *DashboardController {
	return &DashboardController{
		store:    store,
		page:     1,
		pageSize: defaultPageSize,
		sortDir:  SortAsc,
	}
}

// Load fetches the authoritative record set from the store. A fetch
// failure replaces the list with an error state; re-invoking Load is the
// retry action.
func (d *DashboardController) Load(ctx context.Context) error {
	records, err := d.store.FetchAll(ctx)

	d.mu.Lock()
	defer d.mu.Unlock()

	if err != nil {
		d.loadErr = "failed to load contracts"
		slog.Error("dashboard load failed", "error", err)
		return err
	}

	d.records = records
	d.loaded = true
	d.loadErr = ""
	return nil
}

// SetFilter replaces the active criteria and resets to page 1: changing
// the candidate set invalidates prior page offsets
func (d *DashboardController) SetFilter(c model.Criteria) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.criteria = c
	d.page = 1
}

// SetSort changes the sort key and direction. A new key resets to page
// 1; toggling direction on the same key preserves the page, since it
// permutes the same candidate set.
func (d *DashboardController) SetSort(key string, dir SortDirection) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if key != d.sortKey {
		d.page = 1
	}
	d.sortKey = key
	if dir != SortDesc {
		dir = SortAsc
	}
	d.sortDir = dir
}

// SetPage moves to the requested page, clamped to the valid range for
// the current filtered set
func (d *DashboardController) SetPage(n int) {
	d.mu.Lock()
	defer d.mu.Unlock()

	filtered := FilterContracts(d.records, d.criteria)
	totalPages := (len(filtered) + d.pageSize - 1) / d.pageSize
	if totalPages < 1 {
		totalPages = 1
	}
	if n < 1 {
		n = 1
	}
	if n > totalPages {
		n = totalPages
	}
	d.page = n
}

// SetPageSize changes the page size and resets to page 1
func (d *DashboardController) SetPageSize(size int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if size < 1 {
		size = defaultPageSize
	}
	d.pageSize = size
	d.page = 1
}

// View recomputes the visible page: filter, then sort, then paginate
func (d *DashboardController) View() DashboardView {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.loadErr != "" {
		return DashboardView{
			Items:    []model.Contract{},
			Criteria: d.criteria,
			SortKey:  d.sortKey,
			SortDir:  d.sortDir,
			Error:    d.loadErr,
		}
	}

	filtered := FilterContracts(d.records, d.criteria)
	sorted := SortContracts(filtered, d.sortKey, d.sortDir)
	page := Paginate(sorted, d.page, d.pageSize)

	// keep the stored page consistent with the clamp Paginate applied
	d.page = page.Page

	return DashboardView{
		Items:      page.Items,
		TotalItems: page.TotalItems,
		TotalPages: page.TotalPages,
		Page:       page.Page,
		PageSize:   page.PageSize,
		Criteria:   d.criteria,
		SortKey:    d.sortKey,
		SortDir:    d.sortDir,
	}
}

// Loaded reports whether an initial Load has succeeded
func (d *DashboardController) Loaded() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.loaded
}

// OnUploadComplete refreshes the record set after an upload session
// finishes with at least one success, so new records appear once a real
// backend starts producing them
func (d *DashboardController) OnUploadComplete(stats model.UploadStats) {
	if stats.Success == 0 {
		return
	}
	slog.Info("upload session completed, refreshing contracts", "succeeded", stats.Success)
	if err := d.Load(context.Background()); err != nil {
		slog.Error("refresh after upload failed", "error", err)
	}
}
