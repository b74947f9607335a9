package filter

import "github.com/srini-crayon/tngrm-frontend-sub001/internal/models"

// DefaultPerPage is the admin table page size.
const DefaultPerPage = 10

// Page is one page of a filtered collection.
type Page[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
	Start      int `json:"start"`
	End        int `json:"end"`
}

// Paginate slices items into page (1-based). page < 1 is treated as 1 and
// perPage < 1 as DefaultPerPage. A page past the end is empty.
func Paginate[T any](items []T, page, perPage int) Page[T] {
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	if page < 1 {
		page = 1
	}
	total := len(items)
	totalPages := (total + perPage - 1) / perPage

	// Compare pages before multiplying; a huge page would overflow start.
	start := total
	if page-1 < totalPages {
		start = (page - 1) * perPage
	}
	end := start + perPage
	if end > total {
		end = total
	}

	out := make([]T, end-start)
	copy(out, items[start:end])
	return Page[T]{
		Items:      out,
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: totalPages,
		Start:      start,
		End:        end,
	}
}

// AssetTypes returns the distinct non-empty asset types in first-seen order.
func AssetTypes(agents []models.Agent) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, a := range agents {
		if a.AssetType == "" {
			continue
		}
		if _, ok := seen[a.AssetType]; ok {
			continue
		}
		seen[a.AssetType] = struct{}{}
		out = append(out, a.AssetType)
	}
	return out
}
