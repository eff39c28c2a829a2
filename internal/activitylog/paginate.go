package activitylog

// PageSize is the fixed number of rows per table page.
const PageSize = 6

// Page is one slice of a sorted view.
type Page struct {
	Items      []Record `json:"items"`
	Page       int      `json:"page"`
	TotalPages int      `json:"total_pages"`
	TotalItems int      `json:"total_items"`
}

// TotalPages is never less than one, even for an empty view.
func TotalPages(total int) int {
	pages := (total + PageSize - 1) / PageSize
	if pages < 1 {
		return 1
	}
	return pages
}

// ClampPage bounds a requested page number to the available pages.
func ClampPage(page, total int) int {
	if page < 1 {
		return 1
	}
	if pages := TotalPages(total); page > pages {
		return pages
	}
	return page
}

// Paginate slices the requested page out of a sorted view.
func Paginate(sorted []Record, page int) Page {
	page = ClampPage(page, len(sorted))

	start := (page - 1) * PageSize
	end := start + PageSize
	if end > len(sorted) {
		end = len(sorted)
	}

	items := make([]Record, 0, end-start)
	items = append(items, sorted[start:end]...)

	return Page{
		Items:      items,
		Page:       page,
		TotalPages: TotalPages(len(sorted)),
		TotalItems: len(sorted),
	}
}
