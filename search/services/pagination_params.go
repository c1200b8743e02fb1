package services

import (
	"catalog-search-backend/search/models"
	"catalog-search-backend/utils/pagination"
)

// SetPaginationParams fills the pagination block of a result list, rendering
// a navigation URL for each page the window says exists.
func SetPaginationParams(list *models.SearchResultList, window pagination.Window, basePath, query string) {
	info := models.PaginationInfo{
		Offset: window.Offset,
		Limit:  window.Limit,
		Total:  window.Total,
	}
	if window.Previous != nil {
		info.Previous = pagination.GetPaginatedURL(basePath, *window.Previous, query)
	}
	if window.Next != nil {
		info.Next = pagination.GetPaginatedURL(basePath, *window.Next, query)
	}
	list.Pagination = info
}
