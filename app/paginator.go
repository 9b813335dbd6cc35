package app

import (
	"github.com/inkwell-app/inkwell-be/model"
)

// FeedPageSize is the fixed number of posts on a feed page.
const FeedPageSize = 10

// Page is one slice of a feed plus the metadata the presentation layer
// needs to render navigation.
type Page struct {
	Posts     []*model.Post `json:"posts"`
	Number    int           `json:"page"`
	PageCount int           `json:"pageCount"`
	Total     int           `json:"total"`
}

// clampPage resolves a requested 1-based page number against a total
// record count. Out-of-range requests clamp to the nearest valid page
// instead of erroring; an empty feed still has page 1.
func clampPage(requested, total int) (page, offset, pageCount int) {
	pageCount = (total + FeedPageSize - 1) / FeedPageSize
	if pageCount < 1 {
		pageCount = 1
	}
	page = requested
	if page < 1 {
		page = 1
	}
	if page > pageCount {
		page = pageCount
	}
	return page, (page - 1) * FeedPageSize, pageCount
}
