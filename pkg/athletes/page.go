package athletes

import (
	"errors"
	"fmt"

	"github.com/bytedance/sonic"
)

// ErrUnexpectedPayload is returned when a page body is not a JSON object.
var ErrUnexpectedPayload = errors.New("unexpected payload: page body is not a JSON object")

// Page is one decoded response of the statistics endpoint.
type Page struct {
	// Number is the 1-based page index this body was requested as.
	Number int

	// TotalPages is pagination.pages as reported by this response,
	// or 1 when the field is missing or not a positive number.
	TotalPages int

	// Athletes holds the raw athlete records in API order.
	Athletes []map[string]any
}

// DecodePage parses a response body. Only a body that is not a JSON object
// fails; any shape problem below the top level degrades to defaults.
func DecodePage(data []byte) (Page, error) {
	var body map[string]any
	if err := sonic.Unmarshal(data, &body); err != nil {
		return Page{}, fmt.Errorf("%w: %v", ErrUnexpectedPayload, err)
	}
	if body == nil {
		return Page{}, ErrUnexpectedPayload
	}

	page := Page{
		TotalPages: totalPages(object(body["pagination"])["pages"]),
	}

	raw, _ := body["athletes"].([]any)
	page.Athletes = make([]map[string]any, 0, len(raw))
	for _, a := range raw {
		// A non-object entry still counts as a player, with every column nil.
		page.Athletes = append(page.Athletes, object(a))
	}

	return page, nil
}

func totalPages(v any) int {
	var n int
	switch val := v.(type) {
	case float64:
		n = int(val)
	case int:
		n = val
	case int64:
		n = int(val)
	}
	if n < 1 {
		return 1
	}
	return n
}

// FlattenPage flattens every athlete of a page in API order.
func FlattenPage(page Page) []Row {
	rows := make([]Row, 0, len(page.Athletes))
	for _, athlete := range page.Athletes {
		rows = append(rows, Flatten(athlete))
	}
	return rows
}

// FlattenPages flattens pages in slice order, then API order within a page.
func FlattenPages(pages []Page) []Row {
	total := 0
	for _, p := range pages {
		total += len(p.Athletes)
	}
	rows := make([]Row, 0, total)
	for _, p := range pages {
		rows = append(rows, FlattenPage(p)...)
	}
	return rows
}
