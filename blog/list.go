package blog

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/cases"

	"masterblog/storage/models"
)

// List returns the whole collection, ordered by field when one is given.
// Any direction other than "desc" sorts ascending. Posts with equal keys keep
// their stored order in both directions.
func (s *Service) List(ctx context.Context, field, direction string) ([]models.Post, error) {
	var key func(models.Post) string
	if field != "" {
		var ok bool
		if key, ok = sortKey(field); !ok {
			return nil, validationError("Invalid sort field: %s", field)
		}
	}

	posts, err := s.Storage.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read posts: %w", err)
	}
	if key == nil {
		return posts, nil
	}

	keys := make([]string, len(posts))
	for i, p := range posts {
		keys[i] = key(p)
	}
	idx := make([]int, len(posts))
	for i := range idx {
		idx[i] = i
	}
	desc := direction == SortDesc
	sort.SliceStable(idx, func(a, b int) bool {
		if desc {
			return keys[idx[a]] > keys[idx[b]]
		}
		return keys[idx[a]] < keys[idx[b]]
	})

	sorted := make([]models.Post, len(posts))
	for i, j := range idx {
		sorted[i] = posts[j]
	}
	return sorted, nil
}

func sortKey(field string) (func(models.Post) string, bool) {
	switch field {
	case "title":
		return func(p models.Post) string { return fold(p.Title) }, true
	case "content":
		return func(p models.Post) string { return fold(p.Content) }, true
	case "author":
		return func(p models.Post) string { return fold(p.Author) }, true
	case "date":
		return dateKey, true
	}
	return nil, false
}

// dateKey renders the date in a form whose lexical order is calendar order.
// Unparseable dates sort before every valid one.
func dateKey(p models.Post) string {
	t, err := models.ParseDate(p.Date)
	if err != nil {
		return ""
	}
	return t.Format(time.RFC3339)
}

func fold(s string) string {
	return cases.Fold().String(s)
}

func containsFolded(haystack, needle string) bool {
	return strings.Contains(fold(haystack), needle)
}
