package blog

import (
	"context"
	"fmt"

	"masterblog/storage/models"
)

type SearchQuery struct {
	Title   string
	Content string
	Author  string
	Date    string
}

// Search returns the posts matching at least one non-empty term. Text terms
// match case-insensitive substrings, the date must be equal. Empty terms never
// match, so an empty query finds nothing.
func (s *Service) Search(ctx context.Context, q SearchQuery) ([]models.Post, error) {
	posts, err := s.Storage.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read posts: %w", err)
	}

	title, content, author := fold(q.Title), fold(q.Content), fold(q.Author)
	results := make([]models.Post, 0)
	for _, p := range posts {
		titleMatch := title != "" && containsFolded(p.Title, title)
		contentMatch := content != "" && containsFolded(p.Content, content)
		authorMatch := author != "" && containsFolded(p.Author, author)
		dateMatch := q.Date != "" && q.Date == p.Date

		if titleMatch || contentMatch || authorMatch || dateMatch {
			results = append(results, p)
		}
	}
	return results, nil
}
