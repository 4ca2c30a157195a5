package search

import (
	"fmt"

	"gitsuggest/internal/domain"
)

// NormalizePeople maps a people search payload to ranked items
func NormalizePeople(resp domain.PersonSearchResponse) ([]domain.RankedItem, error) {
	if resp.Items == nil {
		return nil, fmt.Errorf("%w: people response has no items array", ErrMalformedItem)
	}

	items := make([]domain.RankedItem, 0, len(resp.Items))
	for i, it := range resp.Items {
		if it.ID == nil || it.Login == nil {
			return nil, fmt.Errorf("%w: person at index %d lacks id or login", ErrMalformedItem, i)
		}
		items = append(items, domain.RankedItem{
			ID:     *it.ID,
			Value:  *it.Login,
			Origin: domain.OriginPerson,
		})
	}
	return items, nil
}

// NormalizeRepositories maps a repository search payload to ranked items
func NormalizeRepositories(resp domain.RepositorySearchResponse) ([]domain.RankedItem, error) {
	if resp.Items == nil {
		return nil, fmt.Errorf("%w: repository response has no items array", ErrMalformedItem)
	}

	items := make([]domain.RankedItem, 0, len(resp.Items))
	for i, it := range resp.Items {
		if it.ID == nil || it.FullName == nil {
			return nil, fmt.Errorf("%w: repository at index %d lacks id or full_name", ErrMalformedItem, i)
		}
		items = append(items, domain.RankedItem{
			ID:     *it.ID,
			Value:  *it.FullName,
			Origin: domain.OriginRepository,
		})
	}
	return items, nil
}
