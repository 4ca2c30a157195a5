package search

import (
	"net/url"
	"strings"
)

// Default GitHub search endpoints
const (
	DefaultPersonEndpoint     = "https://api.github.com/search/users"
	DefaultRepositoryEndpoint = "https://api.github.com/search/repositories"
)

// Scope qualifiers appended to the raw text
const (
	PersonQualifier     = " in:login"
	RepositoryQualifier = " in:full_name"
)

// QueryBuilder turns input text into the two request URLs
type QueryBuilder struct {
	personEndpoint     string
	repositoryEndpoint string
}

// NewQueryBuilder creates a builder for the given endpoints
func NewQueryBuilder(personEndpoint, repositoryEndpoint string) QueryBuilder {
	return QueryBuilder{
		personEndpoint:     personEndpoint,
		repositoryEndpoint: repositoryEndpoint,
	}
}

// PersonQuery returns the people search URL for text
func (b QueryBuilder) PersonQuery(text string) string {
	return withQuery(b.personEndpoint, text+PersonQualifier)
}

// RepositoryQuery returns the repository search URL for text
func (b QueryBuilder) RepositoryQuery(text string) string {
	return withQuery(b.repositoryEndpoint, text+RepositoryQualifier)
}

// withQuery appends q to endpoint. The text is only query-escaped, nothing
// is trimmed or validated.
func withQuery(endpoint, q string) string {
	sep := "?"
	if strings.Contains(endpoint, "?") {
		sep = "&"
	}
	return endpoint + sep + "q=" + url.QueryEscape(q)
}
