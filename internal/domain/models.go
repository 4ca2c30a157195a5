package domain

// Origin tells which search source produced a ranked item
type Origin int

const (
	OriginPerson Origin = iota
	OriginRepository
)

// String returns the origin name used in logs and metrics
func (o Origin) String() string {
	switch o {
	case OriginPerson:
		return "person"
	case OriginRepository:
		return "repository"
	default:
		return "unknown"
	}
}

// Label returns the text shown next to a suggestion
func (o Origin) Label() string {
	switch o {
	case OriginPerson:
		return "user"
	case OriginRepository:
		return "repositories"
	default:
		return ""
	}
}

// RankedItem is a single suggestion in the merged result list
type RankedItem struct {
	ID     int64
	Value  string
	Origin Origin
}

// PersonItem is one entry of the people search response.
// Fields are pointers so a missing field can be told apart from a zero value.
type PersonItem struct {
	ID    *int64  `json:"id"`
	Login *string `json:"login"`
}

// RepositoryItem is one entry of the repository search response
type RepositoryItem struct {
	ID       *int64  `json:"id"`
	FullName *string `json:"full_name"`
}

// PersonSearchResponse is the raw people search payload
type PersonSearchResponse struct {
	TotalCount        int          `json:"total_count"`
	IncompleteResults bool         `json:"incomplete_results"`
	Items             []PersonItem `json:"items"`
}

// RepositorySearchResponse is the raw repository search payload
type RepositorySearchResponse struct {
	TotalCount        int              `json:"total_count"`
	IncompleteResults bool             `json:"incomplete_results"`
	Items             []RepositoryItem `json:"items"`
}
