package model

// Repository represents a GitHub repository listed for a user.
// Identity is the remote-assigned ID; the remaining fields may change
// between fetches without the repository becoming a different element.
type Repository struct {
	ID              int64
	Name            string
	FullName        *string // nil when the remote omitted it; distinct from "".
	Description     *string // nil when the remote omitted it; distinct from "".
	StargazersCount int
	Language        *string

	// IsFavorite is a local-only annotation, never decoded from the remote.
	IsFavorite bool
}

// SameAs reports whether r and other refer to the same remote repository.
func (r Repository) SameAs(other Repository) bool {
	return r.ID == other.ID
}

// IndexByID returns the position of the repository with the given ID, or -1.
func IndexByID(repos []Repository, id int64) int {
	for i := range repos {
		if repos[i].ID == id {
			return i
		}
	}
	return -1
}

// StringPtr returns a pointer to s. Handy for building optional fields.
func StringPtr(s string) *string {
	return &s
}
