package models

const (
	// DefaultLimit is the max number of rows that are retrieved from the DB per listing API call
	DefaultLimit = 50
)

// ListOptions represents pagination options for list operations
type ListOptions struct {
	Limit  int `json:"limit"`  // Number of items to return
	Offset int `json:"offset"` // Number of items to skip
}

// WithDefaults returns a copy of the options with the default limit applied
// when none was set. A nil receiver yields pure defaults so callers may pass
// nil for "no preference".
func (o *ListOptions) WithDefaults() ListOptions {
	if o == nil {
		return ListOptions{Limit: DefaultLimit}
	}
	out := *o
	if out.Limit <= 0 {
		out.Limit = DefaultLimit
	}
	return out
}
