package querywrap

// TableOptions configures listing behavior
type TableOptions struct {
	DefaultPageSize int
	MaxPageSize     int
}

// DefaultTableOptions returns sensible defaults
func DefaultTableOptions() TableOptions {
	return TableOptions{
		DefaultPageSize: DefaultPageSize,
		MaxPageSize:     MaxPageSize,
	}
}

func (o TableOptions) normalized() TableOptions {
	if o.DefaultPageSize <= 0 {
		o.DefaultPageSize = DefaultPageSize
	}
	if o.MaxPageSize <= 0 {
		o.MaxPageSize = MaxPageSize
	}
	if o.DefaultPageSize > o.MaxPageSize {
		o.DefaultPageSize = o.MaxPageSize
	}
	return o
}

// FindOptions scopes a single listing
type FindOptions struct {
	TenantID    string // required when the table has a tenant column
	WithDeleted bool   // include soft-deleted rows
	Explain     bool
}

// Pagination is one page of a listing
type Pagination struct {
	Data         []map[string]any `json:"data"`
	Page         int              `json:"page"`
	PageSize     int              `json:"pageSize"`
	Total        int64            `json:"total"`
	ExplainSQL   string           `json:"explainSql,omitempty"`
	ExplainSteps []string         `json:"explainSteps,omitempty"`
}

// Statement is a rendered query and its bound arguments
type Statement struct {
	SQL  string `json:"sql"`
	Args []any  `json:"args"`
}

// Explanation describes how a record would be listed without running it
type Explanation struct {
	Count Statement `json:"count"`
	Page  Statement `json:"page"`
	Steps []string  `json:"steps"`
}
