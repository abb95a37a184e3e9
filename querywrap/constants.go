package querywrap

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)
