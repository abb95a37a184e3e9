package querywrap

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/nonibytes/querywrap/querywrap/query"
	"github.com/nonibytes/querywrap/querywrap/storage"
)

// ColumnType specifies the SQL type family of a column
type ColumnType = storage.ColumnType

const (
	ColumnText      = storage.ColumnText
	ColumnInt       = storage.ColumnInt
	ColumnFloat     = storage.ColumnFloat
	ColumnBool      = storage.ColumnBool
	ColumnTimestamp = storage.ColumnTimestamp
)

// Column defines one column of a table
type Column struct {
	Name     string     `json:"name"`
	Type     ColumnType `json:"type"`
	Nullable bool       `json:"nullable,omitempty"`
}

// TableSpec describes a table that records are listed from
type TableSpec struct {
	Name             string   `json:"name"`
	Columns          []Column `json:"columns"`
	PrimaryKey       string   `json:"primary_key"`
	TenantColumn     string   `json:"tenant_column,omitempty"`
	SoftDeleteColumn string   `json:"soft_delete_column,omitempty"`
	DefaultSort      string   `json:"default_sort,omitempty"`
	DefaultOrder     string   `json:"default_order,omitempty"`
}

var validIdentRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Validate checks if the spec is valid
func (s TableSpec) Validate() error {
	if !validIdentRe.MatchString(s.Name) {
		return SchemaError(fmt.Sprintf("invalid table name: %q (must match ^[A-Za-z_][A-Za-z0-9_]*$)", s.Name))
	}
	if len(s.Columns) == 0 {
		return SchemaError("table must have at least one column")
	}

	seen := make(map[string]Column, len(s.Columns))
	for _, c := range s.Columns {
		if !validIdentRe.MatchString(c.Name) {
			return SchemaError(fmt.Sprintf("invalid column name: %q", c.Name))
		}
		if query.IsIgnored(c.Name) {
			return SchemaError(fmt.Sprintf("column name '%s' is reserved for listing parameters", c.Name))
		}
		if _, dup := seen[c.Name]; dup {
			return SchemaError(fmt.Sprintf("duplicate column '%s'", c.Name))
		}
		switch c.Type {
		case ColumnText, ColumnInt, ColumnFloat, ColumnBool, ColumnTimestamp:
		default:
			return SchemaError(fmt.Sprintf("unknown column type '%s' for column '%s'", c.Type, c.Name))
		}
		seen[c.Name] = c
	}

	pk, ok := seen[s.PrimaryKey]
	if !ok {
		return SchemaError(fmt.Sprintf("primary key '%s' is not a column", s.PrimaryKey))
	}
	if pk.Nullable {
		return SchemaError("primary key cannot be nullable")
	}
	if s.TenantColumn != "" {
		if _, ok := seen[s.TenantColumn]; !ok {
			return SchemaError(fmt.Sprintf("tenant column '%s' is not a column", s.TenantColumn))
		}
	}
	if s.SoftDeleteColumn != "" {
		c, ok := seen[s.SoftDeleteColumn]
		if !ok {
			return SchemaError(fmt.Sprintf("soft delete column '%s' is not a column", s.SoftDeleteColumn))
		}
		if !c.Nullable {
			return SchemaError(fmt.Sprintf("soft delete column '%s' must be nullable", s.SoftDeleteColumn))
		}
	}
	if s.DefaultSort != "" {
		if _, ok := seen[s.DefaultSort]; !ok {
			return SchemaError(fmt.Sprintf("default sort '%s' is not a column", s.DefaultSort))
		}
	}
	switch strings.ToLower(s.DefaultOrder) {
	case "", "asc", "ascend", "desc", "descend":
	default:
		return SchemaError(fmt.Sprintf("default order must be asc or desc, got '%s'", s.DefaultOrder))
	}
	return nil
}

func (s TableSpec) defaultDesc() bool {
	o := strings.ToLower(s.DefaultOrder)
	return o == "desc" || o == "descend"
}

// ToJSON serializes the spec to JSON
func (s TableSpec) ToJSON() ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

// TableSpecFromJSON deserializes and validates a spec
func TableSpecFromJSON(b []byte) (TableSpec, error) {
	var s TableSpec
	if err := json.Unmarshal(b, &s); err != nil {
		return TableSpec{}, Wrap(ErrSchema, "invalid table spec JSON", err)
	}
	if err := s.Validate(); err != nil {
		return TableSpec{}, err
	}
	return s, nil
}

// tableSchema implements storage.Schema over a validated spec
type tableSchema struct {
	spec  TableSpec
	names []string
	cols  map[string]storage.ColumnSpec
}

// AsStorageSchema returns a storage.Schema view of the spec
func (s TableSpec) AsStorageSchema() storage.Schema {
	ts := tableSchema{
		spec:  s,
		names: make([]string, 0, len(s.Columns)),
		cols:  make(map[string]storage.ColumnSpec, len(s.Columns)),
	}
	for _, c := range s.Columns {
		ts.names = append(ts.names, c.Name)
		ts.cols[c.Name] = storage.ColumnSpec{Type: c.Type, Nullable: c.Nullable}
	}
	return ts
}

func (t tableSchema) TableName() string  { return t.spec.Name }
func (t tableSchema) PrimaryKey() string { return t.spec.PrimaryKey }

func (t tableSchema) Column(name string) (storage.ColumnSpec, bool) {
	c, ok := t.cols[name]
	return c, ok
}

func (t tableSchema) ColumnsInOrder() []string {
	out := make([]string, len(t.names))
	copy(out, t.names)
	return out
}

var _ storage.Schema = tableSchema{}

func SchemaError(msg string) *Error { return New(ErrSchema, msg) }
