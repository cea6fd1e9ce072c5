package schema

// TableSchema describes the ordered columns of a table
type TableSchema struct {
	TableName string
	Columns   []Column
}

// Names returns the column names in declaration order
func (s *TableSchema) Names() []string {
	names := make([]string, len(s.Columns))
	for i, col := range s.Columns {
		names[i] = col.Name
	}
	return names
}

// GetColumn finds a column by name
func (s *TableSchema) GetColumn(name string) (Column, bool) {
	for _, col := range s.Columns {
		if col.Name == name {
			return col, true
		}
	}
	return Column{}, false
}
