package graph

// ResultSet accumulates the rows ProduceResults projects as a side effect
// of each successful Consume, plus bookkeeping a caller-facing formatter
// would consume.
type ResultSet struct {
	Columns []string
	Rows    [][]interface{}
	// Truncated is set when the rows are not the complete result: execution
	// stopped early on an execution error or a cancelled context, or the
	// Engine cut the rows at its MaxRows cap. Callers can tell a partial
	// result from a complete one even though the row data carries no marker.
	Truncated bool
}

// NewResultSet builds an empty result set with the given projected column
// names.
func NewResultSet(columns []string) *ResultSet {
	return &ResultSet{Columns: columns}
}

// AddRow appends a projected row.
func (rs *ResultSet) AddRow(row []interface{}) {
	rs.Rows = append(rs.Rows, row)
}

// Len returns the number of rows accumulated so far.
func (rs *ResultSet) Len() int {
	return len(rs.Rows)
}
