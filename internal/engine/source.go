package engine

// Source supplies row labels for one influence list. Rows are zero-based and
// stable for the lifetime of one invalidation cycle; an empty label marks a
// null row that never passes filtering.
type Source interface {
	RowCount() int
	Label(row int) string
}

// Table is a mutable, slice-backed Source.
type Table struct {
	labels []string
}

// NewTable constructs a Table from the supplied labels.
func NewTable(labels ...string) *Table {
	t := &Table{}
	t.SetLabels(labels)
	return t
}

// RowCount returns the number of rows, null rows included.
func (t *Table) RowCount() int {
	return len(t.labels)
}

// Label returns the label for the given row, or "" when out of range.
func (t *Table) Label(row int) string {
	if row < 0 || row >= len(t.labels) {
		return ""
	}
	return t.labels[row]
}

// SetLabels replaces every row label.
func (t *Table) SetLabels(labels []string) {
	t.labels = append([]string(nil), labels...)
}
