package excel

// RawRowData represents a row of raw spreadsheet data keyed by header
type RawRowData map[string]string

// Table is a header row plus the data rows beneath it
type Table struct {
	Headers []string     // Column headers
	Rows    []RawRowData // Data rows
}

// HasColumn reports whether the table carries the named header
func (t *Table) HasColumn(name string) bool {
	for _, h := range t.Headers {
		if h == name {
			return true
		}
	}
	return false
}
