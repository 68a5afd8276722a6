package domain

// BoardColumn is one column of the board. ID doubles as the on-disk folder
// name and must be lowercase ASCII letters, digits, '_' or '-'.
type BoardColumn struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	WipLimit *int   `json:"wip_limit"`
}

// BoardConfig is the ordered column set read from the board file. Order is
// display order and is preserved through every round trip.
type BoardConfig struct {
	Columns []BoardColumn `json:"columns"`
}

// BoardUpdate is the payload for PUT /api/board.
type BoardUpdate struct {
	Columns []BoardColumn `json:"columns"`
}

// Column returns the column with the given id, if configured.
func (c BoardConfig) Column(id string) (BoardColumn, bool) {
	for _, col := range c.Columns {
		if col.ID == id {
			return col, true
		}
	}
	return BoardColumn{}, false
}

// HasColumn reports whether id names a configured column.
func (c BoardConfig) HasColumn(id string) bool {
	_, ok := c.Column(id)
	return ok
}
