package terminal

// Metrics maps terminal cells to logical surface pixels, the terminal analogue of device pixel density
type Metrics struct {
	CellWidth  float64 // Logical pixels per column
	CellHeight float64 // Logical pixels per row
}

// SurfaceSize returns the logical pixel dimensions of a cols x rows terminal
func (m Metrics) SurfaceSize(cols, rows int) (width, height float64) {
	return float64(cols) * m.CellWidth, float64(rows) * m.CellHeight
}

// CellCenter returns the logical pixel coordinate of a cell's center
func (m Metrics) CellCenter(col, row int) (x, y float64) {
	return (float64(col) + 0.5) * m.CellWidth, (float64(row) + 0.5) * m.CellHeight
}

// ToCell returns the cell containing logical pixel (x, y), may be out of screen bounds
func (m Metrics) ToCell(x, y float64) (col, row int) {
	return floorDiv(x, m.CellWidth), floorDiv(y, m.CellHeight)
}

func floorDiv(v, d float64) int {
	q := v / d
	i := int(q)
	if q < 0 && float64(i) != q {
		i--
	}
	return i
}
