package geometry

import "github.com/aretw0/spire/pkg/domain"

// Grid is a repeating layout of equally sized cells anchored at First.
type Grid struct {
	First    domain.Region
	VSpacing float64
	HSpacing float64
	Cols     int
	// Rows is how many rows are visible at once.
	Rows int
}

// Cell returns the region of the cell at (row, col), both zero-based.
func (g Grid) Cell(row, col int) domain.Region {
	return g.First.Offset(float64(col)*g.HSpacing, float64(row)*g.VSpacing)
}

// Cells returns the cells of the first rows rows in row-major order.
// A non-positive rows means the visible rows.
func (g Grid) Cells(rows int) []domain.Region {
	if rows <= 0 {
		rows = g.Rows
	}
	cells := make([]domain.Region, 0, rows*g.Cols)
	for row := 0; row < rows; row++ {
		for col := 0; col < g.Cols; col++ {
			cells = append(cells, g.Cell(row, col))
		}
	}
	return cells
}
