package pointcloud

// Columns holds a cloud column by column, the layout exchange formats such as PLY expect.
type Columns struct {
	X, Y, Z []float32
	R, G, B []float32
}

// ToColumns splits the cloud into per-component arrays of equal length in cloud order.
// Colors stay in [0, 1].
func ToColumns(cloud PointCloud) Columns {
	n := cloud.Size()
	cols := Columns{
		X: make([]float32, n),
		Y: make([]float32, n),
		Z: make([]float32, n),
		R: make([]float32, n),
		G: make([]float32, n),
		B: make([]float32, n),
	}
	cloud.Iterate(0, 0, func(i int, p Point) bool {
		cols.X[i], cols.Y[i], cols.Z[i] = p.Position.Elem()
		cols.R[i], cols.G[i], cols.B[i] = p.Color.Elem()
		return true
	})
	return cols
}

// Len returns the number of rows.
func (cols Columns) Len() int {
	return len(cols.X)
}
