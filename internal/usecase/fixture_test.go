package usecase

import (
	"go.ngs.io/ocean-field/internal/domain"
)

// squareMesh is the 2×2 mesh with nodes at (0,0), (10,0), (0,10), (10,10).
func squareMesh(name string) domain.Mesh {
	return domain.Mesh{
		Name:  name,
		East:  domain.Grid2D{Rows: 2, Cols: 2, Data: []float64{0, 10, 0, 10}},
		North: domain.Grid2D{Rows: 2, Cols: 2, Data: []float64{0, 0, 10, 10}},
		Mask:  domain.NewMask(2, 2),
	}
}

// scenarioDataset is a single-step, single-level dataset over squareMesh
// with uniform 5 m bathymetry and scalar values 1..4 at the four nodes.
func scenarioDataset() *domain.Dataset {
	scalar := domain.NewField("temp", 1, 1, 2, 2)
	copy(scalar.Data, []float64{1, 2, 3, 4})

	return &domain.Dataset{
		Rho:        squareMesh("rho"),
		U:          squareMesh("u"),
		V:          squareMesh("v"),
		Bathymetry: domain.Grid2D{Rows: 2, Cols: 2, Data: []float64{5, 5, 5, 5}},
		Sigma:      []float64{-1},
		Time:       []float64{0},
		Scalar:     scalar,
	}
}

// layeredDataset has two time steps and three sigma levels over a 10 m
// water column. The scalar at step t, level k is 10*(k+1) + 100*t plus
// the node index.
func layeredDataset() *domain.Dataset {
	ds := scenarioDataset()
	ds.Bathymetry = domain.Grid2D{Rows: 2, Cols: 2, Data: []float64{10, 10, 10, 10}}
	ds.Sigma = []float64{-1, -0.5, 0}
	ds.Time = []float64{0, 100}

	scalar := domain.NewField("temp", 2, 3, 2, 2)
	for t := 0; t < 2; t++ {
		for k := 0; k < 3; k++ {
			for r := 0; r < 2; r++ {
				for c := 0; c < 2; c++ {
					scalar.Set(t, k, r, c, float64(10*(k+1)+100*t+r*2+c))
				}
			}
		}
	}
	ds.Scalar = scalar
	return ds
}

// withVector adds uniform east/north components to ds.
func withVector(ds *domain.Dataset, east, north float64) *domain.Dataset {
	steps, levels := len(ds.Time), len(ds.Sigma)
	u := domain.NewField("u", steps, levels, 2, 2)
	v := domain.NewField("v", steps, levels, 2, 2)
	for i := range u.Data {
		u.Data[i] = east
		v.Data[i] = north
	}
	ds.East = &u
	ds.North = &v
	return ds
}
