package solver

// GaussConf configures the matrix-finding pass of the Gaussian elimination
// extension: which XOR components are worth keeping as active matrices.
type GaussConf struct {
	// DoMatrixFind enables matrix finding. When false, every XOR
	// constraint stays in the plain pool.
	DoMatrixFind bool
	// MinGaussXorClauses is the minimum total number of XOR constraints
	// for attempting matrix construction at all.
	MinGaussXorClauses int
	// MaxGaussXorClauses is the total number of XOR constraints above
	// which partitioning is skipped when sampling variables are set.
	MaxGaussXorClauses int
	// MinMatrixRows is the row floor below which a component is rejected.
	MinMatrixRows int
	// MaxMatrixRows is the row ceiling above which a component is rejected.
	MaxMatrixRows int
	// MaxMatrixColumns is the column ceiling above which a component is rejected.
	MaxMatrixColumns int
	// MaxNumMatrices caps how many matrices may be accepted in one pass.
	MaxNumMatrices int
}

// DefaultGaussConf returns the default matrix-finding configuration.
func DefaultGaussConf() GaussConf {
	return GaussConf{
		DoMatrixFind:       true,
		MinGaussXorClauses: 2,
		MaxGaussXorClauses: 500000,
		MinMatrixRows:      3,
		MaxMatrixRows:      5000,
		MaxMatrixColumns:   10000,
		MaxNumMatrices:     5,
	}
}
