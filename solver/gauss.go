package solver

import (
	"fmt"
	"sort"
)

// A GaussMatrix is the dense GF(2) view of one accepted component: one
// column per component variable, one bit row per XOR constraint. The matrix
// is only constructed here; row reduction and propagation belong to the
// elimination engine proper.
type GaussMatrix struct {
	num  uint32
	vars []Var // column order, increasing
	cols map[Var]int
	rows []gf2Row
	rhs  []bool
	xors []*Xor
}

// A gf2Row is a word-packed row of a GF(2) matrix.
type gf2Row []uint64

func newGf2Row(nbCols int) gf2Row {
	return make(gf2Row, (nbCols+63)/64)
}

func (r gf2Row) set(i int) {
	r[i>>6] |= 1 << (uint(i) & 63)
}

func (r gf2Row) has(i int) bool {
	return r[i>>6]&(1<<(uint(i)&63)) != 0
}

// newGaussMatrix builds the matrix for the given XOR constraints and tags
// each of them with the matrix index. All constraints must be non-trivial.
func newGaussMatrix(num uint32, xors []*Xor) *GaussMatrix {
	varSet := make(map[Var]struct{})
	for _, x := range xors {
		for _, v := range x.Vars() {
			varSet[v] = struct{}{}
		}
	}
	vars := make([]Var, 0, len(varSet))
	for v := range varSet {
		vars = append(vars, v)
	}
	sort.Slice(vars, func(i, j int) bool { return vars[i] < vars[j] })
	cols := make(map[Var]int, len(vars))
	for i, v := range vars {
		cols[v] = i
	}
	m := &GaussMatrix{
		num:  num,
		vars: vars,
		cols: cols,
		rows: make([]gf2Row, len(xors)),
		rhs:  make([]bool, len(xors)),
		xors: xors,
	}
	for i, x := range xors {
		row := newGf2Row(len(vars))
		for _, v := range x.Vars() {
			row.set(cols[v])
		}
		m.rows[i] = row
		m.rhs[i] = x.Rhs()
		x.setMatrix(num)
	}
	return m
}

// Num returns the index of the matrix in the solver's collection.
func (m *GaussMatrix) Num() uint32 {
	return m.num
}

// Rows returns the number of rows of the matrix.
func (m *GaussMatrix) Rows() int {
	return len(m.rows)
}

// Cols returns the number of columns of the matrix.
func (m *GaussMatrix) Cols() int {
	return len(m.vars)
}

// Vars returns the component's variables, in column order.
// The slice must not be modified by the caller.
func (m *GaussMatrix) Vars() []Var {
	return m.vars
}

// Xors returns the XOR constraints the matrix was built from.
func (m *GaussMatrix) Xors() []*Xor {
	return m.xors
}

// RowHas reports whether the variable appears in the given row.
func (m *GaussMatrix) RowHas(row int, v Var) bool {
	col, ok := m.cols[v]
	return ok && m.rows[row].has(col)
}

// RowRhs returns the parity of the given row.
func (m *GaussMatrix) RowRhs(row int) bool {
	return m.rhs[row]
}

func (m *GaussMatrix) String() string {
	return fmt.Sprintf("matrix %d: %d x %d", m.num, m.Rows(), m.Cols())
}

// GaussQueueData is the per-matrix bookkeeping the solver keeps alongside
// its matrix collection. It is sized to match the collection at all times.
type GaussQueueData struct {
	NumConflicts uint64
	NumProps     uint64
	Disabled     bool
}

func resizeQueueData(q []GaussQueueData, n int) []GaussQueueData {
	for len(q) < n {
		q = append(q, GaussQueueData{})
	}
	return q[:n]
}
