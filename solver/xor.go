package solver

import (
	"fmt"
	"sort"
)

// Placement tags for XOR constraints. An Xor starts unplaced; once a
// partitioning pass ran, it either carries the index of the matrix it was
// placed in, or the rejected tag.
const (
	matrixUnplaced = ^uint32(0)
	matrixRejected = ^uint32(0) - 1
)

// An Xor is a parity constraint over a set of boolean variables:
// the variables in vars must sum to rhs modulo 2.
// Variables are kept sorted and duplicate-free.
type Xor struct {
	vars      []Var
	rhs       bool
	clashVars []Var // vars eliminated while merging this constraint with others
	matrix    uint32
}

// NewXor returns the XOR constraint over the given CNF variables, with the
// given parity. Duplicate variable pairs cancel out, since v xor v = 0.
func NewXor(vars []int, rhs bool) *Xor {
	vs := make([]Var, len(vars))
	for i, v := range vars {
		vs[i] = IntToVar(v)
	}
	return newXorVars(vs, rhs)
}

func newXorVars(vs []Var, rhs bool) *Xor {
	sort.Slice(vs, func(i, j int) bool { return vs[i] < vs[j] })
	out := vs[:0]
	i := 0
	for i < len(vs) {
		j := i
		for j < len(vs) && vs[j] == vs[i] {
			j++
		}
		if (j-i)%2 == 1 {
			out = append(out, vs[i])
		}
		i = j
	}
	return &Xor{vars: out, rhs: rhs, matrix: matrixUnplaced}
}

// Size returns the number of variables of the constraint.
func (x *Xor) Size() int {
	return len(x.vars)
}

// Vars returns the variables of the constraint, in increasing order.
// The slice must not be modified by the caller.
func (x *Xor) Vars() []Var {
	return x.vars
}

// Rhs returns the parity the variables must sum to.
func (x *Xor) Rhs() bool {
	return x.rhs
}

// ClashVars returns the variables that were eliminated while this
// constraint was merged with overlapping ones during normalization.
func (x *Xor) ClashVars() []Var {
	return x.clashVars
}

// Trivial is true iff the constraint has no variables left, i.e it was
// reduced away by normalization. A trivial constraint carries no row weight.
func (x *Xor) Trivial() bool {
	return len(x.vars) == 0
}

// contradiction is true iff the constraint can never be satisfied.
func (x *Xor) contradiction() bool {
	return len(x.vars) == 0 && x.rhs
}

// InMatrix returns the index of the matrix the constraint was placed in,
// or false if it was not placed in any.
func (x *Xor) InMatrix() (uint32, bool) {
	if x.matrix == matrixUnplaced || x.matrix == matrixRejected {
		return 0, false
	}
	return x.matrix, true
}

// Rejected is true iff a partitioning pass considered the constraint and
// returned it to the plain pool.
func (x *Xor) Rejected() bool {
	return x.matrix == matrixRejected
}

func (x *Xor) setMatrix(num uint32) {
	x.matrix = num
}

func (x *Xor) markRejected() {
	x.matrix = matrixRejected
}

// CNF returns the constraint as an extended DIMACS "x" line. The parity is
// encoded in the sign of the first literal: all-positive means rhs = true.
func (x *Xor) CNF() string {
	res := "x"
	for i, v := range x.vars {
		val := v.Int()
		if i == 0 && !x.rhs {
			val = -val
		}
		res += fmt.Sprintf(" %d", val)
	}
	return res + " 0"
}
