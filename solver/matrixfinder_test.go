package solver

import (
	"strings"
	"testing"

	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestSolver builds a solver over the given XOR constraints, all with
// rhs = true unless stated otherwise through addXor afterwards.
func newTestSolver(nbVars int, xors ...[]int) *Solver {
	pb := &Problem{NbVars: nbVars}
	for _, vars := range xors {
		pb.AddXor(vars, true)
	}
	return New(pb)
}

func TestFindMatricesDisjointComponents(t *testing.T) {
	s := newTestSolver(9, []int{1, 2, 3}, []int{4, 5, 6}, []int{7, 8, 9})
	s.Gauss.MinMatrixRows = 1
	s.Gauss.MaxNumMatrices = 10

	created, ok := s.FindMatrices()
	require.True(t, ok)
	require.True(t, created)
	require.Len(t, s.Matrices(), 3)
	assert.Empty(t, s.XorClauses(), "plain pool should end empty")
	assert.Len(t, s.QueueData(), 3)
	for i, m := range s.Matrices() {
		assert.Equal(t, uint32(i), m.Num())
		assert.Equal(t, 1, m.Rows())
		assert.Equal(t, 3, m.Cols())
	}
	// Equal shapes: ties broken by component id, so matrix 0 holds the
	// first constraint's variables.
	assert.Equal(t, []Var{0, 1, 2}, s.Matrices()[0].Vars())
}

func TestFindMatricesSharedVariable(t *testing.T) {
	// 50 constraints all sharing variable 1.
	xors := make([][]int, 50)
	next := 2
	for i := range xors {
		xors[i] = []int{1, next, next + 1}
		next += 2
	}
	s := newTestSolver(next-1, xors...)
	s.Gauss.MinMatrixRows = 2
	s.Gauss.MaxMatrixRows = 100

	created, ok := s.FindMatrices()
	require.True(t, ok)
	require.True(t, created)
	require.Len(t, s.Matrices(), 1)
	m := s.Matrices()[0]
	assert.Equal(t, 50, m.Rows())
	assert.Equal(t, 101, m.Cols())
	assert.Empty(t, s.XorClauses())
}

func TestFindMatricesContradiction(t *testing.T) {
	pb := &Problem{NbVars: 3}
	pb.AddXor([]int{1, 2, 3}, true)
	pb.AddXor([]int{1, 2, 3}, false)
	s := New(pb)

	created, ok := s.FindMatrices()
	assert.False(t, ok, "incompatible parities must make the solver unsat")
	assert.False(t, created)
	assert.False(t, s.Okay())
	assert.Empty(t, s.Matrices())
	assert.Empty(t, s.XorClauses())
}

func TestFindMatricesTooFewRows(t *testing.T) {
	s := newTestSolver(9, []int{1, 2, 3}, []int{1, 4, 5}, []int{1, 6, 7}, []int{1, 8, 9})
	s.Gauss.MinMatrixRows = 5

	created, ok := s.FindMatrices()
	require.True(t, ok)
	assert.False(t, created)
	assert.Empty(t, s.Matrices())
	require.Len(t, s.XorClauses(), 4)
	for _, x := range s.XorClauses() {
		assert.True(t, x.Rejected())
		_, in := x.InMatrix()
		assert.False(t, in)
	}
}

func TestFindMatricesCountsThresholdAfterCleaning(t *testing.T) {
	s := newTestSolver(5, []int{1, 2, 3}, []int{4, 5})
	s.Gauss.MinGaussXorClauses = 2
	s.Gauss.MinMatrixRows = 1
	s.model[IntToVar(4)] = 1  // flips the second constraint's parity
	s.model[IntToVar(5)] = -1 // the second constraint becomes satisfied

	created, ok := s.FindMatrices()
	require.True(t, ok)
	assert.False(t, created, "a satisfied constraint must not count toward the threshold")
	assert.Empty(t, s.Matrices())
	require.Len(t, s.XorClauses(), 1)
	assert.Equal(t, []Var{0, 1, 2}, s.XorClauses()[0].Vars())
}

func TestFindMatricesTooFewXors(t *testing.T) {
	s := newTestSolver(3, []int{1, 2, 3})
	s.Gauss.MinGaussXorClauses = 2

	created, ok := s.FindMatrices()
	require.True(t, ok)
	assert.False(t, created)
	assert.Empty(t, s.Matrices())
	require.Len(t, s.XorClauses(), 1)
	assert.False(t, s.XorClauses()[0].Rejected(), "untouched constraints are not tagged rejected")
}

func TestFindMatricesTooManyXorsWithSampling(t *testing.T) {
	s := newTestSolver(9, []int{1, 2, 3}, []int{4, 5, 6}, []int{7, 8, 9})
	s.Gauss.MaxGaussXorClauses = 2
	s.SamplingVars = []int{1, 2}

	created, ok := s.FindMatrices()
	require.True(t, ok)
	assert.False(t, created)
	assert.Empty(t, s.Matrices())
	assert.Len(t, s.XorClauses(), 3)
}

func TestFindMatricesDisabled(t *testing.T) {
	s := newTestSolver(6, []int{1, 2, 3}, []int{4, 5, 6})
	s.Gauss.DoMatrixFind = false
	s.Gauss.MinMatrixRows = 1

	created, ok := s.FindMatrices()
	require.True(t, ok)
	assert.False(t, created)
	assert.Empty(t, s.Matrices())
	assert.Len(t, s.XorClauses(), 2)
}

func TestFindMatricesMatrixCap(t *testing.T) {
	s := newTestSolver(9, []int{1, 2, 3}, []int{4, 5, 6}, []int{7, 8, 9})
	s.Gauss.MinMatrixRows = 1
	s.Gauss.MaxNumMatrices = 2

	created, ok := s.FindMatrices()
	require.True(t, ok)
	require.True(t, created)
	assert.Len(t, s.Matrices(), 2)
	assert.Len(t, s.QueueData(), 2)
	require.Len(t, s.XorClauses(), 1)
	assert.True(t, s.XorClauses()[0].Rejected())
}

func TestFindMatricesColumnCeiling(t *testing.T) {
	s := newTestSolver(9, []int{1, 2, 3}, []int{1, 4, 5}, []int{1, 6, 7}, []int{1, 8, 9})
	s.Gauss.MinMatrixRows = 1
	s.Gauss.MaxMatrixColumns = 5

	created, ok := s.FindMatrices()
	require.True(t, ok)
	assert.False(t, created)
	assert.Len(t, s.XorClauses(), 4)
}

func TestFindMatricesRowCeiling(t *testing.T) {
	s := newTestSolver(9, []int{1, 2, 3}, []int{1, 4, 5}, []int{1, 6, 7}, []int{1, 8, 9})
	s.Gauss.MinMatrixRows = 1
	s.Gauss.MaxMatrixRows = 3

	created, ok := s.FindMatrices()
	require.True(t, ok)
	assert.False(t, created)
	assert.Len(t, s.XorClauses(), 4)
}

// newSamplingSolver returns a solver with one 3-row component over
// variables 1..7 (hub variable 1) and a row floor the component fails.
func newSamplingSolver() *Solver {
	s := newTestSolver(20, []int{1, 2, 3}, []int{1, 4, 5}, []int{1, 6, 7})
	s.Gauss.MinMatrixRows = 5
	return s
}

func TestSamplingOverrideAccepts(t *testing.T) {
	s := newSamplingSolver()
	// 3 of 5 sampling variables inside the component: ratio is exactly
	// 0.6, which is inclusive.
	s.SamplingVars = []int{2, 3, 4, 15, 16}

	created, ok := s.FindMatrices()
	require.True(t, ok)
	require.True(t, created, "ratio 0.6 must force admission over the row floor")
	require.Len(t, s.Matrices(), 1)
	assert.Equal(t, 3, s.Matrices()[0].Rows())
	assert.Empty(t, s.XorClauses())
}

func TestSamplingOverrideRejects(t *testing.T) {
	s := newSamplingSolver()
	// 2 of 5 sampling variables inside the component: ratio 0.4.
	s.SamplingVars = []int{2, 3, 14, 15, 16}

	created, ok := s.FindMatrices()
	require.True(t, ok)
	assert.False(t, created)
	assert.Empty(t, s.Matrices())
	assert.Len(t, s.XorClauses(), 3)
}

func TestSamplingCountsBoundVars(t *testing.T) {
	s := newSamplingSolver()
	// 2 sampling variables inside the component, 1 already value-fixed
	// outside it: 3 of 5 count as covered.
	s.SamplingVars = []int{2, 3, 14, 15, 16}
	s.model[IntToVar(14)] = 1

	created, ok := s.FindMatrices()
	require.True(t, ok)
	assert.True(t, created)
}

func TestSamplingFollowsReplacedVars(t *testing.T) {
	s := newSamplingSolver()
	// Variable 14 was replaced with 2, which is inside the component.
	s.SamplingVars = []int{2, 3, 14, 15, 16}
	s.SetReplaced(14, 2)

	created, ok := s.FindMatrices()
	require.True(t, ok)
	assert.True(t, created)
}

func TestSamplingDoesNotOverrideCeilings(t *testing.T) {
	s := newSamplingSolver()
	s.SamplingVars = []int{2, 3, 4, 5, 6}
	s.Gauss.MaxMatrixColumns = 5

	created, ok := s.FindMatrices()
	require.True(t, ok)
	assert.False(t, created, "a perfect sampling ratio must not defeat the column ceiling")
}

func TestSamplingRaisesRowCeiling(t *testing.T) {
	s := newSamplingSolver()
	s.SamplingVars = []int{2, 3, 4, 15, 16}
	s.Gauss.MaxMatrixRows = 2

	_, ok := s.FindMatrices()
	require.True(t, ok)
	assert.Equal(t, 15, s.Gauss.MaxMatrixRows, "row ceiling should be raised to 3x the sampling set size")
}

func TestThresholdMonotonicity(t *testing.T) {
	wasAccepted := true
	for floor := 1; floor <= 6; floor++ {
		s := newTestSolver(9, []int{1, 2, 3}, []int{1, 4, 5}, []int{1, 6, 7}, []int{1, 8, 9})
		s.Gauss.MinMatrixRows = floor
		created, ok := s.FindMatrices()
		require.True(t, ok)
		accepted := created
		if accepted && !wasAccepted {
			t.Fatalf("raising the row floor to %d moved the component from rejected to accepted", floor)
		}
		wasAccepted = accepted
		if floor <= 4 {
			assert.True(t, accepted, "floor %d should accept a 4-row component", floor)
		} else {
			assert.False(t, accepted, "floor %d should reject a 4-row component", floor)
		}
	}
}

func TestNoDuplicationOrLoss(t *testing.T) {
	s := newTestSolver(22,
		[]int{1, 2, 3}, []int{1, 4, 5}, []int{1, 6, 7}, // component A, 3 rows
		[]int{10, 11, 12}, []int{10, 13, 14}, []int{10, 15, 16}, // component B, 3 rows
		[]int{20, 21, 22}, // component C, 1 row
	)
	s.Gauss.MinMatrixRows = 2

	created, ok := s.FindMatrices()
	require.True(t, ok)
	require.True(t, created)
	require.Len(t, s.Matrices(), 2)

	placed := 0
	inputVars := make(map[Var]struct{})
	for _, m := range s.Matrices() {
		placed += len(m.Xors())
		for _, v := range m.Vars() {
			inputVars[v] = struct{}{}
		}
	}
	for _, x := range s.XorClauses() {
		for _, v := range x.Vars() {
			inputVars[v] = struct{}{}
		}
	}
	assert.Equal(t, 7, placed+len(s.XorClauses()), "no constraint may be duplicated or lost")
	assert.Len(t, inputVars, 17, "accepted and rejected variable sets must cover the input")
}

func TestFindMatricesDeterminism(t *testing.T) {
	build := func() *Solver {
		s := newTestSolver(16,
			[]int{1, 2, 3}, []int{1, 4, 5}, []int{1, 6, 7},
			[]int{8, 9}, []int{8, 10}, []int{8, 11},
			[]int{12, 13, 14}, []int{12, 15, 16},
		)
		s.Gauss.MinMatrixRows = 1
		s.Gauss.MaxNumMatrices = 2
		return s
	}
	s1, s2 := build(), build()
	c1, ok1 := s1.FindMatrices()
	c2, ok2 := s2.FindMatrices()
	require.Equal(t, ok1, ok2)
	require.Equal(t, c1, c2)
	require.Equal(t, len(s1.Matrices()), len(s2.Matrices()))
	for i := range s1.Matrices() {
		assert.Equal(t, s1.Matrices()[i].Vars(), s2.Matrices()[i].Vars())
		assert.Equal(t, s1.Matrices()[i].Rows(), s2.Matrices()[i].Rows())
	}
	require.Equal(t, len(s1.XorClauses()), len(s2.XorClauses()))
	for i := range s1.XorClauses() {
		assert.Equal(t, s1.XorClauses()[i].CNF(), s2.XorClauses()[i].CNF())
	}
}

func TestFindMatricesPreconditions(t *testing.T) {
	s := newTestSolver(3, []int{1, 2, 3})
	s.decLevel = 1
	require.Panics(t, func() { s.FindMatrices() })

	s = newTestSolver(3, []int{1, 2, 3})
	s.status = Unsat
	require.Panics(t, func() { s.FindMatrices() })

	s = newTestSolver(3, []int{1, 2, 3})
	s.matrices = append(s.matrices, &GaussMatrix{})
	require.Panics(t, func() { s.FindMatrices() })

	s = newTestSolver(3, []int{1, 2, 3})
	s.SamplingVars = []int{1, 0}
	require.Panics(t, func() { s.FindMatrices() }, "sampling variables are 1-based")
}

func TestFindMatricesSummaryLog(t *testing.T) {
	hook := logtest.NewGlobal()
	defer hook.Reset()

	s := newTestSolver(9, []int{1, 2, 3}, []int{4, 5, 6}, []int{7, 8, 9})
	s.Gauss.MinMatrixRows = 1
	_, ok := s.FindMatrices()
	require.True(t, ok)

	found := false
	for _, e := range hook.AllEntries() {
		if strings.Contains(e.Message, "recovered from 3 xor constraints") {
			found = true
		}
	}
	assert.True(t, found, "the pass summary should report the xor constraint count")
}

func TestBuildComponentsChain(t *testing.T) {
	s := newTestSolver(4, []int{1, 2}, []int{2, 3}, []int{3, 4})
	mf := newMatrixFinder(s)
	mf.buildComponents()

	comp := mf.table[0]
	require.NotEqual(t, uint32(compUndef), comp)
	for v := Var(1); v < 4; v++ {
		assert.Equal(t, comp, mf.table[v], "chained constraints must share one component")
	}
	assert.Len(t, mf.reverseTable, 1)
	assert.Len(t, mf.reverseTable[comp], 4)
}

func TestBuildComponentsMergesExisting(t *testing.T) {
	// The third constraint bridges two previously separate components.
	s := newTestSolver(4, []int{1, 2}, []int{3, 4}, []int{2, 3})
	mf := newMatrixFinder(s)
	mf.buildComponents()

	comp := mf.table[0]
	for v := Var(1); v < 4; v++ {
		require.Equal(t, comp, mf.table[v])
	}
	// The stale component ids were erased, not renumbered.
	require.Len(t, mf.reverseTable, 1)
	members, found := mf.reverseTable[comp]
	require.True(t, found)
	assert.Len(t, members, 4)
}

func TestBuildComponentsConsistency(t *testing.T) {
	s := newTestSolver(12,
		[]int{1, 2, 3}, []int{4, 5}, []int{2, 6}, []int{5, 7, 8},
		[]int{9, 10}, []int{10, 11}, []int{12, 1},
	)
	mf := newMatrixFinder(s)
	mf.buildComponents()

	// A variable maps to id k iff it appears in membership entry k.
	for v, comp := range mf.table {
		if comp == compUndef {
			continue
		}
		assert.Contains(t, mf.reverseTable[comp], Var(v))
	}
	for comp, members := range mf.reverseTable {
		for _, v := range members {
			assert.Equal(t, comp, mf.table[v])
		}
	}
}

func TestQueueDataClearedOnEarlyExit(t *testing.T) {
	s := newTestSolver(3, []int{1, 2, 3})
	s.Gauss.MinGaussXorClauses = 2
	s.gqueue = []GaussQueueData{{NumConflicts: 3}}

	_, ok := s.FindMatrices()
	require.True(t, ok)
	assert.Empty(t, s.QueueData())
}
