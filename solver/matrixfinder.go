package solver

import (
	"sort"
	"time"

	"github.com/sirupsen/logrus"
)

// samplingRatioCutoff is the sampling-variable coverage at or above which a
// component is admitted when sampling variables are configured.
const samplingRatioCutoff = 0.6

// compUndef means a variable is not assigned to any component yet.
const compUndef = ^uint32(0)

// matrixFinder holds the state of one partitioning pass: the variable to
// component table and the component membership map. It is created fresh on
// every call to FindMatrices and discarded when the pass ends.
type matrixFinder struct {
	solver       *Solver
	table        []uint32        // var -> component id, compUndef when unassigned
	reverseTable map[uint32][]Var // component id -> member vars
	matrixNo     uint32
}

// FindMatrices partitions the solver's XOR constraint pool into
// variable-disjoint components, decides which components are worth keeping
// as active Gaussian elimination matrices, and returns everything else to
// the plain pool tagged as rejected.
// The first return value tells whether at least one matrix was created, the
// second whether the solver is still in a satisfiable-candidate state.
// It must be called at decision level 0, on a non-conflicted solver, before
// any matrix was set up; violating this is a programming error.
func (s *Solver) FindMatrices() (matrixCreated, ok bool) {
	if s.decLevel != 0 {
		panic("FindMatrices called above decision level 0")
	}
	if !s.Okay() {
		panic("FindMatrices called on a conflicted solver")
	}
	if len(s.matrices) != 0 {
		panic("FindMatrices called with matrices already set up")
	}
	for _, v := range s.SamplingVars {
		if v < 1 {
			panic("sampling variables are numbered from 1")
		}
	}

	s.detachXorClauses()
	start := time.Now()

	finder := newXorFinder(s)
	s.xorclauses = finder.cleanXorClauses(s.xorclauses)
	if !s.Okay() {
		return false, false
	}
	s.xorclauses, ok = finder.xorTogetherXors(s.xorclauses)
	if !ok {
		return false, false
	}
	s.setClashDecisionVars(finder.collectClashVars(s.xorclauses))

	if len(s.xorclauses) < s.Gauss.MinGaussXorClauses {
		logrus.Tracef("[matrix] too few xor clauses for GJ: %d", len(s.xorclauses))
		s.gqueue = s.gqueue[:0]
		return false, s.attachXorClauses()
	}
	if len(s.xorclauses) > s.Gauss.MaxGaussXorClauses && s.SamplingVars != nil {
		logrus.Warn("[matrix] sampling vars given but there are too many XORs, putting them into matrices would take too long. Skipping!")
		s.gqueue = s.gqueue[:0]
		return false, s.attachXorClauses()
	}
	if !s.Gauss.DoMatrixFind {
		logrus.Info("[matrix] matrix finding disabled through switch, not using matrices")
		s.gqueue = s.gqueue[:0]
		return false, s.attachXorClauses()
	}

	mf := newMatrixFinder(s)
	mf.buildComponents()
	numXors := len(s.xorclauses)
	numMatrices := mf.setupMatricesAttachRemaining()

	logrus.Infof("[matrix] using %d matrices recovered from %d xor constraints (%.4fs)",
		numMatrices, numXors, time.Since(start).Seconds())
	return numMatrices > 0, s.attachXorClauses()
}

func newMatrixFinder(s *Solver) *matrixFinder {
	mf := &matrixFinder{
		solver:       s,
		table:        make([]uint32, s.nbVars),
		reverseTable: make(map[uint32][]Var),
	}
	for i := range mf.table {
		mf.table[i] = compUndef
	}
	return mf
}

// belongSameMatrix is true iff every variable of x is already assigned to
// one single component.
func (mf *matrixFinder) belongSameMatrix(x *Xor) bool {
	comp := compUndef
	for _, v := range x.vars {
		if mf.table[v] == compUndef {
			return false // Belongs to none
		}
		if comp == compUndef {
			comp = mf.table[v] // Belongs to this one
		} else if comp != mf.table[v] {
			// Another var of this XOR belongs to another component
			return false
		}
	}
	return true
}

// buildComponents groups the XOR constraints into disjoint clusters: two
// constraints end up in the same component iff they are connected by a
// chain of shared variables. A variable is never split across components
// once merged.
func (mf *matrixFinder) buildComponents() {
	var newSet []Var
	var tomerge []uint32
	for _, x := range mf.solver.xorclauses {
		if mf.belongSameMatrix(x) {
			continue
		}
		tomerge = tomerge[:0]
		newSet = newSet[:0]
		for _, v := range x.vars {
			if c := mf.table[v]; c != compUndef {
				if !containsComp(tomerge, c) {
					tomerge = append(tomerge, c)
				}
			} else {
				newSet = append(newSet, v)
			}
		}

		// Move new elements to the one the other(s) belong to
		if len(tomerge) == 1 {
			into := tomerge[0]
			members := mf.reverseTable[into]
			for _, v := range newSet {
				members = append(members, v)
				mf.table[v] = into
			}
			mf.reverseTable[into] = members
			continue
		}

		// Move all to a new component; stale ids are simply erased.
		sort.Slice(tomerge, func(i, j int) bool { return tomerge[i] < tomerge[j] })
		merged := append([]Var{}, newSet...)
		for _, c := range tomerge {
			merged = append(merged, mf.reverseTable[c]...)
			delete(mf.reverseTable, c)
		}
		for _, v := range merged {
			mf.table[v] = mf.matrixNo
		}
		mf.reverseTable[mf.matrixNo] = merged
		mf.matrixNo++
	}
}

// A matrixShape describes one component: its identifier, row and column
// counts, summed constraint lengths and the derived fill rate.
type matrixShape struct {
	num         uint32
	rows        int
	cols        int
	sumXorSizes int
	density     float64
}

func (m matrixShape) totSize() int {
	return m.rows * m.cols
}

// byDesirability orders components from most to least desirable for
// admission: bigger constraint mass first, then denser. Ties are broken by
// component identifier so admission order stays reproducible.
type byDesirability []matrixShape

func (a byDesirability) Len() int      { return len(a) }
func (a byDesirability) Swap(i, j int) { a[i], a[j] = a[j], a[i] }
func (a byDesirability) Less(i, j int) bool {
	if a[i].sumXorSizes != a[j].sumXorSizes {
		return a[i].sumXorSizes > a[j].sumXorSizes
	}
	if a[i].density != a[j].density {
		return a[i].density > a[j].density
	}
	return a[i].num < a[j].num
}

// setupMatricesAttachRemaining computes the shape of every component,
// ranks them and admits each under the configured ceilings, constructing a
// Gauss matrix per accepted component. Rejected constraints go back to the
// plain pool tagged as not in any matrix. Returns the number of matrices.
func (mf *matrixFinder) setupMatricesAttachRemaining() int {
	s := mf.solver
	if s.SamplingVars != nil {
		if atLeast := 3 * len(s.SamplingVars); s.Gauss.MaxMatrixRows < atLeast {
			s.Gauss.MaxMatrixRows = atLeast
			logrus.Infof("[matrix] incrementing max number of rows to %d", atLeast)
		}
	}

	shapes := make([]matrixShape, mf.matrixNo)
	xorsInMatrix := make([][]*Xor, mf.matrixNo)
	for i := range shapes {
		shapes[i] = matrixShape{num: uint32(i), cols: len(mf.reverseTable[uint32(i)])}
	}

	// Move the constraints out of the pool temporarily. A trivial
	// constraint carries no row weight and is consumed by the pass.
	for _, x := range s.xorclauses {
		if x.Trivial() {
			continue
		}
		// The first variable suffices to find the component.
		comp := mf.table[x.vars[0]]
		shapes[comp].rows++
		shapes[comp].sumXorSizes += x.Size()
		xorsInMatrix[comp] = append(xorsInMatrix[comp], x)
	}
	s.xorclauses = s.xorclauses[:0]

	for i := range shapes {
		if t := shapes[i].totSize(); t > 0 {
			shapes[i].density = float64(shapes[i].sumXorSizes) / float64(t)
		}
	}
	sort.Sort(byDesirability(shapes))

	marks := newVarMarks(s.nbVars)
	accepted := 0
	unused := 0
	tooFewRows := 0
	components := 0
	for _, m := range shapes {
		if m.rows == 0 {
			continue
		}
		components++
		ratio := 0.0
		if s.SamplingVars != nil {
			ratio = mf.samplingRatio(m.num, marks)
			logrus.Debugf("[matrix] ratio_sampling: %.4f", ratio)
		}

		use := true
		switch {
		case m.rows > s.Gauss.MaxMatrixRows:
			use = false
			logrus.Infof("[matrix] too many rows in matrix: %d, not using", m.rows)
		case m.cols > s.Gauss.MaxMatrixColumns:
			use = false
			logrus.Infof("[matrix] too many columns in matrix: %d, not using", m.cols)
		default:
			if s.SamplingVars != nil {
				// Coverage of the sampling set decides instead of the
				// row floor. Ceilings and the matrix cap still apply.
				use = ratio >= samplingRatioCutoff
				if use {
					logrus.Info("[matrix] sampling ratio good, using matrix")
				} else {
					logrus.Debug("[matrix] sampling ratio bad, not using matrix")
				}
			} else if m.rows < s.Gauss.MinMatrixRows {
				use = false
				tooFewRows++
				logrus.Debugf("[matrix] too few rows in matrix: %d, not using", m.rows)
			}
			if use && accepted >= s.Gauss.MaxNumMatrices {
				use = false
				logrus.Debug("[matrix] above max number of matrices, not using")
			}
		}

		if use {
			s.matrices = append(s.matrices, newGaussMatrix(uint32(accepted), xorsInMatrix[m.num]))
			s.gqueue = resizeQueueData(s.gqueue, len(s.matrices))
			s.Stats.NbXorsInMatrices += m.rows
			accepted++
		} else {
			for _, x := range xorsInMatrix[m.num] {
				x.markRejected()
				s.xorclauses = append(s.xorclauses, x)
			}
			s.Stats.NbXorsRejected += m.rows
			unused++
		}

		entry := logrus.WithFields(logrus.Fields{
			"rows":      m.rows,
			"cols":      m.cols,
			"density":   m.density,
			"avgXorLen": float64(m.sumXorSizes) / float64(m.rows),
		})
		if s.SamplingVars != nil {
			entry = entry.WithField("samplingPerc", ratio*100.0)
		}
		if use {
			entry.Infof("[matrix] good matrix %d", accepted-1)
		} else {
			entry.Debug("[matrix] unused matrix")
		}
	}
	if unused > 0 {
		logrus.Infof("[matrix] unused matrices: %d of which too few rows: %d", unused, tooFewRows)
	}
	s.Stats.NbComponents = components
	s.Stats.NbMatrices = accepted
	return accepted
}

// samplingRatio computes the fraction of the sampling variables that are
// either already bound or inside the given component. Informational only:
// it never mutates constraint data.
func (mf *matrixFinder) samplingRatio(comp uint32, marks *varMarks) float64 {
	s := mf.solver
	members := mf.reverseTable[comp]
	for _, v := range members {
		marks.set(v)
	}
	tot, inside := 0, 0
	for _, outer := range s.SamplingVars {
		v := s.replacer.rootOf(IntToVar(outer))
		tot++
		if int(v) >= s.nbVars {
			continue
		}
		if s.value(v) != 0 || marks.has(v) {
			inside++
		}
	}
	for _, v := range members {
		marks.clear(v)
	}
	if tot == 0 {
		return 0
	}
	return float64(inside) / float64(tot)
}

func containsComp(comps []uint32, c uint32) bool {
	for _, c2 := range comps {
		if c2 == c {
			return true
		}
	}
	return false
}
