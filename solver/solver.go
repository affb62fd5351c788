package solver

import "fmt"

// The level a decision was made.
// A negative value means "negative assignement at that level".
// A positive value means "positive assignment at that level".
type decLevel int

// A Model is a binding for several variables.
// Each var, in order, is associated with a binding. Bindings are implemented
// as decision levels:
// - a 0 value means the variable is free,
// - a positive value means the variable was set to true at the given decLevel,
// - a negative value means the variable was set to false at the given decLevel.
type Model []decLevel

func (m Model) String() string {
	bound := make(map[int]decLevel)
	for i := range m {
		if m[i] != 0 {
			bound[i+1] = m[i]
		}
	}
	return fmt.Sprintf("%v", bound)
}

// Stats are statistics about matrix finding.
// They are provided for information purpose only.
type Stats struct {
	NbComponents     int // Components found during the last pass
	NbMatrices       int // Matrices accepted during the last pass
	NbXorsInMatrices int // How many XOR constraints were placed into matrices
	NbXorsRejected   int // How many XOR constraints were returned to the plain pool
}

// A Solver is the host of the matrix-finding subsystem. It owns the clause
// and XOR constraint pools, the level-0 variable bindings and the collection
// of Gaussian elimination matrices recovered from the XOR pool.
type Solver struct {
	Gauss GaussConf
	// SamplingVars is an optional set of externally designated variables
	// (CNF numbering) used to bias matrix admission toward components
	// covering them. Nil when unset.
	SamplingVars []int
	Stats        Stats

	nbVars       int
	status       Status
	decLevel     int
	model        Model
	clauses      []*Clause
	xorclauses   []*Xor
	xorsAttached bool
	matrices     []*GaussMatrix
	gqueue       []GaussQueueData
	clashDec     []bool
	replacer     *varReplacer
}

// New makes a solver, given a problem.
// nbVars should be consistent with the content of the problem's clauses and
// XOR constraints, i.e the biggest variable should be < NbVars.
func New(problem *Problem) *Solver {
	s := &Solver{
		Gauss:        DefaultGaussConf(),
		nbVars:       problem.NbVars,
		status:       problem.Status,
		model:        problem.Model,
		clauses:      problem.Clauses,
		xorclauses:   problem.Xors,
		xorsAttached: true,
		clashDec:     make([]bool, problem.NbVars),
		replacer:     newVarReplacer(problem.NbVars),
	}
	if len(s.model) < s.nbVars {
		model := make(Model, s.nbVars)
		copy(model, s.model)
		s.model = model
	}
	return s
}

// NbVars returns the number of variables of the problem.
func (s *Solver) NbVars() int {
	return s.nbVars
}

// Okay is false iff the solver was proven unsatisfiable.
func (s *Solver) Okay() bool {
	return s.status != Unsat
}

// Status returns the current status of the solver.
func (s *Solver) Status() Status {
	return s.status
}

// DecisionLevel returns the current decision level. Matrix finding may only
// run at level 0.
func (s *Solver) DecisionLevel() int {
	return s.decLevel
}

// XorClauses returns the XOR constraint pool. After a partitioning pass it
// holds exactly the constraints not placed in any matrix.
func (s *Solver) XorClauses() []*Xor {
	return s.xorclauses
}

// Matrices returns the Gaussian elimination matrices recovered so far.
func (s *Solver) Matrices() []*GaussMatrix {
	return s.matrices
}

// QueueData returns the per-matrix bookkeeping, one entry per matrix.
func (s *Solver) QueueData() []GaussQueueData {
	return s.gqueue
}

// SetReplaced registers that the CNF variable 'from' was replaced with 'to'
// by equivalence reasoning.
func (s *Solver) SetReplaced(from, to int) {
	s.replacer.setReplaced(IntToVar(from), IntToVar(to))
}

// IsClashDecisionVar reports whether the CNF variable was registered as a
// clash decision variable after normalization.
func (s *Solver) IsClashDecisionVar(v int) bool {
	iv := IntToVar(v)
	return int(iv) < len(s.clashDec) && s.clashDec[iv]
}

// value returns the level-0 binding of v: 0 when free.
func (s *Solver) value(v Var) decLevel {
	return s.model[v]
}

// detachXorClauses takes the XOR pool out of the regular watch machinery for
// the duration of a partitioning pass. No other actor may touch the pool
// until it is reattached.
func (s *Solver) detachXorClauses() {
	s.xorsAttached = false
}

// attachXorClauses reattaches whatever is left in the XOR pool as ordinary
// constraints and reports whether the solver is still viable.
func (s *Solver) attachXorClauses() bool {
	s.xorsAttached = true
	return s.Okay()
}

func (s *Solver) setClashDecisionVars(vars map[Var]struct{}) {
	for v := range vars {
		if int(v) < len(s.clashDec) {
			s.clashDec[v] = true
		}
	}
}
