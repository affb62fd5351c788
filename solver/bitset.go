package solver

// varMarks is a word-aligned bitset over variables. It is scoped to a single
// partitioning pass so that marks can never leak into unrelated solver logic.
type varMarks struct {
	words []uint64
}

func newVarMarks(nbVars int) *varMarks {
	if nbVars <= 0 {
		return &varMarks{}
	}
	return &varMarks{words: make([]uint64, (nbVars+63)/64)}
}

func (m *varMarks) set(v Var) {
	m.words[int(v)>>6] |= 1 << (uint(v) & 63)
}

func (m *varMarks) clear(v Var) {
	m.words[int(v)>>6] &^= 1 << (uint(v) & 63)
}

func (m *varMarks) has(v Var) bool {
	idx := int(v) >> 6
	if idx >= len(m.words) {
		return false
	}
	return m.words[idx]&(1<<(uint(v)&63)) != 0
}
