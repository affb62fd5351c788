package solver

// varReplacer records variables replaced through equivalence reasoning.
// Full equivalence detection lives outside this subsystem; the table only
// answers "which variable stands for v now", which the sampling-ratio
// computation needs when mapping externally designated variables.
type varReplacer struct {
	replacedWith []Var
}

func newVarReplacer(nbVars int) *varReplacer {
	r := &varReplacer{replacedWith: make([]Var, nbVars)}
	for i := range r.replacedWith {
		r.replacedWith[i] = Var(i)
	}
	return r
}

// setReplaced registers that 'from' was replaced with 'to'.
func (r *varReplacer) setReplaced(from, to Var) {
	r.replacedWith[from] = to
}

// rootOf follows the replacement chain from v to the variable that
// currently stands for it.
func (r *varReplacer) rootOf(v Var) Var {
	if int(v) >= len(r.replacedWith) {
		return v
	}
	for r.replacedWith[v] != v {
		v = r.replacedWith[v]
	}
	return v
}
