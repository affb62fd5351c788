package solver

import "sort"

// xorFinder normalizes the XOR pool before partitioning: it folds level-0
// bindings into parities, merges overlapping constraints and detects
// contradictions. A contradiction makes the whole solver unsatisfiable.
type xorFinder struct {
	solver    *Solver
	clashVars map[Var]struct{}
}

func newXorFinder(s *Solver) *xorFinder {
	return &xorFinder{solver: s, clashVars: make(map[Var]struct{})}
}

// cleanXorClauses folds variables already bound at level 0 into each
// constraint's parity. Constraints fully satisfied by the bindings are
// dropped from the pool, so the total-count thresholds only ever see
// constraints that still carry row weight.
// The solver is set unsat when a constraint became unsatisfiable.
func (f *xorFinder) cleanXorClauses(xs []*Xor) []*Xor {
	s := f.solver
	kept := xs[:0]
	for _, x := range xs {
		vars := x.vars[:0]
		for _, v := range x.vars {
			val := s.value(v)
			switch {
			case val == 0:
				vars = append(vars, v)
			case val > 0:
				x.rhs = !x.rhs
			}
		}
		x.vars = vars
		if x.contradiction() {
			s.status = Unsat
			return nil
		}
		if x.Trivial() {
			continue
		}
		kept = append(kept, x)
	}
	return kept
}

// xorTogetherXors merges overlapping constraints: whenever a variable occurs
// in exactly two constraints of the pool, the pair is replaced by its
// symmetric difference and the eliminated variable joins the clash set of
// the merged constraint. The process repeats until no such variable is left.
// On contradiction the solver is set unsat and the pool is emptied.
func (f *xorFinder) xorTogetherXors(xs []*Xor) ([]*Xor, bool) {
	s := f.solver
	for {
		occ := make(map[Var][]int)
		for i, x := range xs {
			for _, v := range x.vars {
				occ[v] = append(occ[v], i)
			}
		}
		var cands []Var
		for v, ids := range occ {
			if len(ids) == 2 {
				cands = append(cands, v)
			}
		}
		if len(cands) == 0 {
			return xs, true
		}
		// Candidates are processed in increasing variable order so that
		// merge results do not depend on map iteration order.
		sort.Slice(cands, func(i, j int) bool { return cands[i] < cands[j] })
		dead := make([]bool, len(xs))
		var merged []*Xor
		didMerge := false
		for _, v := range cands {
			ids := occ[v]
			if dead[ids[0]] || dead[ids[1]] {
				continue
			}
			m := f.merge(xs[ids[0]], xs[ids[1]], v)
			if m.contradiction() {
				s.status = Unsat
				return nil, false
			}
			dead[ids[0]], dead[ids[1]] = true, true
			didMerge = true
			merged = append(merged, m)
		}
		n := 0
		for i, x := range xs {
			if !dead[i] {
				xs[n] = x
				n++
			}
		}
		xs = append(xs[:n], merged...)
		if !didMerge {
			return xs, true
		}
	}
}

// merge xors two constraints together, eliminating v: shared variables
// cancel out and the parities combine.
func (f *xorFinder) merge(a, b *Xor, v Var) *Xor {
	vs := make([]Var, 0, a.Size()+b.Size())
	vs = append(vs, a.vars...)
	vs = append(vs, b.vars...)
	m := newXorVars(vs, a.rhs != b.rhs)

	cl := make([]Var, 0, len(a.clashVars)+len(b.clashVars)+1)
	cl = append(cl, a.clashVars...)
	cl = append(cl, b.clashVars...)
	cl = append(cl, v)
	sort.Slice(cl, func(i, j int) bool { return cl[i] < cl[j] })
	uniq := cl[:0]
	for i, cv := range cl {
		if i == 0 || cv != cl[i-1] {
			uniq = append(uniq, cv)
		}
	}
	m.clashVars = uniq
	for _, cv := range uniq {
		f.clashVars[cv] = struct{}{}
	}
	return m
}

// collectClashVars returns every clash variable produced during this pass or
// carried by a surviving constraint from an earlier one.
func (f *xorFinder) collectClashVars(xs []*Xor) map[Var]struct{} {
	out := make(map[Var]struct{}, len(f.clashVars))
	for v := range f.clashVars {
		out[v] = struct{}{}
	}
	for _, x := range xs {
		for _, v := range x.clashVars {
			out[v] = struct{}{}
		}
	}
	return out
}
