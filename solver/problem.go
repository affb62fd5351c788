package solver

import "fmt"

// A Problem is a list of clauses & XOR constraints, plus a nb of vars.
type Problem struct {
	NbVars  int       // Total nb of vars
	Clauses []*Clause // List of non-empty, non-unit clauses
	Xors    []*Xor    // List of XOR constraints
	Status  Status    // Status of the problem. Can be trivially UNSAT (if an empty clause was met) or Indet.
	Units   []Lit     // List of unit literals found in the problem.
	Model   Model     // For each var, its inferred binding. 0 means unbound, 1 means bound to true, -1 means bound to false.
}

// CNF returns an extended DIMACS CNF representation of the problem.
func (pb *Problem) CNF() string {
	res := fmt.Sprintf("p cnf %d %d\n", pb.NbVars, len(pb.Clauses)+len(pb.Xors))
	for _, clause := range pb.Clauses {
		res += fmt.Sprintf("%s\n", clause.CNF())
	}
	for _, x := range pb.Xors {
		res += fmt.Sprintf("%s\n", x.CNF())
	}
	return res
}

// AddXor appends the XOR constraint over the given CNF variables, growing
// NbVars if needed.
func (pb *Problem) AddXor(vars []int, rhs bool) {
	x := NewXor(vars, rhs)
	for _, v := range x.Vars() {
		if int(v) >= pb.NbVars {
			pb.NbVars = int(v) + 1
		}
	}
	pb.Xors = append(pb.Xors, x)
}

func (pb *Problem) addUnit(lit Lit) {
	if lit.IsPositive() {
		if pb.Model[lit.Var()] == -1 {
			pb.Status = Unsat
			return
		}
		pb.Model[lit.Var()] = 1
	} else {
		if pb.Model[lit.Var()] == 1 {
			pb.Status = Unsat
			return
		}
		pb.Model[lit.Var()] = -1
	}
	pb.Units = append(pb.Units, lit)
}
