/*
Package solver implements the matrix-partitioning and admission subsystem of
a SAT solver's XOR/Gaussian-elimination extension.

Given a pool of XOR constraints discovered over the solver's variables, the
subsystem partitions them into independent components that share no
variables with any other component, decides per component whether keeping it
as an active elimination matrix during search is worthwhile, and hands
accepted components to the elimination engine while returning rejected
constraints to the plain pool. Every constraint ends up owned by exactly one
place, never duplicated or lost.

Describing a problem

A problem can be described in several ways:

1. parse an extended DIMACS stream (io.Reader), where lines starting with
'x' are XOR constraints in CryptoMiniSat's notation. If the io.Reader
produces the following content:

    p cnf 6 3
    x 1 2 3 0
    x 3 4 0
    x -5 6 0

the programmer can create the Problem by doing:

    pb, err := solver.ParseCNF(f)

2. create the Problem programmatically:

    pb := solver.ParseSlice(clauses)
    pb.AddXor([]int{1, 2, 3}, true)

Finding matrices

Once the Problem is created, the partitioning pass is run from a Solver at
decision level 0:

    s := solver.New(pb)
    created, ok := s.FindMatrices()

If ok is false, the problem was proven unsatisfiable while normalizing the
XOR constraints. Otherwise, s.Matrices() holds one Gaussian elimination
matrix per accepted component and s.XorClauses() holds exactly the
constraints not placed in any matrix.

Admission is driven by the solver's GaussConf: row and column ceilings, a
row floor, a cap on the number of matrices, and thresholds on the total
constraint count below or above which partitioning is not attempted at all.
When a set of sampling variables is configured, the fraction of them covered
by a component decides admission instead of the row floor.
*/
package solver
