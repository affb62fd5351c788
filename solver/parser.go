package solver

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ParseSlice parses a slice of slices of lits and returns the equivalent
// problem. The argument is supposed to be a well-formed CNF.
func ParseSlice(cnf [][]int) *Problem {
	var pb Problem
	for _, line := range cnf {
		switch len(line) {
		case 0:
			pb.Status = Unsat
			return &pb
		case 1:
			if line[0] == 0 {
				panic("null unit clause")
			}
			lit := IntToLit(line[0])
			if v := lit.Var(); int(v) >= pb.NbVars {
				pb.NbVars = int(v) + 1
			}
			pb.Units = append(pb.Units, lit)
		default:
			lits := make([]Lit, len(line))
			for j, val := range line {
				if val == 0 {
					panic("null literal in clause")
				}
				lits[j] = IntToLit(val)
				if v := int(lits[j].Var()); v >= pb.NbVars {
					pb.NbVars = v + 1
				}
			}
			pb.Clauses = append(pb.Clauses, NewClause(lits))
		}
	}
	pb.Model = make(Model, pb.NbVars)
	for _, unit := range pb.Units {
		v := unit.Var()
		if pb.Model[v] == 0 {
			if unit.IsPositive() {
				pb.Model[v] = 1
			} else {
				pb.Model[v] = -1
			}
		} else if pb.Model[v] > 0 != unit.IsPositive() {
			pb.Status = Unsat
			return &pb
		}
	}
	return &pb
}

// ParseXorSlice parses a slice of XOR constraints given as variable slices
// with their parities and adds them to the problem.
func ParseXorSlice(pb *Problem, xors [][]int, rhs []bool) {
	for i, vars := range xors {
		pb.AddXor(vars, rhs[i])
	}
	if len(pb.Model) < pb.NbVars {
		model := make(Model, pb.NbVars)
		copy(model, pb.Model)
		pb.Model = model
	}
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

// readInt reads an int from r.
// 'b' is the last read byte. It can be a space, a '-' or a digit.
// The int can be negated.
// All spaces before the int value are ignored.
// Can return EOF.
func readInt(b *byte, r *bufio.Reader) (res int, err error) {
	for err == nil && isSpace(*b) {
		*b, err = r.ReadByte()
	}
	if err == io.EOF {
		return res, io.EOF
	}
	if err != nil {
		return res, fmt.Errorf("could not read digit: %v", err)
	}
	neg := 1
	if *b == '-' {
		neg = -1
		*b, err = r.ReadByte()
		if err != nil {
			return 0, fmt.Errorf("cannot read int: %v", err)
		}
	}
	for err == nil {
		if *b < '0' || *b > '9' {
			return 0, fmt.Errorf("cannot read int: %q is not a digit", *b)
		}
		res = 10*res + int(*b-'0')
		*b, err = r.ReadByte()
		if isSpace(*b) {
			break
		}
	}
	res *= neg
	return res, err
}

func parseHeader(r *bufio.Reader) (nbVars, nbClauses int, err error) {
	line, err := r.ReadString('\n')
	if err != nil {
		return 0, 0, fmt.Errorf("cannot read header: %v", err)
	}
	fields := strings.Fields(line)
	if len(fields) < 3 {
		return 0, 0, fmt.Errorf("invalid syntax %q in header", line)
	}
	nbVars, err = strconv.Atoi(fields[1])
	if err != nil {
		return 0, 0, fmt.Errorf("nbvars not an int : %q", fields[1])
	}
	nbClauses, err = strconv.Atoi(fields[2])
	if err != nil {
		return 0, 0, fmt.Errorf("nbClauses not an int : '%s'", fields[2])
	}
	return nbVars, nbClauses, nil
}

// readLits reads a zero-terminated list of literals from r.
// 'b' must hold the first byte of the first literal.
func readLits(b *byte, r *bufio.Reader, nbVars int) ([]int, error) {
	lits := make([]int, 0, 3)
	for {
		val, err := readInt(b, r)
		if err == io.EOF {
			if len(lits) != 0 {
				return nil, fmt.Errorf("unfinished clause while EOF found")
			}
			return nil, nil // Trailing spaces at the end of the file are ok
		}
		if err != nil {
			return nil, fmt.Errorf("cannot parse clause: %v", err)
		}
		if val == 0 {
			return lits, nil
		}
		if val > nbVars || -val > nbVars {
			return nil, fmt.Errorf("invalid literal %d for problem with %d vars only", val, nbVars)
		}
		lits = append(lits, val)
	}
}

// ParseCNF parses an extended DIMACS CNF stream and returns the
// corresponding Problem. Lines starting with 'x' are XOR constraints in
// CryptoMiniSat's notation: "x 1 2 -3 0" constrains the three variables to
// sum to false, the parity being flipped by each negative literal.
func ParseCNF(f io.Reader) (*Problem, error) {
	r := bufio.NewReader(f)
	var pb Problem
	b, err := r.ReadByte()
	for err == nil {
		if b == 'c' { // Ignore comment
			b, err = r.ReadByte()
			for err == nil && b != '\n' {
				b, err = r.ReadByte()
			}
		} else if b == 'p' { // Parse header
			var nbClauses int
			pb.NbVars, nbClauses, err = parseHeader(r)
			if err != nil {
				return nil, fmt.Errorf("cannot parse CNF header: %v", err)
			}
			pb.Model = make(Model, pb.NbVars)
			pb.Clauses = make([]*Clause, 0, nbClauses)
		} else if b == 'x' { // XOR constraint
			if pb.Model == nil {
				return nil, fmt.Errorf("xor clause found before CNF header")
			}
			b, err = r.ReadByte()
			if err != nil {
				return nil, fmt.Errorf("unfinished xor clause while EOF found")
			}
			vals, err2 := readLits(&b, r, pb.NbVars)
			if err2 != nil {
				return nil, err2
			}
			if vals != nil {
				rhs := true
				vars := make([]int, len(vals))
				for i, val := range vals {
					if val < 0 {
						rhs = !rhs
						val = -val
					}
					vars[i] = val
				}
				pb.Xors = append(pb.Xors, NewXor(vars, rhs))
			}
		} else {
			if pb.Model == nil {
				return nil, fmt.Errorf("clause found before CNF header")
			}
			vals, err2 := readLits(&b, r, pb.NbVars)
			if err2 != nil {
				return nil, err2
			}
			if vals != nil {
				switch len(vals) {
				case 0:
					pb.Status = Unsat
				case 1:
					pb.addUnit(IntToLit(vals[0]))
				default:
					lits := make([]Lit, len(vals))
					for i, val := range vals {
						lits[i] = IntToLit(val)
					}
					pb.Clauses = append(pb.Clauses, NewClause(lits))
				}
			}
		}
		b, err = r.ReadByte()
	}
	if err != io.EOF {
		return nil, err
	}
	return &pb, nil
}
