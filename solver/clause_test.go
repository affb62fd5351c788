package solver

import "testing"

func TestIntToLit(t *testing.T) {
	tests := []struct {
		cnf int
		lit Lit
	}{
		{1, 0},
		{-1, 1},
		{3, 4},
		{-3, 5},
	}
	for _, test := range tests {
		if lit := IntToLit(test.cnf); lit != test.lit {
			t.Errorf("invalid lit for %d: expected %d, got %d", test.cnf, test.lit, lit)
		}
		if back := IntToLit(test.cnf).Int(); int(back) != test.cnf {
			t.Errorf("lit roundtrip failed for %d: got %d", test.cnf, back)
		}
	}
	if v := IntToVar(-3); v != 2 {
		t.Errorf("invalid var for -3: expected 2, got %d", v)
	}
	if lit := IntToLit(-3); lit.IsPositive() {
		t.Errorf("lit for -3 should not be positive")
	}
	if neg := IntToLit(3).Negation(); neg != IntToLit(-3) {
		t.Errorf("invalid negation for 3: got %d", neg)
	}
}

func TestClauseCNF(t *testing.T) {
	c := NewClause([]Lit{IntToLit(1), IntToLit(-2), IntToLit(3)})
	if cnf := c.CNF(); cnf != "1 -2 3 0" {
		t.Errorf("invalid CNF representation: got %q", cnf)
	}
	if c.Len() != 3 {
		t.Errorf("invalid length: got %d", c.Len())
	}
	if c.First() != IntToLit(1) || c.Get(2) != IntToLit(3) {
		t.Errorf("invalid lit access")
	}
	c.Shrink(2)
	if cnf := c.CNF(); cnf != "1 -2 0" {
		t.Errorf("invalid CNF representation after shrink: got %q", cnf)
	}
}
