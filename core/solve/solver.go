package solve

import (
	"errors"
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"
)

// Status reports the outcome of a solve.
type Status int

const (
	// StatusUnsolved means the deadline expired before any integral
	// solution was found.
	StatusUnsolved Status = iota
	// StatusOptimal means the incumbent was proven optimal (or within the
	// configured gap with an exhausted tree).
	StatusOptimal
	// StatusFeasible means an integral solution exists but optimality was
	// not proven before the deadline or gap cutoff.
	StatusFeasible
	// StatusInfeasible means no assignment satisfies the constraints.
	StatusInfeasible
)

func (s Status) String() string {
	switch s {
	case StatusOptimal:
		return "optimal"
	case StatusFeasible:
		return "feasible"
	case StatusInfeasible:
		return "infeasible"
	default:
		return "unsolved"
	}
}

// Options tunes one solve.
type Options struct {
	// TimeLimit bounds the wall-clock time spent in branch-and-bound.
	// Zero means no limit.
	TimeLimit time.Duration
	// RelativeGap stops the search once the incumbent is proven within
	// this relative distance of the best bound. Zero demands a proven
	// optimum.
	RelativeGap float64
}

// Solution is the result of one solve.
type Solution struct {
	Status    Status
	Objective float64
	// X holds the variable values of the incumbent, nil when no integral
	// solution was found.
	X []float64
	// Gap is the relative distance between incumbent and best bound at
	// termination.
	Gap float64
	// Nodes counts explored branch-and-bound nodes.
	Nodes int
}

type term struct {
	idx  int
	coef float64
}

type row struct {
	terms []term
	rhs   float64
}

// Model accumulates a minimization problem over binary variables.
type Model struct {
	nvar   int
	obj    []float64
	ineq   []row
	eq     []row
	binary []bool
}

// NewModel creates a model with nvar variables and a zero objective.
func NewModel(nvar int) *Model {
	return &Model{
		nvar:   nvar,
		obj:    make([]float64, nvar),
		binary: make([]bool, nvar),
	}
}

// NumVariables returns the number of decision variables.
func (m *Model) NumVariables() int { return m.nvar }

// SetObjective sets the cost coefficient of variable i.
func (m *Model) SetObjective(i int, c float64) { m.obj[i] = c }

// SetBinary restricts variable i to {0, 1}.
func (m *Model) SetBinary(i int) { m.binary[i] = true }

// AddLE adds the constraint sum(coeffs[i]*x[i]) <= rhs.
func (m *Model) AddLE(coeffs map[int]float64, rhs float64) {
	m.ineq = append(m.ineq, makeRow(coeffs, rhs))
}

// AddEQ adds the constraint sum(coeffs[i]*x[i]) = rhs.
func (m *Model) AddEQ(coeffs map[int]float64, rhs float64) {
	m.eq = append(m.eq, makeRow(coeffs, rhs))
}

func makeRow(coeffs map[int]float64, rhs float64) row {
	r := row{rhs: rhs, terms: make([]term, 0, len(coeffs))}
	for i, c := range coeffs {
		r.terms = append(r.terms, term{idx: i, coef: c})
	}
	return r
}

const (
	simplexTol = 1e-7
	intTol     = 1e-6
	pruneTol   = 1e-9
)

type fixing struct {
	idx int
	val float64
}

type node struct {
	fixings []fixing
	// bound is the LP objective of the parent relaxation, a valid lower
	// bound for every descendant.
	bound float64
}

// simplexSolve runs one LP relaxation in standard form. It is a variable so
// tests can simulate solver failures.
var simplexSolve = func(c []float64, a mat.Matrix, b []float64) (float64, []float64, error) {
	return lp.Simplex(c, a, b, simplexTol, nil)
}

// relax solves the LP relaxation of the model under the given fixings and
// maps the standard-form solution back onto the model variables.
func (m *Model) relax(fixings []fixing) (float64, []float64, error) {
	nb := 0
	for _, isBin := range m.binary {
		if isBin {
			nb++
		}
	}
	gRows := len(m.ineq) + 2*nb
	g := mat.NewDense(gRows, m.nvar, nil)
	h := make([]float64, gRows)
	for r, cr := range m.ineq {
		for _, t := range cr.terms {
			g.Set(r, t.idx, t.coef)
		}
		h[r] = cr.rhs
	}
	// 0 <= x <= 1 bounds for binary variables. General-form variables are
	// otherwise free.
	r := len(m.ineq)
	for i, isBin := range m.binary {
		if !isBin {
			continue
		}
		g.Set(r, i, 1)
		h[r] = 1
		g.Set(r+1, i, -1)
		h[r+1] = 0
		r += 2
	}

	aRows := len(m.eq) + len(fixings)
	var a *mat.Dense
	var b []float64
	if aRows > 0 {
		a = mat.NewDense(aRows, m.nvar, nil)
		b = make([]float64, aRows)
		for r, cr := range m.eq {
			for _, t := range cr.terms {
				a.Set(r, t.idx, t.coef)
			}
			b[r] = cr.rhs
		}
		for k, f := range fixings {
			a.Set(len(m.eq)+k, f.idx, 1)
			b[len(m.eq)+k] = f.val
		}
	}

	var cStd []float64
	var aStd *mat.Dense
	var bStd []float64
	if a != nil {
		cStd, aStd, bStd = lp.Convert(m.obj, g, h, a, b)
	} else {
		cStd, aStd, bStd = lp.Convert(m.obj, g, h, nil, nil)
	}
	opt, xStd, err := simplexSolve(cStd, aStd, bStd)
	if err != nil {
		return 0, nil, err
	}
	// Convert splits each free variable into a positive and a negative
	// part: x[i] = xStd[i] - xStd[nvar+i].
	x := make([]float64, m.nvar)
	for i := range x {
		x[i] = xStd[i] - xStd[m.nvar+i]
	}
	return opt, x, nil
}

// branchVar picks the most fractional binary variable, lowest index on
// ties. Returns -1 when the point is integral within tolerance.
func (m *Model) branchVar(x []float64) int {
	best := -1
	bestFrac := intTol
	for i, isBin := range m.binary {
		if !isBin {
			continue
		}
		f := math.Abs(x[i] - math.Round(x[i]))
		if f > bestFrac {
			best = i
			bestFrac = f
		}
	}
	return best
}

// Solve runs branch-and-bound and returns the best integral solution found
// within the configured limits.
func (m *Model) Solve(opts Options) (Solution, error) {
	if m.nvar == 0 {
		return Solution{}, errors.New("solve: model has no variables")
	}
	start := time.Now()
	deadline := func() bool {
		return opts.TimeLimit > 0 && time.Since(start) >= opts.TimeLimit
	}

	incumbent := math.Inf(1)
	var incumbentX []float64
	nodes := 0
	stack := []node{{bound: math.Inf(-1)}}
	timedOut := false

	for len(stack) > 0 {
		if deadline() {
			timedOut = true
			break
		}
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n.bound >= incumbent-pruneTol {
			continue
		}
		nodes++

		bound, x, err := m.relax(n.fixings)
		if err != nil {
			// Simplex reports contradictory equality systems as either
			// ErrInfeasible or ErrSingular, the latter when the rows make
			// A rank-deficient. Both mean the node has no solution.
			if errors.Is(err, lp.ErrInfeasible) || errors.Is(err, lp.ErrSingular) {
				continue
			}
			return Solution{}, fmt.Errorf("solve: lp relaxation: %w", err)
		}
		if bound >= incumbent-pruneTol {
			continue
		}

		branch := m.branchVar(x)
		if branch < 0 {
			// Integral: new incumbent.
			incumbent = bound
			incumbentX = x
			if opts.RelativeGap > 0 {
				if g := relativeGap(incumbent, openBound(stack, bound)); g <= opts.RelativeGap {
					break
				}
			}
			continue
		}

		// Explore the rounded value first (LIFO: push it last).
		preferred := math.Round(x[branch])
		other := 1 - preferred
		stack = append(stack,
			node{fixings: appendFixing(n.fixings, fixing{branch, other}), bound: bound},
			node{fixings: appendFixing(n.fixings, fixing{branch, preferred}), bound: bound},
		)
	}

	sol := Solution{Nodes: nodes}
	switch {
	case incumbentX == nil && timedOut:
		sol.Status = StatusUnsolved
	case incumbentX == nil:
		sol.Status = StatusInfeasible
	default:
		sol.Objective = incumbent
		sol.X = incumbentX
		sol.Gap = relativeGap(incumbent, openBound(stack, incumbent))
		if len(stack) == 0 && !timedOut {
			sol.Status = StatusOptimal
			sol.Gap = 0
		} else {
			sol.Status = StatusFeasible
		}
	}
	return sol, nil
}

// openBound returns the smallest lower bound among open nodes, or fallback
// when the tree is exhausted.
func openBound(stack []node, fallback float64) float64 {
	best := fallback
	for _, n := range stack {
		if n.bound < best {
			best = n.bound
		}
	}
	return best
}

func relativeGap(incumbent, bound float64) float64 {
	if math.IsInf(bound, -1) {
		return math.Inf(1)
	}
	denom := math.Max(1, math.Abs(incumbent))
	return (incumbent - bound) / denom
}

func appendFixing(fs []fixing, f fixing) []fixing {
	out := make([]fixing, len(fs), len(fs)+1)
	copy(out, fs)
	return append(out, f)
}
