package solve

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestSolveCoverLikeProblem(t *testing.T) {
	// Minimize x0 + x1 subject to x0 + x1 >= 1.
	m := NewModel(2)
	m.SetBinary(0)
	m.SetBinary(1)
	m.SetObjective(0, 1)
	m.SetObjective(1, 1)
	m.AddLE(map[int]float64{0: -1, 1: -1}, -1)

	sol, err := m.Solve(Options{})
	require.NoError(t, err)
	assert.Equal(t, StatusOptimal, sol.Status)
	assert.InDelta(t, 1, sol.Objective, 1e-6)
	assert.InDelta(t, 1, sol.X[0]+sol.X[1], 1e-6)
	assert.Zero(t, sol.Gap)
}

func TestSolveRequiresBranching(t *testing.T) {
	// Minimize -(x0 + x1) subject to x0 + x1 <= 1.5. The relaxation sits at
	// -1.5 with a fractional variable; the integer optimum is -1.
	m := NewModel(2)
	m.SetBinary(0)
	m.SetBinary(1)
	m.SetObjective(0, -1)
	m.SetObjective(1, -1)
	m.AddLE(map[int]float64{0: 1, 1: 1}, 1.5)

	sol, err := m.Solve(Options{})
	require.NoError(t, err)
	assert.Equal(t, StatusOptimal, sol.Status)
	assert.InDelta(t, -1, sol.Objective, 1e-6)
	assert.Greater(t, sol.Nodes, 1)
}

func TestSolveEquality(t *testing.T) {
	// Minimize x0 with x0 + x1 = 1 forces x1 = 1.
	m := NewModel(2)
	m.SetBinary(0)
	m.SetBinary(1)
	m.SetObjective(0, 1)
	m.AddEQ(map[int]float64{0: 1, 1: 1}, 1)

	sol, err := m.Solve(Options{})
	require.NoError(t, err)
	assert.Equal(t, StatusOptimal, sol.Status)
	assert.InDelta(t, 0, sol.Objective, 1e-6)
	assert.InDelta(t, 0, sol.X[0], 1e-6)
	assert.InDelta(t, 1, sol.X[1], 1e-6)
}

func TestSolveInfeasible(t *testing.T) {
	m := NewModel(1)
	m.SetBinary(0)
	m.AddEQ(map[int]float64{0: 1}, 1)
	m.AddEQ(map[int]float64{0: 1}, 0)

	sol, err := m.Solve(Options{})
	require.NoError(t, err)
	assert.Equal(t, StatusInfeasible, sol.Status)
	assert.Nil(t, sol.X)
}

func TestSolveFractionalEqualityIsInfeasible(t *testing.T) {
	// x0 = 0.5 is feasible for the relaxation but not for a binary. Both
	// branch fixings contradict the equality, so the simplex reports the
	// children as infeasible or singular; either way the node must be
	// pruned, not abort the solve.
	m := NewModel(1)
	m.SetBinary(0)
	m.SetObjective(0, 1)
	m.AddEQ(map[int]float64{0: 1}, 0.5)

	sol, err := m.Solve(Options{})
	require.NoError(t, err)
	assert.Equal(t, StatusInfeasible, sol.Status)
	assert.Nil(t, sol.X)
}

func TestSolveTimeLimit(t *testing.T) {
	m := NewModel(2)
	m.SetBinary(0)
	m.SetBinary(1)
	m.SetObjective(0, 1)
	m.AddLE(map[int]float64{0: -1, 1: -1}, -1)

	sol, err := m.Solve(Options{TimeLimit: time.Nanosecond})
	require.NoError(t, err)
	assert.Equal(t, StatusUnsolved, sol.Status)
}

func TestSolveEmptyModel(t *testing.T) {
	m := NewModel(0)
	_, err := m.Solve(Options{})
	assert.Error(t, err)
}

func TestSolveLPFailureBubbles(t *testing.T) {
	orig := simplexSolve
	defer func() { simplexSolve = orig }()
	boom := errors.New("singular basis")
	simplexSolve = func(c []float64, a mat.Matrix, b []float64) (float64, []float64, error) {
		return 0, nil, boom
	}

	m := NewModel(1)
	m.SetBinary(0)
	m.SetObjective(0, 1)
	_, err := m.Solve(Options{})
	assert.ErrorIs(t, err, boom)
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "optimal", StatusOptimal.String())
	assert.Equal(t, "feasible", StatusFeasible.String())
	assert.Equal(t, "infeasible", StatusInfeasible.String())
	assert.Equal(t, "unsolved", StatusUnsolved.String())
}
