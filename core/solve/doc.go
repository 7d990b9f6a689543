// Package solve implements a small binary integer programming solver:
// branch-and-bound over LP relaxations solved with gonum's simplex method.
// It supports equality and inequality rows, a wall-clock deadline and a
// relative optimality gap. Branching is deterministic, so repeat solves of
// the same model reach the same objective value.
package solve
