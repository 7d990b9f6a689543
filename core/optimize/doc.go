// Package optimize builds and solves the integer program selecting which
// sessions to open and who attends which one. Each run is a pure function
// of the session catalog, the availability matrix and the options; no state
// survives between runs.
package optimize
