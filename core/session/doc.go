// Package session expands a recurrence specification (date range, weekday
// filter, start times) into the finite catalog of candidate sessions the
// optimizer selects from.
package session
