package optimize

import "fmt"

// OptimizationFailedError reports that the solver found no usable solution.
// Status carries the raw solver status text.
type OptimizationFailedError struct {
	Status string
}

func (e *OptimizationFailedError) Error() string {
	return fmt.Sprintf("optimization found no usable solution (solver status: %s)", e.Status)
}

// ExtractionInconsistencyError reports a contract violation between the
// solver status and the extracted variables: the objective says something
// was scheduled or penalized, yet extraction read nothing. This must fail
// loudly instead of masquerading as an empty schedule.
type ExtractionInconsistencyError struct {
	Objective float64
}

func (e *ExtractionInconsistencyError) Error() string {
	return fmt.Sprintf("solver reported objective %.3f but no variable values could be extracted", e.Objective)
}
