package optimize

import (
	"sort"
	"time"

	"github.com/agendex/agendex/core/availability"
	"github.com/agendex/agendex/core/logger"
	"github.com/agendex/agendex/core/model"
	"github.com/agendex/agendex/core/solve"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
	// threshold tolerates floating solver output when reading binaries.
	threshold = 0.5
)

// Options tunes one optimization run.
type Options struct {
	// TimeLimitSeconds bounds the solver wall-clock time.
	TimeLimitSeconds int `json:"time_limit_seconds"`
	// RelativeGap accepts solutions within this relative distance of the
	// best bound. Zero demands a proven optimum.
	RelativeGap float64 `json:"relative_gap"`
	// AllowOverlap drops the shared-resource constraint that forbids two
	// simultaneously open sessions.
	AllowOverlap bool `json:"allow_overlap"`
	// MonthlyCap limits the number of opened sessions per period tag.
	// Zero disables the cap.
	MonthlyCap int `json:"monthly_cap"`
}

// SetDefaults applies the reference solving policy.
func (o *Options) SetDefaults() {
	if o.TimeLimitSeconds == 0 {
		o.TimeLimitSeconds = 120
	}
}

// Optimizer runs the session assignment program.
type Optimizer struct {
	opts Options
	log  logger.Logger
}

// New creates an Optimizer. A nil log disables logging.
func New(opts Options, log logger.Logger) *Optimizer {
	opts.SetDefaults()
	if log == nil {
		log = logger.Nop{}
	}
	return &Optimizer{opts: opts, log: log}
}

// Stats describes how the solver behaved during a run.
type Stats struct {
	Status    string
	Objective float64
	Nodes     int
	Gap       float64
}

// Run builds the integer program for the catalog and matrix, solves it and
// extracts the schedule. The model is constructed from scratch on every
// call and discarded afterwards; concurrent runs share nothing.
func (o *Optimizer) Run(catalog []model.Session, m *availability.Matrix) (*model.Result, error) {
	res, _, err := o.RunWithStats(catalog, m)
	return res, err
}

// RunWithStats is Run plus solver statistics for observability.
func (o *Optimizer) RunWithStats(catalog []model.Session, m *availability.Matrix) (*model.Result, Stats, error) {
	people := m.People()
	nPeople := len(people)
	nSessions := len(catalog)

	// Variable layout: assign[p][s] first, then open[s], then
	// unassigned[p].
	assignVar := func(p, s int) int { return p*nSessions + s }
	openVar := func(s int) int { return nPeople*nSessions + s }
	unassignedVar := func(p int) int { return nPeople*nSessions + nSessions + p }
	nvar := nPeople*nSessions + nSessions + nPeople

	mdl := solve.NewModel(nvar)
	for i := 0; i < nvar; i++ {
		mdl.SetBinary(i)
	}

	// Minimize opened sessions, but leaving someone unassigned costs more
	// than any achievable reduction in session count, so the solver
	// minimizes unassigned people first.
	bigM := float64(nPeople) + 1
	for s := range catalog {
		mdl.SetObjective(openVar(s), 1)
	}
	for p := range people {
		mdl.SetObjective(unassignedVar(p), bigM)
	}

	for s, sess := range catalog {
		// Capacity, and open[s] forced whenever anyone is assigned.
		capacity := map[int]float64{openVar(s): -float64(sess.Capacity)}
		// A session marked open must host at least one participant.
		occ := map[int]float64{openVar(s): 1}
		for p := range people {
			capacity[assignVar(p, s)] = 1
			occ[assignVar(p, s)] = -1
		}
		mdl.AddLE(capacity, 0)
		mdl.AddLE(occ, 0)
	}

	// Availability is a hard exclusion, not a penalty.
	for p, person := range people {
		for s, sess := range catalog {
			if !m.Available(sess.ID, person) {
				mdl.AddEQ(map[int]float64{assignVar(p, s): 1}, 0)
			}
		}
	}

	// Everyone sits in exactly one session or is explicitly unassigned.
	for p := range people {
		placement := map[int]float64{unassignedVar(p): 1}
		for s := range catalog {
			placement[assignVar(p, s)] = 1
		}
		mdl.AddEQ(placement, 1)
	}

	if !o.opts.AllowOverlap {
		pairs := 0
		for i := 0; i < nSessions; i++ {
			for j := i + 1; j < nSessions; j++ {
				if catalog[i].Overlaps(catalog[j]) {
					mdl.AddLE(map[int]float64{openVar(i): 1, openVar(j): 1}, 1)
					pairs++
				}
			}
		}
		o.log.Debugf("overlap exclusivity: %d conflicting pairs", pairs)
	}

	if o.opts.MonthlyCap > 0 {
		groups := make(map[string]map[int]float64)
		for s, sess := range catalog {
			g, ok := groups[sess.Period]
			if !ok {
				g = make(map[int]float64)
				groups[sess.Period] = g
			}
			g[openVar(s)] = 1
		}
		for period, g := range groups {
			mdl.AddLE(g, float64(o.opts.MonthlyCap))
			o.log.Debugf("period %s capped at %d sessions", period, o.opts.MonthlyCap)
		}
	}

	o.log.Infof("solving: %d sessions, %d people, %d variables, time limit %ds",
		nSessions, nPeople, nvar, o.opts.TimeLimitSeconds)

	sol, err := solveModel(mdl, solve.Options{
		TimeLimit:   time.Duration(o.opts.TimeLimitSeconds) * time.Second,
		RelativeGap: o.opts.RelativeGap,
	})
	if err != nil {
		return nil, Stats{}, &OptimizationFailedError{Status: err.Error()}
	}
	o.log.Infof("solver finished: status=%s objective=%.3f nodes=%d", sol.Status, sol.Objective, sol.Nodes)

	stats := Stats{
		Status:    sol.Status.String(),
		Objective: sol.Objective,
		Nodes:     sol.Nodes,
		Gap:       sol.Gap,
	}
	switch sol.Status {
	case solve.StatusOptimal, solve.StatusFeasible:
	default:
		return nil, stats, &OptimizationFailedError{Status: sol.Status.String()}
	}

	res, err := o.extract(catalog, people, sol, assignVar, openVar, unassignedVar)
	return res, stats, err
}

func (o *Optimizer) extract(catalog []model.Session, people []string, sol solve.Solution,
	assignVar func(int, int) int, openVar func(int) int, unassignedVar func(int) int) (*model.Result, error) {

	scheduled := []model.ScheduledSession{}
	opened := 0
	for s, sess := range catalog {
		if sol.X[openVar(s)] <= threshold {
			continue
		}
		opened++
		var participants []string
		for p, person := range people {
			if sol.X[assignVar(p, s)] > threshold {
				participants = append(participants, person)
			}
		}
		sort.Strings(participants)
		scheduled = append(scheduled, model.ScheduledSession{
			SessionName:      sess.ID,
			EventDate:        sess.Date.Format(dateLayout),
			StartTime:        sess.Start.Format(timeLayout),
			EndTime:          sess.End.Format(timeLayout),
			ParticipantCount: len(participants),
			Participants:     participants,
		})
	}

	unallocated := []string{}
	for p, person := range people {
		if sol.X[unassignedVar(p)] > threshold {
			unallocated = append(unallocated, person)
		}
	}
	sort.Strings(unallocated)

	// A positive objective with nothing readable from the variables means
	// the solver binding lost the solution, not that the schedule is
	// empty.
	if sol.Objective > threshold && opened == 0 && len(unallocated) == 0 {
		return nil, &ExtractionInconsistencyError{Objective: sol.Objective}
	}

	return &model.Result{
		TotalSessionsUsed: opened,
		ScheduledSessions: scheduled,
		UnallocatedPeople: unallocated,
	}, nil
}

// solveModel invokes the branch-and-bound solver. It is a variable so tests
// can substitute solver outcomes.
var solveModel = func(m *solve.Model, opts solve.Options) (solve.Solution, error) {
	return m.Solve(opts)
}
