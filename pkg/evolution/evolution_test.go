package evolution

import (
	"context"
	"testing"
	"time"

	"github.com/PeakBI/vrp/pkg/constraint"
	"github.com/PeakBI/vrp/pkg/gsom"
	"github.com/PeakBI/vrp/pkg/insertion"
	"github.com/PeakBI/vrp/pkg/model"
	"github.com/PeakBI/vrp/pkg/refinement"
	"github.com/PeakBI/vrp/pkg/rng"
	"github.com/PeakBI/vrp/pkg/routestate"
	"github.com/PeakBI/vrp/pkg/solution"
)

// testNetworkConfig returns a GSOM population configuration sized for
// small test fixtures.
func testNetworkConfig(random *rng.RNG) gsom.NetworkConfig {
	return gsom.NetworkConfig{
		SpreadFactor:       0.5,
		DistributionFactor: 0.25,
		LearningRate:       0.3,
		RebalanceMemory:    10,
		Random:             random,
	}
}

// zeroTransport is a TransportCost stub for tests where detour distances
// are irrelevant to what's being asserted.
type zeroTransport struct{}

func (zeroTransport) Distance(_, _ model.Place) float64 { return 0 }
func (zeroTransport) Duration(_, _ model.Place) float64 { return 0 }

// jobCountObjective scores a solution by how many activities it carries
// plus a heavy per-unassigned-job penalty, so a driver under test always
// prefers assigning more jobs over leaving them out.
type jobCountObjective struct{}

func (jobCountObjective) Fitness(routes []*model.Route, unassigned int) float64 {
	total := 0
	for _, r := range routes {
		total += r.Tour.JobCount()
	}
	return float64(unassigned)*1000 - float64(total)
}

func newTestProblem(jobDemands ...int) (*model.Problem, []*model.Job) {
	jobs := make([]*model.Job, len(jobDemands))
	for i, d := range jobDemands {
		jobs[i] = model.NewJob("", model.Demand(d))
	}
	vehicle := model.NewVehicle("v1", 1000)
	fleet := model.NewFleet([]*model.Vehicle{vehicle})
	problem := &model.Problem{Jobs: jobs, Fleet: fleet, Objective: jobCountObjective{}}
	return problem, jobs
}

func newInitialContext(problem *model.Problem) *solution.InsertionContext {
	ic := solution.New(problem)
	vehicle := problem.Fleet.Available()[0]
	rc := routestate.NewRouteContext(model.NewRoute(vehicle, model.Place{Location: "depot"}))
	if err := ic.AddRoute(rc); err != nil {
		panic(err)
	}
	return ic
}

func TestTournamentSelectorPrefersLowerCost(t *testing.T) {
	problem, jobs := newTestProblem(1, 1)
	good := newInitialContext(problem)
	good.Routes[0].Route.Tour.InsertAt(1, model.NewJobActivity(jobs[0]))
	good.MarkAssigned(jobs[0].ID)

	bad := newInitialContext(problem)

	env := refinement.NewEnvironment(rng.NewRNG(1, "evolution_test", []byte("test")), nil, 0)
	rc := refinement.NewContext(problem, []*solution.InsertionContext{good}, jobCountObjective{}, testNetworkConfig(env.Random), env)
	rc.Population.Add(bad)

	selector := TournamentSelector(8)
	sawGood := false
	for i := 0; i < 50 && !sawGood; i++ {
		if selector(rc, jobCountObjective{}) == good {
			sawGood = true
		}
	}
	if !sawGood {
		t.Fatal("expected tournament selection to favor the individual with more assigned jobs at least once across repeated draws")
	}
}

func TestRuinAndRecreateReinsertsRuinedJobs(t *testing.T) {
	problem, jobs := newTestProblem(1, 1, 1)
	parent := newInitialContext(problem)
	for _, j := range jobs {
		parent.Routes[0].Route.Tour.InsertAt(parent.Routes[0].Route.Tour.Count()-1, model.NewJobActivity(j))
		parent.MarkAssigned(j.ID)
	}

	pipeline := constraint.NewPipeline(constraint.NewCapacity())
	evaluator := insertion.NewEvaluator(pipeline, zeroTransport{})
	operator := NewRuinAndRecreate(pipeline, evaluator, 2)

	rc := &refinement.Context{
		Problem:     problem,
		Environment: refinement.NewEnvironment(rng.NewRNG(7, "evolution_test", []byte("test")), nil, 0),
	}

	child, err := operator.Mutate(context.Background(), rc, parent)
	if err != nil {
		t.Fatalf("Mutate returned error: %v", err)
	}
	if got := child.Routes[0].Route.Tour.JobCount(); got != 3 {
		t.Fatalf("expected all 3 jobs reassigned after ruin-and-recreate, got %d", got)
	}
	if len(child.Unassigned) != 0 {
		t.Fatalf("expected every job reinserted, unassigned = %v", child.Unassigned)
	}
	if parent.Routes[0].Route.Tour.JobCount() != 3 {
		t.Fatal("expected the parent to be left untouched by mutation")
	}
}

func TestRuinAndRecreateNeverRuinsALockedJob(t *testing.T) {
	problem, jobs := newTestProblem(1, 1, 1)
	parent := newInitialContext(problem)
	for _, j := range jobs {
		parent.Routes[0].Route.Tour.InsertAt(parent.Routes[0].Route.Tour.Count()-1, model.NewJobActivity(j))
		parent.MarkAssigned(j.ID)
	}
	parent.Lock(jobs[0].ID, solution.LockedPosition{RouteID: parent.Routes[0].Route.Vehicle.ID, Index: 1})

	pipeline := constraint.NewPipeline(constraint.NewCapacity())
	evaluator := insertion.NewEvaluator(pipeline, zeroTransport{})
	// RuinCount covers the whole route: if locking weren't honored, every
	// job (including the locked one) would be a ruin candidate.
	operator := NewRuinAndRecreate(pipeline, evaluator, len(jobs))

	rc := &refinement.Context{
		Problem:     problem,
		Environment: refinement.NewEnvironment(rng.NewRNG(11, "evolution_test", []byte("test")), nil, 0),
	}

	child, err := operator.Mutate(context.Background(), rc, parent)
	if err != nil {
		t.Fatalf("Mutate returned error: %v", err)
	}

	lockedAct := child.Routes[0].Route.Tour.Get(1)
	if lockedAct == nil || lockedAct.Job == nil || lockedAct.Job.ID != jobs[0].ID {
		t.Fatalf("expected the locked job to remain at its pinned index 1, got %v", lockedAct)
	}
	if _, unassigned := child.Unassigned[jobs[0].ID]; unassigned {
		t.Fatal("expected the locked job to never be pulled into the unassigned set")
	}
}

func TestTerminationAny(t *testing.T) {
	rc := &refinement.Context{Statistics: refinement.NewStatistics()}
	rc.Statistics.RecordGeneration(10, 10, 10, 0)
	rc.Statistics.RecordGeneration(10, 10, 10, 0)
	rc.Statistics.RecordGeneration(10, 10, 10, 0)

	term := Any(MaxGenerations(5), Plateau(2))
	if !term(rc) {
		t.Fatal("expected plateau termination to fire after 2 stagnant generations")
	}
}

func TestDeadlineTermination(t *testing.T) {
	past := time.Now().Add(-time.Hour)
	term := Deadline(past, time.Now)
	if !term(&refinement.Context{}) {
		t.Fatal("expected a past deadline to report termination")
	}
}

func TestDriverRunImprovesPopulation(t *testing.T) {
	problem, jobs := newTestProblem(1, 1, 1)
	initial := newInitialContext(problem)

	pipeline := constraint.NewPipeline(constraint.NewCapacity())
	evaluator := insertion.NewEvaluator(pipeline, zeroTransport{})
	operator := NewRuinAndRecreate(pipeline, evaluator, 1)

	env := refinement.NewEnvironment(rng.NewRNG(3, "evolution_test", []byte("test")), nil, 0)
	rc := refinement.NewContext(problem, []*solution.InsertionContext{initial}, jobCountObjective{}, testNetworkConfig(env.Random), env)

	generations := 0
	terminate := func(c *refinement.Context) bool {
		generations++
		return generations > 5
	}

	driver := NewDriver(jobCountObjective{}, TournamentSelector(2), operator, terminate, nil)
	best, err := driver.Run(context.Background(), rc)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	assignedCount := 0
	for _, r := range best.Routes {
		assignedCount += r.Route.Tour.JobCount()
	}
	if assignedCount != len(jobs) {
		t.Fatalf("expected the driver to eventually assign all jobs, got %d/%d", assignedCount, len(jobs))
	}
}
