// Command vrpsolver is a thin demonstration CLI around the solver core.
// Building a Problem from a real input format, wiring a geographic cost
// matrix, and defining a production objective are all external
// collaborators the core intentionally does not provide (see
// SPEC_FULL.md's non-goals); this command instead assembles a small
// synthetic problem so the select->mutate->insert loop can be exercised
// end to end.
package main

import (
	"context"
	"flag"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/PeakBI/vrp/pkg/constraint"
	"github.com/PeakBI/vrp/pkg/evolution"
	"github.com/PeakBI/vrp/pkg/export"
	"github.com/PeakBI/vrp/pkg/gsom"
	"github.com/PeakBI/vrp/pkg/insertion"
	"github.com/PeakBI/vrp/pkg/model"
	"github.com/PeakBI/vrp/pkg/refinement"
	"github.com/PeakBI/vrp/pkg/rng"
	"github.com/PeakBI/vrp/pkg/routestate"
	"github.com/PeakBI/vrp/pkg/solution"
	"github.com/PeakBI/vrp/pkg/solverconfig"
	"github.com/PeakBI/vrp/pkg/transport"
)

const version = "0.1.0"

var (
	configPath  = flag.String("config", "", "Path to YAML solver configuration file (required)")
	jobCount    = flag.Int("jobs", 20, "Number of synthetic jobs to generate")
	vehicles    = flag.Int("vehicles", 4, "Number of synthetic vehicles to generate")
	capacity    = flag.Int("capacity", 50, "Capacity of each synthetic vehicle")
	topologyOut = flag.String("topology", "", "Optional path to write a debug SVG of the GSOM topology")
	verbose     = flag.Bool("verbose", false, "Enable verbose output")
	versionF    = flag.Bool("version", false, "Print version and exit")
)

func main() {
	flag.Parse()

	if *versionF {
		fmt.Printf("vrpsolver version %s\n", version)
		os.Exit(0)
	}

	if *configPath == "" {
		fmt.Fprintln(os.Stderr, "Error: -config flag is required")
		os.Exit(1)
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	cfg, err := solverconfig.LoadConfig(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if *verbose {
		fmt.Printf("Using seed: %d\n", cfg.Seed)
	}

	problem, points := syntheticProblem(*jobCount, *vehicles, *capacity)
	initial := syntheticInitialSolution(problem)

	pipeline := constraint.NewPipeline(constraint.NewCapacity())
	for _, route := range initial.Routes {
		pipeline.AcceptRouteState(route)
	}
	evaluator := insertion.NewEvaluator(pipeline, transport.NewPointCost(points, 1))

	environment := refinement.NewEnvironment(rng.NewRNG(cfg.Seed, "evolution", cfg.Hash()), nil, cfg.Concurrency)
	networkConfig := gsom.NetworkConfig{
		SpreadFactor:       cfg.Network.SpreadFactor,
		DistributionFactor: cfg.Network.DistributionFactor,
		LearningRate:       cfg.Network.LearningRate,
		RebalanceMemory:    cfg.Network.RebalanceMemory,
		HasInitialError:    cfg.Network.HasInitialError,
		Random:             environment.Random,
	}
	rc := refinement.NewContext(problem, []*solution.InsertionContext{initial}, problem.Objective, networkConfig, environment)

	var criteria []evolution.Termination
	if cfg.Termination.MaxGenerations > 0 {
		criteria = append(criteria, evolution.MaxGenerations(cfg.Termination.MaxGenerations))
	}
	if cfg.Termination.PlateauGenerations > 0 {
		criteria = append(criteria, evolution.Plateau(cfg.Termination.PlateauGenerations))
	}
	if cfg.Termination.MaxDuration > 0 {
		criteria = append(criteria, evolution.Deadline(time.Now().Add(cfg.Termination.MaxDuration), time.Now))
	}
	terminate := evolution.Any(criteria...)

	driver := evolution.NewDriver(
		problem.Objective,
		evolution.TournamentSelector(cfg.TournamentSize),
		evolution.NewRuinAndRecreate(pipeline, evaluator, cfg.RuinCount),
		terminate,
		evolution.NewMetrics(nil),
	)
	driver.MaxPopulationSize = cfg.MaxPopulationSize
	if cfg.Network.RebalanceCount > 0 {
		driver.RebalanceCount = cfg.Network.RebalanceCount
	}

	start := time.Now()
	best, err := driver.Run(ctx, rc)
	if err != nil {
		return fmt.Errorf("solve failed: %w", err)
	}
	elapsed := time.Since(start)

	sol := best.ToSolution()
	fmt.Printf("Solved in %v (%d generations): %d routes, %d unassigned, cost=%.2f\n",
		elapsed, rc.Statistics.Snapshot().Generation, len(sol.Routes), len(sol.Unassigned),
		evolution.Cost(best, problem.Objective))

	if *topologyOut != "" {
		if err := export.SaveTopologySVGToFile(*topologyOut, rc.Population.Network(), export.DefaultTopologyOptions()); err != nil {
			return fmt.Errorf("failed to write topology SVG: %w", err)
		}
		if *verbose {
			fmt.Printf("Wrote GSOM topology visualization to %s\n", *topologyOut)
		}
	}

	return nil
}

// syntheticProblem builds a deterministic toy instance: jobCount unit-demand
// jobs and vehicleCount vehicles of the given capacity, scored by a minimal
// objective that favors assigning more jobs and using fewer routes. Jobs
// are placed evenly around a circle centered on the depot, and the
// returned point table is the cost matrix a real deployment would instead
// get from a routing engine.
func syntheticProblem(jobCount, vehicleCount, capacity int) (*model.Problem, map[string]transport.Point) {
	const radius = 10.0

	points := map[string]transport.Point{"depot": {X: 0, Y: 0}}

	jobs := make([]*model.Job, jobCount)
	for i := range jobs {
		loc := fmt.Sprintf("job-%d", i)
		jobs[i] = model.NewJob(fmt.Sprintf("job-%d", i), 1)
		jobs[i].Place = model.Place{Location: loc}

		angle := 2 * math.Pi * float64(i) / float64(jobCount)
		points[loc] = transport.Point{X: radius * math.Cos(angle), Y: radius * math.Sin(angle)}
	}

	fleetVehicles := make([]*model.Vehicle, vehicleCount)
	for i := range fleetVehicles {
		fleetVehicles[i] = model.NewVehicle(fmt.Sprintf("vehicle-%d", i), capacity)
	}

	problem := &model.Problem{
		Jobs:      jobs,
		Fleet:     model.NewFleet(fleetVehicles),
		Objective: routeCountObjective{},
	}
	return problem, points
}

// syntheticInitialSolution seeds one empty route per vehicle so the driver
// has somewhere to insert jobs from the first generation.
func syntheticInitialSolution(problem *model.Problem) *solution.InsertionContext {
	ic := solution.New(problem)
	depot := model.Place{Location: "depot"}
	for _, v := range problem.Fleet.Available() {
		rc := routestate.NewRouteContext(model.NewRoute(v, depot))
		if err := ic.AddRoute(rc); err != nil {
			panic(err)
		}
	}
	return ic
}

// routeCountObjective is the demo objective: minimize unassigned jobs
// first, then the number of routes carrying at least one job.
type routeCountObjective struct{}

func (routeCountObjective) Fitness(routes []*model.Route, unassigned int) float64 {
	used := 0
	for _, r := range routes {
		if r.Tour.JobCount() > 0 {
			used++
		}
	}
	return float64(unassigned)*1000 + float64(used)
}
