package model

// Dimension keys are a stable, small-integer ABI shared by constraint
// modules and (external) serializers, mirroring the route-state key
// table in pkg/routestate/keys.go. They are never looked up by name at
// runtime — always as named constants, per the "no lazy singletons"
// design note.
const (
	// DimenJobID tags an activity with its owning job's id.
	DimenJobID = 1
	// DimenVehicleID tags a route with its vehicle's id.
	DimenVehicleID = 2
	// DimenMultiRef tags a weak reference to a multi-job grouping.
	DimenMultiRef = 3
	// DimenCapacity tags a vehicle's capacity.
	DimenCapacity = 4
	// DimenDemand tags a job's demand.
	DimenDemand = 5
	// DimenArea tags a job's area/zone classification.
	DimenArea = 6
	// DimenOrder tags a job's preferred visiting order.
	DimenOrder = 7
	// DimenValue tags a job's value (for value-maximizing objectives).
	DimenValue = 8
	// DimenClusterJobs tags a job as part of a clustered group.
	DimenClusterJobs = 9
)
