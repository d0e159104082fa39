package routestate

// Reserved route-state keys. These form a stable ABI: constraint modules
// and external serializers depend on their exact integer values, so they
// are never renumbered. Ranges 11-15 and 1-9 on the dimension side are
// enumerated verbatim from the algorithm's contract.
const (
	// LatestArrivalKey tracks the latest time an activity can start without
	// violating downstream time windows.
	LatestArrivalKey = 1
	// WaitingKey tracks accumulated waiting time at an activity.
	WaitingKey = 2
	// TotalDistanceKey tracks cumulative route distance up to an activity.
	TotalDistanceKey = 3
	// TotalDurationKey tracks cumulative route duration up to an activity.
	TotalDurationKey = 4
	// DurationLimitKey tracks a route's maximum allowed duration.
	DurationLimitKey = 5

	// CurrentCapacityKey tracks the vehicle's load at an activity.
	CurrentCapacityKey = 11
	// MaxFutureCapacityKey tracks the maximum load from an activity to the route end.
	MaxFutureCapacityKey = 12
	// MaxPastCapacityKey tracks the maximum load from the route start to an activity.
	MaxPastCapacityKey = 13
	// ReloadIntervalsKey tracks reload interval boundaries for multi-trip routes.
	ReloadIntervalsKey = 14
	// MaxLoadKey tracks the maximum load observed across the whole tour.
	MaxLoadKey = 15

	// TotalValueKey tracks the cumulative value served by the route.
	TotalValueKey = 16
	// TourOrderKey tracks tour-order statistics used by order-based soft constraints.
	TourOrderKey = 17
)
