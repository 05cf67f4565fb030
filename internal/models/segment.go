package models

import "time"

// ActivityKind is the canonical label of a classified movement kind.
// Canonical forms are lower-case with spaces ("in bus", not "IN_BUS") and
// must match the export column labels exactly.
type ActivityKind string

// ActivityKind constants
const (
	KindWalking          ActivityKind = "walking"
	KindBus              ActivityKind = "in bus"
	KindTrain            ActivityKind = "in train"
	KindPassengerVehicle ActivityKind = "in passenger vehicle"
	KindRunning          ActivityKind = "running"
	KindCycling          ActivityKind = "cycling"
	KindUnknown          ActivityKind = "unknown"
)

// AllKinds lists the six classified kinds in export column order.
var AllKinds = []ActivityKind{
	KindWalking,
	KindBus,
	KindTrain,
	KindPassengerVehicle,
	KindRunning,
	KindCycling,
}

// IsClassified reports whether k is one of the six classified kinds.
func (k ActivityKind) IsClassified() bool {
	for _, known := range AllKinds {
		if k == known {
			return true
		}
	}
	return false
}

// IsSustainable reports whether k counts toward sustainable distance
// (every classified kind except the private passenger vehicle).
func (k ActivityKind) IsSustainable() bool {
	return k.IsClassified() && k != KindPassengerVehicle
}

// ActivitySegment represents one classified movement event for one user.
// Immutable once produced by the parser.
type ActivitySegment struct {
	UserID     string       `json:"user_id"`
	StartTime  time.Time    `json:"start_time"`
	Kind       ActivityKind `json:"kind"`
	DistanceKm float64      `json:"distance_km"` // Always >= 0
}
