package models

// Availability is the booking status a specialist shows on their listing.
type Availability string

const (
	Available Availability = "Available"
	Busy      Availability = "Busy"
	Offline   Availability = "Offline"
)

// Next returns the following status in the Available -> Busy -> Offline cycle.
// Unknown values restart the cycle at Available.
func (a Availability) Next() Availability {
	switch a {
	case Available:
		return Busy
	case Busy:
		return Offline
	default:
		return Available
	}
}

func (a Availability) Valid() bool {
	switch a {
	case Available, Busy, Offline:
		return true
	}
	return false
}
