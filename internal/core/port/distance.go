package port

import "context"

// TravelTime is the journey duration in minutes from a queried address to
// one named destination.
type TravelTime struct {
	Destination string
	Minutes     int64
}

type DistanceProvider interface {
	// TravelTimes resolves driving durations from the origin address to
	// every configured destination.
	TravelTimes(ctx context.Context, origin string) ([]TravelTime, error)
}
