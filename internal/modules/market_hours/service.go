// Package market_hours provides NYSE trading-session checks used to decide
// between live and last-close underlying prices.
package market_hours

import "time"

// Service provides market hours checking functionality
type Service struct {
	location *time.Location
}

// NewService creates a new market hours service
func NewService() *Service {
	// America/New_York is bundled in the Go tzdata; fall back to a fixed
	// EST offset only if the zone database is unavailable.
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		loc = time.FixedZone("EST", -5*60*60)
	}
	return &Service{location: loc}
}

// IsNYSEOpen reports whether t falls within the NYSE regular session:
// 09:30-16:00 America/New_York, Monday through Friday. Both session bounds
// are inclusive. Exchange holidays are not tracked; on a holiday the live
// feed simply has no fresh bars and callers fall back to the last close.
func (s *Service) IsNYSEOpen(t time.Time) bool {
	et := t.In(s.location)

	switch et.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}

	minuteOfDay := et.Hour()*60 + et.Minute()
	open := 9*60 + 30
	close := 16 * 60

	return minuteOfDay >= open && minuteOfDay <= close
}
