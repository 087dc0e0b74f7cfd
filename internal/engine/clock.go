package engine

import "time"

// Clock abstracts time.Now so animation easing and pressure sampling are
// deterministically testable without real sleeps.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock is the production Clock backed by the wall clock.
var SystemClock Clock = systemClock{}
