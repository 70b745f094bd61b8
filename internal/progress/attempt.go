package progress

// Attempt carries the optional measurements of one practice attempt.
type Attempt struct {
	accuracy *int
	seconds  *int
}

// AttemptOption sets a measured value on an Attempt.
type AttemptOption func(*Attempt)

// WithAccuracy records a measured accuracy (0-100).
func WithAccuracy(accuracy int) AttemptOption {
	return func(a *Attempt) {
		a.accuracy = &accuracy
	}
}

// WithTimeSpent records the measured time spent in seconds.
func WithTimeSpent(seconds int) AttemptOption {
	return func(a *Attempt) {
		a.seconds = &seconds
	}
}

// ResolveAttempt applies opts and fills unmeasured values from m.
func ResolveAttempt(m MeasurementProvider, opts ...AttemptOption) (accuracy, seconds int) {
	var a Attempt
	for _, opt := range opts {
		opt(&a)
	}
	if a.accuracy != nil {
		accuracy = *a.accuracy
	} else {
		accuracy = m.Accuracy()
	}
	if a.seconds != nil {
		seconds = *a.seconds
	} else {
		seconds = m.TimeSpentSeconds()
	}
	return accuracy, seconds
}
