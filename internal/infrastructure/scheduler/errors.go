package scheduler

import "errors"

var (
	// ErrJobNotFound is returned when a job is not registered
	ErrJobNotFound = errors.New("job not found")

	// ErrInvalidConfig is returned when a job or its schedule is invalid
	ErrInvalidConfig = errors.New("invalid scheduler configuration")

	// ErrLockNotObtained is returned when another runner holds the job lock
	ErrLockNotObtained = errors.New("job lock held by another runner")
)
