package iqamaah

import "errors"

var (
	// ErrInvalidDateFormat is returned for dates that are neither
	// YYYY-MM-DD nor M/D/YYYY.
	ErrInvalidDateFormat = errors.New("invalid date format, use YYYY-MM-DD or M/D/YYYY")

	// ErrInvalidRange is returned when a window starts after it ends.
	ErrInvalidRange = errors.New("startDate cannot be after endDate")

	// ErrInvalidTime is returned for clock strings outside HH:mm 24-hour form.
	ErrInvalidTime = errors.New("time must be in HH:mm (24h) format")

	// ErrUnknownPrayer is returned for prayer names outside the closed set.
	ErrUnknownPrayer = errors.New("unknown prayer")

	// ErrNotFound is returned when an operation targets an absent aggregate.
	ErrNotFound = errors.New("no iqamaah times found")

	// ErrInvalidYear / ErrInvalidMonth guard the month projection inputs.
	ErrInvalidYear  = errors.New("year must be between 1900 and 3000")
	ErrInvalidMonth = errors.New("month must be between 1 and 12")

	// ErrRevisionConflict is returned by the repository when a write loses an
	// optimistic-concurrency race; the service retries on it.
	ErrRevisionConflict = errors.New("iqamaah aggregate revision conflict")
)
