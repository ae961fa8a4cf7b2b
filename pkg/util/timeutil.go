package util

import "time"

// Clock returns the current time. Services hold one so tests can pin "now".
type Clock func() time.Time

// SystemClock is the wall clock.
func SystemClock() time.Time {
	return time.Now()
}

// NowUTC exposes time.Now in UTC.
func NowUTC() time.Time {
	return time.Now().UTC()
}

// FixedClock always reports t.
func FixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}

// InZone converts t to the named IANA zone, keeping t's own zone when the name is empty or unknown.
func InZone(t time.Time, name string) time.Time {
	if name == "" {
		return t
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return t
	}
	return t.In(loc)
}
