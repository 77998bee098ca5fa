package types

import (
	"fmt"
	"time"
)

type Interval string

const (
	OneMinute      Interval = "1"
	ThreeMinutes   Interval = "3"
	FiveMinutes    Interval = "5"
	FifteenMinutes Interval = "15"
	ThirtyMinutes  Interval = "30"
	Hour           Interval = "60"
	TwoHours       Interval = "120"
	FourHours      Interval = "240"
	Day            Interval = "D"
	Week           Interval = "W"
)

var IntervalToTime = map[Interval]time.Duration{
	OneMinute:      time.Minute,
	ThreeMinutes:   time.Minute * 3,
	FiveMinutes:    time.Minute * 5,
	FifteenMinutes: time.Minute * 15,
	ThirtyMinutes:  time.Minute * 30,
	Hour:           time.Hour,
	TwoHours:       time.Hour * 2,
	FourHours:      time.Hour * 4,
	Day:            time.Hour * 24,
	Week:           time.Hour * 24 * 7,
}

// Duration returns the bar period for the interval, zero when unknown.
func (i Interval) Duration() time.Duration {
	return IntervalToTime[i]
}

// ParseInterval accepts both the short codes ("5", "D") and Go durations
// ("5m", "24h") that match a known interval.
func ParseInterval(s string) (Interval, error) {
	if _, ok := IntervalToTime[Interval(s)]; ok {
		return Interval(s), nil
	}
	d, err := time.ParseDuration(s)
	if err == nil {
		for in, dur := range IntervalToTime {
			if dur == d {
				return in, nil
			}
		}
	}
	return "", fmt.Errorf("unknown interval %q", s)
}
