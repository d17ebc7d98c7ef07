package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

const day = 24 * time.Hour

// SecondsToDuration converts float seconds after midnight to a duration,
// rounded to the nearest nanosecond.
func SecondsToDuration(sec float64) time.Duration {
	return time.Duration(math.Round(sec * float64(time.Second)))
}

// FormatElapsed renders a duration as "<days> days hh:mm:ss[.fraction]".
// The fraction has 6 digits when the value is a whole number of microseconds
// and 9 digits otherwise, so ParseElapsed recovers the exact duration.
// Negative durations floor the day count and keep a positive clock prefixed
// with "+", e.g. -1s renders as "-1 days +23:59:59".
func FormatElapsed(d time.Duration) string {
	days := d / day
	d -= days * day
	clockSign := ""
	if d < 0 {
		days--
		d += day
	}
	if days < 0 {
		clockSign = "+"
	}
	hours := d / time.Hour
	d -= hours * time.Hour
	minutes := d / time.Minute
	d -= minutes * time.Minute
	seconds := d / time.Second
	frac := d - seconds*time.Second

	out := fmt.Sprintf("%d days %s%02d:%02d:%02d", days, clockSign, hours, minutes, seconds)
	switch {
	case frac == 0:
		return out
	case frac%time.Microsecond == 0:
		return out + fmt.Sprintf(".%06d", frac/time.Microsecond)
	default:
		return out + fmt.Sprintf(".%09d", frac)
	}
}

// ParseElapsed parses the output of FormatElapsed. The day count carries the
// sign; the clock is always added to it.
func ParseElapsed(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)

	daysPart, clock, ok := strings.Cut(s, " days ")
	if !ok {
		return 0, fmt.Errorf("parse elapsed %q: missing days", s)
	}
	days, err := strconv.ParseInt(daysPart, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse elapsed days %q: %w", daysPart, err)
	}

	fields := strings.Split(strings.TrimPrefix(clock, "+"), ":")
	if len(fields) != 3 {
		return 0, fmt.Errorf("parse elapsed %q: want hh:mm:ss", clock)
	}
	hours, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse elapsed hours: %w", err)
	}
	minutes, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse elapsed minutes: %w", err)
	}

	secPart, fracPart, _ := strings.Cut(fields[2], ".")
	seconds, err := strconv.ParseInt(secPart, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse elapsed seconds: %w", err)
	}
	var nanos int64
	if fracPart != "" {
		if len(fracPart) > 9 {
			return 0, fmt.Errorf("parse elapsed fraction %q: more than 9 digits", fracPart)
		}
		nanos, err = strconv.ParseInt(fracPart+strings.Repeat("0", 9-len(fracPart)), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("parse elapsed fraction: %w", err)
		}
	}

	d := time.Duration(days)*day +
		time.Duration(hours)*time.Hour +
		time.Duration(minutes)*time.Minute +
		time.Duration(seconds)*time.Second +
		time.Duration(nanos)
	return d, nil
}
