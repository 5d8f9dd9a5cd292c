package group

import (
	"fmt"
	"time"
)

// ScheduleType discriminates the Schedule variants
type ScheduleType string

const (
	ScheduleRecurring ScheduleType = "recurring"
	ScheduleOneOff    ScheduleType = "oneoff"
)

// Clock is a wall-clock time of day
type Clock struct {
	Hour   int
	Minute int
}

// ParseClock parses "HH:MM" in 24-hour form
func ParseClock(s string) (Clock, error) {
	t, err := time.Parse("15:04", s)
	if err != nil || len(s) != 5 {
		return Clock{}, fmt.Errorf("invalid time %q, expected HH:MM", s)
	}
	return Clock{Hour: t.Hour(), Minute: t.Minute()}, nil
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// on returns the instant of c on the calendar day of d, in d's location
func (c Clock) on(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), c.Hour, c.Minute, 0, 0, d.Location())
}

// Schedule is when a group meets: either Recurring or OneOff
type Schedule interface {
	Type() ScheduleType
	At() Clock
	// Next returns the first meeting strictly after t, or false if there
	// is none left
	Next(t time.Time) (time.Time, bool)
	isSchedule()
}

// Recurring meets every week on Day at Time
type Recurring struct {
	Day  time.Weekday
	Time Clock
}

func (Recurring) Type() ScheduleType { return ScheduleRecurring }
func (r Recurring) At() Clock        { return r.Time }
func (Recurring) isSchedule()        {}

func (r Recurring) Next(t time.Time) (time.Time, bool) {
	days := (int(r.Day) - int(t.Weekday()) + 7) % 7
	next := r.Time.on(t.AddDate(0, 0, days))
	if !next.After(t) {
		next = next.AddDate(0, 0, 7)
	}
	return next, true
}

// OneOff meets once on Date at Time
type OneOff struct {
	Date time.Time
	Time Clock
}

func (OneOff) Type() ScheduleType { return ScheduleOneOff }
func (o OneOff) At() Clock        { return o.Time }
func (OneOff) isSchedule()        {}

func (o OneOff) Next(t time.Time) (time.Time, bool) {
	at := o.Time.on(o.Date.In(t.Location()))
	if !at.After(t) {
		return time.Time{}, false
	}
	return at, true
}

// NewSchedule builds a Schedule from its flat representation. day is
// required for recurring schedules and date for one-off schedules.
func NewSchedule(typ ScheduleType, day *int, at string, date *time.Time) (Schedule, error) {
	clock, err := ParseClock(at)
	if err != nil {
		return nil, errInvalidSchedule.WithField("scheduleTime", "must be HH:MM")
	}

	switch typ {
	case ScheduleRecurring:
		if day == nil {
			return nil, errInvalidSchedule.WithField("scheduleDay", "is required for recurring schedules")
		}
		if *day < 0 || *day > 6 {
			return nil, errInvalidSchedule.WithField("scheduleDay", "must be between 0 and 6")
		}
		return Recurring{Day: time.Weekday(*day), Time: clock}, nil
	case ScheduleOneOff:
		if date == nil {
			return nil, errInvalidSchedule.WithField("scheduleDate", "is required for one-off schedules")
		}
		return OneOff{Date: *date, Time: clock}, nil
	default:
		return nil, errInvalidSchedule.WithField("scheduleType", "must be one of: recurring oneoff")
	}
}

// flatten is the inverse of NewSchedule
func flatten(s Schedule) (typ ScheduleType, day *int, at string, date *time.Time, err error) {
	switch v := s.(type) {
	case Recurring:
		d := int(v.Day)
		return ScheduleRecurring, &d, v.Time.String(), nil, nil
	case OneOff:
		dt := v.Date
		return ScheduleOneOff, nil, v.Time.String(), &dt, nil
	default:
		return "", nil, "", nil, errInvalidSchedule.WithField("scheduleType", fmt.Sprintf("unknown schedule %T", s))
	}
}
