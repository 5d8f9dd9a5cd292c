package group

import (
	"errors"
	"testing"
	"time"

	"github.com/fkhayef/movienight/pkg/apperror"
)

func intPtr(v int) *int { return &v }

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		want    Clock
		wantErr bool
	}{
		{"19:30", Clock{19, 30}, false},
		{"00:00", Clock{0, 0}, false},
		{"23:59", Clock{23, 59}, false},
		{"24:00", Clock{}, true},
		{"7:30", Clock{}, true},
		{"19:60", Clock{}, true},
		{"evening", Clock{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseClock(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewSchedule(t *testing.T) {
	date := time.Date(2026, 11, 20, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		typ       ScheduleType
		day       *int
		at        string
		date      *time.Time
		wantField string
	}{
		{"recurring", ScheduleRecurring, intPtr(5), "20:00", nil, ""},
		{"oneoff", ScheduleOneOff, nil, "20:00", &date, ""},
		{"recurring without day", ScheduleRecurring, nil, "20:00", nil, "scheduleDay"},
		{"day out of range", ScheduleRecurring, intPtr(7), "20:00", nil, "scheduleDay"},
		{"oneoff without date", ScheduleOneOff, nil, "20:00", nil, "scheduleDate"},
		{"bad time", ScheduleRecurring, intPtr(1), "8pm", nil, "scheduleTime"},
		{"unknown type", ScheduleType("monthly"), nil, "20:00", nil, "scheduleType"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewSchedule(tt.typ, tt.day, tt.at, tt.date)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if s.Type() != tt.typ {
					t.Errorf("type = %s, want %s", s.Type(), tt.typ)
				}
				return
			}

			var appErr *apperror.Error
			if !errors.As(err, &appErr) || appErr.Kind != apperror.KindValidation {
				t.Fatalf("err = %v, want validation error", err)
			}
			if len(appErr.Fields) != 1 || appErr.Fields[0].Field != tt.wantField {
				t.Errorf("fields = %+v, want %s", appErr.Fields, tt.wantField)
			}
		})
	}
}

func TestFlattenRoundTrip(t *testing.T) {
	date := time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)
	schedules := []Schedule{
		Recurring{Day: time.Friday, Time: Clock{20, 15}},
		OneOff{Date: date, Time: Clock{21, 0}},
	}

	for _, s := range schedules {
		typ, day, at, d, err := flatten(s)
		if err != nil {
			t.Fatalf("flatten(%v) failed: %v", s, err)
		}
		got, err := NewSchedule(typ, day, at, d)
		if err != nil {
			t.Fatalf("NewSchedule(%v) failed: %v", s, err)
		}
		if got != s {
			t.Errorf("round trip = %#v, want %#v", got, s)
		}
	}
}

func TestFlattenRejectsMissingSchedule(t *testing.T) {
	if _, _, _, _, err := flatten(nil); !errors.Is(err, errInvalidSchedule) {
		t.Errorf("err = %v, want errInvalidSchedule", err)
	}

	if _, err := mergeSchedule(nil, &UpdateGroupRequest{Name: strPtr("Friday Club")}); !errors.Is(err, errInvalidSchedule) {
		t.Errorf("mergeSchedule err = %v, want errInvalidSchedule", err)
	}
}

func TestGroupWithoutScheduleStillRenders(t *testing.T) {
	g := &Group{ID: 3, Name: "Friday Club"}

	resp := g.ToResponse(time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC))

	if resp.ID != 3 || resp.Name != "Friday Club" {
		t.Errorf("resp = %+v, want id 3 named Friday Club", resp)
	}
	if resp.ScheduleType != "" || resp.ScheduleDay != nil || resp.NextMovieNight != nil {
		t.Errorf("schedule fields = %q %v %v, want empty", resp.ScheduleType, resp.ScheduleDay, resp.NextMovieNight)
	}
}

func TestRecurringNext(t *testing.T) {
	friday := Recurring{Day: time.Friday, Time: Clock{20, 0}}

	tests := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{
			"earlier in the week",
			time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC), // Wednesday
			time.Date(2026, 10, 16, 20, 0, 0, 0, time.UTC),
		},
		{
			"same day before start",
			time.Date(2026, 10, 16, 19, 0, 0, 0, time.UTC),
			time.Date(2026, 10, 16, 20, 0, 0, 0, time.UTC),
		},
		{
			"same day after start",
			time.Date(2026, 10, 16, 21, 0, 0, 0, time.UTC),
			time.Date(2026, 10, 23, 20, 0, 0, 0, time.UTC),
		},
		{
			"exactly at start",
			time.Date(2026, 10, 16, 20, 0, 0, 0, time.UTC),
			time.Date(2026, 10, 23, 20, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := friday.Next(tt.now)
			if !ok || !got.Equal(tt.want) {
				t.Errorf("Next = %v %v, want %v", got, ok, tt.want)
			}
		})
	}
}

func TestOneOffNext(t *testing.T) {
	s := OneOff{Date: time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC), Time: Clock{19, 30}}

	got, ok := s.Next(time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC))
	if !ok || !got.Equal(time.Date(2026, 10, 20, 19, 30, 0, 0, time.UTC)) {
		t.Errorf("Next before = %v %v", got, ok)
	}

	if _, ok := s.Next(time.Date(2026, 10, 21, 0, 0, 0, 0, time.UTC)); ok {
		t.Error("expected no meeting after the date has passed")
	}
}
