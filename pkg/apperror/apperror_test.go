package apperror

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOf(t *testing.T) {
	errGroupNotFound := NotFound("group not found")

	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"direct", errGroupNotFound, KindNotFound},
		{"wrapped with fmt", fmt.Errorf("loading: %w", errGroupNotFound), KindNotFound},
		{"plain error", errors.New("boom"), KindInternal},
		{"wrapped cause", Wrap(Transient("busy"), errors.New("serialization failure")), KindTransient},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestWithFieldKeepsIdentity(t *testing.T) {
	errInvalid := Validation("invalid movie")

	detailed := errInvalid.WithField("movieId", "movie does not exist")

	if !errors.Is(detailed, errInvalid) {
		t.Error("expected detailed error to match its sentinel")
	}
	if len(errInvalid.Fields) != 0 {
		t.Errorf("sentinel was mutated: %v", errInvalid.Fields)
	}
	if len(detailed.Fields) != 1 || detailed.Fields[0].Field != "movieId" {
		t.Errorf("unexpected fields: %v", detailed.Fields)
	}
}

func TestWrapUnwraps(t *testing.T) {
	cause := errors.New("deadlock detected")
	err := Wrap(Transient("try again"), cause)

	if !errors.Is(err, cause) {
		t.Error("expected wrapped error to expose its cause")
	}
	if err.Error() != "try again: deadlock detected" {
		t.Errorf("Error() = %q", err.Error())
	}
}
