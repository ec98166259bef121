package anchor

import (
	"testing"
	"time"
)

func TestStartOfDay(t *testing.T) {
	loc := time.FixedZone("UTC-8", -8*3600)
	got := StartOfDay(time.Date(2025, time.November, 2, 23, 59, 59, 999, loc))
	want := time.Date(2025, time.November, 2, 0, 0, 0, 0, loc)
	if !got.Equal(want) || got.Location() != loc {
		t.Errorf("StartOfDay() = %v, want %v", got, want)
	}
}

func TestSameDay(t *testing.T) {
	east := time.FixedZone("UTC+10", 10*3600)

	tests := []struct {
		name string
		a, b time.Time
		want bool
	}{
		{
			name: "same day",
			a:    time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC),
			b:    time.Date(2025, 3, 14, 23, 59, 0, 0, time.UTC),
			want: true,
		},
		{
			name: "next day",
			a:    time.Date(2025, 3, 14, 23, 59, 0, 0, time.UTC),
			b:    time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC),
			want: false,
		},
		{
			name: "compared in a's zone",
			a:    time.Date(2025, 3, 15, 8, 0, 0, 0, east),
			b:    time.Date(2025, 3, 14, 23, 0, 0, 0, time.UTC),
			want: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SameDay(tt.a, tt.b); got != tt.want {
				t.Errorf("SameDay() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRealClock_Location(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*3600)
	if got := (RealClock{Loc: loc}).Now().Location(); got != loc {
		t.Errorf("Now().Location() = %v, want %v", got, loc)
	}
}

func TestUUIDGenerator(t *testing.T) {
	a, b := UUIDGenerator{}.New(), UUIDGenerator{}.New()
	if len(a) != 36 || a == b {
		t.Errorf("New() = %q, %q", a, b)
	}
}
