package calendar

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestShift(t *testing.T) {
	tests := []struct {
		name string
		from time.Time
		n    int
		want time.Time
	}{
		{
			name: "zero is identity",
			from: date(2026, time.March, 11),
			n:    0,
			want: date(2026, time.March, 11),
		},
		{
			name: "backward within week",
			from: date(2026, time.March, 11), // Wednesday
			n:    2,
			want: date(2026, time.March, 9), // Monday
		},
		{
			name: "backward over weekend",
			from: date(2026, time.March, 9), // Monday
			n:    1,
			want: date(2026, time.March, 6), // Friday
		},
		{
			name: "forward over weekend",
			from: date(2026, time.March, 6), // Friday
			n:    -2,
			want: date(2026, time.March, 10), // Tuesday
		},
		{
			name: "seven back from monday",
			from: date(2026, time.March, 16), // Monday
			n:    7,
			want: date(2026, time.March, 5), // Thursday prior week
		},
		{
			name: "forward from saturday lands on weekday",
			from: date(2026, time.March, 7), // Saturday
			n:    -1,
			want: date(2026, time.March, 9), // Monday
		},
	}

	for _, tc := range tests {
		if got := Shift(tc.from, tc.n); !got.Equal(tc.want) {
			t.Fatalf("%s: expected %s got %s", tc.name, tc.want.Format("2006-01-02"), got.Format("2006-01-02"))
		}
	}
}

func TestClampDraftDueFloor(t *testing.T) {
	// Friday now, go-live the following Monday: the standard seven-business-day
	// lead would be in the past, so the two-business-day floor wins.
	now := date(2026, time.March, 6)        // Friday
	goLive := date(2026, time.March, 9)     // Monday
	wantFloor := date(2026, time.March, 10) // Tuesday, now + 2 business days

	got := ClampDraftDue(goLive, now)
	if !got.Equal(wantFloor) {
		t.Fatalf("expected floor %s got %s", wantFloor.Format("2006-01-02"), got.Format("2006-01-02"))
	}
}

func TestClampDraftDueStandardLead(t *testing.T) {
	// Far-future go-live: the standard lead time applies.
	now := date(2026, time.March, 2)     // Monday
	goLive := date(2026, time.March, 31) // Tuesday, four weeks out

	got := ClampDraftDue(goLive, now)
	want := Shift(goLive, 7)
	if !got.Equal(want) {
		t.Fatalf("expected standard lead %s got %s", want.Format("2006-01-02"), got.Format("2006-01-02"))
	}
	if got.Before(Shift(now, -2)) {
		t.Fatalf("draft due %s violates the two-business-day floor", got.Format("2006-01-02"))
	}
}
