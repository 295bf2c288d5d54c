package domain

import (
	"testing"
	"time"
)

func itemAt(start time.Time, durationMinutes int) *AppointmentItem {
	staffID := int64(1)
	return &AppointmentItem{
		StaffID:         &staffID,
		ScheduledTime:   start,
		DurationMinutes: durationMinutes,
		Status:          ItemStatusPending,
	}
}

func TestAppointmentItem_Overlaps(t *testing.T) {
	base := time.Date(2026, 3, 15, 14, 0, 0, 0, time.UTC)
	item := itemAt(base, 30) // 14:00-14:30

	cases := []struct {
		name  string
		start time.Time
		end   time.Time
		want  bool
	}{
		{"identical interval", base, base.Add(30 * time.Minute), true},
		{"partial overlap at end", base.Add(15 * time.Minute), base.Add(45 * time.Minute), true},
		{"partial overlap at start", base.Add(-15 * time.Minute), base.Add(15 * time.Minute), true},
		{"contains item", base.Add(-time.Hour), base.Add(time.Hour), true},
		{"abuts at item end", base.Add(30 * time.Minute), base.Add(time.Hour), false},
		{"abuts at item start", base.Add(-30 * time.Minute), base, false},
		{"disjoint", base.Add(2 * time.Hour), base.Add(3 * time.Hour), false},
		{"empty candidate", base.Add(15 * time.Minute), base.Add(15 * time.Minute), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := item.Overlaps(tc.start, tc.end); got != tc.want {
				t.Fatalf("Overlaps(%s, %s) = %v, want %v", tc.start, tc.end, got, tc.want)
			}
		})
	}
}

func TestAppointmentItem_ZeroDurationNeverOverlaps(t *testing.T) {
	base := time.Date(2026, 3, 15, 14, 0, 0, 0, time.UTC)
	item := itemAt(base, 0)

	if item.Overlaps(base.Add(-time.Hour), base.Add(time.Hour)) {
		t.Fatal("zero-duration item must not overlap anything")
	}
}

func TestAppointmentStatusTransitions(t *testing.T) {
	pending := &Appointment{Status: StatusPending}
	confirmed := &Appointment{Status: StatusConfirmed}
	completed := &Appointment{Status: StatusCompleted}
	cancelled := &Appointment{Status: StatusCancelled}

	if !pending.CanBeConfirmed() {
		t.Fatal("pending appointment must be confirmable")
	}
	if confirmed.CanBeConfirmed() {
		t.Fatal("confirmed appointment must not be confirmable again")
	}

	// Only completed appointments are protected from cancellation
	if !pending.CanBeCancelled() || !confirmed.CanBeCancelled() || !cancelled.CanBeCancelled() {
		t.Fatal("non-completed appointments must be cancellable")
	}
	if completed.CanBeCancelled() {
		t.Fatal("completed appointment must not be cancellable")
	}
}
