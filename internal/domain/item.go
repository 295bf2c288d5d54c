package domain

import "time"

// ItemStatus represents the status of a single appointment item
type ItemStatus string

const (
	ItemStatusPending    ItemStatus = "pending"
	ItemStatusInProgress ItemStatus = "in_progress"
	ItemStatusCompleted  ItemStatus = "completed"
	ItemStatusCancelled  ItemStatus = "cancelled"
)

// AppointmentItem represents one reserved service slot within an appointment.
// ServiceName, PriceCents and DurationMinutes are snapshots taken from the
// service catalog at booking time; later catalog edits must not alter them.
type AppointmentItem struct {
	ID            int64
	AppointmentID int64
	ServiceID     int64

	// StaffID is optional. Nil means "unassigned": no conflict check
	// applies and the item never blocks other bookings.
	StaffID *int64

	ServiceName     string
	PriceCents      int64
	DurationMinutes int

	// ScheduledTime is the absolute start timestamp of the reserved slot
	ScheduledTime time.Time

	Status ItemStatus
}

// Start returns the start of the reserved interval
func (i *AppointmentItem) Start() time.Time {
	return i.ScheduledTime
}

// End returns the end of the half-open reserved interval [Start, End)
func (i *AppointmentItem) End() time.Time {
	return i.ScheduledTime.Add(time.Duration(i.DurationMinutes) * time.Minute)
}

// IsCancelled returns true if the item has been cancelled
func (i *AppointmentItem) IsCancelled() bool {
	return i.Status == ItemStatusCancelled
}

// Overlaps reports whether the item's interval intersects [start, end).
// Intervals are half-open: touching endpoints do not overlap. Empty
// intervals on either side never overlap anything.
func (i *AppointmentItem) Overlaps(start, end time.Time) bool {
	if !start.Before(end) {
		return false
	}
	if !i.Start().Before(i.End()) {
		return false
	}
	return start.Before(i.End()) && i.Start().Before(end)
}
