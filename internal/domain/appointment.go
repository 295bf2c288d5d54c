package domain

import "time"

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
	StatusNoShow    AppointmentStatus = "no_show"
)

// Appointment represents a customer's booking envelope.
// It owns its items: they are created with the appointment in a single
// atomic operation and never outlive it.
type Appointment struct {
	ID         int64
	CustomerID int64
	Items      []AppointmentItem

	// ScheduledAt is the nominal appointment timestamp used for display
	// and grouping. Authoritative timing lives on the items.
	ScheduledAt time.Time

	Status AppointmentStatus
	Notes  *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// CanBeConfirmed returns true if the appointment can transition to confirmed
func (a *Appointment) CanBeConfirmed() bool {
	return a.Status == StatusPending
}

// CanBeCancelled returns true if the appointment can be cancelled.
// Only completed appointments are protected from cancellation.
func (a *Appointment) CanBeCancelled() bool {
	return a.Status != StatusCompleted
}

// IsTerminal returns true if the appointment reached a terminal status
func (a *Appointment) IsTerminal() bool {
	return a.Status == StatusCompleted || a.Status == StatusCancelled || a.Status == StatusNoShow
}

// IsOwnedBy returns true if the appointment belongs to the given customer
func (a *Appointment) IsOwnedBy(customerID int64) bool {
	return a.CustomerID == customerID
}
