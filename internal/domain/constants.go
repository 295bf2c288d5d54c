package domain

// Conflict detection constants
const (
	// ConflictSearchWindowMinutes bounds the fetch of potentially
	// conflicting items around a candidate interval. The window only
	// limits the candidate set; correctness comes from the overlap
	// predicate applied to every fetched item.
	ConflictSearchWindowMinutes = 120
)

// Business validation constants
const (
	MaxNotesLength         = 500
	MaxItemsPerAppointment = 20
)

// Pagination defaults
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// ValidAppointmentStatuses список допустимых статусов записи
var ValidAppointmentStatuses = []AppointmentStatus{
	StatusPending,
	StatusConfirmed,
	StatusCompleted,
	StatusCancelled,
	StatusNoShow,
}

// ValidItemStatuses список допустимых статусов позиции записи
var ValidItemStatuses = []ItemStatus{
	ItemStatusPending,
	ItemStatusInProgress,
	ItemStatusCompleted,
	ItemStatusCancelled,
}
