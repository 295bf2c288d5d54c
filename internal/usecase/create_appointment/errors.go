package create_appointment

import "errors"

var (
	// ErrCustomerNotFound возвращается, когда клиент не найден
	ErrCustomerNotFound = errors.New("create_appointment: customer not found")

	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = errors.New("create_appointment: service not found")

	// ErrStaffNotFound возвращается, когда мастер не найден
	ErrStaffNotFound = errors.New("create_appointment: staff not found")

	// ErrServiceInactive возвращается при попытке записаться на неактивную услугу
	ErrServiceInactive = errors.New("create_appointment: service is not active")

	// ErrStaffInactive возвращается при попытке записаться к неактивному мастеру
	ErrStaffInactive = errors.New("create_appointment: staff is not active")

	// ErrSchedulingConflict возвращается, когда у мастера уже есть
	// пересекающаяся позиция на запрошенное время
	ErrSchedulingConflict = errors.New("create_appointment: staff is not available at this time")

	// ErrOutsideWorkingHours возвращается, когда время начала вне рабочего окна мастера
	ErrOutsideWorkingHours = errors.New("create_appointment: time is outside staff working hours")

	// ErrAppointmentInPast возвращается при попытке создать запись в прошлом
	ErrAppointmentInPast = errors.New("create_appointment: appointment time must be in the future")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_appointment: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_appointment: internal error")
)
