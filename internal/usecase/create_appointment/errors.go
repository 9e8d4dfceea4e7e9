package create_appointment

import "errors"

var (
	// ErrEmployeeNotFound возвращается, когда мастер не найден
	ErrEmployeeNotFound = errors.New("create_appointment: employee not found")

	// ErrServiceNotFound возвращается, когда услуга не найдена в салоне мастера
	ErrServiceNotFound = errors.New("create_appointment: service not found")

	// ErrInvalidDate возвращается, когда время записи уже прошло
	ErrInvalidDate = errors.New("create_appointment: appointment time is in the past")

	// ErrEmployeeNotWorking возвращается, когда у мастера нет смены в этот день
	ErrEmployeeNotWorking = errors.New("create_appointment: employee does not work on this date")

	// ErrOutsideWorkingHours возвращается, когда услуга не помещается в смену
	ErrOutsideWorkingHours = errors.New("create_appointment: appointment is outside working hours")

	// ErrInvalidTimeSlot возвращается, когда время начала не лежит на сетке 15 минут от начала смены
	ErrInvalidTimeSlot = errors.New("create_appointment: start time is not on the slot grid")

	// ErrSlotNotAvailable возвращается, когда время уже занято или транзакция проиграла конкурентной записи
	ErrSlotNotAvailable = errors.New("create_appointment: slot is not available")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_appointment: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_appointment: internal error")
)
