package store

import "errors"

var (
	ErrFacultyNotFound     = errors.New("faculty not found")
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrInvalidStatus       = errors.New("invalid status")
	ErrInvalidTransition   = errors.New("invalid appointment status transition")
	ErrSlotTaken           = errors.New("time slot already booked")
	ErrTokenNotFound       = errors.New("refresh token not found, expired, or revoked")
)
