package model

import "errors"

var (
	ErrAccessDenied      = errors.New("access denied")
	ErrWorkshopNotFound  = errors.New("workshop not found")
	ErrWorkshopFull      = errors.New("workshop is full")
	ErrAlreadyRegistered = errors.New("user already registered for workshop")
	ErrInvalidCapacity   = errors.New("capacity must be a positive integer")
)
