package model

import "time"

type Registration struct {
	ID               int64     `json:"id" db:"id"`
	WorkshopID       int64     `json:"workshop_id" db:"workshop_id"`
	UserID           int64     `json:"user_id" db:"user_id"`
	FullName         string    `json:"full_name" db:"full_name"`
	Phone            string    `json:"phone" db:"phone"`
	RegistrationDate time.Time `json:"registration_date" db:"registration_date"`

	// Дополнительные поля для удобства (не из БД)
	Workshop *Workshop `json:"workshop,omitempty" db:"-"`
}

// SeatStatus снимок занятости мастер-класса для конкретного пользователя
type SeatStatus struct {
	Workshop          Workshop
	Registered        int
	AlreadyRegistered bool
}

// UserRegistration запись пользователя для экрана "Мои записи"
type UserRegistration struct {
	WorkshopName string `db:"name"`
	Date         string `db:"date"`
	Time         string `db:"time"`
}

// ExportRow строка выгрузки регистраций
type ExportRow struct {
	WorkshopName     string    `db:"name"`
	Date             string    `db:"date"`
	Time             string    `db:"time"`
	FullName         string    `db:"full_name"`
	Phone            string    `db:"phone"`
	RegistrationDate time.Time `db:"registration_date"`
}
