package model

// DateLayout формат даты мастер-класса в хранилище (ГГГГ-ММ-ДД)
const DateLayout = "2006-01-02"

type Workshop struct {
	ID              int64  `json:"id" db:"id"`
	Name            string `json:"name" db:"name"`
	Date            string `json:"date" db:"date"` // хранится как ввёл администратор
	Time            string `json:"time" db:"time"`
	MaxParticipants int    `json:"max_participants" db:"max_participants"`
	IsActive        bool   `json:"is_active" db:"is_active"`
}

// WorkshopAvailability мастер-класс вместе с текущей загрузкой
type WorkshopAvailability struct {
	Workshop
	Registered int `json:"registered" db:"registered"`
}

// Available возвращает количество свободных мест (не меньше нуля)
func (w *WorkshopAvailability) Available() int {
	if left := w.MaxParticipants - w.Registered; left > 0 {
		return left
	}
	return 0
}

// IsFull проверяет что все места заняты
func (w *WorkshopAvailability) IsFull() bool {
	return w.Registered >= w.MaxParticipants
}
