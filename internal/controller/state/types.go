package state

import (
	"strconv"
	"time"
)

// UserState представляет текущее состояние пользователя в диалоге
type UserState string

const (
	StateNone UserState = "" // Нет активного состояния

	// Состояния для записи на мастер-класс
	StateAwaitingFullName UserState = "awaiting_full_name"
	StateAwaitingPhone    UserState = "awaiting_phone"

	// Состояния для создания мастер-класса (администратор)
	StateAwaitingWorkshopName     UserState = "awaiting_workshop_name"
	StateAwaitingWorkshopDate     UserState = "awaiting_workshop_date"
	StateAwaitingWorkshopTime     UserState = "awaiting_workshop_time"
	StateAwaitingWorkshopCapacity UserState = "awaiting_workshop_capacity"

	// Рассылка
	StateAwaitingAnnouncement UserState = "awaiting_announcement"
)

// Ключи временных данных диалога
const (
	KeyWorkshopID   = "workshop_id"
	KeyFullName     = "full_name"
	KeyWorkshopName = "name"
	KeyWorkshopDate = "date"
	KeyWorkshopTime = "time"
)

// UserData хранит временные данные пользователя во время диалога
type UserData struct {
	State     UserState         `json:"state"`
	Data      map[string]string `json:"data"`
	UpdatedAt time.Time         `json:"updated_at"`
}

func (d *UserData) Get(key string) string {
	if d == nil {
		return ""
	}
	return d.Data[key]
}

// GetInt64 читает числовое поле; false если его нет или оно не число
func (d *UserData) GetInt64(key string) (int64, bool) {
	v := d.Get(key)
	if v == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func (d *UserData) clone() *UserData {
	data := make(map[string]string, len(d.Data))
	for k, v := range d.Data {
		data[k] = v
	}
	return &UserData{State: d.State, Data: data, UpdatedAt: d.UpdatedAt}
}
