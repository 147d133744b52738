package service

import (
	"time"

	"github.com/Freeeeeet/proregion_bot/internal/model"
)

// Calendar определяет "сегодня" в часовом поясе мероприятия
type Calendar struct {
	Location *time.Location
	Now      func() time.Time
}

func NewCalendar(loc *time.Location) *Calendar {
	if loc == nil {
		loc = time.UTC
	}
	return &Calendar{Location: loc, Now: time.Now}
}

// Today возвращает текущую дату в формате ГГГГ-ММ-ДД
func (c *Calendar) Today() string {
	return c.Now().In(c.Location).Format(model.DateLayout)
}
