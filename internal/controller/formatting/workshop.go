package formatting

import (
	"fmt"
	"strings"

	"github.com/Freeeeeet/proregion_bot/internal/model"
)

// StatusGlyph возвращает emoji статуса активности мастер-класса
func StatusGlyph(active bool) string {
	if active {
		return "✅"
	}
	return "❌"
}

// AvailabilityButton текст кнопки выбора мастер-класса со свободными местами
func AvailabilityButton(w *model.WorkshopAvailability) string {
	return fmt.Sprintf("%s (%s) - мест: %d/%d", w.Name, w.Time, w.Available(), w.MaxParticipants)
}

// ToggleButton текст кнопки в списке управления активностью
func ToggleButton(w *model.Workshop) string {
	return fmt.Sprintf("%s %s (%s %s)", StatusGlyph(w.IsActive), w.Name, w.Date, w.Time)
}

// MyRegistrations текст экрана "Мои записи"
func MyRegistrations(list []*model.UserRegistration) string {
	var sb strings.Builder
	sb.WriteString("Ваши записи:\n\n")
	for _, r := range list {
		fmt.Fprintf(&sb, "%s - %s в %s\n", r.WorkshopName, r.Date, r.Time)
	}
	return sb.String()
}

// RegistrationConfirmed текст подтверждения записи
func RegistrationConfirmed(w *model.Workshop) string {
	return fmt.Sprintf("Вы успешно записаны на мастер-класс '%s' в %s!", w.Name, w.Time)
}

// WorkshopCreated текст после создания мастер-класса администратором
func WorkshopCreated(w *model.Workshop) string {
	return fmt.Sprintf(
		"Мастер-класс успешно добавлен!\n\n"+
			"%s %s\n"+
			"📅 %s в %s\n"+
			"👥 Мест: %d",
		StatusGlyph(w.IsActive), w.Name, w.Date, w.Time, w.MaxParticipants,
	)
}

// ActivationNotice уведомление администраторам после автоматической активации
func ActivationNotice(workshops []*model.Workshop) string {
	lines := make([]string, 0, len(workshops))
	for _, w := range workshops {
		lines = append(lines, fmt.Sprintf("• %s (%s)", w.Name, w.Time))
	}
	return "🔔 Автоматически активированы мастер-классы:\n\n" + strings.Join(lines, "\n")
}
