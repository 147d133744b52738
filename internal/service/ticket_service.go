package service

import (
	"fmt"

	"github.com/Freeeeeet/proregion_bot/internal/model"
	"github.com/skip2/go-qrcode"
)

const ticketImageSize = 256

// TicketService рисует QR-билет для подтверждённой регистрации
type TicketService struct {
	enabled bool
}

func NewTicketService(enabled bool) *TicketService {
	return &TicketService{enabled: enabled}
}

func (s *TicketService) Enabled() bool {
	return s != nil && s.enabled
}

// TicketPayload текст, который кодируется в QR
func TicketPayload(reg *model.Registration) string {
	payload := fmt.Sprintf("ПРОрегион\nЗапись #%d\nУчастник: %s", reg.ID, reg.FullName)
	if reg.Workshop != nil {
		payload += fmt.Sprintf("\nМастер-класс: %s\n%s %s", reg.Workshop.Name, reg.Workshop.Date, reg.Workshop.Time)
	}
	return payload
}

// Render возвращает PNG с QR-кодом билета
func (s *TicketService) Render(reg *model.Registration) ([]byte, error) {
	png, err := qrcode.Encode(TicketPayload(reg), qrcode.Medium, ticketImageSize)
	if err != nil {
		return nil, fmt.Errorf("encode ticket qr: %w", err)
	}
	return png, nil
}
