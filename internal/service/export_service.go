package service

import (
	"bytes"
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const (
	ExportFileName  = "registrations.xlsx"
	ExportSheetName = "Регистрации"

	exportTimestampLayout = "2006-01-02 15:04:05"
)

var exportHeaders = []string{"Мастер-класс", "Дата", "Время", "ФИО", "Телефон", "Дата регистрации"}

type ExportService struct {
	registrationRepo RegistrationRepository
	calendar         *Calendar
	logger           *zap.Logger
}

func NewExportService(registrationRepo RegistrationRepository, calendar *Calendar, logger *zap.Logger) *ExportService {
	return &ExportService{
		registrationRepo: registrationRepo,
		calendar:         calendar,
		logger:           logger,
	}
}

// BuildWorkbook формирует xlsx со всеми регистрациями, по одной строке на запись
func (s *ExportService) BuildWorkbook(ctx context.Context) ([]byte, int, error) {
	rows, err := s.registrationRepo.ListForExport(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("get registrations: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", ExportSheetName); err != nil {
		return nil, 0, fmt.Errorf("rename sheet: %w", err)
	}

	for i, h := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(ExportSheetName, cell, h); err != nil {
			return nil, 0, fmt.Errorf("write header: %w", err)
		}
	}

	for idx, row := range rows {
		values := []string{
			row.WorkshopName,
			row.Date,
			row.Time,
			row.FullName,
			row.Phone,
			row.RegistrationDate.In(s.calendar.Location).Format(exportTimestampLayout),
		}
		for j, v := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, idx+2)
			if err := f.SetCellValue(ExportSheetName, cell, v); err != nil {
				return nil, 0, fmt.Errorf("write row %d: %w", idx+1, err)
			}
		}
	}

	for col := 'A'; col <= 'F'; col++ {
		f.SetColWidth(ExportSheetName, string(col), string(col), 20)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, 0, fmt.Errorf("write workbook: %w", err)
	}

	s.logger.Info("Registrations exported", zap.Int("rows", len(rows)))
	return buf.Bytes(), len(rows), nil
}
