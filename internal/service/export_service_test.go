package service

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/Freeeeeet/proregion_bot/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestBuildWorkbook(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	cal := newTestCalendar()
	workshops := NewWorkshopService(store.Workshops, cal, testLogger)

	w, err := workshops.CreateWorkshop(ctx, "Pottery", "2024-06-01", "10:00", 5)
	require.NoError(t, err)

	require.NoError(t, store.Registrations.CreateChecked(ctx, &model.Registration{
		WorkshopID: w.ID, UserID: 2, FullName: "Bob", Phone: "555-2",
		RegistrationDate: time.Date(2024, 5, 30, 12, 0, 0, 0, time.UTC),
	}))
	require.NoError(t, store.Registrations.CreateChecked(ctx, &model.Registration{
		WorkshopID: w.ID, UserID: 1, FullName: "Alice", Phone: "555-1",
		RegistrationDate: time.Date(2024, 5, 29, 8, 15, 0, 0, time.UTC),
	}))

	svc := NewExportService(store.Registrations, cal, testLogger)
	data, n, err := svc.BuildWorkbook(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(ExportSheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, exportHeaders, rows[0])
	assert.Equal(t, []string{"Pottery", "2024-06-01", "10:00", "Alice", "555-1", "2024-05-29 08:15:00"}, rows[1])
	assert.Equal(t, "Bob", rows[2][3])
}

func TestBuildWorkbookEmpty(t *testing.T) {
	store := newTestStore(t)
	svc := NewExportService(store.Registrations, newTestCalendar(), testLogger)

	data, n, err := svc.BuildWorkbook(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(ExportSheetName)
	require.NoError(t, err)
	require.Len(t, rows, 1)
}
