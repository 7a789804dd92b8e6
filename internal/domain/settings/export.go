package settings

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/CemBlt/dent-admin-app/internal/domain/appointment"
)

const appointmentsSheet = "Randevular"

var appointmentColumns = []string{"Tarih", "Saat", "Hasta", "Doktor", "Hizmet", "Durum", "Notlar", "Oluşturulma"}

var statusLabels = map[appointment.Status]string{
	appointment.StatusPending:   "Beklemede",
	appointment.StatusCompleted: "Tamamlandı",
	appointment.StatusCancelled: "İptal",
}

// sheetWriter appends rows to one sheet.
type sheetWriter struct {
	file  *excelize.File
	sheet string
	row   int
}

func newSheetWriter(f *excelize.File, name string) *sheetWriter {
	f.SetSheetName("Sheet1", name)
	return &sheetWriter{file: f, sheet: name, row: 1}
}

func (w *sheetWriter) header(columns []string) error {
	if err := w.write(stringsToAny(columns)); err != nil {
		return err
	}
	style, err := w.file.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	end, err := excelize.CoordinatesToCellName(len(columns), 1)
	if err != nil {
		return err
	}
	if err := w.file.SetCellStyle(w.sheet, "A1", end, style); err != nil {
		return err
	}
	return w.file.SetPanes(w.sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})
}

func (w *sheetWriter) write(values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, w.row)
	if err != nil {
		return err
	}
	if err := w.file.SetSheetRow(w.sheet, cell, &values); err != nil {
		return err
	}
	w.row++
	return nil
}

func stringsToAny(in []string) []any {
	out := make([]any, len(in))
	for i, s := range in {
		out[i] = s
	}
	return out
}

// AppointmentsWorkbook writes one row per appointment under a bold, frozen
// header row.
func AppointmentsWorkbook(items []*appointment.Appointment) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	w := newSheetWriter(f, appointmentsSheet)
	if err := w.header(appointmentColumns); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	for _, a := range items {
		status, ok := statusLabels[a.Status]
		if !ok {
			status = string(a.Status)
		}
		row := []any{
			a.Date.String(), a.RawTime, a.PatientName, a.DoctorName, a.ServiceName,
			status, a.Notes, a.CreatedAt.Format("2006-01-02 15:04"),
		}
		if err := w.write(row); err != nil {
			return nil, fmt.Errorf("write row: %w", err)
		}
	}
	if err := f.SetColWidth(appointmentsSheet, "A", "H", 18); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
