package booking

import (
	"context"

	"travelagency/internal/pkg/csvutil"
)

var exportHeader = []string{"Tour", "Customer", "Email", "Date", "People", "Amount", "Payment", "BookingID", "Status"}

// ExportCSV renders the filtered booking list as the fixed-format
// bookings.csv document.
func (s *Service) ExportCSV(ctx context.Context, f Filter) ([]byte, error) {
	list, err := s.List(ctx, f)
	if err != nil {
		return nil, err
	}

	rows := make([][]string, 0, len(list))
	for _, b := range list {
		rows = append(rows, []string{
			b.Tour(),
			b.CustomerName(),
			b.Email(),
			b.Date(),
			b.Text("people"),
			b.Text("amount"),
			b.Payment(),
			b.ID(),
			b.StatusLabel(),
		})
	}
	return csvutil.Encode(exportHeader, rows), nil
}
