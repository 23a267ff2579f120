package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/dpup/tripkit/internal/lib/itinerary"
)

// CSVHeader is the first row written by WriteCSV
var CSVHeader = []string{"day", "time", "text", "place", "price", "status", "distance"}

// WriteCSV writes one row per item with literal field values. Distance is
// the leg distance in kilometres when known. Pass itinerary.FlattenView
// output to get display order and distances.
func WriteCSV(w io.Writer, items []itinerary.FlatItem) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, item := range items {
		row := []string{
			item.DayLabel,
			item.Time,
			item.Text,
			item.PlaceName(),
			optionalFloat(item.Price),
			item.Status.String(),
			optionalFloat(item.LegKm),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write csv row for item %s: %w", item.ID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func optionalFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
