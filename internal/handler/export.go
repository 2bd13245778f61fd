package handler

import (
	"bytes"
	"encoding/csv"
	"net/http"
	"strconv"
	"time"

	"github.com/pkordes/bluetrail/internal/domain"
	"github.com/pkordes/bluetrail/internal/service"
)

// csvHeaders defines the column names written as the first row of a path export.
var csvHeaders = []string{
	"order", "bhszakasz_id", "nagyszakasz_id", "kezdopont_bh_id", "vegpont_bh_id",
	"hossz_km", "kind", "direction", "start_time", "end_time",
}

// wantsCSV reports whether the client asked for ?format=csv.
func wantsCSV(r *http.Request) bool {
	return r.URL.Query().Get("format") == "csv"
}

// writePathCSV writes the best path of c as CSV, one traversal per line in
// walking order.
func writePathCSV(w http.ResponseWriter, c service.Certification) {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)

	//nolint:errcheck // bytes.Buffer.Write never returns an error.
	cw.Write(csvHeaders)
	for i, t := range c.BestPath {
		//nolint:errcheck
		cw.Write(traversalToCSVRecord(i+1, t))
	}
	cw.Flush()

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+string(c.Trail)+`-path.csv"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// traversalToCSVRecord flattens a traversal. Default and connector edges
// have no stamps, so their time columns stay empty.
func traversalToCSVRecord(order int, t domain.Traversal) []string {
	var start, end string
	if t.Kind.Evidenced() {
		start = formatStampTime(t.Start)
		end = formatStampTime(t.End)
	}
	return []string{
		strconv.Itoa(order),
		t.Segment.ID,
		t.Segment.MajorSectionID,
		t.Segment.StartCheckpointID,
		t.Segment.EndCheckpointID,
		strconv.FormatFloat(t.Segment.LengthKm, 'f', 3, 64),
		string(t.Kind),
		string(t.Direction),
		start,
		end,
	}
}

// formatStampTime renders manual stamps as a date and digital ones as RFC 3339.
func formatStampTime(s domain.Stamp) string {
	if s.Kind == domain.StampManual {
		return s.Time.Format(time.DateOnly)
	}
	return s.Time.Format(time.RFC3339)
}
