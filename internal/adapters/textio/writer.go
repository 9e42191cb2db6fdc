package textio

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/okian/collide/internal/domain/types"
)

// Format selects how a report is rendered.
type Format string

// Supported report formats.
const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// Write renders report in the requested format.
func Write(w io.Writer, report types.Report, format Format) error {
	switch format {
	case FormatJSON:
		return WriteJSON(w, report)
	case FormatText, "":
		return WriteText(w, report)
	default:
		return fmt.Errorf("unknown report format %q", format)
	}
}

// WriteText renders the plain report:
//
//	there are 3 vehicles
//	collision report
//	at 2 A collided with B
//	the remaining vehicles are
//	C 0 40 0 -10
//
// Empty sections print "none". Numbers use six significant digits.
func WriteText(w io.Writer, report types.Report) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "there are %d vehicles\n", report.Vehicles)
	fmt.Fprintln(bw, "collision report")
	if len(report.Collisions) == 0 {
		fmt.Fprintln(bw, "none")
	}
	for _, c := range report.Collisions {
		fmt.Fprintf(bw, "at %s %s collided with %s\n", short(c.Time), c.Label1, c.Label2)
	}

	fmt.Fprintln(bw, "the remaining vehicles are")
	if len(report.Survivors) == 0 {
		fmt.Fprintln(bw, "none")
	}
	for _, s := range report.Survivors {
		fmt.Fprintf(bw, "%s %s %s %s %s\n", s.Label,
			short(s.Position.X), short(s.Position.Y), short(s.Velocity.X), short(s.Velocity.Y))
	}
	return bw.Flush()
}

// WriteJSON renders the report as a single indented JSON document.
func WriteJSON(w io.Writer, report types.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

func short(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}
