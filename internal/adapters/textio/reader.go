// Package textio reads vehicle records from text streams and renders reports.
package textio

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/okian/collide/internal/domain/model"
)

const fieldsPerRecord = 5

// ReadRecords reads whitespace-separated "label x y vx vy" records until EOF.
// Records may span lines; only the token order matters.
func ReadRecords(r io.Reader) ([]model.Record, error) {
	sc := bufio.NewScanner(r)
	sc.Split(bufio.ScanWords)

	var (
		records []model.Record
		fields  = make([]string, 0, fieldsPerRecord)
	)
	for sc.Scan() {
		fields = append(fields, sc.Text())
		if len(fields) < fieldsPerRecord {
			continue
		}
		rec, err := parseRecord(fields)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", len(records)+1, err)
		}
		records = append(records, rec)
		fields = fields[:0]
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read records: %w", err)
	}
	if len(fields) > 0 {
		return nil, fmt.Errorf("record %d: %w: expected %d fields, got %d",
			len(records)+1, ErrMalformedRecord, fieldsPerRecord, len(fields))
	}
	return records, nil
}

func parseRecord(fields []string) (model.Record, error) {
	var nums [fieldsPerRecord - 1]float64
	for i := range nums {
		v, err := strconv.ParseFloat(fields[i+1], 64)
		if err != nil {
			return model.Record{}, fmt.Errorf("%w: field %d %q is not a number", ErrMalformedRecord, i+2, fields[i+1])
		}
		nums[i] = v
	}
	return model.Record{Label: fields[0], X: nums[0], Y: nums[1], VX: nums[2], VY: nums[3]}, nil
}

// WriteRecords writes records in the format ReadRecords accepts, one per line.
func WriteRecords(w io.Writer, records []model.Record) error {
	bw := bufio.NewWriter(w)
	for _, r := range records {
		if _, err := fmt.Fprintf(bw, "%s %s %s %s %s\n", r.Label,
			formatFull(r.X), formatFull(r.Y), formatFull(r.VX), formatFull(r.VY)); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func formatFull(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
