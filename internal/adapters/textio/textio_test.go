package textio_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/okian/collide/internal/adapters/textio"
	"github.com/okian/collide/internal/domain/model"
	"github.com/okian/collide/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestReadRecords(t *testing.T) {
	Convey("Given a stream of vehicle records", t, func() {
		Convey("When every record sits on its own line", func() {
			in := "A 0 0 1 0\nB 20 0 -1 0\n"
			records, err := textio.ReadRecords(strings.NewReader(in))

			Convey("Then all records are parsed in order", func() {
				So(err, ShouldBeNil)
				So(records, ShouldResemble, []model.Record{
					{Label: "A", X: 0, Y: 0, VX: 1, VY: 0},
					{Label: "B", X: 20, Y: 0, VX: -1, VY: 0},
				})
			})
		})

		Convey("When records are split across lines and padded with blanks", func() {
			in := "  A 1.5\n-2 3e1\n 0.25   B\t0 0\n\n0 0\n"
			records, err := textio.ReadRecords(strings.NewReader(in))

			Convey("Then token order alone decides the records", func() {
				So(err, ShouldBeNil)
				So(len(records), ShouldEqual, 2)
				So(records[0], ShouldResemble, model.Record{Label: "A", X: 1.5, Y: -2, VX: 30, VY: 0.25})
				So(records[1].Label, ShouldEqual, "B")
			})
		})

		Convey("When the stream is empty", func() {
			records, err := textio.ReadRecords(strings.NewReader(""))

			Convey("Then no records and no error are returned", func() {
				So(err, ShouldBeNil)
				So(records, ShouldBeEmpty)
			})
		})

		Convey("When a field is not a number", func() {
			_, err := textio.ReadRecords(strings.NewReader("A 0 0 1 0\nB 0 x 0 0\n"))

			Convey("Then a malformed record error names the ordinal", func() {
				So(errors.Is(err, textio.ErrMalformedRecord), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "record 2")
			})
		})

		Convey("When the last record is short", func() {
			_, err := textio.ReadRecords(strings.NewReader("A 0 0 1 0\nB 0 0"))

			Convey("Then a malformed record error is returned", func() {
				So(errors.Is(err, textio.ErrMalformedRecord), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "got 3")
			})
		})
	})
}

func TestWriteRecords(t *testing.T) {
	Convey("Given records written back out", t, func() {
		records := []model.Record{
			{Label: "A", X: 0.1, Y: -3, VX: 1e-7, VY: 12345678.9},
			{Label: "B", X: 1, Y: 2, VX: 3, VY: 4},
		}
		var buf bytes.Buffer
		So(textio.WriteRecords(&buf, records), ShouldBeNil)

		Convey("Then reading them again yields the same values", func() {
			back, err := textio.ReadRecords(&buf)
			So(err, ShouldBeNil)
			So(back, ShouldResemble, records)
		})
	})
}

func sampleReport() types.Report {
	return types.Report{
		Vehicles:          3,
		CollisionDistance: 10,
		Collisions: []types.Collision{
			{Time: 2, Label1: "A", Label2: "B", Index1: 0, Index2: 1},
		},
		Survivors: []types.Survivor{
			{Label: "C", Position: types.Point{X: 0, Y: 40}, Velocity: types.Point{X: 0, Y: -10}},
		},
	}
}

func TestWriteText(t *testing.T) {
	Convey("Given a report with one collision and one survivor", t, func() {
		var buf bytes.Buffer
		So(textio.WriteText(&buf, sampleReport()), ShouldBeNil)

		Convey("Then the plain report layout is produced", func() {
			So(buf.String(), ShouldEqual, strings.Join([]string{
				"there are 3 vehicles",
				"collision report",
				"at 2 A collided with B",
				"the remaining vehicles are",
				"C 0 40 0 -10",
				"",
			}, "\n"))
		})
	})

	Convey("Given a report with no collisions and no survivors", t, func() {
		var buf bytes.Buffer
		So(textio.WriteText(&buf, types.Report{}), ShouldBeNil)

		Convey("Then both sections print none", func() {
			So(buf.String(), ShouldEqual,
				"there are 0 vehicles\ncollision report\nnone\nthe remaining vehicles are\nnone\n")
		})
	})

	Convey("Given a collision time with many digits", t, func() {
		r := types.Report{Vehicles: 2, Collisions: []types.Collision{{Time: 1.23456789, Label1: "A", Label2: "B"}}}
		var buf bytes.Buffer
		So(textio.WriteText(&buf, r), ShouldBeNil)

		Convey("Then it is printed with six significant digits", func() {
			So(buf.String(), ShouldContainSubstring, "at 1.23457 A collided with B\n")
		})
	})
}

func TestWriteJSON(t *testing.T) {
	Convey("Given a report rendered as JSON", t, func() {
		var buf bytes.Buffer
		So(textio.Write(&buf, sampleReport(), textio.FormatJSON), ShouldBeNil)

		Convey("Then it decodes with snake case keys", func() {
			var doc map[string]any
			So(json.Unmarshal(buf.Bytes(), &doc), ShouldBeNil)
			So(doc["vehicles"], ShouldEqual, 3.0)
			So(doc["collision_distance"], ShouldEqual, 10.0)
			So(doc["collisions"], ShouldHaveLength, 1)
		})
	})

	Convey("Given an unknown format", t, func() {
		err := textio.Write(&bytes.Buffer{}, sampleReport(), textio.Format("xml"))

		Convey("Then writing fails", func() {
			So(err, ShouldNotBeNil)
		})
	})
}
