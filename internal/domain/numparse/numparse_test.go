package numparse_test

import (
	"encoding/json"
	"testing"

	"github.com/revlens/revlens/internal/domain/numparse"
	. "github.com/smartystreets/goconvey/convey"
)

func TestExtract(t *testing.T) {
	Convey("Given the permissive numeric extractor", t, func() {
		Convey("When the value is already numeric", func() {
			Convey("Then float64 passes through", func() {
				v, ok := numparse.Extract(7.5)
				So(ok, ShouldBeTrue)
				So(v, ShouldEqual, 7.5)
			})

			Convey("And integer widths convert", func() {
				v, ok := numparse.Extract(int(8))
				So(ok, ShouldBeTrue)
				So(v, ShouldEqual, 8.0)

				v, ok = numparse.Extract(int64(-2))
				So(ok, ShouldBeTrue)
				So(v, ShouldEqual, -2.0)
			})

			Convey("And json.Number converts", func() {
				v, ok := numparse.Extract(json.Number("3.25"))
				So(ok, ShouldBeTrue)
				So(v, ShouldEqual, 3.25)
			})
		})

		Convey("When the value is an annotated string", func() {
			Convey("Then the first numeric token is extracted", func() {
				v, ok := numparse.Extract("8 (accept)")
				So(ok, ShouldBeTrue)
				So(v, ShouldEqual, 8.0)
			})

			Convey("And decimals are supported", func() {
				v, ok := numparse.Extract("score: 6.5/10")
				So(ok, ShouldBeTrue)
				So(v, ShouldEqual, 6.5)
			})

			Convey("And a leading sign is kept, first match wins", func() {
				// Historical behavior: ranges misparse to their first token.
				v, ok := numparse.Extract("confidence: -3 to 5")
				So(ok, ShouldBeTrue)
				So(v, ShouldEqual, -3.0)
			})
		})

		Convey("When the value carries no number", func() {
			Convey("Then extraction reports failure without panicking", func() {
				_, ok := numparse.Extract("strong accept")
				So(ok, ShouldBeFalse)

				_, ok = numparse.Extract("")
				So(ok, ShouldBeFalse)

				_, ok = numparse.Extract(nil)
				So(ok, ShouldBeFalse)

				_, ok = numparse.Extract(map[string]any{"value": 8})
				So(ok, ShouldBeFalse)

				_, ok = numparse.Extract(true)
				So(ok, ShouldBeFalse)
			})
		})
	})
}
