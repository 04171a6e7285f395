package dedupe_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/revlens/revlens/internal/domain/dedupe"
	. "github.com/smartystreets/goconvey/convey"
)

func TestInMemoryDeduper(t *testing.T) {
	ctx := context.Background()

	Convey("Given a fresh deduper", t, func() {
		d := dedupe.NewInMemoryDeduper()

		Convey("Then the first sighting records, the second reports seen", func() {
			So(d.SeenAndRecord(ctx, "r1"), ShouldBeFalse)
			So(d.SeenAndRecord(ctx, "r1"), ShouldBeTrue)
			So(d.Size(), ShouldEqual, 1)
		})

		Convey("Then distinct ids are tracked independently", func() {
			So(d.SeenAndRecord(ctx, "r1"), ShouldBeFalse)
			So(d.SeenAndRecord(ctx, "r2"), ShouldBeFalse)
			So(d.Size(), ShouldEqual, 2)
		})
	})

	Convey("Given an id that was recorded and then unrecorded", t, func() {
		d := dedupe.NewInMemoryDeduper()
		So(d.SeenAndRecord(ctx, "r1"), ShouldBeFalse)
		d.Unrecord(ctx, "r1")

		Convey("Then the id can be recorded again", func() {
			So(d.Size(), ShouldEqual, 0)
			So(d.SeenAndRecord(ctx, "r1"), ShouldBeFalse)
		})

		Convey("And unrecording an unknown id is harmless", func() {
			d.Unrecord(ctx, "never-seen")
			So(d.Size(), ShouldEqual, 0)
		})
	})

	Convey("Given a deduper bounded to three ids", t, func() {
		d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(3))
		for i := 1; i <= 3; i++ {
			So(d.SeenAndRecord(ctx, fmt.Sprintf("r%d", i)), ShouldBeFalse)
		}

		Convey("When a fourth id arrives", func() {
			So(d.SeenAndRecord(ctx, "r4"), ShouldBeFalse)

			Convey("Then the oldest id was evicted and the set stays bounded", func() {
				So(d.Size(), ShouldEqual, 3)
				So(d.SeenAndRecord(ctx, "r1"), ShouldBeFalse) // forgotten, records anew
				So(d.SeenAndRecord(ctx, "r4"), ShouldBeTrue)  // still remembered
			})
		})
	})

	Convey("Given an unbounded deduper", t, func() {
		d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(0))

		Convey("Then nothing is ever evicted", func() {
			for i := 0; i < 1000; i++ {
				So(d.SeenAndRecord(ctx, fmt.Sprintf("r%d", i)), ShouldBeFalse)
			}
			So(d.Size(), ShouldEqual, 1000)
			So(d.SeenAndRecord(ctx, "r0"), ShouldBeTrue)
		})
	})
}
