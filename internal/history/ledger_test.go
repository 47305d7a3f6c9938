package history

import (
	"fmt"
	"math/rand"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLedger(t *testing.T) {
	Convey("Given an empty ledger", t, func() {
		l := NewLedger()

		Convey("The cursor should be -1", func() {
			So(l.Cursor(), ShouldEqual, -1)
			So(l.Len(), ShouldEqual, 0)
		})

		Convey("Navigating should return none and keep the cursor", func() {
			So(l.Previous().IsPresent(), ShouldBeFalse)
			So(l.Next().IsPresent(), ShouldBeFalse)
			So(l.Cursor(), ShouldEqual, -1)
		})

		Convey("When recording abc", func() {
			i := l.Record("abc")

			Convey("Then it should be at index 0", func() {
				So(i, ShouldEqual, 0)
				So(l.Cursor(), ShouldEqual, 0)
			})

			Convey("And abc should be played", func() {
				played, entry := l.WasPlayed("abc")
				So(played, ShouldBeTrue)
				So(entry.MustGet().ID, ShouldEqual, "abc")
				So(entry.MustGet().Index, ShouldEqual, 0)
			})

			Convey("And xyz should not be played", func() {
				played, entry := l.WasPlayed("xyz")
				So(played, ShouldBeFalse)
				So(entry.IsPresent(), ShouldBeFalse)
			})
		})

		Convey("When recording a, b, a", func() {
			l.Record("a")
			l.Record("b")
			l.Record("a")

			Convey("WasPlayed should return the most recent entry", func() {
				_, entry := l.WasPlayed("a")
				So(entry.MustGet().Index, ShouldEqual, 2)
			})

			Convey("Previous should walk back and stop at 0", func() {
				So(l.Previous().MustGet().ID, ShouldEqual, "b")
				So(l.Previous().MustGet().Index, ShouldEqual, 0)
				So(l.Previous().MustGet().Index, ShouldEqual, 0)
				So(l.Cursor(), ShouldEqual, 0)
			})

			Convey("Next should stop at the last entry", func() {
				So(l.Next().MustGet().Index, ShouldEqual, 2)
				So(l.Cursor(), ShouldEqual, 2)
			})

			Convey("Previous then Next should come back", func() {
				l.Previous()
				So(l.Next().MustGet().Index, ShouldEqual, 2)
			})

			Convey("Entries should keep play order with increasing indices", func() {
				entries := l.Entries()
				So(len(entries), ShouldEqual, 3)
				for i, e := range entries {
					So(e.Index, ShouldEqual, i)
				}
			})
		})
	})
}

func TestLedgerRandomSequences(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	ids := []string{"a", "b", "c", "d", "e"}

	for round := 0; round < 50; round++ {
		l := NewLedger()
		recorded := map[string]int{}

		for step := 0; step < 30; step++ {
			switch rng.Intn(3) {
			case 0:
				id := ids[rng.Intn(len(ids))]
				recorded[id] = l.Record(id)
			case 1:
				l.Previous()
			case 2:
				l.Next()
			}

			if c := l.Cursor(); c < -1 || c > l.Len()-1 {
				t.Fatalf("round %d: cursor %d outside [-1, %d]", round, c, l.Len()-1)
			}
		}

		for _, id := range ids {
			played, entry := l.WasPlayed(id)
			want, ok := recorded[id]
			if played != ok {
				t.Fatalf("round %d: WasPlayed(%q) = %v, want %v", round, id, played, ok)
			}
			if ok && entry.MustGet().Index != want {
				t.Fatalf("round %d: WasPlayed(%q) index = %d, want %d", round, id, entry.MustGet().Index, want)
			}
		}
	}
}

func ExampleLedger() {
	l := NewLedger()
	l.Record("abc")
	played, _ := l.WasPlayed("abc")
	fmt.Println(played, l.Cursor())
	// Output: true 0
}
