package pacer_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/pacer/internal/ease"
	"github.com/san-kum/pacer/internal/pacer"
)

// recorder collects callback hits as "<label>" strings.
type recorder struct {
	hits []string
}

func (r *recorder) on(name string) pacer.KeyFunc {
	return func(pacer.Values, *pacer.Track) {
		r.hits = append(r.hits, name)
	}
}

func threeKeys(r *recorder) *pacer.Track {
	tr := pacer.NewTrack("three")
	tr.InsertAbsolute(0, pacer.Values{"x": 0}, r.on("k0"))
	tr.InsertAbsolute(5, pacer.Values{"x": 50}, r.on("k5"))
	tr.InsertAbsolute(10, pacer.Values{"x": 100}, r.on("k10"))
	return tr
}

var _ = Describe("Track", func() {
	var rec *recorder

	BeforeEach(func() {
		rec = &recorder{}
	})

	Describe("insertion", func() {
		It("keeps keyframes sorted and derives relative times", func() {
			tr := pacer.NewTrack("sorted")
			tr.InsertAbsolute(10, pacer.Values{"x": 1})
			tr.InsertAbsolute(0, pacer.Values{"x": 0})
			tr.InsertAbsolute(4, pacer.Values{"x": 2})

			keys := tr.Keys()
			Expect(keys).To(HaveLen(3))
			Expect(keys[0].TimeAbsolute()).To(Equal(0.0))
			Expect(keys[1].TimeAbsolute()).To(Equal(4.0))
			Expect(keys[2].TimeAbsolute()).To(Equal(10.0))
			Expect(keys[2].TimeRelative()).To(Equal(6.0))
			for i, k := range keys {
				Expect(k.Index()).To(Equal(i))
			}
			Expect(tr.TimeStart()).To(Equal(0.0))
			Expect(tr.TimeStop()).To(Equal(10.0))
			Expect(tr.Duration()).To(Equal(10.0))
		})

		It("anchors relative keyframes to the most recently inserted one", func() {
			tr := pacer.NewTrack("relative")
			tr.InsertAbsolute(10, pacer.Values{"x": 1})
			tr.InsertAbsolute(0, pacer.Values{"x": 0})
			k := tr.InsertRelative(5, pacer.Values{"x": 2})

			Expect(k.TimeAbsolute()).To(Equal(5.0))
			Expect(tr.TimeStop()).To(Equal(10.0))
		})

		It("treats the first relative keyframe as absolute", func() {
			tr := pacer.NewTrack("first")
			k := tr.InsertRelative(3, pacer.Values{"x": 1})
			Expect(k.TimeAbsolute()).To(Equal(3.0))
		})

		It("keeps insertion order for keyframes sharing a time", func() {
			tr := pacer.NewTrack("ties")
			a := tr.InsertAbsolute(5, pacer.Values{"x": 1}).Label("a")
			b := tr.InsertAbsolute(5, pacer.Values{"x": 2}).Label("b")
			Expect(tr.Keys()).To(Equal([]*pacer.Keyframe{a, b}))
		})

		It("defaults to linear tween and guaranteed callbacks", func() {
			k := pacer.NewTrack("defaults").InsertAbsolute(0, pacer.Values{})
			Expect(k.Guaranteed()).To(BeTrue())
			Expect(k.TweenFunc()(0.3)).To(Equal(0.3))
		})
	})

	Describe("gap-fill", func() {
		It("copies values from the preceding sorted keyframe", func() {
			tr := pacer.NewTrack("gap")
			first := tr.InsertAbsolute(0, pacer.Values{"x": 0, "y": 0})
			second := tr.InsertAbsolute(10, nil)

			Expect(second.Values()).To(Equal(pacer.Values{"x": 0, "y": 0}))

			first.Values()["x"] = 7
			Expect(second.Values()["x"]).To(Equal(7.0))
		})

		It("fills from the sorted predecessor even when inserted earlier", func() {
			tr := pacer.NewTrack("gap-order")
			later := tr.InsertAbsolute(10, nil)
			tr.InsertAbsolute(0, pacer.Values{"x": 3})
			Expect(later.Values()).To(Equal(pacer.Values{"x": 3}))
		})
	})

	Describe("update", func() {
		It("exposes the earliest keyframe's values before the first update", func() {
			tr := pacer.NewTrack("early")
			tr.InsertAbsolute(10, pacer.Values{"x": 100})
			tr.InsertAbsolute(0, pacer.Values{"x": 0})
			Expect(tr.Values()).To(Equal(pacer.Values{"x": 0}))
		})

		It("follows the linear clamped scenario", func() {
			tr := pacer.NewTrack("scenario").Clamp().OnAfterAll(rec.on("after"))
			tr.InsertAbsolute(0, pacer.Values{"x": 0})
			tr.InsertAbsolute(10, pacer.Values{"x": 100})

			tr.Update(0)
			Expect(tr.Values()["x"]).To(Equal(0.0))
			tr.Update(5)
			Expect(tr.Values()["x"]).To(Equal(50.0))
			Expect(rec.hits).To(BeEmpty())
			tr.Update(10)
			Expect(tr.Values()["x"]).To(Equal(100.0))
			tr.Update(15)
			Expect(tr.Values()["x"]).To(Equal(100.0))
			Expect(tr.N()).To(Equal(1.0))
			Expect(rec.hits).To(Equal([]string{"after"}))
		})

		It("extrapolates when unclamped", func() {
			tr := pacer.NewTrack("free")
			tr.InsertAbsolute(0, pacer.Values{"x": 0})
			tr.InsertAbsolute(10, pacer.Values{"x": 100})

			tr.Update(15)
			Expect(tr.Values()["x"]).To(BeNumerically("~", 150, 1e-9))
			Expect(tr.N()).To(BeNumerically("~", 1.5, 1e-9))
			tr.Update(-5)
			Expect(tr.Values()["x"]).To(BeNumerically("~", -50, 1e-9))
		})

		It("yields exact keyframe values at the boundaries", func() {
			tr := pacer.NewTrack("bounds").Clamp()
			tr.InsertAbsolute(3, pacer.Values{"x": 0.1, "y": -7.3})
			tr.InsertAbsolute(17, pacer.Values{"x": 0.7, "y": 1e9})

			tr.Update(3)
			Expect(tr.Values()).To(Equal(pacer.Values{"x": 0.1, "y": -7.3}))
			tr.Update(17)
			Expect(tr.Values()).To(Equal(pacer.Values{"x": 0.7, "y": 1e9}))
		})

		It("applies the lower keyframe's easing to its segment", func() {
			tr := pacer.NewTrack("eased")
			tr.InsertAbsolute(0, pacer.Values{"x": 0}).Tween(ease.Quadratic.In)
			tr.InsertAbsolute(10, pacer.Values{"x": 100})

			tr.Update(5)
			Expect(tr.Values()["x"]).To(BeNumerically("~", 25, 1e-9))
			Expect(tr.SegmentProgress()).To(BeNumerically("~", 0.5, 1e-9))
		})

		It("skips non-numeric and one-sided values", func() {
			tr := pacer.NewTrack("numeric")
			tr.InsertAbsolute(0, pacer.Values{"x": 0, "y": math.NaN(), "w": 1})
			tr.InsertAbsolute(10, pacer.Values{"x": 10, "y": 5, "z": 1, "w": math.Inf(1)})

			tr.Update(5)
			Expect(tr.Values()).To(Equal(pacer.Values{"x": 5}))
		})

		It("is a no-op for a repeated time", func() {
			tr := threeKeys(rec)
			tr.OnEveryTween(rec.on("tween"))
			tr.Update(5)
			before := append([]string(nil), rec.hits...)
			values := tr.Values()
			tr.Update(5)
			Expect(rec.hits).To(Equal(before))

			values["x"] = -1
			Expect(tr.Values()["x"]).To(Equal(-1.0))
		})

		It("uses the clock for non-finite times", func() {
			tr := pacer.NewTrack("clock").SetClock(func() float64 { return 5 })
			tr.InsertAbsolute(0, pacer.Values{"x": 0})
			tr.InsertAbsolute(10, pacer.Values{"x": 100})

			tr.Update(math.NaN())
			Expect(tr.Values()["x"]).To(Equal(50.0))
			Expect(tr.TimeCursor()).To(Equal(5.0))
		})

		It("is deterministic", func() {
			run := func() ([]string, []float64) {
				r := &recorder{}
				tr := threeKeys(r).OnEveryTween(r.on("tween")).OnBeforeAll(r.on("before"))
				var xs []float64
				for _, now := range []float64{-3, 2, 9, 4, 12, -1, 6} {
					tr.Update(now)
					xs = append(xs, tr.Values()["x"])
				}
				return r.hits, xs
			}
			hitsA, xsA := run()
			hitsB, xsB := run()
			Expect(hitsA).To(Equal(hitsB))
			Expect(xsA).To(Equal(xsB))
		})

		It("does nothing on an empty track", func() {
			tr := pacer.NewTrack("empty").OnBeforeAll(rec.on("before"))
			tr.Update(1)
			Expect(rec.hits).To(BeEmpty())
			Expect(tr.KeyIndex()).To(Equal(-1))
		})

		It("fires key callbacks but skips the tween with a single keyframe", func() {
			tr := pacer.NewTrack("single").OnAfterAll(rec.on("after"))
			k := tr.InsertAbsolute(0, pacer.Values{"x": 4}, rec.on("k0"))

			tr.Update(5)
			Expect(rec.hits).To(Equal([]string{"k0"}))
			Expect(tr.Values()).To(Equal(k.Values()))
			Expect(tr.KeyIndex()).To(Equal(1))
		})
	})

	Describe("guaranteed keyframes", func() {
		It("fires every crossed keyframe in order on a single jump", func() {
			tr := threeKeys(rec)
			tr.Update(-1)
			tr.Update(20)
			Expect(rec.hits).To(Equal([]string{"k0", "k5", "k10"}))
		})

		It("fires each keyframe once for small forward steps", func() {
			tr := threeKeys(rec)
			for now := -2.0; now <= 12; now += 0.5 {
				tr.Update(now)
			}
			Expect(rec.hits).To(Equal([]string{"k0", "k5", "k10"}))
		})

		It("fires in descending order when travelling backwards", func() {
			tr := threeKeys(rec)
			tr.Update(20)
			rec.hits = nil

			for now := 12.0; now >= -2; now -= 0.5 {
				tr.Update(now)
			}
			Expect(rec.hits).To(Equal([]string{"k10", "k5", "k0"}))
			Expect(tr.Direction()).To(Equal(-1))
		})

		It("fires everything in reverse on a single backward jump", func() {
			tr := threeKeys(rec)
			tr.Update(20)
			rec.hits = nil
			tr.Update(-20)
			Expect(rec.hits).To(Equal([]string{"k10", "k5", "k0"}))
		})

		It("fires OnKey before OnEveryKey", func() {
			tr := threeKeys(rec).OnEveryKey(rec.on("every"))
			tr.Update(0)
			Expect(rec.hits).To(Equal([]string{"k0", "every"}))
		})

		It("never fires an unguaranteed keyframe", func() {
			tr := pacer.NewTrack("loose").OnEveryKey(rec.on("every"))
			tr.InsertAbsolute(0, pacer.Values{"x": 0}, rec.on("k0"))
			tr.InsertAbsolute(5, pacer.Values{"x": 1}, rec.on("k5")).Guarantee(false)
			tr.InsertAbsolute(10, pacer.Values{"x": 2}, rec.on("k10")).Guarantee(false)

			tr.Update(1)
			tr.Update(6)
			Expect(rec.hits).To(Equal([]string{"k0", "every"}))
			tr.Update(20)
			Expect(rec.hits).To(Equal([]string{"k0", "every"}))

			rec.hits = nil
			tr.Update(-1)
			Expect(rec.hits).To(Equal([]string{"k0", "every"}))
		})
	})

	Describe("boundary callbacks", func() {
		It("fires OnBeforeAll on entry only", func() {
			tr := threeKeys(rec).OnBeforeAll(rec.on("before"))
			tr.Update(-5)
			tr.Update(-4)
			Expect(rec.hits).To(Equal([]string{"before"}))

			tr.Update(1)
			tr.Update(-1)
			Expect(rec.hits).To(Equal([]string{"before", "k0", "k0", "before"}))
		})

		It("fires OnAfterAll again once the track is extended past its end", func() {
			tr := pacer.NewTrack("extend").OnAfterAll(rec.on("after"))
			tr.InsertAbsolute(0, pacer.Values{"x": 0})
			tr.InsertAbsolute(10, pacer.Values{"x": 1})

			tr.Update(15)
			tr.InsertAbsolute(20, pacer.Values{"x": 2}, rec.on("k20"))
			Expect(tr.KeyIndex()).To(Equal(1))

			tr.Update(25)
			Expect(rec.hits).To(Equal([]string{"after", "k20", "after"}))
		})

		It("fires OnBeforeAll again once a keyframe is inserted ahead of the start", func() {
			tr := pacer.NewTrack("prepend").OnBeforeAll(rec.on("before"))
			tr.InsertAbsolute(0, pacer.Values{"x": 0})
			tr.InsertAbsolute(10, pacer.Values{"x": 1})

			tr.Update(-5)
			tr.InsertAbsolute(-10, pacer.Values{"x": -1}, rec.on("k-10"))
			Expect(tr.KeyIndex()).To(Equal(0))

			tr.Update(-15)
			Expect(rec.hits).To(Equal([]string{"before", "k-10", "before"}))
		})

		It("does not refire OnAfterAll when an insertion leaves the cursor past the end", func() {
			tr := pacer.NewTrack("behind").OnAfterAll(rec.on("after"))
			tr.InsertAbsolute(0, pacer.Values{"x": 0})
			tr.InsertAbsolute(10, pacer.Values{"x": 1})

			tr.Update(15)
			tr.InsertAbsolute(12, pacer.Values{"x": 2})
			tr.Update(16)
			Expect(rec.hits).To(Equal([]string{"after"}))
		})

		It("fires the lower keyframe's OnTween then OnEveryTween inside the range", func() {
			tr := pacer.NewTrack("tween").OnEveryTween(rec.on("every"))
			tr.InsertAbsolute(0, pacer.Values{"x": 0}).OnTween(rec.on("seg0"))
			tr.InsertAbsolute(10, pacer.Values{"x": 1})

			tr.Update(3)
			Expect(rec.hits).To(Equal([]string{"seg0", "every"}))
		})
	})

	Describe("reset", func() {
		It("shifts every keyframe and rewinds the cursor", func() {
			tr := threeKeys(rec)
			tr.Update(20)
			rec.hits = nil

			tr.Reset(100)
			times := []float64{}
			for _, k := range tr.Keys() {
				times = append(times, k.TimeAbsolute())
			}
			Expect(times).To(Equal([]float64{100, 105, 110}))
			Expect(tr.KeyIndex()).To(Equal(-1))
			Expect(tr.TimeCursor()).To(Equal(99.0))
			Expect(tr.IsEnabled()).To(BeTrue())

			tr.Update(105)
			Expect(rec.hits).To(Equal([]string{"k0", "k5"}))
		})

		It("uses the clock for a non-finite start", func() {
			tr := threeKeys(rec).SetClock(func() float64 { return 40 })
			tr.Reset(math.Inf(-1))
			Expect(tr.TimeStart()).To(Equal(40.0))
			tr.ResetNow()
			Expect(tr.TimeStop()).To(Equal(50.0))
		})
	})

	Describe("enable and disable", func() {
		It("ignores updates while disabled", func() {
			tr := threeKeys(rec).Disable()
			tr.Update(5)
			Expect(rec.hits).To(BeEmpty())

			tr.Enable().Update(5)
			Expect(rec.hits).To(Equal([]string{"k0", "k5"}))
		})
	})

	Describe("remove", func() {
		It("cancels pending guaranteed keyframes ahead of the cursor", func() {
			tr := pacer.NewTrack("cancel")
			tr.InsertAbsolute(0, pacer.Values{"x": 0}).OnCancel(rec.on("c0"))
			tr.InsertAbsolute(5, pacer.Values{"x": 1}).OnCancel(rec.on("c5"))
			tr.InsertAbsolute(10, pacer.Values{"x": 2}).OnCancel(rec.on("c10"))
			tr.InsertAbsolute(15, pacer.Values{"x": 3}).OnCancel(rec.on("c15")).Guarantee(false)

			tr.Update(5)
			tr.Remove()
			Expect(rec.hits).To(Equal([]string{"c10"}))
			Expect(tr.IsRemoved()).To(BeTrue())
			Expect(tr.IsEnabled()).To(BeFalse())
		})

		It("cancels behind the cursor when travelling backwards", func() {
			tr := pacer.NewTrack("cancel-back")
			tr.InsertAbsolute(0, pacer.Values{"x": 0}).OnCancel(rec.on("c0"))
			tr.InsertAbsolute(5, pacer.Values{"x": 1}).OnCancel(rec.on("c5"))
			tr.InsertAbsolute(10, pacer.Values{"x": 2}).OnCancel(rec.on("c10"))

			tr.Update(20)
			tr.Update(7)
			tr.Remove()
			Expect(rec.hits).To(Equal([]string{"c5", "c0"}))
		})

		It("cannot be re-enabled", func() {
			tr := threeKeys(rec)
			tr.Remove()
			tr.Enable().Update(5)
			Expect(tr.IsEnabled()).To(BeFalse())
			Expect(rec.hits).To(BeEmpty())
		})
	})

	Describe("callbacks mutating their own track", func() {
		It("applies insertions after the update", func() {
			tr := pacer.NewTrack("insert")
			tr.InsertAbsolute(0, pacer.Values{"x": 0})
			tr.InsertAbsolute(5, pacer.Values{"x": 1}).OnKey(func(_ pacer.Values, t *pacer.Track) {
				t.InsertAbsolute(7, pacer.Values{"x": 2}, rec.on("k7"))
			})
			tr.InsertAbsolute(10, pacer.Values{"x": 3})

			tr.Update(5)
			Expect(tr.Len()).To(Equal(4))
			Expect(tr.KeyIndex()).To(Equal(1))
			Expect(rec.hits).To(BeEmpty())

			tr.Update(8)
			Expect(rec.hits).To(Equal([]string{"k7"}))
		})

		It("defers a reset until the update returns", func() {
			tr := pacer.NewTrack("loop")
			tr.InsertAbsolute(0, pacer.Values{"x": 0}, rec.on("k0"))
			tr.InsertAbsolute(10, pacer.Values{"x": 1}).OnKey(func(_ pacer.Values, t *pacer.Track) {
				rec.hits = append(rec.hits, "k10")
				t.Reset(20)
			})

			tr.Update(15)
			Expect(rec.hits).To(Equal([]string{"k0", "k10"}))
			Expect(tr.TimeStart()).To(Equal(20.0))
			Expect(tr.KeyIndex()).To(Equal(-1))

			tr.Update(30)
			Expect(rec.hits).To(Equal([]string{"k0", "k10", "k0", "k10"}))
		})

		It("defers cancellation until the update returns", func() {
			tr := pacer.NewTrack("remove")
			tr.InsertAbsolute(0, pacer.Values{"x": 0}).OnKey(func(_ pacer.Values, t *pacer.Track) {
				rec.hits = append(rec.hits, "k0")
				t.Remove()
			})
			tr.InsertAbsolute(5, pacer.Values{"x": 1}).OnCancel(rec.on("c5"))
			tr.InsertAbsolute(10, pacer.Values{"x": 2}).OnCancel(rec.on("c10"))

			tr.Update(1)
			Expect(rec.hits).To(Equal([]string{"k0", "c5", "c10"}))
			Expect(tr.IsRemoved()).To(BeTrue())
		})

		It("ignores a nested update", func() {
			tr := pacer.NewTrack("nested")
			tr.InsertAbsolute(0, pacer.Values{"x": 0}).OnKey(func(_ pacer.Values, t *pacer.Track) {
				t.Update(9)
			})
			tr.InsertAbsolute(10, pacer.Values{"x": 10})

			tr.Update(2)
			Expect(tr.TimeCursor()).To(Equal(2.0))
			Expect(tr.Values()["x"]).To(Equal(2.0))
		})
	})

	Describe("observers", func() {
		It("receives events at callback points", func() {
			var kinds []pacer.EventKind
			tr := threeKeys(rec).AddObserver(pacer.ObserverFunc(func(e pacer.Event) {
				kinds = append(kinds, e.Kind)
			}))

			tr.Update(-2)
			tr.Update(5)
			tr.Update(20)
			Expect(kinds).To(Equal([]pacer.EventKind{
				pacer.EventBeforeAll,
				pacer.EventKey, pacer.EventKey, pacer.EventTween,
				pacer.EventKey, pacer.EventAfterAll,
			}))
		})
	})

	Describe("Dump", func() {
		It("lists every keyframe", func() {
			tr := threeKeys(rec).SetUnits("ms")
			tr.Keys()[1].Label("middle")
			out := tr.Dump()
			Expect(out).To(ContainSubstring(`track "three"`))
			Expect(out).To(ContainSubstring("middle"))
			Expect(out).To(ContainSubstring("{x=100}"))
		})
	})
})
