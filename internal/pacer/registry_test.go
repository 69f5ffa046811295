package pacer_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/pacer/internal/pacer"
)

var _ = Describe("Registry", func() {
	var (
		reg *pacer.Registry
		rec *recorder
	)

	BeforeEach(func() {
		reg = pacer.NewRegistry()
		rec = &recorder{}
	})

	It("registers tracks created through it", func() {
		a := reg.NewTrack("a")
		b := reg.NewTrack("b")
		Expect(reg.Len()).To(Equal(2))
		Expect(reg.Tracks()).To(Equal([]*pacer.Track{a, b}))
	})

	It("does not register standalone tracks", func() {
		pacer.NewTrack("loose")
		Expect(reg.Len()).To(Equal(0))
	})

	It("moves a track between registries", func() {
		other := pacer.NewRegistry()
		tr := reg.NewTrack("moved")
		other.Add(tr)
		Expect(reg.Len()).To(Equal(0))
		Expect(other.Len()).To(Equal(1))
	})

	It("updates every track with the same time", func() {
		a := reg.NewTrack("a")
		a.InsertAbsolute(0, pacer.Values{"x": 0})
		a.InsertAbsolute(10, pacer.Values{"x": 10})
		b := reg.NewTrack("b")
		b.InsertAbsolute(0, pacer.Values{"y": 0})
		b.InsertAbsolute(20, pacer.Values{"y": 10})

		reg.UpdateAll(4)
		Expect(a.Values()["x"]).To(Equal(4.0))
		Expect(b.Values()["y"]).To(Equal(2.0))
	})

	It("resolves a non-finite time through its clock", func() {
		reg.SetClock(func() float64 { return 6 })
		tr := reg.NewTrack("clocked")
		tr.InsertAbsolute(0, pacer.Values{"x": 0})
		tr.InsertAbsolute(10, pacer.Values{"x": 10})

		reg.UpdateAll(math.NaN())
		Expect(tr.Values()["x"]).To(Equal(6.0))
		reg.UpdateAllNow()
		Expect(tr.TimeCursor()).To(Equal(6.0))
	})

	It("detaches removed tracks", func() {
		a := reg.NewTrack("a")
		b := reg.NewTrack("b")
		a.Remove()
		Expect(reg.Tracks()).To(Equal([]*pacer.Track{b}))

		reg.Remove(b)
		Expect(reg.Len()).To(Equal(0))
		Expect(b.IsRemoved()).To(BeTrue())
	})

	It("tolerates a callback removing another track mid-iteration", func() {
		var b *pacer.Track
		a := reg.NewTrack("a")
		a.InsertAbsolute(0, pacer.Values{"x": 0}).OnKey(func(pacer.Values, *pacer.Track) {
			b.Remove()
		})
		a.InsertAbsolute(10, pacer.Values{"x": 1})
		b = reg.NewTrack("b")
		b.InsertAbsolute(0, pacer.Values{"x": 0}, rec.on("b0"))
		b.InsertAbsolute(10, pacer.Values{"x": 1})

		reg.UpdateAll(1)
		Expect(rec.hits).To(BeEmpty())
		Expect(reg.Tracks()).To(Equal([]*pacer.Track{a}))
	})

	It("takes every track out of play before cancelling", func() {
		a := reg.NewTrack("a")
		b := reg.NewTrack("b")
		a.InsertAbsolute(0, pacer.Values{"x": 0}).OnCancel(func(pacer.Values, *pacer.Track) {
			rec.hits = append(rec.hits, "a0")
			Expect(b.IsRemoved()).To(BeTrue())
			Expect(reg.Len()).To(Equal(0))
		})
		b.InsertAbsolute(0, pacer.Values{"x": 0}).OnCancel(rec.on("b0"))

		reg.RemoveAll()
		Expect(rec.hits).To(Equal([]string{"a0", "b0"}))
		Expect(a.IsEnabled()).To(BeFalse())
	})

	It("dumps every track", func() {
		reg.NewTrack("first").InsertAbsolute(0, pacer.Values{"x": 1})
		reg.NewTrack("second").InsertAbsolute(0, pacer.Values{"y": 2})
		out := reg.DumpAll()
		Expect(out).To(ContainSubstring(`track "first"`))
		Expect(out).To(ContainSubstring(`track "second"`))
	})
})
