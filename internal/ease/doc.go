// Package ease provides the tween (easing) functions consumed by pacer tracks.
//
// Every easing is a pure [Func] mapping normalized progress to eased progress.
// Overshooting curves (back, elastic, spring) may leave [0, 1]. Each named
// entry is a [Set] of three forms derived from a single primitive:
//
//   - In: the raw curve
//   - Out: 1 - In(1 - t)
//   - InOut: In(2t)/2 below one half, In(2t-1)/2 + 0.5 above
//
// Bounce is the exception: its Out form is the hand-authored primitive and
// In/InOut are derived from it.
//
// # Lookup
//
// A [Catalog] resolves names used in timeline files:
//
//	fn, err := ease.Lookup("cubic.inOut")
//	fn, err = ease.Lookup("gween.OutElastic") // any github.com/tanema/gween/ease curve
//	fn, err = ease.Lookup("spring.out")       // harmonica-driven spring
package ease
