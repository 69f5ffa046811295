// Pacer-demo drives a keyframe timeline from the ebiten game loop. The box's
// position, size and alpha come from the timeline, which restarts itself
// from its last keyframe.
//
// Usage:
//
//	pacer-demo [timeline]
//
// The timeline is a YAML file or a group/name preset (default demo/box).
package main

import (
	"fmt"
	"image/color"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/san-kum/pacer/internal/config"
	"github.com/san-kum/pacer/internal/pacer"
)

const (
	screenW = 320
	screenH = 240
)

// Game implements ebiten.Game.
type Game struct {
	reg    *pacer.Registry
	track  *pacer.Track
	pixel  *ebiten.Image
	now    float64 // elapsed milliseconds of unpaused play
	paused bool
	loops  int
}

func main() {
	ref := "demo/box"
	if len(os.Args) > 1 {
		ref = os.Args[1]
	}

	cfg, err := config.Resolve(ref)
	if err != nil {
		log.Fatalf("load timeline: %v", err)
	}

	g := &Game{
		reg:   pacer.NewRegistry(),
		pixel: ebiten.NewImage(1, 1),
	}
	g.pixel.Fill(color.White)
	g.reg.SetClock(func() float64 { return g.now })

	g.track, err = cfg.Build(g.reg, nil)
	if err != nil {
		log.Fatalf("build timeline: %v", err)
	}
	g.track.Reset(0)
	g.track.LastKey().OnKey(func(_ pacer.Values, t *pacer.Track) {
		g.loops++
		t.ResetNow()
	})

	ebiten.SetWindowSize(screenW*2, screenH*2)
	ebiten.SetWindowTitle("pacer: " + cfg.Name)
	if err := ebiten.RunGame(g); err != nil {
		log.Fatal(err)
	}
}

func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.loops = 0
		g.track.ResetNow()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if g.paused {
		return nil
	}

	g.now += 1000 / float64(ebiten.TPS())
	g.reg.UpdateAllNow()
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{0x0a, 0x0a, 0x14, 0xff})

	v := g.track.Values()
	size := v["size"]
	if size <= 0 {
		size = 16
	}
	alpha, ok := v["alpha"]
	if !ok {
		alpha = 1
	}

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(size, size)
	op.GeoM.Translate(v["x"]-size/2, v["y"]-size/2)
	op.ColorScale.Scale(0, 1, 1, 1)
	op.ColorScale.ScaleAlpha(float32(alpha))
	screen.DrawImage(g.pixel, op)

	status := ""
	if g.paused {
		status = " [paused]"
	}
	ebitenutil.DebugPrint(screen, fmt.Sprintf("t=%.0f n=%.2f loops=%d%s\nSPACE pause  R restart  ESC quit",
		g.now-g.track.TimeStart(), g.track.N(), g.loops, status))
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenW, screenH
}
