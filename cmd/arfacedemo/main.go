// Command arfacedemo runs the arface session against a simulated tracking
// feed: faces enter, drift around, and leave while the scene is mutated.
package main

import (
	"bytes"
	"context"
	"flag"
	"image"
	"image/color"
	"image/png"
	"io"
	"log"
	"math"

	"github.com/gogpu/arface"
	"github.com/gogpu/arface/model"
	"github.com/gogpu/arface/texture"
)

func main() {
	var (
		faces  = flag.Int("faces", 3, "number of simulated faces")
		frames = flag.Int("frames", 120, "number of simulated frames")
	)
	flag.Parse()

	// A demo decoder that wraps the raw bytes; real hosts blank-import a
	// format backend instead.
	model.Register("demo", 1, func(ctx context.Context, name string, r io.Reader) (*model.Model, error) {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, err
		}
		return model.New(name, "demo", data), nil
	}, nil)

	scene := arface.NewNodeList()
	session := arface.NewSession(scene, arface.WithErrorHandler(func(err error) {
		log.Printf("load failed: %v", err)
	}))
	defer session.Close()

	ctx := context.Background()
	modelTask := session.LoadModel(ctx, model.BytesSource{
		Label: "fox.glb",
		Data:  []byte("demo geometry"),
	})
	textureTask := session.LoadTexture(ctx, texture.BytesSource{
		Label: "freckles.png",
		Data:  frecklesPNG(),
	}, texture.UsageColor)

	if err := modelTask.Wait(); err != nil {
		log.Fatalf("model: %v", err)
	}
	if err := textureTask.Wait(); err != nil {
		log.Fatalf("texture: %v", err)
	}
	log.Printf("resources ready: %v", session.Resources().Ready())

	feed := newFeed(*faces)
	session.AttachTo(feed)

	for frame := 0; frame < *frames; frame++ {
		feed.step(frame, *frames)
		for _, node := range scene.Children() {
			node.Refresh()
		}
		if frame%30 == 0 {
			log.Printf("frame %3d: %d faces decorated", frame, session.NodeCount())
		}
	}

	log.Printf("done: %d faces still decorated", session.NodeCount())
}

// frecklesPNG renders a small spotted texture in memory.
func frecklesPNG() []byte {
	const size = 64
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			c := color.RGBA{R: 235, G: 205, B: 185, A: 255}
			if (x*7+y*13)%37 < 2 {
				c = color.RGBA{R: 150, G: 100, B: 70, A: 255}
			}
			img.SetRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		log.Fatalf("encode texture: %v", err)
	}
	return buf.Bytes()
}

// demoFace is a simulated tracked face whose pose orbits the origin.
type demoFace struct {
	id    int
	angle float64
}

func (f *demoFace) CenterPose() arface.Pose {
	p := arface.IdentityPose()
	p.Position = arface.Vec3{
		X: float32(math.Cos(f.angle)),
		Y: 0,
		Z: float32(math.Sin(f.angle)) - 1,
	}
	return p
}

// feed is a simulated tracking provider. Each face enters at a staggered
// frame, drifts while tracked, and leaves near the end of the run.
type feed struct {
	handler func(arface.TrackingEvent)
	faces   []*demoFace
}

func newFeed(n int) *feed {
	f := &feed{faces: make([]*demoFace, n)}
	for i := range f.faces {
		f.faces[i] = &demoFace{id: i}
	}
	return f
}

func (f *feed) SetTrackingHandler(h func(arface.TrackingEvent)) {
	f.handler = h
}

func (f *feed) step(frame, total int) {
	for i, face := range f.faces {
		enter := i * 10
		leave := total - 10 - i*5

		face.angle += 0.05

		switch {
		case frame < enter:
			// Not visible yet.
		case frame >= leave:
			f.handler(arface.TrackingEvent{Face: face, State: arface.TrackingStateStopped})
		case frame == enter+5:
			// Brief occlusion mid-run.
			f.handler(arface.TrackingEvent{Face: face, State: arface.TrackingStatePaused})
		default:
			f.handler(arface.TrackingEvent{Face: face, State: arface.TrackingStateTracking})
		}
	}
}
