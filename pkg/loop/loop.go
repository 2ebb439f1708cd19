// Package loop drives the per-frame update/render cycle: it measures
// wall-clock deltas, polls input, advances the camera, derives the view
// and projection transforms and submits draw batches to a render bridge.
package loop

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/halverson/go-mapview/pkg/camera"
	"github.com/halverson/go-mapview/pkg/input"
	"github.com/halverson/go-mapview/pkg/render"
	"github.com/halverson/go-mapview/pkg/scene"
)

// MaxDelta caps the per-frame delta time so a stall or debugger pause
// cannot produce one huge integration step.
const MaxDelta float32 = 0.1

// Phase is the loop lifecycle state.
type Phase int

// Loop phases
const (
	Uninitialized Phase = iota
	Running
	ShuttingDown
	Terminated
)

func (p Phase) String() string {
	switch p {
	case Uninitialized:
		return "uninitialized"
	case Running:
		return "running"
	case ShuttingDown:
		return "shutting-down"
	case Terminated:
		return "terminated"
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

// Surface is the output surface collaborator: it reports the current
// aspect ratio and quit requests, presents finished frames and pumps
// platform events. Present is the only call that may block.
type Surface interface {
	AspectRatio() float32
	ShouldClose() bool
	Present()
	PollEvents()
}

// Clock returns monotonic time in seconds. Production uses the window's
// timer; tests script it.
type Clock func() float64

// Config assembles the loop's collaborators and initial state.
type Config struct {
	Camera     camera.State
	Projection camera.ProjectionParams
	Scene      *scene.Scene
	Poller     *input.Poller
	Bridge     render.Bridge
	Surface    Surface
	Clock      Clock
	Log        zerolog.Logger
}

// Loop owns the camera state and scene for the lifetime of the run and
// sequences update and render strictly per tick. It is single-threaded;
// none of its methods may be called concurrently.
type Loop struct {
	cam        camera.State
	projection camera.ProjectionParams
	scn        *scene.Scene
	poller     *input.Poller
	bridge     render.Bridge
	surface    Surface
	clock      Clock
	log        zerolog.Logger

	phase    Phase
	lastTime float64
	frame    uint64

	// Draw list reused across ticks to avoid per-frame allocation.
	items []render.DrawItem

	fpsFrames int
	fpsStart  float64
}

// New validates the configuration and creates a loop in the
// Uninitialized phase. Invalid projection parameters are rejected here,
// never clamped.
func New(cfg Config) (*Loop, error) {
	if err := cfg.Projection.Validate(); err != nil {
		return nil, err
	}
	if cfg.Scene == nil {
		return nil, fmt.Errorf("loop: scene is required")
	}
	if cfg.Poller == nil {
		return nil, fmt.Errorf("loop: input poller is required")
	}
	if cfg.Bridge == nil {
		return nil, fmt.Errorf("loop: render bridge is required")
	}
	if cfg.Surface == nil {
		return nil, fmt.Errorf("loop: surface is required")
	}
	if cfg.Clock == nil {
		return nil, fmt.Errorf("loop: clock is required")
	}
	return &Loop{
		cam:        cfg.Camera,
		projection: cfg.Projection,
		scn:        cfg.Scene,
		poller:     cfg.Poller,
		bridge:     cfg.Bridge,
		surface:    cfg.Surface,
		clock:      cfg.Clock,
		log:        cfg.Log,
		phase:      Uninitialized,
	}, nil
}

// Phase returns the current lifecycle phase.
func (l *Loop) Phase() Phase {
	return l.phase
}

// Camera returns the current camera state.
func (l *Loop) Camera() camera.State {
	return l.cam
}

// Frame returns the number of completed ticks.
func (l *Loop) Frame() uint64 {
	return l.frame
}

// Run prepares the backend and drives ticks until the surface requests
// close, then shuts down. It returns an error only for a failed backend
// preparation; per-tick render errors are logged and retried.
func (l *Loop) Run() error {
	if err := l.bridge.Prepare(l.scn); err != nil {
		return fmt.Errorf("preparing render backend: %w", err)
	}

	l.phase = Running
	l.lastTime = l.clock()
	l.fpsStart = l.lastTime
	l.log.Info().Int("objects", len(l.scn.Objects())).Msg("frame loop running")

	for !l.surface.ShouldClose() {
		now := l.clock()
		dt := float32(now - l.lastTime)
		l.lastTime = now
		if dt > MaxDelta {
			dt = MaxDelta
		}

		l.Tick(dt)

		l.surface.Present()
		l.surface.PollEvents()
		l.trackFPS(now)
	}

	l.phase = ShuttingDown
	l.log.Info().Uint64("frames", l.frame).Msg("frame loop shutting down")
	l.items = nil
	l.phase = Terminated
	return nil
}

// Tick executes exactly one frame: poll input, advance the camera,
// derive view/projection from the fresh surface aspect and submit the
// draw batch. A failed submit leaves the already-advanced camera state
// untouched so the next tick retries cleanly. Exported so tests can
// drive the loop with scripted deltas.
func (l *Loop) Tick(dt float32) {
	intent := l.poller.Poll()
	l.cam = camera.Advance(l.cam, intent, dt)

	// A minimized window reports a degenerate aspect; skip the frame
	// rather than derive a broken projection.
	aspect := l.surface.AspectRatio()
	if aspect <= 0 {
		l.frame++
		return
	}

	frame := render.Frame{
		View:       camera.ViewMatrix(l.cam),
		Projection: camera.ProjectionMatrix(l.projection, aspect),
		Light:      l.scn.Light,
	}
	l.items = render.BuildDrawItems(l.items, l.scn.Objects())

	if err := l.bridge.Submit(frame, l.items); err != nil {
		l.log.Error().Err(err).Uint64("frame", l.frame).Msg("render submit failed; retrying next tick")
	}
	l.frame++
}

// trackFPS updates the surface title with the measured frame rate once
// per second, when the surface supports titles.
func (l *Loop) trackFPS(now float64) {
	l.fpsFrames++
	elapsed := now - l.fpsStart
	if elapsed < 1.0 {
		return
	}
	if titler, ok := l.surface.(interface{ SetTitle(string) }); ok {
		titler.SetTitle(fmt.Sprintf("mapview (%.0f fps)", float64(l.fpsFrames)/elapsed))
	}
	l.fpsFrames = 0
	l.fpsStart = now
}
