package loop

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/halverson/go-mapview/pkg/camera"
	"github.com/halverson/go-mapview/pkg/input"
	"github.com/halverson/go-mapview/pkg/render"
	"github.com/halverson/go-mapview/pkg/scene"
)

// fakeSurface is a Surface that closes after a fixed number of
// presented frames.
type fakeSurface struct {
	aspect    float32
	maxFrames int
	presents  int
	polls     int
	titles    []string
}

func (f *fakeSurface) AspectRatio() float32 { return f.aspect }
func (f *fakeSurface) ShouldClose() bool    { return f.presents >= f.maxFrames }
func (f *fakeSurface) Present()             { f.presents++ }
func (f *fakeSurface) PollEvents()          { f.polls++ }
func (f *fakeSurface) SetTitle(title string) {
	f.titles = append(f.titles, title)
}

// fakeBridge records every submitted frame and can be scripted to fail
// on specific submissions.
type fakeBridge struct {
	prepared int
	frames   []render.Frame
	batches  [][]render.DrawItem
	failOn   map[int]bool
	submits  int
}

func (f *fakeBridge) Prepare(*scene.Scene) error {
	f.prepared++
	return nil
}

func (f *fakeBridge) Submit(frame render.Frame, items []render.DrawItem) error {
	n := f.submits
	f.submits++
	if f.failOn[n] {
		return &render.SubmitError{Reason: "surface lost"}
	}
	f.frames = append(f.frames, frame)
	batch := make([]render.DrawItem, len(items))
	copy(batch, items)
	f.batches = append(f.batches, batch)
	return nil
}

type fakeKeySource map[input.Key]bool

func (f fakeKeySource) KeyHeld(key input.Key) bool { return f[key] }

// stepClock returns a clock advancing by a fixed step per call, starting
// at zero.
func stepClock(step float64) Clock {
	t := -step
	return func() float64 {
		t += step
		return t
	}
}

func testScene(t *testing.T) *scene.Scene {
	t.Helper()
	s, err := scene.New(mgl32.Vec3{0, 0, -1}, nil,
		scene.Object{Mesh: scene.CubeMeshID, Scale: mgl32.Vec3{1, 1, 1}},
	)
	require.NoError(t, err)
	return s
}

func testConfig(t *testing.T, surface *fakeSurface, bridge *fakeBridge, keys fakeKeySource, clock Clock) Config {
	t.Helper()
	return Config{
		Camera:     camera.NewState(mgl32.Vec3{0, 0, -5}, mgl32.DegToRad(90), 0),
		Projection: camera.DefaultProjection(),
		Scene:      testScene(t),
		Poller:     input.NewPoller(keys, nil),
		Bridge:     bridge,
		Surface:    surface,
		Clock:      clock,
		Log:        zerolog.Nop(),
	}
}

func TestNew_RejectsInvalidConfig(t *testing.T) {
	surface := &fakeSurface{aspect: 4.0 / 3.0, maxFrames: 1}
	bridge := &fakeBridge{}

	cfg := testConfig(t, surface, bridge, fakeKeySource{}, stepClock(0.016))
	cfg.Projection.Near = 500 // beyond far
	_, err := New(cfg)
	require.Error(t, err)
	var cfgErr *camera.ConfigError
	assert.ErrorAs(t, err, &cfgErr)

	cfg = testConfig(t, surface, bridge, fakeKeySource{}, stepClock(0.016))
	cfg.Scene = nil
	_, err = New(cfg)
	assert.Error(t, err)
}

func TestRun_LifecyclePhases(t *testing.T) {
	surface := &fakeSurface{aspect: 4.0 / 3.0, maxFrames: 5}
	bridge := &fakeBridge{}

	l, err := New(testConfig(t, surface, bridge, fakeKeySource{}, stepClock(0.016)))
	require.NoError(t, err)
	assert.Equal(t, Uninitialized, l.Phase())

	require.NoError(t, l.Run())

	assert.Equal(t, Terminated, l.Phase())
	assert.Equal(t, 1, bridge.prepared)
	assert.Equal(t, uint64(5), l.Frame())
	assert.Equal(t, 5, surface.presents)
	assert.Equal(t, 5, surface.polls)
	assert.Len(t, bridge.frames, 5)
}

func TestRun_IdleCameraIsStationary(t *testing.T) {
	surface := &fakeSurface{aspect: 4.0 / 3.0, maxFrames: 10}
	bridge := &fakeBridge{}

	cfg := testConfig(t, surface, bridge, fakeKeySource{}, stepClock(0.016))
	l, err := New(cfg)
	require.NoError(t, err)
	require.NoError(t, l.Run())

	assert.Equal(t, cfg.Camera, l.Camera())
}

func TestRun_DtClampOnStall(t *testing.T) {
	// 5 second wall-clock gaps must integrate as MaxDelta.
	surface := &fakeSurface{aspect: 4.0 / 3.0, maxFrames: 1}
	bridge := &fakeBridge{}
	keys := fakeKeySource{input.KeyW: true}

	cfg := testConfig(t, surface, bridge, keys, stepClock(5))
	l, err := New(cfg)
	require.NoError(t, err)
	require.NoError(t, l.Run())

	want := camera.Advance(cfg.Camera, input.MoveForward, MaxDelta)
	assert.Equal(t, want, l.Camera())
}

func TestRun_Deterministic(t *testing.T) {
	run := func() *fakeBridge {
		surface := &fakeSurface{aspect: 16.0 / 9.0, maxFrames: 60}
		bridge := &fakeBridge{}
		keys := fakeKeySource{input.KeyW: true, input.KeyArrowRight: true}

		l, err := New(testConfig(t, surface, bridge, keys, stepClock(0.016)))
		require.NoError(t, err)
		require.NoError(t, l.Run())
		return bridge
	}

	first := run()
	second := run()

	require.Len(t, second.frames, len(first.frames))
	for i := range first.frames {
		assert.Equal(t, first.frames[i], second.frames[i], "frame %d", i)
		assert.Equal(t, first.batches[i], second.batches[i], "batch %d", i)
	}
}

func TestTick_RenderErrorPreservesCameraState(t *testing.T) {
	surface := &fakeSurface{aspect: 4.0 / 3.0, maxFrames: 2}
	bridge := &fakeBridge{failOn: map[int]bool{0: true}}
	keys := fakeKeySource{input.KeyW: true}

	cfg := testConfig(t, surface, bridge, keys, stepClock(0.016))
	l, err := New(cfg)
	require.NoError(t, err)

	// Tick N: submit fails but camera has already advanced once.
	l.Tick(0.016)
	want := camera.Advance(cfg.Camera, input.MoveForward, 0.016)
	assert.Equal(t, want, l.Camera(), "failed submit must not roll back the camera")

	// Tick N+1 starts from exactly tick N's post-update value.
	delete(keys, input.KeyW)
	l.Tick(0.016)
	assert.Equal(t, want, l.Camera(), "no double-advance or reset after a render error")
	assert.Equal(t, 2, bridge.submits)
	assert.Len(t, bridge.frames, 1)
}

func TestTick_DerivesFromAdvancedState(t *testing.T) {
	surface := &fakeSurface{aspect: 4.0 / 3.0, maxFrames: 1}
	bridge := &fakeBridge{}
	keys := fakeKeySource{input.KeyArrowRight: true}

	cfg := testConfig(t, surface, bridge, keys, stepClock(0.016))
	l, err := New(cfg)
	require.NoError(t, err)

	l.Tick(0.02)
	require.Len(t, bridge.frames, 1)

	want := camera.Advance(cfg.Camera, input.RotateRight, 0.02)
	assert.Equal(t, camera.ViewMatrix(want), bridge.frames[0].View)
	assert.Equal(t, camera.ProjectionMatrix(cfg.Projection, surface.aspect), bridge.frames[0].Projection)
}

func TestTick_DegenerateAspectSkipsSubmit(t *testing.T) {
	surface := &fakeSurface{aspect: 0, maxFrames: 1}
	bridge := &fakeBridge{}
	keys := fakeKeySource{input.KeyW: true}

	cfg := testConfig(t, surface, bridge, keys, stepClock(0.016))
	l, err := New(cfg)
	require.NoError(t, err)

	l.Tick(0.016)

	assert.Equal(t, 0, bridge.submits, "minimized surface skips the draw")
	assert.Equal(t, uint64(1), l.Frame())
	// Camera still advances; motion does not freeze while minimized.
	want := camera.Advance(cfg.Camera, input.MoveForward, 0.016)
	assert.Equal(t, want, l.Camera())
}

func TestRun_ReportsFPSTitle(t *testing.T) {
	surface := &fakeSurface{aspect: 4.0 / 3.0, maxFrames: 4}
	bridge := &fakeBridge{}

	// 0.6s per frame crosses the one second FPS window during the run.
	l, err := New(testConfig(t, surface, bridge, fakeKeySource{}, stepClock(0.6)))
	require.NoError(t, err)
	require.NoError(t, l.Run())

	assert.NotEmpty(t, surface.titles)
}

func TestPhase_String(t *testing.T) {
	assert.Equal(t, "uninitialized", Uninitialized.String())
	assert.Equal(t, "running", Running.String())
	assert.Equal(t, "shutting-down", ShuttingDown.String())
	assert.Equal(t, "terminated", Terminated.String())
}
