package main

import (
	"runtime"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/halverson/go-mapview/internal/logging"
	"github.com/halverson/go-mapview/internal/platform"
	"github.com/halverson/go-mapview/pkg/camera"
	"github.com/halverson/go-mapview/pkg/input"
	"github.com/halverson/go-mapview/pkg/loop"
	"github.com/halverson/go-mapview/pkg/render"
	"github.com/halverson/go-mapview/pkg/scene"
)

func init() {
	// OpenGL and GLFW calls must stay on the main thread
	runtime.LockOSThread()
}

// A minimal viewer: one built-in cube, default camera, no config file.
func main() {
	log := logging.New("info")

	scn, err := scene.New(
		mgl32.Vec3{0, -0.3, -1},
		nil,
		scene.Object{
			Mesh:  scene.CubeMeshID,
			Scale: mgl32.Vec3{1, 1, 1},
		},
	)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build scene")
	}

	window, err := platform.NewWindow(800, 600, "mapview cube example", true)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create window")
	}
	defer window.Close()

	bridge, err := render.NewGLBackend(log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create render backend")
	}
	defer bridge.Close()

	// Behind the cube looking along +Z toward it.
	cam := camera.NewState(mgl32.Vec3{0, 0, -5}, mgl32.DegToRad(90), 0)

	l, err := loop.New(loop.Config{
		Camera:     cam,
		Projection: camera.DefaultProjection(),
		Scene:      scn,
		Poller:     input.NewPoller(window, nil),
		Bridge:     bridge,
		Surface:    window,
		Clock:      window.Time,
		Log:        log,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize frame loop")
	}

	if err := l.Run(); err != nil {
		log.Fatal().Err(err).Msg("frame loop failed")
	}
}
