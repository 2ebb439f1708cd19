package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"

	"github.com/halverson/go-mapview/internal/config"
	"github.com/halverson/go-mapview/internal/logging"
	"github.com/halverson/go-mapview/internal/platform"
	"github.com/halverson/go-mapview/pkg/input"
	"github.com/halverson/go-mapview/pkg/loop"
	"github.com/halverson/go-mapview/pkg/render"
	"github.com/halverson/go-mapview/pkg/scene"
)

func init() {
	// OpenGL and GLFW calls must stay on the main thread
	runtime.LockOSThread()
}

func main() {
	configDir := flag.String("config", ".", "Directory containing "+config.FileName)
	scenePath := flag.String("scene", "", "Scene manifest path (overrides config)")
	width := flag.Int("width", 0, "Window width (overrides config)")
	height := flag.Int("height", 0, "Window height (overrides config)")
	flag.Parse()

	if err := config.Load(*configDir); err != nil {
		fmt.Fprintf(os.Stderr, "mapview: %v\n", err)
		os.Exit(1)
	}
	log := logging.New(config.GetString("logLevel"))

	if *scenePath == "" {
		*scenePath = config.GetString("scene.path")
	}
	if *width == 0 {
		*width = config.GetInt("window.width")
	}
	if *height == 0 {
		*height = config.GetInt("window.height")
	}

	// Validate projection config before touching the windowing system.
	projection := config.Projection()
	if err := projection.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	scn, err := scene.Load(*scenePath)
	if err != nil {
		log.Fatal().Err(err).Str("path", *scenePath).Msg("failed to load scene")
	}
	log.Info().
		Str("path", *scenePath).
		Int("objects", len(scn.Objects())).
		Int("meshes", len(scn.Meshes())).
		Msg("scene loaded")

	window, err := platform.NewWindow(*width, *height, config.GetString("window.title"), config.GetBool("window.vsync"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create window")
	}
	defer window.Close()

	bridge, err := render.NewGLBackend(log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create render backend")
	}
	defer bridge.Close()

	l, err := loop.New(loop.Config{
		Camera:     config.Camera(),
		Projection: projection,
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
	log.Info().Msg("clean shutdown")
}
