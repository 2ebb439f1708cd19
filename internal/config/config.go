// Package config loads viewer configuration from a JSON file with
// defaults for every key.
package config

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/spf13/viper"

	"github.com/halverson/go-mapview/pkg/camera"
)

// FileName is the config file the viewer looks for.
const FileName = "mapview.cfg.json"

// Load reads configuration from configDir and sets default values. A
// missing config file is not an error; defaults apply.
func Load(configDir string) error {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("scene.path", "assets/scene.json")

	viper.SetDefault("window.width", 800)
	viper.SetDefault("window.height", 600)
	viper.SetDefault("window.title", "mapview")
	viper.SetDefault("window.vsync", true)

	viper.SetDefault("camera.fovDegrees", 90.0)
	viper.SetDefault("camera.near", 0.1)
	viper.SetDefault("camera.far", 100.0)
	viper.SetDefault("camera.moveSpeed", camera.DefaultMoveSpeed)
	viper.SetDefault("camera.rotateSpeed", camera.DefaultRotateSpeed)
	viper.SetDefault("camera.normalizeDiagonal", true)
	viper.SetDefault("camera.position.x", 0.0)
	viper.SetDefault("camera.position.y", 2.0)
	viper.SetDefault("camera.position.z", 10.0)
	viper.SetDefault("camera.yawDegrees", 90.0)
	viper.SetDefault("camera.pitchDegrees", 0.0)

	viper.SetConfigName(FileName)
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	err := viper.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	if err != nil && !errors.As(err, &notFound) {
		return fmt.Errorf("error reading config file: %w", err)
	}
	return nil
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// Camera builds the initial camera state from config.
func Camera() camera.State {
	position := mgl32.Vec3{
		float32(viper.GetFloat64("camera.position.x")),
		float32(viper.GetFloat64("camera.position.y")),
		float32(viper.GetFloat64("camera.position.z")),
	}

	state := camera.NewState(
		position,
		mgl32.DegToRad(float32(viper.GetFloat64("camera.yawDegrees"))),
		mgl32.DegToRad(float32(viper.GetFloat64("camera.pitchDegrees"))),
	)
	state.MoveSpeed = float32(viper.GetFloat64("camera.moveSpeed"))
	state.RotateSpeed = float32(viper.GetFloat64("camera.rotateSpeed"))
	state.NormalizeDiagonal = viper.GetBool("camera.normalizeDiagonal")
	return state
}

// Projection builds the projection parameters from config. The caller
// validates them; invalid values are a fatal ConfigError, not clamped.
func Projection() camera.ProjectionParams {
	return camera.ProjectionParams{
		FOV:  mgl32.DegToRad(float32(viper.GetFloat64("camera.fovDegrees"))),
		Near: float32(viper.GetFloat64("camera.near")),
		Far:  float32(viper.GetFloat64("camera.far")),
	}
}
