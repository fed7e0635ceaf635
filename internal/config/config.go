// Package config handles viewer and surface configuration loading.
package config

import (
	"errors"
	"fmt"

	"github.com/Faultbox/ocean-amr/internal/engine/amr"
	"github.com/Faultbox/ocean-amr/internal/engine/lighting"
	"github.com/Faultbox/ocean-amr/internal/engine/ocean"
)

// Config holds all settings.
type Config struct {
	Graphics GraphicsConfig `yaml:"graphics"`
	Surface  SurfaceConfig  `yaml:"surface"`
	Ocean    OceanConfig    `yaml:"ocean"`
	Camera   CameraConfig   `yaml:"camera"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// GraphicsConfig holds display and rendering settings.
type GraphicsConfig struct {
	Width      int        `yaml:"width"`
	Height     int        `yaml:"height"`
	Fullscreen bool       `yaml:"fullscreen"`
	VSync      bool       `yaml:"vsync"`
	ClearColor [3]float32 `yaml:"clear_color"`
	FovDegrees float32    `yaml:"fov_degrees"`
	Screenshot string     `yaml:"screenshot_dir"` // Where P saves PNG captures
}

// SurfaceConfig holds AMR surface settings.
type SurfaceConfig struct {
	PatchRows     int     `yaml:"patch_rows"`     // Barycentric pattern resolution
	SeaLevel      float32 `yaml:"sea_level"`      // Initial seaLevel uniform
	LocalizeVerts bool    `yaml:"localize_verts"` // Per-triangle local frames
	Texture       string  `yaml:"texture"`        // PNG/JPEG draped over each tile; procedural if empty
	SunAzimuth    float64 `yaml:"sun_azimuth"`    // Degrees clockwise from north
	SunElevation  float64 `yaml:"sun_elevation"`  // Degrees above the horizon
}

// OceanConfig describes the region tessellated into triangle groups.
type OceanConfig struct {
	MinLon       float64 `yaml:"min_lon"`
	MinLat       float64 `yaml:"min_lat"`
	MaxLon       float64 `yaml:"max_lon"`
	MaxLat       float64 `yaml:"max_lat"`
	TilesX       int     `yaml:"tiles_x"`
	TilesY       int     `yaml:"tiles_y"`
	Subdivisions int     `yaml:"subdivisions"` // Grid cells per tile edge
	Archive      string  `yaml:"archive"`      // Tile archive to load instead of tessellating
}

// CameraConfig holds orbit camera settings in meters.
type CameraConfig struct {
	Distance    float32 `yaml:"distance"`
	MinDistance float32 `yaml:"min_distance"`
	MaxDistance float32 `yaml:"max_distance"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
			ClearColor: [3]float32{0.05, 0.07, 0.12},
			FovDegrees: 45,
			Screenshot: "screenshots",
		},
		Surface: SurfaceConfig{
			PatchRows:     amr.DefaultPatchRows,
			SeaLevel:      0,
			LocalizeVerts: false,
			SunAzimuth:    lighting.DefaultSun.Azimuth,
			SunElevation:  lighting.DefaultSun.Elevation,
		},
		Ocean: OceanConfig{
			MinLon:       -10,
			MinLat:       40,
			MaxLon:       -8,
			MaxLat:       42,
			TilesX:       4,
			TilesY:       4,
			Subdivisions: 4,
		},
		Camera: CameraConfig{
			Distance:    400_000,
			MinDistance: 1_000,
			MaxDistance: 5_000_000,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate reports the first setting that cannot produce a surface.
func (c *Config) Validate() error {
	if c.Surface.PatchRows < amr.MinPatchRows || c.Surface.PatchRows > amr.MaxPatchRows {
		return fmt.Errorf("surface.patch_rows %d: %w", c.Surface.PatchRows, amr.ErrPatternRows)
	}
	if c.Surface.SunElevation < -90 || c.Surface.SunElevation > 90 {
		return errors.New("surface.sun_elevation: out of range")
	}
	if c.Ocean.MinLon >= c.Ocean.MaxLon || c.Ocean.MinLat >= c.Ocean.MaxLat {
		return errors.New("ocean extent: min must be below max")
	}
	if c.Ocean.MinLat < -90 || c.Ocean.MaxLat > 90 {
		return errors.New("ocean extent: latitude out of range")
	}
	if c.Ocean.TilesX < 1 || c.Ocean.TilesY < 1 || c.Ocean.Subdivisions < 1 {
		return errors.New("ocean tiling: tiles and subdivisions must be positive")
	}
	if c.Graphics.Width <= 0 || c.Graphics.Height <= 0 {
		return errors.New("graphics: window size must be positive")
	}
	return nil
}

// AMRConfig converts the surface section into the geometry configuration.
func (s SurfaceConfig) AMRConfig() amr.Config {
	return amr.Config{
		PatchRows: s.PatchRows,
		SeaLevel:  s.SeaLevel,

		LightDirection: s.Sun().Direction(),
	}
}

// Sun returns the configured light.
func (s SurfaceConfig) Sun() lighting.Sun {
	return lighting.Sun{Azimuth: s.SunAzimuth, Elevation: s.SunElevation}
}

// Extent returns the configured ocean region.
func (o OceanConfig) Extent() ocean.Extent {
	return ocean.Extent{
		MinLon: o.MinLon,
		MinLat: o.MinLat,
		MaxLon: o.MaxLon,
		MaxLat: o.MaxLat,
	}
}

// TileBuilder returns a tessellator framed on the center of the ocean
// extent, so vertices stay near the origin.
func (c *Config) TileBuilder() *ocean.TileBuilder {
	lon, lat := c.Ocean.Extent().Center()
	b := ocean.NewTileBuilder(lon, lat, c.Ocean.Subdivisions)
	b.Localize = c.Surface.LocalizeVerts
	return b
}
