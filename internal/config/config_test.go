package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Faultbox/ocean-amr/internal/engine/amr"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Graphics.Width != 1280 {
		t.Errorf("expected width 1280, got %d", cfg.Graphics.Width)
	}
	if cfg.Graphics.Height != 720 {
		t.Errorf("expected height 720, got %d", cfg.Graphics.Height)
	}
	if !cfg.Graphics.VSync {
		t.Error("expected vsync to be true by default")
	}

	if cfg.Surface.PatchRows != amr.DefaultPatchRows {
		t.Errorf("expected patch rows %d, got %d", amr.DefaultPatchRows, cfg.Surface.PatchRows)
	}
	if cfg.Surface.SeaLevel != 0 {
		t.Errorf("expected sea level 0, got %f", cfg.Surface.SeaLevel)
	}
	if cfg.Surface.LocalizeVerts {
		t.Error("expected vertex localization to be off by default")
	}

	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, FileName)

	yamlContent := `
graphics:
  width: 1920
  height: 1080
  fullscreen: true
  vsync: false

surface:
  patch_rows: 12
  sea_level: -3.5
  localize_verts: true

ocean:
  min_lon: 10
  min_lat: -5
  max_lon: 12
  max_lat: -3
  tiles_x: 2
  tiles_y: 3
  subdivisions: 6

logging:
  level: "debug"
  log_file: "amr.log"
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Graphics.Width != 1920 || cfg.Graphics.Height != 1080 {
		t.Errorf("expected 1920x1080, got %dx%d", cfg.Graphics.Width, cfg.Graphics.Height)
	}
	if !cfg.Graphics.Fullscreen {
		t.Error("expected fullscreen to be true")
	}
	if cfg.Surface.PatchRows != 12 {
		t.Errorf("expected patch rows 12, got %d", cfg.Surface.PatchRows)
	}
	if cfg.Surface.SeaLevel != -3.5 {
		t.Errorf("expected sea level -3.5, got %f", cfg.Surface.SeaLevel)
	}
	if !cfg.Surface.LocalizeVerts {
		t.Error("expected localize_verts to be true")
	}
	if cfg.Ocean.TilesY != 3 || cfg.Ocean.Subdivisions != 6 {
		t.Errorf("unexpected ocean tiling %+v", cfg.Ocean)
	}
	ext := cfg.Ocean.Extent()
	if ext.MinLon != 10 || ext.MaxLat != -3 {
		t.Errorf("unexpected extent %+v", ext)
	}
	// Unset fields keep their defaults.
	if cfg.Camera.Distance != Default().Camera.Distance {
		t.Errorf("expected default camera distance, got %f", cfg.Camera.Distance)
	}
	if cfg.Logging.LogFile != "amr.log" {
		t.Errorf("expected log file 'amr.log', got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "invalid.yaml")

	invalidYAML := `
graphics:
  width: not a number
  invalid syntax here
`
	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	if err := loadFromFile(cfg, "/nonexistent/path/ocean-amr.yaml"); err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"rows too small", func(c *Config) { c.Surface.PatchRows = 1 }, true},
		{"rows too large", func(c *Config) { c.Surface.PatchRows = amr.MaxPatchRows + 1 }, true},
		{"minimum rows", func(c *Config) { c.Surface.PatchRows = amr.MinPatchRows }, false},
		{"inverted lon", func(c *Config) { c.Ocean.MinLon, c.Ocean.MaxLon = 5, 1 }, true},
		{"latitude overflow", func(c *Config) { c.Ocean.MaxLat = 91 }, true},
		{"no tiles", func(c *Config) { c.Ocean.TilesX = 0 }, true},
		{"zero width", func(c *Config) { c.Graphics.Width = 0 }, true},
		{"sun below nadir", func(c *Config) { c.Surface.SunElevation = -91 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}

	cfg := Default()
	cfg.Surface.PatchRows = 0
	if err := cfg.Validate(); !errors.Is(err, amr.ErrPatternRows) {
		t.Errorf("expected ErrPatternRows, got %v", err)
	}
}

func TestAMRConfig(t *testing.T) {
	s := SurfaceConfig{PatchRows: 5, SeaLevel: 2}
	got := s.AMRConfig()
	if got.PatchRows != 5 || got.SeaLevel != 2 {
		t.Errorf("AMRConfig() = %+v", got)
	}

	s.SunElevation = 90
	if dir := s.AMRConfig().LightDirection; dir.Y < 0.9999 {
		t.Errorf("zenith sun light direction = %+v", dir)
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()
	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Chdir(t.TempDir())

	if path := findConfigFile(); path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	if err := os.WriteFile(FileName, []byte("graphics:\n  width: 800\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}
	if path := findConfigFile(); path == "" {
		t.Errorf("expected to find %s in current directory", FileName)
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", FileName)

	cfg := Default()
	cfg.Surface.PatchRows = 9
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if loaded.Surface.PatchRows != 9 {
		t.Errorf("expected patch rows 9 after reload, got %d", loaded.Surface.PatchRows)
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*testing.T, *Config)
		teardown func()
	}{
		{
			name:  "debug flag",
			setup: func() { *flagDebug = true },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
			teardown: func() { *flagDebug = false },
		},
		{
			name:  "fullscreen flag",
			setup: func() { *flagFullscreen = true },
			verify: func(t *testing.T, cfg *Config) {
				if !cfg.Graphics.Fullscreen {
					t.Error("expected fullscreen to be true with fullscreen flag")
				}
			},
			teardown: func() { *flagFullscreen = false },
		},
		{
			name: "surface flags",
			setup: func() {
				*flagRows = 6
				*flagSeaLevel = 12.5
				*flagLocalize = true
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Surface.PatchRows != 6 {
					t.Errorf("expected rows 6, got %d", cfg.Surface.PatchRows)
				}
				if cfg.Surface.SeaLevel != 12.5 {
					t.Errorf("expected sea level 12.5, got %f", cfg.Surface.SeaLevel)
				}
				if !cfg.Surface.LocalizeVerts {
					t.Error("expected localize to be enabled")
				}
			},
			teardown: func() {
				*flagRows = 0
				*flagSeaLevel = 0
				*flagLocalize = false
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			applyFlags(cfg)
			tt.verify(t, cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), FileName)
	yamlContent := `
graphics:
  width: 1600
  height: 900
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	*flagWidth = 1920
	defer func() {
		*flagConfig = ""
		*flagWidth = 0
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Graphics.Width != 1920 {
		t.Errorf("expected width 1920 from flag, got %d", cfg.Graphics.Width)
	}
	if cfg.Graphics.Height != 900 {
		t.Errorf("expected height 900 from file, got %d", cfg.Graphics.Height)
	}
}

func TestLoadEnvPath(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "env.yaml")
	if err := os.WriteFile(configPath, []byte("surface:\n  patch_rows: 4\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	t.Setenv(EnvConfigPath, configPath)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Surface.PatchRows != 4 {
		t.Errorf("expected patch rows 4 from env config, got %d", cfg.Surface.PatchRows)
	}
}

func TestTileBuilderFromConfig(t *testing.T) {
	cfg := Default()
	cfg.Surface.LocalizeVerts = true
	cfg.Ocean.Subdivisions = 2

	b := cfg.TileBuilder()
	if !b.Localize {
		t.Error("expected localized builder")
	}
	if b.Subdivisions != 2 {
		t.Errorf("expected 2 subdivisions, got %d", b.Subdivisions)
	}

	// The frame origin is the extent center, so the center node is at zero.
	lon, lat := cfg.Ocean.Extent().Center()
	p := b.Frame.ToLocal(b.Ellipsoid.GeodeticToECEF(lon, lat, 0))
	if p.Length() > 1e-3 {
		t.Errorf("extent center maps to %v, want origin", p)
	}
}
