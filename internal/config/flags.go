package config

import "flag"

var (
	flagConfig     = flag.String("config", "", "Path to config file")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging")
	flagWindowed   = flag.Bool("windowed", false, "Run in windowed mode")
	flagFullscreen = flag.Bool("fullscreen", false, "Run in fullscreen mode")
	flagWidth      = flag.Int("width", 0, "Window width")
	flagHeight     = flag.Int("height", 0, "Window height")
	flagRows       = flag.Int("rows", 0, "Barycentric pattern rows")
	flagSeaLevel   = flag.Float64("sealevel", 0, "Initial sea level in meters")
	flagLocalize   = flag.Bool("localize", false, "Render triangles in local frames")
	flagTexture    = flag.String("texture", "", "Surface texture (PNG or JPEG)")
	flagTiles      = flag.String("tiles", "", "Tile archive written by amrtool")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagWindowed {
		cfg.Graphics.Fullscreen = false
	}
	if *flagFullscreen {
		cfg.Graphics.Fullscreen = true
	}
	if *flagWidth > 0 {
		cfg.Graphics.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Graphics.Height = *flagHeight
	}
	if *flagRows > 0 {
		cfg.Surface.PatchRows = *flagRows
	}
	if *flagSeaLevel != 0 {
		cfg.Surface.SeaLevel = float32(*flagSeaLevel)
	}
	if *flagLocalize {
		cfg.Surface.LocalizeVerts = true
	}
	if *flagTexture != "" {
		cfg.Surface.Texture = *flagTexture
	}
	if *flagTiles != "" {
		cfg.Ocean.Archive = *flagTiles
	}
}
