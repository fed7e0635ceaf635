// Package viewer runs the interactive ocean surface viewer.
package viewer

import (
	"fmt"
	"image"
	"os"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/ocean-amr/internal/config"
	"github.com/Faultbox/ocean-amr/internal/engine/amr"
	"github.com/Faultbox/ocean-amr/internal/engine/camera"
	"github.com/Faultbox/ocean-amr/internal/engine/debug"
	"github.com/Faultbox/ocean-amr/internal/engine/input"
	"github.com/Faultbox/ocean-amr/internal/engine/ocean"
	"github.com/Faultbox/ocean-amr/internal/engine/picking"
	"github.com/Faultbox/ocean-amr/internal/engine/renderer"
	"github.com/Faultbox/ocean-amr/internal/engine/texture"
	"github.com/Faultbox/ocean-amr/internal/engine/window"
	"github.com/Faultbox/ocean-amr/internal/logger"
)

const (
	title       = "Ocean AMR"
	textureSize = 512
	seaStep     = 10 // meters per key press
)

// Viewer owns the window, the surface and the camera.
type Viewer struct {
	cfg *config.Config
	log *zap.Logger

	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input
	camera   *camera.OrbitCamera
	surface  *amr.Geometry
	texture  uint32
	shots    *debug.ScreenshotCapture

	running bool
	capture bool // save the next rendered frame

	// Tessellation settings owned by the render loop; rebuilds get a copy.
	subdivisions int
	localize     bool
	rebuilds     *rebuilder
}

// New creates the window, GL state and surface and builds the first draw
// list.
func New(cfg *config.Config) (*Viewer, error) {
	v := &Viewer{
		cfg:          cfg,
		log:          logger.Named("viewer"),
		subdivisions: cfg.Ocean.Subdivisions,
		localize:     cfg.Surface.LocalizeVerts,
	}
	v.rebuilds = newRebuilder(v.applyTessellation)

	var err error
	v.window, err = window.New(window.Config{
		Title:      title,
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	fbw, fbh := v.window.DrawableSize()
	v.renderer, err = renderer.New(renderer.Config{
		Width:      fbw,
		Height:     fbh,
		ClearColor: cfg.Graphics.ClearColor,
		FovDegrees: cfg.Graphics.FovDegrees,
	})
	if err != nil {
		v.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	v.surface, err = amr.New(v.renderer.Device(), cfg.Surface.AMRConfig())
	if err != nil {
		v.Close()
		return nil, fmt.Errorf("failed to create surface: %w", err)
	}

	img, err := v.loadTexture()
	if err != nil {
		v.Close()
		return nil, err
	}
	v.texture = v.renderer.UploadTexture(img)

	groups, err := v.initialGroups()
	if err != nil {
		v.Close()
		return nil, err
	}
	v.surface.SetDrawList(groups)
	v.surface.CompileGLObjects(v.renderer.State())

	v.shots = debug.NewScreenshotCapture(cfg.Graphics.Screenshot, "ocean-amr")
	v.input = input.New()
	v.camera = camera.NewOrbitCamera(cfg.Camera.Distance, cfg.Camera.MinDistance, cfg.Camera.MaxDistance)
	v.camera.FitToBox(v.surface.Bound())

	v.log.Info("viewer initialized",
		zap.Int("groups", len(groups)),
		zap.Int("rows", v.surface.Pattern().Rows()))
	return v, nil
}

func (v *Viewer) loadTexture() (image.Image, error) {
	if v.cfg.Surface.Texture == "" {
		return texture.Ocean(textureSize), nil
	}
	img, err := texture.Load(v.cfg.Surface.Texture)
	if err != nil {
		return nil, fmt.Errorf("failed to load surface texture: %w", err)
	}
	return img, nil
}

func (v *Viewer) initialGroups() ([]*amr.Drawable, error) {
	if v.cfg.Ocean.Archive == "" {
		return v.buildGroups(v.subdivisions, v.localize), nil
	}

	f, err := os.Open(v.cfg.Ocean.Archive)
	if err != nil {
		return nil, fmt.Errorf("failed to open tile archive: %w", err)
	}
	defer f.Close()

	groups, err := ocean.LoadTiles(f)
	if err != nil {
		return nil, fmt.Errorf("failed to load tile archive %s: %w", v.cfg.Ocean.Archive, err)
	}
	for _, g := range groups {
		g.StateSet.SetTexture(0, v.texture)
	}
	return groups, nil
}

func (v *Viewer) buildGroups(subdivisions int, localize bool) []*amr.Drawable {
	b := v.cfg.TileBuilder()
	b.Subdivisions = subdivisions
	b.Localize = localize
	b.Texture = v.texture
	return b.BuildGrid(v.cfg.Ocean.Extent(), v.cfg.Ocean.TilesX, v.cfg.Ocean.TilesY)
}

// rebuild tessellates in the background and hands the result to the
// surface. The render loop keeps drawing the previous list meanwhile.
func (v *Viewer) rebuild() {
	v.rebuilds.request(tessellation{subdivisions: v.subdivisions, localize: v.localize})
}

func (v *Viewer) applyTessellation(t tessellation) {
	start := time.Now()
	groups := v.buildGroups(t.subdivisions, t.localize)
	v.surface.SetDrawList(groups)
	v.log.Info("draw list rebuilt",
		zap.Int("subdivisions", t.subdivisions),
		zap.Bool("localize", t.localize),
		zap.Duration("took", time.Since(start)))
}

// Run starts the main loop.
func (v *Viewer) Run() error {
	v.running = true

	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()
	var stats amr.DrawStats

	v.log.Info("starting main loop")

	for v.running {
		now := time.Now()
		dt := now.Sub(lastTime).Seconds()
		lastTime = now

		if v.input.Update() {
			v.running = false
			break
		}
		v.handleEvents()
		v.update(dt)

		stats = v.render()
		if v.capture {
			v.capture = false
			v.screenshot()
		}
		v.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			v.window.SetTitle(fmt.Sprintf("%s - %d fps, %d patches, %d tris, sea level %.0f m",
				title, frameCount, stats.Templates, stats.Triangles, v.surface.SeaLevel()))
			v.log.Debug("fps", zap.Int("count", frameCount), zap.Float64("dt_ms", dt*1000))
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

func (v *Viewer) handleEvents() {
	for _, event := range v.input.Events() {
		switch event.Type {
		case input.EventWindowResize:
			v.renderer.Resize(v.window.DrawableSize())
		case input.EventMouseMove:
			if v.input.IsButtonHeld(sdl.BUTTON_LEFT) {
				v.camera.HandleDrag(float32(event.DeltaX), float32(event.DeltaY))
			}
		case input.EventMouseDown:
			if event.Button == sdl.BUTTON_RIGHT {
				v.pick(event.MouseX, event.MouseY)
			}
		case input.EventMouseWheel:
			v.camera.HandleZoom(float32(event.DeltaY))
		case input.EventKeyDown:
			v.handleKey(event.Key)
		}
	}
}

func (v *Viewer) handleKey(key sdl.Scancode) {
	switch key {
	case sdl.SCANCODE_ESCAPE:
		v.running = false
	case sdl.SCANCODE_F:
		v.camera.FitToBox(v.surface.Bound())
	case sdl.SCANCODE_UP:
		v.surface.SetSeaLevel(v.surface.SeaLevel() + seaStep)
	case sdl.SCANCODE_DOWN:
		v.surface.SetSeaLevel(v.surface.SeaLevel() - seaStep)
	case sdl.SCANCODE_L:
		v.localize = !v.localize
		v.rebuild()
	case sdl.SCANCODE_EQUALS, sdl.SCANCODE_KP_PLUS:
		v.subdivisions = min(v.subdivisions*2, 64)
		v.rebuild()
	case sdl.SCANCODE_MINUS, sdl.SCANCODE_KP_MINUS:
		v.subdivisions = max(v.subdivisions/2, 1)
		v.rebuild()
	case sdl.SCANCODE_C:
		v.surface.ClearDrawList()
	case sdl.SCANCODE_P:
		v.capture = true
	}
}

// pick logs the tile and geodetic position under the cursor.
func (v *Viewer) pick(x, y int) {
	w, h := v.window.Size()
	ray := picking.ScreenToRay(float32(x), float32(y), float32(w), float32(h), v.renderer.ViewProjection().Inverse())

	hit, ok := picking.Pick(ray, v.surface.DrawList(), v.surface.SeaLevel())
	if !ok {
		v.log.Info("pick missed", zap.Int("x", x), zap.Int("y", y))
		return
	}
	geo := hit.Geodetic()
	v.log.Info("picked",
		zap.String("tile", hit.Group.StateSet.Name()),
		zap.Float32("lon", geo.X),
		zap.Float32("lat", geo.Y),
		zap.Float32("distance", hit.Distance),
		zap.Bool("localized", hit.Triangle.Localized()))
}

func (v *Viewer) screenshot() {
	pixels, w, h := v.renderer.ReadPixels()
	name, err := v.shots.CaptureFromPixels(pixels, w, h)
	if err != nil {
		v.log.Warn("screenshot failed", zap.Error(err))
		return
	}
	v.log.Info("screenshot saved", zap.String("file", name))
}

func (v *Viewer) update(dt float64) {
	var forward, right float32
	if input.IsKeyHeld(sdl.SCANCODE_W) {
		forward++
	}
	if input.IsKeyHeld(sdl.SCANCODE_S) {
		forward--
	}
	if input.IsKeyHeld(sdl.SCANCODE_D) {
		right++
	}
	if input.IsKeyHeld(sdl.SCANCODE_A) {
		right--
	}
	if forward != 0 || right != 0 {
		scale := float32(dt * 60)
		v.camera.HandleMovement(forward*scale, right*scale)
	}
}

func (v *Viewer) render() amr.DrawStats {
	v.renderer.Begin()

	var radius float32
	if b := v.surface.Bound(); b.Valid() {
		radius = b.Radius()
	}
	near, far := v.camera.ClipPlanes(radius)
	v.renderer.SetCamera(v.camera.ViewMatrix(), near, far)
	stats := v.surface.Draw(v.renderer.State())

	v.renderer.End()
	return stats
}

// Close waits for pending rebuilds and releases GL and window resources.
func (v *Viewer) Close() {
	v.log.Info("closing viewer")
	v.rebuilds.wait()

	if v.surface != nil {
		v.surface.Release()
		amr.PurgePatterns(v.renderer.Device())
	}
	if v.renderer != nil {
		v.renderer.Close()
	}
	if v.window != nil {
		v.window.Close()
	}
}
