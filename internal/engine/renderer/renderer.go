// Package renderer owns the OpenGL context state of the viewer.
package renderer

import (
	"fmt"
	"image"
	"image/draw"
	gomath "math"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/ocean-amr/internal/engine/state"
	"github.com/Faultbox/ocean-amr/internal/logger"
	"github.com/Faultbox/ocean-amr/pkg/math"
)

// Config holds renderer configuration.
type Config struct {
	Width      int
	Height     int
	ClearColor [3]float32
	FovDegrees float32
}

// Renderer initializes OpenGL and carries the device and state every draw
// goes through.
type Renderer struct {
	config Config
	log    *zap.Logger

	device   *state.GLDevice
	state    *state.State
	textures []uint32
	viewProj math.Mat4
}

// New creates a new renderer.
// IMPORTANT: Must be called AFTER OpenGL context is created!
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		config: cfg,
		log:    logger.Named("renderer"),
	}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	r.log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
		zap.String("glsl", gl.GoStr(gl.GetString(gl.SHADING_LANGUAGE_VERSION))))

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.BACK)
	gl.ClearColor(cfg.ClearColor[0], cfg.ClearColor[1], cfg.ClearColor[2], 1.0)

	device, err := state.NewGLDevice(0)
	if err != nil {
		return nil, fmt.Errorf("failed to create device: %w", err)
	}
	r.device = device
	r.state = state.New(device)

	r.Resize(cfg.Width, cfg.Height)
	return r, nil
}

// Device returns the GL backend.
func (r *Renderer) Device() state.Device { return r.device }

// State returns the render state shared by every drawable.
func (r *Renderer) State() *state.State { return r.state }

// Close cleans up renderer resources.
func (r *Renderer) Close() {
	r.log.Info("closing renderer")
	if len(r.textures) > 0 {
		gl.DeleteTextures(int32(len(r.textures)), &r.textures[0])
		r.textures = nil
	}
	r.device.Release()
}

// Resize handles window resize. Sizes are framebuffer pixels.
func (r *Renderer) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	r.log.Debug("renderer resized", zap.Int("width", width), zap.Int("height", height))
}

// Aspect returns the framebuffer aspect ratio.
func (r *Renderer) Aspect() float32 {
	return float32(r.config.Width) / float32(r.config.Height)
}

// SetCamera loads the projection and view matrices into the state.
func (r *Renderer) SetCamera(view math.Mat4, near, far float32) {
	fov := r.config.FovDegrees * gomath.Pi / 180
	proj := math.Perspective(fov, r.Aspect(), near, far)
	r.state.SetProjectionMatrix(proj)
	r.state.ApplyModelViewMatrix(view)
	r.viewProj = proj.Mul(view)
}

// ViewProjection returns the matrix set by the last SetCamera.
func (r *Renderer) ViewProjection() math.Mat4 { return r.viewProj }

// ReadPixels reads the back buffer as bottom-up RGBA rows.
func (r *Renderer) ReadPixels() (pixels []byte, width, height int) {
	width, height = r.config.Width, r.config.Height
	pixels = make([]byte, width*height*4)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(width), int32(height), gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&pixels[0]))
	return pixels, width, height
}

// Begin starts a new frame.
func (r *Renderer) Begin() {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// End finishes the current frame and reports any pending GL error.
func (r *Renderer) End() {
	if code := gl.GetError(); code != gl.NO_ERROR {
		r.log.Warn("gl error", zap.Uint32("code", code))
	}
}

// UploadTexture creates a mipmapped, repeating 2D texture from img and
// returns its name. The texture is deleted on Close.
func (r *Renderer) UploadTexture(img image.Image) uint32 {
	rgba, ok := img.(*image.RGBA)
	if !ok || rgba.Stride != 4*rgba.Rect.Dx() {
		rgba = image.NewRGBA(image.Rect(0, 0, img.Bounds().Dx(), img.Bounds().Dy()))
		draw.Draw(rgba, rgba.Bounds(), img, img.Bounds().Min, draw.Src)
	}
	w, h := int32(rgba.Rect.Dx()), int32(rgba.Rect.Dy())

	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, w, h, 0, gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&rgba.Pix[0]))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.GenerateMipmap(gl.TEXTURE_2D)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	// The binding changed behind the state's back.
	r.state.Reset()

	r.textures = append(r.textures, tex)
	r.log.Debug("texture uploaded", zap.Uint32("id", tex), zap.Int32("width", w), zap.Int32("height", h))
	return tex
}
