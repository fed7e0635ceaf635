package state

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/ocean-amr/internal/engine/shader"
	"github.com/Faultbox/ocean-amr/pkg/math"
)

// GLDevice is the OpenGL 4.1 core backend. gl.Init must have been called on
// the current context before NewGLDevice.
type GLDevice struct {
	contextID     uint32
	vao           uint32
	bufferObjects bool
}

// NewGLDevice wraps the current GL context. Core profile requires a bound
// vertex array object, so one is created and kept bound for the device's
// lifetime.
func NewGLDevice(contextID uint32) (*GLDevice, error) {
	var major int32
	gl.GetIntegerv(gl.MAJOR_VERSION, &major)
	if major == 0 {
		return nil, fmt.Errorf("no current OpenGL context")
	}

	d := &GLDevice{
		contextID:     contextID,
		bufferObjects: major >= 2,
	}
	gl.GenVertexArrays(1, &d.vao)
	gl.BindVertexArray(d.vao)
	return d, nil
}

// Release deletes the device's vertex array object.
func (d *GLDevice) Release() {
	if d.vao != 0 {
		gl.BindVertexArray(0)
		gl.DeleteVertexArrays(1, &d.vao)
		d.vao = 0
	}
}

func (d *GLDevice) ContextID() uint32           { return d.contextID }
func (d *GLDevice) SupportsBufferObjects() bool { return d.bufferObjects }

func (d *GLDevice) CompileProgram(name, vertexSrc, fragmentSrc string) (uint32, error) {
	return shader.CompileProgram(name, vertexSrc, fragmentSrc)
}

func (d *GLDevice) DeleteProgram(id uint32) { gl.DeleteProgram(id) }
func (d *GLDevice) UseProgram(id uint32)    { gl.UseProgram(id) }

func (d *GLDevice) UniformLocation(program uint32, name string) int32 {
	return shader.GetUniform(program, name)
}

func (d *GLDevice) Uniform1i(loc int32, v int32)         { gl.Uniform1i(loc, v) }
func (d *GLDevice) Uniform1f(loc int32, v float32)       { gl.Uniform1f(loc, v) }
func (d *GLDevice) Uniform2f(loc int32, x, y float32)    { gl.Uniform2f(loc, x, y) }
func (d *GLDevice) Uniform3f(loc int32, x, y, z float32) { gl.Uniform3f(loc, x, y, z) }

func (d *GLDevice) UniformMatrix4fv(loc int32, m *math.Mat4) {
	gl.UniformMatrix4fv(loc, 1, false, m.Ptr())
}

func (d *GLDevice) BindTexture(unit uint32, texture uint32) {
	gl.ActiveTexture(gl.TEXTURE0 + unit)
	gl.BindTexture(gl.TEXTURE_2D, texture)
}

func (d *GLDevice) GenBuffer() uint32 {
	var id uint32
	gl.GenBuffers(1, &id)
	return id
}

func (d *GLDevice) DeleteBuffer(id uint32) { gl.DeleteBuffers(1, &id) }

func (d *GLDevice) BindBuffer(target BufferTarget, id uint32) {
	gl.BindBuffer(glTarget(target), id)
}

func (d *GLDevice) BufferData(target BufferTarget, size int) {
	gl.BufferData(glTarget(target), size, nil, gl.STATIC_DRAW)
}

func (d *GLDevice) BufferSubData(target BufferTarget, offset, size int, data unsafe.Pointer) {
	gl.BufferSubData(glTarget(target), offset, size, data)
}

func (d *GLDevice) VertexAttribPointer(index uint32, components int32, offset int) {
	gl.VertexAttribPointerWithOffset(index, components, gl.FLOAT, false, 0, uintptr(offset))
}

func (d *GLDevice) EnableVertexAttribArray(index uint32) { gl.EnableVertexAttribArray(index) }

func (d *GLDevice) DrawElements(mode PrimitiveMode, count int32, offset int) {
	gl.DrawElementsWithOffset(glMode(mode), count, gl.UNSIGNED_SHORT, uintptr(offset))
}

func glTarget(t BufferTarget) uint32 {
	if t == ElementArrayBuffer {
		return gl.ELEMENT_ARRAY_BUFFER
	}
	return gl.ARRAY_BUFFER
}

func glMode(m PrimitiveMode) uint32 {
	switch m {
	case TriangleStrip:
		return gl.TRIANGLE_STRIP
	case Lines:
		return gl.LINES
	default:
		return gl.TRIANGLES
	}
}
