// Package state is the rendering-state layer the surface renderer draws
// through. It mirrors the small part of a scene-graph state machine the
// renderer needs: typed uniforms, state sets combined on a push/pop stack,
// buffer objects compiled per context, and a Device backend that issues the
// actual graphics calls.
package state

import (
	"unsafe"

	"github.com/Faultbox/ocean-amr/pkg/math"
)

// BufferTarget selects the binding point of a buffer object.
type BufferTarget int

const (
	ArrayBuffer BufferTarget = iota
	ElementArrayBuffer
)

func (t BufferTarget) String() string {
	switch t {
	case ArrayBuffer:
		return "array"
	case ElementArrayBuffer:
		return "element"
	default:
		return "unknown"
	}
}

// PrimitiveMode is the topology passed to indexed draws.
type PrimitiveMode int

const (
	Triangles PrimitiveMode = iota
	TriangleStrip
	Lines
)

// Vertex attribute locations shared by every program drawn through State.
const (
	VertexAttrib   uint32 = 0
	TexCoordAttrib uint32 = 1 // plus the texture unit
)

// Device issues graphics calls for one context. Implementations are not
// safe for concurrent use; all calls happen on the render thread.
type Device interface {
	ContextID() uint32
	SupportsBufferObjects() bool

	CompileProgram(name, vertexSrc, fragmentSrc string) (uint32, error)
	DeleteProgram(id uint32)
	UseProgram(id uint32)
	UniformLocation(program uint32, name string) int32
	Uniform1i(location int32, v int32)
	Uniform1f(location int32, v float32)
	Uniform2f(location int32, x, y float32)
	Uniform3f(location int32, x, y, z float32)
	UniformMatrix4fv(location int32, m *math.Mat4)

	BindTexture(unit uint32, texture uint32)

	GenBuffer() uint32
	DeleteBuffer(id uint32)
	BindBuffer(target BufferTarget, id uint32)
	BufferData(target BufferTarget, size int)
	BufferSubData(target BufferTarget, offset, size int, data unsafe.Pointer)

	VertexAttribPointer(index uint32, components int32, offset int)
	EnableVertexAttribArray(index uint32)
	DrawElements(mode PrimitiveMode, count int32, offset int)
}
