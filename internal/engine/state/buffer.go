package state

import (
	"unsafe"

	"github.com/Faultbox/ocean-amr/pkg/math"
)

// segment is a client-side array stored in a slice of a BufferObject.
type segment interface {
	byteSize() int
	pointer() unsafe.Pointer
}

// BufferObject is one GPU buffer holding one or more client arrays back to
// back. It owns a GLBufferObject per context; each starts dirty and is
// uploaded on its first compile.
type BufferObject struct {
	target    BufferTarget
	segments  []segment
	offsets   []int
	size      int
	glObjects map[uint32]*GLBufferObject
}

// NewBufferObject returns an empty buffer object for target.
func NewBufferObject(target BufferTarget) *BufferObject {
	return &BufferObject{
		target:    target,
		glObjects: make(map[uint32]*GLBufferObject),
	}
}

// Target returns the binding point.
func (b *BufferObject) Target() BufferTarget { return b.target }

// Size returns the total byte size of all attached arrays.
func (b *BufferObject) Size() int { return b.size }

func (b *BufferObject) add(s segment) int {
	offset := b.size
	b.segments = append(b.segments, s)
	b.offsets = append(b.offsets, offset)
	b.size += s.byteSize()
	for _, g := range b.glObjects {
		g.dirty = true
	}
	return offset
}

// GLBufferObject returns the per-context object, or nil if none exists yet.
func (b *BufferObject) GLBufferObject(contextID uint32) *GLBufferObject {
	return b.glObjects[contextID]
}

// GetOrCreateGLBufferObject returns the object for dev's context, generating
// a buffer name on first use. It returns nil when dev lacks buffer objects.
func (b *BufferObject) GetOrCreateGLBufferObject(dev Device) *GLBufferObject {
	if !dev.SupportsBufferObjects() {
		return nil
	}
	ctx := dev.ContextID()
	if g, ok := b.glObjects[ctx]; ok {
		return g
	}
	g := &GLBufferObject{
		parent: b,
		id:     dev.GenBuffer(),
		dirty:  true,
	}
	b.glObjects[ctx] = g
	return g
}

// Release deletes the buffer for dev's context.
func (b *BufferObject) Release(dev Device) {
	ctx := dev.ContextID()
	if g, ok := b.glObjects[ctx]; ok {
		dev.DeleteBuffer(g.id)
		delete(b.glObjects, ctx)
	}
}

// GLBufferObject is a BufferObject's buffer name in one context.
type GLBufferObject struct {
	parent  *BufferObject
	id      uint32
	dirty   bool
	uploads int
}

// ID returns the buffer name.
func (g *GLBufferObject) ID() uint32 { return g.id }

// IsDirty reports whether the client data has not been uploaded yet.
func (g *GLBufferObject) IsDirty() bool { return g.dirty }

// Uploads counts completed uploads.
func (g *GLBufferObject) Uploads() int { return g.uploads }

// Dirty forces the next compile to upload again.
func (g *GLBufferObject) Dirty() { g.dirty = true }

// compile binds the buffer and uploads every segment. The buffer is left bound.
func (g *GLBufferObject) compile(dev Device) {
	b := g.parent
	dev.BindBuffer(b.target, g.id)
	dev.BufferData(b.target, b.size)
	for i, s := range b.segments {
		if n := s.byteSize(); n > 0 {
			dev.BufferSubData(b.target, b.offsets[i], n, s.pointer())
		}
	}
	g.dirty = false
	g.uploads++
}

// Vec3Array is a client array of 3-component vertices. Data must not change
// length after construction because its byte range inside the buffer object
// is fixed.
type Vec3Array struct {
	Data   []math.Vec3
	buffer *BufferObject
	offset int
}

// NewVec3Array appends data to bo's storage.
func NewVec3Array(data []math.Vec3, bo *BufferObject) *Vec3Array {
	a := &Vec3Array{Data: data, buffer: bo}
	a.offset = bo.add(a)
	return a
}

func (a *Vec3Array) byteSize() int { return len(a.Data) * int(unsafe.Sizeof(math.Vec3{})) }

func (a *Vec3Array) pointer() unsafe.Pointer {
	if len(a.Data) == 0 {
		return nil
	}
	return unsafe.Pointer(&a.Data[0])
}

// BufferObject returns the storage the array lives in.
func (a *Vec3Array) BufferObject() *BufferObject { return a.buffer }

// Offset returns the array's byte offset inside its buffer object.
func (a *Vec3Array) Offset() int { return a.offset }

// Vec2Array is a client array of 2-component vertices.
type Vec2Array struct {
	Data   []math.Vec2
	buffer *BufferObject
	offset int
}

// NewVec2Array appends data to bo's storage.
func NewVec2Array(data []math.Vec2, bo *BufferObject) *Vec2Array {
	a := &Vec2Array{Data: data, buffer: bo}
	a.offset = bo.add(a)
	return a
}

func (a *Vec2Array) byteSize() int { return len(a.Data) * int(unsafe.Sizeof(math.Vec2{})) }

func (a *Vec2Array) pointer() unsafe.Pointer {
	if len(a.Data) == 0 {
		return nil
	}
	return unsafe.Pointer(&a.Data[0])
}

func (a *Vec2Array) BufferObject() *BufferObject { return a.buffer }
func (a *Vec2Array) Offset() int                 { return a.offset }

// ElementArray is an unsigned short index list drawn with one call.
type ElementArray struct {
	Mode    PrimitiveMode
	Indices []uint16
	buffer  *BufferObject
	offset  int
}

// NewElementArray appends indices to bo's storage.
func NewElementArray(mode PrimitiveMode, indices []uint16, bo *BufferObject) *ElementArray {
	e := &ElementArray{Mode: mode, Indices: indices, buffer: bo}
	e.offset = bo.add(e)
	return e
}

func (e *ElementArray) byteSize() int { return len(e.Indices) * 2 }

func (e *ElementArray) pointer() unsafe.Pointer {
	if len(e.Indices) == 0 {
		return nil
	}
	return unsafe.Pointer(&e.Indices[0])
}

func (e *ElementArray) BufferObject() *BufferObject { return e.buffer }
func (e *ElementArray) Offset() int                 { return e.offset }
