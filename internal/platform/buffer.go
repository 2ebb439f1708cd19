package platform

import (
	"github.com/go-gl/gl/v4.6-core/gl"
)

// BufferObject wraps an OpenGL buffer (VBO or EBO) created with static
// draw usage; scene geometry is uploaded once and never rewritten.
type BufferObject struct {
	ID   uint32
	Type uint32
}

// VertexArrayObject wraps an OpenGL vertex array object holding vertex
// attribute configuration.
type VertexArrayObject struct {
	ID uint32
}

// NewVAO creates a vertex array object.
func NewVAO() *VertexArrayObject {
	var id uint32
	gl.GenVertexArrays(1, &id)
	return &VertexArrayObject{ID: id}
}

// Bind binds the VAO.
func (vao *VertexArrayObject) Bind() {
	gl.BindVertexArray(vao.ID)
}

// Unbind unbinds any VAO.
func (vao *VertexArrayObject) Unbind() {
	gl.BindVertexArray(0)
}

// SetVertexAttribPointer configures and enables a vertex attribute on
// the currently bound VAO/VBO pair.
func (vao *VertexArrayObject) SetVertexAttribPointer(index uint32, size int32, xtype uint32, normalized bool, stride int32, offset int) {
	gl.VertexAttribPointerWithOffset(index, size, xtype, normalized, stride, uintptr(offset))
	gl.EnableVertexAttribArray(index)
}

// Delete releases the VAO.
func (vao *VertexArrayObject) Delete() {
	gl.DeleteVertexArrays(1, &vao.ID)
}

// NewVBO creates a static vertex buffer from float32 data.
func NewVBO(data []float32) *BufferObject {
	var id uint32
	gl.GenBuffers(1, &id)
	buf := &BufferObject{ID: id, Type: gl.ARRAY_BUFFER}
	buf.Bind()
	gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), gl.STATIC_DRAW)
	return buf
}

// NewEBO creates a static element buffer from uint32 indices.
func NewEBO(indices []uint32) *BufferObject {
	var id uint32
	gl.GenBuffers(1, &id)
	buf := &BufferObject{ID: id, Type: gl.ELEMENT_ARRAY_BUFFER}
	buf.Bind()
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, gl.Ptr(indices), gl.STATIC_DRAW)
	return buf
}

// Bind binds the buffer to its target.
func (b *BufferObject) Bind() {
	gl.BindBuffer(b.Type, b.ID)
}

// Unbind unbinds the buffer's target.
func (b *BufferObject) Unbind() {
	gl.BindBuffer(b.Type, 0)
}

// Delete releases the buffer.
func (b *BufferObject) Delete() {
	gl.DeleteBuffers(1, &b.ID)
}
