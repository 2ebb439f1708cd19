package render

import (
	"fmt"

	"github.com/go-gl/gl/v4.6-core/gl"
	"github.com/rs/zerolog"

	"github.com/halverson/go-mapview/internal/platform"
	"github.com/halverson/go-mapview/pkg/scene"
)

const vertexShaderSource = `#version 460 core
layout (location = 0) in vec3 aPos;
layout (location = 1) in vec3 aNormal;

uniform mat4 model;
uniform mat4 view;
uniform mat4 projection;

out vec3 fragNormal;

void main() {
    fragNormal = mat3(model) * aNormal;
    gl_Position = projection * view * model * vec4(aPos, 1.0);
}
`

const fragmentShaderSource = `#version 460 core
in vec3 fragNormal;

uniform vec3 lightDir;

out vec4 fragColor;

void main() {
    float intensity = max(dot(normalize(fragNormal), -lightDir), 0.15);
    fragColor = vec4(vec3(intensity), 1.0);
}
`

// glMesh is the uploaded GPU form of one scene mesh.
type glMesh struct {
	vao        *platform.VertexArrayObject
	vbo        *platform.BufferObject
	ebo        *platform.BufferObject
	indexCount int32
}

// GLBackend renders draw batches with OpenGL. It implements Bridge.
type GLBackend struct {
	shader *platform.Shader
	meshes map[scene.MeshID]*glMesh
	log    zerolog.Logger
}

// NewGLBackend creates the OpenGL render backend. A current GL context
// is required.
func NewGLBackend(log zerolog.Logger) (*GLBackend, error) {
	shader, err := platform.NewShader(vertexShaderSource, fragmentShaderSource)
	if err != nil {
		return nil, fmt.Errorf("creating scene shader: %w", err)
	}
	return &GLBackend{
		shader: shader,
		meshes: make(map[scene.MeshID]*glMesh),
		log:    log,
	}, nil
}

// Prepare uploads every mesh in the scene to GPU buffers. Geometry is
// static, so this happens exactly once after scene load.
func (b *GLBackend) Prepare(s *scene.Scene) error {
	for id, mesh := range s.Meshes() {
		if _, ok := b.meshes[id]; ok {
			continue
		}
		b.meshes[id] = uploadMesh(mesh)
		b.log.Debug().
			Str("mesh", string(id)).
			Int("vertices", len(mesh.Vertices)).
			Int("indices", len(mesh.Indices)).
			Msg("uploaded mesh")
	}
	return nil
}

// uploadMesh packs vertices as interleaved position+normal floats and
// creates the VAO/VBO/EBO triple for them.
func uploadMesh(mesh *scene.Mesh) *glMesh {
	vertices := make([]float32, 0, len(mesh.Vertices)*6)
	for _, v := range mesh.Vertices {
		vertices = append(vertices,
			v.Position.X(), v.Position.Y(), v.Position.Z(),
			v.Normal.X(), v.Normal.Y(), v.Normal.Z(),
		)
	}

	vao := platform.NewVAO()
	vao.Bind()
	vbo := platform.NewVBO(vertices)
	ebo := platform.NewEBO(mesh.Indices)

	// Position attribute (3 floats), normal attribute (3 floats)
	vao.SetVertexAttribPointer(0, 3, gl.FLOAT, false, 6*4, 0)
	vao.SetVertexAttribPointer(1, 3, gl.FLOAT, false, 6*4, 3*4)
	vao.Unbind()

	return &glMesh{
		vao:        vao,
		vbo:        vbo,
		ebo:        ebo,
		indexCount: int32(len(mesh.Indices)),
	}
}

// Submit clears the framebuffer and draws one frame. A draw item whose
// mesh was never prepared produces a SubmitError; the loop treats that
// as recoverable and retries next tick.
func (b *GLBackend) Submit(frame Frame, items []DrawItem) error {
	gl.ClearColor(0.05, 0.05, 0.1, 1.0)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	b.shader.Use()
	b.shader.SetMat4("view", frame.View)
	b.shader.SetMat4("projection", frame.Projection)
	b.shader.SetVec3("lightDir", frame.Light)

	for _, item := range items {
		mesh, ok := b.meshes[item.Mesh]
		if !ok {
			return &SubmitError{Reason: fmt.Sprintf("mesh %q not prepared", item.Mesh)}
		}
		b.shader.SetMat4("model", item.Model)
		mesh.vao.Bind()
		gl.DrawElements(gl.TRIANGLES, mesh.indexCount, gl.UNSIGNED_INT, nil)
	}
	gl.BindVertexArray(0)

	return nil
}

// Close releases all GPU resources held by the backend.
func (b *GLBackend) Close() {
	for _, m := range b.meshes {
		m.vao.Delete()
		m.vbo.Delete()
		m.ebo.Delete()
	}
	b.meshes = map[scene.MeshID]*glMesh{}
	if b.shader != nil {
		b.shader.Delete()
	}
}
