// Package scene holds the immutable scene model: meshes, placed objects
// and the scene light. A Scene is loaded once at startup and is
// read-only afterwards.
package scene

import "github.com/go-gl/mathgl/mgl32"

// MeshID is an opaque handle identifying a mesh within a scene.
type MeshID string

// CubeMeshID identifies the built-in unit cube.
const CubeMeshID MeshID = "cube"

// Vertex is a mesh vertex with position and normal.
type Vertex struct {
	Position mgl32.Vec3
	Normal   mgl32.Vec3
}

// Mesh is indexed triangle geometry. Indices form triangles in groups
// of three.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
}

// Cube returns the built-in unit cube centered on the origin, with
// per-face normals.
func Cube() *Mesh {
	faces := []struct {
		normal  mgl32.Vec3
		corners [4]mgl32.Vec3
	}{
		{mgl32.Vec3{0, 0, 1}, [4]mgl32.Vec3{
			{-0.5, -0.5, 0.5}, {0.5, -0.5, 0.5}, {0.5, 0.5, 0.5}, {-0.5, 0.5, 0.5}}},
		{mgl32.Vec3{0, 0, -1}, [4]mgl32.Vec3{
			{0.5, -0.5, -0.5}, {-0.5, -0.5, -0.5}, {-0.5, 0.5, -0.5}, {0.5, 0.5, -0.5}}},
		{mgl32.Vec3{1, 0, 0}, [4]mgl32.Vec3{
			{0.5, -0.5, 0.5}, {0.5, -0.5, -0.5}, {0.5, 0.5, -0.5}, {0.5, 0.5, 0.5}}},
		{mgl32.Vec3{-1, 0, 0}, [4]mgl32.Vec3{
			{-0.5, -0.5, -0.5}, {-0.5, -0.5, 0.5}, {-0.5, 0.5, 0.5}, {-0.5, 0.5, -0.5}}},
		{mgl32.Vec3{0, 1, 0}, [4]mgl32.Vec3{
			{-0.5, 0.5, 0.5}, {0.5, 0.5, 0.5}, {0.5, 0.5, -0.5}, {-0.5, 0.5, -0.5}}},
		{mgl32.Vec3{0, -1, 0}, [4]mgl32.Vec3{
			{-0.5, -0.5, -0.5}, {0.5, -0.5, -0.5}, {0.5, -0.5, 0.5}, {-0.5, -0.5, 0.5}}},
	}

	mesh := &Mesh{
		Vertices: make([]Vertex, 0, 24),
		Indices:  make([]uint32, 0, 36),
	}
	for _, f := range faces {
		base := uint32(len(mesh.Vertices))
		for _, c := range f.corners {
			mesh.Vertices = append(mesh.Vertices, Vertex{Position: c, Normal: f.normal})
		}
		mesh.Indices = append(mesh.Indices,
			base, base+1, base+2,
			base+2, base+3, base,
		)
	}
	return mesh
}
