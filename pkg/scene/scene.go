package scene

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl32"
)

// LoadError reports a failed scene load: missing or malformed manifest,
// or a referenced mesh asset that cannot be read.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("loading scene %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Object places a mesh in the world with a translate/rotate/scale
// transform. Objects are immutable once the scene is loaded.
type Object struct {
	Mesh     MeshID
	Position mgl32.Vec3
	Rotation mgl32.Vec3 // Euler angles, radians, applied X then Y then Z
	Scale    mgl32.Vec3
}

// ModelMatrix composes the object's local-to-world transform.
func (o Object) ModelMatrix() mgl32.Mat4 {
	m := mgl32.Translate3D(o.Position.X(), o.Position.Y(), o.Position.Z())
	if o.Rotation.Z() != 0 {
		m = m.Mul4(mgl32.HomogRotate3DZ(o.Rotation.Z()))
	}
	if o.Rotation.Y() != 0 {
		m = m.Mul4(mgl32.HomogRotate3DY(o.Rotation.Y()))
	}
	if o.Rotation.X() != 0 {
		m = m.Mul4(mgl32.HomogRotate3DX(o.Rotation.X()))
	}
	if o.Scale != (mgl32.Vec3{1, 1, 1}) {
		m = m.Mul4(mgl32.Scale3D(o.Scale.X(), o.Scale.Y(), o.Scale.Z()))
	}
	return m
}

// Scene is the immutable collection of renderable objects plus their
// mesh geometry and the scene's directional light.
type Scene struct {
	objects []Object
	meshes  map[MeshID]*Mesh

	// Light is the normalized directional light for flat shading.
	Light mgl32.Vec3
}

// Objects returns the ordered object list. The returned slice is a view
// into the scene and must not be modified.
func (s *Scene) Objects() []Object {
	return s.objects
}

// Mesh returns the geometry for a mesh handle, or nil if unknown.
func (s *Scene) Mesh(id MeshID) *Mesh {
	return s.meshes[id]
}

// Meshes returns the mesh table. Read-only, like Objects.
func (s *Scene) Meshes() map[MeshID]*Mesh {
	return s.meshes
}

// New builds a scene directly from objects and meshes, resolving the
// built-in cube automatically. Every other mesh an object references
// must be present in meshes.
func New(light mgl32.Vec3, meshes map[MeshID]*Mesh, objects ...Object) (*Scene, error) {
	if light.Len() == 0 {
		return nil, fmt.Errorf("scene: light direction must be non-zero")
	}
	s := &Scene{
		objects: objects,
		meshes:  make(map[MeshID]*Mesh, len(meshes)+1),
		Light:   light.Normalize(),
	}
	for id, m := range meshes {
		s.meshes[id] = m
	}
	for i, obj := range objects {
		if _, ok := s.meshes[obj.Mesh]; ok {
			continue
		}
		if obj.Mesh == CubeMeshID {
			s.meshes[CubeMeshID] = Cube()
			continue
		}
		return nil, fmt.Errorf("scene: object %d references unknown mesh %q", i, obj.Mesh)
	}
	return s, nil
}

// manifest is the on-disk scene description.
type manifest struct {
	Light   *[3]float32      `json:"light"`
	Objects []manifestObject `json:"objects"`
}

type manifestObject struct {
	Mesh     string      `json:"mesh"`
	Position [3]float32  `json:"position"`
	Rotation [3]float32  `json:"rotation"`
	Scale    *[3]float32 `json:"scale"`
}

// Load reads a JSON scene manifest and the meshes it references. Mesh
// names are either "cube" for the built-in cube or an OBJ path resolved
// relative to the manifest. Any failure yields a LoadError.
func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	var m manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, &LoadError{Path: path, Err: fmt.Errorf("parsing manifest: %w", err)}
	}
	if len(m.Objects) == 0 {
		return nil, &LoadError{Path: path, Err: fmt.Errorf("manifest has no objects")}
	}

	s := &Scene{
		objects: make([]Object, 0, len(m.Objects)),
		meshes:  make(map[MeshID]*Mesh),
		Light:   mgl32.Vec3{0, 0, -1},
	}
	if m.Light != nil {
		light := mgl32.Vec3{m.Light[0], m.Light[1], m.Light[2]}
		if light.Len() == 0 {
			return nil, &LoadError{Path: path, Err: fmt.Errorf("light direction must be non-zero")}
		}
		s.Light = light.Normalize()
	}

	baseDir := filepath.Dir(path)
	for i, obj := range m.Objects {
		if obj.Mesh == "" {
			return nil, &LoadError{Path: path, Err: fmt.Errorf("object %d: missing mesh", i)}
		}

		id := MeshID(obj.Mesh)
		if _, ok := s.meshes[id]; !ok {
			mesh, err := loadMesh(baseDir, obj.Mesh)
			if err != nil {
				return nil, &LoadError{Path: path, Err: fmt.Errorf("object %d: %w", i, err)}
			}
			s.meshes[id] = mesh
		}

		scale := mgl32.Vec3{1, 1, 1}
		if obj.Scale != nil {
			scale = mgl32.Vec3{obj.Scale[0], obj.Scale[1], obj.Scale[2]}
		}
		s.objects = append(s.objects, Object{
			Mesh:     id,
			Position: mgl32.Vec3{obj.Position[0], obj.Position[1], obj.Position[2]},
			Rotation: mgl32.Vec3{obj.Rotation[0], obj.Rotation[1], obj.Rotation[2]},
			Scale:    scale,
		})
	}
	return s, nil
}

func loadMesh(baseDir, name string) (*Mesh, error) {
	if MeshID(name) == CubeMeshID {
		return Cube(), nil
	}

	f, err := os.Open(filepath.Join(baseDir, name))
	if err != nil {
		return nil, fmt.Errorf("mesh %q: %w", name, err)
	}
	defer f.Close()

	mesh, err := LoadOBJ(f)
	if err != nil {
		return nil, fmt.Errorf("mesh %q: %w", name, err)
	}
	return mesh, nil
}
