package scene

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// LoadOBJ parses a Wavefront OBJ stream into a Mesh. Only v and f
// records are used; faces with more than three vertices are fan
// triangulated. Normals are computed from the geometry by averaging
// face normals per vertex, so files without vn records render correctly.
func LoadOBJ(r io.Reader) (*Mesh, error) {
	var positions []mgl32.Vec3
	var faces [][3]int

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "v":
			if len(fields) < 4 {
				return nil, fmt.Errorf("obj line %d: vertex needs 3 coordinates", lineNo)
			}
			var coords [3]float64
			for i := 0; i < 3; i++ {
				val, err := strconv.ParseFloat(fields[i+1], 32)
				if err != nil {
					return nil, fmt.Errorf("obj line %d: bad vertex coordinate %q: %w", lineNo, fields[i+1], err)
				}
				coords[i] = val
			}
			positions = append(positions, mgl32.Vec3{
				float32(coords[0]), float32(coords[1]), float32(coords[2]),
			})

		case "f":
			if len(fields) < 4 {
				return nil, fmt.Errorf("obj line %d: face needs at least 3 vertices", lineNo)
			}
			idx := make([]int, 0, len(fields)-1)
			for _, ref := range fields[1:] {
				i, err := parseFaceIndex(ref, len(positions))
				if err != nil {
					return nil, fmt.Errorf("obj line %d: %w", lineNo, err)
				}
				idx = append(idx, i)
			}
			// Fan triangulation for quads and larger polygons.
			for i := 1; i < len(idx)-1; i++ {
				faces = append(faces, [3]int{idx[0], idx[i], idx[i+1]})
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading obj: %w", err)
	}
	if len(positions) == 0 || len(faces) == 0 {
		return nil, fmt.Errorf("obj contains no geometry")
	}

	return buildMesh(positions, faces), nil
}

// parseFaceIndex resolves one face vertex reference (forms "i", "i/t",
// "i//n", "i/t/n") to a zero-based position index. OBJ indices are
// 1-based; negative values count back from the end of the vertex list.
func parseFaceIndex(ref string, numVertices int) (int, error) {
	if slash := strings.IndexByte(ref, '/'); slash >= 0 {
		ref = ref[:slash]
	}
	i, err := strconv.Atoi(ref)
	if err != nil {
		return 0, fmt.Errorf("bad face index %q: %w", ref, err)
	}
	switch {
	case i > 0:
		i--
	case i < 0:
		i += numVertices
	default:
		return 0, fmt.Errorf("face index must not be zero")
	}
	if i < 0 || i >= numVertices {
		return 0, fmt.Errorf("face index %q out of range", ref)
	}
	return i, nil
}

// buildMesh assembles indexed geometry with smooth normals averaged
// from the adjoining face normals.
func buildMesh(positions []mgl32.Vec3, faces [][3]int) *Mesh {
	normals := make([]mgl32.Vec3, len(positions))
	for _, f := range faces {
		a, b, c := positions[f[0]], positions[f[1]], positions[f[2]]
		n := b.Sub(a).Cross(c.Sub(a))
		// Weight by face area (unnormalized cross product) so large
		// faces dominate the averaged vertex normal.
		for _, vi := range f {
			normals[vi] = normals[vi].Add(n)
		}
	}

	mesh := &Mesh{
		Vertices: make([]Vertex, len(positions)),
		Indices:  make([]uint32, 0, len(faces)*3),
	}
	for i, p := range positions {
		n := normals[i]
		if n.Len() > 0 {
			n = n.Normalize()
		}
		mesh.Vertices[i] = Vertex{Position: p, Normal: n}
	}
	for _, f := range faces {
		mesh.Indices = append(mesh.Indices, uint32(f[0]), uint32(f[1]), uint32(f[2]))
	}
	return mesh
}
