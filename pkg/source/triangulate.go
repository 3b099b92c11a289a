package source

// Triangulate returns a copy of m in which every polygon has been split into
// a triangle fan. Polygons with fewer than three vertices are dropped.
// Elements mapped by polygon vertex or by polygon are remapped to the new
// corners. The receiver is not modified and is returned as is when it is
// already a triangle mesh.
func (m *Mesh) Triangulate() *Mesh {
	if m.IsTriangleMesh() {
		return m
	}

	// corner[i] is the old polygon vertex of new polygon vertex i;
	// owner[j] is the old polygon of new triangle j.
	var corner, owner []int
	out := &Mesh{
		Name:          m.Name,
		ControlPoints: m.ControlPoints,
		Skins:         m.Skins,
	}

	pv := 0
	for p, poly := range m.Polygons {
		for j := 1; j+1 < len(poly); j++ {
			out.Polygons = append(out.Polygons, []int{poly[0], poly[j], poly[j+1]})
			corner = append(corner, pv, pv+j, pv+j+1)
			owner = append(owner, p)
		}
		pv += len(poly)
	}

	out.Normals = remapElement(m.Normals, corner, owner)
	out.Colors = remapElement(m.Colors, corner, owner)
	for _, uv := range m.UVSets {
		out.UVSets = append(out.UVSets, remapElement(uv, corner, owner))
	}
	return out
}

func remapElement(e *LayerElement, corner, owner []int) *LayerElement {
	if e == nil {
		return nil
	}

	var src []int
	switch e.Mapping {
	case MappingByPolygonVertex:
		src = corner
	case MappingByPolygon:
		src = owner
	default:
		return e
	}

	r := &LayerElement{Name: e.Name, Mapping: e.Mapping, Reference: e.Reference}
	switch e.Reference {
	case ReferenceIndexToDirect:
		r.Direct = e.Direct
		r.Index = make([]int, len(src))
		for i, old := range src {
			if old < len(e.Index) {
				r.Index[i] = e.Index[old]
			} else {
				r.Index[i] = -1
			}
		}
	default:
		r.Direct = make([][4]float64, len(src))
		for i, old := range src {
			if old < len(e.Direct) {
				r.Direct[i] = e.Direct[old]
			}
		}
	}
	return r
}
