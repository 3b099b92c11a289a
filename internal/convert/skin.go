package convert

import (
	stdmath "math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Faultbox/sceneconv/pkg/scenegraph"
	"github.com/Faultbox/sceneconv/pkg/source"
)

// maxInfluences is the number of joints that can move one vertex.
const maxInfluences = 4

// maxBlendClusters is the number of clusters a byte blend index can address.
const maxBlendClusters = 256

// influence is the joint table of one control point. Unused slots are
// cluster 0 with weight 0.
type influence struct {
	clusters [maxInfluences]int
	weights  [maxInfluences]float64
	used     int
}

func (in *influence) has(cluster int) bool {
	for i := 0; i < in.used; i++ {
		if in.clusters[i] == cluster {
			return true
		}
	}
	return false
}

// buildInfluences keeps the first four distinct clusters touching each
// control point, in cluster order.
func buildInfluences(skin *source.Skin, numPoints int) []influence {
	table := make([]influence, numPoints)
	for ci, cl := range skin.Clusters {
		for k, cp := range cl.Indices {
			if cp < 0 || cp >= numPoints || k >= len(cl.Weights) {
				continue
			}
			in := &table[cp]
			if in.used == maxInfluences || in.has(ci) {
				continue
			}
			in.clusters[in.used] = ci
			in.weights[in.used] = cl.Weights[k]
			in.used++
		}
	}
	return table
}

type packedInfluence struct {
	indices uint32
	weights uint32
}

func packInfluences(table []influence) []packedInfluence {
	out := make([]packedInfluence, len(table))
	for i, in := range table {
		var idx [maxInfluences]uint8
		for k, c := range in.clusters {
			idx[k] = uint8(c)
		}
		out[i] = packedInfluence{
			indices: packBytes(idx),
			weights: packBytes(quantizeWeights(in.weights, in.used)),
		}
	}
	return out
}

// packBytes packs four bytes most significant first.
func packBytes(b [4]uint8) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}

// quantizeWeights normalizes w and rounds it to bytes summing to exactly
// 255 using largest remainders. Negative weights count as zero. When the
// first used slots carry no weight at all, 255 is split evenly across them
// with the remainder on the earliest ones. Without used slots the result
// stays zero.
func quantizeWeights(w [maxInfluences]float64, used int) [maxInfluences]uint8 {
	var out [maxInfluences]uint8
	if used <= 0 {
		return out
	}
	used = min(used, maxInfluences)
	sum := 0.0
	for _, x := range w[:used] {
		if x > 0 {
			sum += x
		}
	}
	if sum <= 0 {
		for i := 0; i < used; i++ {
			out[i] = uint8(255 / used)
			if i < 255%used {
				out[i]++
			}
		}
		return out
	}

	var frac [maxInfluences]float64
	total := 0
	for i, x := range w[:used] {
		if x <= 0 {
			continue
		}
		scaled := x / sum * 255
		fl := stdmath.Floor(scaled)
		out[i] = uint8(fl)
		frac[i] = scaled - fl
		total += int(fl)
	}

	order := make([]int, used)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return frac[order[a]] > frac[order[b]] })
	for k := 0; total < 255; k++ {
		out[order[k%used]]++
		total++
	}
	return out
}

// skinBinding records the joints of skin and their bind transforms.
func skinBinding(pose *source.Pose, n *source.Node, skin *source.Skin, mesh *scenegraph.Mesh) *scenegraph.SkinBinding {
	b := &scenegraph.SkinBinding{
		Name:              n.Name,
		Mesh:              mesh,
		InitSkinTransform: toMat4(bindTransform(pose, n)),
	}
	for _, cl := range skin.Clusters {
		name := ""
		if cl.Link != nil {
			name = cl.Link.Name
		}
		b.NodeNames = append(b.NodeNames, name)
		b.BindPose = append(b.BindPose, toMat4(bindTransform(pose, cl.Link)))
	}
	return b
}

// bindTransform returns the world transform of n in pose. Entries marked
// local are composed with the parent's bind transform; nodes missing from
// the pose use their unanimated global transform.
func bindTransform(pose *source.Pose, n *source.Node) mgl64.Mat4 {
	if n == nil {
		return mgl64.Ident4()
	}
	e, ok := pose.Find(n)
	if !ok {
		return n.GlobalTransform(nil, 0)
	}
	if !e.Local {
		return e.Matrix
	}
	parent := mgl64.Ident4()
	if n.Parent != nil {
		parent = bindTransform(pose, n.Parent)
	}
	return parent.Mul4(e.Matrix)
}
