package convert

import (
	"strings"

	"github.com/Faultbox/sceneconv/pkg/scenegraph"
	"github.com/Faultbox/sceneconv/pkg/source"
)

// userPropertyMarker prefixes the legacy user property string.
const userPropertyMarker = "vision"

func (c *Converter) convertNode(tc *takeContext, n *source.Node, parent *scenegraph.Node) {
	if c.opts.VisibleNodesOnly && !n.Visible {
		return
	}
	if c.opts.SelectedNodesOnly && !n.Selected {
		return
	}

	out := &scenegraph.Node{Name: n.Name, Selected: n.Selected}
	parent.AddChild(out)

	switch a := n.Attribute.(type) {
	case *source.Mesh:
		if c.opts.ExportMeshes {
			c.addMesh(tc, n, a, out)
		}
	case *source.NurbsCurve:
		if c.opts.ExportSplines {
			s := convertSpline(a)
			tc.scene.Splines = append(tc.scene.Splines, s)
			out.Object = s
		}
	case *source.Camera:
		if c.opts.ExportCameras {
			cam := convertCamera(a)
			tc.scene.Cameras = append(tc.scene.Cameras, cam)
			out.Object = cam
		}
	case *source.Light:
		if c.opts.ExportLights {
			if l, ok := c.convertLight(tc, n, a); ok {
				tc.scene.Lights = append(tc.scene.Lights, l)
				out.Object = l
			}
		}
	case *source.Skeleton:
		out.Bone = true
	}

	c.resample(tc, n, out)

	if c.opts.ExportAttributes {
		out.AttributeGroups = c.sampleAttributes(tc, n.Properties, n.Name)
	}
	out.UserProperties = userProperties(n)

	for _, child := range n.Children {
		c.convertNode(tc, child, out)
	}
}

// userProperties returns the first string property value carrying the
// legacy marker, or "".
func userProperties(n *source.Node) string {
	for _, p := range n.Properties {
		if p.Type != source.PropertyString {
			continue
		}
		if strings.HasPrefix(strings.ToLower(p.String), userPropertyMarker) {
			return p.String
		}
	}
	return ""
}
