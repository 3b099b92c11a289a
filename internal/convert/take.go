package convert

import (
	"github.com/Faultbox/sceneconv/pkg/scenegraph"
	"github.com/Faultbox/sceneconv/pkg/source"
)

// takeContext carries the state of one take conversion.
type takeContext struct {
	src   *source.Scene
	scene *scenegraph.Scene

	name string
	rig  bool

	// layers drive node transforms; attrLayers drive attribute sampling.
	// The rig evaluates transforms on the first take but samples
	// attributes without animation.
	layers     []*source.Layer
	attrLayers []*source.Layer

	start      source.Time
	stop       source.Time
	frameTicks source.Time

	// materials holds the converted form of each source material in this take.
	materials       map[*source.Material]*scenegraph.Material
	defaultMaterial *scenegraph.Material
}

func (c *Converter) takeContexts(src *source.Scene) []*takeContext {
	rig := &takeContext{
		src:  src,
		name: RigRootName,
		rig:  true,
		scene: &scenegraph.Scene{
			Modeller:  modeller(src),
			Asset:     src.OriginalFileName,
			NumFrames: 1,
		},
		materials: make(map[*source.Material]*scenegraph.Material),
	}
	if len(src.Takes) > 0 {
		rig.layers = src.Takes[0].Layers
	}
	out := []*takeContext{rig}

	if !c.opts.ConvertTakesWithoutBones && !src.HasSkeleton() {
		if len(src.Takes) > 0 {
			c.log.Info("scene has no skeleton, skipping animation takes")
		}
		return out
	}

	for _, t := range src.Takes {
		frames := t.Span.FrameCount(src.FrameRate)
		if frames < 1 {
			frames = 1
		}
		out = append(out, &takeContext{
			src:        src,
			name:       t.Name,
			layers:     t.Layers,
			attrLayers: t.Layers,
			start:      t.Span.Start,
			stop:       t.Span.Stop,
			frameTicks: source.FrameDuration(src.FrameRate),
			scene: &scenegraph.Scene{
				Modeller:    modeller(src),
				Asset:       src.OriginalFileName,
				SceneLength: float32(t.Span.Duration().Seconds()),
				NumFrames:   frames,
			},
			materials: make(map[*source.Material]*scenegraph.Material),
		})
	}
	return out
}

// sampleTime returns the source time of frame i.
func (tc *takeContext) sampleTime(i int) source.Time {
	return tc.start + source.Time(i)*tc.frameTicks
}

// relativeSeconds returns t in seconds from the take start.
func (tc *takeContext) relativeSeconds(t source.Time) float32 {
	return float32((t - tc.start).Seconds())
}
