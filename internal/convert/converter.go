// Package convert turns a source scene into one scene graph per animation
// take, plus a rig scene holding the reference pose.
package convert

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Faultbox/sceneconv/internal/logger"
	"github.com/Faultbox/sceneconv/pkg/math"
	"github.com/Faultbox/sceneconv/pkg/scenegraph"
	"github.com/Faultbox/sceneconv/pkg/source"
)

// RigRootName names the root node of the rig scene.
const RigRootName = "ROOT_NODE"

// ErrMissingRoot is returned for a source scene without a root node.
var ErrMissingRoot = errors.New("source scene has no root node")

// Converter converts source scenes. Textures are deduplicated across every
// take of a scene; call Reset before reusing a Converter for another scene.
type Converter struct {
	opts     Options
	log      *zap.Logger
	textures *TextureCache
}

// New returns a Converter using opts.
func New(opts Options) *Converter {
	log := opts.Logger
	if log == nil {
		log = logger.Named("convert")
	}
	return &Converter{
		opts:     opts,
		log:      log,
		textures: NewTextureCache(),
	}
}

// Textures returns the texture cache shared by every take.
func (c *Converter) Textures() *TextureCache {
	return c.textures
}

// Reset forgets every converted texture.
func (c *Converter) Reset() {
	c.textures.Reset()
}

// Convert returns the rig scene followed by one scene per take.
func (c *Converter) Convert(ctx context.Context, src *source.Scene) ([]*scenegraph.Scene, error) {
	if src == nil || src.Root == nil {
		return nil, ErrMissingRoot
	}

	takes := c.takeContexts(src)
	scenes := make([]*scenegraph.Scene, len(takes))

	if !c.opts.ParallelTakes {
		for i, tc := range takes {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			scenes[i] = c.convertTake(tc)
		}
		return scenes, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	for i, tc := range takes {
		i, tc := i, tc
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			scenes[i] = c.convertTake(tc)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("converting takes: %w", err)
	}
	return scenes, nil
}

func (c *Converter) convertTake(tc *takeContext) *scenegraph.Scene {
	root := &scenegraph.Node{Name: tc.name}
	keys := 1
	if tc.scene.NumFrames > 1 {
		keys = 2
	}
	for i := 0; i < keys; i++ {
		root.Keyframes = append(root.Keyframes, math.Identity())
	}
	tc.scene.RootNode = root

	for _, child := range tc.src.Root.Children {
		c.convertNode(tc, child, root)
	}

	c.log.Info("converted take",
		zap.String("take", tc.name),
		zap.Int("frames", tc.scene.NumFrames),
		zap.Float32("length", tc.scene.SceneLength),
		zap.Int("meshes", len(tc.scene.Meshes)),
		zap.Int("textures", len(tc.scene.ExternalTextures)))
	return tc.scene
}

func modeller(src *source.Scene) string {
	if src.Application == "" {
		return "FBX"
	}
	return "FBX [" + src.Application + "]"
}
