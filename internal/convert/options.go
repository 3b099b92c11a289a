package convert

import "go.uber.org/zap"

// Options controls what a Converter exports.
type Options struct {
	ExportMeshes      bool
	ExportMaterials   bool
	ExportAttributes  bool
	ExportAnnotations bool
	ExportLights      bool
	ExportCameras     bool
	ExportSplines     bool

	VisibleNodesOnly  bool
	SelectedNodesOnly bool

	// StoreKeyframeSamplePoints records the source key times of animated
	// nodes as linear keyframe hints.
	StoreKeyframeSamplePoints bool

	// ConvertTakesWithoutBones converts animation takes even when the scene
	// has no skeleton. When false only the rig take is produced for such scenes.
	ConvertTakesWithoutBones bool

	// ParallelTakes converts takes concurrently.
	ParallelTakes bool

	// Logger receives conversion warnings. Defaults to the global logger.
	Logger *zap.Logger
}

// DefaultOptions exports everything from every node.
func DefaultOptions() Options {
	return Options{
		ExportMeshes:              true,
		ExportMaterials:           true,
		ExportAttributes:          true,
		ExportAnnotations:         true,
		ExportLights:              true,
		ExportCameras:             true,
		ExportSplines:             true,
		StoreKeyframeSamplePoints: true,
		ConvertTakesWithoutBones:  true,
	}
}
