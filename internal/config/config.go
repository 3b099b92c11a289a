// Package config handles converter configuration loading and management.
package config

import (
	"github.com/Faultbox/sceneconv/internal/convert"
)

// Config holds all converter settings.
type Config struct {
	Convert ConvertConfig `yaml:"convert" toml:"convert"`
	Output  OutputConfig  `yaml:"output" toml:"output"`
	Logging LoggingConfig `yaml:"logging" toml:"logging"`
}

// ConvertConfig selects what is carried from the source scene.
type ConvertConfig struct {
	Meshes      bool `yaml:"meshes" toml:"meshes"`
	Materials   bool `yaml:"materials" toml:"materials"`
	Attributes  bool `yaml:"attributes" toml:"attributes"`
	Annotations bool `yaml:"annotations" toml:"annotations"`
	Lights      bool `yaml:"lights" toml:"lights"`
	Cameras     bool `yaml:"cameras" toml:"cameras"`
	Splines     bool `yaml:"splines" toml:"splines"`

	VisibleNodesOnly  bool `yaml:"visible_nodes_only" toml:"visible_nodes_only"`
	SelectedNodesOnly bool `yaml:"selected_nodes_only" toml:"selected_nodes_only"`

	StoreKeyframeSamplePoints bool `yaml:"store_keyframe_sample_points" toml:"store_keyframe_sample_points"`
	TakesWithoutBones         bool `yaml:"takes_without_bones" toml:"takes_without_bones"`
	ParallelTakes             bool `yaml:"parallel_takes" toml:"parallel_takes"`
}

// OutputConfig holds where and how converted scenes are written.
type OutputConfig struct {
	Dir     string   `yaml:"dir" toml:"dir"`         // empty means next to the input
	Formats []string `yaml:"formats" toml:"formats"` // hkt, glb, fbx
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level" toml:"level"`
	LogFile string `yaml:"log_file" toml:"log_file"`
}

// Default returns a Config that exports everything as a tag file.
func Default() *Config {
	return &Config{
		Convert: ConvertConfig{
			Meshes:                    true,
			Materials:                 true,
			Attributes:                true,
			Annotations:               true,
			Lights:                    true,
			Cameras:                   true,
			Splines:                   true,
			StoreKeyframeSamplePoints: true,
			TakesWithoutBones:         true,
		},
		Output: OutputConfig{
			Formats: []string{"hkt"},
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Options maps the convert section onto converter options.
func (c ConvertConfig) Options() convert.Options {
	return convert.Options{
		ExportMeshes:              c.Meshes,
		ExportMaterials:           c.Materials,
		ExportAttributes:          c.Attributes,
		ExportAnnotations:         c.Annotations,
		ExportLights:              c.Lights,
		ExportCameras:             c.Cameras,
		ExportSplines:             c.Splines,
		VisibleNodesOnly:          c.VisibleNodesOnly,
		SelectedNodesOnly:         c.SelectedNodesOnly,
		StoreKeyframeSamplePoints: c.StoreKeyframeSamplePoints,
		ConvertTakesWithoutBones:  c.TakesWithoutBones,
		ParallelTakes:             c.ParallelTakes,
	}
}
