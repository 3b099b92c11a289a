package config

import (
	"flag"
	"io"
	"strings"
)

// Flags are the command-line overrides of a Config.
type Flags struct {
	fs *flag.FlagSet

	config   string
	debug    bool
	out      string
	formats  string
	logFile  string
	parallel bool
	noMeshes bool
	visible  bool
	selected bool
}

// NewFlags registers the converter flags on a new FlagSet named name.
// Usage and parse errors are written to output.
func NewFlags(name string, output io.Writer) *Flags {
	f := &Flags{fs: flag.NewFlagSet(name, flag.ContinueOnError)}
	f.fs.SetOutput(output)
	f.fs.StringVar(&f.config, "config", "", "Path to config file")
	f.fs.BoolVar(&f.debug, "debug", false, "Enable debug logging")
	f.fs.StringVar(&f.out, "out", "", "Output directory")
	f.fs.StringVar(&f.formats, "formats", "", "Comma separated output formats (hkt, glb, fbx)")
	f.fs.StringVar(&f.logFile, "log-file", "", "Also write logs to this file")
	f.fs.BoolVar(&f.parallel, "parallel", false, "Convert takes concurrently")
	f.fs.BoolVar(&f.noMeshes, "no-meshes", false, "Skip mesh export")
	f.fs.BoolVar(&f.visible, "visible-only", false, "Only export visible nodes")
	f.fs.BoolVar(&f.selected, "selected-only", false, "Only export selected nodes")
	return f
}

// Parse parses args, which should not include the program name.
func (f *Flags) Parse(args []string) error {
	return f.fs.Parse(args)
}

// Args returns the arguments left after the flags.
func (f *Flags) Args() []string {
	return f.fs.Args()
}

// Usage prints the flag defaults.
func (f *Flags) Usage() {
	f.fs.PrintDefaults()
}

// ConfigPath returns the explicit config path if provided via -config.
func (f *Flags) ConfigPath() string {
	return f.config
}

// apply copies the flags that were set on the command line onto cfg.
func (f *Flags) apply(cfg *Config) {
	f.fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "debug":
			if f.debug {
				cfg.Logging.Level = "debug"
			}
		case "out":
			cfg.Output.Dir = f.out
		case "formats":
			cfg.Output.Formats = splitList(f.formats)
		case "log-file":
			cfg.Logging.LogFile = f.logFile
		case "parallel":
			cfg.Convert.ParallelTakes = f.parallel
		case "no-meshes":
			cfg.Convert.Meshes = !f.noMeshes
		case "visible-only":
			cfg.Convert.VisibleNodesOnly = f.visible
		case "selected-only":
			cfg.Convert.SelectedNodesOnly = f.selected
		}
	})
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
