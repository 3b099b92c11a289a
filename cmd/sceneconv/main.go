// sceneconv converts animated 3D scene documents into runtime scene graphs.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"

	"github.com/davecgh/go-spew/spew"
	"go.uber.org/zap"

	"github.com/Faultbox/sceneconv/internal/config"
	"github.com/Faultbox/sceneconv/internal/convert"
	"github.com/Faultbox/sceneconv/internal/export"
	"github.com/Faultbox/sceneconv/internal/logger"
	"github.com/Faultbox/sceneconv/pkg/scenegraph"
	"github.com/Faultbox/sceneconv/pkg/source"
)

func main() {
	args := os.Args[1:]

	var err error
	switch {
	case len(args) == 0:
		printUsage()
		os.Exit(1)
	case args[0] == "info":
		err = cmdInfo(args[1:])
	case args[0] == "dump":
		err = cmdDump(args[1:])
	case args[0] == "help" || args[0] == "-h" || args[0] == "--help":
		printUsage()
	default:
		err = cmdConvert(args)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`sceneconv - animated scene converter

Usage:
  sceneconv [options] <scene.yaml>   Convert a scene and write every take
  sceneconv info <scene.yaml>        Show a summary of the source scene
  sceneconv dump [-depth N] <scene.yaml>
                                     Dump the converted scene graphs

Options:`)
	config.NewFlags("sceneconv", os.Stdout).Usage()
	fmt.Println(`
Examples:
  sceneconv hero.yaml
  sceneconv -formats hkt,glb -out build hero.yaml
  sceneconv -config sceneconv.toml -parallel hero.yaml`)
}

func cmdConvert(args []string) error {
	flags := config.NewFlags("sceneconv", os.Stderr)
	if err := flags.Parse(args); err != nil {
		return err
	}
	if len(flags.Args()) != 1 {
		return fmt.Errorf("expected one scene file, got %d arguments", len(flags.Args()))
	}
	input := flags.Args()[0]

	cfg, err := config.Load(flags)
	if err != nil {
		return err
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		return err
	}
	defer logger.Sync()

	formats, err := export.ParseFormats(cfg.Output.Formats)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	scenes, err := convertFile(ctx, input, cfg.Convert.Options())
	if err != nil {
		return err
	}

	dir := cfg.Output.Dir
	if dir == "" {
		dir = filepath.Dir(input)
	}
	paths, err := export.WriteAll(ctx, scenes, dir, export.BaseName(input), formats, logger.Named("export"))
	if err != nil {
		return err
	}
	for _, p := range paths {
		fmt.Println(p)
	}
	return nil
}

func convertFile(ctx context.Context, path string, opts convert.Options) ([]*scenegraph.Scene, error) {
	src, err := source.Load(path)
	if err != nil {
		return nil, err
	}
	if opts.Logger == nil {
		opts.Logger = logger.Named("convert")
	}
	scenes, err := convert.New(opts).Convert(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("converting %s: %w", path, err)
	}
	logger.Info("converted scene", zap.String("file", path), zap.Int("scenes", len(scenes)))
	return scenes, nil
}

func cmdInfo(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: sceneconv info <scene.yaml>")
	}

	sc, err := source.Load(args[0])
	if err != nil {
		return err
	}

	kinds := make(map[string]int)
	nodes := 0
	var walk func(n *source.Node)
	walk = func(n *source.Node) {
		nodes++
		if n.Attribute != nil {
			kinds[n.Attribute.AttributeType().String()]++
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(sc.Root)

	app := sc.Application
	if app == "" {
		app = "(unknown)"
	}
	fmt.Printf("Scene:       %s\n", args[0])
	fmt.Printf("Application: %s\n", app)
	fmt.Printf("Frame rate:  %g fps\n", sc.FrameRate)
	fmt.Printf("Unit scale:  %g cm\n", sc.UnitScale)
	fmt.Printf("Nodes:       %d\n", nodes)
	fmt.Printf("Materials:   %d\n", len(sc.Materials))
	fmt.Printf("Textures:    %d\n", len(sc.Textures))

	if len(kinds) > 0 {
		fmt.Println()
		fmt.Println("Attributes:")
		names := make([]string, 0, len(kinds))
		for k := range kinds {
			names = append(names, k)
		}
		sort.Strings(names)
		for _, k := range names {
			fmt.Printf("  %-12s %d\n", k, kinds[k])
		}
	}

	if len(sc.Takes) > 0 {
		fmt.Println()
		fmt.Println("Takes:")
		for _, t := range sc.Takes {
			fmt.Printf("  %-20s %6.2fs %5d frames\n", t.Name, t.Span.Duration().Seconds(), t.Span.FrameCount(sc.FrameRate))
		}
	}
	return nil
}

func cmdDump(args []string) error {
	fs := flag.NewFlagSet("dump", flag.ContinueOnError)
	depth := fs.Int("depth", 6, "Maximum nesting depth (0 = unlimited)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("usage: sceneconv dump [-depth N] <scene.yaml>")
	}

	scenes, err := convertFile(context.Background(), fs.Arg(0), convert.DefaultOptions())
	if err != nil {
		return err
	}

	cs := spew.ConfigState{
		Indent:                  "  ",
		MaxDepth:                *depth,
		DisablePointerAddresses: true,
		DisableCapacities:       true,
		SortKeys:                true,
	}
	for i, sc := range scenes {
		fmt.Printf("--- scene %d: %s\n", i, export.OutputName(export.BaseName(fs.Arg(0)), i, sc))
		cs.Fdump(os.Stdout, sc)
	}
	return nil
}
