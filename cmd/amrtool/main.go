// amrtool is a CLI utility for inspecting AMR patterns and ocean tile archives.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/Faultbox/ocean-amr/internal/config"
	"github.com/Faultbox/ocean-amr/internal/engine/amr"
	"github.com/Faultbox/ocean-amr/internal/engine/ocean"
	"github.com/Faultbox/ocean-amr/pkg/math"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "pattern", "p":
		cmdPattern(args)
	case "tiles", "build":
		cmdTiles(args)
	case "inspect", "info":
		cmdInspect(args)
	case "config":
		cmdConfig(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`amrtool - AMR ocean surface utility

Usage:
  amrtool <command> [options]

Commands:
  pattern [-rows N] [-v]             Show barycentric pattern statistics
  tiles [-config file] [-o out.amr]  Tessellate the configured ocean extent
  inspect <file.amr>                 Show tile archive information
  config [-o file]                   Print or write the default configuration

Examples:
  amrtool pattern -rows 4 -v
  amrtool tiles -config ocean-amr.yaml -o north-sea.amr
  amrtool inspect north-sea.amr
  amrtool config -o ocean-amr.yaml`)
}

func cmdPattern(args []string) {
	fs := flag.NewFlagSet("pattern", flag.ExitOnError)
	rows := fs.Int("rows", amr.DefaultPatchRows, "Pattern rows")
	verbose := fs.Bool("v", false, "List vertices and triangles")
	fs.Parse(args)

	pattern, err := amr.NewPattern(*rows)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Rows:      %d\n", pattern.Rows())
	fmt.Printf("Vertices:  %d\n", pattern.NumVertices())
	fmt.Printf("Indices:   %d\n", pattern.NumElements())
	fmt.Printf("Triangles: %d\n", pattern.NumTriangles())

	if !*verbose {
		return
	}

	fmt.Println("\nVertices (weights -> pattern coord):")
	coords := pattern.TexCoords().Data
	for i, w := range pattern.Weights().Data {
		fmt.Printf("  %4d  (%.4f, %.4f, %.4f) -> (%.4f, %.4f)\n", i, w.X, w.Y, w.Z, coords[i].X, coords[i].Y)
	}

	fmt.Println("\nTriangles:")
	idx := pattern.Elements().Indices
	for i := 0; i+2 < len(idx); i += 3 {
		fmt.Printf("  %4d  %d %d %d\n", i/3, idx[i], idx[i+1], idx[i+2])
	}
}

func cmdTiles(args []string) {
	fs := flag.NewFlagSet("tiles", flag.ExitOnError)
	configPath := fs.String("config", "", "Config file (defaults if empty)")
	output := fs.String("o", "", "Write tiles to archive")
	fs.Parse(args)

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.LoadFrom(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ext := cfg.Ocean.Extent()
	groups := cfg.TileBuilder().BuildGrid(ext, cfg.Ocean.TilesX, cfg.Ocean.TilesY)

	fmt.Printf("Extent:    %s\n", ext)
	printGroups(groups)

	if *output == "" {
		return
	}

	f, err := os.Create(*output)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	if err := ocean.SaveTiles(f, groups); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("\nWrote %d tiles to %s\n", len(groups), *output)
}

func cmdInspect(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: amrtool inspect <file.amr>")
		os.Exit(1)
	}

	f, err := os.Open(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	groups, err := ocean.LoadTiles(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Archive:   %s\n", args[0])
	printGroups(groups)

	fmt.Println("\nTiles:")
	for _, g := range groups {
		localized := 0
		for _, t := range g.Triangles {
			if t.Localized() {
				localized++
			}
		}
		fmt.Printf("  %-40s %6d triangles  %6d localized\n", g.StateSet.Name(), len(g.Triangles), localized)
	}
}

func cmdConfig(args []string) {
	fs := flag.NewFlagSet("config", flag.ExitOnError)
	output := fs.String("o", "", "Write to file instead of stdout")
	fs.Parse(args)

	cfg := config.Default()
	if *output != "" {
		if err := cfg.SaveTo(*output); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %s\n", *output)
		return
	}

	data, err := cfg.Marshal()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	os.Stdout.Write(data)
}

func printGroups(groups []*amr.Drawable) {
	triangles := 0
	bound := math.EmptyBox()
	for _, g := range groups {
		triangles += len(g.Triangles)
		g.Expand(&bound)
	}

	fmt.Printf("Tiles:     %d\n", len(groups))
	fmt.Printf("Triangles: %d\n", triangles)
	if bound.Valid() {
		size := bound.Size()
		fmt.Printf("Bound:     (%.1f, %.1f, %.1f) - (%.1f, %.1f, %.1f)\n",
			bound.Min.X, bound.Min.Y, bound.Min.Z, bound.Max.X, bound.Max.Y, bound.Max.Z)
		fmt.Printf("Size:      %.1f x %.1f x %.1f m\n", size.X, size.Y, size.Z)
	}
}
