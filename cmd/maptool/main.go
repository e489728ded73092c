// maptool is a CLI utility for inspecting Rogue Spear MAP files.
package main

import (
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/remeh/sizedwaitgroup"

	"github.com/Faultbox/sherman/pkg/formats"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "info":
		cmdInfo(args)
	case "materials", "mats":
		cmdMaterials(args)
	case "rooms":
		cmdRooms(args)
	case "scan":
		cmdScan(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`maptool - Rogue Spear MAP file utility

Usage:
  maptool <command> [options]

Commands:
  info <file.map>          Show map summary
  materials <file.map>     List materials and their textures
  rooms <file.map>         List rooms and their levels
  scan <dir> [dir...]      Decode every MAP file under the directories

Examples:
  maptool info data/map/m01/m01.map
  maptool materials data/map/m01/m01.map
  maptool scan data/map`)
}

func parseMapArg(args []string, usage string) *formats.Map {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(1)
	}

	m, err := formats.ParseMAPFile(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return m
}

func cmdInfo(args []string) {
	m := parseMapArg(args, "Usage: maptool info <file.map>")

	created := time.Unix(int64(m.Header.Timestamp), 0).UTC()

	fmt.Printf("Map:             %s\n", args[0])
	fmt.Printf("Created:         %s\n", created.Format("2006-01-02 15:04:05 MST"))
	fmt.Printf("Materials:       %d\n", len(m.Materials.Materials))
	fmt.Printf("Geometry objects:%d\n", len(m.Geometries.Objects))
	fmt.Printf("Portals:         %d\n", len(m.Portals.Portals))
	fmt.Printf("Lights:          %d\n", m.Lights.LightCount)
	fmt.Printf("Dynamic objects: %d\n", len(m.DynamicObjects.Objects))
	fmt.Printf("Rooms:           %d\n", len(m.Rooms.Rooms))
	fmt.Printf("Transitions:     %d\n", len(m.Transitions.Transitions))
	fmt.Printf("Planning levels: %d\n", len(m.PlanningLevels.Levels))

	if len(m.DynamicObjects.Objects) > 0 {
		kinds := make(map[formats.DynamicObjectKind]int)
		for _, obj := range m.DynamicObjects.Objects {
			kinds[obj.Kind]++
		}

		fmt.Println()
		fmt.Println("Dynamic objects by kind:")
		keys := make([]formats.DynamicObjectKind, 0, len(kinds))
		for k := range kinds {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
		for _, k := range keys {
			fmt.Printf("  %-22s %d\n", k, kinds[k])
		}
	}
}

func cmdMaterials(args []string) {
	m := parseMapArg(args, "Usage: maptool materials <file.map>")

	for _, mat := range m.Materials.Materials {
		fmt.Printf("%-24s %-24s opacity=%.2f mode=%s", mat.Name, mat.Filename, mat.Opacity, mat.AddressMode)
		if mat.TwoSided {
			fmt.Print(" two-sided")
		}
		fmt.Println()
	}
	fmt.Fprintf(os.Stderr, "\n(%d materials)\n", len(m.Materials.Materials))
}

func cmdRooms(args []string) {
	m := parseMapArg(args, "Usage: maptool rooms <file.map>")

	for _, room := range m.Rooms.Rooms {
		fmt.Printf("%s\n", room.Name)
		for _, level := range room.Levels {
			fmt.Printf("  level %-16s transforms=%d\n", level.Name, len(level.Transforms))
		}
		if len(room.Heights) > 0 {
			heights := make([]string, 0, len(room.Heights))
			for _, h := range room.Heights {
				heights = append(heights, fmt.Sprintf("%.2f", h.Height))
			}
			fmt.Printf("  heights: %s\n", strings.Join(heights, ", "))
		}
	}
	fmt.Fprintf(os.Stderr, "\n(%d rooms)\n", len(m.Rooms.Rooms))
}

func cmdScan(args []string) {
	fset := flag.NewFlagSet("scan", flag.ExitOnError)
	workers := fset.Int("workers", 8, "Concurrent decode workers")
	fset.Parse(args)

	if fset.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: maptool scan <dir> [dir...]")
		os.Exit(1)
	}

	var files []string
	for _, dir := range fset.Args() {
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".map") {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error walking %s: %v\n", dir, err)
		}
	}
	sort.Strings(files)

	var mu sync.Mutex
	decoded := 0
	var failures []string

	start := time.Now()
	swg := sizedwaitgroup.New(*workers)
	for _, path := range files {
		swg.Add()
		go func(path string) {
			defer swg.Done()

			_, err := formats.ParseMAPFile(path)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failures = append(failures, fmt.Sprintf("%s: %v", path, err))
				return
			}
			decoded++
			fmt.Printf("ok  %s\n", path)
		}(path)
	}
	swg.Wait()

	fmt.Fprintf(os.Stderr, "\nDecoded %d of %d maps in %v\n", decoded, len(files), time.Since(start))
	for _, f := range failures {
		fmt.Fprintf(os.Stderr, "fail %s\n", f)
	}
	if len(failures) > 0 {
		os.Exit(1)
	}
}
