// rsbstats scans directories for RSB textures, decodes every file and prints
// per-file summaries plus aggregate histograms of the formats in use.
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
	"go.uber.org/zap"

	"github.com/Faultbox/sherman/internal/config"
	"github.com/Faultbox/sherman/internal/logger"
	"github.com/Faultbox/sherman/pkg/formats"
)

// versionKey identifies a (version, palette selector) pair. selector is -1
// for files without a palette field.
type versionKey struct {
	version  uint32
	selector int64
}

// layoutKey is the per-channel bit widths of a file's bitmask.
type layoutKey struct {
	r, g, b, a uint32
}

// stats aggregates scan results across workers.
type stats struct {
	mu       sync.Mutex
	total    int
	failed   int
	bytes    int64
	versions map[versionKey]int
	depths   map[uint32]int
	layouts  map[layoutKey]int
}

func newStats() *stats {
	return &stats{
		versions: make(map[versionKey]int),
		depths:   make(map[uint32]int),
		layouts:  make(map[layoutKey]int),
	}
}

func (s *stats) record(rsb *formats.Rsb, size int64) {
	key := versionKey{version: rsb.Version, selector: -1}
	if rsb.Palette != nil {
		key.selector = int64(*rsb.Palette)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.total++
	s.bytes += size
	s.versions[key]++
	s.depths[rsb.BitMask.Bits()]++
	s.layouts[layoutKey{rsb.BitMask.R, rsb.BitMask.G, rsb.BitMask.B, rsb.BitMask.A}]++
}

func (s *stats) recordFailure() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failed++
}

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	dirs := flag.Args()
	if len(dirs) == 0 {
		dirs = cfg.Data.TextureDirs
	}

	files := findRSBFiles(dirs)
	if len(files) == 0 {
		logger.Warn("no RSB files found", zap.Strings("dirs", dirs))
		return
	}

	agg := newStats()
	var printMu sync.Mutex

	start := time.Now()
	swg := sizedwaitgroup.New(cfg.Stats.Workers)
	for _, path := range files {
		swg.Add()
		go func(path string) {
			defer swg.Done()
			scanFile(path, agg, &printMu)
		}(path)
	}
	swg.Wait()
	elapsed := time.Since(start)

	printReport(agg, elapsed)
}

// findRSBFiles walks the given directories and collects files with a .rsb
// extension, matched case-insensitively.
func findRSBFiles(dirs []string) []string {
	var files []string
	for _, dir := range dirs {
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			if strings.EqualFold(filepath.Ext(path), ".rsb") {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			logger.Warn("walk failed", zap.String("dir", dir), zap.Error(err))
		}
	}
	sort.Strings(files)
	return files
}

func scanFile(path string, agg *stats, printMu *sync.Mutex) {
	info, err := os.Stat(path)
	if err != nil {
		logger.Error("stat failed", zap.String("path", path), zap.Error(err))
		agg.recordFailure()
		return
	}

	rsb, err := formats.ParseRSBFile(path)
	if err != nil {
		logger.Error("decode failed", zap.String("path", path), zap.Error(err))
		agg.recordFailure()
		return
	}

	agg.record(rsb, info.Size())

	printMu.Lock()
	defer printMu.Unlock()
	printSummary(path, rsb)
}

func printSummary(path string, rsb *formats.Rsb) {
	fmt.Println(path)
	if rsb.Palette != nil {
		fmt.Printf("  version = %d ; palette = %d\n", rsb.Version, *rsb.Palette)
	} else {
		fmt.Printf("  version = %d ; palette = nil\n", rsb.Version)
	}
	if len(rsb.PaletteColors) > 0 {
		fmt.Printf("  palette colors: %d\n", len(rsb.PaletteColors))
	}
	fmt.Printf("  height, width: (%d, %d)\n", rsb.Height, rsb.Width)
	fmt.Printf("  bitmask: %+v\n", rsb.BitMask)
	fmt.Printf("  pixels: %d\n", len(rsb.Pixels))
	if rsb.MaskedPixels != nil {
		fmt.Printf("  masked: %d\n", len(rsb.MaskedPixels))
	}

	bits := rsb.BitMask.Bits()
	if bits == 32 {
		fmt.Printf("  32-bit, is ARGB: %v\n", rsb.BitMask.IsARGB())
	} else {
		fmt.Printf("  bits: %d\n", bits)
	}
}

func printReport(agg *stats, elapsed time.Duration) {
	fmt.Println(strings.Repeat("-", 50))
	fmt.Printf("Read %d RSB files in %v (%d bytes)\n", agg.total, elapsed, agg.bytes)
	if agg.failed > 0 {
		fmt.Printf("Failed to decode %d files\n", agg.failed)
	}
	fmt.Println()

	versionKeys := make([]versionKey, 0, len(agg.versions))
	for k := range agg.versions {
		versionKeys = append(versionKeys, k)
	}
	sort.Slice(versionKeys, func(i, j int) bool {
		if versionKeys[i].version != versionKeys[j].version {
			return versionKeys[i].version < versionKeys[j].version
		}
		return versionKeys[i].selector < versionKeys[j].selector
	})
	for _, k := range versionKeys {
		selector := "nil"
		if k.selector >= 0 {
			selector = fmt.Sprintf("%d", k.selector)
		}
		fmt.Printf("version=%d, palette=%-5s: %5d files\n", k.version, selector, agg.versions[k])
	}

	depths := make([]uint32, 0, len(agg.depths))
	for d := range agg.depths {
		depths = append(depths, d)
	}
	sort.Slice(depths, func(i, j int) bool { return depths[i] < depths[j] })
	for _, d := range depths {
		fmt.Printf("bits=%-19d: %5d files\n", d, agg.depths[d])
	}

	layouts := make([]layoutKey, 0, len(agg.layouts))
	for l := range agg.layouts {
		layouts = append(layouts, l)
	}
	sort.Slice(layouts, func(i, j int) bool {
		a, b := layouts[i], layouts[j]
		if a.r != b.r {
			return a.r < b.r
		}
		if a.g != b.g {
			return a.g < b.g
		}
		if a.b != b.b {
			return a.b < b.b
		}
		return a.a < b.a
	})
	for _, l := range layouts {
		fmt.Printf("RGBA %d/%d/%d/%d : %5d files\n", l.r, l.g, l.b, l.a, agg.layouts[l])
	}
}
