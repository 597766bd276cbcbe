package batch

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"mockupkit/imageio"
)

// Collect lists the supported image files under dir, sorted by path.
// With recursive set, subdirectories are walked too. A missing
// directory yields an empty list, matching the forgiving behavior batch
// callers expect.
func Collect(dir string, recursive bool) []string {
	var files []string
	if recursive {
		filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil
			}
			if !d.IsDir() && imageio.IsSupported(path) {
				files = append(files, path)
			}
			return nil
		})
	} else {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil
		}
		for _, e := range entries {
			if !e.IsDir() && imageio.IsSupported(e.Name()) {
				files = append(files, filepath.Join(dir, e.Name()))
			}
		}
	}
	sort.Strings(files)
	return files
}

// OutputPath builds the output file name for an input: the input's stem
// plus the target size, always PNG so transparency survives.
func OutputPath(outputDir, inputPath string, size int) string {
	stem := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	return filepath.Join(outputDir, fmt.Sprintf("%s_%d.png", stem, size))
}

// LayerOutputPath builds the output file name for one decomposed layer.
// The layer's group path keeps its segments but uses "__" between them
// so the whole name stays a single file-name component.
func LayerOutputPath(outputDir, inputPath, layerName string, size int) string {
	stem := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	flat := strings.ReplaceAll(layerName, "/", "__")
	return filepath.Join(outputDir, fmt.Sprintf("%s__%s_%d.png", stem, flat, size))
}

// uniqueName resolves collisions between sanitized sibling layer names
// by suffixing "_2", "_3", ... in encounter order. The decomposer
// leaves this policy to its caller.
func uniqueName(used map[string]int, name string) string {
	used[name]++
	if n := used[name]; n > 1 {
		return fmt.Sprintf("%s_%d", name, n)
	}
	return name
}
