// Package naming builds the deterministic output path for compressed files.
package naming

import (
	"path/filepath"
	"strings"
)

// OutputPath returns the canonical artifact path for an input file:
//
//	<dir>/<basename-without-ext>_compressed.<format>
//
// dir is outputDir when given, otherwise the input file's directory. The
// path is stable across search iterations; every attempt overwrites it.
func OutputPath(inputPath, outputDir, format string) string {
	dir := outputDir
	if dir == "" {
		dir = filepath.Dir(inputPath)
	}
	base := filepath.Base(inputPath)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(dir, name+"_compressed."+format)
}
