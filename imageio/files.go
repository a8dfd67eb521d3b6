package imageio

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/cwbudde/algo-corepoint/patch"
)

var supportedExt = map[string]bool{
	".bmp":  true,
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".tif":  true,
	".tiff": true,
}

// Supported reports whether name has an image extension the loader reads.
func Supported(name string) bool {
	return supportedExt[strings.ToLower(filepath.Ext(name))]
}

// ScanDirectory lists the supported image files under dir in lexical order.
// Subdirectories are descended only when recursive is set.
func ScanDirectory(dir string, recursive bool) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("scan %s: not a directory", dir)
	}

	var files []string
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && !recursive {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Type().IsRegular() && Supported(d.Name()) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", dir, err)
	}

	sort.Strings(files)
	return files, nil
}

// PatchName returns the output file name for p: the stem of its source
// filename with a "_core.png" suffix, or "patch_<index>_core.png" when the
// patch has no filename.
func PatchName(p *patch.Patch) string {
	stem := strings.TrimSuffix(filepath.Base(p.Filename), filepath.Ext(p.Filename))
	if p.Filename == "" || stem == "" || stem == "." {
		stem = fmt.Sprintf("patch_%d", p.Index)
	}
	return stem + "_core.png"
}

// PatchPath returns the output path of p relative to the output directory.
// When p.Filename lies under root, its directory relative to root is kept, so
// equal base names from different subdirectories do not collide.
func PatchPath(p *patch.Patch, root string) string {
	name := PatchName(p)
	if root == "" || p.Filename == "" {
		return name
	}
	rel, err := filepath.Rel(root, filepath.Dir(p.Filename))
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return name
	}
	return filepath.Join(rel, name)
}

// SavePatch writes p as a PNG under dir at PatchPath(p, root), creating
// directories as needed, and returns the written path.
func SavePatch(p *patch.Patch, root, dir string) (string, error) {
	path := filepath.Join(dir, PatchPath(p, root))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	if err := imaging.Save(p.Gray(), path); err != nil {
		return "", fmt.Errorf("save patch: %w", err)
	}
	return path, nil
}
