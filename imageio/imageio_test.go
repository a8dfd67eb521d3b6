package imageio

import (
	"bytes"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/disintegration/imaging"

	"github.com/cwbudde/algo-corepoint/internal/testutil"
	"github.com/cwbudde/algo-corepoint/patch"
	"github.com/cwbudde/algo-corepoint/singularity"
)

func writePNG(t *testing.T, dir, name string, img image.Image) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := imaging.Save(img, path); err != nil {
		t.Fatalf("save %s: %v", name, err)
	}
	return path
}

func TestLoadGrayRoundTrip(t *testing.T) {
	dir := t.TempDir()
	want := testutil.Noise(64, 48, 5)
	path := writePNG(t, dir, "noise.png", want)

	l, err := NewLoader(4)
	if err != nil {
		t.Fatal(err)
	}
	got, err := l.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	testutil.RequireGrayEqual(t, got, want)
}

func TestLoadCachesAndCopies(t *testing.T) {
	dir := t.TempDir()
	path := writePNG(t, dir, "flat.png", testutil.Flat(20, 20, 90))

	l, err := NewLoader(2)
	if err != nil {
		t.Fatal(err)
	}

	first, err := l.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	first.Pix[0] = 0

	t.Chdir(dir)
	second, err := l.Load("flat.png")
	if err != nil {
		t.Fatal(err)
	}
	if second.Pix[0] != 90 {
		t.Fatalf("cached image was modified through a returned copy: %d", second.Pix[0])
	}

	s := l.CacheStats()
	if s.Entries != 1 || s.Hits != 1 || s.Misses != 1 || s.HitRatio != 0.5 {
		t.Fatalf("stats = %+v", s)
	}

	if !l.Evict(path) || l.Evict(path) {
		t.Fatal("Evict should remove the entry exactly once")
	}
	l.Purge()
	if s := l.CacheStats(); s != (CacheStats{}) {
		t.Fatalf("stats after purge = %+v", s)
	}
}

func TestLoadEvictsLeastRecentlyUsed(t *testing.T) {
	dir := t.TempDir()
	a := writePNG(t, dir, "a.png", testutil.Flat(8, 8, 1))
	b := writePNG(t, dir, "b.png", testutil.Flat(8, 8, 2))
	c := writePNG(t, dir, "c.png", testutil.Flat(8, 8, 3))

	l, err := NewLoader(2)
	if err != nil {
		t.Fatal(err)
	}
	for _, p := range []string{a, b, a, c} {
		if _, err := l.Load(p); err != nil {
			t.Fatal(err)
		}
	}
	if l.Evict(b) {
		t.Fatal("b should have been evicted as least recently used")
	}
	if !l.Evict(a) || !l.Evict(c) {
		t.Fatal("a and c should be cached")
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	bogus := filepath.Join(dir, "bogus.png")
	if err := os.WriteFile(bogus, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}

	l, err := NewLoader(0)
	if err != nil {
		t.Fatal(err)
	}
	for _, p := range []string{bogus, filepath.Join(dir, "missing.png")} {
		if _, err := l.Load(p); err == nil {
			t.Errorf("Load(%s) succeeded", p)
		}
	}
	if l.CacheStats().Entries != 0 {
		t.Fatal("failed loads must not be cached")
	}
}

func TestDecodeColor(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	src.SetNRGBA(0, 0, color.NRGBA{R: 10, G: 200, B: 30, A: 255})
	src.SetNRGBA(1, 0, color.NRGBA{R: 255, G: 255, B: 255, A: 255})

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, src, imaging.PNG); err != nil {
		t.Fatal(err)
	}
	got, err := Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}

	// 0.299*10 + 0.587*200 + 0.114*30 = 123.81
	if d := int(got.Pix[0]) - 124; d < -1 || d > 1 {
		t.Fatalf("luma = %d, want 124", got.Pix[0])
	}
	if got.Pix[1] != 255 {
		t.Fatalf("white = %d", got.Pix[1])
	}
}

func TestToGraySubImage(t *testing.T) {
	src := testutil.Noise(30, 30, 2)
	sub := src.SubImage(image.Rect(5, 7, 25, 27)).(*image.Gray)

	got, err := ToGray(sub)
	if err != nil {
		t.Fatal(err)
	}
	if got.Bounds() != image.Rect(0, 0, 20, 20) {
		t.Fatalf("bounds = %v", got.Bounds())
	}
	for y := 0; y < 20; y++ {
		for x := 0; x < 20; x++ {
			if got.GrayAt(x, y) != src.GrayAt(x+5, y+7) {
				t.Fatalf("pixel (%d,%d) differs", x, y)
			}
		}
	}

	if _, err := ToGray(image.NewGray(image.Rect(0, 0, 0, 0))); err != ErrEmptyImage {
		t.Fatalf("err = %v, want ErrEmptyImage", err)
	}
}

func TestScanDirectory(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.jpg", "a.PNG", "notes.txt", "c.Tiff", "sub/d.bmp", "sub/e.gif"} {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}

	tests := []struct {
		recursive bool
		want      []string
	}{
		{false, []string{"a.PNG", "b.jpg", "c.Tiff"}},
		{true, []string{"a.PNG", "b.jpg", "c.Tiff", "sub/d.bmp"}},
	}
	for _, tt := range tests {
		got, err := ScanDirectory(dir, tt.recursive)
		if err != nil {
			t.Fatal(err)
		}
		want := make([]string, len(tt.want))
		for i, n := range tt.want {
			want[i] = filepath.Join(dir, filepath.FromSlash(n))
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("recursive=%v: got %v, want %v", tt.recursive, got, want)
		}
	}

	if _, err := ScanDirectory(filepath.Join(dir, "nope"), false); err == nil {
		t.Error("missing directory should fail")
	}
	if _, err := ScanDirectory(filepath.Join(dir, "notes.txt"), false); err == nil {
		t.Error("file argument should fail")
	}
}

func TestSavePatch(t *testing.T) {
	img := testutil.Noise(150, 150, 9)
	p := patch.Extract(img, singularity.CorePoint{X: 70, Y: 80, Confidence: 1}, "scans/finger01.bmp", 3)

	dir := filepath.Join(t.TempDir(), "out")
	path, err := SavePatch(&p, "scans", dir)
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(path) != "finger01_core.png" {
		t.Fatalf("path = %s", path)
	}

	l, err := NewLoader(1)
	if err != nil {
		t.Fatal(err)
	}
	got, err := l.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	testutil.RequireGrayEqual(t, got, p.Gray())
}

func TestSavePatchKeepsSubdirectories(t *testing.T) {
	img := testutil.Noise(150, 150, 9)
	dir := t.TempDir()
	root := "scans"

	var paths []string
	for i, name := range []string{
		filepath.Join(root, "left", "finger01.png"),
		filepath.Join(root, "right", "finger01.png"),
	} {
		p := patch.Extract(img, singularity.CorePoint{X: 70, Y: 80, Confidence: 1}, name, i)
		path, err := SavePatch(&p, root, dir)
		if err != nil {
			t.Fatal(err)
		}
		paths = append(paths, path)
	}

	want := []string{
		filepath.Join(dir, "left", "finger01_core.png"),
		filepath.Join(dir, "right", "finger01_core.png"),
	}
	for i := range want {
		if paths[i] != want[i] {
			t.Fatalf("path %d = %s, want %s", i, paths[i], want[i])
		}
		if _, err := os.Stat(want[i]); err != nil {
			t.Fatal(err)
		}
	}
}

func TestPatchPath(t *testing.T) {
	tests := []struct {
		filename, root string
		want           string
	}{
		{"scans/finger01.bmp", "scans", "finger01_core.png"},
		{"scans/a/b/finger01.bmp", "scans", filepath.Join("a", "b", "finger01_core.png")},
		{"other/finger01.bmp", "scans", "finger01_core.png"},
		{"scans/finger01.bmp", "", "finger01_core.png"},
		{"", "scans", "patch_4_core.png"},
	}
	for _, tt := range tests {
		p := patch.Patch{Filename: filepath.FromSlash(tt.filename), Index: 4}
		if got := PatchPath(&p, filepath.FromSlash(tt.root)); got != tt.want {
			t.Errorf("PatchPath(%q, %q) = %q, want %q", tt.filename, tt.root, got, tt.want)
		}
	}
}

func TestPatchName(t *testing.T) {
	tests := []struct {
		p    patch.Patch
		want string
	}{
		{patch.Patch{Filename: "a/b/left.thumb.png"}, "left.thumb_core.png"},
		{patch.Patch{Filename: "x.tif", Index: 2}, "x_core.png"},
		{patch.Patch{Index: 7}, "patch_7_core.png"},
		{patch.Patch{Index: -1}, "patch_-1_core.png"},
	}
	for _, tt := range tests {
		if got := PatchName(&tt.p); got != tt.want {
			t.Errorf("PatchName(%q) = %q, want %q", tt.p.Filename, got, tt.want)
		}
	}
}
