// Command corepoint detects fingerprint core points in a directory of images.
//
// Usage:
//
//	corepoint -i <input-dir> [flags]
//
// Every supported image (bmp, jpg, jpeg, png, tif, tiff) is loaded as
// grayscale, run through the detector and reported in a table followed by a
// summary. With -save the 101×101 core patches are written to the output
// directory as <name>_core.png.
//
// Examples:
//
//	corepoint -i scans
//	corepoint -i scans -recursive -parallel -workers 8
//	corepoint -i scans -save -o patches -profile
//	corepoint -info
package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-corepoint/corepoint"
	"github.com/cwbudde/algo-corepoint/imageio"
	"github.com/cwbudde/algo-corepoint/internal/logging"
	"github.com/cwbudde/algo-corepoint/internal/workpool"
	"github.com/cwbudde/algo-corepoint/profile"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

type options struct {
	input, output string
	maxFiles      int
	verbose       bool
	parallel      bool
	workers       int
	recursive     bool
	save          bool
	profile       bool
	info          bool
	minConfidence float64
	noSIMD        bool
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var o options
	fs := flag.NewFlagSet("corepoint", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.input, "i", "", "input directory")
	fs.StringVar(&o.output, "o", "output", "output directory for saved patches")
	fs.IntVar(&o.maxFiles, "n", 0, "process at most n files (0 = all)")
	fs.BoolVar(&o.verbose, "v", false, "verbose logging")
	fs.BoolVar(&o.parallel, "parallel", false, "process images concurrently")
	fs.IntVar(&o.workers, "workers", 0, "worker count for -parallel (0 = GOMAXPROCS)")
	fs.BoolVar(&o.recursive, "recursive", false, "descend into subdirectories")
	fs.BoolVar(&o.save, "save", false, "write core patches to the output directory")
	fs.BoolVar(&o.profile, "profile", false, "print per-phase timings")
	fs.BoolVar(&o.info, "info", false, "print system information and exit")
	fs.Float64Var(&o.minConfidence, "min-confidence", corepoint.DefaultParams().MinConfidence, "minimum refined confidence")
	fs.BoolVar(&o.noSIMD, "no-simd", false, "force the scalar gradient kernel")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: corepoint -i <input-dir> [flags]\n\n")
		fmt.Fprintf(stderr, "Detects fingerprint core points and extracts 101x101 patches.\n\n")
		fmt.Fprintf(stderr, "Flags:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  corepoint -i scans\n")
		fmt.Fprintf(stderr, "  corepoint -i scans -recursive -parallel -workers 8\n")
		fmt.Fprintf(stderr, "  corepoint -i scans -save -o patches -profile\n")
		fmt.Fprintf(stderr, "  corepoint -info\n")
	}

	if err := fs.Parse(args); err != nil {
		return o, err
	}
	if !o.info && o.input == "" {
		fs.Usage()
		return o, errors.New("missing -i")
	}
	if o.maxFiles < 0 {
		return o, fmt.Errorf("-n must be >= 0 (got %d)", o.maxFiles)
	}
	return o, nil
}

func run(args []string, stdout, stderr io.Writer) int {
	o, err := parseFlags(args, stderr)
	if err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintf(stderr, "error: %v\n", err)
		}
		return 2
	}

	if o.info {
		fmt.Fprint(stdout, corepoint.SystemInfo())
		return 0
	}

	level := os.Getenv("LOG_LEVEL")
	if o.verbose {
		level = "debug"
	} else if level == "" {
		level = "warn"
	}
	runID := uuid.NewString()
	log := logging.New(stderr, level, "text").WithField("run", runID)

	files, err := imageio.ScanDirectory(o.input, o.recursive)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	if o.maxFiles > 0 && len(files) > o.maxFiles {
		files = files[:o.maxFiles]
	}
	if len(files) == 0 {
		fmt.Fprintf(stderr, "error: no supported images in %s\n", o.input)
		return 1
	}
	log.WithField("files", len(files)).Info("Starting batch")

	loader, err := imageio.NewLoader(len(files))
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	params := corepoint.DefaultParams()
	params.MinConfidence = o.minConfidence
	params.UseSIMD = !o.noSIMD

	var prof *profile.Profiler
	if o.profile {
		prof = profile.New()
	}
	det := corepoint.New(params,
		corepoint.WithLogger(log),
		corepoint.WithProfiler(prof),
		corepoint.WithMaxWorkers(o.workers),
	)

	start := time.Now()
	images, names, loadErrs := loadAll(loader, files, o, log)
	results := det.DetectBatch(images, names, o.parallel)
	elapsed := time.Since(start)

	if err := printResults(stdout, files, loadErrs, names, results); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	if o.save {
		for i := range results {
			if !results[i].Success {
				continue
			}
			path, err := imageio.SavePatch(&results[i].Patch, o.input, o.output)
			if err != nil {
				fmt.Fprintf(stderr, "error: %v\n", err)
				return 1
			}
			log.WithField("path", path).Debug("Patch saved")
		}
	}

	if err := printSummary(stdout, runID, det, loader, len(loadErrs), elapsed, det.Kernel()); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	if prof != nil {
		fmt.Fprintln(stdout)
		if err := prof.WriteSummary(stdout); err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)
			return 1
		}
	}
	return 0
}

// loadAll decodes files, concurrently when o.parallel is set. Files that fail
// to load are reported in the returned map and left out of the batch.
func loadAll(loader *imageio.Loader, files []string, o options, log logrus.FieldLogger) ([]image.Image, []string, map[string]error) {
	grays := make([]*image.Gray, len(files))
	errs := make([]error, len(files))
	load := func(i int) {
		grays[i], errs[i] = loader.Load(files[i])
	}

	if o.parallel {
		workpool.Map(o.workers, len(files), load)
	} else {
		for i := range files {
			load(i)
		}
	}

	var images []image.Image
	var names []string
	failed := make(map[string]error)
	for i, f := range files {
		if errs[i] != nil {
			log.WithError(errs[i]).WithField("file", f).Warn("Skipping unreadable image")
			failed[f] = errs[i]
			continue
		}
		images = append(images, grays[i])
		names = append(names, f)
	}
	return images, names, failed
}

// printResults writes one row per file in scan order. results[i] belongs to
// names[i].
func printResults(w io.Writer, files []string, loadErrs map[string]error, names []string, results []corepoint.Result) error {
	byName := make(map[string]*corepoint.Result, len(results))
	for i := range results {
		byName[names[i]] = &results[i]
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "File\tStatus\tX\tY\tConfidence\tQuality\tPeriod [px]\tTime [ms]\tReason\n")
	fmt.Fprintf(tw, "----\t------\t-\t-\t----------\t-------\t-----------\t---------\t------\n")

	for _, f := range files {
		name := filepath.Base(f)
		if err, ok := loadErrs[f]; ok {
			fmt.Fprintf(tw, "%s\tunreadable\t\t\t\t\t\t\t%v\n", name, err)
			continue
		}
		res := byName[f]
		if res == nil {
			continue
		}
		ms := float64(res.ProcessingTime) / float64(time.Millisecond)
		if res.Success {
			p := res.CorePoints[0]
			fmt.Fprintf(tw, "%s\tok\t%.0f\t%.0f\t%.4f\t%.4f\t%.2f\t%.2f\t\n",
				name, p.X, p.Y, p.Confidence, res.Quality, res.RidgePeriod, ms)
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\t\t\t\t%.4f\t\t%.2f\t%s\n",
			name, res.Failure.Kind, res.Quality, ms, res.Failure.Error())
	}
	return tw.Flush()
}

func printSummary(w io.Writer, runID string, det *corepoint.Detector, loader *imageio.Loader, unreadable int, elapsed time.Duration, kernel string) error {
	s := det.Stats()
	cs := loader.CacheStats()

	rate := 0.0
	if s.ImagesProcessed > 0 {
		rate = 100 * float64(s.Successes) / float64(s.ImagesProcessed)
	}
	throughput := 0.0
	if elapsed > 0 {
		throughput = float64(s.ImagesProcessed) / elapsed.Seconds()
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "\nRun\t%s\n", runID)
	fmt.Fprintf(tw, "Kernel\t%s\n", kernel)
	fmt.Fprintf(tw, "Images processed\t%d\n", s.ImagesProcessed)
	fmt.Fprintf(tw, "Unreadable\t%d\n", unreadable)
	fmt.Fprintf(tw, "Successes\t%d (%.1f%%)\n", s.Successes, rate)
	fmt.Fprintf(tw, "Failures\t%d\n", s.Failures)
	fmt.Fprintf(tw, "Average time\t%v\n", s.AverageProcessingTime.Round(time.Microsecond))
	fmt.Fprintf(tw, "Average confidence\t%.4f\n", s.AverageConfidence)
	fmt.Fprintf(tw, "SIMD operations\t%d\n", s.SIMDOperations)
	fmt.Fprintf(tw, "Throughput\t%.1f images/s\n", throughput)
	fmt.Fprintf(tw, "Cache\t%d entries, %d hits, %d misses\n", cs.Entries, cs.Hits, cs.Misses)
	return tw.Flush()
}
