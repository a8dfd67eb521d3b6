package corepoint

import (
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-corepoint/filter"
	"github.com/cwbudde/algo-corepoint/filter/gradient"
	"github.com/cwbudde/algo-corepoint/patch"
	"github.com/cwbudde/algo-corepoint/profile"
	"github.com/cwbudde/algo-corepoint/quality"
	"github.com/cwbudde/algo-corepoint/raster"
	"github.com/cwbudde/algo-corepoint/ridge"
	"github.com/cwbudde/algo-corepoint/singularity"
)

// Pipeline phase names reported to the profiler.
const (
	PhasePreprocess        = "preprocess"
	PhaseQualityAssessment = "quality_assessment"
	PhaseOrientationField  = "orientation_field"
	PhaseRidgeQuality      = "ridge_quality"
	PhaseCoreDetection     = "core_detection"
	PhaseCoreValidation    = "core_validation"
	PhaseROIExtraction     = "roi_extraction"
)

// Detector finds core points. It is safe for concurrent use.
type Detector struct {
	mu     sync.RWMutex
	params Params
	op     *gradient.Operator

	log         logrus.FieldLogger
	prof        *profile.Profiler
	maxWorkers  int
	scanWorkers int

	stats statsAccumulator
	now   func() time.Time
}

// New returns a Detector for params. Parameters are normalized, never
// rejected; see Params.Normalize.
func New(params Params, opts ...Option) *Detector {
	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	d := &Detector{
		log:         o.logger,
		prof:        o.profiler,
		maxWorkers:  o.maxWorkers,
		scanWorkers: o.scanWorkers,
		now:         time.Now,
	}
	d.SetParams(params)
	return d
}

// SetParams replaces the detection parameters. Calls already in progress
// finish with the previous settings.
func (d *Detector) SetParams(params Params) {
	p := params.Normalize()
	if p.GaussianKernelSize != params.GaussianKernelSize && params.GaussianKernelSize > 0 {
		d.log.WithFields(logrus.Fields{
			"requested": params.GaussianKernelSize,
			"used":      p.GaussianKernelSize,
		}).Warn("Gaussian kernel size must be odd, adjusting")
	}
	if p.SobelKernelSize != params.SobelKernelSize && params.SobelKernelSize > 0 {
		d.log.WithFields(logrus.Fields{
			"requested": params.SobelKernelSize,
			"used":      p.SobelKernelSize,
		}).Warn("Sobel kernel size must be odd, adjusting")
	}
	if p.UseSIMD && !gradient.VectorAvailable() {
		p.UseSIMD = false
		d.log.Info("SIMD requested but not available, using scalar implementation")
	}

	op := gradient.New(p.UseSIMD)

	d.mu.Lock()
	d.params = p
	d.op = op
	d.mu.Unlock()
}

// Params returns the normalized parameters in effect.
func (d *Detector) Params() Params {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.params
}

// Kernel names the gradient kernel in use.
func (d *Detector) Kernel() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.op.Name()
}

// Stats returns a snapshot of the running statistics.
func (d *Detector) Stats() Stats { return d.stats.snapshot() }

// ResetStats zeroes the running statistics.
func (d *Detector) ResetStats() { d.stats.reset() }

// Detect runs the pipeline on img. filename and index are copied into the
// patch; pass -1 for an unbatched call. Detect never panics on bad input.
func (d *Detector) Detect(img image.Image, filename string, index int) (res Result) {
	start := d.now()

	d.mu.RLock()
	r := &run{Detector: d, params: d.params, op: d.op, filename: filename, index: index}
	d.mu.RUnlock()

	defer func() {
		if v := recover(); v != nil {
			res = Result{Failure: fault(fmt.Errorf("%v", v))}
			d.log.WithFields(logrus.Fields{
				"file":  filename,
				"panic": v,
			}).Error("Core point detection failed")
		}
		res.ProcessingTime = d.now().Sub(start)
		d.stats.record(&res, r.vectorized)
	}()

	gray, err := validateInput(img)
	if err != nil {
		return Result{Failure: err}
	}
	return r.process(gray)
}

func validateInput(img image.Image) (*image.Gray, *Failure) {
	if img == nil || img.Bounds().Empty() {
		return nil, invalidInput("Input image is empty")
	}
	gray, ok := img.(*image.Gray)
	if !ok {
		return nil, invalidInput("Input image must be grayscale")
	}
	if gray == nil || len(gray.Pix) == 0 {
		return nil, invalidInput("Input image is empty")
	}
	b := gray.Bounds()
	if b.Dx() < patch.Size || b.Dy() < patch.Size {
		return nil, invalidInput(fmt.Sprintf("Input image too small (minimum %dx%d)", patch.Size, patch.Size))
	}
	return raster.Normalize(gray), nil
}

// run carries the per-call state of one detection.
type run struct {
	*Detector
	params     Params
	op         *gradient.Operator
	filename   string
	index      int
	vectorized bool
}

func (r *run) process(img *image.Gray) Result {
	pre, err := r.preprocess(img)
	if err != nil {
		return Result{Failure: fault(err)}
	}

	score := r.assess(pre)
	if score < r.params.MinImageQuality {
		return Result{Quality: score, Failure: lowQuality(score)}
	}

	orient, err := r.orientation(pre)
	if err != nil {
		return Result{Quality: score, Failure: fault(err)}
	}
	qual := r.ridgeQuality(pre)

	cands := r.scan(orient, qual)
	if len(cands) == 0 {
		return Result{Quality: score, Failure: noCandidates()}
	}

	best, f := r.selectAndValidate(pre, cands)
	if f != nil {
		return Result{Quality: score, Failure: f}
	}

	p, f := r.extract(img, best)
	if f != nil {
		return Result{Quality: score, Failure: f}
	}

	res := Result{
		CorePoints: []CorePoint{best},
		Patch:      p,
		Quality:    min(score, quality.Assess(p.Gray(), r.params.SharpnessScale)),
		Success:    true,
	}
	if period, err := patch.RidgePeriod(&p); err != nil {
		r.log.WithError(err).WithField("file", r.filename).Warn("Ridge period estimation failed")
	} else {
		res.RidgePeriod = period
	}
	return res
}

func (r *run) preprocess(img *image.Gray) (*image.Gray, error) {
	defer r.prof.Start(PhasePreprocess)()
	return filter.Preprocess(img, r.params.GaussianKernelSize, r.params.GaussianSigma)
}

func (r *run) assess(img *image.Gray) float64 {
	defer r.prof.Start(PhaseQualityAssessment)()
	c := quality.Breakdown(img, r.params.SharpnessScale)
	r.log.WithFields(logrus.Fields{
		"file":      r.filename,
		"contrast":  c.Contrast,
		"sharpness": c.Sharpness,
		"score":     c.Score,
	}).Debug("Image quality assessed")
	return c.Score
}

func (r *run) orientation(img *image.Gray) (raster.Field, error) {
	defer r.prof.Start(PhaseOrientationField)()
	gx, gy, err := r.op.Gradients(img, r.params.SobelKernelSize)
	if err != nil {
		return raster.Field{}, err
	}
	r.vectorized = r.op.Vectorized()
	return ridge.OrientationField(gx, gy), nil
}

func (r *run) ridgeQuality(img *image.Gray) raster.Field {
	defer r.prof.Start(PhaseRidgeQuality)()
	return ridge.QualityField(img, r.params.BlockSize)
}

func (r *run) scan(orient, qual raster.Field) []CorePoint {
	defer r.prof.Start(PhaseCoreDetection)()
	cands := singularity.Scan(orient, qual, singularity.ScanConfig{
		BlockSize:     r.params.BlockSize,
		MinConfidence: r.params.MinConfidence,
		Workers:       r.scanWorkers,
	})
	r.log.WithFields(logrus.Fields{
		"file":       r.filename,
		"candidates": len(cands),
	}).Debug("Found core point candidates")
	return cands
}

func (r *run) selectAndValidate(img *image.Gray, cands []CorePoint) (CorePoint, *Failure) {
	defer r.prof.Start(PhaseCoreValidation)()
	best, ok := singularity.SelectBest(cands)
	if !ok {
		return CorePoint{}, noCandidates()
	}
	best.Confidence = singularity.Validate(img, best)
	if best.Confidence < r.params.MinConfidence {
		return CorePoint{}, lowConfidence(best.Confidence)
	}
	return best, nil
}

func (r *run) extract(img *image.Gray, best CorePoint) (patch.Patch, *Failure) {
	defer r.prof.Start(PhaseROIExtraction)()
	p := patch.Extract(img, best, r.filename, r.index)
	if !ValidatePatch(&p) {
		return patch.Patch{}, malformedPatch()
	}
	return p, nil
}
