// Package singularity locates and scores singular points of a ridge
// orientation field.
//
// A coarse grid is laid over the field. At every grid point the mean squared
// circular difference between the center orientation and a sparse neighborhood
// measures how strongly the flow turns there. Points where the flow turns
// sharply and the local ridge quality is high become candidates.
package singularity

import (
	"runtime"
	"sync"

	"github.com/cwbudde/algo-corepoint/raster"
	"github.com/cwbudde/algo-corepoint/ridge"
)

// varianceThreshold is the orientation variance (rad²) a grid point must
// exceed to be considered at all.
const varianceThreshold = 0.5

// CorePoint is a candidate or accepted singular point in pixel coordinates.
// The zero value is the "no point" sentinel.
type CorePoint struct {
	X, Y       float64
	Confidence float64
}

// ScanConfig controls the grid scan.
type ScanConfig struct {
	// BlockSize sets the grid stride (BlockSize/2), the border margin
	// (BlockSize) and the neighborhood radius (BlockSize/2).
	BlockSize int

	// MinConfidence is the exclusive lower bound on variance×quality.
	MinConfidence float64

	// Workers bounds the goroutines used for the scan. Zero means GOMAXPROCS.
	Workers int
}

// Scan returns every candidate of orient in row-major grid order.
// quality must have the same dimensions as orient. A panic in any row is
// re-raised by Scan itself after all workers have stopped.
func Scan(orient, quality raster.Field, cfg ScanConfig) []CorePoint {
	block := cfg.BlockSize
	step := block / 2
	if step <= 0 {
		return nil
	}

	var rows []int
	for y := block; y < orient.H-block; y += step {
		rows = append(rows, y)
	}
	if len(rows) == 0 {
		return nil
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	workers = min(workers, len(rows))

	perRow := make([][]CorePoint, len(rows))
	next := make(chan int)
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		panicked any
	)
	scanOne := func(i int) {
		defer func() {
			if v := recover(); v != nil {
				mu.Lock()
				if panicked == nil {
					panicked = v
				}
				mu.Unlock()
			}
		}()
		perRow[i] = scanRow(orient, quality, rows[i], cfg)
	}
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range next {
				scanOne(i)
			}
		}()
	}
	for i := range rows {
		next <- i
	}
	close(next)
	wg.Wait()

	// Re-raise on the calling goroutine so the caller's recover sees it.
	if panicked != nil {
		panic(panicked)
	}

	var out []CorePoint
	for _, r := range perRow {
		out = append(out, r...)
	}
	return out
}

func scanRow(orient, quality raster.Field, y int, cfg ScanConfig) []CorePoint {
	block := cfg.BlockSize
	step := block / 2
	var out []CorePoint
	for x := block; x < orient.W-block; x += step {
		v, ok := OrientationVariance(orient, x, y, block/2)
		if !ok || v <= varianceThreshold {
			continue
		}
		conf := v * quality.At(x, y)
		if conf > cfg.MinConfidence {
			out = append(out, CorePoint{X: float64(x), Y: float64(y), Confidence: conf})
		}
	}
	return out
}

// OrientationVariance is the mean squared circular difference between the
// orientation at (x, y) and the in-bounds samples (x+dx, y+dy) for
// dx, dy ∈ {-radius, -radius+2, …, ≤ radius}. ok is false when no sample
// lies inside the field.
func OrientationVariance(orient raster.Field, x, y, radius int) (v float64, ok bool) {
	center := orient.At(x, y)
	sum := 0.0
	count := 0
	for dy := -radius; dy <= radius; dy += 2 {
		for dx := -radius; dx <= radius; dx += 2 {
			if !orient.In(x+dx, y+dy) {
				continue
			}
			d := ridge.CircularDiff(orient.At(x+dx, y+dy), center)
			sum += d * d
			count++
		}
	}
	if count == 0 {
		return 0, false
	}
	return sum / float64(count), true
}

// SelectBest returns the first candidate with the strictly highest
// confidence. Since Scan emits row-major order, ties resolve to the lowest y
// and then the lowest x.
func SelectBest(candidates []CorePoint) (CorePoint, bool) {
	if len(candidates) == 0 {
		return CorePoint{}, false
	}
	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.Confidence > best.Confidence {
			best = c
		}
	}
	return best, true
}
