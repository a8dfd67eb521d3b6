package ridge

import (
	"image"
	"math"

	"github.com/cwbudde/algo-corepoint/raster"
)

// QualityField scores every pixel with the standard deviation of the
// block×block window starting at (x-block/2, y-block/2), divided by 255.
// Pixels closer than block/2 to a border, or whose window would leave the
// image, score 0. Window sums come from summed-area tables, so the cost does
// not depend on block.
func QualityField(img *image.Gray, block int) raster.Field {
	img = raster.Normalize(img)
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	out := raster.NewField(w, h)
	if block <= 0 {
		return out
	}

	sum, sq := integralImages(img)
	stride := w + 1
	half := block / 2
	n := float64(block * block)

	for y := half; y < h-half; y++ {
		y0 := y - half
		y1 := y0 + block
		if y1 > h {
			break
		}
		for x := half; x < w-half; x++ {
			x0 := x - half
			x1 := x0 + block
			if x1 > w {
				break
			}
			s := sum[y1*stride+x1] - sum[y0*stride+x1] - sum[y1*stride+x0] + sum[y0*stride+x0]
			q := sq[y1*stride+x1] - sq[y0*stride+x1] - sq[y1*stride+x0] + sq[y0*stride+x0]
			mean := s / n
			variance := max(q/n-mean*mean, 0)
			out.Set(x, y, math.Sqrt(variance)/255)
		}
	}
	return out
}

// integralImages returns (w+1)×(h+1) tables of prefix sums of pixel values
// and of squared pixel values.
func integralImages(img *image.Gray) (sum, sq []float64) {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	stride := w + 1
	sum = make([]float64, stride*(h+1))
	sq = make([]float64, stride*(h+1))
	for y := 0; y < h; y++ {
		rowSum, rowSq := 0.0, 0.0
		row := img.Pix[y*img.Stride : y*img.Stride+w]
		for x, p := range row {
			v := float64(p)
			rowSum += v
			rowSq += v * v
			sum[(y+1)*stride+x+1] = sum[y*stride+x+1] + rowSum
			sq[(y+1)*stride+x+1] = sq[y*stride+x+1] + rowSq
		}
	}
	return sum, sq
}
