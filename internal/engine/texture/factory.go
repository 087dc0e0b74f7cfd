// Package texture produces GPU textures at a requested LOD from a decoded
// source image, clamped to device limits.
//
// The CPU-side rescale runs off the render thread in a worker pool.
// ebiten.Image creation is not thread-safe, so this package stops at
// producing a plain image.Image and leaves the ebiten.Image upload to the
// caller on the render thread.
package texture

import (
	"image"
	"math"

	"github.com/nfnt/resize"
	"github.com/rs/zerolog"
	"golang.org/x/image/draw"

	"github.com/woolen-sheep/afilmory/internal/engine/enginetype"
)

// Smoothing selects the resample quality: high-quality when φₗ ≥ 1, medium
// otherwise.
type Smoothing int

const (
	SmoothingMedium Smoothing = iota
	SmoothingHigh
)

// Job is one texture-production request.
type Job struct {
	Gen              int
	LOD              int
	Decoded          enginetype.DecodedImage
	TargetW, TargetH int
	Smoothing        Smoothing
	// Direct is true when (TargetW, TargetH) equals the source's native
	// size exactly: upload the decoded image without rescaling.
	Direct bool
}

// Result is a completed (or failed) Job, tagged with the generation and
// LOD it was produced for so a stale completion can be detected and
// discarded by the caller.
type Result struct {
	Gen, LOD int
	// Pixels is nil when Direct is true; the caller uploads Decoded.Image()
	// itself in that case.
	Pixels image.Image
	Err    error
}

// TargetSize computes (Wₗ, Hₗ) = clamp(round(W·φ), round(H·φ)) to the
// effective size cap: the device's max-texture-size dimension and a
// per-texture memory cap of 30% of budgetBytes. Both bounds preserve
// aspect: an oversized dimension scales (w, h) by maxTextureSize/maxDim,
// and an oversized byte footprint scales (w, h) by √(capBytes/bytes).
func TargetSize(nativeW, nativeH int, phi float64, maxTextureSize int, budgetBytes int64) (w, h int) {
	fw := math.Round(float64(nativeW) * phi)
	fh := math.Round(float64(nativeH) * phi)

	if maxDim := math.Max(fw, fh); maxDim > float64(maxTextureSize) {
		ratio := float64(maxTextureSize) / maxDim
		fw, fh = fw*ratio, fh*ratio
	}

	capBytes := 0.30 * float64(budgetBytes)
	if bytes := 4 * fw * fh; bytes > capBytes && capBytes > 0 {
		ratio := capBytes / bytes
		s := math.Sqrt(ratio)
		fw, fh = fw*s, fh*s
	}

	return int(math.Round(fw)), int(math.Round(fh))
}

// Factory owns the background worker pool that performs CPU-side
// rescaling. It never touches the GPU context itself.
type Factory struct {
	jobs    chan Job
	results chan Result
	logger  zerolog.Logger
}

// NewFactory starts a small off-surface worker pool feeding a shared
// results channel.
func NewFactory(logger zerolog.Logger, workers int) *Factory {
	if workers <= 0 {
		workers = 2
	}
	f := &Factory{
		jobs:    make(chan Job, 4),
		results: make(chan Result, 4),
		logger:  logger.With().Str("component", "texture-factory").Logger(),
	}
	for i := 0; i < workers; i++ {
		go f.worker()
	}
	return f
}

func (f *Factory) worker() {
	for job := range f.jobs {
		pixels, err := produce(job)
		f.results <- Result{Gen: job.Gen, LOD: job.LOD, Pixels: pixels, Err: err}
	}
}

// Submit enqueues job on the off-surface worker pool. If the queue is
// saturated, job still runs, spawned on its own goroutine instead of
// waiting for a worker slot.
func (f *Factory) Submit(job Job) {
	select {
	case f.jobs <- job:
	default:
		f.logger.Warn().Int("lod", job.LOD).Int("gen", job.Gen).
			Msg("production queue saturated, running job on its own goroutine")
		go func() {
			pixels, err := produce(job)
			f.results <- Result{Gen: job.Gen, LOD: job.LOD, Pixels: pixels, Err: err}
		}()
	}
}

// ProduceSync runs job synchronously on the calling goroutine. Used for
// the initial-LOD bootstrap.
func (f *Factory) ProduceSync(job Job) (image.Image, error) {
	return produce(job)
}

// Results is the channel of completed productions.
func (f *Factory) Results() <-chan Result { return f.results }

// Close stops the worker pool by closing the job queue. Submit must not be
// called after Close.
func (f *Factory) Close() {
	close(f.jobs)
}

func produce(job Job) (image.Image, error) {
	if job.Direct {
		return nil, nil
	}
	src := job.Decoded.Image()
	dstRect := image.Rect(0, 0, job.TargetW, job.TargetH)

	switch job.Smoothing {
	case SmoothingHigh:
		dst := image.NewRGBA(dstRect)
		draw.CatmullRom.Scale(dst, dstRect, src, src.Bounds(), draw.Over, nil)
		return dst, nil
	default:
		// resize.Resize uses a cheaper Lanczos-free bilinear-equivalent
		// filter well suited to downscale-heavy medium-quality work.
		return resize.Resize(uint(job.TargetW), uint(job.TargetH), src, resize.Bilinear), nil
	}
}
