// Package lodpolicy chooses the optimal LOD for the current transform and
// memory pressure, and coordinates the texture factory and the LOD cache's
// front/back swap protocol.
package lodpolicy

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/rs/zerolog"

	"github.com/woolen-sheep/afilmory/internal/engine/enginetype"
	"github.com/woolen-sheep/afilmory/internal/engine/lodcache"
	"github.com/woolen-sheep/afilmory/internal/engine/texture"
)

// Select chooses the smallest LOD index l such that r ≤ ψₗ·m; if none
// qualifies, it returns the finest level.
func Select(table []enginetype.LODLevel, r, m float64) int {
	for i, lvl := range table {
		if r <= lvl.MaxRelScale*m {
			return i
		}
	}
	return len(table) - 1
}

// Policy owns the LOD table and coordinates asynchronous production with
// the LOD cache. It is not safe for concurrent use from multiple
// goroutines beyond the factory's own result channel; it is intended to be
// driven entirely from the render loop's thread.
type Policy struct {
	table   []enginetype.LODLevel
	factory *texture.Factory
	cache   *lodcache.Cache
	logger  zerolog.Logger

	decoded enginetype.DecodedImage

	gen         int
	currentLOD  int
	inFlightLOD int
}

// New creates a Policy over table, producing into cache via factory.
func New(table []enginetype.LODLevel, factory *texture.Factory, cache *lodcache.Cache, logger zerolog.Logger) *Policy {
	return &Policy{
		table:       table,
		factory:     factory,
		cache:       cache,
		logger:      logger.With().Str("component", "lod-policy").Logger(),
		currentLOD:  -1,
		inFlightLOD: -1,
	}
}

// SetImage resets the policy's notion of "current image" for a new Load.
func (p *Policy) SetImage(decoded enginetype.DecodedImage) {
	p.decoded = decoded
	p.currentLOD = -1
	p.inFlightLOD = -1
}

// CurrentLOD returns the LOD currently installed as front, or -1.
func (p *Policy) CurrentLOD() int { return p.currentLOD }

// LevelCount returns the number of configured LOD levels.
func (p *Policy) LevelCount() int { return len(p.table) }

func (p *Policy) buildJob(l int, maxTextureSize int, budgetBytes int64, gen int) texture.Job {
	lvl := p.table[l]
	w, h := texture.TargetSize(p.decoded.Width(), p.decoded.Height(), lvl.Downscale, maxTextureSize, budgetBytes)
	smoothing := texture.SmoothingMedium
	if lvl.Downscale >= 1 {
		smoothing = texture.SmoothingHigh
	}
	return texture.Job{
		Gen:       gen,
		LOD:       l,
		Decoded:   p.decoded,
		TargetW:   w,
		TargetH:   h,
		Smoothing: smoothing,
		Direct:    w == p.decoded.Width() && h == p.decoded.Height(),
	}
}

// RequestIfNeeded evaluates the selection for l and, if l differs from both
// the current front and any in-flight request, deletes the cached
// texture(s) and kicks off asynchronous production. A request for an LOD
// already in flight is coalesced (no duplicate job).
func (p *Policy) RequestIfNeeded(l, maxTextureSize int, budgetBytes int64) {
	if l == p.currentLOD || l == p.inFlightLOD {
		return
	}
	p.gen++
	p.inFlightLOD = l
	p.cache.PrepareForNewLOD()
	p.factory.Submit(p.buildJob(l, maxTextureSize, budgetBytes, p.gen))
}

// DrainResults processes any completions from the texture factory,
// discarding stale ones whose generation no longer matches the latest
// request: a later LOD request supersedes an earlier in-flight one by LOD
// index.
func (p *Policy) DrainResults(now time.Time) {
	for {
		select {
		case res := <-p.factory.Results():
			if res.Gen != p.gen || res.LOD != p.inFlightLOD {
				continue
			}
			if res.Err != nil {
				p.logger.Warn().Err(res.Err).Int("lod", res.LOD).
					Msg("texture production failed, keeping current front")
				p.inFlightLOD = -1
				continue
			}
			p.stage(res, now)
			p.inFlightLOD = -1
		default:
			return
		}
	}
}

func (p *Policy) stage(res texture.Result, now time.Time) {
	var img *ebiten.Image
	if res.Pixels == nil {
		img = ebiten.NewImageFromImage(p.decoded.Image())
	} else {
		img = ebiten.NewImageFromImage(res.Pixels)
	}
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	p.cache.Stage(&lodcache.Entry{
		Image:    img,
		W:        w,
		H:        h,
		Bytes:    int64(4 * w * h),
		LastUsed: now,
		LOD:      res.LOD,
	})
}

// SwapIfArmed installs a staged back texture as front if one is armed.
// Must be called at a frame boundary, never mid-draw.
func (p *Policy) SwapIfArmed() bool {
	installed, lod := p.cache.Swap()
	if installed {
		p.currentLOD = lod
	}
	return installed
}

// Bootstrap synchronously produces and installs the LOD for the initial
// transform during Load, falling back through direct upload if production
// fails, so the first frame is never blank longer than decode itself.
func (p *Policy) Bootstrap(l, maxTextureSize int, budgetBytes int64, now time.Time) error {
	p.gen++
	gen := p.gen
	job := p.buildJob(l, maxTextureSize, budgetBytes, gen)

	p.cache.PrepareForNewLOD()

	pixels, err := p.factory.ProduceSync(job)
	if err != nil {
		// Synchronous fallback: upload the decoded image directly at
		// native resolution rather than leave the first frame blank.
		p.logger.Warn().Err(err).Int("lod", l).Msg("bootstrap production failed, falling back to direct upload")
		img := ebiten.NewImageFromImage(p.decoded.Image())
		w, h := img.Bounds().Dx(), img.Bounds().Dy()
		p.cache.Stage(&lodcache.Entry{Image: img, W: w, H: h, Bytes: int64(4 * w * h), LastUsed: now, LOD: l})
		_, lod := p.cache.Swap()
		p.currentLOD = lod
		p.inFlightLOD = -1
		return nil
	}

	var img *ebiten.Image
	if pixels == nil {
		img = ebiten.NewImageFromImage(p.decoded.Image())
	} else {
		img = ebiten.NewImageFromImage(pixels)
	}
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	p.cache.Stage(&lodcache.Entry{Image: img, W: w, H: h, Bytes: int64(4 * w * h), LastUsed: now, LOD: l})
	_, lod := p.cache.Swap()
	p.currentLOD = lod
	p.inFlightLOD = -1
	return nil
}
