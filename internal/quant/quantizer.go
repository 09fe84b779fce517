// Package quant implements Xiaolin Wu's greedy variance-minimization
// color quantizer: a coarse 33^3 RGB histogram, 3D summed-area moment
// tables, recursive cube subdivision, and a nearest-neighbor palette
// refinement pass. It has no dependency on any image decoding or
// encoding package — callers feed it a flat stream of 32-bit ARGB
// pixels and read back palette indices in the same order.
package quant

import "math/bits"

// presenceWords sizes the 2^24-bit presence set (one bit per distinct
// 24-bit RGB triple) as 64-bit words.
const presenceWords = (1 << 24) / 64

// lifecycleState models the states a Quantizer instance can be in, per
// the ordering prepare -> N*add_color -> build_palette -> N*index.
// Ready and Accumulating both sit between Prepare and BuildPalette and
// are accepted by the same calls; Accumulating only records that at
// least one color has been added. Partitioned and Streaming both accept
// NextPaletteIndex/LookupByColor calls; Streaming only distinguishes
// "at least one index has been read" for diagnostic clarity.
type lifecycleState int

const (
	stateEmpty lifecycleState = iota
	stateReady
	stateAccumulating
	statePartitioned
	stateStreaming
)

// Config carries construction-time parameters. There is no hidden
// process-wide state: the background color used by the alpha
// flattener is scoped to one Quantizer instance.
type Config struct {
	// Background is the opaque color translucent pixels are
	// composited onto. Defaults to white.
	Background RGB
}

// DefaultConfig returns a Config with a white background, matching the
// source's hardcoded default.
func DefaultConfig() Config {
	return Config{Background: RGB{R: 255, G: 255, B: 255}}
}

// Quantizer is a single quantization run. It owns all of its tables
// and pixel-keyed arrays; it is not safe for concurrent use by more
// than one goroutine at a time, but independent instances never
// interact, so running many in parallel over distinct images is safe.
// An instance that returns an error is poisoned: discard it and start
// over rather than retrying the failed call.
type Quantizer struct {
	cfg   Config
	state lifecycleState

	n     int
	added int

	moments  *momentTables
	presence []uint64
	q        []uint32
	colors   []RGB

	palette []RGB
	index   []int
	cursor  int
}

// New constructs a Quantizer with the given configuration.
func New(cfg Config) *Quantizer {
	return &Quantizer{cfg: cfg, state: stateEmpty}
}

// NewDefault constructs a Quantizer with DefaultConfig.
func NewDefault() *Quantizer {
	return New(DefaultConfig())
}

// Prepare allocates the histogram and pixel-keyed arrays for an image
// of the given dimensions. It must be the first call on a fresh
// instance.
func (z *Quantizer) Prepare(width, height int) error {
	if z.state != stateEmpty {
		return ErrInvalidState
	}

	n := width * height
	z.n = n
	z.moments = newMomentTables()
	z.presence = make([]uint64, presenceWords)
	z.q = make([]uint32, 0, n)
	z.colors = make([]RGB, 0, n)
	z.state = stateReady
	return nil
}

// AddColor flattens c onto the configured background, bins it into the
// histogram, and records it for the later refinement pass. It must be
// called exactly N times between Prepare and BuildPalette.
func (z *Quantizer) AddColor(c Color) error {
	if z.state != stateReady && z.state != stateAccumulating {
		return ErrInvalidState
	}
	if z.added >= z.n {
		return ErrCapacityExceeded
	}

	rgb := Flatten(c, z.cfg.Background)

	ir := int(rgb.R>>3) + 1
	ig := int(rgb.G>>3) + 1
	ib := int(rgb.B>>3) + 1

	if err := z.moments.addColor(ir, ig, ib, rgb.R, rgb.G, rgb.B); err != nil {
		return err
	}

	z.q = append(z.q, uint32(idx(ir, ig, ib)))
	z.colors = append(z.colors, rgb)
	z.markPresent(rgb)

	z.added++
	z.state = stateAccumulating
	return nil
}

func (z *Quantizer) markPresent(c RGB) {
	bit := uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
	z.presence[bit/64] |= 1 << (bit % 64)
}

// DistinctColorCount returns the number of distinct post-flatten RGB
// triples seen so far, via a popcount over the presence bitset rather
// than iterating all 2^24 bits.
func (z *Quantizer) DistinctColorCount() (int, error) {
	if z.state == stateEmpty {
		return 0, ErrInvalidState
	}

	count := 0
	for _, w := range z.presence {
		count += bits.OnesCount64(w)
	}
	return count, nil
}

// BuildPalette runs the moment build, the greedy cube partition, and
// the nearest-neighbor refinement pass, returning the resulting
// palette (K' <= k entries, in cube-creation order). It requires
// exactly N prior AddColor calls and may only be called once per
// instance.
func (z *Quantizer) BuildPalette(k int) ([]RGB, error) {
	if z.state != stateReady && z.state != stateAccumulating {
		return nil, ErrInvalidState
	}
	if z.added != z.n {
		return nil, ErrInvalidState
	}
	if k < 2 || k > 256 {
		return nil, ErrOutOfRange
	}

	z.moments.buildMoments()

	p := newPartitioner(z.moments)
	kPrime := p.partition(k)

	tag := make([]int, cells)
	centroids := make([]RGB, kPrime)
	for i := 0; i < kPrime; i++ {
		mark(p.cubes[i], i, tag)
		centroids[i] = centroidOf(p.cubes[i], z.moments)
	}

	z.palette, z.index = refine(tag, centroids, z.q, z.colors)
	z.cursor = 0
	z.state = statePartitioned

	out := make([]RGB, len(z.palette))
	copy(out, z.palette)
	return out, nil
}

// NextPaletteIndex returns the palette index assigned to the next
// pixel in input order. It must be called exactly N times following
// BuildPalette.
func (z *Quantizer) NextPaletteIndex() (int, error) {
	if z.state != statePartitioned && z.state != stateStreaming {
		return 0, ErrInvalidState
	}
	if z.cursor >= len(z.index) {
		return 0, ErrOutOfRange
	}

	v := z.index[z.cursor]
	z.cursor++
	z.state = stateStreaming
	return v, nil
}

// LookupByColor returns the index of the palette entry nearest rgb in
// squared Euclidean distance, breaking ties toward the lowest index.
// This is separate from the sequential index stream produced by
// NextPaletteIndex, for callers that need to classify an arbitrary
// color against the built palette rather than replay the original
// pixel order.
func (z *Quantizer) LookupByColor(rgb RGB) (int, error) {
	if z.state != statePartitioned && z.state != stateStreaming {
		return 0, ErrInvalidState
	}

	best := 0
	bestDist := refinementSentinelDistance
	for k, p := range z.palette {
		dr := float64(rgb.R) - float64(p.R)
		dg := float64(rgb.G) - float64(p.G)
		db := float64(rgb.B) - float64(p.B)
		d := dr*dr + dg*dg + db*db
		if d < bestDist {
			bestDist = d
			best = k
		}
	}
	return best, nil
}
