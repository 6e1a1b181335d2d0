package pointmatch

import (
	"github.com/morphkit/pointmatch/index"
	"github.com/morphkit/pointmatch/index/kd"
)

// DefaultK is the neighborhood size used for orientation estimation when no
// explicit value is configured. It suits clouds in the low thousands of
// points; smaller, sparser clouds benefit from a smaller k.
const DefaultK = 20

type options struct {
	k        int
	builder  index.Builder
	logger   *Logger
	tangents []Point
	alpha    []float64
}

// Option configures cloud construction.
type Option func(*options)

// WithK sets the neighborhood size used for orientation estimation.
func WithK(k int) Option {
	return func(o *options) {
		o.k = k
	}
}

// WithIndexBuilder selects the nearest-neighbor backend for this cloud.
// The default is the kd-tree backend; the flat backend trades precision for
// a simpler scan. Backend choice never changes results beyond floating
// reproducibility.
func WithIndexBuilder(b index.Builder) Option {
	return func(o *options) {
		if b == nil {
			b = kd.Builder
		}
		o.builder = b
	}
}

// WithOrientation supplies per-point tangent vectors and confidence values
// directly, bypassing estimation. Tangents must be unit length within
// tolerance and confidence values must lie in [0,1].
func WithOrientation(tangents []Point, alpha []float64) Option {
	return func(o *options) {
		o.tangents = tangents
		o.alpha = alpha
	}
}

// WithLogger configures structured logging for cloud operations.
// Pass nil to disable logging.
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		k:       DefaultK,
		builder: kd.Builder,
		logger:  NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
