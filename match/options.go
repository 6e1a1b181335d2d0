package match

import (
	"math"

	"github.com/morphkit/pointmatch"
)

type options[ID comparable] struct {
	threshold float64
	labels    map[ID][]string
	known     map[ID]ID
	oneToOne  bool
	penalty   float64
	maxRounds int
	logger    *pointmatch.Logger
}

// Option configures a single Match call. Each constraint is explicit,
// strongly-typed data keyed by the matrix's identifier type.
type Option[ID comparable] func(*options[ID])

// WithThreshold forbids every pair scoring strictly below min.
func WithThreshold[ID comparable](min float64) Option[ID] {
	return func(o *options[ID]) {
		o.threshold = min
	}
}

// WithLabels forbids any pair whose identifiers carry different label sets,
// even when the pair's score is good. Identifiers absent from the map carry
// the empty label set, so two unlabeled identifiers remain compatible while
// an unlabeled one is incompatible with any labeled one.
func WithLabels[ID comparable](labels map[ID][]string) Option[ID] {
	return func(o *options[ID]) {
		o.labels = labels
	}
}

// WithKnownMatches forces specific row-to-column pairs into the assignment,
// overriding scores and thresholds. Conflicting forced pairs make the
// assignment infeasible, which Match reports as a hard error.
func WithKnownMatches[ID comparable](known map[ID]ID) Option[ID] {
	return func(o *options[ID]) {
		o.known = known
	}
}

// OneToMany relaxes the default one-to-one constraint: identifiers on the
// smaller axis may be matched repeatedly via iterative duplication, with
// every clone's scores uniformly reduced by penalty (a column cloned twice
// is penalized twice).
func OneToMany[ID comparable](penalty float64) Option[ID] {
	return func(o *options[ID]) {
		o.oneToOne = false
		o.penalty = penalty
	}
}

// WithMaxRematchRounds caps the axis alternations of one-to-many
// rematching. The default cap is rows+cols of the input matrix; when the
// cap is hit the returned Result carries Complete=false instead of looping
// further.
func WithMaxRematchRounds[ID comparable](n int) Option[ID] {
	return func(o *options[ID]) {
		o.maxRounds = n
	}
}

// WithLogger configures structured logging for the match run.
// Pass nil to disable logging.
func WithLogger[ID comparable](logger *pointmatch.Logger) Option[ID] {
	return func(o *options[ID]) {
		if logger == nil {
			logger = pointmatch.NoopLogger()
		}
		o.logger = logger
	}
}

func applyOptions[ID comparable](optFns []Option[ID]) options[ID] {
	o := options[ID]{
		threshold: math.Inf(-1),
		oneToOne:  true,
		logger:    pointmatch.NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
