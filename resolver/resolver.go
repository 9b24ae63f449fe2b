package resolver

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/theoremus-urban-solutions/transit-query-resolver/extract"
	"github.com/theoremus-urban-solutions/transit-query-resolver/fuzzymatch"
	"github.com/theoremus-urban-solutions/transit-query-resolver/gazetteer"
)

const defaultAmbiguityMargin = 0.03

// Options carries the tunable thresholds. Zero values take the defaults.
type Options struct {
	// MinConfidence is the acceptance bar for fuzzy candidates. It can only
	// raise the matcher's own floor, never lower it.
	MinConfidence float64
	// AmbiguityMargin is the dominance gap: the best candidate must lead
	// the runner-up by at least this much or the query is ambiguous.
	AmbiguityMargin float64
}

// Resolver turns inbound messages into validated requests. It holds only
// immutable collaborators and is safe for concurrent use.
type Resolver struct {
	idx           *gazetteer.Index
	graph         TopologyIndex
	scorer        Scorer
	locator       StopLocator
	extractor     *extract.Extractor
	minConfidence float64
	margin        float64
	logger        *zap.Logger
}

func New(idx *gazetteer.Index, graph TopologyIndex, scorer Scorer, locator StopLocator, ex *extract.Extractor, opts Options, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.MinConfidence == 0 {
		opts.MinConfidence = fuzzymatch.Floor
	}
	if opts.AmbiguityMargin == 0 {
		opts.AmbiguityMargin = defaultAmbiguityMargin
	}
	return &Resolver{
		idx:           idx,
		graph:         graph,
		scorer:        scorer,
		locator:       locator,
		extractor:     ex,
		minConfidence: opts.MinConfidence,
		margin:        opts.AmbiguityMargin,
		logger:        logger,
	}
}

// Resolve turns one message into a validated request or a typed *Failure.
// Anything else returned as error is infrastructural: an unknown mode,
// context cancellation, or an internal fault. Resolution performs no
// writes, so the same message always yields the same answer against an
// unchanged gazetteer.
func (r *Resolver) Resolve(ctx context.Context, msg Message) (res *ResolvedRequest, err error) {
	mode, merr := gazetteer.ParseMode(string(msg.Mode))
	if merr != nil {
		return nil, merr
	}
	msg.Mode = mode

	defer func() {
		if p := recover(); p != nil {
			r.logger.Error("resolution panicked",
				zap.Any("panic", p),
				zap.String("text", msg.Text))
			res, err = nil, fmt.Errorf("internal error resolving message")
		}
	}()

	pr := r.extractor.Extract(msg.Text, mode)
	res, err = r.disambiguate(ctx, msg, pr)
	if err != nil {
		var f *Failure
		if errors.As(err, &f) {
			// Semantic failures are expected outcomes, not faults.
			r.logger.Debug("resolution failed",
				zap.String("kind", string(f.Kind)),
				zap.String("mode", string(msg.Mode)),
				zap.String("text", msg.Text))
		}
		return nil, err
	}

	r.logger.Debug("resolved",
		zap.String("mode", string(res.Mode)),
		zap.String("line", res.LineID),
		zap.String("stop", res.StopID))
	return res, nil
}
