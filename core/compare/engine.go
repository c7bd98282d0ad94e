package compare

import (
	"cmp"
	"fmt"
	"slices"
	"sort"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
)

// DefaultDisplayKeyLimit is the key length, in characters, above which a
// synthetic label is shown.
const DefaultDisplayKeyLimit = 100

// Options configures an Engine. Zero values fall back to defaults.
type Options struct {
	// DisplayKeyLimit is the longest composite key shown verbatim.
	DisplayKeyLimit int

	// Now stamps results. Defaults to time.Now.
	Now func() time.Time

	// Logger receives debug output. Defaults to a no-op logger.
	Logger *zap.Logger
}

// Engine aligns two record sets by key and reports their differences.
// It holds no mutable state and is safe for concurrent use.
type Engine struct {
	displayKeyLimit int
	now             func() time.Time
	logger          *zap.Logger
}

// New creates an engine from opts.
func New(opts Options) *Engine {
	e := &Engine{
		displayKeyLimit: opts.DisplayKeyLimit,
		now:             opts.Now,
		logger:          opts.Logger,
	}
	if e.displayKeyLimit <= 0 {
		e.displayKeyLimit = DefaultDisplayKeyLimit
	}
	if e.now == nil {
		e.now = time.Now
	}
	if e.logger == nil {
		e.logger = zap.NewNop()
	}
	return e
}

var defaultEngine = New(Options{})

// Compare runs in with default options.
func Compare(in Input) *Result {
	return defaultEngine.Compare(in)
}

// Compare indexes both sides, classifies every key of their union and
// returns the ordered result. Non-matching records come first; each group is
// sorted by display key.
func (e *Engine) Compare(in Input) *Result {
	e.logger.Debug("Starting comparison",
		zap.String("source_a", in.SourceAName),
		zap.String("source_b", in.SourceBName),
		zap.Int("records_a", len(in.RecordsA)),
		zap.Int("records_b", len(in.RecordsB)),
	)

	indexA := Index(in.RecordsA, in.KeyFields)
	indexB := Index(in.RecordsB, in.KeyFields)

	keys := unionKeys(indexA, indexB)

	var summary Summary
	records := make([]Comparison, 0, len(keys))

	for i, key := range keys {
		recA, inA := indexA[key]
		recB, inB := indexB[key]

		c := Comparison{
			DisplayKey:  e.displayKey(key, i+1),
			Differences: []FieldDifference{},
		}

		switch {
		case inA && inB:
			c.DataA, c.DataB = &recA, &recB
			c.Differences = DiffFields(recA, recB, in.CompareFields)
			if len(c.Differences) > 0 {
				c.Status = StatusDiffer
				summary.Differing++
			} else {
				c.Status = StatusMatch
				summary.Matching++
			}
		case inA:
			c.DataA = &recA
			c.Status = StatusOnlyInSourceA
			summary.OnlyInA++
		default:
			c.DataB = &recB
			c.Status = StatusOnlyInSourceB
			summary.OnlyInB++
		}

		records = append(records, c)
	}

	summary.Total = summary.Matching + summary.Differing + summary.OnlyInA + summary.OnlyInB

	slices.SortStableFunc(records, func(a, b Comparison) int {
		aMatch, bMatch := a.Status == StatusMatch, b.Status == StatusMatch
		if aMatch != bMatch {
			if aMatch {
				return 1
			}
			return -1
		}
		return cmp.Compare(a.DisplayKey, b.DisplayKey)
	})

	e.logger.Debug("Comparison complete",
		zap.Int("matching", summary.Matching),
		zap.Int("differing", summary.Differing),
		zap.Int("only_in_a", summary.OnlyInA),
		zap.Int("only_in_b", summary.OnlyInB),
	)

	return &Result{
		SourceAName: in.SourceAName,
		SourceBName: in.SourceBName,
		Timestamp:   e.now().Format(time.RFC3339),
		Summary:     summary,
		Records:     records,
	}
}

// displayKey returns key itself, or a positional label when key is too long
// to be readable. position is stable because keys are visited in sorted order.
func (e *Engine) displayKey(key string, position int) string {
	if utf8.RuneCountInString(key) > e.displayKeyLimit {
		return fmt.Sprintf("Row #%d", position)
	}
	return key
}

// unionKeys returns every key of both indices once, sorted.
func unionKeys(a, b map[string]Record) []string {
	union := make(map[string]struct{}, len(a)+len(b))
	for key := range a {
		union[key] = struct{}{}
	}
	for key := range b {
		union[key] = struct{}{}
	}

	keys := make([]string, 0, len(union))
	for key := range union {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
