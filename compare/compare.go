// Package compare implements the results comparison engine: bindings
// equality with configurable ordering and blank-node policies, boolean
// equality, and a graph-isomorphism dispatch for graph results. Compare
// routes a structured outcome out of the call rather than a bare bool: a
// Result carrying a ranked, capped list of differences.
package compare

import (
	"time"

	"github.com/dajobe/rasqal-sub006/literal"
	"github.com/dajobe/rasqal-sub006/rctx"
	"github.com/dajobe/rasqal-sub006/rerror"
	"github.com/dajobe/rasqal-sub006/results"
)

// BlankNodeStrategy selects how two blank nodes from independent sources
// are judged equal.
type BlankNodeStrategy int

const (
	// MatchAny treats any two blank nodes as equal regardless of identity.
	MatchAny BlankNodeStrategy = iota
	// MatchByID compares blank node identifiers byte-for-byte.
	MatchByID
	// MatchStructural compares a canonical structural signature derived
	// from every triple mentioning the node across both inputs.
	MatchStructural
)

// GraphOptions bounds the graph-isomorphism dispatch.
type GraphOptions struct {
	// SignatureThreshold caps how large a same-signature blank-node
	// class may grow before the backtracking prover gives up searching
	// permutations within it and accepts the class as matched on
	// signature equality alone (see graphiso.go).
	SignatureThreshold int
	// MaxSearchTime is the wall-clock bound the graph-isomorphism search
	// honors; no other comparison stage is time-bounded.
	MaxSearchTime time.Duration
}

// DefaultGraphOptions matches the CLI's documented defaults.
var DefaultGraphOptions = GraphOptions{SignatureThreshold: 8, MaxSearchTime: 10 * time.Second}

// Options configures one Compare call.
type Options struct {
	OrderSensitive     bool
	BlankNodeStrategy  BlankNodeStrategy
	LiteralFlags       literal.CompareFlags
	MaxDifferences     int
	Graph              GraphOptions
}

// DefaultOptions matches the CLI's documented defaults: order
// insensitive, match-any blank nodes, SPARQL URI-aware literal comparison,
// unlimited differences reported.
var DefaultOptions = Options{
	BlankNodeStrategy: MatchAny,
	LiteralFlags:      literal.DefaultCompareFlags,
	MaxDifferences:    0,
	Graph:             DefaultGraphOptions,
}

func (o Options) maxDiffs() int {
	if o.MaxDifferences <= 0 {
		return int(^uint(0) >> 1) // unlimited
	}
	return o.MaxDifferences
}

// CellDiff is one bindings-level difference.
type CellDiff struct {
	Description string
	Expected    string
	Actual      string
}

// TripleDiff is one graph-level difference.
type TripleDiff struct {
	Description string
	Expected    *results.Triple
	Actual      *results.Triple
}

// Result is the outcome of one Compare call. Ownership of its slices is
// fully transferred to the caller.
type Result struct {
	Equal       bool
	CellDiffs   []CellDiff
	TripleDiffs []TripleDiff
	// Truncated reports whether MaxDifferences was reached before every
	// difference could be recorded.
	Truncated bool
}

func (r *Result) addCell(opts Options, description, expected, actual string) {
	r.Equal = false
	if len(r.CellDiffs) >= opts.maxDiffs() {
		r.Truncated = true
		return
	}
	r.CellDiffs = append(r.CellDiffs, CellDiff{Description: description, Expected: expected, Actual: actual})
}

func (r *Result) addTriple(opts Options, description string, expected, actual *results.Triple) {
	r.Equal = false
	if len(r.TripleDiffs) >= opts.maxDiffs() {
		r.Truncated = true
		return
	}
	r.TripleDiffs = append(r.TripleDiffs, TripleDiff{Description: description, Expected: expected, Actual: actual})
}

// Compare determines equality of expected vs actual under opts, dispatching
// on result kind.
func Compare(ctx *rctx.Context, expected, actual results.Reader, opts Options) (*Result, error) {
	switch {
	case expected.IsBoolean() || actual.IsBoolean():
		return compareBoolean(expected, actual, opts)
	case expected.IsGraph() || actual.IsGraph():
		return compareGraph(ctx, expected, actual, opts)
	default:
		return compareBindings(ctx, expected, actual, opts)
	}
}

func compareBoolean(expected, actual results.Reader, opts Options) (*Result, error) {
	res := &Result{Equal: true}
	if !expected.IsBoolean() || !actual.IsBoolean() {
		res.addCell(opts, "result kind mismatch", kindName(expected), kindName(actual))
		return res, nil
	}
	ev, err := expected.Boolean()
	if err != nil {
		return nil, rerror.Wrap(err, "reading expected boolean")
	}
	av, err := actual.Boolean()
	if err != nil {
		return nil, rerror.Wrap(err, "reading actual boolean")
	}
	if ev != av {
		res.addCell(opts, "boolean value", boolStr(ev), boolStr(av))
	}
	return res, nil
}

func boolStr(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

func kindName(r results.Reader) string {
	switch {
	case r.IsBoolean():
		return "boolean"
	case r.IsGraph():
		return "graph"
	default:
		return "bindings"
	}
}
