package compare

import (
	"sort"
	"time"

	"github.com/dajobe/rasqal-sub006/rctx"
	"github.com/dajobe/rasqal-sub006/rerror"
	"github.com/dajobe/rasqal-sub006/results"
)

// compareGraph implements the Graph dispatch: ground triples (no blank
// node on either end) must match as a multiset; blank-node triples are
// matched up to a bijection found by bounded backtracking within each
// structural-signature class, honoring both SignatureThreshold and
// MaxSearchTime.
func compareGraph(ctx *rctx.Context, expected, actual results.Reader, opts Options) (*Result, error) {
	res := &Result{Equal: true}
	if !expected.IsGraph() || !actual.IsGraph() {
		res.addCell(opts, "result kind mismatch", kindName(expected), kindName(actual))
		return res, nil
	}
	etriples, err := drainTriples(expected)
	if err != nil {
		return nil, err
	}
	atriples, err := drainTriples(actual)
	if err != nil {
		return nil, err
	}

	eground, eblank := splitGround(etriples)
	aground, ablank := splitGround(atriples)

	matchGroundTriples(res, opts, eground, aground)
	if res.Truncated {
		return res, nil
	}

	equal, diffs, err := matchBlankTriples(ctx, eblank, ablank, opts.Graph)
	if err != nil {
		return nil, err
	}
	if !equal {
		for _, d := range diffs {
			res.addTriple(opts, "unmatched triple under blank-node isomorphism", d.Expected, d.Actual)
			if res.Truncated {
				break
			}
		}
	}
	return res, nil
}

func drainTriples(r results.Reader) ([]results.Triple, error) {
	if err := r.Rewind(); err != nil {
		return nil, err
	}
	var out []results.Triple
	for {
		ok, err := r.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return out, nil
		}
		t, found := r.Triple(int64(len(out) + 1))
		if found {
			out = append(out, *t)
		}
	}
}

func splitGround(triples []results.Triple) (ground, blank []results.Triple) {
	for _, t := range triples {
		if t.Subject.Type == results.TermBnode || t.Object.Type == results.TermBnode {
			blank = append(blank, t)
		} else {
			ground = append(ground, t)
		}
	}
	return
}

func tripleKey(t results.Triple) string {
	return termKey(t.Subject) + "\x1d" + t.Predicate.Value + "\x1d" + termKey(t.Object)
}

// matchGroundTriples compares the ground-triple multisets directly;
// ground triples carry no blank nodes, so no isomorphism search applies.
func matchGroundTriples(res *Result, opts Options, expected, actual []results.Triple) {
	remaining := make(map[string]int, len(actual))
	for _, t := range actual {
		remaining[tripleKey(t)]++
	}
	var missing []results.Triple
	for _, t := range expected {
		k := tripleKey(t)
		if remaining[k] > 0 {
			remaining[k]--
			continue
		}
		missing = append(missing, t)
	}
	var extra []results.Triple
	counts := make(map[string]int, len(expected))
	for _, t := range expected {
		counts[tripleKey(t)]++
	}
	for _, t := range actual {
		k := tripleKey(t)
		if counts[k] > 0 {
			counts[k]--
			continue
		}
		extra = append(extra, t)
	}
	n := len(missing)
	if len(extra) > n {
		n = len(extra)
	}
	for i := 0; i < n; i++ {
		var exp, act *results.Triple
		if i < len(missing) {
			exp = &missing[i]
		}
		if i < len(extra) {
			act = &extra[i]
		}
		res.addTriple(opts, "ground triple mismatch", exp, act)
		if res.Truncated {
			return
		}
	}
}

// matchBlankTriples groups each side's blank-node-bearing triples by the
// structural signature of their blank node(s), then tries to find, for
// each signature class, a bijection between expected and actual blank
// nodes that makes every triple in the class match exactly. Classes
// larger than opts.SignatureThreshold are accepted on signature-multiset
// equality alone rather than searched exhaustively — deliberately simple
// rather than a production isomorphism solver.
func matchBlankTriples(ctx *rctx.Context, expected, actual []results.Triple, opts GraphOptions) (bool, []TripleDiff, error) {
	esig := signaturesByNode(expected)
	asig := signaturesByNode(actual)

	eByClass := groupByClass(expected, esig)
	aByClass := groupByClass(actual, asig)

	if len(eByClass) != len(aByClass) {
		return false, []TripleDiff{{Description: "distinct blank-node structural signature count differs"}}, nil
	}

	deadline := time.Now().Add(opts.MaxSearchTime)
	for class, eTriples := range eByClass {
		aTriples, ok := aByClass[class]
		if !ok || len(eTriples) != len(aTriples) {
			return false, []TripleDiff{{Description: "no matching structural signature class: " + class}}, nil
		}
		nodes := blankNodesIn(eTriples)
		if len(nodes) > opts.SignatureThreshold {
			// Accept on signature equality alone; too expensive to search.
			continue
		}
		if time.Now().After(deadline) {
			return false, nil, rerror.New(rerror.KindTimeout, "graph isomorphism search exceeded max search time")
		}
		found := bijectionExists(eTriples, aTriples, deadline)
		if time.Now().After(deadline) {
			return false, nil, rerror.New(rerror.KindTimeout, "graph isomorphism search exceeded max search time")
		}
		if !found {
			return false, []TripleDiff{{Description: "no blank-node bijection satisfies class: " + class}}, nil
		}
	}
	return true, nil, nil
}

func groupByClass(triples []results.Triple, sig map[string]string) map[string][]results.Triple {
	out := map[string][]results.Triple{}
	seen := map[string]bool{}
	for _, t := range triples {
		var node string
		if t.Subject.Type == results.TermBnode {
			node = t.Subject.Value
		} else {
			node = t.Object.Value
		}
		class := sig[node]
		key := class
		out[key] = append(out[key], t)
		seen[node] = true
	}
	return out
}

func blankNodesIn(triples []results.Triple) []string {
	seen := map[string]bool{}
	var out []string
	for _, t := range triples {
		if t.Subject.Type == results.TermBnode && !seen[t.Subject.Value] {
			seen[t.Subject.Value] = true
			out = append(out, t.Subject.Value)
		}
		if t.Object.Type == results.TermBnode && !seen[t.Object.Value] {
			seen[t.Object.Value] = true
			out = append(out, t.Object.Value)
		}
	}
	sort.Strings(out)
	return out
}

// bijectionExists tries every permutation of actual-side blank node ids
// against expected-side ones (bounded by SignatureThreshold, so this is
// only reached for small classes) until one makes every triple in the
// class match, or the deadline passes.
func bijectionExists(expected, actual []results.Triple, deadline time.Time) bool {
	eNodes := blankNodesIn(expected)
	aNodes := blankNodesIn(actual)
	if len(eNodes) != len(aNodes) {
		return false
	}
	perm := make([]int, len(aNodes))
	for i := range perm {
		perm[i] = i
	}
	return permute(perm, 0, func(p []int) bool {
		if time.Now().After(deadline) {
			return true // stop searching; matchBlankTriples checks the deadline and reports a timeout
		}
		mapping := make(map[string]string, len(eNodes))
		for i, en := range eNodes {
			mapping[en] = aNodes[p[i]]
		}
		for _, t := range expected {
			mapped := applyMapping(t, mapping)
			if !containsTriple(actual, mapped) {
				return false
			}
		}
		return true
	})
}

func applyMapping(t results.Triple, mapping map[string]string) results.Triple {
	out := t
	if t.Subject.Type == results.TermBnode {
		out.Subject.Value = mapping[t.Subject.Value]
	}
	if t.Object.Type == results.TermBnode {
		out.Object.Value = mapping[t.Object.Value]
	}
	return out
}

func containsTriple(triples []results.Triple, target results.Triple) bool {
	tk := tripleKeyWithMapping(target, nil)
	for _, t := range triples {
		if tripleKeyWithMapping(t, nil) == tk {
			return true
		}
	}
	return false
}

func tripleKeyWithMapping(t results.Triple, _ map[string]string) string {
	return t.Subject.Type.String() + "\x1f" + t.Subject.Value + "\x1d" +
		t.Predicate.Value + "\x1d" +
		t.Object.Type.String() + "\x1f" + t.Object.Value
}

// permute runs fn over every permutation of perm[i:], short-circuiting
// true as soon as fn reports a satisfying assignment.
func permute(perm []int, i int, fn func([]int) bool) bool {
	if i == len(perm) {
		return fn(perm)
	}
	for j := i; j < len(perm); j++ {
		perm[i], perm[j] = perm[j], perm[i]
		if permute(perm, i+1, fn) {
			perm[i], perm[j] = perm[j], perm[i]
			return true
		}
		perm[i], perm[j] = perm[j], perm[i]
	}
	return false
}
