package compare

import (
	"sort"
	"strings"

	"github.com/dajobe/rasqal-sub006/results"
)

// blankNodeContext carries the triples needed to compute structural
// signatures for the match-structural blank-node strategy over Bindings
// results. Built once per Compare call from whichever side(s) implement
// results.TripleSource; a bindings Reader that carries no triples (e.g.
// a bare SPARQL-Results-JSON stream) leaves this empty, and
// blankNodesEqual degrades to match-by-id in that case — this strategy
// only gives a stronger guarantee than match-by-id when the comparator
// was also given the originating dataset's triples.
type blankNodeContext struct {
	expectedSig map[string]string
	actualSig   map[string]string
}

func newBlankNodeContext(expected, actual results.Reader) *blankNodeContext {
	bc := &blankNodeContext{expectedSig: map[string]string{}, actualSig: map[string]string{}}
	if src, ok := expected.(results.TripleSource); ok {
		bc.expectedSig = signaturesByNode(src.Triples())
	}
	if src, ok := actual.(results.TripleSource); ok {
		bc.actualSig = signaturesByNode(src.Triples())
	}
	return bc
}

// signaturesByNode computes, for every blank node id mentioned in
// triples, the canonical structural signature: the sorted set of
// (role, predicate, other-term) tuples over every triple mentioning it.
func signaturesByNode(triples []results.Triple) map[string]string {
	parts := map[string][]string{}
	for _, t := range triples {
		if t.Subject.Type == results.TermBnode {
			parts[t.Subject.Value] = append(parts[t.Subject.Value],
				"S\x1f"+t.Predicate.Value+"\x1f"+termKey(t.Object))
		}
		if t.Object.Type == results.TermBnode {
			parts[t.Object.Value] = append(parts[t.Object.Value],
				"O\x1f"+t.Predicate.Value+"\x1f"+termKey(t.Subject))
		}
	}
	out := make(map[string]string, len(parts))
	for id, ps := range parts {
		sort.Strings(ps)
		out[id] = strings.Join(ps, "\x1e")
	}
	return out
}

// termKey renders a term for signature purposes; a blank-node partner is
// rendered as a placeholder rather than its literal id, so the signature
// doesn't depend on arbitrary blank-node naming on either side: two
// graphs that are isomorphic up to blank-node renaming must produce
// identical signatures.
func termKey(t results.Term) string {
	if t.Type == results.TermBnode {
		return "_"
	}
	return t.Type.String() + "\x1f" + t.Value + "\x1f" + t.Datatype + "\x1f" + t.Lang
}

// blankNodesEqual applies the configured strategy to a pair of blank
// node identifiers.
func blankNodesEqual(eID, aID string, strategy BlankNodeStrategy, ctx *blankNodeContext) bool {
	switch strategy {
	case MatchAny:
		return true
	case MatchByID:
		return eID == aID
	case MatchStructural:
		if ctx == nil {
			return eID == aID
		}
		es, eok := ctx.expectedSig[eID]
		as, aok := ctx.actualSig[aID]
		if !eok && !aok {
			return eID == aID
		}
		return es == as
	default:
		return eID == aID
	}
}
