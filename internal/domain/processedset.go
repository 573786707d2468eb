package domain

import "sort"

// ProcessedSet is the deduplication ledger: the set of document refs already
// reported in a prior run. Membership is set-based; growth is unbounded
// unless externally pruned.
type ProcessedSet map[string]struct{}

// NewProcessedSet builds a set from a list of refs, dropping duplicates and
// empties.
func NewProcessedSet(refs []string) ProcessedSet {
	s := make(ProcessedSet, len(refs))
	for _, ref := range refs {
		if ref != "" {
			s[ref] = struct{}{}
		}
	}
	return s
}

// Contains reports whether ref is already in the ledger.
func (s ProcessedSet) Contains(ref string) bool {
	_, ok := s[ref]
	return ok
}

// Diff returns the documents of batch whose ref is not yet in the ledger.
func (s ProcessedSet) Diff(batch []Record) []Record {
	var fresh []Record
	for _, doc := range batch {
		if !s.Contains(doc.Ref()) {
			fresh = append(fresh, doc)
		}
	}
	return fresh
}

// Merge returns the union of the ledger and the refs of batch. The result is
// always a superset of the receiver; merging the same batch twice is a
// no-op.
func (s ProcessedSet) Merge(batch []Record) ProcessedSet {
	merged := make(ProcessedSet, len(s)+len(batch))
	for ref := range s {
		merged[ref] = struct{}{}
	}
	for _, doc := range batch {
		if ref := doc.Ref(); ref != "-" && ref != "" {
			merged[ref] = struct{}{}
		}
	}
	return merged
}

// Refs returns the set contents as a sorted slice, the persisted snapshot
// form.
func (s ProcessedSet) Refs() []string {
	refs := make([]string, 0, len(s))
	for ref := range s {
		refs = append(refs, ref)
	}
	sort.Strings(refs)
	return refs
}
