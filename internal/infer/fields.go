// Package infer contains the schema-tolerant inference engine: pure
// functions that resolve business attributes from documents whose shape
// varies, and the heuristics built on top of them (power rating, pack size,
// tax base, invoice status). Every resolver is an ordered list of strategies
// tried first-success-wins.
package infer

import "vendido/internal/domain"

// lookup probes one representation of a record for a key. The second return
// is false when the representation is absent or does not carry the key.
type lookup func(rec domain.Record, key string) (any, bool)

// representations lists the shapes a document attribute may hide in, in
// resolution order: top-level key, nested "attributes" map, "customFields"
// as a map, "customFields" as a list of {field, value} pairs.
var representations = []lookup{
	lookupFlat,
	lookupAttributes,
	lookupCustomFieldsMap,
	lookupCustomFieldsList,
}

// Resolve returns the value of the first candidate attribute found with a
// non-empty value in any representation of rec, or def when nothing matches.
// Empty strings, nils and empty slices count as absent. The input record is
// never mutated.
func Resolve(rec domain.Record, candidates []string, def any) any {
	if rec == nil {
		return def
	}
	for _, key := range candidates {
		for _, look := range representations {
			if v, ok := look(rec, key); ok && !domain.IsEmptyValue(v) {
				return v
			}
		}
	}
	return def
}

// ResolveString resolves a candidate attribute as a trimmed string, "" when
// absent.
func ResolveString(rec domain.Record, candidates []string) string {
	return domain.ToString(Resolve(rec, candidates, nil))
}

// ResolveFloat resolves a candidate attribute and coerces it to float64.
// A value that is present but not numeric counts as absent.
func ResolveFloat(rec domain.Record, candidates []string) (float64, bool) {
	v := Resolve(rec, candidates, nil)
	if v == nil {
		return 0, false
	}
	return domain.ToFloat(v)
}

func lookupFlat(rec domain.Record, key string) (any, bool) {
	v, ok := rec[key]
	return v, ok
}

func lookupAttributes(rec domain.Record, key string) (any, bool) {
	attrs, ok := rec["attributes"].(map[string]any)
	if !ok {
		return nil, false
	}
	v, ok := attrs[key]
	return v, ok
}

func lookupCustomFieldsMap(rec domain.Record, key string) (any, bool) {
	cfs, ok := rec["customFields"].(map[string]any)
	if !ok {
		return nil, false
	}
	v, ok := cfs[key]
	return v, ok
}

func lookupCustomFieldsList(rec domain.Record, key string) (any, bool) {
	cfs, ok := rec["customFields"].([]any)
	if !ok {
		return nil, false
	}
	for _, entry := range cfs {
		pair, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		if domain.ToString(pair["field"]) == key {
			return pair["value"], true
		}
	}
	return nil, false
}
