// Prefsim - Memory-Based Collaborative Filtering
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/prefsim

package dataset

// AliasResolver maps raw identifiers to display labels, redirecting
// misspelled or duplicate identifiers through an alias table first.
type AliasResolver struct {
	labels  map[string]string
	aliases map[string]string
}

// NewAliasResolver creates a resolver from id→label and badID→goodID tables.
// Either map may be nil.
func NewAliasResolver(labels, aliases map[string]string) *AliasResolver {
	return &AliasResolver{labels: labels, aliases: aliases}
}

// Resolve returns the label for raw. An identifier without a label is looked
// up in the alias table and its canonical label returned; anything else comes
// back unchanged. A nil resolver returns raw.
func (r *AliasResolver) Resolve(raw string) string {
	if r == nil {
		return raw
	}
	if label, ok := r.labels[raw]; ok {
		return label
	}
	if good, ok := r.aliases[raw]; ok {
		if label, ok := r.labels[good]; ok {
			return label
		}
		return good
	}
	return raw
}

// Len returns the number of labelled identifiers and aliases.
func (r *AliasResolver) Len() (labels, aliases int) {
	if r == nil {
		return 0, 0
	}
	return len(r.labels), len(r.aliases)
}
