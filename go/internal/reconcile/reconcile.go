package reconcile

import (
	"sort"

	"github.com/rs/zerolog/log"
	"github.com/sahilm/fuzzy"
)

// Candidate is a player as seen by one data source.
type Candidate struct {
	ID       string
	Name     string
	Position string
	Team     string
}

// Mapping translates provider player ids into projection ids. It is built
// once and read-only afterwards.
type Mapping struct {
	byProvider map[string]string
	fuzzy      int
	unmatched  []string
}

// Build matches every provider candidate against the projection set.
// Matching runs in three passes: normalized name + position, normalized
// name alone when the position is unique, then a fuzzy subsequence match
// within the same position that must agree on last name.
func Build(provider, projections []Candidate) *Mapping {
	m := &Mapping{byProvider: make(map[string]string, len(provider))}

	byKey := make(map[string][]Candidate)
	byPos := make(map[string][]Candidate)
	for _, p := range projections {
		key := NormalizeName(p.Name)
		if key == "" {
			continue
		}
		byKey[key] = append(byKey[key], p)
		byPos[p.Position] = append(byPos[p.Position], p)
	}

	names := make(map[string][]string, len(byPos))
	for pos, cands := range byPos {
		sort.Slice(cands, func(i, j int) bool { return cands[i].ID < cands[j].ID })
		byPos[pos] = cands
		for _, c := range cands {
			names[pos] = append(names[pos], NormalizeName(c.Name))
		}
	}

	sorted := append([]Candidate(nil), provider...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	for _, p := range sorted {
		key := NormalizeName(p.Name)
		if key == "" {
			m.unmatched = append(m.unmatched, p.ID)
			continue
		}

		if id, ok := exactMatch(byKey[key], p.Position); ok {
			m.byProvider[p.ID] = id
			continue
		}

		if id, ok := fuzzyMatch(key, names[p.Position], byPos[p.Position]); ok {
			m.byProvider[p.ID] = id
			m.fuzzy++
			continue
		}
		m.unmatched = append(m.unmatched, p.ID)
	}

	log.Info().
		Int("matched", len(m.byProvider)).
		Int("fuzzy", m.fuzzy).
		Int("unmatched", len(m.unmatched)).
		Msg("built player id mapping")
	return m
}

func exactMatch(cands []Candidate, position string) (string, bool) {
	var samePos []Candidate
	for _, c := range cands {
		if c.Position == position {
			samePos = append(samePos, c)
		}
	}
	switch {
	case len(samePos) == 1:
		return samePos[0].ID, true
	case len(samePos) == 0 && len(cands) == 1 && position == "":
		return cands[0].ID, true
	}
	return "", false
}

func fuzzyMatch(key string, names []string, cands []Candidate) (string, bool) {
	if len(names) == 0 {
		return "", false
	}
	matches := fuzzy.Find(key, names)
	if len(matches) == 0 {
		return "", false
	}
	best := matches[0]
	if lastName(best.Str) != lastName(key) {
		return "", false
	}
	// Two equally good candidates is a coin flip; refuse it.
	if len(matches) > 1 && matches[1].Score == best.Score && lastName(matches[1].Str) == lastName(key) {
		return "", false
	}
	return cands[best.Index].ID, true
}

// ProjectionID returns the projection id for a provider id. Unknown ids are
// returned unchanged so that sources sharing an id space need no mapping.
func (m *Mapping) ProjectionID(providerID string) string {
	if m == nil {
		return providerID
	}
	if id, ok := m.byProvider[providerID]; ok {
		return id
	}
	return providerID
}

// Lookup reports whether providerID was matched.
func (m *Mapping) Lookup(providerID string) (string, bool) {
	if m == nil {
		return "", false
	}
	id, ok := m.byProvider[providerID]
	return id, ok
}

func (m *Mapping) Len() int {
	if m == nil {
		return 0
	}
	return len(m.byProvider)
}

// Unmatched lists provider ids with no projection counterpart.
func (m *Mapping) Unmatched() []string {
	if m == nil {
		return nil
	}
	return append([]string(nil), m.unmatched...)
}
