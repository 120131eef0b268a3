package algorithms

import (
	"slices"

	"gonum.org/v1/gonum/floats"

	"github.com/neurofit/optimizer/pkg/multiobjective/framework"
)

// HallOfFame keeps the best individuals seen during a run. By default it
// holds every non-dominated individual. A bounded hall of fame instead holds
// the individuals with the lowest summed objectives, oriented for
// minimization, best first.
type HallOfFame struct {
	sense   framework.Sense
	maxSize int
	members []framework.Individual
}

func NewHallOfFame(sense framework.Sense) *HallOfFame {
	return &HallOfFame{sense: sense}
}

// NewBestHallOfFame returns a hall of fame holding at most size individuals.
// A size of zero or less gives the non-dominated hall of fame.
func NewBestHallOfFame(sense framework.Sense, size int) *HallOfFame {
	return &HallOfFame{sense: sense, maxSize: max(size, 0)}
}

// Update merges population into the hall of fame.
func (h *HallOfFame) Update(population []framework.Individual) {
	for _, ind := range population {
		if h.maxSize > 0 {
			h.insertBest(ind)
		} else {
			h.insertNonDominated(ind)
		}
	}
}

// insertNonDominated drops the members ind dominates. ind is skipped when a
// member dominates it or has the same objectives.
func (h *HallOfFame) insertNonDominated(ind framework.Individual) {
	candidate := h.sense.Orient(ind.Objectives)

	dominated := false
	kept := h.members[:0]
	for _, m := range h.members {
		member := h.sense.Orient(m.Objectives)
		if dominated || framework.DominatesPoint(member, candidate) || slices.Equal(member, candidate) {
			dominated = true
			kept = append(kept, m)
			continue
		}
		if !framework.DominatesPoint(candidate, member) {
			kept = append(kept, m)
		}
	}
	h.members = kept
	if !dominated {
		h.members = append(h.members, ind.Clone())
	}
}

// insertBest keeps the members sorted by score. ind is skipped when a member
// has the same variables, or when the hall of fame is full and ind does not
// beat the worst member.
func (h *HallOfFame) insertBest(ind framework.Individual) {
	for _, m := range h.members {
		if slices.Equal(m.Variables, ind.Variables) {
			return
		}
	}
	score := h.score(ind)
	if len(h.members) == h.maxSize {
		if score >= h.score(h.members[len(h.members)-1]) {
			return
		}
		h.members = h.members[:len(h.members)-1]
	}

	at := len(h.members)
	for i, m := range h.members {
		if score < h.score(m) {
			at = i
			break
		}
	}
	h.members = slices.Insert(h.members, at, ind.Clone())
}

func (h *HallOfFame) score(ind framework.Individual) float64 {
	return floats.Sum(h.sense.Orient(ind.Objectives))
}

// Members returns a copy of the hall of fame.
func (h *HallOfFame) Members() []framework.Individual {
	out := make([]framework.Individual, len(h.members))
	for i := range h.members {
		out[i] = h.members[i].Clone()
	}
	return out
}

func (h *HallOfFame) Len() int {
	return len(h.members)
}
