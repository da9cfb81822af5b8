package navigation

import (
	"fmt"
	"sort"

	"github.com/wayguard/wayguard/internal/routing"
)

// Classify reduces a non-empty set of candidate paths to exactly three
// labeled route options ranked by distance. The UI always offers a three-way
// choice; when the provider returns fewer than three distinct paths the
// missing slots are filled by duplicating existing candidates rather than
// hiding the degenerate case:
//
//   - one candidate: all three options share its geometry
//   - two candidates: the medial option duplicates the shortest
//   - three or more: shortest, the sorted middle (index n/2), and longest
//
// Ties in distance keep input order; duration is not a tie-break key. The
// shortest option is pre-selected. An empty candidate list is an error, never
// a malformed result.
func Classify(candidates []routing.CandidatePath) (*Classification, error) {
	if len(candidates) == 0 {
		return nil, ErrNoCandidates
	}

	sorted := make([]routing.CandidatePath, len(candidates))
	copy(sorted, candidates)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].DistanceMeters < sorted[j].DistanceMeters
	})

	n := len(sorted)
	var shortest, medial, longest routing.CandidatePath
	switch n {
	case 1:
		shortest, medial, longest = sorted[0], sorted[0], sorted[0]
	case 2:
		// The duplicate is always of the shortest, so "Shortest Way" and
		// "Medial Way" share identical geometry.
		shortest, medial, longest = sorted[0], sorted[0], sorted[1]
	default:
		shortest, medial, longest = sorted[0], sorted[n/2], sorted[n-1]
	}

	options := []RouteOption{
		newOption(0, RankShortest, shortest),
		newOption(1, RankMedial, medial),
		newOption(2, RankLongest, longest),
	}

	return &Classification{
		Options:    options,
		SelectedID: options[0].ID,
	}, nil
}

// newOption builds a labeled option from a candidate. Ids are positional and
// unique only within one classification result.
func newOption(position int, rank RankClass, path routing.CandidatePath) RouteOption {
	return RouteOption{
		ID:          fmt.Sprintf("opt_%d", position),
		Label:       rank.Label(),
		Rank:        rank,
		DistanceKm:  path.DistanceMeters / 1000,
		DurationMin: path.DurationSeconds / 60,
		Polyline:    path.Polyline,
	}
}
