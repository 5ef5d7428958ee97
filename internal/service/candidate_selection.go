package service

import (
	"sort"
	"strings"

	"github.com/samber/lo"

	"github.com/noah-isme/hcw-deploy-api/internal/models"
)

const (
	competencyMatchPoints = 70
	availabilityPoints    = 30
	maxMatchScore         = 100

	highReadinessScore   = 80
	mediumReadinessScore = 50
)

// heldCompetencies maps worker ID to the competencies (ID to name) they hold.
type heldCompetencies map[string]map[string]string

func indexTrainings(rows []models.WorkerTraining) heldCompetencies {
	held := make(heldCompetencies)
	for _, row := range rows {
		if held[row.WorkerID] == nil {
			held[row.WorkerID] = make(map[string]string)
		}
		held[row.WorkerID][row.CompetencyID] = row.CompetencyName
	}
	return held
}

// eligibilityCriteria is the normalised form of a staffing request's position and competency lists.
type eligibilityCriteria struct {
	positions     []string
	competencyIDs []string
}

func newEligibilityCriteria(positions, competencyIDs []string) eligibilityCriteria {
	clean := func(values []string) []string {
		trimmed := lo.Map(values, func(v string, _ int) string { return strings.TrimSpace(v) })
		return lo.Uniq(lo.Filter(trimmed, func(v string, _ int) bool { return v != "" }))
	}
	return eligibilityCriteria{positions: clean(positions), competencyIDs: clean(competencyIDs)}
}

// matchPosition returns the first requested position that is a case-insensitive substring of position.
// With no requested positions every position matches and the returned label is empty.
func (c eligibilityCriteria) matchPosition(position string) (string, bool) {
	if len(c.positions) == 0 {
		return "", true
	}
	lowered := strings.ToLower(position)
	for _, p := range c.positions {
		if strings.Contains(lowered, strings.ToLower(p)) {
			return p, true
		}
	}
	return "", false
}

// holdsAny reports whether the worker holds at least one requested competency.
// With no requested competencies the check passes.
func (c eligibilityCriteria) holdsAny(held map[string]string) bool {
	if len(c.competencyIDs) == 0 {
		return true
	}
	for _, id := range c.competencyIDs {
		if _, ok := held[id]; ok {
			return true
		}
	}
	return false
}

// filterEligible keeps active workers matching any requested position and holding any requested competency.
// District never filters. The input slice is not modified.
func filterEligible(workers []models.CandidateWorker, held heldCompetencies, c eligibilityCriteria) []models.CandidateWorker {
	return lo.Filter(workers, func(w models.CandidateWorker, _ int) bool {
		if !w.IsActive {
			return false
		}
		if _, ok := c.matchPosition(w.Position); !ok {
			return false
		}
		return c.holdsAny(held[w.ID])
	})
}

// competencyScore takes the best match over the requested set. Each requested competency is worth the
// full weight when held, so the best match is either the full weight or zero.
func competencyScore(held map[string]string, requested []string) int {
	best := 0
	for _, id := range requested {
		if _, ok := held[id]; ok && competencyMatchPoints > best {
			best = competencyMatchPoints
		}
	}
	return best
}

func availabilityScore(latest *models.AvailabilityRecord) int {
	if latest != nil && latest.Status == models.AvailabilityAvailable {
		return availabilityPoints
	}
	return 0
}

func readinessTier(score int) models.ReadinessTier {
	switch {
	case score >= highReadinessScore:
		return models.ReadinessHigh
	case score >= mediumReadinessScore:
		return models.ReadinessMedium
	default:
		return models.ReadinessLow
	}
}

func districtProximity(w models.CandidateWorker, outbreakDistrictID string) models.DistrictProximity {
	if w.FacilityDistrictID != nil && *w.FacilityDistrictID == outbreakDistrictID {
		return models.SameDistrict
	}
	return models.DifferentDistrict
}

// scoreCandidate computes the match score, tier and district label for one eligible worker.
func scoreCandidate(w models.CandidateWorker, held map[string]string, latest *models.AvailabilityRecord, c eligibilityCriteria, outbreakDistrictID string) models.RankedCandidate {
	score := competencyScore(held, c.competencyIDs) + availabilityScore(latest)
	if score > maxMatchScore {
		score = maxMatchScore
	}
	if score < 0 {
		score = 0
	}

	names := lo.Values(held)
	sort.Strings(names)
	matched, _ := c.matchPosition(w.Position)

	return models.RankedCandidate{
		Worker:             w,
		Competencies:       names,
		LatestAvailability: latest,
		MatchScore:         score,
		Readiness:          readinessTier(score),
		DistrictMatch:      districtProximity(w, outbreakDistrictID),
		MatchedPosition:    matched,
	}
}

// rankCandidates orders by score, then same-district first, then last and first name, then worker ID,
// and keeps at most limit entries. The input slice is not reordered.
func rankCandidates(candidates []models.RankedCandidate, limit int) []models.RankedCandidate {
	ranked := make([]models.RankedCandidate, len(candidates))
	copy(ranked, candidates)

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.MatchScore != b.MatchScore {
			return a.MatchScore > b.MatchScore
		}
		aSame, bSame := a.DistrictMatch == models.SameDistrict, b.DistrictMatch == models.SameDistrict
		if aSame != bSame {
			return aSame
		}
		if ln := strings.Compare(strings.ToLower(a.Worker.LastName), strings.ToLower(b.Worker.LastName)); ln != 0 {
			return ln < 0
		}
		if fn := strings.Compare(strings.ToLower(a.Worker.FirstName), strings.ToLower(b.Worker.FirstName)); fn != 0 {
			return fn < 0
		}
		return a.Worker.ID < b.Worker.ID
	})

	if limit < 0 {
		limit = 0
	}
	if limit < len(ranked) {
		ranked = ranked[:limit]
	}
	return ranked
}
