package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/hcw-deploy-api/internal/models"
)

const (
	testDistrictA = "6f1c2b9e-3d4a-4c1b-9a77-0d2e5f6a7b01"
	testDistrictB = "6f1c2b9e-3d4a-4c1b-9a77-0d2e5f6a7b02"
	testCompCovid = "a3b0c7d2-18e4-4f5a-8b6c-1e2f3a4b5c01"
	testCompIPC   = "a3b0c7d2-18e4-4f5a-8b6c-1e2f3a4b5c02"
)

func candidateWorker(id, first, last, position, district string, active bool) models.CandidateWorker {
	return models.CandidateWorker{
		ID:                 id,
		FirstName:          first,
		LastName:           last,
		Phone:              "+265999000" + id,
		Position:           position,
		IsActive:           active,
		FacilityDistrictID: lo.ToPtr(district),
	}
}

func availability(workerID string, status models.AvailabilityStatus) *models.AvailabilityRecord {
	return &models.AvailabilityRecord{WorkerID: workerID, Status: status, RecordedAt: time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)}
}

func TestMatchPositionCaseInsensitiveSubstring(t *testing.T) {
	c := newEligibilityCriteria([]string{" nurse ", "Clinical Officer"}, nil)

	label, ok := c.matchPosition("Senior NURSE Midwife")
	assert.True(t, ok)
	assert.Equal(t, "nurse", label)

	label, ok = c.matchPosition("clinical officer")
	assert.True(t, ok)
	assert.Equal(t, "Clinical Officer", label)

	_, ok = c.matchPosition("Pharmacist")
	assert.False(t, ok)

	label, ok = newEligibilityCriteria(nil, nil).matchPosition("Pharmacist")
	assert.True(t, ok)
	assert.Empty(t, label)
}

func TestFilterEligible(t *testing.T) {
	workers := []models.CandidateWorker{
		candidateWorker("1", "Alinafe", "Banda", "Nurse", testDistrictA, true),
		candidateWorker("2", "Chikondi", "Phiri", "Clinical Officer", testDistrictA, true),
		candidateWorker("3", "Dalitso", "Mwale", "Nurse", testDistrictB, false),
		candidateWorker("4", "Esther", "Zulu", "Lab Technician", testDistrictB, true),
	}
	held := indexTrainings([]models.WorkerTraining{
		{WorkerID: "1", CompetencyID: testCompCovid, CompetencyName: "COVID-19 Case Management"},
		{WorkerID: "2", CompetencyID: testCompIPC, CompetencyName: "Infection Prevention"},
		{WorkerID: "3", CompetencyID: testCompCovid, CompetencyName: "COVID-19 Case Management"},
	})

	tests := []struct {
		name     string
		criteria eligibilityCriteria
		want     []string
	}{
		{name: "no criteria keeps every active worker", criteria: newEligibilityCriteria(nil, nil), want: []string{"1", "2", "4"}},
		{name: "positions are ORed", criteria: newEligibilityCriteria([]string{"nurse", "clinical"}, nil), want: []string{"1", "2"}},
		{name: "competencies are ORed", criteria: newEligibilityCriteria(nil, []string{testCompCovid, testCompIPC}), want: []string{"1", "2"}},
		{name: "position and competency both required", criteria: newEligibilityCriteria([]string{"nurse"}, []string{testCompIPC}), want: []string{}},
		{name: "no match", criteria: newEligibilityCriteria([]string{"surgeon"}, nil), want: []string{}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := filterEligible(workers, held, tc.criteria)
			ids := lo.Map(got, func(w models.CandidateWorker, _ int) string { return w.ID })
			assert.ElementsMatch(t, tc.want, ids)
			for _, w := range got {
				assert.True(t, w.IsActive)
			}
		})
	}
}

func TestFilterEligibleIdempotentAndMonotonic(t *testing.T) {
	workers := []models.CandidateWorker{
		candidateWorker("1", "A", "A", "Nurse", testDistrictA, true),
		candidateWorker("2", "B", "B", "Nurse Midwife", testDistrictA, true),
		candidateWorker("3", "C", "C", "Clinical Officer", testDistrictB, true),
	}
	held := indexTrainings([]models.WorkerTraining{
		{WorkerID: "1", CompetencyID: testCompCovid, CompetencyName: "COVID"},
		{WorkerID: "3", CompetencyID: testCompIPC, CompetencyName: "IPC"},
	})

	narrow := newEligibilityCriteria([]string{"nurse"}, []string{testCompCovid})
	once := filterEligible(workers, held, narrow)
	twice := filterEligible(once, held, narrow)
	assert.Equal(t, once, twice)

	wide := newEligibilityCriteria([]string{"nurse", "clinical"}, []string{testCompCovid, testCompIPC})
	wider := filterEligible(workers, held, wide)
	assert.Subset(t, wider, once)
	assert.GreaterOrEqual(t, len(wider), len(once))
}

func TestScoreCandidate(t *testing.T) {
	w := candidateWorker("1", "Alinafe", "Banda", "Nurse", testDistrictA, true)
	held := map[string]string{testCompCovid: "COVID-19 Case Management", testCompIPC: "Infection Prevention"}

	tests := []struct {
		name      string
		requested []string
		latest    *models.AvailabilityRecord
		district  string
		wantScore int
		wantTier  models.ReadinessTier
		wantLabel models.DistrictProximity
	}{
		{name: "competency and available", requested: []string{testCompCovid}, latest: availability("1", models.AvailabilityAvailable), district: testDistrictA, wantScore: 100, wantTier: models.ReadinessHigh, wantLabel: models.SameDistrict},
		{name: "multiple held competencies still capped", requested: []string{testCompCovid, testCompIPC}, latest: availability("1", models.AvailabilityAvailable), district: testDistrictA, wantScore: 100, wantTier: models.ReadinessHigh, wantLabel: models.SameDistrict},
		{name: "competency only", requested: []string{testCompCovid}, latest: availability("1", models.AvailabilityDeployed), district: testDistrictB, wantScore: 70, wantTier: models.ReadinessMedium, wantLabel: models.DifferentDistrict},
		{name: "availability only", requested: nil, latest: availability("1", models.AvailabilityAvailable), district: testDistrictA, wantScore: 30, wantTier: models.ReadinessLow, wantLabel: models.SameDistrict},
		{name: "nothing", requested: nil, latest: nil, district: testDistrictB, wantScore: 0, wantTier: models.ReadinessLow, wantLabel: models.DifferentDistrict},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := scoreCandidate(w, held, tc.latest, newEligibilityCriteria(nil, tc.requested), tc.district)
			assert.Equal(t, tc.wantScore, got.MatchScore)
			assert.Equal(t, tc.wantTier, got.Readiness)
			assert.Equal(t, tc.wantLabel, got.DistrictMatch)
			assert.Equal(t, []string{"COVID-19 Case Management", "Infection Prevention"}, got.Competencies)
		})
	}
}

func TestDistrictProximityWithoutFacility(t *testing.T) {
	w := candidateWorker("1", "A", "B", "Nurse", testDistrictA, true)
	w.FacilityDistrictID = nil
	assert.Equal(t, models.DifferentDistrict, districtProximity(w, testDistrictA))
}

func TestReadinessTierBoundaries(t *testing.T) {
	for score := 0; score <= maxMatchScore; score++ {
		tier := readinessTier(score)
		switch {
		case score >= 80:
			assert.Equal(t, models.ReadinessHigh, tier, "score %d", score)
		case score >= 50:
			assert.Equal(t, models.ReadinessMedium, tier, "score %d", score)
		default:
			assert.Equal(t, models.ReadinessLow, tier, "score %d", score)
		}
	}
}

func TestRankCandidatesOrdering(t *testing.T) {
	inDistrict := scoreCandidate(candidateWorker("in", "Grace", "Kumwenda", "Nurse", testDistrictA, true),
		map[string]string{testCompCovid: "COVID"}, availability("in", models.AvailabilityAvailable),
		newEligibilityCriteria(nil, []string{testCompCovid}), testDistrictA)
	outDistrict := scoreCandidate(candidateWorker("out", "Aaron", "Aba", "Nurse", testDistrictB, true),
		map[string]string{testCompCovid: "COVID"}, availability("out", models.AvailabilityAvailable),
		newEligibilityCriteria(nil, []string{testCompCovid}), testDistrictA)
	lowScore := scoreCandidate(candidateWorker("low", "Zeze", "Aardvark", "Nurse", testDistrictA, true),
		nil, nil, newEligibilityCriteria(nil, []string{testCompCovid}), testDistrictA)

	ranked := rankCandidates([]models.RankedCandidate{lowScore, outDistrict, inDistrict}, 10)
	require.Len(t, ranked, 3)
	assert.Equal(t, "in", ranked[0].Worker.ID)
	assert.Equal(t, "out", ranked[1].Worker.ID)
	assert.Equal(t, "low", ranked[2].Worker.ID)
}

func TestRankCandidatesNameTieBreak(t *testing.T) {
	criteria := newEligibilityCriteria(nil, nil)
	mk := func(id, first, last string) models.RankedCandidate {
		return scoreCandidate(candidateWorker(id, first, last, "Nurse", testDistrictA, true), nil, nil, criteria, testDistrictA)
	}
	input := []models.RankedCandidate{
		mk("3", "Bright", "Phiri"),
		mk("2", "alice", "phiri"),
		mk("5", "Alice", "Phiri"),
		mk("1", "Zed", "Banda"),
	}

	ranked := rankCandidates(input, 4)
	ids := lo.Map(ranked, func(c models.RankedCandidate, _ int) string { return c.Worker.ID })
	assert.Equal(t, []string{"1", "2", "5", "3"}, ids)
	assert.Equal(t, "3", input[0].Worker.ID, "input must not be reordered")
}

func TestRankCandidatesDeterministicAndTruncated(t *testing.T) {
	criteria := newEligibilityCriteria(nil, []string{testCompCovid})
	pool := make([]models.RankedCandidate, 0, 12)
	for i := 0; i < 12; i++ {
		id := fmt.Sprintf("w%02d", i)
		held := map[string]string{}
		if i%2 == 0 {
			held[testCompCovid] = "COVID"
		}
		var latest *models.AvailabilityRecord
		if i%3 == 0 {
			latest = availability(id, models.AvailabilityAvailable)
		}
		district := testDistrictA
		if i%4 == 0 {
			district = testDistrictB
		}
		pool = append(pool, scoreCandidate(candidateWorker(id, "First", fmt.Sprintf("Last%d", i%5), "Nurse", district, true), held, latest, criteria, testDistrictA))
	}

	full := rankCandidates(pool, len(pool))
	reversed := lo.Reverse(append([]models.RankedCandidate(nil), pool...))
	assert.Equal(t, full, rankCandidates(reversed, len(pool)))

	for _, n := range []int{0, 1, 5, 12, 50} {
		got := rankCandidates(pool, n)
		assert.Len(t, got, lo.Min([]int{n, len(pool)}))
		assert.Equal(t, full[:len(got)], got)
	}

	for i := 1; i < len(full); i++ {
		assert.GreaterOrEqual(t, full[i-1].MatchScore, full[i].MatchScore)
	}
	for _, c := range full {
		assert.GreaterOrEqual(t, c.MatchScore, 0)
		assert.LessOrEqual(t, c.MatchScore, maxMatchScore)
		assert.Equal(t, readinessTier(c.MatchScore), c.Readiness)
	}
}
