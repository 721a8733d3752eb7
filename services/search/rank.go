// Package search filters a category's specialists by free text and orders
// them by trust score.
package search

import (
	"sort"
	"strings"

	"tradelink/models"
)

// FilterAndRank returns the specialists whose name, company, specialty or
// location contains query (case-insensitive), sorted by trust score
// descending. Ties keep their input order. The input slice is not modified.
func FilterAndRank(records []models.Specialist, query string) []models.Specialist {
	q := strings.ToLower(strings.TrimSpace(query))

	out := make([]models.Specialist, 0, len(records))
	for _, rec := range records {
		if q == "" || matches(rec, q) {
			out = append(out, rec)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TrustScore() > out[j].TrustScore()
	})
	return out
}

// RankOf reports the 1-based position of id within FilterAndRank(records,
// query) and the size of that result.
func RankOf(records []models.Specialist, query, id string) (rank, total int, ok bool) {
	ranked := FilterAndRank(records, query)
	for i := range ranked {
		if ranked[i].ID == id {
			return i + 1, len(ranked), true
		}
	}
	return 0, len(ranked), false
}

func matches(rec models.Specialist, q string) bool {
	for _, field := range []string{rec.Name, rec.CompanyName, rec.Specialty, rec.Location} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}
