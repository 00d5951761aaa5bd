package match

import (
	"math"
	"strings"

	"github.com/mrodal/inmomatch/internal/listing"
)

// Rule weights. These define the ranking users see; changing any of them
// silently reorders recommendations, so treat them as frozen.
const (
	sameTypeScore      = 10
	sameOperationScore = 8
	similarPriceScore  = 7
	nearbyAreaScore    = 6 // per shared location token
	similarRoomsScore  = 5
	sameAgencyScore    = 3

	// priceTolerance is the relative price difference under which two
	// listings count as similarly priced
	priceTolerance = 0.20

	// minTokenLen filters short connector words out of location overlap
	minTokenLen = 4
)

// Score rates how similar candidate is to reference. Every rule is
// evaluated independently and contributions sum; reasons lists, in rule
// order, a human-readable tag for each rule that fired. Missing optional
// fields simply keep their rule from contributing.
func Score(candidate, reference *listing.Listing) (int, []string) {
	score := 0
	var reasons []string

	if candidate.PropertyType == reference.PropertyType {
		score += sameTypeScore
		reasons = append(reasons, "same type")
	}

	if candidate.OperationType == reference.OperationType {
		score += sameOperationScore
		reasons = append(reasons, "same operation")
	}

	// Price proximity is only meaningful within one currency, and the
	// relative difference is undefined for a zero reference price.
	if candidate.Currency == reference.Currency && reference.Price > 0 {
		diff := math.Abs(candidate.Price-reference.Price) / reference.Price
		if diff <= priceTolerance {
			score += similarPriceScore
			reasons = append(reasons, "similar price")
		}
	}

	if common := commonLocationTokens(candidate.Location, reference.Location); common > 0 {
		score += nearbyAreaScore * common
		reasons = append(reasons, "nearby area")
	}

	if candidate.Rooms != nil && reference.Rooms != nil {
		if abs(*candidate.Rooms-*reference.Rooms) <= 1 {
			score += similarRoomsScore
			reasons = append(reasons, "similar room count")
		}
	}

	if candidate.AgencyID != nil && reference.AgencyID != nil && *candidate.AgencyID == *reference.AgencyID {
		score += sameAgencyScore
		reasons = append(reasons, "same agency")
	}

	return score, reasons
}

// commonLocationTokens counts distinct long tokens shared by both
// free-text locations
func commonLocationTokens(a, b string) int {
	tokensA := locationTokens(a)
	if len(tokensA) == 0 {
		return 0
	}

	common := 0
	for token := range locationTokens(b) {
		if tokensA[token] {
			common++
		}
	}
	return common
}

// locationTokens splits a location on whitespace, lower-cases it, and
// keeps only tokens longer than three characters
func locationTokens(s string) map[string]bool {
	tokens := make(map[string]bool)
	for _, t := range strings.Fields(strings.ToLower(s)) {
		if len(t) >= minTokenLen {
			tokens[t] = true
		}
	}
	return tokens
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
