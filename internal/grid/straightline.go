// SurveyShield - Survey Response Quality and Fraud Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/surveyshield

package grid

// DetectStraightLining reports whether at least 80% of the responses share
// one answer.
func DetectStraightLining(responses []Response) StraightLineResult {
	return DetectStraightLiningWithThreshold(responses, DefaultStraightLineThreshold)
}

// DetectStraightLiningWithThreshold is DetectStraightLining with a caller
// supplied threshold. On frequency ties the answer seen first wins.
// Responses with no usable answer are ignored.
func DetectStraightLiningWithThreshold(responses []Response, threshold float64) StraightLineResult {
	counts := make(map[string]int, len(responses))
	order := make([]string, 0, len(responses))
	total := 0

	for _, r := range responses {
		key, ok := answerKey(r)
		if !ok {
			continue
		}
		if _, seen := counts[key]; !seen {
			order = append(order, key)
		}
		counts[key]++
		total++
	}

	if total == 0 {
		return StraightLineResult{}
	}

	best, bestCount := "", 0
	for _, key := range order {
		if counts[key] > bestCount {
			best, bestCount = key, counts[key]
		}
	}

	pct := float64(bestCount) / float64(total)
	result := StraightLineResult{
		Percentage:   pct,
		MostFrequent: best,
		Count:        bestCount,
		Total:        total,
	}
	if pct >= threshold {
		result.IsStraightLined = true
		result.Confidence = pct
	}
	return result
}
