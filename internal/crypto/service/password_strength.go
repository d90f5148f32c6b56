package service

import (
	"unicode"
)

// Password strength scoring thresholds.
const (
	// MinPasswordLength is the length below which a password is flagged as too short.
	MinPasswordLength = 8
	// GoodPasswordLength is the length that earns the extra length point.
	GoodPasswordLength = 12
	// StrongScoreThreshold is the minimum score for Strong to be true.
	StrongScoreThreshold = 5
	// MaxStrengthScore is the highest score the estimator can produce.
	MaxStrengthScore = 7
)

// StrengthReport is the result of scoring a candidate secret value.
//
// The estimator is advisory only: it never blocks encryption or storage.
// Callers surface the feedback to the user and move on.
type StrengthReport struct {
	// Score is the number of heuristic checks passed (0 to MaxStrengthScore).
	Score int
	// Strong is true when Score reaches StrongScoreThreshold.
	Strong bool
	// Feedback lists human-readable suggestions for the failed checks.
	Feedback []string
}

// EstimatePasswordStrength scores a candidate secret against heuristic checks:
// the two length thresholds, the four character classes, and the absence of
// runs of three or more repeated characters.
func EstimatePasswordStrength(password string) StrengthReport {
	var report StrengthReport

	if len(password) >= MinPasswordLength {
		report.Score++
	} else {
		report.Feedback = append(report.Feedback, "use at least 8 characters")
	}
	if len(password) >= GoodPasswordLength {
		report.Score++
	} else {
		report.Feedback = append(report.Feedback, "12 or more characters is recommended")
	}

	var hasLower, hasUpper, hasDigit, hasSymbol bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			hasSymbol = true
		}
	}

	if hasLower {
		report.Score++
	} else {
		report.Feedback = append(report.Feedback, "add lowercase letters")
	}
	if hasUpper {
		report.Score++
	} else {
		report.Feedback = append(report.Feedback, "add uppercase letters")
	}
	if hasDigit {
		report.Score++
	} else {
		report.Feedback = append(report.Feedback, "add digits")
	}
	if hasSymbol {
		report.Score++
	} else {
		report.Feedback = append(report.Feedback, "add symbols")
	}

	if hasRepeatedRun(password) {
		report.Feedback = append(report.Feedback, "avoid repeating the same character three or more times")
	} else {
		report.Score++
	}

	report.Strong = report.Score >= StrongScoreThreshold
	return report
}

// hasRepeatedRun reports whether the string contains a run of three or more
// identical characters.
func hasRepeatedRun(s string) bool {
	runes := []rune(s)
	run := 1
	for i := 1; i < len(runes); i++ {
		if runes[i] == runes[i-1] {
			run++
			if run >= 3 {
				return true
			}
		} else {
			run = 1
		}
	}
	return false
}
