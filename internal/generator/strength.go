package generator

import "strings"

// strengthSymbols is the symbol set the estimator checks for. It is narrower
// than SpecialChars on purpose; the rubric predates the generator's set.
const strengthSymbols = `!@#$%^&*(),.?":{}|<>`

// Strength is a heuristic score for a password, not an entropy calculation.
type Strength struct {
	Score int    `json:"score"`
	Text  string `json:"text"`
	Color string `json:"color"`
}

// Estimate scores a password against a fixed rubric. Each satisfied condition
// adds 25: length >= 8, length >= 12, at least one digit, at least one symbol.
func Estimate(password string) Strength {
	score := 0

	if len(password) >= 8 {
		score += 25
	}
	if len(password) >= 12 {
		score += 25
	}
	if strings.ContainsAny(password, "0123456789") {
		score += 25
	}
	if strings.ContainsAny(password, strengthSymbols) {
		score += 25
	}

	switch {
	case score <= 25:
		return Strength{Score: score, Text: "Weak", Color: "bg-red-500"}
	case score <= 50:
		return Strength{Score: score, Text: "Fair", Color: "bg-yellow-500"}
	case score <= 75:
		return Strength{Score: score, Text: "Good", Color: "bg-blue-500"}
	default:
		return Strength{Score: score, Text: "Strong", Color: "bg-green-500"}
	}
}
