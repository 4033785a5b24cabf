package service

import "strings"

// VerdictParser turns the model's free-text reply to an evaluation prompt
// into a binary correct/incorrect classification. It sits behind an
// interface so a structured-output contract can replace the prefix match
// without touching the evaluator.
type VerdictParser interface {
	IsCorrect(raw string) bool
}

// prefixVerdictParser accepts only replies whose lowercase-trimmed text
// starts with the literal token. "incorrecto ..." therefore never matches
// "correcto".
type prefixVerdictParser struct {
	token string
}

func NewPrefixVerdictParser() VerdictParser {
	return &prefixVerdictParser{token: "correcto"}
}

func (p *prefixVerdictParser) IsCorrect(raw string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(raw)), p.token)
}
