package fne

import (
	"regexp"
	"strings"
)

// Token is the parsed verification token returned after certification: the
// full verification URL and the bare token value extracted from it.
type Token struct {
	URL   string
	Value string
}

var verificationSegment = regexp.MustCompile(`/verification/([^/?#]+)`)

// TokenParser derives the two stored token fields from whatever the
// authority sends back. Older deployments returned a bare token, newer ones a
// full verification URL; both are accepted.
type TokenParser struct {
	verificationBase string
}

func NewTokenParser(verificationBase string) *TokenParser {
	return &TokenParser{verificationBase: strings.TrimRight(verificationBase, "/")}
}

func (p *TokenParser) Parse(raw string) Token {
	if raw == "" {
		return Token{}
	}

	url := raw
	if !strings.HasPrefix(raw, "http") {
		url = p.verificationBase + "/" + raw
	}

	if m := verificationSegment.FindStringSubmatch(url); m != nil {
		return Token{URL: url, Value: m[1]}
	}
	if idx := strings.LastIndex(url, "/"); idx >= 0 && idx < len(url)-1 {
		return Token{URL: url, Value: url[idx+1:]}
	}
	return Token{URL: url, Value: raw}
}
