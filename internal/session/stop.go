package session

// StopPolicy decides when token production should end. Both thresholds are
// configuration; zero values disable the corresponding condition.
type StopPolicy struct {
	// MaxTokens is the hard cap on produced tokens.
	MaxTokens int
	// EndMarker is the decoded text of the end-of-turn token.
	EndMarker string
}

// ShouldStop reports whether generation should end after the latest token.
// Both conditions are evaluated on every step.
func (p StopPolicy) ShouldStop(tokenCount int, lastToken string) bool {
	byCount := p.MaxTokens > 0 && tokenCount >= p.MaxTokens
	byMarker := p.EndMarker != "" && lastToken == p.EndMarker
	return byCount || byMarker
}
