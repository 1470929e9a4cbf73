package llm

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Stub is a deterministic Capability: it never calls a network, and
// its output is a pure function of the prompt, letting tests assert
// on the exact sequence of strategy/version-history events per §4.4's
// "Determinism" clause.
type Stub struct {
	// Transform, if set, derives the generated content from the
	// prompt. Defaults to echoing the prompt with a marker suffix.
	Transform func(prompt string) string
}

// NewStub builds a Stub with the default echo transform.
func NewStub() *Stub {
	return &Stub{}
}

func (s *Stub) Name() string { return "stub" }

func (s *Stub) Generate(_ context.Context, req Request) (Response, error) {
	transform := s.Transform
	if transform == nil {
		transform = defaultTransform
	}
	content := transform(req.Prompt)
	return Response{
		Content:   content,
		TokensIn:  approxTokens(req.Prompt),
		TokensOut: approxTokens(content),
		Provider:  "stub",
		Model:     "stub-deterministic",
	}, nil
}

func (s *Stub) Price() PricePerToken { return PricePerToken{} }

func defaultTransform(prompt string) string {
	sum := sha256.Sum256([]byte(prompt))
	return fmt.Sprintf("%s [stub:%s]", prompt, hex.EncodeToString(sum[:4]))
}

func approxTokens(s string) int {
	return (len(s) + 3) / 4
}
