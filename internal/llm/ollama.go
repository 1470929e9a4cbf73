package llm

import (
	"context"
	"net/url"
	"time"

	"github.com/ollama/ollama/api"
)

// Ollama wraps a local Ollama server as a Capability, generalized
// from the teacher's models/ollama client usage. Local inference has
// no per-token price, matching §4.6's "pricing fallback = 0".
type Ollama struct {
	client *api.Client
	model  string
}

// NewOllama builds an Ollama-backed capability. host defaults to
// http://127.0.0.1:11434 when empty.
func NewOllama(host, model string) (*Ollama, error) {
	if host == "" {
		host = "http://127.0.0.1:11434"
	}
	u, err := url.Parse(host)
	if err != nil {
		return nil, err
	}
	return &Ollama{
		client: api.NewClient(u, nil),
		model:  model,
	}, nil
}

func (o *Ollama) Name() string { return "ollama" }

func (o *Ollama) Price() PricePerToken { return PricePerToken{} }

func (o *Ollama) Generate(ctx context.Context, req Request) (Response, error) {
	model := req.Model
	if model == "" {
		model = o.model
	}

	stream := false
	start := time.Now()
	var out string
	var promptEvalCount, evalCount int

	genReq := &api.GenerateRequest{
		Model:  model,
		Prompt: req.Prompt,
		Stream: &stream,
		Options: map[string]interface{}{
			"temperature": req.Temperature,
		},
	}

	err := o.client.Generate(ctx, genReq, func(resp api.GenerateResponse) error {
		out += resp.Response
		promptEvalCount = resp.PromptEvalCount
		evalCount = resp.EvalCount
		return nil
	})
	if err != nil {
		return Response{}, err
	}

	return Response{
		Content:   out,
		TokensIn:  promptEvalCount,
		TokensOut: evalCount,
		Provider:  "ollama",
		Model:     model,
		Latency:   time.Since(start),
	}, nil
}
