// Package gemini asks a hosted Gemini model for a maintenance schedule.
package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"google.golang.org/genai"

	"github.com/MrSnakeDoc/aquatrack/internal/suggest"
)

// Name is the registry name of this provider.
const Name = "gemini"

const (
	DefaultModel   = "gemini-2.5-flash"
	DefaultTimeout = 20 * time.Second

	fieldFull       = "fullCleaningFrequencyInDays"
	fieldPartial    = "partialWaterChangeFrequencyInDays"
	fieldPercentage = "waterChangePercentage"
)

// generator is the slice of *genai.Models the provider needs.
type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Config configures the provider.
type Config struct {
	APIKey  string
	Model   string
	Timeout time.Duration
}

// Provider implements suggest.Provider on top of the Gemini API.
// The client is built on first use, never when the API key is empty.
type Provider struct {
	cfg Config

	mu  sync.Mutex
	gen generator
}

// New returns a provider. It performs no I/O.
func New(cfg Config) *Provider {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Provider{cfg: cfg}
}

func newWithGenerator(cfg Config, gen generator) *Provider {
	p := New(cfg)
	p.gen = gen
	return p
}

func (p *Provider) Name() string { return Name }

// Configured reports whether an API key is set.
func (p *Provider) Configured() bool { return p.cfg.APIKey != "" }

// Model returns the model the provider calls.
func (p *Provider) Model() string { return p.cfg.Model }

// Suggest issues one GenerateContent call. Any failure is a *suggest.Error and
// the returned Suggestion is then the zero value.
func (p *Provider) Suggest(ctx context.Context, in suggest.Input) (suggest.Suggestion, error) {
	if !p.Configured() {
		return suggest.Suggestion{}, p.fail(suggest.KindCredential, suggest.ErrMissingCredential)
	}

	gen, err := p.generator(ctx)
	if err != nil {
		return suggest.Suggestion{}, p.fail(suggest.KindTransport, err)
	}

	ctx, cancel := context.WithTimeout(ctx, p.cfg.Timeout)
	defer cancel()

	resp, err := gen.GenerateContent(ctx, p.cfg.Model, genai.Text(BuildPrompt(in)), requestConfig())
	if err != nil {
		return suggest.Suggestion{}, p.fail(suggest.KindTransport, err)
	}
	if resp == nil {
		return suggest.Suggestion{}, p.fail(suggest.KindSchema, errors.New("empty response"))
	}

	s, err := parseReply(resp.Text())
	if err != nil {
		return suggest.Suggestion{}, p.fail(suggest.KindSchema, err)
	}
	return s.Clamp(), nil
}

func (p *Provider) generator(ctx context.Context) (generator, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.gen != nil {
		return p.gen, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  p.cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	p.gen = client.Models
	return p.gen, nil
}

func (p *Provider) fail(kind suggest.Kind, err error) error {
	return &suggest.Error{Provider: Name, Kind: kind, Err: err}
}

// BuildPrompt renders the tank attributes as a natural-language request.
func BuildPrompt(in suggest.Input) string {
	species := strings.TrimSpace(in.FishSpecies)
	if species == "" {
		species = "not specified"
	}

	var b strings.Builder
	b.WriteString("You are an experienced aquarist. Suggest a maintenance schedule for this freshwater aquarium.\n\n")
	fmt.Fprintf(&b, "- Capacity: %g liters\n", in.Capacity)
	fmt.Fprintf(&b, "- Fish species: %s\n", species)
	fmt.Fprintf(&b, "- Number of fish: %s\n", in.FishCount)
	fmt.Fprintf(&b, "- Has a filter: %s\n", yesNo(in.HasFilter))
	fmt.Fprintf(&b, "- Has live plants: %s\n\n", yesNo(in.HasPlants))
	b.WriteString("Answer with how many days between full cleanings, how many days between partial water changes, ")
	b.WriteString("and what percentage of the water to replace at each partial change. ")
	b.WriteString("Full cleaning should fall between 7 and 90 days, water changes between 3 and 30 days, ")
	b.WriteString("and the percentage between 10 and 75.")
	return b.String()
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

func requestConfig() *genai.GenerateContentConfig {
	temperature := float32(0.2)
	return &genai.GenerateContentConfig{
		Temperature:      &temperature,
		ResponseMIMEType: "application/json",
		ResponseSchema: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				fieldFull: {
					Type:        genai.TypeInteger,
					Description: "Days between full aquarium cleanings.",
				},
				fieldPartial: {
					Type:        genai.TypeInteger,
					Description: "Days between partial water changes.",
				},
				fieldPercentage: {
					Type:        genai.TypeInteger,
					Description: "Percentage of water to replace during a partial change.",
				},
			},
			Required: []string{fieldFull, fieldPartial, fieldPercentage},
		},
	}
}

type reply struct {
	Full       *int `json:"fullCleaningFrequencyInDays"`
	Partial    *int `json:"partialWaterChangeFrequencyInDays"`
	Percentage *int `json:"waterChangePercentage"`
}

// parseReply decodes the model output. Fractional, string or missing fields
// are rejected.
func parseReply(text string) (suggest.Suggestion, error) {
	text = stripFence(strings.TrimSpace(text))
	if text == "" {
		return suggest.Suggestion{}, errors.New("empty response")
	}

	var r reply
	if err := json.Unmarshal([]byte(text), &r); err != nil {
		return suggest.Suggestion{}, fmt.Errorf("failed to decode response: %w", err)
	}

	switch {
	case r.Full == nil:
		return suggest.Suggestion{}, fmt.Errorf("response is missing %s", fieldFull)
	case r.Partial == nil:
		return suggest.Suggestion{}, fmt.Errorf("response is missing %s", fieldPartial)
	case r.Percentage == nil:
		return suggest.Suggestion{}, fmt.Errorf("response is missing %s", fieldPercentage)
	}

	return suggest.Suggestion{
		FullDays:    *r.Full,
		PartialDays: *r.Partial,
		Percentage:  *r.Percentage,
	}, nil
}

// stripFence removes a ```json ... ``` wrapper some models add despite the MIME type.
func stripFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
