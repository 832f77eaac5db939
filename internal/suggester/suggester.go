// Package suggester asks a generative model for the counterparty named in a
// transaction description when rule-based extraction finds none.
package suggester

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"nvv/ebh-import/internal/logging"
	"nvv/ebh-import/internal/models"
)

// ErrNoSuggestion is returned when the model names no counterparty.
var ErrNoSuggestion = errors.New("no name suggested")

// NameSuggester proposes a counterparty name for a description.
type NameSuggester interface {
	Suggest(ctx context.Context, description string, partyType models.PartyType) (string, error)
}

// generator is the part of *genai.GenerativeModel the suggester uses.
type generator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// GeminiSuggester implements NameSuggester with the Google Gemini API.
type GeminiSuggester struct {
	client  *genai.Client
	model   generator
	timeout time.Duration
	logger  logging.Logger
}

// Options configures a GeminiSuggester.
type Options struct {
	APIKey  string
	Model   string
	Timeout time.Duration
}

// NewGeminiSuggester creates a suggester backed by the Gemini API.
func NewGeminiSuggester(ctx context.Context, opts Options, logger logging.Logger) (*GeminiSuggester, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable not set")
	}
	if opts.Model == "" {
		opts.Model = "gemini-2.0-flash"
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(opts.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	s := newWithGenerator(client.GenerativeModel(opts.Model), opts.Timeout, logger)
	s.client = client
	return s, nil
}

func newWithGenerator(model generator, timeout time.Duration, logger logging.Logger) *GeminiSuggester {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &GeminiSuggester{
		model:   model,
		timeout: timeout,
		logger:  logging.OrNop(logger),
	}
}

// Suggest asks the model for the counterparty named in description.
// ErrNoSuggestion is returned when the model answers NONE or something
// that cannot be read as a name.
func (s *GeminiSuggester) Suggest(ctx context.Context, description string, partyType models.PartyType) (string, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return "", ErrNoSuggestion
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := s.model.GenerateContent(ctx, genai.Text(buildPrompt(description, partyType)))
	if err != nil {
		return "", fmt.Errorf("gemini API error: %w", err)
	}

	text, err := responseText(resp)
	if err != nil {
		return "", err
	}

	name, ok := parseSuggestion(text)
	if !ok {
		s.logger.Debug("Model suggested no party name",
			logging.Field{Key: "description", Value: description})
		return "", ErrNoSuggestion
	}

	s.logger.Debug("Model suggested party name",
		logging.Field{Key: logging.FieldParty, Value: name},
		logging.Field{Key: logging.FieldPartyType, Value: string(partyType)})
	return name, nil
}

// Close releases the API client.
func (s *GeminiSuggester) Close() error {
	if s.client == nil {
		return nil
	}
	return s.client.Close()
}

func buildPrompt(description string, partyType models.PartyType) string {
	role := "customer who paid us"
	if partyType == models.PartySupplier {
		role = "supplier we paid"
	}
	return fmt.Sprintf(`The following is the description of a Dutch bank or bookkeeping transaction:
%s

Which company or person is the counterparty (the %s)?
Ignore IBANs, BICs, references, dates, invoice numbers and payment providers.

Respond in this format:
Name: [counterparty name]
If no counterparty can be identified, respond with:
Name: NONE`, description, role)
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no response from Gemini API")
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("no response from Gemini API")
	}

	var b strings.Builder
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	return b.String(), nil
}

// parseSuggestion reads the name from a "Name: <x>" answer. A bare one-line
// answer is accepted as the name.
func parseSuggestion(response string) (string, bool) {
	var name string
	found := false
	for _, line := range strings.Split(response, "\n") {
		line = strings.TrimSpace(line)
		if len(line) >= 5 && strings.EqualFold(line[:5], "name:") {
			name = strings.TrimSpace(line[5:])
			found = true
			break
		}
	}
	if !found {
		lines := strings.FieldsFunc(strings.TrimSpace(response), func(r rune) bool { return r == '\n' })
		if len(lines) != 1 {
			return "", false
		}
		name = strings.TrimSpace(lines[0])
	}

	name = strings.Trim(name, "\"'`*[] ")
	if name == "" || strings.EqualFold(name, "none") || strings.EqualFold(name, "unknown") {
		return "", false
	}
	return name, true
}
