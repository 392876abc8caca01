// Package gemini implements ports.Generator over the official genai client.
package gemini

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	genai "google.golang.org/genai"

	"github.com/junlennon0516/DongSeo-WebProject/internal/domain"
	"github.com/junlennon0516/DongSeo-WebProject/internal/ports"
)

const DefaultModel = "gemini-2.5-flash-lite"

var ErrEmptyResponse = eris.New("gemini: empty response")

// contentGenerator is the subset of *genai.Models the client calls.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Client is created once at startup and shared; it holds no per-request state.
type Client struct {
	models contentGenerator
	model  string
}

func New(ctx context.Context, apiKey, model string) (*Client, error) {
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey, Backend: genai.BackendGeminiAPI})
	if err != nil {
		return nil, eris.Wrap(err, "gemini client")
	}
	return newClient(cli.Models, model), nil
}

func newClient(models contentGenerator, model string) *Client {
	if model == "" {
		model = DefaultModel
	}
	return &Client{models: models, model: model}
}

func (c *Client) Name() string { return "Gemini:" + c.model }

// Generate sends the conversation and returns the first candidate's text.
func (c *Client) Generate(ctx context.Context, req ports.GenerateRequest) (string, error) {
	model := req.Model
	if model == "" {
		model = c.model
	}
	contents, system := toContents(req)
	if len(contents) == 0 {
		return "", eris.New("gemini: no user content")
	}
	temp := req.Temperature
	cfg := &genai.GenerateContentConfig{Temperature: &temp}
	if system != "" {
		cfg.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: system}}}
	}

	resp, err := c.models.GenerateContent(ctx, model, contents, cfg)
	if err != nil {
		return "", eris.Wrapf(err, "generate with %s", model)
	}
	text := firstText(resp)
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

// toContents maps chat messages onto genai roles. System messages are folded
// into the system instruction after req.System.
func toContents(req ports.GenerateRequest) ([]*genai.Content, string) {
	var system []string
	if s := strings.TrimSpace(req.System); s != "" {
		system = append(system, s)
	}
	contents := make([]*genai.Content, 0, len(req.Messages))
	for _, m := range req.Messages {
		switch m.Role {
		case domain.RoleSystem:
			if s := strings.TrimSpace(m.Content); s != "" {
				system = append(system, s)
			}
		case domain.RoleAssistant, domain.ChatRole(genai.RoleModel):
			contents = append(contents, &genai.Content{Role: string(genai.RoleModel), Parts: []*genai.Part{{Text: m.Content}}})
		default:
			contents = append(contents, &genai.Content{Role: string(genai.RoleUser), Parts: []*genai.Part{{Text: m.Content}}})
		}
	}
	return contents, strings.Join(system, "\n\n")
}

func firstText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		if p == nil || p.Thought {
			continue
		}
		b.WriteString(p.Text)
	}
	return b.String()
}
