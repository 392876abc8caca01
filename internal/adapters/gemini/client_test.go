package gemini

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	genai "google.golang.org/genai"

	"github.com/junlennon0516/DongSeo-WebProject/internal/domain"
	"github.com/junlennon0516/DongSeo-WebProject/internal/ports"
)

type fakeModels struct {
	model    string
	contents []*genai.Content
	config   *genai.GenerateContentConfig
	resp     *genai.GenerateContentResponse
	err      error
}

func (f *fakeModels) GenerateContent(_ context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.model, f.contents, f.config = model, contents, config
	return f.resp, f.err
}

func textResponse(parts ...string) *genai.GenerateContentResponse {
	c := &genai.Content{Role: string(genai.RoleModel)}
	for _, p := range parts {
		c.Parts = append(c.Parts, &genai.Part{Text: p})
	}
	return &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{Content: c}}}
}

func TestGenerate(t *testing.T) {
	fake := &fakeModels{resp: textResponse(`{"items":`, `[]}`)}
	c := newClient(fake, "")

	out, err := c.Generate(context.Background(), ports.GenerateRequest{
		System: "be precise",
		Messages: []domain.ChatMessage{
			{Role: domain.RoleSystem, Content: "catalog summary"},
			{Role: domain.RoleUser, Content: "door 900x2100"},
			{Role: domain.RoleAssistant, Content: "how many?"},
			{Role: domain.RoleUser, Content: "5"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, `{"items":[]}`, out)

	assert.Equal(t, DefaultModel, fake.model)
	require.NotNil(t, fake.config.Temperature)
	assert.Equal(t, float32(0), *fake.config.Temperature)
	require.NotNil(t, fake.config.SystemInstruction)
	assert.Equal(t, "be precise\n\ncatalog summary", fake.config.SystemInstruction.Parts[0].Text)

	require.Len(t, fake.contents, 3)
	assert.Equal(t, string(genai.RoleUser), fake.contents[0].Role)
	assert.Equal(t, string(genai.RoleModel), fake.contents[1].Role)
	assert.Equal(t, "5", fake.contents[2].Parts[0].Text)
}

func TestGenerateMapsModelRoleToModel(t *testing.T) {
	fake := &fakeModels{resp: textResponse("ok")}
	_, err := newClient(fake, "").Generate(context.Background(), ports.GenerateRequest{
		Messages: []domain.ChatMessage{
			{Role: domain.RoleUser, Content: "hi"},
			{Role: domain.ChatRole("model"), Content: "hello"},
			{Role: domain.RoleUser, Content: "price?"},
		},
	})
	require.NoError(t, err)
	require.Len(t, fake.contents, 3)
	assert.Equal(t, string(genai.RoleModel), fake.contents[1].Role)
	assert.Equal(t, "hello", fake.contents[1].Parts[0].Text)
}

func TestGenerateModelOverride(t *testing.T) {
	fake := &fakeModels{resp: textResponse("hi")}
	c := newClient(fake, "gemini-2.5-pro")
	_, err := c.Generate(context.Background(), ports.GenerateRequest{
		Model:       "gemini-2.0-flash",
		Temperature: 0.7,
		Messages:    []domain.ChatMessage{{Role: domain.RoleUser, Content: "hello"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "gemini-2.0-flash", fake.model)
	assert.Equal(t, float32(0.7), *fake.config.Temperature)
	assert.Nil(t, fake.config.SystemInstruction)
}

func TestGenerateFailures(t *testing.T) {
	user := []domain.ChatMessage{{Role: domain.RoleUser, Content: "x"}}
	tests := []struct {
		name string
		fake *fakeModels
		msgs []domain.ChatMessage
	}{
		{"transport", &fakeModels{err: errors.New("unavailable")}, user},
		{"no candidates", &fakeModels{resp: &genai.GenerateContentResponse{}}, user},
		{"nil content", &fakeModels{resp: &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{}}}}, user},
		{"blank text", &fakeModels{resp: textResponse("  \n")}, user},
		{"only system", &fakeModels{resp: textResponse("ok")}, []domain.ChatMessage{{Role: domain.RoleSystem, Content: "s"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newClient(tt.fake, "").Generate(context.Background(), ports.GenerateRequest{Messages: tt.msgs})
			require.Error(t, err)
		})
	}
}
