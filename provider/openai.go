package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/ZaguanLabs/lingoseo"
	"github.com/sashabaranov/go-openai"
)

// DefaultOpenAIModel is used when no model is configured.
const DefaultOpenAIModel = "gpt-4o-mini"

// OpenAIProvider fills translation tables through a chat completion
// endpoint that returns JSON.
type OpenAIProvider struct {
	client      *openai.Client
	model       string
	temperature float32
}

// OpenAIConfig configures OpenAIProvider. BaseURL points it at any
// compatible endpoint.
type OpenAIConfig struct {
	APIKey      string
	Model       string  // DefaultOpenAIModel when empty
	Temperature float32 // 0.3 when zero
	BaseURL     string
	HTTPClient  *http.Client
}

func NewOpenAIProvider(cfg OpenAIConfig) *OpenAIProvider {
	cc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		cc.BaseURL = cfg.BaseURL
	}
	if cfg.HTTPClient != nil {
		cc.HTTPClient = cfg.HTTPClient
	}

	p := &OpenAIProvider{
		client:      openai.NewClientWithConfig(cc),
		model:       cfg.Model,
		temperature: cfg.Temperature,
	}
	if p.model == "" {
		p.model = DefaultOpenAIModel
	}
	if p.temperature == 0 {
		p.temperature = 0.3
	}
	return p
}

// Translate translates a batch of table values.
func (p *OpenAIProvider) Translate(ctx context.Context, req TranslateRequest) ([]string, error) {
	if len(req.Texts) == 0 {
		return []string{}, nil
	}

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: p.buildSystemPrompt(req)},
			{Role: openai.ChatMessageRoleUser, Content: p.buildUserMessage(req)},
		},
		Temperature: p.temperature,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return nil, &lingoseo.ProviderError{
			Message:   "OpenAI API call failed",
			Cause:     err,
			Retryable: transient(err),
		}
	}

	if len(resp.Choices) == 0 {
		return nil, &lingoseo.ProviderError{
			Message:   "no response from OpenAI",
			Retryable: true,
		}
	}

	return p.parseResponse(resp.Choices[0].Message.Content, len(req.Texts))
}

func (p *OpenAIProvider) buildSystemPrompt(req TranslateRequest) string {
	sourceLang := req.SourceLang
	if sourceLang == "" {
		sourceLang = "en"
	}
	sourceName := lingoseo.LanguageName(sourceLang)
	targetName := lingoseo.LanguageName(req.TargetLang)

	contextText := "The texts are values of a personal portfolio website's translation table."
	if req.Context != "" {
		contextText += fmt.Sprintf(" The site is about: %s.", req.Context)
	}

	var b strings.Builder
	fmt.Fprintf(&b, `# Role
You are an expert native translator. You translate website copy from %s to %s with the fluency of a highly educated native speaker.

# Context
%s

# Register
%s

# Style Guide
- **Natural Flow**: Avoid literal translations. Rephrase so the copy reads as if written in %s.
- **SEO Copy**: Keys under "seo." are page titles, descriptions and keywords. Keep titles short, keep brand and person names unchanged, and keep descriptions under 160 characters.
- **Interpolation**: Do NOT translate placeholders such as {{name}}, {count} or %%s.
- **Markup**: Do NOT translate HTML tags, URLs or email addresses.
- **Keys**: Each text comes with its dotted table key. Use it only to understand where the text appears; never return it.`,
		sourceName, targetName, contextText, req.Style.Description(), targetName)

	if len(req.Glossary) > 0 {
		b.WriteString("\n\n# Glossary\nPrefer these translations:")
		sources := make([]string, 0, len(req.Glossary))
		for source := range req.Glossary {
			sources = append(sources, source)
		}
		sort.Strings(sources)
		for _, source := range sources {
			fmt.Fprintf(&b, "\n- %q → %s", source, req.Glossary[source])
		}
	}

	if len(req.ExcludedTerms) > 0 {
		fmt.Fprintf(&b, "\n\n# Exclusions\nKeep these terms exactly as they appear:\n- %s", strings.Join(req.ExcludedTerms, "\n- "))
	}

	b.WriteString(`

# Format
Return a valid JSON object with a single key "translations" containing an array of strings in the exact same order as the input.
Example: { "translations": ["translated string 1", "translated string 2"] }
- Do NOT wrap in Markdown code blocks.`)

	return b.String()
}

func (p *OpenAIProvider) buildUserMessage(req TranslateRequest) string {
	if len(req.Keys) != len(req.Texts) {
		data, _ := json.Marshal(req.Texts)
		return string(data)
	}

	type item struct {
		Key  string `json:"key"`
		Text string `json:"text"`
	}
	items := make([]item, len(req.Texts))
	for i, text := range req.Texts {
		items[i] = item{Key: req.Keys[i], Text: text}
	}
	data, _ := json.Marshal(map[string][]item{"items": items})
	return string(data)
}

// parseResponse accepts {"translations": [...]}, any object holding a
// single array, or a bare array. Code fences are stripped first.
func (p *OpenAIProvider) parseResponse(content string, want int) ([]string, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimSpace(strings.Trim(content, "`"))

	var values []any
	var obj map[string]json.RawMessage
	switch {
	case json.Unmarshal([]byte(content), &obj) == nil:
		raw, ok := obj["translations"]
		if !ok {
			names := make([]string, 0, len(obj))
			for name := range obj {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				if json.Unmarshal(obj[name], &values) == nil {
					break
				}
			}
		} else if err := json.Unmarshal(raw, &values); err != nil {
			values = nil
		}
	case json.Unmarshal([]byte(content), &values) == nil:
	}

	if values == nil {
		return nil, &lingoseo.ProviderError{Message: "invalid response format from OpenAI"}
	}
	if len(values) != want {
		return nil, &lingoseo.CountMismatchError{Expected: want, Got: len(values)}
	}

	out := make([]string, len(values))
	for i, v := range values {
		if str, ok := v.(string); ok {
			out[i] = str
			continue
		}
		out[i] = fmt.Sprint(v)
	}
	return out, nil
}

// transient reports whether a failed API call may succeed later: 429s,
// 5xx responses and network hiccups.
func transient(err error) bool {
	status := 0
	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatusCode
	case errors.As(err, &reqErr):
		status = reqErr.HTTPStatusCode
	}
	if status != 0 {
		return status == http.StatusTooManyRequests || status >= http.StatusInternalServerError
	}

	msg := strings.ToLower(err.Error())
	for _, hint := range []string{"rate limit", "timeout", "connection refused", "connection reset", "temporary", "eof"} {
		if strings.Contains(msg, hint) {
			return true
		}
	}
	return false
}

// Verify OpenAIProvider implements AIProvider
var _ AIProvider = (*OpenAIProvider)(nil)
