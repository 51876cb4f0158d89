// Package openaillm scores transcripts for viral moments through an
// OpenAI-compatible chat completion API. Responses are decoded
// tolerantly: models return arrays, {"clips": [...]} wrappers, or a
// single object, sometimes inside markdown fences.
package openaillm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/clipforge/clipforge/internal/types"
)

// promptSegmentLimit caps how many transcript segments go into the
// prompt; long transcripts would otherwise blow the context window.
const promptSegmentLimit = 100

type Adapter struct {
	cli    *openai.Client
	model  string
	apiKey string
}

func New(apiKey, baseURL, model string) *Adapter {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &Adapter{cli: openai.NewClientWithConfig(cfg), model: model, apiKey: apiKey}
}

func (a *Adapter) AnalyzeTranscript(ctx context.Context, text string, segments []types.Segment, clipDuration int) ([]types.Moment, error) {
	promptSegs := segments
	if len(promptSegs) > promptSegmentLimit {
		promptSegs = promptSegs[:promptSegmentLimit]
	}
	segJSON, err := json.Marshal(promptSegs)
	if err != nil {
		return nil, fmt.Errorf("marshal segments: %w", err)
	}

	req := openai.ChatCompletionRequest{
		Model: a.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: buildPrompt(segJSON, clipDuration)},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	resp, err := a.cli.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("chat completion: %s", redactSecrets(err.Error(), a.apiKey))
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("chat completion returned no choices")
	}
	return DecodeMoments(resp.Choices[0].Message.Content)
}

func buildPrompt(segmentsJSON []byte, clipDuration int) string {
	return fmt.Sprintf(
		"Analyze the following video transcript segments and identify the most viral, funny, or engaging parts suitable for short-form vertical clips (under %d seconds each).\n\n"+
			"Transcript segments:\n%s\n\n"+
			"Return strictly valid JSON of the form {\"clips\": [{\"start\": <seconds>, \"end\": <seconds>, \"reason\": \"<why this is viral>\", \"score\": <0.0 to 1.0>, \"title\": \"<catchy viral title>\", \"description\": \"<engaging social description>\", \"hashtags\": [\"<tag>\", ...]}]}.\n\n"+
			"Focus on:\n"+
			"1. High energy or emotional moments.\n"+
			"2. Complete context (starts and ends clearly).\n"+
			"3. Duration between 15s and %ds.\n"+
			"4. Titles and descriptions should be clickbaity and viral-optimized.",
		clipDuration, segmentsJSON, clipDuration,
	)
}

// DecodeMoments accepts the raw model content and extracts a moment
// list from any of the shapes models actually produce.
func DecodeMoments(content string) ([]types.Moment, error) {
	clean, err := extractJSON(content)
	if err != nil {
		return nil, err
	}

	var list []types.Moment
	if err := json.Unmarshal([]byte(clean), &list); err == nil {
		return list, nil
	}

	var wrapped struct {
		Clips []types.Moment `json:"clips"`
	}
	if err := json.Unmarshal([]byte(clean), &wrapped); err == nil && wrapped.Clips != nil {
		return wrapped.Clips, nil
	}

	var single types.Moment
	if err := json.Unmarshal([]byte(clean), &single); err == nil && single.End > single.Start {
		return []types.Moment{single}, nil
	}

	return nil, fmt.Errorf("could not decode moments from: %q", truncate(clean, 200))
}

// extractJSON strips markdown fences and slices out the first JSON
// array or object in the content.
func extractJSON(s string) (string, error) {
	t := strings.TrimSpace(s)
	if t == "" {
		return "", errors.New("empty model content")
	}
	if strings.HasPrefix(t, "```") {
		if i := strings.Index(t, "\n"); i >= 0 {
			t = t[i+1:]
		}
		if j := strings.LastIndex(t, "```"); j >= 0 {
			t = t[:j]
		}
		t = strings.TrimSpace(t)
	}

	objStart := strings.IndexAny(t, "[{")
	if objStart < 0 {
		return "", fmt.Errorf("no JSON found in: %q", truncate(t, 200))
	}
	var objEnd int
	if t[objStart] == '[' {
		objEnd = strings.LastIndex(t, "]")
	} else {
		objEnd = strings.LastIndex(t, "}")
	}
	if objEnd <= objStart {
		return "", fmt.Errorf("unterminated JSON in: %q", truncate(t, 200))
	}
	return t[objStart : objEnd+1], nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

var (
	bearerTokenRE = regexp.MustCompile(`(?i)\bBearer\s+[A-Za-z0-9._-]+\b`)
	apiKeyFieldRE = regexp.MustCompile(`(?i)(api[_-]?key\s*[:=]\s*)([^\n\r,;]+)`)
)

func redactSecrets(s, apiKey string) string {
	if s == "" {
		return s
	}
	out := s
	if apiKey != "" {
		out = strings.ReplaceAll(out, apiKey, "[REDACTED]")
	}
	out = bearerTokenRE.ReplaceAllString(out, "Bearer [REDACTED]")
	out = apiKeyFieldRE.ReplaceAllString(out, "${1}[REDACTED]")
	return out
}
