package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/skinsewa/api/internal/config"
	"github.com/skinsewa/api/internal/model"
	"github.com/skinsewa/api/pkg/errors"
)

// Client sends one image plus patient context to the generative model
// endpoint and normalizes the reply into a model.AnalysisResult. The
// call is a single request/response; retries and fallbacks are the
// caller's concern.
type Client struct {
	cfg        config.GeminiConfig
	httpClient *http.Client
}

func NewClient(cfg config.GeminiConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	InlineData *inlineData `json:"inlineData,omitempty"`
	Text       string      `json:"text,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	TopP            float64 `json:"topP"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// rawResult matches the JSON object embedded in the model's free-text
// reply. Numeric fields arrive as numbers, strings or not at all, so
// everything passes through clamp before reaching AnalysisResult.
type rawResult struct {
	Condition         string          `json:"condition"`
	Confidence        json.RawMessage `json:"confidence"`
	Description       string          `json:"description"`
	Recommendations   []string        `json:"recommendations"`
	Severity          json.RawMessage `json:"severity"`
	TreatmentResponse json.RawMessage `json:"treatmentResponse"`
	RecurrenceRate    json.RawMessage `json:"recurrenceRate"`
	SpreadRate        json.RawMessage `json:"spreadRate"`
}

// Analyze posts the image and patient context to the model endpoint,
// extracts the embedded JSON object from the reply and returns the
// normalized result.
func (c *Client) Analyze(ctx context.Context, imageDataURI, patientContextText string) (*model.AnalysisResult, error) {
	mimeType, base64Data, err := splitDataURI(imageDataURI)
	if err != nil {
		return nil, errors.Validation("invalid image data URI", err)
	}

	reqBody := generateRequest{
		Contents: []content{
			{
				Parts: []part{
					{InlineData: &inlineData{MimeType: mimeType, Data: base64Data}},
					{Text: instructionPrompt + patientContextText},
				},
			},
		},
		GenerationConfig: generationConfig{
			Temperature:     c.cfg.Temperature,
			TopP:            c.cfg.TopP,
			MaxOutputTokens: c.cfg.MaxOutputTokens,
		},
	}

	text, err := c.generate(ctx, reqBody)
	if err != nil {
		return nil, err
	}
	return parseResultText(text)
}

// Conversational settings for the assistant: looser sampling and a
// shorter reply budget than the analysis call.
const (
	chatTemperature     = 0.4
	chatTopP            = 0.8
	chatMaxOutputTokens = 800
)

// Complete sends a text-only prompt and returns the first candidate's
// reply verbatim.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	reqBody := generateRequest{
		Contents: []content{
			{Parts: []part{{Text: prompt}}},
		},
		GenerationConfig: generationConfig{
			Temperature:     chatTemperature,
			TopP:            chatTopP,
			MaxOutputTokens: chatMaxOutputTokens,
		},
	}
	return c.generate(ctx, reqBody)
}

// generate posts one request to the model endpoint and returns the
// first candidate's text.
func (c *Client) generate(ctx context.Context, reqBody generateRequest) (string, error) {
	apiKey := c.cfg.APIKey
	if key, ok := ctx.Value(APIKeyContextKey).(string); ok && key != "" {
		apiKey = key
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", errors.Gateway(0, err.Error())
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.Gateway(resp.StatusCode, "failed to read response body")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", errors.Gateway(resp.StatusCode, string(body))
	}

	var gr generateResponse
	if err := json.Unmarshal(body, &gr); err != nil {
		return "", errors.Parse("failed to decode model response", err)
	}

	if len(gr.Candidates) > 0 && len(gr.Candidates[0].Content.Parts) > 0 {
		return gr.Candidates[0].Content.Parts[0].Text, nil
	}
	return "", nil
}

// contextKey is unexported to keep the API-key override internal.
type contextKey string

// APIKeyContextKey lets a handler supply a per-request API key stored
// via the admin dashboard instead of the configured one.
const APIKeyContextKey contextKey = "gemini_api_key"

// parseResultText locates the first '{' and the last '}' in the model's
// free-text reply and parses the substring between them.
func parseResultText(text string) (*model.AnalysisResult, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return nil, errors.Parse("model reply contains no JSON object", nil)
	}

	var raw rawResult
	if err := json.Unmarshal([]byte(text[start:end+1]), &raw); err != nil {
		return nil, errors.Parse("model reply contains malformed JSON", err)
	}

	result := &model.AnalysisResult{
		Condition:         raw.Condition,
		Confidence:        clamp(raw.Confidence),
		Description:       raw.Description,
		Recommendations:   raw.Recommendations,
		Severity:          clamp(raw.Severity),
		TreatmentResponse: clamp(raw.TreatmentResponse),
		RecurrenceRate:    clamp(raw.RecurrenceRate),
		SpreadRate:        clamp(raw.SpreadRate),
	}

	if result.Condition == "" {
		result.Condition = "Unidentified condition"
	}
	if result.Description == "" {
		result.Description = "No description provided"
	}
	if len(result.Recommendations) == 0 {
		result.Recommendations = []string{"Consult a dermatologist"}
	}

	return result, nil
}

// clamp normalizes a raw JSON value into [0,1] with two-decimal
// precision. Missing, non-numeric and unparseable values become 0.
func clamp(raw json.RawMessage) float64 {
	if len(raw) == 0 {
		return 0
	}

	var v float64
	if err := json.Unmarshal(raw, &v); err != nil {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0
		}
		parsed, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return 0
		}
		v = parsed
	}

	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	v = math.Max(0, math.Min(1, v))
	return math.Round(v*100) / 100
}

// splitDataURI extracts the MIME type and base64 payload from a data
// URI of the form data:<mime>;base64,<payload>.
func splitDataURI(uri string) (mimeType, data string, err error) {
	if !strings.HasPrefix(uri, "data:") {
		return "", "", fmt.Errorf("not a data URI")
	}
	comma := strings.Index(uri, ",")
	if comma < 0 {
		return "", "", fmt.Errorf("data URI missing payload separator")
	}
	meta := uri[len("data:"):comma]
	mimeType = strings.TrimSuffix(meta, ";base64")
	if mimeType == meta {
		return "", "", fmt.Errorf("data URI payload is not base64 encoded")
	}
	data = uri[comma+1:]
	if data == "" {
		return "", "", fmt.Errorf("data URI payload is empty")
	}
	return mimeType, data, nil
}
