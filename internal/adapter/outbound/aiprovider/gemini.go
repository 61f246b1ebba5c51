package aiprovider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/smartplatform/gateway/internal/model"
	"github.com/smartplatform/gateway/internal/port/outbound"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	DefaultBaseURL    = "https://generativelanguage.googleapis.com/v1beta"
	DefaultTextModel  = "gemini-3-flash-preview"
	DefaultImageModel = "gemini-2.5-flash-image"

	generativeLanguageScope = "https://www.googleapis.com/auth/generative-language"
	defaultImagePrompt      = "Generate a high quality visual asset based on provided context."
	defaultInlineMimeType   = "image/png"
)

var (
	ErrProviderUnavailable = errors.New("provider unavailable")
	ErrRateLimited         = errors.New("provider rate limited")
	ErrAuthFailed          = errors.New("provider authentication failed")
	ErrInvalidRequest      = errors.New("provider rejected request")
	ErrEmptyResponse       = errors.New("provider returned no content")
)

// GeminiConfig holds Gemini client settings.
type GeminiConfig struct {
	APIKey     string
	BaseURL    string
	TextModel  string
	ImageModel string
	// UseADC authenticates with Google application default credentials
	// instead of an API key.
	UseADC bool
}

// Gemini calls the generateContent REST endpoint.
type Gemini struct {
	baseURL    string
	apiKey     string
	textModel  string
	imageModel string
	httpClient *http.Client
}

// NewGemini creates a Gemini client. When cfg.UseADC is set the given client
// is wrapped with an OAuth2 token source from the default credentials.
func NewGemini(ctx context.Context, cfg *GeminiConfig, client *http.Client) (*Gemini, error) {
	if client == nil {
		client = http.DefaultClient
	}
	if cfg.UseADC {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, client)
		ts, err := google.DefaultTokenSource(ctx, generativeLanguageScope)
		if err != nil {
			return nil, fmt.Errorf("load default credentials: %w", err)
		}
		client = oauth2.NewClient(ctx, ts)
	} else if cfg.APIKey == "" {
		return nil, errors.New("gemini api key is not configured")
	}

	g := &Gemini{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		textModel:  cfg.TextModel,
		imageModel: cfg.ImageModel,
		httpClient: client,
	}
	if g.baseURL == "" {
		g.baseURL = DefaultBaseURL
	}
	if g.textModel == "" {
		g.textModel = DefaultTextModel
	}
	if g.imageModel == "" {
		g.imageModel = DefaultImageModel
	}
	return g, nil
}

func (g *Gemini) Name() string { return "gemini" }

type geminiRequest struct {
	Contents          []geminiContent `json:"contents"`
	SystemInstruction *geminiContent  `json:"systemInstruction,omitempty"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type geminiResponse struct {
	Candidates []struct {
		Content      geminiContent `json:"content"`
		FinishReason string        `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback,omitempty"`
}

type geminiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// Generate routes image kinds to the image model and everything else to the
// text model.
func (g *Gemini) Generate(ctx context.Context, in *model.GenerationInput) (*model.GenerationResult, error) {
	modelName, body := g.buildRequest(in)

	resp, err := g.do(ctx, modelName, body)
	if err != nil {
		return nil, err
	}

	if in.Kind.IsImage() {
		return imageResult(resp)
	}
	return textResult(resp)
}

func (g *Gemini) buildRequest(in *model.GenerationInput) (string, *geminiRequest) {
	if in.Kind.IsImage() {
		var parts []geminiPart
		if in.ImageURI != "" {
			mimeType, data := splitDataURI(in.ImageURI)
			parts = append(parts, geminiPart{InlineData: &inlineData{MimeType: mimeType, Data: data}})
		}
		prompt := in.Prompt
		if strings.TrimSpace(prompt) == "" {
			prompt = defaultImagePrompt
		}
		parts = append(parts, geminiPart{Text: prompt})
		return g.imageModel, &geminiRequest{
			Contents: []geminiContent{{Role: "user", Parts: parts}},
		}
	}

	req := &geminiRequest{
		Contents: []geminiContent{{Role: "user", Parts: []geminiPart{{Text: in.Prompt}}}},
	}
	if in.SystemInstruction != "" {
		req.SystemInstruction = &geminiContent{Parts: []geminiPart{{Text: in.SystemInstruction}}}
	}
	return g.textModel, req
}

func (g *Gemini) do(ctx context.Context, modelName string, body *geminiRequest) (*geminiResponse, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal gemini request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", g.baseURL, modelName)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create gemini request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if g.apiKey != "" {
		httpReq.Header.Set("x-goog-api-key", g.apiKey)
	}

	httpResp, err := g.httpClient.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	defer httpResp.Body.Close()

	if err := mapHTTPError(httpResp); err != nil {
		return nil, err
	}

	var resp geminiResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("decode gemini response: %w", err)
	}
	if len(resp.Candidates) == 0 {
		if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
			return nil, fmt.Errorf("%w: prompt blocked (%s)", ErrInvalidRequest, resp.PromptFeedback.BlockReason)
		}
		return nil, ErrEmptyResponse
	}
	return &resp, nil
}

// imageResult returns the first inline image part as a data URI. A text-only
// answer (for example a refusal) is passed through as text.
func imageResult(resp *geminiResponse) (*model.GenerationResult, error) {
	var text string
	for _, part := range resp.Candidates[0].Content.Parts {
		if part.InlineData != nil && part.InlineData.Data != "" {
			mimeType := part.InlineData.MimeType
			if mimeType == "" {
				mimeType = defaultInlineMimeType
			}
			return &model.GenerationResult{
				Kind:     model.ResultKindImage,
				ImageURI: "data:" + mimeType + ";base64," + part.InlineData.Data,
				MimeType: mimeType,
			}, nil
		}
		if part.Text != "" {
			text = part.Text
		}
	}
	if text == "" {
		return nil, ErrEmptyResponse
	}
	return &model.GenerationResult{Kind: model.ResultKindText, Text: text}, nil
}

func textResult(resp *geminiResponse) (*model.GenerationResult, error) {
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}
	if sb.Len() == 0 {
		return nil, ErrEmptyResponse
	}
	return &model.GenerationResult{Kind: model.ResultKindText, Text: sb.String()}, nil
}

// splitDataURI accepts either a data URI or bare base64 and returns the
// mime type and payload.
func splitDataURI(uri string) (string, string) {
	header, data, ok := strings.Cut(uri, "base64,")
	if !ok {
		return defaultInlineMimeType, uri
	}
	mimeType := strings.TrimSuffix(strings.TrimPrefix(header, "data:"), ";")
	if mimeType == "" {
		mimeType = defaultInlineMimeType
	}
	return mimeType, data
}

func mapHTTPError(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	msg := strings.TrimSpace(string(body))
	var ge geminiError
	if json.Unmarshal(body, &ge) == nil && ge.Error.Message != "" {
		msg = ge.Error.Message
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", ErrRateLimited, msg)
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrAuthFailed, msg)
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return fmt.Errorf("%w: %s", ErrInvalidRequest, msg)
	default:
		return fmt.Errorf("%w: status %d: %s", ErrProviderUnavailable, resp.StatusCode, msg)
	}
}

// Compile-time check
var _ outbound.GenerationProviderPort = (*Gemini)(nil)
