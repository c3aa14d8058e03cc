package vision

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"go.uber.org/zap"

	"RunCrew/config"
	"RunCrew/pkg/logger"
)

const geminiEndpoint = "https://generativelanguage.googleapis.com/v1beta/models/%s:generateContent"

const extractionPrompt = `Analyze this screenshot from a running app.
Extract the total distance in kilometers and the total workout duration in minutes.
If a value cannot be read from the image, return 0 for it and explain why in notes.
Return only the JSON object.`

type GeminiClient struct {
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewGeminiClient 创建 Gemini 识别客户端
// API Key 从配置读取，见 GEMINI_API_KEY
func NewGeminiClient() (*GeminiClient, error) {
	cfg := config.Cfg
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required for the gemini provider")
	}

	timeout := time.Duration(cfg.GeminiTimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &GeminiClient{
		apiKey: cfg.GeminiAPIKey,
		model:  cfg.GeminiModel,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// generateContent 请求体，强制 JSON 输出
type geminiRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inlineData,omitempty"`
}

type geminiInlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type geminiGenerationConfig struct {
	ResponseMimeType string          `json:"responseMimeType"`
	ResponseSchema   json.RawMessage `json:"responseSchema"`
}

var extractionSchema = json.RawMessage(`{
	"type": "object",
	"properties": {
		"distance_km": {"type": "number"},
		"duration_minutes": {"type": "number"},
		"notes": {"type": "string"}
	},
	"required": ["distance_km", "duration_minutes"]
}`)

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Analyze 调用 generateContent 识别截图
// 网络失败返回错误；模型输出解析不出来时返回零值结果，让校验环节自然拒绝
func (c *GeminiClient) Analyze(ctx context.Context, imageBytes []byte, mimeType string) (*Extraction, error) {
	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	reqBody := geminiRequest{
		Contents: []geminiContent{{
			Parts: []geminiPart{
				{InlineData: &geminiInlineData{
					MimeType: mimeType,
					Data:     base64.StdEncoding.EncodeToString(imageBytes),
				}},
				{Text: extractionPrompt},
			},
		}},
		GenerationConfig: geminiGenerationConfig{
			ResponseMimeType: "application/json",
			ResponseSchema:   extractionSchema,
		},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal gemini request: %w", err)
	}

	url := fmt.Sprintf(geminiEndpoint, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build gemini request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gemini request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read gemini response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		logger.Logger.Error("Gemini API returned error",
			zap.Int("status", resp.StatusCode),
			zap.String("model", c.model),
		)
		return nil, fmt.Errorf("gemini API error: status=%d", resp.StatusCode)
	}

	var parsed geminiResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode gemini response: %w", err)
	}

	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		logger.Logger.Warn("Gemini returned no candidates", zap.String("model", c.model))
		return &Extraction{Notes: "model returned no candidates"}, nil
	}

	var extraction Extraction
	text := parsed.Candidates[0].Content.Parts[0].Text
	if err := json.Unmarshal([]byte(text), &extraction); err != nil {
		// 模型没按 schema 来，按零值处理而不是报错
		logger.Logger.Warn("Gemini output is not valid extraction JSON",
			zap.String("model", c.model),
			zap.Error(err),
		)
		return &Extraction{Notes: "model output could not be parsed"}, nil
	}

	sanitize(&extraction)
	return &extraction, nil
}

// sanitize 把不可信的数值掰回合法范围
func sanitize(e *Extraction) {
	if math.IsNaN(e.DistanceKm) || math.IsInf(e.DistanceKm, 0) || e.DistanceKm < 0 {
		e.DistanceKm = 0
	}
	if math.IsNaN(e.DurationMinutes) || math.IsInf(e.DurationMinutes, 0) || e.DurationMinutes < 0 {
		e.DurationMinutes = 0
	}
}
