package ai

import (
	"context"
	"fmt"
	"strings"

	"listify-shopee-layer/internal/domain"
	"listify-shopee-layer/internal/ports"

	"github.com/google/generative-ai-go/genai"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"
)

// DefaultModel is the Gemini model used for listing copy.
const DefaultModel = "gemini-2.0-flash-exp"

type geminiService struct {
	client *genai.Client
	model  string
	logger zerolog.Logger
}

// NewGeminiService creates a Describer backed by the Gemini API. One client
// per credential set, constructed once at startup.
func NewGeminiService(ctx context.Context, apiKey string, logger zerolog.Logger) (ports.Describer, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &geminiService{
		client: client,
		model:  DefaultModel,
		logger: logger,
	}, nil
}

func (s *geminiService) DescribeProduct(ctx context.Context, images []domain.ImagePart, hints domain.DescribeHints) (domain.GeneratedContent, error) {
	parts := make([]genai.Part, 0, len(images)+1)
	parts = append(parts, genai.Text(buildPrompt(hints)))
	for _, img := range images {
		parts = append(parts, genai.ImageData(imageFormat(img.MIMEType), img.Data))
	}

	model := s.client.GenerativeModel(s.model)
	resp, err := model.GenerateContent(ctx, parts...)
	if err != nil {
		return domain.GeneratedContent{}, fmt.Errorf("gemini generate content: %w", err)
	}

	text := responseText(resp)
	if text == "" {
		return domain.GeneratedContent{}, fmt.Errorf("gemini returned an empty response")
	}

	content, parsed := ExtractContent(text)
	if !parsed {
		// Recovered locally: raw text becomes the description, never an error.
		s.logger.Warn().Int("text_len", len(text)).Msg("Model reply was not valid JSON, falling back to raw text")
	}
	return content, nil
}

// imageFormat maps a MIME type to the bare format name genai expects,
// e.g. image/png -> png.
func imageFormat(mimeType string) string {
	if format, ok := strings.CutPrefix(mimeType, "image/"); ok && format != "" {
		return format
	}
	return "jpeg"
}

func responseText(resp *genai.GenerateContentResponse) string {
	var sb strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				sb.WriteString(string(text))
			}
		}
	}
	return sb.String()
}

func buildPrompt(hints domain.DescribeHints) string {
	var sb strings.Builder
	sb.WriteString(`你是一個專業的電商商品文案撰寫專家。請根據這些商品圖片，生成一個吸引人的商品標題和詳細描述。

要求：
1. 標題：簡潔有力，30-50字，包含關鍵賣點
2. 描述：詳細完整，150-300字，包含：
   - 產品特色（至少3點）
   - 適用場景
   - 規格說明
   - 使用建議

`)
	if hints.Category != "" {
		sb.WriteString("商品類別：" + hints.Category + "\n")
	}
	if len(hints.Keywords) > 0 {
		sb.WriteString("關鍵字：" + strings.Join(hints.Keywords, ", ") + "\n")
	}
	sb.WriteString(`
請以 JSON 格式回覆，結構如下：
{
  "title": "商品標題",
  "description": "商品描述",
  "tags": ["標籤1", "標籤2", "標籤3"]
}
`)
	return sb.String()
}
