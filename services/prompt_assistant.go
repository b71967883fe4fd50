package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
)

// prompt tối đa gửi cho TTS và Gemini
const maxPromptRunes = 20000

var (
	reTOC          = regexp.MustCompile(`(?im)^.*(mục lục|table of contents).*$`)
	rePageNumber   = regexp.MustCompile(`(?im)^\s*(trang|page)\s*\d+\s*$`)
	reSpecialLines = regexp.MustCompile(`(?m)^[ \t\p{P}\p{S}\d]*$`)
	reMultiNewLine = regexp.MustCompile(`\n{2,}`)
	reSpaces       = regexp.MustCompile(`[ \t]{2,}`)
)

// PreCleanText bỏ mục lục, số trang, dòng rác và khoảng trắng thừa
func PreCleanText(text string) string {
	cleaned := strings.ReplaceAll(text, "\r\n", "\n")
	cleaned = reTOC.ReplaceAllString(cleaned, "")
	cleaned = rePageNumber.ReplaceAllString(cleaned, "")
	cleaned = reSpecialLines.ReplaceAllString(cleaned, "")
	cleaned = reSpaces.ReplaceAllString(cleaned, " ")
	cleaned = reMultiNewLine.ReplaceAllString(cleaned, "\n")
	return strings.TrimSpace(cleaned)
}

func truncateRunes(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}

// PromptAssistant dùng Gemini để gợi ý prompt ảnh và viết lại tài liệu thành kịch bản
type PromptAssistant struct {
	text TextGenerator
	log  *zap.Logger
}

// text có thể nil khi chưa cấu hình Gemini
func NewPromptAssistant(text TextGenerator, log *zap.Logger) *PromptAssistant {
	return &PromptAssistant{text: text, log: log}
}

func (a *PromptAssistant) generate(ctx context.Context, prompt string) (string, error) {
	if a.text == nil {
		return "", fmt.Errorf("text generation is not configured: %w", ErrExternalService)
	}
	out, err := a.text.GenerateText(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("generate text: %v: %w", err, ErrExternalService)
	}
	return out, nil
}

// SuggestImagePrompt gợi ý prompt tạo thumbnail từ tiêu đề và transcript
func (a *PromptAssistant) SuggestImagePrompt(ctx context.Context, title, transcript string) (string, error) {
	if strings.TrimSpace(title) == "" && strings.TrimSpace(transcript) == "" {
		return "", validationErr("title or transcript is required")
	}
	prompt := `You write prompts for an image model that draws podcast thumbnails.
Write one vivid prompt, at most 60 words, describing a square cover image for the podcast below.
No text or letters in the image. Return only the prompt, no markdown.

Title: ` + title + `
Transcript:
` + truncateRunes(transcript, 4000)

	out, err := a.generate(ctx, prompt)
	if err != nil {
		return "", err
	}
	return strings.Trim(out, "\"` \n"), nil
}

// PromptFromDocument trích text từ tài liệu để làm voice prompt.
// rewrite=true thì nhờ Gemini viết lại thành kịch bản đọc liền mạch.
func (a *PromptAssistant) PromptFromDocument(ctx context.Context, filename string, data []byte, rewrite bool) (string, error) {
	raw, err := ExtractDocumentText(filename, data)
	if err != nil {
		return "", err
	}
	cleaned := PreCleanText(raw)
	if cleaned == "" {
		return "", validationErr("document has no readable text")
	}
	cleaned = truncateRunes(cleaned, maxPromptRunes)
	if !rewrite {
		return cleaned, nil
	}

	prompt := `You are a professional audiobook narrator and editor.
Rewrite the extracted document below as one continuous solo narration script ready for text to speech.
Rules:
1. Skip front matter such as prefaces, tables of contents and editor notes. Keep the main chapters.
2. Do not drop key content and do not add facts that are not in the text.
3. Spell out abbreviations.
4. Plain text only: no markdown, no bullet points, no special characters.
5. Return only the script.
Document:

` + cleaned

	out, err := a.generate(ctx, prompt)
	if err != nil {
		return "", err
	}
	a.log.Debug("document rewritten", zap.Int("in_runes", utf8.RuneCountInString(cleaned)), zap.Int("out_runes", utf8.RuneCountInString(out)))
	return truncateRunes(out, maxPromptRunes), nil
}
