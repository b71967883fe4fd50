package services

import (
	"context"
	"errors"
	"fmt"

	texttospeech "cloud.google.com/go/texttospeech/apiv1"
	texttospeechpb "cloud.google.com/go/texttospeech/apiv1/texttospeechpb"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"github.com/vnkhanh/wepodcaster-backend/models"
)

// Google giới hạn 5000 bytes mỗi request
const ttsChunkBytes = 4500

// googleVoices map voice type của app sang giọng Chirp3 HD
var googleVoices = map[models.VoiceType]string{
	models.VoiceAlloy:   "en-US-Chirp3-HD-Aoede",
	models.VoiceEcho:    "en-US-Chirp3-HD-Charon",
	models.VoiceFable:   "en-US-Chirp3-HD-Fenrir",
	models.VoiceOnyx:    "en-US-Chirp3-HD-Orus",
	models.VoiceNova:    "en-US-Chirp3-HD-Kore",
	models.VoiceShimmer: "en-US-Chirp3-HD-Leda",
}

type GoogleSynthesizer struct {
	client *texttospeech.Client
	rate   float64
	log    *zap.Logger
}

// NewGoogleSynthesizer tạo client TTS từ file credentials
func NewGoogleSynthesizer(ctx context.Context, credentialsFile string, log *zap.Logger) (*GoogleSynthesizer, error) {
	if credentialsFile == "" {
		return nil, errors.New("GOOGLE_CREDENTIALS_JSON is not set")
	}
	client, err := texttospeech.NewClient(ctx, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("create texttospeech client: %w", err)
	}
	return &GoogleSynthesizer{client: client, rate: 1.0, log: log}, nil
}

func (s *GoogleSynthesizer) Close() error {
	return s.client.Close()
}

// Synthesize chuyển text thành mp3, text dài được chia chunk rồi nối lại
func (s *GoogleSynthesizer) Synthesize(ctx context.Context, voice models.VoiceType, text string) ([]byte, error) {
	if len(text) == 0 {
		return nil, errors.New("text is empty")
	}
	name, ok := googleVoices[voice]
	if !ok {
		return nil, fmt.Errorf("unsupported voice %q", voice)
	}

	chunks := splitTextToChunksByByte(text, ttsChunkBytes)
	var allAudio []byte
	for idx, chunk := range chunks {
		s.log.Debug("synthesizing chunk",
			zap.Int("chunk", idx+1), zap.Int("total", len(chunks)), zap.Int("bytes", len(chunk)))

		resp, err := s.client.SynthesizeSpeech(ctx, &texttospeechpb.SynthesizeSpeechRequest{
			Input: &texttospeechpb.SynthesisInput{
				InputSource: &texttospeechpb.SynthesisInput_Text{Text: chunk},
			},
			Voice: &texttospeechpb.VoiceSelectionParams{
				LanguageCode: "en-US",
				Name:         name,
			},
			AudioConfig: &texttospeechpb.AudioConfig{
				AudioEncoding: texttospeechpb.AudioEncoding_MP3,
				SpeakingRate:  s.rate,
			},
		})
		if err != nil {
			return nil, fmt.Errorf("chunk %d/%d: %w", idx+1, len(chunks), err)
		}
		allAudio = append(allAudio, resp.AudioContent...)
	}
	return allAudio, nil
}

// splitTextToChunksByByte chia text theo giới hạn byte, ưu tiên cắt ở dấu câu
func splitTextToChunksByByte(text string, maxBytes int) []string {
	var chunks []string
	remaining := text

	for len(remaining) > 0 {
		if len(remaining) <= maxBytes {
			chunks = append(chunks, remaining)
			break
		}

		cutPos := maxBytes
		for i := cutPos; i > 0; i-- {
			c := remaining[i-1]
			if c == '.' || c == '!' || c == '?' || c == '\n' {
				cutPos = i
				break
			}
		}

		// không cắt giữa ký tự UTF-8
		for cutPos > 0 && cutPos < len(remaining) && (remaining[cutPos]&0xC0) == 0x80 {
			cutPos--
		}
		if cutPos == 0 {
			cutPos = maxBytes
		}

		chunks = append(chunks, remaining[:cutPos])
		remaining = remaining[cutPos:]
	}

	return chunks
}
