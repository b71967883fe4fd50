package services

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vnkhanh/wepodcaster-backend/metrics"
	"github.com/vnkhanh/wepodcaster-backend/models"
)

const (
	audioContentType = "audio/mpeg"
	audioFolder      = "audio"

	toastGenerated    = "Podcast generated successfully"
	toastGenerateFail = "Error creating podcast"
)

// AudioGenerator chạy workflow tạo audio cho draft:
// synthesize -> đặt tên file -> upload -> lưu storage id -> lấy URL -> đo thời lượng.
type AudioGenerator struct {
	voices   VoiceSynthesizer
	storage  ObjectStorage
	notifier Notifier
	metrics  metrics.Recorder
	log      *zap.Logger
	duration func([]byte) (float64, error)
}

func NewAudioGenerator(voices VoiceSynthesizer, storage ObjectStorage, notifier Notifier, rec metrics.Recorder, log *zap.Logger) *AudioGenerator {
	return &AudioGenerator{
		voices:   voices,
		storage:  storage,
		notifier: notifier,
		metrics:  rec,
		log:      log,
		duration: MP3Duration,
	}
}

// GenerateAudio gọi dịch vụ TTS và trả về bytes mp3
func (g *AudioGenerator) GenerateAudio(ctx context.Context, voice models.VoiceType, input string) ([]byte, error) {
	if !voice.Valid() {
		return nil, validationErr("invalid voice type")
	}
	if strings.TrimSpace(input) == "" {
		return nil, validationErr("input is required")
	}
	audio, err := g.voices.Synthesize(ctx, voice, input)
	if err != nil {
		return nil, fmt.Errorf("synthesize speech: %v: %w", err, ErrExternalService)
	}
	if len(audio) == 0 {
		return nil, fmt.Errorf("synthesize speech: empty audio: %w", ErrExternalService)
	}
	return audio, nil
}

// GeneratePodcast chạy workflow trên draft. Lỗi chỉ trả về khi bị từ chối trước khi
// bắt đầu (prompt rỗng, đang generate); lỗi dịch vụ ngoài được thông báo và
// phản ánh trong LastOutcome của snapshot.
func (g *AudioGenerator) GeneratePodcast(ctx context.Context, identityID string, draft *PodcastDraft) (DraftSnapshot, error) {
	snap, err := draft.begin()
	if err != nil {
		if isValidation(err) {
			g.notifier.Toast(identityID, Toast{Title: "Please provide a voice prompt to generate podcast"})
			g.notifier.DraftChanged(identityID, snap)
		}
		return snap, err
	}

	// workflow không bị huỷ giữa chừng khi client ngắt kết nối
	ctx = context.WithoutCancel(ctx)
	started := time.Now()
	g.metrics.GenerationStarted()
	g.notifier.DraftChanged(identityID, snap)

	log := g.log.With(zap.String("identity_id", identityID), zap.String("voice", string(snap.VoiceType)))
	uploaded := ""

	fail := func(step string, err error) (DraftSnapshot, error) {
		log.Error("generate podcast failed", zap.String("step", step), zap.Error(err))
		if uploaded != "" {
			// file đã upload nhưng không được dùng, không dọn
			g.metrics.OrphanedAudio()
			log.Warn("orphaned audio left in storage", zap.String("storage_id", uploaded))
		}
		g.metrics.GenerationFinished(string(StateFailed), time.Since(started))
		g.transition(identityID, draft, StateFailed, "", 0)
		g.notifier.Toast(identityID, Toast{Title: toastGenerateFail, Variant: ToastDestructive})
		return draft.Snapshot(), nil
	}

	audio, err := g.GenerateAudio(ctx, snap.VoiceType, snap.VoicePrompt)
	if err != nil {
		return fail("synthesize", err)
	}

	fileName := fmt.Sprintf("podcast-%s.mp3", uuid.NewString())
	storageID, err := g.storage.Upload(ctx, path.Join(audioFolder, fileName), audio, audioContentType)
	if err != nil {
		return fail("upload", err)
	}
	uploaded = storageID
	draft.setStorageID(storageID)

	audioURL, err := g.storage.URL(ctx, storageID)
	if err != nil {
		return fail("resolve_url", err)
	}

	duration, err := g.duration(audio)
	if err != nil {
		log.Warn("measure audio duration failed", zap.Error(err))
		duration = 0
	}

	g.metrics.GenerationFinished(string(StateSucceeded), time.Since(started))
	g.transition(identityID, draft, StateSucceeded, audioURL, duration)
	g.notifier.Toast(identityID, Toast{Title: toastGenerated})
	log.Info("podcast audio generated",
		zap.String("storage_id", storageID),
		zap.Float64("duration", duration),
		zap.Duration("took", time.Since(started)))
	return draft.Snapshot(), nil
}

// transition phát trạng thái kết thúc rồi trạng thái Idle
func (g *AudioGenerator) transition(identityID string, draft *PodcastDraft, outcome GenerationState, audioURL string, duration float64) {
	idle := draft.finish(outcome, audioURL, duration)
	terminal := idle
	terminal.State = outcome
	g.notifier.DraftChanged(identityID, terminal)
	g.notifier.DraftChanged(identityID, idle)
}
