package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/vnkhanh/wepodcaster-backend/models"
)

type GenerationState string

const (
	StateIdle       GenerationState = "idle"
	StateGenerating GenerationState = "generating"
	StateSucceeded  GenerationState = "succeeded"
	StateFailed     GenerationState = "failed"
)

// DraftSnapshot là bản sao trạng thái draft tại một thời điểm
type DraftSnapshot struct {
	State          GenerationState  `json:"state"`
	IsGenerating   bool             `json:"is_generating"`
	VoiceType      models.VoiceType `json:"voice_type"`
	VoicePrompt    string           `json:"voice_prompt"`
	AudioURL       string           `json:"audio_url"`
	AudioStorageID string           `json:"audio_storage_id"`
	AudioDuration  float64          `json:"audio_duration"`
	LastOutcome    GenerationState  `json:"last_outcome,omitempty"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// PodcastDraft giữ trạng thái tạo podcast đang dở của một user.
// Các field audio được form tạo podcast đọc lại khi lưu.
type PodcastDraft struct {
	mu             sync.Mutex
	state          GenerationState
	voiceType      models.VoiceType
	voicePrompt    string
	audioURL       string
	audioStorageID string
	audioDuration  float64
	lastOutcome    GenerationState
	updatedAt      time.Time
}

func NewPodcastDraft() *PodcastDraft {
	return &PodcastDraft{
		state:     StateIdle,
		voiceType: models.VoiceAlloy,
		updatedAt: time.Now(),
	}
}

func (d *PodcastDraft) Snapshot() DraftSnapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.snapshotLocked()
}

func (d *PodcastDraft) snapshotLocked() DraftSnapshot {
	return DraftSnapshot{
		State:          d.state,
		IsGenerating:   d.state == StateGenerating,
		VoiceType:      d.voiceType,
		VoicePrompt:    d.voicePrompt,
		AudioURL:       d.audioURL,
		AudioStorageID: d.audioStorageID,
		AudioDuration:  d.audioDuration,
		LastOutcome:    d.lastOutcome,
		UpdatedAt:      d.updatedAt,
	}
}

// SetInput đổi giọng và prompt; lần generate đang chạy vẫn dùng giá trị cũ
func (d *PodcastDraft) SetInput(voiceType models.VoiceType, prompt string) (DraftSnapshot, error) {
	if !voiceType.Valid() {
		return DraftSnapshot{}, validationErr("invalid voice type")
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.voiceType = voiceType
	d.voicePrompt = prompt
	d.updatedAt = time.Now()
	return d.snapshotLocked(), nil
}

// Reset xoá draft sau khi podcast đã được lưu
func (d *PodcastDraft) Reset() (DraftSnapshot, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state == StateGenerating {
		return d.snapshotLocked(), ErrGenerationInProgress
	}
	d.voiceType = models.VoiceAlloy
	d.voicePrompt = ""
	d.audioURL = ""
	d.audioStorageID = ""
	d.audioDuration = 0
	d.lastOutcome = ""
	d.updatedAt = time.Now()
	return d.snapshotLocked(), nil
}

// ResetIfAudio chỉ reset khi draft vẫn giữ đúng audio đã đọc trước đó.
// Trả false nếu audio đã đổi hoặc đang generate.
func (d *PodcastDraft) ResetIfAudio(storageID, audioURL string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state == StateGenerating || d.audioStorageID != storageID || d.audioURL != audioURL {
		return false
	}
	d.voiceType = models.VoiceAlloy
	d.voicePrompt = ""
	d.audioURL = ""
	d.audioStorageID = ""
	d.audioDuration = 0
	d.lastOutcome = ""
	d.updatedAt = time.Now()
	return true
}

func (d *PodcastDraft) touch() {
	d.mu.Lock()
	d.updatedAt = time.Now()
	d.mu.Unlock()
}

// begin chuyển Idle -> Generating. Audio cũ luôn bị xoá, kể cả khi prompt rỗng.
func (d *PodcastDraft) begin() (DraftSnapshot, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state == StateGenerating {
		return d.snapshotLocked(), ErrGenerationInProgress
	}
	d.audioURL = ""
	d.audioDuration = 0
	d.updatedAt = time.Now()
	if strings.TrimSpace(d.voicePrompt) == "" {
		return d.snapshotLocked(), validationErr("please provide a voice prompt to generate podcast")
	}
	d.state = StateGenerating
	d.lastOutcome = ""
	return d.snapshotLocked(), nil
}

func (d *PodcastDraft) setStorageID(storageID string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.audioStorageID = storageID
	d.updatedAt = time.Now()
}

// finish kết thúc lần generate và trả draft về Idle
func (d *PodcastDraft) finish(outcome GenerationState, audioURL string, duration float64) DraftSnapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.state = StateIdle
	d.lastOutcome = outcome
	d.audioURL = audioURL
	d.audioDuration = duration
	d.updatedAt = time.Now()
	return d.snapshotLocked()
}

func (d *PodcastDraft) idleSince(cutoff time.Time) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state != StateGenerating && d.updatedAt.Before(cutoff)
}

// DraftRegistry giữ một draft cho mỗi identity
type DraftRegistry struct {
	mu     sync.Mutex
	drafts map[string]*PodcastDraft
}

func NewDraftRegistry() *DraftRegistry {
	return &DraftRegistry{drafts: make(map[string]*PodcastDraft)}
}

// Get trả về draft của identity, tạo mới nếu chưa có.
// Mỗi lần Get cũng tính là hoạt động để Sweep không xoá draft đang được dùng.
func (r *DraftRegistry) Get(identityID string) *PodcastDraft {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.drafts[identityID]
	if !ok {
		d = NewPodcastDraft()
		r.drafts[identityID] = d
		return d
	}
	d.touch()
	return d
}

func (r *DraftRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.drafts)
}

// Sweep xoá các draft không hoạt động từ trước cutoff; draft đang generate được giữ lại
func (r *DraftRegistry) Sweep(cutoff time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	for id, d := range r.drafts {
		if d.idleSince(cutoff) {
			delete(r.drafts, id)
			removed++
		}
	}
	return removed
}

// StartSweepJob chạy Sweep định kỳ cho tới khi ctx bị huỷ
func (r *DraftRegistry) StartSweepJob(ctx context.Context, interval, idleTTL time.Duration, log *zap.Logger) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				if n := r.Sweep(now.Add(-idleTTL)); n > 0 {
					log.Info("idle drafts swept", zap.Int("removed", n))
				}
			}
		}
	}()
	log.Info("draft sweep job started", zap.Duration("interval", interval), zap.Duration("idle_ttl", idleTTL))
}
