// Package playback holds the active playback session of each user.
//
// A Provider is a single-slot broadcast: at most one session, every write
// replaces it wholesale, and subscribers always see the latest value.
package playback

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

var ErrNoSession = errors.New("no active playback session")

// Session là podcast đang phát; luôn được thay nguyên khối, không sửa từng field
type Session struct {
	PodcastID uuid.UUID `json:"podcast_id"`
	Title     string    `json:"title"`
	Author    string    `json:"author"`
	AudioURL  string    `json:"audio_url"`
	ImageURL  string    `json:"image_url"`
	Duration  float64   `json:"duration"`
	Position  float64   `json:"position"`
	StartedAt time.Time `json:"started_at"`
}

// Provider: nil trên channel subscribe nghĩa là session đã bị xoá
type Provider struct {
	mu       sync.Mutex
	current  *Session
	subs     map[int]chan *Session
	nextID   int
	onChange func(*Session)
}

// onChange được gọi sau mỗi lần ghi, có thể nil
func NewProvider(onChange func(*Session)) *Provider {
	return &Provider{subs: make(map[int]chan *Session), onChange: onChange}
}

// SetAudio thay session hiện tại
func (p *Provider) SetAudio(s Session) {
	p.mu.Lock()
	p.publishLocked(&s)
	p.unlockAndNotify(&s)
}

func (p *Provider) Clear() {
	p.mu.Lock()
	p.publishLocked(nil)
	p.unlockAndNotify(nil)
}

// Audio trả về bản sao session hiện tại
func (p *Provider) Audio() (Session, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current == nil {
		return Session{}, false
	}
	return *p.current, true
}

// SetPosition thay session bằng bản sao có vị trí mới.
// Đọc, clamp và ghi trong cùng một lần giữ lock nên không ghi đè SetAudio/Clear chạy song song.
func (p *Provider) SetPosition(position float64) (Session, error) {
	p.mu.Lock()
	if p.current == nil {
		p.mu.Unlock()
		return Session{}, ErrNoSession
	}
	next := *p.current
	if position < 0 {
		position = 0
	}
	if next.Duration > 0 && position > next.Duration {
		position = next.Duration
	}
	next.Position = position
	p.publishLocked(&next)
	p.unlockAndNotify(&next)
	return next, nil
}

// Subscribe trả về channel luôn chứa giá trị mới nhất và hàm huỷ đăng ký
func (p *Provider) Subscribe() (<-chan *Session, func()) {
	p.mu.Lock()
	defer p.mu.Unlock()

	id := p.nextID
	p.nextID++
	ch := make(chan *Session, 1)
	if p.current != nil {
		ch <- clone(p.current)
	}
	p.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			p.mu.Lock()
			delete(p.subs, id)
			p.mu.Unlock()
		})
	}
}

// publishLocked ghi session và đẩy cho subscriber; p.mu phải đang được giữ
func (p *Provider) publishLocked(s *Session) {
	p.current = s
	for _, ch := range p.subs {
		// bỏ giá trị cũ chưa đọc rồi ghi giá trị mới
		select {
		case <-ch:
		default:
		}
		ch <- clone(s)
	}
}

// unlockAndNotify nhả lock rồi gọi onChange ngoài lock
func (p *Provider) unlockAndNotify(s *Session) {
	onChange := p.onChange
	p.mu.Unlock()
	if onChange != nil {
		onChange(clone(s))
	}
}

func clone(s *Session) *Session {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}

// Registry giữ một Provider cho mỗi identity
type Registry struct {
	mu        sync.Mutex
	providers map[string]*Provider
	onChange  func(identityID string, s *Session)
}

func NewRegistry(onChange func(identityID string, s *Session)) *Registry {
	return &Registry{providers: make(map[string]*Provider), onChange: onChange}
}

func (r *Registry) For(identityID string) *Provider {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.providers[identityID]
	if !ok {
		var hook func(*Session)
		if r.onChange != nil {
			hook = func(s *Session) { r.onChange(identityID, s) }
		}
		p = NewProvider(hook)
		r.providers[identityID] = p
	}
	return p
}

// SetOnChange đổi hook cho các provider tạo sau lời gọi này
func (r *Registry) SetOnChange(fn func(identityID string, s *Session)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onChange = fn
}
