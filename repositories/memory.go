package repositories

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vnkhanh/wepodcaster-backend/models"
)

// MemoryUserRepository keeps users in process memory. Used with STORE_DRIVER=memory
// for local runs without Postgres, and by tests.
type MemoryUserRepository struct {
	mu    sync.RWMutex
	users []models.User
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{}
}

func (r *MemoryUserRepository) FindByIdentityID(_ context.Context, identityID string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i := range r.users {
		if r.users[i].IdentityID == identityID {
			u := r.users[i]
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryUserRepository) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.users {
		if r.users[i].IdentityID == user.IdentityID {
			return ErrDuplicate
		}
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	now := time.Now()
	user.CreatedAt, user.UpdatedAt = now, now
	r.users = append(r.users, *user)
	return nil
}

func (r *MemoryUserRepository) UpdateProfile(_ context.Context, identityID, email, imageURL string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.users {
		if r.users[i].IdentityID == identityID {
			r.users[i].Email = email
			r.users[i].ImageURL = imageURL
			r.users[i].UpdatedAt = time.Now()
			return nil
		}
	}
	return ErrNotFound
}

func (r *MemoryUserRepository) Delete(_ context.Context, identityID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.users {
		if r.users[i].IdentityID == identityID {
			r.users = append(r.users[:i], r.users[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (r *MemoryUserRepository) List(_ context.Context) ([]models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.User, len(r.users))
	copy(out, r.users)
	return out, nil
}

// MemoryPodcastRepository is the in-memory counterpart of PodcastRepository.
type MemoryPodcastRepository struct {
	mu       sync.RWMutex
	podcasts []models.Podcast
}

func NewMemoryPodcastRepository() *MemoryPodcastRepository {
	return &MemoryPodcastRepository{}
}

func (r *MemoryPodcastRepository) FindByID(_ context.Context, id uuid.UUID) (*models.Podcast, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i := range r.podcasts {
		if r.podcasts[i].ID == id {
			p := r.podcasts[i]
			return &p, nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryPodcastRepository) FindByAuthor(_ context.Context, authorID string) ([]models.Podcast, error) {
	return r.filter(func(p *models.Podcast) bool { return p.AuthorID == authorID }, false, 0), nil
}

func (r *MemoryPodcastRepository) FindByVoiceType(_ context.Context, voiceType models.VoiceType, excludeID uuid.UUID) ([]models.Podcast, error) {
	return r.filter(func(p *models.Podcast) bool {
		return p.VoiceType == voiceType && p.ID != excludeID
	}, true, 0), nil
}

func (r *MemoryPodcastRepository) Create(_ context.Context, podcast *models.Podcast) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if podcast.ID == uuid.Nil {
		podcast.ID = uuid.New()
	}
	now := time.Now()
	podcast.CreatedAt, podcast.UpdatedAt = now, now
	r.podcasts = append(r.podcasts, *podcast)
	return nil
}

func (r *MemoryPodcastRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.podcasts {
		if r.podcasts[i].ID == id {
			r.podcasts = append(r.podcasts[:i], r.podcasts[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (r *MemoryPodcastRepository) IncrementViews(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.podcasts {
		if r.podcasts[i].ID == id {
			r.podcasts[i].Views++
			return nil
		}
	}
	return ErrNotFound
}

func (r *MemoryPodcastRepository) UpdateAuthorImage(_ context.Context, authorID, imageURL string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for i := range r.podcasts {
		if r.podcasts[i].AuthorID == authorID {
			r.podcasts[i].AuthorImageURL = imageURL
			n++
		}
	}
	return n, nil
}

func (r *MemoryPodcastRepository) ListTrending(_ context.Context, limit int) ([]models.Podcast, error) {
	out := r.filter(func(*models.Podcast) bool { return true }, false, 0)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Views > out[j].Views })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *MemoryPodcastRepository) ListLatest(_ context.Context, limit int) ([]models.Podcast, error) {
	return r.filter(func(*models.Podcast) bool { return true }, true, limit), nil
}

func (r *MemoryPodcastRepository) SearchField(_ context.Context, field SearchField, query string, limit int) ([]models.Podcast, error) {
	needle := strings.ToLower(query)
	return r.filter(func(p *models.Podcast) bool {
		var hay string
		switch field {
		case SearchAuthor:
			hay = p.AuthorName
		case SearchTitle:
			hay = p.Title
		default:
			hay = p.Description
		}
		return strings.Contains(strings.ToLower(hay), needle)
	}, true, limit), nil
}

// filter copies matching podcasts, newest first when newestFirst is set.
func (r *MemoryPodcastRepository) filter(match func(*models.Podcast) bool, newestFirst bool, limit int) []models.Podcast {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.Podcast, 0)
	for i := range r.podcasts {
		if match(&r.podcasts[i]) {
			out = append(out, r.podcasts[i])
		}
	}
	if newestFirst {
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
