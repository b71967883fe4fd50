package utils

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	storage "github.com/supabase-community/storage-go"
)

const objectPathMarker = "/storage/v1/object/"

// SupabaseStorage lưu file vào một bucket Supabase Storage.
// Storage id chính là đường dẫn object trong bucket, ví dụ audio/podcast-<uuid>.mp3.
type SupabaseStorage struct {
	baseURL   string
	key       string
	bucket    string
	signedTTL time.Duration
}

// signedTTL = 0 thì URL trả về là public URL
func NewSupabaseStorage(baseURL, key, bucket string, signedTTL time.Duration) (*SupabaseStorage, error) {
	if baseURL == "" || key == "" {
		return nil, errors.New("SUPABASE_URL hoặc SUPABASE_KEY chưa cấu hình")
	}
	if bucket == "" {
		bucket = "uploads"
	}
	return &SupabaseStorage{
		baseURL:   strings.TrimRight(baseURL, "/"),
		key:       key,
		bucket:    bucket,
		signedTTL: signedTTL,
	}, nil
}

func (s *SupabaseStorage) storageURL() string {
	return s.baseURL + "/storage/v1"
}

// client mới cho mỗi lần gọi vì storage-go giữ header theo client
func (s *SupabaseStorage) client() *storage.Client {
	return storage.NewClient(s.storageURL(), s.key, map[string]string{"apikey": s.key})
}

func (s *SupabaseStorage) Upload(ctx context.Context, objectPath string, data []byte, contentType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	options := storage.FileOptions{ContentType: &contentType}
	if _, err := s.client().UploadFile(s.bucket, objectPath, bytes.NewReader(data), options); err != nil {
		return "", fmt.Errorf("upload %s: %w", objectPath, err)
	}
	return objectPath, nil
}

// URL trả về URL phát được cho storage id
func (s *SupabaseStorage) URL(ctx context.Context, storageID string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if s.signedTTL <= 0 {
		return s.client().GetPublicUrl(s.bucket, storageID).SignedURL, nil
	}
	resp, err := s.client().CreateSignedUrl(s.bucket, storageID, int(s.signedTTL.Seconds()))
	if err != nil {
		return "", fmt.Errorf("sign url %s: %w", storageID, err)
	}
	return resp.SignedURL, nil
}

func (s *SupabaseStorage) SignedUploadURL(ctx context.Context, objectPath string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	resp, err := s.client().CreateSignedUploadUrl(s.bucket, objectPath)
	if err != nil {
		return "", fmt.Errorf("sign upload %s: %w", objectPath, err)
	}
	if strings.HasPrefix(resp.Url, "http") {
		return resp.Url, nil
	}
	return s.storageURL() + "/" + strings.TrimLeft(resp.Url, "/"), nil
}

// Remove nhận storage id hoặc public URL cũ
func (s *SupabaseStorage) Remove(ctx context.Context, storageIDs ...string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	paths := make([]string, 0, len(storageIDs))
	for _, id := range storageIDs {
		if id == "" {
			continue
		}
		if strings.Contains(id, objectPathMarker) {
			bucket, object, err := ParseObjectURL(id)
			if err != nil {
				return err
			}
			if bucket != s.bucket {
				return fmt.Errorf("object %s thuộc bucket khác: %s", object, bucket)
			}
			id = object
		}
		paths = append(paths, id)
	}
	if len(paths) == 0 {
		return nil
	}
	if _, err := s.client().RemoveFile(s.bucket, paths); err != nil {
		return fmt.Errorf("xóa file Supabase thất bại: %w", err)
	}
	return nil
}

// ParseObjectURL tách bucket và đường dẫn object từ URL public hoặc signed
func ParseObjectURL(rawURL string) (bucket, object string, err error) {
	idx := strings.Index(rawURL, objectPathMarker)
	if idx == -1 {
		return "", "", fmt.Errorf("không xác định được đường dẫn object trong URL: %s", rawURL)
	}

	rest := rawURL[idx+len(objectPathMarker):]
	rest = strings.TrimPrefix(rest, "public/")
	rest = strings.TrimPrefix(rest, "sign/")

	parts := strings.SplitN(rest, "/", 2)
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("không parse được bucket/object từ URL: %s", rawURL)
	}
	object = parts[1]
	if q := strings.Index(object, "?"); q != -1 {
		object = object[:q]
	}
	if u, err := url.PathUnescape(object); err == nil {
		object = u
	}
	return parts[0], object, nil
}
