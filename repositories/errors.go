package repositories

import (
	"errors"

	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when a lookup matches no record.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate: bản ghi vi phạm unique key (ví dụ identity_id đã tồn tại)
	ErrDuplicate = errors.New("duplicate record")
)

// translate cần gorm.Config{TranslateError: true} để nhận ra duplicate key
func translate(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	}
	return err
}
