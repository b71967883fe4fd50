package services

import (
	"errors"
	"fmt"

	"github.com/vnkhanh/wepodcaster-backend/repositories"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrValidation      = errors.New("validation failed")
	ErrForbidden       = errors.New("forbidden")
	ErrExternalService = errors.New("external service error")
	ErrConflict        = errors.New("already exists")
	// ErrGenerationInProgress: draft đang generate, không nhận lệnh mới
	ErrGenerationInProgress = errors.New("generation already in progress")
)

// storeErr chuyển lỗi repository sang lỗi domain, giữ message cho người dùng
func storeErr(err error, notFoundMsg string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, repositories.ErrNotFound) {
		return fmt.Errorf("%s: %w", notFoundMsg, ErrNotFound)
	}
	if errors.Is(err, repositories.ErrDuplicate) {
		return fmt.Errorf("%v: %w", err, ErrConflict)
	}
	return err
}

func validationErr(msg string) error {
	return fmt.Errorf("%s: %w", msg, ErrValidation)
}

func isNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func isValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

func fmtNotFound(err error) error {
	return fmt.Errorf("%v: %w", err, ErrNotFound)
}
