package service

import (
	"errors"

	"mangapress/internal/http-api/repository"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrForbidden = errors.New("insufficient permissions")
)

// fromRepoErr translates storage-layer sentinels into service ones so
// handlers only ever match against this package's errors.
func fromRepoErr(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
