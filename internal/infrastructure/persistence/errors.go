package persistence

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/bakeryaid/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// translateError maps driver and gorm errors onto the domain taxonomy.
// gorm's TranslateError option turns unique violations into
// gorm.ErrDuplicatedKey; the message checks cover drivers without a translator.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return shared.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey), isUniqueViolation(err):
		return fmt.Errorf("%w: %v", shared.ErrDuplicateKey, err)
	case isUnavailable(err):
		return fmt.Errorf("%w: %v", shared.ErrUnavailable, err)
	}
	return err
}

func isUniqueViolation(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value violates unique constraint") ||
		strings.Contains(msg, "SQLSTATE 23505")
}

func isUnavailable(err error) bool {
	if errors.Is(err, driver.ErrBadConn) {
		return true
	}
	var netErr *net.OpError
	if errors.As(err, &netErr) {
		return true
	}
	return strings.Contains(err.Error(), "connection refused")
}
