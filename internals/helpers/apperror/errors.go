// Package apperror berisi taksonomi error domain (presensi, izin, penilaian)
// beserta pemetaannya ke status HTTP.
package apperror

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Kind string

const (
	KindValidation    Kind = "validation"
	KindNotFound      Kind = "not_found"
	KindInvalidState  Kind = "invalid_state"
	KindPolicyMissing Kind = "policy_missing"
	KindPersistence   Kind = "persistence"
)

// Sentinel untuk errors.Is.
var (
	ErrValidation    = &Error{Kind: KindValidation}
	ErrNotFound      = &Error{Kind: KindNotFound}
	ErrInvalidState  = &Error{Kind: KindInvalidState}
	ErrPolicyMissing = &Error{Kind: KindPolicyMissing}
	ErrPersistence   = &Error{Kind: KindPersistence}
)

// SQLSTATE yang kita bedakan.
const (
	CodeUniqueViolation     = "23505"
	CodeForeignKeyViolation = "23503"
	CodeCheckViolation      = "23514"
	CodeSerialization       = "40001"
	CodeDeadlock            = "40P01"
)

type Error struct {
	Kind    Kind
	Message string
	// SQLSTATE kalau berasal dari database
	Code   string
	Fields map[string]string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Message != "" {
		return e.Message + ": " + e.Err.Error()
	}
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

// Is: cocok kalau Kind sama (dipakai bersama sentinel di atas).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Message == "" || t.Message == e.Message)
}

func newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Validation(format string, args ...any) *Error {
	return newf(KindValidation, format, args...)
}

func ValidationFields(msg string, fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Message: msg, Fields: fields}
}

func NotFound(format string, args ...any) *Error {
	return newf(KindNotFound, format, args...)
}

func InvalidState(format string, args ...any) *Error {
	return newf(KindInvalidState, format, args...)
}

func PolicyMissing(format string, args ...any) *Error {
	return newf(KindPolicyMissing, format, args...)
}

func Persistence(err error, msg string) *Error {
	return &Error{Kind: KindPersistence, Message: msg, Code: sqlState(err), Err: errors.WithStack(err)}
}

// FromDB mengklasifikasikan error dari gorm/driver.
// Error domain yang sudah bertipe diteruskan apa adanya.
func FromDB(err error, msg string) error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &Error{Kind: KindNotFound, Message: msg, Err: err}
	}
	return Persistence(err, msg)
}

func sqlState(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}

// IsUniqueViolation: 23505, plus fallback berbasis pesan untuk driver lain (sqlite).
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if sqlState(err) == CodeUniqueViolation {
		return true
	}
	return errors.Is(err, gorm.ErrDuplicatedKey) || containsAny(err.Error(),
		"duplicate key", "violates unique constraint", "UNIQUE constraint failed")
}

// Retryable: konflik transaksi yang boleh diulang utuh.
func Retryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	switch sqlState(err) {
	case CodeSerialization, CodeDeadlock:
		return true
	}
	return false
}

func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindPersistence
}

// HTTPStatus: error validasi → 4xx, persistence/tak dikenal → 5xx.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation, KindPolicyMissing:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindInvalidState:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
