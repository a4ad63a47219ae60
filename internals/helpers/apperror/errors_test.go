package apperror

import (
	"context"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{Validation("x"), http.StatusBadRequest},
		{PolicyMissing("x"), http.StatusBadRequest},
		{NotFound("x"), http.StatusNotFound},
		{InvalidState("x"), http.StatusConflict},
		{Persistence(errors.New("db"), "x"), http.StatusInternalServerError},
		{errors.New("tak dikenal"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, HTTPStatus(tc.err), tc.err.Error())
	}
}

func TestIsWithSentinel(t *testing.T) {
	err := errors.Wrap(NotFound("siswa tidak ditemukan"), "lookup")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrValidation)
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestFromDB(t *testing.T) {
	assert.NoError(t, FromDB(nil, "x"))

	err := FromDB(gorm.ErrRecordNotFound, "kelas tidak ditemukan")
	assert.Equal(t, KindNotFound, KindOf(err))
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	already := InvalidState("sudah approved")
	assert.Same(t, already, FromDB(already, "x"))

	err = FromDB(&pgconn.PgError{Code: CodeForeignKeyViolation}, "gagal")
	var ae *Error
	assert.True(t, errors.As(err, &ae))
	assert.Equal(t, KindPersistence, ae.Kind)
	assert.Equal(t, CodeForeignKeyViolation, ae.Code)
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, IsUniqueViolation(&pgconn.PgError{Code: CodeUniqueViolation}))
	assert.True(t, IsUniqueViolation(&pq.Error{Code: CodeUniqueViolation}))
	assert.True(t, IsUniqueViolation(errors.New("UNIQUE constraint failed: attendance_entries.x")))
	assert.True(t, IsUniqueViolation(gorm.ErrDuplicatedKey))
	assert.False(t, IsUniqueViolation(errors.New("boom")))
	assert.False(t, IsUniqueViolation(nil))
}

func TestRetryable(t *testing.T) {
	assert.True(t, Retryable(&pgconn.PgError{Code: CodeSerialization}))
	assert.True(t, Retryable(errors.Wrap(&pgconn.PgError{Code: CodeDeadlock}, "tx")))
	assert.False(t, Retryable(&pgconn.PgError{Code: CodeUniqueViolation}))
	assert.False(t, Retryable(context.DeadlineExceeded))
	assert.False(t, Retryable(nil))
}
