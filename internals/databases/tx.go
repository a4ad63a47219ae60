package database

import (
	"context"
	"log"
	"time"

	"sekolahku_backend/internals/helpers/apperror"

	"gorm.io/gorm"
)

// WithTx menjalankan fn dalam satu transaksi (all-or-nothing).
// Konflik serialisasi / deadlock → seluruh transaksi diulang, maksimal maxAttempts kali.
// ctx yang habis (timeout/cancel) membatalkan & rollback.
func WithTx(ctx context.Context, db *gorm.DB, maxAttempts int, fn func(tx *gorm.DB) error) error {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if cerr := ctx.Err(); cerr != nil {
			return apperror.Persistence(cerr, "operasi dibatalkan")
		}
		err = db.WithContext(ctx).Transaction(fn)
		if err == nil || !apperror.Retryable(err) {
			return err
		}
		log.Printf("[TX] konflik transaksi (attempt %d/%d): %v", attempt, maxAttempts, err)
		time.Sleep(time.Duration(attempt*20) * time.Millisecond)
	}
	return err
}
