package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"sekolahku_backend/internals/configs"
	"sekolahku_backend/internals/features/school/attendance/service"
	"sekolahku_backend/internals/helpers/dbtime"

	"github.com/stretchr/testify/assert"
)

type fakeSweeper struct {
	mu    sync.Mutex
	dates []dbtime.Date
}

func (f *fakeSweeper) SweepDay(ctx context.Context, date dbtime.Date) (*service.SweepResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dates = append(f.dates, date)
	return &service.SweepResult{Date: date}, nil
}

func TestStartAbsenceSweepCron_DisabledReturnsNil(t *testing.T) {
	cfg := configs.Default()
	cfg.SweepEnabled = false

	assert.Nil(t, StartAbsenceSweepCron(&fakeSweeper{}, cfg))
}

func TestStartAbsenceSweepCron_RegistersOneEntry(t *testing.T) {
	cfg := configs.Default()
	c := StartAbsenceSweepCron(&fakeSweeper{}, cfg)
	defer c.Stop()

	entries := c.Entries()
	if assert.Len(t, entries, 1) {
		next := entries[0].Next.In(cfg.Location())
		assert.Equal(t, 18, next.Hour())
		assert.NotEqual(t, time.Saturday, next.Weekday())
		assert.NotEqual(t, time.Sunday, next.Weekday())
	}
}

func TestRunSweepOnce_PassesDate(t *testing.T) {
	f := &fakeSweeper{}
	d := dbtime.NewDate(2025, 9, 1)

	RunSweepOnce(f, d, time.Second)

	assert.Equal(t, []dbtime.Date{d}, f.dates)
}
