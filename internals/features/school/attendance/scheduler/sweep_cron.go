// file: internals/features/school/attendance/scheduler/sweep_cron.go
package scheduler

import (
	"context"
	"log"
	"time"

	"sekolahku_backend/internals/configs"
	"sekolahku_backend/internals/features/school/attendance/service"
	"sekolahku_backend/internals/helpers/dbtime"

	"github.com/robfig/cron/v3"
)

// Sweeper: kontrak minimal yang dipanggil cron.
type Sweeper interface {
	SweepDay(ctx context.Context, date dbtime.Date) (*service.SweepResult, error)
}

// ── ENTRYPOINT: panggil dari main.go
// Return *cron.Cron supaya bisa di-Stop saat shutdown. nil kalau dimatikan via config.
func StartAbsenceSweepCron(svc Sweeper, cfg configs.AppConfig) *cron.Cron {
	if !cfg.SweepEnabled {
		log.Println("[SWEEP] ATTENDANCE_SWEEP_ENABLED=false, cron tidak dijalankan")
		return nil
	}

	loc := cfg.Location()
	c := cron.New(
		cron.WithLocation(loc),
		cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)),
	)

	_, err := c.AddFunc(cfg.SweepCron, func() {
		RunSweepOnce(svc, dbtime.Today(loc), 4*time.Minute)
	})
	if err != nil {
		log.Fatalf("[SWEEP] add cron gagal: %v", err)
	}
	log.Printf("[SWEEP] started schedule=%q tz=%s", cfg.SweepCron, loc)
	c.Start()
	return c
}

// RunSweepOnce: satu kali sweep dengan batas waktu.
func RunSweepOnce(svc Sweeper, date dbtime.Date, timeout time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if _, err := svc.SweepDay(ctx, date); err != nil {
		log.Printf("[SWEEP ERROR] date=%s: %v", date, err)
	}
}
