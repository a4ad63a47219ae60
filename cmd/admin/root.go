package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"sekolahku_backend/internals/configs"
	database "sekolahku_backend/internals/databases"
	attendanceService "sekolahku_backend/internals/features/school/attendance/service"
	gradingService "sekolahku_backend/internals/features/school/grading/service"
	helper "sekolahku_backend/internals/helpers"
	"sekolahku_backend/internals/helpers/dbtime"
	"sekolahku_backend/internals/seeds"
)

// env: config + koneksi DB, dibuat sekali di PersistentPreRunE.
type env struct {
	cfg configs.AppConfig
	db  *gorm.DB
}

func NewRootCommand() *cobra.Command {
	e := &env{}

	cmd := &cobra.Command{
		Use:           "admin",
		Short:         "Sekolahku admin CLI",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			e.cfg = configs.LoadConfig()
			dbtime.SetDefaultLocation(e.cfg.Location())
			e.db = configs.InitSeederDB(e.cfg)
			return nil
		},
	}

	cmd.AddCommand(newMigrateCommand(e))
	cmd.AddCommand(newSeedCommand(e))
	cmd.AddCommand(newSweepCommand(e))
	cmd.AddCommand(newFinalScoresCommand(e))
	return cmd
}

func newMigrateCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "AutoMigrate semua tabel",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := database.Migrate(e.db); err != nil {
				return err
			}
			log.Println("✅ Migrasi selesai")
			return nil
		},
	}
}

func newSeedCommand(e *env) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Seed roster (kelas, siswa, mapel, term) dari YAML/JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			return seeds.RunAllSeeds(e.db, file)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", seeds.DefaultRosterFile, "path file roster (.yaml/.json)")
	return cmd
}

func newSweepCommand(e *env) *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Tandai siswa tanpa presensi sebagai absent (default: hari ini)",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := dbtime.ParseDatePtr(date)
			if err != nil {
				return fmt.Errorf("--date: %w", err)
			}
			day := dbtime.Today(e.cfg.Location())
			if d != nil {
				day = *d
			}

			ctx, cancel := context.WithTimeout(context.Background(), 4*time.Minute)
			defer cancel()
			res, err := attendanceService.NewAttendanceService(e.db, nil, e.cfg).SweepDay(ctx, day)
			if err != nil {
				return err
			}
			return printJSON(cmd, res)
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "tanggal YYYY-MM-DD")
	return cmd
}

func newFinalScoresCommand(e *env) *cobra.Command {
	var csRaw, termRaw string
	cmd := &cobra.Command{
		Use:   "final-scores",
		Short: "Hitung nilai akhir satu class-subject untuk satu term",
		RunE: func(cmd *cobra.Command, args []string) error {
			csID, err := uuid.Parse(csRaw)
			if err != nil {
				return fmt.Errorf("--class-subject: %w", err)
			}
			termID, err := uuid.Parse(termRaw)
			if err != nil {
				return fmt.Errorf("--term: %w", err)
			}

			svc := gradingService.NewGradingService(e.db, nil, e.cfg)
			var all *gradingService.FinalScorePage
			for p := 1; ; p++ {
				page, err := svc.ComputeFinalBatch(cmd.Context(), csID, termID, "", helper.Paging{Page: p, PerPage: helper.MaxPerPage})
				if err != nil {
					return err
				}
				if all == nil {
					all = page
				} else {
					all.Items = append(all.Items, page.Items...)
				}
				if len(page.Items) == 0 || int64(len(all.Items)) >= page.Total {
					break
				}
			}
			return printJSON(cmd, all)
		},
	}
	cmd.Flags().StringVar(&csRaw, "class-subject", "", "class_subject_id")
	cmd.Flags().StringVar(&termRaw, "term", "", "academic_term_id")
	_ = cmd.MarkFlagRequired("class-subject")
	_ = cmd.MarkFlagRequired("term")
	return cmd
}

func printJSON(cmd *cobra.Command, v any) error {
	b, err := sonic.ConfigStd.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(b))
	return err
}
