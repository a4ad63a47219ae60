package seeds

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	rosterModel "sekolahku_backend/internals/features/school/rosters/model"
	helper "sekolahku_backend/internals/helpers"
	"sekolahku_backend/internals/helpers/dbtime"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

/* =========================================================
   Format file (YAML / JSON, kunci sama)
========================================================= */

type RosterSeed struct {
	Terms   []TermSeed  `yaml:"terms" json:"terms"`
	Classes []ClassSeed `yaml:"classes" json:"classes"`
}

type TermSeed struct {
	AcademicYear string `yaml:"academic_year" json:"academic_year"`
	Name         string `yaml:"name" json:"name"`
	StartDate    string `yaml:"start_date" json:"start_date"`
	EndDate      string `yaml:"end_date" json:"end_date"`
	IsActive     bool   `yaml:"is_active" json:"is_active"`
}

type ClassSeed struct {
	Name     string        `yaml:"name" json:"name"`
	Students []StudentSeed `yaml:"students" json:"students"`
	Subjects []SubjectSeed `yaml:"subjects" json:"subjects"`
}

type StudentSeed struct {
	Name string  `yaml:"name" json:"name"`
	NIS  *string `yaml:"nis" json:"nis"`
}

type SubjectSeed struct {
	Name string  `yaml:"name" json:"name"`
	Code *string `yaml:"code" json:"code"`
}

type RosterSeedStats struct {
	Terms, Classes, Students, Subjects int
}

// ParseRosterSeed: .json → JSON, selain itu YAML.
func ParseRosterSeed(path string, raw []byte) (*RosterSeed, error) {
	var out RosterSeed
	var err error
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.Unmarshal(raw, &out)
	} else {
		err = yaml.Unmarshal(raw, &out)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "decode %s", path)
	}
	return &out, nil
}

func SeedRosterFromFile(db *gorm.DB, path string) (RosterSeedStats, error) {
	log.Println("📥 Membaca file:", path)
	raw, err := os.ReadFile(path)
	if err != nil {
		return RosterSeedStats{}, errors.Wrap(err, "baca file seed")
	}
	seed, err := ParseRosterSeed(path, raw)
	if err != nil {
		return RosterSeedStats{}, err
	}
	return SeedRoster(db, seed)
}

// SeedRoster: data yang sudah ada (berdasarkan kunci natural) dilewati.
func SeedRoster(db *gorm.DB, seed *RosterSeed) (RosterSeedStats, error) {
	var stats RosterSeedStats
	err := db.Transaction(func(tx *gorm.DB) error {
		for _, t := range seed.Terms {
			created, err := seedTerm(tx, t)
			if err != nil {
				return err
			}
			if created {
				stats.Terms++
			}
		}

		for _, c := range seed.Classes {
			name := strings.TrimSpace(c.Name)
			if name == "" {
				return fmt.Errorf("nama kelas kosong")
			}
			class := rosterModel.ClassModel{ClassName: name, ClassIsActive: true}
			created, err := takeOrCreate(tx, &class, "class_name = ?", name)
			if err != nil {
				return errors.Wrapf(err, "kelas %s", name)
			}
			if created {
				stats.Classes++
			}

			for _, s := range c.Students {
				created, err := seedStudent(tx, class, s)
				if err != nil {
					return err
				}
				if created {
					stats.Students++
				}
			}
			for _, sub := range c.Subjects {
				row := rosterModel.ClassSubjectModel{
					ClassSubjectClassID:     class.ClassID,
					ClassSubjectSubjectName: strings.TrimSpace(sub.Name),
					ClassSubjectCode:        helper.TrimPtr(sub.Code),
				}
				created, err := takeOrCreate(tx, &row, "class_subject_class_id = ? AND class_subject_subject_name = ?",
					class.ClassID, row.ClassSubjectSubjectName)
				if err != nil {
					return errors.Wrapf(err, "mapel %s/%s", name, row.ClassSubjectSubjectName)
				}
				if created {
					stats.Subjects++
				}
			}
		}
		return nil
	})
	return stats, err
}

func seedTerm(tx *gorm.DB, t TermSeed) (bool, error) {
	start, err := dbtime.ParseDate(t.StartDate)
	if err != nil {
		return false, errors.Wrapf(err, "term %s start_date", t.Name)
	}
	end, err := dbtime.ParseDate(t.EndDate)
	if err != nil {
		return false, errors.Wrapf(err, "term %s end_date", t.Name)
	}
	row := rosterModel.AcademicTermModel{
		AcademicTermAcademicYear: strings.TrimSpace(t.AcademicYear),
		AcademicTermName:         strings.TrimSpace(t.Name),
		AcademicTermStartDate:    start,
		AcademicTermEndDate:      end,
		AcademicTermIsActive:     t.IsActive,
	}
	created, err := takeOrCreate(tx, &row, "academic_term_academic_year = ? AND academic_term_name = ?",
		row.AcademicTermAcademicYear, row.AcademicTermName)
	if err != nil {
		return false, errors.Wrapf(err, "term %s", t.Name)
	}
	return created, nil
}

// seedStudent: kunci NIS kalau ada, selain itu (nama, kelas).
func seedStudent(tx *gorm.DB, class rosterModel.ClassModel, s StudentSeed) (bool, error) {
	row := rosterModel.StudentModel{
		StudentName:     strings.TrimSpace(s.Name),
		StudentNIS:      helper.TrimPtr(s.NIS),
		StudentClassID:  &class.ClassID,
		StudentIsActive: true,
	}
	var (
		created bool
		err     error
	)
	if row.StudentNIS != nil {
		created, err = takeOrCreate(tx, &row, "student_nis = ?", *row.StudentNIS)
	} else {
		created, err = takeOrCreate(tx, &row, "student_class_id = ? AND student_name = ?", class.ClassID, row.StudentName)
	}
	if err != nil {
		return false, errors.Wrapf(err, "siswa %s", s.Name)
	}
	return created, nil
}

// takeOrCreate: row diisi data lama kalau sudah ada; created=true kalau baru dibuat.
func takeOrCreate[T any](tx *gorm.DB, row *T, query string, args ...any) (bool, error) {
	var existing T
	err := tx.Where(query, args...).Take(&existing).Error
	if err == nil {
		*row = existing
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}
	if err := tx.Create(row).Error; err != nil {
		return false, err
	}
	return true, nil
}
