package seeds

import (
	"os"
	"path/filepath"
	"testing"

	rosterModel "sekolahku_backend/internals/features/school/rosters/model"
	"sekolahku_backend/internals/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunAllSeeds_DefaultFileIsIdempotent(t *testing.T) {
	db := testutil.NewDB(t)

	// file contoh ikut repo (relatif dari package ini)
	require.NoError(t, RunAllSeeds(db, "data_roster.yaml"))
	require.NoError(t, RunAllSeeds(db, "data_roster.yaml"))

	var classes, students, subjects, terms int64
	require.NoError(t, db.Model(&rosterModel.ClassModel{}).Count(&classes).Error)
	require.NoError(t, db.Model(&rosterModel.StudentModel{}).Count(&students).Error)
	require.NoError(t, db.Model(&rosterModel.ClassSubjectModel{}).Count(&subjects).Error)
	require.NoError(t, db.Model(&rosterModel.AcademicTermModel{}).Count(&terms).Error)

	assert.EqualValues(t, 2, classes)
	assert.EqualValues(t, 5, students)
	assert.EqualValues(t, 3, subjects)
	assert.EqualValues(t, 1, terms)
}

func TestSeedRosterFromFile_JSON(t *testing.T) {
	db := testutil.NewDB(t)
	path := filepath.Join(t.TempDir(), "roster.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"classes": [{"name": "9C", "students": [{"name": "Fajar"}, {"name": "Gita"}]}]
	}`), 0o600))

	stats, err := SeedRosterFromFile(db, path)
	require.NoError(t, err)
	assert.Equal(t, RosterSeedStats{Classes: 1, Students: 2}, stats)

	stats, err = SeedRosterFromFile(db, path)
	require.NoError(t, err)
	assert.Equal(t, RosterSeedStats{}, stats)
}

func TestSeedRoster_FailureRollsBackWholeFile(t *testing.T) {
	db := testutil.NewDB(t)
	_, err := SeedRoster(db, &RosterSeed{
		Terms:   []TermSeed{{AcademicYear: "2025/2026", Name: "Ganjil", StartDate: "2025-07-14", EndDate: "2025-12-19"}},
		Classes: []ClassSeed{{Name: "7A"}, {Name: "  "}},
	})
	require.Error(t, err)

	var classes, terms int64
	require.NoError(t, db.Model(&rosterModel.ClassModel{}).Count(&classes).Error)
	require.NoError(t, db.Model(&rosterModel.AcademicTermModel{}).Count(&terms).Error)
	assert.EqualValues(t, 0, classes)
	assert.EqualValues(t, 0, terms)
}

func TestSeedRoster_BadTermDate(t *testing.T) {
	db := testutil.NewDB(t)
	_, err := SeedRoster(db, &RosterSeed{
		Terms: []TermSeed{{AcademicYear: "2025/2026", Name: "Ganjil", StartDate: "14-07-2025", EndDate: "2025-12-19"}},
	})
	assert.Error(t, err)
}
