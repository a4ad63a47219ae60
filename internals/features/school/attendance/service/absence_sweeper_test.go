package service

import (
	"context"
	"errors"
	"testing"

	"sekolahku_backend/internals/features/school/attendance/model"
	"sekolahku_backend/internals/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSweepDay_InsertsAbsentOnlyForMissing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	testutil.SeedStudent(t, f.db, "Tanpa Kelas", nil)

	_, err := f.svc.UpsertDaily(ctx, f.class.ClassID, monday, []DailyEntryInput{
		{StudentID: f.ani.StudentID, Status: model.AttendanceStatusPresent},
	})
	require.NoError(t, err)

	res, err := f.svc.SweepDay(ctx, monday)
	require.NoError(t, err)
	assert.EqualValues(t, 2, res.Tracked)
	assert.Equal(t, 1, res.Missing)
	assert.Equal(t, 1, res.Inserted)
	assert.Equal(t, 0, res.Failed)

	var budi model.AttendanceEntryModel
	require.NoError(t, f.db.Where("attendance_entry_student_id = ?", f.budi.StudentID).Take(&budi).Error)
	assert.Equal(t, model.AttendanceStatusAbsent, budi.AttendanceEntryStatus)
	assert.Nil(t, budi.AttendanceEntryNote)
	assert.Equal(t, f.class.ClassID, budi.AttendanceEntryClassID)

	var ani model.AttendanceEntryModel
	require.NoError(t, f.db.Where("attendance_entry_student_id = ?", f.ani.StudentID).Take(&ani).Error)
	assert.Equal(t, model.AttendanceStatusPresent, ani.AttendanceEntryStatus)
}

func TestSweepDay_SecondRunIsNoop(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.svc.SweepDay(ctx, monday)
	require.NoError(t, err)
	assert.Equal(t, 2, first.Inserted)

	second, err := f.svc.SweepDay(ctx, monday)
	require.NoError(t, err)
	assert.Equal(t, 0, second.Missing)
	assert.Equal(t, 0, second.Inserted)
	assert.EqualValues(t, 2, countEntries(t, f.db))
}

func TestSweepDay_EntryInAnotherClassCounts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	other := testutil.SeedClass(t, f.db, "Ekskul")

	// entri lama di kelas lain (sebelum pindah kelas)
	require.NoError(t, f.db.Create(&model.AttendanceEntryModel{
		AttendanceEntryClassID:   other.ClassID,
		AttendanceEntryStudentID: f.ani.StudentID,
		AttendanceEntryDate:      monday,
		AttendanceEntryStatus:    model.AttendanceStatusPresent,
	}).Error)

	res, err := f.svc.SweepDay(ctx, monday)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Inserted)
}

func TestSweepDay_ContinuesAfterSingleFailure(t *testing.T) {
	f := newFixture(t)
	testutil.SeedStudent(t, f.db, "Cici", &f.class.ClassID)
	testutil.FailNthCreate(t, f.db, "attendance_entries", 1, errors.New("koneksi putus"))

	res, err := f.svc.SweepDay(context.Background(), monday)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Missing)
	assert.Equal(t, 1, res.Failed)
	assert.Equal(t, 2, res.Inserted)
	assert.EqualValues(t, 2, countEntries(t, f.db))
}
