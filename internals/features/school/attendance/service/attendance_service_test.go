package service

import (
	"context"
	"errors"
	"testing"

	"sekolahku_backend/internals/configs"
	"sekolahku_backend/internals/features/school/attendance/model"
	rosterModel "sekolahku_backend/internals/features/school/rosters/model"
	helper "sekolahku_backend/internals/helpers"
	"sekolahku_backend/internals/helpers/apperror"
	"sekolahku_backend/internals/helpers/dbtime"
	"sekolahku_backend/internals/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	db    *gorm.DB
	svc   *AttendanceService
	class rosterModel.ClassModel
	ani   rosterModel.StudentModel
	budi  rosterModel.StudentModel
}

func newFixture(t *testing.T) fixture {
	db := testutil.NewDB(t)
	class := testutil.SeedClass(t, db, "7A")
	return fixture{
		db:    db,
		svc:   NewAttendanceService(db, nil, configs.Default()),
		class: class,
		ani:   testutil.SeedStudent(t, db, "Ani", &class.ClassID),
		budi:  testutil.SeedStudent(t, db, "Budi", &class.ClassID),
	}
}

func countEntries(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&model.AttendanceEntryModel{}).Count(&n).Error)
	return n
}

var monday = dbtime.NewDate(2025, 9, 1)

func TestUpsertDaily_Idempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	entries := []DailyEntryInput{
		{StudentID: f.ani.StudentID, Status: model.AttendanceStatusPresent},
		{StudentID: f.budi.StudentID, Status: model.AttendanceStatusLate, Note: testutil.Ptr("macet")},
	}

	first, err := f.svc.UpsertDaily(ctx, f.class.ClassID, monday, entries)
	require.NoError(t, err)
	assert.Equal(t, 2, first.Accepted)
	assert.Equal(t, 2, first.Changed)
	assert.Equal(t, 0, first.Dropped)

	second, err := f.svc.UpsertDaily(ctx, f.class.ClassID, monday, entries)
	require.NoError(t, err)
	assert.Equal(t, 2, second.Accepted)
	assert.Equal(t, 0, second.Changed)
	assert.Equal(t, 2, second.Unchanged)

	assert.EqualValues(t, 2, countEntries(t, f.db))
}

func TestUpsertDaily_ChangedOnlyWhenStatusOrNoteDiffers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.UpsertDaily(ctx, f.class.ClassID, monday, []DailyEntryInput{
		{StudentID: f.ani.StudentID, Status: model.AttendanceStatusPresent},
		{StudentID: f.budi.StudentID, Status: model.AttendanceStatusPresent, Note: testutil.Ptr("ok")},
	})
	require.NoError(t, err)

	res, err := f.svc.UpsertDaily(ctx, f.class.ClassID, monday, []DailyEntryInput{
		{StudentID: f.ani.StudentID, Status: model.AttendanceStatusSick},
		// note dihilangkan → dianggap berubah (tanpa catatan)
		{StudentID: f.budi.StudentID, Status: model.AttendanceStatusPresent},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Changed)

	var budi model.AttendanceEntryModel
	require.NoError(t, f.db.Where("attendance_entry_student_id = ?", f.budi.StudentID).Take(&budi).Error)
	assert.Nil(t, budi.AttendanceEntryNote)

	var ani model.AttendanceEntryModel
	require.NoError(t, f.db.Where("attendance_entry_student_id = ?", f.ani.StudentID).Take(&ani).Error)
	assert.Equal(t, model.AttendanceStatusSick, ani.AttendanceEntryStatus)
	assert.True(t, ani.AttendanceEntryDate.Equal(monday))
}

func TestUpsertDaily_DropsNonMembers(t *testing.T) {
	f := newFixture(t)
	other := testutil.SeedClass(t, f.db, "7B")
	outsider := testutil.SeedStudent(t, f.db, "Cici", &other.ClassID)

	res, err := f.svc.UpsertDaily(context.Background(), f.class.ClassID, monday, []DailyEntryInput{
		{StudentID: f.ani.StudentID, Status: model.AttendanceStatusPresent},
		{StudentID: outsider.StudentID, Status: model.AttendanceStatusPresent},
		{StudentID: uuid.New(), Status: model.AttendanceStatusPresent},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Accepted)
	assert.Equal(t, 2, res.Dropped)
	assert.Contains(t, res.DroppedStudentIDs, outsider.StudentID)
	assert.EqualValues(t, 1, countEntries(t, f.db))
}

func TestUpsertDaily_EmptyAcceptedSetIsValidationError(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.UpsertDaily(context.Background(), f.class.ClassID, monday, []DailyEntryInput{
		{StudentID: uuid.New(), Status: model.AttendanceStatusPresent},
	})
	assert.ErrorIs(t, err, apperror.ErrValidation)

	_, err = f.svc.UpsertDaily(context.Background(), f.class.ClassID, monday, nil)
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestUpsertDaily_RejectsInvalidInput(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.UpsertDaily(ctx, f.class.ClassID, monday, []DailyEntryInput{
		{StudentID: f.ani.StudentID, Status: "hadir"},
	})
	assert.ErrorIs(t, err, apperror.ErrValidation)

	_, err = f.svc.UpsertDaily(ctx, f.class.ClassID, monday, []DailyEntryInput{
		{StudentID: f.ani.StudentID, Status: model.AttendanceStatusPresent},
		{StudentID: f.ani.StudentID, Status: model.AttendanceStatusAbsent},
	})
	assert.ErrorIs(t, err, apperror.ErrValidation)

	_, err = f.svc.UpsertDaily(ctx, uuid.New(), monday, []DailyEntryInput{
		{StudentID: f.ani.StudentID, Status: model.AttendanceStatusPresent},
	})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestUpsertDaily_RollsBackWholeBatchOnWriteFailure(t *testing.T) {
	f := newFixture(t)
	testutil.FailNthCreate(t, f.db, "attendance_entries", 2, errors.New("disk penuh"))

	_, err := f.svc.UpsertDaily(context.Background(), f.class.ClassID, monday, []DailyEntryInput{
		{StudentID: f.ani.StudentID, Status: model.AttendanceStatusPresent},
		{StudentID: f.budi.StudentID, Status: model.AttendanceStatusPresent},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperror.ErrPersistence)
	assert.EqualValues(t, 0, countEntries(t, f.db))
}

func TestUpsertDaily_AtMostOneEntryPerKey(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, st := range []model.AttendanceStatus{
		model.AttendanceStatusPresent, model.AttendanceStatusLate, model.AttendanceStatusPresent,
	} {
		_, err := f.svc.UpsertDaily(ctx, f.class.ClassID, monday, []DailyEntryInput{{StudentID: f.ani.StudentID, Status: st}})
		require.NoError(t, err)
	}
	_, err := f.svc.SweepDay(ctx, monday)
	require.NoError(t, err)

	var n int64
	require.NoError(t, f.db.Model(&model.AttendanceEntryModel{}).
		Where(entryKeyWhere, f.class.ClassID, f.ani.StudentID, monday).
		Count(&n).Error)
	assert.EqualValues(t, 1, n)
}

func TestCorrectEntry(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.svc.UpsertDaily(ctx, f.class.ClassID, monday, []DailyEntryInput{
		{StudentID: f.ani.StudentID, Status: model.AttendanceStatusAbsent, Note: testutil.Ptr("tanpa kabar")},
	})
	require.NoError(t, err)

	var row model.AttendanceEntryModel
	require.NoError(t, f.db.Take(&row).Error)

	_, err = f.svc.CorrectEntry(ctx, row.AttendanceEntryID, nil, nil)
	assert.ErrorIs(t, err, apperror.ErrValidation)

	bad := model.AttendanceStatus("bolos")
	_, err = f.svc.CorrectEntry(ctx, row.AttendanceEntryID, &bad, nil)
	assert.ErrorIs(t, err, apperror.ErrValidation)

	_, err = f.svc.CorrectEntry(ctx, uuid.New(), testutil.Ptr(model.AttendanceStatusPresent), nil)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	got, err := f.svc.CorrectEntry(ctx, row.AttendanceEntryID, testutil.Ptr(model.AttendanceStatusSick), testutil.Ptr(""))
	require.NoError(t, err)
	assert.Equal(t, model.AttendanceStatusSick, got.AttendanceEntryStatus)
	assert.Nil(t, got.AttendanceEntryNote)

	require.NoError(t, f.db.Take(&row).Error)
	assert.Equal(t, model.AttendanceStatusSick, row.AttendanceEntryStatus)
	assert.Nil(t, row.AttendanceEntryNote)
}

func TestDeleteEntry(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.svc.UpsertDaily(ctx, f.class.ClassID, monday, []DailyEntryInput{
		{StudentID: f.ani.StudentID, Status: model.AttendanceStatusPresent},
	})
	require.NoError(t, err)

	var row model.AttendanceEntryModel
	require.NoError(t, f.db.Take(&row).Error)

	require.NoError(t, f.svc.DeleteEntry(ctx, row.AttendanceEntryID))
	assert.EqualValues(t, 0, countEntries(t, f.db))
	assert.ErrorIs(t, f.svc.DeleteEntry(ctx, row.AttendanceEntryID), apperror.ErrNotFound)
}

func TestQuery_RangeNameAndOrdering(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tuesday := monday.AddDays(1)

	for _, d := range []dbtime.Date{monday, tuesday} {
		_, err := f.svc.UpsertDaily(ctx, f.class.ClassID, d, []DailyEntryInput{
			{StudentID: f.budi.StudentID, Status: model.AttendanceStatusPresent},
			{StudentID: f.ani.StudentID, Status: model.AttendanceStatusPresent},
		})
		require.NoError(t, err)
	}

	res, err := f.svc.Query(ctx, QueryParams{From: &monday, To: &tuesday})
	require.NoError(t, err)
	assert.EqualValues(t, 4, res.Total)
	assert.False(t, res.Defaulted)
	require.Len(t, res.Items, 4)
	assert.True(t, res.Items[0].Date.Equal(tuesday))
	assert.Equal(t, "Ani", res.Items[0].StudentName)
	assert.Equal(t, "Budi", res.Items[1].StudentName)
	assert.True(t, res.Items[3].Date.Equal(monday))
	assert.Equal(t, "7A", res.Items[0].ClassName)

	res, err = f.svc.Query(ctx, QueryParams{From: &monday, To: &tuesday, Name: "BUD", ClassID: &f.class.ClassID})
	require.NoError(t, err)
	assert.EqualValues(t, 2, res.Total)
	for _, it := range res.Items {
		assert.Equal(t, f.budi.StudentID, it.StudentID)
	}

	res, err = f.svc.Query(ctx, QueryParams{From: &monday, To: &tuesday, Paging: helper.Paging{Page: 2, PerPage: 3}})
	require.NoError(t, err)
	assert.EqualValues(t, 4, res.Total)
	assert.Len(t, res.Items, 1)

	_, err = f.svc.Query(ctx, QueryParams{From: &tuesday, To: &monday})
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestQuery_DefaultsToToday(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	today := dbtime.Today(f.svc.Loc)

	_, err := f.svc.UpsertDaily(ctx, f.class.ClassID, today, []DailyEntryInput{
		{StudentID: f.ani.StudentID, Status: model.AttendanceStatusPresent},
	})
	require.NoError(t, err)
	_, err = f.svc.UpsertDaily(ctx, f.class.ClassID, today.AddDays(-3), []DailyEntryInput{
		{StudentID: f.ani.StudentID, Status: model.AttendanceStatusPresent},
	})
	require.NoError(t, err)

	res, err := f.svc.Query(ctx, QueryParams{})
	require.NoError(t, err)
	assert.True(t, res.Defaulted)
	assert.True(t, res.From.Equal(today))
	assert.True(t, res.To.Equal(today))
	assert.EqualValues(t, 1, res.Total)

	from := today.AddDays(-7)
	res, err = f.svc.Query(ctx, QueryParams{From: &from})
	require.NoError(t, err)
	assert.True(t, res.To.Equal(today))
	assert.EqualValues(t, 2, res.Total)
}

func TestResolveRange(t *testing.T) {
	today := dbtime.NewDate(2025, 9, 10)
	later := dbtime.NewDate(2025, 9, 12)

	f, to, defaulted, err := ResolveRange(nil, nil, today)
	require.NoError(t, err)
	assert.True(t, defaulted)
	assert.True(t, f.Equal(today) && to.Equal(today))

	_, _, _, err = ResolveRange(&later, nil, today)
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestSummarize(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	days := []struct {
		d    dbtime.Date
		ani  model.AttendanceStatus
		budi model.AttendanceStatus
	}{
		{monday, model.AttendanceStatusPresent, model.AttendanceStatusSick},
		{monday.AddDays(1), model.AttendanceStatusPresent, model.AttendanceStatusAbsent},
		{monday.AddDays(2), model.AttendanceStatusLate, model.AttendanceStatusPresent},
		{monday.AddDays(3), model.AttendanceStatusPresent, model.AttendanceStatusExcused},
	}
	for _, d := range days {
		_, err := f.svc.UpsertDaily(ctx, f.class.ClassID, d.d, []DailyEntryInput{
			{StudentID: f.ani.StudentID, Status: d.ani},
			{StudentID: f.budi.StudentID, Status: d.budi},
		})
		require.NoError(t, err)
	}

	res, err := f.svc.Summarize(ctx, f.class.ClassID, nil, nil)
	require.NoError(t, err)
	require.Len(t, res.Items, 2)

	ani := res.Items[0]
	assert.Equal(t, "Ani", ani.StudentName)
	assert.EqualValues(t, 3, ani.Present)
	assert.EqualValues(t, 1, ani.Late)
	assert.EqualValues(t, 4, ani.Total)
	assert.Equal(t, 75.0, ani.PresentPercentage)

	budi := res.Items[1]
	assert.EqualValues(t, 1, budi.Present)
	assert.EqualValues(t, 1, budi.Sick)
	assert.EqualValues(t, 1, budi.Absent)
	assert.EqualValues(t, 1, budi.Excused)

	to := monday.AddDays(1)
	res, err = f.svc.Summarize(ctx, f.class.ClassID, &monday, &to)
	require.NoError(t, err)
	assert.EqualValues(t, 2, res.Items[0].Total)

	_, err = f.svc.Summarize(ctx, uuid.New(), nil, nil)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestListByPerson(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := f.svc.UpsertDaily(ctx, f.class.ClassID, monday.AddDays(i), []DailyEntryInput{
			{StudentID: f.ani.StudentID, Status: model.AttendanceStatusPresent},
		})
		require.NoError(t, err)
	}

	rows, err := f.svc.ListByPerson(ctx, f.ani.StudentID, nil, nil)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.True(t, rows[0].Date.Equal(monday.AddDays(2)))
	assert.True(t, rows[2].Date.Equal(monday))

	from := monday.AddDays(1)
	rows, err = f.svc.ListByPerson(ctx, f.ani.StudentID, &from, nil)
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	_, err = f.svc.ListByPerson(ctx, uuid.New(), nil, nil)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestDailyRecap(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	testutil.SeedStudent(t, f.db, "Cici", &f.class.ClassID)

	_, err := f.svc.UpsertDaily(ctx, f.class.ClassID, monday, []DailyEntryInput{
		{StudentID: f.ani.StudentID, Status: model.AttendanceStatusPresent},
		{StudentID: f.budi.StudentID, Status: model.AttendanceStatusSick},
	})
	require.NoError(t, err)

	rec, err := f.svc.DailyRecap(ctx, monday)
	require.NoError(t, err)
	assert.Equal(t, 3, rec.Tracked)
	assert.EqualValues(t, 2, rec.Recorded)
	assert.EqualValues(t, 1, rec.Unmarked)
	assert.EqualValues(t, 1, rec.Counts[model.AttendanceStatusPresent])
	assert.EqualValues(t, 1, rec.Counts[model.AttendanceStatusSick])
	assert.EqualValues(t, 0, rec.Counts[model.AttendanceStatusAbsent])
}
