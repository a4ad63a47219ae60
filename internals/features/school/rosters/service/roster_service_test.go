package service

import (
	"testing"

	helper "sekolahku_backend/internals/helpers"
	"sekolahku_backend/internals/helpers/apperror"
	"sekolahku_backend/internals/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMembersOf_OnlyActiveMembersOfClass(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewRosterService()

	a := testutil.SeedClass(t, db, "7A")
	b := testutil.SeedClass(t, db, "7B")
	ani := testutil.SeedStudent(t, db, "Ani", &a.ClassID)
	budi := testutil.SeedStudent(t, db, "Budi", &b.ClassID)
	cici := testutil.SeedStudent(t, db, "Cici", &a.ClassID)
	require.NoError(t, db.Model(&cici).Update("student_is_active", false).Error)

	got, err := svc.MembersOf(db, a.ClassID, []uuid.UUID{ani.StudentID, budi.StudentID, cici.StudentID, uuid.New()})
	require.NoError(t, err)
	assert.Equal(t, map[uuid.UUID]bool{ani.StudentID: true}, got)
}

func TestTrackedStudentIDs(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewRosterService()

	a := testutil.SeedClass(t, db, "7A")
	ani := testutil.SeedStudent(t, db, "Ani", &a.ClassID)
	testutil.SeedStudent(t, db, "Tanpa Kelas", nil)

	ids, err := svc.TrackedStudentIDs(db)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{ani.StudentID}, ids)
}

func TestStudentClass_NotFound(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewRosterService()

	_, err := svc.StudentClass(db, uuid.New())
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestListStudentsOfClass_KeywordAndPaging(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewRosterService()

	a := testutil.SeedClass(t, db, "7A")
	for _, n := range []string{"Dewi", "Ahmad", "Adi", "Budi"} {
		testutil.SeedStudent(t, db, n, &a.ClassID)
	}

	rows, total, err := svc.ListStudentsOfClass(db, a.ClassID, "", helper.ClampPaging(1, 2, 10, 100))
	require.NoError(t, err)
	assert.EqualValues(t, 4, total)
	require.Len(t, rows, 2)
	assert.Equal(t, "Adi", rows[0].StudentName)
	assert.Equal(t, "Ahmad", rows[1].StudentName)

	rows, total, err = svc.ListStudentsOfClass(db, a.ClassID, "DEW", helper.Paging{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, rows, 1)
	assert.Equal(t, "Dewi", rows[0].StudentName)
}

func TestGetClassSubjectAndTerm(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewRosterService()

	a := testutil.SeedClass(t, db, "7A")
	cs := testutil.SeedClassSubject(t, db, a.ClassID, "Matematika")
	term := testutil.SeedTerm(t, db)

	got, err := svc.GetClassSubject(db, cs.ClassSubjectID)
	require.NoError(t, err)
	assert.Equal(t, a.ClassID, got.ClassSubjectClassID)

	_, err = svc.GetClassSubject(db, uuid.New())
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	ok, err := svc.TermExists(db, term.AcademicTermID)
	require.NoError(t, err)
	assert.True(t, ok)
}
