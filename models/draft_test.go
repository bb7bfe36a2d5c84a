package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdate_IsPure(t *testing.T) {
	orig := StudentDraft{StudentName: "Old"}
	next := Update(orig, "studentName", "New", "")

	assert.Equal(t, "Old", orig.StudentName)
	assert.Equal(t, "New", next.(StudentDraft).StudentName)
}

func TestUpdate_NestedContact(t *testing.T) {
	d := Update(TeacherDraft{}, "contactDetails", "t@school.org", "email")
	d = Update(d, "contactDetails", "9876543210", "phone")

	got := d.(TeacherDraft).ContactDetails
	assert.Equal(t, ContactDetails{Email: "t@school.org", Phone: "9876543210"}, got)
}

func TestUpdate_Checkbox(t *testing.T) {
	d := Update(StudentDraft{}, "feesPaid", "on", "")
	assert.True(t, d.(StudentDraft).FeesPaid)
	d = Update(d, "feesPaid", "false", "")
	assert.False(t, d.(StudentDraft).FeesPaid)
}

func TestUpdate_UnknownFieldKeepsDraft(t *testing.T) {
	d := ClassDraft{ClassName: "1A"}
	assert.Equal(t, d, Update(d, "salary", "100", ""))
}

func TestDraftFromRecord_UsesTag(t *testing.T) {
	// A student carries a class reference; that must not make it a class.
	student := StudentRecord{ID: "s1", StudentName: "Asha", Class: "c1", DOB: "2012-04-09T00:00:00.000Z", FeesPaid: false}

	d, ok := DraftFromRecord(TypeStudent, student)
	require.True(t, ok)
	sd := d.(StudentDraft)
	assert.Equal(t, "Asha", sd.StudentName)
	assert.Equal(t, "c1", sd.Class)
	assert.Equal(t, "2012-04-09", sd.DOB)
	assert.False(t, sd.FeesPaid)

	_, ok = DraftFromRecord(TypeClass, student)
	assert.False(t, ok)
}

func TestDraftFromRecord_ClassNumbers(t *testing.T) {
	d, ok := DraftFromRecord(TypeClass, ClassRecord{ClassName: "2C", Year: 2024, StudentFees: 999.5})
	require.True(t, ok)
	cd := d.(ClassDraft)
	assert.Equal(t, "2024", cd.Year)
	assert.Equal(t, "999.5", cd.StudentFees)
	assert.Equal(t, "", cd.MaxStudents)
	assert.NotNil(t, cd.Students)
}

func TestDraftEnvelope_RoundTrip(t *testing.T) {
	d := StudentDraft{StudentName: "Asha", ContactDetails: ContactDetails{Phone: "1"}}
	body, err := json.Marshal(WrapDraft(d))
	require.NoError(t, err)

	var env DraftEnvelope
	require.NoError(t, json.Unmarshal(body, &env))
	assert.Equal(t, Draft(d), env.Draft())
}

func TestNumber_DecodesStringsAndNumbers(t *testing.T) {
	var rec ClassRecord
	err := json.Unmarshal([]byte(`{"_id":"c1","year":"2024","studentFees":1500.5,"maxStudents":null,"createdAt":"2024-01-02T03:04:05Z"}`), &rec)
	require.NoError(t, err)
	assert.Equal(t, Number(2024), rec.Year)
	assert.Equal(t, Number(1500.5), rec.StudentFees)
	assert.Equal(t, Number(0), rec.MaxStudents)
	assert.Equal(t, time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), rec.CreatedAt)

	assert.Error(t, json.Unmarshal([]byte(`{"year":"twenty"}`), &rec))
}

func TestParseRecordType(t *testing.T) {
	tag, ok := ParseRecordType(" Student ")
	assert.True(t, ok)
	assert.Equal(t, TypeStudent, tag)
	assert.Equal(t, "Student", tag.Title())

	_, ok = ParseRecordType("Select")
	assert.False(t, ok)
}

func TestRecordSet_Find(t *testing.T) {
	set := RecordSet{Type: TypeTeacher, Teachers: []TeacherRecord{{ID: "t1", TeacherName: "Ravi"}}}
	r, ok := set.Find("t1")
	require.True(t, ok)
	assert.Equal(t, "Ravi", r.DisplayName())
	assert.Equal(t, 1, set.Len())

	_, ok = set.Find("t2")
	assert.False(t, ok)
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "05 Mar 2012", FormatDate("2012-03-05"))
	assert.Equal(t, "05 Mar 2012", FormatDate("2012-03-05T00:00:00.000Z"))
	assert.Equal(t, "", FormatDate(" "))
	assert.Equal(t, "someday", FormatDate("someday"))
}
