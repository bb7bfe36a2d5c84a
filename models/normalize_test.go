package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_ClassDefaultsStudents(t *testing.T) {
	d := ClassDraft{ClassName: "7B", Year: "2024", Teacher: "t1", StudentFees: "1500", MaxStudents: "30"}

	p, ok := Normalize(d, TypeClass).(ClassPayload)
	require.True(t, ok)
	assert.Equal(t, "7B", p.ClassName)
	assert.Equal(t, Number(2024), p.Year)
	assert.Equal(t, Number(1500), p.StudentFees)
	assert.Equal(t, Number(30), p.MaxStudents)
	assert.NotNil(t, p.Students)
	assert.Empty(t, p.Students)

	body, err := json.Marshal(p)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"students":[]`)
}

func TestNormalize_PersonIsTotal(t *testing.T) {
	drafts := []Draft{nil, StudentDraft{}, TeacherDraft{}, ClassDraft{}}
	for _, tag := range []RecordType{TypeStudent, TypeTeacher} {
		for _, d := range drafts {
			p, ok := Normalize(d, tag).(PersonPayload)
			require.True(t, ok)
			assert.Nil(t, p.DOB)
			assert.False(t, p.FeesPaid)
			assert.Equal(t, ContactDetails{}, p.ContactDetails)

			// every key is present in the encoded body
			body, err := json.Marshal(p)
			require.NoError(t, err)
			var fields map[string]any
			require.NoError(t, json.Unmarshal(body, &fields))
			for _, key := range []string{"studentName", "class", "dob", "email", "phone", "gender",
				"feesPaid", "contactDetails", "teacherName", "salary", "assignedClass"} {
				assert.Contains(t, fields, key)
			}
		}
	}
}

func TestNormalize_StudentMirrorsContact(t *testing.T) {
	d := StudentDraft{
		StudentName:    "Asha",
		Gender:         "female",
		DOB:            "2012-04-09",
		ContactDetails: ContactDetails{Email: "asha@example.com", Phone: "9876543210"},
		FeesPaid:       true,
		Class:          "c1",
	}
	p := Normalize(d, TypeStudent).(PersonPayload)
	assert.Equal(t, "asha@example.com", p.Email)
	assert.Equal(t, "9876543210", p.Phone)
	assert.Equal(t, d.ContactDetails, p.ContactDetails)
	require.NotNil(t, p.DOB)
	assert.Equal(t, "2012-04-09", *p.DOB)
	assert.True(t, p.FeesPaid)
	assert.Equal(t, "c1", p.Class)
}

func TestNormalize_UnparsableNumberIsZero(t *testing.T) {
	p := Normalize(TeacherDraft{Salary: "lots"}, TypeTeacher).(PersonPayload)
	assert.Equal(t, Number(0), p.Salary)
}

func TestNormalize_Idempotent(t *testing.T) {
	cases := []struct {
		tag   RecordType
		draft Draft
	}{
		{TypeClass, ClassDraft{}},
		{TypeClass, ClassDraft{ClassName: "5A", Year: "2023", Teacher: "t9", TeacherName: "Ravi", StudentFees: "1200.5", MaxStudents: "40", Students: []string{"s1"}}},
		{TypeStudent, StudentDraft{}},
		{TypeStudent, StudentDraft{StudentName: "Asha", DOB: "2012-04-09", ContactDetails: ContactDetails{Email: "a@b.co", Phone: "1234567890"}, FeesPaid: true, Class: "c1"}},
		{TypeTeacher, TeacherDraft{TeacherName: "Ravi", Gender: "male", Salary: "32000", AssignedClass: "c2"}},
	}
	for _, tc := range cases {
		first := Normalize(tc.draft, tc.tag)
		second := Normalize(DraftFromPayload(tc.tag, first), tc.tag)
		assert.Equal(t, first, second, "tag %s", tc.tag)
	}
}
