package dashboard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"school-dashboard-go/forms"
	"school-dashboard-go/models"
)

func day(d int) time.Time {
	return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC)
}

var students = models.RecordSet{Type: models.TypeStudent, Students: []models.StudentRecord{
	{ID: "s1", StudentName: "ravi", Class: "c1", ClassName: "7B", DOB: "2012-03-05T00:00:00.000Z", FeesPaid: true, CreatedAt: day(3)},
	{ID: "s2", StudentName: "Asha", Class: "c2", CreatedAt: day(1)},
	{ID: "s3", StudentName: "Ravi", Class: "c1", ClassName: "7B", CreatedAt: day(2)},
}}

func ids(t Table) []string {
	out := make([]string, 0, len(t.Rows))
	for _, r := range t.Rows {
		out = append(out, r.ID)
	}
	return out
}

func TestBuildTable_StudentCells(t *testing.T) {
	table := BuildTable(students, ListState{})

	assert.Equal(t, []string{"Student Name", "Class", "Gender", "Date of Birth", "Email", "Phone", "Fees Paid"}, table.Columns)
	assert.Equal(t, []string{"s1", "s2", "s3"}, ids(table))
	assert.Equal(t, []string{"ravi", "7B", "", "05 Mar 2012", "", "", "Yes"}, table.Rows[0].Cells)
	assert.Equal(t, "c2", table.Rows[1].Cells[1])
	assert.Equal(t, "No", table.Rows[1].Cells[6])
	assert.True(t, table.Filterable)
	assert.Equal(t, []forms.Option{{Value: "c1", Label: "7B"}, {Value: "c2", Label: "c2"}}, table.FilterOptions)
}

func TestBuildTable_SortIsStable(t *testing.T) {
	asc := BuildTable(students, ListState{Sort: SortOrder{Field: SortName, Direction: Asc}})
	assert.Equal(t, []string{"s2", "s1", "s3"}, ids(asc))

	desc := BuildTable(students, ListState{Sort: SortOrder{Field: SortName, Direction: Desc}})
	assert.Equal(t, []string{"s1", "s3", "s2"}, ids(desc))

	created := BuildTable(students, ListState{Sort: SortOrder{Field: SortCreated, Direction: Asc}})
	assert.Equal(t, []string{"s2", "s3", "s1"}, ids(created))
}

func TestBuildTable_Filter(t *testing.T) {
	table := BuildTable(students, ListState{Filter: "c1"})
	assert.Equal(t, []string{"s1", "s3"}, ids(table))
	// options still list every class
	assert.Len(t, table.FilterOptions, 2)
	// the source set is untouched
	assert.Len(t, students.Students, 3)
}

func TestBuildTable_ClassesAndTeachers(t *testing.T) {
	classes := BuildTable(models.RecordSet{Type: models.TypeClass, Classes: []models.ClassRecord{
		{ID: "c1", ClassName: "7B", Year: 2024, Teacher: "t1", StudentFees: 5000.5, MaxStudents: 40},
	}}, ListState{Filter: "ignored"})
	require.Len(t, classes.Rows, 1)
	assert.Equal(t, []string{"7B", "2024", "t1", "5000.5", "40"}, classes.Rows[0].Cells)
	assert.False(t, classes.Filterable)

	teachers := BuildTable(models.RecordSet{Type: models.TypeTeacher, Teachers: []models.TeacherRecord{
		{ID: "t1", TeacherName: "Mrs Rao", Gender: "female", DOB: "1980-12-01", Salary: 32000,
			ContactDetails: models.ContactDetails{Email: "rao@example.com", Phone: "9876543210"}},
	}}, ListState{})
	assert.Equal(t, []string{"Mrs Rao", "female", "01 Dec 1980", "rao@example.com", "9876543210", "32000"}, teachers.Rows[0].Cells)
}

func TestBuildTable_Empty(t *testing.T) {
	table := BuildTable(models.RecordSet{Type: models.TypeClass}, ListState{})
	assert.NotNil(t, table.Rows)
	assert.Empty(t, table.Rows)
}
