package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"school-dashboard-go/models"
)

var (
	testClasses = []models.ClassRecord{
		{ID: "c1", ClassName: "7B", TeacherName: "Mrs Rao", Year: 2024, StudentFees: 5000},
		{ID: "c2", ClassName: "8A", StudentFees: 7000},
	}
	testStudents = []models.StudentRecord{
		{StudentName: "Asha", Gender: " Female", Class: "c1", DOB: "2012-03-05", FeesPaid: true},
		{StudentName: "Ravi", Gender: "MALE", Class: "c1"},
		{StudentName: "Kim", Gender: "male", Class: "c2"},
		{StudentName: "Sam", Gender: "other", ClassName: "9C"},
	}
)

func TestGender_AllClasses(t *testing.T) {
	r := Gender(testStudents, testClasses, "")

	assert.Equal(t, 2, r.Male)
	assert.Equal(t, 1, r.Female)
	assert.Equal(t, []string{"7B", "8A", "9C"}, r.Classes)
	require.Len(t, r.Rows, 4)

	asha := r.Rows[0]
	assert.Equal(t, "7B", asha.ClassName)
	assert.Equal(t, "Mrs Rao", asha.Teacher)
	assert.Equal(t, "2024", asha.Year)
	assert.Equal(t, "Yes", asha.FeesPaid)
	assert.Equal(t, "05 Mar 2012", asha.DOB)

	kim := r.Rows[2]
	assert.Equal(t, "N/A", kim.Teacher)
	assert.Equal(t, "N/A", kim.Year)
	assert.Equal(t, "No", kim.FeesPaid)

	assert.Equal(t, "N/A", r.Rows[3].Teacher)
}

func TestGender_FilterByClass(t *testing.T) {
	r := Gender(testStudents, testClasses, "7B")

	assert.Equal(t, 1, r.Male)
	assert.Equal(t, 1, r.Female)
	assert.Len(t, r.Rows, 2)
	// filter options are always drawn from every student
	assert.Len(t, r.Classes, 3)
	assert.Equal(t, 100.0, r.Chart.Bars[0].Percent)
}

func TestGender_Empty(t *testing.T) {
	r := Gender(nil, nil, "")
	assert.Zero(t, r.Male)
	assert.Empty(t, r.Rows)
	assert.Equal(t, 0.0, r.Chart.Bars[0].Percent)
}

func TestFinance_Monthly(t *testing.T) {
	teachers := []models.TeacherRecord{
		{TeacherName: "Mrs Rao", Salary: 3000},
		{TeacherName: "Mr Das", Salary: 1000},
	}
	r := Finance(teachers, testClasses, "")

	assert.Equal(t, Monthly, r.Period)
	assert.Equal(t, 4000.0, r.TotalSalaries)
	assert.Equal(t, 12000.0, r.TotalFees)
	assert.Equal(t, 8000.0, r.Difference)
	assert.True(t, r.Profit)
	assert.Equal(t, "Profit", r.Status)
	assert.Equal(t, []Bar{
		{Label: "Mrs Rao", Value: 3000, Percent: 100},
		{Label: "Mr Das", Value: 1000, Percent: 33.3},
	}, r.Salaries.Bars)
}

func TestFinance_YearlyScalesSalaries(t *testing.T) {
	teachers := []models.TeacherRecord{{TeacherName: "Mrs Rao", Salary: 3000}}
	r := Finance(teachers, testClasses, Yearly)

	assert.Equal(t, 36000.0, r.TotalSalaries)
	assert.Equal(t, 36000.0, r.Salaries.Bars[0].Value)
	assert.Equal(t, 12000.0, r.TotalFees)
	assert.False(t, r.Profit)
	assert.Equal(t, "Loss", r.Status)
	assert.Equal(t, "Yearly teacher salaries", r.Salaries.Title)
}

func TestPeriod_Toggle(t *testing.T) {
	assert.Equal(t, Yearly, Monthly.Toggle())
	assert.Equal(t, Monthly, Yearly.Toggle())
	assert.Equal(t, Yearly, Period("").Toggle())
}
