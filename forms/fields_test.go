package forms

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"school-dashboard-go/models"
)

func TestFieldsFor_BindsValues(t *testing.T) {
	d := models.StudentDraft{
		StudentName:    "Asha",
		DOB:            "2012-04-09T00:00:00.000Z",
		ContactDetails: models.ContactDetails{Email: "asha@example.com"},
		FeesPaid:       true,
	}
	lk := Lookups{Classes: []Option{{Value: "c1", Label: "7B"}}}
	fields := FieldsFor(models.TypeStudent, d, lk)
	require.Len(t, fields, 7)

	name, _ := Find(fields, "studentName")
	assert.Equal(t, "Asha", name.Value)

	dob, _ := Find(fields, "dob")
	assert.Equal(t, "2012-04-09", dob.Value)
	assert.Equal(t, "date", dob.InputType())

	email, _ := Find(fields, "email")
	assert.Equal(t, "asha@example.com", email.Value)

	paid, _ := Find(fields, "feesPaid")
	assert.True(t, paid.Checked())

	class, _ := Find(fields, "class")
	assert.Equal(t, lk.Classes, class.Options)
}

func TestFieldsFor_UnknownTag(t *testing.T) {
	assert.Nil(t, FieldsFor("", nil, Lookups{}))
}

func TestField_ApplyWritesContact(t *testing.T) {
	fields := FieldsFor(models.TypeTeacher, models.TeacherDraft{}, Lookups{})
	phone, ok := Find(fields, "phone")
	require.True(t, ok)
	assert.Equal(t, "tel", phone.InputType())

	d := phone.Apply(models.TeacherDraft{}, "9876543210")
	assert.Equal(t, "9876543210", d.(models.TeacherDraft).ContactDetails.Phone)
}

func TestField_Choices(t *testing.T) {
	empty := Field{Label: "Select Teacher", Kind: KindSelect}
	assert.Equal(t, []Option{
		{Value: "", Label: "Select Select Teacher"},
		{Value: "", Label: "No options available"},
	}, empty.Choices())

	gender := FieldsFor(models.TypeStudent, nil, Lookups{})[1]
	choices := gender.Choices()
	require.Len(t, choices, 4)
	assert.Equal(t, "Select Gender", choices[0].Label)
	assert.Equal(t, "male", choices[1].Value)
}

func TestOptions(t *testing.T) {
	teachers := OptionsFromTeachers([]models.TeacherRecord{{ID: "t1", TeacherName: "Ravi"}})
	assert.Equal(t, []Option{{Value: "t1", Label: "Ravi"}}, teachers)

	label, ok := LabelFor(teachers, "t1")
	assert.True(t, ok)
	assert.Equal(t, "Ravi", label)

	classes := OptionsFromClasses([]models.ClassRecord{{ID: "c1", ClassName: "7B"}})
	assert.Equal(t, []Option{{Value: "c1", Label: "7B"}}, classes)
}
