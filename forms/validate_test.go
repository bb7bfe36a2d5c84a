package forms

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"school-dashboard-go/models"
)

func validStudent() models.StudentDraft {
	return models.StudentDraft{
		StudentName:    "Asha",
		Gender:         "female",
		DOB:            "2012-04-09",
		ContactDetails: models.ContactDetails{Email: "asha@example.com", Phone: "9876543210"},
		Class:          "c1",
	}
}

func TestValidate_ValidStudent(t *testing.T) {
	d := validStudent()
	res := Validate(FieldsFor(models.TypeStudent, d, Lookups{}), d)
	assert.True(t, res.Valid)
	assert.Empty(t, res.Errors)
}

func TestValidate_EveryEmptyFieldIsReported(t *testing.T) {
	for _, tag := range models.RecordTypes {
		d := models.NewDraft(tag)
		fields := FieldsFor(tag, d, Lookups{})
		res := Validate(fields, d)

		assert.False(t, res.Valid, "tag %s", tag)
		for _, f := range fields {
			if f.Kind == KindCheckbox {
				assert.NotContains(t, res.Errors, f.Name)
				continue
			}
			assert.Equal(t, f.Label+" is required.", res.Errors[f.Name], "tag %s field %s", tag, f.Name)
		}
	}
}

func TestValidate_MissingDraftCountsAsEmpty(t *testing.T) {
	fields := FieldsFor(models.TypeTeacher, nil, Lookups{})
	res := Validate(fields, nil)
	assert.False(t, res.Valid)
	assert.Equal(t, "Teacher Name is required.", res.Errors["teacherName"])
	assert.Equal(t, "Email is required.", res.Errors["email"])
}

func TestValidate_StudentNameRequired(t *testing.T) {
	d := validStudent()
	d.StudentName = ""
	res := Validate(FieldsFor(models.TypeStudent, d, Lookups{}), d)
	assert.False(t, res.Valid)
	assert.Equal(t, ErrorMap{"studentName": "Student Name is required."}, res.Errors)
}

func TestValidate_EmailFormat(t *testing.T) {
	for _, bad := range []string{"foo@bar", "@bar.com", "foo.bar.com"} {
		d := validStudent()
		d.ContactDetails.Email = bad
		res := Validate(FieldsFor(models.TypeStudent, d, Lookups{}), d)
		assert.Equal(t, "Please enter a valid email.", res.Errors["email"], bad)
		assert.False(t, ValidEmail(bad), bad)
	}

	d := validStudent()
	d.ContactDetails.Email = "a.b-c@sub.example.co"
	res := Validate(FieldsFor(models.TypeStudent, d, Lookups{}), d)
	assert.True(t, res.Valid)
	assert.True(t, ValidEmail("a.b-c@sub.example.co"))
}

func TestValidate_PhoneFormat(t *testing.T) {
	assert.True(t, ValidPhone("9876543210"))
	for _, bad := range []string{"98765", "98765432100", "987-654-3210"} {
		d := validStudent()
		d.ContactDetails.Phone = bad
		res := Validate(FieldsFor(models.TypeStudent, d, Lookups{}), d)
		assert.Equal(t, "Please enter a valid phone number.", res.Errors["phone"], bad)
		assert.False(t, ValidPhone(bad), bad)
	}
}

func TestValidate_RequiredBeforeFormat(t *testing.T) {
	d := validStudent()
	d.ContactDetails.Phone = ""
	res := Validate(FieldsFor(models.TypeStudent, d, Lookups{}), d)
	assert.Equal(t, "Phone is required.", res.Errors["phone"])
}
