// Package forms describes dashboard form inputs and validates drafts against them.
package forms

import (
	"fmt"

	"school-dashboard-go/models"
)

// Kind selects how a field is rendered.
type Kind string

const (
	KindText     Kind = "text"
	KindNumber   Kind = "number"
	KindEmail    Kind = "email"
	KindPhone    Kind = "phone"
	KindDate     Kind = "date"
	KindCheckbox Kind = "checkbox"
	KindSelect   Kind = "select"
)

// Option is one entry of a select field.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Field describes one form input. It can be rendered without knowing which
// record type the form is for.
type Field struct {
	Name    string   `json:"name"`
	Label   string   `json:"label"`
	Kind    Kind     `json:"kind"`
	Value   string   `json:"value"`
	Options []Option `json:"options,omitempty"` // select only
}

// ErrorMap maps a field name to its message. Empty means valid.
type ErrorMap map[string]string

// Lookups are the select options that come from other records.
type Lookups struct {
	Teachers []Option `json:"teachers"`
	Classes  []Option `json:"classes"`
}

var genderOptions = []Option{
	{Value: "male", Label: "Male"},
	{Value: "female", Label: "Female"},
	{Value: "other", Label: "Other"},
}

type fieldSpec struct {
	name  string
	label string
	kind  Kind
}

var (
	classSpecs = []fieldSpec{
		{"className", "Class Name", KindText},
		{"year", "Year", KindNumber},
		{"teacher", "Select Teacher", KindSelect},
		{"studentFees", "Student Fees", KindNumber},
		{"maxStudents", "Max Students", KindNumber},
	}
	studentSpecs = []fieldSpec{
		{"studentName", "Student Name", KindText},
		{"gender", "Gender", KindSelect},
		{"dob", "Date of Birth", KindDate},
		{"email", "Email", KindEmail},
		{"phone", "Phone", KindPhone},
		{"feesPaid", "Fees Paid", KindCheckbox},
		{"class", "Select Class", KindSelect},
	}
	teacherSpecs = []fieldSpec{
		{"teacherName", "Teacher Name", KindText},
		{"gender", "Gender", KindSelect},
		{"dob", "Date of Birth", KindDate},
		{"email", "Email", KindEmail},
		{"phone", "Phone", KindPhone},
		{"salary", "Salary", KindNumber},
		{"assignedClass", "Assigned Class ID", KindText},
	}
)

// FieldsFor returns the ordered field set for tag with values bound from d.
// Unknown tags yield nil.
func FieldsFor(tag models.RecordType, d models.Draft, lk Lookups) []Field {
	var specs []fieldSpec
	switch tag {
	case models.TypeClass:
		specs = classSpecs
	case models.TypeStudent:
		specs = studentSpecs
	case models.TypeTeacher:
		specs = teacherSpecs
	default:
		return nil
	}

	fields := make([]Field, 0, len(specs))
	for _, s := range specs {
		f := Field{Name: s.name, Label: s.label, Kind: s.kind}
		f.Value = display(f, valueOf(d, f.Name))
		if f.Kind == KindSelect {
			switch f.Name {
			case "gender":
				f.Options = genderOptions
			case "teacher":
				f.Options = lk.Teachers
			case "class":
				f.Options = lk.Classes
			}
		}
		fields = append(fields, f)
	}
	return fields
}

// Find returns the field named name.
func Find(fields []Field, name string) (Field, bool) {
	for _, f := range fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Apply is the field's change handler: it returns d with raw stored under
// this field.
func (f Field) Apply(d models.Draft, raw string) models.Draft {
	target, nested := f.path()
	return models.Update(d, target, raw, nested)
}

func (f Field) path() (string, string) {
	if isContact(f.Name) {
		return "contactDetails", f.Name
	}
	return f.Name, ""
}

// Choices returns the entries of a select: a placeholder first, then the
// options, or a "No options available" entry when there are none.
func (f Field) Choices() []Option {
	out := []Option{{Value: "", Label: "Select " + f.Label}}
	if len(f.Options) == 0 {
		return append(out, Option{Value: "", Label: "No options available"})
	}
	return append(out, f.Options...)
}

// Checked reports the boolean state of a checkbox field.
func (f Field) Checked() bool {
	return models.ParseCheckbox(f.Value)
}

// InputType is the HTML input type for single-line kinds.
func (f Field) InputType() string {
	switch f.Kind {
	case KindNumber, KindEmail, KindDate, KindCheckbox:
		return string(f.Kind)
	case KindPhone:
		return "tel"
	}
	return "text"
}

// OptionsFromTeachers builds "Select Teacher" options.
func OptionsFromTeachers(teachers []models.TeacherRecord) []Option {
	out := make([]Option, 0, len(teachers))
	for _, t := range teachers {
		out = append(out, Option{Value: t.ID, Label: t.TeacherName})
	}
	return out
}

// OptionsFromClasses builds "Select Class" options.
func OptionsFromClasses(classes []models.ClassRecord) []Option {
	out := make([]Option, 0, len(classes))
	for _, c := range classes {
		out = append(out, Option{Value: c.ID, Label: c.ClassName})
	}
	return out
}

// LabelFor returns the label of the option with the given value.
func LabelFor(opts []Option, value string) (string, bool) {
	for _, o := range opts {
		if o.Value == value {
			return o.Label, true
		}
	}
	return "", false
}

func isContact(name string) bool {
	return name == "email" || name == "phone"
}

// valueOf reads the draft value a field is bound to; email and phone live in
// the contact details.
func valueOf(d models.Draft, name string) any {
	if d == nil {
		return nil
	}
	if isContact(name) {
		ch, ok := d.(models.ContactHolder)
		if !ok {
			return nil
		}
		if name == "email" {
			return ch.Contact().Email
		}
		return ch.Contact().Phone
	}
	v, ok := d.Lookup(name)
	if !ok {
		return nil
	}
	return v
}

func display(f Field, v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		if f.Kind == KindDate {
			return models.DateOnly(x)
		}
		return x
	case bool:
		if x {
			return "true"
		}
		return "false"
	}
	return fmt.Sprint(v)
}
