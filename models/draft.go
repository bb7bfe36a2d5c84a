package models

import "strings"

// Draft is the working copy behind an open form. It is a closed union of
// ClassDraft, StudentDraft and TeacherDraft; values are raw form input.
type Draft interface {
	Type() RecordType
	// Lookup returns the value stored under a top-level field name and
	// whether this kind of draft has such a field.
	Lookup(name string) (any, bool)
	isDraft()
}

// ContactHolder is implemented by drafts that carry contact details.
type ContactHolder interface {
	Contact() ContactDetails
}

// ClassDraft backs the class form
type ClassDraft struct {
	ClassName   string   `json:"className"`
	Year        string   `json:"year"`
	Teacher     string   `json:"teacher"`
	TeacherName string   `json:"teacherName"`
	StudentFees string   `json:"studentFees"`
	MaxStudents string   `json:"maxStudents"`
	Students    []string `json:"students"`
}

// StudentDraft backs the student form
type StudentDraft struct {
	StudentName    string         `json:"studentName"`
	Gender         string         `json:"gender"`
	DOB            string         `json:"dob"`
	ContactDetails ContactDetails `json:"contactDetails"`
	FeesPaid       bool           `json:"feesPaid"`
	Class          string         `json:"class"`
}

// TeacherDraft backs the teacher form
type TeacherDraft struct {
	TeacherName    string         `json:"teacherName"`
	Gender         string         `json:"gender"`
	DOB            string         `json:"dob"`
	ContactDetails ContactDetails `json:"contactDetails"`
	Salary         string         `json:"salary"`
	AssignedClass  string         `json:"assignedClass"`
}

func (ClassDraft) Type() RecordType   { return TypeClass }
func (StudentDraft) Type() RecordType { return TypeStudent }
func (TeacherDraft) Type() RecordType { return TypeTeacher }

func (ClassDraft) isDraft()   {}
func (StudentDraft) isDraft() {}
func (TeacherDraft) isDraft() {}

func (d StudentDraft) Contact() ContactDetails { return d.ContactDetails }
func (d TeacherDraft) Contact() ContactDetails { return d.ContactDetails }

func (d ClassDraft) Lookup(name string) (any, bool) {
	switch name {
	case "className":
		return d.ClassName, true
	case "year":
		return d.Year, true
	case "teacher":
		return d.Teacher, true
	case "teacherName":
		return d.TeacherName, true
	case "studentFees":
		return d.StudentFees, true
	case "maxStudents":
		return d.MaxStudents, true
	case "students":
		return d.Students, true
	}
	return nil, false
}

func (d StudentDraft) Lookup(name string) (any, bool) {
	switch name {
	case "studentName":
		return d.StudentName, true
	case "gender":
		return d.Gender, true
	case "dob":
		return d.DOB, true
	case "contactDetails":
		return d.ContactDetails, true
	case "feesPaid":
		return d.FeesPaid, true
	case "class":
		return d.Class, true
	}
	return nil, false
}

func (d TeacherDraft) Lookup(name string) (any, bool) {
	switch name {
	case "teacherName":
		return d.TeacherName, true
	case "gender":
		return d.Gender, true
	case "dob":
		return d.DOB, true
	case "contactDetails":
		return d.ContactDetails, true
	case "salary":
		return d.Salary, true
	case "assignedClass":
		return d.AssignedClass, true
	}
	return nil, false
}

// NewDraft returns the empty draft for tag, or nil for an unknown tag.
func NewDraft(tag RecordType) Draft {
	switch tag {
	case TypeClass:
		return ClassDraft{Students: []string{}}
	case TypeStudent:
		return StudentDraft{}
	case TypeTeacher:
		return TeacherDraft{}
	}
	return nil
}

// Update returns a copy of d with field set to value. When nested is set the
// value goes into that key of the nested object named by field (only
// contactDetails has one). Unknown fields return d unchanged.
func Update(d Draft, field, value, nested string) Draft {
	switch v := d.(type) {
	case ClassDraft:
		switch field {
		case "className":
			v.ClassName = value
		case "year":
			v.Year = value
		case "teacher":
			v.Teacher = value
		case "teacherName":
			v.TeacherName = value
		case "studentFees":
			v.StudentFees = value
		case "maxStudents":
			v.MaxStudents = value
		}
		return v
	case StudentDraft:
		switch field {
		case "studentName":
			v.StudentName = value
		case "gender":
			v.Gender = value
		case "dob":
			v.DOB = value
		case "contactDetails":
			v.ContactDetails = setContact(v.ContactDetails, nested, value)
		case "feesPaid":
			v.FeesPaid = ParseCheckbox(value)
		case "class":
			v.Class = value
		}
		return v
	case TeacherDraft:
		switch field {
		case "teacherName":
			v.TeacherName = value
		case "gender":
			v.Gender = value
		case "dob":
			v.DOB = value
		case "contactDetails":
			v.ContactDetails = setContact(v.ContactDetails, nested, value)
		case "salary":
			v.Salary = value
		case "assignedClass":
			v.AssignedClass = value
		}
		return v
	}
	return d
}

func setContact(c ContactDetails, key, value string) ContactDetails {
	switch key {
	case "email":
		c.Email = value
	case "phone":
		c.Phone = value
	}
	return c
}

// ParseCheckbox maps checkbox form values to a bool.
func ParseCheckbox(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "on", "1", "yes":
		return true
	}
	return false
}

// DraftFromRecord builds the edit draft for r. The tag decides the draft
// kind; it reports false when r is not a record of that type.
func DraftFromRecord(tag RecordType, r Record) (Draft, bool) {
	switch tag {
	case TypeClass:
		c, ok := r.(ClassRecord)
		if !ok {
			return nil, false
		}
		students := append([]string{}, c.Students...)
		return ClassDraft{
			ClassName:   c.ClassName,
			Year:        numberText(c.Year),
			Teacher:     c.Teacher,
			TeacherName: c.TeacherName,
			StudentFees: numberText(c.StudentFees),
			MaxStudents: numberText(c.MaxStudents),
			Students:    students,
		}, true
	case TypeStudent:
		s, ok := r.(StudentRecord)
		if !ok {
			return nil, false
		}
		return StudentDraft{
			StudentName:    s.StudentName,
			Gender:         s.Gender,
			DOB:            DateOnly(s.DOB),
			ContactDetails: s.ContactDetails,
			FeesPaid:       s.FeesPaid,
			Class:          s.Class,
		}, true
	case TypeTeacher:
		t, ok := r.(TeacherRecord)
		if !ok {
			return nil, false
		}
		return TeacherDraft{
			TeacherName:    t.TeacherName,
			Gender:         t.Gender,
			DOB:            DateOnly(t.DOB),
			ContactDetails: t.ContactDetails,
			Salary:         numberText(t.Salary),
			AssignedClass:  t.AssignedClass,
		}, true
	}
	return nil, false
}

// DraftFromPayload turns a normalized payload back into a draft of kind tag.
func DraftFromPayload(tag RecordType, p Payload) Draft {
	switch v := p.(type) {
	case ClassPayload:
		d := NewDraft(tag)
		if tag != TypeClass {
			return d
		}
		return ClassDraft{
			ClassName:   v.ClassName,
			Year:        numberText(v.Year),
			Teacher:     v.Teacher,
			TeacherName: v.TeacherName,
			StudentFees: numberText(v.StudentFees),
			MaxStudents: numberText(v.MaxStudents),
			Students:    append([]string{}, v.Students...),
		}
	case PersonPayload:
		dob := ""
		if v.DOB != nil {
			dob = *v.DOB
		}
		switch tag {
		case TypeStudent:
			return StudentDraft{
				StudentName:    v.StudentName,
				Gender:         v.Gender,
				DOB:            dob,
				ContactDetails: v.ContactDetails,
				FeesPaid:       v.FeesPaid,
				Class:          v.Class,
			}
		case TypeTeacher:
			return TeacherDraft{
				TeacherName:    v.TeacherName,
				Gender:         v.Gender,
				DOB:            dob,
				ContactDetails: v.ContactDetails,
				Salary:         numberText(v.Salary),
				AssignedClass:  v.AssignedClass,
			}
		}
	}
	return NewDraft(tag)
}

// DateOnly trims an ISO timestamp to its YYYY-MM-DD prefix.
func DateOnly(s string) string {
	if len(s) > 10 {
		return s[:10]
	}
	return s
}

func numberText(n Number) string {
	if n == 0 {
		return ""
	}
	return n.String()
}

// DraftEnvelope is the JSON form of a Draft.
type DraftEnvelope struct {
	Kind    RecordType    `json:"kind"`
	Class   *ClassDraft   `json:"class,omitempty"`
	Student *StudentDraft `json:"student,omitempty"`
	Teacher *TeacherDraft `json:"teacher,omitempty"`
}

// WrapDraft packs d for serialization.
func WrapDraft(d Draft) DraftEnvelope {
	switch v := d.(type) {
	case ClassDraft:
		return DraftEnvelope{Kind: TypeClass, Class: &v}
	case StudentDraft:
		return DraftEnvelope{Kind: TypeStudent, Student: &v}
	case TeacherDraft:
		return DraftEnvelope{Kind: TypeTeacher, Teacher: &v}
	}
	return DraftEnvelope{}
}

// Draft unpacks the envelope; a missing variant yields the empty draft.
func (e DraftEnvelope) Draft() Draft {
	switch e.Kind {
	case TypeClass:
		if e.Class != nil {
			return *e.Class
		}
	case TypeStudent:
		if e.Student != nil {
			return *e.Student
		}
	case TypeTeacher:
		if e.Teacher != nil {
			return *e.Teacher
		}
	}
	return NewDraft(e.Kind)
}
