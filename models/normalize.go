package models

// Payload is a request body for the backend's create and update endpoints.
type Payload interface {
	isPayload()
}

// ClassPayload is the body for /class
type ClassPayload struct {
	ClassName   string   `json:"className"`
	Year        Number   `json:"year"`
	Teacher     string   `json:"teacher"`
	TeacherName string   `json:"teacherName"`
	StudentFees Number   `json:"studentFees"`
	MaxStudents Number   `json:"maxStudents"`
	Students    []string `json:"students"`
}

// PersonPayload is the body shared by /student and /teacher. The backend
// ignores the fields that do not belong to the resource.
type PersonPayload struct {
	StudentName    string         `json:"studentName"`
	Class          string         `json:"class"`
	DOB            *string        `json:"dob"`
	Email          string         `json:"email"`
	Phone          string         `json:"phone"`
	Gender         string         `json:"gender"`
	FeesPaid       bool           `json:"feesPaid"`
	ContactDetails ContactDetails `json:"contactDetails"`
	TeacherName    string         `json:"teacherName"`
	Salary         Number         `json:"salary"`
	AssignedClass  string         `json:"assignedClass"`
}

func (ClassPayload) isPayload()  {}
func (PersonPayload) isPayload() {}

// Normalize maps a draft to the payload shape the backend expects for tag.
// It never fails: absent or unparsable fields take their zero default.
func Normalize(d Draft, tag RecordType) Payload {
	if tag == TypeClass {
		students, _ := lookup(d, "students").([]string)
		if students == nil {
			students = []string{}
		}
		return ClassPayload{
			ClassName:   text(d, "className"),
			Year:        number(d, "year"),
			Teacher:     text(d, "teacher"),
			TeacherName: text(d, "teacherName"),
			StudentFees: number(d, "studentFees"),
			MaxStudents: number(d, "maxStudents"),
			Students:    students,
		}
	}

	var contact ContactDetails
	if ch, ok := d.(ContactHolder); ok {
		contact = ch.Contact()
	}
	var dob *string
	if s := text(d, "dob"); s != "" {
		dob = &s
	}
	feesPaid, _ := lookup(d, "feesPaid").(bool)
	return PersonPayload{
		StudentName:    text(d, "studentName"),
		Class:          text(d, "class"),
		DOB:            dob,
		Email:          contact.Email,
		Phone:          contact.Phone,
		Gender:         text(d, "gender"),
		FeesPaid:       feesPaid,
		ContactDetails: contact,
		TeacherName:    text(d, "teacherName"),
		Salary:         number(d, "salary"),
		AssignedClass:  text(d, "assignedClass"),
	}
}

func lookup(d Draft, name string) any {
	if d == nil {
		return nil
	}
	v, _ := d.Lookup(name)
	return v
}

func text(d Draft, name string) string {
	s, _ := lookup(d, name).(string)
	return s
}

func number(d Draft, name string) Number {
	n, _ := ParseNumber(text(d, name))
	return n
}
