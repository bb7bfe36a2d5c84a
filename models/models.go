package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// RecordType tags which backend resource a record, draft or form belongs to
type RecordType string

const (
	TypeClass   RecordType = "class"
	TypeStudent RecordType = "student"
	TypeTeacher RecordType = "teacher"
)

// RecordTypes lists the tags in selector order
var RecordTypes = []RecordType{TypeClass, TypeStudent, TypeTeacher}

// ParseRecordType accepts "class", "student" or "teacher" (case-insensitive)
func ParseRecordType(s string) (RecordType, bool) {
	switch t := RecordType(strings.ToLower(strings.TrimSpace(s))); t {
	case TypeClass, TypeStudent, TypeTeacher:
		return t, true
	}
	return "", false
}

// Title returns the capitalised tag, e.g. "Student".
func (t RecordType) Title() string {
	if t == "" {
		return ""
	}
	return strings.ToUpper(string(t[:1])) + string(t[1:])
}

// ContactDetails is the nested contact object carried by students and teachers
type ContactDetails struct {
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Number is a numeric backend field. The backend has stored both numbers and
// numeric strings over time, so both decode; "" and null decode as zero.
type Number float64

func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*n = 0
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		v, ok := ParseNumber(s)
		if !ok && strings.TrimSpace(s) != "" {
			return fmt.Errorf("invalid number %q", s)
		}
		*n = v
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*n = Number(f)
	return nil
}

// String formats without a trailing ".0" for whole values.
func (n Number) String() string {
	return strconv.FormatFloat(float64(n), 'f', -1, 64)
}

// ParseNumber parses raw form input; surrounding blanks are ignored.
func ParseNumber(s string) (Number, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return Number(f), true
}

// Record is implemented by the three backend record shapes
type Record interface {
	RecordID() string
	RecordType() RecordType
	// DisplayName is the record's name column (class, student or teacher name).
	DisplayName() string
	Created() time.Time
}

// ClassRecord represents a class
type ClassRecord struct {
	ID          string    `json:"_id"`
	ClassName   string    `json:"className"`
	Year        Number    `json:"year"`
	Teacher     string    `json:"teacher"` // TeacherRecord ID
	TeacherName string    `json:"teacherName"`
	StudentFees Number    `json:"studentFees"`
	MaxStudents Number    `json:"maxStudents"`
	Students    []string  `json:"students"` // StudentRecord IDs
	CreatedAt   time.Time `json:"createdAt"`
}

// StudentRecord represents a student
type StudentRecord struct {
	ID             string         `json:"_id"`
	StudentName    string         `json:"studentName"`
	Gender         string         `json:"gender"`
	DOB            string         `json:"dob"`
	ContactDetails ContactDetails `json:"contactDetails"`
	FeesPaid       bool           `json:"feesPaid"`
	Class          string         `json:"class"`               // ClassRecord ID
	ClassName      string         `json:"className,omitempty"` // set when the backend populates the class
	CreatedAt      time.Time      `json:"createdAt"`
}

// TeacherRecord represents a teacher
type TeacherRecord struct {
	ID             string         `json:"_id"`
	TeacherName    string         `json:"teacherName"`
	Gender         string         `json:"gender"`
	DOB            string         `json:"dob"`
	ContactDetails ContactDetails `json:"contactDetails"`
	Salary         Number         `json:"salary"`
	AssignedClass  string         `json:"assignedClass"`
	CreatedAt      time.Time      `json:"createdAt"`
}

func (r ClassRecord) RecordID() string       { return r.ID }
func (r ClassRecord) RecordType() RecordType { return TypeClass }
func (r ClassRecord) DisplayName() string    { return r.ClassName }
func (r ClassRecord) Created() time.Time     { return r.CreatedAt }

func (r StudentRecord) RecordID() string       { return r.ID }
func (r StudentRecord) RecordType() RecordType { return TypeStudent }
func (r StudentRecord) DisplayName() string    { return r.StudentName }
func (r StudentRecord) Created() time.Time     { return r.CreatedAt }

func (r TeacherRecord) RecordID() string       { return r.ID }
func (r TeacherRecord) RecordType() RecordType { return TypeTeacher }
func (r TeacherRecord) DisplayName() string    { return r.TeacherName }
func (r TeacherRecord) Created() time.Time     { return r.CreatedAt }

// RecordSet is one fetched list. Only the slice matching Type is populated.
type RecordSet struct {
	Type     RecordType      `json:"type"`
	Classes  []ClassRecord   `json:"classes,omitempty"`
	Students []StudentRecord `json:"students,omitempty"`
	Teachers []TeacherRecord `json:"teachers,omitempty"`
}

// Items returns the records of the set in backend order.
func (s RecordSet) Items() []Record {
	var out []Record
	switch s.Type {
	case TypeClass:
		out = make([]Record, 0, len(s.Classes))
		for _, r := range s.Classes {
			out = append(out, r)
		}
	case TypeStudent:
		out = make([]Record, 0, len(s.Students))
		for _, r := range s.Students {
			out = append(out, r)
		}
	case TypeTeacher:
		out = make([]Record, 0, len(s.Teachers))
		for _, r := range s.Teachers {
			out = append(out, r)
		}
	}
	return out
}

// Len returns the number of records in the set.
func (s RecordSet) Len() int {
	switch s.Type {
	case TypeClass:
		return len(s.Classes)
	case TypeStudent:
		return len(s.Students)
	case TypeTeacher:
		return len(s.Teachers)
	}
	return 0
}

// Find returns the record with the given ID.
func (s RecordSet) Find(id string) (Record, bool) {
	for _, r := range s.Items() {
		if r.RecordID() == id {
			return r, true
		}
	}
	return nil, false
}

// FormatDate renders a backend date ("2006-01-02" or RFC 3339) as
// "02 Jan 2006". Unparsable input is returned unchanged.
func FormatDate(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("02 Jan 2006")
		}
	}
	if t, err := time.Parse("2006-01-02", DateOnly(s)); err == nil {
		return t.Format("02 Jan 2006")
	}
	return s
}
