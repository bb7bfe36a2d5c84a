package dashboard

import (
	"sort"
	"strings"

	"school-dashboard-go/forms"
	"school-dashboard-go/models"
)

// Table is the list view of the active type, ready to render or export.
type Table struct {
	Type    models.RecordType `json:"type"`
	Columns []string          `json:"columns"`
	Rows    []Row             `json:"rows"`
	Sort    SortOrder         `json:"sort"`
	// Filterable is true for the student list, the only one with a class filter.
	Filterable    bool           `json:"filterable"`
	Filter        string         `json:"filter,omitempty"`
	FilterOptions []forms.Option `json:"filterOptions,omitempty"`
}

// Row is one record as display strings, in column order.
type Row struct {
	ID    string   `json:"id"`
	Cells []string `json:"cells"`
}

var columns = map[models.RecordType][]string{
	models.TypeStudent: {"Student Name", "Class", "Gender", "Date of Birth", "Email", "Phone", "Fees Paid"},
	models.TypeClass:   {"Class Name", "Year", "Teacher", "Student Fees", "Max Students"},
	models.TypeTeacher: {"Teacher Name", "Gender", "Date of Birth", "Email", "Phone", "Salary"},
}

// BuildTable filters and orders set per ls. The sort is stable, so records
// that compare equal keep their backend order.
func BuildTable(set models.RecordSet, ls ListState) Table {
	t := Table{
		Type:    set.Type,
		Columns: columns[set.Type],
		Rows:    []Row{},
		Sort:    ls.Sort,
	}

	items := set.Items()
	if set.Type == models.TypeStudent {
		t.Filterable = true
		t.Filter = ls.Filter
		t.FilterOptions = classOptions(set.Students)
		if ls.Filter != "" {
			kept := items[:0:0]
			for _, r := range items {
				if r.(models.StudentRecord).Class == ls.Filter {
					kept = append(kept, r)
				}
			}
			items = kept
		}
	}

	sortRecords(items, ls.Sort)
	for _, r := range items {
		t.Rows = append(t.Rows, Row{ID: r.RecordID(), Cells: cells(r)})
	}
	return t
}

func sortRecords(items []models.Record, o SortOrder) {
	var less func(a, b models.Record) bool
	switch o.Field {
	case SortName:
		less = func(a, b models.Record) bool {
			return strings.ToLower(a.DisplayName()) < strings.ToLower(b.DisplayName())
		}
	case SortCreated:
		less = func(a, b models.Record) bool {
			return a.Created().Before(b.Created())
		}
	default:
		return
	}
	sort.SliceStable(items, func(i, j int) bool {
		if o.Direction == Desc {
			return less(items[j], items[i])
		}
		return less(items[i], items[j])
	})
}

// classOptions lists the distinct classes of students, in first-seen order.
func classOptions(students []models.StudentRecord) []forms.Option {
	seen := make(map[string]bool)
	var out []forms.Option
	for _, s := range students {
		if s.Class == "" || seen[s.Class] {
			continue
		}
		seen[s.Class] = true
		label := s.ClassName
		if label == "" {
			label = s.Class
		}
		out = append(out, forms.Option{Value: s.Class, Label: label})
	}
	return out
}

func cells(r models.Record) []string {
	switch v := r.(type) {
	case models.StudentRecord:
		class := v.ClassName
		if class == "" {
			class = v.Class
		}
		return []string{
			v.StudentName,
			class,
			v.Gender,
			models.FormatDate(v.DOB),
			v.ContactDetails.Email,
			v.ContactDetails.Phone,
			yesNo(v.FeesPaid),
		}
	case models.ClassRecord:
		teacher := v.TeacherName
		if teacher == "" {
			teacher = v.Teacher
		}
		return []string{v.ClassName, v.Year.String(), teacher, v.StudentFees.String(), v.MaxStudents.String()}
	case models.TeacherRecord:
		return []string{
			v.TeacherName,
			v.Gender,
			models.FormatDate(v.DOB),
			v.ContactDetails.Email,
			v.ContactDetails.Phone,
			v.Salary.String(),
		}
	}
	return nil
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
