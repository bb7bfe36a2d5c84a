// Package analytics computes the gender and finance summaries shown in the
// dashboard's analytics views. Everything here is pure; callers fetch the
// records.
package analytics

import (
	"math"
	"strings"

	"school-dashboard-go/models"
)

// Period selects how teacher salaries are totalled.
type Period string

const (
	Monthly Period = "monthly"
	Yearly  Period = "yearly"
)

// Toggle returns the other period.
func (p Period) Toggle() Period {
	if p == Yearly {
		return Monthly
	}
	return Yearly
}

// Bar is one bar of a chart. Percent is relative to the tallest bar.
type Bar struct {
	Label   string  `json:"label"`
	Value   float64 `json:"value"`
	Percent float64 `json:"percent"`
}

// Chart is a titled bar chart.
type Chart struct {
	Title string `json:"title"`
	Bars  []Bar  `json:"bars"`
}

// NewChart pairs labels with values; extra values are ignored.
func NewChart(title string, labels []string, values []float64) Chart {
	c := Chart{Title: title, Bars: make([]Bar, 0, len(labels))}
	max := 0.0
	for _, v := range values {
		max = math.Max(max, math.Abs(v))
	}
	for i, l := range labels {
		var v float64
		if i < len(values) {
			v = values[i]
		}
		b := Bar{Label: l, Value: v}
		if max > 0 {
			b.Percent = math.Round(math.Abs(v)/max*1000) / 10
		}
		c.Bars = append(c.Bars, b)
	}
	return c
}

// GenderRow is one student in the gender view table.
type GenderRow struct {
	StudentName string `json:"studentName"`
	Gender      string `json:"gender"`
	DOB         string `json:"dob"`
	FeesPaid    string `json:"feesPaid"`
	ClassName   string `json:"className"`
	Teacher     string `json:"teacher"`
	Year        string `json:"year"`
}

// GenderReport is the gender view: counts over the (optionally filtered)
// students, the class filter options and the student table.
type GenderReport struct {
	Classes  []string    `json:"classes"`
	Selected string      `json:"selected"`
	Male     int         `json:"male"`
	Female   int         `json:"female"`
	Rows     []GenderRow `json:"rows"`
	Chart    Chart       `json:"chart"`
}

const notAvailable = "N/A"

// Gender builds the gender report. selected filters by class name; "" keeps
// every student. Genders are compared trimmed and case-insensitively, and
// anything other than male or female is listed but not counted.
func Gender(students []models.StudentRecord, classes []models.ClassRecord, selected string) GenderReport {
	byID := make(map[string]models.ClassRecord, len(classes))
	byName := make(map[string]models.ClassRecord, len(classes))
	for _, c := range classes {
		byID[c.ID] = c
		if _, ok := byName[c.ClassName]; !ok {
			byName[c.ClassName] = c
		}
	}

	r := GenderReport{Selected: selected, Rows: []GenderRow{}, Classes: []string{}}
	seen := make(map[string]bool)
	for _, s := range students {
		name := classNameOf(s, byID)
		if name != "" && !seen[name] {
			seen[name] = true
			r.Classes = append(r.Classes, name)
		}
		if selected != "" && name != selected {
			continue
		}

		switch strings.ToLower(strings.TrimSpace(s.Gender)) {
		case "male":
			r.Male++
		case "female":
			r.Female++
		}

		row := GenderRow{
			StudentName: s.StudentName,
			Gender:      s.Gender,
			DOB:         models.FormatDate(s.DOB),
			FeesPaid:    yesNo(s.FeesPaid),
			ClassName:   name,
			Teacher:     notAvailable,
			Year:        notAvailable,
		}
		if c, ok := byName[name]; ok && name != "" {
			if c.TeacherName != "" {
				row.Teacher = c.TeacherName
			}
			if c.Year != 0 {
				row.Year = c.Year.String()
			}
		}
		if row.ClassName == "" {
			row.ClassName = notAvailable
		}
		r.Rows = append(r.Rows, row)
	}

	r.Chart = NewChart("Students by gender", []string{"Male", "Female"}, []float64{float64(r.Male), float64(r.Female)})
	return r
}

func classNameOf(s models.StudentRecord, byID map[string]models.ClassRecord) string {
	if s.ClassName != "" {
		return s.ClassName
	}
	if c, ok := byID[s.Class]; ok {
		return c.ClassName
	}
	return s.Class
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

// FinanceReport compares teacher salaries with class fees.
type FinanceReport struct {
	Period        Period  `json:"period"`
	Salaries      Chart   `json:"salaries"`
	Fees          Chart   `json:"fees"`
	Totals        Chart   `json:"totals"`
	TotalSalaries float64 `json:"totalSalaries"`
	TotalFees     float64 `json:"totalFees"`
	Difference    float64 `json:"difference"`
	Profit        bool    `json:"profit"`
	Status        string  `json:"status"`
}

// Finance builds the finance report. Salaries are monthly figures and are
// multiplied by 12 for the yearly period; class fees are taken as stored.
// The yearly salaries also feed the totals and the profit/loss figure, so
// in yearly mode the salary side of the comparison is a full year.
func Finance(teachers []models.TeacherRecord, classes []models.ClassRecord, period Period) FinanceReport {
	if period != Yearly {
		period = Monthly
	}
	factor := 1.0
	if period == Yearly {
		factor = 12
	}

	r := FinanceReport{Period: period}

	names := make([]string, 0, len(teachers))
	salaries := make([]float64, 0, len(teachers))
	for _, t := range teachers {
		v := float64(t.Salary) * factor
		names = append(names, t.TeacherName)
		salaries = append(salaries, v)
		r.TotalSalaries += v
	}

	classNames := make([]string, 0, len(classes))
	fees := make([]float64, 0, len(classes))
	for _, c := range classes {
		v := float64(c.StudentFees)
		classNames = append(classNames, c.ClassName)
		fees = append(fees, v)
		r.TotalFees += v
	}

	r.Difference = r.TotalFees - r.TotalSalaries
	r.Profit = r.Difference >= 0
	r.Status = "Loss"
	if r.Profit {
		r.Status = "Profit"
	}

	label := "Monthly"
	if period == Yearly {
		label = "Yearly"
	}
	r.Salaries = NewChart(label+" teacher salaries", names, salaries)
	r.Fees = NewChart("Class fees", classNames, fees)
	r.Totals = NewChart("Fees vs salaries", []string{"Fees", "Salaries"}, []float64{r.TotalFees, r.TotalSalaries})
	return r
}
