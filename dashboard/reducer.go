package dashboard

import (
	"school-dashboard-go/analytics"
	"school-dashboard-go/forms"
	"school-dashboard-go/models"
)

// Action is an input to Reduce.
type Action interface {
	isAction()
}

type (
	TypeSelected   struct{ Type models.RecordType }
	FetchStarted   struct{ Type models.RecordType }
	FetchSucceeded struct{ Records models.RecordSet }
	FetchFailed    struct{ Type models.RecordType }
	LookupsLoaded  struct{ Lookups forms.Lookups }

	CreateOpened struct{}
	EditOpened   struct {
		ID    string
		Draft models.Draft
	}
	FieldChanged struct {
		Name  string
		Value string
	}
	ValidationFailed struct{ Errors forms.ErrorMap }
	FormErrorSet     struct{ Message string }
	SubmitSucceeded  struct{}
	FormClosed       struct{}

	AnalyticsOpened   struct{ View AnalyticsView }
	AnalyticsClosed   struct{}
	AnalyticsFiltered struct{ Class string }
	PeriodToggled     struct{}

	DeleteRequested struct{ ID string }
	DeleteCancelled struct{}
	DeleteConfirmed struct{}
	SortToggled     struct{ Field SortField }
	FilterChanged   struct{ Class string }
)

func (TypeSelected) isAction()      {}
func (FetchStarted) isAction()      {}
func (FetchSucceeded) isAction()    {}
func (FetchFailed) isAction()       {}
func (LookupsLoaded) isAction()     {}
func (CreateOpened) isAction()      {}
func (EditOpened) isAction()        {}
func (FieldChanged) isAction()      {}
func (ValidationFailed) isAction()  {}
func (FormErrorSet) isAction()      {}
func (SubmitSucceeded) isAction()   {}
func (FormClosed) isAction()        {}
func (AnalyticsOpened) isAction()   {}
func (AnalyticsClosed) isAction()   {}
func (AnalyticsFiltered) isAction() {}
func (PeriodToggled) isAction()     {}
func (DeleteRequested) isAction()   {}
func (DeleteCancelled) isAction()   {}
func (DeleteConfirmed) isAction()   {}
func (SortToggled) isAction()       {}
func (FilterChanged) isAction()     {}

// Reduce applies a to s. Actions that are not valid in the current mode
// return s unchanged, so Reduce is total.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case TypeSelected:
		if s.Analytics.View != "" {
			return s
		}
		if _, ok := models.ParseRecordType(string(a.Type)); !ok {
			return s
		}
		s.Active = a.Type
		s.Form = nil
		s.FormError = ""
		s.Records = models.RecordSet{Type: a.Type}
		s.Loading = false
		s.List = ListState{}

	case FetchStarted:
		if a.Type == s.Active {
			s.Loading = true
		}

	case FetchSucceeded:
		// a result for a type the operator already left is dropped
		if a.Records.Type != s.Active {
			return s
		}
		s.Records = a.Records
		s.Loading = false
		if s.List.PendingDelete != "" {
			if _, ok := a.Records.Find(s.List.PendingDelete); !ok {
				s.List.PendingDelete = ""
			}
		}

	case FetchFailed:
		if a.Type == s.Active {
			s.Loading = false
		}

	case LookupsLoaded:
		s.Lookups = a.Lookups

	case CreateOpened:
		if s.Active == "" || s.Analytics.View != "" {
			return s
		}
		s.Form = &FormState{Mode: FormCreate, Draft: models.NewDraft(s.Active), Errors: forms.ErrorMap{}}
		s.FormError = ""

	case EditOpened:
		if s.Active == "" || s.Analytics.View != "" || a.ID == "" {
			return s
		}
		d := a.Draft
		if d == nil || d.Type() != s.Active {
			return s
		}
		s.Form = &FormState{Mode: FormEdit, EditingID: a.ID, Draft: d, Errors: forms.ErrorMap{}}
		s.FormError = ""

	case FieldChanged:
		if s.Form == nil {
			return s
		}
		field, ok := forms.Find(s.Fields(), a.Name)
		if !ok {
			return s
		}
		f := *s.Form
		f.Draft = field.Apply(f.Draft, a.Value)
		f.Errors = without(f.Errors, a.Name)
		s.Form = &f

	case ValidationFailed:
		if s.Form == nil {
			return s
		}
		f := *s.Form
		f.Errors = copyErrors(a.Errors)
		s.Form = &f

	case FormErrorSet:
		s.FormError = a.Message

	case SubmitSucceeded, FormClosed:
		s.Form = nil
		s.FormError = ""

	case AnalyticsOpened:
		if _, ok := ParseView(string(a.View)); !ok {
			return s
		}
		s.Analytics = AnalyticsState{View: a.View, Period: analytics.Monthly}
		s.Form = nil
		s.FormError = ""
		s.List.PendingDelete = ""

	case AnalyticsClosed:
		s.Analytics = AnalyticsState{}

	case AnalyticsFiltered:
		if s.Analytics.View == "" {
			return s
		}
		s.Analytics.Class = a.Class

	case PeriodToggled:
		if s.Analytics.View == "" {
			return s
		}
		s.Analytics.Period = s.Analytics.Period.Toggle()

	case DeleteRequested:
		if s.Active == "" || a.ID == "" || s.Analytics.View != "" {
			return s
		}
		s.List.PendingDelete = a.ID

	case DeleteCancelled, DeleteConfirmed:
		s.List.PendingDelete = ""

	case SortToggled:
		if _, ok := ParseSortField(string(a.Field)); !ok {
			return s
		}
		if s.List.Sort.Field == a.Field && s.List.Sort.Direction == Asc {
			s.List.Sort.Direction = Desc
		} else {
			s.List.Sort = SortOrder{Field: a.Field, Direction: Asc}
		}

	case FilterChanged:
		s.List.Filter = a.Class
	}
	return s
}

func without(errs forms.ErrorMap, name string) forms.ErrorMap {
	out := make(forms.ErrorMap, len(errs))
	for k, v := range errs {
		if k != name {
			out[k] = v
		}
	}
	return out
}

func copyErrors(errs forms.ErrorMap) forms.ErrorMap {
	out := make(forms.ErrorMap, len(errs))
	for k, v := range errs {
		out[k] = v
	}
	return out
}
