// Package dashboard holds the operator's dashboard state, the reducer that
// moves it between modes and the controller that drives it against the
// backend.
package dashboard

import (
	"encoding/json"

	"school-dashboard-go/analytics"
	"school-dashboard-go/forms"
	"school-dashboard-go/models"
)

// Mode is derived from State; it is never stored.
type Mode string

const (
	ModeIdle          Mode = "idle"
	ModeTypeSelected  Mode = "typeSelected"
	ModeFormOpen      Mode = "formOpen"
	ModeAnalyticsOpen Mode = "analyticsOpen"
)

// FormMode tells a create form from an edit form.
type FormMode string

const (
	FormCreate FormMode = "create"
	FormEdit   FormMode = "edit"
)

// FormState is the open form. EditingID is set only in edit mode.
type FormState struct {
	Mode      FormMode
	EditingID string
	Draft     models.Draft
	Errors    forms.ErrorMap
}

type formJSON struct {
	Mode      FormMode             `json:"mode"`
	EditingID string               `json:"editingId,omitempty"`
	Draft     models.DraftEnvelope `json:"draft"`
	Errors    forms.ErrorMap       `json:"errors,omitempty"`
}

func (f FormState) MarshalJSON() ([]byte, error) {
	return json.Marshal(formJSON{
		Mode:      f.Mode,
		EditingID: f.EditingID,
		Draft:     models.WrapDraft(f.Draft),
		Errors:    f.Errors,
	})
}

func (f *FormState) UnmarshalJSON(data []byte) error {
	var raw formJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*f = FormState{
		Mode:      raw.Mode,
		EditingID: raw.EditingID,
		Draft:     raw.Draft.Draft(),
		Errors:    raw.Errors,
	}
	if f.Errors == nil {
		f.Errors = forms.ErrorMap{}
	}
	return nil
}

// AnalyticsView names an analytics view.
type AnalyticsView string

const (
	ViewGender  AnalyticsView = "gender"
	ViewFinance AnalyticsView = "finance"
)

// ParseView accepts "gender" or "finance".
func ParseView(s string) (AnalyticsView, bool) {
	switch v := AnalyticsView(s); v {
	case ViewGender, ViewFinance:
		return v, true
	}
	return "", false
}

// AnalyticsState is open when View is set.
type AnalyticsState struct {
	View   AnalyticsView    `json:"view,omitempty"`
	Class  string           `json:"class,omitempty"`
	Period analytics.Period `json:"period,omitempty"`
}

// SortField is the column the list is ordered by.
type SortField string

const (
	SortNone    SortField = ""
	SortName    SortField = "name"
	SortCreated SortField = "created"
)

// ParseSortField accepts "name" or "created".
func ParseSortField(s string) (SortField, bool) {
	switch f := SortField(s); f {
	case SortName, SortCreated:
		return f, true
	}
	return SortNone, false
}

type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

type SortOrder struct {
	Field     SortField `json:"field,omitempty"`
	Direction Direction `json:"direction,omitempty"`
}

// ListState is the list view's presentation state. PendingDelete is the ID
// awaiting confirmation.
type ListState struct {
	Filter        string    `json:"filter,omitempty"`
	Sort          SortOrder `json:"sort"`
	PendingDelete string    `json:"pendingDelete,omitempty"`
}

// State is everything one operator session shows. It is a value: Reduce
// returns a new State and never mutates its input.
type State struct {
	Active    models.RecordType `json:"active,omitempty"`
	Form      *FormState        `json:"form,omitempty"`
	FormError string            `json:"formError,omitempty"`
	Analytics AnalyticsState    `json:"analytics"`
	Records   models.RecordSet  `json:"records"`
	Loading   bool              `json:"loading"`
	List      ListState         `json:"list"`
	Lookups   forms.Lookups     `json:"lookups"`
}

// Mode derives the current mode. Analytics takes precedence; the reducer
// keeps it exclusive with an open form.
func (s State) Mode() Mode {
	switch {
	case s.Analytics.View != "":
		return ModeAnalyticsOpen
	case s.Form != nil:
		return ModeFormOpen
	case s.Active != "":
		return ModeTypeSelected
	}
	return ModeIdle
}

// Fields returns the form fields for the active type bound to the open draft.
func (s State) Fields() []forms.Field {
	var d models.Draft
	if s.Form != nil {
		d = s.Form.Draft
	}
	return forms.FieldsFor(s.Active, d, s.Lookups)
}

// Marshal encodes the state for the session store.
func (s State) Marshal() ([]byte, error) {
	return json.Marshal(s)
}

// UnmarshalState decodes a stored state. Empty input is the idle state.
func UnmarshalState(data []byte) (State, error) {
	var s State
	if len(data) == 0 {
		return s, nil
	}
	err := json.Unmarshal(data, &s)
	return s, err
}
