package dashboard

import (
	"context"
	"errors"
	"log"
	"strings"

	"golang.org/x/sync/errgroup"

	"school-dashboard-go/analytics"
	"school-dashboard-go/db"
	"school-dashboard-go/forms"
	"school-dashboard-go/models"
)

// Store is the backend the controller talks to. *db.RemoteStore implements it.
type Store interface {
	List(ctx context.Context, tag models.RecordType) (models.RecordSet, error)
	Get(ctx context.Context, tag models.RecordType, id string) (models.Record, error)
	Create(ctx context.Context, tag models.RecordType, payload models.Payload) error
	Update(ctx context.Context, tag models.RecordType, id string, payload models.Payload) error
	Delete(ctx context.Context, tag models.RecordType, id string) error
}

// Controller runs operator intents against the store. It holds no session
// state: every method takes a State and returns the next one.
type Controller struct {
	store Store
}

func NewController(store Store) *Controller {
	return &Controller{store: store}
}

// SelectType switches the active record type and loads its list.
func (c *Controller) SelectType(ctx context.Context, s State, tag models.RecordType) (State, error) {
	if s.Analytics.View != "" {
		return s, ErrAnalyticsOpen
	}
	if _, ok := models.ParseRecordType(string(tag)); !ok {
		return s, ErrUnknownType
	}
	s = Reduce(s, TypeSelected{Type: tag})
	return c.fetch(ctx, s), nil
}

// Refresh re-fetches the active list.
func (c *Controller) Refresh(ctx context.Context, s State) State {
	if s.Active == "" {
		return s
	}
	return c.fetch(ctx, s)
}

// fetch loads the active list. On failure the previous list stays.
func (c *Controller) fetch(ctx context.Context, s State) State {
	tag := s.Active
	s = Reduce(s, FetchStarted{Type: tag})
	set, err := c.store.List(ctx, tag)
	if err != nil {
		log.Printf("Error fetching %s list: %v", tag, err)
		return Reduce(s, FetchFailed{Type: tag})
	}
	set.Type = tag
	return Reduce(s, FetchSucceeded{Records: set})
}

// loadLookups refreshes the teacher and class options. A failed lookup keeps
// the options it had.
func (c *Controller) loadLookups(ctx context.Context, s State) State {
	var (
		g                  errgroup.Group
		teachers, classes  models.RecordSet
		teacherErr, clsErr error
	)
	g.Go(func() error {
		teachers, teacherErr = c.store.List(ctx, models.TypeTeacher)
		return teacherErr
	})
	g.Go(func() error {
		classes, clsErr = c.store.List(ctx, models.TypeClass)
		return clsErr
	})
	_ = g.Wait()

	lk := s.Lookups
	if teacherErr != nil {
		log.Printf("Error loading teacher options: %v", teacherErr)
	} else {
		lk.Teachers = forms.OptionsFromTeachers(teachers.Teachers)
	}
	if clsErr != nil {
		log.Printf("Error loading class options: %v", clsErr)
	} else {
		lk.Classes = forms.OptionsFromClasses(classes.Classes)
	}
	return Reduce(s, LookupsLoaded{Lookups: lk})
}

// OpenCreate opens an empty form for the active type.
func (c *Controller) OpenCreate(ctx context.Context, s State) (State, error) {
	if s.Analytics.View != "" {
		return s, ErrAnalyticsOpen
	}
	if s.Active == "" {
		return s, &UnselectedTypeError{}
	}
	s = c.loadLookups(ctx, s)
	return Reduce(s, CreateOpened{}), nil
}

// OpenEdit opens the form prefilled from record id. tag must be the active
// type; the record comes from the loaded list or, failing that, the backend.
func (c *Controller) OpenEdit(ctx context.Context, s State, tag models.RecordType, id string) (State, error) {
	if s.Analytics.View != "" {
		return s, ErrAnalyticsOpen
	}
	if s.Active == "" {
		return s, &UnselectedTypeError{}
	}
	if tag != s.Active {
		return s, ErrTypeMismatch
	}

	rec, ok := s.Records.Find(id)
	if !ok {
		var err error
		rec, err = c.store.Get(ctx, tag, id)
		if db.IsNotFound(err) {
			return s, ErrRecordNotFound
		}
		if err != nil {
			log.Printf("Error fetching %s %s: %v", tag, id, err)
			return s, classify(err)
		}
	}

	d, ok := models.DraftFromRecord(tag, rec)
	if !ok {
		return s, ErrTypeMismatch
	}
	s = c.loadLookups(ctx, s)
	return Reduce(s, EditOpened{ID: id, Draft: d}), nil
}

// Change applies one field edit to the open draft.
func (c *Controller) Change(s State, name, value string) State {
	return Reduce(s, FieldChanged{Name: name, Value: value})
}

// CloseForm discards the open form.
func (c *Controller) CloseForm(s State) State {
	return Reduce(s, FormClosed{})
}

// Submit validates the open draft and sends it. Invalid drafts never reach
// the store. On success the form closes and the list is re-fetched.
func (c *Controller) Submit(ctx context.Context, s State) (State, error) {
	if s.Active == "" {
		err := &UnselectedTypeError{}
		return Reduce(s, FormErrorSet{Message: err.Error()}), err
	}
	if s.Form == nil {
		return s, ErrFormNotOpen
	}
	s = Reduce(s, FormErrorSet{})

	payload, verr := c.prepare(s.Active, s.Fields(), s.Form.Draft, s.Lookups)
	if verr != nil {
		if len(verr.Errors) > 0 {
			s = Reduce(s, ValidationFailed{Errors: verr.Errors})
		}
		if verr.Message != "" {
			s = Reduce(s, FormErrorSet{Message: verr.Message})
		}
		return s, verr
	}
	s = Reduce(s, ValidationFailed{Errors: forms.ErrorMap{}})

	var err error
	if s.Form.Mode == FormEdit {
		err = c.store.Update(ctx, s.Active, s.Form.EditingID, payload)
	} else {
		err = c.store.Create(ctx, s.Active, payload)
	}
	if err != nil {
		log.Printf("Error submitting %s form: %v", s.Active, err)
		uerr := classify(err)
		return Reduce(s, FormErrorSet{Message: uerr.Error()}), uerr
	}

	s = Reduce(s, SubmitSucceeded{})
	return c.fetch(ctx, s), nil
}

// prepare validates d and builds its payload.
func (c *Controller) prepare(tag models.RecordType, fields []forms.Field, d models.Draft, lk forms.Lookups) (models.Payload, *ValidationError) {
	res := forms.Validate(fields, d)
	if !res.Valid {
		return nil, &ValidationError{Errors: res.Errors}
	}

	payload := models.Normalize(d, tag)
	switch p := payload.(type) {
	case models.ClassPayload:
		if p.TeacherName == "" {
			if name, ok := forms.LabelFor(lk.Teachers, p.Teacher); ok {
				p.TeacherName = name
				payload = p
			}
		}
	case models.PersonPayload:
		if p.ContactDetails.Email == "" || p.ContactDetails.Phone == "" {
			return nil, &ValidationError{Message: MsgMissingContact}
		}
	}
	return payload, nil
}

// RequestDelete asks for confirmation before deleting id.
func (c *Controller) RequestDelete(s State, id string) State {
	return Reduce(s, DeleteRequested{ID: id})
}

// CancelDelete dismisses the confirmation without touching the backend.
func (c *Controller) CancelDelete(s State) State {
	return Reduce(s, DeleteCancelled{})
}

// ConfirmDelete deletes the record awaiting confirmation.
func (c *Controller) ConfirmDelete(ctx context.Context, s State) (State, error) {
	id := s.List.PendingDelete
	if id == "" {
		return s, nil
	}
	s = Reduce(s, DeleteConfirmed{})
	return c.DeleteRecord(ctx, s, id)
}

// DeleteRecord deletes id from the active type and re-fetches the list.
func (c *Controller) DeleteRecord(ctx context.Context, s State, id string) (State, error) {
	if s.Active == "" {
		return s, &UnselectedTypeError{}
	}
	if err := c.store.Delete(ctx, s.Active, id); err != nil {
		log.Printf("Error deleting %s %s: %v", s.Active, id, err)
		uerr := classify(err)
		return Reduce(s, FormErrorSet{Message: uerr.Error()}), uerr
	}
	return c.fetch(ctx, s), nil
}

// ToggleSort orders the list by field, flipping direction on repeat.
func (c *Controller) ToggleSort(s State, field SortField) State {
	return Reduce(s, SortToggled{Field: field})
}

// FilterList restricts the student list to one class; "" clears it.
func (c *Controller) FilterList(s State, class string) State {
	return Reduce(s, FilterChanged{Class: class})
}

// OpenAnalytics opens an analytics view, closing any open form.
func (c *Controller) OpenAnalytics(s State, view AnalyticsView) (State, error) {
	if _, ok := ParseView(string(view)); !ok {
		return s, ErrUnknownView
	}
	return Reduce(s, AnalyticsOpened{View: view}), nil
}

func (c *Controller) CloseAnalytics(s State) State {
	return Reduce(s, AnalyticsClosed{})
}

// FilterAnalytics sets the gender view's class filter; "" shows every class.
func (c *Controller) FilterAnalytics(s State, class string) State {
	return Reduce(s, AnalyticsFiltered{Class: class})
}

func (c *Controller) TogglePeriod(s State) State {
	return Reduce(s, PeriodToggled{})
}

// GenderReport fetches students and classes and builds the gender view.
func (c *Controller) GenderReport(ctx context.Context, class string) (analytics.GenderReport, error) {
	var students, classes models.RecordSet
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		students, err = c.store.List(gctx, models.TypeStudent)
		return err
	})
	g.Go(func() (err error) {
		classes, err = c.store.List(gctx, models.TypeClass)
		return err
	})
	if err := g.Wait(); err != nil {
		log.Printf("Error loading gender analytics: %v", err)
		return analytics.GenderReport{}, classify(err)
	}
	return analytics.Gender(students.Students, classes.Classes, class), nil
}

// FinanceReport fetches teachers and classes and builds the finance view.
func (c *Controller) FinanceReport(ctx context.Context, period analytics.Period) (analytics.FinanceReport, error) {
	var teachers, classes models.RecordSet
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		teachers, err = c.store.List(gctx, models.TypeTeacher)
		return err
	})
	g.Go(func() (err error) {
		classes, err = c.store.List(gctx, models.TypeClass)
		return err
	})
	if err := g.Wait(); err != nil {
		log.Printf("Error loading finance analytics: %v", err)
		return analytics.FinanceReport{}, classify(err)
	}
	return analytics.Finance(teachers.Teachers, classes.Classes, period), nil
}

// ImportFailure is one spreadsheet row that was not created.
type ImportFailure struct {
	Row     int            `json:"row"`
	Message string         `json:"message"`
	Errors  forms.ErrorMap `json:"errors,omitempty"`
}

// ImportResult summarises an import.
type ImportResult struct {
	Created int             `json:"created"`
	Failed  []ImportFailure `json:"failed"`
}

// ImportRecords validates and creates each row as a record of the active
// type. Rows are independent: a failing row is reported and the rest are
// still sent. The list is re-fetched when anything was created.
func (c *Controller) ImportRecords(ctx context.Context, s State, rows []db.ImportRow) (State, ImportResult, error) {
	res := ImportResult{Failed: []ImportFailure{}}
	if s.Analytics.View != "" {
		return s, res, ErrAnalyticsOpen
	}
	if s.Active == "" {
		return s, res, &UnselectedTypeError{}
	}

	s = c.loadLookups(ctx, s)
	for _, row := range rows {
		if row.Draft == nil || row.Draft.Type() != s.Active {
			res.Failed = append(res.Failed, ImportFailure{Row: row.Row, Message: ErrTypeMismatch.Error()})
			continue
		}
		d := resolveOptions(forms.FieldsFor(s.Active, row.Draft, s.Lookups), row.Draft)
		payload, verr := c.prepare(s.Active, forms.FieldsFor(s.Active, d, s.Lookups), d, s.Lookups)
		if verr != nil {
			res.Failed = append(res.Failed, ImportFailure{Row: row.Row, Message: verr.Error(), Errors: verr.Errors})
			continue
		}
		if err := c.store.Create(ctx, s.Active, payload); err != nil {
			log.Printf("Error importing row %d: %v", row.Row, err)
			res.Failed = append(res.Failed, ImportFailure{Row: row.Row, Message: classify(err).Error()})
			continue
		}
		res.Created++
	}

	if res.Created > 0 {
		s = c.fetch(ctx, s)
	}
	return s, res, nil
}

// resolveOptions lets spreadsheets name select options by label ("Female",
// a teacher's name) instead of by value.
func resolveOptions(fields []forms.Field, d models.Draft) models.Draft {
	for _, f := range fields {
		if f.Kind != forms.KindSelect || f.Value == "" {
			continue
		}
		if _, ok := forms.LabelFor(f.Options, f.Value); ok {
			continue
		}
		for _, o := range f.Options {
			if strings.EqualFold(o.Label, f.Value) {
				d = f.Apply(d, o.Value)
				break
			}
		}
	}
	return d
}

// IsUserError reports whether err carries a message meant for the operator.
func IsUserError(err error) bool {
	var (
		v *ValidationError
		d *DuplicateResourceError
		s *ServerError
		n *NetworkError
		u *UnselectedTypeError
	)
	return errors.As(err, &v) || errors.As(err, &d) || errors.As(err, &s) || errors.As(err, &n) || errors.As(err, &u)
}
