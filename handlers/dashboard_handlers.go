package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"school-dashboard-go/analytics"
	"school-dashboard-go/dashboard"
	"school-dashboard-go/db"
	"school-dashboard-go/forms"
	"school-dashboard-go/models"
)

// DashboardHandler serves the operator dashboard. Each request loads the
// session's state, applies one controller operation and stores the result.
type DashboardHandler struct {
	Controller *dashboard.Controller
	Sessions   db.SessionStore

	locks    lockSet // serializes state updates per session
	inflight lockSet // held for the duration of a submit
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(ctrl *dashboard.Controller, sessions db.SessionStore) *DashboardHandler {
	return &DashboardHandler{
		Controller: ctrl,
		Sessions:   sessions,
	}
}

type stateFunc func(ctx context.Context, s dashboard.State) (dashboard.State, error)

func (h *DashboardHandler) load(ctx context.Context, id string) (dashboard.State, error) {
	raw, err := h.Sessions.LoadSession(ctx, id)
	if err != nil {
		return dashboard.State{}, err
	}
	s, err := dashboard.UnmarshalState(raw)
	if err != nil {
		// a snapshot from an older build; start over rather than fail every request
		log.Printf("Discarding unreadable state for session %s: %v", id, err)
		return dashboard.State{}, nil
	}
	return s, nil
}

func (h *DashboardHandler) save(ctx context.Context, id string, s dashboard.State) error {
	raw, err := s.Marshal()
	if err != nil {
		return fmt.Errorf("failed to encode dashboard state: %w", err)
	}
	return h.Sessions.SaveSession(ctx, id, raw)
}

// update runs fn against the session state and answers with JSON or a
// redirect to the dashboard.
func (h *DashboardHandler) update(c *gin.Context, fn stateFunc) {
	next, handled, err := h.apply(c, fn)
	if handled {
		return
	}
	h.respond(c, next, err)
}

// apply loads the session state, runs fn and stores the result, all under
// the session lock. handled reports that a failure response was already
// written.
func (h *DashboardHandler) apply(c *gin.Context, fn stateFunc) (next dashboard.State, handled bool, opErr error) {
	id := sessionID(c)
	unlock := h.locks.lock(id)
	defer unlock()

	ctx := c.Request.Context()
	s, err := h.load(ctx, id)
	if err != nil {
		log.Printf("Error loading session %s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load dashboard session"})
		return s, true, nil
	}

	next, opErr = fn(ctx, s)
	if opErr != nil {
		log.Printf("Error in %s handler: %v", c.FullPath(), opErr)
	}
	if err := h.save(ctx, id, next); err != nil {
		log.Printf("Error saving session %s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save dashboard session"})
		return next, true, nil
	}
	return next, false, opErr
}

func wantsJSON(c *gin.Context) bool {
	return c.NegotiateFormat(gin.MIMEHTML, gin.MIMEJSON) == gin.MIMEJSON
}

func (h *DashboardHandler) respond(c *gin.Context, s dashboard.State, err error) {
	if wantsJSON(c) {
		if err != nil {
			body := gin.H{"error": err.Error()}
			var verr *dashboard.ValidationError
			if errors.As(err, &verr) && len(verr.Errors) > 0 {
				body["errors"] = verr.Errors
			}
			c.JSON(errorStatus(err), body)
			return
		}
		c.JSON(http.StatusOK, stateView(s))
		return
	}

	// field errors and form-level messages already live in the state
	var verr *dashboard.ValidationError
	if err != nil && !errors.As(err, &verr) && s.FormError != err.Error() {
		addFlash(c, err.Error())
	}
	c.Redirect(http.StatusSeeOther, "/")
}

// errorStatus maps dashboard errors to HTTP status codes.
func errorStatus(err error) int {
	var (
		verr *dashboard.ValidationError
		dup  *dashboard.DuplicateResourceError
		uerr *dashboard.UnselectedTypeError
		serr *dashboard.ServerError
		nerr *dashboard.NetworkError
	)
	switch {
	case errors.Is(err, dashboard.ErrSubmitInFlight):
		return http.StatusConflict
	case errors.Is(err, dashboard.ErrRecordNotFound):
		return http.StatusNotFound
	case errors.As(err, &nerr), errors.As(err, &serr):
		return http.StatusBadGateway
	case errors.As(err, &verr), errors.As(err, &dup), errors.As(err, &uerr):
		return http.StatusBadRequest
	}
	return http.StatusBadRequest
}

func stateView(s dashboard.State) gin.H {
	view := gin.H{
		"mode":  s.Mode(),
		"state": s,
	}
	if s.Active != "" {
		view["fields"] = s.Fields()
		view["table"] = dashboard.BuildTable(s.Records, s.List)
	}
	return view
}

type pageData struct {
	Mode        dashboard.Mode
	Types       []models.RecordType
	State       dashboard.State
	Fields      []forms.Field
	Table       *dashboard.Table
	PendingName string
	Gender      *analytics.GenderReport
	Finance     *analytics.FinanceReport
	Flashes     []string
}

// Dashboard handles GET /
func (h *DashboardHandler) Dashboard(c *gin.Context) {
	id := sessionID(c)
	ctx := c.Request.Context()
	s, err := h.load(ctx, id)
	if err != nil {
		log.Printf("Error loading session %s: %v", id, err)
		c.String(http.StatusInternalServerError, "Failed to load dashboard session")
		return
	}

	data := pageData{
		Mode:    s.Mode(),
		Types:   models.RecordTypes,
		State:   s,
		Flashes: takeFlashes(c),
	}
	if s.Active != "" {
		data.Fields = s.Fields()
		table := dashboard.BuildTable(s.Records, s.List)
		data.Table = &table
	}
	if s.List.PendingDelete != "" {
		if rec, ok := s.Records.Find(s.List.PendingDelete); ok {
			data.PendingName = rec.DisplayName()
		}
	}

	switch s.Analytics.View {
	case dashboard.ViewGender:
		report, err := h.Controller.GenderReport(ctx, s.Analytics.Class)
		if err != nil {
			data.Flashes = append(data.Flashes, err.Error())
		} else {
			data.Gender = &report
		}
	case dashboard.ViewFinance:
		report, err := h.Controller.FinanceReport(ctx, s.Analytics.Period)
		if err != nil {
			data.Flashes = append(data.Flashes, err.Error())
		} else {
			data.Finance = &report
		}
	}

	c.HTML(http.StatusOK, "dashboard.html", data)
}

// SelectType handles POST /type
func (h *DashboardHandler) SelectType(c *gin.Context) {
	h.update(c, func(ctx context.Context, s dashboard.State) (dashboard.State, error) {
		tag, ok := models.ParseRecordType(c.PostForm("type"))
		if !ok {
			return s, dashboard.ErrUnknownType
		}
		return h.Controller.SelectType(ctx, s, tag)
	})
}

// OpenCreate handles POST /form/create
func (h *DashboardHandler) OpenCreate(c *gin.Context) {
	h.update(c, h.Controller.OpenCreate)
}

// OpenEdit handles POST /records/:id/edit. The form may name the record
// type; otherwise the active type is assumed.
func (h *DashboardHandler) OpenEdit(c *gin.Context) {
	h.update(c, func(ctx context.Context, s dashboard.State) (dashboard.State, error) {
		tag := s.Active
		if raw := c.PostForm("type"); raw != "" {
			parsed, ok := models.ParseRecordType(raw)
			if !ok {
				return s, dashboard.ErrUnknownType
			}
			tag = parsed
		}
		return h.Controller.OpenEdit(ctx, s, tag, c.Param("id"))
	})
}

// Submit handles POST /form/submit. Posted field values are applied to the
// draft first. A second submit while one is running is rejected.
func (h *DashboardHandler) Submit(c *gin.Context) {
	unlock, ok := h.inflight.tryLock(sessionID(c))
	if !ok {
		log.Printf("Rejected duplicate submit for session %s", sessionID(c))
		if wantsJSON(c) {
			c.JSON(http.StatusConflict, gin.H{"error": dashboard.ErrSubmitInFlight.Error()})
			return
		}
		addFlash(c, dashboard.MsgSubmitInFlight)
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	defer unlock()

	h.update(c, func(ctx context.Context, s dashboard.State) (dashboard.State, error) {
		if s.Form != nil {
			s = h.applyPosted(c, s)
		}
		return h.Controller.Submit(ctx, s)
	})
}

// applyPosted copies posted values into the draft. A checkbox posts a hidden
// "false" before its own value, so the last value wins.
func (h *DashboardHandler) applyPosted(c *gin.Context, s dashboard.State) dashboard.State {
	for _, f := range s.Fields() {
		values, ok := c.GetPostFormArray(f.Name)
		if !ok || len(values) == 0 {
			continue
		}
		s = h.Controller.Change(s, f.Name, values[len(values)-1])
	}
	return s
}

// ChangeFields handles POST /form/fields: it stores posted values in the
// draft without submitting.
func (h *DashboardHandler) ChangeFields(c *gin.Context) {
	h.update(c, func(_ context.Context, s dashboard.State) (dashboard.State, error) {
		if s.Form == nil {
			return s, dashboard.ErrFormNotOpen
		}
		return h.applyPosted(c, s), nil
	})
}

// CloseForm handles POST /form/close
func (h *DashboardHandler) CloseForm(c *gin.Context) {
	h.update(c, func(_ context.Context, s dashboard.State) (dashboard.State, error) {
		return h.Controller.CloseForm(s), nil
	})
}

// RequestDelete handles POST /records/:id/delete
func (h *DashboardHandler) RequestDelete(c *gin.Context) {
	h.update(c, func(_ context.Context, s dashboard.State) (dashboard.State, error) {
		if s.Active == "" {
			return s, &dashboard.UnselectedTypeError{}
		}
		return h.Controller.RequestDelete(s, c.Param("id")), nil
	})
}

// ConfirmDelete handles POST /delete/confirm
func (h *DashboardHandler) ConfirmDelete(c *gin.Context) {
	h.update(c, h.Controller.ConfirmDelete)
}

// CancelDelete handles POST /delete/cancel
func (h *DashboardHandler) CancelDelete(c *gin.Context) {
	h.update(c, func(_ context.Context, s dashboard.State) (dashboard.State, error) {
		return h.Controller.CancelDelete(s), nil
	})
}

// ToggleSort handles POST /list/sort
func (h *DashboardHandler) ToggleSort(c *gin.Context) {
	h.update(c, func(_ context.Context, s dashboard.State) (dashboard.State, error) {
		field, ok := dashboard.ParseSortField(c.PostForm("field"))
		if !ok {
			return s, fmt.Errorf("unknown sort field %q", c.PostForm("field"))
		}
		return h.Controller.ToggleSort(s, field), nil
	})
}

// FilterList handles POST /list/filter
func (h *DashboardHandler) FilterList(c *gin.Context) {
	h.update(c, func(_ context.Context, s dashboard.State) (dashboard.State, error) {
		return h.Controller.FilterList(s, c.PostForm("class")), nil
	})
}

// Refresh handles POST /refresh
func (h *DashboardHandler) Refresh(c *gin.Context) {
	h.update(c, func(ctx context.Context, s dashboard.State) (dashboard.State, error) {
		return h.Controller.Refresh(ctx, s), nil
	})
}

// OpenAnalytics handles POST /analytics/:view
func (h *DashboardHandler) OpenAnalytics(c *gin.Context) {
	h.update(c, func(_ context.Context, s dashboard.State) (dashboard.State, error) {
		return h.Controller.OpenAnalytics(s, dashboard.AnalyticsView(c.Param("view")))
	})
}

// CloseAnalytics handles POST /analytics/close
func (h *DashboardHandler) CloseAnalytics(c *gin.Context) {
	h.update(c, func(_ context.Context, s dashboard.State) (dashboard.State, error) {
		return h.Controller.CloseAnalytics(s), nil
	})
}

// FilterAnalytics handles POST /analytics/filter
func (h *DashboardHandler) FilterAnalytics(c *gin.Context) {
	h.update(c, func(_ context.Context, s dashboard.State) (dashboard.State, error) {
		return h.Controller.FilterAnalytics(s, c.PostForm("class")), nil
	})
}

// TogglePeriod handles POST /analytics/period
func (h *DashboardHandler) TogglePeriod(c *gin.Context) {
	h.update(c, func(_ context.Context, s dashboard.State) (dashboard.State, error) {
		return h.Controller.TogglePeriod(s), nil
	})
}

// Export handles GET /export: the active list as shown, as xlsx.
func (h *DashboardHandler) Export(c *gin.Context) {
	s, err := h.load(c.Request.Context(), sessionID(c))
	if err != nil {
		log.Printf("Error in Export handler: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load dashboard session"})
		return
	}
	if s.Active == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": dashboard.MsgUnselectedType})
		return
	}

	table := dashboard.BuildTable(s.Records, s.List)
	rows := make([][]string, 0, len(table.Rows))
	for _, r := range table.Rows {
		rows = append(rows, r.Cells)
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%ss.xlsx"`, s.Active))
	if err := db.WriteTableToExcel(c.Writer, string(s.Active), table.Columns, rows); err != nil {
		log.Printf("Error in Export handler: %v", err)
		c.Status(http.StatusInternalServerError)
	}
}

// Import handles POST /import: every row of the uploaded sheet becomes a
// record of the active type.
func (h *DashboardHandler) Import(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		log.Printf("Error getting form file: %v", err)
		if wantsJSON(c) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Error retrieving uploaded file: " + err.Error()})
			return
		}
		addFlash(c, "Please choose a spreadsheet to import.")
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	defer file.Close()

	var result dashboard.ImportResult
	fn := func(ctx context.Context, s dashboard.State) (dashboard.State, error) {
		if s.Active == "" {
			return s, &dashboard.UnselectedTypeError{}
		}
		log.Printf("Received file upload: %s for %s", header.Filename, s.Active)
		rows, err := db.ReadDraftsFromExcel(file, s.Active)
		if err != nil {
			return s, &dashboard.ValidationError{Message: "Could not read spreadsheet: " + err.Error()}
		}
		next, res, err := h.Controller.ImportRecords(ctx, s, rows)
		result = res
		if err == nil && !wantsJSON(c) {
			addFlash(c, fmt.Sprintf("Imported %d record(s).", res.Created))
			for _, f := range res.Failed {
				addFlash(c, fmt.Sprintf("Row %d: %s", f.Row, f.Message))
			}
		}
		return next, err
	}
	next, handled, err := h.apply(c, fn)
	if handled {
		return
	}
	if err != nil || !wantsJSON(c) {
		h.respond(c, next, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
