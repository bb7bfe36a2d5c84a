package db

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"school-dashboard-go/models"
)

type recordedRequest struct {
	Method string
	Path   string
	Body   map[string]any
}

func newBackend(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) (*RemoteStore, *[]recordedRequest) {
	t.Helper()
	var reqs []recordedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recordedRequest{Method: r.Method, Path: r.URL.Path}
		if raw, _ := io.ReadAll(r.Body); len(raw) > 0 {
			_ = json.Unmarshal(raw, &rec.Body)
		}
		reqs = append(reqs, rec)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	return NewRemoteStore(srv.URL+"/", 2*time.Second), &reqs
}

func TestRemoteStore_List(t *testing.T) {
	store, reqs := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"_id":"s1","studentName":"Asha","class":"c1","contactDetails":{"email":"a@b.co","phone":"9876543210"},"feesPaid":true}]`))
	})

	set, err := store.List(context.Background(), models.TypeStudent)
	require.NoError(t, err)
	require.Len(t, set.Students, 1)
	assert.Equal(t, "Asha", set.Students[0].StudentName)
	assert.True(t, set.Students[0].FeesPaid)
	assert.Equal(t, []recordedRequest{{Method: http.MethodGet, Path: "/student"}}, *reqs)
}

func TestRemoteStore_Get(t *testing.T) {
	store, reqs := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"_id":"t1","teacherName":"Ravi","salary":"32000"}`))
	})

	rec, err := store.Get(context.Background(), models.TypeTeacher, "t1")
	require.NoError(t, err)
	teacher, ok := rec.(models.TeacherRecord)
	require.True(t, ok)
	assert.Equal(t, models.Number(32000), teacher.Salary)
	assert.Equal(t, "/teacher/t1", (*reqs)[0].Path)
}

func TestRemoteStore_CreateUpdateDelete(t *testing.T) {
	store, reqs := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		_, _ = w.Write([]byte(`{}`))
	})
	ctx := context.Background()

	payload := models.Normalize(models.ClassDraft{ClassName: "7B"}, models.TypeClass)
	require.NoError(t, store.Create(ctx, models.TypeClass, payload))
	require.NoError(t, store.Update(ctx, models.TypeClass, "c1", payload))
	require.NoError(t, store.Delete(ctx, models.TypeClass, "c1"))

	require.Len(t, *reqs, 3)
	assert.Equal(t, http.MethodPost, (*reqs)[0].Method)
	assert.Equal(t, "/class/create", (*reqs)[0].Path)
	assert.Equal(t, []any{}, (*reqs)[0].Body["students"])
	assert.Equal(t, http.MethodPut, (*reqs)[1].Method)
	assert.Equal(t, "/class/c1", (*reqs)[1].Path)
	assert.Equal(t, http.MethodDelete, (*reqs)[2].Method)
	assert.Equal(t, "/class/c1", (*reqs)[2].Path)
}

func TestRemoteStore_APIError(t *testing.T) {
	store, _ := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"Email already exists"}`))
	})

	err := store.Create(context.Background(), models.TypeStudent, models.PersonPayload{})
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "Email already exists", apiErr.Message)
}

func TestRemoteStore_NotFound(t *testing.T) {
	store, _ := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	_, err := store.Get(context.Background(), models.TypeClass, "missing")
	assert.True(t, IsNotFound(err))
}

func TestRemoteStore_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	store := NewRemoteStore(url, time.Second)
	_, err := store.List(context.Background(), models.TypeClass)
	var netErr *NetworkError
	assert.True(t, errors.As(err, &netErr))
}

func TestRemoteStore_UnknownType(t *testing.T) {
	store := NewRemoteStore("http://127.0.0.1:0", time.Second)
	_, err := store.List(context.Background(), "course")
	assert.Error(t, err)
}
