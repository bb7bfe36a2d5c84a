package db

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"school-dashboard-go/models"
)

// APIError is a non-2xx answer from the backend. Message is the "error"
// field of the JSON body, empty when the body had none.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("backend returned status %d: %s", e.StatusCode, e.Message)
}

// NetworkError means no response was received from the backend.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *NetworkError) Unwrap() error { return e.Err }

// IsNotFound reports whether err is a backend 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// RemoteStore talks to the school backend's REST resources
// (/class, /student, /teacher).
type RemoteStore struct {
	BaseURL string
	Client  *http.Client
}

// NewRemoteStore creates a RemoteStore for the backend at baseURL
func NewRemoteStore(baseURL string, timeout time.Duration) *RemoteStore {
	return &RemoteStore{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  &http.Client{Timeout: timeout},
	}
}

// List handles GET /{tag}
func (s *RemoteStore) List(ctx context.Context, tag models.RecordType) (models.RecordSet, error) {
	set := models.RecordSet{Type: tag}
	var err error
	switch tag {
	case models.TypeClass:
		err = s.do(ctx, http.MethodGet, "/class", nil, &set.Classes)
	case models.TypeStudent:
		err = s.do(ctx, http.MethodGet, "/student", nil, &set.Students)
	case models.TypeTeacher:
		err = s.do(ctx, http.MethodGet, "/teacher", nil, &set.Teachers)
	default:
		return set, fmt.Errorf("unknown record type %q", tag)
	}
	if err != nil {
		return models.RecordSet{Type: tag}, fmt.Errorf("failed to list %s records: %w", tag, err)
	}
	return set, nil
}

// Get handles GET /{tag}/{id}
func (s *RemoteStore) Get(ctx context.Context, tag models.RecordType, id string) (models.Record, error) {
	path := "/" + string(tag) + "/" + url.PathEscape(id)
	var (
		rec models.Record
		err error
	)
	switch tag {
	case models.TypeClass:
		var c models.ClassRecord
		err = s.do(ctx, http.MethodGet, path, nil, &c)
		rec = c
	case models.TypeStudent:
		var st models.StudentRecord
		err = s.do(ctx, http.MethodGet, path, nil, &st)
		rec = st
	case models.TypeTeacher:
		var t models.TeacherRecord
		err = s.do(ctx, http.MethodGet, path, nil, &t)
		rec = t
	default:
		return nil, fmt.Errorf("unknown record type %q", tag)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s %s: %w", tag, id, err)
	}
	return rec, nil
}

// Create handles POST /{tag}/create
func (s *RemoteStore) Create(ctx context.Context, tag models.RecordType, payload models.Payload) error {
	if err := s.do(ctx, http.MethodPost, "/"+string(tag)+"/create", payload, nil); err != nil {
		return fmt.Errorf("failed to create %s: %w", tag, err)
	}
	log.Printf("Created %s record", tag)
	return nil
}

// Update handles PUT /{tag}/{id}
func (s *RemoteStore) Update(ctx context.Context, tag models.RecordType, id string, payload models.Payload) error {
	if err := s.do(ctx, http.MethodPut, "/"+string(tag)+"/"+url.PathEscape(id), payload, nil); err != nil {
		return fmt.Errorf("failed to update %s %s: %w", tag, id, err)
	}
	log.Printf("Updated %s record %s", tag, id)
	return nil
}

// Delete handles DELETE /{tag}/{id}
func (s *RemoteStore) Delete(ctx context.Context, tag models.RecordType, id string) error {
	if err := s.do(ctx, http.MethodDelete, "/"+string(tag)+"/"+url.PathEscape(id), nil, nil); err != nil {
		return fmt.Errorf("failed to delete %s %s: %w", tag, id, err)
	}
	log.Printf("Deleted %s record %s", tag, id)
	return nil
}

func (s *RemoteStore) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.BaseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.Client.Do(req)
	if err != nil {
		return &NetworkError{Op: method + " " + path, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errBody struct {
			Error string `json:"error"`
		}
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		_ = json.Unmarshal(raw, &errBody)
		return &APIError{StatusCode: resp.StatusCode, Message: errBody.Error}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to decode %s %s response: %w", method, path, err)
	}
	return nil
}
