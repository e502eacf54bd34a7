package student

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"main/internal/config"
	"main/internal/models"
)

func setupTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := &config.Config{
		CORS: config.CORSConfig{
			AllowedOrigins: []string{"http://*"},
			AllowedMethods: []string{"GET", "POST", "PUT", "DELETE"},
		},
	}
	return NewServer(cfg, zap.NewNop(), "0")
}

func doRequest(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader([]byte(body)))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestStudentCRUD(t *testing.T) {
	s := setupTestServer(t)

	// List the seeded students.
	rec := doRequest(t, s, http.MethodGet, "/api/students", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d, want 200", rec.Code)
	}
	var students []models.Student
	if err := json.Unmarshal(rec.Body.Bytes(), &students); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(students) != 3 {
		t.Fatalf("len = %d, want 3 seeded students", len(students))
	}

	// Create assigns the next id.
	rec = doRequest(t, s, http.MethodPost, "/api/students",
		`{"name":"Dana White","age":24,"email":"dana@example.com","course":"Web Development"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, want 201: %s", rec.Code, rec.Body.String())
	}
	var created models.Student
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if created.ID != 4 {
		t.Errorf("id = %d, want 4", created.ID)
	}

	// Partial update touches only the provided field.
	rec = doRequest(t, s, http.MethodPut, "/api/students/4", `{"age":25}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d, want 200", rec.Code)
	}
	var updated models.Student
	if err := json.Unmarshal(rec.Body.Bytes(), &updated); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if updated.Age != 25 || updated.Name != "Dana White" {
		t.Errorf("updated = %+v, want only age changed", updated)
	}

	// Delete returns the success flag and removes the record.
	rec = doRequest(t, s, http.MethodDelete, "/api/students/4", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d, want 200", rec.Code)
	}
	var resp models.DeleteResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if !resp.Success {
		t.Error("success flag should be true")
	}
	if rec := doRequest(t, s, http.MethodGet, "/api/students/4", ""); rec.Code != http.StatusNotFound {
		t.Errorf("deleted student still retrievable, status = %d", rec.Code)
	}
}

func TestStudentNotFound(t *testing.T) {
	s := setupTestServer(t)

	for _, tc := range []struct{ method, path, body string }{
		{http.MethodGet, "/api/students/999", ""},
		{http.MethodPut, "/api/students/999", `{"age":30}`},
		{http.MethodDelete, "/api/students/999", ""},
	} {
		if rec := doRequest(t, s, tc.method, tc.path, tc.body); rec.Code != http.StatusNotFound {
			t.Errorf("%s %s status = %d, want 404", tc.method, tc.path, rec.Code)
		}
	}
}

func TestStudentValidation(t *testing.T) {
	s := setupTestServer(t)

	rec := doRequest(t, s, http.MethodPost, "/api/students", `{"name":"","age":0}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", rec.Code)
	}

	rec = doRequest(t, s, http.MethodPost, "/api/students", `not json`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("malformed body status = %d, want 422", rec.Code)
	}

	rec = doRequest(t, s, http.MethodGet, "/api/students/abc", "")
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("bad id status = %d, want 422", rec.Code)
	}
}

func TestProcessTimeHeader(t *testing.T) {
	s := setupTestServer(t)

	rec := doRequest(t, s, http.MethodGet, "/api/students", "")
	if got := rec.Header().Get("X-Process-Time"); got == "" {
		t.Error("X-Process-Time header is missing")
	}
}
