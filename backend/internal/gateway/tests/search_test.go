package tests

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gradelookup/backend/internal/records"
	"gradelookup/backend/internal/session"
)

func postForm(router http.Handler, studentID string) *httptest.ResponseRecorder {
	form := url.Values{"student_id": {studentID}}
	req := httptest.NewRequest(http.MethodPost, "/search", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func postJSON(router http.Handler, path string, body interface{}) *httptest.ResponseRecorder {
	b, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func get(router http.Handler, path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func sessionCookie(t *testing.T, rr *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rr.Result().Cookies() {
		if c.Name == session.CookieName {
			return c
		}
	}
	t.Fatalf("response did not set %s", session.CookieName)
	return nil
}

// sessionCookies returns every session chunk the response kept alive.
func sessionCookies(rr *httptest.ResponseRecorder) []*http.Cookie {
	var live []*http.Cookie
	for _, c := range rr.Result().Cookies() {
		if strings.HasPrefix(c.Name, session.CookieName) && c.MaxAge >= 0 {
			live = append(live, c)
		}
	}
	return live
}

// wideStudent has one lab column per week on top of a known midterm.
func wideStudent(id string, weeks int) map[string]any {
	row := map[string]any{
		"Student ID":                 id,
		"Midterm(Scaled - 15 marks)": 12.0,
	}
	for i := 1; i <= weeks; i++ {
		row[fmt.Sprintf("Week %d Lab Grade (Scaled - 10 marks)", i)] = 7.5
	}
	return row
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return body
}

func TestGateway_SearchPage(t *testing.T) {
	env := setupGatewayTestEnv(t, &fakeStore{rows: sampleStudents()})

	rr := get(env.Router, "/")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rr.Body.String(), `id="searchForm"`)
	assert.Contains(t, rr.Body.String(), `alert alert-danger d-none`)
}

func TestGateway_FormSearch(t *testing.T) {
	env := setupGatewayTestEnv(t, &fakeStore{rows: sampleStudents()})

	t.Run("Found Redirects To Results", func(t *testing.T) {
		rr := postForm(env.Router, " 42 ")
		assert.Equal(t, http.StatusSeeOther, rr.Code)
		assert.Equal(t, "/results", rr.Header().Get("Location"))

		results := get(env.Router, "/results", sessionCookie(t, rr))
		require.Equal(t, http.StatusOK, results.Code)

		body := results.Body.String()
		assert.Contains(t, body, "Student 42")
		assert.Contains(t, body, "Rank: 3")
		assert.Contains(t, body, "Assignment 1")
		assert.Contains(t, body, "83.3%")
		assert.Contains(t, body, "grade-b")
		assert.Contains(t, body, "text-success")
		// Midterm is 6 of 15.
		assert.Contains(t, body, "40.0%")
		assert.Contains(t, body, "text-danger")
		// Configured but absent columns are skipped.
		assert.NotContains(t, body, "Quiz Total")
		assert.NotContains(t, body, "Bonus Points")
	})

	t.Run("Empty ID", func(t *testing.T) {
		rr := postForm(env.Router, "   ")
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), "Please enter a Student ID")
		assert.Empty(t, rr.Result().Cookies())
	})

	t.Run("Not Found Stays On Search Page", func(t *testing.T) {
		rr := postForm(env.Router, "999")
		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Contains(t, rr.Body.String(), "Student ID not found. Please check and try again.")
		assert.Contains(t, rr.Body.String(), `value="999"`)
		assert.Empty(t, rr.Header().Get("Location"))
	})
}

func TestGateway_FormSearchErrors(t *testing.T) {
	t.Run("Access Denied", func(t *testing.T) {
		env := setupGatewayTestEnv(t, &fakeStore{err: records.ErrAccessDenied})
		rr := postForm(env.Router, "42")
		assert.Equal(t, http.StatusForbidden, rr.Code)
		assert.Contains(t, rr.Body.String(), "Access denied. Please check database access policies.")
	})

	t.Run("Generic", func(t *testing.T) {
		env := setupGatewayTestEnv(t, &fakeStore{err: errors.New("socket closed")})
		rr := postForm(env.Router, "42")
		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.Contains(t, rr.Body.String(), "Database error: failed to retrieve student record")
	})
}

func TestGateway_Results(t *testing.T) {
	env := setupGatewayTestEnv(t, &fakeStore{rows: sampleStudents()})

	t.Run("No Session", func(t *testing.T) {
		rr := get(env.Router, "/results")
		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Contains(t, rr.Body.String(), "No student data found. Please search again.")
		assert.Contains(t, rr.Body.String(), "Back to Search")
	})

	t.Run("Malformed Session", func(t *testing.T) {
		rr := get(env.Router, "/results", &http.Cookie{Name: session.CookieName, Value: "garbage"})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), "Failed to load student data.")
	})

	t.Run("No Configured Columns", func(t *testing.T) {
		rr := postForm(env.Router, "ab7")
		require.Equal(t, http.StatusSeeOther, rr.Code)

		results := get(env.Router, "/results", sessionCookie(t, rr))
		require.Equal(t, http.StatusOK, results.Code)
		assert.Contains(t, results.Body.String(), "No data found for configured columns.")
		assert.Contains(t, results.Body.String(), "AB")
	})
}

func TestGateway_API(t *testing.T) {
	env := setupGatewayTestEnv(t, &fakeStore{rows: sampleStudents()})

	t.Run("Search And Report", func(t *testing.T) {
		rr := postJSON(env.Router, "/api/search", map[string]string{"student_id": "42"})
		require.Equal(t, http.StatusOK, rr.Code)

		body := decodeBody(t, rr)
		assert.Equal(t, true, body["success"])
		assert.Equal(t, "/results", body["redirect"])

		report := get(env.Router, "/api/report", sessionCookie(t, rr))
		require.Equal(t, http.StatusOK, report.Code)

		data := decodeBody(t, report)["data"].(map[string]interface{})
		assert.Equal(t, "3", data["rank"])
		assert.Equal(t, 31.5, data["overall_value"])

		rows := data["rows"].([]interface{})
		require.NotEmpty(t, rows)
		first := rows[0].(map[string]interface{})
		assert.Equal(t, "A1", first["code"])
		assert.Equal(t, "B+", first["grade"])
		assert.Equal(t, "Passed", first["status"])
	})

	t.Run("Search Not Found", func(t *testing.T) {
		rr := postJSON(env.Router, "/api/search", map[string]string{"student_id": "nobody"})
		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Equal(t, false, decodeBody(t, rr)["success"])
	})

	t.Run("Search Bad Body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/search", strings.NewReader("{"))
		rr := httptest.NewRecorder()
		env.Router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("Report Without Session", func(t *testing.T) {
		rr := get(env.Router, "/api/report")
		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Equal(t, "No student data found. Please search again.", decodeBody(t, rr)["message"])
	})

	t.Run("Clear Session", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, "/api/session", nil)
		rr := httptest.NewRecorder()
		env.Router.ServeHTTP(rr, req)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Less(t, sessionCookie(t, rr).MaxAge, 0)
	})

	t.Run("Health", func(t *testing.T) {
		rr := get(env.Router, "/api/health")
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, float64(2), decodeBody(t, rr)["records"])
	})
}

func TestGateway_Unconfigured(t *testing.T) {
	router := setupUnconfiguredGateway(t)

	t.Run("Search Page Shows Connection Error", func(t *testing.T) {
		rr := get(router, "/")
		assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
		assert.Contains(t, rr.Body.String(), "Database connection failed.")
	})

	t.Run("Results Page Shows Configuration Error", func(t *testing.T) {
		rr := get(router, "/results")
		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.Contains(t, rr.Body.String(), "System configuration error.")
	})

	t.Run("Health", func(t *testing.T) {
		rr := get(router, "/api/health")
		assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	})
}

func TestGateway_WideRecords(t *testing.T) {
	rows := sampleStudents()
	rows["wide"] = wideStudent("wide", 70)
	rows["huge"] = wideStudent("huge", 2000)
	env := setupGatewayTestEnv(t, &fakeStore{rows: rows})

	t.Run("Wide Record Reaches Results", func(t *testing.T) {
		rr := postForm(env.Router, "wide")
		require.Equal(t, http.StatusSeeOther, rr.Code)

		for _, header := range rr.Header().Values("Set-Cookie") {
			assert.LessOrEqual(t, len(header), 4096)
		}
		cookies := sessionCookies(rr)
		require.Greater(t, len(cookies), 1)

		results := get(env.Router, "/results", cookies...)
		require.Equal(t, http.StatusOK, results.Code)
		assert.Contains(t, results.Body.String(), "Student wide")
		assert.Contains(t, results.Body.String(), "Midterm")
		assert.NotContains(t, results.Body.String(), "No student data found")
	})

	t.Run("Oversized Record Stays On Search Page", func(t *testing.T) {
		rr := postForm(env.Router, "huge")
		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.Contains(t, rr.Body.String(), "Student record is too large to display.")
		assert.Empty(t, rr.Header().Get("Location"))
		assert.Empty(t, sessionCookies(rr))
	})

	t.Run("Oversized Record Over API", func(t *testing.T) {
		rr := postJSON(env.Router, "/api/search", map[string]string{"student_id": "huge"})
		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		body := decodeBody(t, rr)
		assert.Equal(t, false, body["success"])
		assert.Equal(t, "Student record is too large to display.", body["message"])
	})
}
