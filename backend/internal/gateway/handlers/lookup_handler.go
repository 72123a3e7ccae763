package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"gradelookup/backend/internal/gateway/util"
	"gradelookup/backend/internal/gateway/web"
	"gradelookup/backend/internal/report"
	"gradelookup/backend/internal/session"
)

// Resolver fetches the raw record for one student.
type Resolver interface {
	Lookup(ctx context.Context, studentID string) (report.RawRecord, error)
	Count(ctx context.Context) (int64, error)
}

// LookupHandler serves the search and results flows.
type LookupHandler struct {
	Resolver Resolver
	Builder  *report.Builder
	Sessions *session.Store
	Pages    *web.Pages
	Logger   *zap.Logger
}

// RESTSearchRequest mirrors the JSON input for POST /api/search
type RESTSearchRequest struct {
	StudentID string `json:"student_id"`
}

// SearchPage handles GET /
func (h *LookupHandler) SearchPage(w http.ResponseWriter, r *http.Request) {
	page := web.SearchPage{}
	status := http.StatusOK
	if h.Resolver == nil {
		page.Error = util.MsgDatabaseUnavailable
		status = http.StatusServiceUnavailable
	}
	h.renderSearch(w, status, page)
}

// Search handles POST /search
// Failures re-render the form with an inline message; success stores the
// record in the session and redirects to the results page.
func (h *LookupHandler) Search(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderSearch(w, http.StatusBadRequest, web.SearchPage{Error: util.MsgEmptyID})
		return
	}
	studentID := strings.TrimSpace(r.PostFormValue("student_id"))

	status, message, ok := h.resolve(w, r, studentID)
	if !ok {
		h.renderSearch(w, status, web.SearchPage{StudentID: studentID, Error: message})
		return
	}

	http.Redirect(w, r, "/results", http.StatusSeeOther)
}

// Results handles GET /results
func (h *LookupHandler) Results(w http.ResponseWriter, r *http.Request) {
	if h.Builder == nil {
		h.renderError(w, http.StatusInternalServerError, util.MsgConfigError)
		return
	}

	rec, err := h.Sessions.Load(r)
	if err != nil {
		h.Logger.Debug("no usable session for results page", zap.Error(err))
		status, message := util.SessionErrorMessage(err)
		h.renderError(w, status, message)
		return
	}

	view := report.NewView(h.Builder.Build(rec))
	if err := h.Pages.RenderResults(w, view); err != nil {
		h.Logger.Error("failed to render results page", zap.Error(err))
		http.Error(w, util.MsgConfigError, http.StatusInternalServerError)
	}
}

// APISearch handles POST /api/search
// Body: {"student_id": "..."}
func (h *LookupHandler) APISearch(w http.ResponseWriter, r *http.Request) {
	var req RESTSearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		util.WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	status, message, ok := h.resolve(w, r, strings.TrimSpace(req.StudentID))
	if !ok {
		util.WriteJSONError(w, status, message)
		return
	}

	util.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"redirect": "/results",
	})
}

// APIReport handles GET /api/report
// Builds the report for the record held in the session.
func (h *LookupHandler) APIReport(w http.ResponseWriter, r *http.Request) {
	if h.Builder == nil {
		util.WriteJSONError(w, http.StatusInternalServerError, util.MsgConfigError)
		return
	}

	rec, err := h.Sessions.Load(r)
	if err != nil {
		status, message := util.SessionErrorMessage(err)
		util.WriteJSONError(w, status, message)
		return
	}

	util.WriteJSON(w, http.StatusOK, h.Builder.Build(rec))
}

// ClearSession handles DELETE /api/session
func (h *LookupHandler) ClearSession(w http.ResponseWriter, r *http.Request) {
	h.Sessions.Clear(w)
	util.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Session cleared",
	})
}

// resolve looks studentID up and saves the record in the session. On failure
// it returns the status and message to show.
func (h *LookupHandler) resolve(w http.ResponseWriter, r *http.Request, studentID string) (int, string, bool) {
	if h.Resolver == nil {
		return http.StatusServiceUnavailable, util.MsgDatabaseUnavailable, false
	}
	if studentID == "" {
		return http.StatusBadRequest, util.MsgEmptyID, false
	}

	rec, err := h.Resolver.Lookup(r.Context(), studentID)
	if err != nil {
		status, message := util.LookupErrorMessage(err)
		if status >= http.StatusInternalServerError {
			h.Logger.Error("student lookup failed", zap.String("student_id", studentID), zap.Error(err))
		} else {
			h.Logger.Info("student lookup rejected", zap.String("student_id", studentID), zap.Error(err))
		}
		return status, message, false
	}

	if err := h.Sessions.Save(w, rec); err != nil {
		h.Logger.Error("failed to save session", zap.String("student_id", studentID), zap.Error(err))
		status, message := util.SaveErrorMessage(err)
		return status, message, false
	}

	return http.StatusOK, "", true
}

func (h *LookupHandler) renderSearch(w http.ResponseWriter, status int, page web.SearchPage) {
	if err := h.Pages.RenderSearch(w, status, page); err != nil {
		h.Logger.Error("failed to render search page", zap.Error(err))
		http.Error(w, util.MsgConfigError, http.StatusInternalServerError)
	}
}

func (h *LookupHandler) renderError(w http.ResponseWriter, status int, message string) {
	if err := h.Pages.RenderError(w, status, message); err != nil {
		h.Logger.Error("failed to render error page", zap.Error(err))
		http.Error(w, message, status)
	}
}
