// ABOUTME: Handlers for stored documents: list, save from a session, load into a session, delete and export.
// ABOUTME: All routes act on behalf of the authenticated user in the request context.
package web

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/2389-research/tracie/scene/core"
	"github.com/2389-research/tracie/scene/export"
	"github.com/2389-research/tracie/scene/files"
	"github.com/2389-research/tracie/scene/serial"
	"github.com/2389-research/tracie/scene/server"
	"github.com/go-chi/chi/v5"
)

func (s *Server) handleDocumentList(w http.ResponseWriter, r *http.Request) {
	infos, err := s.docs.List(r.Context(), server.UserFromContext(r.Context()))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, infos)
}

// sessionFromQuery resolves the ?session= parameter.
func (s *Server) sessionFromQuery(r *http.Request) (*server.Session, error) {
	id := r.URL.Query().Get("session")
	if id == "" {
		return nil, fmt.Errorf("%w: session query parameter is required", errBadRequest)
	}
	sess, ok := s.sessions.Get(id)
	if !ok {
		return nil, errSessionNotFound
	}
	return sess, nil
}

func (s *Server) handleDocumentSave(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessionFromQuery(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	confirm := files.NeverOverwrite
	if ok, _ := strconv.ParseBool(r.URL.Query().Get("overwrite")); ok {
		confirm = files.AlwaysOverwrite
	}

	sess.Lock()
	defer sess.Unlock()
	info, err := sess.Files.SaveConfirmed(r.Context(), server.UserFromContext(r.Context()), chi.URLParam(r, "name"), confirm)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

func (s *Server) handleDocumentLoad(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessionFromQuery(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	sess.Lock()
	defer sess.Unlock()
	if err := sess.Files.Load(r.Context(), server.UserFromContext(r.Context()), chi.URLParam(r, "name")); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(sess))
}

func (s *Server) handleDocumentDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.docs.Delete(r.Context(), server.UserFromContext(r.Context()), chi.URLParam(r, "name")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// loadScene reads a stored document into unbound shapes and links.
func (s *Server) loadScene(r *http.Request) (string, []core.Shape, []core.Connection, error) {
	name := chi.URLParam(r, "name")
	doc, err := s.docs.Load(r.Context(), server.UserFromContext(r.Context()), name)
	if err != nil {
		return "", nil, nil, err
	}
	shapes, conns, err := serial.Deserialize(doc, nil)
	if err != nil {
		return "", nil, nil, err
	}
	return name, shapes, conns, nil
}

func (s *Server) handleExportYAML(w http.ResponseWriter, r *http.Request) {
	name, shapes, conns, err := s.loadScene(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	out, err := export.ExportYAML(name, shapes, conns)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeText(w, "application/yaml", out)
}

func (s *Server) handleExportMarkdown(w http.ResponseWriter, r *http.Request) {
	name, shapes, conns, err := s.loadScene(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeText(w, "text/markdown; charset=utf-8", export.ExportMarkdown(name, shapes, conns))
}

func (s *Server) handleExportDOT(w http.ResponseWriter, r *http.Request) {
	name, shapes, conns, err := s.loadScene(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeText(w, "text/vnd.graphviz; charset=utf-8", export.ExportDOT(name, shapes, conns))
}

func (s *Server) handleExportImage(format string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name, shapes, conns, err := s.loadScene(r)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		img, err := s.images.Render(r.Context(), export.ExportDOT(name, shapes, conns), format)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		w.Header().Set("Content-Type", export.ImageType(format))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(img)
	}
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	name, shapes, conns, err := s.loadScene(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	page, err := renderSummary(name, export.ExportMarkdown(name, shapes, conns))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeText(w, "text/html; charset=utf-8", page)
}

func writeText(w http.ResponseWriter, contentType, body string) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(body))
}
