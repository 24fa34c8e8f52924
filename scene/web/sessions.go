// ABOUTME: Handlers for editing sessions: shape and link mutations, history, routing mode and new file.
// ABOUTME: Every mutation responds with the full scene, links annotated with routed paths.
package web

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/2389-research/tracie/geom"
	"github.com/2389-research/tracie/scene/core"
	"github.com/2389-research/tracie/scene/route"
	"github.com/2389-research/tracie/scene/server"
	"github.com/go-chi/chi/v5"
)

// sceneView is the JSON form of a session's scene.
type sceneView struct {
	Session string            `json:"session"`
	Name    string            `json:"name"`
	Saved   bool              `json:"saved"`
	Grid    bool              `json:"grid"`
	CanUndo bool              `json:"canUndo"`
	CanRedo bool              `json:"canRedo"`
	Shapes  []core.Shape      `json:"shapes"`
	Links   []core.Connection `json:"links"`
}

func viewOf(sess *server.Session) sceneView {
	ws := sess.Workspace
	return sceneView{
		Session: sess.ID,
		Name:    sess.Files.CurrentName(),
		Saved:   sess.Files.IsSaved(),
		Grid:    sess.Tracker.Grid(),
		CanUndo: ws.History.CanUndo(),
		CanRedo: ws.History.CanRedo(),
		Shapes:  ws.Scene.ListShapes(),
		Links:   sess.Tracker.Annotate(),
	}
}

// withSession looks up the session and runs fn while holding its lock. A
// nil error from fn responds with the scene.
func (s *Server) withSession(w http.ResponseWriter, r *http.Request, status int, fn func(*server.Session) error) {
	sess, ok := s.sessions.Get(chi.URLParam(r, "sessionID"))
	if !ok {
		s.writeError(w, r, errSessionNotFound)
		return
	}
	sess.Lock()
	defer sess.Unlock()
	if err := fn(sess); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, status, viewOf(sess))
}

func shapeIDParam(r *http.Request) (int, error) {
	id, err := strconv.Atoi(chi.URLParam(r, "shapeID"))
	if err != nil {
		return 0, fmt.Errorf("%w: shape id %q", errBadRequest, chi.URLParam(r, "shapeID"))
	}
	return id, nil
}

func (s *Server) handleSessionCreate(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.Create()
	sess.Lock()
	defer sess.Unlock()
	writeJSON(w, http.StatusCreated, viewOf(sess))
}

func (s *Server) handleSessionGet(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, http.StatusOK, func(*server.Session) error { return nil })
}

func (s *Server) handleSessionDelete(w http.ResponseWriter, r *http.Request) {
	if !s.sessions.Delete(chi.URLParam(r, "sessionID")) {
		s.writeError(w, r, errSessionNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// shapeRequest accepts the kind as free text so aliases like "bnode" work.
type shapeRequest struct {
	Kind       string `json:"kind"`
	Length     int    `json:"length"`
	Rows       int    `json:"rows"`
	Cols       int    `json:"cols"`
	Name       string `json:"name"`
	Value      string `json:"value"`
	MaxIndex   int    `json:"maxIndex"`
	ChildCount int    `json:"childCount"`
	Color      string `json:"color"`
}

func (s *Server) handleShapeAdd(w http.ResponseWriter, r *http.Request) {
	var req shapeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.withSession(w, r, http.StatusCreated, func(sess *server.Session) error {
		kind, err := core.ParseKind(req.Kind)
		if err != nil {
			return err
		}
		_, err = sess.Workspace.Add(core.ShapeSpec{
			Kind:       kind,
			Length:     req.Length,
			Rows:       req.Rows,
			Cols:       req.Cols,
			Name:       req.Name,
			Value:      req.Value,
			MaxIndex:   req.MaxIndex,
			ChildCount: req.ChildCount,
			Color:      req.Color,
		})
		return err
	})
}

func (s *Server) handleShapeDelete(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, http.StatusOK, func(sess *server.Session) error {
		id, err := shapeIDParam(r)
		if err != nil {
			return err
		}
		return sess.Workspace.DeleteShape(id)
	})
}

func (s *Server) handleShapeMove(w http.ResponseWriter, r *http.Request) {
	var to geom.Point
	if err := decodeJSON(w, r, &to); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.withSession(w, r, http.StatusOK, func(sess *server.Session) error {
		id, err := shapeIDParam(r)
		if err != nil {
			return err
		}
		return sess.Workspace.MoveShape(id, to)
	})
}

func (s *Server) handleShapeDuplicate(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, http.StatusCreated, func(sess *server.Session) error {
		id, err := shapeIDParam(r)
		if err != nil {
			return err
		}
		if sess.Workspace.Duplicate(id) == nil {
			return &core.ShapeNotFoundError{ID: id}
		}
		return nil
	})
}

type movesRequest struct {
	IDs []int   `json:"ids"`
	DX  float64 `json:"dx"`
	DY  float64 `json:"dy"`
}

func (s *Server) handleMoveMultiple(w http.ResponseWriter, r *http.Request) {
	var req movesRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.withSession(w, r, http.StatusOK, func(sess *server.Session) error {
		sess.Workspace.MoveMultiple(req.IDs, geom.Pt(req.DX, req.DY))
		return nil
	})
}

type linkRequest struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Color string `json:"color,omitempty"`
}

func (l linkRequest) endpoints() (core.Endpoint, core.Endpoint, error) {
	from, err := core.ParseEndpoint(l.From)
	if err != nil {
		return core.Endpoint{}, core.Endpoint{}, err
	}
	to, err := core.ParseEndpoint(l.To)
	if err != nil {
		return core.Endpoint{}, core.Endpoint{}, err
	}
	return from, to, nil
}

func (s *Server) handleLinkCreate(w http.ResponseWriter, r *http.Request) {
	var req linkRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.withSession(w, r, http.StatusCreated, func(sess *server.Session) error {
		from, to, err := req.endpoints()
		if err != nil {
			return err
		}
		_, err = sess.Workspace.Connect(from, to, req.Color)
		return err
	})
}

func (s *Server) handleLinkDelete(w http.ResponseWriter, r *http.Request) {
	var req linkRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.withSession(w, r, http.StatusOK, func(sess *server.Session) error {
		from, to, err := req.endpoints()
		if err != nil {
			return err
		}
		return sess.Workspace.Disconnect(from, to)
	})
}

func (s *Server) handleLinksOptimize(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, http.StatusOK, func(sess *server.Session) error {
		n := route.OptimizeLinks(sess.Workspace)
		s.logger.Debug("optimized links", "session", sess.ID, "retargeted", n)
		return nil
	})
}

func (s *Server) handleUndo(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, http.StatusOK, func(sess *server.Session) error {
		sess.Workspace.Undo()
		return nil
	})
}

func (s *Server) handleRedo(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, http.StatusOK, func(sess *server.Session) error {
		sess.Workspace.Redo()
		return nil
	})
}

type routingRequest struct {
	Grid bool `json:"grid"`
}

func (s *Server) handleRouting(w http.ResponseWriter, r *http.Request) {
	var req routingRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.withSession(w, r, http.StatusOK, func(sess *server.Session) error {
		sess.Tracker.SetGrid(req.Grid)
		return nil
	})
}

func (s *Server) handleNewFile(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, http.StatusOK, func(sess *server.Session) error {
		sess.Files.NewFile()
		return nil
	})
}
