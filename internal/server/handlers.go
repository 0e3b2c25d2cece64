package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/familytree/pkg/errors"
	"github.com/matzehuels/familytree/pkg/family"
	"github.com/matzehuels/familytree/pkg/httputil"
)

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	var t family.Tree
	if err := httputil.DecodeJSON(r, &t, s.maxBody); err != nil {
		s.fail(w, r, err)
		return
	}
	t.ClearUnknownDates()
	s.writeLayout(w, r, &t)
}

func (s *Server) handleTreeLayout(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.GetTree(r.Context(), userFrom(r), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.writeLayout(w, r, &rec.Tree)
}

// writeLayout runs the pipeline on t and writes the single requested
// artifact.
func (s *Server) writeLayout(w http.ResponseWriter, r *http.Request, t *family.Tree) {
	opts, format, err := s.renderOptions(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	res, err := s.runner.Execute(r.Context(), t, opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	cache := "miss"
	if res.CacheInfo.LayoutHit {
		cache = "hit"
	}
	w.Header().Set("Content-Type", contentTypes[format])
	w.Header().Set("X-Cache", cache)
	w.Header().Set("ETag", `"`+res.TreeHash+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Artifacts[format])
}

func (s *Server) handleListTrees(w http.ResponseWriter, r *http.Request) {
	list, err := s.store.ListTrees(r.Context(), userFrom(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, list)
}

func (s *Server) handleCreateTree(w http.ResponseWriter, r *http.Request) {
	var t family.Tree
	if err := httputil.DecodeJSON(r, &t, s.maxBody); err != nil {
		s.fail(w, r, err)
		return
	}
	t.ClearUnknownDates()
	// The server names new trees; probing for taken IDs reveals nothing.
	t.ID = ""
	rec, err := s.store.CreateTree(r.Context(), userFrom(r), &t)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Location", "/v1/trees/"+rec.Tree.ID)
	httputil.WriteJSON(w, http.StatusCreated, rec)
}

func (s *Server) handleGetTree(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.GetTree(r.Context(), userFrom(r), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, rec)
}

func (s *Server) handlePutTree(w http.ResponseWriter, r *http.Request) {
	var t family.Tree
	if err := httputil.DecodeJSON(r, &t, s.maxBody); err != nil {
		s.fail(w, r, err)
		return
	}
	t.ClearUnknownDates()
	id := chi.URLParam(r, "id")
	if t.ID != "" && t.ID != id {
		s.fail(w, r, errors.New(errors.ErrCodeInvalidInput, "body tree ID %q does not match path %q", t.ID, id))
		return
	}
	t.ID = id
	rec, err := s.store.PutTree(r.Context(), userFrom(r), &t)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, rec)
}

func (s *Server) handleDeleteTree(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteTree(r.Context(), userFrom(r), chi.URLParam(r, "id")); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMembers(w http.ResponseWriter, r *http.Request) {
	members, err := s.store.Members(r.Context(), userFrom(r), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, members)
}

func (s *Server) handleShare(w http.ResponseWriter, r *http.Request) {
	var m family.Member
	if err := httputil.DecodeJSON(r, &m, s.maxBody); err != nil {
		s.fail(w, r, err)
		return
	}
	role, err := family.ParseRole(string(m.Role))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	m.Role = role
	if err := s.store.Share(r.Context(), userFrom(r), chi.URLParam(r, "id"), m); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleUnshare(w http.ResponseWriter, r *http.Request) {
	err := s.store.Unshare(r.Context(), userFrom(r), chi.URLParam(r, "id"), chi.URLParam(r, "user"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
