package api

import (
	"net/http"

	"github.com/soil-network/platform-api/internal/domain"
	"github.com/soil-network/platform-api/internal/httputil"
	"github.com/soil-network/platform-api/internal/router"
)

func (a *API) handleIdeasList(w http.ResponseWriter, r *http.Request, _ router.Params) {
	var ideas []domain.Idea
	a.docs.Read(r.Context(), domain.CollectionIdeas, &ideas)
	if ideas == nil {
		ideas = []domain.Idea{}
	}
	httputil.WriteJSON(w, http.StatusOK, ideas)
}

func (a *API) handleIdeaGet(w http.ResponseWriter, r *http.Request, p router.Params) {
	var ideas []domain.Idea
	a.docs.Read(r.Context(), domain.CollectionIdeas, &ideas)
	for _, idea := range ideas {
		if idea.ID == p["id"] {
			httputil.WriteJSON(w, http.StatusOK, idea)
			return
		}
	}
	httputil.NotFound(w, "Idea not found")
}

func (a *API) handleIdeaCreate(w http.ResponseWriter, r *http.Request, _ router.Params) {
	var req struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Submitter   string `json:"submitter"`
	}
	if !httputil.DecodeJSON(w, r, &req) {
		return
	}
	if req.Title == "" || req.Description == "" || req.Submitter == "" {
		httputil.BadRequest(w, "Missing required fields")
		return
	}
	now := a.now()
	idea := domain.Idea{
		ID:          a.ids.NewID("idea"),
		Title:       req.Title,
		Description: req.Description,
		Submitter:   req.Submitter,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if !a.docs.Append(r.Context(), domain.CollectionIdeas, idea) {
		httputil.InternalError(w, "Failed to save idea")
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, idea)
}

func (a *API) handleIdeaUpdate(w http.ResponseWriter, r *http.Request, p router.Params) {
	var req struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	}
	if !httputil.DecodeJSON(w, r, &req) {
		return
	}
	var ideas []domain.Idea
	a.docs.Read(r.Context(), domain.CollectionIdeas, &ideas)
	for i := range ideas {
		if ideas[i].ID != p["id"] {
			continue
		}
		if req.Title != "" {
			ideas[i].Title = req.Title
		}
		if req.Description != "" {
			ideas[i].Description = req.Description
		}
		ideas[i].UpdatedAt = a.now()
		if !a.docs.Write(r.Context(), domain.CollectionIdeas, ideas) {
			httputil.InternalError(w, "Failed to save idea")
			return
		}
		httputil.WriteJSON(w, http.StatusOK, ideas[i])
		return
	}
	httputil.NotFound(w, "Idea not found")
}

func (a *API) handleIdeaDelete(w http.ResponseWriter, r *http.Request, p router.Params) {
	var ideas []domain.Idea
	a.docs.Read(r.Context(), domain.CollectionIdeas, &ideas)
	remaining := ideas[:0:0]
	found := false
	for _, idea := range ideas {
		if idea.ID == p["id"] {
			found = true
			continue
		}
		remaining = append(remaining, idea)
	}
	if !found {
		httputil.NotFound(w, "Idea not found")
		return
	}
	if remaining == nil {
		remaining = []domain.Idea{}
	}
	if !a.docs.Write(r.Context(), domain.CollectionIdeas, remaining) {
		httputil.InternalError(w, "Failed to delete idea")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"message": "Idea deleted"})
}
