package mealietest

import "net/http"

func (s *Server) householdRoutes(mux *http.ServeMux) {
	s.collectionRoutes(mux, "/api/households/webhooks", "webhooks", nil)
	mux.HandleFunc("POST /api/households/webhooks/{id}/test", s.fire("webhooks"))
	mux.HandleFunc("POST /api/households/webhooks/rerun", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, nil)
	})

	s.collectionRoutes(mux, "/api/households/events/notifications", "notifications", nil)
	mux.HandleFunc("POST /api/households/events/notifications/{id}/test", s.fire("notifications"))

	s.collectionRoutes(mux, "/api/households/recipe-actions", "actions", nil)
	mux.HandleFunc("POST /api/households/recipe-actions/{id}/trigger/{slug}", s.triggerAction)
}

// fire answers a test request for an existing entity.
func (s *Server) fire(collection string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		e := s.find(collection, r.PathValue("id"))
		if e == nil {
			notFound(w)
			return
		}
		writeJSON(w, http.StatusOK, nil)
	}
}

func (s *Server) triggerAction(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	if !decode(w, r, &body) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	action := s.find("actions", r.PathValue("id"))
	if action == nil || s.findRecipe(r.PathValue("slug")) == nil {
		notFound(w)
		return
	}
	if action["actionType"] != "post" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"detail": "Only post actions can be triggered"})
		return
	}
	writeJSON(w, http.StatusAccepted, nil)
}
