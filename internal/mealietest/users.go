package mealietest

import (
	"io"
	"net/http"
	"strconv"

	"github.com/google/uuid"
)

// Rating returns the stored rating of a recipe id, or nil.
func (s *Server) Rating(recipeID string) map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.ratings[recipeID]; ok {
		return clone(r)
	}
	return nil
}

func (s *Server) userRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/users/self", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"id":       userID,
			"username": "tester",
			"groupId":  groupID,
		})
	})
	mux.HandleFunc("POST /api/users/{uid}/ratings/{slug}", s.setRating)
	mux.HandleFunc("GET /api/users/self/ratings", s.listRatings(false))
	mux.HandleFunc("GET /api/users/self/favorites", s.listRatings(true))
	mux.HandleFunc("GET /api/users/self/ratings/{rid}", s.getRating)
	mux.HandleFunc("POST /api/users/{uid}/favorites/{slug}", s.setFavorite(true))
	mux.HandleFunc("DELETE /api/users/{uid}/favorites/{slug}", s.setFavorite(false))

	mux.HandleFunc("GET /api/recipes/suggestions", s.suggestions)
	mux.HandleFunc("GET /api/recipes/{a}/{b}", s.recipeSubresource)
	mux.HandleFunc("POST /api/recipes/create/image", s.createFromImage)
	mux.HandleFunc("POST /api/recipes/bulk-actions/export", s.bulkExport)
	mux.HandleFunc("GET /api/recipes/bulk-actions/export", func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		items := make([]map[string]any, 0, len(s.collections["exports"]))
		for _, e := range s.collections["exports"] {
			items = append(items, clone(e))
		}
		s.mu.Unlock()
		writeJSON(w, http.StatusOK, items)
	})
	mux.HandleFunc("POST /api/recipes/bulk-actions/settings", s.bulkSettings)

	s.collectionRoutes(mux, "/api/shared/recipes", "shared", nil)
	s.collectionRoutes(mux, "/api/comments", "comments", nil)
	s.collectionRoutes(mux, "/api/recipes/timeline/events", "timeline", nil)
	mux.HandleFunc("PUT /api/recipes/timeline/events/{id}/image", s.timelineImage)
}

// ownRating returns the rating record of the recipe, creating it.
func (s *Server) ownRating(recipeID string) map[string]any {
	r, ok := s.ratings[recipeID]
	if !ok {
		r = map[string]any{"recipeId": recipeID, "userId": userID, "rating": nil, "isFavorite": false}
		s.ratings[recipeID] = r
	}
	return r
}

func (s *Server) setRating(w http.ResponseWriter, r *http.Request) {
	if r.PathValue("uid") != userID {
		writeJSON(w, http.StatusForbidden, map[string]any{"detail": "User is not allowed to rate for another user"})
		return
	}
	var body map[string]any
	if !decode(w, r, &body) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := s.findRecipe(r.PathValue("slug"))
	if rec == nil {
		notFound(w)
		return
	}
	rating := s.ownRating(rec["id"].(string))
	for _, k := range []string{"rating", "isFavorite"} {
		if v, ok := body[k]; ok {
			rating[k] = v
		}
	}
	writeJSON(w, http.StatusOK, nil)
}

func (s *Server) listRatings(favoritesOnly bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		out := []map[string]any{}
		for _, rating := range s.ratings {
			if favoritesOnly && rating["isFavorite"] != true {
				continue
			}
			out = append(out, clone(rating))
		}
		s.mu.Unlock()
		writeJSON(w, http.StatusOK, map[string]any{"ratings": out})
	}
}

func (s *Server) getRating(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rid := r.PathValue("rid")
	if rating, ok := s.ratings[rid]; ok {
		writeJSON(w, http.StatusOK, clone(rating))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"recipeId": rid, "rating": nil, "isFavorite": false})
}

func (s *Server) setFavorite(on bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("uid") != userID {
			writeJSON(w, http.StatusForbidden, map[string]any{"detail": "User is not allowed to change another user's favorites"})
			return
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		rec := s.findRecipe(r.PathValue("slug"))
		if rec == nil {
			notFound(w)
			return
		}
		s.ownRating(rec["id"].(string))["isFavorite"] = on
		writeJSON(w, http.StatusOK, nil)
	}
}

func (s *Server) suggestions(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	s.mu.Lock()
	items := []map[string]any{}
	for _, rec := range s.recipes {
		if limit > 0 && len(items) == limit {
			break
		}
		items = append(items, map[string]any{
			"recipe":       clone(rec),
			"missingFoods": []any{},
			"missingTools": []any{},
		})
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

// recipeSubresource serves GET /api/recipes/shared/{token} and
// GET /api/recipes/{slug}/comments, which share a pattern.
func (s *Server) recipeSubresource(w http.ResponseWriter, r *http.Request) {
	a, b := r.PathValue("a"), r.PathValue("b")
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case a == "shared":
		share := s.find("shared", b)
		if share == nil {
			notFound(w)
			return
		}
		rid, _ := share["recipeId"].(string)
		rec := s.findRecipe(rid)
		if rec == nil {
			notFound(w)
			return
		}
		writeJSON(w, http.StatusOK, clone(rec))
	case b == "comments":
		rec := s.findRecipe(a)
		if rec == nil {
			notFound(w)
			return
		}
		out := []map[string]any{}
		for _, c := range s.collections["comments"] {
			if c["recipeId"] == rec["id"] {
				out = append(out, clone(c))
			}
		}
		writeJSON(w, http.StatusOK, out)
	default:
		notFound(w)
	}
}

func (s *Server) createFromImage(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"detail": err.Error()})
		return
	}
	file, header, err := r.FormFile("images")
	if err != nil {
		writeValidation(w, "body.images", "Field required")
		return
	}
	defer func() { _ = file.Close() }()
	data, _ := io.ReadAll(file)

	s.mu.Lock()
	defer s.mu.Unlock()
	rec := s.newRecipe("Recipe From Image")
	s.uploads = append(s.uploads, Upload{
		Slug:      rec["slug"].(string),
		FileField: "images",
		Filename:  header.Filename,
		Size:      len(data),
	})
	writeJSON(w, http.StatusCreated, rec["slug"])
}

func (s *Server) bulkExport(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	if !decode(w, r, &body) {
		return
	}
	if body["exportType"] != "json" {
		writeValidation(w, "body.exportType", "Input should be 'json'")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.NewString()
	s.collections["exports"] = append(s.collections["exports"], map[string]any{
		"id":       id,
		"groupId":  groupID,
		"name":     "Recipe Bulk Export",
		"filename": "recipes-" + id[:8] + ".zip",
		"recipes":  body["recipes"],
	})
	writeJSON(w, http.StatusAccepted, nil)
}

func (s *Server) bulkSettings(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	if !decode(w, r, &body) {
		return
	}
	settings, _ := body["settings"].(map[string]any)
	s.mu.Lock()
	defer s.mu.Unlock()
	slugs, _ := body["recipes"].([]any)
	for _, slug := range slugs {
		ref, _ := slug.(string)
		rec := s.findRecipe(ref)
		if rec == nil {
			continue
		}
		current, _ := rec["settings"].(map[string]any)
		if current == nil {
			current = map[string]any{}
		}
		for k, v := range settings {
			current[k] = v
		}
		rec["settings"] = current
	}
	writeJSON(w, http.StatusOK, map[string]any{})
}

func (s *Server) timelineImage(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"detail": err.Error()})
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		writeValidation(w, "body.image", "Field required")
		return
	}
	defer func() { _ = file.Close() }()
	data, _ := io.ReadAll(file)

	s.mu.Lock()
	defer s.mu.Unlock()
	event := s.find("timeline", r.PathValue("id"))
	if event == nil {
		notFound(w)
		return
	}
	event["image"] = "has image"
	s.uploads = append(s.uploads, Upload{
		Slug:      r.PathValue("id"),
		FileField: "image",
		Filename:  header.Filename,
		Extension: r.FormValue("extension"),
		Size:      len(data),
	})
	writeJSON(w, http.StatusOK, map[string]any{"image": "has image"})
}
