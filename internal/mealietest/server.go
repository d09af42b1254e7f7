// Package mealietest provides an in-memory fake of the Mealie REST API for
// tests. It implements the subset of endpoints the client uses, records
// every request, and mimics upstream validation where the client relies on
// it (organizers must carry ids, ingredient units and foods may be bare
// names that the server resolves).
package mealietest

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
)

// DefaultToken is the bearer token the fake accepts unless Token is changed.
const DefaultToken = "test-token"

const (
	groupID = "00000000-0000-0000-0000-0000000000aa"
	userID  = "00000000-0000-0000-0000-0000000000bb"
)

// Request is one recorded inbound request.
type Request struct {
	Method      string
	Path        string
	Query       map[string][]string
	ContentType string
	Body        []byte
}

// JSON decodes the request body into a generic value.
func (r Request) JSON() any {
	var v any
	_ = json.Unmarshal(r.Body, &v)
	return v
}

// Object decodes the request body as a JSON object.
func (r Request) Object() map[string]any {
	m, _ := r.JSON().(map[string]any)
	return m
}

// Server is a stateful fake Mealie instance.
type Server struct {
	*httptest.Server

	// Token is the only bearer token accepted.
	Token string

	mu          sync.Mutex
	requests    []Request
	collections map[string][]map[string]any
	recipes     []map[string]any
	mealplans   map[int]map[string]any
	nextPlanID  int
	overrides   map[string]http.HandlerFunc
	uploads     []Upload
	ratings     map[string]map[string]any
}

// Upload is a recorded multipart image upload.
type Upload struct {
	Slug      string
	FileField string
	Filename  string
	Extension string
	Size      int
}

// New starts a fake server that is closed when the test ends.
func New(t testing.TB) *Server {
	t.Helper()
	s := &Server{
		Token:       DefaultToken,
		collections: map[string][]map[string]any{},
		mealplans:   map[int]map[string]any{},
		overrides:   map[string]http.HandlerFunc{},
		ratings:     map[string]map[string]any{},
	}
	s.Server = httptest.NewServer(s.routes())
	t.Cleanup(s.Close)
	return s
}

// Override replaces the handler for one method and exact path.
func (s *Server) Override(method, path string, h http.HandlerFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overrides[method+" "+path] = h
}

// Requests returns every request received so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// RequestsTo returns the recorded requests with the given method and path.
func (s *Server) RequestsTo(method, path string) []Request {
	var out []Request
	for _, r := range s.Requests() {
		if r.Method == method && r.Path == path {
			out = append(out, r)
		}
	}
	return out
}

// Uploads returns the recorded image uploads.
func (s *Server) Uploads() []Upload {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Upload(nil), s.uploads...)
}

// Seed adds a named entity to a collection ("tags", "categories", "tools",
// "foods", "units", "cookbooks", "rules", "lists", "items") and returns it.
func (s *Server) Seed(collection string, fields map[string]any) map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clone(s.insert(collection, fields))
}

// Entities returns a copy of a collection.
func (s *Server) Entities(collection string) []map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]map[string]any, 0, len(s.collections[collection]))
	for _, e := range s.collections[collection] {
		out = append(out, clone(e))
	}
	return out
}

// CountNamed returns how many entities in collection are named name.
func (s *Server) CountNamed(collection, name string) int {
	n := 0
	for _, e := range s.Entities(collection) {
		if e["name"] == name {
			n++
		}
	}
	return n
}

// SeedRecipe stores a recipe and returns it.
func (s *Server) SeedRecipe(name string) map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clone(s.newRecipe(name))
}

// Recipe returns the stored recipe with the given slug or id.
func (s *Server) Recipe(ref string) map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r := s.findRecipe(ref); r != nil {
		return clone(r)
	}
	return nil
}

// SeedMealPlan stores a meal plan entry and returns it.
func (s *Server) SeedMealPlan(fields map[string]any) map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clone(s.insertPlan(fields))
}

// MealPlan returns the stored entry with the given id.
func (s *Server) MealPlan(id int) map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.mealplans[id]; ok {
		return clone(e)
	}
	return nil
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/app/about", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"version": "v2.8.0", "production": true})
	})

	for _, kind := range []string{"tags", "categories", "tools"} {
		s.collectionRoutes(mux, "/api/organizers/"+kind, kind, nil)
	}
	s.collectionRoutes(mux, "/api/foods", "foods", nil)
	s.collectionRoutes(mux, "/api/units", "units", nil)
	s.collectionRoutes(mux, "/api/households/cookbooks", "cookbooks", nil)
	s.collectionRoutes(mux, "/api/households/mealplans/rules", "rules", nil)
	s.collectionRoutes(mux, "/api/households/shopping/items", "items", nil)
	s.collectionRoutes(mux, "/api/households/shopping/lists", "lists", s.attachListItems)

	mux.HandleFunc("POST /api/foods/merge", s.merge("foods", "fromFood", "toFood"))
	mux.HandleFunc("POST /api/units/merge", s.merge("units", "fromUnit", "toUnit"))

	mux.HandleFunc("GET /api/recipes", s.listRecipes)
	mux.HandleFunc("POST /api/recipes", s.createRecipe)
	mux.HandleFunc("GET /api/recipes/{slug}", s.getRecipe)
	mux.HandleFunc("PUT /api/recipes/{slug}", s.writeRecipe(false))
	mux.HandleFunc("PATCH /api/recipes/{slug}", s.writeRecipe(true))
	mux.HandleFunc("DELETE /api/recipes/{slug}", s.deleteRecipe)
	mux.HandleFunc("PUT /api/recipes/{slug}/image", s.uploadImage)
	mux.HandleFunc("POST /api/recipes/{slug}/duplicate", s.duplicateRecipe)
	mux.HandleFunc("PATCH /api/recipes/{slug}/last-made", s.lastMade)
	mux.HandleFunc("POST /api/recipes/create/url", s.createFromURL)
	mux.HandleFunc("POST /api/recipes/create/url/bulk", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusAccepted, map[string]any{"reportId": uuid.NewString()})
	})
	mux.HandleFunc("POST /api/recipes/bulk-actions/tag", s.bulkOrganize("tags"))
	mux.HandleFunc("POST /api/recipes/bulk-actions/categorize", s.bulkOrganize("categories"))
	mux.HandleFunc("POST /api/recipes/bulk-actions/delete", s.bulkDelete)

	mux.HandleFunc("GET /api/households/mealplans", s.listPlans)
	mux.HandleFunc("POST /api/households/mealplans", s.createPlan)
	mux.HandleFunc("GET /api/households/mealplans/today", s.todayPlans)
	mux.HandleFunc("POST /api/households/mealplans/random", s.randomPlan)
	mux.HandleFunc("GET /api/households/mealplans/{id}", s.getPlan)
	mux.HandleFunc("PUT /api/households/mealplans/{id}", s.putPlan)
	mux.HandleFunc("DELETE /api/households/mealplans/{id}", s.deletePlan)

	mux.HandleFunc("POST /api/households/shopping/lists/{id}/recipe/{rid}", s.addRecipeToList)
	mux.HandleFunc("POST /api/households/shopping/lists/{id}/recipe/{rid}/delete", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"id": r.PathValue("id")})
	})

	mux.HandleFunc("POST /api/parser/ingredient", s.parseOne)
	mux.HandleFunc("POST /api/parser/ingredients", s.parseMany)

	s.userRoutes(mux)
	s.householdRoutes(mux)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		_ = r.Body.Close()
		r.Body = io.NopCloser(strings.NewReader(string(body)))

		s.mu.Lock()
		s.requests = append(s.requests, Request{
			Method:      r.Method,
			Path:        r.URL.Path,
			Query:       r.URL.Query(),
			ContentType: r.Header.Get("Content-Type"),
			Body:        body,
		})
		override := s.overrides[r.Method+" "+r.URL.Path]
		s.mu.Unlock()

		if r.Header.Get("Authorization") != "Bearer "+s.Token {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"detail": "Not authenticated"})
			return
		}
		if override != nil {
			override(w, r)
			return
		}
		mux.ServeHTTP(w, r)
	})
}

// --- generic collections -----------------------------------------------------

func (s *Server) collectionRoutes(mux *http.ServeMux, base, name string, decorate func(map[string]any)) {
	mux.HandleFunc("GET "+base, func(w http.ResponseWriter, r *http.Request) {
		recipe := recipeFilter(r)
		s.mu.Lock()
		items := make([]map[string]any, 0, len(s.collections[name]))
		for _, e := range s.collections[name] {
			if recipe != "" && e["recipeId"] != recipe {
				continue
			}
			items = append(items, clone(e))
		}
		s.mu.Unlock()
		writeJSON(w, http.StatusOK, paginate(items, r))
	})

	mux.HandleFunc("POST "+base, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		if !decode(w, r, &body) {
			return
		}
		if n, ok := body["name"]; ok && (n == nil || n == "") {
			writeValidation(w, "body.name", "Field required")
			return
		}
		s.mu.Lock()
		created := clone(s.insert(name, body))
		s.mu.Unlock()
		writeJSON(w, http.StatusCreated, created)
	})

	mux.HandleFunc("GET "+base+"/{id}", func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		e := s.find(name, r.PathValue("id"))
		var out map[string]any
		if e != nil {
			out = clone(e)
			if decorate != nil {
				decorate(out)
			}
		}
		s.mu.Unlock()
		if out == nil {
			notFound(w)
			return
		}
		writeJSON(w, http.StatusOK, out)
	})

	write := func(partial bool) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			var body map[string]any
			if !decode(w, r, &body) {
				return
			}
			s.mu.Lock()
			defer s.mu.Unlock()
			e := s.find(name, r.PathValue("id"))
			if e == nil {
				notFound(w)
				return
			}
			id := e["id"]
			if !partial {
				for k := range e {
					delete(e, k)
				}
			}
			for k, v := range body {
				e[k] = v
			}
			e["id"] = id
			writeJSON(w, http.StatusOK, clone(e))
		}
	}
	mux.HandleFunc("PUT "+base+"/{id}", write(false))
	mux.HandleFunc("PATCH "+base+"/{id}", write(true))

	mux.HandleFunc("DELETE "+base+"/{id}", func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		id := r.PathValue("id")
		items := s.collections[name]
		for i, e := range items {
			if e["id"] == id || e["slug"] == id {
				s.collections[name] = append(items[:i], items[i+1:]...)
				writeJSON(w, http.StatusOK, clone(e))
				return
			}
		}
		notFound(w)
	})
}

var recipeIDFilter = regexp.MustCompile(`recipe_id\s*=\s*"([^"]+)"`)

// recipeFilter reads a recipe id restriction from either the recipe_id
// parameter or a queryFilter clause.
func recipeFilter(r *http.Request) string {
	if id := r.URL.Query().Get("recipe_id"); id != "" {
		return id
	}
	if m := recipeIDFilter.FindStringSubmatch(r.URL.Query().Get("queryFilter")); m != nil {
		return m[1]
	}
	return ""
}

func (s *Server) insert(collection string, fields map[string]any) map[string]any {
	e := clone(fields)
	if e == nil {
		e = map[string]any{}
	}
	if _, ok := e["id"]; !ok {
		e["id"] = uuid.NewString()
	}
	if name, ok := e["name"].(string); ok {
		if _, ok := e["slug"]; !ok {
			e["slug"] = slugify(name)
		}
	}
	e["groupId"] = groupID
	s.collections[collection] = append(s.collections[collection], e)
	return e
}

func (s *Server) find(collection, id string) map[string]any {
	for _, e := range s.collections[collection] {
		if e["id"] == id || e["slug"] == id {
			return e
		}
	}
	return nil
}

func (s *Server) findByName(collection, name string) map[string]any {
	for _, e := range s.collections[collection] {
		if e["name"] == name {
			return e
		}
	}
	return nil
}

func (s *Server) attachListItems(list map[string]any) {
	items := []any{}
	for _, it := range s.collections["items"] {
		if it["shoppingListId"] == list["id"] {
			items = append(items, clone(it))
		}
	}
	list["listItems"] = items
}

func (s *Server) merge(collection, fromKey, toKey string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		if !decode(w, r, &body) {
			return
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		from, _ := body[fromKey].(string)
		to, _ := body[toKey].(string)
		if s.find(collection, from) == nil || s.find(collection, to) == nil {
			notFound(w)
			return
		}
		items := s.collections[collection]
		for i, e := range items {
			if e["id"] == from {
				s.collections[collection] = append(items[:i], items[i+1:]...)
				break
			}
		}
		writeJSON(w, http.StatusOK, map[string]any{"message": "merged"})
	}
}

// --- recipes ------------------------------------------------------------------

func (s *Server) newRecipe(name string) map[string]any {
	slug := slugify(name)
	for i := 1; s.findRecipe(slug) != nil; i++ {
		slug = fmt.Sprintf("%s-%d", slugify(name), i)
	}
	rec := map[string]any{
		"id":                 uuid.NewString(),
		"userId":             userID,
		"groupId":            groupID,
		"name":               name,
		"slug":               slug,
		"description":        "",
		"recipeYield":        nil,
		"totalTime":          nil,
		"prepTime":           nil,
		"cookTime":           nil,
		"orgURL":             nil,
		"image":              nil,
		"tags":               []any{},
		"recipeCategory":     []any{},
		"tools":              []any{},
		"recipeIngredient":   []any{},
		"recipeInstructions": []any{},
		"settings":           map[string]any{"public": true},
		"dateAdded":          time.Now().Format("2006-01-02"),
	}
	s.recipes = append(s.recipes, rec)
	return rec
}

func (s *Server) findRecipe(ref string) map[string]any {
	for _, r := range s.recipes {
		if r["slug"] == ref || r["id"] == ref {
			return r
		}
	}
	return nil
}

func (s *Server) listRecipes(w http.ResponseWriter, r *http.Request) {
	search := strings.ToLower(r.URL.Query().Get("search"))
	s.mu.Lock()
	items := []map[string]any{}
	for _, rec := range s.recipes {
		name, _ := rec["name"].(string)
		if search != "" && !strings.Contains(strings.ToLower(name), search) {
			continue
		}
		items = append(items, clone(rec))
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, paginate(items, r))
}

func (s *Server) createRecipe(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	if !decode(w, r, &body) {
		return
	}
	name, _ := body["name"].(string)
	if name == "" {
		writeValidation(w, "body.name", "Field required")
		return
	}
	s.mu.Lock()
	rec := s.newRecipe(name)
	s.mu.Unlock()
	writeJSON(w, http.StatusCreated, rec["slug"])
}

func (s *Server) getRecipe(w http.ResponseWriter, r *http.Request) {
	rec := s.Recipe(r.PathValue("slug"))
	if rec == nil {
		notFound(w)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// writeRecipe stores a PUT or PATCH. Organizers without ids are rejected and
// bare-string ingredient units and foods are resolved, as upstream does.
func (s *Server) writeRecipe(partial bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
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

		for _, key := range []string{"tags", "recipeCategory", "tools"} {
			list, _ := body[key].([]any)
			for i, item := range list {
				obj, ok := item.(map[string]any)
				if !ok || obj["id"] == nil || obj["id"] == "" {
					writeValidation(w, fmt.Sprintf("body.%s.%d.id", key, i), "Field required")
					return
				}
			}
		}
		if ings, ok := body["recipeIngredient"].([]any); ok {
			for i, raw := range ings {
				ing, ok := raw.(map[string]any)
				if !ok {
					writeValidation(w, fmt.Sprintf("body.recipeIngredient.%d", i), "Input should be a valid dictionary")
					return
				}
				for field, collection := range map[string]string{"unit": "units", "food": "foods"} {
					switch v := ing[field].(type) {
					case string:
						e := s.findByName(collection, v)
						if e == nil {
							e = s.insert(collection, map[string]any{"name": v})
						}
						ing[field] = map[string]any{"id": e["id"], "name": e["name"]}
					case map[string]any:
						if v["id"] == nil {
							writeValidation(w, fmt.Sprintf("body.recipeIngredient.%d.%s.id", i, field), "Field required")
							return
						}
					}
				}
			}
		}

		id := rec["id"]
		if !partial {
			for k := range rec {
				delete(rec, k)
			}
		}
		for k, v := range body {
			rec[k] = v
		}
		rec["id"] = id
		if name, ok := rec["name"].(string); ok && !partial {
			if want := slugify(name); want != rec["slug"] && s.findRecipe(want) == nil {
				rec["slug"] = want
			}
		}
		writeJSON(w, http.StatusOK, clone(rec))
	}
}

func (s *Server) deleteRecipe(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ref := r.PathValue("slug")
	for i, rec := range s.recipes {
		if rec["slug"] == ref || rec["id"] == ref {
			s.recipes = append(s.recipes[:i], s.recipes[i+1:]...)
			writeJSON(w, http.StatusOK, clone(rec))
			return
		}
	}
	notFound(w)
}

func (s *Server) uploadImage(w http.ResponseWriter, r *http.Request) {
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
	ext := r.FormValue("extension")
	if ext == "" {
		writeValidation(w, "body.extension", "Field required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	rec := s.findRecipe(r.PathValue("slug"))
	if rec == nil {
		notFound(w)
		return
	}
	rec["image"] = "image." + ext
	s.uploads = append(s.uploads, Upload{
		Slug:      r.PathValue("slug"),
		FileField: "image",
		Filename:  header.Filename,
		Extension: ext,
		Size:      len(data),
	})
	writeJSON(w, http.StatusOK, map[string]any{"image": rec["image"]})
}

func (s *Server) duplicateRecipe(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	if !decode(w, r, &body) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	src := s.findRecipe(r.PathValue("slug"))
	if src == nil {
		notFound(w)
		return
	}
	name, _ := body["name"].(string)
	if name == "" {
		name = fmt.Sprintf("%s (1)", src["name"])
	}
	dup := s.newRecipe(name)
	for k, v := range clone(src) {
		if k != "id" && k != "slug" && k != "name" {
			dup[k] = v
		}
	}
	writeJSON(w, http.StatusCreated, clone(dup))
}

func (s *Server) lastMade(w http.ResponseWriter, r *http.Request) {
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
	rec["lastMade"] = body["timestamp"]
	writeJSON(w, http.StatusOK, clone(rec))
}

func (s *Server) createFromURL(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	if !decode(w, r, &body) {
		return
	}
	u, _ := body["url"].(string)
	s.mu.Lock()
	rec := s.newRecipe("Scraped " + strings.TrimPrefix(strings.TrimPrefix(u, "https://"), "http://"))
	rec["orgURL"] = u
	s.mu.Unlock()
	writeJSON(w, http.StatusCreated, rec["slug"])
}

func (s *Server) bulkOrganize(key string) http.HandlerFunc {
	field := map[string]string{"tags": "tags", "categories": "recipeCategory"}[key]
	return func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		if !decode(w, r, &body) {
			return
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		slugs, _ := body["recipes"].([]any)
		orgs, _ := body[key].([]any)
		for _, slug := range slugs {
			rec := s.findRecipe(fmt.Sprint(slug))
			if rec == nil {
				notFound(w)
				return
			}
			existing, _ := rec[field].([]any)
			rec[field] = append(existing, orgs...)
		}
		writeJSON(w, http.StatusOK, map[string]any{})
	}
}

func (s *Server) bulkDelete(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	if !decode(w, r, &body) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	slugs, _ := body["recipes"].([]any)
	for _, slug := range slugs {
		for i, rec := range s.recipes {
			if rec["slug"] == slug {
				s.recipes = append(s.recipes[:i], s.recipes[i+1:]...)
				break
			}
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{})
}

// --- meal plans ---------------------------------------------------------------

func (s *Server) insertPlan(fields map[string]any) map[string]any {
	s.nextPlanID++
	e := map[string]any{
		"id":        s.nextPlanID,
		"groupId":   groupID,
		"userId":    userID,
		"date":      time.Now().Format("2006-01-02"),
		"entryType": "dinner",
		"title":     "",
		"text":      "",
		"recipeId":  nil,
		"recipe":    nil,
	}
	for k, v := range fields {
		e[k] = v
	}
	e["id"] = s.nextPlanID
	s.linkRecipe(e)
	s.mealplans[s.nextPlanID] = e
	return e
}

func (s *Server) linkRecipe(e map[string]any) {
	id, _ := e["recipeId"].(string)
	if id == "" {
		e["recipe"] = nil
		return
	}
	if rec := s.findRecipe(id); rec != nil {
		e["recipe"] = map[string]any{"id": rec["id"], "name": rec["name"], "slug": rec["slug"]}
	}
}

func (s *Server) planList(filter func(map[string]any) bool) []map[string]any {
	ids := make([]int, 0, len(s.mealplans))
	for id := range s.mealplans {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	out := []map[string]any{}
	for _, id := range ids {
		if e := s.mealplans[id]; filter(e) {
			out = append(out, clone(e))
		}
	}
	return out
}

func (s *Server) listPlans(w http.ResponseWriter, r *http.Request) {
	start := r.URL.Query().Get("start_date")
	end := r.URL.Query().Get("end_date")
	s.mu.Lock()
	items := s.planList(func(e map[string]any) bool {
		d, _ := e["date"].(string)
		return (start == "" || d >= start) && (end == "" || d <= end)
	})
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, paginate(items, r))
}

func (s *Server) todayPlans(w http.ResponseWriter, r *http.Request) {
	today := time.Now().Format("2006-01-02")
	s.mu.Lock()
	items := s.planList(func(e map[string]any) bool { return e["date"] == today })
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) createPlan(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	if !decode(w, r, &body) {
		return
	}
	if body["date"] == nil {
		writeValidation(w, "body.date", "Field required")
		return
	}
	s.mu.Lock()
	e := clone(s.insertPlan(body))
	s.mu.Unlock()
	writeJSON(w, http.StatusCreated, e)
}

func (s *Server) randomPlan(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	if !decode(w, r, &body) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.recipes) == 0 {
		writeJSON(w, http.StatusNotFound, map[string]any{"detail": "No recipes match your rules"})
		return
	}
	body["recipeId"] = s.recipes[0]["id"]
	writeJSON(w, http.StatusOK, clone(s.insertPlan(body)))
}

func (s *Server) planID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeValidation(w, "path.item_id", "Input should be a valid integer")
		return 0, false
	}
	return id, true
}

func (s *Server) getPlan(w http.ResponseWriter, r *http.Request) {
	id, ok := s.planID(w, r)
	if !ok {
		return
	}
	e := s.MealPlan(id)
	if e == nil {
		notFound(w)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (s *Server) putPlan(w http.ResponseWriter, r *http.Request) {
	id, ok := s.planID(w, r)
	if !ok {
		return
	}
	var body map[string]any
	if !decode(w, r, &body) {
		return
	}
	for _, required := range []string{"date", "entryType", "groupId", "userId"} {
		if body[required] == nil {
			writeValidation(w, "body."+required, "Field required")
			return
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.mealplans[id]; !exists {
		notFound(w)
		return
	}
	body["id"] = id
	s.linkRecipe(body)
	s.mealplans[id] = body
	writeJSON(w, http.StatusOK, clone(body))
}

func (s *Server) deletePlan(w http.ResponseWriter, r *http.Request) {
	id, ok := s.planID(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	e, exists := s.mealplans[id]
	if !exists {
		notFound(w)
		return
	}
	delete(s.mealplans, id)
	writeJSON(w, http.StatusOK, clone(e))
}

// --- shopping -----------------------------------------------------------------

func (s *Server) addRecipeToList(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	if !decode(w, r, &body) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.find("lists", r.PathValue("id"))
	rec := s.findRecipe(r.PathValue("rid"))
	if list == nil || rec == nil {
		notFound(w)
		return
	}
	ings, _ := rec["recipeIngredient"].([]any)
	if len(ings) == 0 {
		ings = []any{map[string]any{"display": rec["name"]}}
	}
	for _, raw := range ings {
		ing, _ := raw.(map[string]any)
		s.insert("items", map[string]any{
			"shoppingListId": list["id"],
			"note":           ing["display"],
			"quantity":       1,
			"checked":        false,
			"recipeId":       rec["id"],
		})
	}
	out := clone(list)
	s.attachListItems(out)
	writeJSON(w, http.StatusOK, out)
}

// --- parser -------------------------------------------------------------------

var quantityPattern = regexp.MustCompile(`^\s*(\d+(?:\.\d+)?)\s+(\S+)\s+(.+)$`)

func parsed(text string) map[string]any {
	ing := map[string]any{"note": "", "display": text, "originalText": text}
	if m := quantityPattern.FindStringSubmatch(text); m != nil {
		q, _ := strconv.ParseFloat(m[1], 64)
		ing["quantity"] = q
		ing["unit"] = map[string]any{"name": m[2]}
		ing["food"] = map[string]any{"name": m[3]}
	} else {
		ing["note"] = text
	}
	return map[string]any{"input": text, "ingredient": ing, "confidence": map[string]any{"average": 0.9}}
}

func (s *Server) parseOne(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Ingredient string `json:"ingredient"`
	}
	if !decode(w, r, &body) {
		return
	}
	writeJSON(w, http.StatusOK, parsed(body.Ingredient))
}

func (s *Server) parseMany(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Ingredients []string `json:"ingredients"`
	}
	if !decode(w, r, &body) {
		return
	}
	out := make([]any, 0, len(body.Ingredients))
	for _, text := range body.Ingredients {
		out = append(out, parsed(text))
	}
	writeJSON(w, http.StatusOK, out)
}

// --- helpers ------------------------------------------------------------------

func paginate(items []map[string]any, r *http.Request) map[string]any {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("perPage"))
	if page < 1 {
		page = 1
	}
	if perPage == 0 {
		perPage = 50
	}
	total := len(items)
	if perPage < 0 {
		return map[string]any{"items": items, "page": 1, "perPage": -1, "total": total, "totalPages": 1}
	}
	startIdx := (page - 1) * perPage
	if startIdx > total {
		startIdx = total
	}
	endIdx := startIdx + perPage
	if endIdx > total {
		endIdx = total
	}
	return map[string]any{
		"items":      items[startIdx:endIdx],
		"page":       page,
		"perPage":    perPage,
		"total":      total,
		"totalPages": (total + perPage - 1) / perPage,
	}
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	body, _ := io.ReadAll(r.Body)
	if len(strings.TrimSpace(string(body))) == 0 {
		body = []byte("{}")
	}
	if err := json.Unmarshal(body, v); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"detail": "JSON decode error"})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeValidation(w http.ResponseWriter, loc, msg string) {
	parts := []any{}
	for _, p := range strings.Split(loc, ".") {
		if n, err := strconv.Atoi(p); err == nil {
			parts = append(parts, n)
		} else {
			parts = append(parts, p)
		}
	}
	writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
		"detail": []any{map[string]any{"loc": parts, "msg": msg, "type": "missing"}},
	})
}

func notFound(w http.ResponseWriter) {
	writeJSON(w, http.StatusNotFound, map[string]any{"detail": "Not found"})
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

func slugify(name string) string {
	return strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(name), "-"), "-")
}

func clone(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	data, _ := json.Marshal(m)
	var out map[string]any
	_ = json.Unmarshal(data, &out)
	return out
}
