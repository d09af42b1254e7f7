package mealie_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hyperengineering/mealie-mcp"
	"github.com/hyperengineering/mealie-mcp/internal/mealietest"
)

// newTestClient returns a client wired to a fresh fake upstream.
func newTestClient(t *testing.T) (*mealie.Client, *mealietest.Server) {
	t.Helper()
	srv := mealietest.New(t)
	c, err := mealie.New(mealie.Config{BaseURL: srv.URL, APIToken: mealietest.DefaultToken})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c, srv
}

// ============================================================================
// Transport
// ============================================================================

func TestClient_SendsAuthAndJSONHeaders(t *testing.T) {
	var gotAuth, gotAccept, gotUA, gotCT string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotAccept = r.Header.Get("Accept")
		gotUA = r.Header.Get("User-Agent")
		gotCT = r.Header.Get("Content-Type")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"1","name":"x"}`))
	}))
	defer srv.Close()

	c, err := mealie.New(mealie.Config{BaseURL: srv.URL + "/", APIToken: "secret"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := c.CreateFood(context.Background(), "x", ""); err != nil {
		t.Fatalf("CreateFood: %v", err)
	}

	if gotAuth != "Bearer secret" {
		t.Errorf("Authorization = %q, want %q", gotAuth, "Bearer secret")
	}
	if gotAccept != "application/json" {
		t.Errorf("Accept = %q, want %q", gotAccept, "application/json")
	}
	if gotCT != "application/json" {
		t.Errorf("Content-Type = %q, want %q", gotCT, "application/json")
	}
	if !strings.HasPrefix(gotUA, "mealie-mcp/") {
		t.Errorf("User-Agent = %q, want mealie-mcp/ prefix", gotUA)
	}
}

func TestClient_Ping(t *testing.T) {
	c, _ := newTestClient(t)

	info, err := c.Ping(context.Background())
	if err != nil {
		t.Fatalf("Ping: %v", err)
	}
	if info.Version != "v2.8.0" {
		t.Errorf("Version = %q, want %q", info.Version, "v2.8.0")
	}
}

func TestClient_Unauthorized(t *testing.T) {
	c, srv := newTestClient(t)
	srv.Token = "rotated"

	_, err := c.Ping(context.Background())
	var apiErr *mealie.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("StatusCode = %d, want 401", apiErr.StatusCode)
	}
	if mealie.Message(err) != "Not authenticated" {
		t.Errorf("Message = %q, want %q", mealie.Message(err), "Not authenticated")
	}
}

func TestClient_NotFound(t *testing.T) {
	c, _ := newTestClient(t)

	_, err := c.GetRecipe(context.Background(), "does-not-exist")
	if !errors.Is(err, mealie.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
	if mealie.Message(err) != "Not found" {
		t.Errorf("Message = %q, want %q", mealie.Message(err), "Not found")
	}
}

func TestClient_MalformedJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"version": `))
	}))
	defer srv.Close()

	c, _ := mealie.New(mealie.Config{BaseURL: srv.URL, APIToken: "t"})
	_, err := c.Ping(context.Background())

	var fe *mealie.FormatError
	if !errors.As(err, &fe) {
		t.Fatalf("err = %v, want *FormatError", err)
	}
	if fe.Path != "/api/app/about" {
		t.Errorf("Path = %q, want %q", fe.Path, "/api/app/about")
	}
}

func TestClient_EmptySuccessBodyIsFormatError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c, _ := mealie.New(mealie.Config{BaseURL: srv.URL, APIToken: "t"})
	ctx := context.Background()

	calls := map[string]func() error{
		"GetRecipe": func() error {
			_, err := c.GetRecipe(ctx, "chili")
			return err
		},
		"UpdateRecipeIngredients": func() error {
			_, err := c.UpdateRecipeIngredients(ctx, "chili", []mealie.IngredientInput{{Note: "salt"}}, false)
			return err
		},
		"UpdateMealPlan": func() error {
			_, err := c.UpdateMealPlan(ctx, "1", mealie.MealPlanUpdate{RecipeID: mealie.Clear[string]()})
			return err
		},
		"CheckShoppingItem": func() error {
			_, err := c.CheckShoppingItem(ctx, "item-1", true)
			return err
		},
		"ListOrganizers": func() error {
			_, err := c.ListOrganizers(ctx, mealie.KindTag)
			return err
		},
	}
	for name, call := range calls {
		t.Run(name, func(t *testing.T) {
			var fe *mealie.FormatError
			if err := call(); !errors.As(err, &fe) {
				t.Errorf("err = %v, want *FormatError", err)
			}
		})
	}
}

func TestClient_NullSuccessBodyIsFormatError(t *testing.T) {
	c, srv := newTestClient(t)
	srv.Override(http.MethodGet, "/api/households/mealplans/1", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("null"))
	})

	_, err := c.GetMealPlan(context.Background(), "1")
	var fe *mealie.FormatError
	if !errors.As(err, &fe) {
		t.Errorf("err = %v, want *FormatError", err)
	}
}

func TestClient_EnvelopeWithoutItemsIsRejected(t *testing.T) {
	c, srv := newTestClient(t)
	srv.SeedRecipe("Chili")
	srv.Override(http.MethodGet, "/api/organizers/tags", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"detail":"something odd","results":[{"id":"1","name":"Vegan"}]}`))
	})

	_, err := c.UpdateRecipe(context.Background(), "chili", mealie.RecipeUpdate{Tags: []string{"Vegan"}})
	var fe *mealie.FormatError
	if !errors.As(err, &fe) {
		t.Fatalf("err = %v, want *FormatError", err)
	}
	if n := len(srv.RequestsTo(http.MethodPost, "/api/organizers/tags")); n != 0 {
		t.Errorf("tag created %d times after an unreadable listing, want 0", n)
	}
}

func TestClient_ValidationErrorListFromUpstream(t *testing.T) {
	c, srv := newTestClient(t)
	srv.Override(http.MethodPost, "/api/organizers/tags", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"detail":[{"loc":["body","name"],"msg":"String should have at least 1 character","type":"string_too_short"}]}`))
	})

	_, err := c.CreateOrganizer(context.Background(), mealie.KindTag, "x", false)
	if got := mealie.Message(err); got != "body.name: String should have at least 1 character" {
		t.Errorf("Message = %q", got)
	}
}

// ============================================================================
// Pagination
// ============================================================================

func TestListAll_RequestsEveryRecord(t *testing.T) {
	c, srv := newTestClient(t)
	for _, name := range []string{"a", "b", "c"} {
		srv.Seed("tags", map[string]any{"name": name})
	}

	tags, err := c.ListOrganizers(context.Background(), mealie.KindTag)
	if err != nil {
		t.Fatalf("ListOrganizers: %v", err)
	}
	if len(tags) != 3 {
		t.Errorf("len = %d, want 3", len(tags))
	}

	reqs := srv.RequestsTo(http.MethodGet, "/api/organizers/tags")
	if len(reqs) != 1 {
		t.Fatalf("requests = %d, want 1", len(reqs))
	}
	if got := reqs[0].Query["perPage"]; len(got) != 1 || got[0] != "-1" {
		t.Errorf("perPage = %v, want [-1]", got)
	}
}

func TestListAll_AcceptsBareArray(t *testing.T) {
	c, srv := newTestClient(t)
	srv.Override(http.MethodGet, "/api/households/cookbooks", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id":"1","name":"Weeknights"}]`))
	})

	books, err := c.ListCookbooks(context.Background())
	if err != nil {
		t.Fatalf("ListCookbooks: %v", err)
	}
	if len(books) != 1 || books[0].String("name") != "Weeknights" {
		t.Errorf("books = %v", books)
	}
}

func TestListFoods_PageDefaults(t *testing.T) {
	c, srv := newTestClient(t)
	for i := 0; i < 3; i++ {
		srv.Seed("foods", map[string]any{"name": string(rune('a' + i))})
	}

	page, err := c.ListFoods(context.Background(), mealie.PageQuery{PerPage: 2})
	if err != nil {
		t.Fatalf("ListFoods: %v", err)
	}
	if page.Total != 3 || page.TotalPages != 2 || len(page.Items) != 2 {
		t.Errorf("page = total %d pages %d items %d, want 3/2/2", page.Total, page.TotalPages, len(page.Items))
	}
	req := srv.RequestsTo(http.MethodGet, "/api/foods")[0]
	if req.Query["page"][0] != "1" {
		t.Errorf("page = %v, want 1", req.Query["page"])
	}
}

func TestSearchRecipes_EncodesFilters(t *testing.T) {
	c, srv := newTestClient(t)
	srv.SeedRecipe("Beef Chili")
	srv.SeedRecipe("Pancakes")

	page, err := c.SearchRecipes(context.Background(), mealie.RecipeQuery{
		Search: "chili",
		Tags:   []string{"quick", "spicy"},
	})
	if err != nil {
		t.Fatalf("SearchRecipes: %v", err)
	}
	if len(page.Items) != 1 || page.Items[0].Name != "Beef Chili" {
		t.Errorf("items = %+v", page.Items)
	}

	q := srv.RequestsTo(http.MethodGet, "/api/recipes")[0].Query
	if q["search"][0] != "chili" {
		t.Errorf("search = %v", q["search"])
	}
	if len(q["tags"]) != 2 {
		t.Errorf("tags = %v, want two values", q["tags"])
	}
	if q["perPage"][0] != "20" {
		t.Errorf("perPage = %v, want 20", q["perPage"])
	}
}

// ============================================================================
// Multipart
// ============================================================================

func TestUploadRecipeImage_Multipart(t *testing.T) {
	c, srv := newTestClient(t)
	rec := srv.SeedRecipe("Chili")
	slug := rec["slug"].(string)

	err := c.UploadRecipeImage(context.Background(), slug, []byte("\x89PNG fake"), ".PNG")
	if err != nil {
		t.Fatalf("UploadRecipeImage: %v", err)
	}

	uploads := srv.Uploads()
	if len(uploads) != 1 {
		t.Fatalf("uploads = %d, want 1", len(uploads))
	}
	up := uploads[0]
	if up.FileField != "image" || up.Extension != "png" || up.Filename != "image.png" {
		t.Errorf("upload = %+v", up)
	}
	reqs := srv.RequestsTo(http.MethodPut, "/api/recipes/"+slug+"/image")
	if !strings.HasPrefix(reqs[0].ContentType, "multipart/form-data") {
		t.Errorf("Content-Type = %q, want multipart/form-data", reqs[0].ContentType)
	}
}

func TestUploadRecipeImageFromURL_FollowsOgImage(t *testing.T) {
	c, srv := newTestClient(t)
	rec := srv.SeedRecipe("Chili")

	site := http.NewServeMux()
	site.HandleFunc("/recipe", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(`<html><head><meta property="og:image" content="/img/chili.webp"></head></html>`))
	})
	site.HandleFunc("/img/chili.webp", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "" {
			t.Error("credentials must not be sent to third-party hosts")
		}
		w.Header().Set("Content-Type", "image/webp")
		_, _ = w.Write([]byte("RIFFwebp"))
	})
	external := httptest.NewServer(site)
	defer external.Close()

	result, err := c.UploadRecipeImageFromURL(context.Background(), rec["slug"].(string), external.URL+"/recipe")
	if err != nil {
		t.Fatalf("UploadRecipeImageFromURL: %v", err)
	}
	if result.SourceURL != external.URL+"/img/chili.webp" {
		t.Errorf("SourceURL = %q", result.SourceURL)
	}
	if result.Extension != "webp" || result.Bytes != 8 {
		t.Errorf("result = %+v", result)
	}
	if got := srv.Uploads(); len(got) != 1 || got[0].Size != 8 {
		t.Errorf("uploads = %+v", got)
	}
}

func TestUploadRecipeImageFromURL_RejectsRelativeURL(t *testing.T) {
	c, srv := newTestClient(t)

	_, err := c.UploadRecipeImageFromURL(context.Background(), "chili", "not a url")
	var ve *mealie.ValidationError
	if !errors.As(err, &ve) || ve.Field != "image_url" {
		t.Errorf("err = %v, want image_url validation error", err)
	}
	if len(srv.Requests()) != 0 {
		t.Error("no upstream request should be made")
	}
}

func TestCreateRecipeFromImage_UploadsImagesField(t *testing.T) {
	c, srv := newTestClient(t)

	rec, err := c.CreateRecipeFromImage(context.Background(), []byte("\xff\xd8jpeg"), ".JPG")
	if err != nil {
		t.Fatalf("CreateRecipeFromImage: %v", err)
	}
	if rec.String("slug") != "recipe-from-image" {
		t.Errorf("slug = %q, want recipe-from-image", rec.String("slug"))
	}
	ups := srv.Uploads()
	if len(ups) != 1 {
		t.Fatalf("uploads = %d, want 1", len(ups))
	}
	if ups[0].FileField != "images" || ups[0].Filename != "recipe.jpg" || ups[0].Size != 6 {
		t.Errorf("upload = %+v", ups[0])
	}
}

func TestCreateRecipeFromImage_EmptyData(t *testing.T) {
	c, srv := newTestClient(t)

	_, err := c.CreateRecipeFromImage(context.Background(), nil, "png")
	var ve *mealie.ValidationError
	if !errors.As(err, &ve) || ve.Field != "image" {
		t.Errorf("err = %v, want image validation error", err)
	}
	if len(srv.Requests()) != 0 {
		t.Error("no upstream request should be made")
	}
}

func TestCreateRecipeFromImageURL_DownloadsThenCreates(t *testing.T) {
	c, srv := newTestClient(t)

	external := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write([]byte("\x89PNGdata"))
	}))
	defer external.Close()

	rec, err := c.CreateRecipeFromImageURL(context.Background(), external.URL+"/card.png")
	if err != nil {
		t.Fatalf("CreateRecipeFromImageURL: %v", err)
	}
	if rec.String("name") != "Recipe From Image" {
		t.Errorf("name = %q", rec.String("name"))
	}
	ups := srv.Uploads()
	if len(ups) != 1 || ups[0].Filename != "recipe.png" || ups[0].Size != 8 {
		t.Errorf("uploads = %+v", ups)
	}
}
