package mealie

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// maxImageBytes caps downloaded images.
const maxImageBytes = 20 << 20

// ImageUploadResult reports a completed image upload.
type ImageUploadResult struct {
	Slug      string `json:"slug"`
	SourceURL string `json:"source_url"`
	Extension string `json:"extension"`
	Bytes     int    `json:"bytes"`
}

// UploadRecipeImage replaces a recipe's image. The image travels as the
// "image" file part and its extension as the "extension" form field.
func (c *Client) UploadRecipeImage(ctx context.Context, slug string, data []byte, extension string) error {
	if len(data) == 0 {
		return &ValidationError{Field: "image", Message: "empty image"}
	}
	extension = normalizeExtension(extension)

	payload := Multipart{
		Files: map[string]FilePart{
			"image": {
				Filename:    "image." + extension,
				ContentType: imageContentType(extension),
				Data:        data,
			},
		},
		Fields: map[string]string{"extension": extension},
	}
	return c.Upload(ctx, http.MethodPut, recipesPath+"/"+escape(slug)+"/image", payload, nil)
}

// UploadRecipeImageFromURL downloads imageURL and uploads it as the recipe's
// image. When the URL serves an HTML page, the page's og:image is used.
func (c *Client) UploadRecipeImageFromURL(ctx context.Context, slug, imageURL string) (*ImageUploadResult, error) {
	img, err := c.fetchImage(ctx, imageURL)
	if err != nil {
		return nil, err
	}
	if err := c.UploadRecipeImage(ctx, slug, img.data, img.ext); err != nil {
		return nil, err
	}
	return &ImageUploadResult{Slug: slug, SourceURL: img.source, Extension: img.ext, Bytes: len(img.data)}, nil
}

// CreateRecipeFromImage has the upstream read a recipe off a photo and
// returns the new recipe. The upstream needs its OpenAI integration enabled.
func (c *Client) CreateRecipeFromImage(ctx context.Context, data []byte, extension string) (Record, error) {
	if len(data) == 0 {
		return nil, &ValidationError{Field: "image", Message: "empty image"}
	}
	extension = normalizeExtension(extension)
	payload := Multipart{
		Files: map[string]FilePart{
			"images": {
				Filename:    "recipe." + extension,
				ContentType: imageContentType(extension),
				Data:        data,
			},
		},
	}
	var slug string
	if err := c.Upload(ctx, http.MethodPost, recipesPath+"/create/image", payload, &slug); err != nil {
		return nil, err
	}
	return c.GetRecipe(ctx, slug)
}

// CreateRecipeFromImageURL downloads imageURL and creates a recipe from it.
func (c *Client) CreateRecipeFromImageURL(ctx context.Context, imageURL string) (Record, error) {
	img, err := c.fetchImage(ctx, imageURL)
	if err != nil {
		return nil, err
	}
	return c.CreateRecipeFromImage(ctx, img.data, img.ext)
}

type fetchedImage struct {
	data   []byte
	source string
	ext    string
}

// fetchImage downloads an image, following an HTML page to its og:image.
func (c *Client) fetchImage(ctx context.Context, imageURL string) (*fetchedImage, error) {
	if _, err := url.ParseRequestURI(imageURL); err != nil {
		return nil, &ValidationError{Field: "image_url", Message: "must be an absolute URL", Err: err}
	}

	data, contentType, err := c.download(ctx, imageURL)
	if err != nil {
		return nil, err
	}

	source := imageURL
	if isHTML(contentType) {
		found, err := pageImageURL(imageURL, data)
		if err != nil {
			return nil, err
		}
		source = found
		data, contentType, err = c.download(ctx, source)
		if err != nil {
			return nil, err
		}
	}
	return &fetchedImage{data: data, source: source, ext: imageExtension(source, contentType)}, nil
}

// download fetches an external URL with the client's transport. No
// credentials are sent.
func (c *Client) download(ctx context.Context, rawURL string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("mealie: create download request: %w", err)
	}
	req.Header.Set("User-Agent", "mealie-mcp/"+Version)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("mealie: download %s: %w", rawURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("mealie: download %s: status %d", rawURL, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes+1))
	if err != nil {
		return nil, "", fmt.Errorf("mealie: download %s: %w", rawURL, err)
	}
	if len(data) > maxImageBytes {
		return nil, "", fmt.Errorf("mealie: download %s: image larger than %d bytes", rawURL, maxImageBytes)
	}
	return data, resp.Header.Get("Content-Type"), nil
}

// pageImageURL finds the preview image of an HTML page.
func pageImageURL(pageURL string, html []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(html)))
	if err != nil {
		return "", fmt.Errorf("mealie: parse %s: %w", pageURL, err)
	}

	selectors := []string{
		`meta[property="og:image"]`,
		`meta[property="og:image:url"]`,
		`meta[name="twitter:image"]`,
		`link[rel="image_src"]`,
	}
	for _, sel := range selectors {
		node := doc.Find(sel).First()
		ref, ok := node.Attr("content")
		if !ok {
			ref, ok = node.Attr("href")
		}
		if ok && strings.TrimSpace(ref) != "" {
			return resolveURL(pageURL, strings.TrimSpace(ref))
		}
	}
	return "", &ValidationError{Field: "image_url", Message: "page has no og:image; pass a direct image URL"}
}

func resolveURL(base, ref string) (string, error) {
	b, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	r, err := url.Parse(ref)
	if err != nil {
		return "", err
	}
	return b.ResolveReference(r).String(), nil
}

func isHTML(contentType string) bool {
	mt, _, _ := mime.ParseMediaType(contentType)
	return mt == "text/html" || mt == "application/xhtml+xml"
}

// imageExtension prefers the URL's file extension, then the content type,
// then jpg.
func imageExtension(rawURL, contentType string) string {
	if u, err := url.Parse(rawURL); err == nil {
		ext := strings.TrimPrefix(strings.ToLower(path.Ext(u.Path)), ".")
		switch ext {
		case "jpg", "jpeg", "png", "webp", "gif", "avif":
			return ext
		}
	}
	mt, _, _ := mime.ParseMediaType(contentType)
	switch {
	case strings.Contains(mt, "jpeg"), strings.Contains(mt, "jpg"):
		return "jpg"
	case strings.Contains(mt, "png"):
		return "png"
	case strings.Contains(mt, "webp"):
		return "webp"
	case strings.Contains(mt, "gif"):
		return "gif"
	case strings.Contains(mt, "avif"):
		return "avif"
	}
	return "jpg"
}

func normalizeExtension(ext string) string {
	ext = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(ext)), ".")
	if ext == "" {
		return "jpg"
	}
	return ext
}

func imageContentType(ext string) string {
	if ext == "jpg" {
		return "image/jpeg"
	}
	return "image/" + ext
}
