package handler

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"

	"github.com/mirasocial/mira-client/internal/model"
	"github.com/mirasocial/mira-client/internal/post"
)

// PostHandler handles post creation on the control API.
type PostHandler struct {
	posts *post.Manager
}

// NewPostHandler creates a post handler.
func NewPostHandler(posts *post.Manager) *PostHandler {
	return &PostHandler{posts: posts}
}

// Create handles POST /posts: a multipart form with caption, audience,
// disable_comments, disable_likes, an optional location JSON field and any
// number of media files under the "media" field.
func (h *PostHandler) Create(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "multipart form required", "message": err.Error()})
		return
	}

	draft := model.PostDraft{
		Caption:         formValue(form.Value, "caption"),
		Audience:        model.Audience(formValue(form.Value, "audience")),
		DisableComments: formBool(form.Value, "disable_comments"),
		DisableLikes:    formBool(form.Value, "disable_likes"),
	}
	if loc := formValue(form.Value, "location"); loc != "" {
		var fix model.LocationFix
		if err := json.Unmarshal([]byte(loc), &fix); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid location", "message": err.Error()})
			return
		}
		draft.Location = &fix
	}

	for _, fh := range form.File["media"] {
		f, err := fh.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable file", "message": err.Error()})
			return
		}
		data, err := io.ReadAll(f)
		_ = f.Close()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable file", "message": err.Error()})
			return
		}
		draft.Files = append(draft.Files, model.MediaFile{Name: fh.Filename, Data: data})
	}

	rec, err := h.posts.CreatePost(c.Request.Context(), draft)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rec)
}

// Progress handles GET /posts/progress.
func (h *PostHandler) Progress(c *gin.Context) {
	c.JSON(http.StatusOK, h.posts.Progress())
}

func formValue(values map[string][]string, key string) string {
	if v := values[key]; len(v) > 0 {
		return v[0]
	}
	return ""
}

func formBool(values map[string][]string, key string) bool {
	b, _ := strconv.ParseBool(formValue(values, key))
	return b
}
