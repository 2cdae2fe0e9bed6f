package api

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strconv"

	"github.com/goccy/go-json"

	"github.com/mirasocial/mira-client/internal/model"
)

// SubmitPost sends one multipart request carrying the post metadata and every
// processed media file. Field layout: caption, audience, disableComments,
// disableLikes, location as JSON, and one file field per media item named by
// its index.
func (c *Client) SubmitPost(ctx context.Context, draft model.PostDraft, files []model.ProcessedFile) (*model.PostRecord, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	_ = w.WriteField("caption", draft.Caption)
	_ = w.WriteField("audience", string(draft.Audience))
	_ = w.WriteField("disableComments", strconv.FormatBool(draft.DisableComments))
	_ = w.WriteField("disableLikes", strconv.FormatBool(draft.DisableLikes))
	if draft.Location != nil {
		loc, err := json.Marshal(draft.Location)
		if err != nil {
			return nil, err
		}
		_ = w.WriteField("location", string(loc))
	}

	for i, f := range files {
		part, err := w.CreatePart(fileHeader(strconv.Itoa(i), f.Name, f.ContentType))
		if err != nil {
			return nil, err
		}
		if _, err := part.Write(f.Data); err != nil {
			return nil, err
		}
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	var rec model.PostRecord
	if err := c.doAuth(ctx, http.MethodPost, "/posts", buf.Bytes(), w.FormDataContentType(), &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// fileHeader builds a form-data part header with an explicit content type,
// which CreateFormFile does not allow.
func fileHeader(field, filename, contentType string) textproto.MIMEHeader {
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+filename+`"`)
	h.Set("Content-Type", contentType)
	return h
}
