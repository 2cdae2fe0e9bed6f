package model

import "time"

// Audience is the post visibility setting.
type Audience string

const (
	AudiencePublic    Audience = "public"
	AudienceFollowers Audience = "followers"
	AudiencePrivate   Audience = "private"
)

// Valid reports whether a is one of the known audience values.
func (a Audience) Valid() bool {
	switch a {
	case AudiencePublic, AudienceFollowers, AudiencePrivate:
		return true
	}
	return false
}

// MediaFile is a raw attachment handed to the media processor.
type MediaFile struct {
	Name string
	Data []byte
}

// MediaKind is the broad media category derived from the file extension.
type MediaKind string

const (
	MediaKindImage MediaKind = "image"
	MediaKindVideo MediaKind = "video"
	MediaKindAudio MediaKind = "audio"
)

// ProcessedFile is a validated (and for images, resized) attachment ready for
// submission.
type ProcessedFile struct {
	Name        string
	Data        []byte
	ContentType string
	Kind        MediaKind
}

// UploadStatus is the lifecycle of a single file within one post submission.
type UploadStatus string

const (
	UploadStatusProcessed UploadStatus = "processed"
	UploadStatusUploading UploadStatus = "uploading"
	UploadStatusFailed    UploadStatus = "failed"
)

// UploadTask tracks one file in a post submission. Tasks exist only for the
// duration of a single CreatePost call.
type UploadTask struct {
	FileID   string       `json:"file_id"`
	Progress int          `json:"progress"` // 0-100
	Status   UploadStatus `json:"status"`
}

// PostDraft is the caller-supplied input for creating a post.
type PostDraft struct {
	Caption         string       `json:"caption"`
	Audience        Audience     `json:"audience"`
	DisableComments bool         `json:"disable_comments"`
	DisableLikes    bool         `json:"disable_likes"`
	Location        *LocationFix `json:"location,omitempty"`
	Files           []MediaFile  `json:"-"`
}

// PostRecord is the created post as returned by the backend.
type PostRecord struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"author_id"`
	Caption   string    `json:"caption"`
	Audience  Audience  `json:"audience"`
	MediaURLs []string  `json:"media_urls"`
	CreatedAt time.Time `json:"created_at"`
}

// UploadProgress is a snapshot of aggregate submission progress.
type UploadProgress struct {
	Percent int    `json:"percent"`
	Band    string `json:"band"`
}
