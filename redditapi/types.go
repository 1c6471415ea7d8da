package redditapi

import (
	"path"
	"strings"
)

type listing struct {
	Data struct {
		Children []struct {
			Kind string     `json:"kind"`
			Data Submission `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

// Submission is the subset of a link listing the relay reads.
type Submission struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	SelfText  string `json:"selftext"`
	URL       string `json:"url"`
	Permalink string `json:"permalink"`
	IsSelf    bool   `json:"is_self"`
	IsVideo   bool   `json:"is_video"`
	IsGallery bool   `json:"is_gallery"`

	GalleryData   *GalleryData         `json:"gallery_data"`
	MediaMetadata map[string]MediaItem `json:"media_metadata"`
	Media         *Media               `json:"media"`
	SecureMedia   *Media               `json:"secure_media"`

	CrosspostParents []Submission `json:"crosspost_parent_list"`
}

// GalleryData lists gallery items in display order.
type GalleryData struct {
	Items []struct {
		MediaID string `json:"media_id"`
		ID      int64  `json:"id"`
	} `json:"items"`
}

// MediaItem describes one uploaded gallery file.
type MediaItem struct {
	Status string `json:"status"`
	Kind   string `json:"e"`
	Mime   string `json:"m"`
}

// Media wraps embedded media.
type Media struct {
	RedditVideo *RedditVideo `json:"reddit_video"`
}

// RedditVideo is a natively hosted video.
type RedditVideo struct {
	FallbackURL string `json:"fallback_url"`
	DashURL     string `json:"dash_url"`
	HLSURL      string `json:"hls_url"`
	HasAudio    bool   `json:"has_audio"`
	IsGIF       bool   `json:"is_gif"`
}

// Video returns the native video of the submission, if any.
func (s *Submission) Video() *RedditVideo {
	for _, m := range []*Media{s.Media, s.SecureMedia} {
		if m != nil && m.RedditVideo != nil && m.RedditVideo.FallbackURL != "" {
			return m.RedditVideo
		}
	}
	return nil
}

var imageExts = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".gif": true}

// ImageURL reports whether the submission links straight to an image.
func (s *Submission) ImageURL() (string, bool) {
	u := s.URL
	if i := strings.IndexAny(u, "?#"); i >= 0 {
		u = u[:i]
	}
	if imageExts[strings.ToLower(path.Ext(u))] {
		return s.URL, true
	}
	return "", false
}

// GalleryURLs builds i.redd.it URLs for every gallery item in order. The
// extension comes from the item's mime type and defaults to jpg.
func (s *Submission) GalleryURLs() []string {
	if !s.IsGallery || s.GalleryData == nil {
		return nil
	}
	out := make([]string, 0, len(s.GalleryData.Items))
	for _, it := range s.GalleryData.Items {
		if it.MediaID == "" {
			continue
		}
		ext := "jpg"
		if mi, ok := s.MediaMetadata[it.MediaID]; ok {
			if mi.Status != "" && mi.Status != "valid" {
				continue
			}
			ext = extFromMime(mi.Mime)
		}
		out = append(out, "https://i.redd.it/"+it.MediaID+"."+ext)
	}
	return out
}

func extFromMime(m string) string {
	switch strings.ToLower(m) {
	case "image/png":
		return "png"
	case "image/gif":
		return "gif"
	case "image/webp":
		return "webp"
	default:
		return "jpg"
	}
}

// HasMedia reports whether the submission carries anything beyond text.
func (s *Submission) HasMedia() bool {
	if s.Video() != nil || len(s.GalleryURLs()) > 0 {
		return true
	}
	_, ok := s.ImageURL()
	return ok
}
