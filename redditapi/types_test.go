package redditapi

import (
	"encoding/json"
	"reflect"
	"testing"
)

const galleryJSON = `{
  "id": "g1",
  "title": "gallery",
  "url": "https://www.reddit.com/gallery/g1",
  "is_gallery": true,
  "gallery_data": {"items": [{"media_id": "aaa", "id": 1}, {"media_id": "bbb", "id": 2}, {"media_id": "ccc", "id": 3}]},
  "media_metadata": {
    "aaa": {"status": "valid", "e": "Image", "m": "image/png"},
    "bbb": {"status": "failed", "e": "Image", "m": "image/jpg"}
  }
}`

func TestGalleryURLs(t *testing.T) {
	var s Submission
	if err := json.Unmarshal([]byte(galleryJSON), &s); err != nil {
		t.Fatal(err)
	}
	want := []string{"https://i.redd.it/aaa.png", "https://i.redd.it/ccc.jpg"}
	if got := s.GalleryURLs(); !reflect.DeepEqual(got, want) {
		t.Errorf("GalleryURLs() = %v, want %v", got, want)
	}
	if !s.HasMedia() {
		t.Error("gallery should count as media")
	}
}

func TestImageURL(t *testing.T) {
	tests := []struct {
		url string
		ok  bool
	}{
		{"https://i.redd.it/abc.jpg", true},
		{"https://i.redd.it/abc.JPEG", true},
		{"https://i.imgur.com/abc.gif?x=1", true},
		{"https://i.redd.it/abc.png", true},
		{"https://v.redd.it/abc", false},
		{"https://www.reddit.com/r/x/comments/abc/", false},
	}
	for _, tt := range tests {
		s := Submission{URL: tt.url}
		got, ok := s.ImageURL()
		if ok != tt.ok || (ok && got != tt.url) {
			t.Errorf("ImageURL(%q) = %q, %v", tt.url, got, ok)
		}
	}
}

func TestVideoPrefersMediaThenSecureMedia(t *testing.T) {
	s := Submission{SecureMedia: &Media{RedditVideo: &RedditVideo{FallbackURL: "https://v.redd.it/x/DASH_720.mp4", HasAudio: true}}}
	v := s.Video()
	if v == nil || v.FallbackURL != "https://v.redd.it/x/DASH_720.mp4" {
		t.Fatalf("Video() = %+v", v)
	}
	if (&Submission{}).Video() != nil {
		t.Error("expected no video")
	}
}
