package remux

import (
	"encoding/xml"
	"fmt"
	"io"
	"net/url"
	"strings"
)

// Representation is one encoded variant listed in a manifest.
type Representation struct {
	ID        string
	Bandwidth int64
	BaseURL   string
}

// Manifest is the part of a DASH MPD the engine needs, grouped by content type.
type Manifest struct {
	Video []Representation
	Audio []Representation
}

type mpdDoc struct {
	Periods []struct {
		AdaptationSets []struct {
			ContentType     string `xml:"contentType,attr"`
			MimeType        string `xml:"mimeType,attr"`
			Representations []struct {
				ID        string `xml:"id,attr"`
				Bandwidth int64  `xml:"bandwidth,attr"`
				MimeType  string `xml:"mimeType,attr"`
				BaseURL   string `xml:"BaseURL"`
			} `xml:"Representation"`
		} `xml:"AdaptationSet"`
	} `xml:"Period"`
}

// ParseManifest reads an MPD document.
func ParseManifest(r io.Reader) (*Manifest, error) {
	var doc mpdDoc
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("parse mpd: %w", err)
	}
	m := &Manifest{}
	for _, p := range doc.Periods {
		for _, as := range p.AdaptationSets {
			for _, rep := range as.Representations {
				r := Representation{ID: rep.ID, Bandwidth: rep.Bandwidth, BaseURL: strings.TrimSpace(rep.BaseURL)}
				switch contentType(as.ContentType, as.MimeType, rep.MimeType) {
				case "audio":
					m.Audio = append(m.Audio, r)
				case "video":
					m.Video = append(m.Video, r)
				}
			}
		}
	}
	return m, nil
}

func contentType(setType, setMime, repMime string) string {
	if setType != "" {
		return setType
	}
	for _, mt := range []string{repMime, setMime} {
		if t, _, ok := strings.Cut(mt, "/"); ok {
			return t
		}
	}
	return ""
}

// BestAudio returns the audio representation with the strictly greatest
// bandwidth; the first one seen wins ties. Entries without a BaseURL are
// unusable and skipped.
func (m *Manifest) BestAudio() (Representation, bool) {
	var best Representation
	found := false
	for _, r := range m.Audio {
		if r.BaseURL == "" {
			continue
		}
		if !found || r.Bandwidth > best.Bandwidth {
			best = r
			found = true
		}
	}
	return best, found
}

// ManifestURL derives the DASH playlist URL that sits next to a DASH_<n>.mp4
// fallback stream.
func ManifestURL(videoURL string) (string, bool) {
	i := strings.Index(videoURL, "DASH_")
	if i < 0 {
		return "", false
	}
	return videoURL[:i] + "DASHPlaylist.mpd", true
}

// resolve makes ref absolute against the manifest location.
func resolve(manifestURL, ref string) (string, error) {
	base, err := url.Parse(manifestURL)
	if err != nil {
		return "", err
	}
	u, err := url.Parse(ref)
	if err != nil {
		return "", err
	}
	return base.ResolveReference(u).String(), nil
}
