package platform

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onnwee/memerelay/content"
	"github.com/onnwee/memerelay/fetch"
	"github.com/onnwee/memerelay/redditapi"
)

const (
	shareURL     = "https://www.reddit.com/r/videos/s/Xy12Ab"
	permalinkURL = "https://www.reddit.com/r/videos/comments/abc123/funny/"
	fallbackURL  = "https://v.redd.it/abc/DASH_720.mp4?source=fallback"
)

type fakeSubmissions struct {
	sub  *redditapi.Submission
	err  error
	asks []string
}

func (f *fakeSubmissions) SubmissionByURL(_ context.Context, link string) (*redditapi.Submission, error) {
	f.asks = append(f.asks, link)
	return f.sub, f.err
}

type fakeRemuxer struct {
	muxPath, passPath string
	muxErr, passErr   error
	muxCalls          [][2]string
	passCalls         []string
}

func (f *fakeRemuxer) Mux(_ context.Context, videoURL, manifestURL string) (string, error) {
	f.muxCalls = append(f.muxCalls, [2]string{videoURL, manifestURL})
	return f.muxPath, f.muxErr
}

func (f *fakeRemuxer) Passthrough(_ context.Context, streamURL string) (string, error) {
	f.passCalls = append(f.passCalls, streamURL)
	return f.passPath, f.passErr
}

func videoSub(hasAudio bool) *redditapi.Submission {
	return &redditapi.Submission{
		Title: "Funny",
		URL:   "https://v.redd.it/abc",
		Media: &redditapi.Media{RedditVideo: &redditapi.RedditVideo{
			FallbackURL: fallbackURL,
			HLSURL:      "https://v.redd.it/abc/HLSPlaylist.m3u8",
			HasAudio:    hasAudio,
		}},
	}
}

func redditFetcher() *fakeFetcher {
	return &fakeFetcher{redirects: map[string]string{shareURL: permalinkURL}}
}

func TestRedditResolvesShareLink(t *testing.T) {
	api := &fakeSubmissions{sub: &redditapi.Submission{Title: "Hi", SelfText: "body text", IsSelf: true}}
	r := NewReddit(redditFetcher(), api, nil, RedditOptions{})

	res, err := r.Extract(context.Background(), content.Request{URL: shareURL, User: alice})
	require.NoError(t, err)
	assert.Equal(t, []string{permalinkURL}, api.asks)
	assert.Equal(t, content.Title(alice, shareURL, "Hi"), res.Title)
	assert.Equal(t, []content.Block{content.TextBlock("body text")}, res.Blocks)
}

func TestRedditForbiddenPageStillQueriesAPI(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/r/videos/s/Xy12Ab" {
			http.Redirect(w, r, "/r/videos/comments/abc123/funny/", http.StatusMovedPermanently)
			return
		}
		http.Error(w, "blocked", http.StatusForbidden)
	}))
	defer srv.Close()

	api := &fakeSubmissions{sub: &redditapi.Submission{Title: "Hi", SelfText: "body text", IsSelf: true}}
	r := NewReddit(fetch.New(fetch.Options{}), api, nil, RedditOptions{})

	for _, link := range []string{srv.URL + "/r/videos/comments/abc123/funny/", srv.URL + "/r/videos/s/Xy12Ab"} {
		api.asks = nil
		res, err := r.Extract(context.Background(), content.Request{URL: link, User: alice})
		require.NoError(t, err, link)
		assert.Equal(t, []string{srv.URL + "/r/videos/comments/abc123/funny/"}, api.asks)
		assert.Equal(t, []content.Block{content.TextBlock("body text")}, res.Blocks)
	}
}

func TestRedditResolveFailureFallsBackToLink(t *testing.T) {
	api := &fakeSubmissions{sub: &redditapi.Submission{Title: "Hi", SelfText: "body text", IsSelf: true}}
	r := NewReddit(&fakeFetcher{err: errors.New("dial tcp: connection refused")}, api, nil, RedditOptions{})

	res, err := r.Extract(context.Background(), content.Request{URL: permalinkURL, User: alice})
	require.NoError(t, err)
	assert.Equal(t, []string{permalinkURL}, api.asks)
	assert.Len(t, res.Blocks, 1)
}

func TestRedditImageAndGallery(t *testing.T) {
	sub := &redditapi.Submission{
		Title:     "pics",
		URL:       "https://i.redd.it/one.png",
		IsGallery: true,
		GalleryData: &redditapi.GalleryData{Items: []struct {
			MediaID string `json:"media_id"`
			ID      int64  `json:"id"`
		}{{MediaID: "g1"}, {MediaID: "g2"}}},
	}
	r := NewReddit(redditFetcher(), &fakeSubmissions{sub: sub}, nil, RedditOptions{})

	res, err := r.Extract(context.Background(), content.Request{URL: permalinkURL})
	require.NoError(t, err)
	require.Len(t, res.Blocks, 2)
	assert.Equal(t, []string{"https://i.redd.it/one.png"}, res.Blocks[0].Images)
	assert.Equal(t, []string{"https://i.redd.it/g1.jpg", "https://i.redd.it/g2.jpg"}, res.Blocks[1].Images)
}

func TestRedditVideoManifestMux(t *testing.T) {
	rx := &fakeRemuxer{muxPath: "/tmp/compiled_1.mp4"}
	r := NewReddit(redditFetcher(), &fakeSubmissions{sub: videoSub(true)}, rx, RedditOptions{})

	res, err := r.Extract(context.Background(), content.Request{URL: permalinkURL})
	require.NoError(t, err)
	require.Len(t, res.Blocks, 1)
	assert.Equal(t, []string{"/tmp/compiled_1.mp4"}, res.Blocks[0].VideoFiles)
	require.Len(t, rx.muxCalls, 1)
	assert.Equal(t, [2]string{fallbackURL, "https://v.redd.it/abc/DASHPlaylist.mpd"}, rx.muxCalls[0])
	assert.Empty(t, rx.passCalls)
}

func TestRedditVideoPassthrough(t *testing.T) {
	rx := &fakeRemuxer{passPath: "/tmp/compiled_2.mp4"}
	r := NewReddit(redditFetcher(), &fakeSubmissions{sub: videoSub(true)}, rx, RedditOptions{Passthrough: true})

	res, err := r.Extract(context.Background(), content.Request{URL: permalinkURL})
	require.NoError(t, err)
	assert.Equal(t, []string{"/tmp/compiled_2.mp4"}, res.Blocks[0].VideoFiles)
	assert.Empty(t, rx.muxCalls)
}

func TestRedditVideoDegradesToRemoteURL(t *testing.T) {
	rx := &fakeRemuxer{
		passErr: &content.MuxError{Stage: "ffmpeg", Err: errors.New("exit status 1")},
		muxErr:  &content.MediaDownloadError{URL: fallbackURL, Err: errors.New("403")},
	}
	sub := videoSub(true)
	sub.SelfText = "caption"
	r := NewReddit(redditFetcher(), &fakeSubmissions{sub: sub}, rx, RedditOptions{Passthrough: true})

	res, err := r.Extract(context.Background(), content.Request{URL: permalinkURL})
	require.NoError(t, err, "a remux failure must not abort extraction")
	require.Len(t, res.Blocks, 2)
	assert.Equal(t, "caption", res.Blocks[0].Text)
	assert.Equal(t, []string{fallbackURL}, res.Blocks[1].VideoURLs)
	assert.Len(t, rx.passCalls, 1)
	assert.Len(t, rx.muxCalls, 1)
}

func TestRedditSilentVideoSkipsRemux(t *testing.T) {
	rx := &fakeRemuxer{}
	r := NewReddit(redditFetcher(), &fakeSubmissions{sub: videoSub(false)}, rx, RedditOptions{})

	res, err := r.Extract(context.Background(), content.Request{URL: permalinkURL})
	require.NoError(t, err)
	assert.Equal(t, []string{fallbackURL}, res.Blocks[0].VideoURLs)
	assert.Empty(t, rx.muxCalls)
}

func TestRedditCrosspostMedia(t *testing.T) {
	sub := &redditapi.Submission{
		Title:            "xpost",
		URL:              "/r/videos/comments/zzz/orig/",
		CrosspostParents: []redditapi.Submission{{URL: "https://i.redd.it/parent.jpg"}},
	}
	r := NewReddit(redditFetcher(), &fakeSubmissions{sub: sub}, nil, RedditOptions{})

	res, err := r.Extract(context.Background(), content.Request{URL: permalinkURL})
	require.NoError(t, err)
	require.Len(t, res.Blocks, 1)
	assert.Equal(t, []string{"https://i.redd.it/parent.jpg"}, res.Blocks[0].Images)
}

func TestRedditAPIFailure(t *testing.T) {
	r := NewReddit(redditFetcher(), &fakeSubmissions{err: redditapi.ErrNotFound}, nil, RedditOptions{})
	_, err := r.Extract(context.Background(), content.Request{URL: permalinkURL})
	var ee *content.ExtractionError
	require.ErrorAs(t, err, &ee)
	assert.ErrorIs(t, err, redditapi.ErrNotFound)
}
