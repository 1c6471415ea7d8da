package platform

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onnwee/memerelay/content"
)

const (
	pinShort = "https://pin.it/AbC123"
	pinURL   = "https://www.pinterest.com/pin/987654321/"
)

func TestPinterestPrefersVideo(t *testing.T) {
	page := `<html><head><title>Funny cat | Pinterest</title>
<meta property="og:image" content="https://i.pinimg.com/736x/aa/bb/cc.jpg"></head>
<body><script>{"video_list":{"V_720P":{"url":"https:\/\/v1.pinimg.com\/videos\/mc\/720p\/aa\/bb\/cc.mp4"}}}</script></body></html>`
	f := &fakeFetcher{
		pages:     map[string]string{pinURL: page},
		redirects: map[string]string{pinShort: pinURL},
	}

	res, err := NewPinterest(f, nil).Extract(context.Background(), content.Request{URL: pinShort, User: alice})
	require.NoError(t, err)

	assert.Equal(t, content.Title(alice, pinShort, "Funny cat"), res.Title)
	require.Len(t, res.Blocks, 1)
	assert.Equal(t, []string{"https://v1.pinimg.com/videos/mc/720p/aa/bb/cc.mp4"}, res.Blocks[0].VideoURLs)
	assert.Empty(t, res.Blocks[0].Images)
}

func TestPinterestFallsBackToImage(t *testing.T) {
	page := `<html><head><title>Sunset</title>
<meta property="og:image" content="https://i.pinimg.com/736x/aa/bb/cc.jpg"></head><body></body></html>`
	f := &fakeFetcher{pages: map[string]string{pinURL: page}}

	res, err := NewPinterest(f, nil).Extract(context.Background(), content.Request{URL: pinURL, User: alice})
	require.NoError(t, err)
	require.Len(t, res.Blocks, 1)
	assert.Equal(t, []string{"https://i.pinimg.com/736x/aa/bb/cc.jpg"}, res.Blocks[0].Images)
	assert.Empty(t, res.Blocks[0].VideoURLs)
	assert.Contains(t, res.Title, "Sunset")
}

func TestPinterestNoMedia(t *testing.T) {
	f := &fakeFetcher{pages: map[string]string{pinURL: `<html><head><title>x</title></head></html>`}}
	_, err := NewPinterest(f, nil).Extract(context.Background(), content.Request{URL: pinURL})
	var ee *content.ExtractionError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, content.Pinterest, ee.Platform)
}
