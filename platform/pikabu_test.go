package platform

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onnwee/memerelay/content"
)

const storyURL = "https://pikabu.ru/story/kot_12345"

const storyHTML = `<html><body>
<h1 class="story__title"> Cat and dog </h1>
<div class="story__content">
  <div class="story-block story-block_type_text"><p>First line.</p><p>Second <b>bold</b></p><script>var x=1;</script></div>
  <div class="story-block story-block_type_image">
    <a class="image-link" href="#"><img src="https://cs.pikabu.ru/a.jpg"></a>
    <a class="image-link" href="#"><img data-src="https://cs.pikabu.ru/b.jpg"></a>
  </div>
  <div class="story-block story-block_type_video">
    <div class="player" data-av1="https://cs.pikabu.ru/v.av1.mp4" data-webm="https://cs.pikabu.ru/v.webm"></div>
    <div class="player" data-webm="https://cs.pikabu.ru/w.webm"></div>
    <div class="player"></div>
  </div>
  <div class="story-block"></div>
</div>
</body></html>`

func TestPikabuExtract(t *testing.T) {
	p := NewPikabu(&fakeFetcher{pages: map[string]string{storyURL: storyHTML}}, nil)

	res, err := p.Extract(context.Background(), content.Request{URL: storyURL, User: alice})
	require.NoError(t, err)

	assert.Equal(t, content.Title(alice, storyURL, "Cat and dog"), res.Title)
	require.Len(t, res.Blocks, 3, "empty story blocks are dropped")
	assert.Equal(t, "First line.\nSecond\nbold", res.Blocks[0].Text)
	assert.Equal(t, []string{"https://cs.pikabu.ru/a.jpg", "https://cs.pikabu.ru/b.jpg"}, res.Blocks[1].Images)
	assert.Equal(t, []string{"https://cs.pikabu.ru/v.av1.mp4", "https://cs.pikabu.ru/w.webm"}, res.Blocks[2].VideoURLs)
}

func TestPikabuDefaultTitle(t *testing.T) {
	page := `<div class="story-block">only text</div>`
	p := NewPikabu(&fakeFetcher{pages: map[string]string{storyURL: page}}, nil)

	res, err := p.Extract(context.Background(), content.Request{URL: storyURL, User: alice})
	require.NoError(t, err)
	assert.Contains(t, res.Title, NoTitle)
	require.Len(t, res.Blocks, 1)
	assert.Equal(t, "only text", res.Blocks[0].Text)
}

func TestPikabuErrors(t *testing.T) {
	tests := []struct {
		name string
		f    *fakeFetcher
	}{
		{"fetch failure", &fakeFetcher{err: errors.New("dial tcp: connection refused")}},
		{"not a story", &fakeFetcher{pages: map[string]string{storyURL: "<html><body>captcha</body></html>"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPikabu(tt.f, nil).Extract(context.Background(), content.Request{URL: storyURL})
			var ee *content.ExtractionError
			require.ErrorAs(t, err, &ee)
			assert.Equal(t, content.Pikabu, ee.Platform)
		})
	}
}
