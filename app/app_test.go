package app

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onnwee/memerelay/config"
	"github.com/onnwee/memerelay/content"
)

func TestBuildRegistersEnabledPlatforms(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.Config
		want []content.Kind
	}{
		{
			name: "all",
			cfg: config.Config{
				ParsePikabu: true, ParseReddit: true, ParseX: true, ParsePinterest: true,
				RedditClientID: "id", RedditClientSecret: "secret",
			},
			want: []content.Kind{content.Pikabu, content.Reddit, content.X, content.Pinterest},
		},
		{
			name: "subset",
			cfg:  config.Config{ParsePinterest: true, ParsePikabu: true},
			want: []content.Kind{content.Pikabu, content.Pinterest},
		},
		{
			name: "none",
			cfg:  config.Config{},
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			cfg.TempDir = filepath.Join(t.TempDir(), "scratch")

			c, err := Build(&cfg, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, c.Registry.Kinds())
			assert.NoError(t, c.Scratch.Writable())
			assert.Equal(t, cfg.TempDir, c.Scratch.Root())
		})
	}
}
