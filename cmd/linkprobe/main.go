// Command linkprobe classifies a link and runs its platform adapter without
// touching Telegram, printing the normalized result as JSON. Local video
// files produced along the way are removed unless --keep-files is set.
//
// Usage:
//
//	linkprobe https://www.reddit.com/r/videos/comments/abc123/x/
//	linkprobe --platforms pikabu,x --pretty https://pikabu.ru/story/...
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/onnwee/memerelay/app"
	"github.com/onnwee/memerelay/config"
	"github.com/onnwee/memerelay/content"
	"github.com/onnwee/memerelay/links"
	"github.com/onnwee/memerelay/scratch"
)

type probeFlags struct {
	platforms []string
	keepFiles bool
	pretty    bool
	verbose   bool
}

func main() {
	_ = godotenv.Load()
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var f probeFlags
	cmd := &cobra.Command{
		Use:          "linkprobe <url-or-text>",
		Short:        "Extract the content behind a supported link",
		Long:         `Classifies the argument like the bot does, runs the matching platform adapter and prints the result as JSON.`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProbe(cmd.Context(), f, args[0], cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
	cmd.Flags().StringSliceVar(&f.platforms, "platforms", nil, "platforms to enable (pikabu,reddit,x,pinterest); default from PARSE_* env")
	cmd.Flags().BoolVar(&f.keepFiles, "keep-files", false, "keep remuxed video files instead of removing them")
	cmd.Flags().BoolVar(&f.pretty, "pretty", false, "indent JSON output")
	cmd.Flags().BoolVarP(&f.verbose, "verbose", "v", false, "debug logging to stderr")
	return cmd
}

func runProbe(ctx context.Context, f probeFlags, text string, stdout, stderr io.Writer) error {
	lvl := slog.LevelWarn
	if f.verbose {
		lvl = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: lvl}))

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if len(f.platforms) > 0 {
		kinds, err := parseKinds(f.platforms)
		if err != nil {
			return err
		}
		enable(cfg, kinds)
	}

	m, ok := links.NewClassifier(cfg.EnabledKinds()...).Match(text)
	if !ok {
		return fmt.Errorf("no supported link in %q", text)
	}
	comps, err := app.Build(cfg, logger)
	if err != nil {
		return err
	}

	res, err := comps.Registry.Extract(ctx, m.Kind, content.Request{URL: m.URL})
	if !f.keepFiles {
		defer func() {
			for _, p := range res.Files() {
				_ = scratch.Remove(p)
			}
		}()
	}
	if err != nil {
		return err
	}

	enc := json.NewEncoder(stdout)
	if f.pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(struct {
		Platform string `json:"platform"`
		URL      string `json:"url"`
		content.Result
	}{m.Kind.String(), m.URL, res})
}

func parseKinds(names []string) ([]content.Kind, error) {
	var out []content.Kind
	for _, n := range names {
		n = strings.ToLower(strings.TrimSpace(n))
		found := false
		for _, k := range content.Kinds {
			if k.String() == n {
				out = append(out, k)
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("unknown platform %q", n)
		}
	}
	return out, nil
}

// enable switches on exactly kinds.
func enable(cfg *config.Config, kinds []content.Kind) {
	cfg.ParsePikabu, cfg.ParseReddit, cfg.ParseX, cfg.ParsePinterest = false, false, false, false
	for _, k := range kinds {
		switch k {
		case content.Pikabu:
			cfg.ParsePikabu = true
		case content.Reddit:
			cfg.ParseReddit = true
		case content.X:
			cfg.ParseX = true
		case content.Pinterest:
			cfg.ParsePinterest = true
		}
	}
}
