// Package remux turns segmented media into a single playable file: it
// combines a video stream with the best audio track listed in its DASH
// manifest, or copies one video and one audio stream out of an adaptive
// (HLS) source. Streams are copied, never re-encoded.
package remux

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"

	"go.opentelemetry.io/otel/attribute"

	"github.com/onnwee/memerelay/content"
	"github.com/onnwee/memerelay/scratch"
	"github.com/onnwee/memerelay/telemetry"
)

// Downloader transfers a remote resource to a local path.
type Downloader interface {
	Download(ctx context.Context, url, dst string) (int64, error)
}

// Runner executes an external command and returns its combined output.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// Options configures an Engine.
type Options struct {
	FFmpegBin string
	UserAgent string
	Runner    Runner
	Logger    *slog.Logger
}

// Engine produces local video files in the scratch directory.
type Engine struct {
	dl     Downloader
	dir    *scratch.Dir
	run    Runner
	ffmpeg string
	ua     string
	logger *slog.Logger
}

// New returns an Engine downloading through dl into dir.
func New(dl Downloader, dir *scratch.Dir, opts Options) *Engine {
	if opts.FFmpegBin == "" {
		opts.FFmpegBin = "ffmpeg"
	}
	if opts.Runner == nil {
		opts.Runner = ExecRunner{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Engine{
		dl:     dl,
		dir:    dir,
		run:    opts.Runner,
		ffmpeg: opts.FFmpegBin,
		ua:     opts.UserAgent,
		logger: opts.Logger.With(slog.String("component", "remux")),
	}
}

// Available reports whether the ffmpeg binary can be resolved.
func (e *Engine) Available() error {
	_, err := exec.LookPath(e.ffmpeg)
	return err
}

// Mux downloads videoURL and the manifest at manifestURL, then combines the
// video with the manifest's best audio track. It returns the path of a file
// the caller now owns:
//   - the combined file on success;
//   - the raw video file when the manifest lists no usable audio or the
//     combine step fails.
//
// Every other intermediate file is removed before returning, and on error
// nothing is left behind.
func (e *Engine) Mux(ctx context.Context, videoURL, manifestURL string) (_ string, err error) {
	ctx, span := telemetry.StartSpan(ctx, "remux", "remux.mux", attribute.String("video_url", videoURL))
	defer func() {
		telemetry.RecordError(span, err)
		span.End()
	}()

	var owned scratch.Set
	defer owned.Cleanup()

	video := owned.Track(e.dir.Path("video", ".mp4"))
	if _, err := e.dl.Download(ctx, videoURL, video); err != nil {
		telemetry.ObserveRemux("manifest", "failed")
		return "", &content.MediaDownloadError{URL: videoURL, Err: err}
	}
	mpd := owned.Track(e.dir.Path("playlist", ".mpd"))
	if _, err := e.dl.Download(ctx, manifestURL, mpd); err != nil {
		telemetry.ObserveRemux("manifest", "failed")
		return "", &content.MediaDownloadError{URL: manifestURL, Err: err}
	}
	m, err := readManifest(mpd)
	if err != nil {
		telemetry.ObserveRemux("manifest", "failed")
		return "", &content.MuxError{Stage: "manifest", Err: err}
	}
	rep, ok := m.BestAudio()
	if !ok {
		e.logger.Info("manifest has no audio; keeping video only", slog.String("manifest", manifestURL))
		owned.Release(video)
		telemetry.ObserveRemux("manifest", "video_only")
		return video, nil
	}
	audioURL, err := resolve(manifestURL, rep.BaseURL)
	if err != nil {
		telemetry.ObserveRemux("manifest", "failed")
		return "", &content.MuxError{Stage: "manifest", Err: fmt.Errorf("audio url %q: %w", rep.BaseURL, err)}
	}
	audio := owned.Track(e.dir.Path("audio", ".mp4"))
	if _, err := e.dl.Download(ctx, audioURL, audio); err != nil {
		telemetry.ObserveRemux("manifest", "failed")
		return "", &content.MediaDownloadError{URL: audioURL, Err: err}
	}

	out := owned.Track(e.dir.Path("compiled", ".mp4"))
	if err := e.ffmpegCopy(ctx, out, "-i", video, "-i", audio, "-map", "0:v:0", "-map", "1:a:0"); err != nil {
		e.logger.Warn("combine failed; falling back to video only", slog.String("video_url", videoURL), slog.Any("err", err))
		owned.Release(video)
		telemetry.ObserveRemux("manifest", "video_only")
		return video, nil
	}
	owned.Release(out)
	e.logger.Debug("muxed video with audio", slog.String("out", out), slog.Int64("audio_bandwidth", rep.Bandwidth))
	telemetry.ObserveRemux("manifest", "muxed")
	return out, nil
}

// Passthrough copies the first video and first audio stream of an adaptive
// source straight into an mp4 container.
func (e *Engine) Passthrough(ctx context.Context, streamURL string) (_ string, err error) {
	ctx, span := telemetry.StartSpan(ctx, "remux", "remux.passthrough", attribute.String("stream_url", streamURL))
	defer func() {
		telemetry.RecordError(span, err)
		span.End()
	}()

	var owned scratch.Set
	defer owned.Cleanup()

	out := owned.Track(e.dir.Path("compiled", ".mp4"))
	var in []string
	if e.ua != "" {
		in = append(in, "-user_agent", e.ua)
	}
	in = append(in, "-i", streamURL, "-map", "0:v:0", "-map", "0:a:0", "-bsf:a", "aac_adtstoasc")
	if err := e.ffmpegCopy(ctx, out, in...); err != nil {
		telemetry.ObserveRemux("passthrough", "failed")
		return "", err
	}
	owned.Release(out)
	telemetry.ObserveRemux("passthrough", "muxed")
	return out, nil
}

// ffmpegCopy runs ffmpeg with stream copy into out and checks the result.
func (e *Engine) ffmpegCopy(ctx context.Context, out string, input ...string) error {
	args := append([]string{"-hide_banner", "-loglevel", "error", "-y"}, input...)
	args = append(args, "-c", "copy", "-movflags", "+faststart", out)
	if o, err := e.run.Run(ctx, e.ffmpeg, args...); err != nil {
		return &content.MuxError{Stage: "ffmpeg", Err: fmt.Errorf("%w: %s", err, tail(o))}
	}
	st, err := os.Stat(out)
	if err != nil {
		return &content.MuxError{Stage: "ffmpeg", Err: err}
	}
	if st.Size() == 0 {
		return &content.MuxError{Stage: "ffmpeg", Err: fmt.Errorf("empty output %s", out)}
	}
	return nil
}

func readManifest(path string) (*Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return ParseManifest(f)
}

// tail keeps the end of ffmpeg output, where the actual error is.
func tail(b []byte) string {
	const limit = 512
	if len(b) > limit {
		b = b[len(b)-limit:]
	}
	return string(b)
}
