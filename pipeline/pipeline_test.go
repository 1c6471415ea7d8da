package pipeline

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/mock/gomock"

	"github.com/onnwee/memerelay/content"
	"github.com/onnwee/memerelay/delivery"
	"github.com/onnwee/memerelay/delivery/mocks"
	"github.com/onnwee/memerelay/links"
	"github.com/onnwee/memerelay/telemetry"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const (
	chatID = int64(-100123)
	msgID  = 77
)

var textOpts = delivery.TextOptions{Markup: true, DisablePreview: true}

// fakeExtractor returns a fixed result and records the requests it saw.
type fakeExtractor struct {
	mu   sync.Mutex
	res  content.Result
	err  error
	seen []content.Request
	kind []content.Kind
}

func (f *fakeExtractor) Extract(_ context.Context, k content.Kind, req content.Request) (content.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seen = append(f.seen, req)
	f.kind = append(f.kind, k)
	return f.res, f.err
}

func newPipeline(t *testing.T, ex Extractor, enabled ...content.Kind) (*Pipeline, *mocks.MockChat) {
	t.Helper()
	chat := mocks.NewMockChat(gomock.NewController(t))
	eng := delivery.New(chat, delivery.Options{Sleep: func(context.Context, time.Duration) error { return nil }})
	return New(links.NewClassifier(enabled...), ex, eng, chat, Options{MaxJobs: 2}), chat
}

func message(text string) Message {
	return Message{ChatID: chatID, MessageID: msgID, Text: text, User: content.User{ID: 1, DisplayName: "Bob"}}
}

func TestHandleIgnoresUnrelatedText(t *testing.T) {
	ex := &fakeExtractor{}
	p, _ := newPipeline(t, ex, content.Kinds...)

	require.NoError(t, p.Handle(context.Background(), message("hello there, see dropbox.com/s/x")))
	assert.Empty(t, ex.seen)
}

func TestHandleDisabledPlatformIsNoop(t *testing.T) {
	ex := &fakeExtractor{}
	p, _ := newPipeline(t, ex, content.Pikabu, content.X, content.Pinterest)

	require.NoError(t, p.Handle(context.Background(), message("https://www.reddit.com/r/pics/comments/abc/x/")))
	assert.Empty(t, ex.seen)
}

func TestHandleSuccessDeletesOriginal(t *testing.T) {
	ex := &fakeExtractor{res: content.Result{Title: "T", Blocks: []content.Block{content.ImageBlock("u1")}}}
	p, chat := newPipeline(t, ex, content.Kinds...)

	gomock.InOrder(
		chat.EXPECT().SendText(gomock.Any(), chatID, "T", textOpts).Return(nil),
		chat.EXPECT().SendPhoto(gomock.Any(), chatID, "u1").Return(nil),
		chat.EXPECT().DeleteMessage(gomock.Any(), chatID, msgID).Return(nil),
	)

	require.NoError(t, p.Handle(context.Background(), message("look pikabu.ru/story/abc_1 lol")))
	require.Len(t, ex.seen, 1)
	assert.Equal(t, content.Pikabu, ex.kind[0])
	assert.Equal(t, "https://pikabu.ru/story/abc_1", ex.seen[0].URL)
	assert.Equal(t, "Bob", ex.seen[0].User.DisplayName)
}

func TestHandleMediaFailureStillDeletes(t *testing.T) {
	ex := &fakeExtractor{res: content.Result{Title: "T", Blocks: []content.Block{content.ImageBlock("u1", "u2")}}}
	p, chat := newPipeline(t, ex, content.Kinds...)

	gomock.InOrder(
		chat.EXPECT().SendText(gomock.Any(), chatID, "T", textOpts).Return(nil),
		chat.EXPECT().SendPhoto(gomock.Any(), chatID, "u1").Return(errors.New("Bad Request: failed to get HTTP URL content")),
		chat.EXPECT().SendText(gomock.Any(), chatID, "Failed to send image: u1", textOpts).Return(nil),
		chat.EXPECT().SendPhoto(gomock.Any(), chatID, "u2").Return(nil),
		chat.EXPECT().DeleteMessage(gomock.Any(), chatID, msgID).Return(nil),
	)

	require.NoError(t, p.Handle(context.Background(), message("https://x.com/a/status/1")))
}

func TestHandleExtractionFailureSendsOneNotice(t *testing.T) {
	ex := &fakeExtractor{err: content.Extractionf(content.X, errors.New("navigation timeout"), "render post")}
	p, chat := newPipeline(t, ex, content.Kinds...)

	chat.EXPECT().SendText(gomock.Any(), chatID, gomock.Any(), textOpts).DoAndReturn(
		func(_ context.Context, _ int64, text string, _ delivery.TextOptions) error {
			assert.True(t, strings.HasPrefix(text, "Failed to process link\n"))
			assert.Contains(t, text, "render post")
			return nil
		}).Times(1)
	chat.EXPECT().DeleteMessage(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	err := p.Handle(context.Background(), message("https://x.com/a/status/1"))
	var ee *content.ExtractionError
	require.ErrorAs(t, err, &ee)
}

func TestHandleDeliveryFailureKeepsOriginal(t *testing.T) {
	ex := &fakeExtractor{res: content.Result{Title: "T"}}
	p, chat := newPipeline(t, ex, content.Kinds...)

	gomock.InOrder(
		chat.EXPECT().SendText(gomock.Any(), chatID, "T", textOpts).Return(delivery.ErrTransient).Times(3),
		// the single notice comes from the delivery engine
		chat.EXPECT().SendText(gomock.Any(), chatID, gomock.Any(), textOpts).Return(nil).Times(1),
	)
	chat.EXPECT().DeleteMessage(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	err := p.Handle(context.Background(), message("https://pin.it/abc"))
	require.ErrorIs(t, err, delivery.ErrTransient)
}

func TestHandleDeleteFailureIsNotAJobFailure(t *testing.T) {
	ex := &fakeExtractor{res: content.Result{Title: "T"}}
	p, chat := newPipeline(t, ex, content.Kinds...)

	gomock.InOrder(
		chat.EXPECT().SendText(gomock.Any(), chatID, "T", textOpts).Return(nil),
		chat.EXPECT().DeleteMessage(gomock.Any(), chatID, msgID).Return(errors.New("Bad Request: message can't be deleted")),
	)
	require.NoError(t, p.Handle(context.Background(), message("https://pin.it/abc")))
}

func TestServeRunsJobsAndWaits(t *testing.T) {
	ex := &fakeExtractor{res: content.Result{Title: "T"}}
	p, chat := newPipeline(t, ex, content.Kinds...)

	chat.EXPECT().SendText(gomock.Any(), chatID, "T", textOpts).Return(nil).Times(3)
	chat.EXPECT().DeleteMessage(gomock.Any(), chatID, msgID).Return(nil).Times(3)

	in := make(chan Message, 4)
	in <- message("https://pin.it/a")
	in <- message("no link here")
	in <- message("https://pin.it/b")
	in <- message("https://pin.it/c")
	close(in)

	require.NoError(t, p.Serve(context.Background(), in))
	assert.Len(t, ex.seen, 3)
	assert.Equal(t, 0, p.limiter.Active())
}

func TestServeStopsOnCancel(t *testing.T) {
	p, _ := newPipeline(t, &fakeExtractor{}, content.Kinds...)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := p.Serve(ctx, make(chan Message))
	assert.ErrorIs(t, err, context.Canceled)
}

func sampleCount(t *testing.T, obs prometheus.Observer) uint64 {
	t.Helper()
	h, ok := obs.(prometheus.Histogram)
	require.True(t, ok)
	m := &dto.Metric{}
	require.NoError(t, h.Write(m))
	return m.GetHistogram().GetSampleCount()
}

func TestHandleRecordsDurations(t *testing.T) {
	telemetry.Init()
	extractBefore := sampleCount(t, telemetry.ExtractObserver("x"))
	jobBefore := sampleCount(t, telemetry.JobDuration)

	ex := &fakeExtractor{res: content.Result{Title: "T"}}
	p, chat := newPipeline(t, ex, content.Kinds...)
	gomock.InOrder(
		chat.EXPECT().SendText(gomock.Any(), chatID, "T", textOpts).Return(nil),
		chat.EXPECT().DeleteMessage(gomock.Any(), chatID, msgID).Return(nil),
	)

	require.NoError(t, p.Handle(context.Background(), message("https://x.com/user/status/123")))
	assert.Equal(t, extractBefore+1, sampleCount(t, telemetry.ExtractObserver("x")))
	assert.Equal(t, jobBefore+1, sampleCount(t, telemetry.JobDuration))
}
