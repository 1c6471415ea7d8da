package delivery

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import "context"

// TextOptions controls how a text message is rendered.
type TextOptions struct {
	// Markup sends the text as escaped markup; otherwise it is plain.
	Markup bool
	// DisablePreview suppresses link previews.
	DisablePreview bool
}

// Sender is the outbound half of the chat capability.
type Sender interface {
	SendText(ctx context.Context, chatID int64, text string, opts TextOptions) error
	SendPhoto(ctx context.Context, chatID int64, url string) error
	SendVideoURL(ctx context.Context, chatID int64, url string) error
	SendVideoFile(ctx context.Context, chatID int64, path string) error
}

// Chat is the full chat capability used by the pipeline.
type Chat interface {
	Sender
	DeleteMessage(ctx context.Context, chatID int64, messageID int) error
}
