package api

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/miyamo2/amap-flomo-mcp/domain/model"
	"github.com/miyamo2/amap-flomo-mcp/domain/repository"
	"github.com/miyamo2/amap-flomo-mcp/infrastructure/httpclient"
)

const upstreamFlomo = "flomo"

var (
	// ErrMissingFlomoURL is returned when no flomo webhook URL is configured.
	ErrMissingFlomoURL = errors.New("flomo: missing webhook url")
	// ErrEmptyNote is returned for a note with no content.
	ErrEmptyNote = errors.New("flomo: empty note")
)

// FlomoError is a response with a non-zero code.
type FlomoError struct {
	Code    int
	Message string
}

func (e *FlomoError) Error() string {
	return fmt.Sprintf("flomo: %s (code %d)", e.Message, e.Code)
}

// compatibility check
var _ repository.Note = (*Flomo)(nil)

// Flomo writes memos through a flomo incoming webhook.
type Flomo struct {
	webhookURL string
	client     *httpclient.Client
}

// NewFlomo returns a Flomo client.
func NewFlomo(webhookURL string, client *httpclient.Client) *Flomo {
	return &Flomo{
		webhookURL: webhookURL,
		client:     client,
	}
}

type flomoRequest struct {
	Content string `json:"content"`
}

type flomoResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Memo    *struct {
		Slug string `json:"slug"`
	} `json:"memo"`
}

// Write sends the rendered note.
func (f *Flomo) Write(ctx context.Context, note model.Note) (*model.NoteReceipt, error) {
	if f.webhookURL == "" {
		return nil, ErrMissingFlomoURL
	}
	if strings.TrimSpace(note.Content) == "" {
		return nil, ErrEmptyNote
	}
	content := note.Render()
	var resp flomoResponse
	if err := f.client.PostJSON(ctx, upstreamFlomo, f.webhookURL, flomoRequest{Content: content}, &resp); err != nil {
		return nil, err
	}
	if resp.Code != 0 {
		return nil, &FlomoError{Code: resp.Code, Message: resp.Message}
	}
	receipt := &model.NoteReceipt{Message: resp.Message}
	if resp.Memo != nil {
		receipt.Slug = resp.Memo.Slug
	}
	return receipt, nil
}
