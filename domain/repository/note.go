package repository

import (
	"context"

	"github.com/miyamo2/amap-flomo-mcp/domain/model"
)

type Note interface {
	Write(ctx context.Context, note model.Note) (*model.NoteReceipt, error)
}
