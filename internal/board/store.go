// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package board

import "context"

// Repository persists boards between requests.
//
// Implementations store only source state; a loaded board recomputes its
// derived list on first read. Get returns apperr.NotFound for unknown or
// expired boards.
type Repository interface {
	Get(ctx context.Context, id string) (*Board, error)
	Save(ctx context.Context, board *Board) error
	Delete(ctx context.Context, id string) error
}
