package ports

import "context"

// ProgramStore persists the encoded study program (see codec.Value).
//
// Load reports ok=false when nothing has been stored yet. Any other failure to
// reach the backing store is an error of kind storage; undecodable bytes are
// an error of kind malformed.
type ProgramStore interface {
	Load(ctx context.Context) (doc map[string]any, ok bool, err error)
	Save(ctx context.Context, doc map[string]any) error
}

// StoreCloser is implemented by stores holding a connection.
type StoreCloser interface {
	ProgramStore
	Close() error
}
