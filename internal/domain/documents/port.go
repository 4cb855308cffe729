package documents

import "context"

// Analyzer port: turns one admitted file into a terminal Result.
// Implementations must not block the caller beyond ctx and must report
// unreadable input as an error rather than panicking.
type Analyzer interface {
	Analyze(ctx context.Context, file FileDescriptor) (*Result, error)
}

// Inspector port: checks that a file's bytes can be analyzed at all.
type Inspector interface {
	Inspect(ctx context.Context, file FileDescriptor) error
}

// Repository port (interface untuk result set per session)
type Repository interface {
	// Append stores results after the existing ones, keeping slice order.
	Append(ctx context.Context, session string, results []Result) error
	// List returns the session's results in insertion order.
	List(ctx context.Context, session string) ([]Result, error)
	Get(ctx context.Context, session string, id DocumentID) (*Result, error)
	// Discard drops everything the session owns.
	Discard(ctx context.Context, session string) error
	// Purge drops every session's results.
	Purge(ctx context.Context) error
	Ping(ctx context.Context) error
}

// BlobStore port (interface untuk staging upload)
type BlobStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	RemovePrefix(ctx context.Context, prefix string) error
	Check(ctx context.Context) error
}
