package materialize

//go:generate mockgen -source=backend.go -destination=backend_mock.go -package=materialize

import (
	"context"
)

// DefaultImageAttributes are requested when regenerating a result by identifier.
// The empty name selects the object data itself.
var DefaultImageAttributes = []string{"", "_rows.int", "_cols.int"}

// ObjectID is an opaque identifier issued by the backend. It is never minted locally.
type ObjectID string

// Result is what the backend returns for one object.
type Result struct {
	// Data is the encoded image.
	Data []byte
	// Attributes holds any other requested attributes by name.
	Attributes map[string][]byte
}

// Backend regenerates result objects. Implementations must be safe for concurrent use.
type Backend interface {
	// GenerateResult fetches the object named by id, restricted to attrs.
	GenerateResult(ctx context.Context, id ObjectID, attrs []string) (*Result, error)

	// GenerateResultFromBytes runs an externally supplied object through the backend.
	GenerateResultFromBytes(ctx context.Context, data []byte, attrs []string) (*Result, error)
}
