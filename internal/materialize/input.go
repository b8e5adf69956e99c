package materialize

import "fmt"

type inputKind uint8

const (
	kindID inputKind = iota
	kindBytes
)

// Input names what to materialize: either a backend object or raw bytes.
// Build one with FromID or FromBytes.
type Input struct {
	ID   ObjectID
	Data []byte
	// Name labels a by-bytes input in logs and errors, typically its source path.
	Name string

	kind inputKind
}

// FromID returns an input for a backend object.
func FromID(id ObjectID) Input {
	return Input{ID: id, kind: kindID}
}

// FromBytes returns an input for raw object bytes. Nil data is still a
// by-bytes input and fails as empty data.
func FromBytes(name string, data []byte) Input {
	return Input{Data: data, Name: name, kind: kindBytes}
}

// IsBytes reports whether the input carries its own data.
func (in Input) IsBytes() bool {
	return in.kind == kindBytes
}

func (in Input) String() string {
	if !in.IsBytes() {
		return string(in.ID)
	}

	if in.Name != "" {
		return in.Name
	}

	return fmt.Sprintf("<%d bytes>", len(in.Data))
}
