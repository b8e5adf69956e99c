package materialize

import (
	"encoding/binary"
	"strconv"
)

// intAttribute reads a "*.int" attribute. Backends send either a 4-byte
// native-endian integer or its decimal text.
func intAttribute(res *Result, name string) (int, bool) {
	raw, ok := res.Attributes[name]
	if !ok {
		return 0, false
	}

	if len(raw) == 4 {
		return int(int32(binary.NativeEndian.Uint32(raw))), true
	}

	n, err := strconv.Atoi(string(raw))
	if err != nil {
		return 0, false
	}

	return n, true
}

// IntAttribute encodes n the way intAttribute reads it.
func IntAttribute(n int) []byte {
	return []byte(strconv.Itoa(n))
}
