package entropy

import (
	"github.com/google/uuid"
)

// reader adapts a Source to io.Reader so uuid generation stays on the
// injected stream.
type reader struct {
	src Source
}

func (r reader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = byte(r.src.IntN(256))
	}
	return len(p), nil
}

// NewID returns a version-4 UUID drawn from src. Seeded sources produce the
// same IDs on replay.
func NewID(src Source) string {
	id, err := uuid.NewRandomFromReader(reader{src: src})
	if err != nil {
		// reader never fails
		return uuid.NewString()
	}
	return id.String()
}
