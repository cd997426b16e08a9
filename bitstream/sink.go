package bitstream

// Sink receives the packed output. Chunks arrive in write order and their
// concatenation is the whole stream; boundaries between chunks carry no
// meaning. A chunk is never modified by the Packer once handed over, and may
// be empty. End is called exactly once, after the final chunk.
type Sink interface {
	Accept(chunk []byte) error
	End() error
}
