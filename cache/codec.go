package cache

import "github.com/dekarrin/rezi"

// MarshalBinary implements encoding.BinaryMarshaler via rezi's recursive
// struct encoder, the same approach the teacher repository uses for its own
// aggregate on-disk types.
func (a Artifact) MarshalBinary() ([]byte, error) {
	return rezi.Enc(a)
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler, decoding a's fields
// from data in place.
func (a *Artifact) UnmarshalBinary(data []byte) error {
	_, err := rezi.Dec(data, a)
	return err
}
