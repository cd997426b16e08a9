package persistence

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	xdr "github.com/nullstyle/go-xdr/xdr3"
)

// MetadataVersion is the current version of the sidecar format.
const MetadataVersion = 1

// ErrMetadataMissing is returned when the metadata file is missing.
var ErrMetadataMissing = errors.New("metadata file is missing")

// Metadata describes a packed stream. It is persisted next to the output
// file, xdr encoded.
type Metadata struct {
	Version    uint32
	TotalBits  uint64
	TotalBytes uint64
	Chunks     uint64
	Capacity   uint64
	Compressed bool
	Digest     []byte
}

// MetadataFilename returns the sidecar filename for the given output file.
func MetadataFilename(filename string) string {
	return filename + ".meta"
}

func PersistMetadata(filename string, m *Metadata) error {
	var w bytes.Buffer
	if _, err := xdr.Marshal(&w, m); err != nil {
		return fmt.Errorf("serialization failure: %w", err)
	}

	if err := os.WriteFile(MetadataFilename(filename), w.Bytes(), OwnerReadWrite); err != nil {
		return fmt.Errorf("write to disk failure: %w", err)
	}

	return nil
}

func LoadMetadata(filename string) (*Metadata, error) {
	data, err := os.ReadFile(MetadataFilename(filename))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrMetadataMissing
		}
		return nil, fmt.Errorf("read file failure: %w", err)
	}

	m := &Metadata{}
	if _, err := xdr.Unmarshal(bytes.NewReader(data), m); err != nil {
		return nil, fmt.Errorf("deserialization failure: %w", err)
	}

	if m.Version != MetadataVersion {
		return nil, fmt.Errorf("unsupported metadata version: %d", m.Version)
	}

	return m, nil
}
