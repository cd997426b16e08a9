package persistence

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMetadata(t *testing.T) {
	req := require.New(t)
	filename := filepath.Join(t.TempDir(), "out.bin")

	m := &Metadata{
		Version:    MetadataVersion,
		TotalBits:  1000,
		TotalBytes: 125,
		Chunks:     3,
		Capacity:   64,
		Compressed: true,
		Digest:     []byte{0xDE, 0xAD, 0xBE, 0xEF},
	}
	req.NoError(PersistMetadata(filename, m))

	got, err := LoadMetadata(filename)
	req.NoError(err)
	req.Equal(m, got)
}

func TestMetadata_Missing(t *testing.T) {
	_, err := LoadMetadata(filepath.Join(t.TempDir(), "out.bin"))
	require.ErrorIs(t, err, ErrMetadataMissing)
}

func TestMetadata_Corrupted(t *testing.T) {
	req := require.New(t)
	filename := filepath.Join(t.TempDir(), "out.bin")
	req.NoError(os.WriteFile(MetadataFilename(filename), []byte{0x00, 0x01}, OwnerReadWrite))

	_, err := LoadMetadata(filename)
	req.Error(err)
	req.NotErrorIs(err, ErrMetadataMissing)
}

func TestMetadata_Version(t *testing.T) {
	req := require.New(t)
	filename := filepath.Join(t.TempDir(), "out.bin")
	req.NoError(PersistMetadata(filename, &Metadata{Version: MetadataVersion + 1}))

	_, err := LoadMetadata(filename)
	req.ErrorContains(err, "unsupported metadata version")
}
