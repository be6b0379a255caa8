package service

import (
	"os"
	"sync"

	"github.com/ekisa-team/narrate/internal/backend"
	"github.com/ekisa-team/narrate/internal/xfs"
)

// Audio is a synthesized MP3 held in a temporary file owned by one request.
// Close deletes the file; it never fails.
type Audio struct {
	ID       string
	Path     string
	Size     int64
	Voice    string
	Metadata *backend.ResponseMetadata

	once sync.Once
}

// Open opens the audio file for reading.
func (a *Audio) Open() (*os.File, error) {
	return os.Open(a.Path)
}

// Close removes the temporary file. Removal errors are swallowed.
func (a *Audio) Close() error {
	a.once.Do(func() { xfs.RemoveQuietly(a.Path) })
	return nil
}
