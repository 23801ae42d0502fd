package localfs

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Storage keeps uploaded blobs on the local filesystem. The blob reference is
// "<uuid>_<sanitized filename>" so the original name round-trips with Get.
type Storage struct {
	basePath string
}

func New(basePath string) (*Storage, error) {
	if basePath == "" {
		basePath = "./data/storage"
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &Storage{basePath: basePath}, nil
}

func (s *Storage) Put(_ context.Context, name string, data io.Reader) (string, error) {
	ref := uuid.NewString() + "_" + sanitizeFilename(name)
	path := filepath.Join(s.basePath, ref)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create blob file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, data); err != nil {
		return "", fmt.Errorf("write blob file: %w", err)
	}
	return ref, nil
}

func (s *Storage) Get(_ context.Context, ref string) ([]byte, string, error) {
	if !validRef(ref) {
		return nil, "", fmt.Errorf("invalid blob ref: %q", ref)
	}

	data, err := os.ReadFile(filepath.Join(s.basePath, ref))
	if err != nil {
		return nil, "", fmt.Errorf("read blob file: %w", err)
	}
	return data, originalName(ref), nil
}

// validRef rejects anything that could escape the storage directory.
func validRef(ref string) bool {
	return ref != "" && ref == filepath.Base(ref) && !strings.Contains(ref, "..")
}

func originalName(ref string) string {
	if _, name, ok := strings.Cut(ref, "_"); ok {
		return name
	}
	return ref
}

func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	var sb strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			sb.WriteRune(r)
		case r == '.', r == '-':
			sb.WriteRune(r)
		default:
			sb.WriteRune('_')
		}
	}
	out := sb.String()
	if out == "" || out == "." || out == ".." {
		return "upload.bin"
	}
	return out
}
