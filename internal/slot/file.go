package slot

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
)

var validName = regexp.MustCompile(`^[a-zA-Z0-9._-]+$`)

// Dir хранит каждый слот отдельным JSON-файлом в каталоге.
type Dir struct {
	path string
}

func NewDir(path string) (*Dir, error) {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, fmt.Errorf("создание каталога слотов: %w", err)
	}
	return &Dir{path: path}, nil
}

func (d *Dir) file(name string) (string, error) {
	if !validName.MatchString(name) {
		return "", fmt.Errorf("недопустимое имя слота %q", name)
	}
	return filepath.Join(d.path, name+".json"), nil
}

func (d *Dir) Load(_ context.Context, name string) ([]byte, error) {
	path, err := d.file(name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("чтение слота %s: %w", name, err)
	}
	return data, nil
}

// Save пишет во временный файл и переименовывает, чтобы не оставить полузаписанный слот.
func (d *Dir) Save(_ context.Context, name string, data []byte) error {
	path, err := d.file(name)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(d.path, name+".*.tmp")
	if err != nil {
		return fmt.Errorf("запись слота %s: %w", name, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("запись слота %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("запись слота %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("запись слота %s: %w", name, err)
	}
	return nil
}

func (d *Dir) Close() error {
	return nil
}
