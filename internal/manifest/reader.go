package manifest

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// FileReader abstracts reading files from disk.
type FileReader interface {
	ReadFile(path string) ([]byte, error)
}

type osFileReader struct{}

func (osFileReader) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// Reader loads package.json from a project root.
type Reader struct {
	fileReader FileReader
}

// NewReader constructs a Reader. A nil FileReader falls back to the operating system.
func NewReader(fileReader FileReader) *Reader {
	if fileReader == nil {
		fileReader = osFileReader{}
	}
	return &Reader{fileReader: fileReader}
}

// Read parses package.json under root.
func (reader *Reader) Read(root string) (Manifest, error) {
	manifestPath := filepath.Join(root, FileNameConstant)
	contents, readError := reader.fileReader.ReadFile(manifestPath)
	if readError != nil {
		if errors.Is(readError, fs.ErrNotExist) {
			return Manifest{}, ErrManifestAbsent
		}
		return Manifest{}, ManifestError{Path: manifestPath, Cause: readError}
	}
	return Parse(manifestPath, contents)
}

// Parse decodes manifest contents; path is used only for error reporting.
func Parse(path string, contents []byte) (Manifest, error) {
	var parsed Manifest
	if decodeError := json.Unmarshal(contents, &parsed); decodeError != nil {
		return Manifest{}, ManifestError{Path: path, Cause: decodeError}
	}
	return parsed, nil
}
