package sceneio

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/benchray/benchray/pkg/scene"
)

// MarshalScene converts an arena to JSON bytes.
// Elements are sorted by ID for deterministic output.
func MarshalScene(s *scene.Scene, name string) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeSceneTo(s, name, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteScene writes an arena as indented JSON to w.
func WriteScene(s *scene.Scene, name string, w io.Writer) error {
	return writeSceneTo(s, name, w)
}

// WriteSceneFile writes an arena to a JSON file at path.
func WriteSceneFile(s *scene.Scene, name, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return writeSceneTo(s, name, f)
}

// ReadScene decodes a JSON scene document from r and rebuilds the arena.
// Returns validation errors for malformed documents, unknown ray models,
// unknown parent references, or arena invariant violations.
func ReadScene(r io.Reader) (*scene.Scene, Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, Document{}, fmt.Errorf("decode: %w", err)
	}
	s, err := doc.ToScene()
	if err != nil {
		return nil, Document{}, err
	}
	return s, doc, nil
}

// ReadSceneFile reads a JSON file at path and rebuilds the arena.
func ReadSceneFile(path string) (*scene.Scene, Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, Document{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadScene(f)
}

func writeSceneTo(s *scene.Scene, name string, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(FromScene(s, name)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}
