package importer

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

var ErrCollectionNotFound = errors.New("serialized collection not found")

// ManifestFile is written next to the collections and is never imported.
const ManifestFile = "manifest.json"

// Source yields serialized collections by name.
type Source interface {
	List() ([]string, error)
	Load(name string) ([]interface{}, error)
}

// DirSource reads one <collection>.json array per collection from Dir.
type DirSource struct {
	Dir string
}

func NewDirSource(dir string) *DirSource {
	return &DirSource{Dir: dir}
}

// List returns every collection in Dir, sorted by name.
func (s *DirSource) List() ([]string, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read data dir: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || e.Name() == ManifestFile || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ".json"))
	}
	sort.Strings(names)
	return names, nil
}

// Load decodes the collection keeping numbers as json.Number, so integers
// survive until the normalizer picks their Go type.
func (s *DirSource) Load(name string) ([]interface{}, error) {
	path := filepath.Join(s.Dir, name+".json")
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrCollectionNotFound, path)
		}
		return nil, err
	}
	defer f.Close()

	dec := json.NewDecoder(f)
	dec.UseNumber()
	var docs []interface{}
	if err := dec.Decode(&docs); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return docs, nil
}
