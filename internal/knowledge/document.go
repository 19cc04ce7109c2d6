// Package knowledge loads the markdown knowledge base shared by the ingest
// command and the in-memory search backend.
package knowledge

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

const frontMatterDelimiter = "---"

var ErrMissingDatasetID = errors.New("knowledge: document has no dataset_id")

// Document is one markdown file of the knowledge base.
type Document struct {
	Source    string `yaml:"-"`
	Title     string `yaml:"title"`
	DatasetID string `yaml:"dataset_id"`
	Body      string `yaml:"-"`
}

// LoadDir reads every .md file under dir, sorted by path.
// defaultDatasetID is used for documents whose front matter has none.
func LoadDir(dir, defaultDatasetID string) ([]Document, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".md") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("knowledge: walk %s: %w", dir, err)
	}
	sort.Strings(paths)

	docs := make([]Document, 0, len(paths))
	for _, path := range paths {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("knowledge: read %s: %w", path, err)
		}

		doc, err := Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("knowledge: parse %s: %w", path, err)
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			rel = path
		}
		doc.Source = filepath.ToSlash(rel)
		if doc.Title == "" {
			doc.Title = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		}
		if doc.DatasetID == "" {
			doc.DatasetID = defaultDatasetID
		}
		if doc.DatasetID == "" {
			return nil, fmt.Errorf("%s: %w", path, ErrMissingDatasetID)
		}
		docs = append(docs, doc)
	}

	return docs, nil
}

// Parse splits optional YAML front matter from the markdown body.
func Parse(raw []byte) (Document, error) {
	var doc Document

	text := string(bytes.TrimPrefix(raw, []byte("\ufeff")))
	text = strings.ReplaceAll(text, "\r\n", "\n")
	if !strings.HasPrefix(text, frontMatterDelimiter+"\n") {
		doc.Body = strings.TrimSpace(text)
		return doc, nil
	}

	rest := text[len(frontMatterDelimiter)+1:]
	end := strings.Index(rest, "\n"+frontMatterDelimiter)
	if end < 0 {
		return doc, errors.New("unterminated front matter")
	}

	if err := yaml.Unmarshal([]byte(rest[:end]), &doc); err != nil {
		return doc, err
	}

	body := rest[end+len(frontMatterDelimiter)+1:]
	doc.Body = strings.TrimSpace(body)
	return doc, nil
}
