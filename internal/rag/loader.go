// Package rag indexes the internal documentation folder and serves it to the
// lookup_docs tool through an eino retriever.
package rag

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cloudwego/eino/schema"

	logx "github.com/netops-assistant/server/pkg/logger"
)

// MetaSource holds the path of the file a document or chunk came from,
// relative to the docs directory.
const MetaSource = "source"

var loadableExt = map[string]bool{".txt": true, ".md": true}

// LoadDir reads every .txt and .md file under dir, recursively.
func LoadDir(dir string) ([]*schema.Document, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("docs dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("docs dir: %s is not a directory", dir)
	}

	var docs []*schema.Document
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !loadableExt[strings.ToLower(filepath.Ext(path))] {
			return nil
		}
		raw, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		content := strings.TrimSpace(string(raw))
		if content == "" {
			logx.Debug().Str("path", path).Msg("Skipping empty document")
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			rel = path
		}
		rel = filepath.ToSlash(rel)
		docs = append(docs, &schema.Document{
			ID:       rel,
			Content:  content,
			MetaData: map[string]any{MetaSource: rel},
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
	return docs, nil
}
