package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/kvsearch/ftidx/core/ftindex"
)

var docsJSON = jsoniter.ConfigCompatibleWithStandardLibrary

// docRecord is the on-disk shape of one --docs ndjson line.
type docRecord struct {
	Key     string            `json:"key"`
	Score   float64           `json:"score"`
	Payload string            `json:"payload"`
	Fields  map[string]string `json:"fields"`
}

// loadDocs reads a newline-delimited JSON file into Documents, skipping
// blank lines. Field order within a record is not significant to this
// core, so the map form is adequate for a batch-loading tool.
func loadDocs(path string) ([]ftindex.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening docs %q: %w", path, err)
	}
	defer f.Close()

	var out []ftindex.Document
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}

		var rec docRecord
		if err := docsJSON.Unmarshal([]byte(line), &rec); err != nil {
			return nil, fmt.Errorf("docs %q line %d: %w", path, lineNo, err)
		}

		doc := ftindex.Document{Key: rec.Key, Score: rec.Score}
		if rec.Payload != "" {
			doc.Payload = []byte(rec.Payload)
			doc.HasPayload = true
		}
		for name, text := range rec.Fields {
			doc.Fields = append(doc.Fields, ftindex.Field{Name: name, Text: text})
		}
		out = append(out, doc)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading docs %q: %w", path, err)
	}
	return out, nil
}
