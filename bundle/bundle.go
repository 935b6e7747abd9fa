// Package bundle turns clone output into the {filename: bytes} payloads the
// packaging layer archives. The core never writes archives to disk itself;
// it only supplies byte payloads.
package bundle

import (
	"archive/zip"
	"bytes"
	"fmt"
	"html/template"
	"sort"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Page is one rewritten page entering a bundle.
type Page struct {
	URL     string
	Title   string
	HTML    string
	Changes []string
}

// titlePolicy strips all markup from page titles before they are embedded
// in the generated index. Titles come from fetched third-party HTML and are
// untrusted.
var titlePolicy = bluemonday.StrictPolicy()

var indexTemplate = template.Must(template.New("index").Parse(`<!doctype html>
<html><head><meta charset="utf-8"><title>AgeLens Batch Clone</title></head>
<body><h1>Age-Friendly Batch Clone</h1><ul>
{{range .}}<li><a href="{{.File}}">{{.Label}}</a> &mdash; {{.URL}}</li>
{{end}}</ul></body></html>
`))

type indexEntry struct {
	File  string
	Label string
	URL   string
}

// Build produces the file map for a batch of cloned pages: page_N.html for
// each page, changelogs/page_N.html.txt with its change log, and an
// index.html linking them all.
func Build(pages []Page) map[string][]byte {
	files := make(map[string][]byte, 2*len(pages)+1)
	entries := make([]indexEntry, 0, len(pages))

	for i, p := range pages {
		name := fmt.Sprintf("page_%d.html", i+1)
		files[name] = []byte(p.HTML)

		log := strings.Join(p.Changes, "\n")
		if log == "" {
			log = "No changes"
		}
		files["changelogs/"+name+".txt"] = []byte(log)

		label := strings.TrimSpace(titlePolicy.Sanitize(p.Title))
		if label == "" {
			label = p.URL
		}
		entries = append(entries, indexEntry{File: name, Label: label, URL: p.URL})
	}

	var buf bytes.Buffer
	if err := indexTemplate.Execute(&buf, entries); err == nil {
		files["index.html"] = buf.Bytes()
	}
	return files
}

// Single produces the file map for one cloned page, using the fixed
// filenames the download UI expects.
func Single(p Page) map[string][]byte {
	log := strings.Join(p.Changes, "\n")
	if log == "" {
		log = "No changes"
	}
	return map[string][]byte{
		"index_age_friendly.html": []byte(p.HTML),
		"AGELENS_CHANGELOG.txt":   []byte(log),
	}
}

// Zip packs a file map into a zip archive. Entries are written in sorted
// path order so identical input yields identical bytes.
func Zip(files map[string][]byte) ([]byte, error) {
	paths := make([]string, 0, len(files))
	for p := range files {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, p := range paths {
		f, err := w.Create(p)
		if err != nil {
			return nil, fmt.Errorf("zip create %s: %w", p, err)
		}
		if _, err := f.Write(files[p]); err != nil {
			return nil, fmt.Errorf("zip write %s: %w", p, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("zip close: %w", err)
	}
	return buf.Bytes(), nil
}
