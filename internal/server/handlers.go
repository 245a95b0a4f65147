// Package server handles HTTP requests and middleware.
package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/woozymasta/geodoc/internal/config"
	"github.com/woozymasta/geodoc/internal/docio"
	"github.com/woozymasta/geodoc/internal/geo"
	"github.com/woozymasta/geodoc/internal/processor"
)

const (
	etagCap = 64
	// maxBodySize limits documents posted to the API.
	maxBodySize = 16 << 20
)

// HandleDocumentsList serves the JSON list of available documents.
func (s *ServerContext) HandleDocumentsList(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	// Ignoring error as we cannot handle client disconnects
	_ = json.NewEncoder(w).Encode(s.Config.Documents)
}

// HandleDocument serves a configured document.
//
// Paths: /documents/{name} returns the document, /documents/{name}/summary its summary.
// The "bbox" query parameter selects the bbox policy and "format" json or yaml.
func (s *ServerContext) HandleDocument(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	// Path: /documents/{name}[/summary]
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) < 2 || len(parts) > 3 || (len(parts) == 3 && parts[2] != "summary") {
		http.NotFound(w, r)
		return
	}

	doc, ok := s.lookup(parts[1])
	if !ok {
		http.NotFound(w, r)
		return
	}

	opts, policy, err := s.writeOptions(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	summary := len(parts) == 3
	variant := opts.Format + "-" + policy.String()
	if summary {
		variant = "summary-" + opts.Format
	}

	etag, hasETag := fileETag(doc.Source, variant)
	if hasETag {
		// check If-None-Match (client sent ETag)
		if match := r.Header.Get("If-None-Match"); match == etag {
			w.WriteHeader(http.StatusNotModified)
			return
		}
	}

	o, err := docio.Load(r.Context(), s.Client, doc.Source, "")
	if err != nil {
		log.Error().Err(err).Str("document", doc.Name).Msg("Failed to load document")
		http.Error(w, "document unavailable", http.StatusBadGateway)
		return
	}

	var v any = o.ToJSON(policy)
	if summary {
		v = processor.Summarize(o)
	}

	data, err := docio.Encode(v, opts)
	if err != nil {
		log.Error().Err(err).Str("document", doc.Name).Msg("Failed to encode document")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	if hasETag {
		w.Header().Set("ETag", etag)
	}
	w.Header().Set("Cache-Control", "public, no-cache")
	writeDocument(w, r, data, opts.Format)
}

// HandleBBox computes the boxes of a posted document at every level and returns the
// patched document with all other members untouched.
func (s *ServerContext) HandleBBox(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	opts, _, err := s.writeOptions(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		status := http.StatusBadRequest
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		http.Error(w, err.Error(), status)
		return
	}

	format := config.FormatJSON
	if strings.Contains(r.Header.Get("Content-Type"), "yaml") {
		format = config.FormatYAML
	}

	o, err := docio.Decode(body, format)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, geo.ErrInvalidGeometry) {
			status = http.StatusUnprocessableEntity
		}
		http.Error(w, err.Error(), status)
		return
	}

	geo.ComputeBBoxes(o)
	o.Save()

	data, err := docio.Encode(o.Record(), opts)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	writeDocument(w, r, data, opts.Format)
}

// writeOptions returns the output options and bbox policy of a request, starting from
// the configured defaults.
func (s *ServerContext) writeOptions(r *http.Request) (docio.WriteOptions, geo.BBoxPolicy, error) {
	opts := docio.OptionsFromConfig(s.Config)
	policy := s.Config.Policy()

	q := r.URL.Query()
	if name := q.Get("bbox"); name != "" {
		p, err := config.ParsePolicy(name)
		if err != nil {
			return opts, policy, err
		}
		policy = p
	}

	switch f := q.Get("format"); f {
	case "":
	case config.FormatJSON, config.FormatYAML:
		opts.Format = f
	default:
		return opts, policy, errors.New("unknown format " + strconv.Quote(f))
	}

	return opts, policy, nil
}

func writeDocument(w http.ResponseWriter, r *http.Request, data []byte, format string) {
	if format == config.FormatYAML {
		w.Header().Set("Content-Type", "application/yaml")
	} else {
		w.Header().Set("Content-Type", "application/geo+json")
	}
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))

	if r.Method == http.MethodHead {
		return
	}
	_, _ = w.Write(data)
}

// fileETag builds an ETag from the size and modification time of a local source and the
// response variant. Remote sources have no ETag.
func fileETag(path, variant string) (string, bool) {
	if docio.IsRemote(path) {
		return "", false
	}

	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "", false
	}

	buf := make([]byte, 0, etagCap)
	buf = append(buf, '"')
	buf = strconv.AppendInt(buf, info.Size(), 16)
	buf = append(buf, '-')
	buf = strconv.AppendInt(buf, info.ModTime().UnixNano(), 16)
	buf = append(buf, '-')
	buf = append(buf, variant...)
	buf = append(buf, '"')

	return string(buf), true
}
