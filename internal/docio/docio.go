// Package docio reads GeoJSON documents from files, stdin or URLs and writes them
// back as JSON or YAML.
package docio

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/tdewolff/minify/v2"
	jsonmin "github.com/tdewolff/minify/v2/json"
	"github.com/tidwall/pretty"
	"gopkg.in/yaml.v3"

	"github.com/woozymasta/geodoc/internal/config"
	"github.com/woozymasta/geodoc/internal/geo"
)

// Stdin and Stdout back the "-" source and destination.
var (
	Stdin  io.Reader = os.Stdin
	Stdout io.Writer = os.Stdout
)

// NewClient returns the HTTP client used for remote documents.
func NewClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			TLSNextProto:        make(map[string]func(string, *tls.Conn) http.RoundTripper),
			MaxIdleConns:        10,
			MaxIdleConnsPerHost: 10,
		},
		Timeout: timeout,
	}
}

// IsRemote reports whether src is an http(s) URL.
func IsRemote(src string) bool {
	return strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://")
}

// DetectFormat returns the format implied by the extension of path.
func DetectFormat(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return config.FormatYAML
	default:
		return config.FormatJSON
	}
}

// Read returns the raw content of src: a file path, "-" for stdin or an http(s) URL.
func Read(ctx context.Context, client *http.Client, src string) ([]byte, error) {
	var (
		data []byte
		err  error
	)

	switch {
	case src == "-":
		data, err = io.ReadAll(Stdin)
	case IsRemote(src):
		data, err = fetch(ctx, client, src)
	default:
		data, err = os.ReadFile(src)
	}
	if err != nil {
		return nil, err
	}

	log.Debug().Str("source", src).Int("bytes", len(data)).Msg("Document read")

	return data, nil
}

func fetch(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/geo+json, application/json, application/yaml")

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	// Explicitly ignore close error as it's a read-only operation
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: status %d", url, resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}

// Decode parses data in the given format into a model object.
func Decode(data []byte, format string) (geo.Object, error) {
	if format != config.FormatYAML {
		return geo.Parse(data)
	}

	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", geo.ErrInvalidFormat, err)
	}

	return geo.ObjectFromJSON(doc)
}

// Load reads and decodes src. An empty format is detected from the source name.
func Load(ctx context.Context, client *http.Client, src, format string) (geo.Object, error) {
	if format == "" {
		format = DetectFormat(src)
	}

	data, err := Read(ctx, client, src)
	if err != nil {
		return nil, err
	}

	o, err := Decode(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", src, err)
	}

	return o, nil
}

// WriteOptions control the encoding of an output document.
type WriteOptions struct {
	Format string
	Indent int
	Pretty bool
	Minify bool
}

// OptionsFromConfig returns the output options of cfg.
func OptionsFromConfig(cfg *config.Config) WriteOptions {
	return WriteOptions{
		Format: cfg.Format,
		Indent: cfg.Indent,
		Pretty: cfg.Pretty,
		Minify: cfg.Minify,
	}
}

// Encode serializes v, usually the result of ToJSON or Record. Output ends with a newline.
func Encode(v any, opts WriteOptions) ([]byte, error) {
	if opts.Format == config.FormatYAML {
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(max(opts.Indent, 2))
		if err := enc.Encode(v); err != nil {
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}

	switch {
	case opts.Minify:
		m := minify.New()
		m.AddFunc("application/json", jsonmin.Minify)
		data, err = m.Bytes("application/json", data)
		if err != nil {
			return nil, err
		}
	case opts.Pretty:
		return pretty.PrettyOptions(data, &pretty.Options{
			Width:  80,
			Indent: strings.Repeat(" ", max(opts.Indent, 1)),
		}), nil
	case opts.Indent > 0:
		var buf bytes.Buffer
		if err := json.Indent(&buf, data, "", strings.Repeat(" ", opts.Indent)); err != nil {
			return nil, err
		}
		data = buf.Bytes()
	}

	return append(data, '\n'), nil
}

// Write stores data at dst, creating parent directories. An empty dst or "-" is stdout.
func Write(dst string, data []byte) error {
	if dst == "" || dst == "-" {
		_, err := Stdout.Write(data)
		return err
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}

	f, err := os.Create(dst)
	if err != nil {
		return err
	}

	// We care about write errors on close
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			log.Error().Err(closeErr).Str("path", dst).Msg("Failed to close file")
		}
	}()

	if _, err := f.Write(data); err != nil {
		return err
	}

	log.Debug().Str("path", dst).Int("bytes", len(data)).Msg("Document written")

	return nil
}
