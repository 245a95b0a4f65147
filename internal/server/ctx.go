package server

import (
	"net/http"
	"os"
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/woozymasta/geodoc/internal/config"
	"github.com/woozymasta/geodoc/internal/docio"
)

// ServerContext holds dependencies for request handlers.
type ServerContext struct {
	Config               *config.Config
	Client               *http.Client
	DocumentNameResolver map[string]string
	documents            map[string]config.Document
}

// NewServerContext initializes the context and processes the document list.
// It filters out local documents whose file is missing and sets up the name resolver.
func NewServerContext(cfg *config.Config, client *http.Client) *ServerContext {
	log.Info().Int("config_documents_count", len(cfg.Documents)).Msg("Initializing server context")

	resolver := make(map[string]string)
	documents := make(map[string]config.Document, len(cfg.Documents))
	valid := make([]config.Document, 0, len(cfg.Documents))

	for _, doc := range cfg.Documents {
		switch {
		case doc.Source == "-":
			log.Warn().Str("document", doc.Name).Msg("Skipping document: stdin cannot be served")
			continue
		case !docio.IsRemote(doc.Source):
			if info, err := os.Stat(doc.Source); err != nil || info.IsDir() {
				log.Warn().
					Str("document", doc.Name).
					Str("path", doc.Source).
					Msg("Skipping document: file not found")
				continue
			}
		}

		resolver[doc.Name] = doc.Name
		for _, alias := range doc.Aliases {
			resolver[alias] = doc.Name
		}
		documents[doc.Name] = doc

		log.Debug().
			Str("document", doc.Name).
			Bool("remote", docio.IsRemote(doc.Source)).
			Msg("Document validated and added to context")

		valid = append(valid, doc)
	}

	sort.Slice(valid, func(i, j int) bool {
		idxI, idxJ := 999999, 999999
		if valid[i].Index != nil {
			idxI = *valid[i].Index
		}
		if valid[j].Index != nil {
			idxJ = *valid[j].Index
		}
		if idxI != idxJ {
			return idxI < idxJ
		}

		return valid[i].Name < valid[j].Name
	})
	cfg.Documents = valid

	log.Info().
		Int("valid_documents_count", len(cfg.Documents)).
		Msg("Server context initialized successfully")

	return &ServerContext{
		Config:               cfg,
		Client:               client,
		DocumentNameResolver: resolver,
		documents:            documents,
	}
}

// lookup resolves a document name or alias.
func (s *ServerContext) lookup(name string) (config.Document, bool) {
	canonical, ok := s.DocumentNameResolver[name]
	if !ok {
		return config.Document{}, false
	}
	doc, ok := s.documents[canonical]

	return doc, ok
}

// Handler returns the routes of the server wrapped in RequestLogger.
func (s *ServerContext) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/documents", s.HandleDocumentsList)
	mux.HandleFunc("/api/bbox", s.HandleBBox)
	mux.HandleFunc("/documents/", s.HandleDocument)

	return RequestLogger(mux)
}
