package source

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mpetrun5/rag-docs/internal/domain"
	"github.com/mpetrun5/rag-docs/internal/errors"
	"github.com/mpetrun5/rag-docs/internal/logger"
	"github.com/mpetrun5/rag-docs/internal/validator"
)

// batchFile is the on-disk shape written by the scraper: either a bare
// JSON array of documents or an object with a "documents" key.
type batchFile struct {
	Documents []domain.Document `json:"documents"`
}

// LoadFile reads one scraper output file. Documents that fail validation
// are logged and skipped; the rest load normally.
func LoadFile(path string) ([]domain.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeNotFound, fmt.Sprintf("reading document file %s", path))
	}

	docs, err := decodeDocuments(data)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeValidation, fmt.Sprintf("parsing document file %s", path))
	}

	valid := make([]domain.Document, 0, len(docs))
	for i, doc := range docs {
		if err := validator.ValidateDocument(doc); err != nil {
			logger.Warn("Skipping invalid document",
				"file", path, "index", i, "url", doc.URL, "error", err)
			continue
		}
		if doc.ContentType == "" {
			doc.ContentType = domain.ContentTypeGeneral
		}
		valid = append(valid, doc)
	}

	logger.Info("Loaded document file", "file", path, "documents", len(valid), "skipped", len(docs)-len(valid))
	return valid, nil
}

// LoadDir loads every .json file in the spool directory, sorted by name so
// repeated runs see the same order.
func LoadDir(dir string) ([]domain.Document, error) {
	if err := validator.ValidateDirPath(dir); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeInternal, fmt.Sprintf("reading spool directory %s", dir))
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	var docs []domain.Document
	for _, name := range names {
		fileDocs, err := LoadFile(filepath.Join(dir, name))
		if err != nil {
			logger.Error("Skipping unreadable document file", "file", name, "error", err)
			continue
		}
		docs = append(docs, fileDocs...)
	}

	return docs, nil
}

func decodeDocuments(data []byte) ([]domain.Document, error) {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		var docs []domain.Document
		if err := json.Unmarshal(data, &docs); err != nil {
			return nil, err
		}
		return docs, nil
	}

	var batch batchFile
	if err := json.Unmarshal(data, &batch); err != nil {
		return nil, err
	}
	return batch.Documents, nil
}
