// Package metadata stores an InvoiceRecord inside a generated PDF and reads it back.
package metadata

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/joseph-ayodele/bl-generator/constants"
	"github.com/joseph-ayodele/bl-generator/internal/common"
	"github.com/joseph-ayodele/bl-generator/internal/entity"
)

const (
	msgMissing = "No embedded JSON metadata found in PDF"
	msgCorrupt = "Error reading PDF"
)

var (
	errNoProperty = errors.New("no custom_json property")
	disableConfig sync.Once
)

// pdfConfig returns a pdfcpu configuration that never touches the user's
// config directory.
func pdfConfig() *model.Configuration {
	disableConfig.Do(api.DisableConfigDir)
	return model.NewDefaultConfiguration()
}

// Embedder embeds and extracts record metadata.
type Embedder struct {
	key    string
	marker string
	schema *jsonschema.Schema
	logger *slog.Logger
}

// NewEmbedder writes records under key. An empty key means constants.MetadataKey.
func NewEmbedder(key string, logger *slog.Logger) (*Embedder, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if key == "" {
		key = constants.MetadataKey
	}
	schema, err := compileSchema()
	if err != nil {
		return nil, common.NewAppError(common.CodeConfig, "compile metadata schema", err)
	}
	return &Embedder{
		key:    key,
		marker: constants.MetadataKeyMarker,
		schema: schema,
		logger: logger,
	}, nil
}

// Embed returns a copy of pdf carrying rec as a JSON document-info property.
func (s *Embedder) Embed(pdf []byte, rec entity.InvoiceRecord) ([]byte, error) {
	payload, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("marshal record: %w", err)
	}

	var out bytes.Buffer
	props := map[string]string{s.key: string(payload)}
	if err := api.AddProperties(bytes.NewReader(pdf), &out, props, pdfConfig()); err != nil {
		return nil, fmt.Errorf("add pdf properties: %w", err)
	}

	s.logger.Debug("metadata.embed.ok", "key", s.key, "payload_bytes", len(payload), "bytes", out.Len())
	return out.Bytes(), nil
}

// Extract reads the record from the first property whose key contains
// "custom_json". A PDF without one, or one pdfcpu cannot read, yields
// common.ErrMissingMetadata; a property that is not a valid record yields
// common.ErrCorruptMetadata.
func (s *Embedder) Extract(pdf []byte) (entity.InvoiceRecord, error) {
	props, err := api.Properties(bytes.NewReader(pdf), pdfConfig())
	if err != nil {
		return entity.InvoiceRecord{}, common.MissingMetadataError(msgMissing, err)
	}

	key, raw, ok := s.find(props)
	if !ok {
		return entity.InvoiceRecord{}, common.MissingMetadataError(msgMissing, errNoProperty)
	}

	rec, err := s.decode(raw)
	if err != nil {
		s.logger.Warn("metadata.extract.corrupt", "key", key, "err", err)
		return entity.InvoiceRecord{}, common.CorruptMetadataError(msgCorrupt, err)
	}

	s.logger.Debug("metadata.extract.ok", "key", key, "invoice_no", rec.InvoiceNo, "goods", len(rec.Goods))
	return rec, nil
}

// find picks the matching property with the smallest key so the choice does
// not depend on map order.
func (s *Embedder) find(props map[string]string) (key, value string, ok bool) {
	for k, v := range props {
		if !strings.Contains(strings.ToLower(k), s.marker) {
			continue
		}
		if !ok || k < key {
			key, value, ok = k, v, true
		}
	}
	return key, value, ok
}

func (s *Embedder) decode(raw string) (entity.InvoiceRecord, error) {
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	var loose any
	if err := dec.Decode(&loose); err != nil {
		return entity.InvoiceRecord{}, fmt.Errorf("parse json: %w", err)
	}

	clean, dropped := sanitize(loose)
	if len(dropped) > 0 {
		s.logger.Debug("metadata.sanitize.dropped", "keys", dropped)
	}
	if err := s.schema.Validate(clean); err != nil {
		return entity.InvoiceRecord{}, fmt.Errorf("validate record: %w", err)
	}

	data, err := json.Marshal(clean)
	if err != nil {
		return entity.InvoiceRecord{}, fmt.Errorf("re-encode record: %w", err)
	}
	var rec entity.InvoiceRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return entity.InvoiceRecord{}, fmt.Errorf("decode record: %w", err)
	}
	return rec, nil
}
