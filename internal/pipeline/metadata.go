package pipeline

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/wealthealphaglobal/astrofinance-auto/internal/content"
	"github.com/wealthealphaglobal/astrofinance-auto/internal/market"
)

// Metadata is the run manifest written next to the rendered videos. It holds
// one day's output; repeat runs on the same date merge into it so single-sign
// runs do not clobber the rest of the batch.
type Metadata struct {
	RunID       string                   `json:"run_id"`
	Date        string                   `json:"date"`
	GeneratedAt string                   `json:"generated_at"`
	Market      market.Data              `json:"market"`
	Shorts      map[string]string        `json:"shorts"`
	Content     map[string]content.Texts `json:"content"`
	Uploads     map[string]string        `json:"uploads,omitempty"`
	Failed      []string                 `json:"failed,omitempty"`
}

// RecordUpload stores the published URL for a sign's short.
func (m *Metadata) RecordUpload(sign, url string) {
	if m.Uploads == nil {
		m.Uploads = map[string]string{}
	}
	m.Uploads[sign] = url
}

// LoadMetadata reads a run manifest. A missing file yields a zero manifest
// without error so the first run of a day starts clean.
func LoadMetadata(path string) (Metadata, error) {
	var meta Metadata

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return meta, nil
		}
		return meta, errors.Wrap(err, "read metadata")
	}

	if err := json.Unmarshal(data, &meta); err != nil {
		return Metadata{}, errors.Wrap(err, "parse metadata")
	}
	return meta, nil
}

// WriteMetadata writes the manifest atomically.
func WriteMetadata(path string, meta Metadata) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "create metadata dir")
	}

	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encode metadata")
	}
	data = append(data, '\n')

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return errors.Wrap(err, "write metadata")
	}
	return os.Rename(tmp, path)
}

func (m *Metadata) ensureMaps() {
	if m.Shorts == nil {
		m.Shorts = map[string]string{}
	}
	if m.Content == nil {
		m.Content = map[string]content.Texts{}
	}
}

func appendUnique(list []string, value string) []string {
	for _, v := range list {
		if v == value {
			return list
		}
	}
	return append(list, value)
}

func removeString(list []string, value string) []string {
	out := list[:0]
	for _, v := range list {
		if v != value {
			out = append(out, v)
		}
	}
	return out
}
