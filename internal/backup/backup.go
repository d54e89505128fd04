// Package backup exports the ledger to JSON documents and restores it from
// them.
//
// Each kind of record goes to its own file as a pretty-printed JSON array
// using the field names of the ledger's earlier browser version, so old
// backups import unchanged. A manifest.json next to them lists each file
// with its record count and checksum; restores verify the checksum when a
// manifest is present and skip the check when it is not.
package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/roach88/daftar/internal/sale"
	"github.com/roach88/daftar/internal/store"
)

// Errors returned by Import.
var (
	ErrInvalidDocument  = errors.New("backup document is not a JSON array")
	ErrChecksumMismatch = errors.New("backup file does not match its manifest checksum")
)

// Kind names one backup file.
type Kind string

const (
	KindSales     Kind = "sales"
	KindCustomers Kind = "customers"
	KindReminders Kind = "reminders"
)

// Kinds lists every kind in export order.
func Kinds() []Kind {
	return []Kind{KindSales, KindCustomers, KindReminders}
}

// ParseKind accepts a kind name.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds() {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown backup kind %q", s)
}

// FileName returns the file the kind is stored in.
func (k Kind) FileName() string {
	switch k {
	case KindSales:
		return "purchases_backup.json"
	case KindCustomers:
		return "customers_backup.json"
	case KindReminders:
		return "reminders_backup.json"
	}
	return ""
}

// ManifestName is the manifest file written next to the documents.
const ManifestName = "manifest.json"

// Manifest describes one export.
type Manifest struct {
	ID        string         `json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	Files     []ManifestFile `json:"files"`
}

// ManifestFile describes one exported document.
type ManifestFile struct {
	Name    string `json:"name"`
	Records int    `json:"records"`
	SHA256  string `json:"sha256"`
}

func (m Manifest) file(name string) (ManifestFile, bool) {
	for _, f := range m.Files {
		if f.Name == name {
			return f, true
		}
	}
	return ManifestFile{}, false
}

// Source is read by Export. Implemented by *store.Store.
type Source interface {
	ReadAllSales(ctx context.Context) ([]sale.Record, error)
	ReadAllCustomers(ctx context.Context) ([]sale.Customer, error)
	ReadAllReminders(ctx context.Context) ([]sale.Reminder, error)
}

// Target is written by Import. Implemented by *store.Store.
type Target interface {
	ReplaceSales(ctx context.Context, records []sale.Record) (store.RestoreResult, error)
	ReplaceCustomers(ctx context.Context, customers []sale.Customer) (store.RestoreResult, error)
	ReplaceReminders(ctx context.Context, reminders []sale.Reminder) (store.RestoreResult, error)
}

// Options control identifiers and logging. The zero value is ready to use.
type Options struct {
	Now   func() time.Time
	NewID func() string
	Log   logrus.FieldLogger
}

func (o Options) now() time.Time {
	if o.Now == nil {
		return time.Now()
	}
	return o.Now()
}

func (o Options) newID() string {
	if o.NewID == nil {
		return uuid.Must(uuid.NewV7()).String()
	}
	return o.NewID()
}

func (o Options) log() logrus.FieldLogger {
	if o.Log == nil {
		return logrus.StandardLogger()
	}
	return o.Log
}

// Export writes every kind to dir, creating it if needed, followed by the
// manifest.
func Export(ctx context.Context, src Source, dir string, opts Options) (Manifest, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Manifest{}, fmt.Errorf("create backup dir: %w", err)
	}

	manifest := Manifest{
		ID:        opts.newID(),
		CreatedAt: opts.now().UTC().Truncate(time.Millisecond),
		Files:     []ManifestFile{},
	}

	for _, kind := range Kinds() {
		docs, err := exportDocs(ctx, src, kind)
		if err != nil {
			return Manifest{}, err
		}
		data, err := encodeIndented(docs.value)
		if err != nil {
			return Manifest{}, fmt.Errorf("encode %s: %w", kind, err)
		}
		sum, err := Checksum(data)
		if err != nil {
			return Manifest{}, fmt.Errorf("checksum %s: %w", kind, err)
		}
		name := kind.FileName()
		if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
			return Manifest{}, fmt.Errorf("write %s: %w", name, err)
		}
		manifest.Files = append(manifest.Files, ManifestFile{Name: name, Records: docs.count, SHA256: sum})
		opts.log().WithFields(logrus.Fields{"file": name, "records": docs.count}).Debug("exported")
	}

	data, err := encodeIndented(manifest)
	if err != nil {
		return Manifest{}, fmt.Errorf("encode manifest: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, ManifestName), data, 0o644); err != nil {
		return Manifest{}, fmt.Errorf("write manifest: %w", err)
	}
	return manifest, nil
}

type exported struct {
	value any
	count int
}

func exportDocs(ctx context.Context, src Source, kind Kind) (exported, error) {
	switch kind {
	case KindSales:
		records, err := src.ReadAllSales(ctx)
		if err != nil {
			return exported{}, err
		}
		docs := make([]saleDoc, len(records))
		for i, r := range records {
			docs[i] = saleToDoc(r)
		}
		return exported{docs, len(docs)}, nil
	case KindCustomers:
		customers, err := src.ReadAllCustomers(ctx)
		if err != nil {
			return exported{}, err
		}
		docs := make([]customerDoc, len(customers))
		for i, c := range customers {
			docs[i] = customerToDoc(c)
		}
		return exported{docs, len(docs)}, nil
	case KindReminders:
		reminders, err := src.ReadAllReminders(ctx)
		if err != nil {
			return exported{}, err
		}
		docs := make([]reminderDoc, len(reminders))
		for i, r := range reminders {
			docs[i] = reminderToDoc(r)
		}
		return exported{docs, len(docs)}, nil
	}
	return exported{}, fmt.Errorf("unknown backup kind %q", kind)
}

// ImportResult holds per-kind counts.
type ImportResult map[Kind]store.RestoreResult

// Import restores the given kinds from dir. With no kinds it restores
// whichever files are present.
//
// Every requested file is read and verified before anything is written.
// Each restored kind replaces the current contents of its table. Elements
// that cannot be decoded are counted as failed along with the rows the
// store rejects.
func Import(ctx context.Context, dst Target, dir string, kinds []Kind, opts Options) (ImportResult, error) {
	explicit := len(kinds) > 0
	if !explicit {
		kinds = Kinds()
	}

	manifest, hasManifest, err := readManifest(dir)
	if err != nil {
		return nil, err
	}

	type pending struct {
		kind  Kind
		elems []json.RawMessage
	}
	var todo []pending

	for _, kind := range kinds {
		name := kind.FileName()
		data, err := os.ReadFile(filepath.Join(dir, name))
		if errors.Is(err, fs.ErrNotExist) && !explicit {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}

		if hasManifest {
			if entry, ok := manifest.file(name); ok {
				sum, err := Checksum(data)
				if err != nil {
					return nil, fmt.Errorf("%s: %w", name, err)
				}
				if sum != entry.SHA256 {
					return nil, fmt.Errorf("%s: %w", name, ErrChecksumMismatch)
				}
			}
		}

		elems, err := decodeArray(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		todo = append(todo, pending{kind, elems})
	}

	result := ImportResult{}
	for _, p := range todo {
		res, err := restoreKind(ctx, dst, p.kind, p.elems, opts.log())
		if err != nil {
			return result, fmt.Errorf("restore %s: %w", p.kind, err)
		}
		result[p.kind] = res
	}
	return result, nil
}

func restoreKind(ctx context.Context, dst Target, kind Kind, elems []json.RawMessage, log logrus.FieldLogger) (store.RestoreResult, error) {
	var (
		res    store.RestoreResult
		failed int
		err    error
	)
	skip := func(i int, derr error) {
		log.WithFields(logrus.Fields{"kind": kind, "index": i}).WithError(derr).Warn("skipping undecodable element")
		failed++
	}

	switch kind {
	case KindSales:
		records := make([]sale.Record, 0, len(elems))
		for i, raw := range elems {
			var d saleDoc
			if derr := json.Unmarshal(raw, &d); derr != nil {
				skip(i, derr)
				continue
			}
			records = append(records, d.record())
		}
		res, err = dst.ReplaceSales(ctx, records)
	case KindCustomers:
		customers := make([]sale.Customer, 0, len(elems))
		for i, raw := range elems {
			var d customerDoc
			if derr := json.Unmarshal(raw, &d); derr != nil {
				skip(i, derr)
				continue
			}
			customers = append(customers, d.customer())
		}
		res, err = dst.ReplaceCustomers(ctx, customers)
	case KindReminders:
		reminders := make([]sale.Reminder, 0, len(elems))
		for i, raw := range elems {
			var d reminderDoc
			if derr := json.Unmarshal(raw, &d); derr != nil {
				skip(i, derr)
				continue
			}
			reminders = append(reminders, d.reminder())
		}
		res, err = dst.ReplaceReminders(ctx, reminders)
	default:
		return store.RestoreResult{}, fmt.Errorf("unknown backup kind %q", kind)
	}
	if err != nil {
		return store.RestoreResult{}, err
	}
	res.Failed += failed
	return res, nil
}

func readManifest(dir string) (Manifest, bool, error) {
	data, err := os.ReadFile(filepath.Join(dir, ManifestName))
	if errors.Is(err, fs.ErrNotExist) {
		return Manifest{}, false, nil
	}
	if err != nil {
		return Manifest{}, false, fmt.Errorf("read manifest: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return Manifest{}, false, fmt.Errorf("parse manifest: %w", err)
	}
	return m, true, nil
}

// decodeArray splits a document into its elements. Anything other than a
// top-level array is ErrInvalidDocument.
func decodeArray(data []byte) ([]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, ErrInvalidDocument
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(trimmed, &elems); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	return elems, nil
}

// encodeIndented writes v as two-space indented JSON without HTML escaping.
func encodeIndented(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
