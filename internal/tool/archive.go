package tool

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/handybox/handybox/internal/config"
	"github.com/handybox/handybox/internal/validate"
)

// ArchiveTool creates zip archives from text files and inspects
// uploaded ones. Archive bytes cross the API base64-encoded.
type ArchiveTool struct {
	Limits config.ToolsConfig
}

func (t *ArchiveTool) Name() string { return "archive" }

func (t *ArchiveTool) Describe() string {
	return "Create a zip archive from text files, or list an archive's contents"
}

type archiveFile struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

type archiveParams struct {
	// Action is "create" or "list".
	Action string `json:"action"`
	// Files to pack when creating.
	Files []archiveFile `json:"files,omitempty"`
	// Archive is the base64-encoded zip to inspect when listing.
	Archive string `json:"archive,omitempty"`
}

type archiveEntry struct {
	Name            string `json:"name"`
	Size            uint64 `json:"size"`
	CompressedSize  uint64 `json:"compressed_size"`
	ModifiedRFC3339 string `json:"modified,omitempty"`
}

func (t *ArchiveTool) Run(ctx context.Context, params json.RawMessage) (any, error) {
	var p archiveParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, badParams("%v", err)
	}
	if err := validate.OneOf("action", p.Action, "create", "list"); err != nil {
		return nil, badParams("%v", err)
	}

	if p.Action == "create" {
		return t.create(p.Files)
	}
	return t.list(p.Archive)
}

func (t *ArchiveTool) create(files []archiveFile) (any, error) {
	if len(files) == 0 {
		return nil, badParams("at least one file is required")
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	seen := make(map[string]bool, len(files))
	for _, f := range files {
		if err := validate.Required("file name", f.Name); err != nil {
			return nil, badParams("%v", err)
		}
		if strings.Contains(f.Name, "..") || strings.HasPrefix(f.Name, "/") {
			return nil, badParams("file name %q must be a relative path", f.Name)
		}
		if seen[f.Name] {
			return nil, badParams("duplicate file name: %s", f.Name)
		}
		seen[f.Name] = true
		if err := validate.TextBytes("file content", f.Content, t.Limits.MaxTextBytes); err != nil {
			return nil, badParams("%v", err)
		}

		w, err := zw.Create(f.Name)
		if err != nil {
			return nil, fmt.Errorf("add %s: %w", f.Name, err)
		}
		if _, err := w.Write([]byte(f.Content)); err != nil {
			return nil, fmt.Errorf("write %s: %w", f.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("finalize archive: %w", err)
	}

	return map[string]any{
		"archive": base64.StdEncoding.EncodeToString(buf.Bytes()),
		"files":   len(files),
		"bytes":   buf.Len(),
	}, nil
}

func (t *ArchiveTool) list(archive string) (any, error) {
	if archive == "" {
		return nil, badParams("archive is required")
	}
	raw, err := base64.StdEncoding.DecodeString(archive)
	if err != nil {
		return nil, badParams("invalid base64 archive: %v", err)
	}
	if t.Limits.MaxTextBytes > 0 && len(raw) > t.Limits.MaxTextBytes {
		return nil, badParams("archive exceeds maximum size of %d bytes", t.Limits.MaxTextBytes)
	}

	zr, err := zip.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return nil, badParams("invalid zip archive: %v", err)
	}

	entries := make([]archiveEntry, 0, len(zr.File))
	var total uint64
	for _, f := range zr.File {
		// guard against decompression bombs when summing sizes
		if f.UncompressedSize64 > uint64(t.Limits.MaxTextBytes)*16 {
			return nil, badParams("archive entry %s is too large", f.Name)
		}
		e := archiveEntry{
			Name:           f.Name,
			Size:           f.UncompressedSize64,
			CompressedSize: f.CompressedSize64,
		}
		if !f.Modified.IsZero() {
			e.ModifiedRFC3339 = f.Modified.UTC().Format("2006-01-02T15:04:05Z")
		}
		entries = append(entries, e)
		total += f.UncompressedSize64
	}

	return map[string]any{
		"entries":            entries,
		"total_uncompressed": total,
	}, nil
}
