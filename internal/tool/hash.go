package tool

import (
	"context"
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"hash/crc32"
	"hash/fnv"

	"github.com/handybox/handybox/internal/config"
	"github.com/handybox/handybox/internal/validate"
)

// HashTool computes common digests of a text input.
type HashTool struct {
	Limits config.ToolsConfig
}

func (t *HashTool) Name() string { return "hash" }

func (t *HashTool) Describe() string {
	return "Compute MD5, SHA-1, SHA-256, SHA-512, CRC32 and FNV-1a digests of a text"
}

type hashParams struct {
	Text string `json:"text"`
	// Algorithms limits the output to the named digests; empty means all.
	Algorithms []string `json:"algorithms,omitempty"`
}

var hashAlgorithms = []string{"md5", "sha1", "sha256", "sha512", "crc32", "fnv32a"}

func computeDigest(algo string, data []byte) (string, error) {
	switch algo {
	case "md5":
		sum := md5.Sum(data)
		return hex.EncodeToString(sum[:]), nil
	case "sha1":
		sum := sha1.Sum(data)
		return hex.EncodeToString(sum[:]), nil
	case "sha256":
		sum := sha256.Sum256(data)
		return hex.EncodeToString(sum[:]), nil
	case "sha512":
		sum := sha512.Sum512(data)
		return hex.EncodeToString(sum[:]), nil
	case "crc32":
		return fmt.Sprintf("%08x", crc32.ChecksumIEEE(data)), nil
	case "fnv32a":
		h := fnv.New32a()
		h.Write(data)
		return fmt.Sprintf("%08x", h.Sum32()), nil
	default:
		return "", badParams("unknown algorithm: %s", algo)
	}
}

func (t *HashTool) Run(ctx context.Context, params json.RawMessage) (any, error) {
	var p hashParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, badParams("%v", err)
	}
	if err := validate.TextBytes("text", p.Text, t.Limits.MaxTextBytes); err != nil {
		return nil, badParams("%v", err)
	}

	algos := p.Algorithms
	if len(algos) == 0 {
		algos = hashAlgorithms
	}

	data := []byte(p.Text)
	digests := make(map[string]string, len(algos))
	for _, algo := range algos {
		sum, err := computeDigest(algo, data)
		if err != nil {
			return nil, err
		}
		digests[algo] = sum
	}

	return map[string]any{
		"input_bytes": len(data),
		"digests":     digests,
	}, nil
}
