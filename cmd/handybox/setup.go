package main

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/handybox/handybox/internal/config"
)

func generateAPIKey() (key, hash string, err error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", "", fmt.Errorf("generate random bytes: %w", err)
	}
	key = "hk_" + hex.EncodeToString(b)
	hash = config.HashAPIKey(key)
	return key, hash, nil
}
