package server

import (
	"testing"

	"github.com/handybox/handybox/internal/diff"
)

func TestComputeLiveDiff(t *testing.T) {
	srv, _ := testServer(t)

	resp := srv.computeLiveDiff(&liveDiffRequest{Original: "a\nb", Modified: "a\nc"})
	if resp.Error != "" {
		t.Fatalf("unexpected error: %s", resp.Error)
	}
	if resp.Result.Mode != diff.ModeLine {
		t.Fatalf("mode = %s, want line", resp.Result.Mode)
	}
	if resp.Result.Stats.Added != 1 || resp.Result.Stats.Removed != 1 {
		t.Fatalf("unexpected stats: %+v", resp.Result.Stats)
	}
}

func TestComputeLiveDiffInvalidMode(t *testing.T) {
	srv, _ := testServer(t)

	resp := srv.computeLiveDiff(&liveDiffRequest{Original: "a", Modified: "b", Mode: "char"})
	if resp.Error == "" {
		t.Fatal("expected error for invalid mode")
	}
}

func TestComputeLiveDiffTooLarge(t *testing.T) {
	srv, _ := testServer(t)
	srv.cfg.Tools.MaxTextBytes = 4

	resp := srv.computeLiveDiff(&liveDiffRequest{Original: "abcdef", Modified: "a"})
	if resp.Error == "" {
		t.Fatal("expected error for oversized input")
	}
}
