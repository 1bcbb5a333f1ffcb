package tool

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/handybox/handybox/internal/config"
	"github.com/handybox/handybox/internal/inference"
)

func testLimits() config.ToolsConfig {
	return config.ToolsConfig{MaxTextBytes: 1 << 20, MaxTokens: 20000}
}

func runTool(t *testing.T, tl Tool, params string) map[string]any {
	t.Helper()
	res, err := tl.Run(context.Background(), json.RawMessage(params))
	if err != nil {
		t.Fatalf("%s: %v", tl.Name(), err)
	}
	raw, err := json.Marshal(res)
	if err != nil {
		t.Fatalf("marshal result: %v", err)
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("unmarshal result: %v", err)
	}
	return out
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	r.Register(&HashTool{Limits: testLimits()})

	if _, err := r.Get("hash"); err != nil {
		t.Fatalf("Get(hash): %v", err)
	}
	if _, err := r.Get("nope"); err == nil {
		t.Fatal("expected error for unknown tool")
	}
	if got := len(r.Names()); got != 1 {
		t.Fatalf("Names() length = %d, want 1", got)
	}
}

func TestDefaultRegistryDisabled(t *testing.T) {
	cfg := config.Defaults()
	cfg.Tools.Disabled = []string{"archive"}
	r := DefaultRegistry(cfg, nil)

	if _, err := r.Get("diff"); err != nil {
		t.Fatalf("diff should be registered: %v", err)
	}
	if _, err := r.Get("archive"); err == nil {
		t.Fatal("archive should be disabled")
	}
}

func TestDiffTool(t *testing.T) {
	tl := &DiffTool{Limits: testLimits()}
	out := runTool(t, tl, `{"original":"a\nb\nc","modified":"a\nx\nc","mode":"line"}`)

	entries := out["entries"].([]any)
	if len(entries) != 4 {
		t.Fatalf("expected 4 entries, got %d", len(entries))
	}
	stats := out["stats"].(map[string]any)
	if stats["added"].(float64) != 1 || stats["removed"].(float64) != 1 || stats["unchanged"].(float64) != 2 {
		t.Fatalf("unexpected stats: %v", stats)
	}
	if out["unified"].(string) == "" {
		t.Fatal("expected unified output")
	}
}

func TestDiffToolDefaultsToLineMode(t *testing.T) {
	tl := &DiffTool{Limits: testLimits()}
	out := runTool(t, tl, `{"original":"a","modified":"a"}`)
	if out["mode"].(string) != "line" {
		t.Fatalf("mode = %v, want line", out["mode"])
	}
}

func TestDiffToolBadMode(t *testing.T) {
	tl := &DiffTool{Limits: testLimits()}
	_, err := tl.Run(context.Background(), json.RawMessage(`{"original":"a","modified":"b","mode":"char"}`))
	if !errors.Is(err, ErrBadParams) {
		t.Fatalf("expected ErrBadParams, got %v", err)
	}
}

func TestDiffToolTokenLimit(t *testing.T) {
	tl := &DiffTool{Limits: config.ToolsConfig{MaxTextBytes: 1 << 20, MaxTokens: 2}}
	_, err := tl.Run(context.Background(), json.RawMessage(`{"original":"a\nb\nc","modified":"a"}`))
	if !errors.Is(err, ErrBadParams) {
		t.Fatalf("expected ErrBadParams, got %v", err)
	}
}

func TestHashTool(t *testing.T) {
	tl := &HashTool{Limits: testLimits()}
	out := runTool(t, tl, `{"text":"hello"}`)

	digests := out["digests"].(map[string]any)
	if got := digests["sha256"].(string); got != "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824" {
		t.Fatalf("sha256 = %s", got)
	}
	if got := digests["md5"].(string); got != "5d41402abc4b2a76b9719d911017c592" {
		t.Fatalf("md5 = %s", got)
	}
	if len(digests) != len(hashAlgorithms) {
		t.Fatalf("expected %d digests, got %d", len(hashAlgorithms), len(digests))
	}
}

func TestHashToolSelectedAlgorithms(t *testing.T) {
	tl := &HashTool{Limits: testLimits()}
	out := runTool(t, tl, `{"text":"hello","algorithms":["sha1"]}`)
	digests := out["digests"].(map[string]any)
	if len(digests) != 1 {
		t.Fatalf("expected 1 digest, got %d", len(digests))
	}
	if got := digests["sha1"].(string); got != "aaf4c61ddcc5e8a2dabede0f3b482cd9aea9434d" {
		t.Fatalf("sha1 = %s", got)
	}
}

func TestHashToolUnknownAlgorithm(t *testing.T) {
	tl := &HashTool{Limits: testLimits()}
	_, err := tl.Run(context.Background(), json.RawMessage(`{"text":"x","algorithms":["rot13"]}`))
	if !errors.Is(err, ErrBadParams) {
		t.Fatalf("expected ErrBadParams, got %v", err)
	}
}

func TestTextStatsTool(t *testing.T) {
	tl := &TextStatsTool{Limits: testLimits()}
	out := runTool(t, tl, `{"text":"Hello world. How are you?\n\nNew paragraph here."}`)

	if got := out["words"].(float64); got != 8 {
		t.Errorf("words = %v, want 8", got)
	}
	if got := out["sentences"].(float64); got != 3 {
		t.Errorf("sentences = %v, want 3", got)
	}
	if got := out["paragraphs"].(float64); got != 2 {
		t.Errorf("paragraphs = %v, want 2", got)
	}
	if got := out["lines"].(float64); got != 3 {
		t.Errorf("lines = %v, want 3", got)
	}
	if got := out["characters_no_spaces"].(float64); got != 38 {
		t.Errorf("characters_no_spaces = %v, want 38", got)
	}
	if got := out["reading_time_sec"].(float64); got < 1 {
		t.Errorf("reading_time_sec = %v, want >= 1", got)
	}
}

func TestTextStatsEmpty(t *testing.T) {
	tl := &TextStatsTool{Limits: testLimits()}
	out := runTool(t, tl, `{"text":""}`)
	for _, k := range []string{"bytes", "characters", "characters_no_spaces", "words", "lines", "sentences", "paragraphs", "reading_time_sec"} {
		if got := out[k].(float64); got != 0 {
			t.Errorf("%s = %v, want 0", k, got)
		}
	}
}

func TestUnitConvTool(t *testing.T) {
	tl := &UnitConvTool{}
	cases := []struct {
		params string
		want   float64
	}{
		{`{"value":1,"from":"km","to":"m"}`, 1000},
		{`{"value":1024,"from":"b","to":"kib"}`, 1},
		{`{"value":100,"from":"c","to":"f"}`, 212},
		{`{"value":0,"from":"c","to":"k"}`, 273.15},
		{`{"value":2,"from":"h","to":"min"}`, 120},
	}
	for _, tc := range cases {
		out := runTool(t, tl, tc.params)
		if got := out["result"].(float64); got != tc.want {
			t.Errorf("%s: result = %v, want %v", tc.params, got, tc.want)
		}
	}
}

func TestUnitConvToolCrossCategory(t *testing.T) {
	tl := &UnitConvTool{}
	_, err := tl.Run(context.Background(), json.RawMessage(`{"value":1,"from":"kg","to":"m"}`))
	if !errors.Is(err, ErrBadParams) {
		t.Fatalf("expected ErrBadParams, got %v", err)
	}
}

func TestBase64Tool(t *testing.T) {
	tl := &Base64Tool{Limits: testLimits()}

	out := runTool(t, tl, `{"text":"hello","action":"encode"}`)
	if got := out["result"].(string); got != "aGVsbG8=" {
		t.Fatalf("encode = %s", got)
	}

	out = runTool(t, tl, `{"text":"aGVsbG8=","action":"decode"}`)
	if got := out["result"].(string); got != "hello" {
		t.Fatalf("decode = %s", got)
	}
}

func TestBase64ToolInvalidInput(t *testing.T) {
	tl := &Base64Tool{Limits: testLimits()}
	_, err := tl.Run(context.Background(), json.RawMessage(`{"text":"!!!","action":"decode"}`))
	if !errors.Is(err, ErrBadParams) {
		t.Fatalf("expected ErrBadParams, got %v", err)
	}
}

func TestJSONYAMLTool(t *testing.T) {
	tl := &JSONYAMLTool{Limits: testLimits()}

	out := runTool(t, tl, `{"text":"{\"a\":1}","action":"json2yaml"}`)
	if got := out["result"].(string); got != "a: 1\n" {
		t.Fatalf("json2yaml = %q", got)
	}

	out = runTool(t, tl, `{"text":"a: 1","action":"yaml2json"}`)
	var doc map[string]any
	if err := json.Unmarshal([]byte(out["result"].(string)), &doc); err != nil {
		t.Fatalf("yaml2json output is not JSON: %v", err)
	}
	if doc["a"].(float64) != 1 {
		t.Fatalf("yaml2json = %v", doc)
	}
}

func TestJSONYAMLToolInvalidJSON(t *testing.T) {
	tl := &JSONYAMLTool{Limits: testLimits()}
	_, err := tl.Run(context.Background(), json.RawMessage(`{"text":"{","action":"formatjson"}`))
	if !errors.Is(err, ErrBadParams) {
		t.Fatalf("expected ErrBadParams, got %v", err)
	}
}

func TestHTMLTextTool(t *testing.T) {
	tl := &HTMLTextTool{Limits: testLimits()}
	out := runTool(t, tl, `{"html":"<p>Hello <b>world</b></p><script>alert(1)</script><p>Bye</p>"}`)
	if got := out["text"].(string); got != "Hello world\n\nBye" {
		t.Fatalf("text = %q", got)
	}
	if got := out["words"].(float64); got != 3 {
		t.Fatalf("words = %v, want 3", got)
	}
}

func TestHTMLTextToolTitleAndLinks(t *testing.T) {
	tl := &HTMLTextTool{Limits: testLimits()}
	doc := `<html><head><title>My Page</title><style>p{}</style></head>` +
		`<body><p>See <a href="/a">one</a> and <a href="/b">two</a></p></body></html>`
	raw, err := json.Marshal(map[string]string{"html": doc})
	if err != nil {
		t.Fatal(err)
	}
	out := runTool(t, tl, string(raw))

	if got := out["title"].(string); got != "My Page" {
		t.Errorf("title = %q", got)
	}
	if got := out["links"].(float64); got != 2 {
		t.Errorf("links = %v, want 2", got)
	}
	if got := out["text"].(string); got != "See one and two" {
		t.Errorf("text = %q", got)
	}
}

func TestArchiveToolRoundTrip(t *testing.T) {
	tl := &ArchiveTool{Limits: testLimits()}

	out := runTool(t, tl, `{"action":"create","files":[{"name":"a.txt","content":"hello"},{"name":"dir/b.txt","content":"world"}]}`)
	archive := out["archive"].(string)
	if archive == "" {
		t.Fatal("expected archive data")
	}

	raw, err := json.Marshal(map[string]string{"action": "list", "archive": archive})
	if err != nil {
		t.Fatal(err)
	}
	listed := runTool(t, tl, string(raw))
	entries := listed["entries"].([]any)
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	first := entries[0].(map[string]any)
	if first["name"].(string) != "a.txt" || first["size"].(float64) != 5 {
		t.Fatalf("unexpected first entry: %v", first)
	}
}

func TestArchiveToolRejectsTraversal(t *testing.T) {
	tl := &ArchiveTool{Limits: testLimits()}
	_, err := tl.Run(context.Background(), json.RawMessage(`{"action":"create","files":[{"name":"../evil","content":"x"}]}`))
	if !errors.Is(err, ErrBadParams) {
		t.Fatalf("expected ErrBadParams, got %v", err)
	}
}

type stubClient struct {
	content string
	err     error
	lastReq *inference.Request
}

func (s *stubClient) Complete(ctx context.Context, req *inference.Request) (*inference.Completion, error) {
	s.lastReq = req
	if s.err != nil {
		return nil, s.err
	}
	return &inference.Completion{Content: s.content, Model: "stub"}, nil
}

func TestSummarizeTool(t *testing.T) {
	stub := &stubClient{content: " a short summary "}
	tl := &SummarizeTool{Client: stub, Limits: testLimits()}

	out := runTool(t, tl, `{"text":"long text here"}`)
	if got := out["result"].(string); got != "a short summary" {
		t.Fatalf("result = %q", got)
	}
	if len(stub.lastReq.Messages) != 2 || stub.lastReq.Messages[1].Content != "long text here" {
		t.Fatalf("unexpected request: %+v", stub.lastReq)
	}
}

func TestAIToolNotConfigured(t *testing.T) {
	tl := &GrammarTool{Client: nil, Limits: testLimits()}
	_, err := tl.Run(context.Background(), json.RawMessage(`{"text":"hi"}`))
	if !errors.Is(err, inference.ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestCaptionToolImage(t *testing.T) {
	stub := &stubClient{content: "a red square"}
	tl := &CaptionTool{Client: stub, Limits: testLimits()}

	out := runTool(t, tl, `{"image":"aGVsbG8=","mime":"image/jpeg"}`)
	if got := out["result"].(string); got != "a red square" {
		t.Fatalf("result = %q", got)
	}
	user := stub.lastReq.Messages[1]
	if user.Image != "data:image/jpeg;base64,aGVsbG8=" {
		t.Fatalf("image = %q", user.Image)
	}
}

func TestCaptionToolInvalidImage(t *testing.T) {
	tl := &CaptionTool{Client: &stubClient{content: "x"}, Limits: testLimits()}
	_, err := tl.Run(context.Background(), json.RawMessage(`{"image":"!!!"}`))
	if !errors.Is(err, ErrBadParams) {
		t.Fatalf("expected ErrBadParams, got %v", err)
	}
}

func TestAIToolEmptyText(t *testing.T) {
	tl := &CaptionTool{Client: &stubClient{content: "x"}, Limits: testLimits()}
	_, err := tl.Run(context.Background(), json.RawMessage(`{"text":"  "}`))
	if !errors.Is(err, ErrBadParams) {
		t.Fatalf("expected ErrBadParams, got %v", err)
	}
}
