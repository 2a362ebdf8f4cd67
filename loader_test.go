package svg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gogpu/svg/recording"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func waitReady(t *testing.T, doc *Document) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := doc.WaitReady(ctx); err != nil {
		t.Fatalf("WaitReady() error = %v", err)
	}
}

func TestDecodeDataURL(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"data:text/plain;base64,aGVsbG8=", "hello", false},
		{"data:;base64,aGVs\nbG8=", "hello", false},
		{"data:text/plain;base64,aGVsbG8", "hello", false},
		{"data:,a%20b", "a b", false},
		{"data:image/svg+xml,<svg/>", "<svg/>", false},
		{"data:nocomma", "", true},
		{"data:;base64,!!!", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := decodeDataURL(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("decodeDataURL() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && string(got) != tt.want {
				t.Errorf("decodeDataURL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDefaultFetcher(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ok" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte("payload"))
	}))
	defer srv.Close()

	dir := t.TempDir()
	file := filepath.Join(dir, "f.txt")
	if err := os.WriteFile(file, []byte("on disk"), 0o600); err != nil {
		t.Fatal(err)
	}

	f := DefaultFetcher()
	ctx := context.Background()

	tests := []struct {
		name    string
		url     string
		want    string
		wantErr error
	}{
		{"data", "data:,inline", "inline", nil},
		{"file url", fileURL(file), "on disk", nil},
		{"http", srv.URL + "/ok", "payload", nil},
		{"http status", srv.URL + "/missing", "", ErrFetchStatus},
		{"scheme", "ftp://example.com/x", "", ErrUnsupportedScheme},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.Fetch(ctx, tt.url)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Fetch() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Fetch() error = %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("Fetch() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResolve(t *testing.T) {
	doc := mustParse(t, `<svg/>`, WithBaseURL("http://example.com/a/b.svg"))
	tests := []struct{ href, want string }{
		{"img.png", "http://example.com/a/img.png"},
		{"../c.png", "http://example.com/c.png"},
		{"https://other.org/x.png", "https://other.org/x.png"},
		{"data:,x", "data:,x"},
	}
	for _, tt := range tests {
		if got := doc.resolve(tt.href); got != tt.want {
			t.Errorf("resolve(%q) = %q, want %q", tt.href, got, tt.want)
		}
	}
}

func TestImageLoading(t *testing.T) {
	data := pngBytes(t, 4, 3)
	var mu sync.Mutex
	var fetched []string
	fetcher := FetcherFunc(func(_ context.Context, u string) ([]byte, error) {
		mu.Lock()
		fetched = append(fetched, u)
		mu.Unlock()
		switch u {
		case "http://example.com/img.png":
			return data, nil
		case "http://example.com/nested.svg":
			return []byte(`<svg xmlns="http://www.w3.org/2000/svg" width="8" height="6"><rect width="8" height="6"/></svg>`), nil
		}
		return nil, errors.New("not found")
	})

	doc, err := ParseString(`<svg xmlns="http://www.w3.org/2000/svg">
		<image id="png" href="img.png"/>
		<image id="svg" href="nested.svg" x="10" width="16" height="12"/>
		<image id="bad" href="missing.png" width="5" height="5"/>
	</svg>`, WithFetcher(fetcher), WithBaseURL("http://example.com/"))
	if err != nil {
		t.Fatal(err)
	}
	waitReady(t, doc)

	if !doc.IsReady() {
		t.Error("IsReady() = false after WaitReady")
	}
	select {
	case <-doc.Ready():
	default:
		t.Error("Ready() channel not closed")
	}
	mu.Lock()
	if len(fetched) != 3 {
		t.Errorf("fetched %v, want 3 URLs", fetched)
	}
	mu.Unlock()

	sizes := []struct {
		id   string
		w, h float64
	}{
		{"png", 4, 3},
		{"svg", 8, 6},
		{"bad", 0, 0},
	}
	for _, s := range sizes {
		w, h := doc.Element(s.id).image.size()
		if w != s.w || h != s.h {
			t.Errorf("%s size = (%v, %v), want (%v, %v)", s.id, w, h, s.w, s.h)
		}
	}
	if bb := doc.Element("png").BoundingBox(); !near(bb.X2, 4, 1e-9) || !near(bb.Y2, 3, 1e-9) {
		t.Errorf("png bbox = %+v, want intrinsic 4x3", bb)
	}

	rec := record(t, doc, 100, 100)
	if n := rec.Count(recording.CmdDrawImage); n != 1 {
		t.Errorf("DrawImage commands = %d, want 1", n)
	}
	if n := len(fills(rec)); n != 1 {
		t.Errorf("nested document fills = %d, want 1", n)
	}
}

func TestReadinessGate(t *testing.T) {
	release := make(chan struct{})
	fetcher := FetcherFunc(func(ctx context.Context, _ string) ([]byte, error) {
		select {
		case <-release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		return nil, errors.New("gone")
	})
	doc, err := ParseString(`<svg><image href="a.png"/></svg>`, WithFetcher(fetcher))
	if err != nil {
		t.Fatal(err)
	}
	if doc.IsReady() {
		t.Fatal("IsReady() = true while an image is loading")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if err := doc.WaitReady(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("WaitReady() error = %v, want DeadlineExceeded", err)
	}

	close(release)
	waitReady(t, doc)
}

func TestWithoutExternalAssets(t *testing.T) {
	doc, err := ParseString(`<svg><image href="a.png"/></svg>`,
		WithoutExternalAssets(),
		WithFetcher(FetcherFunc(func(context.Context, string) ([]byte, error) {
			t.Error("fetcher called")
			return nil, nil
		})))
	if err != nil {
		t.Fatal(err)
	}
	if !doc.IsReady() {
		t.Error("IsReady() = false without external assets")
	}
}

func TestIsSVGData(t *testing.T) {
	tests := []struct {
		href string
		data string
		want bool
	}{
		{"a.svg", "", true},
		{"http://x/a.SVG?q=1", "", true},
		{"data:image/svg+xml,<svg/>", "", true},
		{"a.png", "\x89PNG", false},
		{"blob", "<?xml version='1.0'?><svg>", true},
	}
	for _, tt := range tests {
		if got := isSVGData(tt.href, []byte(tt.data)); got != tt.want {
			t.Errorf("isSVGData(%q) = %v, want %v", tt.href, got, tt.want)
		}
	}
}

func TestNestedImageCycles(t *testing.T) {
	nested := func(href string) []byte {
		return []byte(`<svg xmlns="http://www.w3.org/2000/svg" width="4" height="4"><image href="` + href + `"/></svg>`)
	}
	tests := []struct {
		name    string
		root    string
		serve   func(u string) []byte
		fetches int
	}{
		{
			name:    "self reference",
			root:    "self.svg",
			serve:   func(string) []byte { return nested("self.svg") },
			fetches: 1,
		},
		{
			name: "mutual reference",
			root: "a.svg",
			serve: func(u string) []byte {
				if strings.HasSuffix(u, "/a.svg") {
					return nested("b.svg")
				}
				return nested("a.svg#again")
			},
			fetches: 2,
		},
		{
			name: "unbounded chain",
			root: "d0.svg",
			serve: func(u string) []byte {
				var n int
				_, _ = fmt.Sscanf(path.Base(u), "d%d.svg", &n)
				return nested(fmt.Sprintf("d%d.svg", n+1))
			},
			fetches: maxNesting,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var fetches atomic.Int32
			fetcher := FetcherFunc(func(_ context.Context, u string) ([]byte, error) {
				fetches.Add(1)
				return tt.serve(u), nil
			})
			doc, err := ParseString(`<svg xmlns="http://www.w3.org/2000/svg"><image id="i" href="`+tt.root+`"/></svg>`,
				WithFetcher(fetcher), WithBaseURL("http://example.com/"))
			if err != nil {
				t.Fatal(err)
			}
			waitReady(t, doc)
			if got := int(fetches.Load()); got != tt.fetches {
				t.Errorf("fetches = %d, want %d", got, tt.fetches)
			}
			if w, h := doc.Element("i").image.size(); w != 4 || h != 4 {
				t.Errorf("outer image size = (%v, %v), want (4, 4)", w, h)
			}
			record(t, doc, 10, 10)
		})
	}
}

func TestCheckNesting(t *testing.T) {
	doc := mustParse(t, `<svg/>`, WithBaseURL("http://example.com/dir/a.svg"), WithoutExternalAssets())
	tests := []struct {
		href    string
		wantErr bool
	}{
		{"b.svg", false},
		{"a.svg", true},
		{"a.svg#frag", true},
		{"/dir/a.svg", true},
		{"http://other.org/a.svg", false},
	}
	for _, tt := range tests {
		err := doc.checkNesting(tt.href)
		if (err != nil) != tt.wantErr {
			t.Errorf("checkNesting(%q) = %v, wantErr %v", tt.href, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, ErrNestingLimit) {
			t.Errorf("checkNesting(%q) error %v does not wrap ErrNestingLimit", tt.href, err)
		}
	}
}
