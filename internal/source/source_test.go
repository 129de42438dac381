// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/findoc/internal/httputil"
	"github.com/pdiddy/findoc/pkg/types"
)

func init() {
	httputil.RetryBaseDelay = time.Millisecond
}

// --- fakes ---

type fakeSource struct {
	kind types.SourceKind
	text string
	err  error
}

func (f fakeSource) Kind() types.SourceKind { return f.kind }

func (f fakeSource) Text(context.Context, string) (string, error) {
	return f.text, f.err
}

type fakeRuntime struct {
	imageErr error
	runErr   error
	gotImage string
	gotArgs  []string
	output   string
}

func (f *fakeRuntime) Name() string                   { return "docker" }
func (f *fakeRuntime) Available(context.Context) bool { return true }

func (f *fakeRuntime) ImageExists(_ context.Context, image string) error {
	f.gotImage = image
	return f.imageErr
}

func (f *fakeRuntime) Run(_ context.Context, image string, args []string, stdin io.Reader, stdout io.Writer) error {
	f.gotImage = image
	f.gotArgs = args
	if f.runErr != nil {
		return f.runErr
	}
	if _, err := io.ReadAll(stdin); err != nil {
		return err
	}
	_, err := stdout.Write([]byte(f.output))
	return err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// --- Clean ---

func TestClean(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"crlf", "Revenue: 1\r\nProfit: 2\r", "Revenue: 1\nProfit: 2"},
		{"tabs and spaces", "Credit\tScore:   75  ", "Credit Score: 75"},
		{"blank line runs", "A: 1\n\n\n\n\nB: 2", "A: 1\n\nB: 2"},
		{"whitespace-only lines", "A: 1\n   \n \t \n\nB: 2", "A: 1\n\nB: 2"},
		{"keeps line structure", "Company Name: Acme\nRegistration Number: 08765432", "Company Name: Acme\nRegistration Number: 08765432"},
		{"trims document", "\n\n  Revenue: 1  \n\n", "Revenue: 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Clean(tt.in))
		})
	}
}

// --- kinds and keys ---

func TestKindOf(t *testing.T) {
	tests := []struct {
		path   string
		want   types.SourceKind
		wantOK bool
	}{
		{"report.pdf", types.SourcePDF, true},
		{"scan.JPG", types.SourceImage, true},
		{"scan.tiff", types.SourceImage, true},
		{"page.htm", types.SourceHTML, true},
		{"notes.txt", types.SourceText, true},
		{"sheet.xlsx", "", false},
		{"noext", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, ok := KindOf(tt.path)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestKey(t *testing.T) {
	assert.Equal(t, "techflow-solutions-2024", Key("/raw/TechFlow Solutions (2024).pdf"))
	assert.Equal(t, "credit-report", Key("credit_report.png"))
	assert.Equal(t, "a-b", Key("--a--b--.txt"))
}

// --- Router ---

func TestRouter(t *testing.T) {
	r := NewRouter(
		fakeSource{kind: types.SourcePDF, text: "Revenue:\t£1,000  \r\n\n\n\nProfit: 5"},
		fakeSource{kind: types.SourceImage, err: errors.New("ocr failed")},
	)
	ctx := context.Background()

	text, kind, err := r.Text(ctx, "a.pdf")
	require.NoError(t, err)
	assert.Equal(t, types.SourcePDF, kind)
	assert.Equal(t, "Revenue: £1,000\n\nProfit: 5", text)

	_, _, err = r.Text(ctx, "a.png")
	assert.EqualError(t, err, "ocr failed")

	_, _, err = r.Text(ctx, "a.docx")
	assert.ErrorIs(t, err, ErrUnsupported)

	_, _, err = r.Text(ctx, "a.html")
	assert.ErrorIs(t, err, ErrUnsupported, "known kind without a source")

	assert.True(t, r.Supports("x.PDF"))
	assert.False(t, r.Supports("x.html"))
}

// --- concrete sources ---

func TestPlainSource(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.txt", "Credit Score: 75\n")

	text, err := PlainSource{}.Text(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "Credit Score: 75\n", text)

	bad := writeFile(t, dir, "b.txt", string([]byte{0xff, 0xfe, 0x00}))
	_, err = PlainSource{}.Text(context.Background(), bad)
	assert.Error(t, err)
}

func TestHTMLSource(t *testing.T) {
	page := `<html><head><title>Report</title><style>p{color:red}</style></head>
<body>
<h1>Credit Report</h1>
<script>var x = "Revenue: 999";</script>
<p>Company Name: Acme Widgets Ltd</p>
<table>
<tr><td>Revenue:</td><td>£4,850,000</td></tr>
<tr><td>Current Ratio:</td><td>1.85</td></tr>
</table>
<div>Credit Score: 75<br>Credit Rating: B+</div>
</body></html>`
	path := writeFile(t, t.TempDir(), "report.html", page)

	raw, err := HTMLSource{}.Text(context.Background(), path)
	require.NoError(t, err)
	text := Clean(raw)

	assert.Contains(t, text, "Company Name: Acme Widgets Ltd\n")
	assert.Contains(t, text, "Revenue: £4,850,000\n")
	assert.Contains(t, text, "Current Ratio: 1.85\n")
	assert.Contains(t, text, "Credit Score: 75\nCredit Rating: B+")
	assert.NotContains(t, text, "999")
	assert.NotContains(t, text, "color")
	assert.True(t, strings.HasPrefix(text, "Credit Report\n"), "head title is dropped")
}

func TestPDFSourceRejectsNonPDF(t *testing.T) {
	path := writeFile(t, t.TempDir(), "fake.pdf", "not a pdf")
	_, err := PDFSource{}.Text(context.Background(), path)
	assert.Error(t, err)
}

func TestOCRSource(t *testing.T) {
	rt := &fakeRuntime{output: "Credit Score: 75\n"}
	ocr, err := NewOCRSource(context.Background(), rt, types.SourceConfig{OCRLanguage: "deu"}, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, DefaultOCRImage, rt.gotImage)
	assert.Equal(t, types.SourceImage, ocr.Kind())

	path := writeFile(t, t.TempDir(), "scan.png", "PNG bytes")
	text, err := ocr.Text(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "Credit Score: 75\n", text)
	assert.Equal(t, []string{"tesseract", "stdin", "stdout", "-l", "deu"}, rt.gotArgs)

	rt.runErr = errors.New("exit status 1")
	_, err = ocr.Text(context.Background(), path)
	assert.ErrorContains(t, err, "recognizing")
}

func TestNewOCRSourceMissingImage(t *testing.T) {
	rt := &fakeRuntime{imageErr: errors.New("no such image")}
	_, err := NewOCRSource(context.Background(), rt, types.SourceConfig{OCRImage: "custom/tesseract"}, zerolog.Nop())
	assert.ErrorContains(t, err, "OCR image not available")
	assert.Equal(t, "custom/tesseract", rt.gotImage)
}

// --- ConvertAll ---

func TestConvertAll(t *testing.T) {
	dataDir := t.TempDir()
	raw := filepath.Join(dataDir, rawDir)
	writeFile(t, raw, "Acme Report.txt", "Company Name:   Acme\r\n")
	writeFile(t, raw, "scan.png", "PNG")
	writeFile(t, raw, "sheet.xlsx", "xlsx")
	writeFile(t, raw, ".DS_Store", "")

	r := NewRouter(PlainSource{}, fakeSource{kind: types.SourceImage, err: errors.New("ocr failed")})

	var out bytes.Buffer
	result, err := ConvertAll(context.Background(), r, dataDir, false, &out, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, BatchResult{Converted: 1, Unsupported: 1, Failed: 1}, result)
	assert.True(t, result.HasFailures())
	assert.Equal(t, 3, result.Total())

	data, err := os.ReadFile(filepath.Join(dataDir, textDir, "acme-report.txt"))
	require.NoError(t, err)
	assert.Equal(t, "Company Name: Acme\n", string(data))

	result, err = ConvertAll(context.Background(), r, dataDir, false, &bytes.Buffer{}, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Skipped)

	result, err = ConvertAll(context.Background(), r, dataDir, true, &bytes.Buffer{}, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Converted)
}

func TestConvertAllMissingRawDir(t *testing.T) {
	_, err := ConvertAll(context.Background(), NewRouter(), t.TempDir(), false, io.Discard, zerolog.Nop())
	assert.Error(t, err)
}

// --- Download ---

func TestDownload(t *testing.T) {
	var gotUA string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		switch r.URL.Path {
		case "/reports/acme.pdf":
			_, _ = w.Write([]byte("%PDF-1.4 body"))
		case "/report":
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_, _ = w.Write([]byte("<p>Revenue: 1</p>"))
		case "/blob":
			w.Header().Set("Content-Type", "application/octet-stream")
			_, _ = w.Write([]byte("??"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer ts.Close()

	dataDir := t.TempDir()
	cfg := types.HTTPConfig{UserAgent: "findoc-test", MaxRetries: 1}
	ctx := context.Background()

	path, err := Download(ctx, ts.Client(), cfg, ts.URL+"/reports/acme.pdf", dataDir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dataDir, rawDir, "acme.pdf"), path)
	assert.Equal(t, "findoc-test", gotUA)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 body", string(data))

	path, err = Download(ctx, ts.Client(), cfg, ts.URL+"/report", dataDir)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, "report.html"))

	_, err = Download(ctx, ts.Client(), cfg, ts.URL+"/blob", dataDir)
	assert.ErrorIs(t, err, ErrUnsupported)

	_, err = Download(ctx, ts.Client(), cfg, ts.URL+"/missing.pdf", dataDir)
	assert.ErrorContains(t, err, "HTTP 404")

	_, err = Download(ctx, ts.Client(), cfg, "ftp://example.com/a.pdf", dataDir)
	assert.ErrorContains(t, err, "invalid document URL")

	entries, err := os.ReadDir(filepath.Join(dataDir, rawDir))
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.HasPrefix(e.Name(), ".download-"), "temp file left behind: %s", e.Name())
	}
}

func TestFileName(t *testing.T) {
	u, _ := url.Parse("https://example.com/")
	assert.Equal(t, "document.pdf", fileName(u, "application/pdf"))

	u, _ = url.Parse("https://example.com/files/scan")
	assert.Equal(t, "scan.png", fileName(u, "image/png"))
	assert.Equal(t, "scan", fileName(u, "bogus"))
}
