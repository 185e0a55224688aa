package server

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"rbc-analyzer/internal/analyzer"
	"rbc-analyzer/internal/resultdb"
)

func newTestServer(t *testing.T, withDB bool) *Server {
	t.Helper()
	a, err := analyzer.New(analyzer.DefaultParams())
	require.NoError(t, err)

	var db *resultdb.DB
	if withDB {
		dir := t.TempDir()
		db, err = resultdb.Open(zerolog.Nop(), filepath.Join(dir, "results.sqlite"), filepath.Join(dir, "stored"))
		require.NoError(t, err)
	}
	return New(zerolog.Nop(), a, db)
}

// cellPNG encodes a synthetic chamber image: white background with a few
// dark discs, no grid.
func cellPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, 150, 150))
	for i := range img.Pix {
		img.Pix[i] = 255
	}
	discs := []image.Point{{X: 50, Y: 50}, {X: 100, Y: 90}}
	for _, d := range discs {
		for y := -8; y <= 8; y++ {
			for x := -8; x <= 8; x++ {
				if x*x+y*y <= 64 {
					img.SetGray(d.X+x, d.Y+y, color.Gray{Y: 0})
				}
			}
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func uploadRequest(t *testing.T, path string, payload []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("image", "chamber.png")
	require.NoError(t, err)
	_, err = fw.Write(payload)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestAnalyzeEndpoint(t *testing.T) {
	s := newTestServer(t, true)

	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, uploadRequest(t, "/analyze", cellPNG(t)))
	require.Equal(t, http.StatusOK, rr.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.EqualValues(t, 2, resp["raw_count_in_ROI"])
	require.EqualValues(t, 4000, resp["estimated_rbc_per_uL"])
	require.Contains(t, resp["interpretation"], "LOW")
	require.NotEmpty(t, resp["result_image_saved_at"])
}

func TestAnalyzeEndpointBadUpload(t *testing.T) {
	s := newTestServer(t, false)

	// Missing multipart field entirely.
	req := httptest.NewRequest(http.MethodPost, "/analyze", bytes.NewReader([]byte("junk")))
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, req)
	require.Equal(t, http.StatusBadRequest, rr.Code)

	// Correct field, undecodable bytes.
	rr = httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, uploadRequest(t, "/analyze", []byte("not an image")))
	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestResultsEndpoint(t *testing.T) {
	s := newTestServer(t, true)

	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, uploadRequest(t, "/analyze", cellPNG(t)))
	require.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/results", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var recs []resultdb.Record
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &recs))
	require.Len(t, recs, 1)
	require.Equal(t, 2, recs[0].RawCount)
}

func TestResultsEndpointWithoutStore(t *testing.T) {
	s := newTestServer(t, false)

	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/results", nil))
	require.Equal(t, http.StatusNotFound, rr.Code)
}

func TestResultImageEndpoint(t *testing.T) {
	s := newTestServer(t, true)

	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, uploadRequest(t, "/analyze", cellPNG(t)))
	require.Equal(t, http.StatusOK, rr.Code)

	var resp analyzeResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.NotZero(t, resp.ResultID)

	rr = httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet,
		"/results/"+strconv.FormatInt(resp.ResultID, 10)+"/image", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "image/png", rr.Header().Get("Content-Type"))

	// Unknown ID.
	rr = httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/results/99999/image", nil))
	require.Equal(t, http.StatusNotFound, rr.Code)
}

func TestScreenEndpoint(t *testing.T) {
	s := newTestServer(t, false)

	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, uploadRequest(t, "/screen", cellPNG(t)))
	require.Equal(t, http.StatusOK, rr.Code)

	var resp screenResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.GreaterOrEqual(t, resp.CellCount, 0)
}
