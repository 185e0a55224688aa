package server

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"

	"rbc-analyzer/internal/analyzer"
)

// maxUploadBytes caps one uploaded chamber image.
const maxUploadBytes = 32 << 20

// analyzeResponse is the JSON payload for a successful analysis.
type analyzeResponse struct {
	RawCountInROI    int    `json:"raw_count_in_ROI"`
	EstimatedPerUL   int    `json:"estimated_rbc_per_uL"`
	Interpretation   string `json:"interpretation"`
	GridDetected     bool   `json:"grid_detected"`
	ResultImageSaved string `json:"result_image_saved_at,omitempty"`
	ResultID         int64  `json:"result_id,omitempty"`
}

type screenResponse struct {
	CellCount     int     `json:"cell_count"`
	AbnormalCount int     `json:"abnormal_count"`
	WBCEstimate   int     `json:"wbc_estimate"`
	MeanRadius    float64 `json:"mean_radius"`
	StdDevRadius  float64 `json:"stddev_radius"`
}

func (s *Server) httpIndex(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	io.WriteString(w, `<h1>Haemocytometer RBC Analyzer</h1>
<p>POST an image to <code>/analyze</code> with multipart field name <code>image</code>.</p>
<pre>curl -X POST -F "image=@chamber.jpg" http://localhost:8080/analyze</pre>
`)
}

func (s *Server) httpAnalyze(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	data, name, ok := s.readUpload(w, r)
	if !ok {
		return
	}

	result, err := s.analyzer.AnalyzeBytes(data)
	if err != nil {
		if errors.Is(err, analyzer.ErrDecode) {
			s.sendError(w, http.StatusBadRequest, "uploaded file is not a decodable image")
		} else {
			s.log.Error().Err(err).Msg("analysis failed")
			s.sendError(w, http.StatusInternalServerError, "processing failed")
		}
		return
	}
	defer result.Close()

	resp := analyzeResponse{
		RawCountInROI:  result.RawCount,
		EstimatedPerUL: result.PerUL,
		Interpretation: result.Interpretation.String(),
		GridDetected:   result.GridDetected,
	}

	if s.db != nil {
		rec, err := s.db.Add(result, name)
		if err != nil {
			// Persistence trouble must not suppress a valid numeric
			// result; report the numbers and log the failure.
			s.log.Error().Err(err).Msg("failed to store result")
		} else {
			resp.ResultImageSaved = rec.Filename
			resp.ResultID = rec.ID
		}
	}

	s.sendJSON(w, http.StatusOK, resp)
}

func (s *Server) httpScreen(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	data, _, ok := s.readUpload(w, r)
	if !ok {
		return
	}

	mat, err := analyzer.DecodeMat(data)
	if err != nil {
		s.sendError(w, http.StatusBadRequest, "uploaded file is not a decodable image")
		return
	}
	defer mat.Close()

	result, err := analyzer.Screen(mat, analyzer.DefaultScreenParams())
	if err != nil {
		s.log.Error().Err(err).Msg("screen failed")
		s.sendError(w, http.StatusInternalServerError, "processing failed")
		return
	}
	defer result.Close()

	s.sendJSON(w, http.StatusOK, screenResponse{
		CellCount:     result.CellCount,
		AbnormalCount: result.AbnormalCount,
		WBCEstimate:   result.WBCEstimate,
		MeanRadius:    result.MeanRadius,
		StdDevRadius:  result.StdDevRadius,
	})
}

func (s *Server) httpResults(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if s.db == nil {
		s.sendError(w, http.StatusNotFound, "result store not configured")
		return
	}
	recs, err := s.db.Recent(50)
	if err != nil {
		s.log.Error().Err(err).Msg("list results")
		s.sendError(w, http.StatusInternalServerError, "failed to list results")
		return
	}
	s.sendJSON(w, http.StatusOK, recs)
}

func (s *Server) httpResultImage(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	if s.db == nil {
		s.sendError(w, http.StatusNotFound, "result store not configured")
		return
	}
	id, err := parseID(params.ByName("id"))
	if err != nil {
		s.sendError(w, http.StatusBadRequest, "invalid result id")
		return
	}
	rec, err := s.db.Get(id)
	if err != nil {
		s.sendError(w, http.StatusNotFound, "no such result")
		return
	}
	if rec.Filename == "" {
		s.sendError(w, http.StatusNotFound, "result has no stored image")
		return
	}
	http.ServeFile(w, r, rec.Filename)
}

// readUpload pulls the multipart "image" field out of the request. On
// failure it writes the error response itself and returns ok=false.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (data []byte, name string, ok bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile("image")
	if err != nil {
		s.sendError(w, http.StatusBadRequest, `no image uploaded; use multipart field name "image"`)
		return nil, "", false
	}
	defer file.Close()

	data, err = io.ReadAll(file)
	if err != nil {
		s.sendError(w, http.StatusBadRequest, "failed to read upload")
		return nil, "", false
	}
	return data, header.Filename, true
}

func parseID(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}
