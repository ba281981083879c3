package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/pb33f/harscope/motor"
	"github.com/pb33f/harscope/motor/model"
	"github.com/pb33f/harscope/render"
)

const (
	maxLayoutWidth  = 20000
	maxLayoutHeight = 200000
	maxImageWidth   = 4000
	maxImageHeight  = 10000
	chartWidth      = 800
	chartHeight     = 400
)

type captureSummary struct {
	Index   int                `json:"index"`
	Entries int                `json:"entries"`
	Pages   int                `json:"pages"`
	Device  motor.DeviceInfo   `json:"device"`
	Metrics *motor.PageMetrics `json:"metrics,omitempty"`
}

type captureList struct {
	FilePath string           `json:"filePath"`
	FileHash string           `json:"fileHash"`
	FileSize int64            `json:"fileSize"`
	Captures []captureSummary `json:"captures"`
}

type tooltip struct {
	Index  int                `json:"index"`
	Fields []motor.Field      `json:"fields"`
	Phases []motor.PhaseValue `json:"phases"`
}

type tableResponse struct {
	Name   string     `json:"name"`
	Title  string     `json:"title"`
	Header []string   `json:"header"`
	Rows   [][]string `json:"rows"`
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}

// respondMotorError maps layout failures to 422; the request was well formed
// but the capture cannot be laid out.
func respondMotorError(w http.ResponseWriter, err error) {
	var (
		domainErr *motor.InvalidDomainError
		entryErr  *motor.InvalidEntryError
		widthErr  *motor.InsufficientWidthError
	)
	switch {
	case errors.As(err, &widthErr):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &domainErr), errors.As(err, &entryErr):
		respondError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		respondError(w, http.StatusInternalServerError, err.Error())
	}
}

func (s *Server) capture(w http.ResponseWriter, r *http.Request) (*model.Capture, int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid capture id")
		return nil, 0, false
	}
	capture, err := s.set.Capture(id)
	if err != nil {
		respondError(w, http.StatusNotFound, "capture not found")
		return nil, 0, false
	}
	return capture, id, true
}

func (s *Server) listCaptures(w http.ResponseWriter, r *http.Request) {
	list := captureList{
		FilePath: s.set.FilePath,
		FileHash: s.set.FileHash,
		FileSize: s.set.FileSize,
		Captures: make([]captureSummary, 0, len(s.set.Captures)),
	}
	for i, c := range s.set.Captures {
		summary := captureSummary{
			Index:   i,
			Entries: len(c.Log.Entries),
			Pages:   len(c.Log.Pages),
			Device:  motor.DescribeDevice(c),
		}
		if metrics, err := motor.AggregatePageMetrics(c, 0); err == nil {
			summary.Metrics = &metrics
		}
		list.Captures = append(list.Captures, summary)
	}
	respondJSON(w, http.StatusOK, list)
}

// budget reads optional width and height overrides from the query.
func (s *Server) budget(r *http.Request, capture *model.Capture) (motor.Budget, error) {
	budget := s.cfg.Budget(len(capture.Log.Entries))

	if v := r.URL.Query().Get("width"); v != "" {
		width, err := strconv.ParseFloat(v, 64)
		if err != nil || width <= 0 || width > maxLayoutWidth {
			return budget, errors.New("invalid width")
		}
		budget.TotalWidth = width
	}
	if v := r.URL.Query().Get("height"); v != "" {
		height, err := strconv.ParseFloat(v, 64)
		if err != nil || height <= 0 || height > maxLayoutHeight {
			return budget, errors.New("invalid height")
		}
		budget.TotalHeight = height
	}
	return budget, nil
}

func (s *Server) layout(w http.ResponseWriter, r *http.Request) (*motor.Waterfall, bool) {
	capture, _, ok := s.capture(w, r)
	if !ok {
		return nil, false
	}
	budget, err := s.budget(r, capture)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}
	wf, err := motor.LayoutEntries(capture, budget)
	if err != nil {
		respondMotorError(w, err)
		return nil, false
	}
	return wf, true
}

func (s *Server) getLayout(w http.ResponseWriter, r *http.Request) {
	wf, ok := s.layout(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, wf)
}

func (s *Server) getWaterfallPNG(w http.ResponseWriter, r *http.Request) {
	wf, ok := s.layout(w, r)
	if !ok {
		return
	}
	if wf.Budget.TotalWidth > maxImageWidth || wf.Budget.TotalHeight > maxImageHeight {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("image too large: at most %dx%d", maxImageWidth, maxImageHeight))
		return
	}

	var buf bytes.Buffer
	if err := render.WritePNG(&buf, wf, render.PNGOptions{Palette: s.palette}); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, render.ErrImageTooLarge) {
			status = http.StatusBadRequest
		}
		respondError(w, status, err.Error())
		return
	}
	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) getPhaseChart(w http.ResponseWriter, r *http.Request) {
	capture, _, ok := s.capture(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := render.WritePhaseChart(&buf, capture, s.palette, chartWidth, chartHeight); err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) getMetrics(w http.ResponseWriter, r *http.Request) {
	capture, _, ok := s.capture(w, r)
	if !ok {
		return
	}

	page := 0
	if v := r.URL.Query().Get("page"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid page")
			return
		}
		page = p
	}

	metrics, err := motor.AggregatePageMetrics(capture, page)
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, metrics)
}

func (s *Server) getTooltip(w http.ResponseWriter, r *http.Request) {
	capture, _, ok := s.capture(w, r)
	if !ok {
		return
	}

	index, err := strconv.Atoi(chi.URLParam(r, "entry"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid entry index")
		return
	}
	if index < 0 || index >= len(capture.Log.Entries) {
		respondError(w, http.StatusNotFound, "entry not found")
		return
	}

	entry := &capture.Log.Entries[index]
	respondJSON(w, http.StatusOK, tooltip{
		Index:  index,
		Fields: motor.DescribeEntry(entry),
		Phases: motor.DescribePhases(entry),
	})
}

func (s *Server) getTable(w http.ResponseWriter, r *http.Request) {
	table, ok := motor.TableByName(chi.URLParam(r, "name"))
	if !ok {
		respondError(w, http.StatusNotFound, "table not found")
		return
	}
	respondJSON(w, http.StatusOK, tableResponse{
		Name:   table.Name,
		Title:  table.Title,
		Header: table.Header(),
		Rows:   table.Rows(s.set.Captures),
	})
}
