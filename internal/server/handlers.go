package server

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/matzehuels/smapshot/pkg/boundary"
	"github.com/matzehuels/smapshot/pkg/cache"
	"github.com/matzehuels/smapshot/pkg/errors"
	"github.com/matzehuels/smapshot/pkg/pipeline"
)

var contentTypes = map[string]string{
	pipeline.FormatPNG: "image/png",
	pipeline.FormatPDF: "application/pdf",
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	opts, err := s.requestOptions(r)
	if err != nil {
		writeError(w, err)
		return
	}
	format := opts.Formats[0]

	job := pipeline.Job{ID: uuid.NewString(), Options: opts}
	res := s.runner.Run(r.Context(), job)

	rec := JobRecord{
		ID:        res.ID,
		Name:      res.Name,
		Format:    format,
		Duration:  res.Duration,
		CreatedAt: time.Now().UTC(),
	}
	if res.Err != nil {
		rec.Status = StatusFailed
		rec.Error = errors.UserMessage(res.Err)
		s.saveJob(r.Context(), rec)
		w.Header().Set("X-Job-ID", res.ID)
		writeError(w, res.Err)
		return
	}

	data := res.Result.Artifacts[format]
	rec.Status = StatusDone
	rec.Bytes = len(data)
	rec.Cached = res.Result.CacheInfo.ArtifactHit
	rec.Roads = res.Result.Stats.Network.Kept
	rec.Labels = res.Result.Stats.Labels
	s.saveJob(r.Context(), rec)

	w.Header().Set("Content-Type", contentTypes[format])
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("X-Job-ID", res.ID)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// requestOptions reads the boundary body and the canvas query parameters.
func (s *Server) requestOptions(r *http.Request) (pipeline.Options, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, MaxBoundaryBytes+1))
	if err != nil {
		return pipeline.Options{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "read body")
	}
	if len(body) > MaxBoundaryBytes {
		return pipeline.Options{}, errors.New(errors.ErrCodeInvalidInput, "boundary larger than %d bytes", MaxBoundaryBytes)
	}
	shape, err := boundary.ParseGeoJSON(body)
	if err != nil {
		return pipeline.Options{}, err
	}

	if shape.Name == "" {
		shape.Name = "boundary"
	}
	opts := s.defaults.Clone()
	opts.Boundary = ""
	opts.Shape = shape
	opts.OSMFile = ""
	opts.Formats = []string{pipeline.FormatPNG}

	q := r.URL.Query()
	if f := q.Get("format"); f != "" {
		opts.Formats = []string{f}
	}
	if name := q.Get("name"); name != "" {
		shape.Name = name
	}
	for key, dst := range map[string]*int{"width": &opts.Width, "height": &opts.Height} {
		if v := q.Get(key); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return pipeline.Options{}, errors.New(errors.ErrCodeInvalidInput, "%s must be an integer, got %q", key, v)
			}
			*dst = n
		}
	}
	if v := q.Get("margin"); v != "" {
		m, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return pipeline.Options{}, errors.New(errors.ErrCodeInvalidInput, "margin must be a number, got %q", v)
		}
		opts.Margin = m
	}
	opts.Refresh = q.Get("refresh") == "true"
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return pipeline.Options{}, err
	}
	return opts, nil
}

func (s *Server) handleJob(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		writeError(w, errors.New(errors.ErrCodeInvalidInput, "invalid job id %q", id))
		return
	}
	rec, err := s.loadJob(r.Context(), id)
	if stderrors.Is(err, cache.ErrCacheMiss) {
		writeError(w, errors.New(errors.ErrCodeNotFound, "job %s not found", id))
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, errors.HTTPStatus(err), errorBody{
		Error: errors.UserMessage(err),
		Code:  string(errors.GetCode(err)),
	})
}
