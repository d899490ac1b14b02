// Package httpapi is a thin HTTP façade over translate.Run: submit a
// manifest URI, poll a job id for completion.
package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/google/uuid"

	"github.com/svf2gltf/svf2gltf/gltfwriter"
	"github.com/svf2gltf/svf2gltf/internal/obslog"
	"github.com/svf2gltf/svf2gltf/svf"
	"github.com/svf2gltf/svf2gltf/translate"
)

var log = obslog.For("httpapi")

// JobStatus is the lifecycle state of one translation job.
type JobStatus string

const (
	JobPending JobStatus = "pending"
	JobRunning JobStatus = "running"
	JobDone    JobStatus = "done"
	JobFailed  JobStatus = "failed"
)

// Job is one submitted translation's observable state.
type Job struct {
	ID      string            `json:"id"`
	Status  JobStatus         `json:"status"`
	Summary *translate.Summary `json:"summary,omitempty"`
	Error   string            `json:"error,omitempty"`
}

// Server exposes POST /jobs and GET /jobs/{id} over an in-memory job
// store. Each job runs translate.Run against its own output directory.
type Server struct {
	Fetch         svf.AssetFetcher
	OutputDirRoot string
	Config        gltfwriter.Config

	mu   sync.Mutex
	jobs map[string]*Job
}

// NewServer returns a Server with an empty job store.
func NewServer(fetch svf.AssetFetcher, outputDirRoot string, cfg gltfwriter.Config) *Server {
	return &Server{
		Fetch:         fetch,
		OutputDirRoot: outputDirRoot,
		Config:        cfg,
		jobs:          make(map[string]*Job),
	}
}

type submitRequest struct {
	ManifestURI string `json:"manifestUri"`
	Binary      bool   `json:"binary"`
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/jobs":
		s.handleSubmit(w, r)
	case r.Method == http.MethodGet && len(r.URL.Path) > len("/jobs/"):
		s.handleStatus(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ManifestURI == "" {
		http.Error(w, "manifestUri is required", http.StatusBadRequest)
		return
	}

	id := uuid.NewString()
	job := &Job{ID: id, Status: JobPending}

	s.mu.Lock()
	s.jobs[id] = job
	s.mu.Unlock()

	go s.run(context.Background(), job, req)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(job)
}

func (s *Server) run(ctx context.Context, job *Job, req submitRequest) {
	s.setStatus(job.ID, JobRunning, nil, "")

	summary, err := translate.Run(ctx, s.Fetch, translate.Options{
		ManifestURI: req.ManifestURI,
		OutputDir:   s.OutputDirRoot + "/" + job.ID,
		Binary:      req.Binary,
		Config:      s.Config,
	})
	if err != nil {
		log.WithField("job", job.ID).WithError(err).Error("translation failed")
		s.setStatus(job.ID, JobFailed, nil, err.Error())
		return
	}
	s.setStatus(job.ID, JobDone, summary, "")
}

func (s *Server) setStatus(id string, status JobStatus, summary *translate.Summary, errMsg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[id]
	if !ok {
		return
	}
	job.Status = status
	job.Summary = summary
	job.Error = errMsg
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Path[len("/jobs/"):]

	s.mu.Lock()
	job, ok := s.jobs[id]
	s.mu.Unlock()

	if !ok {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(job)
}
