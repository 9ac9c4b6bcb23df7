package api

import "net/http"

func (s *Server) handlePipelineStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"stats":           s.orchestrator.Stats().Snapshot(),
		"queue_depth":     s.orchestrator.QueueDepth(),
		"tracked_jobs":    s.orchestrator.TrackedJobs(),
		"publish_enabled": s.orchestrator.Store() != nil,
	})
}
