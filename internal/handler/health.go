package handler

import "net/http"

// GetHealth handles GET /healthz.
// It returns HTTP 200 with {"status":"ok"} when the server is running.
func (s *Server) GetHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// GetReady handles GET /readyz. It returns 503 until the first reference
// snapshot has been installed.
func (s *Server) GetReady(w http.ResponseWriter, _ *http.Request) {
	snap, err := s.snapshots.Load()
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, HealthResponse{Status: "unavailable"})
		return
	}
	at := snap.LoadedAt()
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", SnapshotLoadedAt: &at})
}

// GetOpenAPI handles GET /openapi.yaml.
func (s *Server) GetOpenAPI(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	_, _ = w.Write(s.openAPI)
}
