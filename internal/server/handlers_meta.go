package server

import (
	"net/http"

	"daotask/internal/api"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	info, err := s.store.StoreInfo(r.Context())
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}

	resp := api.InfoResponse{
		ProjectPrefix: s.projectPrefix,
		SchemaVersion: info.SchemaVersion,
		DBPath:        info.DBPath,
		TaskCounts:    info.TaskCounts,
		TotalTasks:    info.TotalTasks,
		AuthRequired:  s.tokenHash != "",

		MaxLockMonths:    s.service.limits.MaxLockMonths,
		MaxVestingMonths: s.service.limits.MaxVestingMonths,
	}

	s.writeJSON(w, http.StatusOK, resp)
}
