package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	cerr "github.com/saeidalz13/armada/internal/error"
	"github.com/saeidalz13/armada/internal/ranking"
)

// HandleRanking serves the persisted ranking, best first.
func (s *Server) HandleRanking(w http.ResponseWriter, r *http.Request) {
	scores, err := s.store.Load(r.Context())
	if err != nil {
		log.Println("failed to load ranking:", err)
		writeJson(w, http.StatusInternalServerError, map[string]string{"error": "ranking unavailable"})
		return
	}
	if len(scores) == 0 {
		writeJson(w, http.StatusNotFound, map[string]string{"error": cerr.ErrRankingEmpty.Error()})
		return
	}

	writeJson(w, http.StatusOK, ranking.Sorted(scores))
}

func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func writeJson(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil && !errors.Is(err, http.ErrHandlerTimeout) {
		log.Println("failed to write response:", err)
	}
}
