package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"price-match/internal/match/model"
)

// Health: liveness-проба, каталоги не трогает.
func Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Probe описывает, как проверить источник каталогов. Пустые поля пропускаются.
type Probe struct {
	Ping  func(ctx context.Context) error // базы данных
	Count func(store model.Store) int     // снимки в памяти
}

// Ready: readiness-проба. 503, если источник каталогов не отвечает.
func Ready(p Probe) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if p.Ping != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := p.Ping(ctx); err != nil {
				zerolog.Ctx(r.Context()).Warn().Err(err).Msg("catalog ping failed")
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
				return
			}
		}
		resp := map[string]any{"status": "ready"}
		if p.Count != nil {
			sizes := make(map[model.Store]int, len(model.Stores))
			for _, st := range model.Stores {
				sizes[st] = p.Count(st)
			}
			resp["products"] = sizes
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
