package health

import (
	"encoding/json"
	"net/http"
	"sort"

	"github.com/searchforge/cardfuse/internal/engine"
)

// Readyz returns an http.Handler reporting whether the current engine
// generation is serving and which signals it loaded.
func Readyz(holder *engine.Holder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		eng := holder.Load()

		status := http.StatusOK
		payload := map[string]any{"ready": eng != nil}
		if eng == nil {
			status = http.StatusServiceUnavailable
		} else {
			active := eng.Catalog().Active()
			absent := make([]string, 0)
			for name := range eng.Catalog().Absent() {
				absent = append(absent, string(name))
			}
			sort.Strings(absent)
			payload["signals_active"] = len(active)
			payload["signals_absent"] = absent
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(payload)
	}
}
