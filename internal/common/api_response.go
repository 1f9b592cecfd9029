package common

import (
	"encoding/json"
	"log"
	"net/http"
)

// RespondJSON writes an arbitrary JSON body. The ACARS desktop client expects
// plain payload shapes ({"success":true}, {"bid":...}), not a wrapper envelope.
func RespondJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("JSON encode failed: %v", err)
	}
}

// RespondError writes the {"error": ...} shape the client displays verbatim.
func RespondError(w http.ResponseWriter, code int, message string, extra ...map[string]any) {
	body := map[string]any{"error": message}
	for _, m := range extra {
		for k, v := range m {
			body[k] = v
		}
	}
	RespondJSON(w, code, body)
}
