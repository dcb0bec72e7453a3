package response

import (
	"encoding/json"
	"net/http"
)

// JSON writes data as an application/json response. Encoding errors are
// dropped; the status line is already committed by the time they surface.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}
