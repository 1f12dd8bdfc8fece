package response

import (
	"encoding/json"
	"net/http"
)

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, map[string]string{"error": message})
}

// Accepted is returned for an admitted provisioning request. The pipeline
// outcome is not part of the response; it arrives by mail.
type Accepted struct {
	Message       string `json:"message"`
	SiteURL       string `json:"siteUrl"`
	AdminUsername string `json:"adminUsername"`
	JobID         string `json:"jobId"`
}
