package httpapi

import (
	"encoding/json"
	"net/http"
)

type healthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

// HealthHandler возвращает статус здоровья сервиса.
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	resp := healthResponse{Status: "healthy", Service: "Linear Issue Tracker"}
	_ = json.NewEncoder(w).Encode(resp)
}
