package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/Uday-sidagana/Linear-Tickets-Vis-Endpoints/internal/domain"
	"github.com/Uday-sidagana/Linear-Tickets-Vis-Endpoints/internal/service"
)

// VizHandlers содержит HTTP-обработчики визуализации и статистики.
type VizHandlers struct {
	stats    *service.StatsService
	timeline *service.TimelineService
	viz      *service.VizService
}

// NewVizHandlers создаёт набор HTTP-обработчиков визуализации.
func NewVizHandlers(
	stats *service.StatsService,
	timeline *service.TimelineService,
	viz *service.VizService,
) *VizHandlers {
	return &VizHandlers{
		stats:    stats,
		timeline: timeline,
		viz:      viz,
	}
}

// GetTimeline отдаёт данные таймлайна (format=json) или публикует
// PNG-график и возвращает ссылку (format=png).
func (h *VizHandlers) GetTimeline(w http.ResponseWriter, r *http.Request) {
	filterStates := parseFilterStates(r.URL.Query().Get("filter_states"))

	switch format(r) {
	case "json":
		data, err := h.timeline.GetTimelineData(r.Context(), filterStates)

		if err != nil {
			WriteError(w, err)
			return
		}

		writeJSON(w, mapTimelineToDTO(data))

	case "png":
		res, err := h.viz.PublishTimeline(r.Context(), filterStates)

		if err != nil {
			WriteError(w, err)
			return
		}

		writeJSON(w, PublishResponse{
			Status:        "success",
			ShareableLink: res.Link,
			FileID:        res.FileID,
			Filename:      res.Filename,
			Message:       "Visualization generated and uploaded successfully",
		})

	default:
		WriteError(w, domain.NewDomainError(domain.ErrorCodeValidation,
			fmt.Errorf("format must be 'json' or 'png'")))
	}
}

// GetStats отдаёт сводную статистику (format=json) или публикует
// PNG-диаграмму вместе со сводкой (format=png).
func (h *VizHandlers) GetStats(w http.ResponseWriter, r *http.Request) {
	switch format(r) {
	case "json":
		stats, err := h.stats.GetStats(r.Context())

		if err != nil {
			WriteError(w, err)
			return
		}

		writeJSON(w, mapStatsToDTO(stats))

	case "png":
		stats, res, err := h.viz.PublishStats(r.Context())

		if err != nil {
			WriteError(w, err)
			return
		}

		writeJSON(w, StatsPublishResponse{
			PublishResponse: PublishResponse{
				Status:        "success",
				ShareableLink: res.Link,
				FileID:        res.FileID,
				Filename:      res.Filename,
				Message:       "Statistics visualization generated and uploaded successfully",
			},
			StatsData: mapStatsToDTO(stats),
		})

	default:
		WriteError(w, domain.NewDomainError(domain.ErrorCodeValidation,
			fmt.Errorf("format must be 'json' or 'png'")))
	}
}

func format(r *http.Request) string {
	f := r.URL.Query().Get("format")

	if f == "" {
		return "json"
	}

	return f
}

func parseFilterStates(raw string) []string {
	if raw == "" {
		return nil
	}

	var states []string

	for _, s := range strings.Split(raw, ",") {
		if s = strings.TrimSpace(s); s != "" {
			states = append(states, s)
		}
	}

	return states
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
