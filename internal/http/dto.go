package httpapi

import (
	"fmt"
	"math"
	"time"

	"github.com/Uday-sidagana/Linear-Tickets-Vis-Endpoints/internal/domain"
	"github.com/Uday-sidagana/Linear-Tickets-Vis-Endpoints/internal/service"
)

// WebhookRequest — входящее уведомление трекера об изменении задачи.
type WebhookRequest struct {
	Data struct {
		Action string       `json:"action"`
		Data   WebhookIssue `json:"data"`
	} `json:"data"`
}

// WebhookIssue — данные задачи в теле вебхука.
type WebhookIssue struct {
	ID         string    `json:"id"`
	Identifier string    `json:"identifier"`
	Title      string    `json:"title"`
	TeamID     string    `json:"teamId"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
	Team       struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"team"`
	State struct {
		ID   string `json:"id"`
		Name string `json:"name"`
		Type string `json:"type"`
	} `json:"state"`
}

// WebhookResponse — ответ на обработанный вебхук.
type WebhookResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Action  string `json:"action"`
}

// IssueEventDTO — одно событие истории статусов в ответах API.
type IssueEventDTO struct {
	State      string    `json:"state"`
	ObservedAt time.Time `json:"observed_at"`
}

// IssueDTO — задача с историей статусов в ответах API.
type IssueDTO struct {
	Identifier   string          `json:"identifier"`
	TeamID       string          `json:"team_id"`
	TeamName     string          `json:"team_name"`
	Title        string          `json:"title"`
	CurrentState string          `json:"current_state"`
	CreatedAt    time.Time       `json:"created_at"`
	LastUpdated  time.Time       `json:"last_updated"`
	StateHistory []IssueEventDTO `json:"state_history"`
}

// IssuesResponse — ответ API со списком задач.
type IssuesResponse struct {
	Status string     `json:"status"`
	Count  int        `json:"count"`
	Issues []IssueDTO `json:"issues"`
}

// IssueResponse — ответ API с одной задачей.
type IssueResponse struct {
	Status string   `json:"status"`
	Issue  IssueDTO `json:"issue"`
}

// IssuesByStateResponse — ответ API с задачами в указанном статусе.
type IssuesByStateResponse struct {
	Status string     `json:"status"`
	State  string     `json:"state"`
	Count  int        `json:"count"`
	Issues []IssueDTO `json:"issues"`
}

// TransitionMetricDTO — агрегат по одной паре статусов; часы округляются
// до двух знаков только здесь, на границе представления.
type TransitionMetricDTO struct {
	AvgHours float64 `json:"avg_hours"`
	Count    int64   `json:"count"`
	MinHours float64 `json:"min_hours"`
	MaxHours float64 `json:"max_hours"`
}

// StatsResponse — сводная статистика по задачам.
type StatsResponse struct {
	TotalIssues        int                            `json:"total_issues"`
	StateDistribution  map[string]int                 `json:"state_distribution"`
	TeamDistribution   map[string]int                 `json:"team_distribution"`
	CommonTransitions  map[string]int                 `json:"common_transitions"`
	StatesTracked      []string                       `json:"states_tracked"`
	TargetStateMetrics map[string]TransitionMetricDTO `json:"target_state_metrics"`
}

// TimelinePointDTO — точка серии таймлайна.
type TimelinePointDTO struct {
	State      string    `json:"state"`
	Position   int       `json:"position"`
	ObservedAt time.Time `json:"observed_at"`
}

// TimelineSeriesDTO — серия одной задачи на таймлайне.
type TimelineSeriesDTO struct {
	Identifier string             `json:"identifier"`
	Title      string             `json:"title"`
	Points     []TimelinePointDTO `json:"points"`
}

// TimelineResponse — данные таймлайна в формате json.
type TimelineResponse struct {
	Status  string                         `json:"status"`
	Series  []TimelineSeriesDTO            `json:"series"`
	Metrics map[string]TransitionMetricDTO `json:"metrics"`
}

// PublishResponse — ответ API после публикации графика.
type PublishResponse struct {
	Status        string `json:"status"`
	ShareableLink string `json:"shareable_link"`
	FileID        string `json:"file_id"`
	Filename      string `json:"filename"`
	Message       string `json:"message"`
}

// StatsPublishResponse — ответ публикации диаграммы статистики вместе
// с самой сводкой.
type StatsPublishResponse struct {
	PublishResponse
	StatsData StatsResponse `json:"stats_data"`
}

func mapIssueToDTO(iw service.IssueWithHistory) IssueDTO {
	history := make([]IssueEventDTO, 0, len(iw.Events))

	for _, ev := range iw.Events {
		history = append(history, IssueEventDTO{
			State:      ev.State,
			ObservedAt: ev.ObservedAt,
		})
	}

	return IssueDTO{
		Identifier:   iw.Issue.Identifier,
		TeamID:       iw.Issue.TeamID,
		TeamName:     iw.Issue.TeamName,
		Title:        iw.Issue.Title,
		CurrentState: iw.Issue.CurrentState,
		CreatedAt:    iw.Issue.CreatedAt,
		LastUpdated:  iw.Issue.LastUpdated,
		StateHistory: history,
	}
}

func mapIssuesToDTO(iws []service.IssueWithHistory) []IssueDTO {
	res := make([]IssueDTO, 0, len(iws))

	for _, iw := range iws {
		res = append(res, mapIssueToDTO(iw))
	}

	return res
}

func mapMetricsToDTO(metrics map[domain.TransitionKey]domain.TransitionMetric) map[string]TransitionMetricDTO {
	res := make(map[string]TransitionMetricDTO, len(metrics))

	for key, m := range metrics {
		res[fmt.Sprintf("%s → %s", key.From, key.To)] = TransitionMetricDTO{
			AvgHours: roundHours(m.Avg()),
			Count:    m.Count,
			MinHours: roundHours(m.Min),
			MaxHours: roundHours(m.Max),
		}
	}

	return res
}

func mapStatsToDTO(stats domain.Stats) StatsResponse {
	return StatsResponse{
		TotalIssues:        stats.TotalIssues,
		StateDistribution:  stats.StateDistribution,
		TeamDistribution:   stats.TeamDistribution,
		CommonTransitions:  stats.CommonTransitions,
		StatesTracked:      stats.StatesTracked,
		TargetStateMetrics: mapMetricsToDTO(stats.TargetStateMetrics),
	}
}

func mapTimelineToDTO(data domain.TimelineData) TimelineResponse {
	series := make([]TimelineSeriesDTO, 0, len(data.Series))

	for _, s := range data.Series {
		points := make([]TimelinePointDTO, 0, len(s.Points))

		for _, p := range s.Points {
			points = append(points, TimelinePointDTO{
				State:      p.State,
				Position:   p.Position,
				ObservedAt: p.ObservedAt,
			})
		}

		series = append(series, TimelineSeriesDTO{
			Identifier: s.Identifier,
			Title:      s.Title,
			Points:     points,
		})
	}

	return TimelineResponse{
		Status:  "success",
		Series:  series,
		Metrics: mapMetricsToDTO(data.Metrics),
	}
}

// roundHours переводит длительность в часы с округлением до сотых.
// Внутри агрегатов длительности не округляются.
func roundHours(d time.Duration) float64 {
	return math.Round(d.Hours()*100) / 100
}
