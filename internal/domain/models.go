package domain

import "time"

// Issue описывает задачу трекера и её кэшированное текущее состояние.
// CurrentState — денормализованная копия статуса последнего принятого события.
type Issue struct {
	Identifier   string
	TeamID       string
	TeamName     string
	Title        string
	CurrentState string
	CreatedAt    time.Time
	LastUpdated  time.Time
}

// StateEvent — одно наблюдаемое изменение статуса задачи.
// События неизменяемы и никогда не удаляются.
type StateEvent struct {
	Seq           int64
	IssueID       string
	State         string
	ObservedAt    time.Time
	SourceEventID string
}

// EventRecord — данные для записи нового события статуса.
type EventRecord struct {
	IssueID       string
	TeamID        string
	TeamName      string
	Title         string
	State         string
	ObservedAt    time.Time
	SourceEventID string
}

// Transition — производный факт перехода между двумя различными
// последовательными статусами одной задачи. Отрицательная длительность
// сохраняется как есть (рассинхронизация часов или бэкфилл).
type Transition struct {
	From     string
	To       string
	Duration time.Duration
}

// TransitionKey — ключ агрегата по упорядоченной паре статусов.
type TransitionKey struct {
	From string
	To   string
}

// TransitionMetric хранит агрегат длительностей по одной паре статусов.
// Среднее считается на чтении как Sum/Count и нигде не хранится.
type TransitionMetric struct {
	Count int64
	Sum   time.Duration
	Min   time.Duration
	Max   time.Duration
}

// Avg возвращает среднюю длительность перехода.
func (m TransitionMetric) Avg() time.Duration {
	if m.Count == 0 {
		return 0
	}

	return m.Sum / time.Duration(m.Count)
}

// Stats — сводная статистика по всем задачам.
type Stats struct {
	TotalIssues        int
	StateDistribution  map[string]int
	TeamDistribution   map[string]int
	CommonTransitions  map[string]int
	StatesTracked      []string
	TargetStateMetrics map[TransitionKey]TransitionMetric
}

// TimelinePoint — одна точка серии: момент времени и ординал статуса
// на вертикальной оси.
type TimelinePoint struct {
	State      string
	Position   int
	ObservedAt time.Time
}

// TimelineSeries — линия одной задачи на таймлайне.
type TimelineSeries struct {
	Identifier string
	Title      string
	Points     []TimelinePoint
}

// TimelineData — данные для построения таймлайна: серии по задачам
// и метрики переходов между отслеживаемыми статусами.
type TimelineData struct {
	Series  []TimelineSeries
	Metrics map[TransitionKey]TransitionMetric
}
