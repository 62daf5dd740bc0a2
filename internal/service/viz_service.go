package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/Uday-sidagana/Linear-Tickets-Vis-Endpoints/internal/domain"
	"github.com/Uday-sidagana/Linear-Tickets-Vis-Endpoints/internal/publish"
	"github.com/Uday-sidagana/Linear-Tickets-Vis-Endpoints/internal/random"
	"github.com/Uday-sidagana/Linear-Tickets-Vis-Endpoints/internal/render"
)

// VizService генерирует график, публикует его во внешнем хранилище и
// возвращает ссылку. Путь полностью читающий: никакой сбой здесь не
// меняет данные хранилища событий.
type VizService struct {
	timeline  *TimelineService
	stats     *StatsService
	renderer  render.Renderer
	publisher publish.Publisher
	rand      random.Rand
}

// NewVizService создаёт новый VizService.
func NewVizService(
	timeline *TimelineService,
	stats *StatsService,
	renderer render.Renderer,
	publisher publish.Publisher,
	rand random.Rand,
) *VizService {
	return &VizService{
		timeline:  timeline,
		stats:     stats,
		renderer:  renderer,
		publisher: publisher,
		rand:      rand,
	}
}

// PublishTimeline строит таймлайн, рендерит PNG и публикует его.
func (s *VizService) PublishTimeline(ctx context.Context, filterStates []string) (publish.Result, error) {
	data, err := s.timeline.GetTimelineData(ctx, filterStates)

	if err != nil {
		return publish.Result{}, err
	}

	filename := s.chartFilename("linear_timeline")

	return s.renderAndPublish(ctx, filename, func(w io.Writer) error {
		return s.renderer.RenderTimeline(w, data, s.timeline.Tracked())
	})
}

// PublishStats строит диаграмму статистики, публикует её и возвращает
// также саму сводку.
func (s *VizService) PublishStats(ctx context.Context) (domain.Stats, publish.Result, error) {
	stats, err := s.stats.GetStats(ctx)

	if err != nil {
		return domain.Stats{}, publish.Result{}, err
	}

	filename := s.chartFilename("linear_stats")
	res, err := s.renderAndPublish(ctx, filename, func(w io.Writer) error {
		return s.renderer.RenderStats(w, stats)
	})

	if err != nil {
		return domain.Stats{}, publish.Result{}, err
	}

	return stats, res, nil
}

// renderAndPublish рендерит график во временный файл и отдаёт его
// публикатору. Файл удаляется на любом исходе, включая ошибку загрузки.
func (s *VizService) renderAndPublish(ctx context.Context, filename string, renderFn func(io.Writer) error) (publish.Result, error) {
	tmp, err := os.CreateTemp("", "chart-*.png")

	if err != nil {
		return publish.Result{}, domain.NewDomainError(domain.ErrorCodeInternal, fmt.Errorf("create temp chart: %w", err))
	}

	defer func() {
		_ = os.Remove(tmp.Name())
	}()

	if err := renderFn(tmp); err != nil {
		_ = tmp.Close()
		return publish.Result{}, domain.NewDomainError(domain.ErrorCodeInternal, fmt.Errorf("render chart: %w", err))
	}

	if err := tmp.Close(); err != nil {
		return publish.Result{}, domain.NewDomainError(domain.ErrorCodeInternal, fmt.Errorf("flush chart: %w", err))
	}

	res, err := s.publisher.Publish(ctx, tmp.Name(), filename)

	if err != nil {
		return publish.Result{}, domain.NewDomainError(domain.ErrorCodePublish, err)
	}

	return res, nil
}

func (s *VizService) chartFilename(prefix string) string {
	return fmt.Sprintf("%s_%s_%s.png",
		prefix,
		time.Now().UTC().Format("20060102_150405"),
		random.Suffix(s.rand, 8),
	)
}
