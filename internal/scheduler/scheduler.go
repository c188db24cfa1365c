package scheduler

import (
	"fmt"
	"time"

	"github.com/ch1kkapo0m/scraping-auto/internal/core/port"

	"github.com/robfig/cron/v3"
)

// Scheduler — тонкая обертка над robfig/cron для ежедневных задач,
// настраиваемых временем вида "HH:MM".
type Scheduler struct {
	cron   *cron.Cron
	logger port.LoggerPort
}

func New(logger port.LoggerPort) *Scheduler {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	c := cron.New(cron.WithParser(parser), cron.WithChain(cron.Recover(cron.DefaultLogger)))

	return &Scheduler{
		cron:   c,
		logger: logger,
	}
}

// AddDaily регистрирует задачу, срабатывающую каждый день в указанное время.
func (s *Scheduler) AddDaily(name, at string, job func()) error {
	spec, err := dailySpec(at)
	if err != nil {
		return fmt.Errorf("scheduler: job %q: %w", name, err)
	}

	jobName := name
	_, err = s.cron.AddFunc(spec, func() {
		s.logger.Info("Cron triggered", port.Fields{
			"job":      jobName,
			"schedule": at,
		})
		job()
	})
	if err != nil {
		return fmt.Errorf("scheduler: failed to add job %q: %w", name, err)
	}

	s.logger.Info("Job scheduled", port.Fields{
		"job":      name,
		"schedule": at,
	})
	return nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop останавливает планировщик и дожидается уже запущенных задач.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

// dailySpec переводит "HH:MM" в 5-польное cron-выражение.
func dailySpec(at string) (string, error) {
	t, err := time.Parse("15:04", at)
	if err != nil {
		return "", fmt.Errorf("invalid HH:MM time %q: %w", at, err)
	}
	return fmt.Sprintf("%d %d * * *", t.Minute(), t.Hour()), nil
}
