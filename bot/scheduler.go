package bot

import (
	"sync"
	"time"

	"discord-modbot/model"

	"emperror.dev/errors"
	"github.com/sirupsen/logrus"
)

// Sweeper is the part of the moderation core the scheduler drives.
type Sweeper interface {
	SweepTempActions(now time.Time) error
	SweepReputation(now time.Time) int
}

// Scheduler runs the periodic moderation sweeps.
type Scheduler struct {
	sweeper Sweeper
	cfg     model.SchedulerConfig
	now     func() time.Time
	log     *logrus.Entry

	done chan struct{}
	wg   sync.WaitGroup
	once sync.Once
}

// NewScheduler creates a new scheduler. Zero intervals fall back to one minute.
func NewScheduler(sweeper Sweeper, cfg model.SchedulerConfig) *Scheduler {
	if cfg.TempActionInterval <= 0 {
		cfg.TempActionInterval = time.Minute
	}
	if cfg.ReputationInterval <= 0 {
		cfg.ReputationInterval = time.Minute
	}
	if cfg.ErrorBackoff <= 0 {
		cfg.ErrorBackoff = 60 * time.Second
	}
	return &Scheduler{
		sweeper: sweeper,
		cfg:     cfg,
		now:     time.Now,
		log:     logrus.WithField("p", "scheduler"),
		done:    make(chan struct{}),
	}
}

// Start begins all scheduled tasks.
func (s *Scheduler) Start() {
	s.wg.Add(2)
	go s.loop("temp_actions", s.cfg.TempActionInterval, s.sweepTempActions)
	go s.loop("reputation", s.cfg.ReputationInterval, s.sweepReputation)
}

// Stop terminates all scheduled tasks and waits for them to return.
func (s *Scheduler) Stop() {
	s.once.Do(func() {
		s.log.Info("Stopping scheduler...")
		close(s.done)
	})
	s.wg.Wait()
	s.log.Info("Scheduler stopped.")
}

func (s *Scheduler) sweepTempActions() error {
	return s.sweeper.SweepTempActions(s.now())
}

func (s *Scheduler) sweepReputation() error {
	if n := s.sweeper.SweepReputation(s.now()); n > 0 {
		s.log.WithField("members", n).Debug("reputation recovered")
	}
	return nil
}

// loop runs task every interval until Stop. A failing or panicking task is logged and the
// loop sleeps for the error backoff before the next run.
func (s *Scheduler) loop(name string, interval time.Duration, task func() error) {
	defer s.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
		case <-s.done:
			return
		}

		if err := s.runSafely(task); err != nil {
			s.log.WithError(err).WithField("task", name).Error("scheduled task failed, backing off")
			select {
			case <-time.After(s.cfg.ErrorBackoff):
			case <-s.done:
				return
			}
		}
	}
}

func (s *Scheduler) runSafely(task func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("panic: %v", r)
		}
	}()
	return task()
}
