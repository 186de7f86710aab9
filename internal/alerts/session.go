package alerts

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/sudo-init-do/ecosync/internal/marketplace"
	"github.com/sudo-init-do/ecosync/internal/requests"
)

// DefaultInterval is how often a Session refreshes its feed.
const DefaultInterval = 30 * time.Second

// Source supplies the raw data notifications are derived from.
type Source interface {
	UserTransactions(ctx context.Context, userID string) ([]marketplace.Order, error)
	ActiveRequests(ctx context.Context) ([]requests.Request, error)
	AvailableItems(ctx context.Context) ([]marketplace.Item, error)
}

// Collect fetches everything from src and builds userID's notifications.
func Collect(ctx context.Context, src Source, userID string) ([]Notification, error) {
	orders, err := src.UserTransactions(ctx, userID)
	if err != nil {
		return nil, err
	}
	reqs, err := src.ActiveRequests(ctx)
	if err != nil {
		return nil, err
	}
	items, err := src.AvailableItems(ctx)
	if err != nil {
		return nil, err
	}
	return Build(userID, orders, reqs, items), nil
}

// Session keeps one user's Feed current by polling a Source on a cron schedule.
type Session struct {
	userID    string
	src       Source
	feed      *Feed
	logger    *zap.Logger
	interval  time.Duration
	onRefresh func([]Notification)

	mu     sync.Mutex
	cron   *cron.Cron
	ctx    context.Context
	cancel context.CancelFunc
}

type Option func(*Session)

// WithInterval overrides DefaultInterval.
func WithInterval(d time.Duration) Option {
	return func(s *Session) { s.interval = d }
}

// OnRefresh registers fn to receive every successfully refreshed list.
func OnRefresh(fn func([]Notification)) Option {
	return func(s *Session) { s.onRefresh = fn }
}

func NewSession(userID string, src Source, logger *zap.Logger, opts ...Option) *Session {
	s := &Session{
		userID:   userID,
		src:      src,
		feed:     &Feed{},
		logger:   logger.Named("alerts").With(zap.String("user_id", userID)),
		interval: DefaultInterval,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Session) Feed() *Feed { return s.feed }

// Start refreshes once immediately and then on every tick until Stop or ctx is done.
// Ticks that fire while a refresh is still running are skipped.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cron != nil {
		return nil
	}

	l := cronLogger{s.logger.Sugar()}
	c := cron.New(cron.WithLogger(l), cron.WithChain(cron.SkipIfStillRunning(l)))
	s.ctx, s.cancel = context.WithCancel(ctx)
	if _, err := c.AddFunc("@every "+s.interval.String(), s.tick); err != nil {
		s.cancel()
		return err
	}

	s.tick()
	c.Start()
	s.cron = c
	s.logger.Info("notification session started", zap.Duration("interval", s.interval))
	return nil
}

// Stop halts the schedule and waits for a running refresh to finish.
func (s *Session) Stop() {
	s.mu.Lock()
	c, cancel := s.cron, s.cancel
	s.cron = nil
	s.mu.Unlock()
	if c == nil {
		return
	}
	cancel()
	<-c.Stop().Done()
	s.logger.Info("notification session stopped")
}

// Refresh rebuilds the feed from the Source.
func (s *Session) Refresh(ctx context.Context) error {
	list, err := Collect(ctx, s.src, s.userID)
	if err != nil {
		return err
	}
	s.feed.Replace(list)
	if s.onRefresh != nil {
		s.onRefresh(list)
	}
	return nil
}

func (s *Session) tick() {
	if err := s.Refresh(s.ctx); err != nil {
		s.logger.Warn("refresh notifications", zap.Error(err))
	}
}

// cronLogger routes cron's own logging through zap.
type cronLogger struct {
	s *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.s.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.s.Errorw(msg, append(keysAndValues, "error", err)...)
}
