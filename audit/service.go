package audit

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"go.uber.org/zap"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Service appends user-management events to a line-oriented log, one
// "[<timestamp>] <action>: <username>" line per event. Writes happen on a
// single background worker so lines never interleave.
type Service struct {
	w      io.Writer
	ch     chan string
	stopCh chan struct{}
	once   sync.Once
	wg     sync.WaitGroup
	logger *zap.Logger
	now    func() time.Time
}

// New creates a new audit Service writing to w and starts its worker.
func New(w io.Writer, logger *zap.Logger) *Service {
	svc := &Service{
		w:      w,
		ch:     make(chan string, 256),
		stopCh: make(chan struct{}),
		logger: logger,
		now:    time.Now,
	}
	svc.wg.Add(1)
	go svc.worker()
	return svc
}

// OpenFile returns a size-rotated append-only log file.
func OpenFile(path string, maxSizeMB, maxBackups int) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
		LocalTime:  true,
	}
}

// Log enqueues one event. The timestamp is taken at call time.
func (svc *Service) Log(action, username string) {
	line := fmt.Sprintf("[%s] %s: %s\n", svc.now().Format(time.RFC3339), action, username)
	select {
	case <-svc.stopCh:
		svc.logger.Warn("audit log stopped, dropping entry",
			zap.String("action", action), zap.String("username", username))
		return
	default:
	}
	select {
	case svc.ch <- line:
	case <-svc.stopCh:
		svc.logger.Warn("audit log stopped, dropping entry",
			zap.String("action", action), zap.String("username", username))
	}
}

// Stop flushes remaining entries and shuts down the worker.
// It blocks until the worker goroutine has finished.
func (svc *Service) Stop(_ context.Context) {
	svc.once.Do(func() { close(svc.stopCh) })
	svc.wg.Wait()
}

func (svc *Service) worker() {
	defer svc.wg.Done()
	write := func(line string) {
		if _, err := io.WriteString(svc.w, line); err != nil {
			svc.logger.Error("audit write failed", zap.Error(err))
		}
	}
	for {
		select {
		case line := <-svc.ch:
			write(line)
		case <-svc.stopCh:
			// Drain remaining entries.
			for {
				select {
				case line := <-svc.ch:
					write(line)
				default:
					return
				}
			}
		}
	}
}
