package jobqueue

import (
	"context"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"github.com/ManuelReschke/LinkFox/internal/pkg/config"
)

// ScheduledRun is a periodic task the manager triggers, typically one
// work-queue handler run.
type ScheduledRun struct {
	Name string
	Run  func(ctx context.Context) error
}

// Manager manages the global job queue and background tasks
type Manager struct {
	queue          *Queue
	scheduleEvery  time.Duration
	schedule       []ScheduledRun
	scheduleTicker *time.Ticker
	stopCh         chan struct{}
	cancel         context.CancelFunc
	wg             sync.WaitGroup
	mu             sync.Mutex
	running        bool
}

var (
	globalManager *Manager
	managerOnce   sync.Once
)

// GetManager returns the global job queue manager (singleton)
func GetManager() *Manager {
	managerOnce.Do(func() {
		globalManager = NewManager(NewQueue(config.Get().Queue.WorkerCount))
	})
	return globalManager
}

// NewManager wraps a queue without any scheduled runs.
func NewManager(queue *Queue) *Manager {
	return &Manager{
		queue:  queue,
		stopCh: make(chan struct{}),
	}
}

// GetQueue returns the managed job queue
func (m *Manager) GetQueue() *Queue {
	return m.queue
}

// Schedule registers runs triggered every interval once the manager starts.
// A non-positive interval disables scheduling.
func (m *Manager) Schedule(interval time.Duration, runs ...ScheduledRun) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scheduleEvery = interval
	m.schedule = append(m.schedule, runs...)
}

// Start starts the job queue and background tasks
func (m *Manager) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return
	}

	// Recreate stop channel for each start cycle so manager can be restarted safely.
	m.stopCh = make(chan struct{})
	m.running = true
	log.Info("[JobQueue Manager] Starting job queue and background tasks")

	m.queue.Start()

	if m.scheduleEvery > 0 && len(m.schedule) > 0 {
		ctx, cancel := context.WithCancel(context.Background())
		m.cancel = cancel
		m.scheduleTicker = time.NewTicker(m.scheduleEvery)
		m.wg.Add(1)
		go m.scheduleWorker(ctx, m.scheduleTicker, m.stopCh)
	}

	log.Info("[JobQueue Manager] Started successfully")
}

// Stop stops the job queue and background tasks
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running {
		return
	}

	log.Info("[JobQueue Manager] Stopping job queue and background tasks...")

	if m.scheduleTicker != nil {
		m.scheduleTicker.Stop()
		m.scheduleTicker = nil
	}
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}

	// Signal workers to stop
	close(m.stopCh)
	m.running = false

	// Wait for background workers to finish
	m.wg.Wait()

	m.queue.Stop()

	log.Info("[JobQueue Manager] Stopped successfully")
}

// scheduleWorker triggers every scheduled run on each tick
func (m *Manager) scheduleWorker(ctx context.Context, ticker *time.Ticker, stopCh chan struct{}) {
	defer m.wg.Done()
	log.Infof("[JobQueue Manager] Started schedule worker (interval: %s, runs: %d)", m.scheduleEvery, len(m.schedule))

	for {
		select {
		case <-stopCh:
			log.Info("[JobQueue Manager] Schedule worker stopping")
			return
		case <-ticker.C:
			m.RunScheduledOnce(ctx)
		}
	}
}

// RunScheduledOnce triggers every scheduled run once, in registration order.
// Errors are logged and do not stop later runs.
func (m *Manager) RunScheduledOnce(ctx context.Context) {
	for _, run := range m.schedule {
		if err := run.Run(ctx); err != nil {
			log.Errorf("[JobQueue Manager] Scheduled run %s failed: %v", run.Name, err)
		}
	}
}

// IsRunning returns whether the manager is currently running
func (m *Manager) IsRunning() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}
