package services

import (
	"sync"
	"time"

	"decision_governance_system/internal/db/models"
	"decision_governance_system/internal/db/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ChangeCallback func(decision *models.Decision)

// ChangeNotifier fans out decision changes to subscribers. Delivery is
// at-least-once and carries the updated decision; subscribers that need a
// consistent view should re-read through the repository rather than trust
// the payload as an ordered stream.
type ChangeNotifier interface {
	Subscribe(workspaceID string, callback ChangeCallback) string
	Unsubscribe(subscriptionID string)
	Start()
	Stop()
}

type subscription struct {
	workspaceID string
	callback    ChangeCallback
}

type pollingChangeNotifier struct {
	decisionRepository repositories.DecisionRepository
	interval           time.Duration
	logger             *zap.SugaredLogger

	mu            sync.Mutex
	subscriptions map[string]subscription
	lastPolled    time.Time
	done          chan struct{}
	started       bool
	stopped       bool
}

// NewChangeNotifier builds a notifier that polls the decision repository on
// the given interval. The poll is an implementation detail behind the
// ChangeNotifier contract; callers only see subscribe/unsubscribe.
func NewChangeNotifier(
	decisionRepository repositories.DecisionRepository,
	interval time.Duration,
	logger *zap.SugaredLogger,
) ChangeNotifier {
	return &pollingChangeNotifier{
		decisionRepository: decisionRepository,
		interval:           interval,
		logger:             logger,
		subscriptions:      make(map[string]subscription),
		done:               make(chan struct{}),
	}
}

func (n *pollingChangeNotifier) Subscribe(workspaceID string, callback ChangeCallback) string {
	subscriptionID := uuid.NewString()

	n.mu.Lock()
	n.subscriptions[subscriptionID] = subscription{
		workspaceID: workspaceID,
		callback:    callback,
	}
	n.mu.Unlock()

	return subscriptionID
}

func (n *pollingChangeNotifier) Unsubscribe(subscriptionID string) {
	n.mu.Lock()
	delete(n.subscriptions, subscriptionID)
	n.mu.Unlock()
}

func (n *pollingChangeNotifier) Start() {
	n.mu.Lock()
	if n.started {
		n.mu.Unlock()
		return
	}
	n.started = true
	n.lastPolled = time.Now().UTC()
	n.mu.Unlock()

	go n.run()
}

func (n *pollingChangeNotifier) Stop() {
	n.mu.Lock()
	defer n.mu.Unlock()

	if !n.started || n.stopped {
		return
	}
	n.stopped = true
	close(n.done)
}

func (n *pollingChangeNotifier) run() {
	ticker := time.NewTicker(n.interval)
	defer ticker.Stop()

	for {
		select {
		case <-n.done:
			return
		case <-ticker.C:
			n.poll()
		}
	}
}

func (n *pollingChangeNotifier) poll() {
	n.mu.Lock()
	since := n.lastPolled
	workspaceSubscriptions := make(map[string][]ChangeCallback)
	for _, sub := range n.subscriptions {
		workspaceSubscriptions[sub.workspaceID] = append(workspaceSubscriptions[sub.workspaceID], sub.callback)
	}
	n.mu.Unlock()

	now := time.Now().UTC()
	allPolled := true

	for workspaceID, callbacks := range workspaceSubscriptions {
		decisions, err := n.decisionRepository.GetManyUpdatedSince(workspaceID, since)
		if err != nil {
			// Keeping lastPolled where it was re-delivers this window on
			// the next tick, which the at-least-once contract allows.
			n.logger.Errorw("failed to poll for decision changes", "workspaceID", workspaceID, "error", err)
			allPolled = false
			continue
		}

		for _, decision := range decisions {
			for _, callback := range callbacks {
				callback(decision)
			}
		}
	}

	if allPolled {
		n.mu.Lock()
		n.lastPolled = now
		n.mu.Unlock()
	}
}
