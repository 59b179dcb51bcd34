package engine

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/MrSnakeDoc/marks/internal/domain"
	"github.com/MrSnakeDoc/marks/internal/logger"
	"github.com/google/uuid"
)

// State of the collection with respect to the backend.
type State string

const (
	// StateUnbound: nobody is signed in, the collection is empty.
	StateUnbound State = "unbound"
	// StateLoading: an identity is bound but the initial fetch has
	// not landed yet.
	StateLoading State = "loading"
	// StateSynced: the collection mirrors the last successful fetch.
	StateSynced State = "synced"
)

// RemoteStore is the slice of the backend surface the engine drives.
type RemoteStore interface {
	Query(ctx context.Context, owner string) ([]domain.Bookmark, error)
	Insert(ctx context.Context, rec domain.NewBookmark) (domain.Bookmark, error)
	Delete(ctx context.Context, id string) error
}

// Subscription is one live change-feed subscription.
type Subscription interface {
	Events() <-chan domain.ChangeEvent
	Unsubscribe()
}

// SubscribeFunc opens a table-wide change-feed subscription.
type SubscribeFunc func(ctx context.Context) (Subscription, error)

// IdentitySource yields the signed-in identity and its transitions.
// Current returns (nil, nil) when signed out; Changes delivers nil
// for sign-out and may repeat an identity the consumer already knows.
type IdentitySource interface {
	Current(ctx context.Context) (*domain.Identity, error)
	Changes() <-chan *domain.Identity
}

// Snapshot is a point-in-time copy of the engine's visible state.
type Snapshot struct {
	State    State
	Identity *domain.Identity
	Entries  []Entry
	LastSync time.Time
}

// Engine keeps the in-memory bookmark collection of whoever is
// signed in synchronized with the backend. Mutations apply
// optimistically and roll back on rejection; the change feed and a
// periodic resync trigger full reconciliation fetches that replace
// the collection wholesale.
type Engine struct {
	store     RemoteStore
	subscribe SubscribeFunc
	log       logger.Logger

	resyncInterval time.Duration

	mu       sync.RWMutex
	state    State
	identity *domain.Identity
	epoch    uint64 // bumped on every bind/unbind, strands stale fetches
	coll     collection
	lastSync time.Time

	sub         Subscription
	notify      chan struct{}
	bindingStop chan struct{}

	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

func New(store RemoteStore, subscribe SubscribeFunc, resyncInterval time.Duration, log logger.Logger) *Engine {
	return &Engine{
		store:          store,
		subscribe:      subscribe,
		log:            log,
		resyncInterval: resyncInterval,
		state:          StateUnbound,
		stopCh:         make(chan struct{}),
	}
}

// Start binds the engine to the identity source: it adopts whoever is
// already signed in (blocking until that initial fetch settles) and
// then follows identity transitions in the background.
func (e *Engine) Start(ctx context.Context, source IdentitySource) error {
	ident, err := source.Current(ctx)
	if err != nil {
		return fmt.Errorf("failed to resolve current identity: %w", err)
	}
	if ident != nil {
		e.bind(ctx, ident)
	}

	e.wg.Add(1)
	go e.watchIdentity(ctx, source)
	return nil
}

// Stop ends all engine goroutines and tears down the binding.
func (e *Engine) Stop() {
	e.stopOnce.Do(func() { close(e.stopCh) })
	e.wg.Wait()
	e.unbind()
}

func (e *Engine) watchIdentity(ctx context.Context, source IdentitySource) {
	defer e.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case <-e.stopCh:
			return
		case ident, ok := <-source.Changes():
			if !ok {
				return
			}
			if ident == nil {
				e.unbind()
			} else {
				e.bind(ctx, ident)
			}
		}
	}
}

// bind makes ident the owner of the collection: previous binding torn
// down, fresh subscription established, initial fetch run. Binding
// the identity that is already bound is a no-op.
func (e *Engine) bind(ctx context.Context, ident *domain.Identity) {
	e.mu.RLock()
	same := e.identity.Same(ident)
	e.mu.RUnlock()
	if same {
		e.log.Debug("identity unchanged, keeping binding", logger.String("owner", ident.ID))
		return
	}

	e.unbind()

	notify := make(chan struct{}, 1)
	stop := make(chan struct{})

	e.mu.Lock()
	e.epoch++
	epoch := e.epoch
	copied := *ident
	e.identity = &copied
	e.state = StateLoading
	e.coll.clear()
	e.notify = notify
	e.bindingStop = stop
	e.mu.Unlock()

	e.log.Info("binding collection",
		logger.String("owner", ident.ID),
		logger.String("email", ident.Email))

	// Subscribe before the initial fetch so nothing slips between
	// the two.
	sub, err := e.subscribe(ctx)
	if err != nil {
		// Degraded: no live events, the periodic resync still runs.
		e.log.Error("failed to subscribe to change feed", logger.Error(err))
	} else {
		e.mu.Lock()
		e.sub = sub
		e.mu.Unlock()
		e.wg.Add(1)
		go e.pumpEvents(sub, notify, stop)
	}

	e.wg.Add(1)
	go e.reloadLoop(ctx, ident.ID, epoch, notify, stop)

	e.load(ctx, ident.ID, epoch)
}

// unbind clears the collection and closes the subscription. Safe to
// call while already unbound.
func (e *Engine) unbind() {
	e.mu.Lock()
	sub := e.sub
	stop := e.bindingStop
	wasBound := e.identity != nil
	owner := ""
	if wasBound {
		owner = e.identity.ID
	}
	e.sub = nil
	e.notify = nil
	e.bindingStop = nil
	e.identity = nil
	e.state = StateUnbound
	e.coll.clear()
	e.lastSync = time.Time{}
	e.epoch++ // strands any in-flight fetch
	e.mu.Unlock()

	if stop != nil {
		close(stop)
	}
	if sub != nil {
		sub.Unsubscribe()
	}
	if wasBound {
		e.log.Info("collection unbound, subscription closed", logger.String("owner", owner))
	}
}

// pumpEvents funnels feed events into the reload trigger. The trigger
// holds at most one pending signal, so event bursts collapse into a
// single refetch.
func (e *Engine) pumpEvents(sub Subscription, notify chan<- struct{}, stop <-chan struct{}) {
	defer e.wg.Done()
	for {
		select {
		case <-e.stopCh:
			return
		case <-stop:
			return
		case ev, ok := <-sub.Events():
			if !ok {
				return
			}
			e.log.Debug("change event received",
				logger.String("type", ev.Type),
				logger.String("id", ev.ID))
			select {
			case notify <- struct{}{}:
			default:
			}
		}
	}
}

func (e *Engine) reloadLoop(ctx context.Context, owner string, epoch uint64, notify <-chan struct{}, stop <-chan struct{}) {
	defer e.wg.Done()

	var resync <-chan time.Time
	if e.resyncInterval > 0 {
		ticker := time.NewTicker(e.resyncInterval)
		defer ticker.Stop()
		resync = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-e.stopCh:
			return
		case <-stop:
			return
		case <-notify:
			e.load(ctx, owner, epoch)
		case <-resync:
			e.log.Debug("periodic resync", logger.String("owner", owner))
			e.load(ctx, owner, epoch)
		}
	}
}

// load runs one full reconciliation fetch and replaces the collection
// wholesale. A failed fetch keeps the previous collection: stale but
// consistent. Results from a superseded binding are discarded.
func (e *Engine) load(ctx context.Context, owner string, epoch uint64) {
	books, err := e.store.Query(ctx, owner)
	if err != nil {
		e.log.Error("bookmark fetch failed, keeping previous collection",
			logger.String("owner", owner), logger.Error(err))
		return
	}

	// The backend already scopes by owner; rows for anyone else are
	// dropped rather than trusted.
	owned := make([]domain.Bookmark, 0, len(books))
	for _, b := range books {
		if b.Owner == owner {
			owned = append(owned, b)
		}
	}
	if dropped := len(books) - len(owned); dropped > 0 {
		e.log.Warn("dropped foreign-owner rows from fetch",
			logger.Int("dropped", dropped), logger.String("owner", owner))
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.epoch != epoch {
		e.log.Debug("discarding fetch result from a stale binding",
			logger.String("owner", owner))
		return
	}
	e.coll.replace(owned)
	e.state = StateSynced
	e.lastSync = time.Now()
	e.log.Info("collection reconciled",
		logger.String("owner", owner),
		logger.Int("count", e.coll.len()))
}

// Add validates and normalizes the input, shows an optimistic entry
// immediately and confirms it once the backend stored it. A blank
// title or URL makes the call a silent no-op. On rejection the
// optimistic entry is rolled back and a MutationError returned.
func (e *Engine) Add(ctx context.Context, title, url string) error {
	title = strings.TrimSpace(title)
	normalized := domain.NormalizeURL(url)
	if title == "" || normalized == "" {
		e.log.Debug("ignoring add with blank title or url")
		return nil
	}

	key := uuid.NewString()

	e.mu.Lock()
	if e.identity == nil {
		e.mu.Unlock()
		return ErrNotBound
	}
	owner := e.identity.ID
	epoch := e.epoch
	e.coll.prependPending(Entry{
		Bookmark: domain.Bookmark{Title: title, URL: normalized, Owner: owner},
		Key:      key,
	})
	e.mu.Unlock()

	stored, err := e.store.Insert(ctx, domain.NewBookmark{Title: title, URL: normalized, Owner: owner})

	e.mu.Lock()
	defer e.mu.Unlock()
	if err != nil {
		if e.epoch == epoch {
			e.coll.removePending(key)
		}
		e.log.Warn("bookmark insert rejected, optimistic entry rolled back",
			logger.String("title", title), logger.Error(err))
		return &MutationError{Op: "add", Err: err}
	}
	if e.epoch == epoch {
		e.coll.confirm(key, stored)
	}
	return nil
}

// Remove drops the bookmark optimistically and deletes it on the
// backend. The pre-removal snapshot is restored verbatim when the
// backend rejects the delete, interleaved mutations included.
func (e *Engine) Remove(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}

	e.mu.Lock()
	if e.identity == nil {
		e.mu.Unlock()
		return ErrNotBound
	}
	epoch := e.epoch
	snap := e.coll.snapshot()
	_, found := e.coll.removeByID(id)
	e.mu.Unlock()

	if !found {
		e.log.Debug("remove for an id not in the collection, deleting on backend anyway",
			logger.String("id", id))
	}

	if err := e.store.Delete(ctx, id); err != nil {
		e.mu.Lock()
		if e.epoch == epoch {
			e.coll.restore(snap)
		}
		e.mu.Unlock()
		e.log.Warn("bookmark delete rejected, collection restored",
			logger.String("id", id), logger.Error(err))
		return &MutationError{Op: "remove", Err: err}
	}
	return nil
}

// Snapshot returns a point-in-time copy of the visible state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	snap := Snapshot{
		State:    e.state,
		Entries:  e.coll.snapshot(),
		LastSync: e.lastSync,
	}
	if e.identity != nil {
		ident := *e.identity
		snap.Identity = &ident
	}
	return snap
}

// Resync requests a full refetch out of band, same as a feed event
// would. No-op while unbound.
func (e *Engine) Resync() {
	e.mu.RLock()
	notify := e.notify
	e.mu.RUnlock()
	if notify == nil {
		return
	}
	select {
	case notify <- struct{}{}:
	default:
	}
}
