package engine

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/MrSnakeDoc/marks/internal/domain"
	"github.com/MrSnakeDoc/marks/internal/logger"
)

// ─────────────────────────────
// Fakes
// ─────────────────────────────

// gate lets a test hold a store call open to observe the optimistic
// state while the request is "in flight".
type gate struct {
	started chan struct{}
	release chan struct{}
}

func newGate() *gate {
	return &gate{
		started: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
}

func (g *gate) wait() {
	g.started <- struct{}{}
	<-g.release
}

type fakeStore struct {
	mu         sync.Mutex
	rows       []domain.Bookmark
	nextID     int
	clock      time.Time
	queryErr   error
	insertErr  error
	deleteErr  error
	insertGate *gate
	deleteGate *gate
	inserts    []domain.NewBookmark
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		nextID: 1,
		clock:  time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

// seedRow injects a row exactly as given.
func (f *fakeStore) seedRow(b domain.Bookmark) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows = append(f.rows, b)
	if id, err := strconv.Atoi(b.ID); err == nil && id >= f.nextID {
		f.nextID = id + 1
	}
	if b.CreatedAt.After(f.clock) {
		f.clock = b.CreatedAt
	}
}

// seed stores a new row with the next ID and a later CreatedAt.
func (f *fakeStore) seed(owner, title, url string) domain.Bookmark {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.storeLocked(domain.NewBookmark{Title: title, URL: url, Owner: owner})
}

func (f *fakeStore) storeLocked(rec domain.NewBookmark) domain.Bookmark {
	f.clock = f.clock.Add(time.Minute)
	b := domain.Bookmark{
		ID:        strconv.Itoa(f.nextID),
		Title:     rec.Title,
		URL:       rec.URL,
		Owner:     rec.Owner,
		CreatedAt: f.clock,
	}
	f.nextID++
	f.rows = append(f.rows, b)
	return b
}

func (f *fakeStore) Query(_ context.Context, owner string) ([]domain.Bookmark, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	out := make([]domain.Bookmark, 0, len(f.rows))
	for _, b := range f.rows {
		if b.Owner == owner {
			out = append(out, b)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (f *fakeStore) Insert(_ context.Context, rec domain.NewBookmark) (domain.Bookmark, error) {
	f.mu.Lock()
	g := f.insertGate
	f.mu.Unlock()
	if g != nil {
		g.wait()
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.inserts = append(f.inserts, rec)
	if f.insertErr != nil {
		return domain.Bookmark{}, f.insertErr
	}
	return f.storeLocked(rec), nil
}

func (f *fakeStore) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	g := f.deleteGate
	f.mu.Unlock()
	if g != nil {
		g.wait()
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	for i, b := range f.rows {
		if b.ID == id {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			break
		}
	}
	return nil
}

func (f *fakeStore) has(id string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.rows {
		if b.ID == id {
			return true
		}
	}
	return false
}

func (f *fakeStore) insertCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.inserts)
}

func (f *fakeStore) lastInsert() domain.NewBookmark {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.inserts[len(f.inserts)-1]
}

type fakeSubscription struct {
	events chan domain.ChangeEvent
	mu     sync.Mutex
	closed bool
}

func (s *fakeSubscription) Events() <-chan domain.ChangeEvent { return s.events }

func (s *fakeSubscription) Unsubscribe() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.events)
	}
}

func (s *fakeSubscription) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

type fakeFeed struct {
	mu   sync.Mutex
	subs []*fakeSubscription
}

func (f *fakeFeed) subscribe(_ context.Context) (Subscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	sub := &fakeSubscription{events: make(chan domain.ChangeEvent, 8)}
	f.subs = append(f.subs, sub)
	return sub, nil
}

func (f *fakeFeed) emit(ev domain.ChangeEvent) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.subs) - 1; i >= 0; i-- {
		if !f.subs[i].isClosed() {
			f.subs[i].events <- ev
			return
		}
	}
}

func (f *fakeFeed) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs)
}

func (f *fakeFeed) open() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, s := range f.subs {
		if !s.isClosed() {
			n++
		}
	}
	return n
}

type fakeIdentities struct {
	mu      sync.Mutex
	current *domain.Identity
	ch      chan *domain.Identity
}

func newFakeIdentities(cur *domain.Identity) *fakeIdentities {
	return &fakeIdentities{current: cur, ch: make(chan *domain.Identity, 8)}
}

func (f *fakeIdentities) Current(_ context.Context) (*domain.Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.current == nil {
		return nil, nil
	}
	ident := *f.current
	return &ident, nil
}

func (f *fakeIdentities) Changes() <-chan *domain.Identity { return f.ch }

func (f *fakeIdentities) signIn(id, email string) {
	ident := &domain.Identity{ID: id, Email: email}
	f.mu.Lock()
	f.current = ident
	f.mu.Unlock()
	f.ch <- ident
}

func (f *fakeIdentities) signOut() {
	f.mu.Lock()
	f.current = nil
	f.mu.Unlock()
	f.ch <- nil
}

// ─────────────────────────────
// Helpers
// ─────────────────────────────

var (
	identA = &domain.Identity{ID: "user-a", Email: "a@example.com"}
	identB = &domain.Identity{ID: "user-b", Email: "b@example.com"}
)

func testLogger() logger.Logger {
	return logger.New("error", false)
}

func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", msg)
}

func entryIDs(snap Snapshot) []string {
	return ids(snap.Entries)
}

func sameIDs(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

// ─────────────────────────────
// Tests
// ─────────────────────────────

func TestStartWithSignedInIdentityLoadsCollection(t *testing.T) {
	store := newFakeStore()
	store.seed("user-a", "Oldest", "https://one.example")
	store.seed("user-a", "Newest", "https://two.example")
	store.seed("user-b", "Other", "https://other.example")

	feed := &fakeFeed{}
	eng := New(store, feed.subscribe, 0, testLogger())
	defer eng.Stop()

	source := newFakeIdentities(identA)
	if err := eng.Start(context.Background(), source); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	snap := eng.Snapshot()
	if snap.State != StateSynced {
		t.Fatalf("State = %v, want %v", snap.State, StateSynced)
	}
	if snap.Identity == nil || snap.Identity.ID != "user-a" {
		t.Fatalf("Identity = %+v, want user-a", snap.Identity)
	}
	if got := entryIDs(snap); !sameIDs(got, []string{"2", "1"}) {
		t.Errorf("entries = %v, want [2 1] (newest first, only user-a rows)", got)
	}
	if feed.open() != 1 {
		t.Errorf("open subscriptions = %d, want 1", feed.open())
	}
}

func TestStartSignedOutStaysUnbound(t *testing.T) {
	store := newFakeStore()
	feed := &fakeFeed{}
	eng := New(store, feed.subscribe, 0, testLogger())
	defer eng.Stop()

	if err := eng.Start(context.Background(), newFakeIdentities(nil)); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	snap := eng.Snapshot()
	if snap.State != StateUnbound {
		t.Fatalf("State = %v, want %v", snap.State, StateUnbound)
	}
	if len(snap.Entries) != 0 {
		t.Errorf("entries = %v, want empty", entryIDs(snap))
	}
	if feed.total() != 0 {
		t.Errorf("subscriptions created = %d, want 0", feed.total())
	}

	if err := eng.Add(context.Background(), "Z", "z.com"); !errors.Is(err, ErrNotBound) {
		t.Errorf("Add() while unbound = %v, want ErrNotBound", err)
	}
	if err := eng.Remove(context.Background(), "1"); !errors.Is(err, ErrNotBound) {
		t.Errorf("Remove() while unbound = %v, want ErrNotBound", err)
	}
}

func TestAddShowsPendingThenReconciles(t *testing.T) {
	store := newFakeStore()
	// "1" is newer than "2": the visible order starts as [1 2].
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	store.seedRow(domain.Bookmark{ID: "2", Title: "Older", URL: "https://two.example", Owner: "user-a", CreatedAt: base.Add(-2 * time.Hour)})
	store.seedRow(domain.Bookmark{ID: "1", Title: "Newer", URL: "https://one.example", Owner: "user-a", CreatedAt: base.Add(-1 * time.Hour)})

	feed := &fakeFeed{}
	eng := New(store, feed.subscribe, 0, testLogger())
	defer eng.Stop()
	if err := eng.Start(context.Background(), newFakeIdentities(identA)); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	g := newGate()
	store.mu.Lock()
	store.insertGate = g
	store.mu.Unlock()

	addDone := make(chan error, 1)
	go func() { addDone <- eng.Add(context.Background(), "Z", "z.com") }()

	<-g.started

	snap := eng.Snapshot()
	got := entryIDs(snap)
	if !sameIDs(got, []string{"pending:Z", "1", "2"}) {
		t.Fatalf("entries during insert = %v, want [pending:Z 1 2]", got)
	}
	if !snap.Entries[0].Pending || snap.Entries[0].URL != "https://z.com" {
		t.Fatalf("head entry = %+v, want pending with normalized URL", snap.Entries[0])
	}

	close(g.release)
	if err := <-addDone; err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	snap = eng.Snapshot()
	if got := entryIDs(snap); !sameIDs(got, []string{"3", "1", "2"}) {
		t.Fatalf("entries after confirm = %v, want [3 1 2]", got)
	}
	for _, e := range snap.Entries {
		if e.Pending {
			t.Errorf("entry %v still pending after confirm", e.Title)
		}
	}
}

func TestAddRollsBackOnRejection(t *testing.T) {
	store := newFakeStore()
	store.seed("user-a", "Kept", "https://kept.example")
	store.insertErr = errors.New("boom")

	feed := &fakeFeed{}
	eng := New(store, feed.subscribe, 0, testLogger())
	defer eng.Stop()
	if err := eng.Start(context.Background(), newFakeIdentities(identA)); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	before := entryIDs(eng.Snapshot())

	err := eng.Add(context.Background(), "Z", "z.com")
	var mutErr *MutationError
	if !errors.As(err, &mutErr) {
		t.Fatalf("Add() error = %v, want *MutationError", err)
	}
	if mutErr.Op != "add" {
		t.Errorf("MutationError.Op = %q, want %q", mutErr.Op, "add")
	}

	after := eng.Snapshot()
	if got := entryIDs(after); !sameIDs(got, before) {
		t.Errorf("entries after rollback = %v, want %v", got, before)
	}
	if after.Entries[0].Pending {
		t.Error("pending entry survived the rollback")
	}
}

func TestAddBlankInputIsNoOp(t *testing.T) {
	store := newFakeStore()
	store.seed("user-a", "Kept", "https://kept.example")

	feed := &fakeFeed{}
	eng := New(store, feed.subscribe, 0, testLogger())
	defer eng.Stop()
	if err := eng.Start(context.Background(), newFakeIdentities(identA)); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	before := entryIDs(eng.Snapshot())

	for _, in := range []struct{ title, url string }{
		{"", "z.com"},
		{"   ", "z.com"},
		{"Z", ""},
		{"Z", "   "},
	} {
		if err := eng.Add(context.Background(), in.title, in.url); err != nil {
			t.Fatalf("Add(%q, %q) error = %v, want nil", in.title, in.url, err)
		}
	}

	if store.insertCount() != 0 {
		t.Errorf("insert calls = %d, want 0", store.insertCount())
	}
	if got := entryIDs(eng.Snapshot()); !sameIDs(got, before) {
		t.Errorf("entries = %v, want unchanged %v", got, before)
	}
}

func TestAddNormalizesURLBeforeInsert(t *testing.T) {
	store := newFakeStore()
	feed := &fakeFeed{}
	eng := New(store, feed.subscribe, 0, testLogger())
	defer eng.Stop()
	if err := eng.Start(context.Background(), newFakeIdentities(identA)); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	tests := []struct {
		in   string
		want string
	}{
		{"z.com", "https://z.com"},
		{"http://plain.example", "http://plain.example"},
		{"HTTPS://Caps.Example", "HTTPS://Caps.Example"},
	}
	for _, tt := range tests {
		if err := eng.Add(context.Background(), "Z", tt.in); err != nil {
			t.Fatalf("Add(%q) error = %v", tt.in, err)
		}
		if got := store.lastInsert().URL; got != tt.want {
			t.Errorf("inserted URL for %q = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRemoveRoundTrip(t *testing.T) {
	store := newFakeStore()
	keep := store.seed("user-a", "Keep", "https://keep.example")
	drop := store.seed("user-a", "Drop", "https://drop.example")

	feed := &fakeFeed{}
	eng := New(store, feed.subscribe, 0, testLogger())
	defer eng.Stop()
	if err := eng.Start(context.Background(), newFakeIdentities(identA)); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	if err := eng.Remove(context.Background(), drop.ID); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}

	if got := entryIDs(eng.Snapshot()); !sameIDs(got, []string{keep.ID}) {
		t.Errorf("entries = %v, want [%s]", got, keep.ID)
	}
	if store.has(drop.ID) {
		t.Error("backend still has the deleted row")
	}

	// Removing an id nobody has is quietly tolerated.
	if err := eng.Remove(context.Background(), "ghost"); err != nil {
		t.Errorf("Remove(ghost) error = %v, want nil", err)
	}
}

func TestRemoveRestoresSnapshotOnRejection(t *testing.T) {
	store := newFakeStore()
	store.seed("user-a", "One", "https://one.example")
	victim := store.seed("user-a", "Two", "https://two.example")
	store.deleteErr = errors.New("backend says no")

	feed := &fakeFeed{}
	eng := New(store, feed.subscribe, 0, testLogger())
	defer eng.Stop()
	if err := eng.Start(context.Background(), newFakeIdentities(identA)); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	before := entryIDs(eng.Snapshot())

	g := newGate()
	store.mu.Lock()
	store.deleteGate = g
	store.mu.Unlock()

	removeDone := make(chan error, 1)
	go func() { removeDone <- eng.Remove(context.Background(), victim.ID) }()

	<-g.started

	// The optimistic removal is already visible.
	if got := entryIDs(eng.Snapshot()); !sameIDs(got, []string{"1"}) {
		t.Fatalf("entries during delete = %v, want [1]", got)
	}

	// Interleave another mutation while the delete is in flight.
	if err := eng.Add(context.Background(), "Interleaved", "interleaved.example"); err != nil {
		t.Fatalf("interleaved Add() error = %v", err)
	}

	close(g.release)
	err := <-removeDone
	var mutErr *MutationError
	if !errors.As(err, &mutErr) {
		t.Fatalf("Remove() error = %v, want *MutationError", err)
	}
	if mutErr.Op != "remove" {
		t.Errorf("MutationError.Op = %q, want %q", mutErr.Op, "remove")
	}

	// The rollback restores the snapshot taken at delete time: the
	// interleaved entry is gone, the victim is back.
	if got := entryIDs(eng.Snapshot()); !sameIDs(got, before) {
		t.Errorf("entries after rollback = %v, want %v", got, before)
	}
}

func TestIdentitySwitchRepopulatesCollection(t *testing.T) {
	store := newFakeStore()
	store.seed("user-a", "A1", "https://a1.example")
	b1 := store.seed("user-b", "B1", "https://b1.example")

	feed := &fakeFeed{}
	eng := New(store, feed.subscribe, 0, testLogger())
	defer eng.Stop()

	source := newFakeIdentities(identA)
	if err := eng.Start(context.Background(), source); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	source.signIn(identB.ID, identB.Email)

	waitFor(t, func() bool {
		snap := eng.Snapshot()
		return snap.Identity != nil && snap.Identity.ID == "user-b" && snap.State == StateSynced
	}, "binding to switch to user-b")

	if got := entryIDs(eng.Snapshot()); !sameIDs(got, []string{b1.ID}) {
		t.Errorf("entries = %v, want only user-b rows [%s]", got, b1.ID)
	}
	if feed.total() != 2 {
		t.Errorf("subscriptions created = %d, want 2", feed.total())
	}
	if feed.open() != 1 {
		t.Errorf("open subscriptions = %d, want 1 (previous one torn down)", feed.open())
	}
}

func TestSignOutClearsCollectionAndSubscription(t *testing.T) {
	store := newFakeStore()
	store.seed("user-a", "A1", "https://a1.example")

	feed := &fakeFeed{}
	eng := New(store, feed.subscribe, 0, testLogger())
	defer eng.Stop()

	source := newFakeIdentities(identA)
	if err := eng.Start(context.Background(), source); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	source.signOut()

	waitFor(t, func() bool {
		return eng.Snapshot().State == StateUnbound
	}, "engine to unbind after sign-out")

	snap := eng.Snapshot()
	if len(snap.Entries) != 0 {
		t.Errorf("entries = %v, want empty", entryIDs(snap))
	}
	if snap.Identity != nil {
		t.Errorf("Identity = %+v, want nil", snap.Identity)
	}
	if feed.open() != 0 {
		t.Errorf("open subscriptions = %d, want 0", feed.open())
	}
}

func TestDuplicateIdentityEventKeepsBinding(t *testing.T) {
	store := newFakeStore()
	store.seed("user-a", "A1", "https://a1.example")

	feed := &fakeFeed{}
	eng := New(store, feed.subscribe, 0, testLogger())
	defer eng.Stop()

	source := newFakeIdentities(identA)
	if err := eng.Start(context.Background(), source); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	// Refresh delivered the same identity again.
	source.signIn(identA.ID, identA.Email)

	// Trigger an observable round trip so the event is consumed.
	source.signIn(identB.ID, identB.Email)
	waitFor(t, func() bool {
		snap := eng.Snapshot()
		return snap.Identity != nil && snap.Identity.ID == "user-b"
	}, "binding to reach user-b")

	// One subscription for A (kept through the duplicate), one for B.
	if feed.total() != 2 {
		t.Errorf("subscriptions created = %d, want 2 (duplicate event must not resubscribe)", feed.total())
	}
}

func TestFeedEventTriggersReload(t *testing.T) {
	store := newFakeStore()
	store.seed("user-a", "A1", "https://a1.example")

	feed := &fakeFeed{}
	eng := New(store, feed.subscribe, 0, testLogger())
	defer eng.Stop()
	if err := eng.Start(context.Background(), newFakeIdentities(identA)); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	// Another device inserts a row; the feed announces it.
	added := store.seed("user-a", "A2", "https://a2.example")
	feed.emit(domain.ChangeEvent{Table: "bookmarks", Type: domain.ChangeInsert, ID: added.ID})

	waitFor(t, func() bool {
		return sameIDs(entryIDs(eng.Snapshot()), []string{added.ID, "1"})
	}, "feed event to trigger a reload")
}

func TestResyncTriggersReload(t *testing.T) {
	store := newFakeStore()
	store.seed("user-a", "A1", "https://a1.example")

	feed := &fakeFeed{}
	eng := New(store, feed.subscribe, 0, testLogger())
	defer eng.Stop()
	if err := eng.Start(context.Background(), newFakeIdentities(identA)); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	added := store.seed("user-a", "A2", "https://a2.example")
	eng.Resync()

	waitFor(t, func() bool {
		return sameIDs(entryIDs(eng.Snapshot()), []string{added.ID, "1"})
	}, "manual resync to trigger a reload")
}

func TestStaleFetchResultIsDiscarded(t *testing.T) {
	store := newFakeStore()
	store.seed("user-a", "A1", "https://a1.example")

	feed := &fakeFeed{}
	eng := New(store, feed.subscribe, 0, testLogger())
	defer eng.Stop()
	if err := eng.Start(context.Background(), newFakeIdentities(identA)); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	before := entryIDs(eng.Snapshot())

	// A fetch that started before the last unbind carries a stale
	// epoch and must not touch the collection.
	store.seed("user-a", "A2", "https://a2.example")
	eng.load(context.Background(), "user-a", 0)

	if got := entryIDs(eng.Snapshot()); !sameIDs(got, before) {
		t.Errorf("entries = %v, want unchanged %v (stale fetch applied)", got, before)
	}
}

func TestInitialLoadFailureStaysLoading(t *testing.T) {
	store := newFakeStore()
	store.queryErr = errors.New("backend down")

	feed := &fakeFeed{}
	eng := New(store, feed.subscribe, 0, testLogger())
	defer eng.Stop()
	if err := eng.Start(context.Background(), newFakeIdentities(identA)); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	snap := eng.Snapshot()
	if snap.State != StateLoading {
		t.Fatalf("State = %v, want %v after failed initial fetch", snap.State, StateLoading)
	}

	// Backend recovers, a feed event brings the collection in.
	store.mu.Lock()
	store.queryErr = nil
	store.mu.Unlock()
	row := store.seed("user-a", "A1", "https://a1.example")
	feed.emit(domain.ChangeEvent{Table: "bookmarks", Type: domain.ChangeInsert, ID: row.ID})

	waitFor(t, func() bool {
		snap := eng.Snapshot()
		return snap.State == StateSynced && len(snap.Entries) == 1
	}, "recovery load after backend comes back")
}

func TestStopClosesSubscription(t *testing.T) {
	store := newFakeStore()
	feed := &fakeFeed{}
	eng := New(store, feed.subscribe, 0, testLogger())
	if err := eng.Start(context.Background(), newFakeIdentities(identA)); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	eng.Stop()

	if feed.open() != 0 {
		t.Errorf("open subscriptions after Stop = %d, want 0", feed.open())
	}
}
