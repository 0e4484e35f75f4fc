package session

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/embaixada-angola/studentportal/internal/authclient"
	"github.com/embaixada-angola/studentportal/internal/domain/user"
	"github.com/embaixada-angola/studentportal/internal/kv"
)

type fakeAuthClient struct {
	loginFn    func(ctx context.Context, email, password string) (authclient.Result, error)
	registerFn func(ctx context.Context, req user.RegisterRequest) (authclient.Result, error)
	updateFn   func(ctx context.Context, userID string, upd user.Update) error
}

func (f *fakeAuthClient) Login(ctx context.Context, email, password string) (authclient.Result, error) {
	if f.loginFn != nil {
		return f.loginFn(ctx, email, password)
	}
	return authclient.Result{}, authclient.ErrInvalidCredentials
}

func (f *fakeAuthClient) Register(ctx context.Context, req user.RegisterRequest) (authclient.Result, error) {
	if f.registerFn != nil {
		return f.registerFn(ctx, req)
	}
	return authclient.Result{}, authclient.ErrInvalidCredentials
}

func (f *fakeAuthClient) Update(ctx context.Context, userID string, upd user.Update) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, userID, upd)
	}
	return nil
}

// flakyKV wraps the memory store and fails writes on demand.
type flakyKV struct {
	kv.Store
	failSet map[string]bool
}

func (f *flakyKV) Set(key, value string) error {
	if f.failSet[key] {
		return errors.New("disk full")
	}
	return f.Store.Set(key, value)
}

func sampleUser() user.User {
	return user.User{
		ID:    "2",
		Nome:  "João Silva",
		Email: "joao.silva@estudante.com",
		Role:  user.RoleStudent,
	}
}

func okClient(u user.User, token string) *fakeAuthClient {
	return &fakeAuthClient{
		loginFn: func(ctx context.Context, email, password string) (authclient.Result, error) {
			return authclient.Result{User: u, Token: token}, nil
		},
	}
}

func TestRehydrate_EmptyStorage(t *testing.T) {
	store := NewStore(kv.NewMemoryStore(), &fakeAuthClient{}, nil, nil)

	if store.Status() != StatusLoading {
		t.Fatalf("expected loading before rehydrate, got %s", store.Status())
	}

	store.Rehydrate()

	if store.Status() != StatusReady {
		t.Fatalf("expected ready after rehydrate, got %s", store.Status())
	}
	if store.IsAuthenticated() {
		t.Fatalf("expected anonymous session")
	}
}

func TestRehydrate_RestoresStoredSession(t *testing.T) {
	mem := kv.NewMemoryStore()

	u := sampleUser()
	b, _ := json.Marshal(u)

	if err := mem.Set("angola_user", string(b)); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	if err := mem.Set("angola_token", "tok-1"); err != nil {
		t.Fatalf("seed token: %v", err)
	}

	store := NewStore(mem, &fakeAuthClient{}, nil, nil)
	store.Rehydrate()

	if !store.IsAuthenticated() {
		t.Fatalf("expected authenticated session")
	}

	got := store.Identity()

	if got == nil || got.ID != u.ID || got.Email != u.Email {
		t.Fatalf("identity mismatch: %+v", got)
	}
}

func TestRehydrate_MissingTokenClearsIdentity(t *testing.T) {
	mem := kv.NewMemoryStore()

	b, _ := json.Marshal(sampleUser())
	_ = mem.Set("angola_user", string(b))
	// no token stored

	store := NewStore(mem, &fakeAuthClient{}, nil, nil)
	store.Rehydrate()

	if store.IsAuthenticated() {
		t.Fatalf("half a session must not authenticate")
	}

	if _, err := mem.Get("angola_user"); !errors.Is(err, kv.ErrKeyNotFound) {
		t.Fatalf("expected identity key cleared, got err=%v", err)
	}
}

func TestRehydrate_CorruptIdentitySelfHeals(t *testing.T) {
	mem := kv.NewMemoryStore()

	_ = mem.Set("angola_user", "{not json")
	_ = mem.Set("angola_token", "tok-1")

	store := NewStore(mem, &fakeAuthClient{}, nil, nil)
	store.Rehydrate()

	if store.IsAuthenticated() {
		t.Fatalf("corrupt record must not authenticate")
	}
	if store.Status() != StatusReady {
		t.Fatalf("store must still become ready")
	}

	if _, err := mem.Get("angola_user"); !errors.Is(err, kv.ErrKeyNotFound) {
		t.Fatalf("corrupt identity should be deleted")
	}
	if _, err := mem.Get("angola_token"); !errors.Is(err, kv.ErrKeyNotFound) {
		t.Fatalf("token should be deleted alongside")
	}

	// second rehydrate is a no-op on the now-clean store
	store.Rehydrate()

	if store.IsAuthenticated() {
		t.Fatalf("rehydrate must be idempotent")
	}
}

func TestLogin_SuccessPersistsBothKeys(t *testing.T) {
	mem := kv.NewMemoryStore()
	u := sampleUser()

	store := NewStore(mem, okClient(u, "tok-abc"), nil, nil)
	store.Rehydrate()

	if !store.Login(context.Background(), u.Email, "123456") {
		t.Fatalf("expected login to succeed")
	}

	if !store.IsAuthenticated() {
		t.Fatalf("expected authenticated session")
	}

	rawUser, err := mem.Get("angola_user")

	if err != nil {
		t.Fatalf("identity not persisted: %v", err)
	}

	var stored user.User

	if err := json.Unmarshal([]byte(rawUser), &stored); err != nil {
		t.Fatalf("persisted identity unreadable: %v", err)
	}
	if stored.ID != u.ID {
		t.Fatalf("expected id %s, got %s", u.ID, stored.ID)
	}

	tok, err := mem.Get("angola_token")

	if err != nil || tok != "tok-abc" {
		t.Fatalf("token not persisted: %q err=%v", tok, err)
	}
}

func TestLogin_BadCredentialsWritesNothing(t *testing.T) {
	mem := kv.NewMemoryStore()

	store := NewStore(mem, &fakeAuthClient{}, nil, nil)
	store.Rehydrate()

	if store.Login(context.Background(), "x@y.z", "wrong") {
		t.Fatalf("expected login to fail")
	}

	if store.IsAuthenticated() {
		t.Fatalf("failed login must not authenticate")
	}
	if store.Busy() {
		t.Fatalf("busy flag must reset after failure")
	}

	if _, err := mem.Get("angola_user"); !errors.Is(err, kv.ErrKeyNotFound) {
		t.Fatalf("failed login must not write identity")
	}
	if _, err := mem.Get("angola_token"); !errors.Is(err, kv.ErrKeyNotFound) {
		t.Fatalf("failed login must not write token")
	}
}

func TestLogin_TokenWriteFailureRollsBackIdentity(t *testing.T) {
	mem := kv.NewMemoryStore()
	flaky := &flakyKV{Store: mem, failSet: map[string]bool{"angola_token": true}}

	store := NewStore(flaky, okClient(sampleUser(), "tok"), nil, nil)
	store.Rehydrate()

	if store.Login(context.Background(), "a@b.c", "123456") {
		t.Fatalf("expected login to fail when token cannot be stored")
	}

	if store.IsAuthenticated() {
		t.Fatalf("must stay anonymous")
	}

	if _, err := mem.Get("angola_user"); !errors.Is(err, kv.ErrKeyNotFound) {
		t.Fatalf("identity key must be rolled back")
	}
}

func TestLogin_StaleResultDiscardedAfterLogout(t *testing.T) {
	mem := kv.NewMemoryStore()

	release := make(chan struct{})
	var store *Store

	client := &fakeAuthClient{
		loginFn: func(ctx context.Context, email, password string) (authclient.Result, error) {
			<-release
			return authclient.Result{User: sampleUser(), Token: "tok"}, nil
		},
	}

	store = NewStore(mem, client, nil, nil)
	store.Rehydrate()

	done := make(chan bool)

	go func() {
		done <- store.Login(context.Background(), "a@b.c", "123456")
	}()

	// wait for the login to be in flight, then supersede it
	for !store.Busy() {
		time.Sleep(time.Millisecond)
	}

	store.Logout()
	close(release)

	if ok := <-done; ok {
		t.Fatalf("superseded login must report failure")
	}

	if store.IsAuthenticated() {
		t.Fatalf("stale result must not install an identity")
	}
	if _, err := mem.Get("angola_user"); !errors.Is(err, kv.ErrKeyNotFound) {
		t.Fatalf("stale result must not persist")
	}
}

func TestLogout_ClearsEverything(t *testing.T) {
	mem := kv.NewMemoryStore()
	store := NewStore(mem, okClient(sampleUser(), "tok"), nil, nil)
	store.Rehydrate()

	if !store.Login(context.Background(), "a@b.c", "123456") {
		t.Fatalf("login setup failed")
	}

	store.Logout()

	if store.IsAuthenticated() {
		t.Fatalf("expected anonymous after logout")
	}
	if _, err := mem.Get("angola_user"); !errors.Is(err, kv.ErrKeyNotFound) {
		t.Fatalf("identity key must be deleted")
	}
	if _, err := mem.Get("angola_token"); !errors.Is(err, kv.ErrKeyNotFound) {
		t.Fatalf("token key must be deleted")
	}

	// logging out twice is fine
	store.Logout()
}

func TestUpdateUser_MergesAndPersists(t *testing.T) {
	mem := kv.NewMemoryStore()
	u := sampleUser()

	store := NewStore(mem, okClient(u, "tok"), nil, nil)
	store.Rehydrate()

	if !store.Login(context.Background(), u.Email, "123456") {
		t.Fatalf("login setup failed")
	}

	before := store.Identity().UpdatedAt

	cidade := "São Petersburgo"

	if !store.UpdateUser(context.Background(), user.Update{Cidade: &cidade}) {
		t.Fatalf("expected update to succeed")
	}

	got := store.Identity()

	if got.Cidade != cidade {
		t.Fatalf("expected cidade %q, got %q", cidade, got.Cidade)
	}
	if got.ID != u.ID || got.Email != u.Email {
		t.Fatalf("untouched fields must survive the merge: %+v", got)
	}
	if !got.UpdatedAt.After(before) {
		t.Fatalf("UpdatedAt must move forward: before=%v after=%v", before, got.UpdatedAt)
	}

	rawUser, err := mem.Get("angola_user")

	if err != nil {
		t.Fatalf("merged identity not persisted: %v", err)
	}

	var stored user.User

	if err := json.Unmarshal([]byte(rawUser), &stored); err != nil {
		t.Fatalf("persisted identity unreadable: %v", err)
	}
	if stored.Cidade != cidade {
		t.Fatalf("persisted copy missing the merge")
	}
}

func TestUpdateUser_AnonymousFails(t *testing.T) {
	store := NewStore(kv.NewMemoryStore(), &fakeAuthClient{}, nil, nil)
	store.Rehydrate()

	nome := "X"

	if store.UpdateUser(context.Background(), user.Update{Nome: &nome}) {
		t.Fatalf("update without identity must fail")
	}
}

func TestUpdateUser_BackendErrorKeepsOldIdentity(t *testing.T) {
	mem := kv.NewMemoryStore()
	u := sampleUser()

	client := okClient(u, "tok")
	client.updateFn = func(ctx context.Context, userID string, upd user.Update) error {
		return errors.New("backend down")
	}

	store := NewStore(mem, client, nil, nil)
	store.Rehydrate()

	if !store.Login(context.Background(), u.Email, "123456") {
		t.Fatalf("login setup failed")
	}

	nome := "Novo Nome"

	if store.UpdateUser(context.Background(), user.Update{Nome: &nome}) {
		t.Fatalf("expected update to fail")
	}

	if got := store.Identity(); got.Nome != u.Nome {
		t.Fatalf("identity must be untouched on failure, got %+v", got)
	}
}

func TestSubscribe_NotifiesAndUnsubscribes(t *testing.T) {
	mem := kv.NewMemoryStore()
	store := NewStore(mem, okClient(sampleUser(), "tok"), nil, nil)

	var mu sync.Mutex
	var snaps []Snapshot

	unsubscribe := store.Subscribe(func(s Snapshot) {
		mu.Lock()
		snaps = append(snaps, s)
		mu.Unlock()
	})

	store.Rehydrate()

	mu.Lock()
	n := len(snaps)
	mu.Unlock()

	if n == 0 {
		t.Fatalf("expected a snapshot after rehydrate")
	}

	if !store.Login(context.Background(), "a@b.c", "123456") {
		t.Fatalf("login setup failed")
	}

	mu.Lock()
	last := snaps[len(snaps)-1]
	mu.Unlock()

	if last.Identity == nil || last.Busy {
		t.Fatalf("final snapshot should be authenticated and idle: %+v", last)
	}

	unsubscribe()

	mu.Lock()
	n = len(snaps)
	mu.Unlock()

	store.Logout()

	mu.Lock()
	after := len(snaps)
	mu.Unlock()

	if after != n {
		t.Fatalf("unsubscribed callback must not fire")
	}
}

func TestMockClient_EndToEnd(t *testing.T) {
	mem := kv.NewMemoryStore()
	store := NewStore(mem, authclient.NewMock(0), nil, nil)
	store.Rehydrate()

	if store.Login(context.Background(), "joao.silva@estudante.com", "wrong") {
		t.Fatalf("wrong password must fail against the mock backend")
	}

	if !store.Login(context.Background(), "joao.silva@estudante.com", "123456") {
		t.Fatalf("expected mock login to succeed")
	}

	tok, err := mem.Get("angola_token")

	if err != nil {
		t.Fatalf("token not stored: %v", err)
	}
	if tok != "mock_session_token_2" {
		t.Fatalf("unexpected token %q", tok)
	}
}
