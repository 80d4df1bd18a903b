package services

import (
	"context"
	"errors"
	"sync"

	"github.com/motogestor/dashclient/internal/client/client"
	"github.com/motogestor/dashclient/internal/client/models"
)

// memKV is an in-memory kv.Repository with switchable failures.
type memKV struct {
	mu      sync.Mutex
	data    map[string][]byte
	getErr  error
	setErr  error
	delErr  error
	deletes int
}

func newMemKV() *memKV { return &memKV{data: make(map[string][]byte)} }

func (m *memKV) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	v, ok := m.data[key]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), v...), nil
}

func (m *memKV) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = append([]byte(nil), value...)
	return nil
}

func (m *memKV) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deletes++
	if m.delErr != nil {
		return m.delErr
	}
	delete(m.data, key)
	return nil
}

func (m *memKV) raw(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok
}

// fakeClient implements client.Client for the session tests.
type fakeClient struct {
	LoginRet *client.LoginResponse
	LoginErr error
	MeRet    *models.User
	MeErr    error

	LastLoginEmail    string
	LastLoginPassword string
	LastMeToken       string
	MeCalls           int
}

func (f *fakeClient) Login(_ context.Context, email, password string) (*client.LoginResponse, error) {
	f.LastLoginEmail, f.LastLoginPassword = email, password
	if f.LoginErr != nil {
		return nil, f.LoginErr
	}
	return f.LoginRet, nil
}

func (f *fakeClient) Me(_ context.Context, token string) (*models.User, error) {
	f.MeCalls++
	f.LastMeToken = token
	if f.MeErr != nil {
		return nil, f.MeErr
	}
	return f.MeRet, nil
}

func (f *fakeClient) TenantTheme(context.Context, string) (*models.TenantTheme, error) {
	return nil, errors.New("not used by session tests")
}
