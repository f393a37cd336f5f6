package lean

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"sync"
	"time"

	"github.com/tidwall/gjson"
)

// RPC method names of the Lean server widget protocol.
const (
	MethodConnect   = "$/lean/rpc/connect"
	MethodCall      = "$/lean/rpc/call"
	MethodKeepAlive = "$/lean/rpc/keepAlive"

	methodGoals = "Lean.Widget.getInteractiveGoals"
)

// CodeNeedsReconnect is the error code the server returns when an RPC
// session has expired.
const CodeNeedsReconnect = -32900

// DefaultKeepAlive is how often open sessions are kept alive.
const DefaultKeepAlive = 10 * time.Second

// Caller sends requests and notifications to a Lean language server.
type Caller interface {
	Call(ctx context.Context, method string, params any) (json.RawMessage, error)
	Notify(ctx context.Context, method string, params any) error
}

// RPCError is a JSON-RPC error response.
type RPCError struct {
	Code    int
	Message string
}

// Error implements the error interface.
func (e *RPCError) Error() string {
	return fmt.Sprintf("lean rpc error %d: %s", e.Code, e.Message)
}

type rpcSession struct {
	id   string
	stop chan struct{}
}

// RPCGoals fetches goals over Lean RPC. It keeps one RPC session per
// document URI, kept alive until Close.
type RPCGoals struct {
	caller    Caller
	keepAlive time.Duration

	mu       sync.Mutex
	sessions map[string]*rpcSession
	wg       sync.WaitGroup
}

// NewRPCGoals returns a goal source over c. A non-positive keepAlive uses
// DefaultKeepAlive.
func NewRPCGoals(c Caller, keepAlive time.Duration) *RPCGoals {
	if keepAlive <= 0 {
		keepAlive = DefaultKeepAlive
	}
	return &RPCGoals{
		caller:    c,
		keepAlive: keepAlive,
		sessions:  make(map[string]*rpcSession),
	}
}

// FileURI returns the file:// URI of path.
func FileURI(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(path)}
	return u.String()
}

// Goals returns the goals at pos in the solution file at path. An expired
// session is replaced once; any other failure is returned as an error.
func (r *RPCGoals) Goals(ctx context.Context, path string, pos Position) ([]Goal, error) {
	uri := FileURI(path)
	goals, err := r.goals(ctx, uri, pos)
	var rpcErr *RPCError
	if errors.As(err, &rpcErr) && rpcErr.Code == CodeNeedsReconnect {
		r.drop(uri)
		goals, err = r.goals(ctx, uri, pos)
	}
	return goals, err
}

func (r *RPCGoals) goals(ctx context.Context, uri string, pos Position) ([]Goal, error) {
	id, err := r.session(ctx, uri)
	if err != nil {
		return nil, fmt.Errorf("connecting rpc session: %w", err)
	}

	doc := map[string]string{"uri": uri}
	raw, err := r.caller.Call(ctx, MethodCall, map[string]any{
		"sessionId":    id,
		"method":       methodGoals,
		"params":       map[string]any{"textDocument": doc, "position": pos},
		"textDocument": doc,
		"position":     pos,
	})
	if err != nil {
		return nil, err
	}
	return DecodeGoals(raw), nil
}

// session returns the RPC session for uri, connecting if needed.
func (r *RPCGoals) session(ctx context.Context, uri string) (string, error) {
	r.mu.Lock()
	if s, ok := r.sessions[uri]; ok {
		r.mu.Unlock()
		return s.id, nil
	}
	r.mu.Unlock()

	raw, err := r.caller.Call(ctx, MethodConnect, map[string]string{"uri": uri})
	if err != nil {
		return "", err
	}
	id := gjson.GetBytes(raw, "sessionId").String()
	if id == "" {
		return "", errors.New("connect response has no sessionId")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[uri]; ok {
		// Lost a race with another caller; keep theirs.
		return s.id, nil
	}
	s := &rpcSession{id: id, stop: make(chan struct{})}
	r.sessions[uri] = s
	r.wg.Add(1)
	go r.keep(uri, s)
	return id, nil
}

func (r *RPCGoals) keep(uri string, s *rpcSession) {
	defer r.wg.Done()
	ticker := time.NewTicker(r.keepAlive)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			// Keep-alive failures surface on the next call as a reconnect.
			_ = r.caller.Notify(context.Background(), MethodKeepAlive, map[string]string{
				"uri":       uri,
				"sessionId": s.id,
			})
		}
	}
}

func (r *RPCGoals) drop(uri string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[uri]; ok {
		close(s.stop)
		delete(r.sessions, uri)
	}
}

// Sessions returns the number of open RPC sessions.
func (r *RPCGoals) Sessions() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Close stops every keep-alive and forgets all sessions.
func (r *RPCGoals) Close() {
	r.mu.Lock()
	for uri, s := range r.sessions {
		close(s.stop)
		delete(r.sessions, uri)
	}
	r.mu.Unlock()
	r.wg.Wait()
}
