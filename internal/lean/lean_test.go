package lean

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"
)

const goalsPayload = `{
  "goals": [
    {
      "userName": "succ",
      "type": {"append": [{"text": "0 + "}, {"tag": [{"info": 1}, {"text": "(d + 1)"}]}, {"text": " = d + 1"}]},
      "hyps": [
        {"names": ["d"], "type": {"text": "ℕ"}},
        {"names": ["hd", "hd'"], "type": {"text": "0 + d = d"}, "val": {"text": "rfl"}}
      ]
    },
    {"type": {"text": "True"}}
  ]
}`

func TestDecodeGoals(t *testing.T) {
	t.Parallel()

	got := DecodeGoals([]byte(goalsPayload))
	want := []Goal{
		{
			UserName: "succ",
			Type:     "0 + (d + 1) = d + 1",
			Hypotheses: []Hypothesis{
				{Names: []string{"d"}, Type: "ℕ"},
				{Names: []string{"hd", "hd'"}, Type: "0 + d = d", Val: "rfl"},
			},
		},
		{Type: "True"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("DecodeGoals =\n%+v\nwant\n%+v", got, want)
	}
}

func TestDecodeGoals_NoGoals(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{`null`, `{}`, `{"goals": 3}`, ``} {
		if got := DecodeGoals([]byte(raw)); got != nil {
			t.Errorf("DecodeGoals(%q) = %+v, want nil", raw, got)
		}
	}
}

// fakeCaller records calls and answers from a script.
type fakeCaller struct {
	mu        sync.Mutex
	calls     []string
	notifies  int
	connects  int
	goalsErrs []error // returned in order by successive goal calls
}

func (f *fakeCaller) Call(_ context.Context, method string, params any) (json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, method)
	switch method {
	case MethodConnect:
		f.connects++
		return json.RawMessage(`{"sessionId": "s` + strings.Repeat("x", f.connects) + `"}`), nil
	case MethodCall:
		p := params.(map[string]any)
		if p["method"] != "Lean.Widget.getInteractiveGoals" {
			return nil, errors.New("unexpected rpc method")
		}
		if len(f.goalsErrs) > 0 {
			err := f.goalsErrs[0]
			f.goalsErrs = f.goalsErrs[1:]
			if err != nil {
				return nil, err
			}
		}
		return json.RawMessage(goalsPayload), nil
	}
	return nil, errors.New("unknown method")
}

func (f *fakeCaller) Notify(_ context.Context, method string, _ any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if method == MethodKeepAlive {
		f.notifies++
	}
	return nil
}

func TestRPCGoals_ReusesSession(t *testing.T) {
	t.Parallel()

	fc := &fakeCaller{}
	r := NewRPCGoals(fc, time.Hour)
	defer r.Close()

	for range 2 {
		goals, err := r.Goals(context.Background(), "/tmp/L01.lean", Position{Line: 3})
		if err != nil {
			t.Fatalf("Goals: %v", err)
		}
		if len(goals) != 2 {
			t.Fatalf("got %d goals, want 2", len(goals))
		}
	}
	if fc.connects != 1 {
		t.Errorf("connects = %d, want 1", fc.connects)
	}
	if r.Sessions() != 1 {
		t.Errorf("Sessions() = %d, want 1", r.Sessions())
	}
}

func TestRPCGoals_ReconnectsOnce(t *testing.T) {
	t.Parallel()

	fc := &fakeCaller{goalsErrs: []error{&RPCError{Code: CodeNeedsReconnect, Message: "expired"}}}
	r := NewRPCGoals(fc, time.Hour)
	defer r.Close()

	goals, err := r.Goals(context.Background(), "/tmp/L01.lean", Position{})
	if err != nil {
		t.Fatalf("Goals: %v", err)
	}
	if len(goals) != 2 {
		t.Errorf("got %d goals after reconnect, want 2", len(goals))
	}
	if fc.connects != 2 {
		t.Errorf("connects = %d, want 2", fc.connects)
	}
}

func TestRPCGoals_OtherErrorsSurface(t *testing.T) {
	t.Parallel()

	boom := &RPCError{Code: -32602, Message: "no goals here"}
	fc := &fakeCaller{goalsErrs: []error{boom}}
	r := NewRPCGoals(fc, time.Hour)
	defer r.Close()

	goals, err := r.Goals(context.Background(), "/tmp/L01.lean", Position{})
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want %v", err, boom)
	}
	if goals != nil {
		t.Errorf("goals = %+v, want nil", goals)
	}
	if fc.connects != 1 {
		t.Errorf("connects = %d, want 1", fc.connects)
	}
}

func TestRPCGoals_KeepAlive(t *testing.T) {
	t.Parallel()

	fc := &fakeCaller{}
	r := NewRPCGoals(fc, 10*time.Millisecond)
	if _, err := r.Goals(context.Background(), "/tmp/L01.lean", Position{}); err != nil {
		t.Fatalf("Goals: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		fc.mu.Lock()
		n := fc.notifies
		fc.mu.Unlock()
		if n > 0 {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	r.Close()

	fc.mu.Lock()
	defer fc.mu.Unlock()
	if fc.notifies == 0 {
		t.Error("no keep-alive sent")
	}
	if r.Sessions() != 0 {
		t.Error("sessions survive Close")
	}
}

func TestFileURI(t *testing.T) {
	t.Parallel()

	got := FileURI("/g/Solutions/L1 A/L01.lean")
	if got != "file:///g/Solutions/L1%20A/L01.lean" {
		t.Errorf("FileURI = %q", got)
	}
}
