package dashboard

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ResourceStatus is the load lifecycle tag of server-originated data.
type ResourceStatus int

const (
	ResourceIdle ResourceStatus = iota
	ResourceLoading
	ResourceSucceeded
	ResourceFailed
)

var resourceStatusNames = [...]string{"idle", "loading", "succeeded", "failed"}

func (s ResourceStatus) String() string {
	if s < 0 || int(s) >= len(resourceStatusNames) {
		return fmt.Sprintf("status(%d)", int(s))
	}
	return resourceStatusNames[s]
}

// MarshalText encodes the status by name.
func (s ResourceStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a status name.
func (s *ResourceStatus) UnmarshalText(text []byte) error {
	name := strings.ToLower(strings.TrimSpace(string(text)))
	for i, candidate := range resourceStatusNames {
		if candidate == name {
			*s = ResourceStatus(i)
			return nil
		}
	}
	return fmt.Errorf("dashboard: unknown resource status %q", text)
}

// Resource tracks the lifecycle of a payload fetched from a provider.
//
// Every Begin hands out a generation token; Resolve and Reject only apply
// when they present the current token, so results of a superseded fetch are
// dropped instead of overwriting newer state.
type Resource[T any] struct {
	Status ResourceStatus
	Data   T
	Error  string

	generation uint64
	hasData    bool
}

// Ready reports whether the payload can be trusted.
func (r Resource[T]) Ready() bool {
	return r.Status == ResourceSucceeded
}

// HasData reports whether a payload was ever loaded (or mutated in place).
func (r Resource[T]) HasData() bool {
	return r.hasData
}

// Stale reports a failed refetch that left the previous payload in place.
func (r Resource[T]) Stale() bool {
	return r.Status == ResourceFailed && r.hasData
}

// Generation returns the token of the latest Begin.
func (r Resource[T]) Generation() uint64 {
	return r.generation
}

// Begin moves the resource to loading and returns the token the result must carry.
func (r *Resource[T]) Begin() uint64 {
	r.generation++
	r.Status = ResourceLoading
	return r.generation
}

// Resolve replaces the payload wholesale. It reports false for stale tokens.
func (r *Resource[T]) Resolve(token uint64, data T) bool {
	if token != r.generation || r.Status != ResourceLoading {
		return false
	}
	r.Status = ResourceSucceeded
	r.Data = data
	r.Error = ""
	r.hasData = true
	return true
}

// Reject records the failure and keeps the previous payload.
func (r *Resource[T]) Reject(token uint64, err error) bool {
	if token != r.generation || r.Status != ResourceLoading {
		return false
	}
	r.Status = ResourceFailed
	if err != nil {
		r.Error = err.Error()
	} else {
		r.Error = "unknown error"
	}
	return true
}

// Mutate rewrites the payload without touching the lifecycle tag.
func (r *Resource[T]) Mutate(fn func(T) T) {
	r.Data = fn(r.Data)
	r.hasData = true
}

// Reset returns to idle, drops the payload and invalidates in-flight tokens.
func (r *Resource[T]) Reset() {
	var zero T
	r.generation++
	r.Status = ResourceIdle
	r.Data = zero
	r.Error = ""
	r.hasData = false
}

// MarshalJSON exposes the lifecycle tag alongside the payload.
func (r Resource[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Status ResourceStatus `json:"status"`
		Data   T              `json:"data"`
		Error  string         `json:"error,omitempty"`
		Stale  bool           `json:"stale,omitempty"`
	}{
		Status: r.Status,
		Data:   r.Data,
		Error:  r.Error,
		Stale:  r.Stale(),
	})
}
