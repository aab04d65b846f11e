package models

import (
	"errors"
	"reflect"

	json "github.com/goccy/go-json"
	uuid "github.com/google/uuid"
)

// CurrentVersion is the schema version written by this build.
const CurrentVersion = 2

var ErrBadConfiguration = errors.New("configuration does not match any known schema version")

// Configuration is the root persisted object. Connections always holds
// an entry keyed by ID representing the local identity; every other
// entry is a known peer.
type Configuration struct {
	Version     int             `json:"version"`
	ID          string          `json:"id"`
	Connections map[string]User `json:"connections"`
}

// legacyConfiguration is the flat version 1 shape: the local user's
// fields live at the top level and peers are an array.
type legacyConfiguration struct {
	Version     int      `json:"version"`
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Webhook     string   `json:"webhook"`
	Devices     []Device `json:"devices"`
	Connections []User   `json:"connections"`
}

func (l *legacyConfiguration) upgrade() *Configuration {
	out := &Configuration{
		Version:     CurrentVersion,
		ID:          l.ID,
		Connections: make(map[string]User, len(l.Connections)+1),
	}

	devices := l.Devices
	if devices == nil {
		devices = []Device{}
	}
	out.Connections[l.ID] = User{
		ID:      l.ID,
		Name:    l.Name,
		Webhook: l.Webhook,
		Devices: devices,
	}

	for _, conn := range l.Connections {
		if conn.Devices == nil {
			conn.Devices = []Device{}
		}
		out.Connections[conn.ID] = conn
	}
	return out
}

// NewDefaultConfiguration returns a fresh configuration with a newly
// generated local identity and no devices.
func NewDefaultConfiguration() *Configuration {
	id := uuid.NewString()
	return &Configuration{
		Version: CurrentVersion,
		ID:      id,
		Connections: map[string]User{
			id: {ID: id, Name: "New User", Webhook: "", Devices: []Device{}},
		},
	}
}

// DecodeConfiguration parses a persisted configuration, upgrading the
// version 1 flat shape to the current keyed-map shape when needed. The
// second return value reports whether a migration happened, so callers
// can re-persist the upgraded form immediately.
func DecodeConfiguration(data []byte) (*Configuration, bool, error) {
	var probe struct {
		Version int `json:"version"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, false, err
	}

	if probe.Version < CurrentVersion {
		var legacy legacyConfiguration
		if err := json.Unmarshal(data, &legacy); err != nil {
			return nil, false, err
		}
		if legacy.ID == "" {
			return nil, false, ErrBadConfiguration
		}
		return legacy.upgrade(), true, nil
	}

	var conf Configuration
	if err := json.Unmarshal(data, &conf); err != nil {
		return nil, false, err
	}
	if !conf.Valid() {
		return nil, false, ErrBadConfiguration
	}
	return &conf, false, nil
}

// Self returns the local user entry.
func (c *Configuration) Self() (User, bool) {
	u, ok := c.Connections[c.ID]
	return u, ok
}

func (c *Configuration) Clone() *Configuration {
	out := &Configuration{
		Version:     c.Version,
		ID:          c.ID,
		Connections: make(map[string]User, len(c.Connections)),
	}
	for id, u := range c.Connections {
		out.Connections[id] = u.Clone()
	}
	return out
}

// Equal reports deep equality, used to detect no-op merges.
func (c *Configuration) Equal(other *Configuration) bool {
	return reflect.DeepEqual(c, other)
}

// Valid reports whether the configuration satisfies its invariants:
// current version, non-empty id, and a self entry present under that id.
func (c *Configuration) Valid() bool {
	if c.Version != CurrentVersion || c.ID == "" || c.Connections == nil {
		return false
	}
	_, ok := c.Connections[c.ID]
	return ok
}

// RemoveConnection deletes the user at id. Removing the self entry
// reassigns ID to an arbitrary remaining key; removing the last entry
// resets to a fresh default identity rather than leaving a dangling id.
func (c *Configuration) RemoveConnection(id string) {
	delete(c.Connections, id)

	if len(c.Connections) == 0 {
		fresh := NewDefaultConfiguration()
		c.ID = fresh.ID
		c.Connections = fresh.Connections
		return
	}

	if id == c.ID {
		for remaining := range c.Connections {
			c.ID = remaining
			break
		}
	}
}
