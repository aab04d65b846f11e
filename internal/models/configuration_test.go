package models

import (
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultConfiguration(t *testing.T) {
	conf := NewDefaultConfiguration()

	assert.Equal(t, CurrentVersion, conf.Version)
	assert.NotEmpty(t, conf.ID)
	require.Len(t, conf.Connections, 1)

	self, ok := conf.Self()
	require.True(t, ok)
	assert.Equal(t, conf.ID, self.ID)
	assert.Equal(t, "New User", self.Name)
	assert.Empty(t, self.Webhook)
	assert.Empty(t, self.Devices)
	assert.True(t, conf.Valid())
}

func TestDecodeConfiguration_CurrentVersion(t *testing.T) {
	data := []byte(`{
		"version": 2,
		"id": "U1",
		"connections": {
			"U1": {"id": "U1", "name": "Me", "webhook": "hook-1", "devices": []}
		}
	}`)

	conf, migrated, err := DecodeConfiguration(data)
	require.NoError(t, err)
	assert.False(t, migrated)
	assert.Equal(t, "U1", conf.ID)
	assert.True(t, conf.Valid())
}

func TestDecodeConfiguration_MigratesLegacyShape(t *testing.T) {
	// Version 1 layout: local user fields flat at the top level, peers
	// as an array.
	data := []byte(`{
		"version": 1,
		"id": "U1",
		"name": "Me",
		"webhook": "hook-1",
		"devices": [{"id": "D1", "name": "Pad", "location": null, "webhook": "dev-1", "supportsFrequency": false}],
		"connections": [
			{"id": "U2", "name": "Peer", "webhook": "hook-2", "devices": []}
		]
	}`)

	conf, migrated, err := DecodeConfiguration(data)
	require.NoError(t, err)
	assert.True(t, migrated)

	assert.Equal(t, CurrentVersion, conf.Version)
	assert.Equal(t, "U1", conf.ID)
	require.Len(t, conf.Connections, 2)

	self := conf.Connections["U1"]
	assert.Equal(t, "Me", self.Name)
	assert.Equal(t, "hook-1", self.Webhook)
	require.Len(t, self.Devices, 1)
	assert.Equal(t, "D1", self.Devices[0].ID)

	peer := conf.Connections["U2"]
	assert.Equal(t, "Peer", peer.Name)
	assert.NotNil(t, peer.Devices)
	assert.True(t, conf.Valid())
}

func TestDecodeConfiguration_LegacyWithoutDevices(t *testing.T) {
	data := []byte(`{"version": 1, "id": "U1", "name": "Me", "webhook": ""}`)

	conf, migrated, err := DecodeConfiguration(data)
	require.NoError(t, err)
	assert.True(t, migrated)
	assert.NotNil(t, conf.Connections["U1"].Devices)
	assert.Empty(t, conf.Connections["U1"].Devices)
}

func TestDecodeConfiguration_Errors(t *testing.T) {
	_, _, err := DecodeConfiguration([]byte("not json"))
	assert.Error(t, err)

	// Legacy shape without an id cannot be upgraded.
	_, _, err = DecodeConfiguration([]byte(`{"version": 1, "name": "Me"}`))
	assert.ErrorIs(t, err, ErrBadConfiguration)

	// Current version missing its self entry.
	_, _, err = DecodeConfiguration([]byte(`{"version": 2, "id": "U1", "connections": {}}`))
	assert.ErrorIs(t, err, ErrBadConfiguration)
}

func TestConfiguration_CloneIsDeep(t *testing.T) {
	loc := "left"
	conf := &Configuration{
		Version: CurrentVersion,
		ID:      "U1",
		Connections: map[string]User{
			"U1": {ID: "U1", Name: "Me", Devices: []Device{{ID: "D1", Name: "Pad", Location: &loc, Webhook: "dev-1"}}},
		},
	}

	clone := conf.Clone()
	require.True(t, conf.Equal(clone))

	user := clone.Connections["U1"]
	user.Devices[0].Name = "changed"
	*user.Devices[0].Location = "right"

	assert.Equal(t, "Pad", conf.Connections["U1"].Devices[0].Name)
	assert.Equal(t, "left", *conf.Connections["U1"].Devices[0].Location)
}

func TestConfiguration_RemoveConnection_Peer(t *testing.T) {
	conf := &Configuration{
		Version: CurrentVersion,
		ID:      "U1",
		Connections: map[string]User{
			"U1": {ID: "U1"},
			"U2": {ID: "U2"},
		},
	}

	conf.RemoveConnection("U2")

	assert.Equal(t, "U1", conf.ID)
	assert.Len(t, conf.Connections, 1)
	assert.True(t, conf.Valid())
}

func TestConfiguration_RemoveConnection_SelfReassigns(t *testing.T) {
	conf := &Configuration{
		Version: CurrentVersion,
		ID:      "U1",
		Connections: map[string]User{
			"U1": {ID: "U1"},
			"U2": {ID: "U2"},
		},
	}

	conf.RemoveConnection("U1")

	assert.Equal(t, "U2", conf.ID)
	assert.True(t, conf.Valid())
}

func TestConfiguration_RemoveConnection_LastResets(t *testing.T) {
	conf := &Configuration{
		Version:     CurrentVersion,
		ID:          "U1",
		Connections: map[string]User{"U1": {ID: "U1"}},
	}

	conf.RemoveConnection("U1")

	assert.NotEqual(t, "U1", conf.ID)
	assert.NotEmpty(t, conf.ID)
	require.Len(t, conf.Connections, 1)
	assert.True(t, conf.Valid())
}

func TestConfiguration_JSONRoundTrip(t *testing.T) {
	conf := NewDefaultConfiguration()

	data, err := json.Marshal(conf)
	require.NoError(t, err)

	decoded, migrated, err := DecodeConfiguration(data)
	require.NoError(t, err)
	assert.False(t, migrated)
	assert.True(t, conf.Equal(decoded))
}
