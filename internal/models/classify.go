package models

import (
	uuid "github.com/google/uuid"
)

// PayloadKind tags what an imported payload turned out to be.
type PayloadKind string

const (
	KindDevice     PayloadKind = "device"
	KindConnection PayloadKind = "connection"
	KindFull       PayloadKind = "full"
)

// ClassifiedPayload is the tagged union produced by Classify. Exactly
// one of the kind-specific fields is populated.
type ClassifiedPayload struct {
	Kind    PayloadKind
	Devices []Device       // KindDevice: one or many
	User    *User          // KindConnection
	Config  *Configuration // KindFull
}

// Classify matches a decoded JSON value against the known payload
// shapes in fixed priority order: single device, device list, user,
// full configuration. A missing id is synthesized for a single device
// or user before matching; list elements and full configurations must
// carry their ids. Returns false when nothing matches.
func Classify(raw any) (*ClassifiedPayload, bool) {
	switch v := raw.(type) {
	case map[string]any:
		if dev, ok := deviceFromMap(v, true); ok {
			return &ClassifiedPayload{Kind: KindDevice, Devices: []Device{dev}}, true
		}
		if user, ok := userFromMap(v, true); ok {
			return &ClassifiedPayload{Kind: KindConnection, User: &user}, true
		}
		if conf, ok := configurationFromMap(v); ok {
			return &ClassifiedPayload{Kind: KindFull, Config: conf}, true
		}
	case []any:
		if devs, ok := deviceListFromSlice(v); ok {
			return &ClassifiedPayload{Kind: KindDevice, Devices: devs}, true
		}
	}
	return nil, false
}

func stringField(m map[string]any, key string) (string, bool) {
	v, present := m[key]
	if !present {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// deviceFromMap matches the Device shape: name and webhook are
// mandatory strings; location is an optional nullable string;
// supportsFrequency an optional bool. The devices/connections/version
// keys disambiguate users and configurations, which would otherwise
// also carry name and webhook.
func deviceFromMap(m map[string]any, synthesizeID bool) (Device, bool) {
	for _, marker := range []string{"devices", "connections", "version"} {
		if _, present := m[marker]; present {
			return Device{}, false
		}
	}

	name, ok := stringField(m, "name")
	if !ok {
		return Device{}, false
	}
	webhook, ok := stringField(m, "webhook")
	if !ok {
		return Device{}, false
	}

	dev := Device{Name: name, Webhook: webhook}

	switch loc := m["location"].(type) {
	case nil:
	case string:
		dev.Location = &loc
	default:
		return Device{}, false
	}

	switch sf := m["supportsFrequency"].(type) {
	case nil:
	case bool:
		dev.SupportsFrequency = sf
	default:
		return Device{}, false
	}

	if id, present := m["id"]; present {
		s, ok := id.(string)
		if !ok || s == "" {
			return Device{}, false
		}
		dev.ID = s
	} else if synthesizeID {
		dev.ID = uuid.NewString()
	} else {
		return Device{}, false
	}

	return dev, true
}

func deviceListFromSlice(list []any) ([]Device, bool) {
	if len(list) == 0 {
		return nil, false
	}
	devs := make([]Device, 0, len(list))
	for _, elem := range list {
		m, ok := elem.(map[string]any)
		if !ok {
			return nil, false
		}
		dev, ok := deviceFromMap(m, false)
		if !ok {
			return nil, false
		}
		devs = append(devs, dev)
	}
	return devs, true
}

func userFromMap(m map[string]any, synthesizeID bool) (User, bool) {
	if _, present := m["version"]; present {
		return User{}, false
	}

	name, ok := stringField(m, "name")
	if !ok {
		return User{}, false
	}
	webhook, ok := stringField(m, "webhook")
	if !ok {
		return User{}, false
	}

	user := User{Name: name, Webhook: webhook, Devices: []Device{}}

	switch devices := m["devices"].(type) {
	case nil:
	case []any:
		for _, elem := range devices {
			dm, ok := elem.(map[string]any)
			if !ok {
				return User{}, false
			}
			dev, ok := deviceFromMap(dm, false)
			if !ok {
				return User{}, false
			}
			user.Devices = append(user.Devices, dev)
		}
	default:
		return User{}, false
	}

	if id, present := m["id"]; present {
		s, ok := id.(string)
		if !ok || s == "" {
			return User{}, false
		}
		user.ID = s
	} else if synthesizeID {
		user.ID = uuid.NewString()
	} else {
		return User{}, false
	}

	return user, true
}

func configurationFromMap(m map[string]any) (*Configuration, bool) {
	version, ok := m["version"].(float64)
	if !ok || version < 1 {
		return nil, false
	}
	id, ok := stringField(m, "id")
	if !ok || id == "" {
		return nil, false
	}
	connections, ok := m["connections"].(map[string]any)
	if !ok {
		return nil, false
	}

	conf := &Configuration{
		Version:     int(version),
		ID:          id,
		Connections: make(map[string]User, len(connections)),
	}
	for key, elem := range connections {
		um, ok := elem.(map[string]any)
		if !ok {
			return nil, false
		}
		user, ok := userFromMap(um, false)
		if !ok {
			return nil, false
		}
		conf.Connections[key] = user
	}
	return conf, true
}
