package models

// Device is one addressable stimulation channel. Webhook is the
// device-specific identifier at the actuator network, distinct from the
// owning user's webhook id. For merge purposes two devices are the same
// when either their Webhook or their ID matches.
type Device struct {
	ID                string  `json:"id"`
	Name              string  `json:"name"`
	Location          *string `json:"location"`
	Webhook           string  `json:"webhook"`
	SupportsFrequency bool    `json:"supportsFrequency"`
}

// SameAs reports whether other refers to the same physical device.
func (d *Device) SameAs(other *Device) bool {
	return (d.Webhook != "" && d.Webhook == other.Webhook) || (d.ID != "" && d.ID == other.ID)
}

func (d *Device) Clone() Device {
	out := *d
	if d.Location != nil {
		loc := *d.Location
		out.Location = &loc
	}
	return out
}

// User is an identity owning zero or more devices. Webhook is the
// user's own relay identifier, used to address all of their devices.
type User struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Webhook string   `json:"webhook"`
	Devices []Device `json:"devices"`
}

func (u *User) Clone() User {
	out := *u
	out.Devices = make([]Device, len(u.Devices))
	for i := range u.Devices {
		out.Devices[i] = u.Devices[i].Clone()
	}
	return out
}

// FindDevice returns the index of the first device matching probe by
// webhook or id, or -1.
func (u *User) FindDevice(probe *Device) int {
	for i := range u.Devices {
		if u.Devices[i].SameAs(probe) {
			return i
		}
	}
	return -1
}
