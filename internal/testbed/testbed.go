package testbed

import (
	"errors"
	"fmt"
	"sort"

	"gopkg.in/yaml.v2"

	"github.com/confsnap/confsnap/internal/model"
)

// Connection defaults applied to every device. The inventory carries only
// addresses and credentials; everything else is fixed for the lab.
const (
	Name            = "LabTestbed"
	DefaultProtocol = "ssh"
	DefaultPort     = 22
	DefaultOS       = "iosxe"
	DefaultType     = "router"
)

var ErrDuplicateDevice = errors.New("duplicate device name")

// Testbed describes the devices of one run and how to connect to them.
// It marshals to a pyATS-compatible YAML document.
type Testbed struct {
	Meta    Meta              `yaml:"testbed"`
	Devices map[string]Device `yaml:"devices"`
}

// Meta holds testbed-level attributes.
type Meta struct {
	Name string `yaml:"name"`
}

// Device holds the connection configuration for a single device.
type Device struct {
	OS          string                `yaml:"os"`
	Type        string                `yaml:"type"`
	Connections map[string]Connection `yaml:"connections"`
	Credentials map[string]Credential `yaml:"credentials"`
}

// Connection is one way of reaching a device.
type Connection struct {
	Protocol string `yaml:"protocol"`
	IP       string `yaml:"ip"`
	Port     int    `yaml:"port"`
}

// Credential is a username/password pair.
type Credential struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// Build maps inventory records into a testbed, one entry per device, with
// the fixed protocol, port and platform defaults. Records are assumed to be
// complete (the inventory reader validates fields); duplicate names fail
// the build.
func Build(records []model.DeviceRecord) (*Testbed, error) {
	tb := &Testbed{
		Meta:    Meta{Name: Name},
		Devices: make(map[string]Device, len(records)),
	}

	for _, rec := range records {
		if _, exists := tb.Devices[rec.Name]; exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateDevice, rec.Name)
		}
		tb.Devices[rec.Name] = Device{
			OS:   DefaultOS,
			Type: DefaultType,
			Connections: map[string]Connection{
				"cli": {
					Protocol: DefaultProtocol,
					IP:       rec.ManagementIP,
					Port:     DefaultPort,
				},
			},
			Credentials: map[string]Credential{
				"default": {
					Username: rec.Username,
					Password: rec.Password,
				},
			},
		}
	}

	return tb, nil
}

// DeviceNames returns all device names sorted lexicographically. Every
// component that walks the whole testbed iterates in this order, which
// keeps runs deterministic.
func (tb *Testbed) DeviceNames() []string {
	names := make([]string, 0, len(tb.Devices))
	for name := range tb.Devices {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Device returns the entry for name.
func (tb *Testbed) Device(name string) (Device, bool) {
	dev, ok := tb.Devices[name]
	return dev, ok
}

// CLI returns the device's cli connection and default credential, the pair
// the config fetcher dials with.
func (d Device) CLI() (Connection, Credential) {
	return d.Connections["cli"], d.Credentials["default"]
}

// YAML renders the testbed as a pyATS-style YAML document.
func (tb *Testbed) YAML() ([]byte, error) {
	return yaml.Marshal(tb)
}

// Redacted returns a copy with every password masked, for display and
// export. The receiver is not modified.
func (tb *Testbed) Redacted() *Testbed {
	out := &Testbed{
		Meta:    tb.Meta,
		Devices: make(map[string]Device, len(tb.Devices)),
	}
	for name, dev := range tb.Devices {
		creds := make(map[string]Credential, len(dev.Credentials))
		for id, cred := range dev.Credentials {
			cred.Password = "********"
			creds[id] = cred
		}
		conns := make(map[string]Connection, len(dev.Connections))
		for id, conn := range dev.Connections {
			conns[id] = conn
		}
		dev.Credentials = creds
		dev.Connections = conns
		out.Devices[name] = dev
	}
	return out
}
