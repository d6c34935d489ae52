// Package bluez reads and sets BlueZ adapter power over the system D-Bus.
package bluez

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/godbus/dbus/v5"

	"github.com/storskegg/bt-menu/internal/logging"
)

var bluezLog = logging.ForComponent(logging.CompBluez)

const (
	busName      = "org.bluez"
	adapterIface = "org.bluez.Adapter1"
	propsIface   = "org.freedesktop.DBus.Properties"

	// DefaultAdapter is the first controller's object path.
	DefaultAdapter = "/org/bluez/hci0"
)

// AdapterPath converts a controller name ("hci1") or path to an object path.
func AdapterPath(name string) dbus.ObjectPath {
	switch {
	case name == "":
		return DefaultAdapter
	case strings.HasPrefix(name, "/"):
		return dbus.ObjectPath(name)
	default:
		return dbus.ObjectPath("/org/bluez/" + name)
	}
}

// Adapter controls one BlueZ adapter.
type Adapter struct {
	conn *dbus.Conn
	path dbus.ObjectPath
}

// Open connects to the system bus and checks that BlueZ is present.
func Open(name string) (*Adapter, error) {
	conn, err := dbus.ConnectSystemBus()
	if err != nil {
		return nil, fmt.Errorf("connect to system bus: %w", err)
	}
	var names []string
	if err := conn.BusObject().Call("org.freedesktop.DBus.ListNames", 0).Store(&names); err != nil {
		conn.Close()
		return nil, fmt.Errorf("list bus names: %w", err)
	}
	if !slices.Contains(names, busName) {
		conn.Close()
		return nil, fmt.Errorf("%s not found on system bus, is bluetooth.service running?", busName)
	}
	return &Adapter{conn: conn, path: AdapterPath(name)}, nil
}

// Close releases the bus connection.
func (a *Adapter) Close() error {
	return a.conn.Close()
}

// Powered reports the adapter's Powered property.
func (a *Adapter) Powered(ctx context.Context) (bool, error) {
	var v dbus.Variant
	obj := a.conn.Object(busName, a.path)
	if err := obj.CallWithContext(ctx, propsIface+".Get", 0, adapterIface, "Powered").Store(&v); err != nil {
		return false, fmt.Errorf("get Powered: %w", err)
	}
	on, ok := v.Value().(bool)
	if !ok {
		return false, fmt.Errorf("property Powered is %T, not bool", v.Value())
	}
	return on, nil
}

// SetPowered sets the adapter's Powered property.
func (a *Adapter) SetPowered(ctx context.Context, on bool) error {
	obj := a.conn.Object(busName, a.path)
	if err := obj.CallWithContext(ctx, propsIface+".Set", 0, adapterIface, "Powered", dbus.MakeVariant(on)).Err; err != nil {
		return fmt.Errorf("set Powered=%t: %w", on, err)
	}
	bluezLog.Info("adapter_powered", "path", a.path, "on", on)
	return nil
}
