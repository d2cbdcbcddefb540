// Package dbusserver serves org.freedesktop.Notifications on the session
// bus and forwards requests to the lifecycle engine.
package dbusserver

import (
	"errors"

	"github.com/godbus/dbus/v5"

	"github.com/llehouerou/notifyd/internal/engine"
	"github.com/llehouerou/notifyd/internal/note"
)

const (
	BusName                    = "org.freedesktop.Notifications"
	ObjectPath dbus.ObjectPath = "/org/freedesktop/Notifications"
	Interface                  = "org.freedesktop.Notifications"

	introspectableInterface = "org.freedesktop.DBus.Introspectable"
)

// ErrNameTaken is returned when another notification daemon owns the bus name.
var ErrNameTaken = errors.New("notification bus name already owned")

// Engine is the part of the lifecycle engine driven by bus clients.
type Engine interface {
	SubmitNotify(n *note.Note) uint32
	SubmitClose(id uint32, reason engine.CloseReason)
}

// ServerInfo is returned by GetServerInformation.
type ServerInfo struct {
	Name        string
	Vendor      string
	Version     string
	SpecVersion string
}

// DefaultServerInfo identifies this daemon.
func DefaultServerInfo() ServerInfo {
	return ServerInfo{
		Name:        "notifyd",
		Vendor:      "llehouerou",
		Version:     "dev",
		SpecVersion: "1.2",
	}
}

// Features are optional parts of the protocol the daemon supports.
type Features struct {
	Actions bool
}

// Capabilities returns the capability list advertised for f.
func Capabilities(f Features) []string {
	caps := []string{"body"}
	if f.Actions {
		caps = append(caps, "actions")
	}
	return caps
}

const introspectXML = `<!DOCTYPE node PUBLIC "-//freedesktop//DTD D-BUS Object Introspection 1.0//EN"
 "http://www.freedesktop.org/standards/dbus/1.0/introspect.dtd">
<node name="/org/freedesktop/Notifications">
  <interface name="org.freedesktop.Notifications">
    <method name="GetCapabilities">
      <arg direction="out" name="capabilities" type="as"/>
    </method>
    <method name="Notify">
      <arg direction="in" name="app_name" type="s"/>
      <arg direction="in" name="replaces_id" type="u"/>
      <arg direction="in" name="app_icon" type="s"/>
      <arg direction="in" name="summary" type="s"/>
      <arg direction="in" name="body" type="s"/>
      <arg direction="in" name="actions" type="as"/>
      <arg direction="in" name="hints" type="a{sv}"/>
      <arg direction="in" name="expire_timeout" type="i"/>
      <arg direction="out" name="id" type="u"/>
    </method>
    <method name="CloseNotification">
      <arg direction="in" name="id" type="u"/>
    </method>
    <method name="GetServerInformation">
      <arg direction="out" name="name" type="s"/>
      <arg direction="out" name="vendor" type="s"/>
      <arg direction="out" name="version" type="s"/>
      <arg direction="out" name="spec_version" type="s"/>
    </method>
    <signal name="NotificationClosed">
      <arg name="id" type="u"/>
      <arg name="reason" type="u"/>
    </signal>
    <signal name="ActionInvoked">
      <arg name="id" type="u"/>
      <arg name="action_key" type="s"/>
    </signal>
  </interface>
  <interface name="org.freedesktop.DBus.Introspectable">
    <method name="Introspect">
      <arg direction="out" name="data" type="s"/>
    </method>
  </interface>
</node>`
