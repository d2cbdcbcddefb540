package dbusserver

import (
	"encoding/xml"
	"slices"
	"testing"

	"github.com/godbus/dbus/v5/introspect"
)

func TestIntrospectXML(t *testing.T) {
	var node introspect.Node
	if err := xml.Unmarshal([]byte(introspectXML), &node); err != nil {
		t.Fatalf("introspection XML does not parse: %v", err)
	}

	i := slices.IndexFunc(node.Interfaces, func(in introspect.Interface) bool {
		return in.Name == Interface
	})
	if i < 0 {
		t.Fatalf("interface %s not described", Interface)
	}
	iface := node.Interfaces[i]

	var methods, signals []string
	for _, m := range iface.Methods {
		methods = append(methods, m.Name)
	}
	for _, s := range iface.Signals {
		signals = append(signals, s.Name)
	}
	slices.Sort(methods)
	slices.Sort(signals)

	wantMethods := []string{"CloseNotification", "GetCapabilities", "GetServerInformation", "Notify"}
	if !slices.Equal(methods, wantMethods) {
		t.Errorf("methods = %v, want %v", methods, wantMethods)
	}
	wantSignals := []string{"ActionInvoked", "NotificationClosed"}
	if !slices.Equal(signals, wantSignals) {
		t.Errorf("signals = %v, want %v", signals, wantSignals)
	}
}
