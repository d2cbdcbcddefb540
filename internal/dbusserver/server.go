package dbusserver

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/aretw0/introspection"
	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"

	"github.com/llehouerou/notifyd/internal/engine"
	"github.com/llehouerou/notifyd/internal/logging"
)

// Config configures a Server.
type Config struct {
	// BusName defaults to org.freedesktop.Notifications.
	BusName  string
	Info     ServerInfo
	Features Features
	Logger   *logging.Logger
}

// Server owns the notification bus name. It is also the engine's Emitter:
// closes and actions are broadcast as signals on ObjectPath.
type Server struct {
	conn    *dbus.Conn
	busName string
	info    ServerInfo
	feat    Features
	log     *logging.Logger

	serving   atomic.Bool
	notifies  atomic.Uint64
	closes    atomic.Uint64
	signals   atomic.Uint64
	emitFails atomic.Uint64

	closeOnce sync.Once
}

// New connects to the session bus. Call Serve to start answering calls.
func New(cfg Config) (*Server, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("connect session bus: %w", err)
	}
	return NewWithConn(conn, cfg), nil
}

// NewWithConn wraps an existing connection. The server takes ownership of
// conn and closes it in Close.
func NewWithConn(conn *dbus.Conn, cfg Config) *Server {
	if cfg.BusName == "" {
		cfg.BusName = BusName
	}
	if cfg.Info == (ServerInfo{}) {
		cfg.Info = DefaultServerInfo()
	}
	return &Server{
		conn:    conn,
		busName: cfg.BusName,
		info:    cfg.Info,
		feat:    cfg.Features,
		log:     logging.Component(cfg.Logger, "dbus"),
	}
}

// Serve exports the notification interface backed by eng and requests the
// bus name. It returns ErrNameTaken when another daemon holds it.
func (s *Server) Serve(eng Engine) error {
	h := &handler{srv: s, eng: eng}
	if err := s.conn.Export(h, ObjectPath, Interface); err != nil {
		return fmt.Errorf("export %s: %w", Interface, err)
	}
	if err := s.conn.Export(introspect.Introspectable(introspectXML), ObjectPath, introspectableInterface); err != nil {
		return fmt.Errorf("export introspection: %w", err)
	}

	reply, err := s.conn.RequestName(s.busName, dbus.NameFlagDoNotQueue)
	if err != nil {
		return fmt.Errorf("request name %s: %w", s.busName, err)
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		return fmt.Errorf("%w: %s", ErrNameTaken, s.busName)
	}

	s.serving.Store(true)
	s.log.Info().Str("name", s.busName).Log("serving notifications")
	return nil
}

// NotificationClosed implements engine.Emitter.
func (s *Server) NotificationClosed(id uint32, reason engine.CloseReason) {
	s.emit("NotificationClosed", id, uint32(reason))
}

// ActionInvoked implements engine.Emitter.
func (s *Server) ActionInvoked(id uint32, key string) {
	s.emit("ActionInvoked", id, key)
}

func (s *Server) emit(member string, values ...any) {
	if err := s.conn.Emit(ObjectPath, Interface+"."+member, values...); err != nil {
		s.emitFails.Add(1)
		s.log.Warning().Str("signal", member).Err(err).Log("signal emission failed")
		return
	}
	s.signals.Add(1)
}

// Close releases the bus name and the connection.
func (s *Server) Close() error {
	var err error
	s.closeOnce.Do(func() {
		if s.serving.Load() {
			if _, rerr := s.conn.ReleaseName(s.busName); rerr != nil {
				s.log.Debug().Err(rerr).Log("release name")
			}
		}
		err = s.conn.Close()
	})
	return err
}

// ServerState is the introspection snapshot of a Server.
type ServerState struct {
	BusName      string   `json:"bus_name"`
	Serving      bool     `json:"serving"`
	Capabilities []string `json:"capabilities"`
	Notifies     uint64   `json:"notifies"`
	Closes       uint64   `json:"closes"`
	Signals      uint64   `json:"signals"`
	EmitFailures uint64   `json:"emit_failures"`
}

// State implements introspection.Introspectable.
func (s *Server) State() any {
	return ServerState{
		BusName:      s.busName,
		Serving:      s.serving.Load(),
		Capabilities: Capabilities(s.feat),
		Notifies:     s.notifies.Load(),
		Closes:       s.closes.Load(),
		Signals:      s.signals.Load(),
		EmitFailures: s.emitFails.Load(),
	}
}

// ComponentType implements introspection.Component.
func (s *Server) ComponentType() string {
	return "dbus"
}

var (
	_ engine.Emitter               = (*Server)(nil)
	_ introspection.Introspectable = (*Server)(nil)
	_ introspection.Component      = (*Server)(nil)
)

// handler carries the exported methods. Only these four are visible on the
// bus; everything else lives on Server.
type handler struct {
	srv *Server
	eng Engine
}

func (h *handler) Notify(
	sender dbus.Sender,
	appName string,
	replacesID uint32,
	appIcon, summary, body string,
	actions []string,
	hints map[string]dbus.Variant,
	expireTimeout int32,
) (uint32, *dbus.Error) {
	n := notifyArgs{
		AppName:       appName,
		ReplacesID:    replacesID,
		AppIcon:       appIcon,
		Summary:       summary,
		Body:          body,
		Actions:       actions,
		Hints:         hints,
		ExpireTimeout: expireTimeout,
	}.note(h.srv.feat)

	id := h.eng.SubmitNotify(n)
	h.srv.notifies.Add(1)
	h.srv.log.Debug().
		Str("sender", string(sender)).
		Str("app", appName).
		Uint64("id", uint64(id)).
		Bool("replace", replacesID != 0).
		Log("notify")
	return id, nil
}

func (h *handler) CloseNotification(sender dbus.Sender, id uint32) *dbus.Error {
	h.eng.SubmitClose(id, engine.ReasonClosedByRequest)
	h.srv.closes.Add(1)
	h.srv.log.Debug().Str("sender", string(sender)).Uint64("id", uint64(id)).Log("close requested")
	return nil
}

func (h *handler) GetCapabilities() ([]string, *dbus.Error) {
	return Capabilities(h.srv.feat), nil
}

func (h *handler) GetServerInformation() (name, vendor, version, specVersion string, derr *dbus.Error) {
	i := h.srv.info
	return i.Name, i.Vendor, i.Version, i.SpecVersion, nil
}
