// Package transport is the external network collaborator spec.md §6
// names: "a middleman actor that accepts {connect, host, port} and
// responds with {ok, node_id, remote_address, ifaces} or a failure
// error. The core neither parses wire bytes nor manages sockets." This
// package is exactly that boundary and nothing more — it dials and tracks
// connections, never interprets what flows over them.
//
// Connection bookkeeping is adapted from the teacher's
// server.Server (_examples/lguibr-pongo/server/websocket.go), which
// tracked per-game websocket connections in a mutex-guarded map; here the
// same shape tracks per-remote-node connections keyed by the node id this
// package mints on connect.
package transport

import (
	"fmt"
	"net"
	"sync"

	"github.com/lguibr/bollywood"
	"github.com/google/uuid"
	"golang.org/x/net/websocket"
)

// ConnectRequest is the {connect, host, port} message.
type ConnectRequest struct {
	Host string
	Port int
}

// ConnectResponse is the successful {ok, node_id, remote_address, ifaces}
// reply.
type ConnectResponse struct {
	NodeId        string
	RemoteAddress string
	Ifaces        []string
}

// Dialer abstracts websocket.Dial so tests can substitute a fake
// connection without a real listener.
type Dialer func(url string) (*websocket.Conn, error)

func defaultDialer(url string) (*websocket.Conn, error) {
	return websocket.Dial(url, "", "http://localhost/")
}

// registry tracks live outbound connections by the node id minted on
// connect — the adapted shape of the teacher's Server.connections map.
type registry struct {
	mu    sync.RWMutex
	conns map[string]*websocket.Conn
}

func newRegistry() *registry {
	return &registry{conns: make(map[string]*websocket.Conn)}
}

func (r *registry) add(nodeId string, conn *websocket.Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conns[nodeId] = conn
}

func (r *registry) remove(nodeId string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if conn, ok := r.conns[nodeId]; ok {
		conn.Close()
		delete(r.conns, nodeId)
	}
}

func (r *registry) get(nodeId string) (*websocket.Conn, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	conn, ok := r.conns[nodeId]
	return conn, ok
}

// CloseRequest asks the middleman to close a previously opened connection.
type CloseRequest struct {
	NodeId string
}

// Middleman is the actor-side state backing the {connect,...} protocol.
type Middleman struct {
	dial  Dialer
	conns *registry
}

// NewMiddlemanProducer builds the Producer for a Middleman actor. dial is
// optional; nil uses websocket.Dial against a real remote.
func NewMiddlemanProducer(dial Dialer) bollywood.Producer {
	if dial == nil {
		dial = defaultDialer
	}
	return func() *bollywood.Behavior {
		m := &Middleman{dial: dial, conns: newRegistry()}
		return bollywood.NewBehavior().
			On(ConnectRequest{}, m.handleConnect).
			On(CloseRequest{}, m.handleClose)
	}
}

func (m *Middleman) handleConnect(ctx *bollywood.Context, msg bollywood.Message) bollywood.Result {
	req, ok := msg.(ConnectRequest)
	if !ok {
		return bollywood.Fail(fmt.Errorf("transport: unexpected message %T", msg))
	}
	url := fmt.Sprintf("ws://%s:%d/", req.Host, req.Port)
	conn, err := m.dial(url)
	if err != nil {
		return bollywood.Fail(fmt.Errorf("transport: connect %s: %w", url, err))
	}

	nodeId := uuid.New().String()
	m.conns.add(nodeId, conn)

	remote := ""
	if addr := conn.RemoteAddr(); addr != nil {
		remote = addr.String()
	}

	return bollywood.Reply(ConnectResponse{
		NodeId:        nodeId,
		RemoteAddress: remote,
		Ifaces:        localInterfaceNames(),
	})
}

func (m *Middleman) handleClose(ctx *bollywood.Context, msg bollywood.Message) bollywood.Result {
	req, ok := msg.(CloseRequest)
	if !ok {
		return bollywood.Fail(fmt.Errorf("transport: unexpected message %T", msg))
	}
	m.conns.remove(req.NodeId)
	return bollywood.Empty()
}

func localInterfaceNames() []string {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(ifaces))
	for _, iface := range ifaces {
		names = append(names, iface.Name)
	}
	return names
}
