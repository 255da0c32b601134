package server

import (
	"bufio"
	"log/slog"
	"net"
)

// ConnectionHandler pumps one accepted connection: read a line, dispatch it,
// write the single response line back. It holds no session state of its own;
// when the stream ends or errors, it just logs and releases the connection.
type ConnectionHandler struct {
	conn       net.Conn
	dispatcher *CommandDispatcher
	log        *slog.Logger
}

func NewConnectionHandler(conn net.Conn, dispatcher *CommandDispatcher, log *slog.Logger) *ConnectionHandler {
	return &ConnectionHandler{conn: conn, dispatcher: dispatcher, log: log}
}

// Run reads lines until end-of-stream or I/O error. Responses are written in
// the order requests arrive; a single goroutine per connection makes that
// FIFO guarantee free.
func (h *ConnectionHandler) Run() {
	remote := h.conn.RemoteAddr().String()
	h.log.Info("Client connected", "remote", remote)
	defer func() {
		_ = h.conn.Close()
		h.log.Info("Client disconnected", "remote", remote)
	}()

	scanner := bufio.NewScanner(h.conn)
	scanner.Buffer(make([]byte, 0, 4*1024), maxWireLineBytes)
	writer := bufio.NewWriter(h.conn)

	for scanner.Scan() {
		response := h.dispatcher.Handle(scanner.Text(), h.conn)
		if _, err := writer.WriteString(response + "\n"); err != nil {
			h.log.Warn("Write failed", "remote", remote, "error", err)
			return
		}
		if err := writer.Flush(); err != nil {
			h.log.Warn("Flush failed", "remote", remote, "error", err)
			return
		}
	}
	if err := scanner.Err(); err != nil {
		h.log.Warn("Connection error", "remote", remote, "error", err)
	}
}

// maxWireLineBytes bounds one protocol line; a client exceeding it is cut off.
const maxWireLineBytes = 1 << 20
