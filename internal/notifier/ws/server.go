package ws

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"

	log "github.com/sirupsen/logrus"
)

type Config struct {
	Host string
	Port int
}

// Server exposes the hub on its own listening endpoint, apart from the
// HTTP API.
type Server struct {
	srv  *http.Server
	hub  *Hub
	addr string
}

func NewServer(config Config, hub *Hub) *Server {
	addr := net.JoinHostPort(config.Host, strconv.Itoa(config.Port))
	mux := http.NewServeMux()
	mux.Handle("/ws", hub)
	return &Server{
		addr: addr,
		hub:  hub,
		srv:  &http.Server{Addr: addr, Handler: mux},
	}
}

func (s *Server) Start(_ context.Context) error {
	log.Printf("starting websocket server on %s", s.addr)
	err := s.srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("websocket server failed: %w", err)
	}
	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	s.hub.Close()
	return s.srv.Shutdown(ctx)
}
