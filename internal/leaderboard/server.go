package leaderboard

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/samdwyer/minedelve/internal/game"
	"github.com/samdwyer/minedelve/internal/telemetry"
)

// Magic strings open every connection and select the operation. Both
// are the same length so the server can read one fixed-size prefix.
const (
	UploadMagic   = "BEGIN THE MINING LOG"
	DownloadMagic = "GIVE ME LEADERBOARDS"
)

// Protocol responses, written verbatim to the client.
const (
	RespOK           = "OK."
	RespMagicMissing = "Magic string missing."
	RespWrongMagic   = "Wrong magic string."
	RespNameMissing  = "Name missing."
	RespInvalidName  = "Invalid name."
	RespTooLarge     = "No spam!"
	RespConnIssue    = "Connection issue."
	RespEarlyExit    = "No early exits!"
	RespVersion      = "Version too old."
)

// maxUploadSize caps a submitted run payload. Larger uploads are
// refused mid-read.
const maxUploadSize = 1_000_000

// Server accepts leaderboard submissions and download requests over
// TCP. Submitted runs are replayed with the determinism check on;
// only the extracted statistics are retained.
type Server struct {
	addr string
	log  *zap.Logger

	mu      sync.RWMutex
	entries []Entry

	listener net.Listener
	wg       sync.WaitGroup
	quit     chan struct{}
}

// NewServer creates a server that will listen on addr.
func NewServer(addr string, log *zap.Logger) *Server {
	return &Server{
		addr: addr,
		log:  log,
		quit: make(chan struct{}),
	}
}

// Entries returns a snapshot of the current score table.
func (s *Server) Entries() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Addr returns the bound listen address, valid after ListenAndServe
// has started accepting.
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// ListenAndServe binds the listen address and accepts connections
// until Stop is called. Each connection is handled on its own
// goroutine.
func (s *Server) ListenAndServe(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	s.listener = listener
	s.log.Info("leaderboard server listening", zap.String("address", listener.Addr().String()))

	for {
		conn, err := listener.Accept()
		if err != nil {
			select {
			case <-s.quit:
				s.wg.Wait()
				return nil
			default:
			}
			if errors.Is(err, net.ErrClosed) {
				s.wg.Wait()
				return nil
			}
			s.log.Warn("accept failed", zap.Error(err))
			continue
		}

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handleConn(ctx, conn)
		}()
	}
}

// Stop closes the listener and waits for in-flight connections.
func (s *Server) Stop() {
	close(s.quit)
	if s.listener != nil {
		_ = s.listener.Close()
	}
	s.wg.Wait()
	s.log.Info("leaderboard server stopped")
}

func (s *Server) handleConn(ctx context.Context, conn net.Conn) {
	defer conn.Close()
	connID := uuid.NewString()
	log := s.log.With(
		zap.String("connection_id", connID),
		zap.String("remote_addr", conn.RemoteAddr().String()),
	)
	log.Debug("client connected")

	_ = conn.SetDeadline(time.Now().Add(30 * time.Second))

	magic := make([]byte, len(UploadMagic))
	if _, err := io.ReadFull(conn, magic); err != nil {
		log.Debug("failed to read magic string", zap.Error(err))
		s.respond(conn, RespMagicMissing)
		return
	}

	switch string(magic) {
	case UploadMagic:
		log.Debug("upload requested, reading name")
		s.handleUpload(ctx, conn, log)
	case DownloadMagic:
		log.Debug("download requested, sending score table")
		s.handleDownload(conn, log)
	default:
		log.Debug("unrecognized magic string, dropping connection")
		s.respond(conn, RespWrongMagic)
	}
}

func (s *Server) handleDownload(conn net.Conn, log *zap.Logger) {
	data, err := json.Marshal(s.Entries())
	if err != nil {
		log.Error("encoding score table", zap.Error(err))
		return
	}
	if _, err := conn.Write(data); err != nil {
		log.Debug("writing score table", zap.Error(err))
	}
}

// handleUpload reads "<name>" framed between '>' and '<', then the
// run payload until EOF, replays it, and appends a row on success.
func (s *Server) handleUpload(ctx context.Context, conn net.Conn, log *zap.Logger) {
	frame := make([]byte, NameLength+2)
	if _, err := io.ReadFull(conn, frame); err != nil {
		log.Debug("failed to read name", zap.Error(err))
		s.respond(conn, RespNameMissing)
		return
	}
	name := string(frame[1 : 1+NameLength])
	if frame[0] != '>' || frame[NameLength+1] != '<' || !ValidName(name) {
		log.Debug("invalid name format")
		s.respond(conn, RespInvalidName)
		return
	}
	log = log.With(zap.String("name", name))

	var payload bytes.Buffer
	buf := make([]byte, 1024)
	for {
		n, err := conn.Read(buf)
		payload.Write(buf[:n])
		if payload.Len() > maxUploadSize {
			log.Debug("upload exceeds size cap, dropping connection")
			s.respond(conn, RespTooLarge)
			return
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Warn("error while receiving run", zap.Error(err))
			s.respond(conn, RespConnIssue)
			return
		}
	}

	log.Debug("run received, replaying", zap.Int("bytes", payload.Len()))
	replayCtx, span := telemetry.Tracer("leaderboard").Start(ctx, "submission.replay")
	span.SetAttributes(attribute.Int("submission.bytes", payload.Len()))
	dungeon, err := game.FromBytes(replayCtx, payload.Bytes())
	span.End()
	if err != nil {
		log.Debug("run replay failed", zap.Error(err))
		s.respond(conn, RespVersion)
		return
	}

	var rounds *uint64
	switch {
	case dungeon.IsGameOver():
		rounds = nil
	case dungeon.FinalTreasureFound():
		r := dungeon.Round()
		rounds = &r
	default:
		log.Debug("run had not ended, dropping")
		s.respond(conn, RespEarlyExit)
		return
	}

	entry := Entry{
		Name:     name,
		Treasure: dungeon.PlayerTreasure(),
		Rounds:   rounds,
		Size:     payload.Len(),
	}
	s.mu.Lock()
	s.entries = append(s.entries, entry)
	s.mu.Unlock()

	log.Info("run accepted",
		zap.Int("treasure", entry.Treasure),
		zap.Uint64p("rounds", entry.Rounds),
		zap.Int("size", entry.Size),
	)
	s.respond(conn, RespOK)
}

func (s *Server) respond(conn net.Conn, message string) {
	if _, err := conn.Write([]byte(message)); err != nil {
		s.log.Debug("writing response", zap.Error(err))
	}
}
