package leaderboard

import (
	"encoding/json"
	"fmt"
	"io"
	"net"
	"time"
)

// ServerError is a protocol-level rejection carried in the server's
// response body.
type ServerError struct {
	Response string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server rejected request: %s", e.Response)
}

const clientTimeout = 30 * time.Second

// Upload submits a serialized run under a three-character name. A nil
// error means the server answered OK and the run is on the board.
func Upload(addr, name string, runBytes []byte) error {
	if !ValidName(name) {
		return fmt.Errorf("invalid name %q", name)
	}

	conn, err := net.DialTimeout("tcp", addr, clientTimeout)
	if err != nil {
		return err
	}
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(clientTimeout))

	for _, chunk := range [][]byte{
		[]byte(UploadMagic),
		{'>'},
		[]byte(name),
		{'<'},
		runBytes,
	} {
		if _, err := conn.Write(chunk); err != nil {
			return err
		}
	}
	// Half-close so the server sees EOF on the payload.
	if tcp, ok := conn.(*net.TCPConn); ok {
		_ = tcp.CloseWrite()
	}

	response, err := io.ReadAll(conn)
	if err != nil {
		return err
	}
	if string(response) != RespOK {
		return &ServerError{Response: string(response)}
	}
	return nil
}

// Download fetches the current score table.
func Download(addr string) ([]Entry, error) {
	conn, err := net.DialTimeout("tcp", addr, clientTimeout)
	if err != nil {
		return nil, err
	}
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(clientTimeout))

	if _, err := conn.Write([]byte(DownloadMagic)); err != nil {
		return nil, err
	}
	if tcp, ok := conn.(*net.TCPConn); ok {
		_ = tcp.CloseWrite()
	}

	data, err := io.ReadAll(conn)
	if err != nil {
		return nil, err
	}
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decoding score table: %w", err)
	}
	return entries, nil
}
