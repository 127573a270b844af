// Package filerecv receives a file over a bare TCP connection and writes
// it to a configured path, one transfer at a time.
package filerecv

import (
	"context"
	"fmt"
	"io"
	"net"
	"os"

	"github.com/edaniels/golog"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.viam.com/utils"
)

// Config describes where to listen and where received bytes go.
type Config struct {
	// Port to listen on, all interfaces.
	Port int
	// SavePath is overwritten by each completed transfer.
	SavePath string
}

// Receiver accepts one connection at a time and writes the incoming stream
// to the configured path.
type Receiver struct {
	cfg      Config
	listener net.Listener
	logger   golog.Logger
}

// NewReceiver opens the listening socket.
func NewReceiver(cfg Config, logger golog.Logger) (*Receiver, error) {
	if cfg.SavePath == "" {
		return nil, errors.New("save path must be set")
	}
	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.Port))
	if err != nil {
		return nil, errors.Wrapf(err, "error listening on port %d", cfg.Port)
	}
	return &Receiver{cfg: cfg, listener: listener, logger: logger}, nil
}

// Addr returns the listener's address.
func (r *Receiver) Addr() net.Addr {
	return r.listener.Addr()
}

// Run accepts connections until the context is done. Each connection's
// bytes replace the file at the configured path; a failed transfer is
// logged and the loop keeps serving.
func (r *Receiver) Run(ctx context.Context) error {
	done := make(chan struct{})
	defer close(done)
	utils.PanicCapturingGo(func() {
		select {
		case <-ctx.Done():
			utils.UncheckedErrorFunc(r.listener.Close)
		case <-done:
		}
	})
	r.logger.Infow("waiting for connection", "addr", r.listener.Addr().String())
	for {
		conn, err := r.listener.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return errors.Wrap(err, "error accepting connection")
		}
		if err := r.receive(conn); err != nil {
			r.logger.Errorw("transfer failed", "peer", conn.RemoteAddr().String(), "error", err)
		}
	}
}

// receive copies one connection's bytes into the save path.
func (r *Receiver) receive(conn net.Conn) (err error) {
	defer func() {
		err = multierr.Combine(err, conn.Close())
	}()
	r.logger.Infow("connected", "peer", conn.RemoteAddr().String())

	//nolint:gosec
	f, err := os.Create(r.cfg.SavePath)
	if err != nil {
		return errors.Wrapf(err, "error creating %q", r.cfg.SavePath)
	}
	defer func() {
		err = multierr.Combine(err, f.Close())
	}()

	n, err := io.Copy(f, conn)
	if err != nil {
		return errors.Wrap(err, "error receiving file data")
	}
	r.logger.Infow("file received and saved", "path", r.cfg.SavePath, "bytes", n)
	return nil
}

// Close releases the listening socket. Closing an already-stopped receiver
// is not an error.
func (r *Receiver) Close() error {
	if err := r.listener.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
		return err
	}
	return nil
}
