package gcode

import (
	"context"
	"strings"
	"time"

	"github.com/edaniels/golog"
	"github.com/pkg/errors"
	"go.bug.st/serial"
	"go.viam.com/utils"
)

// GRBL command delays, matching what the controller needs to settle.
const (
	wakeDelay    = 2 * time.Second
	homingDelay  = 5 * time.Second
	commandDelay = 100 * time.Millisecond
	readTimeout  = time.Second
)

// Controller is a GRBL laser engraver on a serial port.
type Controller struct {
	port   serial.Port
	logger golog.Logger
}

// OpenController opens the serial link to the engraver. Initialize must be
// called before streaming.
func OpenController(portName string, baudRate int, logger golog.Logger) (*Controller, error) {
	mode := &serial.Mode{
		BaudRate: baudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	port, err := serial.Open(portName, mode)
	if err != nil {
		return nil, errors.Wrapf(err, "error opening serial port %q", portName)
	}
	if err := port.SetReadTimeout(readTimeout); err != nil {
		return nil, errors.Wrap(err, "error setting serial read timeout")
	}
	return &Controller{port: port, logger: logger}, nil
}

// Initialize wakes the controller and puts it in a known state: optional
// homing, unlock, metric units, absolute positioning, laser off, and the
// current position zeroed.
func (c *Controller) Initialize(ctx context.Context, home bool) error {
	if _, err := c.port.Write([]byte("\r\n\r\n")); err != nil {
		return errors.Wrap(err, "error waking controller")
	}
	if !utils.SelectContextOrWait(ctx, wakeDelay) {
		return ctx.Err()
	}
	if err := c.port.ResetInputBuffer(); err != nil {
		return errors.Wrap(err, "error flushing serial input")
	}

	if home {
		c.logger.Info("homing")
		if err := c.write("$H"); err != nil {
			return err
		}
		if !utils.SelectContextOrWait(ctx, homingDelay) {
			return ctx.Err()
		}
	}
	for _, cmd := range []string{"$X", "G21", "G90", "M5", "G92 X0 Y0"} {
		if err := c.write(cmd); err != nil {
			return err
		}
		if !utils.SelectContextOrWait(ctx, commandDelay) {
			return ctx.Err()
		}
	}
	c.logger.Info("machine initialized and ready")
	return nil
}

// Stream sends the program line by line, waiting for the controller's
// response after each command. Responses other than "ok" are logged and
// streaming continues.
func (c *Controller) Stream(ctx context.Context, program *Program) error {
	for _, line := range program.Lines() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := c.write(line); err != nil {
			return err
		}
		response, err := c.readResponse()
		if err != nil {
			return errors.Wrapf(err, "error reading response to %q", line)
		}
		c.logger.Debugw("sent", "command", line, "response", response)
		if response != "" && response != "ok" {
			c.logger.Warnw("unexpected controller response", "command", line, "response", response)
		}
	}
	return nil
}

// Close turns the laser off best-effort and releases the port.
func (c *Controller) Close() error {
	if err := c.write("M5"); err != nil {
		c.logger.Warnw("error turning laser off during close", "error", err)
	}
	return c.port.Close()
}

func (c *Controller) write(command string) error {
	if _, err := c.port.Write([]byte(command + "\n")); err != nil {
		return errors.Wrapf(err, "error writing %q to controller", command)
	}
	return nil
}

// readResponse reads one response line, returning what arrived before the
// read timeout if the controller stays quiet.
func (c *Controller) readResponse() (string, error) {
	var sb strings.Builder
	buf := make([]byte, 1)
	for {
		n, err := c.port.Read(buf)
		if err != nil {
			return "", err
		}
		if n == 0 {
			// read timeout
			return strings.TrimSpace(sb.String()), nil
		}
		if buf[0] == '\n' {
			return strings.TrimSpace(sb.String()), nil
		}
		sb.WriteByte(buf[0])
	}
}
