// Package main listens for TCP connections and saves received file data to
// a configured path.
package main

import (
	"context"

	"github.com/edaniels/golog"
	"go.uber.org/multierr"
	"go.viam.com/utils"

	"github.com/ateliercnc/graveur/filerecv"
)

var logger = golog.NewDevelopmentLogger("receive")

func main() {
	utils.ContextualMain(mainWithArgs, logger)
}

// Arguments for the command.
type Arguments struct {
	Port int    `flag:"port,default=5001,usage=TCP port to listen on"`
	Out  string `flag:"out,required,usage=path to save the received file"`
}

func mainWithArgs(ctx context.Context, args []string, logger golog.Logger) (err error) {
	var argsParsed Arguments
	if err := utils.ParseFlags(args, &argsParsed); err != nil {
		return err
	}

	receiver, err := filerecv.NewReceiver(filerecv.Config{
		Port:     argsParsed.Port,
		SavePath: argsParsed.Out,
	}, logger)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Combine(err, receiver.Close())
	}()

	return receiver.Run(ctx)
}
