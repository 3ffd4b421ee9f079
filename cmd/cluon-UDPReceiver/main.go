// Command cluon-UDPReceiver listens on HOST PORT and prints one line per
// received datagram, per SPEC_FULL.md §4.L.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/op/go-logging"
	"github.com/urfave/cli/v2"

	"github.com/cluon-io/cluon/internal/obs"
	"github.com/cluon-io/cluon/udp"
)

func main() {
	obs.SetupLogging(logging.NOTICE)
	log := obs.For("cluon-UDPReceiver")

	app := &cli.App{
		Name:      "cluon-UDPReceiver",
		Usage:     "Print every UDP datagram received on HOST PORT",
		ArgsUsage: "HOST PORT",
		Action: func(c *cli.Context) error {
			if c.NArg() != 2 {
				return cli.Exit("cluon-UDPReceiver: expected HOST PORT", 1)
			}
			addr := fmt.Sprintf("%s:%s", c.Args().Get(0), c.Args().Get(1))

			recv, err := udp.NewReceiver(addr, func(data []byte, from string, ts time.Time) {
				fmt.Printf("Received %d bytes from %s at %ds, containing '%s'.\n",
					len(data), from, ts.Unix(), string(data))
			})
			if err != nil {
				return cli.Exit(err, 1)
			}
			defer recv.Close()

			log.Noticef("listening on %s", addr)
			select {}
		},
	}

	if err := app.Run(os.Args); err != nil {
		os.Exit(1)
	}
}
