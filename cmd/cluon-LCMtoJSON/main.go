// Command cluon-LCMtoJSON listens for LCM datagrams on HOST:PORT,
// decodes each one against a .odvd schema into a GenericMessage, and
// prints one JSON object per datagram to stdout, per SPEC_FULL.md §4.L.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/op/go-logging"
	"github.com/urfave/cli/v2"

	"github.com/cluon-io/cluon/cluonjson"
	"github.com/cluon-io/cluon/internal/obs"
	"github.com/cluon-io/cluon/lcm"
	"github.com/cluon-io/cluon/odvd"
	"github.com/cluon-io/cluon/udp"
)

func main() {
	obs.SetupLogging(logging.NOTICE)
	log := obs.For("cluon-LCMtoJSON")

	app := &cli.App{
		Name:      "cluon-LCMtoJSON",
		Usage:     "Decode LCM datagrams against a .odvd schema and print JSON",
		ArgsUsage: "HOST:PORT",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "odvd", Required: true, Usage: "Path to the .odvd schema file"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return cli.Exit("cluon-LCMtoJSON: expected HOST:PORT", 1)
			}
			addr := c.Args().Get(0)

			src, err := os.ReadFile(c.String("odvd"))
			if err != nil {
				return cli.Exit(fmt.Errorf("reading schema: %w", err), 1)
			}
			corpus, errs := odvd.ParseCorpus(string(src))
			if len(errs) > 0 {
				return cli.Exit(fmt.Sprintf("cluon-LCMtoJSON: %d schema error(s)", len(errs)), 1)
			}
			meta, ok := soleMessage(corpus)
			if !ok {
				return cli.Exit("cluon-LCMtoJSON: schema must describe exactly one message", 1)
			}

			recv, err := udp.NewReceiver(addr, func(data []byte, from string, ts time.Time) {
				handleDatagram(data, from, ts, meta, corpus, log)
			})
			if err != nil {
				return cli.Exit(err, 1)
			}
			defer recv.Close()

			log.Noticef("listening for LCM datagrams on %s", addr)
			select {}
		},
	}

	if err := app.Run(os.Args); err != nil {
		os.Exit(1)
	}
}

func handleDatagram(data []byte, from string, ts time.Time, meta odvd.MetaMessage, corpus *odvd.Corpus, log *logging.Logger) {
	msg, err := lcm.Decode(data, meta, corpus)
	if err != nil {
		log.Warningf("decoding datagram from %s: %v", from, err)
		return
	}
	out, err := cluonjson.Encode(msg, cluonjson.Options{OuterBraces: true})
	if err != nil {
		log.Warningf("encoding datagram from %s: %v", from, err)
		return
	}
	fmt.Println(string(out))
}

// soleMessage returns the schema's only message, since LCM carries no
// on-wire type tag: a channel's payload type is fixed by the schema the
// caller supplies, exactly like a real LCM subscriber knows its channel's
// message type out of band.
func soleMessage(corpus *odvd.Corpus) (odvd.MetaMessage, bool) {
	if len(corpus.Messages) != 1 {
		return odvd.MetaMessage{}, false
	}
	return corpus.Messages[0], true
}
