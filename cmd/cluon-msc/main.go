// Command cluon-msc parses a .odvd schema file and generates either a
// .proto description or native Go source for it, per SPEC_FULL.md §4.L.
// --cpp-headers/--cpp-sources from the original cluon are reinterpreted
// as --go-sources, since this module's native code-generation target is
// Go rather than C++ (see REDESIGN FLAGS).
package main

import (
	"fmt"
	"os"

	"github.com/op/go-logging"
	"github.com/urfave/cli/v2"

	"github.com/cluon-io/cluon/gen"
	"github.com/cluon-io/cluon/internal/obs"
	"github.com/cluon-io/cluon/odvd"
)

func main() {
	obs.SetupLogging(logging.NOTICE)
	log := obs.For("cluon-msc")

	app := &cli.App{
		Name:  "cluon-msc",
		Usage: "Generate Go source or a .proto description from a .odvd schema",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "go-sources", Usage: "Generate native Go source"},
			&cli.BoolFlag{Name: "proto", Usage: "Generate a .proto description"},
			&cli.StringFlag{Name: "out", Usage: "Output file (default: stdout)"},
			&cli.StringFlag{Name: "package", Value: "generated", Usage: "Package name for --go-sources"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return cli.Exit("cluon-msc: expected exactly one INPUT.odvd argument", 1)
			}
			input := c.Args().Get(0)

			src, err := os.ReadFile(input)
			if err != nil {
				log.Errorf("reading %s: %v", input, err)
				return cli.Exit(err, 1)
			}

			messages, errs := odvd.Parse(string(src))
			if len(errs) > 0 {
				for _, e := range errs {
					log.Errorf("%s", e.Error())
				}
				return cli.Exit(fmt.Sprintf("cluon-msc: %d schema error(s)", len(errs)), 1)
			}

			var output []byte
			switch {
			case c.Bool("go-sources"):
				output, err = gen.GoSource(c.String("package"), messages)
			case c.Bool("proto"):
				output = []byte(gen.ProtoFile(messages))
			default:
				return cli.Exit("cluon-msc: one of --go-sources or --proto is required", 1)
			}
			if err != nil {
				log.Errorf("generating: %v", err)
				return cli.Exit(err, 1)
			}

			if out := c.String("out"); out != "" {
				if err := os.WriteFile(out, output, 0o644); err != nil {
					log.Errorf("writing %s: %v", out, err)
					return cli.Exit(err, 1)
				}
				return nil
			}
			_, err = os.Stdout.Write(output)
			return err
		},
	}

	if err := app.Run(os.Args); err != nil {
		os.Exit(1)
	}
}
