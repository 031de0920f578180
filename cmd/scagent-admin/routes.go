package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/scagent/scagent-web/internal/domain/nav"
)

// runRoutes prints the route table, or only the routes named in args.
func runRoutes(cmdCtx *commandContext, args []string) error {
	table := nav.MustDefaultTable()

	routes := table.Routes()
	if len(args) > 0 {
		routes = routes[:0]
		for _, name := range args {
			r, ok := table.Lookup(name)
			if !ok {
				return fmt.Errorf("unknown route %q", name)
			}
			routes = append(routes, r)
		}
	}

	tw := tabwriter.NewWriter(cmdCtx.Out, 0, 4, 2, ' ', 0)
	if err := writef(tw, "PATH\tNAME\tVIEW\tREQUIRES AUTH\tPUBLIC ONLY\tREDIRECT\n"); err != nil {
		return err
	}
	for _, r := range routes {
		if err := writef(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			r.Path, r.Name, dash(r.View), strconv.FormatBool(r.RequiresAuth), strconv.FormatBool(r.PublicOnly), dash(r.Redirect),
		); err != nil {
			return err
		}
	}
	return tw.Flush()
}

type resolveOptions struct {
	SignedIn bool
	Paths    []string
}

func parseResolveFlags(args []string) (resolveOptions, error) {
	fs := flag.NewFlagSet("resolve", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var opts resolveOptions
	fs.BoolVar(&opts.SignedIn, "signed-in", false, "Resolve as if an accessToken cookie were present")
	if err := fs.Parse(args); err != nil {
		return resolveOptions{}, err
	}
	opts.Paths = fs.Args()
	if len(opts.Paths) == 0 {
		return resolveOptions{}, errors.New("usage: scagent-admin resolve [--signed-in] <path>...")
	}
	return opts, nil
}

// runResolve prints the outcome of navigating to each path, following redirects until a
// page is allowed.
func runResolve(cmdCtx *commandContext, args []string) error {
	opts, err := parseResolveFlags(args)
	if err != nil {
		return err
	}

	session := nav.Anonymous
	if opts.SignedIn {
		session = nav.SignedIn
	}
	controller := nav.NewController(nav.MustDefaultTable())

	for _, path := range opts.Paths {
		if err := writef(cmdCtx.Out, "%s", path); err != nil {
			return err
		}
		current := path
		for hops := 0; ; hops++ {
			res, resolveErr := controller.Resolve(current, session)
			if resolveErr != nil {
				return resolveErr
			}
			if res.Allowed() {
				if err := writef(cmdCtx.Out, " => %s (%s)\n", res.Location, res.Route.Name); err != nil {
					return err
				}
				break
			}
			if hops >= maxRedirectHops {
				return errors.New("redirect loop at " + current)
			}
			if err := writef(cmdCtx.Out, " -> %s", res.Location); err != nil {
				return err
			}
			current = res.Location
		}
	}
	return nil
}

const maxRedirectHops = 8

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
