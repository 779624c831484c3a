// Command mapview renders a MAP level file.
//
//	mapview [flags] FILE.MAP
//	mapview [flags] ARCHIVE.GRP:NAME.MAP
//	mapview ARCHIVE.GRP
//
// With no output flag a PNG snapshot from the player start is written next
// to the input; -overhead draws the top-down view instead. Given only a
// group file, the maps inside it are listed.
//
// Exit status is 0 on success, 1 on I/O failure and 2 when the file is not a
// valid map.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/stuarthighley/buildmap"
	"github.com/stuarthighley/buildmap/engine"
	"github.com/stuarthighley/buildmap/internal/config"
	"github.com/stuarthighley/buildmap/present"
	ebitenp "github.com/stuarthighley/buildmap/present/ebiten"
	"github.com/stuarthighley/buildmap/present/term"
	"github.com/stuarthighley/buildmap/render"
)

const (
	exitOK = iota
	exitIO
	exitFormat
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

type options struct {
	output      string
	interactive bool
	terminal    bool
	configPath  string
	print       bool
	overhead    bool
	verbose     bool
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("mapview", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var opts options
	fs.StringVar(&opts.output, "o", "", "write a snapshot to `file` (.png frame or .svg plan)")
	fs.BoolVar(&opts.interactive, "i", false, "open an interactive window")
	fs.BoolVar(&opts.terminal, "t", false, "run interactively in the terminal")
	fs.StringVar(&opts.configPath, "config", "", "load settings from JSON `file`")
	fs.BoolVar(&opts.print, "print", false, "print the portal graph from the start sector")
	fs.BoolVar(&opts.overhead, "overhead", false, "start in the top-down view (M toggles interactively)")
	fs.BoolVar(&opts.verbose, "v", false, "log progress to stderr")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: mapview [flags] FILE.MAP | ARCHIVE.GRP[:NAME.MAP]")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitFormat
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return exitFormat
	}

	if opts.verbose {
		l := log.New(stderr, "", log.LstdFlags)
		buildmap.SetLogger(l)
		render.SetLogger(l)
		engine.SetLogger(l)
	}

	if err := view(fs.Arg(0), opts, stdout); err != nil {
		fmt.Fprintf(stderr, "mapview: %v\n", err)
		return exitCode(err)
	}
	return exitOK
}

// exitCode classifies err: invalid map data is exitFormat, anything else
// is an I/O failure.
func exitCode(err error) int {
	var fe *buildmap.FormatError
	if errors.As(err, &fe) {
		return exitFormat
	}
	return exitIO
}

func view(path string, opts options, stdout io.Writer) error {
	cfg := config.Default()
	if opts.configPath != "" {
		var err error
		if cfg, err = config.Load(opts.configPath); err != nil {
			return err
		}
	}
	if opts.overhead {
		cfg.Overhead = true
	}

	if strings.EqualFold(filepath.Ext(path), ".grp") {
		return listMaps(path, stdout)
	}

	m, err := buildmap.ReadPath(path)
	if err != nil {
		return err
	}
	session := engine.NewSession(m)
	if session.State.Sector == buildmap.NoSector {
		log.Printf("Player start is outside every sector")
	}

	if opts.print {
		fmt.Fprintln(stdout, m)
		m.PrintPortals(stdout, max(session.State.Sector, 0))
	}

	switch {
	case opts.interactive:
		w := ebitenp.NewWindow(mapName(path), cfg.Width, cfg.Height, cfg.Scale)
		return w.Run(engine.NewLoop(session, cfg.Engine(), w), cfg.TickRate)
	case opts.terminal:
		t, err := term.Open()
		if err != nil {
			return err
		}
		defer t.Close()
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		return engine.NewLoop(session, cfg.Engine(), t).Run(ctx, t)
	case opts.print && opts.output == "":
		return nil
	}

	out := opts.output
	if out == "" {
		out = snapshotPath(path)
	}
	if strings.EqualFold(filepath.Ext(out), ".svg") {
		return present.DefaultPlan.WriteFile(out, m, session.State)
	}
	loop := engine.NewLoop(session, cfg.Engine(), nil)
	frame := loop.Render()
	snap := &present.PNGFile{
		Path:  out,
		Scale: cfg.Scale,
		Caption: func() []string {
			return []string{mapName(path), session.State.String()}
		},
	}
	if err := snap.Present(frame); err != nil {
		return err
	}
	for _, w := range loop.LastWarnings() {
		log.Printf("Warning: %v", w)
	}
	return nil
}

func listMaps(path string, stdout io.Writer) error {
	g, err := buildmap.OpenGRP(path)
	if err != nil {
		return err
	}
	defer g.Close()
	for _, name := range g.Maps() {
		fmt.Fprintln(stdout, name)
	}
	return nil
}

// snapshotPath is the default snapshot file: the map name with a .png
// extension, beside the map or the archive holding it.
func snapshotPath(path string) string {
	if archive, lump, ok := buildmap.SplitGRPPath(path); ok {
		return filepath.Join(filepath.Dir(archive), strings.TrimSuffix(lump, filepath.Ext(lump))+".png")
	}
	return strings.TrimSuffix(path, filepath.Ext(path)) + ".png"
}

func mapName(path string) string {
	if _, lump, ok := buildmap.SplitGRPPath(path); ok {
		return lump
	}
	return filepath.Base(path)
}
