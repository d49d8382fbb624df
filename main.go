package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
	"github.com/tliron/kutil/util"

	"sheetlang/internal/app"
	"sheetlang/internal/calc"
	"sheetlang/internal/config"
	"sheetlang/internal/storage"
)

var log = commonlog.GetLogger("sheetlang")

type options struct {
	dump bool
	view bool
}

func main() {
	verbosity := flag.Int("v", 0, "Log verbosity from -4 (silent) to 2 (debug); overrides log.verbosity")
	configPath := flag.String("config", "", "Configuration file (default ./"+config.DefaultPath+" when present)")
	dump := flag.Bool("dump", false, "Print every cell with its expression and value after running")
	view := flag.Bool("view", false, "Open the terminal viewer after running")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: sheetlang [options] file...\n\n")
		fmt.Fprintf(os.Stderr, "Runs spreadsheet programs against one shared sheet. Use - for stdin.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		util.Exit(1)
	}

	flag.Visit(func(f *flag.Flag) {
		if f.Name == "v" {
			cfg.Log.Verbosity = *verbosity
		}
	})
	var logFile *string
	if cfg.Log.File != "" {
		logFile = &cfg.Log.File
	}
	commonlog.Configure(cfg.Log.Verbosity, logFile)

	if flag.NArg() == 0 && !*view {
		flag.Usage()
		util.Exit(2)
	}

	code := run(cfg, flag.Args(), options{dump: *dump, view: *view}, os.Stdout, os.Stderr)
	util.Exit(code)
}

// run executes every named source against one sheet and returns the exit
// status.
func run(cfg *config.Config, names []string, opts options, stdout, stderr io.Writer) int {
	sheet := calc.NewSheet(
		calc.WithPrinter(calc.ConsolePrinter(stdout)),
		calc.WithCycleDetection(cfg.Eval.DetectCycles),
	)

	code := 0
	for _, name := range names {
		src, err := storage.Load(name)
		if err != nil {
			log.Debugf("load: %s", err)
			fmt.Fprintf(stderr, "Error opening and reading file with filename [%s].\n", name)
			code = 1
			continue
		}
		log.Infof("running %s", src.Name)
		if rest, _ := sheet.Exec(src.Text); strings.TrimSpace(rest) != "" {
			fmt.Fprintf(stderr, "Parsing left remainder [%s].\n", strings.TrimSpace(rest))
			code = 1
		}
	}

	if opts.dump {
		if err := sheet.Dump(stdout); err != nil {
			fmt.Fprintf(stderr, "%v\n", err)
			code = 1
		}
	}

	if opts.view {
		if err := view(sheet, cfg.View); err != nil {
			fmt.Fprintf(stderr, "%v\n", err)
			code = 1
		}
	}
	return code
}

func view(sheet *calc.Sheet, cfg config.View) error {
	s, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("cannot create screen: %w", err)
	}
	if err := s.Init(); err != nil {
		return fmt.Errorf("cannot init screen: %w", err)
	}
	defer s.Fini()

	s.Clear()
	app.NewApp(sheet, cfg).Run(s)
	return nil
}
