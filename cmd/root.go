package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/creativeprojects/imapstatus/bar"
	"github.com/creativeprojects/imapstatus/cfg"
	"github.com/creativeprojects/imapstatus/monitor"
	"github.com/creativeprojects/imapstatus/status"
	"github.com/creativeprojects/imapstatus/term"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var rootCmd = &cobra.Command{
	Use:          "imapstatus",
	Short:        "Unseen messages of your mailboxes on your status bar",
	Long:         "\nUnseen messages of your IMAP and maildir mailboxes on your status bar",
	SilenceUsage: true,
	RunE:         runMonitor,
}

func init() {
	cobra.OnInitialize(initLog)
	flag := rootCmd.PersistentFlags()
	flag.StringVarP(&global.configFile, "config", "c", "imapstatus.yaml", "configuration file")
	flag.BoolVarP(&global.quiet, "quiet", "q", false, "only display warnings and errors")
	flag.BoolVarP(&global.verbose, "verbose", "v", false, "display debugging information")
	flag.StringVar(&global.format, "format", "", "output format: i3bar or plain (overrides the configuration file)")
	flag.BoolVar(&global.noJournal, "no-journal", false, "do not record connection failures")
}

func initLog() {
	switch {
	case global.verbose:
		term.SetLevel(term.LevelDebug)
	case global.quiet:
		term.SetLevel(term.LevelWarn)
	}
}

// runner is a sink that needs its own goroutine
type runner interface {
	Run(ctx context.Context) error
}

func newSink(output cfg.Output) (monitor.Sink, runner) {
	if output.Format == cfg.FormatPlain {
		return bar.NewLine(os.Stdout), nil
	}
	statusBar := bar.New(os.Stdout, bar.WithCoalesce(output.Coalesce), bar.WithLogger(debugLogger("bar")))
	module := statusBar.NewModule(output.Name)
	return module, statusBar
}

func runMonitor(cmd *cobra.Command, args []string) error {
	config, err := loadConfig()
	if err != nil {
		return err
	}
	term.Debugf("loaded %d account(s) from %q", len(config.Accounts), global.configFile)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	channel := status.NewChannel()
	defer channel.Close()

	var jrnl monitor.Journal
	if boltJournal := openJournal(config); boltJournal != nil {
		defer boltJournal.Close()
		jrnl = boltJournal
	}

	watchers, err := newWatchers(config, channel, jrnl)
	if err != nil {
		return err
	}

	sink, sinkRunner := newSink(config.Output)
	aggregator := monitor.NewAggregator(channel, sink, debugLogger("aggregator"))

	group, ctx := errgroup.WithContext(ctx)
	if sinkRunner != nil {
		if refresher, ok := sinkRunner.(*bar.Bar); ok {
			stopRefresh := refreshOnSignal(refresher)
			defer stopRefresh()
		}
		group.Go(func() error {
			return sinkRunner.Run(ctx)
		})
	}
	group.Go(func() error {
		return monitor.Run(ctx, aggregator, watchers...)
	})

	err = group.Wait()
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	term.Debug("stopped")
	return err
}

func Execute(version, commit, date, builtBy string) {
	setApp(version, commit, date, builtBy)
	if err := rootCmd.Execute(); err != nil {
		term.Error(err)
		os.Exit(1)
	}
}
