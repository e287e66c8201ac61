// afdc is an interactive terminal client for the AFD daemon on port 4444.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/drake/afdc/config"
	"github.com/drake/afdc/logger"
	"github.com/drake/afdc/session"
	"github.com/drake/afdc/ui"
)

var rootCmd = &cobra.Command{
	Use:   "afdc [host]",
	Short: "Interactive client for the AFD daemon",
	Long: `afdc connects to the AFD daemon (afdd) on <host>:4444, sends each
entered line as a command and shows every reply line as it arrives.
The host defaults to localhost.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "afdc:", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Resolve(args)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	surface := newSurface()
	return session.New(cfg, surface).Run(ctx)
}

// newSurface picks the TUI when both ends are terminals and the plain
// console otherwise. The TUI owns the screen, so its logs are dropped.
func newSurface() ui.Surface {
	if isTerminal(os.Stdin) && isTerminal(os.Stdout) {
		logger.Init(logger.Config{Level: "info"})
		return ui.NewBubbleTeaUI()
	}
	logger.Init(logger.Stderr("warn"))
	return ui.NewConsoleUI(os.Stdin, os.Stdout)
}

func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
