package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"cup_controller/internal/config"
	"cup_controller/internal/device"
	"cup_controller/internal/logger"
	"cup_controller/internal/models"
	"cup_controller/internal/service"
	"cup_controller/internal/store"
)

func runCmd(configPath *string) *cobra.Command {
	var (
		stepUnit time.Duration
		simulate bool
	)

	cmd := &cobra.Command{
		Use:   "run <program.yaml>",
		Short: "Run one cycle program in the foreground",
		Long: `Run a cycle program against the relay without the HTTP server and
print every command as it happens. Ctrl-C stops the cycle.

Examples:
  cupd run bake.yaml
  cupd run bake.yaml --simulate --step-unit 1s   # dry run, one second per minute`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("step-unit") {
				cfg.Cycle.StepUnit = stepUnit
			}
			if simulate {
				cfg.Device.DebugMode = true
			}
			p, err := loadProgram(args[0])
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runProgram(ctx, cmd.OutOrStdout(), cfg, newTransport(cfg.Device), p)
		},
	}
	cmd.Flags().DurationVar(&stepUnit, "step-unit", service.DefaultStepUnit, "wall-clock length of one step minute")
	cmd.Flags().BoolVar(&simulate, "simulate", false, "use the simulated relay")
	return cmd
}

// progressPrinter turns store snapshots into one line per command attempt
// and reports when the execution disappears.
type progressPrinter struct {
	out io.Writer

	mu         sync.Mutex
	historySeq uint64
	running    bool
	done       chan struct{}
	once       sync.Once
}

func newProgressPrinter(out io.Writer) *progressPrinter {
	return &progressPrinter{out: out, done: make(chan struct{})}
}

func (p *progressPrinter) notify(s models.StateData) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, e := range s.HistorySince(p.historySeq) {
		p.printAttempt(e, s.CycleExecution)
	}
	if s.HistorySeq > p.historySeq {
		p.historySeq = s.HistorySeq
	}

	switch {
	case s.CycleExecution != nil:
		p.running = true
	case p.running:
		p.once.Do(func() { close(p.done) })
	}
}

func (p *progressPrinter) printAttempt(e models.HistoryEntry, exec *models.CycleExecution) {
	progress := ""
	if exec != nil {
		progress = fmt.Sprintf("[%d/%d] ", exec.CompletedSteps+1, exec.TotalCommands())
	}
	status := color.New(color.FgGreen).Sprint("ok")
	if !e.Success {
		status = color.New(color.FgRed).Sprint("failed: " + e.Error)
	}
	fmt.Fprintf(p.out, "%s %s%-6s %s\n",
		e.Timestamp.Format("15:04:05"),
		progress,
		strings.ToUpper(string(e.State)),
		status,
	)
}

func runProgram(ctx context.Context, out io.Writer, cfg *config.Config, transport device.Transport, p models.CycleProgram) error {
	log := logger.New(logger.WarnLevel)
	st := store.New(cfg.History.Limit)
	printer := newProgressPrinter(out)
	st.Subscribe(printer.notify)

	sched := service.NewScheduler(service.NewCommandService(transport, st, nil, nil, log), st, nil, cfg.Cycle.StepUnit, log)
	defer sched.Close()

	fmt.Fprintf(out, "%s %s: %d steps x %d (%s)\n",
		color.New(color.FgCyan).Sprint("cycle"),
		p.Name, len(p.Steps), p.Repeat,
		service.ProgramDuration(p, cfg.Cycle.StepUnit),
	)
	if err := sched.Start(p); err != nil {
		return err
	}

	select {
	case <-printer.done:
		fmt.Fprintln(out, color.New(color.FgGreen).Sprint("cycle completed"))
		return nil
	case <-ctx.Done():
		exec := sched.Status()
		sched.Stop()
		if exec != nil {
			fmt.Fprintf(out, "%s after %d/%d commands\n",
				color.New(color.FgYellow).Sprint("cycle stopped"),
				exec.CompletedSteps, exec.TotalCommands())
		}
		return nil
	}
}
