package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"gcodeopt/internal/clock"
	"gcodeopt/internal/config"
	"gcodeopt/internal/document"
	"gcodeopt/internal/logging"
	"gcodeopt/internal/machine"
	"gcodeopt/internal/rewrite"
	"gcodeopt/internal/session"
)

var (
	cfgFile   string
	dryRun    bool
	assumeYes bool
)

var warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "gcodeopt [program.nc]",
	Short: "Optimize CAM-generated G-code before running it",
	Long: `gcodeopt rewrites a G-code program in place: repositioning moves above the
retract height become rapid (G0) moves and a dwell is inserted after each
spindle start. The program's tool comment is checked against the machine's
Z limit and the tool used by the previous job before anything is written.`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(args[0])
	},
}

func run(path string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.Logging.Debug)
	if err != nil {
		return err
	}
	defer logger.Sync()

	buf, err := document.LoadFile(path)
	if err != nil {
		return err
	}

	sess := session.New(
		rewrite.New(rewrite.Options{SpindleDelaySec: cfg.SpindleDelaySeconds}, logger),
		session.NewFileToolStore(cfg.StateFile),
		machine.StaticProvider{ZOffset: cfg.Machine.ZOffset, Limit: cfg.MinZLimit},
		clock.RealClock{},
		logger,
	)

	rep := sess.Process(buf)

	switch {
	case rep.Rewrite.Promoted > 0:
		fmt.Printf("%s: %s, %d line(s) inserted\n", path, rep.Rewrite.Note, rep.Rewrite.Inserted)
	case rep.Rewrite.Changed:
		fmt.Printf("%s: marked as optimized, nothing to promote\n", path)
	default:
		fmt.Printf("%s: already optimized or no operation marker, left untouched\n", path)
	}
	if rep.Tool != nil {
		fmt.Printf("Tool: %s\n", rep.Tool)
	}

	for _, c := range rep.Confirmations {
		fmt.Println(warnStyle.Render("WARNING: " + c.Message))
		if assumeYes {
			continue
		}
		ok := false
		form := huh.NewForm(huh.NewGroup(
			huh.NewConfirm().
				Title("Continue anyway?").
				Affirmative("Continue").
				Negative("Abort").
				Value(&ok),
		))
		if err := form.Run(); err != nil {
			return fmt.Errorf("confirmation failed: %w", err)
		}
		if !ok {
			return errors.New("aborted by operator")
		}
	}

	if rep.Tool != nil {
		if err := sess.RecordTool(rep.Tool.Name); err != nil {
			logger.Warn("could not record tool", zap.Error(err))
		}
	}

	if dryRun {
		fmt.Print(buf.String())
		return nil
	}
	if rep.Rewrite.Changed {
		if err := buf.SaveFile(path); err != nil {
			return err
		}
	}
	return nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "gcodeopt.yaml", "config file path")
	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the rewritten program instead of writing it back")
	rootCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "skip confirmation prompts")
}
