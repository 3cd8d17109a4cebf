package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/at-ishikawa/gaku/internal/card"
	"github.com/at-ishikawa/gaku/internal/cli"
	"github.com/at-ishikawa/gaku/internal/manager"
	"github.com/at-ishikawa/gaku/internal/report"
	"github.com/at-ishikawa/gaku/internal/session"
)

// modeValue makes manager.Mode usable as a command line flag.
type modeValue manager.Mode

var (
	_ pflag.Value = (*modeValue)(nil)

	allModes = []manager.Mode{
		manager.ModeAny,
		manager.ModeNew,
		manager.ModeDue,
		manager.ModeMistakes,
		manager.ModeStudied,
	}
)

func (m *modeValue) String() string {
	return string(*m)
}

func (m *modeValue) Set(value string) error {
	for _, mode := range allModes {
		if value == string(mode) {
			*m = modeValue(mode)
			return nil
		}
	}
	return fmt.Errorf("unknown study mode %q", value)
}

func (m *modeValue) Type() string {
	return "mode"
}

type studyFlags struct {
	mode           modeValue
	numCards       int
	extraQuestions bool
	reportPath     string
	reportPDF      bool
}

func newStudyCommand() *cobra.Command {
	flags := studyFlags{mode: modeValue(manager.ModeDue)}
	command := &cobra.Command{
		Use:   "study",
		Short: "Start a study session. A session interrupted with Ctrl-C is resumed next time",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStudy(cmd, flags, false)
		},
	}
	command.Flags().Var(&flags.mode, "mode", "which cards to study (any, new, due, mistakes, studied)")
	command.Flags().IntVar(&flags.numCards, "cards", 0, "number of cards to study (0 uses the configured default)")
	command.Flags().BoolVar(&flags.extraQuestions, "extra", false, "add kanji questions to words and radical questions to kanji")
	command.Flags().StringVar(&flags.reportPath, "report", "", "write a Markdown results report to this path")
	command.Flags().BoolVar(&flags.reportPDF, "pdf", false, "also convert the results report to PDF")
	return command
}

func newPracticeCommand() *cobra.Command {
	flags := studyFlags{mode: modeValue(manager.ModeDue)}
	command := &cobra.Command{
		Use:   "practice",
		Short: "Practice cards without updating the review schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStudy(cmd, flags, true)
		},
	}
	command.Flags().Var(&flags.mode, "mode", "which cards to practice (any, new, due, mistakes, studied)")
	command.Flags().IntVar(&flags.numCards, "cards", 0, "number of cards to practice (0 uses the configured default)")
	command.Flags().BoolVar(&flags.extraQuestions, "extra", false, "add kanji questions to words and radical questions to kanji")
	return command
}

func runStudy(cmd *cobra.Command, flags studyFlags, practice bool) error {
	mode := manager.Mode(flags.mode)

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	db, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer func() {
		_ = db.Close()
	}()

	m := newManager(cfg, db)
	ctx := cmd.Context()

	engine, resumed, err := m.ResumeSession(ctx)
	if err != nil {
		return fmt.Errorf("m.ResumeSession > %w", err)
	}
	if resumed {
		fmt.Println("Resuming the saved session.")
	} else {
		engine, err = m.StartSession(ctx, manager.StartOptions{
			Mode:           mode,
			NumCards:       flags.numCards,
			ExtraQuestions: flags.extraQuestions,
			Practice:       practice,
		})
		if errors.Is(err, manager.ErrNoCards) {
			fmt.Printf("No cards to study in mode %q.\n", mode)
			return nil
		}
		if err != nil {
			return fmt.Errorf("m.StartSession > %w", err)
		}
	}

	status := engine.Status()
	fmt.Printf("Starting a session with %d cards and %d questions.\n", status.CardsTotal, status.QuestionsTotal)

	studyCLI := cli.NewStudySession(m, engine)
	if err := studyCLI.Run(ctx); err != nil {
		return err
	}

	if flags.reportPath != "" && engine.IsFinished() {
		if err := writeReport(engine, flags); err != nil {
			return err
		}
	}
	return nil
}

func writeReport(engine *session.Engine, flags studyFlags) error {
	results := engine.Results()
	cards := make(map[string]card.Card, len(results.MistakesByCard))
	for cardID := range results.MistakesByCard {
		if c, ok := engine.Card(cardID); ok {
			cards[cardID] = c
		}
	}

	markdown := report.Markdown(results, cards, time.Now())
	if err := report.Save(flags.reportPath, markdown); err != nil {
		return fmt.Errorf("report.Save > %w", err)
	}
	fmt.Printf("Wrote the results report to %s\n", flags.reportPath)

	if flags.reportPDF {
		pdfPath, err := report.ConvertMarkdownToPDF(flags.reportPath)
		if err != nil {
			return fmt.Errorf("report.ConvertMarkdownToPDF > %w", err)
		}
		fmt.Printf("Wrote the PDF report to %s\n", pdfPath)
	}
	return nil
}
