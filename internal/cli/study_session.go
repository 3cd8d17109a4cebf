// Package cli implements the interactive study session and the other
// terminal front ends.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"

	"github.com/fatih/color"

	"github.com/at-ishikawa/gaku/internal/manager"
	"github.com/at-ishikawa/gaku/internal/question"
	"github.com/at-ishikawa/gaku/internal/session"
)

var errEnd = errors.New("end")

// StudySession drives one study session on the terminal: it shows questions,
// reads answers and reports the results when the session finishes.
type StudySession struct {
	manager *manager.Manager
	engine  *session.Engine

	// mu serializes engine access between the run loop and the interrupt
	// path. The run loop reads input without holding it, so a snapshot can
	// be taken while the loop waits on stdin.
	mu sync.Mutex

	stdinReader  *bufio.Reader
	stdoutWriter io.Writer
	bold         *color.Color
	correct      *color.Color
	wrong        *color.Color
}

// NewStudySession creates a StudySession reading from stdin.
func NewStudySession(m *manager.Manager, engine *session.Engine) *StudySession {
	return &StudySession{
		manager:      m,
		engine:       engine,
		stdinReader:  bufio.NewReader(os.Stdin),
		stdoutWriter: os.Stdout,
		bold:         color.New(color.Bold),
		correct:      color.New(color.FgGreen),
		wrong:        color.New(color.FgRed),
	}
}

// Run serves questions until the session finishes or the learner interrupts.
// On interrupt the session is snapshotted so it can be resumed later; on a
// legitimate finish the snapshot is cleared.
func (cli *StudySession) Run(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt)
	defer cancel()

	// buffered so a round failing after an interrupt never blocks the loop
	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)

	LOOP:
		for {
			select {
			case <-ctx.Done():
				break LOOP
			default:
			}

			if err := cli.round(); err != nil {
				if errors.Is(err, errEnd) {
					break
				}
				errCh <- err
				break
			}
		}
	}()

	select {
	case <-ctx.Done():
		fmt.Fprintln(cli.stdoutWriter, "\nReceived interrupt signal, saving the session...")
		cli.mu.Lock()
		err := cli.manager.SaveSession(cli.engine)
		cli.mu.Unlock()
		if err != nil {
			return fmt.Errorf("manager.SaveSession > %w", err)
		}
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("study session > %w", err)
		}
		if err := cli.manager.ClearSnapshot(); err != nil {
			return fmt.Errorf("manager.ClearSnapshot > %w", err)
		}
		cli.printResults()
	}
	return nil
}

// round serves a single question and applies the learner's verdict.
func (cli *StudySession) round() error {
	next, err := cli.nextQuestion()
	if err != nil {
		return fmt.Errorf("engine.NextQuestion > %w", err)
	}
	if next.Question == nil {
		return errEnd
	}

	cli.printQuestion(next)
	response, err := cli.readResponse(next.Question)
	if err != nil {
		return err
	}

	correct, err := cli.checkAnswer(response)
	if err != nil {
		return fmt.Errorf("engine.CheckAnswer > %w", err)
	}

	if correct {
		_, _ = cli.correct.Fprintln(cli.stdoutWriter, "Correct!")
		return cli.markCorrect(next.Question.ID)
	}

	_, _ = cli.wrong.Fprintln(cli.stdoutWriter, "Incorrect.")
	cli.printExpectedAnswers(next.Question)

	// a near miss (typo, alternative phrasing) can be accepted manually
	fmt.Fprint(cli.stdoutWriter, "Accept as correct anyway? [y/N]: ")
	line, err := cli.stdinReader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("read input > %w", err)
	}
	if strings.EqualFold(strings.TrimSpace(line), "y") {
		return cli.markCorrect(next.Question.ID)
	}
	return cli.markMistake(next.Question.ID)
}

func (cli *StudySession) nextQuestion() (session.Next, error) {
	cli.mu.Lock()
	defer cli.mu.Unlock()
	return cli.engine.NextQuestion()
}

func (cli *StudySession) checkAnswer(response question.Response) (bool, error) {
	cli.mu.Lock()
	defer cli.mu.Unlock()
	return cli.engine.CheckAnswer(response)
}

func (cli *StudySession) markCorrect(questionID string) error {
	cli.mu.Lock()
	defer cli.mu.Unlock()
	return cli.engine.MarkCorrect(questionID)
}

func (cli *StudySession) markMistake(questionID string) error {
	cli.mu.Lock()
	defer cli.mu.Unlock()
	return cli.engine.MarkMistake(questionID)
}

func (cli *StudySession) printQuestion(next session.Next) {
	status := cli.engine.Status()
	fmt.Fprintf(cli.stdoutWriter, "\n[%d/%d] ", status.QuestionsCompleted+1, status.QuestionsTotal)
	_, _ = cli.bold.Fprintln(cli.stdoutWriter, next.Question.Header)
	fmt.Fprintln(cli.stdoutWriter, next.Question.Prompt)
	if next.Question.Hint != "" {
		fmt.Fprintf(cli.stdoutWriter, "Hint: %s\n", next.Question.Hint)
	}
}

func (cli *StudySession) readResponse(q *question.Question) (question.Response, error) {
	response := question.Response{}
	for _, group := range q.Groups {
		if group.Header != "" {
			_, _ = cli.bold.Fprintln(cli.stdoutWriter, group.Header)
		}
		for _, answer := range group.Answers {
			label := strings.ReplaceAll(answer.Header, "\n", " ")
			fmt.Fprintf(cli.stdoutWriter, "%s%s: ", label, answer.CountLabel())
			line, err := cli.stdinReader.ReadString('\n')
			if err != nil {
				return nil, fmt.Errorf("read input > %w", err)
			}
			response[answer.ID] = strings.TrimSpace(line)
		}
	}
	return response, nil
}

func (cli *StudySession) printExpectedAnswers(q *question.Question) {
	for _, group := range q.Groups {
		for _, answer := range group.Answers {
			texts := make([]string, 0, len(answer.Answers))
			for _, text := range answer.Answers {
				texts = append(texts, text.Text)
			}
			label := strings.ReplaceAll(answer.Header, "\n", " ")
			fmt.Fprintf(cli.stdoutWriter, "  %s: %s\n", label, strings.Join(texts, ", "))
		}
	}
}

func (cli *StudySession) printResults() {
	results := cli.engine.Results()

	fmt.Fprintln(cli.stdoutWriter)
	_, _ = cli.bold.Fprintln(cli.stdoutWriter, "Session finished.")
	fmt.Fprintf(cli.stdoutWriter, "Cards: %d/%d without a mistake\n", results.NumCardsCorrect, results.NumCards)
	fmt.Fprintf(cli.stdoutWriter, "Questions: %d/%d without a mistake\n", results.NumQuestionsCorrect, results.NumQuestions)
	fmt.Fprintf(cli.stdoutWriter, "Responses: %d correct, %d incorrect\n", results.CorrectResponses, results.IncorrectResponses)

	if len(results.MistakesByCard) == 0 {
		_, _ = cli.correct.Fprintln(cli.stdoutWriter, "No mistakes. Well done.")
		return
	}

	_, _ = cli.wrong.Fprintln(cli.stdoutWriter, "Cards to review:")
	for cardID, mistakes := range results.MistakesByCard {
		writing := cardID
		if c, ok := cli.engine.Card(cardID); ok {
			writing = c.Writing()
		}
		fmt.Fprintf(cli.stdoutWriter, "  %s (%d mistakes)\n", writing, mistakes)
	}
}
