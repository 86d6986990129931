// Command interview runs one interview in the terminal against the configured OpenRouter
// model. The context comes from -context, -context-file or, failing both, from stdin up to
// the first empty line. Type /quit or send EOF to finish.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/rs/zerolog"

	"github.com/artem13815/hr-interviewer/api/http/presenter"
	"github.com/artem13815/hr-interviewer/pkg/config"
	"github.com/artem13815/hr-interviewer/pkg/interview"
	"github.com/artem13815/hr-interviewer/pkg/llm"
	"github.com/artem13815/hr-interviewer/pkg/llm/openrouter"
	"github.com/artem13815/hr-interviewer/pkg/logger"
	"github.com/artem13815/hr-interviewer/pkg/repository/memory"
	"github.com/artem13815/hr-interviewer/pkg/resume"
	"github.com/artem13815/hr-interviewer/pkg/session"
	"github.com/artem13815/hr-interviewer/pkg/settings"
)

const quitCommand = "/quit"

func main() {
	var (
		contextText = flag.String("context", "", "interview context")
		contextFile = flag.String("context-file", "", "read the interview context from a file (.txt, .md, .pdf or .docx)")
		jobDesc     = flag.String("job", "", "job description added to a resume given with -context-file")
		apiKey      = flag.String("api-key", "", "OpenRouter API key (default OPENROUTER_API_KEY)")
		model       = flag.String("model", "", "model name (default OPENROUTER_MODEL or "+settings.DefaultModel+")")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	// Logs go to stderr at warn and above so they do not interleave with the dialogue.
	level := cfg.LogLevel
	if level == "info" {
		level = "warn"
	}
	log := logger.New(level, true, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	store := settings.NewService(memory.NewSettingsStore())
	seed := settings.Settings{APIKey: firstNonEmpty(*apiKey, cfg.OpenRouter.APIKey), ModelName: firstNonEmpty(*model, cfg.OpenRouter.Model)}
	if err := store.SeedIfEmpty(ctx, seed); err != nil {
		log.Fatal().Err(err).Msg("seed settings")
	}

	transport := llm.WithRetry(
		openrouter.New(cfg.OpenRouter.BaseURL, cfg.OpenRouter.AppTitle, cfg.OpenRouter.Referer, cfg.OpenRouter.Timeout),
		llm.RetryPolicy{MaxRetries: uint64(cfg.OpenRouter.MaxRetries), Base: cfg.OpenRouter.RetryBase},
	)
	svc := session.NewService(memory.NewSessionRepository(), store, interview.NewOrchestrator(transport), log)

	in := bufio.NewReader(os.Stdin)
	interviewContext, err := loadContext(*contextText, *contextFile, *jobDesc, in, os.Stdout)
	if err != nil {
		log.Fatal().Err(err).Msg("read interview context")
	}
	if err := run(ctx, svc, interviewContext, in, os.Stdout, log); err != nil {
		os.Exit(1)
	}
}

func loadContext(text, file, job string, in *bufio.Reader, out io.Writer) (string, error) {
	if strings.TrimSpace(text) != "" {
		return text, nil
	}
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", err
		}
		if resume.Supported(file) {
			parsed, err := resume.ParseResumeText(file, data)
			if err != nil {
				return "", err
			}
			return resume.ComposeContext(parsed, job), nil
		}
		return string(data), nil
	}

	fmt.Fprintln(out, "Paste the interview context (job description, candidate notes). Finish with an empty line:")
	var b strings.Builder
	for {
		line, err := in.ReadString('\n')
		if strings.TrimSpace(line) != "" {
			b.WriteString(line)
		} else if b.Len() > 0 {
			break
		}
		if err != nil {
			break
		}
	}
	return strings.TrimSpace(b.String()), nil
}

// run starts the interview and relays answers until /quit or EOF. A failed answer keeps the
// interview going; a failed start ends it.
func run(ctx context.Context, svc session.UseCase, interviewContext string, in *bufio.Reader, out io.Writer, log zerolog.Logger) error {
	sess, err := svc.Start(ctx, interviewContext)
	if err != nil {
		fmt.Fprintln(out, startMessage(err))
		return err
	}
	printReply(out, sess.Transcript[0])

	for {
		fmt.Fprint(out, "> ")
		line, readErr := in.ReadString('\n')
		answer := strings.TrimSpace(line)
		switch {
		case answer == quitCommand:
			return nil
		case answer == "":
			if readErr != nil {
				fmt.Fprintln(out)
				return nil
			}
			continue
		}

		turn, err := svc.Send(ctx, sess.ID, answer)
		switch {
		case err == nil:
			printReply(out, turn.Reply)
		case errors.Is(err, llm.ErrUnconfigured):
			fmt.Fprintln(out, presenter.MsgUnconfigured)
			return err
		case ctx.Err() != nil:
			return ctx.Err()
		default:
			log.Debug().Err(err).Msg("turn failed")
			fmt.Fprintln(out, presenter.MsgTurnFailed)
		}
		if readErr != nil {
			return nil
		}
	}
}

func startMessage(err error) string {
	var invalid session.ErrValidation
	switch {
	case errors.As(err, &invalid):
		return err.Error()
	case errors.Is(err, llm.ErrUnconfigured):
		return presenter.MsgUnconfigured
	default:
		return presenter.MsgStartFailed
	}
}

func printReply(out io.Writer, m llm.Message) {
	fmt.Fprintf(out, "\nInterviewer: %s\n\n", m.Content)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
