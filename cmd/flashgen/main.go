// Command flashgen generates flashcards from a text file through the
// flashcards API, lets the user review the candidates and saves the
// accepted ones.
//
//	flashgen -file notes.txt                 review interactively
//	flashgen -file notes.txt -reject 2,3     reject candidates 2 and 3, save the rest
//	flashgen -file notes.txt -dry-run        print candidates only
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/azsonic/10xdevs-flashcards/internal/apiclient"
	"github.com/azsonic/10xdevs-flashcards/internal/platform/logger"
	"github.com/azsonic/10xdevs-flashcards/internal/review"
	"github.com/joho/godotenv"
)

type options struct {
	apiURL      string
	token       string
	file        string
	reject      string
	dryRun      bool
	interactive bool
	timeout     time.Duration
}

func main() {
	_ = godotenv.Load()

	var opts options
	flag.StringVar(&opts.apiURL, "api", envOr("FLASHCARDS_API_URL", "http://localhost:8080"), "API base URL")
	flag.StringVar(&opts.token, "token", os.Getenv("FLASHCARDS_TOKEN"), "Bearer token")
	flag.StringVar(&opts.file, "file", "", "Source text file ('-' for stdin)")
	flag.StringVar(&opts.reject, "reject", "", "Comma-separated candidate numbers to reject")
	flag.BoolVar(&opts.dryRun, "dry-run", false, "Print candidates without saving")
	flag.BoolVar(&opts.interactive, "i", false, "Review each candidate interactively")
	flag.DurationVar(&opts.timeout, "timeout", 2*time.Minute, "Overall time limit")
	flag.Parse()

	if opts.file == "" {
		flag.Usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, opts.timeout)
	defer cancel()

	if err := run(ctx, opts, os.Stdin, os.Stdout); err != nil {
		log.Fatalf("flashgen: %v", err)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func run(ctx context.Context, opts options, stdin io.Reader, out io.Writer) error {
	text, err := readSource(opts.file, stdin)
	if err != nil {
		return err
	}
	if opts.interactive && opts.file == "-" {
		return fmt.Errorf("interactive review needs -file, stdin is used for answers")
	}

	client, err := apiclient.New(opts.apiURL, apiclient.WithToken(opts.token), apiclient.WithLogger(logger.Discard()))
	if err != nil {
		return err
	}

	views := make(chan review.View, 64)
	flow := review.NewFlow(ctx, review.NewMachine(), client,
		review.WithOnChange(func(v review.View) {
			select {
			case views <- v:
			default:
			}
		}),
		review.WithFlowLogger(logger.Discard()))
	defer flow.Close()

	fmt.Fprintln(out, "Generating flashcards...")
	if err := flow.Generate(ctx, text); err != nil {
		if v, verr := flow.View(ctx); verr == nil && v.Error != "" {
			return errors.New(v.Error)
		}
		return err
	}

	v, err := waitFor(ctx, views, func(v review.View) bool {
		return v.State == review.StateReview || v.State == review.StateInput
	})
	if err != nil {
		return err
	}
	if v.State == review.StateInput {
		return errors.New(v.Error)
	}
	printCandidates(out, v.Candidates)

	if opts.dryRun {
		return nil
	}

	if err := rejectByNumber(ctx, flow, v.Candidates, opts.reject); err != nil {
		return err
	}
	if opts.interactive {
		if err := reviewInteractively(ctx, flow, v.Candidates, bufio.NewScanner(stdin), out); err != nil {
			return err
		}
	}

	drain(views)
	if err := flow.Save(ctx); err != nil {
		if v, verr := flow.View(ctx); verr == nil && v.Error != "" {
			return errors.New(v.Error)
		}
		return err
	}
	// Views queued by rejects and edits are still in review, so only a
	// review view carrying an error means the save failed.
	v, err = waitFor(ctx, views, func(v review.View) bool {
		return v.State == review.StateSaved || (v.State == review.StateReview && v.Error != "")
	})
	if err != nil {
		return err
	}
	if v.State == review.StateReview {
		return errors.New(v.Error)
	}
	fmt.Fprintf(out, "Saved %d flashcards.\n", v.SavedCount)
	return nil
}

func readSource(path string, stdin io.Reader) (string, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read source text: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

func drain(views <-chan review.View) {
	for {
		select {
		case <-views:
		default:
			return
		}
	}
}

// waitFor returns the first view matching done.
func waitFor(ctx context.Context, views <-chan review.View, done func(review.View) bool) (review.View, error) {
	for {
		select {
		case v := <-views:
			if done(v) {
				return v, nil
			}
		case <-ctx.Done():
			return review.View{}, ctx.Err()
		}
	}
}

func printCandidates(out io.Writer, candidates []review.Candidate) {
	for i, c := range candidates {
		fmt.Fprintf(out, "\n[%d] Q: %s\n    A: %s\n", i+1, c.Front, c.Back)
	}
	fmt.Fprintln(out)
}

func rejectByNumber(ctx context.Context, flow *review.Flow, candidates []review.Candidate, list string) error {
	if strings.TrimSpace(list) == "" {
		return nil
	}
	for _, part := range strings.Split(list, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < 1 || n > len(candidates) {
			return fmt.Errorf("invalid candidate number %q", part)
		}
		if err := flow.Reject(ctx, candidates[n-1].ID); err != nil {
			return err
		}
	}
	return nil
}

// reviewInteractively asks about every candidate still under review:
// Enter accepts, r rejects, e edits.
func reviewInteractively(
	ctx context.Context,
	flow *review.Flow,
	candidates []review.Candidate,
	in *bufio.Scanner,
	out io.Writer,
) error {
	current, err := flow.View(ctx)
	if err != nil {
		return err
	}
	remaining := make(map[string]bool, len(current.Candidates))
	for _, c := range current.Candidates {
		remaining[c.ID] = true
	}

	prompt := func(label string) (string, bool) {
		fmt.Fprint(out, label)
		if !in.Scan() {
			return "", false
		}
		return strings.TrimSpace(in.Text()), true
	}

	for i, c := range candidates {
		if !remaining[c.ID] {
			continue
		}
		answer, ok := prompt(fmt.Sprintf("[%d] accept (Enter), reject (r), edit (e)? ", i+1))
		if !ok {
			return nil
		}
		switch strings.ToLower(answer) {
		case "r":
			if err := flow.Reject(ctx, c.ID); err != nil {
				return err
			}
		case "e":
			front, ok := prompt(fmt.Sprintf("    front [%s]: ", c.Front))
			if !ok {
				return nil
			}
			back, ok := prompt(fmt.Sprintf("    back [%s]: ", c.Back))
			if !ok {
				return nil
			}
			if front == "" {
				front = c.Front
			}
			if back == "" {
				back = c.Back
			}
			if err := flow.Edit(ctx, c.ID, front, back); err != nil {
				return err
			}
		}
	}
	return nil
}
