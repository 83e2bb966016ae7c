package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"abracadamots/internal/config"
	"abracadamots/internal/game"
	"abracadamots/internal/models"
	"abracadamots/internal/store"
)

func main() {
	snapshot := flag.String("data", "abracadamots.json", "snapshot file (created when missing)")
	childID := flag.String("child", "", "child id (defaults to the selected child)")
	seed := flag.Int64("seed", 0, "random seed (0 picks one)")
	verbose := flag.Bool("v", false, "log engine events to stderr")
	flag.Parse()

	level := "warn"
	if *verbose {
		level = "debug"
	}
	logger := config.LogConfig{Level: level, Format: "console"}.Setup(os.Stderr)

	if err := run(*snapshot, *childID, *seed, logger); err != nil {
		log.Fatal().Err(err).Msg("play failed")
	}
}

func run(path, childID string, seed int64, logger zerolog.Logger) error {
	mem, err := store.Load(path)
	if err != nil {
		return err
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	session := game.NewSession(mem, game.NewRand(seed), game.DefaultConfig(), logger)
	runner := game.NewRunner(session, clockwork.NewRealClock(), 0)
	if err := runner.Do(func(s *game.Session) error { return s.Start(ctx, childID) }); err != nil {
		return err
	}
	fmt.Println(help)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return runner.Run(gctx) })
	g.Go(func() error {
		defer cancel()
		return watch(gctx, runner, os.Stdout)
	})
	g.Go(func() error {
		defer cancel()
		return readCommands(gctx, runner, scanLines(os.Stdin))
	})
	return g.Wait()
}

const help = `commands: tap N | type TEXT | hint | back | shuffle | quit (empty line redraws)`

// watch redraws the view whenever it changes
func watch(ctx context.Context, runner *game.Runner, w io.Writer) error {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	last := ""
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			view := runner.View()
			if out := render(view); out != last {
				fmt.Fprint(w, out)
				last = out
			}
			if view.Phase == game.PhaseFinished {
				return nil
			}
		}
	}
}

// scanLines feeds input lines to a channel, closed at EOF
func scanLines(r io.Reader) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()
	return lines
}

// readCommands applies one command per input line until quit, EOF or ctx
// is done
func readCommands(ctx context.Context, runner *game.Runner, lines <-chan string) error {
	for {
		var line string
		select {
		case <-ctx.Done():
			return nil
		case l, ok := <-lines:
			if !ok {
				return nil
			}
			line = strings.TrimSpace(l)
		}

		if line == "quit" || line == "q" {
			return nil
		}
		if line == "" {
			fmt.Print(render(runner.View()))
			continue
		}
		err := runner.Do(func(s *game.Session) error {
			return apply(ctx, s, line)
		})
		if err != nil {
			fmt.Println(err)
		}
	}
}

// apply runs one text command against the session
func apply(ctx context.Context, s *game.Session, line string) error {
	cmd, arg, _ := strings.Cut(line, " ")
	switch cmd {
	case "tap", "t":
		var index int
		if _, err := fmt.Sscanf(arg, "%d", &index); err != nil {
			return fmt.Errorf("tap needs a tile number")
		}
		return s.TapTile(ctx, index)
	case "type":
		return s.Key(ctx, arg)
	case "hint", "h":
		return s.Hint(ctx)
	case "back", "b":
		return s.Backspace()
	case "shuffle", "s":
		return s.Shuffle()
	default:
		return fmt.Errorf("unknown command %q; %s", cmd, help)
	}
}

// render formats a view as a few lines of text
func render(v game.View) string {
	var b strings.Builder
	fmt.Fprintf(&b, "\n[%s] %d/%d mastered, %d left", v.Phase, v.MasteredWords, v.TotalWords, v.Remaining)
	if v.Mode != "" {
		fmt.Fprintf(&b, ", mode %s", v.Mode)
	}
	b.WriteString("\n")

	switch v.Phase {
	case game.PhaseMemorize:
		if v.Word != "" {
			fmt.Fprintf(&b, "  memorize: %s", styled(v.Word, v.WritingStyle))
		} else {
			b.WriteString("  ...")
		}
		if !v.Vanishing {
			fmt.Fprintf(&b, "  (%d)", v.Countdown)
		}
		b.WriteString("\n")
	case game.PhaseInput:
		fmt.Fprintf(&b, "  answer: %s%s", v.Buffer, strings.Repeat("_", max(0, v.WordLength-len([]rune(v.Buffer)))))
		if v.Wrong {
			b.WriteString("  ✗")
		}
		if v.HintsUsed > 0 {
			fmt.Fprintf(&b, "  hints: %d", v.HintsUsed)
		}
		b.WriteString("\n")
		if len(v.Tiles) > 0 {
			b.WriteString("  tiles:")
			for i, t := range v.Tiles {
				if t.Used {
					fmt.Fprintf(&b, " %d:·", i)
					continue
				}
				fmt.Fprintf(&b, " %d:%s", i, t.Char)
			}
			b.WriteString("\n")
		}
	case game.PhaseSuccess:
		fmt.Fprintf(&b, "  ✓ %s\n", v.Word)
	case game.PhaseFinished:
		b.WriteString("  all words mastered, well done!\n")
	}
	return b.String()
}

func styled(word string, style models.WritingStyle) string {
	if style == models.WritingCursive {
		return "~" + word + "~"
	}
	return word
}
