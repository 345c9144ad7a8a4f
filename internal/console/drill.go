package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/example/fransbot/internal/practice"
	"github.com/example/fransbot/internal/progress"
	sr "github.com/example/fransbot/internal/spaced_repetition"
	"github.com/example/fransbot/pkg/models"
)

const help = `Type the missing conjugation and press Enter.
Commands:
  :hint           show the expected answer
  :verb <lemma>   switch verb
  :tense <a,b>    restrict tenses ("all tenses" for every tense)
  :verbs          list verbs and their tenses
  :stats          score, hardest sentences and progress per day
  :reset          reset the score
  :help           this text
  :quit           stop`

// Drill is an interactive terminal front end for one practice session
type Drill struct {
	items     []models.Item
	scheduler *sr.Scheduler
	session   *practice.Session
	out       io.Writer
}

// NewDrill creates a drill over items starting with sel
func NewDrill(items []models.Item, scheduler *sr.Scheduler, sel practice.Selection, out io.Writer) *Drill {
	d := &Drill{
		items:     items,
		scheduler: scheduler,
		session:   practice.NewSession(),
		out:       out,
	}
	d.session.SetSelection(items, sel)
	return d
}

// Session returns the session driven by the drill
func (d *Drill) Session() *practice.Session {
	return d.session
}

// Run reads answers and commands from in until EOF, ":quit" or ctx is done
func (d *Drill) Run(ctx context.Context, in io.Reader) error {
	d.printf("%s\n\n", help)
	d.showCurrent()

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}

		line := scanner.Text()
		if strings.HasPrefix(strings.TrimSpace(line), ":") {
			if quit := d.handleCommand(strings.TrimSpace(line)); quit {
				return nil
			}
			continue
		}
		d.handleAnswer(line)
	}
	return scanner.Err()
}

func (d *Drill) handleCommand(line string) bool {
	name, arg, _ := strings.Cut(strings.TrimPrefix(line, ":"), " ")
	arg = strings.TrimSpace(arg)

	switch strings.ToLower(name) {
	case "q", "quit", "exit":
		d.printScore()
		return true
	case "hint", "h":
		if hint, ok := d.scheduler.Hint(d.session); ok {
			d.printf("Hint: %s\n", hint)
		} else {
			d.printEmpty()
		}
	case "verb":
		sel := d.session.Selection()
		sel.Lemma = arg
		d.changeSelection(sel)
	case "tense", "tenses":
		sel := d.session.Selection()
		sel.Tenses = splitList(arg)
		d.changeSelection(sel)
	case "verbs":
		for _, lemma := range practice.Lemmas(d.items) {
			d.printf("  %s: %s\n", lemma, strings.Join(practice.Tenses(d.items, lemma), ", "))
		}
	case "stats":
		d.printStats()
	case "reset", "r":
		d.session.Reset()
		d.printf("Score reset.\n")
		d.printScore()
	case "help", "?":
		d.printf("%s\n", help)
	default:
		d.printf("Unknown command %q, type :help\n", name)
	}
	return false
}

func (d *Drill) changeSelection(sel practice.Selection) {
	d.session.SetSelection(d.items, sel)
	d.showCurrent()
}

func (d *Drill) handleAnswer(answer string) {
	if _, ok := d.scheduler.Advance(d.session); !ok {
		d.printEmpty()
		return
	}

	res, _ := d.scheduler.Submit(d.session, answer)
	if res.Correct {
		d.printf("✔️ Correct!\n")
	} else {
		d.printf("✖️ Wrong, the answer is: %s\n", res.Expected)
	}
	d.printScore()
	d.showCurrent()
}

func (d *Drill) showCurrent() {
	item, ok := d.scheduler.Advance(d.session)
	if !ok {
		d.printEmpty()
		return
	}
	d.printf("\n[%s, %s] %s\n> ", item.Lemma, item.Tense, item.Sentence)
}

func (d *Drill) printEmpty() {
	d.printf("No sentences match this selection. Try another verb or other tenses (:verbs lists them).\n")
}

func (d *Drill) printScore() {
	totals := d.session.Totals()
	d.printf("Score: %d / %d\n", totals.Correct, totals.Total)
}

func (d *Drill) printStats() {
	d.printScore()
	d.printf("Sentences in selection: %d\n", len(d.session.Active()))

	hardest := progress.Hardest(d.session, 5)
	if len(hardest) > 0 {
		d.printf("Hardest sentences:\n")
		for _, h := range hardest {
			d.printf("  %-40s errors: %d\n", h.Item.Sentence, h.Mastery.ErrorCount)
		}
	}

	days := progress.Daily(d.session.Log(), nil)
	if len(days) == 0 {
		d.printf("No attempts recorded yet.\n")
		return
	}
	d.printf("Progress per day:\n")
	for _, day := range days {
		d.printf("  %s  %3.0f%%  %d attempts\n", day.Date.Format("2006-01-02"), day.Accuracy, day.Count)
	}
}

func (d *Drill) printf(format string, args ...interface{}) {
	fmt.Fprintf(d.out, format, args...)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
