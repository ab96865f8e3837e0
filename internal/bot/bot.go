// Package bot maps chat commands onto catalog queries and mutations.
package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/matsen/physform/internal/catalog"
	"github.com/matsen/physform/internal/formula"
	"github.com/matsen/physform/internal/logging"
	"github.com/matsen/physform/internal/query"
	"github.com/matsen/physform/internal/render"
)

const (
	// MaxMessageLen is Telegram's limit for one text message.
	MaxMessageLen = 4096

	// MaxSearchReplies caps how many formulas one /search sends back.
	MaxSearchReplies = 10
)

// Sender delivers replies to a chat.
type Sender interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
	SendPhoto(ctx context.Context, chatID int64, photoURL, caption string) error
}

// SaveFunc persists a catalog snapshot.
type SaveFunc func(ctx context.Context, c *formula.Catalog) error

// Message is an incoming chat message.
type Message struct {
	ChatID int64
	Text   string
}

// reply is one outgoing message: text, or a photo when PhotoURL is set.
type reply struct {
	Text     string
	PhotoURL string
}

// Dispatcher routes commands. All catalog access goes through mu, so one
// Dispatcher may serve several goroutines.
type Dispatcher struct {
	mu       sync.Mutex
	engine   *query.Engine
	sender   Sender
	renderer render.Renderer
	save     SaveFunc
	logger   *slog.Logger
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithRenderer sends a rendered image after each formula.
func WithRenderer(r render.Renderer) Option {
	return func(d *Dispatcher) {
		d.renderer = r
	}
}

// WithSave enables /save.
func WithSave(fn SaveFunc) Option {
	return func(d *Dispatcher) {
		d.save = fn
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(d *Dispatcher) {
		d.logger = l
	}
}

// New creates a dispatcher over engine that replies through sender.
func New(engine *query.Engine, sender Sender, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		engine: engine,
		sender: sender,
		logger: logging.Discard(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dirty reports whether the catalog has unsaved changes.
func (d *Dispatcher) Dirty() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.engine.Store().Dirty()
}

// parseCommand splits "/cmd@bot arg1 arg2" into "cmd" and its arguments.
// ok is false for text that is not a command.
func parseCommand(text string) (cmd string, args []string, ok bool) {
	fields := strings.Fields(text)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
		return "", nil, false
	}
	cmd = strings.TrimPrefix(fields[0], "/")
	if at := strings.Index(cmd, "@"); at >= 0 {
		cmd = cmd[:at]
	}
	return strings.ToLower(cmd), fields[1:], true
}

// Handle runs one command and sends its replies. Only delivery failures
// are returned; command failures become chat replies.
func (d *Dispatcher) Handle(ctx context.Context, msg Message) error {
	cmd, args, ok := parseCommand(msg.Text)
	if !ok {
		return nil
	}

	d.logger.Info("command", "chat_id", msg.ChatID, "command", cmd, "args", len(args))

	d.mu.Lock()
	replies := d.dispatch(ctx, cmd, args)
	d.mu.Unlock()

	for _, r := range replies {
		if r.PhotoURL != "" {
			if err := d.sender.SendPhoto(ctx, msg.ChatID, r.PhotoURL, ""); err != nil {
				// the text reply already carries the formula
				d.logger.Warn("sending formula image", "chat_id", msg.ChatID, "error", err)
			}
			continue
		}
		for _, part := range splitMessage(r.Text, MaxMessageLen) {
			if err := d.sender.SendMessage(ctx, msg.ChatID, part); err != nil {
				return fmt.Errorf("replying to /%s: %w", cmd, err)
			}
		}
	}
	return nil
}

func (d *Dispatcher) dispatch(ctx context.Context, cmd string, args []string) []reply {
	switch cmd {
	case "start":
		return text("Hi! I am a physics formula bot. Use /help to see the commands.")
	case "help":
		return text(helpText)
	case "search":
		return d.search(strings.Join(args, " "))
	case "find":
		return d.find(strings.Join(args, " "))
	case "random":
		return d.random()
	case "all":
		return d.all()
	case "add_section":
		return d.addSection(strings.Join(args, " "))
	case "remove_section":
		return d.removeSection(strings.Join(args, " "))
	case "add_formula":
		return d.addFormula(args)
	case "remove_formula":
		return d.removeFormula(args)
	case "save":
		return d.saveCatalog(ctx)
	}
	return text("Unknown command. Use /help to see the commands.")
}

const helpText = `Available commands:
/start - start the bot
/help - this help
/search <name> - find formulas by name
/find <text> - first formula whose name or description matches
/random - a random formula
/all - all sections and their formulas
/add_section <name> - add a section
/add_formula <section> <name> <formula> <description> - add a formula
/remove_section <name> - remove a section and its formulas
/remove_formula <section> <name> - remove a formula
/save - save changes`

const invalidTextReply = "Names, formulas and descriptions cannot contain '|||' or line breaks, and a formula cannot start with @@@ or ###."

func text(s string) []reply {
	return []reply{{Text: s}}
}

// formulaReplies renders one match as a text reply plus its image.
func (d *Dispatcher) formulaReplies(m query.Match) []reply {
	out := []reply{{Text: fmt.Sprintf("Physics section - %s\nFormula name - %s:\n%s - %s",
		m.Section, m.Entry.Name, m.Entry.Formula, m.Entry.Description)}}
	if d.renderer == nil {
		return out
	}
	url, err := d.renderer.ImageURL(m.Entry.Formula)
	if err != nil {
		d.logger.Debug("skipping formula image", "entry", m.Entry.Name, "error", err)
		return out
	}
	return append(out, reply{PhotoURL: url})
}

func (d *Dispatcher) search(q string) []reply {
	matches := d.engine.Search(q)
	if len(matches) == 0 {
		return text("Formula not found.")
	}
	var out []reply
	if len(matches) > MaxSearchReplies {
		out = text(fmt.Sprintf("Found %d formulas, showing the first %d.", len(matches), MaxSearchReplies))
		matches = matches[:MaxSearchReplies]
	}
	for _, m := range matches {
		out = append(out, d.formulaReplies(m)...)
	}
	return out
}

func (d *Dispatcher) find(q string) []reply {
	if strings.TrimSpace(q) == "" {
		return text("Usage: /find <text>")
	}
	m, ok := d.engine.FindFirst(q)
	if !ok {
		return text("Formula not found.")
	}
	return d.formulaReplies(m)
}

func (d *Dispatcher) random() []reply {
	m, err := d.engine.Random()
	if errors.Is(err, query.ErrEmptyCatalog) {
		return text("The catalog is empty.")
	}
	if err != nil {
		return d.failed("random", err)
	}
	return d.formulaReplies(m)
}

func (d *Dispatcher) all() []reply {
	listing := d.engine.List()
	if len(listing) == 0 {
		return text("The catalog is empty.")
	}
	var sb strings.Builder
	for _, l := range listing {
		fmt.Fprintf(&sb, "%s:\n", l.Section)
		for _, name := range l.Entries {
			fmt.Fprintf(&sb, "- %s\n", name)
		}
	}
	return text(sb.String())
}

func (d *Dispatcher) addSection(name string) []reply {
	err := d.engine.Store().AddSection(name)
	switch {
	case err == nil:
		return text(fmt.Sprintf("Section '%s' added.", strings.TrimSpace(name)))
	case errors.Is(err, catalog.ErrEmptyName):
		return text("Usage: /add_section <name>")
	case errors.Is(err, catalog.ErrDuplicateSection):
		return text(fmt.Sprintf("Section '%s' already exists.", strings.TrimSpace(name)))
	case errors.Is(err, catalog.ErrInvalidText):
		return text(invalidTextReply)
	}
	return d.failed("add_section", err)
}

func (d *Dispatcher) removeSection(name string) []reply {
	if strings.TrimSpace(name) == "" {
		return text("Usage: /remove_section <name>")
	}
	err := d.engine.Store().RemoveSection(name)
	switch {
	case err == nil:
		return text(fmt.Sprintf("Section '%s' removed.", name))
	case errors.Is(err, catalog.ErrSectionNotFound):
		return text(fmt.Sprintf("Section '%s' not found.", name))
	}
	return d.failed("remove_section", err)
}

func (d *Dispatcher) addFormula(args []string) []reply {
	if len(args) < 4 {
		return text("Not enough arguments. Usage: /add_formula <section> <name> <formula> <description>")
	}
	section, name, formulaText := args[0], args[1], args[2]
	description := strings.Join(args[3:], " ")

	err := d.engine.Store().AddEntry(section, formula.NewEntry(name, formulaText, description))
	switch {
	case err == nil:
		return text(fmt.Sprintf("Formula '%s' added to section '%s'.", name, section))
	case errors.Is(err, catalog.ErrSectionNotFound):
		return text("Section not found. Add it first with /add_section.")
	case errors.Is(err, catalog.ErrInvalidText):
		return text(invalidTextReply)
	}
	return d.failed("add_formula", err)
}

func (d *Dispatcher) removeFormula(args []string) []reply {
	if len(args) < 2 {
		return text("Usage: /remove_formula <section> <name>")
	}
	section, name := args[0], strings.Join(args[1:], " ")

	err := d.engine.Store().RemoveEntry(section, name)
	switch {
	case err == nil:
		return text(fmt.Sprintf("Formula '%s' removed from section '%s'.", name, section))
	case errors.Is(err, catalog.ErrSectionNotFound):
		return text(fmt.Sprintf("Section '%s' not found.", section))
	case errors.Is(err, catalog.ErrEntryNotFound):
		return text(fmt.Sprintf("Formula '%s' not found in section '%s'.", name, section))
	}
	return d.failed("remove_formula", err)
}

func (d *Dispatcher) saveCatalog(ctx context.Context) []reply {
	if d.save == nil {
		return text("Saving is disabled.")
	}
	store := d.engine.Store()
	if err := d.save(ctx, store.Catalog()); err != nil {
		return d.failed("save", err)
	}
	store.MarkSaved()
	d.logger.Info("catalog saved")
	return text("Formulas saved.")
}

func (d *Dispatcher) failed(cmd string, err error) []reply {
	d.logger.Error("command failed", "command", cmd, "error", err)
	return text("Something went wrong, please try again later.")
}

// splitMessage breaks s into parts of at most limit bytes, on line
// boundaries where possible.
func splitMessage(s string, limit int) []string {
	if len(s) <= limit {
		return []string{s}
	}
	var parts []string
	var cur strings.Builder
	for _, line := range strings.SplitAfter(s, "\n") {
		for len(line) > limit {
			if cur.Len() > 0 {
				parts = append(parts, cur.String())
				cur.Reset()
			}
			cut := limit
			for cut > 0 && !utf8.RuneStart(line[cut]) {
				cut--
			}
			parts = append(parts, line[:cut])
			line = line[cut:]
		}
		if cur.Len()+len(line) > limit {
			parts = append(parts, cur.String())
			cur.Reset()
		}
		cur.WriteString(line)
	}
	if cur.Len() > 0 {
		parts = append(parts, cur.String())
	}
	return parts
}
