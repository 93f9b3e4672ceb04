// Package render draws reply trees as terminal cards for the CLI.
package render

import (
	"fmt"
	"strings"
	"sync"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/glamour"
	"github.com/dustin/go-humanize"
	"github.com/muesli/reflow/wordwrap"
	"github.com/thenoetrevino/paso-threads/internal/commenttree"
	"github.com/thenoetrevino/paso-threads/internal/config"
	"github.com/thenoetrevino/paso-threads/internal/models"
)

const (
	// DefaultWidth is used when no terminal width is configured
	DefaultWidth = 80
	indentWidth  = 4
	minCardWidth = 24
	timeLayout   = "Jan 2 15:04"
)

// Options configures a Renderer
type Options struct {
	Width    int
	Markdown bool
	Colors   config.ColorScheme
}

// Renderer turns threads into styled text. It is safe for concurrent use.
type Renderer struct {
	width    int
	markdown bool
	styles   styles
}

type styles struct {
	author   lipgloss.Style
	subtle   lipgloss.Style
	edited   lipgloss.Style
	liked    lipgloss.Style
	content  lipgloss.Style
	card     lipgloss.Style
	reply    lipgloss.Style
	title    lipgloss.Style
	empty    lipgloss.Style
	attached lipgloss.Style
}

// New creates a Renderer. Missing colors fall back to the configured preset.
func New(opts Options) *Renderer {
	if opts.Width <= 0 {
		opts.Width = DefaultWidth
	}
	colors := opts.Colors
	colors.ApplyDefaults()

	bg := lipgloss.Color(colors.CardBackground)
	card := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(colors.CardBorder)).
		BorderBackground(bg).
		Background(bg).
		Padding(0, 1)

	return &Renderer{
		width:    opts.Width,
		markdown: opts.Markdown,
		styles: styles{
			author:   lipgloss.NewStyle().Foreground(lipgloss.Color(colors.Accent)).Bold(true),
			subtle:   lipgloss.NewStyle().Foreground(lipgloss.Color(colors.Subtle)),
			edited:   lipgloss.NewStyle().Foreground(lipgloss.Color(colors.Subtle)).Italic(true),
			liked:    lipgloss.NewStyle().Foreground(lipgloss.Color(colors.Liked)),
			content:  lipgloss.NewStyle().Foreground(lipgloss.Color(colors.Normal)).Background(bg),
			card:     card,
			reply:    card.BorderForeground(lipgloss.Color(colors.ReplyBorder)),
			title:    lipgloss.NewStyle().Foreground(lipgloss.Color(colors.Title)).Bold(true),
			empty:    lipgloss.NewStyle().Foreground(lipgloss.Color(colors.Subtle)).Italic(true),
			attached: lipgloss.NewStyle().Foreground(lipgloss.Color(colors.Subtle)),
		},
	}
}

// Threads renders a forest depth-first, one card per comment
func (r *Renderer) Threads(threads []*models.Thread) string {
	rows := commenttree.Flatten(threads)
	if len(rows) == 0 {
		return r.styles.empty.Render("No comments")
	}

	cards := make([]string, len(rows))
	for i, row := range rows {
		cards[i] = r.Card(row.Comment, row.Depth)
	}
	return lipgloss.JoinVertical(lipgloss.Left, cards...)
}

// Task renders a titled section holding the forest of one task
func (r *Renderer) Task(title string, threads []*models.Thread) string {
	return r.styles.title.Render(title) + "\n" + r.Threads(threads)
}

// Card renders a single comment indented by depth. Nesting deeper than
// models.MaxRenderDepth is drawn at the maximum indentation.
//
//	╭──────────────────────────────────────╮
//	│ alice  Mar 14 09:00  ♥ 2             │
//	│ Redirect loses the next parameter.   │
//	╰──────────────────────────────────────╯
//	    ╭──────────────────────────────────╮
//	    │ bob  Mar 14 09:10  (edited ...)  │
//	    ╰──────────────────────────────────╯
func (r *Renderer) Card(c models.Comment, depth int) string {
	indent := min(max(depth, 0), models.MaxRenderDepth) * indentWidth
	width := max(r.width-indent, minCardWidth)

	body := r.header(c) + "\n" + r.content(c, width)
	if len(c.Attachments) > 0 {
		body += "\n" + r.attachments(c.Attachments)
	}

	style := r.styles.card
	if c.IsReply() {
		style = r.styles.reply
	}
	return style.Width(width).MarginLeft(indent).Render(body)
}

// header formats: {author}  {created}  (edited {updated})  ♥ {likes}
func (r *Renderer) header(c models.Comment) string {
	var b strings.Builder
	b.WriteString(r.styles.author.Render(string(c.Author)))
	b.WriteString("  ")
	b.WriteString(r.styles.subtle.Render(c.CreatedAt.Format(timeLayout)))

	if c.IsEdited() {
		b.WriteString("  ")
		b.WriteString(r.styles.edited.Render(fmt.Sprintf("(edited %s)", c.UpdatedAt.Format(timeLayout))))
	}
	if n := len(c.LikedBy); n > 0 {
		b.WriteString("  ")
		b.WriteString(r.styles.liked.Render(fmt.Sprintf("♥ %d", n)))
	}
	return b.String()
}

func (r *Renderer) content(c models.Comment, width int) string {
	// border and padding
	contentWidth := max(width-4, 20)

	if r.markdown {
		if renderer, err := getRenderer(contentWidth); err == nil {
			if out, err := renderer.Render(c.Content); err == nil {
				return strings.TrimSpace(out)
			}
		}
	}
	return r.styles.content.Render(wordwrap.String(c.Content, contentWidth))
}

func (r *Renderer) attachments(attachments []models.Attachment) string {
	lines := make([]string, len(attachments))
	for i, a := range attachments {
		line := "↳ " + a.Name
		if a.Size > 0 {
			line += " (" + humanize.Bytes(uint64(a.Size)) + ")"
		}
		lines[i] = r.styles.attached.Render(line)
	}
	return strings.Join(lines, "\n")
}

// Glamour renderers are expensive to build; cache them by wrap width
var rendererCache sync.Map // map[int]*glamour.TermRenderer

func getRenderer(width int) (*glamour.TermRenderer, error) {
	if cached, ok := rendererCache.Load(width); ok {
		return cached.(*glamour.TermRenderer), nil
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}

	rendererCache.Store(width, renderer)
	return renderer, nil
}
