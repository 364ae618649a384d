package notify

import "strings"

// characters Telegram requires to be escaped in MarkdownV2 text
const markdownV2Special = "_*[]()~`>#+-=|{}.!\\"

type segmentKind int

const (
	segmentText segmentKind = iota
	segmentBold
	segmentCode
)

type segment struct {
	kind segmentKind
	text string
}

// Message is a formatted notification that every sender renders in its own dialect.
type Message struct {
	Title    string
	segments []segment
}

// Builder assembles a Message from plain, bold and code segments.
type Builder struct {
	segments []segment
}

func NewBuilder() *Builder {
	return &Builder{}
}

func (b *Builder) Text(s string) *Builder {
	b.segments = append(b.segments, segment{kind: segmentText, text: s})
	return b
}

func (b *Builder) Bold(s string) *Builder {
	b.segments = append(b.segments, segment{kind: segmentBold, text: s})
	return b
}

func (b *Builder) Code(s string) *Builder {
	b.segments = append(b.segments, segment{kind: segmentCode, text: s})
	return b
}

func (b *Builder) Build(title string) Message {
	segments := make([]segment, len(b.segments))
	copy(segments, b.segments)
	return Message{Title: title, segments: segments}
}

// MarkdownV2 renders the message for the Telegram Bot API.
func (m Message) MarkdownV2() string {
	var sb strings.Builder
	if m.Title != "" {
		sb.WriteString("*" + EscapeMarkdownV2(m.Title) + "*\n\n")
	}
	for _, s := range m.segments {
		switch s.kind {
		case segmentBold:
			sb.WriteString("*" + EscapeMarkdownV2(s.text) + "*")
		case segmentCode:
			sb.WriteString("`" + EscapeMarkdownV2(s.text) + "`")
		default:
			sb.WriteString(EscapeMarkdownV2(s.text))
		}
	}
	return sb.String()
}

// Markdown renders the message in Discord flavoured markdown.
func (m Message) Markdown() string {
	var sb strings.Builder
	if m.Title != "" {
		sb.WriteString("**" + m.Title + "**\n\n")
	}
	for _, s := range m.segments {
		switch s.kind {
		case segmentBold:
			sb.WriteString("**" + s.text + "**")
		case segmentCode:
			sb.WriteString("`" + s.text + "`")
		default:
			sb.WriteString(s.text)
		}
	}
	return sb.String()
}

// Plain renders the message on a single line for logs.
func (m Message) Plain() string {
	var sb strings.Builder
	if m.Title != "" {
		sb.WriteString(m.Title + "\n")
	}
	for _, s := range m.segments {
		sb.WriteString(s.text)
	}
	return strings.Join(strings.Fields(strings.ReplaceAll(sb.String(), "\n", " | ")), " ")
}

func EscapeMarkdownV2(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for _, r := range s {
		if strings.ContainsRune(markdownV2Special, r) {
			sb.WriteByte('\\')
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
