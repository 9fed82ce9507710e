// Package conv renders the Markdown produced by chat commands for each front
// end: sanitized HTML for Telegram and plain text for the terminal.
package conv

import (
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/inbucket/html2text"
	"github.com/microcosm-cc/bluemonday"
)

var (
	extensions = parser.CommonExtensions | parser.NoEmptyLineBeforeBlock
	htmlFlags  = html.CommonFlags

	// Tags accepted by the Telegram Bot API in HTML parse mode.
	telegramPolicy = func() *bluemonday.Policy {
		p := bluemonday.NewPolicy()
		p.AllowElements("b", "strong", "i", "em", "u", "ins", "s", "strike", "del", "code", "pre", "blockquote")
		p.AllowAttrs("href").OnElements("a")
		p.AllowAttrs("class").OnElements("code")
		return p
	}()
)

func render(md []byte) []byte {
	p := parser.NewWithExtensions(extensions)
	renderer := html.NewRenderer(html.RendererOptions{Flags: htmlFlags})
	return markdown.Render(p.Parse(md), renderer)
}

func MarkdownToTelegramHTML(md []byte) string {
	return string(telegramPolicy.SanitizeBytes(render(md)))
}

// MarkdownToText renders md for a terminal. On conversion failure the
// Markdown source is returned unchanged.
func MarkdownToText(md []byte) string {
	text, err := html2text.FromString(string(render(md)), html2text.Options{
		OmitLinks:    true,
		PrettyTables: true,
	})
	if err != nil {
		return string(md)
	}
	return strings.TrimSpace(text)
}
