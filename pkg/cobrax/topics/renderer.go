package topics

import "strings"

// Renderer formats topic content for the terminal. format is the topic's
// file extension, such as ".md".
type Renderer interface {
	Render(content string, format string) string
}

// PlainRenderer prints topics as stored, newline terminated
type PlainRenderer struct{}

// Render returns the content with a trailing newline
func (r *PlainRenderer) Render(content string, format string) string {
	if content == "" || strings.HasSuffix(content, "\n") {
		return content
	}
	return content + "\n"
}
