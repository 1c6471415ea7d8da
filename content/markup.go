package content

import "strings"

// UnknownUser is shown when the poster has no display name.
const UnknownUser = "Unknown User"

// markdownV2 escapes every character Telegram MarkdownV2 treats as markup.
var markdownV2 = strings.NewReplacer(
	`\`, `\\`,
	"_", `\_`, "*", `\*`, "[", `\[`, "]", `\]`, "(", `\(`, ")", `\)`,
	"~", `\~`, "`", "\\`", ">", `\>`, "#", `\#`, "+", `\+`, "-", `\-`,
	"=", `\=`, "|", `\|`, "{", `\{`, "}", `\}`, ".", `\.`, "!", `\!`,
)

// linkTarget escapes the URL part of an inline link.
var linkTarget = strings.NewReplacer(`\`, `\\`, ")", `\)`)

// Escape makes s safe to embed in a MarkdownV2 message.
func Escape(s string) string {
	if s == "" {
		return s
	}
	return markdownV2.Replace(s)
}

// Title builds the header message for a delivery: the poster's name, the
// optional content title and a link back to the original.
func Title(user User, url, title string) string {
	var b strings.Builder
	name := strings.TrimSpace(user.DisplayName)
	if name == "" {
		b.WriteString(Escape(UnknownUser))
	} else {
		b.WriteString(Escape(name))
	}
	b.WriteByte('\n')
	if t := strings.TrimSpace(title); t != "" {
		b.WriteString(Escape(t))
		b.WriteByte('\n')
	}
	b.WriteString("[View original](")
	b.WriteString(linkTarget.Replace(url))
	b.WriteString(")")
	return b.String()
}
