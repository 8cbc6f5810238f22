package client

import (
	"chat-relay/domain/event"
	"fmt"
	"io"
	"time"

	"github.com/gookit/color"
	"github.com/olekukonko/tablewriter"
)

// FormatMessage renders one received message on a single line. The
// original text is appended when it differs from the translation.
func FormatMessage(m event.GotMessage, colours bool) string {
	at := time.UnixMilli(m.Time).Format("15:04:05")
	author := fmt.Sprintf("%s (%s)", m.AuthorName, m.AuthorLanguage.Key)
	original := ""
	if m.Original != m.Text {
		original = fmt.Sprintf("  [%s]", m.Original)
	}
	if !colours {
		return fmt.Sprintf("%s %s: %s%s", at, author, m.Text, original)
	}
	return fmt.Sprintf("%s %s: %s%s",
		color.Gray.Render(at),
		color.New(color.FgGreen, color.OpBold).Render(author),
		m.Text,
		color.Gray.Render(original))
}

// RenderUsers writes the active participants as a table.
func RenderUsers(w io.Writer, users []event.User) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Name", "Language", "ID"})
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)
	for _, u := range users {
		table.Append([]string{u.Name, u.Language.Display, u.ID})
	}
	table.Render()
}
