package output

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// printCelebration shows a short sparkle animation when every center is on target.
// Only used on terminals.
func printCelebration(w io.Writer, r *lipgloss.Renderer, msg string) {
	green := r.NewStyle().Foreground(lipgloss.Color("10"))
	bold := r.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	yellow := r.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)

	frames := []struct {
		text  string
		delay time.Duration
	}{
		{green.Render(msg), 150 * time.Millisecond},
		{yellow.Render("✨ " + msg + " ✨"), 250 * time.Millisecond},
		{bold.Render("🎉 " + msg + " 🎉"), 350 * time.Millisecond},
		{yellow.Render("✨ " + msg + " ✨"), 250 * time.Millisecond},
		{bold.Render(msg), 0},
	}

	for i, frame := range frames {
		if i > 0 {
			fmt.Fprint(w, "\r\033[K")
		}
		fmt.Fprint(w, frame.text)
		if frame.delay > 0 {
			time.Sleep(frame.delay)
		}
	}
	fmt.Fprintln(w)
}
