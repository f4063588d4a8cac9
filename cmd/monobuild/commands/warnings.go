package commands

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/charypar/monobuild/pkg/manifest"
)

func printWarnings(w io.Writer, warnings []manifest.Warning) {
	if len(warnings) == 0 {
		return
	}
	style := lipgloss.NewRenderer(w).NewStyle().Foreground(lipgloss.Color("#FFAA00"))
	for _, warning := range warnings {
		fmt.Fprintln(w, style.Render("warning: "+warning.String()))
	}
}

func printError(w io.Writer, err error) {
	style := lipgloss.NewRenderer(w).NewStyle().Bold(true).Foreground(lipgloss.Color("#FF5555"))
	fmt.Fprintln(w, style.Render("error: "+err.Error()))
}
