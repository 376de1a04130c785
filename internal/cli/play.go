package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/framegraph/pkg/pipeline"
	"github.com/matzehuels/framegraph/pkg/scenario"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// playCommand creates the play command, an interactive frame browser.
func (c *CLI) playCommand() *cobra.Command {
	var (
		layout string
		output string
		flags  cacheFlags
	)
	cmd := &cobra.Command{
		Use:   "play [scenario]",
		Short: "Browse the frames of a scenario in the terminal",
		Long: `Play renders a scenario and lists its frames with what changed in each one.
Press enter on a frame to save it as SVG.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeScenario,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := pipeline.LoadScenario(pipeline.Input{Path: args[0]})
			if err != nil {
				return err
			}
			runner, err := c.newRunner(flags)
			if err != nil {
				return err
			}
			defer runner.Close()

			spinner := newSpinner(cmd.Context(), os.Stderr, "Playing "+s.Name)
			spinner.Start()
			result, err := runner.Execute(cmd.Context(), s, pipeline.Options{
				Layout:  layout,
				NoCache: flags.noCache,
				OnFrame: func(f scenario.Frame) {
					spinner.Update(fmt.Sprintf("Playing %s: frame %d/%d", s.Name, f.Index, s.Frames()))
				},
			})
			if err != nil {
				spinner.StopWithError(err.Error())
				return err
			}
			spinner.Stop()
			if len(result.Frames) == 0 {
				printWarning("%s has no frames", s.Name)
				return nil
			}

			final, err := tea.NewProgram(newFrameBrowser(result, output), tea.WithContext(cmd.Context())).Run()
			if err != nil {
				return err
			}
			for _, p := range final.(frameBrowser).Saved {
				printFile(p)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&layout, "layout", pipeline.DefaultLayout, "layout engine: graphviz (default), layered")
	cmd.Flags().StringVarP(&output, "output", "o", ".", "directory for saved frames")
	flags.register(cmd)
	return cmd
}

// =============================================================================
// frameBrowser - Interactive frame list
// =============================================================================

// frameBrowser is the bubbletea model listing the frames of one run.
type frameBrowser struct {
	Result *pipeline.Result
	Dir    string
	Cursor int
	Height int
	Offset int
	Saved  []string
	Status string
}

func newFrameBrowser(result *pipeline.Result, dir string) frameBrowser {
	return frameBrowser{Result: result, Dir: dir, Height: 15}
}

func (m frameBrowser) Init() tea.Cmd {
	return nil
}

func (m frameBrowser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	n := len(m.Result.Frames)
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < n-1 {
				m.Cursor++
			}
		case "home", "g":
			m.Cursor = 0
		case "end", "G":
			m.Cursor = n - 1
		case "enter", "s":
			m = m.save()
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 8
		if m.Height < 5 {
			m.Height = 5
		}
	}
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
	return m, nil
}

// save writes the selected frame into m.Dir.
func (m frameBrowser) save() frameBrowser {
	f := m.Result.Frames[m.Cursor]
	path := filepath.Join(m.Dir, frameName(m.Result.Name, f.Index))
	if err := os.WriteFile(path, f.SVG, 0o644); err != nil {
		m.Status = StyleWarning.Render("save failed: " + err.Error())
		return m
	}
	m.Saved = append(m.Saved, path)
	m.Status = StyleSuccess.Render("saved " + path)
	return m
}

func (m frameBrowser) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Result.Name))
	b.WriteString("  ")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("%s per frame", m.Result.Delay)))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ save frame  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.Result.Frames) {
		end = len(m.Result.Frames)
	}

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		f := m.Result.Frames[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		d := f.Diff
		rows = append(rows, []string{
			cursor,
			strconv.Itoa(f.Index),
			change(d.NodeAppear, d.NodeDisappear),
			change(d.EdgeAppear, d.EdgeDisappear),
			count(d.Moves),
			formatBytes(len(f.SVG)),
			f.Duration.Round(time.Millisecond).String(),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Frame", "Nodes", "Edges", "Moves", "Size", "Time").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if m.Offset+row == m.Cursor {
				return listSelectedStyle
			}
			if col >= 5 {
				return listDimStyle
			}
			return listNormalStyle
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Result.Frames))))
	if m.Status != "" {
		b.WriteString("  ")
		b.WriteString(m.Status)
	}

	return b.String()
}

// =============================================================================
// Helpers
// =============================================================================

// change formats appear and disappear counts as "+a -d".
func change(appear, disappear int) string {
	var parts []string
	if appear > 0 {
		parts = append(parts, fmt.Sprintf("+%d", appear))
	}
	if disappear > 0 {
		parts = append(parts, fmt.Sprintf("-%d", disappear))
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, " ")
}

func count(n int) string {
	if n == 0 {
		return "-"
	}
	return strconv.Itoa(n)
}
