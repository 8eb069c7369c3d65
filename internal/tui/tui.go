// Package tui provides a Bubble Tea terminal user interface for bgremove.
package tui

import (
	"context"
	"fmt"
	"image"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/NuninhoSousa25/BG-remover-for-3dgs/internal/batch"
	"github.com/NuninhoSousa25/BG-remover-for-3dgs/internal/config"
	"github.com/NuninhoSousa25/BG-remover-for-3dgs/internal/imaging"
	ioutils "github.com/NuninhoSousa25/BG-remover-for-3dgs/internal/io"
	"github.com/NuninhoSousa25/BG-remover-for-3dgs/internal/model"
	"github.com/NuninhoSousa25/BG-remover-for-3dgs/internal/paths"
	"github.com/NuninhoSousa25/BG-remover-for-3dgs/internal/preview"
	"github.com/NuninhoSousa25/BG-remover-for-3dgs/internal/segment"
)

// Lipgloss styles shared by the views.
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#BD93F9")).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8BE9FD"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#50FA7B"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5555"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFB86C"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F8F8F2"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6272A4"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#BD93F9")).
			Padding(1, 2)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F1FA8C"))

	previewStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("#6272A4")).
			Padding(0, 1)
)

// State represents the current UI state.
type State int

const (
	StateInput State = iota
	StateScanning
	StateReady
	StateProcessing
	StateComplete
	StateError
)

// LogEntry represents a log message in the UI.
type LogEntry struct {
	Message string
	Level   batch.ProgressLevel
}

// Model is the Bubble Tea model for the TUI.
type Model struct {
	state     State
	textInput textinput.Model
	spinner   spinner.Model
	progress  progress.Model
	settings  *config.Settings
	logs      []LogEntry
	err       error

	// Workspace
	images []model.SourceImage
	cursor int

	// Inference
	engine    segment.Engine
	scheduler *preview.Scheduler
	reloading bool

	// Preview
	preview    *preview.Result
	previewErr error

	// Batch
	runner  *batch.Runner
	summary *batch.Summary

	// Bridged scheduler and batch events
	events chan tea.Msg

	ctx    context.Context
	cancel context.CancelFunc

	// Options
	verbose bool

	width  int
	height int
}

// NewModel creates a new TUI model.
func NewModel(settings *config.Settings) Model {
	ti := textinput.New()
	ti.Placeholder = "/path/to/image/folder"
	ti.Focus()
	ti.CharLimit = 500
	ti.Width = 60

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#BD93F9"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 50

	ctx, cancel := context.WithCancel(context.Background())

	return Model{
		state:     StateInput,
		textInput: ti,
		spinner:   sp,
		progress:  prog,
		settings:  settings,
		logs:      make([]LogEntry, 0),
		events:    make(chan tea.Msg, 64),
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick, m.waitForEvent())
}

// Message types
type (
	// SetupDoneMsg is sent when the folder scan and engine load finish.
	SetupDoneMsg struct {
		Images []model.SourceImage
		Engine segment.Engine
		Err    error
	}

	// EngineReadyMsg is sent after switching to another model.
	EngineReadyMsg struct {
		Engine segment.Engine
		Err    error
	}

	// PreviewReadyMsg carries a finished preview computation.
	PreviewReadyMsg struct {
		Result preview.Result
	}

	// PreviewErrorMsg carries a failed preview computation.
	PreviewErrorMsg struct {
		Image model.SourceImage
		Err   error
	}

	// BatchEventMsg carries one batch progress event.
	BatchEventMsg struct {
		Event batch.ProgressEvent
	}

	// BatchDoneMsg is sent when the batch run returns.
	BatchDoneMsg struct {
		Summary *batch.Summary
		Err     error
	}

	// TickMsg is for periodic progress updates.
	TickMsg struct{}
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = msg.Width - 20
		if m.progress.Width > 80 {
			m.progress.Width = 80
		}
		if m.progress.Width < 20 {
			m.progress.Width = 20
		}
		return m, nil

	case tea.KeyMsg:
		newModel, cmd, handled := m.handleKey(msg)
		if handled {
			return newModel, cmd
		}
		m = newModel

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case SetupDoneMsg:
		if msg.Err != nil {
			m.state = StateError
			m.err = msg.Err
		} else {
			m.images = msg.Images
			m.engine = msg.Engine
			m.cursor = 0
			m.scheduler = m.newScheduler(msg.Engine)
			m.scheduler.Select(m.images[0])
			m.state = StateReady
		}

	case EngineReadyMsg:
		m.reloading = false
		if msg.Err != nil {
			m.state = StateError
			m.err = msg.Err
		} else {
			if m.scheduler != nil {
				m.scheduler.Close()
			}
			if m.engine != nil {
				m.engine.Close()
			}
			m.engine = msg.Engine
			m.preview = nil
			m.scheduler = m.newScheduler(msg.Engine)
			if len(m.images) > 0 {
				m.scheduler.Select(m.images[m.cursor])
			}
		}

	case PreviewReadyMsg:
		r := msg.Result
		m.preview = &r
		m.previewErr = nil
		cmds = append(cmds, m.waitForEvent())

	case PreviewErrorMsg:
		m.previewErr = msg.Err
		cmds = append(cmds, m.waitForEvent())

	case BatchEventMsg:
		if msg.Event.Level != batch.LevelVerbose || m.verbose {
			m.logs = append(m.logs, LogEntry{
				Message: msg.Event.Message,
				Level:   msg.Event.Level,
			})
			// Older entries scroll off; the summary has the full error list.
			if len(m.logs) > 10 {
				m.logs = m.logs[len(m.logs)-10:]
			}
		}
		cmds = append(cmds, m.waitForEvent())

	case BatchDoneMsg:
		if msg.Err != nil {
			m.state = StateError
			m.err = msg.Err
		} else {
			m.summary = msg.Summary
			m.state = StateComplete
		}

	case TickMsg:
		if m.runner != nil && m.state == StateProcessing {
			processed, total := m.runner.GetProgress()
			var percent float64
			if total > 0 {
				percent = float64(processed) / float64(total)
			}
			cmds = append(cmds, m.progress.SetPercent(percent), m.tickProgress())
		}

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		cmds = append(cmds, cmd)
	}

	// Update text input
	if m.state == StateInput {
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// handleKey processes key presses. The handled flag short-circuits Update
// so keys that quit or start work do not also reach the text input.
func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd, bool) {
	switch msg.String() {
	case "ctrl+c":
		m.shutdown()
		return m, tea.Quit, true

	case "esc":
		switch m.state {
		case StateInput:
			m.shutdown()
			return m, tea.Quit, true
		case StateProcessing:
			m.cancel() // stop dispatching; the summary arrives as usual
			return m, nil, true
		case StateReady:
			m.state = StateInput
			m.textInput.Focus()
			return m, textinput.Blink, true
		}

	case "enter":
		if m.state == StateInput && m.textInput.Value() != "" {
			m.state = StateScanning
			return m, tea.Batch(m.setupWorkspace(), m.spinner.Tick), true
		}
		if m.state == StateReady && !m.reloading {
			return m.startBatch()
		}

	case "up", "k":
		if m.state == StateReady && m.cursor > 0 {
			m.cursor--
			m.scheduler.Select(m.images[m.cursor])
			return m, nil, true
		}

	case "down", "j":
		if m.state == StateReady && m.cursor < len(m.images)-1 {
			m.cursor++
			m.scheduler.Select(m.images[m.cursor])
			return m, nil, true
		}

	case "m":
		if m.state == StateReady && !m.reloading {
			m.settings.Model = nextModelName(m.settings.Model)
			m.reloading = true
			return m, tea.Batch(m.reloadEngine(), m.spinner.Tick), true
		}

	case "b":
		if m.state == StateReady {
			m.settings.ApplyBackgroundPreset(nextBackground(m.settings.Background))
			m.pushParams()
			return m, nil, true
		}

	case "a":
		if m.state == StateReady {
			m.settings.AlphaMatting = !m.settings.AlphaMatting
			m.pushParams()
			return m, nil, true
		}

	case "p":
		if m.state == StateReady {
			m.settings.PostProcessMask = !m.settings.PostProcessMask
			m.pushParams()
			return m, nil, true
		}

	case "s":
		if m.state == StateReady {
			m.scheduler.SetSideBySide(!m.scheduler.SideBySide())
			return m, nil, true
		}

	case "o":
		if m.state == StateReady {
			m.settings.OutputMode = nextOutputMode(m.settings.OutputMode)
			return m, nil, true
		}

	case "w":
		if m.state == StateReady {
			m.settings.OverwriteExisting = !m.settings.OverwriteExisting
			return m, nil, true
		}

	case "v":
		if m.state == StateInput || m.state == StateReady {
			m.verbose = !m.verbose
			return m, nil, true
		}

	case "q":
		if m.state == StateComplete || m.state == StateError {
			m.shutdown()
			return m, tea.Quit, true
		}

	case "r":
		if m.state == StateComplete || m.state == StateError {
			// Reset for a new run
			if m.scheduler != nil {
				m.scheduler.Close()
				m.scheduler = nil
			}
			if m.engine != nil {
				m.engine.Close()
				m.engine = nil
			}
			m.state = StateInput
			m.logs = nil
			m.images = nil
			m.preview = nil
			m.previewErr = nil
			m.err = nil
			m.runner = nil
			m.summary = nil
			m.ctx, m.cancel = context.WithCancel(context.Background())
			m.textInput.Focus()
			return m, textinput.Blink, true
		}
	}

	return m, nil, false
}

func (m *Model) shutdown() {
	m.cancel()
	if m.scheduler != nil {
		m.scheduler.Close()
	}
	if m.engine != nil {
		m.engine.Close()
	}
}

// pushParams forwards the current settings to the preview scheduler, which
// debounces the recompute.
func (m *Model) pushParams() {
	if m.scheduler == nil {
		return
	}
	params, err := m.settings.ToPreviewParams()
	if err != nil {
		m.previewErr = err
		return
	}
	m.scheduler.SetParams(params)
}

func (m Model) newScheduler(engine segment.Engine) *preview.Scheduler {
	events := m.events
	return preview.NewScheduler(engine,
		preview.WithDebounce(m.settings.PreviewDebounce()),
		preview.WithResultHandler(func(r preview.Result) {
			events <- PreviewReadyMsg{Result: r}
		}),
		preview.WithErrorHandler(func(img model.SourceImage, err error) {
			events <- PreviewErrorMsg{Image: img, Err: err}
		}))
}

// waitForEvent relays one bridged event into the program. Update re-arms
// it after every delivery.
func (m Model) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		return <-m.events
	}
}

// tickProgress returns a command to tick progress updates.
func (m Model) tickProgress() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(_ time.Time) tea.Msg {
		return TickMsg{}
	})
}

// setupWorkspace scans the folder and loads the segmentation model.
func (m *Model) setupWorkspace() tea.Cmd {
	folder := strings.TrimSpace(m.textInput.Value())
	settings := m.settings
	ctx := m.ctx
	return func() tea.Msg {
		images, err := ioutils.ScanImages(folder)
		if err != nil {
			return SetupDoneMsg{Err: err}
		}
		if len(images) == 0 {
			return SetupDoneMsg{Err: fmt.Errorf("no supported images in %s", folder)}
		}
		if _, err := segment.FetchModel(ctx, settings.Model, settings.ModelsDir, nil); err != nil {
			return SetupDoneMsg{Err: err}
		}
		engine, err := segment.New(settings.Model, settings.EngineOptions()...)
		if err != nil {
			return SetupDoneMsg{Err: err}
		}
		return SetupDoneMsg{Images: images, Engine: engine}
	}
}

// reloadEngine swaps the inference engine for the newly selected model.
func (m *Model) reloadEngine() tea.Cmd {
	settings := m.settings
	ctx := m.ctx
	return func() tea.Msg {
		if _, err := segment.FetchModel(ctx, settings.Model, settings.ModelsDir, nil); err != nil {
			return EngineReadyMsg{Err: err}
		}
		engine, err := segment.New(settings.Model, settings.EngineOptions()...)
		return EngineReadyMsg{Engine: engine, Err: err}
	}
}

// startBatch snapshots the settings into a runner and launches the run.
func (m Model) startBatch() (Model, tea.Cmd, bool) {
	opts, err := m.settings.ToBatchOptions()
	if err != nil {
		m.state = StateError
		m.err = err
		return m, nil, true
	}

	// The preview and the batch share the session pool; stop previews so
	// every session serves the run.
	if m.scheduler != nil {
		m.scheduler.Close()
		m.scheduler = nil
	}

	events := m.events
	runner, err := batch.NewRunner(m.engine, opts, func(e batch.ProgressEvent) {
		events <- BatchEventMsg{Event: e}
	})
	if err != nil {
		m.state = StateError
		m.err = err
		return m, nil, true
	}

	m.runner = runner
	m.logs = nil
	m.state = StateProcessing

	ctx := m.ctx
	images := m.images
	run := func() tea.Msg {
		sum, err := runner.Run(ctx, images)
		return BatchDoneMsg{Summary: sum, Err: err}
	}
	return m, tea.Batch(run, m.tickProgress(), m.spinner.Tick), true
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	// Header
	b.WriteString(titleStyle.Render("bgremove"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Batch background removal for photogrammetry captures"))
	b.WriteString("\n\n")

	switch m.state {
	case StateInput:
		b.WriteString(m.viewInput())
	case StateScanning:
		b.WriteString(m.viewScanning())
	case StateReady:
		b.WriteString(m.viewReady())
	case StateProcessing:
		b.WriteString(m.viewProcessing())
	case StateComplete:
		b.WriteString(m.viewComplete())
	case StateError:
		b.WriteString(m.viewError())
	}

	// Footer
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.getHelpText()))

	return b.String()
}

func (m Model) viewInput() string {
	var b strings.Builder

	b.WriteString(subtitleStyle.Render("Enter image folder:"))
	b.WriteString("\n\n")
	b.WriteString(m.textInput.View())
	b.WriteString("\n\n")

	verboseCheck := "[ ]"
	if m.verbose {
		verboseCheck = "[x]"
	}

	b.WriteString(infoStyle.Render("Options:"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  %s Verbose output (v)\n", verboseCheck))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("Model: %s", m.settings.Model)))
	b.WriteString("\n")

	return b.String()
}

func (m Model) viewScanning() string {
	var b strings.Builder

	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(subtitleStyle.Render("Scanning folder and loading model (first run downloads it)..."))
	b.WriteString("\n")

	return b.String()
}

func (m Model) viewReady() string {
	left := m.viewImageList()
	right := m.viewPreviewPane()
	body := lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right)

	var b strings.Builder
	b.WriteString(body)
	b.WriteString("\n")
	b.WriteString(m.viewConfigSummary())
	return b.String()
}

func (m Model) viewImageList() string {
	const window = 12
	start := 0
	if m.cursor >= window {
		start = m.cursor - window + 1
	}
	end := start + window
	if end > len(m.images) {
		end = len(m.images)
	}

	var b strings.Builder
	b.WriteString(subtitleStyle.Render(fmt.Sprintf("Images (%d):", len(m.images))))
	b.WriteString("\n")
	for i := start; i < end; i++ {
		line := "  " + m.images[i].Name
		if i == m.cursor {
			line = selectedStyle.Render("> " + m.images[i].Name)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	if end < len(m.images) {
		b.WriteString(dimStyle.Render(fmt.Sprintf("  ... %d more", len(m.images)-end)))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) viewPreviewPane() string {
	var b strings.Builder

	switch {
	case m.reloading:
		b.WriteString(m.spinner.View())
		b.WriteString(" ")
		b.WriteString(subtitleStyle.Render(fmt.Sprintf("Loading %s...", m.settings.Model)))
	case m.previewErr != nil:
		b.WriteString(errorStyle.Render(fmt.Sprintf("Preview failed: %v", m.previewErr)))
	case m.preview == nil || m.scheduler == nil:
		b.WriteString(m.spinner.View())
		b.WriteString(" ")
		b.WriteString(dimStyle.Render("Computing preview..."))
	default:
		r := m.preview
		pane := asciiImage(r.Rendered, 44)
		if m.scheduler.SideBySide() {
			source := asciiImage(r.Source, 30)
			result := asciiImage(r.Rendered, 30)
			pane = lipgloss.JoinHorizontal(lipgloss.Top,
				previewStyle.Render(source), " ", previewStyle.Render(result))
		} else {
			pane = previewStyle.Render(pane)
		}
		b.WriteString(pane)
		b.WriteString("\n")
		b.WriteString(dimStyle.Render(fmt.Sprintf(
			"%s | coverage %.1f%% | %s | %v",
			r.Image.Name,
			imaging.MaskCoverage(r.Mask)*100,
			r.Style,
			r.Elapsed.Round(time.Millisecond),
		)))
		if m.scheduler.State() == preview.StateComputing || m.scheduler.State() == preview.StatePending {
			b.WriteString("\n")
			b.WriteString(m.spinner.View())
			b.WriteString(dimStyle.Render(" updating..."))
		}
	}

	return b.String()
}

func (m Model) viewConfigSummary() string {
	overwrite := "off"
	if m.settings.OverwriteExisting {
		overwrite = "on"
	}
	matting := "off"
	if m.settings.AlphaMatting {
		matting = "on"
	}

	var b strings.Builder
	b.WriteString(infoStyle.Render(fmt.Sprintf(
		"model %s | background %s | matting %s | output %s | overwrite %s",
		m.settings.Model, m.settings.Background, matting, m.settings.OutputMode, overwrite,
	)))

	if hint := m.outputHint(); hint != "" {
		b.WriteString("\n")
		b.WriteString(dimStyle.Render("writes to " + hint))
	}
	return b.String()
}

// outputHint shows where the selected image's artifacts would land.
func (m Model) outputHint() string {
	if len(m.images) == 0 {
		return ""
	}
	cfg, err := m.settings.ToExportConfig()
	if err != nil {
		return ""
	}
	resolver, err := paths.NewResolver(cfg)
	if err != nil {
		return ""
	}
	return resolver.OutputDir(m.images[m.cursor])
}

func (m Model) viewProcessing() string {
	var b strings.Builder

	processed, total := int32(0), int32(len(m.images))
	if m.runner != nil {
		processed, total = m.runner.GetProgress()
	}

	b.WriteString(m.progress.View())
	b.WriteString("\n")
	b.WriteString(infoStyle.Render(fmt.Sprintf("Images: %d/%d", processed, total)))
	b.WriteString("\n\n")
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewComplete() string {
	var b strings.Builder

	if m.summary == nil {
		return b.String()
	}
	status := "Batch complete"
	if m.summary.Interrupted {
		status = "Batch cancelled"
	}
	box := boxStyle.Render(fmt.Sprintf(
		"%s\n\n"+
			"Processed: %d/%d\n"+
			"Failed: %d\n"+
			"Skipped: %d\n"+
			"Cancelled: %d\n"+
			"Artifacts: %d\n"+
			"Elapsed: %v",
		status,
		m.summary.Succeeded, m.summary.Total,
		m.summary.Failed,
		m.summary.Skipped,
		m.summary.Cancelled,
		m.summary.ArtifactsWritten,
		m.summary.Elapsed.Round(time.Millisecond),
	))
	b.WriteString(box)

	if len(m.summary.Errors) > 0 {
		b.WriteString("\n\n")
		b.WriteString(errorStyle.Render("Failures:"))
		b.WriteString("\n")
		for i, ie := range m.summary.Errors {
			if i == 5 {
				b.WriteString(dimStyle.Render(fmt.Sprintf("  ... %d more", len(m.summary.Errors)-i)))
				b.WriteString("\n")
				break
			}
			b.WriteString(fmt.Sprintf("  %s: %v\n", ie.Image.Name, ie.Err))
		}
	}

	return b.String()
}

func (m Model) viewError() string {
	var b strings.Builder

	b.WriteString(errorStyle.Render("Error:"))
	b.WriteString("\n\n")
	if m.err != nil {
		b.WriteString(fmt.Sprintf("  %s", m.err.Error()))
	}

	return b.String()
}

func (m Model) renderLogs() string {
	var b strings.Builder

	for _, log := range m.logs {
		var style lipgloss.Style
		prefix := "-"
		switch log.Level {
		case batch.LevelError:
			style = errorStyle
			prefix = "x"
		case batch.LevelWarning:
			style = warningStyle
			prefix = "!"
		case batch.LevelSuccess:
			style = successStyle
			prefix = "+"
		case batch.LevelInfo:
			style = infoStyle
			prefix = ">"
		default:
			style = dimStyle
		}
		b.WriteString(style.Render(prefix + " " + log.Message))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) getHelpText() string {
	switch m.state {
	case StateInput:
		return "enter: scan folder | v: verbose | esc: quit"
	case StateScanning:
		return "ctrl+c: quit"
	case StateReady:
		return "up/down: select | m: model | b: background | a: matting | p: post-process | s: split view | o: output mode | w: overwrite | enter: process all | esc: back"
	case StateProcessing:
		return "esc: cancel"
	case StateComplete, StateError:
		return "r: new run | q: quit"
	}
	return ""
}

// asciiRamp maps luminance to density, dark to bright.
const asciiRamp = " .:-=+*#%@"

// asciiImage renders img as character cells. Terminal cells are roughly
// twice as tall as wide, so vertical resolution is halved.
func asciiImage(img image.Image, maxWidth int) string {
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return ""
	}
	w := maxWidth
	if b.Dx() < w {
		w = b.Dx()
	}
	h := b.Dy() * w / b.Dx() / 2
	if h < 1 {
		h = 1
	}

	gray := imaging.ToGray(imaging.ResizeExact(img, w, h))
	var sb strings.Builder
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := gray.GrayAt(x, y).Y
			sb.WriteByte(asciiRamp[int(v)*(len(asciiRamp)-1)/255])
		}
		if y < h-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

func nextModelName(current string) string {
	names := segment.ModelNames()
	for i, n := range names {
		if n == current {
			return names[(i+1)%len(names)]
		}
	}
	return names[0]
}

func nextBackground(current string) string {
	order := []string{"matte", "transparent", "white", "black"}
	for i, n := range order {
		if n == current {
			return order[(i+1)%len(order)]
		}
	}
	return order[0]
}

func nextOutputMode(current string) string {
	order := []string{"inside", "sibling"}
	for i, n := range order {
		if n == current {
			return order[(i+1)%len(order)]
		}
	}
	return order[0]
}

// Run starts the TUI application.
func Run(settings *config.Settings) error {
	p := tea.NewProgram(NewModel(settings), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
