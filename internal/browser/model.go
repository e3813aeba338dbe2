// Package browser provides the Bubble Tea split log browser.
package browser

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/verte-zerg/splitlog/internal/collection"
	"github.com/verte-zerg/splitlog/internal/model"
	"github.com/verte-zerg/splitlog/internal/series"
	"github.com/verte-zerg/splitlog/internal/stats"
	"github.com/verte-zerg/splitlog/internal/timecode"
)

const (
	tabChart = iota
	tabAttempts
	tabSummary
)

const (
	plotHeight = 16
)

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
	mutedWaveStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#4A4A4A"))
	cursorStyle     = lipgloss.NewStyle().Underline(true).Bold(true)
)

// Source loads collections under supersedable generations.
// *collection.Session satisfies it.
type Source interface {
	Begin() uint64
	LoadGeneration(ctx context.Context, gen uint64, paths []string) (model.Collection, collection.Stats, error)
}

// Options configures a browser.
type Options struct {
	Source Source
	Paths  []string
	View   model.ViewConfig
	// OnLoad is called after every committed load, e.g. to record history.
	OnLoad func(collection.Stats)
}

type loadedMsg struct {
	gen      uint64
	attempts model.Collection
	stats    collection.Stats
	err      error
}

// Model implements the Bubble Tea browser UI.
type Model struct {
	source Source
	paths  []string
	onLoad func(collection.Stats)

	view     model.ViewConfig
	attempts model.Collection
	waves    []model.WaveID
	cursor   int
	report   stats.Report

	gen       uint64
	loading   bool
	loadStats collection.Stats
	loadedAt  time.Time
	errMsg    string

	tabs         []string
	activeTab    int
	viewports    []viewport.Model
	attemptTable table.Model

	width  int
	height int

	filterMode   bool
	filterInputs []textinput.Model
	filterIndex  int
	filterError  string
}

// NewModel constructs a browser model. Loading starts in Init.
func NewModel(opts Options) *Model {
	m := &Model{
		source: opts.Source,
		paths:  opts.Paths,
		onLoad: opts.OnLoad,
		view:   opts.View,
		tabs:   []string{"Chart", "Attempts", "Summary"},
	}
	if m.view.Selected == nil {
		m.view.Selected = model.WaveSet{}
	}
	m.initInputs()
	m.initViewports()
	m.attemptTable = table.New(table.WithHeight(1))
	m.attemptTable.SetStyles(attemptTableStyles())
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return m.reload()
}

// ViewConfig returns the current view configuration.
func (m *Model) ViewConfig() model.ViewConfig {
	return m.view
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.renderTabContents()
		return m, nil
	case loadedMsg:
		m.applyLoad(msg)
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || (!m.filterMode && msg.String() == "q") {
			return m, tea.Quit
		}
		if m.filterMode {
			return m.updateFilter(msg)
		}
		return m.updateKey(msg)
	}
	return m, nil
}

func (m *Model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab":
		m.moveTab(1)
		return m, tea.ClearScreen
	case "shift+tab":
		m.moveTab(-1)
		return m, tea.ClearScreen
	case "1", "2", "3":
		m.activeTab, _ = strconv.Atoi(msg.String())
		m.activeTab--
		m.syncTableFocus()
		return m, tea.ClearScreen
	case "left", "h":
		m.moveCursor(-1)
		return m, nil
	case "right", "l":
		m.moveCursor(1)
		return m, nil
	case " ", "space":
		if w, ok := m.cursorWave(); ok {
			m.view.Selected = Toggle(m.view.Selected, w)
			m.refresh()
		}
		return m, nil
	case "enter":
		if w, ok := m.cursorWave(); ok {
			m.view.Selected = ToggleExclusive(m.view.Selected, m.waves, w)
			m.refresh()
		}
		return m, nil
	case "m":
		m.view.Mode = m.view.Mode.Next()
		m.refresh()
		return m, nil
	case "s":
		m.view.ShowSplits = !m.view.ShowSplits
		m.refresh()
		return m, nil
	case "d":
		m.view.IndexByDate = !m.view.IndexByDate
		m.refresh()
		return m, nil
	case "r":
		return m, m.reload()
	case "/":
		return m.startFilter()
	case "g", "home":
		if m.activeTab == tabAttempts {
			m.attemptTable.GotoTop()
		} else {
			m.viewports[m.activeTab].GotoTop()
		}
		return m, nil
	case "G", "end":
		if m.activeTab == tabAttempts {
			m.attemptTable.GotoBottom()
		} else {
			m.viewports[m.activeTab].GotoBottom()
		}
		return m, nil
	default:
		if m.activeTab == tabAttempts {
			var cmd tea.Cmd
			m.attemptTable, cmd = m.attemptTable.Update(msg)
			return m, cmd
		}
		vp := m.viewports[m.activeTab]
		var cmd tea.Cmd
		vp, cmd = vp.Update(msg)
		m.viewports[m.activeTab] = vp
		return m, cmd
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(bodyHeight), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

// reload starts an asynchronous load under a new generation. Results of
// earlier generations that arrive later are dropped.
func (m *Model) reload() tea.Cmd {
	if m.source == nil {
		return nil
	}
	gen := m.source.Begin()
	m.gen = gen
	m.loading = true
	source, paths := m.source, m.paths
	return func() tea.Msg {
		attempts, st, err := source.LoadGeneration(context.Background(), gen, paths)
		return loadedMsg{gen: gen, attempts: attempts, stats: st, err: err}
	}
}

func (m *Model) applyLoad(msg loadedMsg) {
	if msg.gen != m.gen || errors.Is(msg.err, collection.ErrSuperseded) {
		return
	}
	m.loading = false
	if msg.err != nil {
		m.errMsg = msg.err.Error()
		return
	}
	m.errMsg = ""
	m.attempts = msg.attempts
	m.loadStats = msg.stats
	m.loadedAt = time.Now()
	m.waves = series.AllWaves(m.attempts)
	if len(m.view.Selected) == 0 {
		m.view.Selected = model.NewWaveSet(m.waves...)
	}
	if m.cursor >= len(m.waves) {
		m.cursor = maxInt(0, len(m.waves)-1)
	}
	if m.onLoad != nil {
		m.onLoad(msg.stats)
	}
	m.refresh()
}

func (m *Model) refresh() {
	m.report = stats.BuildReport(m.attempts)
	m.updateLayout()
	m.renderTabContents()
}

func (m *Model) cursorWave() (model.WaveID, bool) {
	if m.cursor < 0 || m.cursor >= len(m.waves) {
		return "", false
	}
	return m.waves[m.cursor], true
}

func (m *Model) moveCursor(delta int) {
	count := len(m.waves)
	if count == 0 {
		return
	}
	m.cursor = (m.cursor + delta + count) % count
	m.renderTabContents()
}

func (m *Model) initViewports() {
	m.viewports = make([]viewport.Model, len(m.tabs))
	for i := range m.viewports {
		m.viewports[i] = viewport.New(0, 0)
	}
}

func (m *Model) initInputs() {
	m.filterInputs = []textinput.Model{
		newFilterInput("Min (m:ss): "),
		newFilterInput("Max (m:ss): "),
		newFilterInput("Exclude above (m:ss): "),
	}
	m.setInputsFromView()
}

func newFilterInput(prompt string) textinput.Model {
	input := textinput.New()
	input.Prompt = prompt
	input.CharLimit = 0
	input.Cursor.SetMode(cursor.CursorBlink)
	return input
}

func (m *Model) setInputsFromView() {
	m.filterInputs[0].SetValue(formatBound(m.view.MinBound))
	m.filterInputs[1].SetValue(formatBound(m.view.MaxBound))
	m.filterInputs[2].SetValue(formatBound(m.view.ExcludeAbove))
}

func formatBound(v float64) string {
	if v <= 0 {
		return ""
	}
	return timecode.Format(v)
}

// parseBound accepts m:ss, h:mm:ss or plain seconds; empty means unset.
func parseBound(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	if v, ok := timecode.Parse(s); ok {
		return v, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("invalid duration %q (use m:ss or seconds)", s)
	}
	return v, nil
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := lipgloss.Height(activeNavStyle.Render("X"))
	if tabsHeight < 1 {
		tabsHeight = 1
	}
	headerHeight = tabsHeight + 1
	footerHeight = 1
	if !m.filterMode && m.errMsg != "" {
		footerHeight++
	}
	bodyHeight = m.height - headerHeight - footerHeight
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, vpHeight, _ := m.layoutHeights()
	for i := range m.viewports {
		m.viewports[i].Width = m.width
		m.viewports[i].Height = vpHeight
	}
	m.attemptTable.SetWidth(m.width)
	m.attemptTable.SetHeight(maxInt(1, vpHeight-1))
	for i := range m.filterInputs {
		promptWidth := lipgloss.Width(m.filterInputs[i].Prompt)
		m.filterInputs[i].Width = maxInt(10, m.width-promptWidth-2)
	}
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	if count == 0 {
		return
	}
	m.activeTab = (m.activeTab + delta + count) % count
	m.syncTableFocus()
}

func (m *Model) syncTableFocus() {
	if m.activeTab == tabAttempts {
		m.attemptTable.Focus()
	} else {
		m.attemptTable.Blur()
	}
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderHeader() string {
	tabs := padLines(m.renderTabs(), m.width)
	status := padLines(m.renderStatus(), m.width)
	return tabs + "\n" + status
}

func (m *Model) renderStatus() string {
	load := "loading..."
	if !m.loading && !m.loadedAt.IsZero() {
		load = fmt.Sprintf("%s attempts (%s skipped) loaded %s",
			humanize.Comma(int64(len(m.attempts))),
			humanize.Comma(int64(m.loadStats.Skipped)),
			humanize.Time(m.loadedAt))
	}
	dateIdx := "run"
	if m.view.IndexByDate {
		dateIdx = "date"
	}
	values := "deltas"
	if m.view.ShowSplits {
		values = "splits"
	}
	summary := fmt.Sprintf("View: %s  %s  x=%s  min=%s  max=%s  exclude>%s  |  %s",
		m.view.Mode.Label(), values, dateIdx,
		boundLabel(m.view.MinBound), boundLabel(m.view.MaxBound), boundLabel(m.view.ExcludeAbove), load)
	return headerStyle.Render(truncateLine(summary, m.width))
}

func boundLabel(v float64) string {
	if v <= 0 {
		return "-"
	}
	return timecode.Format(v)
}

func (m *Model) renderHelp() string {
	help := "Tabs: tab/1-3  Wave: left/right  Toggle: space  Solo: enter  Mode: m  Splits: s  Date: d  Bounds: /  Reload: r  Quit: q"
	return headerStyle.Render(truncateLine(help, m.width))
}

func (m *Model) renderFilterHelp() string {
	return headerStyle.Render("tab/shift+tab: next field  enter: apply  esc: cancel")
}

func (m *Model) renderFooter() string {
	if m.filterMode {
		return m.renderFilterHelp()
	}
	if m.errMsg != "" {
		return m.renderHelp() + "\n" + errorStyle.Render(m.errMsg)
	}
	return m.renderHelp()
}

func (m *Model) renderFilterForm() string {
	lines := []string{"Bounds (enter to apply, esc to cancel)"}
	for _, input := range m.filterInputs {
		lines = append(lines, input.View())
	}
	if m.filterError != "" {
		lines = append(lines, errorStyle.Render(m.filterError))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderBody(height int) string {
	if m.filterMode {
		return fitLines(m.renderFilterForm(), m.width, height)
	}
	if m.activeTab == tabAttempts {
		if len(m.attempts) == 0 {
			return fitLines("No attempts found.", m.width, height)
		}
		return fitLines(tableMutedStyle.Render(m.attemptTable.View()), m.width, height)
	}
	return fitLines(m.viewports[m.activeTab].View(), m.width, height)
}

func (m *Model) renderTabContents() {
	if len(m.viewports) == 0 {
		return
	}
	width := m.width
	if width <= 0 {
		width = 80
	}
	m.viewports[tabChart].SetContent(m.renderChart(width))
	m.viewports[tabSummary].SetContent(renderSummary(m.report, width))
	cols, rows := buildAttemptTableData(m.attempts, m.view.Selected)
	m.attemptTable.SetRows(nil)
	m.attemptTable.SetColumns(cols)
	m.attemptTable.SetRows(rows)
}

func (m *Model) renderChart(width int) string {
	if len(m.attempts) == 0 {
		if m.loading {
			return "Loading logs..."
		}
		return "No attempts found."
	}
	var buf bytes.Buffer
	opts := stats.PlotOptions{Width: stats.PlotWidthFor(width), Height: plotHeight, ForceColor: true}
	if err := stats.RenderView(&buf, m.attempts, m.view, opts); err != nil {
		return fmt.Sprintf("Failed to render chart: %v", err)
	}
	return m.renderWaveBar() + "\n\n" + strings.TrimRight(buf.String(), "\n")
}

// renderWaveBar lists every wave in its series color; unselected waves are
// dimmed and the cursor is underlined.
func (m *Model) renderWaveBar() string {
	parts := make([]string, 0, len(m.waves))
	for i, w := range m.waves {
		style := mutedWaveStyle
		if m.view.Selected.Has(w) {
			color := series.SeriesColor(w, m.view.Theme)
			style = lipgloss.NewStyle().Foreground(lipgloss.Color(series.Hex(color)))
		}
		if i == m.cursor {
			style = style.Inherit(cursorStyle)
		}
		parts = append(parts, style.Render(string(w)))
	}
	return "Waves: " + strings.Join(parts, " ")
}

func renderSummary(r stats.Report, width int) string {
	if r.Attempts == 0 {
		return "No attempts found."
	}
	cards := []string{
		metricCard("Attempts", humanize.Comma(int64(r.Attempts))),
		metricCard("Successes", humanize.Comma(int64(r.Successes))),
		metricCard("Success rate", fmt.Sprintf("%.1f%%", r.SuccessRate*100)),
		metricCard("Personal best", timecode.FormatOptional(r.Best, r.Successes > 0)),
		metricCard("Average", timecode.FormatOptional(r.Average, r.Successes > 0)),
		metricCard("Last attempt", humanize.Time(r.Last)),
	}
	var top string
	if width < 80 {
		top = strings.Join(cards, "\n")
	} else {
		row1 := lipgloss.JoinHorizontal(lipgloss.Top, cards[0], cards[1], cards[2])
		row2 := lipgloss.JoinHorizontal(lipgloss.Top, cards[3], cards[4], cards[5])
		top = lipgloss.JoinVertical(lipgloss.Left, row1, row2)
	}
	var buf bytes.Buffer
	if err := stats.RenderWaveTable(&buf, r); err != nil {
		return top + "\n\n" + fmt.Sprintf("Failed to render wave table: %v", err)
	}
	return strings.TrimRight(top+"\n\n"+buf.String(), "\n")
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

func buildAttemptTableData(attempts model.Collection, selected model.WaveSet) ([]table.Column, []table.Row) {
	columns := []table.Column{
		{Title: "Date", Width: 16},
		{Title: "Result", Width: 7},
		{Title: "Last", Width: 4},
		{Title: "Duration", Width: 8},
	}
	var waves []model.WaveID
	for _, w := range selected.Sorted() {
		if w == model.LastWave {
			continue
		}
		waves = append(waves, w)
		columns = append(columns, table.Column{Title: string(w), Width: 16})
	}
	rows := make([]table.Row, 0, len(attempts))
	for i := len(attempts) - 1; i >= 0; i-- {
		a := attempts[i]
		result := "Fail"
		if a.Success {
			result = "Success"
		}
		row := table.Row{
			a.Timestamp.Format("2006-01-02 15:04"),
			result,
			string(a.LastWave),
			timecode.Format(a.Duration),
		}
		for _, w := range waves {
			row = append(row, waveCell(a, w))
		}
		rows = append(rows, row)
	}
	return columns, rows
}

func waveCell(a model.Attempt, w model.WaveID) string {
	if !a.Splits.Has(w) {
		return ""
	}
	split, ok := a.Splits.Get(w)
	if !ok {
		return "N/A"
	}
	if delta, ok := a.Deltas.Get(w); ok {
		return fmt.Sprintf("%s (+%s)", timecode.Format(split), timecode.Format(delta))
	}
	return timecode.Format(split)
}

func attemptTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

func (m *Model) startFilter() (tea.Model, tea.Cmd) {
	m.filterMode = true
	m.filterError = ""
	m.setInputsFromView()
	return m, m.setFilterIndex(0)
}

func (m *Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.filterMode = false
		m.filterError = ""
		return m, nil
	case tea.KeyEnter:
		if err := m.applyFilter(); err != nil {
			m.filterError = err.Error()
			return m, nil
		}
		m.filterMode = false
		m.filterError = ""
		m.refresh()
		return m, nil
	case tea.KeyTab:
		return m, m.setFilterIndex(m.filterIndex + 1)
	case tea.KeyShiftTab:
		return m, m.setFilterIndex(m.filterIndex - 1)
	}
	var cmd tea.Cmd
	m.filterInputs[m.filterIndex], cmd = m.filterInputs[m.filterIndex].Update(msg)
	return m, cmd
}

func (m *Model) setFilterIndex(idx int) tea.Cmd {
	count := len(m.filterInputs)
	if count == 0 {
		return nil
	}
	m.filterIndex = (idx + count) % count
	var cmd tea.Cmd
	for i := range m.filterInputs {
		if i == m.filterIndex {
			cmd = m.filterInputs[i].Focus()
		} else {
			m.filterInputs[i].Blur()
		}
	}
	return cmd
}

func (m *Model) applyFilter() error {
	lo, err := parseBound(m.filterInputs[0].Value())
	if err != nil {
		return err
	}
	hi, err := parseBound(m.filterInputs[1].Value())
	if err != nil {
		return err
	}
	if hi > 0 && hi < lo {
		return fmt.Errorf("max must not be below min")
	}
	exclude, err := parseBound(m.filterInputs[2].Value())
	if err != nil {
		return err
	}
	m.view.MinBound = lo
	m.view.MaxBound = hi
	m.view.ExcludeAbove = exclude
	return nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func padLines(s string, width int) string {
	if width <= 0 || s == "" {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	return strings.Join(lines, "\n")
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func truncateLine(s string, width int) string {
	if width <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}
