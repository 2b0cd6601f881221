// Package ui is the terminal dashboard: a status header over four pages
// for browsing predictions, trading in auto mode, reviewing positions and
// managing funds.
package ui

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rustyeddy/rnndash/dashboard"
	"github.com/rustyeddy/rnndash/ledger"
	"github.com/rustyeddy/rnndash/market"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type page int

const (
	pageVisualize page = iota
	pageAuto
	pagePositions
	pageFunds
	pageCount
)

var pageTitles = [pageCount]string{"Visualize", "Auto mode", "Positions", "Funds"}

func (p page) String() string { return pageTitles[p] }

const (
	viewStep     = 10
	tableHeight  = 10
	defaultStake = 500
)

var stakeStep = decimal.NewFromInt(100)

const (
	inputDeposit = iota
	inputWithdraw
)

type Model struct {
	session  *dashboard.Session
	log      *zap.Logger
	keys     KeyMap
	help     help.Model
	styles   styles
	currency string

	page   page
	width  int
	height int

	// Visualize
	instruments []market.Instrument
	instIdx     int
	start, end  int
	view        dashboard.View
	data        table.Model

	// Auto mode
	direction ledger.Direction
	stake     decimal.Decimal

	// Positions
	positions   table.Model
	positionIDs []int

	// Funds
	inputs [2]textinput.Model
	focus  int

	status    string
	statusErr bool
}

type Option func(*Model)

func WithLogger(log *zap.Logger) Option {
	return func(m *Model) { m.log = log }
}

// WithCurrency sets the symbol printed in front of amounts.
func WithCurrency(symbol string) Option {
	return func(m *Model) { m.currency = symbol }
}

func New(s *dashboard.Session, opts ...Option) Model {
	m := Model{
		session:   s,
		log:       zap.NewNop(),
		keys:      DefaultKeyMap(),
		help:      help.New(),
		styles:    defaultStyles(),
		currency:  "€",
		direction: ledger.Long,
		stake:     decimal.NewFromInt(defaultStake),
		end:       math.MaxInt,
	}
	for _, opt := range opts {
		opt(&m)
	}

	m.instruments = s.Instruments()
	m.data = table.New(
		table.WithColumns([]table.Column{
			{Title: "Day", Width: 12},
			{Title: "Actual", Width: 12},
			{Title: "RNN prediction", Width: 14},
			{Title: "Error", Width: 10},
		}),
		table.WithHeight(tableHeight),
		table.WithFocused(true),
	)
	m.positions = table.New(
		table.WithColumns([]table.Column{
			{Title: "#", Width: 4},
			{Title: "Status", Width: 7},
			{Title: "Dir", Width: 6},
			{Title: "Stake", Width: 11},
			{Title: "Entry", Width: 10},
			{Title: "Exit", Width: 10},
			{Title: "Change", Width: 9},
			{Title: "Profit", Width: 11},
			{Title: "Opened", Width: 19},
			{Title: "Closed", Width: 19},
		}),
		table.WithHeight(tableHeight),
		table.WithFocused(true),
	)
	for i, label := range []string{"Deposit  ", "Withdraw "} {
		ti := textinput.New()
		ti.Prompt = label
		ti.Placeholder = "0.00"
		ti.CharLimit = 16
		ti.Width = 16
		m.inputs[i] = ti
	}

	m.refreshView()
	m.refreshPositions()
	m.clampStake()
	return m
}

// Run starts the dashboard in the alternate screen and blocks until the
// user quits.
func Run(m Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// The funds page owns printable keys while a field is being edited.
	typing := m.page == pageFunds

	switch {
	case key.Matches(msg, m.keys.ForceQuit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Quit) && !typing:
		return m, tea.Quit
	case key.Matches(msg, m.keys.NextPage):
		cmd := m.setPage((m.page + 1) % pageCount)
		return m, cmd
	case key.Matches(msg, m.keys.PrevPage):
		cmd := m.setPage((m.page + pageCount - 1) % pageCount)
		return m, cmd
	case key.Matches(msg, m.keys.GoTo) && !typing:
		cmd := m.setPage(page(msg.String()[0] - '1'))
		return m, cmd
	case key.Matches(msg, m.keys.Help) && !typing:
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	switch m.page {
	case pageVisualize:
		return m.updateVisualize(msg)
	case pageAuto:
		return m.updateAuto(msg)
	case pagePositions:
		return m.updatePositions(msg)
	case pageFunds:
		return m.updateFunds(msg)
	}
	return m, nil
}

func (m *Model) setPage(p page) tea.Cmd {
	m.page = p
	m.status = ""

	var cmd tea.Cmd
	switch p {
	case pagePositions:
		m.refreshPositions()
	case pageAuto:
		m.clampStake()
	case pageFunds:
		cmd = m.focusInput(m.focus)
	}
	if p != pageFunds {
		for i := range m.inputs {
			m.inputs[i].Blur()
		}
	}
	return cmd
}

func (m Model) updateVisualize(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Instrument):
		if len(m.instruments) > 0 {
			m.instIdx = (m.instIdx + 1) % len(m.instruments)
			m.start, m.end = 0, math.MaxInt
		}
	case key.Matches(msg, m.keys.Earlier):
		m.start -= viewStep
		m.end -= viewStep
	case key.Matches(msg, m.keys.Later):
		m.start += viewStep
		m.end += viewStep
	case key.Matches(msg, m.keys.Widen):
		m.end += viewStep
	case key.Matches(msg, m.keys.Narrow):
		m.end -= viewStep
	case key.Matches(msg, m.keys.Reset):
		m.start, m.end = 0, math.MaxInt
	default:
		var cmd tea.Cmd
		m.data, cmd = m.data.Update(msg)
		return m, cmd
	}
	m.refreshView()
	return m, nil
}

func (m Model) updateAuto(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Toggle):
		if m.session.ToggleAutoMode() {
			m.setStatus("auto mode enabled")
		} else {
			m.setStatus("auto mode disabled")
		}
	case key.Matches(msg, m.keys.Direction):
		if m.direction == ledger.Long {
			m.direction = ledger.Short
		} else {
			m.direction = ledger.Long
		}
	case key.Matches(msg, m.keys.StakeUp):
		m.stake = m.stake.Add(stakeStep)
		m.clampStake()
	case key.Matches(msg, m.keys.StakeDown):
		m.stake = m.stake.Sub(stakeStep)
		m.clampStake()
	case key.Matches(msg, m.keys.Open):
		p, err := m.session.OpenPosition(m.direction, m.stake)
		if err != nil {
			m.setError(err)
			break
		}
		m.log.Info("opened from dashboard", zap.Int("id", p.ID))
		m.setStatus(fmt.Sprintf("opened position #%d: %s %s @ %s",
			p.ID, p.Direction, m.money(p.Stake), p.EntryPrice.StringFixed(2)))
		m.refreshPositions()
		m.clampStake()
	}
	return m, nil
}

func (m Model) updatePositions(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Close):
		cur := m.positions.Cursor()
		if cur < 0 || cur >= len(m.positionIDs) {
			return m, nil
		}
		p, err := m.session.ClosePosition(m.positionIDs[cur])
		if err != nil {
			m.setError(err)
			return m, nil
		}
		m.setStatus(fmt.Sprintf("closed position #%d: profit %s", p.ID, m.money(*p.Profit)))
		m.refreshPositions()
	case key.Matches(msg, m.keys.CloseAll):
		closed, err := m.session.CloseAll()
		if err != nil {
			m.setError(err)
			return m, nil
		}
		m.setStatus(fmt.Sprintf("closed %d positions", len(closed)))
		m.refreshPositions()
	default:
		var cmd tea.Cmd
		m.positions, cmd = m.positions.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) updateFunds(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Switch):
		cmd := m.focusInput(1 - m.focus)
		return m, cmd
	case key.Matches(msg, m.keys.Clear):
		for i := range m.inputs {
			m.inputs[i].SetValue("")
		}
		m.status = ""
		return m, nil
	case key.Matches(msg, m.keys.Submit):
		m.submitFunds()
		return m, nil
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m *Model) submitFunds() {
	dep, err := parseAmount(m.inputs[inputDeposit].Value())
	if err != nil {
		m.setError(fmt.Errorf("deposit: %w", err))
		return
	}
	wd, err := parseAmount(m.inputs[inputWithdraw].Value())
	if err != nil {
		m.setError(fmt.Errorf("withdraw: %w", err))
		return
	}

	if _, err := m.session.UpdateFunds(dep, wd); err != nil {
		m.setError(err)
		return
	}
	for i := range m.inputs {
		m.inputs[i].SetValue("")
	}
	m.setStatus("balance updated: " + m.money(m.session.Summary().Balance))
	m.clampStake()
}

func (m *Model) focusInput(i int) tea.Cmd {
	m.focus = i
	for j := range m.inputs {
		if j != i {
			m.inputs[j].Blur()
		}
	}
	return m.inputs[i].Focus()
}

func (m *Model) refreshView() {
	if len(m.instruments) == 0 {
		m.view = dashboard.View{}
		m.data.SetRows(nil)
		return
	}

	v, err := m.session.View(m.instruments[m.instIdx], m.start, m.end)
	if err != nil {
		m.setError(err)
		return
	}
	m.view = v
	m.start, m.end = v.Start, v.End

	rows := make([]table.Row, len(v.Records))
	for i, r := range v.Records {
		day := r.Day
		if day == "" {
			day = strconv.Itoa(r.Index)
		}
		rows[i] = table.Row{day, r.Actual.StringFixed(2), r.Predicted.StringFixed(2), r.Error().StringFixed(2)}
	}
	m.data.SetRows(rows)
	m.data.SetCursor(0)
}

func (m *Model) refreshPositions() {
	list := m.session.Positions()
	rows := make([]table.Row, len(list))
	m.positionIDs = make([]int, len(list))
	for i, p := range list {
		m.positionIDs[i] = p.ID
		row := table.Row{
			"#" + strconv.Itoa(p.ID),
			p.Status.String(),
			p.Direction.String(),
			p.Stake.StringFixed(2),
			p.EntryPrice.StringFixed(2),
			"", "", "",
			p.OpenedAt.Format("2006-01-02 15:04:05"),
			"",
		}
		if !p.IsOpen() {
			row[5] = p.ExitPrice.StringFixed(2)
			row[6] = p.PriceChange.StringFixed(4)
			row[7] = p.Profit.StringFixed(2)
			row[9] = p.ClosedAt.Format("2006-01-02 15:04:05")
		}
		rows[i] = row
	}
	m.positions.SetRows(rows)
	if m.positions.Cursor() >= len(rows) {
		m.positions.SetCursor(max(0, len(rows)-1))
	}
}

func (m *Model) clampStake() {
	lo, hi, ok := m.session.StakeBounds()
	if !ok {
		return
	}
	if m.stake.LessThan(lo) {
		m.stake = lo
	}
	if m.stake.GreaterThan(hi) {
		m.stake = hi
	}
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.statusErr = false
}

func (m *Model) setError(err error) {
	m.status = err.Error()
	m.statusErr = true
	m.log.Debug("dashboard action failed", zap.Error(err))
}

var errNegative = errors.New("amount must not be negative")

// parseAmount reads a form field. Empty means zero and thousands
// separators are ignored.
func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%q is not a number", s)
	}
	if d.IsNegative() {
		return decimal.Zero, errNegative
	}
	return d, nil
}
