package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"gitscope.dev/gitscope/internal/ops"
	"gitscope.dev/gitscope/internal/repo"
)

// BatchProgress displays the progress of a cherry-pick or revert batch
type BatchProgress interface {
	// Start initializes the display with the commits of the batch
	Start(operation string, hashes []string)
	// Step records one progress report from ops
	Step(step ops.Step)
	// Complete finalizes the display with the batch result
	Complete(result repo.OperationResult)
}

// NewBatchProgress picks the animated display when out is a terminal
func NewBatchProgress(in io.Reader, out io.Writer, tty bool) BatchProgress {
	if tty {
		return NewTTYBatchProgress(in, out)
	}
	return NewSimpleBatchProgress(out)
}

type stepState int

const (
	statePending stepState = iota
	stateRunning
	stateDone
	stateFailed
)

type batchItem struct {
	hash  string
	state stepState
	err   error
}

func (it *batchItem) apply(step ops.Step) {
	switch {
	case !step.Done:
		it.state = stateRunning
	case step.Err != nil:
		it.state, it.err = stateFailed, step.Err
	default:
		it.state = stateDone
	}
}

// SimpleBatchProgress prints one line per event (non-TTY)
type SimpleBatchProgress struct {
	out       io.Writer
	operation string
	items     []batchItem
}

// NewSimpleBatchProgress creates a line-oriented progress display
func NewSimpleBatchProgress(out io.Writer) *SimpleBatchProgress {
	return &SimpleBatchProgress{out: out}
}

func (p *SimpleBatchProgress) Start(operation string, hashes []string) {
	p.operation = operation
	p.items = newBatchItems(hashes)
}

func (p *SimpleBatchProgress) Step(step ops.Step) {
	if step.Index >= len(p.items) {
		return
	}
	item := &p.items[step.Index]
	item.apply(step)

	prefix := fmt.Sprintf("[%d/%d]", step.Index+1, step.Total)
	switch item.state {
	case stateRunning:
		fmt.Fprintf(p.out, "  %s ⋯ %s %s...\n", prefix, p.operation, shortHash(item.hash))
	case stateDone:
		fmt.Fprintf(p.out, "  %s ✓ %s\n", prefix, shortHash(item.hash))
	case stateFailed:
		fmt.Fprintf(p.out, "  %s ✗ %s failed: %v\n", prefix, shortHash(item.hash), item.err)
	}
}

func (p *SimpleBatchProgress) Complete(result repo.OperationResult) {
	fmt.Fprintln(p.out)
	fmt.Fprint(p.out, RenderResult(result))
}

// TTYBatchProgress renders an animated list with bubbletea
type TTYBatchProgress struct {
	in      io.Reader
	out     io.Writer
	program *tea.Program
	done    chan struct{}
}

// NewTTYBatchProgress creates an animated progress display
func NewTTYBatchProgress(in io.Reader, out io.Writer) *TTYBatchProgress {
	return &TTYBatchProgress{in: in, out: out}
}

func (p *TTYBatchProgress) Start(operation string, hashes []string) {
	model := newBatchModel(operation, hashes)
	p.program = tea.NewProgram(model, tea.WithInput(p.in), tea.WithOutput(p.out))
	p.done = make(chan struct{})

	go func() {
		defer close(p.done)
		_, _ = p.program.Run()
	}()
}

func (p *TTYBatchProgress) Step(step ops.Step) {
	if p.program == nil {
		return
	}
	p.program.Send(stepMsg(step))
}

func (p *TTYBatchProgress) Complete(result repo.OperationResult) {
	if p.program == nil {
		return
	}
	p.program.Send(batchDoneMsg{result: result})
	<-p.done
}

type stepMsg ops.Step

type batchDoneMsg struct {
	result repo.OperationResult
}

type batchModel struct {
	operation string
	items     []batchItem
	spinner   spinner.Model
	result    *repo.OperationResult
}

func newBatchItems(hashes []string) []batchItem {
	items := make([]batchItem, len(hashes))
	for i, h := range hashes {
		items[i] = batchItem{hash: h}
	}
	return items
}

func newBatchModel(operation string, hashes []string) *batchModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle

	return &batchModel{
		operation: operation,
		items:     newBatchItems(hashes),
		spinner:   s,
	}
}

func (m *batchModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m *batchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// The batch keeps running; only the display stops.
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case stepMsg:
		if msg.Index < len(m.items) {
			m.items[msg.Index].apply(ops.Step(msg))
		}
		return m, nil

	case batchDoneMsg:
		m.result = &msg.result
		return m, tea.Quit
	}

	return m, nil
}

func (m *batchModel) View() string {
	var b strings.Builder
	b.WriteString("\n")

	for _, item := range m.items {
		var icon, status string
		switch item.state {
		case statePending:
			icon = dimStyle.Render("○")
			status = dimStyle.Render("pending")
		case stateRunning:
			icon = m.spinner.View()
			status = spinnerStyle.Render(m.operation + "...")
		case stateDone:
			icon = doneStyle.Render("✓")
			status = doneStyle.Render("applied")
		case stateFailed:
			icon = errorStyle.Render("✗")
			status = errorStyle.Render("failed")
		}

		line := fmt.Sprintf("  %s %s %s", icon, hashStyle.Render(shortHash(item.hash)), status)
		if item.state == stateFailed && item.err != nil {
			line += " " + errorStyle.Render(item.err.Error())
		}
		b.WriteString(line + "\n")
	}

	if m.result != nil {
		b.WriteString("\n" + RenderResult(*m.result))
	}
	return b.String()
}
