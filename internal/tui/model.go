// Package tui 交互式终端聊天界面。
//
// bubbletea 的 Update 循环是会话状态唯一的写入方：提交和结算都在 Update 中执行，
// 网络请求作为 tea.Cmd 在后台运行，完成后以 replyMsg 回到事件循环。
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"commercia-client/internal/conversation"
	"commercia-client/internal/model"
	"commercia-client/internal/render"
	"commercia-client/internal/service"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	headerHeight = 3
	footerHeight = 4
)

// HealthChecker 启动时探测助手服务
type HealthChecker interface {
	Health(ctx context.Context) error
}

var quickActionKeys = map[tea.KeyType]int{
	tea.KeyF1: 0,
	tea.KeyF2: 1,
	tea.KeyF3: 2,
	tea.KeyF4: 3,
}

type replyMsg struct {
	res conversation.Result
}

type healthMsg struct {
	err error
}

type Model struct {
	svc      *service.ChatService
	health   HealthChecker
	input    textinput.Model
	viewport viewport.Model
	ready    bool
	width    int

	healthErr error
}

func New(svc *service.ChatService, health HealthChecker) Model {
	input := textinput.New()
	input.Placeholder = "Digite sua mensagem..."
	input.Prompt = "› "
	input.CharLimit = 1000
	input.Focus()

	return Model{
		svc:    svc,
		health: health,
		input:  input,
	}
}

// Run 启动全屏界面，退出时关闭会话
func Run(svc *service.ChatService, health HealthChecker) error {
	defer svc.Close()

	p := tea.NewProgram(New(svc, health), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.checkHealth())
}

func (m Model) checkHealth() tea.Cmd {
	health := m.health
	return func() tea.Msg {
		if health == nil {
			return healthMsg{}
		}
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		return healthMsg{err: health.Health(ctx)}
	}
}

func (m Model) dispatch(req model.ChatRequest) tea.Cmd {
	svc := m.svc
	return func() tea.Msg {
		return replyMsg{res: svc.Dispatch(context.Background(), req)}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		height := msg.Height - headerHeight - footerHeight
		if height < 3 {
			height = 3
		}
		if !m.ready {
			m.viewport = viewport.New(msg.Width, height)
			m.viewport.KeyMap = scrollKeys()
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = height
		}
		m.input.Width = msg.Width - 4
		m.refresh()

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.svc.Close()
			return m, tea.Quit

		case tea.KeyEnter:
			req, outcome := m.svc.Submit(m.input.Value())
			if !outcome.Accepted() {
				return m, nil
			}
			m.input.Reset()
			m.refresh()
			return m, m.dispatch(req)

		case tea.KeyF1, tea.KeyF2, tea.KeyF3, tea.KeyF4:
			m.applyQuickAction(quickActionKeys[msg.Type])
			return m, nil
		}

	case replyMsg:
		m.svc.Settle(msg.res)
		m.refresh()
		return m, nil

	case healthMsg:
		m.healthErr = msg.err
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	if m.ready {
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

// applyQuickAction 只在会话仅有问候消息时生效，填充输入框但不发送
func (m *Model) applyQuickAction(index int) {
	view := render.Project(m.svc.Snapshot())
	if index < 0 || index >= len(view.QuickActions) {
		return
	}
	m.input.SetValue(view.QuickActions[index])
	m.input.CursorEnd()
}

func (m *Model) refresh() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.transcript())
	m.viewport.GotoBottom()
}

func (m Model) transcript() string {
	view := render.Project(m.svc.Snapshot())

	width := m.width - 2
	if width < 20 {
		width = 20
	}

	parts := make([]string, 0, len(view.Messages)+1)
	for _, mv := range view.Messages {
		parts = append(parts, renderMessage(mv, width))
	}
	if view.Typing != "" {
		parts = append(parts, assistantStyle.Render("🤖 ")+timeStyle.Render(view.Typing))
	}
	return strings.Join(parts, "\n\n")
}

func (m Model) View() string {
	if !m.ready {
		return "Carregando..."
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("🤖 AssistentIA"))
	b.WriteString("  ")
	b.WriteString(subtitleStyle.Render("Seu assistente virtual para e-commerce"))
	b.WriteString("\n")
	if m.healthErr != nil {
		b.WriteString(warnStyle.Render("⚠ Servidor do assistente indisponível"))
	}
	b.WriteString("\n\n")

	b.WriteString(m.viewport.View())
	b.WriteString("\n")

	view := render.Project(m.svc.Snapshot())
	if len(view.QuickActions) > 0 {
		b.WriteString(subtitleStyle.Render("Experimente algumas dessas opções:"))
		b.WriteString("\n")
		for i, action := range view.QuickActions {
			b.WriteString(subtitleStyle.Render(fmt.Sprintf("F%d %s", i+1, action)))
			b.WriteString("\n")
		}
	}

	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(timeStyle.Render("enter enviar • F1-F4 exemplos • ↑/↓ rolar • esc sair"))
	return b.String()
}

func scrollKeys() viewport.KeyMap {
	return viewport.KeyMap{
		PageDown: key.NewBinding(key.WithKeys("pgdown")),
		PageUp:   key.NewBinding(key.WithKeys("pgup")),
		Down:     key.NewBinding(key.WithKeys("down")),
		Up:       key.NewBinding(key.WithKeys("up")),
	}
}
