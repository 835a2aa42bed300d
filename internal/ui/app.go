// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"context"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/docchat-tui/internal/admin"
	"github.com/jeranaias/docchat-tui/internal/api"
	"github.com/jeranaias/docchat-tui/internal/chat"
	"github.com/jeranaias/docchat-tui/internal/config"
	"github.com/jeranaias/docchat-tui/internal/model"
	"github.com/jeranaias/docchat-tui/internal/search"
	"github.com/jeranaias/docchat-tui/internal/store"
	"github.com/jeranaias/docchat-tui/internal/ui/styles"
	"github.com/jeranaias/docchat-tui/internal/upload"
)

// =============================================================================
// VIEW ROUTING
// =============================================================================

// view identifies the active screen.
type view int

const (
	viewLogin view = iota
	viewChat
	viewSearch
	viewUpload
	viewProfile
	viewAdmin
)

var viewNames = map[view]string{
	viewLogin:   "Login",
	viewChat:    "Chat",
	viewSearch:  "Search",
	viewUpload:  "Upload",
	viewProfile: "Profile",
	viewAdmin:   "Admin",
}

// Deps bundles everything the application needs, wired in main.
type Deps struct {
	Config *config.Config
	Theme  *styles.Theme
	API    *api.Client
	Tokens store.Store
	Chat   *chat.Controller
	Dialer chat.Dialer
	Search *search.Controller
	Upload *upload.Controller
	Admin  *admin.Client
	Hub    *Hub
}

// App is the root Bubble Tea model.
type App struct {
	deps  Deps
	theme *styles.Theme

	active view
	width  int
	height int
	status string

	session *chat.DuplexSession

	login   loginModel
	chat    chatModel
	search  searchModel
	upload  uploadModel
	profile profileModel
	admin   adminModel
}

// NewApp builds the application model. The initial view is chat when a
// usable token is already stored, login otherwise.
func NewApp(deps Deps) App {
	app := App{
		deps:    deps,
		theme:   deps.Theme,
		active:  viewLogin,
		login:   newLoginModel(deps),
		chat:    newChatModel(deps),
		search:  newSearchModel(deps),
		upload:  newUploadModel(deps),
		profile: newProfileModel(deps),
		admin:   newAdminModel(deps),
	}
	if token, ok := deps.Tokens.Get(store.KeyUserToken); ok && !store.TokenExpired(token) {
		// Resuming straight into chat. The session is built here; Init
		// receives a copy and cannot keep the handle.
		app.active = viewChat
		app.session = app.newSession()
	}
	return app
}

// Init starts the duplex channel when the session resumes directly into
// the chat view.
func (a App) Init() tea.Cmd {
	if a.active == viewChat {
		return tea.Batch(a.chat.focus(), startSession(a.session))
	}
	return a.login.focus()
}

// newSession builds the persistent chat channel, routing its events
// through the hub.
func (a App) newSession() *chat.DuplexSession {
	hub := a.deps.Hub
	reconnect := a.deps.Config.Reconnect
	return chat.NewDuplexSession(a.deps.Dialer, a.deps.Config.ChatSocketURL(), a.deps.Chat, chat.Callbacks{
		OnState:  func(s chat.ConnectionState) { hub.Dispatch(ConnStateMsg{State: s}) },
		OnReply:  func(m model.Message) { hub.Dispatch(ChatReplyMsg{Message: m}) },
		OnNotice: func(kind model.EnvelopeType, text string) { hub.Dispatch(ChatNoticeMsg{Kind: kind, Text: text}) },
	}).WithTuning(chat.ReconnectTuning{
		MaxAttempts: reconnect.MaxAttempts,
		BaseDelay:   time.Duration(reconnect.BaseDelaySecs) * time.Second,
		MaxDelay:    time.Duration(reconnect.MaxDelaySecs) * time.Second,
	})
}

// startSession is the command that launches a built session's driver.
func startSession(session *chat.DuplexSession) tea.Cmd {
	if session == nil {
		return nil
	}
	return func() tea.Msg {
		session.Start(context.Background())
		return nil
	}
}

// openDuplex builds and starts the chat channel if none is live.
func (a *App) openDuplex() tea.Cmd {
	if a.session != nil {
		return nil
	}
	a.session = a.newSession()
	return startSession(a.session)
}

// closeDuplex releases the channel; leaving the chat view must not leak
// a live connection or reconnect against a view no longer listening.
func (a *App) closeDuplex() {
	if a.session != nil {
		a.session.Close()
		a.session = nil
	}
}

// =============================================================================
// UPDATE
// =============================================================================

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.chat.resize(msg.Width, msg.Height)
		a.search.resize(msg.Width, msg.Height)
		a.admin.resize(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			a.closeDuplex()
			return a, tea.Quit
		case "f1":
			return a.switchTo(viewChat)
		case "f2":
			return a.switchTo(viewSearch)
		case "f3":
			return a.switchTo(viewUpload)
		case "f4":
			return a.switchTo(viewProfile)
		case "f5":
			return a.switchTo(viewAdmin)
		case "f10":
			return a.logout()
		}

	case LoginResultMsg:
		var cmd tea.Cmd
		a.login, cmd = a.login.update(msg)
		if msg.Err == nil {
			if msg.Admin {
				next, switchCmd := a.switchTo(viewAdmin)
				return next, tea.Batch(cmd, switchCmd)
			}
			next, switchCmd := a.switchTo(viewChat)
			return next, tea.Batch(cmd, switchCmd)
		}
		return a, cmd

	case ConnStateMsg, ChatReplyMsg, ChatNoticeMsg, ChatTurnMsg:
		var cmd tea.Cmd
		a.chat, cmd = a.chat.update(msg, a.session)
		return a, cmd

	case SearchDoneMsg:
		var cmd tea.Cmd
		a.search, cmd = a.search.update(msg)
		return a, cmd

	case UploadProgressMsg, UploadDoneMsg:
		var cmd tea.Cmd
		a.upload, cmd = a.upload.update(msg)
		return a, cmd

	case ProfileLoadedMsg:
		var cmd tea.Cmd
		a.profile, cmd = a.profile.update(msg)
		return a, cmd

	case UsersLoadedMsg, DocumentsLoadedMsg, AdminActionMsg:
		var cmd tea.Cmd
		a.admin, cmd = a.admin.update(msg)
		return a, cmd
	}

	// Everything else goes to the active view
	var cmd tea.Cmd
	switch a.active {
	case viewLogin:
		a.login, cmd = a.login.update(msg)
	case viewChat:
		a.chat, cmd = a.chat.update(msg, a.session)
	case viewSearch:
		a.search, cmd = a.search.update(msg)
	case viewUpload:
		a.upload, cmd = a.upload.update(msg)
	case viewProfile:
		a.profile, cmd = a.profile.update(msg)
	case viewAdmin:
		a.admin, cmd = a.admin.update(msg)
	}
	return a, cmd
}

// switchTo activates a view, managing the duplex channel lifecycle and
// kicking off the view's load command.
func (a App) switchTo(target view) (tea.Model, tea.Cmd) {
	if a.active == viewLogin {
		// Leaving login is only possible through LoginResultMsg
		if _, ok := a.deps.Tokens.Get(store.KeyUserToken); !ok && target != viewAdmin {
			return a, nil
		}
	}
	if target == viewAdmin {
		if _, ok := a.deps.Tokens.Get(store.KeyAdminToken); !ok {
			a.status = "Admin access requires an admin login"
			return a, nil
		}
	}

	var cmds []tea.Cmd
	if a.active == viewChat && target != viewChat {
		a.closeDuplex()
	}
	a.active = target
	a.status = ""

	switch target {
	case viewChat:
		cmds = append(cmds, a.chat.focus(), a.openDuplex())
	case viewSearch:
		cmds = append(cmds, a.search.focus())
	case viewUpload:
		cmds = append(cmds, a.upload.focus())
	case viewProfile:
		cmds = append(cmds, a.profile.focus(), a.profile.load())
	case viewAdmin:
		cmds = append(cmds, a.admin.focus(), a.admin.load())
	}
	return a, tea.Batch(cmds...)
}

// logout clears both token namespaces and returns to the login view.
func (a App) logout() (tea.Model, tea.Cmd) {
	a.closeDuplex()
	a.deps.API.Logout(store.KeyUserToken)
	a.deps.API.Logout(store.KeyAdminToken)
	a.active = viewLogin
	a.login = newLoginModel(a.deps)
	return a, a.login.focus()
}

// =============================================================================
// VIEW
// =============================================================================

func (a App) View() string {
	var b strings.Builder

	b.WriteString(a.theme.Header.Render("DocChat"))
	b.WriteString("  ")
	if a.active != viewLogin {
		for _, v := range []view{viewChat, viewSearch, viewUpload, viewProfile, viewAdmin} {
			if v == a.active {
				b.WriteString(a.theme.TabOn.Render(viewNames[v]))
			} else {
				b.WriteString(a.theme.Tab.Render(viewNames[v]))
			}
		}
	}
	b.WriteString("\n\n")

	switch a.active {
	case viewLogin:
		b.WriteString(a.login.view())
	case viewChat:
		b.WriteString(a.chat.view())
	case viewSearch:
		b.WriteString(a.search.view())
	case viewUpload:
		b.WriteString(a.upload.view())
	case viewProfile:
		b.WriteString(a.profile.view())
	case viewAdmin:
		b.WriteString(a.admin.view())
	}

	if a.status != "" {
		b.WriteString("\n")
		b.WriteString(a.theme.Warning.Render(a.status))
	}

	b.WriteString("\n")
	b.WriteString(a.theme.StatusBar.Render(a.helpLine()))
	return a.theme.App.Render(b.String())
}

func (a App) helpLine() string {
	if a.active == viewLogin {
		return "enter: sign in • tab: next field • ctrl+a: admin login • ctrl+c: quit"
	}
	return "F1 chat • F2 search • F3 upload • F4 profile • F5 admin • F10 logout • ctrl+c quit"
}
