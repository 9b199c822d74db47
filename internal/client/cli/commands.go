package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

var errQuit = errors.New("quit")

// usageError is reported back to the user verbatim.
type usageError struct {
	usage string
}

func (e *usageError) Error() string { return "Usage: " + e.usage }

// intent is one REPL command.
type intent struct {
	name         string
	aliases      []string
	usage        string
	help         string
	needsSession bool
	run          func(a *App, ctx context.Context, args []string) error
}

// newIntents lists the commands in help order.
func newIntents() []*intent {
	return []*intent{
		{name: "help", usage: "help", help: "show available commands", run: (*App).cmdHelp},
		{name: "signup", usage: "signup", help: "create an account", run: (*App).cmdSignup},
		{name: "login", usage: "login", help: "sign in with email and password", run: (*App).cmdLogin},
		{name: "oauth", usage: "oauth <google|facebook|twitter>", help: "sign in with a provider in the browser", run: (*App).cmdOAuth},
		{name: "logout", usage: "logout", help: "sign out", needsSession: true, run: (*App).cmdLogout},
		{name: "home", usage: "home", help: "show providers and recent orders", needsSession: true, run: (*App).cmdHome},
		{name: "provider", aliases: []string{"p"}, usage: "provider <name|number>", help: "browse a provider's offers", needsSession: true, run: (*App).cmdProvider},
		{name: "offer", usage: "offer <number>", help: "show or hide an offer's purchase actions", needsSession: true, run: (*App).cmdOffer},
		{name: "buy", usage: "buy self|others", help: "buy the selected offer", needsSession: true, run: (*App).cmdBuy},
		{name: "orders", usage: "orders", help: "list recent orders", needsSession: true, run: (*App).cmdOrders},
		{name: "order", usage: "order <number>", help: "show an order", needsSession: true, run: (*App).cmdOrder},
		{name: "account", usage: "account", help: "show the account page", needsSession: true, run: (*App).cmdAccount},
		{name: "phone", usage: "phone", help: "update phone number and network", needsSession: true, run: (*App).cmdPhone},
		{name: "profile", usage: "profile", help: "edit username and phone number", needsSession: true, run: (*App).cmdProfile},
		{name: "avatar", usage: "avatar <path>", help: "upload a profile picture", needsSession: true, run: (*App).cmdAvatar},
		{name: "open", usage: "open <wallet|referrals|notifications|security|support>", help: "open an account page entry", needsSession: true, run: (*App).cmdOpen},
		{name: "back", usage: "back", help: "go back", needsSession: true, run: (*App).cmdBack},
		{name: "exit", aliases: []string{"quit"}, usage: "exit", help: "leave the program", run: func(*App, context.Context, []string) error { return errQuit }},
	}
}

func indexIntents(list []*intent) map[string]*intent {
	m := make(map[string]*intent, len(list)*2)
	for _, in := range list {
		m[in.name] = in
		for _, alias := range in.aliases {
			m[alias] = in
		}
	}
	return m
}

// dispatch runs one input line and reports whether the REPL should stop.
// Handler errors other than quit are shown to the user and never end the
// session.
func (a *App) dispatch(ctx context.Context, line string) bool {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return false
	}
	name := strings.ToLower(parts[0])

	in, ok := a.intents[name]
	if !ok {
		fmt.Fprintln(a.out, "Unknown command:", parts[0])
		return false
	}
	if in.needsSession && !a.isLoggedIn() {
		a.notify.Error(ctx, "Please login first")
		return false
	}

	err := in.run(a, ctx, parts[1:])
	var usage *usageError
	switch {
	case err == nil:
	case errors.Is(err, errQuit):
		fmt.Fprintln(a.out, "Bye!")
		return true
	case errors.Is(err, io.EOF), errors.Is(err, context.Canceled):
		a.log.Debug(ctx, "command interrupted", "command", in.name, "error", err)
	case errors.As(err, &usage):
		fmt.Fprintln(a.out, usage.Error())
	default:
		a.log.Error(ctx, "command failed", "command", in.name, "error", err)
		a.notify.Error(ctx, err.Error())
	}
	return false
}

func (a *App) cmdHelp(ctx context.Context, _ []string) error {
	loggedIn := a.isLoggedIn()
	fmt.Fprintln(a.out, "Available commands:")
	for _, in := range a.commands {
		if in.needsSession != loggedIn && in.name != "help" && in.name != "exit" {
			continue
		}
		fmt.Fprintf(a.out, "  %-58s %s\n", in.usage, in.help)
	}
	return nil
}
