package telegram

import (
	"testing"

	tele "gopkg.in/telebot.v4"
)

func noopHandler(tele.Context) error { return nil }

func TestRegisterCommandValidation(t *testing.T) {
	r := NewRegistry()
	r.RegisterCommand("", Command{Handler: noopHandler, Description: "x"})
	r.RegisterCommand("/ok", Command{Description: "no handler"})
	r.RegisterCommand("noslash", Command{Handler: noopHandler, Description: "x"})
	if len(r.Commands()) != 0 {
		t.Fatalf("invalid registrations accepted: %v", r.Commands())
	}

	r.RegisterCommand("/order", Command{Handler: noopHandler, Description: "place an order"})
	if len(r.Commands()) != 1 {
		t.Fatal("valid registration dropped")
	}
}

func TestRegisterCommandDuplicateKeepsFirst(t *testing.T) {
	r := NewRegistry()
	r.RegisterCommand("/order", Command{Handler: noopHandler, Description: "first"})
	r.RegisterCommand("/order", Command{Handler: noopHandler, Description: "second"})

	_, cmd, ok := r.LookupCommand("/order")
	if !ok || cmd.Description != "first" {
		t.Fatalf("duplicate overwrote original: %+v", cmd)
	}
}

func TestLookupCommandAliases(t *testing.T) {
	r := NewRegistry()
	r.RegisterCommand("/order", Command{
		Handler:     noopHandler,
		Description: "place an order",
		Aliases:     []string{"buy"},
	})

	key, _, ok := r.LookupCommand("order")
	if !ok || key != "/order" {
		t.Fatalf("lookup without slash failed: %s %v", key, ok)
	}
	key, _, ok = r.LookupCommand("/buy")
	if !ok || key != "/order" {
		t.Fatalf("alias lookup failed: %s %v", key, ok)
	}
	if _, _, ok := r.LookupCommand("/nope"); ok {
		t.Fatal("unknown command resolved")
	}
}

func TestListCommandsSortedAndFiltered(t *testing.T) {
	r := NewRegistry()
	r.RegisterCommand("/start", Command{Handler: noopHandler, Description: "greeting"})
	r.RegisterCommand("/order", Command{Handler: noopHandler, Description: "place an order"})
	r.RegisterCommand("/debug", Command{Handler: noopHandler, Description: "internals", Hidden: true})

	visible := r.ListCommands(true)
	if len(visible) != 2 {
		t.Fatalf("expected 2 visible commands, got %d", len(visible))
	}
	if visible[0].Text != "/order" || visible[1].Text != "/start" {
		t.Fatalf("commands not sorted: %+v", visible)
	}

	if all := r.ListCommands(false); len(all) != 3 {
		t.Fatalf("expected 3 commands, got %d", len(all))
	}
}

func TestRegisterCallback(t *testing.T) {
	r := NewRegistry()
	if err := r.RegisterCallback("catalog_item", noopHandler); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := r.RegisterCallback("catalog_item", noopHandler); err == nil {
		t.Fatal("duplicate callback accepted")
	}
	if err := r.RegisterCallback("", noopHandler); err == nil {
		t.Fatal("empty key accepted")
	}
	if err := r.RegisterCallback("x", nil); err == nil {
		t.Fatal("nil handler accepted")
	}

	if _, ok := r.GetCallback("catalog_item"); !ok {
		t.Fatal("registered callback not found")
	}
	if _, ok := r.GetCallback("nope"); ok {
		t.Fatal("unknown callback found")
	}

	keys := r.ListCallbacks()
	if len(keys) != 1 || keys[0] != "catalog_item" {
		t.Fatalf("unexpected callback keys: %v", keys)
	}
}

func TestFallbackHandlers(t *testing.T) {
	r := NewRegistry()
	if r.CallbackNotFound() == nil {
		t.Fatal("expected default callback fallback")
	}
	r.SetCallbackNotFound(nil)
	if r.CallbackNotFound() == nil {
		t.Fatal("nil must not clear the callback fallback")
	}

	if r.TextFallback() != nil {
		t.Fatal("unexpected default text fallback")
	}
	r.SetTextFallback(noopHandler)
	if r.TextFallback() == nil {
		t.Fatal("text fallback not set")
	}
}
