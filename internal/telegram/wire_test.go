package telegram

import (
	"testing"
	"time"

	tele "gopkg.in/telebot.v4"
)

func TestParseCallbackData(t *testing.T) {
	cases := []struct {
		name    string
		cb      *tele.Callback
		key     string
		payload string
	}{
		{"nil", nil, "", ""},
		{"unique set", &tele.Callback{Unique: "catalog_item", Data: "bread"}, "catalog_item", "bread"},
		{"encoded data", &tele.Callback{Data: "\\fcatalog_item|bread"}, "catalog_item", "bread"},
		{"encoded no payload", &tele.Callback{Data: "\\fcatalog_item"}, "catalog_item", ""},
		{"plain data", &tele.Callback{Data: "catalog_item|milk"}, "catalog_item", "milk"},
		{"empty", &tele.Callback{}, "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			key, payload := ParseCallbackData(tc.cb)
			if key != tc.key || payload != tc.payload {
				t.Fatalf("got (%q, %q), want (%q, %q)", key, payload, tc.key, tc.payload)
			}
		})
	}
}

func TestInlineButtonsOneRowPerButton(t *testing.T) {
	markup := InlineButtons([]InlineBtn{
		{Text: "Apples — 120", Unique: "catalog_item", Data: "apple"},
		{Text: "Milk — 80", Unique: "catalog_item", Data: "milk"},
	})

	rows := markup.InlineKeyboard
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	for _, row := range rows {
		if len(row) != 1 {
			t.Fatalf("expected 1 button per row, got %d", len(row))
		}
	}
	if rows[0][0].Text != "Apples — 120" || rows[0][0].Unique != "catalog_item" || rows[0][0].Data != "apple" {
		t.Fatalf("unexpected first button: %+v", rows[0][0])
	}
}

func TestInlineButtonsRows(t *testing.T) {
	markup := InlineButtonsRows(
		[]InlineBtn{{Text: "A", Unique: "k", Data: "a"}, {Text: "B", Unique: "k", Data: "b"}},
		[]InlineBtn{{Text: "C", Unique: "k", Data: "c"}},
	)
	rows := markup.InlineKeyboard
	if len(rows) != 2 || len(rows[0]) != 2 || len(rows[1]) != 1 {
		t.Fatalf("unexpected layout: %v", rows)
	}
}

func TestRemoveKeyboard(t *testing.T) {
	if !RemoveKeyboard().RemoveKeyboard {
		t.Fatal("expected RemoveKeyboard flag")
	}
}

func TestBuildPollerLongpoll(t *testing.T) {
	p := BuildPoller(PollerOptions{RunMode: RunModeLongpoll})
	lp, ok := p.(*tele.LongPoller)
	if !ok {
		t.Fatalf("expected LongPoller, got %T", p)
	}
	if lp.Timeout != 10*time.Second {
		t.Fatalf("expected default 10s timeout, got %v", lp.Timeout)
	}

	p = BuildPoller(PollerOptions{RunMode: RunModeLongpoll, LongPollTimeoutSeconds: 25})
	if lp := p.(*tele.LongPoller); lp.Timeout != 25*time.Second {
		t.Fatalf("expected 25s timeout, got %v", lp.Timeout)
	}
}

func TestBuildPollerWebhook(t *testing.T) {
	p := BuildPoller(PollerOptions{
		RunMode: RunModeWebhook,
		Webhook: WebhookOptions{Listen: "0.0.0.0", Port: 8443, URL: "https://bot.example.com/hook"},
	})
	wh, ok := p.(*tele.Webhook)
	if !ok {
		t.Fatalf("expected Webhook, got %T", p)
	}
	if wh.Listen != "0.0.0.0:8443" {
		t.Fatalf("unexpected listen address: %s", wh.Listen)
	}
	if wh.Endpoint == nil || wh.Endpoint.PublicURL != "https://bot.example.com/hook" {
		t.Fatalf("unexpected endpoint: %+v", wh.Endpoint)
	}
}

func TestBuildPollerUnknownModeFallsBackToLongpoll(t *testing.T) {
	if _, ok := BuildPoller(PollerOptions{RunMode: "Polling"}).(*tele.LongPoller); !ok {
		t.Fatal("expected longpoll fallback")
	}
}
