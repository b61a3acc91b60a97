package smtpserver

import (
	"strings"
	"testing"
)

func crlf(s string) []byte {
	return []byte(strings.ReplaceAll(s, "\n", "\r\n"))
}

func TestParseMessageMultipart(t *testing.T) {
	raw := crlf(`From: "Lorem Weekly" <digest@lorem.example>
Reply-To: replies@lorem.example
To: news@user.example
Subject: Issue 42
MIME-Version: 1.0
Content-Type: multipart/alternative; boundary=sep

--sep
Content-Type: text/plain; charset=utf-8

Plain body
--sep
Content-Type: text/html; charset=utf-8

<p>HTML body</p>
--sep--
`)

	msg, err := parseMessage(raw)
	if err != nil {
		t.Fatalf("parseMessage() error = %v", err)
	}

	if msg.From != `"Lorem Weekly" <digest@lorem.example>` {
		t.Errorf("From = %q", msg.From)
	}
	if msg.ReplyTo != "replies@lorem.example" {
		t.Errorf("ReplyTo = %q", msg.ReplyTo)
	}
	if msg.Subject != "Issue 42" {
		t.Errorf("Subject = %q", msg.Subject)
	}
	// the html part wins over the plain one
	if !strings.Contains(msg.HTML, "<p>HTML body</p>") {
		t.Errorf("HTML = %q, want the text/html part", msg.HTML)
	}
}

func TestParseMessagePlainOnly(t *testing.T) {
	raw := crlf(`From: digest@lorem.example
To: news@user.example
Subject: Issue 43
MIME-Version: 1.0
Content-Type: text/plain; charset=utf-8

Just plain text.
`)

	msg, err := parseMessage(raw)
	if err != nil {
		t.Fatalf("parseMessage() error = %v", err)
	}

	if msg.ReplyTo != "" {
		t.Errorf("ReplyTo = %q, want empty", msg.ReplyTo)
	}
	// with no html part the plain body is kept
	if !strings.Contains(msg.HTML, "Just plain text.") {
		t.Errorf("HTML = %q, want the plain body", msg.HTML)
	}
}
