package smtpserver

import (
	"bytes"
	"io"

	"github.com/emersion/go-message/mail"
)

// parsedMessage holds the normalized fields extracted from a raw
// inbound message.
type parsedMessage struct {
	From    string // raw header value, display name preserved
	ReplyTo string
	Subject string
	HTML    string // text/html part; text/plain when no HTML part exists
}

// parseMessage extracts headers and the displayable body from a raw
// RFC 5322 message. This is not a general MIME walker: it keeps the
// first text/html part, falling back to the first text/plain part,
// and ignores everything else (attachments included).
func parseMessage(data []byte) (parsedMessage, error) {
	mr, err := mail.CreateReader(bytes.NewReader(data))
	if err != nil {
		return parsedMessage{}, err
	}

	var msg parsedMessage
	msg.From = mr.Header.Get("From")
	msg.ReplyTo = mr.Header.Get("Reply-To")
	if subject, err := mr.Header.Subject(); err == nil {
		msg.Subject = subject
	}

	var plain string
	for {
		p, err := mr.NextPart()
		if err == io.EOF {
			break
		} else if err != nil {
			return parsedMessage{}, err
		}

		h, ok := p.Header.(*mail.InlineHeader)
		if !ok {
			continue
		}
		contentType, _, err := h.ContentType()
		if err != nil {
			continue
		}

		switch contentType {
		case "text/html":
			if msg.HTML == "" {
				body, err := io.ReadAll(p.Body)
				if err != nil {
					continue
				}
				msg.HTML = string(body)
			}
		case "text/plain":
			if plain == "" {
				body, err := io.ReadAll(p.Body)
				if err != nil {
					continue
				}
				plain = string(body)
			}
		}
	}

	if msg.HTML == "" {
		msg.HTML = plain
	}

	return msg, nil
}
