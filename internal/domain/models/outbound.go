package models

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// maxMessageRunes is the Cloud API limit for a text body.
const maxMessageRunes = 4096

// OutboundMessage is a text notification pushed to an operator's phone.
type OutboundMessage struct {
	To         string `json:"to" binding:"required"`
	Message    string `json:"message" binding:"required"`
	PreviewURL bool   `json:"preview_url"`
}

// Normalize reduces To to its digits ("+82 10-1234-5678" becomes
// "821012345678") and checks the message fits a single text body.
func (m OutboundMessage) Normalize() (OutboundMessage, error) {
	m.To = strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, m.To)
	m.Message = strings.TrimSpace(m.Message)

	switch {
	case m.To == "":
		return m, &FieldError{Field: "to", Reason: "must contain a phone number"}
	case m.Message == "":
		return m, &FieldError{Field: "message", Reason: "must not be empty"}
	case utf8.RuneCountInString(m.Message) > maxMessageRunes:
		return m, &FieldError{Field: "message", Reason: "exceeds 4096 characters"}
	}
	return m, nil
}
