package email

import (
	"bytes"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/mail"
	"strings"
	"testing"
)

func TestMessageBytesWithAttachment(t *testing.T) {
	pdf := bytes.Repeat([]byte("%PDF-1.3 payslip "), 20)
	msg := Message{
		From:    "hr@example.com",
		To:      "jane@example.com",
		Subject: "Payslip for May 2025",
		Body:    "Dear Jane Smith,\n\nPlease find attached your payslip for May 2025.",
		Attachments: []Attachment{{
			Filename:    "Jane Smith_May 2025.pdf",
			ContentType: "application/pdf",
			Content:     pdf,
		}},
	}
	raw, err := msg.Bytes()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	parsed, err := mail.ReadMessage(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("read message: %v", err)
	}
	if parsed.Header.Get("To") != "jane@example.com" {
		t.Fatalf("unexpected To header: %s", parsed.Header.Get("To"))
	}
	subject, err := new(mime.WordDecoder).DecodeHeader(parsed.Header.Get("Subject"))
	if err != nil || subject != "Payslip for May 2025" {
		t.Fatalf("unexpected subject %q (%v)", subject, err)
	}

	mediaType, params, err := mime.ParseMediaType(parsed.Header.Get("Content-Type"))
	if err != nil || mediaType != "multipart/mixed" {
		t.Fatalf("expected multipart/mixed, got %s (%v)", mediaType, err)
	}
	reader := multipart.NewReader(parsed.Body, params["boundary"])

	body, err := reader.NextPart()
	if err != nil {
		t.Fatalf("body part: %v", err)
	}
	text, _ := io.ReadAll(body)
	if !strings.Contains(string(text), "Dear Jane Smith,\r\n\r\nPlease find attached") {
		t.Fatalf("unexpected body: %q", text)
	}

	att, err := reader.NextPart()
	if err != nil {
		t.Fatalf("attachment part: %v", err)
	}
	if att.FileName() != "Jane Smith_May 2025.pdf" {
		t.Fatalf("unexpected filename %q", att.FileName())
	}
	if !strings.HasPrefix(att.Header.Get("Content-Type"), "application/pdf") {
		t.Fatalf("unexpected content type %s", att.Header.Get("Content-Type"))
	}
	// multipart.Part decodes quoted-printable only, so base64 is checked by hand
	encoded, _ := io.ReadAll(att)
	for _, line := range strings.Split(strings.TrimSpace(string(encoded)), "\r\n") {
		if len(line) > 76 {
			t.Fatalf("base64 line longer than 76: %d", len(line))
		}
	}
	decoded, err := decodeBase64Lines(string(encoded))
	if err != nil {
		t.Fatalf("decode attachment: %v", err)
	}
	if !bytes.Equal(decoded, pdf) {
		t.Fatal("attachment content changed in transit")
	}

	if _, err := reader.NextPart(); err != io.EOF {
		t.Fatalf("expected two parts, got %v", err)
	}
}

func TestMessageBytesPlain(t *testing.T) {
	raw, err := Message{From: "a@example.com", To: "b@example.com", Subject: "hi", Body: "line1\nline2"}.Bytes()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(string(raw), "Content-Type: text/plain") {
		t.Fatal("expected text/plain message")
	}
	if !strings.HasSuffix(string(raw), "\r\n\r\nline1\r\nline2") {
		t.Fatalf("unexpected body encoding: %q", raw)
	}
}

func TestMessageValidation(t *testing.T) {
	if _, err := (Message{From: "a@example.com", To: "  "}).Bytes(); !errors.Is(err, ErrNoRecipient) {
		t.Fatalf("expected ErrNoRecipient, got %v", err)
	}
	if _, err := (Message{To: "b@example.com", Subject: "x\r\nBcc: evil@example.com"}).Bytes(); err == nil {
		t.Fatal("expected header injection to be rejected")
	}
}
