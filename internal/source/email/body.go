package email

import (
	"encoding/base64"
	"io"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/mail"
	"regexp"
	"strings"
)

// bodyText extracts a plain-text view of an RFC822 message: transfer
// encodings decoded, multipart walked with a preference for text/* parts.
// It is best-effort; on any parse trouble it falls back to the raw bytes, so
// a weirdly encoded alert degrades rather than fails.
func bodyText(raw []byte) string {
	msg, err := mail.ReadMessage(strings.NewReader(string(raw)))
	if err != nil {
		return string(raw)
	}

	ct := msg.Header.Get("Content-Type")
	cte := msg.Header.Get("Content-Transfer-Encoding")

	mediaType, params, err := mime.ParseMediaType(ct)
	if err != nil {
		mediaType = "text/plain"
	}

	if strings.HasPrefix(mediaType, "multipart/") {
		if boundary := params["boundary"]; boundary != "" {
			if text := multipartText(msg.Body, boundary); text != "" {
				return text
			}
		}
	}

	b, err := io.ReadAll(decodeTransfer(msg.Body, cte))
	if err != nil {
		return ""
	}
	return string(b)
}

func multipartText(r io.Reader, boundary string) string {
	mr := multipart.NewReader(r, boundary)
	var sb strings.Builder
	for {
		part, err := mr.NextPart()
		if err != nil {
			break
		}

		ct := part.Header.Get("Content-Type")
		mediaType, params, mErr := mime.ParseMediaType(ct)
		if mErr != nil {
			mediaType = "text/plain"
		}

		switch {
		case strings.HasPrefix(mediaType, "multipart/"):
			if boundary := params["boundary"]; boundary != "" {
				sb.WriteString(multipartText(part, boundary))
			}
		case strings.HasPrefix(mediaType, "text/"):
			b, rErr := io.ReadAll(decodeTransfer(part, part.Header.Get("Content-Transfer-Encoding")))
			if rErr == nil {
				sb.Write(b)
				sb.WriteString("\n")
			}
		}
	}
	return sb.String()
}

func decodeTransfer(r io.Reader, encoding string) io.Reader {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "quoted-printable":
		return quotedprintable.NewReader(r)
	case "base64":
		return base64.NewDecoder(base64.StdEncoding, r)
	default:
		return r
	}
}

var urlPattern = regexp.MustCompile(`https?://[^\s"'<>\)\]]+`)

// extractURLs pulls every http(s) URL out of a text blob, preserving first
// occurrence order and dropping duplicates.
func extractURLs(text string) []string {
	matches := urlPattern.FindAllString(text, -1)
	seen := make(map[string]bool, len(matches))
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		m = strings.TrimRight(m, ".,;")
		if seen[m] {
			continue
		}
		seen[m] = true
		out = append(out, m)
	}
	return out
}

// junk link fragments that show up in every alert template
var junkURLFragments = []string{
	"unsubscribe",
	"preferences",
	"manage-preferences",
	"email-preferences",
	"privacy",
	"terms",
	"view-in-browser",
	"viewaswebpage",
	"tracking",
	"pixel",
	"beacon",
	"/alerts",
	"/settings",
	"/help",
	"/legal",
}

// looksLikeJobURL keeps only links that plausibly point at a posting.
func looksLikeJobURL(u string) bool {
	lu := strings.ToLower(u)
	for _, junk := range junkURLFragments {
		if strings.Contains(lu, junk) {
			return false
		}
	}
	return strings.Contains(lu, "/job") ||
		strings.Contains(lu, "/jobs") ||
		strings.Contains(lu, "/careers") ||
		strings.Contains(lu, "greenhouse.io") ||
		strings.Contains(lu, "lever.co") ||
		strings.Contains(lu, "smartrecruiters.com") ||
		strings.Contains(lu, "myworkdayjobs")
}

// senderDomain derives the stable company key for an alert: the domain of
// the first sender address.
func senderDomain(from string) string {
	from = strings.TrimSpace(from)
	if i := strings.IndexByte(from, ','); i >= 0 {
		from = from[:i]
	}
	if i := strings.LastIndexByte(from, '@'); i >= 0 {
		return strings.ToLower(strings.TrimSpace(from[i+1:]))
	}
	return strings.ToLower(from)
}

func containsAnyCI(s string, needles []string) bool {
	ls := strings.ToLower(s)
	for _, n := range needles {
		n = strings.ToLower(strings.TrimSpace(n))
		if n == "" {
			continue
		}
		if strings.Contains(ls, n) {
			return true
		}
	}
	return false
}
