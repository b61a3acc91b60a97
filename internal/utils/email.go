package utils

import (
	"net/mail"
	"strings"

	"github.com/google/uuid"
)

// EmailAddress is a parsed display-name/address pair from a From or To header.
type EmailAddress struct {
	Name    string
	Address string
}

// ParseEmailAddress extracts the display name and address from a raw
// header value. It accepts both bare addresses ("a@b.com") and the
// full form (`"Jane Doe" <a@b.com>`). It never fails: input that does
// not parse is treated as a bare address, and a missing display name
// falls back to the local part of the address.
func ParseEmailAddress(raw string) EmailAddress {
	raw = strings.TrimSpace(raw)

	addr, err := mail.ParseAddress(raw)
	if err != nil {
		return EmailAddress{Name: localPart(raw), Address: raw}
	}

	name := addr.Name
	if name == "" {
		name = localPart(addr.Address)
	}
	return EmailAddress{Name: name, Address: addr.Address}
}

func localPart(address string) string {
	if i := strings.Index(address, "@"); i != -1 {
		return address[:i]
	}
	return address
}

// GetDomainFromEmail extracts the domain part from an email address
func GetDomainFromEmail(email string) string {
	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return ""
	}
	return parts[1]
}

// GenerateItemURL returns a fresh unique slug for a promoted library
// item. Collisions are not a practical concern (random UUID).
func GenerateItemURL() string {
	return "https://library.generated/" + uuid.New().String()
}
