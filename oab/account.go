package oab

import (
	"fmt"
	"strings"
)

// Account is a single address book entry as supplied by the directory.
//
// DisplayName, Surname, Office and Alias are optional; the empty string means
// the attribute is absent and no ANR record is emitted for it.
type Account struct {
	DN           string
	Mail         string
	Type         AccountType
	SendRichInfo bool

	DisplayName string
	Surname     string
	Office      string
	Alias       string
}

// Validate checks the separators the record layouts depend on: the DN must
// split into an RDN and a parent name, the RDN must carry a value and the
// mail address must have exactly one "@". No value may contain a NUL byte,
// as every key is stored NUL terminated.
func (a Account) Validate() error {
	if a.Type != MailUser && a.Type != DistList {
		return fmt.Errorf("%w: %d", ErrInvalidAccountType, a.Type)
	}
	if _, _, err := a.dnParts(); err != nil {
		return err
	}
	if _, _, err := a.mailParts(); err != nil {
		return err
	}
	for _, v := range []string{a.DN, a.Mail, a.DisplayName, a.Surname, a.Office, a.Alias} {
		if strings.IndexByte(v, 0) >= 0 {
			return fmt.Errorf("%w: value contains a NUL byte", ErrValidation)
		}
	}
	return nil
}

// RDNKey returns the value of the leaf RDN, "CN=Alice,DC=example" -> "Alice".
func (a Account) RDNKey() (string, error) {
	key, _, err := a.dnParts()
	return key, err
}

// ParentDN returns the DN with its leaf RDN removed.
func (a Account) ParentDN() (string, error) {
	_, parent, err := a.dnParts()
	return parent, err
}

// MailKey returns the local part of the mail address with its "@" kept.
func (a Account) MailKey() (string, error) {
	key, _, err := a.mailParts()
	return key, err
}

// MailDomain returns the part of the mail address after the "@".
func (a Account) MailDomain() (string, error) {
	_, domain, err := a.mailParts()
	return domain, err
}

func (a Account) dnParts() (key string, parent string, err error) {
	rdn, parent, ok := strings.Cut(a.DN, ",")
	if !ok {
		return "", "", fmt.Errorf("%w: dn %q has no parent", ErrValidation, a.DN)
	}
	_, key, ok = strings.Cut(rdn, "=")
	if !ok {
		return "", "", fmt.Errorf("%w: rdn %q has no value", ErrValidation, rdn)
	}
	return key, parent, nil
}

func (a Account) mailParts() (key string, domain string, err error) {
	if strings.Count(a.Mail, "@") != 1 {
		return "", "", fmt.Errorf("%w: mail %q must contain exactly one @", ErrValidation, a.Mail)
	}
	local, domain, _ := strings.Cut(a.Mail, "@")
	return local + "@", domain, nil
}

// anrAttribute is one present ANR attribute of an account.
type anrAttribute struct {
	value   string
	isAlias bool
}

// anrAttributes returns the present attributes in the fixed emission order
// displayName, sn, office, alias.
func (a Account) anrAttributes() []anrAttribute {
	attrs := make([]anrAttribute, 0, 4)
	for _, v := range []string{a.DisplayName, a.Surname, a.Office} {
		if v != "" {
			attrs = append(attrs, anrAttribute{value: v})
		}
	}
	if a.Alias != "" {
		attrs = append(attrs, anrAttribute{value: a.Alias, isAlias: true})
	}
	return attrs
}
