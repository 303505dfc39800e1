package accountsource

import (
	"strings"

	"github.com/forestrie/go-oab/oab"
)

// Entry is one directory object as exported from the directory, before it is
// reduced to an address book account. Field names follow the directory
// attribute names.
type Entry struct {
	DN             string   `yaml:"dn" cbor:"1,keyasint"`
	Mail           string   `yaml:"mail,omitempty" cbor:"2,keyasint,omitempty"`
	ObjectClass    []string `yaml:"objectClass" cbor:"3,keyasint"`
	SAMAccountName string   `yaml:"sAMAccountName,omitempty" cbor:"4,keyasint,omitempty"`
	// SendRichInfo defaults to true when absent.
	SendRichInfo *bool  `yaml:"sendRichInfo,omitempty" cbor:"5,keyasint,omitempty"`
	DisplayName  string `yaml:"displayName,omitempty" cbor:"6,keyasint,omitempty"`
	SN           string `yaml:"sn,omitempty" cbor:"7,keyasint,omitempty"`
	Office       string `yaml:"physicalDeliveryOfficeName,omitempty" cbor:"8,keyasint,omitempty"`
	Alias        string `yaml:"mailNickname,omitempty" cbor:"9,keyasint,omitempty"`
}

// List is the on-disk form of an account export.
type List struct {
	Entries []Entry `yaml:"entries" cbor:"1,keyasint"`
}

// AccountType maps the object classes to an address book type. The first
// "user" or "group" class found decides; ok is false when neither is
// present.
func (e Entry) AccountType() (t oab.AccountType, ok bool) {
	for _, class := range e.ObjectClass {
		switch strings.ToLower(class) {
		case "user":
			return oab.MailUser, true
		case "group":
			return oab.DistList, true
		}
	}
	return 0, false
}

// Account converts the entry. ok is false for entries that have no place in
// the address book: no mail address, or neither a user nor a group.
func (e Entry) Account() (acc oab.Account, ok bool) {
	if e.Mail == "" {
		return oab.Account{}, false
	}
	t, ok := e.AccountType()
	if !ok {
		return oab.Account{}, false
	}
	rich := true
	if e.SendRichInfo != nil {
		rich = *e.SendRichInfo
	}
	return oab.Account{
		DN:           e.DN,
		Mail:         e.Mail,
		Type:         t,
		SendRichInfo: rich,
		DisplayName:  e.DisplayName,
		Surname:      e.SN,
		Office:       e.Office,
		Alias:        e.Alias,
	}, true
}
