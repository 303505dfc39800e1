package oabtesting

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/forestrie/go-oab/oab"
)

var (
	givenNames = []string{"Alice", "Bob", "Carol", "Dave", "Erin", "Frank", "Grace", "Heidi", "Ivan", "Judy"}
	surnames   = []string{"Smith", "Jones", "Garcia", "Müller", "Nakamura", "Okafor", "Rossi", "Novak"}
	offices    = []string{"HQ", "Madrid", "Zaragoza", "Remote"}
)

type TestGeneratorConfig struct {
	Seed int64
	// Domains are the DNS domains accounts are spread over. Defaults to
	// example.com and example.org.
	Domains []string
	// OUs are the containers accounts are spread over. Defaults to Users and
	// Sales.
	OUs []string
}

// TestGenerator produces deterministic, valid accounts. Repeated parents are
// common by construction so parent table dedup is always exercised.
type TestGenerator struct {
	cfg TestGeneratorConfig
	rng *rand.Rand
}

func NewTestGenerator(cfg TestGeneratorConfig) *TestGenerator {
	if len(cfg.Domains) == 0 {
		cfg.Domains = []string{"example.com", "example.org"}
	}
	if len(cfg.OUs) == 0 {
		cfg.OUs = []string{"Users", "Sales"}
	}
	return &TestGenerator{
		cfg: cfg,
		rng: rand.New(rand.NewSource(cfg.Seed)),
	}
}

// Account returns the i'th generated account. Successive calls advance the
// generator, so only the sequence, not a single call, is reproducible.
func (g *TestGenerator) Account(i int) oab.Account {
	given := givenNames[g.rng.Intn(len(givenNames))]
	sn := surnames[g.rng.Intn(len(surnames))]
	domain := g.cfg.Domains[g.rng.Intn(len(g.cfg.Domains))]
	ou := g.cfg.OUs[g.rng.Intn(len(g.cfg.OUs))]

	acc := oab.Account{
		DN:           fmt.Sprintf("CN=%s %s %d,OU=%s,%s", given, sn, i, ou, DomainDN(domain)),
		Mail:         fmt.Sprintf("%s.%s%d@%s", strings.ToLower(given), strings.ToLower(sn), i, domain),
		Type:         oab.MailUser,
		SendRichInfo: true,
	}
	if i%7 == 6 {
		acc.Type = oab.DistList
		acc.SendRichInfo = false
	}
	if g.rng.Intn(4) != 0 {
		acc.DisplayName = fmt.Sprintf("%s %s", given, sn)
	}
	if g.rng.Intn(2) == 0 {
		acc.Surname = sn
	}
	if g.rng.Intn(3) == 0 {
		acc.Office = offices[g.rng.Intn(len(offices))]
	}
	if g.rng.Intn(5) == 0 {
		acc.Alias = fmt.Sprintf("%s%d", strings.ToLower(given[:1]+sn), i)
	}
	return acc
}

// Accounts returns n generated accounts.
func (g *TestGenerator) Accounts(n int) []oab.Account {
	accounts := make([]oab.Account, 0, n)
	for i := 0; i < n; i++ {
		accounts = append(accounts, g.Account(i))
	}
	return accounts
}

// DomainDN returns the DC= form of a DNS domain, "example.com" ->
// "DC=example,DC=com".
func DomainDN(domain string) string {
	labels := strings.Split(domain, ".")
	for i, l := range labels {
		labels[i] = "DC=" + l
	}
	return strings.Join(labels, ",")
}

// AliceAndBob returns two mail users sharing the parent DC=example,DC=com and
// the mail domain example.com.
func AliceAndBob() []oab.Account {
	return []oab.Account{
		{
			DN:           "CN=Alice,DC=example,DC=com",
			Mail:         "alice@example.com",
			Type:         oab.MailUser,
			SendRichInfo: true,
		},
		{
			DN:           "CN=Bob,DC=example,DC=com",
			Mail:         "bob@example.com",
			Type:         oab.MailUser,
			SendRichInfo: true,
		},
	}
}
